package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestPort_Default(t *testing.T) {
	os.Unsetenv(EnvPort)

	cfg, err := New()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Port() != DefaultPort {
		t.Errorf("default Port = %d, want %d", cfg.Port(), DefaultPort)
	}
}

func TestPort_FromEnv(t *testing.T) {
	os.Setenv(EnvPort, "9000")
	defer os.Unsetenv(EnvPort)

	cfg, err := New()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Port() != 9000 {
		t.Errorf("Port = %d, want 9000", cfg.Port())
	}
}

func TestPort_Invalid(t *testing.T) {
	os.Setenv(EnvPort, "not-a-number")
	defer os.Unsetenv(EnvPort)

	if _, err := New(); err == nil {
		t.Fatal("expected error for invalid port")
	}
}

func TestPort_OutOfRange(t *testing.T) {
	os.Setenv(EnvPort, "70000")
	defer os.Unsetenv(EnvPort)

	if _, err := New(); err == nil {
		t.Fatal("expected error for out-of-range port")
	}
}

func TestDBPath_UsesDataDir(t *testing.T) {
	os.Setenv(EnvDataDir, "/tmp/reelsmith-test")
	defer os.Unsetenv(EnvDataDir)

	cfg, err := New()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := filepath.Join("/tmp/reelsmith-test", DBFilename)
	if cfg.DBPath() != want {
		t.Errorf("DBPath = %q, want %q", cfg.DBPath(), want)
	}
}

func TestLLMEnabled(t *testing.T) {
	os.Unsetenv(EnvLLMAPIKey)
	cfg, err := New()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.LLMEnabled() {
		t.Error("LLMEnabled = true without an API key")
	}

	os.Setenv(EnvLLMAPIKey, "sk-test")
	defer os.Unsetenv(EnvLLMAPIKey)
	cfg, err = New()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !cfg.LLMEnabled() {
		t.Error("LLMEnabled = false with an API key set")
	}
}

func TestConfigFile_Merged(t *testing.T) {
	dir := t.TempDir()
	content := `
port = 9100
log_level = "debug"

[llm]
model = "test-model"
timeout_seconds = 30

[stock]
api_key = "px-key"
`
	if err := os.WriteFile(filepath.Join(dir, ConfigFilename), []byte(content), 0644); err != nil {
		t.Fatalf("write config file: %v", err)
	}

	os.Setenv(EnvDataDir, dir)
	defer os.Unsetenv(EnvDataDir)
	os.Unsetenv(EnvPort)
	os.Unsetenv(EnvLogLevel)

	cfg, err := New()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Port() != 9100 {
		t.Errorf("Port = %d, want 9100", cfg.Port())
	}
	if cfg.LogLevel() != "debug" {
		t.Errorf("LogLevel = %q, want debug", cfg.LogLevel())
	}
	if cfg.LLMModel() != "test-model" {
		t.Errorf("LLMModel = %q, want test-model", cfg.LLMModel())
	}
	if cfg.LLMTimeout().Seconds() != 30 {
		t.Errorf("LLMTimeout = %v, want 30s", cfg.LLMTimeout())
	}
	if cfg.StockAPIKey() != "px-key" {
		t.Errorf("StockAPIKey = %q, want px-key", cfg.StockAPIKey())
	}
}

func TestConfigFile_EnvWins(t *testing.T) {
	dir := t.TempDir()
	content := "port = 9100\n"
	if err := os.WriteFile(filepath.Join(dir, ConfigFilename), []byte(content), 0644); err != nil {
		t.Fatalf("write config file: %v", err)
	}

	os.Setenv(EnvDataDir, dir)
	os.Setenv(EnvPort, "9200")
	defer os.Unsetenv(EnvDataDir)
	defer os.Unsetenv(EnvPort)

	cfg, err := New()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Port() != 9200 {
		t.Errorf("Port = %d, want 9200 (env should override file)", cfg.Port())
	}
}

func TestConfigFile_Malformed(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, ConfigFilename), []byte("port = ["), 0644); err != nil {
		t.Fatalf("write config file: %v", err)
	}

	os.Setenv(EnvDataDir, dir)
	defer os.Unsetenv(EnvDataDir)

	if _, err := New(); err == nil {
		t.Fatal("expected error for malformed config file")
	}
}
