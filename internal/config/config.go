// Package config provides configuration management for the Reelsmith Agent.
// Configuration is loaded from an optional TOML file in the data directory,
// with environment variable overrides and sensible defaults.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/pelletier/go-toml/v2"
)

const (
	// Default values
	DefaultPort     = 8790
	DefaultLogLevel = "info"
	DefaultDataDir  = ".reelsmith"

	// Environment variable names
	EnvPort     = "REELSMITH_PORT"
	EnvLogLevel = "REELSMITH_LOG_LEVEL"
	EnvDataDir  = "REELSMITH_DATA_DIR"

	EnvLLMAPIKey  = "REELSMITH_LLM_API_KEY"
	EnvLLMBaseURL = "REELSMITH_LLM_BASE_URL"
	EnvLLMModel   = "REELSMITH_LLM_MODEL"

	EnvStockAPIKey  = "REELSMITH_STOCK_API_KEY"
	EnvStockBaseURL = "REELSMITH_STOCK_BASE_URL"

	EnvFFmpegPath = "REELSMITH_FFMPEG_PATH"

	// Database filename
	DBFilename = "reelsmith.db"

	// Config filename inside the data directory
	ConfigFilename = "config.toml"

	// External service defaults
	DefaultLLMModel          = "gemini-2.0-flash"
	DefaultLLMTimeoutSeconds = 15
	DefaultStockBaseURL      = "https://api.pexels.com/videos"
	DefaultStockTimeout      = 10 // seconds
	DefaultFFmpegPath        = "ffmpeg"
)

// Config defines the application configuration interface
type Config interface {
	Port() int
	LogLevel() string
	DataDir() string
	DBPath() string
	LLMAPIKey() string
	LLMBaseURL() string
	LLMModel() string
	LLMTimeout() time.Duration
	LLMEnabled() bool
	StockAPIKey() string
	StockBaseURL() string
	StockTimeout() time.Duration
	FFmpegPath() string
}

// fileConfig mirrors the optional config.toml layout.
type fileConfig struct {
	Port     int    `toml:"port"`
	LogLevel string `toml:"log_level"`

	LLM struct {
		APIKey         string `toml:"api_key"`
		BaseURL        string `toml:"base_url"`
		Model          string `toml:"model"`
		TimeoutSeconds int    `toml:"timeout_seconds"`
	} `toml:"llm"`

	Stock struct {
		APIKey  string `toml:"api_key"`
		BaseURL string `toml:"base_url"`
	} `toml:"stock"`

	FFmpegPath string `toml:"ffmpeg_path"`
}

// EnvConfig reads configuration from the TOML file and environment variables
type EnvConfig struct {
	port       int
	logLevel   string
	dataDir    string
	llmAPIKey  string
	llmBaseURL string
	llmModel   string
	llmTimeout time.Duration

	stockAPIKey  string
	stockBaseURL string

	ffmpegPath string
}

// New creates a new EnvConfig with defaults, config file values, and
// environment variable overrides, in increasing order of precedence.
func New() (*EnvConfig, error) {
	cfg := &EnvConfig{
		port:         DefaultPort,
		logLevel:     DefaultLogLevel,
		dataDir:      defaultDataDir(),
		llmModel:     DefaultLLMModel,
		llmTimeout:   DefaultLLMTimeoutSeconds * time.Second,
		stockBaseURL: DefaultStockBaseURL,
		ffmpegPath:   DefaultFFmpegPath,
	}

	// Data dir must resolve before the config file can be located.
	if dd := os.Getenv(EnvDataDir); dd != "" {
		cfg.dataDir = dd
	}

	if err := cfg.loadFile(filepath.Join(cfg.dataDir, ConfigFilename)); err != nil {
		return nil, err
	}

	// Override port from environment
	if p := os.Getenv(EnvPort); p != "" {
		port, err := strconv.Atoi(p)
		if err != nil {
			return nil, fmt.Errorf("invalid %s: %w", EnvPort, err)
		}
		if port < 1 || port > 65535 {
			return nil, fmt.Errorf("invalid %s: port must be between 1 and 65535", EnvPort)
		}
		cfg.port = port
	}

	if ll := os.Getenv(EnvLogLevel); ll != "" {
		cfg.logLevel = ll
	}
	if v := os.Getenv(EnvLLMAPIKey); v != "" {
		cfg.llmAPIKey = v
	}
	if v := os.Getenv(EnvLLMBaseURL); v != "" {
		cfg.llmBaseURL = v
	}
	if v := os.Getenv(EnvLLMModel); v != "" {
		cfg.llmModel = v
	}
	if v := os.Getenv(EnvStockAPIKey); v != "" {
		cfg.stockAPIKey = v
	}
	if v := os.Getenv(EnvStockBaseURL); v != "" {
		cfg.stockBaseURL = v
	}
	if v := os.Getenv(EnvFFmpegPath); v != "" {
		cfg.ffmpegPath = v
	}

	return cfg, nil
}

// loadFile merges values from the TOML config file. A missing file is not an
// error; a malformed one is.
func (c *EnvConfig) loadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("read config file: %w", err)
	}

	var fc fileConfig
	if err := toml.Unmarshal(data, &fc); err != nil {
		return fmt.Errorf("parse %s: %w", path, err)
	}

	if fc.Port != 0 {
		if fc.Port < 1 || fc.Port > 65535 {
			return fmt.Errorf("invalid port in %s: must be between 1 and 65535", path)
		}
		c.port = fc.Port
	}
	if fc.LogLevel != "" {
		c.logLevel = fc.LogLevel
	}
	if fc.LLM.APIKey != "" {
		c.llmAPIKey = fc.LLM.APIKey
	}
	if fc.LLM.BaseURL != "" {
		c.llmBaseURL = fc.LLM.BaseURL
	}
	if fc.LLM.Model != "" {
		c.llmModel = fc.LLM.Model
	}
	if fc.LLM.TimeoutSeconds > 0 {
		c.llmTimeout = time.Duration(fc.LLM.TimeoutSeconds) * time.Second
	}
	if fc.Stock.APIKey != "" {
		c.stockAPIKey = fc.Stock.APIKey
	}
	if fc.Stock.BaseURL != "" {
		c.stockBaseURL = fc.Stock.BaseURL
	}
	if fc.FFmpegPath != "" {
		c.ffmpegPath = fc.FFmpegPath
	}
	return nil
}

// Port returns the HTTP server port
func (c *EnvConfig) Port() int {
	return c.port
}

// LogLevel returns the log level (debug, info, warn, error)
func (c *EnvConfig) LogLevel() string {
	return c.logLevel
}

// DataDir returns the data directory path
func (c *EnvConfig) DataDir() string {
	return c.dataDir
}

// DBPath returns the full path to the SQLite database file
func (c *EnvConfig) DBPath() string {
	return filepath.Join(c.dataDir, DBFilename)
}

func (c *EnvConfig) LLMAPIKey() string {
	return c.llmAPIKey
}

func (c *EnvConfig) LLMBaseURL() string {
	return c.llmBaseURL
}

func (c *EnvConfig) LLMModel() string {
	return c.llmModel
}

func (c *EnvConfig) LLMTimeout() time.Duration {
	return c.llmTimeout
}

// LLMEnabled reports whether description phrasing via the LLM is configured.
// Without an API key the visual mapper uses templated descriptions only.
func (c *EnvConfig) LLMEnabled() bool {
	return c.llmAPIKey != ""
}

func (c *EnvConfig) StockAPIKey() string {
	return c.stockAPIKey
}

func (c *EnvConfig) StockBaseURL() string {
	return c.stockBaseURL
}

func (c *EnvConfig) StockTimeout() time.Duration {
	return DefaultStockTimeout * time.Second
}

func (c *EnvConfig) FFmpegPath() string {
	return c.ffmpegPath
}

// defaultDataDir returns the default data directory path
func defaultDataDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		// Fallback to current directory if home is not available
		return DefaultDataDir
	}
	return filepath.Join(home, DefaultDataDir)
}

// Version information (set at build time via ldflags)
var (
	Version   = "0.1.0"
	BuildTime = "unknown"
	GitCommit = "unknown"
)
