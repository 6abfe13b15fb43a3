package main

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/reelsmith/reelsmith-agent/internal/analysis"
	"github.com/reelsmith/reelsmith-agent/internal/api"
	"github.com/reelsmith/reelsmith-agent/internal/audio"
	"github.com/reelsmith/reelsmith-agent/internal/config"
	"github.com/reelsmith/reelsmith-agent/internal/db"
	"github.com/reelsmith/reelsmith-agent/internal/llm"
	"github.com/reelsmith/reelsmith-agent/internal/logging"
	"github.com/reelsmith/reelsmith-agent/internal/stock"
	"github.com/reelsmith/reelsmith-agent/internal/store"
	"github.com/reelsmith/reelsmith-agent/internal/visual"
)

func main() {
	if err := run(); err != nil {
		log.Fatalf("fatal error: %v", err)
	}
}

func run() error {
	startTime := time.Now()

	cfg, err := config.New()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	if err := os.MkdirAll(cfg.DataDir(), 0755); err != nil {
		return fmt.Errorf("failed to create data dir: %w", err)
	}

	logger := logging.NewLogger(cfg.LogLevel())
	logger.Info("starting reelsmith agent", "version", config.Version, "data_dir", logging.SanitizePath(cfg.DataDir()))

	database, err := db.New(cfg.DBPath(), logger)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	defer database.Close()

	repo := store.NewRepository(database.Conn())

	authToken, err := ensureAuthToken(repo)
	if err != nil {
		return fmt.Errorf("failed to ensure auth token: %w", err)
	}

	fmt.Println()
	fmt.Println("╔═══════════════════════════════════════════════════════════╗")
	fmt.Printf("║                  REELSMITH AGENT v%-6s                  ║\n", config.Version)
	fmt.Println("╠═══════════════════════════════════════════════════════════╣")
	fmt.Printf("║  API URL:    http://127.0.0.1:%-27d ║\n", cfg.Port())
	fmt.Printf("║  Auth Token: %-45s ║\n", authToken)
	fmt.Println("╚═══════════════════════════════════════════════════════════╝")
	fmt.Println()

	decoder := audio.NewDecoder(cfg.FFmpegPath(), logger)
	probeCtx, probeCancel := context.WithTimeout(context.Background(), 5*time.Second)
	if err := decoder.CheckFFmpeg(probeCtx); err != nil {
		logger.Warn("ffmpeg not available, only WAV uploads will decode", "error", err)
	}
	probeCancel()

	analyzer := analysis.NewAnalyzer(decoder, logger)

	var describer visual.Describer
	if cfg.LLMEnabled() {
		describer = llm.NewClient(llm.Config{
			APIKey:         cfg.LLMAPIKey(),
			BaseURL:        cfg.LLMBaseURL(),
			Model:          cfg.LLMModel(),
			TimeoutSeconds: int(cfg.LLMTimeout().Seconds()),
		})
		logger.Info("llm descriptions enabled", "model", cfg.LLMModel())
	} else {
		logger.Info("llm descriptions disabled, using templates")
	}

	sheet := visual.NewCheatsheet(repo, logger)
	mapper := visual.NewMapper(sheet, describer, nil, logger)

	var stockClient *stock.Client
	if cfg.StockAPIKey() != "" {
		stockClient = stock.NewClient(cfg.StockBaseURL(), cfg.StockAPIKey(), logger)
		logger.Info("stock footage search enabled", "base_url", cfg.StockBaseURL())
	}

	apiServer := api.NewServer(api.ServerConfig{
		Port:       cfg.Port(),
		Repository: repo,
		Analyzer:   analyzer,
		Mapper:     mapper,
		Sheet:      sheet,
		Stock:      stockClient,
		LLMEnabled: cfg.LLMEnabled(),
		Logger:     logger,
		StartTime:  startTime,
	})

	go func() {
		if err := apiServer.Start(); err != nil {
			logger.Error("HTTP server error", "error", err)
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	sig := <-sigCh
	logger.Info("received shutdown signal", "signal", sig)

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := apiServer.Shutdown(shutdownCtx); err != nil {
		logger.Error("failed to shutdown HTTP server", "error", err)
	}

	logger.Info("shutdown complete")
	return nil
}

func ensureAuthToken(repo store.Repository) (string, error) {
	ctx := context.Background()

	existing, err := repo.GetConfig(ctx, api.AuthTokenKey)
	if err == nil && existing != "" {
		return existing, nil
	}

	tokenBytes := make([]byte, 32)
	if _, err := rand.Read(tokenBytes); err != nil {
		return "", err
	}
	token := hex.EncodeToString(tokenBytes)

	if err := repo.SetConfig(ctx, api.AuthTokenKey, token); err != nil {
		return "", err
	}

	return token, nil
}
