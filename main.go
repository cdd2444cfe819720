package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/lumihub/lumi-gateway/internal/audio"
	"github.com/lumihub/lumi-gateway/internal/config"
	"github.com/lumihub/lumi-gateway/internal/engine"
	"github.com/lumihub/lumi-gateway/internal/logging"
	"github.com/lumihub/lumi-gateway/internal/orchestrator"
	"github.com/lumihub/lumi-gateway/internal/scheduler"
	"github.com/lumihub/lumi-gateway/internal/server"
	"github.com/lumihub/lumi-gateway/internal/session"
	"github.com/lumihub/lumi-gateway/internal/tts"
	"github.com/lumihub/lumi-gateway/internal/version"
)

func main() {
	configPath := flag.String("config", "config.yaml", "Path to configuration file")
	flag.Parse()

	logger := logging.WithComponent("main")
	logger.Info("Starting Lumi-Gateway", "version", version.Resolve())

	cfg, err := config.Load(*configPath)
	if err != nil {
		logger.Error("Failed to load config", "error", err)
		os.Exit(1)
	}
	if err := cfg.Validate(); err != nil {
		logger.Error("Invalid config", "error", err)
		os.Exit(1)
	}
	logging.Setup(cfg.Logging.Level)
	logger = logging.WithComponent("main")

	sessions, err := newSessionStore(cfg)
	if err != nil {
		logger.Error("Failed to create session store", "error", err)
		os.Exit(1)
	}
	defer sessions.Close()

	blobs := audio.NewStore()
	synth := tts.NewSynthesizer(&cfg.TTS, blobs, logging.WithComponent("tts"))
	runner := engine.NewClient(&cfg.Engine)
	orch := orchestrator.New(runner, sessions, synth, logging.WithComponent("orchestrator"))

	janitor := scheduler.NewJanitor(blobs, cfg.Audio.GetRetention(), logging.WithComponent("janitor"))
	janitor.Start()
	defer janitor.Stop()

	srv := server.New(cfg, orch, blobs, logging.WithComponent("server"))

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Start()
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigCh:
		logger.Info("Shutting down", "signal", sig.String())
	case err := <-errCh:
		logger.Error("HTTP server failed", "error", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("Shutdown failed", "error", err)
	}
	logger.Info("Shutdown complete")
}

func newSessionStore(cfg *config.Config) (session.Store, error) {
	switch cfg.Session.Store {
	case "redis":
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.Session.Redis.Addr,
			Password: cfg.Session.Redis.Password,
			DB:       cfg.Session.Redis.DB,
		})
		return session.NewStore(session.StoreTypeRedis,
			session.WithRedisClient(client),
			session.WithRedisTTL(cfg.Session.Redis.GetTTL()),
		)
	default:
		return session.NewStore(session.StoreTypeMemory)
	}
}
