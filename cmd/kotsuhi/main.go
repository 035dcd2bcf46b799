package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"kotsuhi/internal/backend"
	"kotsuhi/internal/config"
	"kotsuhi/internal/directory"
	apphttp "kotsuhi/internal/http"
	"kotsuhi/internal/ledger/cached"
	applog "kotsuhi/internal/log"
	"kotsuhi/internal/notify"
	"kotsuhi/internal/services"

	"github.com/joho/godotenv"
)

func main() {
	// .env is optional; real deployments set the environment directly.
	_ = godotenv.Load()

	logger := applog.New(slog.LevelInfo, applog.ComponentApp)
	applog.SetDefault(logger)

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		logger.Error("Invalid configuration", applog.FieldError, err)
		os.Exit(1)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	backendCfg, err := backend.FromAppConfig(cfg)
	if err != nil {
		logger.Error("Invalid backend configuration", applog.FieldError, err)
		os.Exit(1)
	}
	result, err := backend.NewFactory(logger).CreateBackend(ctx, backendCfg)
	if err != nil {
		logger.Error("Failed to initialize backend",
			applog.FieldBackend, cfg.DataBackend, applog.FieldError, err)
		os.Exit(1)
	}
	if result.Cleanup != nil {
		defer func() {
			if err := result.Cleanup(); err != nil {
				logger.Error("Backend cleanup failed", applog.FieldError, err)
			}
		}()
	}

	store := cached.New(result.Store, cfg.CacheTTL)

	// Notifications are optional: without AMQP_URL the service runs with a
	// nil publisher.
	var publisher *notify.Publisher
	if cfg.AMQPURL != "" {
		publisher, err = notify.NewPublisher(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
		if err != nil {
			logger.Warn("Failed to initialize AMQP publisher, continuing without notifications",
				applog.FieldError, err)
		} else {
			logger.Info("Initialized AMQP publisher",
				"exchange", cfg.AMQPExchange, "queue", cfg.AMQPQueue)
		}
	}

	people, err := directory.Load(cfg.PeopleFile)
	if err != nil {
		logger.Error("Failed to load person directory",
			"path", cfg.PeopleFile, applog.FieldError, err)
		os.Exit(1)
	}
	if len(people.People()) == 0 {
		logger.Warn("Person directory is empty, every request will be denied",
			"path", cfg.PeopleFile)
	}

	svc := services.NewLedgerService(store, publisher, logger)
	defer func() {
		if err := svc.Close(); err != nil {
			logger.Error("Service close failed", applog.FieldError, err)
		}
	}()

	srv := apphttp.NewServer(":"+cfg.Port, svc, people, cfg.AdminSecret, logger)
	srv.ReadTimeout = 10 * time.Second
	srv.WriteTimeout = 10 * time.Second
	srv.IdleTimeout = 60 * time.Second
	srv.MaxHeaderBytes = 1 << 16 // 64KB

	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		sig := <-sigChan
		logger.Info("Shutdown signal received", "signal", sig.String())

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer shutdownCancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Error("Server shutdown error", applog.FieldError, err)
		}
		cancel()
	}()

	logger.Info("Starting kotsuhi server",
		"port", cfg.Port, applog.FieldBackend, cfg.DataBackend, "cache_ttl", cfg.CacheTTL)
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Error("Server error", applog.FieldError, err, "port", cfg.Port)
		os.Exit(1)
	}

	<-ctx.Done()
	logger.Info("Server stopped gracefully")
}
