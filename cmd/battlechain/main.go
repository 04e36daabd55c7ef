package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/uzochukwuV/massabeam/internal/api"
	"github.com/uzochukwuV/massabeam/internal/constants"
	"github.com/uzochukwuV/massabeam/internal/events"
	"github.com/uzochukwuV/massabeam/internal/logging"
	"github.com/uzochukwuV/massabeam/internal/service"
	"github.com/uzochukwuV/massabeam/internal/settlement"
	"github.com/uzochukwuV/massabeam/internal/version"
)

func main() {
	// Path may be provided via BATTLECHAIN_CONFIG or defaults to
	// ./battlechain_config.json in the current working directory.
	configPath := os.Getenv(constants.EnvConfigPath)
	if configPath == "" {
		configPath = constants.DefaultConfigPath
	}
	cfg := loadConfigOrExit(configPath)
	logging.SetLevel(cfg.LogLevel)
	if os.Getenv(constants.EnvSessionSecret) == "" {
		logging.Warn("SESSION_SECRET not set; using an in-memory secret", nil)
	}

	repo := createRepositoryOrExit(cfg.DBPath)
	hub := events.NewHub()
	publisher, closePublisher := buildPublisher(cfg, hub)
	defer closePublisher()

	svc := service.New(repo, publisher, settlement.LogSettler{}, serviceConfig(cfg))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	if cfg.KeeperEnabled {
		startForfeitKeeper(ctx, svc, cfg.KeeperInterval)
	}

	gin.SetMode(gin.ReleaseMode)
	router := api.NewRouter(api.NewHandler(svc, hub, cfg.DevAuth))
	srv := &http.Server{Addr: cfg.ServerAddress, Handler: router, ReadHeaderTimeout: 10 * time.Second}

	go func() {
		logging.Info("Server started", logging.Fields{constants.LogFieldAddr: cfg.ServerAddress, "version": version.String()})
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logging.Fatal("Failed to start server", err, nil)
		}
	}()

	<-ctx.Done()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logging.Error("graceful shutdown failed", err, nil)
	}
	logging.Info("Server stopped", nil)
}
