package main

import (
	"context"
	"errors"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/streamgrab/streamgrab/internal/api"
	"github.com/streamgrab/streamgrab/internal/config"
	"github.com/streamgrab/streamgrab/internal/logger"
	"github.com/streamgrab/streamgrab/internal/websocket"
)

func main() {
	// Optional .env for local development; real deployments use
	// STREAMGRAB_* environment variables or a config file.
	_ = godotenv.Load()

	configPath := flag.String("config", "", "Path to config file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	// Buffer recent log entries and stream them to connected clients.
	logStream := logger.NewLogBroadcaster(nil, 1000)

	log := logger.New(logger.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Path:   cfg.Logging.Path,
	}, logStream)
	defer log.Close()

	log.Info().
		Str("address", cfg.Server.Address()).
		Str("logLevel", cfg.Logging.Level).
		Msg("starting streamgrab")

	hub := websocket.NewHub()
	logStream.SetHub(hub)
	go hub.Run()

	server := api.NewServer(hub, cfg, logStream, log.Logger)

	errCh := make(chan error, 1)
	go func() {
		if err := server.Start(cfg.Server.Address()); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-errCh:
		log.Fatal().Err(err).Msg("server failed")
	case sig := <-quit:
		log.Info().Str("signal", sig.String()).Msg("shutting down")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("graceful shutdown failed")
	}
}
