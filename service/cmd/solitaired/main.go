package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jason-s-yu/solitaire/engine/games"
	"github.com/jason-s-yu/solitaire/service/internal/cache"
	"github.com/jason-s-yu/solitaire/service/internal/config"
	"github.com/jason-s-yu/solitaire/service/internal/game"
	"github.com/jason-s-yu/solitaire/service/internal/ws"
	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logrus.WithError(err).Fatal("failed to load config")
	}

	logger := logrus.New()
	logger.SetFormatter(&logrus.JSONFormatter{})
	logger.SetLevel(cfg.LogLevel)
	log := logrus.NewEntry(logger)

	reg := games.Default()
	if _, ok := reg.Lookup(cfg.DefaultGame); !ok {
		log.WithField("game", cfg.DefaultGame).Fatalf("unknown DEFAULT_GAME, want one of %v", reg.IDs())
	}

	var historian game.Historian
	if cfg.RedisURL != "" {
		rdb, err := cache.Connect(cfg.RedisURL)
		if err != nil {
			log.WithError(err).Fatal("invalid REDIS_URL")
		}
		defer rdb.Close()
		pingCtx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		if err := rdb.Ping(pingCtx); err != nil {
			log.WithError(err).Warn("redis unreachable, move records will be dropped until it recovers")
		}
		cancel()
		historian = rdb
	}

	srv := ws.NewServer(reg, ws.Settings{
		DefaultGame:   cfg.DefaultGame,
		SmartTap:      cfg.SmartTap,
		AutoPlay:      cfg.AutoPlay,
		FeedbackDelay: cfg.FeedbackDelay,
		DragThreshold: cfg.DragThreshold,
	}, historian, log)
	defer srv.Close()

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Use(ws.RequestIDMiddleware())
	e.Use(ws.LoggingMiddleware(log))
	srv.Register(e)

	// Graceful shutdown.
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		log.WithField("addr", cfg.HTTPAddr).Info("starting server")
		if err := e.Start(cfg.HTTPAddr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.WithError(err).Error("server error")
			stop()
		}
	}()

	<-ctx.Done()
	log.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.WithError(err).Error("shutdown error")
	}
}
