package main

import (
	"log"
	"log/slog"
	"net/http"
	"time"

	"github.com/joho/godotenv"

	"portfolio/internal/app"
	"portfolio/internal/config"
	"portfolio/internal/server"
	"portfolio/internal/util"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load(config.ConfigPath)
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}
	contactWindow, err := config.ParseWindow(cfg.ContactRateWindow, 15*time.Minute)
	if err != nil {
		log.Fatalf("failed to parse contact rate window: %v", err)
	}
	subscribeWindow, err := config.ParseWindow(cfg.SubscribeRateWindow, time.Hour)
	if err != nil {
		log.Fatalf("failed to parse subscribe rate window: %v", err)
	}
	voteWindow, err := config.ParseWindow(cfg.VoteRateWindow, 24*time.Hour)
	if err != nil {
		log.Fatalf("failed to parse vote rate window: %v", err)
	}

	logger := util.InitLogger(cfg.LogLevel)

	appCore, err := app.New(app.Config{
		DatabaseURL: cfg.DatabaseURL,
	})
	if err != nil {
		log.Fatalf("failed to init app: %v", err)
	}

	httpServer, err := server.New(server.Config{
		App:                 appCore,
		RedisAddr:           cfg.RedisAddr,
		RedisPassword:       cfg.RedisPassword,
		TrustedProxyCIDRs:   cfg.TrustedProxyCIDRs,
		ContactRateLimit:    cfg.ContactRateLimit,
		ContactRateWindow:   contactWindow,
		SubscribeRateLimit:  cfg.SubscribeRateLimit,
		SubscribeRateWindow: subscribeWindow,
		VoteRateLimit:       cfg.VoteRateLimit,
		VoteRateWindow:      voteWindow,
	})
	if err != nil {
		log.Fatalf("failed to init server: %v", err)
	}

	addr := ":" + cfg.Port
	srv := &http.Server{
		Addr:         addr,
		Handler:      httpServer.Router(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	slog.Info("server listening", "addr", addr)
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Error("server error", "err", err)
	}
}
