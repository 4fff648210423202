package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"subtracker/internal/config"
	"subtracker/internal/currency"
	"subtracker/internal/db"
	"subtracker/internal/handlers"
	"subtracker/internal/logger"
	"subtracker/internal/rates"
	"subtracker/internal/services"
	"subtracker/internal/store"
	"subtracker/internal/websocket"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	log := logger.New(cfg.LogLevel)
	if err := run(cfg, log); err != nil {
		log.Error("server stopped", "error", err)
		os.Exit(1)
	}
}

func run(cfg config.Config, log *slog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	database, err := db.Connect(ctx, cfg.DatabaseURL)
	if err != nil {
		return fmt.Errorf("connect database: %w", err)
	}
	defer database.Close()

	users := store.NewUserStore(database)
	subscriptionStore := store.NewSubscriptionStore(database)
	archives := store.NewArchiveStore(database)
	exchange := store.NewExchangeStore(database)
	audit := store.NewAuditStore(database)
	txRunner := db.NewTxRunner(database)
	hub := websocket.NewHub()

	normalizer := currency.NewNormalizer(cfg.Currency.Reference, cfg.Currency.Fallback)
	subscriptions := services.NewSubscriptionService(txRunner, subscriptionStore, audit, hub, cfg.Currency.Default, log)
	archiver := services.NewArchiveService(txRunner, subscriptionStore, archives, audit, hub, log)
	dashboard := services.NewDashboardService(subscriptionStore, archives, exchange, normalizer, log)

	refresher := rates.NewRefresher(
		rates.NewClient(cfg.Rates.SourceURL, cfg.Rates.FetchTimeout),
		txRunner, exchange, audit, hub,
		rates.Settings{
			Reference:    cfg.Currency.Reference,
			BaseCurrency: cfg.Rates.BaseCurrency,
			Currencies:   cfg.Rates.Currencies,
		},
		log,
	)
	if cfg.Rates.RefreshInterval > 0 {
		scheduler, err := rates.NewScheduler(refresher, cfg.Rates.RefreshInterval, cfg.Rates.FetchTimeout, log)
		if err != nil {
			return err
		}
		scheduler.Start()
		defer func() {
			if err := scheduler.Stop(); err != nil {
				log.Warn("scheduler shutdown failed", "error", err)
			}
		}()
	} else {
		log.Info("rate refresh scheduler disabled")
	}

	handler := handlers.New(txRunner, cfg, users, audit, subscriptions, archiver, dashboard, hub, log)
	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      handler.Routes(),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	serveErr := make(chan error, 1)
	go func() {
		log.Info("subscription API listening", "addr", server.Addr, "env", cfg.AppEnv)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	select {
	case err := <-serveErr:
		return err
	case <-ctx.Done():
	}

	log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}
