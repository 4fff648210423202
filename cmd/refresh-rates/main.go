// Command refresh-rates fetches the exchange rates once and stores them.
package main

import (
	"context"
	"fmt"
	"os"

	"subtracker/internal/config"
	"subtracker/internal/db"
	"subtracker/internal/logger"
	"subtracker/internal/rates"
	"subtracker/internal/store"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	log := logger.New(cfg.LogLevel)

	ctx := context.Background()
	database, err := db.Connect(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Error("failed to connect database", "error", err)
		os.Exit(1)
	}
	defer database.Close()

	refresher := rates.NewRefresher(
		rates.NewClient(cfg.Rates.SourceURL, cfg.Rates.FetchTimeout),
		db.NewTxRunner(database),
		store.NewExchangeStore(database),
		store.NewAuditStore(database),
		nil,
		rates.Settings{
			Reference:    cfg.Currency.Reference,
			BaseCurrency: cfg.Rates.BaseCurrency,
			Currencies:   cfg.Rates.Currencies,
		},
		log,
	)
	rows, err := refresher.Refresh(ctx)
	if err != nil {
		// os.Exit skips deferred calls.
		database.Close()
		os.Exit(1)
	}
	for _, row := range rows {
		fmt.Printf("%s %s\n", row.Code, row.RateToReference)
	}
}
