package rates

import (
	"context"
	"encoding/json"
	"log/slog"
	"strings"
	"time"

	"subtracker/internal/db"
	"subtracker/internal/models"
	"subtracker/internal/store"
	"subtracker/internal/websocket"

	"github.com/jmoiron/sqlx"
)

type Fetcher interface {
	Latest(ctx context.Context, base string, symbols []string) (Quote, error)
}

type RateWriter interface {
	Upsert(ctx context.Context, tx store.Execer, rate models.ExchangeRate) error
}

type AuditLogger interface {
	Log(ctx context.Context, tx store.Execer, actorID, action, entityType, entityID, data string) error
}

type Broadcaster interface {
	BroadcastAll(event websocket.Event)
}

type Settings struct {
	Reference    string
	BaseCurrency string
	Currencies   []string
}

// Refresher replaces the stored rate table from the rate API. Either every
// row is written or none is.
type Refresher struct {
	fetcher  Fetcher
	txRunner db.TxRunner
	rates    RateWriter
	audit    AuditLogger
	notify   Broadcaster
	settings Settings
	logger   *slog.Logger
	now      func() time.Time
}

func NewRefresher(fetcher Fetcher, txRunner db.TxRunner, rates RateWriter, audit AuditLogger, notify Broadcaster, settings Settings, logger *slog.Logger) *Refresher {
	return &Refresher{
		fetcher:  fetcher,
		txRunner: txRunner,
		rates:    rates,
		audit:    audit,
		notify:   notify,
		settings: settings,
		logger:   logger,
		now:      time.Now,
	}
}

func (r *Refresher) Refresh(ctx context.Context) ([]models.ExchangeRate, error) {
	symbols := Symbols(r.settings.BaseCurrency, r.settings.Reference, r.settings.Currencies)
	quote, err := r.fetcher.Latest(ctx, r.settings.BaseCurrency, symbols)
	if err != nil {
		r.logger.Error("exchange rate fetch failed", "error", err)
		return nil, err
	}
	rows, err := Derive(quote, r.settings.Reference, r.settings.Currencies, r.now().UTC())
	if err != nil {
		r.logger.Error("exchange rate quote rejected", "base", quote.Base, "error", err)
		return nil, err
	}

	err = r.txRunner.WithTx(ctx, func(tx *sqlx.Tx) error {
		codes := make([]string, 0, len(rows))
		for _, row := range rows {
			if err := r.rates.Upsert(ctx, tx, row); err != nil {
				return err
			}
			codes = append(codes, row.Code+"="+row.RateToReference)
		}
		return r.audit.Log(ctx, tx, store.SystemActor, "exchange_rates.refresh", "exchange_rates", r.settings.Reference, auditPayload(quote, codes))
	})
	if err != nil {
		r.logger.Error("exchange rate write failed", "error", err)
		return nil, err
	}

	r.logger.Info("exchange rates refreshed", "reference", r.settings.Reference, "count", len(rows), "quote_date", quote.Date)
	if r.notify != nil {
		r.notify.BroadcastAll(websocket.Event{Type: websocket.EventRatesRefreshed})
	}
	return rows, nil
}

func auditPayload(quote Quote, codes []string) string {
	data, _ := json.Marshal(map[string]string{
		"base":  quote.Base,
		"date":  quote.Date,
		"rates": strings.Join(codes, ","),
	})
	return string(data)
}
