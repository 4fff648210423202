package rates

import (
	"context"
	"errors"
	"testing"
	"time"

	"subtracker/internal/db"
	"subtracker/internal/logger"
	"subtracker/internal/store"
	"subtracker/internal/websocket"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubFetcher struct {
	quote Quote
	err   error
	calls int
}

func (f *stubFetcher) Latest(_ context.Context, _ string, _ []string) (Quote, error) {
	f.calls++
	return f.quote, f.err
}

type countingBroadcaster struct {
	events []websocket.Event
}

func (b *countingBroadcaster) BroadcastAll(event websocket.Event) {
	b.events = append(b.events, event)
}

var testSettings = Settings{Reference: "NOK", BaseCurrency: "USD", Currencies: []string{"USD", "EUR"}}

func newMockRefresher(t *testing.T, fetcher Fetcher, notify Broadcaster) (*Refresher, sqlmock.Sqlmock) {
	t.Helper()
	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = sqlDB.Close() })
	xdb := sqlx.NewDb(sqlDB, "sqlmock")
	refresher := NewRefresher(fetcher, db.NewTxRunner(xdb), store.NewExchangeStore(xdb), store.NewAuditStore(xdb), notify, testSettings, logger.Discard())
	refresher.now = func() time.Time { return deriveNow }
	return refresher, mock
}

func TestRefreshWritesAllRowsInOneTransaction(t *testing.T) {
	fetcher := &stubFetcher{quote: quoteOf("USD", map[string]string{"NOK": "11", "EUR": "0.5"})}
	notify := &countingBroadcaster{}
	refresher, mock := newMockRefresher(t, fetcher, notify)

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO exchange_rates").WithArgs("USD", "11", deriveNow).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("INSERT INTO exchange_rates").WithArgs("EUR", "22", deriveNow).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("INSERT INTO audit_logs").WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	rows, err := refresher.Refresh(context.Background())
	require.NoError(t, err)
	assert.Len(t, rows, 2)
	assert.NoError(t, mock.ExpectationsWereMet())
	assert.Len(t, notify.events, 1)
}

func TestRefreshMalformedQuoteWritesNothing(t *testing.T) {
	fetcher := &stubFetcher{quote: quoteOf("USD", map[string]string{"NOK": "11"})}
	notify := &countingBroadcaster{}
	refresher, mock := newMockRefresher(t, fetcher, notify)

	_, err := refresher.Refresh(context.Background())
	assert.ErrorIs(t, err, ErrMalformedQuote)
	assert.NoError(t, mock.ExpectationsWereMet())
	assert.Empty(t, notify.events)
}

func TestRefreshFetchFailureWritesNothing(t *testing.T) {
	fetcher := &stubFetcher{err: &FetchError{Op: "request", Err: errors.New("dial tcp: timeout")}}
	refresher, mock := newMockRefresher(t, fetcher, nil)

	_, err := refresher.Refresh(context.Background())
	var fetchErr *FetchError
	assert.ErrorAs(t, err, &fetchErr)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRefreshRollsBackOnPartialWrite(t *testing.T) {
	fetcher := &stubFetcher{quote: quoteOf("USD", map[string]string{"NOK": "11", "EUR": "0.5"})}
	refresher, mock := newMockRefresher(t, fetcher, nil)

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO exchange_rates").WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("INSERT INTO exchange_rates").WillReturnError(errors.New("disk full"))
	mock.ExpectRollback()

	_, err := refresher.Refresh(context.Background())
	assert.Error(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}
