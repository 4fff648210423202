package handlers

import (
	"bytes"
	"context"
	"io"
	"net/http/httptest"
	"testing"
	"time"

	"subtracker/internal/auth"
	"subtracker/internal/config"
	"subtracker/internal/logger"
	"subtracker/internal/models"
	"subtracker/internal/services"
	"subtracker/internal/store"
	"subtracker/internal/websocket"

	"github.com/jmoiron/sqlx"
)

type fakeTxRunner struct {
	withTxFn func(ctx context.Context, fn func(*sqlx.Tx) error) error
}

func (f fakeTxRunner) WithTx(ctx context.Context, fn func(*sqlx.Tx) error) error {
	if f.withTxFn != nil {
		return f.withTxFn(ctx, fn)
	}
	return fn(nil)
}

type stubUserStore struct {
	createFn     func(ctx context.Context, tx store.Execer, user models.User) error
	getByEmailFn func(ctx context.Context, email string) (models.User, error)
	getByIDFn    func(ctx context.Context, userID string) (models.User, error)
}

func (s stubUserStore) Create(ctx context.Context, tx store.Execer, user models.User) error {
	if s.createFn == nil {
		return nil
	}
	return s.createFn(ctx, tx, user)
}

func (s stubUserStore) GetByEmail(ctx context.Context, email string) (models.User, error) {
	if s.getByEmailFn == nil {
		return models.User{}, store.ErrNotFound
	}
	return s.getByEmailFn(ctx, email)
}

func (s stubUserStore) GetByID(ctx context.Context, userID string) (models.User, error) {
	if s.getByIDFn == nil {
		return models.User{}, store.ErrNotFound
	}
	return s.getByIDFn(ctx, userID)
}

type stubAuditStore struct {
	logFn         func(ctx context.Context, tx store.Execer, actorID, action, entityType, entityID, data string) error
	listByActorFn func(ctx context.Context, actorID string, limit, offset int) ([]store.AuditEntry, error)
}

func (s stubAuditStore) Log(ctx context.Context, tx store.Execer, actorID, action, entityType, entityID, data string) error {
	if s.logFn == nil {
		return nil
	}
	return s.logFn(ctx, tx, actorID, action, entityType, entityID, data)
}

func (s stubAuditStore) ListByActor(ctx context.Context, actorID string, limit, offset int) ([]store.AuditEntry, error) {
	if s.listByActorFn == nil {
		return nil, nil
	}
	return s.listByActorFn(ctx, actorID, limit, offset)
}

type stubSubscriptionService struct {
	createFn func(ctx context.Context, ownerID string, input services.SubscriptionInput) (models.Subscription, error)
	updateFn func(ctx context.Context, ownerID, id string, patch services.SubscriptionPatch) (models.Subscription, error)
	listFn   func(ctx context.Context, ownerID string) ([]models.Subscription, error)
}

func (s stubSubscriptionService) Create(ctx context.Context, ownerID string, input services.SubscriptionInput) (models.Subscription, error) {
	if s.createFn == nil {
		return models.Subscription{}, nil
	}
	return s.createFn(ctx, ownerID, input)
}

func (s stubSubscriptionService) Update(ctx context.Context, ownerID, id string, patch services.SubscriptionPatch) (models.Subscription, error) {
	if s.updateFn == nil {
		return models.Subscription{}, nil
	}
	return s.updateFn(ctx, ownerID, id, patch)
}

func (s stubSubscriptionService) List(ctx context.Context, ownerID string) ([]models.Subscription, error) {
	if s.listFn == nil {
		return nil, nil
	}
	return s.listFn(ctx, ownerID)
}

type stubArchiveService struct {
	archiveFn func(ctx context.Context, ownerID, subscriptionID string) (models.ArchivedSubscription, error)
}

func (s stubArchiveService) Archive(ctx context.Context, ownerID, subscriptionID string) (models.ArchivedSubscription, error) {
	if s.archiveFn == nil {
		return models.ArchivedSubscription{}, nil
	}
	return s.archiveFn(ctx, ownerID, subscriptionID)
}

type stubDashboardService struct {
	dashboardFn func(ctx context.Context, ownerID string, today time.Time) (services.Dashboard, error)
	archiveFn   func(ctx context.Context, ownerID string) (services.ArchiveView, error)
	ratesFn     func(ctx context.Context) (services.RatesView, error)
}

func (s stubDashboardService) Dashboard(ctx context.Context, ownerID string, today time.Time) (services.Dashboard, error) {
	if s.dashboardFn == nil {
		return services.Dashboard{}, nil
	}
	return s.dashboardFn(ctx, ownerID, today)
}

func (s stubDashboardService) Archive(ctx context.Context, ownerID string) (services.ArchiveView, error) {
	if s.archiveFn == nil {
		return services.ArchiveView{}, nil
	}
	return s.archiveFn(ctx, ownerID)
}

func (s stubDashboardService) Rates(ctx context.Context) (services.RatesView, error) {
	if s.ratesFn == nil {
		return services.RatesView{}, nil
	}
	return s.ratesFn(ctx)
}

type testDeps struct {
	txRunner      fakeTxRunner
	users         stubUserStore
	audit         stubAuditStore
	subscriptions stubSubscriptionService
	archiver      stubArchiveService
	dashboard     stubDashboardService
}

func newTestHandler(deps testDeps) *Handler {
	cfg := config.Config{
		AppEnv:         "test",
		Port:           "0",
		JWTSecret:      "secret",
		TokenTTL:       time.Minute,
		AllowedOrigins: "*",
	}
	return New(deps.txRunner, cfg, deps.users, deps.audit, deps.subscriptions, deps.archiver, deps.dashboard, websocket.NewHub(), logger.Discard())
}

// serve routes a request through the full router, authenticated as userID
// when it is not empty.
func serve(t *testing.T, h *Handler, method, target, body, userID string) *httptest.ResponseRecorder {
	t.Helper()
	var reader io.Reader
	if body != "" {
		reader = bytes.NewBufferString(body)
	}
	req := httptest.NewRequest(method, target, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	if userID != "" {
		token, err := auth.GenerateToken("secret", userID, time.Minute)
		if err != nil {
			t.Fatalf("failed to generate token: %v", err)
		}
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rr := httptest.NewRecorder()
	h.Routes().ServeHTTP(rr, req)
	return rr
}
