package services

import (
	"context"
	"sync"

	"subtracker/internal/models"
	"subtracker/internal/store"
	"subtracker/internal/websocket"

	"github.com/jmoiron/sqlx"
)

type fakeTxRunner struct {
	err error
}

func (f fakeTxRunner) WithTx(ctx context.Context, fn func(*sqlx.Tx) error) error {
	if f.err != nil {
		return f.err
	}
	return fn(nil)
}

type stubSubscriptionStore struct {
	createFn     func(ctx context.Context, tx store.Getter, sub models.Subscription) (models.Subscription, error)
	getByIDFn    func(ctx context.Context, userID, id string) (models.Subscription, error)
	listByUserFn func(ctx context.Context, userID string) ([]models.Subscription, error)
	updateFn     func(ctx context.Context, tx store.Getter, userID, id string, update store.SubscriptionUpdate) (models.Subscription, error)
	deleteFn     func(ctx context.Context, userID, id string) (int64, error)
}

func (s stubSubscriptionStore) Create(ctx context.Context, tx store.Getter, sub models.Subscription) (models.Subscription, error) {
	if s.createFn == nil {
		return sub, nil
	}
	return s.createFn(ctx, tx, sub)
}

func (s stubSubscriptionStore) GetByID(ctx context.Context, userID, id string) (models.Subscription, error) {
	if s.getByIDFn == nil {
		return models.Subscription{}, store.ErrNotFound
	}
	return s.getByIDFn(ctx, userID, id)
}

func (s stubSubscriptionStore) ListByUser(ctx context.Context, userID string) ([]models.Subscription, error) {
	if s.listByUserFn == nil {
		return nil, nil
	}
	return s.listByUserFn(ctx, userID)
}

func (s stubSubscriptionStore) Update(ctx context.Context, tx store.Getter, userID, id string, update store.SubscriptionUpdate) (models.Subscription, error) {
	if s.updateFn == nil {
		return models.Subscription{}, nil
	}
	return s.updateFn(ctx, tx, userID, id, update)
}

func (s stubSubscriptionStore) Delete(ctx context.Context, userID, id string) (int64, error) {
	if s.deleteFn == nil {
		return 1, nil
	}
	return s.deleteFn(ctx, userID, id)
}

type stubArchiveStore struct {
	insertFn     func(ctx context.Context, rec models.ArchivedSubscription) error
	listByUserFn func(ctx context.Context, userID string) ([]models.ArchivedSubscription, error)
}

func (s stubArchiveStore) Insert(ctx context.Context, rec models.ArchivedSubscription) error {
	if s.insertFn == nil {
		return nil
	}
	return s.insertFn(ctx, rec)
}

func (s stubArchiveStore) ListByUser(ctx context.Context, userID string) ([]models.ArchivedSubscription, error) {
	if s.listByUserFn == nil {
		return nil, nil
	}
	return s.listByUserFn(ctx, userID)
}

type stubRateStore struct {
	listFn func(ctx context.Context) ([]models.ExchangeRate, error)
}

func (s stubRateStore) List(ctx context.Context) ([]models.ExchangeRate, error) {
	if s.listFn == nil {
		return nil, nil
	}
	return s.listFn(ctx)
}

type stubAuditStore struct {
	logFn func(ctx context.Context, tx store.Execer, actorID, action, entityType, entityID, data string) error
}

func (s stubAuditStore) Log(ctx context.Context, tx store.Execer, actorID, action, entityType, entityID, data string) error {
	if s.logFn == nil {
		return nil
	}
	return s.logFn(ctx, tx, actorID, action, entityType, entityID, data)
}

type recordingHub struct {
	mu     sync.Mutex
	events []websocket.Event
}

func (h *recordingHub) BroadcastEvent(_ string, event websocket.Event) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.events = append(h.events, event)
}

func (h *recordingHub) count() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.events)
}
