package services

import (
	"context"

	"subtracker/internal/models"
	"subtracker/internal/store"
	"subtracker/internal/websocket"
)

type SubscriptionStore interface {
	Create(ctx context.Context, tx store.Getter, sub models.Subscription) (models.Subscription, error)
	GetByID(ctx context.Context, userID, id string) (models.Subscription, error)
	ListByUser(ctx context.Context, userID string) ([]models.Subscription, error)
	Update(ctx context.Context, tx store.Getter, userID, id string, update store.SubscriptionUpdate) (models.Subscription, error)
	Delete(ctx context.Context, userID, id string) (int64, error)
}

type ArchiveStore interface {
	Insert(ctx context.Context, rec models.ArchivedSubscription) error
	ListByUser(ctx context.Context, userID string) ([]models.ArchivedSubscription, error)
}

type RateStore interface {
	List(ctx context.Context) ([]models.ExchangeRate, error)
}

type AuditStore interface {
	Log(ctx context.Context, tx store.Execer, actorID, action, entityType, entityID, data string) error
}

type EventHub interface {
	BroadcastEvent(userID string, event websocket.Event)
}
