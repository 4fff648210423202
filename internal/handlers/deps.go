package handlers

import (
	"context"
	"time"

	"subtracker/internal/models"
	"subtracker/internal/services"
	"subtracker/internal/store"
)

type UserStore interface {
	Create(ctx context.Context, tx store.Execer, user models.User) error
	GetByEmail(ctx context.Context, email string) (models.User, error)
	GetByID(ctx context.Context, userID string) (models.User, error)
}

type AuditStore interface {
	Log(ctx context.Context, tx store.Execer, actorID, action, entityType, entityID, data string) error
	ListByActor(ctx context.Context, actorID string, limit, offset int) ([]store.AuditEntry, error)
}

type SubscriptionService interface {
	Create(ctx context.Context, ownerID string, input services.SubscriptionInput) (models.Subscription, error)
	Update(ctx context.Context, ownerID, id string, patch services.SubscriptionPatch) (models.Subscription, error)
	List(ctx context.Context, ownerID string) ([]models.Subscription, error)
}

type ArchiveService interface {
	Archive(ctx context.Context, ownerID, subscriptionID string) (models.ArchivedSubscription, error)
}

type DashboardService interface {
	Dashboard(ctx context.Context, ownerID string, today time.Time) (services.Dashboard, error)
	Archive(ctx context.Context, ownerID string) (services.ArchiveView, error)
	Rates(ctx context.Context) (services.RatesView, error)
}
