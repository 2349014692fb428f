package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/sanjaykumarkhadka/gym/internal/domain"
)

// SubscriptionRepository persists the webhook-driven subscription state.
// All writes are absolute (status set, never incremented) so replayed
// events land on the same end state.
type SubscriptionRepository interface {
	// Upsert inserts the subscription or, when the processor subscription
	// id already exists, leaves the existing row untouched. Checkout events
	// may be delivered more than once.
	Upsert(ctx context.Context, sub *domain.Subscription) error
	GetByStripeID(ctx context.Context, stripeSubID string) (*domain.Subscription, error)
	// SetStatus updates status and the optional end date by processor id.
	SetStatus(ctx context.Context, stripeSubID string, status domain.SubscriptionStatus, endDate *time.Time) error
	// MarkCancelled sets status, cancelledAt and endDate in one write.
	MarkCancelled(ctx context.Context, stripeSubID string, at time.Time) error

	CountActiveByTenant(ctx context.Context, tenantID uuid.UUID) (int, error)
	// ListActiveByTenant returns active subscriptions with plan pricing for
	// the revenue fold.
	ListActiveByTenant(ctx context.Context, tenantID uuid.UUID) ([]*domain.ActiveSubscription, error)
}
