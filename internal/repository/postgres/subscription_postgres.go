package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/sanjaykumarkhadka/gym/internal/domain"
	"github.com/sanjaykumarkhadka/gym/internal/repository"
)

type subscriptionRepository struct {
	db *sqlx.DB
}

// NewSubscriptionRepository creates a new PostgreSQL subscription repository
func NewSubscriptionRepository(db *sqlx.DB) repository.SubscriptionRepository {
	return &subscriptionRepository{db: db}
}

// Upsert inserts the subscription; a replayed checkout event for the same
// processor subscription id leaves the existing row untouched
func (r *subscriptionRepository) Upsert(ctx context.Context, sub *domain.Subscription) error {
	query := `
		INSERT INTO subscriptions (
			id, user_id, plan_id, status, stripe_subscription_id,
			start_date, end_date, cancelled_at, created_at, updated_at
		) VALUES (
			:id, :user_id, :plan_id, :status, :stripe_subscription_id,
			:start_date, :end_date, :cancelled_at, :created_at, :updated_at
		)
		ON CONFLICT (stripe_subscription_id) DO NOTHING`

	if _, err := r.db.NamedExecContext(ctx, query, sub); err != nil {
		return fmt.Errorf("failed to upsert subscription: %w", err)
	}

	return nil
}

// GetByStripeID retrieves a subscription by processor subscription id
func (r *subscriptionRepository) GetByStripeID(ctx context.Context, stripeSubID string) (*domain.Subscription, error) {
	query := `
		SELECT id, user_id, plan_id, status, stripe_subscription_id,
			   start_date, end_date, cancelled_at, created_at, updated_at
		FROM subscriptions
		WHERE stripe_subscription_id = $1`

	var sub domain.Subscription
	err := r.db.GetContext(ctx, &sub, query, stripeSubID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get subscription: %w", err)
	}

	return &sub, nil
}

// SetStatus writes the status and optional end date absolutely
func (r *subscriptionRepository) SetStatus(ctx context.Context, stripeSubID string, status domain.SubscriptionStatus, endDate *time.Time) error {
	query := `
		UPDATE subscriptions
		SET status = $2, end_date = $3, updated_at = now()
		WHERE stripe_subscription_id = $1`

	result, err := r.db.ExecContext(ctx, query, stripeSubID, status, endDate)
	if err != nil {
		return fmt.Errorf("failed to set subscription status: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return domain.ErrNotFound
	}

	return nil
}

// MarkCancelled sets the terminal state in one write
func (r *subscriptionRepository) MarkCancelled(ctx context.Context, stripeSubID string, at time.Time) error {
	query := `
		UPDATE subscriptions
		SET status = 'CANCELLED', cancelled_at = $2, end_date = $2, updated_at = now()
		WHERE stripe_subscription_id = $1`

	result, err := r.db.ExecContext(ctx, query, stripeSubID, at)
	if err != nil {
		return fmt.Errorf("failed to mark subscription cancelled: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return domain.ErrNotFound
	}

	return nil
}

// CountActiveByTenant counts the tenant's ACTIVE subscriptions
func (r *subscriptionRepository) CountActiveByTenant(ctx context.Context, tenantID uuid.UUID) (int, error) {
	query := `
		SELECT COUNT(*)
		FROM subscriptions s
		JOIN users u ON u.id = s.user_id
		WHERE u.tenant_id = $1 AND s.status = 'ACTIVE'`

	var count int
	if err := r.db.GetContext(ctx, &count, query, tenantID); err != nil {
		return 0, fmt.Errorf("failed to count active subscriptions: %w", err)
	}

	return count, nil
}

// ListActiveByTenant returns active subscriptions with plan pricing
func (r *subscriptionRepository) ListActiveByTenant(ctx context.Context, tenantID uuid.UUID) ([]*domain.ActiveSubscription, error) {
	query := `
		SELECT s.id, p.price, p.interval
		FROM subscriptions s
		JOIN users u ON u.id = s.user_id
		JOIN membership_plans p ON p.id = s.plan_id
		WHERE u.tenant_id = $1 AND s.status = 'ACTIVE'`

	var subs []*domain.ActiveSubscription
	if err := r.db.SelectContext(ctx, &subs, query, tenantID); err != nil {
		return nil, fmt.Errorf("failed to list active subscriptions: %w", err)
	}

	return subs, nil
}
