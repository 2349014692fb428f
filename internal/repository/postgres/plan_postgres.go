package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/sanjaykumarkhadka/gym/internal/domain"
	"github.com/sanjaykumarkhadka/gym/internal/repository"
)

type planRepository struct {
	db *sqlx.DB
}

// NewPlanRepository creates a new PostgreSQL membership plan repository
func NewPlanRepository(db *sqlx.DB) repository.PlanRepository {
	return &planRepository{db: db}
}

// Create inserts a new membership plan
func (r *planRepository) Create(ctx context.Context, plan *domain.MembershipPlan) error {
	query := `
		INSERT INTO membership_plans (
			id, tenant_id, name, description, price, interval, is_active,
			stripe_product_id, stripe_price_id, created_at, updated_at
		) VALUES (
			:id, :tenant_id, :name, :description, :price, :interval, :is_active,
			:stripe_product_id, :stripe_price_id, :created_at, :updated_at
		)`

	if _, err := r.db.NamedExecContext(ctx, query, plan); err != nil {
		return fmt.Errorf("failed to create plan: %w", err)
	}

	return nil
}

// GetInTenant retrieves a plan within the tenant's scope
func (r *planRepository) GetInTenant(ctx context.Context, tenantID, id uuid.UUID) (*domain.MembershipPlan, error) {
	query := `
		SELECT id, tenant_id, name, description, price, interval, is_active,
			   stripe_product_id, stripe_price_id, created_at, updated_at
		FROM membership_plans
		WHERE id = $1 AND tenant_id = $2`

	var plan domain.MembershipPlan
	err := r.db.GetContext(ctx, &plan, query, id, tenantID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get plan: %w", err)
	}

	return &plan, nil
}

// GetByID retrieves a plan by id regardless of tenant; used by webhook
// handling where the tenant is implied by the event itself
func (r *planRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.MembershipPlan, error) {
	query := `
		SELECT id, tenant_id, name, description, price, interval, is_active,
			   stripe_product_id, stripe_price_id, created_at, updated_at
		FROM membership_plans
		WHERE id = $1`

	var plan domain.MembershipPlan
	err := r.db.GetContext(ctx, &plan, query, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get plan: %w", err)
	}

	return &plan, nil
}

// ListByTenant returns the tenant's plans ordered by price ascending
func (r *planRepository) ListByTenant(ctx context.Context, tenantID uuid.UUID) ([]*domain.MembershipPlan, error) {
	query := `
		SELECT id, tenant_id, name, description, price, interval, is_active,
			   stripe_product_id, stripe_price_id, created_at, updated_at
		FROM membership_plans
		WHERE tenant_id = $1
		ORDER BY price ASC`

	var plans []*domain.MembershipPlan
	if err := r.db.SelectContext(ctx, &plans, query, tenantID); err != nil {
		return nil, fmt.Errorf("failed to list plans: %w", err)
	}

	return plans, nil
}
