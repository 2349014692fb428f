package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/sanjaykumarkhadka/gym/internal/domain"
)

type PlanRepository interface {
	Create(ctx context.Context, plan *domain.MembershipPlan) error
	GetInTenant(ctx context.Context, tenantID, id uuid.UUID) (*domain.MembershipPlan, error)
	GetByID(ctx context.Context, id uuid.UUID) (*domain.MembershipPlan, error)
	// ListByTenant returns the tenant's plans ordered by price ascending.
	ListByTenant(ctx context.Context, tenantID uuid.UUID) ([]*domain.MembershipPlan, error)
}
