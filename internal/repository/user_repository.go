package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/sanjaykumarkhadka/gym/internal/domain"
)

type UserRepository interface {
	GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	Create(ctx context.Context, user *domain.User) error
	SetStripeCustomerID(ctx context.Context, id uuid.UUID, customerID string) error
	// ListMembers returns the tenant's users together with their active
	// plan, newest first.
	ListMembers(ctx context.Context, tenantID uuid.UUID) ([]*domain.TenantMember, error)
	CountMembers(ctx context.Context, tenantID uuid.UUID) (int, error)
}
