package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/sanjaykumarkhadka/gym/internal/domain"
)

type TenantRepository interface {
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Tenant, error)
	GetBySlug(ctx context.Context, slug string) (*domain.Tenant, error)
	// CreateWithOwner inserts the tenant and its OWNER user in one
	// transaction, so a failed owner insert never leaves an orphan gym.
	CreateWithOwner(ctx context.Context, tenant *domain.Tenant, owner *domain.User) error
	UpdateSettings(ctx context.Context, id uuid.UUID, settings string) error
	UpdateBilling(ctx context.Context, id uuid.UUID, accountID string, status domain.PayoutAccountStatus) error
}
