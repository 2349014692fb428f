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

type tenantRepository struct {
	db *sqlx.DB
}

// NewTenantRepository creates a new PostgreSQL tenant repository
func NewTenantRepository(db *sqlx.DB) repository.TenantRepository {
	return &tenantRepository{db: db}
}

// GetByID retrieves a tenant by its ID
func (r *tenantRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Tenant, error) {
	query := `
		SELECT id, name, slug, settings, stripe_account_id, stripe_account_status,
			   created_at, updated_at
		FROM tenants
		WHERE id = $1`

	var tenant domain.Tenant
	err := r.db.GetContext(ctx, &tenant, query, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get tenant by id: %w", err)
	}

	return &tenant, nil
}

// GetBySlug retrieves a tenant by its URL slug
func (r *tenantRepository) GetBySlug(ctx context.Context, slug string) (*domain.Tenant, error) {
	query := `
		SELECT id, name, slug, settings, stripe_account_id, stripe_account_status,
			   created_at, updated_at
		FROM tenants
		WHERE slug = $1`

	var tenant domain.Tenant
	err := r.db.GetContext(ctx, &tenant, query, slug)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get tenant by slug: %w", err)
	}

	return &tenant, nil
}

// CreateWithOwner inserts the tenant and its owner user in one transaction
func (r *tenantRepository) CreateWithOwner(ctx context.Context, tenant *domain.Tenant, owner *domain.User) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	tenantQuery := `
		INSERT INTO tenants (id, name, slug, settings, stripe_account_status, created_at, updated_at)
		VALUES (:id, :name, :slug, :settings, :stripe_account_status, :created_at, :updated_at)`

	if _, err := tx.NamedExecContext(ctx, tenantQuery, tenant); err != nil {
		if isUniqueViolation(err, "tenants_slug_key") {
			return domain.ErrSlugTaken
		}
		return fmt.Errorf("failed to create tenant: %w", err)
	}

	userQuery := `
		INSERT INTO users (id, tenant_id, name, email, password_hash, role, created_at, updated_at)
		VALUES (:id, :tenant_id, :name, :email, :password_hash, :role, :created_at, :updated_at)`

	if _, err := tx.NamedExecContext(ctx, userQuery, owner); err != nil {
		if isUniqueViolation(err, "users_email_key") {
			return domain.ErrEmailTaken
		}
		return fmt.Errorf("failed to create owner: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit registration: %w", err)
	}

	return nil
}

// UpdateSettings replaces the tenant's free-form settings document
func (r *tenantRepository) UpdateSettings(ctx context.Context, id uuid.UUID, settings string) error {
	query := `UPDATE tenants SET settings = $2, updated_at = now() WHERE id = $1`

	result, err := r.db.ExecContext(ctx, query, id, settings)
	if err != nil {
		return fmt.Errorf("failed to update tenant settings: %w", err)
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

// UpdateBilling records the connected payout account and its status
func (r *tenantRepository) UpdateBilling(ctx context.Context, id uuid.UUID, accountID string, status domain.PayoutAccountStatus) error {
	query := `
		UPDATE tenants
		SET stripe_account_id = $2,
			stripe_account_status = $3,
			updated_at = now()
		WHERE id = $1`

	result, err := r.db.ExecContext(ctx, query, id, accountID, status)
	if err != nil {
		return fmt.Errorf("failed to update tenant billing: %w", err)
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
