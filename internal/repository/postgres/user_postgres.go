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

type userRepository struct {
	db *sqlx.DB
}

// NewUserRepository creates a new PostgreSQL user repository
func NewUserRepository(db *sqlx.DB) repository.UserRepository {
	return &userRepository{db: db}
}

// GetByID retrieves a user by its ID
func (r *userRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	query := `
		SELECT id, tenant_id, name, email, password_hash, role, stripe_customer_id,
			   created_at, updated_at
		FROM users
		WHERE id = $1`

	var user domain.User
	err := r.db.GetContext(ctx, &user, query, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get user by id: %w", err)
	}

	return &user, nil
}

// GetByEmail retrieves a user by email (globally unique)
func (r *userRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	query := `
		SELECT id, tenant_id, name, email, password_hash, role, stripe_customer_id,
			   created_at, updated_at
		FROM users
		WHERE email = $1`

	var user domain.User
	err := r.db.GetContext(ctx, &user, query, email)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get user by email: %w", err)
	}

	return &user, nil
}

// Create inserts a new user
func (r *userRepository) Create(ctx context.Context, user *domain.User) error {
	query := `
		INSERT INTO users (id, tenant_id, name, email, password_hash, role, created_at, updated_at)
		VALUES (:id, :tenant_id, :name, :email, :password_hash, :role, :created_at, :updated_at)`

	if _, err := r.db.NamedExecContext(ctx, query, user); err != nil {
		if isUniqueViolation(err, "users_email_key") {
			return domain.ErrEmailTaken
		}
		return fmt.Errorf("failed to create user: %w", err)
	}

	return nil
}

// SetStripeCustomerID records the user's billing customer reference
func (r *userRepository) SetStripeCustomerID(ctx context.Context, id uuid.UUID, customerID string) error {
	query := `UPDATE users SET stripe_customer_id = $2, updated_at = now() WHERE id = $1`

	if _, err := r.db.ExecContext(ctx, query, id, customerID); err != nil {
		return fmt.Errorf("failed to set stripe customer id: %w", err)
	}

	return nil
}

// ListMembers returns the tenant's users with their active plan, newest first
func (r *userRepository) ListMembers(ctx context.Context, tenantID uuid.UUID) ([]*domain.TenantMember, error) {
	query := `
		SELECT u.id, u.name, u.email, u.role, u.created_at,
			   p.name AS active_plan_name,
			   s.status AS subscription_status
		FROM users u
		LEFT JOIN subscriptions s ON s.user_id = u.id AND s.status = 'ACTIVE'
		LEFT JOIN membership_plans p ON p.id = s.plan_id
		WHERE u.tenant_id = $1
		ORDER BY u.created_at DESC`

	var members []*domain.TenantMember
	if err := r.db.SelectContext(ctx, &members, query, tenantID); err != nil {
		return nil, fmt.Errorf("failed to list members: %w", err)
	}

	return members, nil
}

// CountMembers counts MEMBER-role users of the tenant
func (r *userRepository) CountMembers(ctx context.Context, tenantID uuid.UUID) (int, error) {
	query := `SELECT COUNT(*) FROM users WHERE tenant_id = $1 AND role = 'MEMBER'`

	var count int
	if err := r.db.GetContext(ctx, &count, query, tenantID); err != nil {
		return 0, fmt.Errorf("failed to count members: %w", err)
	}

	return count, nil
}
