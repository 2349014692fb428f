package domain

import (
	"time"

	"github.com/google/uuid"
)

// Role is the user's role within their tenant.
type Role string

const (
	RoleSuperAdmin Role = "SUPER_ADMIN"
	RoleOwner      Role = "OWNER"
	RoleAssistant  Role = "ASSISTANT"
	RoleMember     Role = "MEMBER"
)

// IsStaff reports whether the role may check members in and view tenant
// operations dashboards.
func (r Role) IsStaff() bool {
	return r == RoleOwner || r == RoleAssistant || r == RoleSuperAdmin
}

// IsAdmin reports whether the role may manage classes, plans and billing.
func (r Role) IsAdmin() bool {
	return r == RoleOwner || r == RoleSuperAdmin
}

// User belongs to exactly one tenant; email is globally unique.
type User struct {
	ID               uuid.UUID `json:"id" db:"id"`
	TenantID         uuid.UUID `json:"tenant_id" db:"tenant_id"`
	Name             string    `json:"name" db:"name"`
	Email            string    `json:"email" db:"email"`
	PasswordHash     string    `json:"-" db:"password_hash"`
	Role             Role      `json:"role" db:"role"`
	StripeCustomerID *string   `json:"-" db:"stripe_customer_id"`
	CreatedAt        time.Time `json:"created_at" db:"created_at"`
	UpdatedAt        time.Time `json:"updated_at" db:"updated_at"`
}

// TenantMember is the member listing row for staff views, carrying the
// member's active plan when one exists.
type TenantMember struct {
	ID                 uuid.UUID `json:"id" db:"id"`
	Name               string    `json:"name" db:"name"`
	Email              string    `json:"email" db:"email"`
	Role               Role      `json:"role" db:"role"`
	CreatedAt          time.Time `json:"created_at" db:"created_at"`
	ActivePlanName     *string   `json:"active_plan_name,omitempty" db:"active_plan_name"`
	SubscriptionStatus *string   `json:"subscription_status,omitempty" db:"subscription_status"`
}
