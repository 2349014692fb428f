package domain

import (
	"time"

	"github.com/google/uuid"
)

// PayoutAccountStatus tracks the tenant's connected account with the payment
// processor. Plans only carry live price references once it is active.
type PayoutAccountStatus string

const (
	PayoutAccountNone    PayoutAccountStatus = "none"
	PayoutAccountPending PayoutAccountStatus = "pending"
	PayoutAccountActive  PayoutAccountStatus = "active"
)

// Tenant represents one gym/studio. It is the unit of data isolation: every
// schedule, booking, plan and subscription resolves to exactly one tenant.
type Tenant struct {
	ID                  uuid.UUID           `json:"id" db:"id"`
	Name                string              `json:"name" db:"name"`
	Slug                string              `json:"slug" db:"slug"`
	Settings            *string             `json:"settings,omitempty" db:"settings"` // JSONB as string
	StripeAccountID     *string             `json:"-" db:"stripe_account_id"`
	StripeAccountStatus PayoutAccountStatus `json:"stripe_account_status" db:"stripe_account_status"`
	CreatedAt           time.Time           `json:"created_at" db:"created_at"`
	UpdatedAt           time.Time           `json:"updated_at" db:"updated_at"`
}

// BillingReady reports whether the tenant can accept payments.
func (t *Tenant) BillingReady() bool {
	return t.StripeAccountID != nil && t.StripeAccountStatus == PayoutAccountActive
}

// TenantStats is the owner dashboard aggregate.
type TenantStats struct {
	MemberCount         int    `json:"member_count"`
	ActiveSubscriptions int    `json:"active_subscriptions"`
	TodayBookings       int    `json:"today_bookings"`
	MonthlyRevenue      string `json:"monthly_revenue"` // decimal string, tenant currency
}
