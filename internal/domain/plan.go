package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// PlanInterval is the billing interval of a membership plan.
type PlanInterval string

const (
	IntervalWeekly  PlanInterval = "WEEKLY"
	IntervalMonthly PlanInterval = "MONTHLY"
	IntervalYearly  PlanInterval = "YEARLY"
)

// MonthlyFactor normalizes a price on this interval to a monthly figure for
// revenue reporting: weekly plans count four times, yearly plans one twelfth.
func (i PlanInterval) MonthlyFactor() decimal.Decimal {
	switch i {
	case IntervalWeekly:
		return decimal.NewFromInt(4)
	case IntervalYearly:
		return decimal.NewFromInt(1).Div(decimal.NewFromInt(12))
	default:
		return decimal.NewFromInt(1)
	}
}

// MembershipPlan is a tenant's recurring membership offering. The Stripe
// references stay nil until the tenant's payout account is connected; the
// plan itself is usable either way.
type MembershipPlan struct {
	ID              uuid.UUID       `json:"id" db:"id"`
	TenantID        uuid.UUID       `json:"tenant_id" db:"tenant_id"`
	Name            string          `json:"name" db:"name"`
	Description     *string         `json:"description,omitempty" db:"description"`
	Price           decimal.Decimal `json:"price" db:"price"`
	Interval        PlanInterval    `json:"interval" db:"interval"`
	IsActive        bool            `json:"is_active" db:"is_active"`
	StripeProductID *string         `json:"-" db:"stripe_product_id"`
	StripePriceID   *string         `json:"-" db:"stripe_price_id"`
	CreatedAt       time.Time       `json:"created_at" db:"created_at"`
	UpdatedAt       time.Time       `json:"updated_at" db:"updated_at"`
}

// PriceMinorUnits returns the plan price in the processor's minor units
// (cents), rounded half up.
func (p *MembershipPlan) PriceMinorUnits() int64 {
	return p.Price.Mul(decimal.NewFromInt(100)).Round(0).IntPart()
}
