package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// SubscriptionStatus mirrors the payment processor's view of the
// subscription. The application never sets it outside webhook handling.
type SubscriptionStatus string

const (
	SubscriptionActive    SubscriptionStatus = "ACTIVE"
	SubscriptionPastDue   SubscriptionStatus = "PAST_DUE"
	SubscriptionCancelled SubscriptionStatus = "CANCELLED"
)

// Subscription ties a user to a membership plan through the payment
// processor. Rows are created only from confirmed checkout events, keyed by
// the processor's subscription id, so state cannot drift from the processor's
// record of truth.
type Subscription struct {
	ID                   uuid.UUID          `json:"id" db:"id"`
	UserID               uuid.UUID          `json:"user_id" db:"user_id"`
	PlanID               uuid.UUID          `json:"plan_id" db:"plan_id"`
	Status               SubscriptionStatus `json:"status" db:"status"`
	StripeSubscriptionID string             `json:"-" db:"stripe_subscription_id"`
	StartDate            time.Time          `json:"start_date" db:"start_date"`
	EndDate              *time.Time         `json:"end_date,omitempty" db:"end_date"`
	CancelledAt          *time.Time         `json:"cancelled_at,omitempty" db:"cancelled_at"`
	CreatedAt            time.Time          `json:"created_at" db:"created_at"`
	UpdatedAt            time.Time          `json:"updated_at" db:"updated_at"`
}

// ActiveSubscription is a subscription joined with its plan's pricing, used
// by the revenue fold.
type ActiveSubscription struct {
	ID       uuid.UUID       `db:"id"`
	Price    decimal.Decimal `db:"price"`
	Interval PlanInterval    `db:"interval"`
}
