package domain

import "time"

// BillingEventType identifies the processor events the subscription
// lifecycle reacts to. Everything else is acknowledged and ignored.
type BillingEventType string

const (
	EventCheckoutCompleted  BillingEventType = "checkout_completed"
	EventSubscriptionUpdate BillingEventType = "subscription_updated"
	EventSubscriptionDelete BillingEventType = "subscription_deleted"
	EventPaymentFailed      BillingEventType = "payment_failed"
	EventIgnored            BillingEventType = "ignored"
)

// BillingEvent is a processor webhook event translated into domain terms by
// the billing gateway adapter. Delivery is at-least-once, so every handler
// of these events must be idempotent.
type BillingEvent struct {
	Type           BillingEventType
	SubscriptionID string // processor subscription id
	// Checkout metadata, present only on EventCheckoutCompleted.
	UserID string
	PlanID string
	// Processor status and scheduled cancellation, present on updates.
	ProcessorStatus string
	CancelAt        *time.Time
}

// AccountStatus is the processor's view of a connected payout account.
type AccountStatus struct {
	ChargesEnabled bool `json:"charges_enabled"`
	PayoutsEnabled bool `json:"payouts_enabled"`
}

// PlanBilling holds the processor references minted for a membership plan.
type PlanBilling struct {
	ProductID string
	PriceID   string
}
