// Package billing is the boundary to the payment processor. The subscription
// lifecycle talks to the Gateway interface only; nothing in here knows about
// bookings or capacity.
package billing

import (
	"context"

	"github.com/sanjaykumarkhadka/gym/internal/domain"
)

// Gateway is the narrow contract the core needs from the payment processor:
// connected payout accounts, recurring products, hosted checkout and webhook
// verification.
type Gateway interface {
	// CreateConnectedAccount provisions a payout account for the tenant and
	// returns the processor's account id.
	CreateConnectedAccount(ctx context.Context, tenantID, email, businessName string) (string, error)

	// OnboardingLink mints a single-use hosted onboarding URL.
	OnboardingLink(ctx context.Context, accountID, returnURL, refreshURL string) (string, error)

	// AccountStatus reports whether the account can take charges and payouts.
	AccountStatus(ctx context.Context, accountID string) (*domain.AccountStatus, error)

	// CreatePlanProduct creates a recurring product+price on the connected
	// account for a membership plan.
	CreatePlanProduct(ctx context.Context, accountID, name string, priceMinorUnits int64, interval domain.PlanInterval) (*domain.PlanBilling, error)

	// GetOrCreateCustomer finds the customer by email on the connected
	// account or creates one tagged with the user id.
	GetOrCreateCustomer(ctx context.Context, accountID, email, name, userID string) (string, error)

	// CreateCheckoutSession starts a hosted subscription checkout and
	// returns its redirect URL. The metadata rides along on the session and
	// the resulting subscription, and comes back in webhook events.
	CreateCheckoutSession(ctx context.Context, accountID, priceID, customerID, email, successURL, cancelURL string, metadata map[string]string) (string, error)

	// VerifyWebhook checks the payload signature and translates the event
	// into domain terms. Unrecognized event types come back as
	// domain.EventIgnored, not an error.
	VerifyWebhook(payload []byte, signature string) (*domain.BillingEvent, error)
}
