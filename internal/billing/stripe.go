package billing

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/stripe/stripe-go/v78"
	"github.com/stripe/stripe-go/v78/client"
	"github.com/stripe/stripe-go/v78/webhook"

	"github.com/sanjaykumarkhadka/gym/internal/domain"
)

// Metadata keys stamped on checkout sessions and echoed back by webhooks.
const (
	MetaUserID   = "user_id"
	MetaPlanID   = "plan_id"
	MetaTenantID = "tenant_id"
)

type stripeGateway struct {
	api           *client.API
	webhookSecret string
}

// NewStripeGateway creates a Gateway backed by Stripe Connect.
func NewStripeGateway(secretKey, webhookSecret string) Gateway {
	api := &client.API{}
	api.Init(secretKey, nil)

	return &stripeGateway{
		api:           api,
		webhookSecret: webhookSecret,
	}
}

func (g *stripeGateway) CreateConnectedAccount(ctx context.Context, tenantID, email, businessName string) (string, error) {
	params := &stripe.AccountParams{
		Type:  stripe.String(string(stripe.AccountTypeExpress)),
		Email: stripe.String(email),
		BusinessProfile: &stripe.AccountBusinessProfileParams{
			Name: stripe.String(businessName),
		},
		Capabilities: &stripe.AccountCapabilitiesParams{
			CardPayments: &stripe.AccountCapabilitiesCardPaymentsParams{Requested: stripe.Bool(true)},
			Transfers:    &stripe.AccountCapabilitiesTransfersParams{Requested: stripe.Bool(true)},
		},
	}
	params.Context = ctx
	params.AddMetadata(MetaTenantID, tenantID)

	account, err := g.api.Accounts.New(params)
	if err != nil {
		return "", fmt.Errorf("failed to create connected account: %w", err)
	}

	return account.ID, nil
}

func (g *stripeGateway) OnboardingLink(ctx context.Context, accountID, returnURL, refreshURL string) (string, error) {
	params := &stripe.AccountLinkParams{
		Account:    stripe.String(accountID),
		ReturnURL:  stripe.String(returnURL),
		RefreshURL: stripe.String(refreshURL),
		Type:       stripe.String("account_onboarding"),
	}
	params.Context = ctx

	link, err := g.api.AccountLinks.New(params)
	if err != nil {
		return "", fmt.Errorf("failed to create onboarding link: %w", err)
	}

	return link.URL, nil
}

func (g *stripeGateway) AccountStatus(ctx context.Context, accountID string) (*domain.AccountStatus, error) {
	params := &stripe.AccountParams{}
	params.Context = ctx

	account, err := g.api.Accounts.GetByID(accountID, params)
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve account: %w", err)
	}

	return &domain.AccountStatus{
		ChargesEnabled: account.ChargesEnabled,
		PayoutsEnabled: account.PayoutsEnabled,
	}, nil
}

func (g *stripeGateway) CreatePlanProduct(ctx context.Context, accountID, name string, priceMinorUnits int64, interval domain.PlanInterval) (*domain.PlanBilling, error) {
	productParams := &stripe.ProductParams{
		Name: stripe.String(name),
	}
	productParams.Context = ctx
	productParams.SetStripeAccount(accountID)

	product, err := g.api.Products.New(productParams)
	if err != nil {
		return nil, fmt.Errorf("failed to create product: %w", err)
	}

	priceParams := &stripe.PriceParams{
		Product:    stripe.String(product.ID),
		UnitAmount: stripe.Int64(priceMinorUnits),
		Currency:   stripe.String(string(stripe.CurrencyUSD)),
		Recurring: &stripe.PriceRecurringParams{
			Interval: stripe.String(stripeInterval(interval)),
		},
	}
	priceParams.Context = ctx
	priceParams.SetStripeAccount(accountID)

	price, err := g.api.Prices.New(priceParams)
	if err != nil {
		return nil, fmt.Errorf("failed to create price: %w", err)
	}

	return &domain.PlanBilling{ProductID: product.ID, PriceID: price.ID}, nil
}

func (g *stripeGateway) GetOrCreateCustomer(ctx context.Context, accountID, email, name, userID string) (string, error) {
	listParams := &stripe.CustomerListParams{
		Email: stripe.String(email),
	}
	listParams.Context = ctx
	listParams.Limit = stripe.Int64(1)
	listParams.SetStripeAccount(accountID)

	iter := g.api.Customers.List(listParams)
	for iter.Next() {
		return iter.Customer().ID, nil
	}
	if err := iter.Err(); err != nil {
		return "", fmt.Errorf("failed to list customers: %w", err)
	}

	createParams := &stripe.CustomerParams{
		Email: stripe.String(email),
		Name:  stripe.String(name),
	}
	createParams.Context = ctx
	createParams.AddMetadata(MetaUserID, userID)
	createParams.SetStripeAccount(accountID)

	customer, err := g.api.Customers.New(createParams)
	if err != nil {
		return "", fmt.Errorf("failed to create customer: %w", err)
	}

	return customer.ID, nil
}

func (g *stripeGateway) CreateCheckoutSession(ctx context.Context, accountID, priceID, customerID, email, successURL, cancelURL string, metadata map[string]string) (string, error) {
	params := &stripe.CheckoutSessionParams{
		Mode:               stripe.String(string(stripe.CheckoutSessionModeSubscription)),
		PaymentMethodTypes: stripe.StringSlice([]string{"card"}),
		LineItems: []*stripe.CheckoutSessionLineItemParams{
			{
				Price:    stripe.String(priceID),
				Quantity: stripe.Int64(1),
			},
		},
		SuccessURL:       stripe.String(successURL),
		CancelURL:        stripe.String(cancelURL),
		SubscriptionData: &stripe.CheckoutSessionSubscriptionDataParams{},
	}
	params.Context = ctx
	params.SetStripeAccount(accountID)

	if customerID != "" {
		params.Customer = stripe.String(customerID)
	} else {
		params.CustomerEmail = stripe.String(email)
	}

	// Stamp the metadata on both the session and the subscription it
	// creates: checkout.session.completed reads the former, subscription
	// events the latter.
	for k, v := range metadata {
		params.AddMetadata(k, v)
		params.SubscriptionData.AddMetadata(k, v)
	}

	session, err := g.api.CheckoutSessions.New(params)
	if err != nil {
		return "", fmt.Errorf("failed to create checkout session: %w", err)
	}

	return session.URL, nil
}

// VerifyWebhook rejects unsigned or tampered payloads before anything else
// looks at them, then maps the processor event onto a domain event.
func (g *stripeGateway) VerifyWebhook(payload []byte, signature string) (*domain.BillingEvent, error) {
	event, err := webhook.ConstructEvent(payload, signature, g.webhookSecret)
	if err != nil {
		return nil, fmt.Errorf("webhook signature verification failed: %w", err)
	}

	return translateEvent(&event)
}

func translateEvent(event *stripe.Event) (*domain.BillingEvent, error) {
	switch event.Type {
	case "checkout.session.completed":
		var session stripe.CheckoutSession
		if err := json.Unmarshal(event.Data.Raw, &session); err != nil {
			return nil, fmt.Errorf("failed to parse checkout session: %w", err)
		}

		out := &domain.BillingEvent{
			Type:   domain.EventCheckoutCompleted,
			UserID: session.Metadata[MetaUserID],
			PlanID: session.Metadata[MetaPlanID],
		}
		if session.Subscription != nil {
			out.SubscriptionID = session.Subscription.ID
		}
		return out, nil

	case "customer.subscription.created", "customer.subscription.updated":
		sub, err := parseSubscription(event)
		if err != nil {
			return nil, err
		}

		out := &domain.BillingEvent{
			Type:            domain.EventSubscriptionUpdate,
			SubscriptionID:  sub.ID,
			ProcessorStatus: string(sub.Status),
		}
		if sub.CancelAt > 0 {
			cancelAt := time.Unix(sub.CancelAt, 0).UTC()
			out.CancelAt = &cancelAt
		}
		return out, nil

	case "customer.subscription.deleted":
		sub, err := parseSubscription(event)
		if err != nil {
			return nil, err
		}
		return &domain.BillingEvent{
			Type:           domain.EventSubscriptionDelete,
			SubscriptionID: sub.ID,
		}, nil

	case "invoice.payment_failed":
		var invoice stripe.Invoice
		if err := json.Unmarshal(event.Data.Raw, &invoice); err != nil {
			return nil, fmt.Errorf("failed to parse invoice: %w", err)
		}

		out := &domain.BillingEvent{Type: domain.EventPaymentFailed}
		if invoice.Subscription != nil {
			out.SubscriptionID = invoice.Subscription.ID
		}
		return out, nil

	default:
		return &domain.BillingEvent{Type: domain.EventIgnored}, nil
	}
}

func parseSubscription(event *stripe.Event) (*stripe.Subscription, error) {
	var sub stripe.Subscription
	if err := json.Unmarshal(event.Data.Raw, &sub); err != nil {
		return nil, fmt.Errorf("failed to parse subscription: %w", err)
	}
	return &sub, nil
}

func stripeInterval(interval domain.PlanInterval) string {
	switch interval {
	case domain.IntervalWeekly:
		return string(stripe.PriceRecurringIntervalWeek)
	case domain.IntervalYearly:
		return string(stripe.PriceRecurringIntervalYear)
	default:
		return string(stripe.PriceRecurringIntervalMonth)
	}
}
