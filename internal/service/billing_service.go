package service

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"

	"github.com/sanjaykumarkhadka/gym/internal/billing"
	"github.com/sanjaykumarkhadka/gym/internal/domain"
	"github.com/sanjaykumarkhadka/gym/internal/repository"
)

// BillingService drives payout-account onboarding, hosted checkout, and the
// webhook-fed subscription state machine. Subscription rows are written only
// from processor events; nothing here creates one directly on user action.
type BillingService struct {
	tenantRepo  repository.TenantRepository
	userRepo    repository.UserRepository
	planRepo    repository.PlanRepository
	subRepo     repository.SubscriptionRepository
	bookingRepo repository.BookingRepository
	gateway     billing.Gateway
	baseURL     string
}

type CheckoutRequest struct {
	PlanID string `json:"plan_id" validate:"required,uuid"`
}

type OnboardingResponse struct {
	URL string `json:"url"`
}

type ConnectStatusResponse struct {
	Status         domain.PayoutAccountStatus `json:"status"`
	ChargesEnabled bool                       `json:"charges_enabled"`
	PayoutsEnabled bool                       `json:"payouts_enabled"`
}

func NewBillingService(
	tenantRepo repository.TenantRepository,
	userRepo repository.UserRepository,
	planRepo repository.PlanRepository,
	subRepo repository.SubscriptionRepository,
	bookingRepo repository.BookingRepository,
	gateway billing.Gateway,
	baseURL string,
) *BillingService {
	return &BillingService{
		tenantRepo:  tenantRepo,
		userRepo:    userRepo,
		planRepo:    planRepo,
		subRepo:     subRepo,
		bookingRepo: bookingRepo,
		gateway:     gateway,
		baseURL:     baseURL,
	}
}

// StartOnboarding creates the tenant's connected payout account on first
// call and returns a fresh hosted onboarding link either way.
func (s *BillingService) StartOnboarding(ctx context.Context, principal domain.Principal) (*OnboardingResponse, error) {
	tenant, err := s.tenantRepo.GetByID(ctx, principal.TenantID)
	if err != nil {
		return nil, err
	}

	accountID := ""
	if tenant.StripeAccountID != nil {
		accountID = *tenant.StripeAccountID
	} else {
		accountID, err = s.gateway.CreateConnectedAccount(ctx, tenant.ID.String(), principal.Email, tenant.Name)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", domain.ErrUpstream, err)
		}
		if err := s.tenantRepo.UpdateBilling(ctx, tenant.ID, accountID, domain.PayoutAccountPending); err != nil {
			return nil, err
		}
	}

	returnURL := s.baseURL + "/settings/billing?connected=1"
	refreshURL := s.baseURL + "/settings/billing?refresh=1"
	url, err := s.gateway.OnboardingLink(ctx, accountID, returnURL, refreshURL)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrUpstream, err)
	}

	return &OnboardingResponse{URL: url}, nil
}

// ConnectStatus polls the processor for the connected account's state and
// promotes the tenant to active once charges are enabled.
func (s *BillingService) ConnectStatus(ctx context.Context, principal domain.Principal) (*ConnectStatusResponse, error) {
	tenant, err := s.tenantRepo.GetByID(ctx, principal.TenantID)
	if err != nil {
		return nil, err
	}

	if tenant.StripeAccountID == nil {
		return &ConnectStatusResponse{Status: domain.PayoutAccountNone}, nil
	}

	status, err := s.gateway.AccountStatus(ctx, *tenant.StripeAccountID)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrUpstream, err)
	}

	newStatus := domain.PayoutAccountPending
	if status.ChargesEnabled {
		newStatus = domain.PayoutAccountActive
	}
	if newStatus != tenant.StripeAccountStatus {
		if err := s.tenantRepo.UpdateBilling(ctx, tenant.ID, *tenant.StripeAccountID, newStatus); err != nil {
			return nil, err
		}
	}

	return &ConnectStatusResponse{
		Status:         newStatus,
		ChargesEnabled: status.ChargesEnabled,
		PayoutsEnabled: status.PayoutsEnabled,
	}, nil
}

// StartCheckout opens a hosted subscription checkout for the caller on their
// gym's connected account and returns the redirect URL.
func (s *BillingService) StartCheckout(ctx context.Context, principal domain.Principal, req CheckoutRequest) (string, error) {
	planID, err := uuid.Parse(req.PlanID)
	if err != nil {
		return "", domain.ErrNotFound
	}

	tenant, err := s.tenantRepo.GetByID(ctx, principal.TenantID)
	if err != nil {
		return "", err
	}
	if !tenant.BillingReady() {
		return "", domain.ErrBillingNotReady
	}

	plan, err := s.planRepo.GetInTenant(ctx, tenant.ID, planID)
	if err != nil {
		return "", err
	}
	if plan.StripePriceID == nil {
		return "", domain.ErrPlanNotBillable
	}

	user, err := s.userRepo.GetByID(ctx, principal.UserID)
	if err != nil {
		return "", err
	}

	customerID := ""
	if user.StripeCustomerID != nil {
		customerID = *user.StripeCustomerID
	} else {
		customerID, err = s.gateway.GetOrCreateCustomer(ctx, *tenant.StripeAccountID, user.Email, user.Name, user.ID.String())
		if err != nil {
			return "", fmt.Errorf("%w: %v", domain.ErrUpstream, err)
		}
		if err := s.userRepo.SetStripeCustomerID(ctx, user.ID, customerID); err != nil {
			return "", err
		}
	}

	metadata := map[string]string{
		billing.MetaUserID:   user.ID.String(),
		billing.MetaPlanID:   plan.ID.String(),
		billing.MetaTenantID: tenant.ID.String(),
	}
	successURL := s.baseURL + "/membership?checkout=success"
	cancelURL := s.baseURL + "/membership?checkout=cancelled"

	url, err := s.gateway.CreateCheckoutSession(ctx, *tenant.StripeAccountID, *plan.StripePriceID, customerID, user.Email, successURL, cancelURL, metadata)
	if err != nil {
		return "", fmt.Errorf("%w: %v", domain.ErrUpstream, err)
	}
	return url, nil
}

// HandleEvent applies one verified processor event to the subscription state
// machine. Delivery is at-least-once, so every branch writes absolute state:
// replaying an event lands on the end state it already produced.
func (s *BillingService) HandleEvent(ctx context.Context, event *domain.BillingEvent) error {
	switch event.Type {
	case domain.EventCheckoutCompleted:
		return s.applyCheckoutCompleted(ctx, event)
	case domain.EventSubscriptionUpdate:
		return s.applySubscriptionUpdate(ctx, event)
	case domain.EventSubscriptionDelete:
		return s.applySubscriptionDelete(ctx, event)
	case domain.EventPaymentFailed:
		return s.applyPaymentFailed(ctx, event)
	default:
		return nil
	}
}

func (s *BillingService) applyCheckoutCompleted(ctx context.Context, event *domain.BillingEvent) error {
	if event.UserID == "" || event.PlanID == "" || event.SubscriptionID == "" {
		// Malformed event, e.g. a checkout created outside this app.
		log.Printf("WARN: checkout event missing metadata, ignoring (sub=%q)", event.SubscriptionID)
		return nil
	}

	userID, err := uuid.Parse(event.UserID)
	if err != nil {
		log.Printf("WARN: checkout event carries invalid user id %q, ignoring", event.UserID)
		return nil
	}
	planID, err := uuid.Parse(event.PlanID)
	if err != nil {
		log.Printf("WARN: checkout event carries invalid plan id %q, ignoring", event.PlanID)
		return nil
	}

	now := time.Now()
	sub := &domain.Subscription{
		ID:                   uuid.New(),
		UserID:               userID,
		PlanID:               planID,
		Status:               domain.SubscriptionActive,
		StripeSubscriptionID: event.SubscriptionID,
		StartDate:            now,
		CreatedAt:            now,
		UpdatedAt:            now,
	}

	// Upsert: a replayed checkout event leaves the existing row untouched.
	return s.subRepo.Upsert(ctx, sub)
}

func (s *BillingService) applySubscriptionUpdate(ctx context.Context, event *domain.BillingEvent) error {
	if _, err := s.subRepo.GetByStripeID(ctx, event.SubscriptionID); err != nil {
		log.Printf("WARN: update event for unknown subscription %q, ignoring", event.SubscriptionID)
		return nil
	}

	status := mapProcessorStatus(event.ProcessorStatus)
	return s.subRepo.SetStatus(ctx, event.SubscriptionID, status, event.CancelAt)
}

func (s *BillingService) applySubscriptionDelete(ctx context.Context, event *domain.BillingEvent) error {
	sub, err := s.subRepo.GetByStripeID(ctx, event.SubscriptionID)
	if err != nil {
		log.Printf("WARN: delete event for unknown subscription %q, ignoring", event.SubscriptionID)
		return nil
	}

	if err := s.subRepo.MarkCancelled(ctx, event.SubscriptionID, time.Now()); err != nil {
		return err
	}

	// A lapsed member releases their reserved future seats. Only CONFIRMED
	// rows flip, so a replayed delete cancels zero additional bookings.
	cancelled, err := s.bookingRepo.CancelFutureConfirmed(ctx, sub.UserID, domain.Today())
	if err != nil {
		return err
	}
	if cancelled > 0 {
		log.Printf("cancelled %d future bookings for user %s after subscription end", cancelled, sub.UserID)
	}
	return nil
}

func (s *BillingService) applyPaymentFailed(ctx context.Context, event *domain.BillingEvent) error {
	if event.SubscriptionID == "" {
		return nil
	}
	if _, err := s.subRepo.GetByStripeID(ctx, event.SubscriptionID); err != nil {
		log.Printf("WARN: payment failure for unknown subscription %q, ignoring", event.SubscriptionID)
		return nil
	}

	// No cascade: one missed payment does not revoke access.
	return s.subRepo.SetStatus(ctx, event.SubscriptionID, domain.SubscriptionPastDue, nil)
}

func mapProcessorStatus(processorStatus string) domain.SubscriptionStatus {
	switch processorStatus {
	case "past_due":
		return domain.SubscriptionPastDue
	case "canceled":
		return domain.SubscriptionCancelled
	default:
		return domain.SubscriptionActive
	}
}
