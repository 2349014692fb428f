package service

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/sanjaykumarkhadka/gym/internal/billing"
	"github.com/sanjaykumarkhadka/gym/internal/domain"
	"github.com/sanjaykumarkhadka/gym/internal/repository"
)

var ErrInvalidPrice = errors.New("price must be a non-negative decimal")

type PlanService struct {
	planRepo   repository.PlanRepository
	tenantRepo repository.TenantRepository
	gateway    billing.Gateway
}

type CreatePlanRequest struct {
	Name        string  `json:"name" validate:"required,min=2,max=100"`
	Description *string `json:"description" validate:"omitempty,max=500"`
	Price       string  `json:"price" validate:"required"`
	Interval    string  `json:"interval" validate:"required,oneof=WEEKLY MONTHLY YEARLY"`
}

func NewPlanService(
	planRepo repository.PlanRepository,
	tenantRepo repository.TenantRepository,
	gateway billing.Gateway,
) *PlanService {
	return &PlanService{
		planRepo:   planRepo,
		tenantRepo: tenantRepo,
		gateway:    gateway,
	}
}

// Create stores a membership plan and, when the tenant's payout account is
// connected, mints the matching recurring product on the processor. A failed
// gateway call only costs the price reference: the plan is created anyway
// and can be wired up later.
func (s *PlanService) Create(ctx context.Context, principal domain.Principal, req CreatePlanRequest) (*domain.MembershipPlan, error) {
	price, err := decimal.NewFromString(req.Price)
	if err != nil || price.IsNegative() {
		return nil, ErrInvalidPrice
	}

	tenant, err := s.tenantRepo.GetByID(ctx, principal.TenantID)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	plan := &domain.MembershipPlan{
		ID:        uuid.New(),
		TenantID:  tenant.ID,
		Name:      req.Name,
		Price:     price,
		Interval:  domain.PlanInterval(req.Interval),
		IsActive:  true,
		CreatedAt: now,
		UpdatedAt: now,
	}
	plan.Description = req.Description

	if tenant.BillingReady() {
		refs, err := s.gateway.CreatePlanProduct(ctx, *tenant.StripeAccountID, plan.Name, plan.PriceMinorUnits(), plan.Interval)
		if err != nil {
			log.Printf("WARN: plan product creation failed for tenant %s: %v", tenant.ID, err)
		} else {
			plan.StripeProductID = &refs.ProductID
			plan.StripePriceID = &refs.PriceID
		}
	}

	if err := s.planRepo.Create(ctx, plan); err != nil {
		return nil, err
	}
	return plan, nil
}

// List returns the tenant's plans ordered by price.
func (s *PlanService) List(ctx context.Context, principal domain.Principal) ([]*domain.MembershipPlan, error) {
	return s.planRepo.ListByTenant(ctx, principal.TenantID)
}
