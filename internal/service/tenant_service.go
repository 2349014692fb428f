package service

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/shopspring/decimal"

	"github.com/sanjaykumarkhadka/gym/internal/domain"
	"github.com/sanjaykumarkhadka/gym/internal/repository"
)

var ErrInvalidSettings = errors.New("settings must be a JSON object")

type TenantService struct {
	tenantRepo  repository.TenantRepository
	userRepo    repository.UserRepository
	subRepo     repository.SubscriptionRepository
	bookingRepo repository.BookingRepository
}

func NewTenantService(
	tenantRepo repository.TenantRepository,
	userRepo repository.UserRepository,
	subRepo repository.SubscriptionRepository,
	bookingRepo repository.BookingRepository,
) *TenantService {
	return &TenantService{
		tenantRepo:  tenantRepo,
		userRepo:    userRepo,
		subRepo:     subRepo,
		bookingRepo: bookingRepo,
	}
}

func (s *TenantService) Get(ctx context.Context, principal domain.Principal) (*domain.Tenant, error) {
	return s.tenantRepo.GetByID(ctx, principal.TenantID)
}

// Stats assembles the owner dashboard aggregate. Monthly revenue folds every
// active subscription's plan price normalized to a monthly figure: weekly
// plans count four times, yearly plans one twelfth.
func (s *TenantService) Stats(ctx context.Context, principal domain.Principal) (*domain.TenantStats, error) {
	memberCount, err := s.userRepo.CountMembers(ctx, principal.TenantID)
	if err != nil {
		return nil, err
	}

	activeSubs, err := s.subRepo.CountActiveByTenant(ctx, principal.TenantID)
	if err != nil {
		return nil, err
	}

	todayBookings, err := s.bookingRepo.CountForDay(ctx, principal.TenantID, domain.Today())
	if err != nil {
		return nil, err
	}

	subs, err := s.subRepo.ListActiveByTenant(ctx, principal.TenantID)
	if err != nil {
		return nil, err
	}

	revenue := decimal.Zero
	for _, sub := range subs {
		revenue = revenue.Add(sub.Price.Mul(sub.Interval.MonthlyFactor()))
	}

	return &domain.TenantStats{
		MemberCount:         memberCount,
		ActiveSubscriptions: activeSubs,
		TodayBookings:       todayBookings,
		MonthlyRevenue:      revenue.Round(2).String(),
	}, nil
}

// Members lists the tenant's users with their active plan, newest first.
func (s *TenantService) Members(ctx context.Context, principal domain.Principal) ([]*domain.TenantMember, error) {
	return s.userRepo.ListMembers(ctx, principal.TenantID)
}

// UpdateSettings replaces the tenant's settings document. The payload must
// be a JSON object; its keys are opaque to the server.
func (s *TenantService) UpdateSettings(ctx context.Context, principal domain.Principal, settings json.RawMessage) (*domain.Tenant, error) {
	var probe map[string]any
	if err := json.Unmarshal(settings, &probe); err != nil {
		return nil, ErrInvalidSettings
	}

	if err := s.tenantRepo.UpdateSettings(ctx, principal.TenantID, string(settings)); err != nil {
		return nil, err
	}

	return s.tenantRepo.GetByID(ctx, principal.TenantID)
}
