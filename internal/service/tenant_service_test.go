package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/sanjaykumarkhadka/gym/internal/domain"
)

func TestStatsRevenueNormalization(t *testing.T) {
	users := newMemUserRepo()
	tenants := newMemTenantRepo(users)
	plans := newMemPlanRepo()
	subs := newMemSubRepo(plans)
	store := newMemStore()

	tenant := &domain.Tenant{ID: uuid.New(), Name: "Iron Temple", Slug: "iron-temple"}
	tenants.tenants[tenant.ID] = tenant
	principal := domain.Principal{UserID: uuid.New(), TenantID: tenant.ID, Role: domain.RoleOwner}

	// Two members and one assistant; only MEMBER rows count.
	for _, role := range []domain.Role{domain.RoleMember, domain.RoleMember, domain.RoleAssistant} {
		u := &domain.User{ID: uuid.New(), TenantID: tenant.ID, Role: role, Email: uuid.NewString() + "@example.com"}
		users.users[u.ID] = u
	}

	// Weekly 10 counts x4, yearly 120 counts /12, monthly 30 counts once.
	addSub := func(price int64, interval domain.PlanInterval, status domain.SubscriptionStatus) {
		plan := &domain.MembershipPlan{ID: uuid.New(), TenantID: tenant.ID, Price: decimal.NewFromInt(price), Interval: interval}
		plans.plans[plan.ID] = plan
		subID := uuid.NewString()
		subs.subs[subID] = &domain.Subscription{ID: uuid.New(), UserID: uuid.New(), PlanID: plan.ID, Status: status, StripeSubscriptionID: subID, StartDate: time.Now()}
	}
	addSub(10, domain.IntervalWeekly, domain.SubscriptionActive)
	addSub(120, domain.IntervalYearly, domain.SubscriptionActive)
	addSub(30, domain.IntervalMonthly, domain.SubscriptionActive)
	addSub(999, domain.IntervalMonthly, domain.SubscriptionCancelled)

	// One booking today, one cancelled, one on another day.
	sched := store.addSchedule(tenant.ID, "Yoga", int(domain.Today().Weekday()), 10, true)
	addBooking := func(date time.Time, status domain.BookingStatus) {
		b := &domain.Booking{ID: uuid.New(), UserID: uuid.New(), ScheduleID: sched.ID, Date: date, Status: status}
		store.bookings[b.ID] = b
	}
	addBooking(domain.Today(), domain.BookingConfirmed)
	addBooking(domain.Today(), domain.BookingCancelled)
	addBooking(domain.Today().AddDate(0, 0, 7), domain.BookingConfirmed)

	svc := NewTenantService(tenants, users, subs, store)
	stats, err := svc.Stats(context.Background(), principal)
	if err != nil {
		t.Fatalf("stats failed: %v", err)
	}

	if stats.MemberCount != 2 {
		t.Fatalf("expected 2 members, got %d", stats.MemberCount)
	}
	if stats.ActiveSubscriptions != 3 {
		t.Fatalf("expected 3 active subscriptions, got %d", stats.ActiveSubscriptions)
	}
	if stats.TodayBookings != 1 {
		t.Fatalf("expected 1 booking today, got %d", stats.TodayBookings)
	}
	// 10*4 + 120/12 + 30 = 80
	revenue, err := decimal.NewFromString(stats.MonthlyRevenue)
	if err != nil {
		t.Fatalf("revenue is not a decimal: %q", stats.MonthlyRevenue)
	}
	if !revenue.Equal(decimal.NewFromInt(80)) {
		t.Fatalf("expected monthly revenue 80, got %s", stats.MonthlyRevenue)
	}
}

func TestUpdateSettings(t *testing.T) {
	users := newMemUserRepo()
	tenants := newMemTenantRepo(users)
	tenant := &domain.Tenant{ID: uuid.New(), Name: "Iron Temple", Slug: "iron-temple"}
	tenants.tenants[tenant.ID] = tenant
	principal := domain.Principal{UserID: uuid.New(), TenantID: tenant.ID, Role: domain.RoleOwner}

	svc := NewTenantService(tenants, users, newMemSubRepo(newMemPlanRepo()), newMemStore())

	updated, err := svc.UpdateSettings(context.Background(), principal, []byte(`{"theme":"dark"}`))
	if err != nil {
		t.Fatalf("settings update failed: %v", err)
	}
	if updated.Settings == nil || *updated.Settings != `{"theme":"dark"}` {
		t.Fatalf("settings not stored: %v", updated.Settings)
	}

	if _, err := svc.UpdateSettings(context.Background(), principal, []byte(`"not an object"`)); !errors.Is(err, ErrInvalidSettings) {
		t.Fatalf("expected ErrInvalidSettings, got %v", err)
	}
}
