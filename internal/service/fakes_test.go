package service

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/sanjaykumarkhadka/gym/internal/domain"
)

// In-memory repositories backing the service tests. memStore covers classes
// and bookings together because slot availability reads across both.

// fakeRevoker records blacklist writes in memory.
type fakeRevoker struct {
	mu      sync.Mutex
	tokens  map[string]time.Time
	revoked map[string]time.Duration
}

func newFakeRevoker() *fakeRevoker {
	return &fakeRevoker{
		tokens:  map[string]time.Time{},
		revoked: map[string]time.Duration{},
	}
}

func (f *fakeRevoker) AddUntil(ctx context.Context, token string, expiresAt time.Time) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.tokens[token] = expiresAt
	return nil
}

func (f *fakeRevoker) RevokeUser(ctx context.Context, userID string, ttl time.Duration) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.revoked[userID] = ttl
	return nil
}

type memStore struct {
	mu         sync.Mutex
	classTypes map[uuid.UUID]*domain.ClassType
	schedules  map[uuid.UUID]*domain.ClassSchedule
	// schedule id -> owning tenant, resolved through the class type
	scheduleTenant map[uuid.UUID]uuid.UUID
	bookings       map[uuid.UUID]*domain.Booking
}

func newMemStore() *memStore {
	return &memStore{
		classTypes:     map[uuid.UUID]*domain.ClassType{},
		schedules:      map[uuid.UUID]*domain.ClassSchedule{},
		scheduleTenant: map[uuid.UUID]uuid.UUID{},
		bookings:       map[uuid.UUID]*domain.Booking{},
	}
}

func (m *memStore) addSchedule(tenantID uuid.UUID, className string, dayOfWeek, capacity int, active bool) *domain.ClassSchedule {
	m.mu.Lock()
	defer m.mu.Unlock()

	ct := &domain.ClassType{ID: uuid.New(), TenantID: tenantID, Name: className}
	m.classTypes[ct.ID] = ct

	sched := &domain.ClassSchedule{
		ID:              uuid.New(),
		ClassTypeID:     ct.ID,
		DayOfWeek:       dayOfWeek,
		StartTime:       "09:00",
		DurationMinutes: 60,
		Capacity:        capacity,
		IsActive:        active,
	}
	m.schedules[sched.ID] = sched
	m.scheduleTenant[sched.ID] = tenantID
	return sched
}

func (m *memStore) CreateClassType(ctx context.Context, ct *domain.ClassType) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.classTypes[ct.ID] = ct
	return nil
}

func (m *memStore) GetClassType(ctx context.Context, tenantID, id uuid.UUID) (*domain.ClassType, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	ct, ok := m.classTypes[id]
	if !ok || ct.TenantID != tenantID {
		return nil, domain.ErrNotFound
	}
	return ct, nil
}

func (m *memStore) ListClassTypes(ctx context.Context, tenantID uuid.UUID) ([]*domain.ClassType, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*domain.ClassType
	for _, ct := range m.classTypes {
		if ct.TenantID == tenantID {
			out = append(out, ct)
		}
	}
	return out, nil
}

func (m *memStore) CreateSchedule(ctx context.Context, sched *domain.ClassSchedule) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.schedules[sched.ID] = sched
	if ct, ok := m.classTypes[sched.ClassTypeID]; ok {
		m.scheduleTenant[sched.ID] = ct.TenantID
	}
	return nil
}

func (m *memStore) GetSchedule(ctx context.Context, tenantID, id uuid.UUID) (*domain.ClassSchedule, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	sched, ok := m.schedules[id]
	if !ok || m.scheduleTenant[id] != tenantID {
		return nil, domain.ErrNotFound
	}
	copied := *sched
	return &copied, nil
}

func (m *memStore) GetScheduleBySlot(ctx context.Context, classTypeID uuid.UUID, dayOfWeek int, startTime string) (*domain.ClassSchedule, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, sched := range m.schedules {
		if sched.ClassTypeID == classTypeID && sched.DayOfWeek == dayOfWeek && sched.StartTime == startTime {
			copied := *sched
			return &copied, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (m *memStore) UpdateSchedule(ctx context.Context, tenantID uuid.UUID, sched *domain.ClassSchedule) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.scheduleTenant[sched.ID] != tenantID {
		return domain.ErrNotFound
	}
	copied := *sched
	m.schedules[sched.ID] = &copied
	return nil
}

func (m *memStore) DeleteSchedule(ctx context.Context, tenantID, id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.schedules[id]; !ok || m.scheduleTenant[id] != tenantID {
		return domain.ErrNotFound
	}
	delete(m.schedules, id)
	for bid, b := range m.bookings {
		if b.ScheduleID == id {
			delete(m.bookings, bid)
		}
	}
	return nil
}

func (m *memStore) ListActiveSchedules(ctx context.Context, tenantID uuid.UUID) ([]*domain.ClassSchedule, map[uuid.UUID]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	names := map[uuid.UUID]string{}
	var out []*domain.ClassSchedule
	for id, sched := range m.schedules {
		if m.scheduleTenant[id] != tenantID || !sched.IsActive {
			continue
		}
		out = append(out, sched)
		if ct, ok := m.classTypes[sched.ClassTypeID]; ok {
			names[ct.ID] = ct.Name
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID.String() < out[j].ID.String() })
	return out, names, nil
}

func (m *memStore) CountSlotBookings(ctx context.Context, tenantID uuid.UUID, from, to time.Time) (map[uuid.UUID]map[time.Time]int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	counts := map[uuid.UUID]map[time.Time]int{}
	for _, b := range m.bookings {
		if m.scheduleTenant[b.ScheduleID] != tenantID || !b.Status.CountsTowardCapacity() {
			continue
		}
		if b.Date.Before(from) || b.Date.After(to) {
			continue
		}
		if counts[b.ScheduleID] == nil {
			counts[b.ScheduleID] = map[time.Time]int{}
		}
		counts[b.ScheduleID][b.Date]++
	}
	return counts, nil
}

func (m *memStore) CreateConfirmed(ctx context.Context, b *domain.Booking) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	sched, ok := m.schedules[b.ScheduleID]
	if !ok {
		return domain.ErrNotFound
	}

	occupied := 0
	for _, existing := range m.bookings {
		if existing.ScheduleID == b.ScheduleID && existing.Date.Equal(b.Date) && existing.Status.CountsTowardCapacity() {
			occupied++
		}
	}
	if occupied >= sched.Capacity {
		return domain.ErrCapacityExceeded
	}

	for _, existing := range m.bookings {
		if existing.UserID == b.UserID && existing.ScheduleID == b.ScheduleID &&
			existing.Date.Equal(b.Date) && existing.Status != domain.BookingCancelled {
			return domain.ErrDuplicateBooking
		}
	}

	stored := *b
	m.bookings[b.ID] = &stored
	return nil
}

func (m *memStore) GetForUser(ctx context.Context, userID, id uuid.UUID) (*domain.Booking, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	b, ok := m.bookings[id]
	if !ok || b.UserID != userID {
		return nil, domain.ErrNotFound
	}
	copied := *b
	return &copied, nil
}

func (m *memStore) GetInTenant(ctx context.Context, tenantID, id uuid.UUID) (*domain.Booking, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	b, ok := m.bookings[id]
	if !ok || m.scheduleTenant[b.ScheduleID] != tenantID {
		return nil, domain.ErrNotFound
	}
	copied := *b
	return &copied, nil
}

func (m *memStore) Cancel(ctx context.Context, id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	b, ok := m.bookings[id]
	if !ok {
		return domain.ErrNotFound
	}
	b.Status = domain.BookingCancelled
	return nil
}

func (m *memStore) CheckIn(ctx context.Context, id uuid.UUID, at time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	b, ok := m.bookings[id]
	if !ok {
		return domain.ErrNotFound
	}
	if b.CheckedIn {
		return domain.ErrAlreadyCheckedIn
	}
	b.CheckedIn = true
	b.CheckedInAt = &at
	b.Status = domain.BookingCompleted
	return nil
}

func (m *memStore) ListForUser(ctx context.Context, userID uuid.UUID, upcoming bool) ([]*domain.BookingDetail, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	today := domain.Today()
	var out []*domain.BookingDetail
	for _, b := range m.bookings {
		if b.UserID != userID {
			continue
		}
		if upcoming {
			if b.Date.Before(today) || b.Status != domain.BookingConfirmed {
				continue
			}
		} else if !b.Date.Before(today) {
			continue
		}
		out = append(out, &domain.BookingDetail{Booking: *b})
	}
	sort.Slice(out, func(i, j int) bool {
		if upcoming {
			return out[i].Date.Before(out[j].Date)
		}
		return out[j].Date.Before(out[i].Date)
	})
	limit := 20
	if !upcoming {
		limit = 50
	}
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (m *memStore) CancelFutureConfirmed(ctx context.Context, userID uuid.UUID, from time.Time) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	cancelled := 0
	for _, b := range m.bookings {
		if b.UserID == userID && !b.Date.Before(from) && b.Status == domain.BookingConfirmed {
			b.Status = domain.BookingCancelled
			cancelled++
		}
	}
	return cancelled, nil
}

func (m *memStore) CountForDay(ctx context.Context, tenantID uuid.UUID, day time.Time) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	count := 0
	for _, b := range m.bookings {
		if m.scheduleTenant[b.ScheduleID] == tenantID && b.Date.Equal(day) && b.Status == domain.BookingConfirmed {
			count++
		}
	}
	return count, nil
}

type memTenantRepo struct {
	mu      sync.Mutex
	tenants map[uuid.UUID]*domain.Tenant
	users   *memUserRepo
}

func newMemTenantRepo(users *memUserRepo) *memTenantRepo {
	return &memTenantRepo{tenants: map[uuid.UUID]*domain.Tenant{}, users: users}
}

func (m *memTenantRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Tenant, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	t, ok := m.tenants[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return t, nil
}

func (m *memTenantRepo) GetBySlug(ctx context.Context, slug string) (*domain.Tenant, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, t := range m.tenants {
		if t.Slug == slug {
			return t, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (m *memTenantRepo) CreateWithOwner(ctx context.Context, tenant *domain.Tenant, owner *domain.User) error {
	m.mu.Lock()
	for _, t := range m.tenants {
		if t.Slug == tenant.Slug {
			m.mu.Unlock()
			return domain.ErrSlugTaken
		}
	}
	m.tenants[tenant.ID] = tenant
	m.mu.Unlock()

	if err := m.users.Create(ctx, owner); err != nil {
		m.mu.Lock()
		delete(m.tenants, tenant.ID)
		m.mu.Unlock()
		return err
	}
	return nil
}

func (m *memTenantRepo) UpdateSettings(ctx context.Context, id uuid.UUID, settings string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	t, ok := m.tenants[id]
	if !ok {
		return domain.ErrNotFound
	}
	t.Settings = &settings
	return nil
}

func (m *memTenantRepo) UpdateBilling(ctx context.Context, id uuid.UUID, accountID string, status domain.PayoutAccountStatus) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	t, ok := m.tenants[id]
	if !ok {
		return domain.ErrNotFound
	}
	t.StripeAccountID = &accountID
	t.StripeAccountStatus = status
	return nil
}

type memUserRepo struct {
	mu    sync.Mutex
	users map[uuid.UUID]*domain.User
}

func newMemUserRepo() *memUserRepo {
	return &memUserRepo{users: map[uuid.UUID]*domain.User{}}
}

func (m *memUserRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return u, nil
}

func (m *memUserRepo) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (m *memUserRepo) Create(ctx context.Context, user *domain.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.users {
		if u.Email == user.Email {
			return domain.ErrEmailTaken
		}
	}
	m.users[user.ID] = user
	return nil
}

func (m *memUserRepo) SetStripeCustomerID(ctx context.Context, id uuid.UUID, customerID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[id]
	if !ok {
		return domain.ErrNotFound
	}
	u.StripeCustomerID = &customerID
	return nil
}

func (m *memUserRepo) ListMembers(ctx context.Context, tenantID uuid.UUID) ([]*domain.TenantMember, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*domain.TenantMember
	for _, u := range m.users {
		if u.TenantID == tenantID {
			out = append(out, &domain.TenantMember{ID: u.ID, Name: u.Name, Email: u.Email, Role: u.Role})
		}
	}
	return out, nil
}

func (m *memUserRepo) CountMembers(ctx context.Context, tenantID uuid.UUID) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	count := 0
	for _, u := range m.users {
		if u.TenantID == tenantID && u.Role == domain.RoleMember {
			count++
		}
	}
	return count, nil
}

type memPlanRepo struct {
	mu    sync.Mutex
	plans map[uuid.UUID]*domain.MembershipPlan
}

func newMemPlanRepo() *memPlanRepo {
	return &memPlanRepo{plans: map[uuid.UUID]*domain.MembershipPlan{}}
}

func (m *memPlanRepo) Create(ctx context.Context, plan *domain.MembershipPlan) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.plans[plan.ID] = plan
	return nil
}

func (m *memPlanRepo) GetInTenant(ctx context.Context, tenantID, id uuid.UUID) (*domain.MembershipPlan, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.plans[id]
	if !ok || p.TenantID != tenantID {
		return nil, domain.ErrNotFound
	}
	return p, nil
}

func (m *memPlanRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.MembershipPlan, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.plans[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return p, nil
}

func (m *memPlanRepo) ListByTenant(ctx context.Context, tenantID uuid.UUID) ([]*domain.MembershipPlan, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*domain.MembershipPlan
	for _, p := range m.plans {
		if p.TenantID == tenantID {
			out = append(out, p)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Price.LessThan(out[j].Price) })
	return out, nil
}

type memSubRepo struct {
	mu   sync.Mutex
	subs map[string]*domain.Subscription // keyed by processor subscription id
	// plan repo for the revenue join
	plans *memPlanRepo
}

func newMemSubRepo(plans *memPlanRepo) *memSubRepo {
	return &memSubRepo{subs: map[string]*domain.Subscription{}, plans: plans}
}

func (m *memSubRepo) Upsert(ctx context.Context, sub *domain.Subscription) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.subs[sub.StripeSubscriptionID]; ok {
		return nil
	}
	stored := *sub
	m.subs[sub.StripeSubscriptionID] = &stored
	return nil
}

func (m *memSubRepo) GetByStripeID(ctx context.Context, stripeSubID string) (*domain.Subscription, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	sub, ok := m.subs[stripeSubID]
	if !ok {
		return nil, domain.ErrNotFound
	}
	copied := *sub
	return &copied, nil
}

func (m *memSubRepo) SetStatus(ctx context.Context, stripeSubID string, status domain.SubscriptionStatus, endDate *time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	sub, ok := m.subs[stripeSubID]
	if !ok {
		return domain.ErrNotFound
	}
	sub.Status = status
	if endDate != nil {
		sub.EndDate = endDate
	}
	return nil
}

func (m *memSubRepo) MarkCancelled(ctx context.Context, stripeSubID string, at time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	sub, ok := m.subs[stripeSubID]
	if !ok {
		return domain.ErrNotFound
	}
	sub.Status = domain.SubscriptionCancelled
	sub.CancelledAt = &at
	sub.EndDate = &at
	return nil
}

func (m *memSubRepo) CountActiveByTenant(ctx context.Context, tenantID uuid.UUID) (int, error) {
	actives, err := m.ListActiveByTenant(ctx, tenantID)
	if err != nil {
		return 0, err
	}
	return len(actives), nil
}

func (m *memSubRepo) ListActiveByTenant(ctx context.Context, tenantID uuid.UUID) ([]*domain.ActiveSubscription, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*domain.ActiveSubscription
	for _, sub := range m.subs {
		if sub.Status != domain.SubscriptionActive {
			continue
		}
		plan, ok := m.plans.plans[sub.PlanID]
		if !ok || plan.TenantID != tenantID {
			continue
		}
		out = append(out, &domain.ActiveSubscription{ID: sub.ID, Price: plan.Price, Interval: plan.Interval})
	}
	return out, nil
}

// fakeGateway records calls and returns canned values. Set failProducts or
// fail to simulate processor outages.
type fakeGateway struct {
	mu           sync.Mutex
	fail         bool
	failProducts bool

	accounts      int
	checkoutCalls int
	lastMetadata  map[string]string
}

func (g *fakeGateway) CreateConnectedAccount(ctx context.Context, tenantID, email, businessName string) (string, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.fail {
		return "", errors.New("gateway down")
	}
	g.accounts++
	return fmt.Sprintf("acct_%d", g.accounts), nil
}

func (g *fakeGateway) OnboardingLink(ctx context.Context, accountID, returnURL, refreshURL string) (string, error) {
	if g.fail {
		return "", errors.New("gateway down")
	}
	return "https://connect.example.com/onboard/" + accountID, nil
}

func (g *fakeGateway) AccountStatus(ctx context.Context, accountID string) (*domain.AccountStatus, error) {
	if g.fail {
		return nil, errors.New("gateway down")
	}
	return &domain.AccountStatus{ChargesEnabled: true, PayoutsEnabled: true}, nil
}

func (g *fakeGateway) CreatePlanProduct(ctx context.Context, accountID, name string, priceMinorUnits int64, interval domain.PlanInterval) (*domain.PlanBilling, error) {
	if g.fail || g.failProducts {
		return nil, errors.New("gateway down")
	}
	return &domain.PlanBilling{ProductID: "prod_" + name, PriceID: "price_" + name}, nil
}

func (g *fakeGateway) GetOrCreateCustomer(ctx context.Context, accountID, email, name, userID string) (string, error) {
	if g.fail {
		return "", errors.New("gateway down")
	}
	return "cus_" + userID, nil
}

func (g *fakeGateway) CreateCheckoutSession(ctx context.Context, accountID, priceID, customerID, email, successURL, cancelURL string, metadata map[string]string) (string, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.fail {
		return "", errors.New("gateway down")
	}
	g.checkoutCalls++
	g.lastMetadata = metadata
	return "https://checkout.example.com/session", nil
}

func (g *fakeGateway) VerifyWebhook(payload []byte, signature string) (*domain.BillingEvent, error) {
	return nil, errors.New("not used in tests")
}
