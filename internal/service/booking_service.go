package service

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/sanjaykumarkhadka/gym/internal/domain"
	"github.com/sanjaykumarkhadka/gym/internal/repository"
)

type BookingService struct {
	bookingRepo repository.BookingRepository
	classRepo   repository.ClassRepository
}

type CreateBookingRequest struct {
	ScheduleID string `json:"schedule_id" validate:"required,uuid"`
	Date       string `json:"date" validate:"omitempty,datetime=2006-01-02"`
	Recurring  bool   `json:"recurring"`
	WeeksAhead int    `json:"weeks_ahead" validate:"omitempty,gte=1,lte=26"`
}

func NewBookingService(bookingRepo repository.BookingRepository, classRepo repository.ClassRepository) *BookingService {
	return &BookingService{
		bookingRepo: bookingRepo,
		classRepo:   classRepo,
	}
}

// Book reserves one seat in the schedule's date-instance. The schedule is
// resolved through the caller's tenant, must be active, and the date must
// fall on the schedule's weekday. Capacity and duplicate enforcement happen
// inside the repository's transaction.
func (s *BookingService) Book(ctx context.Context, principal domain.Principal, scheduleID uuid.UUID, date time.Time) (*domain.Booking, error) {
	sched, err := s.classRepo.GetSchedule(ctx, principal.TenantID, scheduleID)
	if err != nil {
		return nil, err
	}
	if !sched.IsActive {
		return nil, domain.ErrScheduleInactive
	}

	date = domain.DateOnly(date)
	if int(date.Weekday()) != sched.DayOfWeek {
		return nil, domain.ErrWeekdayMismatch
	}

	now := time.Now()
	booking := &domain.Booking{
		ID:         uuid.New(),
		UserID:     principal.UserID,
		ScheduleID: sched.ID,
		Date:       date,
		Status:     domain.BookingConfirmed,
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	if err := s.bookingRepo.CreateConfirmed(ctx, booking); err != nil {
		return nil, err
	}
	return booking, nil
}

// BookRecurring attempts one booking for every matching weekday in
// [today, today+weeksAhead*7]. Attempts run sequentially; duplicates are
// absorbed silently so a re-run converges on the same booking set, and any
// other failure is collected without stopping the batch.
func (s *BookingService) BookRecurring(ctx context.Context, principal domain.Principal, scheduleID uuid.UUID, weeksAhead int) (*domain.RecurringResult, error) {
	sched, err := s.classRepo.GetSchedule(ctx, principal.TenantID, scheduleID)
	if err != nil {
		return nil, err
	}
	if !sched.IsActive {
		return nil, domain.ErrScheduleInactive
	}

	if weeksAhead <= 0 {
		weeksAhead = 4
	}

	start := domain.Today()
	end := start.AddDate(0, 0, weeksAhead*7)
	until := end

	result := &domain.RecurringResult{Errors: []string{}}
	for date := start; !date.After(end); date = date.AddDate(0, 0, 1) {
		if int(date.Weekday()) != sched.DayOfWeek {
			continue
		}

		now := time.Now()
		booking := &domain.Booking{
			ID:             uuid.New(),
			UserID:         principal.UserID,
			ScheduleID:     sched.ID,
			Date:           date,
			Status:         domain.BookingConfirmed,
			IsRecurring:    true,
			RecurringUntil: &until,
			CreatedAt:      now,
			UpdatedAt:      now,
		}

		err := s.bookingRepo.CreateConfirmed(ctx, booking)
		switch {
		case err == nil:
			result.Created++
		case errors.Is(err, domain.ErrDuplicateBooking):
			// already booked, re-run is idempotent
		default:
			result.Errors = append(result.Errors, fmt.Sprintf("%s: %v", date.Format("2006-01-02"), err))
		}
	}

	return result, nil
}

// Cancel releases the caller's seat. Only future, not-yet-cancelled bookings
// can be cancelled; the seat frees up because CANCELLED rows are excluded
// from the occupancy count.
func (s *BookingService) Cancel(ctx context.Context, principal domain.Principal, bookingID uuid.UUID) error {
	booking, err := s.bookingRepo.GetForUser(ctx, principal.UserID, bookingID)
	if err != nil {
		return err
	}

	if booking.Status == domain.BookingCancelled {
		return domain.ErrAlreadyCancelled
	}
	if booking.Date.Before(domain.Today()) {
		return domain.ErrPastBooking
	}

	return s.bookingRepo.Cancel(ctx, booking.ID)
}

// CheckIn marks attendance. The booking is resolved through the staff
// member's tenant, so a cross-tenant id behaves as if it did not exist.
func (s *BookingService) CheckIn(ctx context.Context, principal domain.Principal, bookingID uuid.UUID) (*domain.Booking, error) {
	if !principal.Role.IsStaff() {
		return nil, domain.ErrForbidden
	}

	booking, err := s.bookingRepo.GetInTenant(ctx, principal.TenantID, bookingID)
	if err != nil {
		return nil, err
	}

	if booking.CheckedIn {
		return nil, domain.ErrAlreadyCheckedIn
	}

	now := time.Now()
	if err := s.bookingRepo.CheckIn(ctx, booking.ID, now); err != nil {
		return nil, err
	}

	booking.CheckedIn = true
	booking.CheckedInAt = &now
	booking.Status = domain.BookingCompleted
	return booking, nil
}

// List returns the caller's upcoming confirmed bookings (ascending, up to
// 20) or past bookings (descending, up to 50).
func (s *BookingService) List(ctx context.Context, principal domain.Principal, upcoming bool) ([]*domain.BookingDetail, error) {
	return s.bookingRepo.ListForUser(ctx, principal.UserID, upcoming)
}

// AvailableSlots expands the tenant's active weekly schedules into concrete
// date-instances within [from, to] and annotates each with its remaining
// capacity.
func (s *BookingService) AvailableSlots(ctx context.Context, principal domain.Principal, from, to time.Time) ([]*domain.AvailableSlot, error) {
	from = domain.DateOnly(from)
	to = domain.DateOnly(to)
	if to.Before(from) {
		return []*domain.AvailableSlot{}, nil
	}

	schedules, classNames, err := s.classRepo.ListActiveSchedules(ctx, principal.TenantID)
	if err != nil {
		return nil, err
	}

	booked, err := s.classRepo.CountSlotBookings(ctx, principal.TenantID, from, to)
	if err != nil {
		return nil, err
	}

	var slots []*domain.AvailableSlot
	for date := from; !date.After(to); date = date.AddDate(0, 0, 1) {
		for _, sched := range schedules {
			if int(date.Weekday()) != sched.DayOfWeek {
				continue
			}

			count := booked[sched.ID][date]
			slots = append(slots, &domain.AvailableSlot{
				Date:           date,
				Schedule:       sched,
				ClassName:      classNames[sched.ClassTypeID],
				BookedCount:    count,
				AvailableSpots: sched.Capacity - count,
			})
		}
	}

	sort.Slice(slots, func(i, j int) bool {
		if !slots[i].Date.Equal(slots[j].Date) {
			return slots[i].Date.Before(slots[j].Date)
		}
		return slots[i].Schedule.StartTime < slots[j].Schedule.StartTime
	})

	return slots, nil
}
