package service

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"

	"github.com/sanjaykumarkhadka/gym/internal/domain"
)

func TestScheduleSlotUniqueness(t *testing.T) {
	store := newMemStore()
	svc := NewClassService(store)

	tenantID := uuid.New()
	principal := domain.Principal{UserID: uuid.New(), TenantID: tenantID, Role: domain.RoleOwner}

	ct, err := svc.CreateClassType(context.Background(), principal, CreateClassTypeRequest{Name: "Yoga"})
	if err != nil {
		t.Fatalf("class creation failed: %v", err)
	}

	req := CreateScheduleRequest{DayOfWeek: 1, StartTime: "09:00", DurationMinutes: 60, Capacity: 10}
	first, err := svc.CreateSchedule(context.Background(), principal, ct.ID, req)
	if err != nil {
		t.Fatalf("schedule creation failed: %v", err)
	}
	if !first.IsActive {
		t.Fatal("new schedules start active")
	}

	// Same (class, weekday, start time) is refused.
	if _, err := svc.CreateSchedule(context.Background(), principal, ct.ID, req); !errors.Is(err, domain.ErrDuplicateSchedule) {
		t.Fatalf("expected ErrDuplicateSchedule, got %v", err)
	}

	// A different start time is fine.
	req.StartTime = "18:00"
	second, err := svc.CreateSchedule(context.Background(), principal, ct.ID, req)
	if err != nil {
		t.Fatalf("second slot creation failed: %v", err)
	}

	// Moving the second slot onto the first is refused too, and the refused
	// move must leave the stored schedule untouched.
	moveTo := "09:00"
	if _, err := svc.UpdateSchedule(context.Background(), principal, second.ID, UpdateScheduleRequest{StartTime: &moveTo}); !errors.Is(err, domain.ErrDuplicateSchedule) {
		t.Fatalf("expected ErrDuplicateSchedule on move, got %v", err)
	}
	kept, err := svc.classRepo.GetSchedule(context.Background(), tenantID, second.ID)
	if err != nil {
		t.Fatalf("schedule lookup failed: %v", err)
	}
	if kept.StartTime != "18:00" {
		t.Fatalf("refused move mutated the stored schedule: start time %q", kept.StartTime)
	}
}

func TestScheduleTenantScoping(t *testing.T) {
	store := newMemStore()
	svc := NewClassService(store)

	tenantID := uuid.New()
	sched := store.addSchedule(tenantID, "Yoga", 1, 10, true)

	outsider := domain.Principal{UserID: uuid.New(), TenantID: uuid.New(), Role: domain.RoleOwner}
	capacity := 99

	if _, err := svc.UpdateSchedule(context.Background(), outsider, sched.ID, UpdateScheduleRequest{Capacity: &capacity}); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound for cross-tenant update, got %v", err)
	}
	if err := svc.DeleteSchedule(context.Background(), outsider, sched.ID); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound for cross-tenant delete, got %v", err)
	}
}

func TestDeleteScheduleCascadesBookings(t *testing.T) {
	store := newMemStore()
	svc := NewClassService(store)

	tenantID := uuid.New()
	sched := store.addSchedule(tenantID, "Yoga", int(domain.Today().Weekday()), 10, true)
	principal := domain.Principal{UserID: uuid.New(), TenantID: tenantID, Role: domain.RoleOwner}

	b := &domain.Booking{ID: uuid.New(), UserID: uuid.New(), ScheduleID: sched.ID, Date: domain.Today(), Status: domain.BookingConfirmed}
	store.bookings[b.ID] = b

	if err := svc.DeleteSchedule(context.Background(), principal, sched.ID); err != nil {
		t.Fatalf("delete failed: %v", err)
	}
	if len(store.bookings) != 0 {
		t.Fatalf("bookings should cascade with their schedule, %d left", len(store.bookings))
	}
}
