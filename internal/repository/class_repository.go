package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/sanjaykumarkhadka/gym/internal/domain"
)

// ClassRepository covers class types and their weekly schedules. Every
// lookup is scoped by tenant; an id belonging to another tenant behaves as
// if it did not exist.
type ClassRepository interface {
	CreateClassType(ctx context.Context, ct *domain.ClassType) error
	GetClassType(ctx context.Context, tenantID, id uuid.UUID) (*domain.ClassType, error)
	// ListClassTypes returns the tenant's classes ordered by name, each with
	// its active schedules ordered by (day of week, start time).
	ListClassTypes(ctx context.Context, tenantID uuid.UUID) ([]*domain.ClassType, error)

	CreateSchedule(ctx context.Context, sched *domain.ClassSchedule) error
	GetSchedule(ctx context.Context, tenantID, id uuid.UUID) (*domain.ClassSchedule, error)
	GetScheduleBySlot(ctx context.Context, classTypeID uuid.UUID, dayOfWeek int, startTime string) (*domain.ClassSchedule, error)
	UpdateSchedule(ctx context.Context, tenantID uuid.UUID, sched *domain.ClassSchedule) error
	// DeleteSchedule removes the schedule; its bookings go with it
	// (ON DELETE CASCADE).
	DeleteSchedule(ctx context.Context, tenantID, id uuid.UUID) error
	// ListActiveSchedules returns all active schedules of the tenant with
	// their class names, for slot availability listings.
	ListActiveSchedules(ctx context.Context, tenantID uuid.UUID) ([]*domain.ClassSchedule, map[uuid.UUID]string, error)
	// CountSlotBookings returns CONFIRMED+COMPLETED counts per (schedule,
	// date) for the tenant within [from, to].
	CountSlotBookings(ctx context.Context, tenantID uuid.UUID, from, to time.Time) (map[uuid.UUID]map[time.Time]int, error)
}
