package domain

import (
	"time"

	"github.com/google/uuid"
)

// ClassType is a kind of class offered by a tenant (e.g. "Morning Yoga").
type ClassType struct {
	ID          uuid.UUID `json:"id" db:"id"`
	TenantID    uuid.UUID `json:"tenant_id" db:"tenant_id"`
	Name        string    `json:"name" db:"name"`
	Description *string   `json:"description,omitempty" db:"description"`
	Color       *string   `json:"color,omitempty" db:"color"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time `json:"updated_at" db:"updated_at"`

	Schedules []*ClassSchedule `json:"schedules,omitempty" db:"-"`
}

// ClassSchedule is a recurring weekly slot of a class type. At most one
// schedule may exist per (class type, day of week, start time).
type ClassSchedule struct {
	ID              uuid.UUID `json:"id" db:"id"`
	ClassTypeID     uuid.UUID `json:"class_type_id" db:"class_type_id"`
	DayOfWeek       int       `json:"day_of_week" db:"day_of_week"` // 0 = Sunday .. 6 = Saturday
	StartTime       string    `json:"start_time" db:"start_time"`   // HH:MM
	DurationMinutes int       `json:"duration_minutes" db:"duration_minutes"`
	Capacity        int       `json:"capacity" db:"capacity"`
	Instructor      *string   `json:"instructor,omitempty" db:"instructor"`
	IsActive        bool      `json:"is_active" db:"is_active"`
	CreatedAt       time.Time `json:"created_at" db:"created_at"`
	UpdatedAt       time.Time `json:"updated_at" db:"updated_at"`
}

// AvailableSlot is one concrete date-instance of a schedule with its
// remaining capacity, as shown on the booking calendar.
type AvailableSlot struct {
	Date           time.Time      `json:"date"`
	Schedule       *ClassSchedule `json:"schedule"`
	ClassName      string         `json:"class_name"`
	BookedCount    int            `json:"booked_count"`
	AvailableSpots int            `json:"available_spots"`
}
