package domain

import (
	"time"

	"github.com/google/uuid"
)

// BookingStatus is the lifecycle state of a booking.
type BookingStatus string

const (
	BookingConfirmed BookingStatus = "CONFIRMED"
	BookingCancelled BookingStatus = "CANCELLED"
	BookingCompleted BookingStatus = "COMPLETED"
	BookingNoShow    BookingStatus = "NO_SHOW"
)

// CountsTowardCapacity reports whether a booking in this status occupies a
// seat of its slot-instance.
func (s BookingStatus) CountsTowardCapacity() bool {
	return s == BookingConfirmed || s == BookingCompleted
}

// Booking is a user's reservation for one concrete date-instance of a
// schedule. A user holds at most one booking per (schedule, date).
type Booking struct {
	ID             uuid.UUID     `json:"id" db:"id"`
	UserID         uuid.UUID     `json:"user_id" db:"user_id"`
	ScheduleID     uuid.UUID     `json:"schedule_id" db:"schedule_id"`
	Date           time.Time     `json:"date" db:"date"` // calendar day, midnight UTC
	Status         BookingStatus `json:"status" db:"status"`
	CheckedIn      bool          `json:"checked_in" db:"checked_in"`
	CheckedInAt    *time.Time    `json:"checked_in_at,omitempty" db:"checked_in_at"`
	IsRecurring    bool          `json:"is_recurring" db:"is_recurring"`
	RecurringUntil *time.Time    `json:"recurring_until,omitempty" db:"recurring_until"`
	CreatedAt      time.Time     `json:"created_at" db:"created_at"`
	UpdatedAt      time.Time     `json:"updated_at" db:"updated_at"`
}

// BookingDetail is a booking joined with its schedule and class info for
// member-facing listings.
type BookingDetail struct {
	Booking
	ClassName       string  `json:"class_name" db:"class_name"`
	ClassColor      *string `json:"class_color,omitempty" db:"class_color"`
	DayOfWeek       int     `json:"day_of_week" db:"day_of_week"`
	StartTime       string  `json:"start_time" db:"start_time"`
	DurationMinutes int     `json:"duration_minutes" db:"duration_minutes"`
	Instructor      *string `json:"instructor,omitempty" db:"instructor"`
}

// RecurringResult reports the outcome of a best-effort recurring batch.
type RecurringResult struct {
	Created int      `json:"created"`
	Errors  []string `json:"errors"`
}

// DateOnly truncates t to its calendar day in UTC. Booking dates are stored
// and compared at day granularity only.
func DateOnly(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// Today returns the current calendar day in UTC.
func Today() time.Time {
	return DateOnly(time.Now())
}
