package domain

import "errors"

// Expected failure conditions of the core operations. Services return these
// (possibly wrapped) instead of panicking or inventing ad-hoc strings; the
// HTTP layer maps them to status codes in one place.
var (
	// ErrNotFound covers both genuinely absent entities and entities outside
	// the caller's tenant scope, so existence never leaks across tenants.
	ErrNotFound = errors.New("not found")

	ErrCapacityExceeded  = errors.New("class is fully booked")
	ErrDuplicateBooking  = errors.New("booking already exists for this class and date")
	ErrAlreadyCancelled  = errors.New("booking is already cancelled")
	ErrAlreadyCheckedIn  = errors.New("booking is already checked in")
	ErrPastBooking       = errors.New("cannot cancel past bookings")
	ErrScheduleInactive  = errors.New("class schedule is not active")
	ErrWeekdayMismatch   = errors.New("date does not fall on the schedule's weekday")
	ErrDuplicateSchedule = errors.New("schedule already exists for this day and time")

	ErrSlugTaken  = errors.New("slug is already taken")
	ErrEmailTaken = errors.New("email is already registered")

	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrForbidden          = errors.New("insufficient permissions")

	ErrBillingNotReady = errors.New("payment processing is not set up for this gym")
	ErrPlanNotBillable = errors.New("plan is not configured for payments")
	ErrUpstream        = errors.New("billing gateway request failed")
)

// IsConflict reports whether err is one of the state-conflict conditions
// (the request contradicts or already matches current state).
func IsConflict(err error) bool {
	return errors.Is(err, ErrCapacityExceeded) ||
		errors.Is(err, ErrDuplicateBooking) ||
		errors.Is(err, ErrAlreadyCancelled) ||
		errors.Is(err, ErrAlreadyCheckedIn) ||
		errors.Is(err, ErrDuplicateSchedule) ||
		errors.Is(err, ErrSlugTaken) ||
		errors.Is(err, ErrEmailTaken)
}
