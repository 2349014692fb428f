package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/sanjaykumarkhadka/gym/internal/domain"
)

type BookingRepository interface {
	// CreateConfirmed inserts a CONFIRMED booking inside one transaction
	// that locks the schedule row, re-counts occupied seats and re-checks
	// for a duplicate, in that order. Two concurrent calls against the last
	// open seat therefore serialize: one succeeds, the other gets
	// domain.ErrCapacityExceeded. The unique (user, schedule, date) index
	// backs the duplicate check.
	CreateConfirmed(ctx context.Context, b *domain.Booking) error

	// GetForUser returns the booking only if it belongs to userID.
	GetForUser(ctx context.Context, userID, id uuid.UUID) (*domain.Booking, error)
	// GetInTenant resolves the booking through its schedule's class type,
	// returning domain.ErrNotFound for bookings of other tenants.
	GetInTenant(ctx context.Context, tenantID, id uuid.UUID) (*domain.Booking, error)

	Cancel(ctx context.Context, id uuid.UUID) error
	CheckIn(ctx context.Context, id uuid.UUID, at time.Time) error

	// ListForUser returns upcoming (date >= today, CONFIRMED, ascending,
	// capped at 20) or past (date < today, descending, capped at 50)
	// bookings with joined class info.
	ListForUser(ctx context.Context, userID uuid.UUID, upcoming bool) ([]*domain.BookingDetail, error)

	// CancelFutureConfirmed flips the user's future CONFIRMED bookings to
	// CANCELLED and reports how many rows changed. Re-running it is a no-op.
	CancelFutureConfirmed(ctx context.Context, userID uuid.UUID, from time.Time) (int, error)

	CountForDay(ctx context.Context, tenantID uuid.UUID, day time.Time) (int, error)
}
