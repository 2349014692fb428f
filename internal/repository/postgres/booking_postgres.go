package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/sanjaykumarkhadka/gym/internal/domain"
	"github.com/sanjaykumarkhadka/gym/internal/repository"
)

type bookingRepository struct {
	db *sqlx.DB
}

// NewBookingRepository creates a new PostgreSQL booking repository
func NewBookingRepository(db *sqlx.DB) repository.BookingRepository {
	return &bookingRepository{db: db}
}

// CreateConfirmed runs the capacity check and the insert in one transaction.
// The schedule row is locked FOR UPDATE first, so concurrent bookings against
// the same slot serialize on that row and the count below cannot go stale
// between check and insert.
func (r *bookingRepository) CreateConfirmed(ctx context.Context, b *domain.Booking) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	var capacity int
	lockQuery := `SELECT capacity FROM class_schedules WHERE id = $1 FOR UPDATE`
	if err := tx.GetContext(ctx, &capacity, lockQuery, b.ScheduleID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.ErrNotFound
		}
		return fmt.Errorf("failed to lock schedule: %w", err)
	}

	var occupied int
	countQuery := `
		SELECT COUNT(*) FROM bookings
		WHERE schedule_id = $1 AND date = $2 AND status IN ('CONFIRMED', 'COMPLETED')`
	if err := tx.GetContext(ctx, &occupied, countQuery, b.ScheduleID, b.Date); err != nil {
		return fmt.Errorf("failed to count bookings: %w", err)
	}
	if occupied >= capacity {
		return domain.ErrCapacityExceeded
	}

	var existing int
	dupQuery := `
		SELECT COUNT(*) FROM bookings
		WHERE user_id = $1 AND schedule_id = $2 AND date = $3 AND status <> 'CANCELLED'`
	if err := tx.GetContext(ctx, &existing, dupQuery, b.UserID, b.ScheduleID, b.Date); err != nil {
		return fmt.Errorf("failed to check for duplicate booking: %w", err)
	}
	if existing > 0 {
		return domain.ErrDuplicateBooking
	}

	insertQuery := `
		INSERT INTO bookings (
			id, user_id, schedule_id, date, status, checked_in,
			is_recurring, recurring_until, created_at, updated_at
		) VALUES (
			:id, :user_id, :schedule_id, :date, :status, :checked_in,
			:is_recurring, :recurring_until, :created_at, :updated_at
		)`
	if _, err := tx.NamedExecContext(ctx, insertQuery, b); err != nil {
		if isUniqueViolation(err, "bookings_user_schedule_date_key") {
			return domain.ErrDuplicateBooking
		}
		return fmt.Errorf("failed to create booking: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit booking: %w", err)
	}

	return nil
}

// GetForUser retrieves a booking only if it belongs to the user
func (r *bookingRepository) GetForUser(ctx context.Context, userID, id uuid.UUID) (*domain.Booking, error) {
	query := `
		SELECT id, user_id, schedule_id, date, status, checked_in, checked_in_at,
			   is_recurring, recurring_until, created_at, updated_at
		FROM bookings
		WHERE id = $1 AND user_id = $2`

	var b domain.Booking
	err := r.db.GetContext(ctx, &b, query, id, userID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get booking: %w", err)
	}

	return &b, nil
}

// GetInTenant resolves a booking through its schedule's class type, so
// bookings of other tenants come back as not found
func (r *bookingRepository) GetInTenant(ctx context.Context, tenantID, id uuid.UUID) (*domain.Booking, error) {
	query := `
		SELECT b.id, b.user_id, b.schedule_id, b.date, b.status, b.checked_in,
			   b.checked_in_at, b.is_recurring, b.recurring_until, b.created_at, b.updated_at
		FROM bookings b
		JOIN class_schedules s ON s.id = b.schedule_id
		JOIN class_types ct ON ct.id = s.class_type_id
		WHERE b.id = $1 AND ct.tenant_id = $2`

	var b domain.Booking
	err := r.db.GetContext(ctx, &b, query, id, tenantID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get booking: %w", err)
	}

	return &b, nil
}

// Cancel sets the booking to CANCELLED, releasing its seat
func (r *bookingRepository) Cancel(ctx context.Context, id uuid.UUID) error {
	query := `UPDATE bookings SET status = 'CANCELLED', updated_at = now() WHERE id = $1`

	result, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("failed to cancel booking: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return domain.ErrNotFound
	}

	return nil
}

// CheckIn marks the booking attended and COMPLETED. The checked_in guard in
// the WHERE clause makes the false-to-true transition atomic, so two staff
// members checking in the same booking cannot both succeed.
func (r *bookingRepository) CheckIn(ctx context.Context, id uuid.UUID, at time.Time) error {
	query := `
		UPDATE bookings
		SET checked_in = TRUE,
			checked_in_at = $2,
			status = 'COMPLETED',
			updated_at = now()
		WHERE id = $1 AND checked_in = FALSE`

	result, err := r.db.ExecContext(ctx, query, id, at)
	if err != nil {
		return fmt.Errorf("failed to check in booking: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return domain.ErrAlreadyCheckedIn
	}

	return nil
}

// ListForUser returns the user's bookings with joined class info
func (r *bookingRepository) ListForUser(ctx context.Context, userID uuid.UUID, upcoming bool) ([]*domain.BookingDetail, error) {
	base := `
		SELECT b.id, b.user_id, b.schedule_id, b.date, b.status, b.checked_in,
			   b.checked_in_at, b.is_recurring, b.recurring_until, b.created_at, b.updated_at,
			   ct.name AS class_name, ct.color AS class_color,
			   s.day_of_week, s.start_time, s.duration_minutes, s.instructor
		FROM bookings b
		JOIN class_schedules s ON s.id = b.schedule_id
		JOIN class_types ct ON ct.id = s.class_type_id
		WHERE b.user_id = $1`

	var query string
	if upcoming {
		query = base + ` AND b.date >= $2 AND b.status = 'CONFIRMED' ORDER BY b.date ASC LIMIT 20`
	} else {
		query = base + ` AND b.date < $2 ORDER BY b.date DESC LIMIT 50`
	}

	var bookings []*domain.BookingDetail
	if err := r.db.SelectContext(ctx, &bookings, query, userID, domain.Today()); err != nil {
		return nil, fmt.Errorf("failed to list bookings: %w", err)
	}

	return bookings, nil
}

// CancelFutureConfirmed cancels the user's future CONFIRMED bookings.
// Already-cancelled rows are untouched, so replays report zero.
func (r *bookingRepository) CancelFutureConfirmed(ctx context.Context, userID uuid.UUID, from time.Time) (int, error) {
	query := `
		UPDATE bookings
		SET status = 'CANCELLED', updated_at = now()
		WHERE user_id = $1 AND date >= $2 AND status = 'CONFIRMED'`

	result, err := r.db.ExecContext(ctx, query, userID, from)
	if err != nil {
		return 0, fmt.Errorf("failed to cancel future bookings: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to get rows affected: %w", err)
	}

	return int(rows), nil
}

// CountForDay counts the tenant's CONFIRMED bookings on one calendar day
func (r *bookingRepository) CountForDay(ctx context.Context, tenantID uuid.UUID, day time.Time) (int, error) {
	query := `
		SELECT COUNT(*)
		FROM bookings b
		JOIN class_schedules s ON s.id = b.schedule_id
		JOIN class_types ct ON ct.id = s.class_type_id
		WHERE ct.tenant_id = $1 AND b.date = $2 AND b.status = 'CONFIRMED'`

	var count int
	if err := r.db.GetContext(ctx, &count, query, tenantID, day); err != nil {
		return 0, fmt.Errorf("failed to count bookings for day: %w", err)
	}

	return count, nil
}
