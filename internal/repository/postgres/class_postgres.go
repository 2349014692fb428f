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

type classRepository struct {
	db *sqlx.DB
}

// NewClassRepository creates a new PostgreSQL class repository
func NewClassRepository(db *sqlx.DB) repository.ClassRepository {
	return &classRepository{db: db}
}

// CreateClassType inserts a new class type
func (r *classRepository) CreateClassType(ctx context.Context, ct *domain.ClassType) error {
	query := `
		INSERT INTO class_types (id, tenant_id, name, description, color, created_at, updated_at)
		VALUES (:id, :tenant_id, :name, :description, :color, :created_at, :updated_at)`

	if _, err := r.db.NamedExecContext(ctx, query, ct); err != nil {
		return fmt.Errorf("failed to create class type: %w", err)
	}

	return nil
}

// GetClassType retrieves a class type within the tenant's scope
func (r *classRepository) GetClassType(ctx context.Context, tenantID, id uuid.UUID) (*domain.ClassType, error) {
	query := `
		SELECT id, tenant_id, name, description, color, created_at, updated_at
		FROM class_types
		WHERE id = $1 AND tenant_id = $2`

	var ct domain.ClassType
	err := r.db.GetContext(ctx, &ct, query, id, tenantID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get class type: %w", err)
	}

	return &ct, nil
}

// ListClassTypes returns the tenant's classes with their active schedules
func (r *classRepository) ListClassTypes(ctx context.Context, tenantID uuid.UUID) ([]*domain.ClassType, error) {
	query := `
		SELECT id, tenant_id, name, description, color, created_at, updated_at
		FROM class_types
		WHERE tenant_id = $1
		ORDER BY name ASC`

	var classTypes []*domain.ClassType
	if err := r.db.SelectContext(ctx, &classTypes, query, tenantID); err != nil {
		return nil, fmt.Errorf("failed to list class types: %w", err)
	}

	if len(classTypes) == 0 {
		return classTypes, nil
	}

	scheduleQuery := `
		SELECT s.id, s.class_type_id, s.day_of_week, s.start_time, s.duration_minutes,
			   s.capacity, s.instructor, s.is_active, s.created_at, s.updated_at
		FROM class_schedules s
		JOIN class_types ct ON ct.id = s.class_type_id
		WHERE ct.tenant_id = $1 AND s.is_active = TRUE
		ORDER BY s.day_of_week ASC, s.start_time ASC`

	var schedules []*domain.ClassSchedule
	if err := r.db.SelectContext(ctx, &schedules, scheduleQuery, tenantID); err != nil {
		return nil, fmt.Errorf("failed to list schedules: %w", err)
	}

	byClass := make(map[uuid.UUID][]*domain.ClassSchedule, len(classTypes))
	for _, s := range schedules {
		byClass[s.ClassTypeID] = append(byClass[s.ClassTypeID], s)
	}
	for _, ct := range classTypes {
		ct.Schedules = byClass[ct.ID]
	}

	return classTypes, nil
}

// CreateSchedule inserts a new weekly slot
func (r *classRepository) CreateSchedule(ctx context.Context, sched *domain.ClassSchedule) error {
	query := `
		INSERT INTO class_schedules (
			id, class_type_id, day_of_week, start_time, duration_minutes,
			capacity, instructor, is_active, created_at, updated_at
		) VALUES (
			:id, :class_type_id, :day_of_week, :start_time, :duration_minutes,
			:capacity, :instructor, :is_active, :created_at, :updated_at
		)`

	if _, err := r.db.NamedExecContext(ctx, query, sched); err != nil {
		if isUniqueViolation(err, "class_schedules_slot_key") {
			return domain.ErrDuplicateSchedule
		}
		return fmt.Errorf("failed to create schedule: %w", err)
	}

	return nil
}

// GetSchedule retrieves a schedule, resolving tenant scope through its class type
func (r *classRepository) GetSchedule(ctx context.Context, tenantID, id uuid.UUID) (*domain.ClassSchedule, error) {
	query := `
		SELECT s.id, s.class_type_id, s.day_of_week, s.start_time, s.duration_minutes,
			   s.capacity, s.instructor, s.is_active, s.created_at, s.updated_at
		FROM class_schedules s
		JOIN class_types ct ON ct.id = s.class_type_id
		WHERE s.id = $1 AND ct.tenant_id = $2`

	var sched domain.ClassSchedule
	err := r.db.GetContext(ctx, &sched, query, id, tenantID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get schedule: %w", err)
	}

	return &sched, nil
}

// GetScheduleBySlot looks up a schedule by its (class, day, time) slot
func (r *classRepository) GetScheduleBySlot(ctx context.Context, classTypeID uuid.UUID, dayOfWeek int, startTime string) (*domain.ClassSchedule, error) {
	query := `
		SELECT id, class_type_id, day_of_week, start_time, duration_minutes,
			   capacity, instructor, is_active, created_at, updated_at
		FROM class_schedules
		WHERE class_type_id = $1 AND day_of_week = $2 AND start_time = $3`

	var sched domain.ClassSchedule
	err := r.db.GetContext(ctx, &sched, query, classTypeID, dayOfWeek, startTime)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get schedule by slot: %w", err)
	}

	return &sched, nil
}

// UpdateSchedule updates a schedule within the tenant's scope
func (r *classRepository) UpdateSchedule(ctx context.Context, tenantID uuid.UUID, sched *domain.ClassSchedule) error {
	query := `
		UPDATE class_schedules s
		SET day_of_week = $3,
			start_time = $4,
			duration_minutes = $5,
			capacity = $6,
			instructor = $7,
			is_active = $8,
			updated_at = now()
		FROM class_types ct
		WHERE s.id = $1 AND s.class_type_id = ct.id AND ct.tenant_id = $2`

	result, err := r.db.ExecContext(ctx, query,
		sched.ID, tenantID, sched.DayOfWeek, sched.StartTime, sched.DurationMinutes,
		sched.Capacity, sched.Instructor, sched.IsActive)
	if err != nil {
		if isUniqueViolation(err, "class_schedules_slot_key") {
			return domain.ErrDuplicateSchedule
		}
		return fmt.Errorf("failed to update schedule: %w", err)
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

// DeleteSchedule removes a schedule; bookings cascade with it
func (r *classRepository) DeleteSchedule(ctx context.Context, tenantID, id uuid.UUID) error {
	query := `
		DELETE FROM class_schedules s
		USING class_types ct
		WHERE s.id = $1 AND s.class_type_id = ct.id AND ct.tenant_id = $2`

	result, err := r.db.ExecContext(ctx, query, id, tenantID)
	if err != nil {
		return fmt.Errorf("failed to delete schedule: %w", err)
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

// ListActiveSchedules returns all active schedules with their class names
func (r *classRepository) ListActiveSchedules(ctx context.Context, tenantID uuid.UUID) ([]*domain.ClassSchedule, map[uuid.UUID]string, error) {
	query := `
		SELECT s.id, s.class_type_id, s.day_of_week, s.start_time, s.duration_minutes,
			   s.capacity, s.instructor, s.is_active, s.created_at, s.updated_at,
			   ct.name AS class_name
		FROM class_schedules s
		JOIN class_types ct ON ct.id = s.class_type_id
		WHERE ct.tenant_id = $1 AND s.is_active = TRUE
		ORDER BY s.day_of_week ASC, s.start_time ASC`

	type row struct {
		domain.ClassSchedule
		ClassName string `db:"class_name"`
	}

	var rows []row
	if err := r.db.SelectContext(ctx, &rows, query, tenantID); err != nil {
		return nil, nil, fmt.Errorf("failed to list active schedules: %w", err)
	}

	schedules := make([]*domain.ClassSchedule, 0, len(rows))
	names := make(map[uuid.UUID]string, len(rows))
	for i := range rows {
		sched := rows[i].ClassSchedule
		schedules = append(schedules, &sched)
		names[sched.ID] = rows[i].ClassName
	}

	return schedules, names, nil
}

// CountSlotBookings returns occupied-seat counts per (schedule, date)
func (r *classRepository) CountSlotBookings(ctx context.Context, tenantID uuid.UUID, from, to time.Time) (map[uuid.UUID]map[time.Time]int, error) {
	query := `
		SELECT b.schedule_id, b.date, COUNT(*) AS booked
		FROM bookings b
		JOIN class_schedules s ON s.id = b.schedule_id
		JOIN class_types ct ON ct.id = s.class_type_id
		WHERE ct.tenant_id = $1
		  AND b.date BETWEEN $2 AND $3
		  AND b.status IN ('CONFIRMED', 'COMPLETED')
		GROUP BY b.schedule_id, b.date`

	type row struct {
		ScheduleID uuid.UUID `db:"schedule_id"`
		Date       time.Time `db:"date"`
		Booked     int       `db:"booked"`
	}

	var rows []row
	if err := r.db.SelectContext(ctx, &rows, query, tenantID, from, to); err != nil {
		return nil, fmt.Errorf("failed to count slot bookings: %w", err)
	}

	counts := make(map[uuid.UUID]map[time.Time]int)
	for _, rw := range rows {
		day := domain.DateOnly(rw.Date)
		if counts[rw.ScheduleID] == nil {
			counts[rw.ScheduleID] = make(map[time.Time]int)
		}
		counts[rw.ScheduleID][day] = rw.Booked
	}

	return counts, nil
}
