package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/sanjaykumarkhadka/gym/internal/domain"
	"github.com/sanjaykumarkhadka/gym/internal/repository"
)

type ClassService struct {
	classRepo repository.ClassRepository
}

type CreateClassTypeRequest struct {
	Name        string  `json:"name" validate:"required,min=2,max=100"`
	Description *string `json:"description" validate:"omitempty,max=500"`
	Color       *string `json:"color" validate:"omitempty,max=20"`
}

type CreateScheduleRequest struct {
	DayOfWeek       int     `json:"day_of_week" validate:"gte=0,lte=6"`
	StartTime       string  `json:"start_time" validate:"required,datetime=15:04"`
	DurationMinutes int     `json:"duration_minutes" validate:"required,gt=0,lte=480"`
	Capacity        int     `json:"capacity" validate:"required,gt=0"`
	Instructor      *string `json:"instructor" validate:"omitempty,max=100"`
}

type UpdateScheduleRequest struct {
	DayOfWeek       *int    `json:"day_of_week" validate:"omitempty,gte=0,lte=6"`
	StartTime       *string `json:"start_time" validate:"omitempty,datetime=15:04"`
	DurationMinutes *int    `json:"duration_minutes" validate:"omitempty,gt=0,lte=480"`
	Capacity        *int    `json:"capacity" validate:"omitempty,gt=0"`
	Instructor      *string `json:"instructor" validate:"omitempty,max=100"`
	IsActive        *bool   `json:"is_active"`
}

func NewClassService(classRepo repository.ClassRepository) *ClassService {
	return &ClassService{classRepo: classRepo}
}

func (s *ClassService) CreateClassType(ctx context.Context, principal domain.Principal, req CreateClassTypeRequest) (*domain.ClassType, error) {
	now := time.Now()
	ct := &domain.ClassType{
		ID:          uuid.New(),
		TenantID:    principal.TenantID,
		Name:        req.Name,
		Description: req.Description,
		Color:       req.Color,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := s.classRepo.CreateClassType(ctx, ct); err != nil {
		return nil, err
	}
	return ct, nil
}

// ListClassTypes returns the tenant's classes with their active schedules.
func (s *ClassService) ListClassTypes(ctx context.Context, principal domain.Principal) ([]*domain.ClassType, error) {
	return s.classRepo.ListClassTypes(ctx, principal.TenantID)
}

// CreateSchedule adds a weekly slot to a class the principal's tenant owns.
// At most one slot may exist per (class, weekday, start time).
func (s *ClassService) CreateSchedule(ctx context.Context, principal domain.Principal, classTypeID uuid.UUID, req CreateScheduleRequest) (*domain.ClassSchedule, error) {
	if _, err := s.classRepo.GetClassType(ctx, principal.TenantID, classTypeID); err != nil {
		return nil, err
	}

	existing, err := s.classRepo.GetScheduleBySlot(ctx, classTypeID, req.DayOfWeek, req.StartTime)
	if err != nil && !errors.Is(err, domain.ErrNotFound) {
		return nil, err
	}
	if existing != nil {
		return nil, domain.ErrDuplicateSchedule
	}

	now := time.Now()
	sched := &domain.ClassSchedule{
		ID:              uuid.New(),
		ClassTypeID:     classTypeID,
		DayOfWeek:       req.DayOfWeek,
		StartTime:       req.StartTime,
		DurationMinutes: req.DurationMinutes,
		Capacity:        req.Capacity,
		Instructor:      req.Instructor,
		IsActive:        true,
		CreatedAt:       now,
		UpdatedAt:       now,
	}

	if err := s.classRepo.CreateSchedule(ctx, sched); err != nil {
		return nil, err
	}
	return sched, nil
}

func (s *ClassService) UpdateSchedule(ctx context.Context, principal domain.Principal, scheduleID uuid.UUID, req UpdateScheduleRequest) (*domain.ClassSchedule, error) {
	sched, err := s.classRepo.GetSchedule(ctx, principal.TenantID, scheduleID)
	if err != nil {
		return nil, err
	}

	if req.DayOfWeek != nil {
		sched.DayOfWeek = *req.DayOfWeek
	}
	if req.StartTime != nil {
		sched.StartTime = *req.StartTime
	}
	if req.DurationMinutes != nil {
		sched.DurationMinutes = *req.DurationMinutes
	}
	if req.Capacity != nil {
		sched.Capacity = *req.Capacity
	}
	if req.Instructor != nil {
		sched.Instructor = req.Instructor
	}
	if req.IsActive != nil {
		sched.IsActive = *req.IsActive
	}

	// Moving the slot may collide with a sibling on the same day and time.
	if req.DayOfWeek != nil || req.StartTime != nil {
		existing, err := s.classRepo.GetScheduleBySlot(ctx, sched.ClassTypeID, sched.DayOfWeek, sched.StartTime)
		if err != nil && !errors.Is(err, domain.ErrNotFound) {
			return nil, err
		}
		if existing != nil && existing.ID != sched.ID {
			return nil, domain.ErrDuplicateSchedule
		}
	}

	if err := s.classRepo.UpdateSchedule(ctx, principal.TenantID, sched); err != nil {
		return nil, err
	}
	return sched, nil
}

// DeleteSchedule removes the slot and, through the store's cascade, every
// booking made against it.
func (s *ClassService) DeleteSchedule(ctx context.Context, principal domain.Principal, scheduleID uuid.UUID) error {
	return s.classRepo.DeleteSchedule(ctx, principal.TenantID, scheduleID)
}
