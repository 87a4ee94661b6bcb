package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"tasktracker/internal/domain"
)

// TaskStore is the persistence seam for the task service. Every lookup is
// owner-scoped, a task id alone never identifies a row. Update applies the
// patch and the new timestamp in one atomic write, so concurrent patches to
// the same task cannot lose each other's fields.
type TaskStore interface {
	Create(ctx context.Context, t *domain.Task) error
	ListByOwner(ctx context.Context, ownerID int64) ([]*domain.Task, error)
	GetByID(ctx context.Context, ownerID, id int64) (*domain.Task, error)
	Update(ctx context.Context, ownerID, id int64, patch domain.TaskPatch, updatedAt time.Time) (*domain.Task, error)
	Delete(ctx context.Context, ownerID, id int64) error
}

// ListCache caches per-owner task lists. Implementations must be safe to
// skip: a miss or an unreachable backend only costs a store round-trip.
type ListCache interface {
	GetList(ctx context.Context, ownerID int64) ([]*domain.Task, bool)
	SetList(ctx context.Context, ownerID int64, tasks []*domain.Task)
	Invalidate(ctx context.Context, ownerID int64)
}

const defaultPriority = 1

// CreateTaskInput carries the fields accepted on task creation. Optional
// fields default to the zero value ("" / priority 1).
type CreateTaskInput struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	DueDate     string `json:"due_date"`
	Priority    *int   `json:"priority"`
}

// TaskService implements the owner-scoped task lifecycle.
type TaskService struct {
	tasks TaskStore
	cache ListCache
	clock Clock
}

func NewTaskService(tasks TaskStore, cache ListCache, clock Clock) *TaskService {
	if clock == nil {
		clock = SystemClock()
	}
	return &TaskService{tasks: tasks, cache: cache, clock: clock}
}

func (s *TaskService) Create(ctx context.Context, ownerID int64, in CreateTaskInput) (*domain.Task, error) {
	if strings.TrimSpace(in.Title) == "" {
		return nil, fmt.Errorf("%w: title is required", ErrValidation)
	}

	priority := defaultPriority
	if in.Priority != nil {
		priority = *in.Priority
	}

	now := s.clock.Now()
	task := &domain.Task{
		UserID:      ownerID,
		Title:       in.Title,
		Description: in.Description,
		DueDate:     in.DueDate,
		Priority:    priority,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.tasks.Create(ctx, task); err != nil {
		return nil, err
	}
	s.invalidate(ctx, ownerID)
	return task, nil
}

func (s *TaskService) List(ctx context.Context, ownerID int64) ([]*domain.Task, error) {
	if s.cache != nil {
		if tasks, ok := s.cache.GetList(ctx, ownerID); ok {
			return tasks, nil
		}
	}

	tasks, err := s.tasks.ListByOwner(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	if tasks == nil {
		tasks = []*domain.Task{}
	}
	if s.cache != nil {
		s.cache.SetList(ctx, ownerID, tasks)
	}
	return tasks, nil
}

func (s *TaskService) Get(ctx context.Context, ownerID, id int64) (*domain.Task, error) {
	return s.tasks.GetByID(ctx, ownerID, id)
}

// Update applies only the fields present in the patch and always refreshes
// updated_at, even when the patch changes nothing.
func (s *TaskService) Update(ctx context.Context, ownerID, id int64, patch domain.TaskPatch) (*domain.Task, error) {
	if patch.Title != nil && strings.TrimSpace(*patch.Title) == "" {
		return nil, fmt.Errorf("%w: title cannot be empty", ErrValidation)
	}

	task, err := s.tasks.Update(ctx, ownerID, id, patch, s.clock.Now())
	if err != nil {
		return nil, err
	}
	s.invalidate(ctx, ownerID)
	return task, nil
}

func (s *TaskService) Delete(ctx context.Context, ownerID, id int64) error {
	if err := s.tasks.Delete(ctx, ownerID, id); err != nil {
		return err
	}
	s.invalidate(ctx, ownerID)
	return nil
}

func (s *TaskService) invalidate(ctx context.Context, ownerID int64) {
	if s.cache != nil {
		s.cache.Invalidate(ctx, ownerID)
	}
}
