// Package task implements task CRUD behind an ownership gate: every read,
// update, and delete is scoped to the authenticated owner, and a task owned
// by someone else is indistinguishable from a missing one.
package task

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/taskdeck/service-task-go/internal/apperror"
	"github.com/taskdeck/service-task-go/internal/task/entity"
	"github.com/taskdeck/service-task-go/pkg/utilities"
)

// CreateParams carries validated task-creation fields. Zero-valued Status
// and Priority receive their defaults here.
type CreateParams struct {
	Title       string
	Description *string
	Priority    entity.Priority
	DueDate     *time.Time
}

// UpdateParams carries the partial-update fields; nil means untouched.
type UpdateParams struct {
	Title       *string
	Description *string
	Status      *entity.Status
	Priority    *entity.Priority
	DueDate     *time.Time
	ClearDue    bool
}

// Page is one page of a scoped list query.
type Page struct {
	Tasks      []entity.Task `json:"tasks"`
	Total      int           `json:"total"`
	PageNum    int           `json:"page"`
	Limit      int           `json:"limit"`
	TotalPages int           `json:"totalPages"`
}

// Service applies the ownership gate in front of the task store.
type Service struct {
	store  Store
	logger *zap.SugaredLogger
}

func NewService(store Store, logger *zap.SugaredLogger) *Service {
	return &Service{store: store, logger: logger}
}

// Create persists a new task owned by ownerID.
func (s *Service) Create(ctx context.Context, ownerID string, params CreateParams) (*entity.Task, error) {
	priority := params.Priority
	if priority == "" {
		priority = entity.PriorityMedium
	}
	now := time.Now().UTC()
	t := &entity.Task{
		ID:          utilities.NewKSUID(),
		OwnerID:     ownerID,
		Title:       strings.TrimSpace(params.Title),
		Description: params.Description,
		Status:      entity.StatusTodo,
		Priority:    priority,
		DueDate:     params.DueDate,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.store.Create(ctx, t); err != nil {
		return nil, apperror.Internal(fmt.Errorf("create task: %w", err))
	}
	s.logger.Debugw("task created", "task_id", t.ID, "owner_id", ownerID)
	return t, nil
}

// Get returns the task only when ownerID owns it. A missing task and a
// foreign task both surface as not found.
func (s *Service) Get(ctx context.Context, id, ownerID string) (*entity.Task, error) {
	return s.owned(ctx, id, ownerID)
}

// Update applies the partial update after the ownership check passes. The
// owner id itself is immutable.
func (s *Service) Update(ctx context.Context, id, ownerID string, params UpdateParams) (*entity.Task, error) {
	t, err := s.owned(ctx, id, ownerID)
	if err != nil {
		return nil, err
	}

	if params.Title != nil {
		t.Title = strings.TrimSpace(*params.Title)
	}
	if params.Description != nil {
		t.Description = params.Description
	}
	if params.Status != nil {
		t.Status = *params.Status
	}
	if params.Priority != nil {
		t.Priority = *params.Priority
	}
	if params.ClearDue {
		t.DueDate = nil
	} else if params.DueDate != nil {
		t.DueDate = params.DueDate
	}
	t.UpdatedAt = time.Now().UTC()

	if err := s.store.Update(ctx, t); err != nil {
		return nil, apperror.Internal(fmt.Errorf("update task: %w", err))
	}
	return t, nil
}

// Delete removes the task after the ownership check passes.
func (s *Service) Delete(ctx context.Context, id, ownerID string) error {
	if _, err := s.owned(ctx, id, ownerID); err != nil {
		return err
	}
	if err := s.store.Delete(ctx, id); err != nil {
		return apperror.Internal(fmt.Errorf("delete task: %w", err))
	}
	s.logger.Debugw("task deleted", "task_id", id, "owner_id", ownerID)
	return nil
}

// List returns one page of the owner's tasks. The owner id is part of the
// query predicate, so foreign rows are never fetched and filtered out.
func (s *Service) List(ctx context.Context, ownerID string, status *entity.Status, priority *entity.Priority, page, limit int) (*Page, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 10
	}

	f := Filter{
		OwnerID:  ownerID,
		Status:   status,
		Priority: priority,
		Offset:   (page - 1) * limit,
		Limit:    limit,
	}
	tasks, total, err := s.store.List(ctx, f)
	if err != nil {
		return nil, apperror.Internal(fmt.Errorf("list tasks: %w", err))
	}
	if tasks == nil {
		tasks = []entity.Task{}
	}

	totalPages := total / limit
	if total%limit != 0 {
		totalPages++
	}
	return &Page{Tasks: tasks, Total: total, PageNum: page, Limit: limit, TotalPages: totalPages}, nil
}

// owned fetches the task and enforces the ownership predicate.
func (s *Service) owned(ctx context.Context, id, ownerID string) (*entity.Task, error) {
	t, err := s.store.GetByID(ctx, id)
	if errors.Is(err, ErrTaskNotFound) {
		return nil, apperror.NotFound("task not found")
	}
	if err != nil {
		return nil, apperror.Internal(fmt.Errorf("get task by id: %w", err))
	}
	if t.OwnerID != ownerID {
		// never reveal that another user's task exists
		return nil, apperror.NotFound("task not found")
	}
	return t, nil
}
