package tasks

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/kelvin-saputra/sievo-sub000/internal/events"
	"github.com/kelvin-saputra/sievo-sub000/internal/memberships"
	"github.com/kelvin-saputra/sievo-sub000/internal/notifications"
	"github.com/kelvin-saputra/sievo-sub000/pkg/db/models"
	"github.com/kelvin-saputra/sievo-sub000/pkg/enums"
	pkgerrors "github.com/kelvin-saputra/sievo-sub000/pkg/errors"
	"github.com/kelvin-saputra/sievo-sub000/pkg/pagination"
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

// Service manages event task boards.
type Service interface {
	Create(ctx context.Context, actor Actor, eventID uuid.UUID, req CreateTaskRequest) (*TaskDTO, error)
	Get(ctx context.Context, actor Actor, id uuid.UUID) (*TaskDTO, error)
	Update(ctx context.Context, actor Actor, id uuid.UUID, req UpdateTaskRequest) (*TaskDTO, error)
	Delete(ctx context.Context, organizationID, id uuid.UUID) error
	List(ctx context.Context, actor Actor, filters ListFilters, page pagination.Params) (*pagination.Page[TaskDTO], error)
}

type service struct {
	repo *Repository
	tx   txRunner
}

func NewService(repo *Repository, tx txRunner) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("task repository required")
	}
	if tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	return &service{repo: repo, tx: tx}, nil
}

func (s *service) Create(ctx context.Context, actor Actor, eventID uuid.UUID, req CreateTaskRequest) (*TaskDTO, error) {
	title := strings.TrimSpace(req.Title)
	if title == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "title is required").
			WithDetails(map[string]any{"field": "title"})
	}
	priority := enums.TaskPriorityMedium
	if req.Priority != nil {
		if !req.Priority.IsValid() {
			return nil, invalidField("priority")
		}
		priority = *req.Priority
	}

	task := &models.Task{
		OrganizationID: actor.OrganizationID,
		EventID:        eventID,
		Title:          title,
		Description:    req.Description,
		AssigneeID:     req.AssigneeID,
		Priority:       priority,
		Status:         enums.TaskStatusTodo,
		DueDate:        req.DueDate,
		CreatedBy:      &actor.UserID,
	}
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		event, err := loadEvent(ctx, tx, actor.OrganizationID, eventID)
		if err != nil {
			return err
		}
		if task.AssigneeID != nil {
			if err := ensureMember(ctx, tx, actor.OrganizationID, *task.AssigneeID); err != nil {
				return err
			}
		}
		if err := s.repo.WithTx(tx).Create(ctx, task); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create task")
		}
		return notifyAssignee(ctx, tx, actor, event, task)
	})
	if err != nil {
		return nil, err
	}
	return FromModel(task), nil
}

func (s *service) Get(ctx context.Context, actor Actor, id uuid.UUID) (*TaskDTO, error) {
	task, err := s.load(ctx, s.repo, actor.OrganizationID, id)
	if err != nil {
		return nil, err
	}
	if !visibleTo(actor, task) {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "task not found")
	}
	return FromModel(task), nil
}

// Update patches a task. Freelancers may only move the status of tasks assigned to them.
func (s *service) Update(ctx context.Context, actor Actor, id uuid.UUID, req UpdateTaskRequest) (*TaskDTO, error) {
	if req.Priority != nil && !req.Priority.IsValid() {
		return nil, invalidField("priority")
	}
	if req.Status != nil && !req.Status.IsValid() {
		return nil, invalidField("status")
	}

	var out *TaskDTO
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		r := s.repo.WithTx(tx)
		task, err := s.load(ctx, r, actor.OrganizationID, id)
		if err != nil {
			return err
		}
		if actor.Role == enums.MemberRoleFreelance {
			if !visibleTo(actor, task) {
				return pkgerrors.New(pkgerrors.CodeNotFound, "task not found")
			}
			if !req.onlyStatus() {
				return pkgerrors.New(pkgerrors.CodeForbidden, "freelancers may only change the status of their tasks")
			}
		}

		previousAssignee := task.AssigneeID
		if req.Title != nil {
			title := strings.TrimSpace(*req.Title)
			if title == "" {
				return pkgerrors.New(pkgerrors.CodeValidation, "title cannot be empty").
					WithDetails(map[string]any{"field": "title"})
			}
			task.Title = title
		}
		if req.Description != nil {
			task.Description = req.Description
		}
		switch {
		case req.Unassign:
			task.AssigneeID = nil
		case req.AssigneeID != nil:
			if err := ensureMember(ctx, tx, actor.OrganizationID, *req.AssigneeID); err != nil {
				return err
			}
			task.AssigneeID = req.AssigneeID
		}
		if req.Priority != nil {
			task.Priority = *req.Priority
		}
		if req.Status != nil {
			task.Status = *req.Status
		}
		if req.DueDate != nil {
			task.DueDate = req.DueDate
		}

		if err := r.Update(ctx, task); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update task")
		}
		if task.AssigneeID != nil && (previousAssignee == nil || *previousAssignee != *task.AssigneeID) {
			event, err := loadEvent(ctx, tx, actor.OrganizationID, task.EventID)
			if err != nil {
				return err
			}
			if err := notifyAssignee(ctx, tx, actor, event, task); err != nil {
				return err
			}
		}
		out = FromModel(task)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (s *service) Delete(ctx context.Context, organizationID, id uuid.UUID) error {
	if err := s.repo.Delete(ctx, organizationID, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.New(pkgerrors.CodeNotFound, "task not found")
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete task")
	}
	return nil
}

func (s *service) List(ctx context.Context, actor Actor, filters ListFilters, page pagination.Params) (*pagination.Page[TaskDTO], error) {
	if filters.Status != nil && !filters.Status.IsValid() {
		return nil, invalidField("status")
	}
	if actor.Role == enums.MemberRoleFreelance {
		filters.AssigneeID = &actor.UserID
	}
	rows, err := s.repo.List(ctx, actor.OrganizationID, filters, page)
	if err != nil {
		if pagination.IsCursorError(err) {
			return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid cursor")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list tasks")
	}
	rows, next := pagination.Trim(rows, page.Limit, func(t models.Task) pagination.Cursor {
		return pagination.Cursor{CreatedAt: t.CreatedAt, ID: t.ID}
	})
	items := make([]TaskDTO, 0, len(rows))
	for i := range rows {
		items = append(items, *FromModel(&rows[i]))
	}
	return &pagination.Page[TaskDTO]{Items: items, NextCursor: next}, nil
}

func (s *service) load(ctx context.Context, r *Repository, organizationID, id uuid.UUID) (*models.Task, error) {
	task, err := r.FindByID(ctx, organizationID, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "task not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load task")
	}
	return task, nil
}

func visibleTo(actor Actor, task *models.Task) bool {
	if actor.Role != enums.MemberRoleFreelance {
		return true
	}
	return task.AssigneeID != nil && *task.AssigneeID == actor.UserID
}

func loadEvent(ctx context.Context, tx *gorm.DB, organizationID, eventID uuid.UUID) (*models.Event, error) {
	event, err := events.NewRepository(tx).FindByID(ctx, organizationID, eventID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "event not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load event")
	}
	return event, nil
}

func ensureMember(ctx context.Context, tx *gorm.DB, organizationID, userID uuid.UUID) error {
	ok, err := memberships.NewRepository(tx).IsActiveMember(ctx, userID, organizationID)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "check assignee")
	}
	if !ok {
		return pkgerrors.New(pkgerrors.CodeValidation, "assignee must be an active member").
			WithDetails(map[string]any{"field": "assignee_id"})
	}
	return nil
}

// notifyAssignee tells a newly assigned member about the task unless they assigned themselves.
func notifyAssignee(ctx context.Context, tx *gorm.DB, actor Actor, event *models.Event, task *models.Task) error {
	if task.AssigneeID == nil || *task.AssigneeID == actor.UserID {
		return nil
	}
	return notifications.Send(ctx, notifications.NewRepository(tx), notifications.Message{
		OrganizationID: actor.OrganizationID,
		UserID:         *task.AssigneeID,
		Type:           enums.NotificationTypeTaskAssigned,
		Title:          "New task assigned",
		Body:           fmt.Sprintf("%s (%s)", task.Title, event.Name),
		Link:           fmt.Sprintf("/events/%s/tasks/%s", event.ID, task.ID),
	})
}

func invalidField(field string) error {
	return pkgerrors.New(pkgerrors.CodeValidation, "invalid "+field).
		WithDetails(map[string]any{"field": field})
}
