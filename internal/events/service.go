package events

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/kelvin-saputra/sievo-sub000/internal/budgets"
	"github.com/kelvin-saputra/sievo-sub000/internal/contacts"
	"github.com/kelvin-saputra/sievo-sub000/internal/memberships"
	"github.com/kelvin-saputra/sievo-sub000/pkg/db/models"
	"github.com/kelvin-saputra/sievo-sub000/pkg/enums"
	pkgerrors "github.com/kelvin-saputra/sievo-sub000/pkg/errors"
	"github.com/kelvin-saputra/sievo-sub000/pkg/pagination"
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

// Service manages events. Creating an event opens its budget; cancelling or
// deleting one frees the inventory its budget reserved.
type Service interface {
	Create(ctx context.Context, organizationID, actorID uuid.UUID, req CreateEventRequest) (*EventDTO, error)
	Get(ctx context.Context, organizationID uuid.UUID, viewer Viewer, id uuid.UUID) (*EventDetailDTO, error)
	Update(ctx context.Context, organizationID, id uuid.UUID, req UpdateEventRequest) (*EventDTO, error)
	Delete(ctx context.Context, organizationID, id uuid.UUID) error
	List(ctx context.Context, organizationID uuid.UUID, viewer Viewer, filters ListFilters, page pagination.Params) (*pagination.Page[EventDTO], error)
	ChangeStatus(ctx context.Context, organizationID, id uuid.UUID, req ChangeStatusRequest) (*EventDTO, error)
}

type service struct {
	repo *Repository
	tx   txRunner
}

func NewService(repo *Repository, tx txRunner) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("event repository required")
	}
	if tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	return &service{repo: repo, tx: tx}, nil
}

func (s *service) Create(ctx context.Context, organizationID, actorID uuid.UUID, req CreateEventRequest) (*EventDTO, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "name is required").
			WithDetails(map[string]any{"field": "name"})
	}
	if err := validateDates(req.StartDate, req.EndDate); err != nil {
		return nil, err
	}

	event := &models.Event{
		OrganizationID:  organizationID,
		Name:            name,
		Description:     req.Description,
		ClientContactID: req.ClientContactID,
		Location:        req.Location,
		StartDate:       req.StartDate.UTC(),
		EndDate:         req.EndDate.UTC(),
		Status:          enums.EventStatusPlanning,
		ManagerID:       req.ManagerID,
		CreatedBy:       &actorID,
	}
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		if err := checkReferences(ctx, tx, organizationID, req.ClientContactID, req.ManagerID); err != nil {
			return err
		}
		if err := s.repo.WithTx(tx).Create(ctx, event); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create event")
		}
		_, err := budgets.OpenForEvent(ctx, tx, organizationID, event.ID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return FromModel(event), nil
}

func (s *service) Get(ctx context.Context, organizationID uuid.UUID, viewer Viewer, id uuid.UUID) (*EventDetailDTO, error) {
	event, err := s.load(ctx, s.repo, organizationID, id)
	if err != nil {
		return nil, err
	}
	if viewer.restricted() {
		assigned, err := s.repo.IsAssigned(ctx, organizationID, id, viewer.UserID)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "check assignment")
		}
		if !assigned {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "event not found")
		}
	}

	out := &EventDetailDTO{EventDTO: *FromModel(event)}
	if out.TaskCounts, err = s.repo.TaskCounts(ctx, organizationID, id); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "count tasks")
	}
	if out.StaffCount, err = s.repo.StaffCount(ctx, organizationID, id); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "count staff")
	}
	budget, err := s.repo.Budget(ctx, organizationID, id)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load budget")
	}
	if budget != nil {
		out.BudgetID, out.BudgetStatus = &budget.ID, &budget.Status
	}
	return out, nil
}

func (s *service) Update(ctx context.Context, organizationID, id uuid.UUID, req UpdateEventRequest) (*EventDTO, error) {
	var out *EventDTO
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		r := s.repo.WithTx(tx)
		event, err := s.load(ctx, r, organizationID, id)
		if err != nil {
			return err
		}
		if event.Status.IsTerminal() {
			return pkgerrors.New(pkgerrors.CodeStateConflict, "event is "+event.Status.String()).
				WithDetails(map[string]any{"status": event.Status})
		}

		if req.Name != nil {
			name := strings.TrimSpace(*req.Name)
			if name == "" {
				return pkgerrors.New(pkgerrors.CodeValidation, "name cannot be empty").
					WithDetails(map[string]any{"field": "name"})
			}
			event.Name = name
		}
		if req.Description != nil {
			event.Description = req.Description
		}
		if req.Location != nil {
			event.Location = req.Location
		}
		if req.StartDate != nil {
			event.StartDate = req.StartDate.UTC()
		}
		if req.EndDate != nil {
			event.EndDate = req.EndDate.UTC()
		}
		if err := validateDates(event.StartDate, event.EndDate); err != nil {
			return err
		}
		if err := checkReferences(ctx, tx, organizationID, req.ClientContactID, req.ManagerID); err != nil {
			return err
		}
		if req.ClientContactID != nil {
			event.ClientContactID = req.ClientContactID
		}
		if req.ManagerID != nil {
			event.ManagerID = req.ManagerID
		}

		if err := r.Update(ctx, event); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update event")
		}
		out = FromModel(event)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// Delete soft-deletes the event with its budget lines, tasks and proposals
// and releases every inventory reservation the budget held.
func (s *service) Delete(ctx context.Context, organizationID, id uuid.UUID) error {
	return s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		r := s.repo.WithTx(tx)
		if _, err := s.load(ctx, r, organizationID, id); err != nil {
			return err
		}
		if err := budgets.SettleForEvent(ctx, tx, organizationID, id, true); err != nil {
			return err
		}
		if err := r.DeleteDependents(ctx, organizationID, id); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete event dependents")
		}
		if err := r.Delete(ctx, organizationID, id); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete event")
		}
		return nil
	})
}

func (s *service) List(ctx context.Context, organizationID uuid.UUID, viewer Viewer, filters ListFilters, page pagination.Params) (*pagination.Page[EventDTO], error) {
	if filters.Status != nil && !filters.Status.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid event status").
			WithDetails(map[string]any{"field": "status"})
	}
	var assignedTo *uuid.UUID
	if viewer.restricted() {
		assignedTo = &viewer.UserID
	}
	rows, err := s.repo.List(ctx, organizationID, filters, assignedTo, page)
	if err != nil {
		if pagination.IsCursorError(err) {
			return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid cursor")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list events")
	}
	rows, next := pagination.Trim(rows, page.Limit, func(e models.Event) pagination.Cursor {
		return pagination.Cursor{CreatedAt: e.CreatedAt, ID: e.ID}
	})
	items := make([]EventDTO, 0, len(rows))
	for i := range rows {
		items = append(items, *FromModel(&rows[i]))
	}
	return &pagination.Page[EventDTO]{Items: items, NextCursor: next}, nil
}

func (s *service) ChangeStatus(ctx context.Context, organizationID, id uuid.UUID, req ChangeStatusRequest) (*EventDTO, error) {
	next := req.Status
	if !next.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid event status").
			WithDetails(map[string]any{"field": "status"})
	}

	var out *EventDTO
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		r := s.repo.WithTx(tx)
		event, err := s.load(ctx, r, organizationID, id)
		if err != nil {
			return err
		}
		from := event.Status
		if !from.CanTransitionTo(next) {
			return pkgerrors.New(pkgerrors.CodeStateConflict, "event status transition not allowed").
				WithDetails(map[string]any{"from": from, "to": next})
		}
		if next == enums.EventStatusCancelled {
			if err := budgets.SettleForEvent(ctx, tx, organizationID, id, false); err != nil {
				return err
			}
		}
		if err := r.Transition(ctx, organizationID, id, from, next); err != nil {
			if errors.Is(err, ErrStaleStatus) {
				return pkgerrors.New(pkgerrors.CodeStateConflict, "event status changed, reload and retry")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update event status")
		}
		event.Status = next
		out = FromModel(event)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (s *service) load(ctx context.Context, r *Repository, organizationID, id uuid.UUID) (*models.Event, error) {
	event, err := r.FindByID(ctx, organizationID, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "event not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load event")
	}
	return event, nil
}

func validateDates(start, end time.Time) error {
	if start.IsZero() || end.IsZero() {
		return pkgerrors.New(pkgerrors.CodeValidation, "start_date and end_date are required")
	}
	if end.Before(start) {
		return pkgerrors.New(pkgerrors.CodeValidation, "end_date must not be before start_date").
			WithDetails(map[string]any{"field": "end_date"})
	}
	return nil
}

// checkReferences verifies the client contact and manager belong to the organization.
func checkReferences(ctx context.Context, tx *gorm.DB, organizationID uuid.UUID, clientID, managerID *uuid.UUID) error {
	if clientID != nil {
		if _, err := contacts.NewRepository(tx).FindByID(ctx, organizationID, *clientID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return pkgerrors.New(pkgerrors.CodeValidation, "client contact not found").
					WithDetails(map[string]any{"field": "client_contact_id"})
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load client contact")
		}
	}
	if managerID != nil {
		ok, err := memberships.NewRepository(tx).UserHasRole(ctx, *managerID, organizationID,
			enums.MemberRoleOwner, enums.MemberRoleExecutive, enums.MemberRoleManager)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "check manager")
		}
		if !ok {
			return pkgerrors.New(pkgerrors.CodeValidation, "manager must be an active owner, executive or manager").
				WithDetails(map[string]any{"field": "manager_id"})
		}
	}
	return nil
}
