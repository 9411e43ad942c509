package hr

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
	"github.com/kelvin-saputra/sievo-sub000/pkg/db"
	"github.com/kelvin-saputra/sievo-sub000/pkg/db/models"
	"github.com/kelvin-saputra/sievo-sub000/pkg/enums"
	pkgerrors "github.com/kelvin-saputra/sievo-sub000/pkg/errors"
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

// Service staffs members onto events.
type Service interface {
	Assign(ctx context.Context, actor Actor, eventID uuid.UUID, req AssignRequest) (*AssignmentDTO, error)
	Update(ctx context.Context, organizationID, eventID, userID uuid.UUID, req UpdateAssignmentRequest) (*AssignmentDTO, error)
	Unassign(ctx context.Context, organizationID, eventID, userID uuid.UUID) error
	Staff(ctx context.Context, organizationID, eventID uuid.UUID) ([]StaffMemberDTO, error)
	Schedule(ctx context.Context, actor Actor, userID uuid.UUID, filters ScheduleFilters) ([]ScheduleEntryDTO, error)
}

type service struct {
	repo *Repository
	tx   txRunner
}

func NewService(repo *Repository, tx txRunner) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("assignment repository required")
	}
	if tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	return &service{repo: repo, tx: tx}, nil
}

func (s *service) Assign(ctx context.Context, actor Actor, eventID uuid.UUID, req AssignRequest) (*AssignmentDTO, error) {
	position := strings.TrimSpace(req.Position)
	if position == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "position is required").
			WithDetails(map[string]any{"field": "position"})
	}
	if req.UserID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "user_id is required").
			WithDetails(map[string]any{"field": "user_id"})
	}

	assignment := &models.EventAssignment{
		OrganizationID: actor.OrganizationID,
		EventID:        eventID,
		UserID:         req.UserID,
		Position:       position,
		Notes:          req.Notes,
		AssignedBy:     &actor.UserID,
	}
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		event, err := loadEvent(ctx, tx, actor.OrganizationID, eventID)
		if err != nil {
			return err
		}
		if event.Status.IsTerminal() {
			return pkgerrors.New(pkgerrors.CodeStateConflict, "cannot staff a "+event.Status.String()+" event")
		}
		active, err := memberships.NewRepository(tx).IsActiveMember(ctx, req.UserID, actor.OrganizationID)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "check member")
		}
		if !active {
			return pkgerrors.New(pkgerrors.CodeValidation, "user must be an active member").
				WithDetails(map[string]any{"field": "user_id"})
		}

		r := s.repo.WithTx(tx)
		if _, err := r.Find(ctx, actor.OrganizationID, eventID, req.UserID); err == nil {
			return pkgerrors.New(pkgerrors.CodeConflict, "user is already assigned to this event")
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "check assignment")
		}
		clashes, err := r.Overlapping(ctx, actor.OrganizationID, req.UserID, eventID, event.StartDate, event.EndDate)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "check schedule")
		}
		if len(clashes) > 0 {
			ids := make([]uuid.UUID, 0, len(clashes))
			for _, c := range clashes {
				ids = append(ids, c.ID)
			}
			return pkgerrors.New(pkgerrors.CodeConflict, "user is already assigned to an overlapping event").
				WithDetails(map[string]any{"conflicting_event_ids": ids})
		}

		if err := r.Create(ctx, assignment); err != nil {
			if db.IsUniqueViolation(err, "") {
				return pkgerrors.New(pkgerrors.CodeConflict, "user is already assigned to this event")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create assignment")
		}
		if req.UserID == actor.UserID {
			return nil
		}
		return notifications.Send(ctx, notifications.NewRepository(tx), notifications.Message{
			OrganizationID: actor.OrganizationID,
			UserID:         req.UserID,
			Type:           enums.NotificationTypeEventAssigned,
			Title:          "Assigned to " + event.Name,
			Body:           fmt.Sprintf("You are staffed as %s from %s to %s.", position, event.StartDate.Format("2006-01-02"), event.EndDate.Format("2006-01-02")),
			Link:           "/events/" + event.ID.String(),
		})
	})
	if err != nil {
		return nil, err
	}
	return FromModel(assignment), nil
}

func (s *service) Update(ctx context.Context, organizationID, eventID, userID uuid.UUID, req UpdateAssignmentRequest) (*AssignmentDTO, error) {
	assignment, err := s.repo.Find(ctx, organizationID, eventID, userID)
	if err != nil {
		return nil, assignmentLoadError(err)
	}
	if req.Position != nil {
		position := strings.TrimSpace(*req.Position)
		if position == "" {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "position cannot be empty").
				WithDetails(map[string]any{"field": "position"})
		}
		assignment.Position = position
	}
	if req.Notes != nil {
		assignment.Notes = req.Notes
	}
	if err := s.repo.Save(ctx, assignment); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update assignment")
	}
	return FromModel(assignment), nil
}

func (s *service) Unassign(ctx context.Context, organizationID, eventID, userID uuid.UUID) error {
	if err := s.repo.Delete(ctx, organizationID, eventID, userID); err != nil {
		return assignmentLoadError(err)
	}
	return nil
}

func (s *service) Staff(ctx context.Context, organizationID, eventID uuid.UUID) ([]StaffMemberDTO, error) {
	if _, err := loadEvent(ctx, s.repo.DB(ctx), organizationID, eventID); err != nil {
		return nil, err
	}
	rows, err := s.repo.Staff(ctx, organizationID, eventID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list staff")
	}
	out := make([]StaffMemberDTO, 0, len(rows))
	for i := range rows {
		out = append(out, StaffMemberDTO{
			AssignmentDTO: *FromModel(&rows[i].EventAssignment),
			Email:         rows[i].Email,
			FirstName:     rows[i].FirstName,
			LastName:      rows[i].LastName,
			Role:          rows[i].Role,
		})
	}
	return out, nil
}

// Schedule lists a member's events. Freelancers can only read their own.
func (s *service) Schedule(ctx context.Context, actor Actor, userID uuid.UUID, filters ScheduleFilters) ([]ScheduleEntryDTO, error) {
	if actor.Role == enums.MemberRoleFreelance && userID != actor.UserID {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "freelancers may only view their own schedule")
	}
	if filters.From != nil && filters.To != nil && filters.To.Before(*filters.From) {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "to must not be before from").
			WithDetails(map[string]any{"field": "to"})
	}
	rows, err := s.repo.Schedule(ctx, actor.OrganizationID, userID, filters)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list schedule")
	}
	out := make([]ScheduleEntryDTO, 0, len(rows))
	for _, row := range rows {
		out = append(out, ScheduleEntryDTO{
			EventID:   row.EventID,
			EventName: row.Name,
			Location:  row.Location,
			StartDate: row.StartDate,
			EndDate:   row.EndDate,
			Status:    row.Status,
			Position:  row.Position,
		})
	}
	return out, nil
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

func assignmentLoadError(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return pkgerrors.New(pkgerrors.CodeNotFound, "assignment not found")
	}
	return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load assignment")
}
