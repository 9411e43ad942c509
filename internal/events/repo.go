package events

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/kelvin-saputra/sievo-sub000/internal/repo"
	"github.com/kelvin-saputra/sievo-sub000/pkg/db/models"
	"github.com/kelvin-saputra/sievo-sub000/pkg/enums"
	"github.com/kelvin-saputra/sievo-sub000/pkg/pagination"
)

// ErrStaleStatus is returned when the event status moved underneath a transition.
var ErrStaleStatus = errors.New("event status changed concurrently")

type Repository struct {
	repo.Base
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{Base: repo.NewBase(db)}
}

func (r *Repository) WithTx(tx *gorm.DB) *Repository {
	if tx == nil {
		return r
	}
	return NewRepository(tx)
}

func (r *Repository) Create(ctx context.Context, e *models.Event) error {
	return r.DB(ctx).Create(e).Error
}

func (r *Repository) FindByID(ctx context.Context, organizationID, id uuid.UUID) (*models.Event, error) {
	var e models.Event
	if err := r.Tenant(ctx, organizationID).Where("id = ?", id).First(&e).Error; err != nil {
		return nil, err
	}
	return &e, nil
}

func (r *Repository) Update(ctx context.Context, e *models.Event) error {
	return r.DB(ctx).Save(e).Error
}

func (r *Repository) Delete(ctx context.Context, organizationID, id uuid.UUID) error {
	res := r.Tenant(ctx, organizationID).Where("id = ?", id).Delete(&models.Event{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// DeleteDependents removes the tasks, proposals and staff assignments of an event.
func (r *Repository) DeleteDependents(ctx context.Context, organizationID, eventID uuid.UUID) error {
	for _, model := range []any{&models.Task{}, &models.Proposal{}, &models.EventAssignment{}} {
		if err := r.Tenant(ctx, organizationID).Where("event_id = ?", eventID).Delete(model).Error; err != nil {
			return err
		}
	}
	return nil
}

// List returns one buffered page of events. A non-nil assignedTo limits the
// result to events the user is staffed on.
func (r *Repository) List(ctx context.Context, organizationID uuid.UUID, filters ListFilters, assignedTo *uuid.UUID, page pagination.Params) ([]models.Event, error) {
	q := r.Tenant(ctx, organizationID).Model(&models.Event{})
	if filters.Status != nil {
		q = q.Where("status = ?", *filters.Status)
	}
	if filters.From != nil {
		q = q.Where("end_date >= ?", *filters.From)
	}
	if filters.To != nil {
		q = q.Where("start_date <= ?", *filters.To)
	}
	if assignedTo != nil {
		q = q.Where("EXISTS (SELECT 1 FROM event_assignments ea WHERE ea.event_id = events.id AND ea.user_id = ?)", *assignedTo)
	}
	q = repo.Search(q, filters.Query, "name", "location")
	q, err := repo.Page(q, "", page)
	if err != nil {
		return nil, err
	}
	var rows []models.Event
	if err := q.Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// IsAssigned reports whether the user is staffed on the event.
func (r *Repository) IsAssigned(ctx context.Context, organizationID, eventID, userID uuid.UUID) (bool, error) {
	var count int64
	err := r.Tenant(ctx, organizationID).Model(&models.EventAssignment{}).
		Where("event_id = ? AND user_id = ?", eventID, userID).
		Count(&count).Error
	return count > 0, err
}

// Transition moves the event from one status to another with a guarded update.
func (r *Repository) Transition(ctx context.Context, organizationID, id uuid.UUID, from, to enums.EventStatus) error {
	res := r.Tenant(ctx, organizationID).Model(&models.Event{}).
		Where("id = ? AND status = ?", id, from).
		Update("status", to)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrStaleStatus
	}
	return nil
}

// StartDue moves planning events whose start has passed to ongoing, across all organizations.
func (r *Repository) StartDue(ctx context.Context, now time.Time) (int64, error) {
	res := r.DB(ctx).Model(&models.Event{}).
		Where("status = ? AND start_date <= ?", enums.EventStatusPlanning, now).
		Update("status", enums.EventStatusOngoing)
	return res.RowsAffected, res.Error
}

// CompleteDue moves ongoing events whose end has passed to completed, across all organizations.
func (r *Repository) CompleteDue(ctx context.Context, now time.Time) (int64, error) {
	res := r.DB(ctx).Model(&models.Event{}).
		Where("status = ? AND end_date <= ?", enums.EventStatusOngoing, now).
		Update("status", enums.EventStatusCompleted)
	return res.RowsAffected, res.Error
}

type taskCountRow struct {
	Status enums.TaskStatus
	Total  int64
}

func (r *Repository) TaskCounts(ctx context.Context, organizationID, eventID uuid.UUID) (map[enums.TaskStatus]int64, error) {
	var rows []taskCountRow
	err := r.Tenant(ctx, organizationID).Model(&models.Task{}).
		Select("status, COUNT(*) AS total").
		Where("event_id = ?", eventID).
		Group("status").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	out := map[enums.TaskStatus]int64{
		enums.TaskStatusTodo:       0,
		enums.TaskStatusInProgress: 0,
		enums.TaskStatusDone:       0,
	}
	for _, row := range rows {
		out[row.Status] = row.Total
	}
	return out, nil
}

func (r *Repository) StaffCount(ctx context.Context, organizationID, eventID uuid.UUID) (int64, error) {
	var count int64
	err := r.Tenant(ctx, organizationID).Model(&models.EventAssignment{}).Where("event_id = ?", eventID).Count(&count).Error
	return count, err
}

// Budget loads the budget row of the event, if any.
func (r *Repository) Budget(ctx context.Context, organizationID, eventID uuid.UUID) (*models.Budget, error) {
	var b models.Budget
	err := r.Tenant(ctx, organizationID).Where("event_id = ?", eventID).Limit(1).Find(&b).Error
	if err != nil {
		return nil, err
	}
	if b.ID == uuid.Nil {
		return nil, nil
	}
	return &b, nil
}
