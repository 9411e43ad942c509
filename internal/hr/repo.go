package hr

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/kelvin-saputra/sievo-sub000/internal/repo"
	"github.com/kelvin-saputra/sievo-sub000/pkg/db/models"
	"github.com/kelvin-saputra/sievo-sub000/pkg/enums"
)

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
	return &Repository{Base: repo.NewBase(tx)}
}

type staffRow struct {
	models.EventAssignment
	Email     string
	FirstName string
	LastName  string
	Role      enums.MemberRole
}

type scheduleRow struct {
	EventID   uuid.UUID
	Name      string
	Location  *string
	StartDate time.Time
	EndDate   time.Time
	Status    enums.EventStatus
	Position  string
}

func (r *Repository) Create(ctx context.Context, a *models.EventAssignment) error {
	return r.DB(ctx).Create(a).Error
}

func (r *Repository) Find(ctx context.Context, organizationID, eventID, userID uuid.UUID) (*models.EventAssignment, error) {
	var a models.EventAssignment
	err := r.Tenant(ctx, organizationID).
		Where("event_id = ? AND user_id = ?", eventID, userID).
		First(&a).Error
	if err != nil {
		return nil, err
	}
	return &a, nil
}

func (r *Repository) Save(ctx context.Context, a *models.EventAssignment) error {
	return r.DB(ctx).Save(a).Error
}

func (r *Repository) Delete(ctx context.Context, organizationID, eventID, userID uuid.UUID) error {
	res := r.Tenant(ctx, organizationID).
		Where("event_id = ? AND user_id = ?", eventID, userID).
		Delete(&models.EventAssignment{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// Overlapping returns the user's other active events whose dates intersect [start, end].
func (r *Repository) Overlapping(ctx context.Context, organizationID, userID, eventID uuid.UUID, start, end time.Time) ([]models.Event, error) {
	var rows []models.Event
	err := r.DB(ctx).Model(&models.Event{}).
		Joins("JOIN event_assignments ea ON ea.event_id = events.id").
		Where("events.organization_id = ? AND ea.user_id = ? AND events.id <> ?", organizationID, userID, eventID).
		Where("events.status IN ?", []enums.EventStatus{enums.EventStatusPlanning, enums.EventStatusOngoing}).
		Where("events.start_date <= ? AND events.end_date >= ?", end, start).
		Order("events.start_date").
		Find(&rows).Error
	return rows, err
}

// Staff lists the members assigned to an event with their user details.
func (r *Repository) Staff(ctx context.Context, organizationID, eventID uuid.UUID) ([]staffRow, error) {
	var rows []staffRow
	err := r.DB(ctx).Table("event_assignments").
		Select("event_assignments.*, users.email, users.first_name, users.last_name, memberships.role").
		Joins("JOIN users ON users.id = event_assignments.user_id").
		Joins("LEFT JOIN memberships ON memberships.user_id = event_assignments.user_id AND memberships.organization_id = event_assignments.organization_id").
		Where("event_assignments.organization_id = ? AND event_assignments.event_id = ?", organizationID, eventID).
		Order("event_assignments.created_at").
		Scan(&rows).Error
	return rows, err
}

// Schedule lists the live events a user is staffed on, earliest first.
func (r *Repository) Schedule(ctx context.Context, organizationID, userID uuid.UUID, filters ScheduleFilters) ([]scheduleRow, error) {
	q := r.DB(ctx).Table("event_assignments").
		Select("events.id AS event_id, events.name, events.location, events.start_date, events.end_date, events.status, event_assignments.position").
		Joins("JOIN events ON events.id = event_assignments.event_id AND events.deleted_at IS NULL").
		Where("event_assignments.organization_id = ? AND event_assignments.user_id = ?", organizationID, userID)
	if filters.From != nil {
		q = q.Where("events.end_date >= ?", *filters.From)
	}
	if filters.To != nil {
		q = q.Where("events.start_date <= ?", *filters.To)
	}
	var rows []scheduleRow
	err := q.Order("events.start_date").Scan(&rows).Error
	return rows, err
}
