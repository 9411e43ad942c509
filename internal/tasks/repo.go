package tasks

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/kelvin-saputra/sievo-sub000/internal/repo"
	"github.com/kelvin-saputra/sievo-sub000/pkg/db/models"
	"github.com/kelvin-saputra/sievo-sub000/pkg/pagination"
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
	return NewRepository(tx)
}

func (r *Repository) Create(ctx context.Context, task *models.Task) error {
	return r.DB(ctx).Create(task).Error
}

func (r *Repository) FindByID(ctx context.Context, organizationID, id uuid.UUID) (*models.Task, error) {
	var task models.Task
	if err := r.Tenant(ctx, organizationID).Where("id = ?", id).First(&task).Error; err != nil {
		return nil, err
	}
	return &task, nil
}

func (r *Repository) Update(ctx context.Context, task *models.Task) error {
	return r.DB(ctx).Save(task).Error
}

func (r *Repository) Delete(ctx context.Context, organizationID, id uuid.UUID) error {
	res := r.Tenant(ctx, organizationID).Where("id = ?", id).Delete(&models.Task{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// List returns one buffered page of tasks of live events, newest first.
func (r *Repository) List(ctx context.Context, organizationID uuid.UUID, filters ListFilters, page pagination.Params) ([]models.Task, error) {
	q := r.DB(ctx).Model(&models.Task{}).
		Joins("JOIN events ON events.id = tasks.event_id AND events.deleted_at IS NULL").
		Where("tasks.organization_id = ?", organizationID)
	if filters.EventID != nil {
		q = q.Where("tasks.event_id = ?", *filters.EventID)
	}
	if filters.AssigneeID != nil {
		q = q.Where("tasks.assignee_id = ?", *filters.AssigneeID)
	}
	if filters.Status != nil {
		q = q.Where("tasks.status = ?", *filters.Status)
	}
	q, err := repo.Page(q, "tasks", page)
	if err != nil {
		return nil, err
	}
	var rows []models.Task
	if err := q.Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}
