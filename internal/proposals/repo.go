package proposals

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/kelvin-saputra/sievo-sub000/internal/repo"
	"github.com/kelvin-saputra/sievo-sub000/pkg/db/models"
	"github.com/kelvin-saputra/sievo-sub000/pkg/enums"
	"github.com/kelvin-saputra/sievo-sub000/pkg/pagination"
)

// ErrStaleStatus reports that a proposal left the expected status concurrently.
var ErrStaleStatus = errors.New("proposal status changed concurrently")

type Repository struct {
	repo.Base
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{Base: repo.NewBase(db)}
}

func (r *Repository) Create(ctx context.Context, p *models.Proposal) error {
	return r.DB(ctx).Create(p).Error
}

func (r *Repository) FindByID(ctx context.Context, organizationID, id uuid.UUID) (*models.Proposal, error) {
	var p models.Proposal
	if err := r.Tenant(ctx, organizationID).Where("id = ?", id).First(&p).Error; err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *Repository) Save(ctx context.Context, p *models.Proposal) error {
	return r.DB(ctx).Save(p).Error
}

// Transition writes the proposal's status and stamps only if it is still in from.
func (r *Repository) Transition(ctx context.Context, p *models.Proposal, from enums.ProposalStatus) error {
	res := r.Tenant(ctx, p.OrganizationID).Model(&models.Proposal{}).
		Where("id = ? AND status = ?", p.ID, from).
		Updates(map[string]any{
			"status":       p.Status,
			"sent_at":      p.SentAt,
			"responded_at": p.RespondedAt,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrStaleStatus
	}
	return nil
}

func (r *Repository) Delete(ctx context.Context, organizationID, id uuid.UUID) error {
	res := r.Tenant(ctx, organizationID).Where("id = ?", id).Delete(&models.Proposal{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// List returns one buffered page of proposals of live events, newest first.
func (r *Repository) List(ctx context.Context, organizationID uuid.UUID, filters ListFilters, page pagination.Params) ([]models.Proposal, error) {
	q := r.DB(ctx).Model(&models.Proposal{}).
		Joins("JOIN events ON events.id = proposals.event_id AND events.deleted_at IS NULL").
		Where("proposals.organization_id = ?", organizationID)
	if filters.EventID != nil {
		q = q.Where("proposals.event_id = ?", *filters.EventID)
	}
	if filters.Status != nil {
		q = q.Where("proposals.status = ?", *filters.Status)
	}
	q, err := repo.Page(q, "proposals", page)
	if err != nil {
		return nil, err
	}
	var rows []models.Proposal
	if err := q.Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}
