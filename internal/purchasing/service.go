package purchasing

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/kelvin-saputra/sievo-sub000/pkg/db/models"
	pkgerrors "github.com/kelvin-saputra/sievo-sub000/pkg/errors"
	"github.com/kelvin-saputra/sievo-sub000/pkg/pagination"
)

type purchasingRepository interface {
	Create(ctx context.Context, p *models.Purchasing) error
	FindByID(ctx context.Context, organizationID, id uuid.UUID) (*models.Purchasing, error)
	Update(ctx context.Context, p *models.Purchasing) error
	Delete(ctx context.Context, organizationID, id uuid.UUID) error
	List(ctx context.Context, organizationID uuid.UUID, query string, page pagination.Params) ([]models.Purchasing, error)
}

// Service manages ad-hoc purchase sources.
type Service interface {
	Create(ctx context.Context, organizationID uuid.UUID, req CreatePurchasingRequest) (*PurchasingDTO, error)
	Get(ctx context.Context, organizationID, id uuid.UUID) (*PurchasingDTO, error)
	Update(ctx context.Context, organizationID, id uuid.UUID, req UpdatePurchasingRequest) (*PurchasingDTO, error)
	Delete(ctx context.Context, organizationID, id uuid.UUID) error
	List(ctx context.Context, organizationID uuid.UUID, query string, page pagination.Params) (*pagination.Page[PurchasingDTO], error)
}

type service struct {
	repo purchasingRepository
}

func NewService(repo purchasingRepository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("purchasing repository required")
	}
	return &service{repo: repo}, nil
}

func (s *service) Create(ctx context.Context, organizationID uuid.UUID, req CreatePurchasingRequest) (*PurchasingDTO, error) {
	name := strings.TrimSpace(req.ItemName)
	if name == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "item_name is required")
	}
	if req.UnitPrice.IsNegative() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "unit_price must be >= 0")
	}
	p := &models.Purchasing{
		OrganizationID: organizationID,
		ItemName:       name,
		Description:    req.Description,
		UnitPrice:      req.UnitPrice.Round(2),
		VendorName:     req.VendorName,
	}
	if err := s.repo.Create(ctx, p); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create purchasing")
	}
	return FromModel(p), nil
}

func (s *service) Get(ctx context.Context, organizationID, id uuid.UUID) (*PurchasingDTO, error) {
	p, err := s.load(ctx, organizationID, id)
	if err != nil {
		return nil, err
	}
	return FromModel(p), nil
}

func (s *service) Update(ctx context.Context, organizationID, id uuid.UUID, req UpdatePurchasingRequest) (*PurchasingDTO, error) {
	p, err := s.load(ctx, organizationID, id)
	if err != nil {
		return nil, err
	}
	if req.ItemName != nil {
		name := strings.TrimSpace(*req.ItemName)
		if name == "" {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "item_name cannot be empty")
		}
		p.ItemName = name
	}
	if req.Description != nil {
		p.Description = req.Description
	}
	if req.UnitPrice != nil {
		if req.UnitPrice.IsNegative() {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "unit_price must be >= 0")
		}
		p.UnitPrice = req.UnitPrice.Round(2)
	}
	if req.VendorName != nil {
		p.VendorName = req.VendorName
	}
	if err := s.repo.Update(ctx, p); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update purchasing")
	}
	return FromModel(p), nil
}

func (s *service) Delete(ctx context.Context, organizationID, id uuid.UUID) error {
	if err := s.repo.Delete(ctx, organizationID, id); err != nil {
		switch {
		case errors.Is(err, ErrInUse):
			return pkgerrors.New(pkgerrors.CodeConflict, "purchasing is used by budget items")
		case errors.Is(err, gorm.ErrRecordNotFound):
			return pkgerrors.New(pkgerrors.CodeNotFound, "purchasing not found")
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete purchasing")
	}
	return nil
}

func (s *service) List(ctx context.Context, organizationID uuid.UUID, query string, page pagination.Params) (*pagination.Page[PurchasingDTO], error) {
	rows, err := s.repo.List(ctx, organizationID, query, page)
	if err != nil {
		if pagination.IsCursorError(err) {
			return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid cursor")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list purchasing")
	}
	rows, next := pagination.Trim(rows, page.Limit, func(p models.Purchasing) pagination.Cursor {
		return pagination.Cursor{CreatedAt: p.CreatedAt, ID: p.ID}
	})
	items := make([]PurchasingDTO, 0, len(rows))
	for i := range rows {
		items = append(items, *FromModel(&rows[i]))
	}
	return &pagination.Page[PurchasingDTO]{Items: items, NextCursor: next}, nil
}

func (s *service) load(ctx context.Context, organizationID, id uuid.UUID) (*models.Purchasing, error) {
	p, err := s.repo.FindByID(ctx, organizationID, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "purchasing not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load purchasing")
	}
	return p, nil
}
