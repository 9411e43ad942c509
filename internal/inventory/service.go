package inventory

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/kelvin-saputra/sievo-sub000/pkg/db/models"
	pkgerrors "github.com/kelvin-saputra/sievo-sub000/pkg/errors"
	"github.com/kelvin-saputra/sievo-sub000/pkg/pagination"
)

type inventoryRepository interface {
	Create(ctx context.Context, item *models.Inventory) error
	FindByID(ctx context.Context, organizationID, id uuid.UUID) (*models.Inventory, error)
	UpdateDetails(ctx context.Context, item *models.Inventory) error
	Delete(ctx context.Context, organizationID, id uuid.UUID) error
	List(ctx context.Context, organizationID uuid.UUID, filters ListFilters, page pagination.Params) ([]models.Inventory, error)
}

// Service manages owned equipment.
type Service interface {
	Create(ctx context.Context, organizationID uuid.UUID, req CreateItemRequest) (*ItemDTO, error)
	Get(ctx context.Context, organizationID, id uuid.UUID) (*ItemDTO, error)
	Update(ctx context.Context, organizationID, id uuid.UUID, req UpdateItemRequest) (*ItemDTO, error)
	Delete(ctx context.Context, organizationID, id uuid.UUID) error
	List(ctx context.Context, organizationID uuid.UUID, filters ListFilters, page pagination.Params) (*pagination.Page[ItemDTO], error)
}

type service struct {
	repo inventoryRepository
}

func NewService(repo inventoryRepository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("inventory repository required")
	}
	return &service{repo: repo}, nil
}

func (s *service) Create(ctx context.Context, organizationID uuid.UUID, req CreateItemRequest) (*ItemDTO, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "name is required")
	}
	if req.TotalQty < 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "total_qty must be >= 0")
	}
	if err := validatePrice(req.UnitPrice); err != nil {
		return nil, err
	}

	item := &models.Inventory{
		OrganizationID: organizationID,
		Name:           name,
		Category:       req.Category,
		Description:    req.Description,
		TotalQty:       req.TotalQty,
		UnitPrice:      req.UnitPrice.Round(2),
		IsAvailable:    true,
	}
	if req.IsAvailable != nil {
		item.IsAvailable = *req.IsAvailable
	}
	if err := s.repo.Create(ctx, item); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create inventory")
	}
	if !item.IsAvailable {
		// the column default would otherwise win over a false zero value
		if err := s.repo.UpdateDetails(ctx, item); err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update inventory")
		}
	}
	return FromModel(item), nil
}

func (s *service) Get(ctx context.Context, organizationID, id uuid.UUID) (*ItemDTO, error) {
	item, err := s.load(ctx, organizationID, id)
	if err != nil {
		return nil, err
	}
	return FromModel(item), nil
}

func (s *service) Update(ctx context.Context, organizationID, id uuid.UUID, req UpdateItemRequest) (*ItemDTO, error) {
	item, err := s.load(ctx, organizationID, id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "name cannot be empty")
		}
		item.Name = name
	}
	if req.Category != nil {
		item.Category = req.Category
	}
	if req.Description != nil {
		item.Description = req.Description
	}
	if req.TotalQty != nil {
		if *req.TotalQty < 0 {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "total_qty must be >= 0")
		}
		item.TotalQty = *req.TotalQty
	}
	if req.UnitPrice != nil {
		if err := validatePrice(*req.UnitPrice); err != nil {
			return nil, err
		}
		item.UnitPrice = req.UnitPrice.Round(2)
	}
	if req.IsAvailable != nil {
		item.IsAvailable = *req.IsAvailable
	}

	if err := s.repo.UpdateDetails(ctx, item); err != nil {
		switch {
		case errors.Is(err, ErrReservedExceedsTotal):
			return nil, pkgerrors.New(pkgerrors.CodeConflict, "total_qty cannot drop below reserved quantity").
				WithDetails(map[string]any{"reserved_qty": item.ReservedQty})
		case errors.Is(err, gorm.ErrRecordNotFound):
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "inventory not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update inventory")
	}
	return FromModel(item), nil
}

func (s *service) Delete(ctx context.Context, organizationID, id uuid.UUID) error {
	if err := s.repo.Delete(ctx, organizationID, id); err != nil {
		switch {
		case errors.Is(err, ErrReservedExceedsTotal):
			return pkgerrors.New(pkgerrors.CodeConflict, "inventory is reserved by budget items")
		case errors.Is(err, gorm.ErrRecordNotFound):
			return pkgerrors.New(pkgerrors.CodeNotFound, "inventory not found")
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete inventory")
	}
	return nil
}

func (s *service) List(ctx context.Context, organizationID uuid.UUID, filters ListFilters, page pagination.Params) (*pagination.Page[ItemDTO], error) {
	rows, err := s.repo.List(ctx, organizationID, filters, page)
	if err != nil {
		if pagination.IsCursorError(err) {
			return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid cursor")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list inventory")
	}
	rows, next := pagination.Trim(rows, page.Limit, func(i models.Inventory) pagination.Cursor {
		return pagination.Cursor{CreatedAt: i.CreatedAt, ID: i.ID}
	})
	items := make([]ItemDTO, 0, len(rows))
	for i := range rows {
		items = append(items, *FromModel(&rows[i]))
	}
	return &pagination.Page[ItemDTO]{Items: items, NextCursor: next}, nil
}

func (s *service) load(ctx context.Context, organizationID, id uuid.UUID) (*models.Inventory, error) {
	item, err := s.repo.FindByID(ctx, organizationID, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "inventory not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load inventory")
	}
	return item, nil
}

func validatePrice(price decimal.Decimal) error {
	if price.IsNegative() {
		return pkgerrors.New(pkgerrors.CodeValidation, "unit_price must be >= 0")
	}
	return nil
}
