package vendorservices

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/kelvin-saputra/sievo-sub000/pkg/db/models"
	"github.com/kelvin-saputra/sievo-sub000/pkg/enums"
	pkgerrors "github.com/kelvin-saputra/sievo-sub000/pkg/errors"
	"github.com/kelvin-saputra/sievo-sub000/pkg/pagination"
)

var maxRating = decimal.NewFromInt(5)

type vendorServiceRepository interface {
	Create(ctx context.Context, svc *models.VendorService) error
	FindByID(ctx context.Context, organizationID, id uuid.UUID) (*models.VendorService, error)
	Update(ctx context.Context, svc *models.VendorService) error
	Delete(ctx context.Context, organizationID, id uuid.UUID) error
	List(ctx context.Context, organizationID uuid.UUID, filters ListFilters, page pagination.Params) ([]models.VendorService, error)
}

type contactFinder interface {
	FindByID(ctx context.Context, organizationID, id uuid.UUID) (*models.Contact, error)
}

// Service manages the catalog of vendor offerings.
type Service interface {
	Create(ctx context.Context, organizationID uuid.UUID, req CreateVendorServiceRequest) (*VendorServiceDTO, error)
	Get(ctx context.Context, organizationID, id uuid.UUID) (*VendorServiceDTO, error)
	Update(ctx context.Context, organizationID, id uuid.UUID, req UpdateVendorServiceRequest) (*VendorServiceDTO, error)
	Delete(ctx context.Context, organizationID, id uuid.UUID) error
	List(ctx context.Context, organizationID uuid.UUID, filters ListFilters, page pagination.Params) (*pagination.Page[VendorServiceDTO], error)
}

type service struct {
	repo     vendorServiceRepository
	contacts contactFinder
}

func NewService(repo vendorServiceRepository, contacts contactFinder) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("vendor service repository required")
	}
	if contacts == nil {
		return nil, fmt.Errorf("contact repository required")
	}
	return &service{repo: repo, contacts: contacts}, nil
}

func (s *service) Create(ctx context.Context, organizationID uuid.UUID, req CreateVendorServiceRequest) (*VendorServiceDTO, error) {
	name := strings.TrimSpace(req.ServiceName)
	if name == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "service_name is required")
	}
	if req.Price.IsNegative() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "price must be >= 0")
	}
	if err := validateRating(req.Rating); err != nil {
		return nil, err
	}
	if err := s.ensureVendor(ctx, organizationID, req.VendorContactID); err != nil {
		return nil, err
	}

	svc := &models.VendorService{
		OrganizationID:  organizationID,
		VendorContactID: req.VendorContactID,
		ServiceName:     name,
		Category:        req.Category,
		Price:           req.Price.Round(2),
		Rating:          roundRating(req.Rating),
		Description:     req.Description,
	}
	if err := s.repo.Create(ctx, svc); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create vendor service")
	}
	return FromModel(svc), nil
}

func (s *service) Get(ctx context.Context, organizationID, id uuid.UUID) (*VendorServiceDTO, error) {
	svc, err := s.load(ctx, organizationID, id)
	if err != nil {
		return nil, err
	}
	return FromModel(svc), nil
}

func (s *service) Update(ctx context.Context, organizationID, id uuid.UUID, req UpdateVendorServiceRequest) (*VendorServiceDTO, error) {
	svc, err := s.load(ctx, organizationID, id)
	if err != nil {
		return nil, err
	}

	if req.VendorContactID != nil && *req.VendorContactID != svc.VendorContactID {
		if err := s.ensureVendor(ctx, organizationID, *req.VendorContactID); err != nil {
			return nil, err
		}
		svc.VendorContactID = *req.VendorContactID
	}
	if req.ServiceName != nil {
		name := strings.TrimSpace(*req.ServiceName)
		if name == "" {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "service_name cannot be empty")
		}
		svc.ServiceName = name
	}
	if req.Category != nil {
		svc.Category = req.Category
	}
	if req.Price != nil {
		if req.Price.IsNegative() {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "price must be >= 0")
		}
		svc.Price = req.Price.Round(2)
	}
	if req.Rating != nil {
		if err := validateRating(req.Rating); err != nil {
			return nil, err
		}
		svc.Rating = roundRating(req.Rating)
	}
	if req.Description != nil {
		svc.Description = req.Description
	}

	if err := s.repo.Update(ctx, svc); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update vendor service")
	}
	return FromModel(svc), nil
}

func (s *service) Delete(ctx context.Context, organizationID, id uuid.UUID) error {
	if err := s.repo.Delete(ctx, organizationID, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.New(pkgerrors.CodeNotFound, "vendor service not found")
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete vendor service")
	}
	return nil
}

func (s *service) List(ctx context.Context, organizationID uuid.UUID, filters ListFilters, page pagination.Params) (*pagination.Page[VendorServiceDTO], error) {
	rows, err := s.repo.List(ctx, organizationID, filters, page)
	if err != nil {
		if pagination.IsCursorError(err) {
			return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid cursor")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list vendor services")
	}
	rows, next := pagination.Trim(rows, page.Limit, func(v models.VendorService) pagination.Cursor {
		return pagination.Cursor{CreatedAt: v.CreatedAt, ID: v.ID}
	})
	items := make([]VendorServiceDTO, 0, len(rows))
	for i := range rows {
		items = append(items, *FromModel(&rows[i]))
	}
	return &pagination.Page[VendorServiceDTO]{Items: items, NextCursor: next}, nil
}

func (s *service) load(ctx context.Context, organizationID, id uuid.UUID) (*models.VendorService, error) {
	svc, err := s.repo.FindByID(ctx, organizationID, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "vendor service not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load vendor service")
	}
	return svc, nil
}

func (s *service) ensureVendor(ctx context.Context, organizationID, contactID uuid.UUID) error {
	contact, err := s.contacts.FindByID(ctx, organizationID, contactID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.New(pkgerrors.CodeValidation, "vendor contact not found").
				WithDetails(map[string]any{"field": "vendor_contact_id"})
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load vendor contact")
	}
	if contact.Type != enums.ContactTypeVendor {
		return pkgerrors.New(pkgerrors.CodeValidation, "contact is not a vendor").
			WithDetails(map[string]any{"field": "vendor_contact_id", "type": contact.Type})
	}
	return nil
}

func validateRating(rating *decimal.Decimal) error {
	if rating == nil {
		return nil
	}
	if rating.IsNegative() || rating.GreaterThan(maxRating) {
		return pkgerrors.New(pkgerrors.CodeValidation, "rating must be between 0 and 5")
	}
	return nil
}

func roundRating(rating *decimal.Decimal) *decimal.Decimal {
	if rating == nil {
		return nil
	}
	r := rating.Round(1)
	return &r
}
