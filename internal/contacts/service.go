package contacts

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

type contactRepository interface {
	Create(ctx context.Context, contact *models.Contact) error
	FindByID(ctx context.Context, organizationID, id uuid.UUID) (*models.Contact, error)
	Update(ctx context.Context, contact *models.Contact) error
	Delete(ctx context.Context, organizationID, id uuid.UUID) error
	List(ctx context.Context, organizationID uuid.UUID, filters ListFilters, page pagination.Params) ([]models.Contact, error)
}

// Service manages the organization's address book.
type Service interface {
	Create(ctx context.Context, organizationID, actorID uuid.UUID, req CreateContactRequest) (*ContactDTO, error)
	Get(ctx context.Context, organizationID, id uuid.UUID) (*ContactDTO, error)
	Update(ctx context.Context, organizationID, id uuid.UUID, req UpdateContactRequest) (*ContactDTO, error)
	Delete(ctx context.Context, organizationID, id uuid.UUID) error
	List(ctx context.Context, organizationID uuid.UUID, filters ListFilters, page pagination.Params) (*pagination.Page[ContactDTO], error)
}

type service struct {
	repo contactRepository
}

func NewService(repo contactRepository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("contact repository required")
	}
	return &service{repo: repo}, nil
}

func (s *service) Create(ctx context.Context, organizationID, actorID uuid.UUID, req CreateContactRequest) (*ContactDTO, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "name is required")
	}
	if !req.Type.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid contact type")
	}

	contact := &models.Contact{
		OrganizationID: organizationID,
		Name:           name,
		Type:           req.Type,
		Company:        req.Company,
		Email:          normalizeEmail(req.Email),
		Phone:          req.Phone,
		Address:        req.Address,
		Notes:          req.Notes,
		CreatedBy:      &actorID,
	}
	if err := s.repo.Create(ctx, contact); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create contact")
	}
	return FromModel(contact), nil
}

func (s *service) Get(ctx context.Context, organizationID, id uuid.UUID) (*ContactDTO, error) {
	contact, err := s.load(ctx, organizationID, id)
	if err != nil {
		return nil, err
	}
	return FromModel(contact), nil
}

func (s *service) Update(ctx context.Context, organizationID, id uuid.UUID, req UpdateContactRequest) (*ContactDTO, error) {
	contact, err := s.load(ctx, organizationID, id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "name cannot be empty")
		}
		contact.Name = name
	}
	if req.Type != nil {
		if !req.Type.IsValid() {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid contact type")
		}
		contact.Type = *req.Type
	}
	if req.Company != nil {
		contact.Company = req.Company
	}
	if req.Email != nil {
		contact.Email = normalizeEmail(req.Email)
	}
	if req.Phone != nil {
		contact.Phone = req.Phone
	}
	if req.Address != nil {
		contact.Address = req.Address
	}
	if req.Notes != nil {
		contact.Notes = req.Notes
	}

	if err := s.repo.Update(ctx, contact); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update contact")
	}
	return FromModel(contact), nil
}

func (s *service) Delete(ctx context.Context, organizationID, id uuid.UUID) error {
	if err := s.repo.Delete(ctx, organizationID, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.New(pkgerrors.CodeNotFound, "contact not found")
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete contact")
	}
	return nil
}

func (s *service) List(ctx context.Context, organizationID uuid.UUID, filters ListFilters, page pagination.Params) (*pagination.Page[ContactDTO], error) {
	if filters.Type != nil && !filters.Type.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid contact type")
	}
	rows, err := s.repo.List(ctx, organizationID, filters, page)
	if err != nil {
		if pagination.IsCursorError(err) {
			return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid cursor")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list contacts")
	}
	rows, next := pagination.Trim(rows, page.Limit, func(c models.Contact) pagination.Cursor {
		return pagination.Cursor{CreatedAt: c.CreatedAt, ID: c.ID}
	})
	items := make([]ContactDTO, 0, len(rows))
	for i := range rows {
		items = append(items, *FromModel(&rows[i]))
	}
	return &pagination.Page[ContactDTO]{Items: items, NextCursor: next}, nil
}

func (s *service) load(ctx context.Context, organizationID, id uuid.UUID) (*models.Contact, error) {
	contact, err := s.repo.FindByID(ctx, organizationID, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "contact not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load contact")
	}
	return contact, nil
}

func normalizeEmail(email *string) *string {
	if email == nil {
		return nil
	}
	value := strings.ToLower(strings.TrimSpace(*email))
	if value == "" {
		return nil
	}
	return &value
}
