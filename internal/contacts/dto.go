package contacts

import (
	"time"

	"github.com/google/uuid"

	"github.com/kelvin-saputra/sievo-sub000/pkg/db/models"
	"github.com/kelvin-saputra/sievo-sub000/pkg/enums"
)

// ContactDTO is the API shape of an address book entry.
type ContactDTO struct {
	ID        uuid.UUID         `json:"id"`
	Name      string            `json:"name"`
	Type      enums.ContactType `json:"type"`
	Company   *string           `json:"company,omitempty"`
	Email     *string           `json:"email,omitempty"`
	Phone     *string           `json:"phone,omitempty"`
	Address   *string           `json:"address,omitempty"`
	Notes     *string           `json:"notes,omitempty"`
	CreatedBy *uuid.UUID        `json:"created_by,omitempty"`
	CreatedAt time.Time         `json:"created_at"`
	UpdatedAt time.Time         `json:"updated_at"`
}

// CreateContactRequest is the body of POST /contacts.
type CreateContactRequest struct {
	Name    string            `json:"name" validate:"required,notblank,max=200"`
	Type    enums.ContactType `json:"type" validate:"required,oneof=client vendor partner other"`
	Company *string           `json:"company,omitempty" validate:"omitempty,max=200"`
	Email   *string           `json:"email,omitempty" validate:"omitempty,email"`
	Phone   *string           `json:"phone,omitempty" validate:"omitempty,max=32"`
	Address *string           `json:"address,omitempty"`
	Notes   *string           `json:"notes,omitempty"`
}

// UpdateContactRequest is the body of PATCH /contacts/{contactId}.
type UpdateContactRequest struct {
	Name    *string            `json:"name,omitempty" validate:"omitempty,min=1,max=200"`
	Type    *enums.ContactType `json:"type,omitempty" validate:"omitempty,oneof=client vendor partner other"`
	Company *string            `json:"company,omitempty" validate:"omitempty,max=200"`
	Email   *string            `json:"email,omitempty" validate:"omitempty,email"`
	Phone   *string            `json:"phone,omitempty" validate:"omitempty,max=32"`
	Address *string            `json:"address,omitempty"`
	Notes   *string            `json:"notes,omitempty"`
}

// ListFilters narrows GET /contacts.
type ListFilters struct {
	Type  *enums.ContactType
	Query string
}

func FromModel(c *models.Contact) *ContactDTO {
	if c == nil {
		return nil
	}
	return &ContactDTO{
		ID:        c.ID,
		Name:      c.Name,
		Type:      c.Type,
		Company:   c.Company,
		Email:     c.Email,
		Phone:     c.Phone,
		Address:   c.Address,
		Notes:     c.Notes,
		CreatedBy: c.CreatedBy,
		CreatedAt: c.CreatedAt,
		UpdatedAt: c.UpdatedAt,
	}
}
