package vendorservices

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/kelvin-saputra/sievo-sub000/pkg/db/models"
)

type VendorServiceDTO struct {
	ID              uuid.UUID        `json:"id"`
	VendorContactID uuid.UUID        `json:"vendor_contact_id"`
	ServiceName     string           `json:"service_name"`
	Category        *string          `json:"category,omitempty"`
	Price           decimal.Decimal  `json:"price"`
	Rating          *decimal.Decimal `json:"rating,omitempty"`
	Description     *string          `json:"description,omitempty"`
	CreatedAt       time.Time        `json:"created_at"`
	UpdatedAt       time.Time        `json:"updated_at"`
}

type CreateVendorServiceRequest struct {
	VendorContactID uuid.UUID        `json:"vendor_contact_id" validate:"required"`
	ServiceName     string           `json:"service_name" validate:"required,max=200"`
	Category        *string          `json:"category,omitempty" validate:"omitempty,max=100"`
	Price           decimal.Decimal  `json:"price"`
	Rating          *decimal.Decimal `json:"rating,omitempty"`
	Description     *string          `json:"description,omitempty"`
}

type UpdateVendorServiceRequest struct {
	VendorContactID *uuid.UUID       `json:"vendor_contact_id,omitempty"`
	ServiceName     *string          `json:"service_name,omitempty" validate:"omitempty,min=1,max=200"`
	Category        *string          `json:"category,omitempty" validate:"omitempty,max=100"`
	Price           *decimal.Decimal `json:"price,omitempty"`
	Rating          *decimal.Decimal `json:"rating,omitempty"`
	Description     *string          `json:"description,omitempty"`
}

// ListFilters narrows GET /vendor-services.
type ListFilters struct {
	VendorContactID *uuid.UUID
	Query           string
}

func FromModel(m *models.VendorService) *VendorServiceDTO {
	if m == nil {
		return nil
	}
	return &VendorServiceDTO{
		ID:              m.ID,
		VendorContactID: m.VendorContactID,
		ServiceName:     m.ServiceName,
		Category:        m.Category,
		Price:           m.Price,
		Rating:          m.Rating,
		Description:     m.Description,
		CreatedAt:       m.CreatedAt,
		UpdatedAt:       m.UpdatedAt,
	}
}
