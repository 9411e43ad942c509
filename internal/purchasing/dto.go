package purchasing

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/kelvin-saputra/sievo-sub000/pkg/db/models"
)

type PurchasingDTO struct {
	ID          uuid.UUID       `json:"id"`
	ItemName    string          `json:"item_name"`
	Description *string         `json:"description,omitempty"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	VendorName  *string         `json:"vendor_name,omitempty"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

type CreatePurchasingRequest struct {
	ItemName    string          `json:"item_name" validate:"required,max=200"`
	Description *string         `json:"description,omitempty"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	VendorName  *string         `json:"vendor_name,omitempty" validate:"omitempty,max=200"`
}

type UpdatePurchasingRequest struct {
	ItemName    *string          `json:"item_name,omitempty" validate:"omitempty,min=1,max=200"`
	Description *string          `json:"description,omitempty"`
	UnitPrice   *decimal.Decimal `json:"unit_price,omitempty"`
	VendorName  *string          `json:"vendor_name,omitempty" validate:"omitempty,max=200"`
}

func FromModel(m *models.Purchasing) *PurchasingDTO {
	if m == nil {
		return nil
	}
	return &PurchasingDTO{
		ID:          m.ID,
		ItemName:    m.ItemName,
		Description: m.Description,
		UnitPrice:   m.UnitPrice,
		VendorName:  m.VendorName,
		CreatedAt:   m.CreatedAt,
		UpdatedAt:   m.UpdatedAt,
	}
}
