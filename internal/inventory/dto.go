package inventory

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/kelvin-saputra/sievo-sub000/pkg/db/models"
)

// ItemDTO is the API shape of an inventory row.
type ItemDTO struct {
	ID           uuid.UUID       `json:"id"`
	Name         string          `json:"name"`
	Category     *string         `json:"category,omitempty"`
	Description  *string         `json:"description,omitempty"`
	TotalQty     int             `json:"total_qty"`
	ReservedQty  int             `json:"reserved_qty"`
	AvailableQty int             `json:"available_qty"`
	UnitPrice    decimal.Decimal `json:"unit_price"`
	IsAvailable  bool            `json:"is_available"`
	CreatedAt    time.Time       `json:"created_at"`
	UpdatedAt    time.Time       `json:"updated_at"`
}

// CreateItemRequest is the body of POST /inventory.
type CreateItemRequest struct {
	Name        string          `json:"name" validate:"required,notblank,max=200"`
	Category    *string         `json:"category,omitempty" validate:"omitempty,max=100"`
	Description *string         `json:"description,omitempty"`
	TotalQty    int             `json:"total_qty" validate:"gte=0,lte=1000000"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	IsAvailable *bool           `json:"is_available,omitempty"`
}

// UpdateItemRequest is the body of PATCH /inventory/{inventoryId}.
type UpdateItemRequest struct {
	Name        *string          `json:"name,omitempty" validate:"omitempty,min=1,max=200"`
	Category    *string          `json:"category,omitempty" validate:"omitempty,max=100"`
	Description *string          `json:"description,omitempty"`
	TotalQty    *int             `json:"total_qty,omitempty" validate:"omitempty,gte=0,lte=1000000"`
	UnitPrice   *decimal.Decimal `json:"unit_price,omitempty"`
	IsAvailable *bool            `json:"is_available,omitempty"`
}

// ListFilters narrows GET /inventory.
type ListFilters struct {
	Query         string
	AvailableOnly bool
}

func FromModel(i *models.Inventory) *ItemDTO {
	if i == nil {
		return nil
	}
	return &ItemDTO{
		ID:           i.ID,
		Name:         i.Name,
		Category:     i.Category,
		Description:  i.Description,
		TotalQty:     i.TotalQty,
		ReservedQty:  i.ReservedQty,
		AvailableQty: i.AvailableQty(),
		UnitPrice:    i.UnitPrice,
		IsAvailable:  i.IsAvailable,
		CreatedAt:    i.CreatedAt,
		UpdatedAt:    i.UpdatedAt,
	}
}
