package organizations

import (
	"time"

	"github.com/google/uuid"

	"github.com/kelvin-saputra/sievo-sub000/pkg/db/models"
	"github.com/kelvin-saputra/sievo-sub000/pkg/enums"
)

// OrganizationDTO is the API shape of an organization.
type OrganizationDTO struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	Description *string   `json:"description,omitempty"`
	Phone       *string   `json:"phone,omitempty"`
	Email       *string   `json:"email,omitempty"`
	OwnerID     uuid.UUID `json:"owner_id"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// CreateOrganizationDTO is used by registration to create the tenant row.
type CreateOrganizationDTO struct {
	Name        string
	Description *string
	Phone       *string
	Email       *string
	OwnerID     uuid.UUID
}

// UpdateOrganizationRequest is the body of PUT /organization.
type UpdateOrganizationRequest struct {
	Name        *string `json:"name,omitempty" validate:"omitempty,min=1,max=200"`
	Description *string `json:"description,omitempty"`
	Phone       *string `json:"phone,omitempty" validate:"omitempty,max=32"`
	Email       *string `json:"email,omitempty" validate:"omitempty,email"`
}

// InviteMemberRequest is the body of POST /organization/members.
type InviteMemberRequest struct {
	Email     string           `json:"email" validate:"required,email"`
	FirstName string           `json:"first_name" validate:"required"`
	LastName  string           `json:"last_name" validate:"required"`
	Role      enums.MemberRole `json:"role" validate:"required,oneof=owner executive manager internal freelance"`
}

// ChangeRoleRequest is the body of PATCH /organization/members/{userId}.
type ChangeRoleRequest struct {
	Role enums.MemberRole `json:"role" validate:"required,oneof=owner executive manager internal freelance"`
}

func (c CreateOrganizationDTO) ToModel() *models.Organization {
	return &models.Organization{
		Name:        c.Name,
		Description: c.Description,
		Phone:       c.Phone,
		Email:       c.Email,
		OwnerID:     c.OwnerID,
	}
}

func FromModel(o *models.Organization) *OrganizationDTO {
	if o == nil {
		return nil
	}
	return &OrganizationDTO{
		ID:          o.ID,
		Name:        o.Name,
		Description: o.Description,
		Phone:       o.Phone,
		Email:       o.Email,
		OwnerID:     o.OwnerID,
		CreatedAt:   o.CreatedAt,
		UpdatedAt:   o.UpdatedAt,
	}
}
