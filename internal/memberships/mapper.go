package memberships

import (
	"time"

	"github.com/kelvin-saputra/sievo-sub000/pkg/db/models"
)

type membershipWithOrganizationRow struct {
	models.Membership
	OrganizationName string `gorm:"column:organization_name"`
}

type memberRow struct {
	models.Membership
	Email       string     `gorm:"column:email"`
	FirstName   string     `gorm:"column:first_name"`
	LastName    string     `gorm:"column:last_name"`
	LastLoginAt *time.Time `gorm:"column:last_login_at"`
}

func membershipWithOrganizationFromRow(row membershipWithOrganizationRow) MembershipWithOrganization {
	return MembershipWithOrganization{
		MembershipID:     row.ID,
		OrganizationID:   row.OrganizationID,
		UserID:           row.UserID,
		OrganizationName: row.OrganizationName,
		Role:             row.Role,
		Status:           row.Status,
		CreatedAt:        row.CreatedAt,
	}
}

func membershipRowsToDTO(rows []membershipWithOrganizationRow) []MembershipWithOrganization {
	out := make([]MembershipWithOrganization, 0, len(rows))
	for _, row := range rows {
		out = append(out, membershipWithOrganizationFromRow(row))
	}
	return out
}

func membersFromRows(rows []memberRow) []MemberDTO {
	out := make([]MemberDTO, 0, len(rows))
	for _, row := range rows {
		out = append(out, MemberDTO{
			MembershipID:   row.ID,
			OrganizationID: row.OrganizationID,
			UserID:         row.UserID,
			Email:          row.Email,
			FirstName:      row.FirstName,
			LastName:       row.LastName,
			Role:           row.Role,
			Status:         row.Status,
			CreatedAt:      row.CreatedAt,
			LastLoginAt:    row.LastLoginAt,
		})
	}
	return out
}
