package enums

import "slices"

// MemberRole represents an organization-level permissions role.
type MemberRole string

const (
	MemberRoleOwner     MemberRole = "owner"
	MemberRoleExecutive MemberRole = "executive"
	MemberRoleManager   MemberRole = "manager"
	MemberRoleInternal  MemberRole = "internal"
	MemberRoleFreelance MemberRole = "freelance"
)

var validMemberRoles = []MemberRole{
	MemberRoleOwner,
	MemberRoleExecutive,
	MemberRoleManager,
	MemberRoleInternal,
	MemberRoleFreelance,
}

// String implements fmt.Stringer.
func (m MemberRole) String() string {
	return string(m)
}

// IsValid reports whether the value is a known MemberRole.
func (m MemberRole) IsValid() bool {
	return slices.Contains(validMemberRoles, m)
}

// IsStaff reports whether the role belongs to permanent staff (everyone but freelancers).
func (m MemberRole) IsStaff() bool {
	return m.IsValid() && m != MemberRoleFreelance
}

// ParseMemberRole converts raw input into a MemberRole.
func ParseMemberRole(value string) (MemberRole, error) {
	return parse(validMemberRoles, value, "member role")
}

// CanApprove reports whether the role may approve budgets and proposals.
func (m MemberRole) CanApprove() bool {
	return m == MemberRoleOwner || m == MemberRoleExecutive
}
