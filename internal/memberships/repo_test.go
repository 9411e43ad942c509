package memberships

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/kelvin-saputra/sievo-sub000/pkg/db/dbtest"
	"github.com/kelvin-saputra/sievo-sub000/pkg/db/models"
	"github.com/kelvin-saputra/sievo-sub000/pkg/enums"
)

func seedUser(t *testing.T, conn *gorm.DB, email string) *models.User {
	t.Helper()
	user := &models.User{Email: email, PasswordHash: "hash", FirstName: "Test", LastName: "Member", IsActive: true}
	require.NoError(t, conn.Create(user).Error)
	return user
}

func seedOrganization(t *testing.T, conn *gorm.DB, name string, ownerID uuid.UUID) *models.Organization {
	t.Helper()
	org := &models.Organization{Name: name, OwnerID: ownerID}
	require.NoError(t, conn.Create(org).Error)
	return org
}

func TestRepositoryMembershipFlow(t *testing.T) {
	conn := dbtest.Open(t)
	repo := NewRepository(conn)
	ctx := context.Background()

	owner := seedUser(t, conn, "owner@sievo.id")
	zeta := seedOrganization(t, conn, "Zeta Events", owner.ID)
	alpha := seedOrganization(t, conn, "Alpha Organizer", owner.ID)

	_, err := repo.CreateMembership(ctx, zeta.ID, owner.ID, enums.MemberRoleOwner, nil, enums.MembershipStatusActive)
	require.NoError(t, err)
	_, err = repo.CreateMembership(ctx, alpha.ID, owner.ID, enums.MemberRoleManager, nil, enums.MembershipStatusActive)
	require.NoError(t, err)

	orgs, err := repo.ListUserOrganizations(ctx, owner.ID)
	require.NoError(t, err)
	require.Len(t, orgs, 2)
	assert.Equal(t, "Alpha Organizer", orgs[0].OrganizationName)
	assert.Equal(t, enums.MemberRoleManager, orgs[0].Role)

	ok, err := repo.UserHasRole(ctx, owner.ID, zeta.ID, enums.MemberRoleOwner, enums.MemberRoleExecutive)
	require.NoError(t, err)
	assert.True(t, ok)
	ok, err = repo.UserHasRole(ctx, owner.ID, alpha.ID, enums.MemberRoleOwner)
	require.NoError(t, err)
	assert.False(t, ok)

	withOrg, err := repo.GetMembershipWithOrganization(ctx, owner.ID, zeta.ID)
	require.NoError(t, err)
	assert.Equal(t, "Zeta Events", withOrg.OrganizationName)

	_, err = repo.GetMembershipWithOrganization(ctx, uuid.New(), zeta.ID)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestRepositoryRemovedMembersAreHidden(t *testing.T) {
	conn := dbtest.Open(t)
	repo := NewRepository(conn)
	ctx := context.Background()

	owner := seedUser(t, conn, "owner@sievo.id")
	crew := seedUser(t, conn, "crew@sievo.id")
	org := seedOrganization(t, conn, "Sievo", owner.ID)

	_, err := repo.CreateMembership(ctx, org.ID, owner.ID, enums.MemberRoleOwner, nil, enums.MembershipStatusActive)
	require.NoError(t, err)
	_, err = repo.CreateMembership(ctx, org.ID, crew.ID, enums.MemberRoleFreelance, &owner.ID, enums.MembershipStatusActive)
	require.NoError(t, err)

	require.NoError(t, repo.UpdateMembership(ctx, org.ID, crew.ID, enums.MemberRoleFreelance, enums.MembershipStatusRemoved))

	members, err := repo.ListOrganizationMembers(ctx, org.ID)
	require.NoError(t, err)
	require.Len(t, members, 1)
	assert.Equal(t, "owner@sievo.id", members[0].Email)

	active, err := repo.IsActiveMember(ctx, crew.ID, org.ID)
	require.NoError(t, err)
	assert.False(t, active)

	count, err := repo.CountMembersWithRoles(ctx, org.ID, enums.MemberRoleOwner)
	require.NoError(t, err)
	assert.EqualValues(t, 1, count)

	assert.ErrorIs(t, repo.UpdateMembership(ctx, org.ID, uuid.New(), enums.MemberRoleInternal, enums.MembershipStatusActive), gorm.ErrRecordNotFound)
}

func TestCreateMembershipRejectsUnknownRole(t *testing.T) {
	repo := NewRepository(dbtest.Open(t))
	_, err := repo.CreateMembership(context.Background(), uuid.New(), uuid.New(), "admin", nil, enums.MembershipStatusActive)
	assert.Error(t, err)
}

func TestActivateInvitations(t *testing.T) {
	conn := dbtest.Open(t)
	repo := NewRepository(conn)
	ctx := context.Background()

	owner := seedUser(t, conn, "owner@sievo.id")
	invitee := seedUser(t, conn, "invitee@sievo.id")
	org := seedOrganization(t, conn, "Sievo", owner.ID)

	_, err := repo.CreateMembership(ctx, org.ID, invitee.ID, enums.MemberRoleInternal, &owner.ID, enums.MembershipStatusInvited)
	require.NoError(t, err)

	orgs, err := repo.ListUserOrganizations(ctx, invitee.ID)
	require.NoError(t, err)
	assert.Empty(t, orgs)

	n, err := repo.ActivateInvitations(ctx, invitee.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 1, n)

	orgs, err = repo.ListUserOrganizations(ctx, invitee.ID)
	require.NoError(t, err)
	assert.Len(t, orgs, 1)
}
