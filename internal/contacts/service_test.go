package contacts

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kelvin-saputra/sievo-sub000/pkg/db/dbtest"
	"github.com/kelvin-saputra/sievo-sub000/pkg/enums"
	pkgerrors "github.com/kelvin-saputra/sievo-sub000/pkg/errors"
	"github.com/kelvin-saputra/sievo-sub000/pkg/pagination"
)

func newTestService(t *testing.T) Service {
	t.Helper()
	svc, err := NewService(NewRepository(dbtest.Open(t)))
	require.NoError(t, err)
	return svc
}

func strPtr(s string) *string { return &s }

func TestContactLifecycle(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()
	orgID, actorID := uuid.New(), uuid.New()

	created, err := svc.Create(ctx, orgID, actorID, CreateContactRequest{
		Name:    " Hotel Mulia ",
		Type:    enums.ContactTypeVendor,
		Email:   strPtr("Sales@Mulia.co.id"),
		Company: strPtr("PT Mulia"),
	})
	require.NoError(t, err)
	assert.Equal(t, "Hotel Mulia", created.Name)
	require.NotNil(t, created.Email)
	assert.Equal(t, "sales@mulia.co.id", *created.Email)
	assert.Equal(t, actorID, *created.CreatedBy)

	_, err = svc.Get(ctx, uuid.New(), created.ID)
	assert.Equal(t, pkgerrors.CodeNotFound, pkgerrors.As(err).Code())

	partner := enums.ContactTypePartner
	updated, err := svc.Update(ctx, orgID, created.ID, UpdateContactRequest{Type: &partner, Notes: strPtr("ballroom partner")})
	require.NoError(t, err)
	assert.Equal(t, enums.ContactTypePartner, updated.Type)

	require.NoError(t, svc.Delete(ctx, orgID, created.ID))
	_, err = svc.Get(ctx, orgID, created.ID)
	assert.Equal(t, pkgerrors.CodeNotFound, pkgerrors.As(err).Code())
	err = svc.Delete(ctx, orgID, created.ID)
	assert.Equal(t, pkgerrors.CodeNotFound, pkgerrors.As(err).Code())
}

func TestCreateContactValidation(t *testing.T) {
	svc := newTestService(t)
	_, err := svc.Create(context.Background(), uuid.New(), uuid.New(), CreateContactRequest{Name: " ", Type: enums.ContactTypeClient})
	assert.Equal(t, pkgerrors.CodeValidation, pkgerrors.As(err).Code())

	_, err = svc.Create(context.Background(), uuid.New(), uuid.New(), CreateContactRequest{Name: "X", Type: "supplier"})
	assert.Equal(t, pkgerrors.CodeValidation, pkgerrors.As(err).Code())
}

func TestListContactsFilters(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()
	orgID := uuid.New()

	for _, req := range []CreateContactRequest{
		{Name: "Budi Santoso", Type: enums.ContactTypeClient, Company: strPtr("Bank Sentosa")},
		{Name: "Sound Pro", Type: enums.ContactTypeVendor},
		{Name: "Lighting Pro", Type: enums.ContactTypeVendor},
	} {
		_, err := svc.Create(ctx, orgID, uuid.New(), req)
		require.NoError(t, err)
	}
	_, err := svc.Create(ctx, uuid.New(), uuid.New(), CreateContactRequest{Name: "Elsewhere", Type: enums.ContactTypeVendor})
	require.NoError(t, err)

	vendor := enums.ContactTypeVendor
	page, err := svc.List(ctx, orgID, ListFilters{Type: &vendor}, pagination.Params{Limit: 1})
	require.NoError(t, err)
	require.Len(t, page.Items, 1)
	require.NotEmpty(t, page.NextCursor)

	next, err := svc.List(ctx, orgID, ListFilters{Type: &vendor}, pagination.Params{Limit: 1, Cursor: page.NextCursor})
	require.NoError(t, err)
	require.Len(t, next.Items, 1)
	assert.NotEqual(t, page.Items[0].ID, next.Items[0].ID)
	assert.Empty(t, next.NextCursor)

	found, err := svc.List(ctx, orgID, ListFilters{Query: "sentosa"}, pagination.Params{})
	require.NoError(t, err)
	require.Len(t, found.Items, 1)
	assert.Equal(t, "Budi Santoso", found.Items[0].Name)

	_, err = svc.List(ctx, orgID, ListFilters{}, pagination.Params{Cursor: "bad"})
	assert.Equal(t, pkgerrors.CodeValidation, pkgerrors.As(err).Code())
}
