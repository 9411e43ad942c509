package repo

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kelvin-saputra/sievo-sub000/pkg/db/dbtest"
	"github.com/kelvin-saputra/sievo-sub000/pkg/db/models"
	"github.com/kelvin-saputra/sievo-sub000/pkg/enums"
	"github.com/kelvin-saputra/sievo-sub000/pkg/pagination"
)

func TestBaseDB_BindsContext(t *testing.T) {
	db := dbtest.Open(t)
	base := NewBase(db)

	type ctxKey struct{}
	ctx := context.WithValue(context.Background(), ctxKey{}, "value")
	withCtx := base.DB(ctx)
	require.NotNil(t, withCtx.Statement)
	assert.Equal(t, ctx, withCtx.Statement.Context)

	//nolint:staticcheck // nil context returns the raw connection
	assert.Same(t, db, base.DB(nil))
}

func seedContacts(t *testing.T, base Base, orgID uuid.UUID, names ...string) {
	t.Helper()
	start := time.Date(2026, 5, 1, 8, 0, 0, 0, time.UTC)
	for i, name := range names {
		c := &models.Contact{OrganizationID: orgID, Name: name, Type: enums.ContactTypeClient, CreatedAt: start.Add(time.Duration(i) * time.Minute)}
		require.NoError(t, base.DB(context.Background()).Create(c).Error)
	}
}

func TestTenantAndPage(t *testing.T) {
	base := NewBase(dbtest.Open(t))
	ctx := context.Background()
	orgID := uuid.New()
	seedContacts(t, base, orgID, "Ayu", "Budi", "Citra")
	seedContacts(t, base, uuid.New(), "Other")

	q, err := Page(base.Tenant(ctx, orgID), "", pagination.Params{Limit: 2})
	require.NoError(t, err)
	var rows []models.Contact
	require.NoError(t, q.Find(&rows).Error)
	require.Len(t, rows, 3)

	page, next := pagination.Trim(rows, 2, func(c models.Contact) pagination.Cursor {
		return pagination.Cursor{CreatedAt: c.CreatedAt, ID: c.ID}
	})
	require.Len(t, page, 2)
	assert.Equal(t, "Citra", page[0].Name)
	require.NotEmpty(t, next)

	q, err = Page(base.Tenant(ctx, orgID), "", pagination.Params{Limit: 2, Cursor: next})
	require.NoError(t, err)
	rows = nil
	require.NoError(t, q.Find(&rows).Error)
	require.Len(t, rows, 1)
	assert.Equal(t, "Ayu", rows[0].Name)

	_, err = Page(base.Tenant(ctx, orgID), "", pagination.Params{Cursor: "%%%"})
	assert.Error(t, err)
}

func TestSearch(t *testing.T) {
	base := NewBase(dbtest.Open(t))
	ctx := context.Background()
	orgID := uuid.New()
	seedContacts(t, base, orgID, "Gedung Serbaguna", "Catering Ibu Sri")

	var rows []models.Contact
	require.NoError(t, Search(base.Tenant(ctx, orgID), "  SERBA ", "name", "company").Find(&rows).Error)
	require.Len(t, rows, 1)
	assert.Equal(t, "Gedung Serbaguna", rows[0].Name)

	rows = nil
	require.NoError(t, Search(base.Tenant(ctx, orgID), "", "name").Find(&rows).Error)
	assert.Len(t, rows, 2)
}
