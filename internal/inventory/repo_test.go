package inventory

import (
	"context"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/kelvin-saputra/sievo-sub000/pkg/db/dbtest"
	"github.com/kelvin-saputra/sievo-sub000/pkg/db/models"
)

func seedItem(t *testing.T, r *Repository, orgID uuid.UUID, total int) *models.Inventory {
	t.Helper()
	item := &models.Inventory{
		OrganizationID: orgID,
		Name:           "Round table",
		TotalQty:       total,
		UnitPrice:      decimal.RequireFromString("150000"),
		IsAvailable:    true,
	}
	require.NoError(t, r.Create(context.Background(), item))
	return item
}

func TestReserveAndRelease(t *testing.T) {
	r := NewRepository(dbtest.Open(t))
	ctx := context.Background()
	orgID := uuid.New()
	item := seedItem(t, r, orgID, 10)

	require.NoError(t, r.Reserve(ctx, orgID, item.ID, 7))
	assert.ErrorIs(t, r.Reserve(ctx, orgID, item.ID, 4), ErrInsufficientQuantity)
	require.NoError(t, r.Reserve(ctx, orgID, item.ID, 3))

	loaded, err := r.FindByID(ctx, orgID, item.ID)
	require.NoError(t, err)
	assert.Equal(t, 10, loaded.ReservedQty)
	assert.Equal(t, 0, loaded.AvailableQty())

	assert.ErrorIs(t, r.Release(ctx, orgID, item.ID, 11), ErrReservationUnderflow)
	require.NoError(t, r.Release(ctx, orgID, item.ID, 4))

	loaded, err = r.FindByID(ctx, orgID, item.ID)
	require.NoError(t, err)
	assert.Equal(t, 6, loaded.ReservedQty)

	assert.ErrorIs(t, r.Reserve(ctx, uuid.New(), item.ID, 1), gorm.ErrRecordNotFound)
	require.NoError(t, r.Reserve(ctx, orgID, item.ID, 0))
}

func TestConcurrentReservationsNeverOverdraw(t *testing.T) {
	r := NewRepository(dbtest.Open(t))
	ctx := context.Background()
	orgID := uuid.New()
	item := seedItem(t, r, orgID, 5)

	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		granted int
	)
	for i := 0; i < 12; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := r.Reserve(ctx, orgID, item.ID, 1); err == nil {
				mu.Lock()
				granted++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 5, granted)
	loaded, err := r.FindByID(ctx, orgID, item.ID)
	require.NoError(t, err)
	assert.Equal(t, 5, loaded.ReservedQty)
}

func TestDeleteRefusedWhileReserved(t *testing.T) {
	r := NewRepository(dbtest.Open(t))
	ctx := context.Background()
	orgID := uuid.New()
	item := seedItem(t, r, orgID, 5)

	require.NoError(t, r.Reserve(ctx, orgID, item.ID, 2))
	assert.ErrorIs(t, r.Delete(ctx, orgID, item.ID), ErrReservedExceedsTotal)

	item.TotalQty = 1
	assert.ErrorIs(t, r.UpdateDetails(ctx, item), ErrReservedExceedsTotal)

	require.NoError(t, r.Release(ctx, orgID, item.ID, 2))
	require.NoError(t, r.Delete(ctx, orgID, item.ID))
	assert.ErrorIs(t, r.Delete(ctx, orgID, item.ID), gorm.ErrRecordNotFound)
}
