package budgets

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/kelvin-saputra/sievo-sub000/pkg/db"
	"github.com/kelvin-saputra/sievo-sub000/pkg/db/dbtest"
	"github.com/kelvin-saputra/sievo-sub000/pkg/db/models"
	"github.com/kelvin-saputra/sievo-sub000/pkg/enums"
	pkgerrors "github.com/kelvin-saputra/sievo-sub000/pkg/errors"
)

type fixture struct {
	client  *db.Client
	conn    *gorm.DB
	svc     Service
	orgID   uuid.UUID
	eventID uuid.UUID
	manager uuid.UUID
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	client, conn := dbtest.Client(t)
	svc, err := NewService(NewRepository(conn), client)
	require.NoError(t, err)

	f := &fixture{client: client, conn: conn, svc: svc, orgID: uuid.New(), manager: uuid.New()}
	event := &models.Event{
		OrganizationID: f.orgID,
		Name:           "Gala dinner",
		StartDate:      time.Now().Add(72 * time.Hour),
		EndDate:        time.Now().Add(80 * time.Hour),
		Status:         enums.EventStatusPlanning,
		ManagerID:      &f.manager,
	}
	require.NoError(t, conn.Create(event).Error)
	f.eventID = event.ID
	require.NoError(t, client.WithTx(context.Background(), func(tx *gorm.DB) error {
		_, err := OpenForEvent(context.Background(), tx, f.orgID, f.eventID)
		return err
	}))
	return f
}

func (f *fixture) inventory(t *testing.T, name string, total int, price int64) uuid.UUID {
	t.Helper()
	item := &models.Inventory{OrganizationID: f.orgID, Name: name, TotalQty: total, UnitPrice: decimal.NewFromInt(price), IsAvailable: true}
	require.NoError(t, f.conn.Create(item).Error)
	return item.ID
}

func (f *fixture) purchasing(t *testing.T, name string, price int64) uuid.UUID {
	t.Helper()
	p := &models.Purchasing{OrganizationID: f.orgID, ItemName: name, UnitPrice: decimal.NewFromInt(price)}
	require.NoError(t, f.conn.Create(p).Error)
	return p.ID
}

func (f *fixture) reserved(t *testing.T, inventoryID uuid.UUID) int {
	t.Helper()
	var item models.Inventory
	require.NoError(t, f.conn.Unscoped().First(&item, "id = ?", inventoryID).Error)
	return item.ReservedQty
}

func (f *fixture) category(t *testing.T, name string) uuid.UUID {
	t.Helper()
	c, err := f.svc.CreateCategory(context.Background(), f.orgID, f.eventID, CreateCategoryRequest{Name: name})
	require.NoError(t, err)
	return c.ID
}

func codeOf(err error) pkgerrors.Code {
	return pkgerrors.As(err).Code()
}

func intPtr(v int) *int { return &v }

func TestPlanItemReservationLifecycle(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	chairs := f.inventory(t, "Tiffany chair", 10, 25000)
	flowers := f.purchasing(t, "Table flowers", 80000)
	furniture := f.category(t, "Furniture")

	item, err := f.svc.CreatePlanItem(ctx, f.orgID, f.eventID, CreatePlanItemRequest{
		CategoryID: furniture,
		Source:     SourceRef{Type: enums.BudgetSourceInventory, ID: chairs},
		Quantity:   6,
	})
	require.NoError(t, err)
	assert.Equal(t, "Tiffany chair", item.ItemName)
	assert.Equal(t, "25000", item.UnitPrice.String())
	assert.Equal(t, "150000", item.Subtotal.String())
	assert.Equal(t, enums.PlanItemStatusPending, item.Status)
	assert.Equal(t, 6, f.reserved(t, chairs))

	_, err = f.svc.CreatePlanItem(ctx, f.orgID, f.eventID, CreatePlanItemRequest{
		CategoryID: furniture,
		Source:     SourceRef{Type: enums.BudgetSourceInventory, ID: chairs},
		Quantity:   5,
	})
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeConflict, codeOf(err))
	details, ok := pkgerrors.As(err).Details().(map[string]any)
	require.True(t, ok)
	assert.Equal(t, 4, details["available"])
	assert.Equal(t, 6, f.reserved(t, chairs))

	_, err = f.svc.UpdatePlanItem(ctx, f.orgID, f.eventID, item.ID, UpdatePlanItemRequest{Quantity: intPtr(8)})
	require.NoError(t, err)
	assert.Equal(t, 8, f.reserved(t, chairs))

	rejected := enums.PlanItemStatusRejected
	_, err = f.svc.UpdatePlanItem(ctx, f.orgID, f.eventID, item.ID, UpdatePlanItemRequest{Status: &rejected})
	require.NoError(t, err)
	assert.Equal(t, 0, f.reserved(t, chairs))

	approved := enums.PlanItemStatusApproved
	_, err = f.svc.UpdatePlanItem(ctx, f.orgID, f.eventID, item.ID, UpdatePlanItemRequest{Status: &approved})
	require.NoError(t, err)
	assert.Equal(t, 8, f.reserved(t, chairs))

	swapped, err := f.svc.UpdatePlanItem(ctx, f.orgID, f.eventID, item.ID, UpdatePlanItemRequest{
		Source: &SourceRef{Type: enums.BudgetSourcePurchasing, ID: flowers},
	})
	require.NoError(t, err)
	assert.Equal(t, "Table flowers", swapped.ItemName)
	assert.Equal(t, flowers, swapped.SourceID)
	assert.Equal(t, 0, f.reserved(t, chairs))

	_, err = f.svc.UpdatePlanItem(ctx, f.orgID, f.eventID, item.ID, UpdatePlanItemRequest{
		Source:   &SourceRef{Type: enums.BudgetSourceInventory, ID: chairs},
		Quantity: intPtr(3),
	})
	require.NoError(t, err)
	assert.Equal(t, 3, f.reserved(t, chairs))

	require.NoError(t, f.svc.DeletePlanItem(ctx, f.orgID, f.eventID, item.ID))
	assert.Equal(t, 0, f.reserved(t, chairs))

	err = f.svc.DeletePlanItem(ctx, f.orgID, f.eventID, item.ID)
	assert.Equal(t, pkgerrors.CodeNotFound, codeOf(err))
}

func TestPlanItemValidation(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	furniture := f.category(t, "Furniture")
	chairs := f.inventory(t, "Chair", 5, 1000)

	cases := []struct {
		name string
		req  CreatePlanItemRequest
		code pkgerrors.Code
	}{
		{"zero quantity", CreatePlanItemRequest{CategoryID: furniture, Source: SourceRef{Type: enums.BudgetSourceInventory, ID: chairs}}, pkgerrors.CodeValidation},
		{"unknown category", CreatePlanItemRequest{CategoryID: uuid.New(), Source: SourceRef{Type: enums.BudgetSourceInventory, ID: chairs}, Quantity: 1}, pkgerrors.CodeValidation},
		{"unknown source", CreatePlanItemRequest{CategoryID: furniture, Source: SourceRef{Type: enums.BudgetSourceVendorService, ID: chairs}, Quantity: 1}, pkgerrors.CodeValidation},
		{"bad source type", CreatePlanItemRequest{CategoryID: furniture, Source: SourceRef{Type: "warehouse", ID: chairs}, Quantity: 1}, pkgerrors.CodeValidation},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := f.svc.CreatePlanItem(ctx, f.orgID, f.eventID, tc.req)
			assert.Equal(t, tc.code, codeOf(err))
		})
	}

	_, err := f.svc.CreatePlanItem(ctx, uuid.New(), f.eventID, CreatePlanItemRequest{CategoryID: furniture, Source: SourceRef{Type: enums.BudgetSourceInventory, ID: chairs}, Quantity: 1})
	assert.Equal(t, pkgerrors.CodeNotFound, codeOf(err))
	assert.Equal(t, 0, f.reserved(t, chairs))
}

func TestCategoryRules(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	venue := f.category(t, "Venue")
	catering := f.category(t, "Catering")
	tables := f.inventory(t, "Round table", 20, 50000)

	_, err := f.svc.CreateCategory(ctx, f.orgID, f.eventID, CreateCategoryRequest{Name: " venue "})
	assert.Equal(t, pkgerrors.CodeConflict, codeOf(err))

	dup := "VENUE"
	_, err = f.svc.UpdateCategory(ctx, f.orgID, f.eventID, catering, UpdateCategoryRequest{Name: &dup})
	assert.Equal(t, pkgerrors.CodeConflict, codeOf(err))

	_, err = f.svc.CreatePlanItem(ctx, f.orgID, f.eventID, CreatePlanItemRequest{
		CategoryID: venue,
		Source:     SourceRef{Type: enums.BudgetSourceInventory, ID: tables},
		Quantity:   12,
	})
	require.NoError(t, err)
	_, err = f.svc.CreateActualItem(ctx, f.orgID, f.eventID, CreateActualItemRequest{
		CategoryID: venue,
		Source:     SourceRef{Type: enums.BudgetSourceInventory, ID: tables},
		Quantity:   12,
	})
	require.NoError(t, err)
	assert.Equal(t, 12, f.reserved(t, tables))

	require.NoError(t, f.svc.DeleteCategory(ctx, f.orgID, f.eventID, venue))
	assert.Equal(t, 0, f.reserved(t, tables))

	budget, err := f.svc.Get(ctx, f.orgID, f.eventID)
	require.NoError(t, err)
	require.Len(t, budget.Categories, 1)
	assert.Equal(t, "Catering", budget.Categories[0].Name)
	assert.Equal(t, 1, budget.Categories[0].Position)

	renamed := "Venue"
	updated, err := f.svc.UpdateCategory(ctx, f.orgID, f.eventID, catering, UpdateCategoryRequest{Name: &renamed, Position: intPtr(0)})
	require.NoError(t, err)
	assert.Equal(t, "Venue", updated.Name)
}

func TestActualItemsNeverReserve(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	speakers := f.inventory(t, "Speaker", 4, 300000)
	sound := f.category(t, "Sound")

	_, err := f.svc.CreateActualItem(ctx, f.orgID, f.eventID, CreateActualItemRequest{
		CategoryID: sound,
		Source:     SourceRef{Type: enums.BudgetSourceInventory, ID: speakers},
		Quantity:   5,
	})
	assert.Equal(t, pkgerrors.CodeValidation, codeOf(err))

	actual, err := f.svc.CreateActualItem(ctx, f.orgID, f.eventID, CreateActualItemRequest{
		CategoryID: sound,
		Source:     SourceRef{Type: enums.BudgetSourceInventory, ID: speakers},
		Quantity:   4,
	})
	require.NoError(t, err)
	assert.Equal(t, enums.ActualItemStatusPending, actual.Status)
	assert.Equal(t, 0, f.reserved(t, speakers))

	_, err = f.svc.UpdateActualItem(ctx, f.orgID, f.eventID, actual.ID, UpdateActualItemRequest{Quantity: intPtr(9)})
	assert.Equal(t, pkgerrors.CodeValidation, codeOf(err))

	paid := enums.ActualItemStatusPaid
	price := decimal.NewFromInt(275000)
	updated, err := f.svc.UpdateActualItem(ctx, f.orgID, f.eventID, actual.ID, UpdateActualItemRequest{Status: &paid, UnitPrice: &price})
	require.NoError(t, err)
	assert.Equal(t, "1100000", updated.Subtotal.String())

	require.NoError(t, f.svc.DeleteActualItem(ctx, f.orgID, f.eventID, actual.ID))
	err = f.svc.DeleteActualItem(ctx, f.orgID, f.eventID, actual.ID)
	assert.Equal(t, pkgerrors.CodeNotFound, codeOf(err))
}

func TestBudgetStatusLifecycle(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	lights := f.inventory(t, "Par light", 30, 40000)
	lighting := f.category(t, "Lighting")

	executive := Actor{UserID: uuid.New(), OrganizationID: f.orgID, Role: enums.MemberRoleExecutive}
	manager := Actor{UserID: f.manager, OrganizationID: f.orgID, Role: enums.MemberRoleManager}

	_, err := f.svc.CreatePlanItem(ctx, f.orgID, f.eventID, CreatePlanItemRequest{
		CategoryID: lighting,
		Source:     SourceRef{Type: enums.BudgetSourceInventory, ID: lights},
		Quantity:   20,
	})
	require.NoError(t, err)

	_, err = f.svc.ChangeStatus(ctx, executive, f.eventID, ChangeStatusRequest{Status: enums.BudgetStatusApproved})
	assert.Equal(t, pkgerrors.CodeStateConflict, codeOf(err))

	submitted, err := f.svc.ChangeStatus(ctx, manager, f.eventID, ChangeStatusRequest{Status: enums.BudgetStatusSubmitted})
	require.NoError(t, err)
	assert.Equal(t, enums.BudgetStatusSubmitted, submitted.Status)
	assert.NotNil(t, submitted.SubmittedAt)

	_, err = f.svc.ChangeStatus(ctx, manager, f.eventID, ChangeStatusRequest{Status: enums.BudgetStatusApproved})
	assert.Equal(t, pkgerrors.CodeForbidden, codeOf(err))

	approved, err := f.svc.ChangeStatus(ctx, executive, f.eventID, ChangeStatusRequest{Status: enums.BudgetStatusApproved})
	require.NoError(t, err)
	require.NotNil(t, approved.ApprovedBy)
	assert.Equal(t, executive.UserID, *approved.ApprovedBy)

	_, err = f.svc.CreatePlanItem(ctx, f.orgID, f.eventID, CreatePlanItemRequest{
		CategoryID: lighting,
		Source:     SourceRef{Type: enums.BudgetSourceInventory, ID: lights},
		Quantity:   1,
	})
	assert.Equal(t, pkgerrors.CodeStateConflict, codeOf(err))

	_, err = f.svc.CreateActualItem(ctx, f.orgID, f.eventID, CreateActualItemRequest{
		CategoryID: lighting,
		Source:     SourceRef{Type: enums.BudgetSourceInventory, ID: lights},
		Quantity:   18,
	})
	require.NoError(t, err)
	assert.Equal(t, 20, f.reserved(t, lights))

	closed, err := f.svc.ChangeStatus(ctx, executive, f.eventID, ChangeStatusRequest{Status: enums.BudgetStatusClosed})
	require.NoError(t, err)
	assert.NotNil(t, closed.ClosedAt)
	assert.Equal(t, 0, f.reserved(t, lights))

	_, err = f.svc.CreateActualItem(ctx, f.orgID, f.eventID, CreateActualItemRequest{
		CategoryID: lighting,
		Source:     SourceRef{Type: enums.BudgetSourceInventory, ID: lights},
		Quantity:   1,
	})
	assert.Equal(t, pkgerrors.CodeStateConflict, codeOf(err))

	notes := "final"
	_, err = f.svc.UpdateNotes(ctx, f.orgID, f.eventID, UpdateBudgetRequest{Notes: &notes})
	assert.Equal(t, pkgerrors.CodeStateConflict, codeOf(err))

	// the manager submitted; only the executive's approve and close reach the inbox
	var inbox []models.Notification
	require.NoError(t, f.conn.Where("user_id = ?", f.manager).Order("created_at ASC").Find(&inbox).Error)
	require.Len(t, inbox, 2)
	assert.Equal(t, enums.NotificationTypeBudgetStatus, inbox[0].Type)
	assert.Equal(t, "Budget approved", inbox[0].Title)
	assert.Equal(t, "Budget closed", inbox[1].Title)
}

func TestReturnToDraft(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	actor := Actor{UserID: uuid.New(), OrganizationID: f.orgID, Role: enums.MemberRoleOwner}

	_, err := f.svc.ChangeStatus(ctx, actor, f.eventID, ChangeStatusRequest{Status: enums.BudgetStatusSubmitted})
	require.NoError(t, err)
	back, err := f.svc.ChangeStatus(ctx, actor, f.eventID, ChangeStatusRequest{Status: enums.BudgetStatusDraft})
	require.NoError(t, err)
	assert.Nil(t, back.SubmittedAt)

	_, err = f.svc.ChangeStatus(ctx, actor, f.eventID, ChangeStatusRequest{Status: "archived"})
	assert.Equal(t, pkgerrors.CodeValidation, codeOf(err))
}

func TestSettleForEventPurges(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	stage := f.inventory(t, "Stage riser", 6, 500000)
	category := f.category(t, "Stage")

	_, err := f.svc.CreatePlanItem(ctx, f.orgID, f.eventID, CreatePlanItemRequest{
		CategoryID: category,
		Source:     SourceRef{Type: enums.BudgetSourceInventory, ID: stage},
		Quantity:   6,
	})
	require.NoError(t, err)

	require.NoError(t, f.client.WithTx(ctx, func(tx *gorm.DB) error {
		return SettleForEvent(ctx, tx, f.orgID, f.eventID, true)
	}))
	assert.Equal(t, 0, f.reserved(t, stage))

	budget, err := f.svc.Get(ctx, f.orgID, f.eventID)
	require.NoError(t, err)
	assert.Equal(t, enums.BudgetStatusClosed, budget.Status)
	assert.Empty(t, budget.Categories)

	// settling twice is a no-op
	require.NoError(t, f.client.WithTx(ctx, func(tx *gorm.DB) error {
		return SettleForEvent(ctx, tx, f.orgID, f.eventID, false)
	}))

	require.NoError(t, f.conn.Delete(&models.Event{}, "id = ?", f.eventID).Error)
	_, err = f.svc.Get(ctx, f.orgID, f.eventID)
	assert.Equal(t, pkgerrors.CodeNotFound, codeOf(err))
}

func TestSummarize(t *testing.T) {
	venue, food := uuid.New(), uuid.New()
	b := &models.Budget{ID: uuid.New(), EventID: uuid.New(), Status: enums.BudgetStatusApproved}
	categories := []models.BudgetItemCategory{{ID: venue, Name: "Venue"}, {ID: food, Name: "Food"}}
	plan := []models.BudgetPlanItem{
		{CategoryID: venue, Quantity: 1, UnitPrice: decimal.NewFromInt(10_000_000), Status: enums.PlanItemStatusApproved},
		{CategoryID: food, Quantity: 200, UnitPrice: decimal.NewFromInt(150_000), Status: enums.PlanItemStatusPending},
		{CategoryID: food, Quantity: 50, UnitPrice: decimal.NewFromInt(90_000), Status: enums.PlanItemStatusRejected},
	}
	actual := []models.ActualBudgetItem{
		{CategoryID: venue, Quantity: 1, UnitPrice: decimal.NewFromInt(11_000_000), Status: enums.ActualItemStatusPaid},
		{CategoryID: food, Quantity: 180, UnitPrice: decimal.NewFromInt(150_000), Status: enums.ActualItemStatusPending},
		{CategoryID: food, Quantity: 10, UnitPrice: decimal.NewFromInt(150_000), Status: enums.ActualItemStatusCancelled},
	}

	s := summarize(b, categories, plan, actual)
	require.Len(t, s.Categories, 2)
	assert.Equal(t, "-1000000", s.Categories[0].Variance.String())
	assert.Equal(t, "30000000", s.Categories[1].PlannedPending.String())
	assert.Equal(t, "3000000", s.Categories[1].Variance.String())
	assert.Equal(t, "10000000", s.PlannedApproved.String())
	assert.Equal(t, "30000000", s.PlannedPending.String())
	assert.Equal(t, "40000000", s.PlannedTotal.String())
	assert.Equal(t, "38000000", s.ActualTotal.String())
	assert.Equal(t, "11000000", s.ActualPaid.String())
	assert.Equal(t, "2000000", s.Variance.String())
}

func TestDeleteCategoryKeepsLockedPlan(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	stages := f.inventory(t, "Stage riser", 40, 150000)
	staging := f.category(t, "Staging")
	empty := f.category(t, "Spare")

	_, err := f.svc.CreatePlanItem(ctx, f.orgID, f.eventID, CreatePlanItemRequest{
		CategoryID: staging,
		Source:     SourceRef{Type: enums.BudgetSourceInventory, ID: stages},
		Quantity:   20,
	})
	require.NoError(t, err)

	manager := Actor{UserID: f.manager, OrganizationID: f.orgID, Role: enums.MemberRoleManager}
	executive := Actor{UserID: uuid.New(), OrganizationID: f.orgID, Role: enums.MemberRoleExecutive}
	_, err = f.svc.ChangeStatus(ctx, manager, f.eventID, ChangeStatusRequest{Status: enums.BudgetStatusSubmitted})
	require.NoError(t, err)
	_, err = f.svc.ChangeStatus(ctx, executive, f.eventID, ChangeStatusRequest{Status: enums.BudgetStatusApproved})
	require.NoError(t, err)

	err = f.svc.DeleteCategory(ctx, f.orgID, f.eventID, staging)
	assert.Equal(t, pkgerrors.CodeStateConflict, codeOf(err))
	assert.Equal(t, 20, f.reserved(t, stages))

	budget, err := f.svc.Get(ctx, f.orgID, f.eventID)
	require.NoError(t, err)
	require.Len(t, budget.Categories, 2)
	assert.Len(t, budget.Categories[0].PlanItems, 1)

	require.NoError(t, f.svc.DeleteCategory(ctx, f.orgID, f.eventID, empty))
}

func TestUpdateActualItemSourceLookup(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	mics := f.inventory(t, "Wireless mic", 3, 120000)
	sound := f.category(t, "Sound")

	actual, err := f.svc.CreateActualItem(ctx, f.orgID, f.eventID, CreateActualItemRequest{
		CategoryID: sound,
		Source:     SourceRef{Type: enums.BudgetSourceInventory, ID: mics},
		Quantity:   3,
	})
	require.NoError(t, err)

	require.NoError(t, f.conn.Delete(&models.Inventory{}, "id = ?", mics).Error)
	updated, err := f.svc.UpdateActualItem(ctx, f.orgID, f.eventID, actual.ID, UpdateActualItemRequest{Quantity: intPtr(5)})
	require.NoError(t, err)
	assert.Equal(t, 5, updated.Quantity)

	require.NoError(t, f.conn.Exec("ALTER TABLE inventories RENAME TO inventories_archived").Error)
	_, err = f.svc.UpdateActualItem(ctx, f.orgID, f.eventID, actual.ID, UpdateActualItemRequest{Quantity: intPtr(6)})
	assert.Equal(t, pkgerrors.CodeDependency, codeOf(err))
}
