package events

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/kelvin-saputra/sievo-sub000/internal/budgets"
	"github.com/kelvin-saputra/sievo-sub000/pkg/db/dbtest"
	"github.com/kelvin-saputra/sievo-sub000/pkg/db/models"
	"github.com/kelvin-saputra/sievo-sub000/pkg/enums"
	pkgerrors "github.com/kelvin-saputra/sievo-sub000/pkg/errors"
	"github.com/kelvin-saputra/sievo-sub000/pkg/pagination"
)

type fixture struct {
	conn    *gorm.DB
	svc     Service
	budgets budgets.Service
	repo    *Repository
	orgID   uuid.UUID
	actorID uuid.UUID
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	client, conn := dbtest.Client(t)
	repo := NewRepository(conn)
	svc, err := NewService(repo, client)
	require.NoError(t, err)
	budgetSvc, err := budgets.NewService(budgets.NewRepository(conn), client)
	require.NoError(t, err)
	return &fixture{conn: conn, svc: svc, budgets: budgetSvc, repo: repo, orgID: uuid.New(), actorID: uuid.New()}
}

func (f *fixture) member(t *testing.T, role enums.MemberRole) uuid.UUID {
	t.Helper()
	m := &models.Membership{OrganizationID: f.orgID, UserID: uuid.New(), Role: role, Status: enums.MembershipStatusActive}
	require.NoError(t, f.conn.Create(m).Error)
	return m.UserID
}

func (f *fixture) event(t *testing.T, name string, start time.Time) *EventDTO {
	t.Helper()
	e, err := f.svc.Create(context.Background(), f.orgID, f.actorID, CreateEventRequest{
		Name:      name,
		StartDate: start,
		EndDate:   start.Add(6 * time.Hour),
	})
	require.NoError(t, err)
	return e
}

func (f *fixture) reservedPlanItem(t *testing.T, eventID uuid.UUID, qty int) uuid.UUID {
	t.Helper()
	ctx := context.Background()
	item := &models.Inventory{OrganizationID: f.orgID, Name: "Backdrop", TotalQty: 10, UnitPrice: decimal.NewFromInt(1000), IsAvailable: true}
	require.NoError(t, f.conn.Create(item).Error)
	category, err := f.budgets.CreateCategory(ctx, f.orgID, eventID, budgets.CreateCategoryRequest{Name: "Decor"})
	require.NoError(t, err)
	_, err = f.budgets.CreatePlanItem(ctx, f.orgID, eventID, budgets.CreatePlanItemRequest{
		CategoryID: category.ID,
		Source:     budgets.SourceRef{Type: enums.BudgetSourceInventory, ID: item.ID},
		Quantity:   qty,
	})
	require.NoError(t, err)
	return item.ID
}

func (f *fixture) reserved(t *testing.T, inventoryID uuid.UUID) int {
	t.Helper()
	var item models.Inventory
	require.NoError(t, f.conn.First(&item, "id = ?", inventoryID).Error)
	return item.ReservedQty
}

func TestCreateEventOpensBudget(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	client := &models.Contact{OrganizationID: f.orgID, Name: "PT Sentosa", Type: enums.ContactTypeClient}
	require.NoError(t, f.conn.Create(client).Error)
	managerID := f.member(t, enums.MemberRoleManager)

	start := time.Date(2026, 11, 20, 9, 0, 0, 0, time.UTC)
	created, err := f.svc.Create(ctx, f.orgID, f.actorID, CreateEventRequest{
		Name:            "Annual gathering",
		ClientContactID: &client.ID,
		StartDate:       start,
		EndDate:         start.Add(8 * time.Hour),
		ManagerID:       &managerID,
	})
	require.NoError(t, err)
	assert.Equal(t, enums.EventStatusPlanning, created.Status)

	detail, err := f.svc.Get(ctx, f.orgID, Viewer{UserID: f.actorID, Role: enums.MemberRoleOwner}, created.ID)
	require.NoError(t, err)
	require.NotNil(t, detail.BudgetStatus)
	assert.Equal(t, enums.BudgetStatusDraft, *detail.BudgetStatus)
	assert.Equal(t, int64(0), detail.TaskCounts[enums.TaskStatusTodo])

	budget, err := f.budgets.Get(ctx, f.orgID, created.ID)
	require.NoError(t, err)
	assert.Equal(t, *detail.BudgetID, budget.ID)
}

func TestCreateEventValidation(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	start := time.Date(2026, 12, 1, 10, 0, 0, 0, time.UTC)
	foreign := &models.Contact{OrganizationID: uuid.New(), Name: "Elsewhere", Type: enums.ContactTypeClient}
	require.NoError(t, f.conn.Create(foreign).Error)
	freelancer := f.member(t, enums.MemberRoleFreelance)

	cases := []struct {
		name string
		req  CreateEventRequest
	}{
		{"end before start", CreateEventRequest{Name: "X", StartDate: start, EndDate: start.Add(-time.Hour)}},
		{"blank name", CreateEventRequest{Name: "  ", StartDate: start, EndDate: start}},
		{"foreign client", CreateEventRequest{Name: "X", StartDate: start, EndDate: start, ClientContactID: &foreign.ID}},
		{"freelance manager", CreateEventRequest{Name: "X", StartDate: start, EndDate: start, ManagerID: &freelancer}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := f.svc.Create(ctx, f.orgID, f.actorID, tc.req)
			assert.Equal(t, pkgerrors.CodeValidation, pkgerrors.As(err).Code())
		})
	}

	var count int64
	require.NoError(t, f.conn.Model(&models.Budget{}).Count(&count).Error)
	assert.Zero(t, count)
}

func TestStatusTransitions(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	e := f.event(t, "Product launch", time.Date(2026, 10, 30, 18, 0, 0, 0, time.UTC))
	inventoryID := f.reservedPlanItem(t, e.ID, 7)
	assert.Equal(t, 7, f.reserved(t, inventoryID))

	_, err := f.svc.ChangeStatus(ctx, f.orgID, e.ID, ChangeStatusRequest{Status: enums.EventStatusCompleted})
	assert.Equal(t, pkgerrors.CodeStateConflict, pkgerrors.As(err).Code())

	ongoing, err := f.svc.ChangeStatus(ctx, f.orgID, e.ID, ChangeStatusRequest{Status: enums.EventStatusOngoing})
	require.NoError(t, err)
	assert.Equal(t, enums.EventStatusOngoing, ongoing.Status)
	assert.Equal(t, 7, f.reserved(t, inventoryID))

	_, err = f.svc.ChangeStatus(ctx, f.orgID, e.ID, ChangeStatusRequest{Status: enums.EventStatusCancelled})
	require.NoError(t, err)
	assert.Equal(t, 0, f.reserved(t, inventoryID))

	budget, err := f.budgets.Get(ctx, f.orgID, e.ID)
	require.NoError(t, err)
	assert.Equal(t, enums.BudgetStatusClosed, budget.Status)

	_, err = f.svc.ChangeStatus(ctx, f.orgID, e.ID, ChangeStatusRequest{Status: enums.EventStatusPlanning})
	assert.Equal(t, pkgerrors.CodeStateConflict, pkgerrors.As(err).Code())

	name := "Renamed"
	_, err = f.svc.Update(ctx, f.orgID, e.ID, UpdateEventRequest{Name: &name})
	assert.Equal(t, pkgerrors.CodeStateConflict, pkgerrors.As(err).Code())
}

func TestDeleteEventReleasesReservations(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	e := f.event(t, "Wedding", time.Date(2027, 1, 9, 8, 0, 0, 0, time.UTC))
	inventoryID := f.reservedPlanItem(t, e.ID, 4)
	task := &models.Task{OrganizationID: f.orgID, EventID: e.ID, Title: "Book venue", Priority: enums.TaskPriorityHigh, Status: enums.TaskStatusTodo}
	require.NoError(t, f.conn.Create(task).Error)

	require.NoError(t, f.svc.Delete(ctx, f.orgID, e.ID))
	assert.Equal(t, 0, f.reserved(t, inventoryID))

	_, err := f.svc.Get(ctx, f.orgID, Viewer{Role: enums.MemberRoleOwner}, e.ID)
	assert.Equal(t, pkgerrors.CodeNotFound, pkgerrors.As(err).Code())

	var tasks int64
	require.NoError(t, f.conn.Model(&models.Task{}).Where("event_id = ?", e.ID).Count(&tasks).Error)
	assert.Zero(t, tasks)

	var planItems int64
	require.NoError(t, f.conn.Model(&models.BudgetPlanItem{}).Count(&planItems).Error)
	assert.Zero(t, planItems)

	err = f.svc.Delete(ctx, f.orgID, e.ID)
	assert.Equal(t, pkgerrors.CodeNotFound, pkgerrors.As(err).Code())
}

func TestFreelancersSeeAssignedEventsOnly(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	base := time.Date(2026, 11, 1, 9, 0, 0, 0, time.UTC)
	staffed := f.event(t, "Staffed", base)
	hidden := f.event(t, "Hidden", base.Add(48*time.Hour))
	freelancer := f.member(t, enums.MemberRoleFreelance)
	require.NoError(t, f.conn.Create(&models.EventAssignment{OrganizationID: f.orgID, EventID: staffed.ID, UserID: freelancer, Position: "Usher"}).Error)

	viewer := Viewer{UserID: freelancer, Role: enums.MemberRoleFreelance}
	page, err := f.svc.List(ctx, f.orgID, viewer, ListFilters{}, pagination.Params{})
	require.NoError(t, err)
	require.Len(t, page.Items, 1)
	assert.Equal(t, staffed.ID, page.Items[0].ID)

	detail, err := f.svc.Get(ctx, f.orgID, viewer, staffed.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), detail.StaffCount)

	_, err = f.svc.Get(ctx, f.orgID, viewer, hidden.ID)
	assert.Equal(t, pkgerrors.CodeNotFound, pkgerrors.As(err).Code())

	all, err := f.svc.List(ctx, f.orgID, Viewer{UserID: f.actorID, Role: enums.MemberRoleInternal}, ListFilters{}, pagination.Params{})
	require.NoError(t, err)
	assert.Len(t, all.Items, 2)
}

func TestListFilters(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	viewer := Viewer{UserID: f.actorID, Role: enums.MemberRoleOwner}
	base := time.Date(2026, 11, 1, 9, 0, 0, 0, time.UTC)
	for i, name := range []string{"Seminar Jakarta", "Seminar Bandung", "Concert"} {
		f.event(t, name, base.Add(time.Duration(i)*7*24*time.Hour))
	}

	page, err := f.svc.List(ctx, f.orgID, viewer, ListFilters{Query: "seminar"}, pagination.Params{Limit: 1})
	require.NoError(t, err)
	require.Len(t, page.Items, 1)
	require.NotEmpty(t, page.NextCursor)
	next, err := f.svc.List(ctx, f.orgID, viewer, ListFilters{Query: "seminar"}, pagination.Params{Limit: 1, Cursor: page.NextCursor})
	require.NoError(t, err)
	require.Len(t, next.Items, 1)
	assert.NotEqual(t, page.Items[0].ID, next.Items[0].ID)
	assert.Empty(t, next.NextCursor)

	from := base.Add(6 * 24 * time.Hour)
	to := base.Add(8 * 24 * time.Hour)
	window, err := f.svc.List(ctx, f.orgID, viewer, ListFilters{From: &from, To: &to}, pagination.Params{})
	require.NoError(t, err)
	require.Len(t, window.Items, 1)
	assert.Equal(t, "Seminar Bandung", window.Items[0].Name)

	bogus := enums.EventStatus("archived")
	_, err = f.svc.List(ctx, f.orgID, viewer, ListFilters{Status: &bogus}, pagination.Params{})
	assert.Equal(t, pkgerrors.CodeValidation, pkgerrors.As(err).Code())
}

func TestRollover(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	now := time.Date(2026, 11, 10, 12, 0, 0, 0, time.UTC)
	started := f.event(t, "Started", now.Add(-2*time.Hour))
	finished := f.event(t, "Finished", now.Add(-30*time.Hour))
	upcoming := f.event(t, "Upcoming", now.Add(24*time.Hour))

	moved, err := f.repo.StartDue(ctx, now)
	require.NoError(t, err)
	assert.Equal(t, int64(2), moved)
	done, err := f.repo.CompleteDue(ctx, now)
	require.NoError(t, err)
	assert.Equal(t, int64(1), done)

	status := func(id uuid.UUID) enums.EventStatus {
		e, err := f.repo.FindByID(ctx, f.orgID, id)
		require.NoError(t, err)
		return e.Status
	}
	assert.Equal(t, enums.EventStatusOngoing, status(started.ID))
	assert.Equal(t, enums.EventStatusCompleted, status(finished.ID))
	assert.Equal(t, enums.EventStatusPlanning, status(upcoming.ID))
}
