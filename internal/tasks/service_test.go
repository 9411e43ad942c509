package tasks

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/kelvin-saputra/sievo-sub000/pkg/db/dbtest"
	"github.com/kelvin-saputra/sievo-sub000/pkg/db/models"
	"github.com/kelvin-saputra/sievo-sub000/pkg/enums"
	pkgerrors "github.com/kelvin-saputra/sievo-sub000/pkg/errors"
	"github.com/kelvin-saputra/sievo-sub000/pkg/pagination"
)

type fixture struct {
	conn    *gorm.DB
	svc     Service
	orgID   uuid.UUID
	eventID uuid.UUID
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	client, conn := dbtest.Client(t)
	svc, err := NewService(NewRepository(conn), client)
	require.NoError(t, err)
	f := &fixture{conn: conn, svc: svc, orgID: uuid.New()}
	event := &models.Event{
		OrganizationID: f.orgID,
		Name:           "Company outing",
		StartDate:      time.Now().UTC().Add(240 * time.Hour),
		EndDate:        time.Now().UTC().Add(250 * time.Hour),
		Status:         enums.EventStatusPlanning,
	}
	require.NoError(t, conn.Create(event).Error)
	f.eventID = event.ID
	return f
}

func (f *fixture) actor(t *testing.T, role enums.MemberRole) Actor {
	t.Helper()
	m := &models.Membership{OrganizationID: f.orgID, UserID: uuid.New(), Role: role, Status: enums.MembershipStatusActive}
	require.NoError(t, f.conn.Create(m).Error)
	return Actor{UserID: m.UserID, OrganizationID: f.orgID, Role: role}
}

func (f *fixture) inbox(t *testing.T, userID uuid.UUID) []models.Notification {
	t.Helper()
	var rows []models.Notification
	require.NoError(t, f.conn.Where("user_id = ?", userID).Find(&rows).Error)
	return rows
}

func TestCreateTaskNotifiesAssignee(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	manager := f.actor(t, enums.MemberRoleManager)
	crew := f.actor(t, enums.MemberRoleFreelance)

	task, err := f.svc.Create(ctx, manager, f.eventID, CreateTaskRequest{Title: "Set up stage", AssigneeID: &crew.UserID})
	require.NoError(t, err)
	assert.Equal(t, enums.TaskPriorityMedium, task.Priority)
	assert.Equal(t, enums.TaskStatusTodo, task.Status)

	inbox := f.inbox(t, crew.UserID)
	require.Len(t, inbox, 1)
	assert.Equal(t, enums.NotificationTypeTaskAssigned, inbox[0].Type)

	_, err = f.svc.Create(ctx, manager, f.eventID, CreateTaskRequest{Title: "Self", AssigneeID: &manager.UserID})
	require.NoError(t, err)
	assert.Empty(t, f.inbox(t, manager.UserID))

	stranger := uuid.New()
	_, err = f.svc.Create(ctx, manager, f.eventID, CreateTaskRequest{Title: "Nope", AssigneeID: &stranger})
	assert.Equal(t, pkgerrors.CodeValidation, pkgerrors.As(err).Code())

	_, err = f.svc.Create(ctx, manager, uuid.New(), CreateTaskRequest{Title: "Nope"})
	assert.Equal(t, pkgerrors.CodeNotFound, pkgerrors.As(err).Code())

	bad := enums.TaskPriority("urgent")
	_, err = f.svc.Create(ctx, manager, f.eventID, CreateTaskRequest{Title: "Nope", Priority: &bad})
	assert.Equal(t, pkgerrors.CodeValidation, pkgerrors.As(err).Code())
}

func TestFreelancerUpdatesOnlyStatusOfOwnTasks(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	manager := f.actor(t, enums.MemberRoleManager)
	crew := f.actor(t, enums.MemberRoleFreelance)
	other := f.actor(t, enums.MemberRoleFreelance)

	own, err := f.svc.Create(ctx, manager, f.eventID, CreateTaskRequest{Title: "Check sound", AssigneeID: &crew.UserID})
	require.NoError(t, err)
	foreign, err := f.svc.Create(ctx, manager, f.eventID, CreateTaskRequest{Title: "Check lights", AssigneeID: &other.UserID})
	require.NoError(t, err)

	inProgress := enums.TaskStatusInProgress
	updated, err := f.svc.Update(ctx, crew, own.ID, UpdateTaskRequest{Status: &inProgress})
	require.NoError(t, err)
	assert.Equal(t, enums.TaskStatusInProgress, updated.Status)

	title := "Renamed"
	_, err = f.svc.Update(ctx, crew, own.ID, UpdateTaskRequest{Title: &title, Status: &inProgress})
	assert.Equal(t, pkgerrors.CodeForbidden, pkgerrors.As(err).Code())

	_, err = f.svc.Update(ctx, crew, foreign.ID, UpdateTaskRequest{Status: &inProgress})
	assert.Equal(t, pkgerrors.CodeNotFound, pkgerrors.As(err).Code())

	_, err = f.svc.Get(ctx, crew, foreign.ID)
	assert.Equal(t, pkgerrors.CodeNotFound, pkgerrors.As(err).Code())

	page, err := f.svc.List(ctx, crew, ListFilters{}, pagination.Params{})
	require.NoError(t, err)
	require.Len(t, page.Items, 1)
	assert.Equal(t, own.ID, page.Items[0].ID)
}

func TestReassignAndFilters(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	manager := f.actor(t, enums.MemberRoleManager)
	first := f.actor(t, enums.MemberRoleInternal)
	second := f.actor(t, enums.MemberRoleInternal)

	task, err := f.svc.Create(ctx, manager, f.eventID, CreateTaskRequest{Title: "Print rundown", AssigneeID: &first.UserID})
	require.NoError(t, err)
	_, err = f.svc.Create(ctx, manager, f.eventID, CreateTaskRequest{Title: "Confirm catering"})
	require.NoError(t, err)

	done := enums.TaskStatusDone
	_, err = f.svc.Update(ctx, manager, task.ID, UpdateTaskRequest{AssigneeID: &second.UserID, Status: &done})
	require.NoError(t, err)
	assert.Len(t, f.inbox(t, second.UserID), 1)

	byStatus, err := f.svc.List(ctx, manager, ListFilters{EventID: &f.eventID, Status: &done}, pagination.Params{})
	require.NoError(t, err)
	require.Len(t, byStatus.Items, 1)

	byAssignee, err := f.svc.List(ctx, manager, ListFilters{AssigneeID: &first.UserID}, pagination.Params{})
	require.NoError(t, err)
	assert.Empty(t, byAssignee.Items)

	unassigned, err := f.svc.Update(ctx, manager, task.ID, UpdateTaskRequest{Unassign: true})
	require.NoError(t, err)
	assert.Nil(t, unassigned.AssigneeID)

	require.NoError(t, f.svc.Delete(ctx, f.orgID, task.ID))
	err = f.svc.Delete(ctx, f.orgID, task.ID)
	assert.Equal(t, pkgerrors.CodeNotFound, pkgerrors.As(err).Code())

	require.NoError(t, f.conn.Delete(&models.Event{}, "id = ?", f.eventID).Error)
	all, err := f.svc.List(ctx, manager, ListFilters{}, pagination.Params{})
	require.NoError(t, err)
	assert.Empty(t, all.Items)
}
