package cron

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kelvin-saputra/sievo-sub000/internal/notifications"
	"github.com/kelvin-saputra/sievo-sub000/pkg/db/dbtest"
	"github.com/kelvin-saputra/sievo-sub000/pkg/db/models"
	"github.com/kelvin-saputra/sievo-sub000/pkg/enums"
	"github.com/kelvin-saputra/sievo-sub000/pkg/logger"
)

func TestNotificationCleanupDeletesOnlyOldReadRows(t *testing.T) {
	conn := dbtest.Open(t)
	now := time.Date(2030, 1, 31, 12, 0, 0, 0, time.UTC)
	old := now.Add(-45 * 24 * time.Hour)
	recent := now.Add(-2 * 24 * time.Hour)
	orgID, userID := uuid.New(), uuid.New()

	seed := func(created time.Time, read bool) uuid.UUID {
		n := &models.Notification{
			OrganizationID: orgID,
			UserID:         userID,
			Type:           enums.NotificationTypeTaskAssigned,
			Title:          "t",
			Message:        "m",
			CreatedAt:      created,
		}
		if read {
			n.ReadAt = &created
		}
		require.NoError(t, conn.Create(n).Error)
		return n.ID
	}
	oldRead := seed(old, true)
	oldUnread := seed(old, false)
	recentRead := seed(recent, true)

	jobIface, err := NewNotificationCleanupJob(logger.New(logger.Options{ServiceName: "test"}), notifications.NewRepository(conn), 30*24*time.Hour)
	require.NoError(t, err)
	job := jobIface.(*notificationCleanupJob)
	job.now = func() time.Time { return now }

	require.NoError(t, job.Run(context.Background()))

	var remaining []uuid.UUID
	require.NoError(t, conn.Model(&models.Notification{}).Pluck("id", &remaining).Error)
	assert.ElementsMatch(t, []uuid.UUID{oldUnread, recentRead}, remaining)
	assert.NotContains(t, remaining, oldRead)
}
