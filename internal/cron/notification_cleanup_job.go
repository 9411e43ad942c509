package cron

import (
	"context"
	"fmt"
	"time"

	"github.com/kelvin-saputra/sievo-sub000/pkg/logger"
)

const defaultNotificationRetention = 30 * 24 * time.Hour

type readNotificationPurger interface {
	DeleteReadBefore(ctx context.Context, cutoff time.Time) (int64, error)
}

// NewNotificationCleanupJob deletes read notifications older than retention.
func NewNotificationCleanupJob(logg *logger.Logger, repo readNotificationPurger, retention time.Duration) (Job, error) {
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}
	if repo == nil {
		return nil, fmt.Errorf("notifications repository required")
	}
	if retention <= 0 {
		retention = defaultNotificationRetention
	}
	return &notificationCleanupJob{logg: logg, repo: repo, retention: retention, now: time.Now}, nil
}

type notificationCleanupJob struct {
	logg      *logger.Logger
	repo      readNotificationPurger
	retention time.Duration
	now       func() time.Time
}

func (j *notificationCleanupJob) Name() string { return "notification-cleanup" }

func (j *notificationCleanupJob) Run(ctx context.Context) error {
	cutoff := j.now().UTC().Add(-j.retention)
	deleted, err := j.repo.DeleteReadBefore(ctx, cutoff)
	if err != nil {
		return fmt.Errorf("purge read notifications: %w", err)
	}
	j.logg.Info(j.logg.WithFields(ctx, map[string]any{
		"cutoff":       cutoff,
		"rows_deleted": deleted,
	}), "notification cleanup complete")
	return nil
}
