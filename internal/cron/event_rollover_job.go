package cron

import (
	"context"
	"fmt"
	"time"

	"github.com/kelvin-saputra/sievo-sub000/pkg/logger"
)

type eventRollover interface {
	StartDue(ctx context.Context, now time.Time) (int64, error)
	CompleteDue(ctx context.Context, now time.Time) (int64, error)
}

// NewEventRolloverJob moves planning events whose start has passed to
// ongoing and ongoing events whose end has passed to completed.
func NewEventRolloverJob(logg *logger.Logger, events eventRollover) (Job, error) {
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}
	if events == nil {
		return nil, fmt.Errorf("events repository required")
	}
	return &eventRolloverJob{logg: logg, events: events, now: time.Now}, nil
}

type eventRolloverJob struct {
	logg   *logger.Logger
	events eventRollover
	now    func() time.Time
}

func (j *eventRolloverJob) Name() string { return "event-status-rollover" }

func (j *eventRolloverJob) Run(ctx context.Context) error {
	now := j.now().UTC()
	// complete before start: an event never goes planning->completed in one run
	completed, err := j.events.CompleteDue(ctx, now)
	if err != nil {
		return fmt.Errorf("complete due events: %w", err)
	}
	started, err := j.events.StartDue(ctx, now)
	if err != nil {
		return fmt.Errorf("start due events: %w", err)
	}
	j.logg.Info(j.logg.WithFields(ctx, map[string]any{
		"started":   started,
		"completed": completed,
	}), "event rollover complete")
	return nil
}
