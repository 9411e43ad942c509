package cron

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kelvin-saputra/sievo-sub000/pkg/logger"
)

type fakeLock struct {
	held     bool
	deny     bool
	releases int
}

func (f *fakeLock) TryLock(context.Context) (func(context.Context) error, bool, error) {
	if f.deny || f.held {
		return nil, false, nil
	}
	f.held = true
	return func(context.Context) error {
		f.held = false
		f.releases++
		return nil
	}, true, nil
}

type countingJob struct {
	name string
	err  error
	runs int
}

func (j *countingJob) Name() string { return j.name }

func (j *countingJob) Run(context.Context) error {
	j.runs++
	return j.err
}

func newTestService(t *testing.T, lock Lock, jobs ...Job) *Service {
	t.Helper()
	registry := NewRegistry()
	for _, job := range jobs {
		require.NoError(t, registry.Register(job))
	}
	svc, err := NewService(ServiceParams{
		Logger:   logger.New(logger.Options{ServiceName: "cron-test"}),
		Registry: registry,
		Lock:     lock,
	})
	require.NoError(t, err)
	return svc
}

func TestCycleRunsEveryJobAndCombinesFailures(t *testing.T) {
	ok := &countingJob{name: "ok"}
	first := &countingJob{name: "first", err: errors.New("boom")}
	second := &countingJob{name: "second", err: errors.New("bang")}
	lock := &fakeLock{}
	svc := newTestService(t, lock, first, ok, second)

	err := svc.RunOnce(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "first: boom")
	assert.Contains(t, err.Error(), "second: bang")
	assert.Equal(t, 1, ok.runs)
	assert.Equal(t, 1, first.runs)
	assert.Equal(t, 1, second.runs)
	assert.Equal(t, 1, lock.releases)
	assert.False(t, lock.held)
}

func TestCycleSkipsWhenLockHeldElsewhere(t *testing.T) {
	job := &countingJob{name: "job"}
	svc := newTestService(t, &fakeLock{deny: true}, job)

	require.NoError(t, svc.RunOnce(context.Background()))
	assert.Zero(t, job.runs)
}

func TestRunOnceSelectsJobsByName(t *testing.T) {
	a := &countingJob{name: "a"}
	b := &countingJob{name: "b"}
	svc := newTestService(t, &fakeLock{}, a, b)

	require.NoError(t, svc.RunOnce(context.Background(), "b"))
	assert.Zero(t, a.runs)
	assert.Equal(t, 1, b.runs)

	assert.Error(t, svc.RunOnce(context.Background(), "missing"))
}

func TestRunStopsOnCancel(t *testing.T) {
	job := &countingJob{name: "job"}
	svc := newTestService(t, &fakeLock{}, job)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := svc.Run(ctx)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 1, job.runs)
}
