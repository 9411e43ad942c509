package cron

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// Lock guards a scheduled cycle so only one worker runs it at a time.
// TryLock returns a release func when the lease was won.
type Lock interface {
	TryLock(ctx context.Context) (release func(context.Context) error, ok bool, err error)
}

type leaseStore interface {
	SetNX(ctx context.Context, key string, value any, ttl time.Duration) (bool, error)
	Get(ctx context.Context, key string) (string, error)
	Del(ctx context.Context, keys ...string) error
}

// RedisLock leases a single key. The lease expires on its own if the
// holder dies, and release only deletes a key still carrying our token.
type RedisLock struct {
	store leaseStore
	key   string
	lease time.Duration
}

func NewRedisLock(store leaseStore, key string, lease time.Duration) (*RedisLock, error) {
	if store == nil {
		return nil, errors.New("lease store required")
	}
	if key == "" {
		return nil, errors.New("lock key required")
	}
	if lease <= 0 {
		return nil, errors.New("lease duration must be positive")
	}
	return &RedisLock{store: store, key: key, lease: lease}, nil
}

func (l *RedisLock) TryLock(ctx context.Context) (func(context.Context) error, bool, error) {
	token := uuid.NewString()
	won, err := l.store.SetNX(ctx, l.key, token, l.lease)
	if err != nil {
		return nil, false, fmt.Errorf("lease %s: %w", l.key, err)
	}
	if !won {
		return nil, false, nil
	}
	release := func(ctx context.Context) error {
		holder, err := l.store.Get(ctx, l.key)
		switch {
		case errors.Is(err, redis.Nil):
			return nil
		case err != nil:
			return fmt.Errorf("read lease holder: %w", err)
		case holder != token:
			// lease expired and another worker took it
			return nil
		}
		return l.store.Del(ctx, l.key)
	}
	return release, true, nil
}
