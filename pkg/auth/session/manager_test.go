package session

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	redislib "github.com/redis/go-redis/v9"
)

type mockStore struct {
	mu   sync.Mutex
	data map[string]string
}

func newMockStore() *mockStore {
	return &mockStore{data: make(map[string]string)}
}

func (m *mockStore) Set(ctx context.Context, key string, value any, ttl time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[key] = fmt.Sprint(value)
	return nil
}

func (m *mockStore) Get(ctx context.Context, key string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	val, ok := m.data[key]
	if !ok {
		return "", redislib.Nil
	}
	return val, nil
}

func (m *mockStore) Del(ctx context.Context, keys ...string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, key := range keys {
		delete(m.data, key)
	}
	return nil
}

func (m *mockStore) AccessSessionKey(accessID string) string {
	return fmt.Sprintf("sess:%s", accessID)
}

func newTestManager() (*Manager, *mockStore) {
	store := newMockStore()
	return &Manager{store: store, keyer: store, ttl: time.Hour}, store
}

func TestManagerGenerateAndRotate(t *testing.T) {
	manager, store := newTestManager()
	ctx := context.Background()
	userID := uuid.New()
	accessID := "access-123"

	token, err := manager.Generate(ctx, accessID, userID)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if ok, _ := manager.HasSession(ctx, accessID); !ok {
		t.Fatalf("expected session to exist")
	}

	if _, err := manager.Rotate(ctx, accessID, "wrong"); !errors.Is(err, ErrInvalidRefreshToken) {
		t.Fatalf("expected invalid refresh token error, got %v", err)
	}

	rotation, err := manager.Rotate(ctx, accessID, token)
	if err != nil {
		t.Fatalf("rotate: %v", err)
	}
	if rotation.UserID != userID {
		t.Fatalf("rotation lost user id")
	}
	if _, exists := store.data[store.AccessSessionKey(accessID)]; exists {
		t.Fatalf("old access key left behind")
	}
	if ok, _ := manager.HasSession(ctx, rotation.AccessID); !ok {
		t.Fatalf("expected rotated session to exist")
	}

	if _, err := manager.Rotate(ctx, accessID, token); !errors.Is(err, ErrInvalidRefreshToken) {
		t.Fatalf("replaying a rotated token should fail, got %v", err)
	}
}

func TestManagerReissueRequiresSameUser(t *testing.T) {
	manager, _ := newTestManager()
	ctx := context.Background()
	userID := uuid.New()

	if _, err := manager.Generate(ctx, "access-1", userID); err != nil {
		t.Fatalf("generate: %v", err)
	}
	if _, err := manager.Reissue(ctx, "access-1", uuid.New()); !errors.Is(err, ErrInvalidRefreshToken) {
		t.Fatalf("expected mismatch error, got %v", err)
	}
	rotation, err := manager.Reissue(ctx, "access-1", userID)
	if err != nil {
		t.Fatalf("reissue: %v", err)
	}
	if rotation.AccessID == "access-1" || rotation.RefreshToken == "" {
		t.Fatalf("expected fresh session, got %+v", rotation)
	}
}

func TestManagerRevoke(t *testing.T) {
	manager, _ := newTestManager()
	ctx := context.Background()

	if _, err := manager.Generate(ctx, "access-2", uuid.New()); err != nil {
		t.Fatalf("generate: %v", err)
	}
	if err := manager.Revoke(ctx, "access-2"); err != nil {
		t.Fatalf("revoke: %v", err)
	}
	ok, err := manager.HasSession(ctx, "access-2")
	if err != nil || ok {
		t.Fatalf("expected revoked session, ok=%v err=%v", ok, err)
	}
	if err := manager.Revoke(ctx, " "); err == nil {
		t.Fatalf("expected error for blank access id")
	}
}

func TestManagerGenerateValidation(t *testing.T) {
	manager, _ := newTestManager()
	if _, err := manager.Generate(context.Background(), "", uuid.New()); err == nil {
		t.Fatalf("expected error for missing access id")
	}
	if _, err := manager.Generate(context.Background(), "access", uuid.Nil); err == nil {
		t.Fatalf("expected error for missing user id")
	}
}
