package helpers

import (
	"context"
	"sync"
	"testing"

	store "github.com/xiaot623/gogo/chatrelay/internal/repository"
)

// TestNamespace is the history namespace used by test stores.
const TestNamespace = "chat_history_test"

func NewTestSQLiteStore(t *testing.T) *store.SQLiteStore {
	t.Helper()

	s, err := store.NewSQLiteStore(":memory:", TestNamespace)
	if err != nil {
		t.Fatalf("failed to create sqlite store: %v", err)
	}

	t.Cleanup(func() {
		_ = s.Close()
	})

	return s
}

// CountingStore wraps a store and counts calls per operation.
type CountingStore struct {
	store.Store

	mu      sync.Mutex
	Gets    int
	Sets    int
	Deletes int
	SetErr  error
}

// NewCountingStore wraps an in-memory SQLite store.
func NewCountingStore(t *testing.T) *CountingStore {
	t.Helper()
	return &CountingStore{Store: NewTestSQLiteStore(t)}
}

func (s *CountingStore) Get(ctx context.Context, key string, dest any) (bool, error) {
	s.mu.Lock()
	s.Gets++
	s.mu.Unlock()
	return s.Store.Get(ctx, key, dest)
}

func (s *CountingStore) Set(ctx context.Context, key string, value any) error {
	s.mu.Lock()
	s.Sets++
	err := s.SetErr
	s.mu.Unlock()
	if err != nil {
		return err
	}
	return s.Store.Set(ctx, key, value)
}

func (s *CountingStore) Delete(ctx context.Context, key string) error {
	s.mu.Lock()
	s.Deletes++
	s.mu.Unlock()
	return s.Store.Delete(ctx, key)
}

// Accesses returns the total number of store operations seen.
func (s *CountingStore) Accesses() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.Gets + s.Sets + s.Deletes
}
