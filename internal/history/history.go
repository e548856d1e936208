// Package history reads and writes per-session conversation history.
package history

import (
	"context"
	"fmt"

	"github.com/xiaot623/gogo/chatrelay/internal/domain"
	store "github.com/xiaot623/gogo/chatrelay/internal/repository"
)

// Repository is the history store adapter. The session id is used directly as
// the storage key; it is the only reader and writer of those keys.
type Repository struct {
	store store.Store
}

// NewRepository creates a history repository backed by the given blob store.
func NewRepository(s store.Store) *Repository {
	return &Repository{store: s}
}

// Load returns the history for sessionID. A session without a record has an
// empty history.
func (r *Repository) Load(ctx context.Context, sessionID string) (domain.History, error) {
	var h domain.History
	found, err := r.store.Get(ctx, sessionID, &h)
	if err != nil {
		return nil, fmt.Errorf("failed to load history for session %s: %w", sessionID, err)
	}
	if !found || h == nil {
		return domain.History{}, nil
	}
	return h, nil
}

// Save overwrites the full history record for sessionID.
func (r *Repository) Save(ctx context.Context, sessionID string, h domain.History) error {
	if h == nil {
		h = domain.History{}
	}
	if err := r.store.Set(ctx, sessionID, h); err != nil {
		return fmt.Errorf("failed to save history for session %s: %w", sessionID, err)
	}
	return nil
}

// Delete removes the history record for sessionID, if any.
func (r *Repository) Delete(ctx context.Context, sessionID string) error {
	if err := r.store.Delete(ctx, sessionID); err != nil {
		return fmt.Errorf("failed to delete history for session %s: %w", sessionID, err)
	}
	return nil
}
