// Package service implements the chat flows independently of the HTTP layer.
// Sessions and histories are passed in as values; all state lives in the store.
package service

import (
	"context"

	"github.com/xiaot623/gogo/chatrelay/internal/adapter/llm"
	"github.com/xiaot623/gogo/chatrelay/internal/config"
	"github.com/xiaot623/gogo/chatrelay/internal/domain"
	store "github.com/xiaot623/gogo/chatrelay/internal/repository"
	"github.com/xiaot623/gogo/chatrelay/internal/relay"
)

// HistoryStore is the history store adapter used by the service.
type HistoryStore interface {
	Load(ctx context.Context, sessionID string) (domain.History, error)
	Save(ctx context.Context, sessionID string, h domain.History) error
	Delete(ctx context.Context, sessionID string) error
}

type Service struct {
	store     store.Store
	history   HistoryStore
	completer llm.Completer
	relay     *relay.Relay
	config    *config.Config
}

func New(store store.Store, history HistoryStore, completer llm.Completer, cfg *config.Config) *Service {
	return &Service{
		store:     store,
		history:   history,
		completer: completer,
		relay:     relay.New(history, cfg.PersistOnDisconnect),
		config:    cfg,
	}
}
