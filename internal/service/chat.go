package service

import (
	"context"
	"fmt"

	"github.com/xiaot623/gogo/chatrelay/internal/domain"
	"github.com/xiaot623/gogo/chatrelay/internal/relay"
)

// SendMessage runs one chat turn: load the session history, append the user
// message, start a completion and relay it to sink. The turn is persisted only
// once the completion has fully arrived.
//
// Two concurrent turns on the same session race: both load the same history
// and the later save wins, dropping the other exchange.
func (s *Service) SendMessage(ctx context.Context, sessionID, message string, sink relay.Sink) (*relay.Result, error) {
	if s.config.PersistOnDisconnect {
		ctx = context.WithoutCancel(ctx)
	}

	history, err := s.history.Load(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	history = history.Append(domain.UserMessage(message))

	stream, err := s.completer.Complete(ctx, history)
	if err != nil {
		return nil, fmt.Errorf("failed to start completion: %w", err)
	}

	return s.relay.Run(ctx, stream, sink, sessionID, history)
}
