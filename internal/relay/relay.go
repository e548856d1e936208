// Package relay forwards completion fragments to the client while
// accumulating the assistant reply for persistence.
package relay

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/xiaot623/gogo/chatrelay/internal/adapter/llm"
	"github.com/xiaot623/gogo/chatrelay/internal/domain"
)

// Saver persists the full history of a session.
type Saver interface {
	Save(ctx context.Context, sessionID string, h domain.History) error
}

// Sink is the client side of the relay, normally the HTTP response.
type Sink interface {
	// Begin commits the streaming response. It is called once, before the first write.
	Begin()
	Write(p []byte) (int, error)
	Flush()
}

// Result describes a completed relay.
type Result struct {
	Reply      domain.Message
	History    domain.History
	Fragments  int
	ClientGone bool
}

// Relay bridges one completion stream to one sink.
type Relay struct {
	history Saver
	drain   bool
}

// New creates a relay that persists through history. When drainOnClientGone
// is set, a failed client write does not stop the relay: the rest of the
// stream is read and the turn is still saved.
func New(history Saver, drainOnClientGone bool) *Relay {
	return &Relay{history: history, drain: drainOnClientGone}
}

// Run writes every non-empty fragment of stream to sink, flushing after each
// one, then appends the concatenated reply to history and saves it. Nothing
// is saved unless the stream ends without error. The stream is always closed.
func (r *Relay) Run(ctx context.Context, stream llm.Stream, sink Sink, sessionID string, history domain.History) (*Result, error) {
	defer stream.Close()

	sink.Begin()
	sink.Flush()

	var (
		reply     strings.Builder
		fragments int
		clientErr error
	)
	for stream.Next() {
		fragment := stream.Current()
		if fragment == "" {
			continue
		}
		reply.WriteString(fragment)
		fragments++

		if clientErr != nil {
			continue
		}
		if _, err := io.WriteString(sink, fragment); err != nil {
			if !r.drain {
				return nil, fmt.Errorf("failed to write to client: %w", err)
			}
			clientErr = err
			slog.Warn("client went away mid-stream, draining completion",
				slog.String("session_id", sessionID),
				slog.Any("error", err),
			)
			continue
		}
		sink.Flush()
	}

	if err := stream.Err(); err != nil {
		return nil, fmt.Errorf("completion stream failed after %d fragments: %w", fragments, err)
	}

	msg := domain.AssistantMessage(reply.String())
	full := history.Append(msg)
	if err := r.history.Save(ctx, sessionID, full); err != nil {
		return nil, err
	}

	slog.Debug("relayed completion",
		slog.String("session_id", sessionID),
		slog.Int("fragments", fragments),
		slog.Int("bytes", reply.Len()),
		slog.Int("history_len", len(full)),
	)

	return &Result{
		Reply:      msg,
		History:    full,
		Fragments:  fragments,
		ClientGone: clientErr != nil,
	}, nil
}
