// Package llm provides the completion gateway: clients that send a
// conversation to an LLM provider and stream back the reply as text fragments.
package llm

import (
	"context"

	"github.com/xiaot623/gogo/chatrelay/internal/domain"
)

// Completer sends a conversation to the provider and returns the reply as a stream.
type Completer interface {
	// Complete issues a streaming completion request for history. Failures to
	// start the request (network, auth, upstream status) are returned here
	// rather than as an empty stream.
	Complete(ctx context.Context, history domain.History) (Stream, error)
}

// Stream is a finite, non-restartable sequence of text fragments.
// Fragments may be empty. Callers must Close the stream when done.
//
//	for s.Next() {
//		frag := s.Current()
//	}
//	if err := s.Err(); err != nil { ... }
type Stream interface {
	Next() bool
	Current() string
	Err() error
	Close() error
}

// Ensure clients implement Completer interface.
var (
	_ Completer = (*Client)(nil)
	_ Completer = (*OpenAIClient)(nil)
	_ Completer = (*MockClient)(nil)
)
