package helpers

import (
	"bytes"
	"context"
	"sync"

	"github.com/xiaot623/gogo/chatrelay/internal/adapter/llm"
	"github.com/xiaot623/gogo/chatrelay/internal/domain"
)

// ScriptedCompleter replies with fixed fragments and records every history it receives.
type ScriptedCompleter struct {
	mu sync.Mutex

	// Fragments is the reply streamed on every call.
	Fragments []string
	// StreamErr ends the stream with an error after Fragments.
	StreamErr error
	// StartErr fails Complete before any stream exists.
	StartErr error

	Calls []domain.History
}

func (c *ScriptedCompleter) Complete(ctx context.Context, history domain.History) (llm.Stream, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.Calls = append(c.Calls, append(domain.History(nil), history...))
	if c.StartErr != nil {
		return nil, c.StartErr
	}
	return llm.NewSliceStream(c.Fragments, c.StreamErr), nil
}

// BufferSink collects relayed output in memory.
type BufferSink struct {
	bytes.Buffer
	Begun   bool
	Flushes int
}

func (s *BufferSink) Begin() { s.Begun = true }
func (s *BufferSink) Flush() { s.Flushes++ }
