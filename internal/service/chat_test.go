package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xiaot623/gogo/chatrelay/internal/config"
	"github.com/xiaot623/gogo/chatrelay/internal/domain"
	"github.com/xiaot623/gogo/chatrelay/internal/history"
	"github.com/xiaot623/gogo/chatrelay/tests/helpers"
)

func newTestService(t *testing.T, completer *helpers.ScriptedCompleter) (*Service, *helpers.CountingStore) {
	t.Helper()
	db := helpers.NewCountingStore(t)
	cfg := &config.Config{
		SessionTTL:          24 * time.Hour,
		PersistOnDisconnect: true,
	}
	return New(db, history.NewRepository(db), completer, cfg), db
}

func TestSendMessageAccumulatesTurns(t *testing.T) {
	ctx := context.Background()
	completer := &helpers.ScriptedCompleter{}
	svc, _ := newTestService(t, completer)

	for k := 1; k <= 3; k++ {
		completer.Fragments = []string{"re", "", fmt.Sprintf("ply %d", k)}
		sink := &helpers.BufferSink{}

		_, err := svc.SendMessage(ctx, "s1", fmt.Sprintf("msg %d", k), sink)
		require.NoError(t, err)
		assert.Equal(t, fmt.Sprintf("reply %d", k), sink.String())
		assert.True(t, sink.Begun)

		h, err := svc.history.Load(ctx, "s1")
		require.NoError(t, err)
		require.Len(t, h, 2*k)
		for i := 0; i < k; i++ {
			assert.Equal(t, domain.UserMessage(fmt.Sprintf("msg %d", i+1)), h[2*i])
			assert.Equal(t, domain.AssistantMessage(fmt.Sprintf("reply %d", i+1)), h[2*i+1])
		}
	}

	// The completer saw the prior turns plus the new user message.
	require.Len(t, completer.Calls, 3)
	assert.Len(t, completer.Calls[2], 5)
	last, _ := completer.Calls[2].Last()
	assert.Equal(t, domain.UserMessage("msg 3"), last)
}

func TestSendMessageStartFailureLeavesHistory(t *testing.T) {
	ctx := context.Background()
	completer := &helpers.ScriptedCompleter{Fragments: []string{"first"}}
	svc, db := newTestService(t, completer)

	_, err := svc.SendMessage(ctx, "s1", "hello", &helpers.BufferSink{})
	require.NoError(t, err)
	setsBefore := db.Sets

	completer.StartErr = errors.New("401 unauthorized")
	sink := &helpers.BufferSink{}
	_, err = svc.SendMessage(ctx, "s1", "again", sink)
	require.Error(t, err)

	assert.False(t, sink.Begun)
	assert.Equal(t, setsBefore, db.Sets)

	h, err := svc.history.Load(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, domain.History{domain.UserMessage("hello"), domain.AssistantMessage("first")}, h)
}

func TestSendMessageMidStreamFailureLeavesHistory(t *testing.T) {
	ctx := context.Background()
	completer := &helpers.ScriptedCompleter{Fragments: []string{"first"}}
	svc, db := newTestService(t, completer)

	_, err := svc.SendMessage(ctx, "s1", "hello", &helpers.BufferSink{})
	require.NoError(t, err)
	setsBefore := db.Sets

	completer.Fragments = []string{"half an ans"}
	completer.StreamErr = errors.New("connection reset")
	sink := &helpers.BufferSink{}
	_, err = svc.SendMessage(ctx, "s1", "again", sink)
	require.Error(t, err)

	assert.Equal(t, "half an ans", sink.String())
	assert.Equal(t, setsBefore, db.Sets)

	h, err := svc.history.Load(ctx, "s1")
	require.NoError(t, err)
	assert.Len(t, h, 2)
}

func TestSendMessageSaveFailure(t *testing.T) {
	completer := &helpers.ScriptedCompleter{Fragments: []string{"ok"}}
	svc, db := newTestService(t, completer)
	db.SetErr = errors.New("readonly database")

	_, err := svc.SendMessage(context.Background(), "s1", "hello", &helpers.BufferSink{})
	require.Error(t, err)
	assert.True(t, strings.Contains(err.Error(), "readonly database"))
}

func TestSendMessageSurvivesCancelledRequestWhenDetached(t *testing.T) {
	completer := &helpers.ScriptedCompleter{Fragments: []string{"still ", "saved"}}
	svc, _ := newTestService(t, completer)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := svc.SendMessage(ctx, "s1", "hello", &helpers.BufferSink{})
	require.NoError(t, err)

	h, err := svc.history.Load(context.Background(), "s1")
	require.NoError(t, err)
	require.Len(t, h, 2)
	assert.Equal(t, "still saved", h[1].Content)
}

func TestPurgeExpiredHistories(t *testing.T) {
	ctx := context.Background()
	completer := &helpers.ScriptedCompleter{Fragments: []string{"x"}}
	svc, _ := newTestService(t, completer)

	_, err := svc.SendMessage(ctx, "s1", "hello", &helpers.BufferSink{})
	require.NoError(t, err)

	svc.purgeExpiredHistories(ctx, time.Now())
	h, err := svc.history.Load(ctx, "s1")
	require.NoError(t, err)
	assert.Len(t, h, 2)

	svc.purgeExpiredHistories(ctx, time.Now().Add(25*time.Hour))
	h, err = svc.history.Load(ctx, "s1")
	require.NoError(t, err)
	assert.Empty(t, h)
}

func TestRunHistoryJanitorStopsOnCancel(t *testing.T) {
	svc, _ := newTestService(t, &helpers.ScriptedCompleter{})
	svc.config.JanitorInterval = time.Millisecond

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		svc.RunHistoryJanitor(ctx)
		close(done)
	}()

	time.Sleep(5 * time.Millisecond)
	cancel()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("janitor did not stop")
	}
}
