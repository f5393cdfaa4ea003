package host

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vburojevic/editorctl/internal/domain"
	"github.com/vburojevic/editorctl/internal/mainloop"
)

func TestSimulatedRefreshEmitsToSubscribers(t *testing.T) {
	loop := mainloop.New(nil)
	editor := NewSimulated(loop, nil, WithRefreshErrors("asset import failed"))

	var mu sync.Mutex
	var received []domain.LogEntry
	editor.SubscribeLogs(func(e domain.LogEntry) {
		mu.Lock()
		received = append(received, e)
		mu.Unlock()
	})

	require.NoError(t, editor.Refresh())

	mu.Lock()
	defer mu.Unlock()
	require.Len(t, received, 2)
	assert.Equal(t, domain.SeverityInfo, received[0].Severity)
	assert.Contains(t, received[0].Message, "refresh #1")
	assert.Equal(t, domain.SeverityError, received[1].Severity)
	assert.Equal(t, "asset import failed", received[1].Message)
	assert.Equal(t, 1, editor.RefreshCount())
}

func TestSimulatedRefreshParsesScriptedSeverities(t *testing.T) {
	loop := mainloop.New(nil)
	editor := NewSimulated(loop, nil, WithRefreshErrors(
		"Exception: NullReferenceException",
		"Warning: shader fallback",
		"bare message",
		"importer: stalled",
	))

	var mu sync.Mutex
	var received []domain.LogEntry
	editor.SubscribeLogs(func(e domain.LogEntry) {
		mu.Lock()
		received = append(received, e)
		mu.Unlock()
	})

	require.NoError(t, editor.Refresh())

	mu.Lock()
	defer mu.Unlock()
	require.Len(t, received, 5)
	assert.Equal(t, domain.SeverityException, received[1].Severity)
	assert.Equal(t, "NullReferenceException", received[1].Message)
	assert.Equal(t, domain.SeverityWarning, received[2].Severity)
	assert.Equal(t, "shader fallback", received[2].Message)
	// No severity prefix defaults to Error with the message untouched
	assert.Equal(t, domain.SeverityError, received[3].Severity)
	assert.Equal(t, "bare message", received[3].Message)
	assert.Equal(t, domain.SeverityError, received[4].Severity)
	assert.Equal(t, "importer: stalled", received[4].Message)
}

func TestSimulatedScheduleRunsOnMainLoop(t *testing.T) {
	loop := mainloop.New(nil)
	editor := NewSimulated(loop, nil)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go editor.Run(ctx)

	done := make(chan struct{})
	editor.Schedule(func() { close(done) })

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("scheduled work never ran")
	}
}

func TestSimulatedRefreshDelay(t *testing.T) {
	loop := mainloop.New(nil)
	editor := NewSimulated(loop, nil, WithRefreshDelay(50*time.Millisecond))

	start := time.Now()
	require.NoError(t, editor.Refresh())
	assert.GreaterOrEqual(t, time.Since(start), 50*time.Millisecond)
}
