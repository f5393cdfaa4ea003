package logbuffer

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vburojevic/editorctl/internal/domain"
)

func TestBufferEvictsOldestAtCapacity(t *testing.T) {
	b := NewBuffer(500)

	for i := 0; i < 501; i++ {
		b.Append(domain.NewLogEntry(domain.SeverityInfo, fmt.Sprintf("msg-%d", i), ""))
	}

	require.Equal(t, 500, b.Len())

	entries := b.Recent(500)
	// msg-0 was evicted when msg-500 came in
	assert.Equal(t, "msg-1", entries[0].Message)
	assert.Equal(t, "msg-500", entries[len(entries)-1].Message)
}

func TestBufferRecentReturnsMostRecentLast(t *testing.T) {
	b := NewBuffer(10)
	for i := 0; i < 5; i++ {
		b.Append(domain.NewLogEntry(domain.SeverityInfo, fmt.Sprintf("msg-%d", i), ""))
	}

	entries := b.Recent(3)
	require.Len(t, entries, 3)
	assert.Equal(t, "msg-2", entries[0].Message)
	assert.Equal(t, "msg-4", entries[2].Message)
}

func TestBufferRecentLargerThanContents(t *testing.T) {
	b := NewBuffer(10)
	b.Append(domain.NewLogEntry(domain.SeverityInfo, "only", ""))

	entries := b.Recent(50)
	require.Len(t, entries, 1)
}

func TestBufferRecentErrorsFiltersAndPreservesOrder(t *testing.T) {
	b := NewBuffer(10)
	b.Append(domain.NewLogEntry(domain.SeverityInfo, "info", ""))
	b.Append(domain.NewLogEntry(domain.SeverityError, "first error", ""))
	b.Append(domain.NewLogEntry(domain.SeverityWarning, "warning", ""))
	b.Append(domain.NewLogEntry(domain.SeverityException, "an exception", ""))

	errors := b.RecentErrors(100)
	require.Len(t, errors, 2)
	assert.Equal(t, "first error", errors[0].Message)
	assert.Equal(t, "an exception", errors[1].Message)
}

func TestBufferErrorCount(t *testing.T) {
	b := NewBuffer(10)
	b.Append(domain.NewLogEntry(domain.SeverityError, "e1", ""))
	b.Append(domain.NewLogEntry(domain.SeverityInfo, "i1", ""))
	b.Append(domain.NewLogEntry(domain.SeverityException, "e2", ""))

	assert.Equal(t, 2, b.ErrorCount())
}

func TestBufferClear(t *testing.T) {
	b := NewBuffer(10)
	b.Append(domain.NewLogEntry(domain.SeverityInfo, "msg", ""))

	b.Clear()
	assert.Equal(t, 0, b.Len())
	assert.Empty(t, b.Recent(50))
}
