package logbuffer

import (
	"sync"

	"github.com/samber/lo"
	"github.com/vburojevic/editorctl/internal/domain"
)

// DefaultCapacity bounds the process-wide log buffer
const DefaultCapacity = 500

// Buffer is a bounded FIFO of log entries for the host process lifetime.
// Oldest entries are evicted first once capacity is exceeded.
type Buffer struct {
	mu       sync.Mutex
	entries  []domain.LogEntry
	capacity int
}

// NewBuffer creates a buffer with the given capacity (DefaultCapacity if <= 0)
func NewBuffer(capacity int) *Buffer {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	return &Buffer{capacity: capacity}
}

// Append adds an entry, evicting the oldest if the buffer is full
func (b *Buffer) Append(entry domain.LogEntry) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.entries = append(b.entries, entry)
	if len(b.entries) > b.capacity {
		// Shift rather than re-slice so the backing array does not pin
		// evicted entries
		copy(b.entries, b.entries[1:])
		b.entries = b.entries[:b.capacity]
	}
}

// Len returns the number of buffered entries
func (b *Buffer) Len() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.entries)
}

// ErrorCount returns the number of buffered Error/Exception entries
func (b *Buffer) ErrorCount() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return lo.CountBy(b.entries, func(e domain.LogEntry) bool {
		return e.Severity.IsError()
	})
}

// Recent returns up to count entries in chronological order, most recent last
func (b *Buffer) Recent(count int) []domain.LogEntry {
	b.mu.Lock()
	defer b.mu.Unlock()

	if count <= 0 || count > len(b.entries) {
		count = len(b.entries)
	}
	out := make([]domain.LogEntry, count)
	copy(out, b.entries[len(b.entries)-count:])
	return out
}

// RecentErrors returns up to count Error/Exception entries in chronological order
func (b *Buffer) RecentErrors(count int) []domain.LogEntry {
	b.mu.Lock()
	errors := lo.Filter(b.entries, func(e domain.LogEntry, _ int) bool {
		return e.Severity.IsError()
	})
	b.mu.Unlock()

	if count <= 0 || count > len(errors) {
		count = len(errors)
	}
	return errors[len(errors)-count:]
}

// Clear drops all buffered entries
func (b *Buffer) Clear() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.entries = nil
}
