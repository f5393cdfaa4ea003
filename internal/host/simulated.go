package host

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/vburojevic/editorctl/internal/domain"
	"github.com/vburojevic/editorctl/internal/mainloop"
)

// Simulated is an in-process stand-in for the editor so the control endpoint
// can run standalone (editorctl serve --simulate) and so end-to-end tests can
// exercise the whole protocol. Refresh runs on a real main loop, takes a
// configurable amount of time, and optionally emits scripted error logs.
type Simulated struct {
	loop   *mainloop.Loop
	logger *zap.Logger

	mu           sync.Mutex
	subscribers  []func(domain.LogEntry)
	refreshDelay time.Duration
	failMessages []string
	refreshCount int
}

// SimulatedOption configures a Simulated host
type SimulatedOption func(*Simulated)

// WithRefreshDelay sets how long each simulated refresh takes
func WithRefreshDelay(d time.Duration) SimulatedOption {
	return func(s *Simulated) { s.refreshDelay = d }
}

// WithRefreshErrors makes every refresh emit the given scripted failures.
// A "Severity: message" prefix selects the severity; anything else is an Error.
func WithRefreshErrors(messages ...string) SimulatedOption {
	return func(s *Simulated) { s.failMessages = messages }
}

// NewSimulated creates a simulated host driving the given main loop
func NewSimulated(loop *mainloop.Loop, logger *zap.Logger, opts ...SimulatedOption) *Simulated {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &Simulated{loop: loop, logger: logger}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Run drives the main loop until the context is cancelled
func (s *Simulated) Run(ctx context.Context) {
	s.loop.Run(ctx)
}

// Refresh simulates an asset refresh on the main context
func (s *Simulated) Refresh() error {
	s.mu.Lock()
	s.refreshCount++
	count := s.refreshCount
	delay := s.refreshDelay
	failures := s.failMessages
	s.mu.Unlock()

	if delay > 0 {
		time.Sleep(delay)
	}
	s.Emit(domain.NewLogEntry(domain.SeverityInfo, fmt.Sprintf("Asset refresh #%d completed", count), ""))
	for _, msg := range failures {
		s.Emit(parseScripted(msg))
	}
	return nil
}

// parseScripted turns a scripted failure into a log entry. Only a prefix that
// names an exact severity is stripped, so a message with an incidental colon
// stays intact.
func parseScripted(raw string) domain.LogEntry {
	if prefix, rest, ok := strings.Cut(raw, ": "); ok {
		if sev := domain.ParseSeverity(prefix); string(sev) == prefix {
			return domain.NewLogEntry(sev, rest, "")
		}
	}
	return domain.NewLogEntry(domain.SeverityError, raw, "")
}

// Schedule enqueues work onto the simulated main context
func (s *Simulated) Schedule(fn func()) {
	s.loop.Post(fn)
}

// SubscribeLogs registers a log observer
func (s *Simulated) SubscribeLogs(fn func(domain.LogEntry)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.subscribers = append(s.subscribers, fn)
}

// Emit delivers an entry to every subscriber. Exposed so tests and the serve
// command's demo traffic can inject log events from arbitrary goroutines.
func (s *Simulated) Emit(entry domain.LogEntry) {
	s.mu.Lock()
	subs := make([]func(domain.LogEntry), len(s.subscribers))
	copy(subs, s.subscribers)
	s.mu.Unlock()

	for _, fn := range subs {
		fn(entry)
	}
}

// RefreshCount returns how many refreshes have run
func (s *Simulated) RefreshCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.refreshCount
}

var _ Host = (*Simulated)(nil)
