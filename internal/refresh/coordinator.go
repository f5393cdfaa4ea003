package refresh

import (
	"fmt"
	"time"

	"github.com/benbjohnson/clock"
	"go.uber.org/zap"

	"github.com/vburojevic/editorctl/internal/domain"
	"github.com/vburojevic/editorctl/internal/focus"
	"github.com/vburojevic/editorctl/internal/host"
	"github.com/vburojevic/editorctl/internal/session"
)

const (
	// DefaultTimeout bounds how long a caller blocks on one refresh
	DefaultTimeout = 30 * time.Second

	// DefaultPollInterval is how often the calling thread re-checks the
	// completion flag while waiting
	DefaultPollInterval = 100 * time.Millisecond
)

// Outcome is the result of one refresh cycle
type Outcome struct {
	// Completed is true when the main-context chain signalled completion
	// before the timeout elapsed
	Completed bool

	// Errors holds the Error/Exception log entries emitted between
	// request start and the completion signal, in order
	Errors []domain.LogEntry
}

// Coordinator orchestrates one refresh cycle: arm error capture, switch
// focus, run the refresh chain on the host main context, and block the
// calling goroutine until completion or timeout.
type Coordinator struct {
	host         host.Host
	focus        focus.Controller
	session      *session.State
	logger       *zap.Logger
	clock        clock.Clock
	pollInterval time.Duration
}

// Option configures a Coordinator
type Option func(*Coordinator)

// WithClock substitutes the wall clock, used by tests to drive the poll
// loop deterministically
func WithClock(c clock.Clock) Option {
	return func(co *Coordinator) { co.clock = c }
}

// WithPollInterval overrides the completion poll cadence
func WithPollInterval(d time.Duration) Option {
	return func(co *Coordinator) {
		if d > 0 {
			co.pollInterval = d
		}
	}
}

// NewCoordinator wires the coordinator's collaborators together
func NewCoordinator(h host.Host, f focus.Controller, s *session.State, logger *zap.Logger, opts ...Option) *Coordinator {
	if logger == nil {
		logger = zap.NewNop()
	}
	c := &Coordinator{
		host:         h,
		focus:        f,
		session:      s,
		logger:       logger,
		clock:        clock.New(),
		pollInterval: DefaultPollInterval,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Execute runs one refresh cycle and blocks until it completes or the
// timeout elapses. Returns session.ErrRefreshPending if another refresh is
// already in flight. On timeout the refresh keeps running on the main
// context; its late completion signal is discarded by the session's
// generation check.
func (c *Coordinator) Execute(timeout time.Duration) (Outcome, error) {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	generation, err := c.session.Arm()
	if err != nil {
		return Outcome{}, err
	}

	// Focus must be acquired before the refresh is scheduled: on some
	// platforms the refresh API silently no-ops unless the host process
	// owns the foreground window. Failure degrades UX, not correctness.
	if err := c.focus.PrepareForRefresh(); err != nil {
		c.logger.Warn("focus acquisition failed, refreshing anyway", zap.Error(err))
	}

	// The refresh call may itself be asynchronous relative to when it
	// returns, so completion is flipped by a chained follow-up item, not
	// by the refresh item. The follow-up is queued from within the
	// refresh item, which is what guarantees restore-focus never
	// precedes the refresh.
	c.host.Schedule(func() {
		c.runRefresh()
		c.host.Schedule(func() {
			if err := c.focus.RestoreFocus(); err != nil {
				c.logger.Warn("focus restore failed", zap.Error(err))
			}
			c.session.Complete(generation)
		})
	})

	c.wait(timeout)

	captured, completed := c.session.Drain()
	if !completed {
		c.logger.Warn("refresh timed out, work continues on the main context",
			zap.Duration("timeout", timeout))
	}
	return Outcome{Completed: completed, Errors: captured}, nil
}

// wait blocks until the session completes or the timeout elapses, sleeping
// in poll-interval steps rather than spinning
func (c *Coordinator) wait(timeout time.Duration) {
	timedOut := c.clock.After(timeout)
	ticker := c.clock.Ticker(c.pollInterval)
	defer ticker.Stop()

	for {
		if c.session.Completed() {
			return
		}
		select {
		case <-ticker.C:
		case <-timedOut:
			return
		}
	}
}

// runRefresh executes the refresh on the main context, retrying once
// directly if the first attempt panics or errors
func (c *Coordinator) runRefresh() {
	if err := c.safeRefresh(); err != nil {
		c.logger.Warn("refresh failed, retrying once", zap.Error(err))
		if err := c.safeRefresh(); err != nil {
			c.logger.Error("refresh retry failed", zap.Error(err))
		}
	}
}

func (c *Coordinator) safeRefresh() (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("refresh panicked: %v", r)
		}
	}()
	return c.host.Refresh()
}
