package mainloop

import (
	"context"

	"go.uber.org/zap"
)

// Loop models the host editor's single main execution context as an explicit
// FIFO work queue. Work posted from any goroutine runs in submission order on
// the one goroutine driving Run. Panics in queued work are recovered so one
// bad item cannot take down the loop, mirroring how the host isolates its
// main-thread callbacks.
type Loop struct {
	queue  chan func()
	logger *zap.Logger
}

// New creates a loop with a bounded queue
func New(logger *zap.Logger) *Loop {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Loop{
		queue:  make(chan func(), 64),
		logger: logger,
	}
}

// Post enqueues work for the main context. It blocks if the queue is full,
// which applies backpressure instead of dropping work.
func (l *Loop) Post(fn func()) {
	l.queue <- fn
}

// Run drains the queue until the context is cancelled. It must be called
// from exactly one goroutine; that goroutine is the main execution context.
func (l *Loop) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case fn := <-l.queue:
			l.invoke(fn)
		}
	}
}

func (l *Loop) invoke(fn func()) {
	defer func() {
		if r := recover(); r != nil {
			l.logger.Error("panic in main-loop work item", zap.Any("panic", r))
		}
	}()
	fn()
}
