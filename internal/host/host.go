package host

import "github.com/vburojevic/editorctl/internal/domain"

// Host is the seam to the editor application. The control endpoint never
// calls into the editor directly; it only uses these three primitives.
type Host interface {
	// Refresh performs the asset refresh. The host requires this to run on
	// its main execution context; callers must reach it through Schedule.
	Refresh() error

	// Schedule enqueues work onto the host's main execution context.
	// Work runs in submission order. Schedule never blocks on the work
	// itself completing.
	Schedule(fn func())

	// SubscribeLogs registers a process-lifetime observer for every log
	// event the host emits. The observer may be called from any thread.
	SubscribeLogs(fn func(domain.LogEntry))
}
