package logbuffer

import (
	"github.com/vburojevic/editorctl/internal/domain"
	"github.com/vburojevic/editorctl/internal/session"
)

// Interceptor fans the host's log stream into the process-wide buffer and,
// while a refresh session is pending, into that session's error capture.
// Intercept is safe to call from whatever thread the host logs on.
type Interceptor struct {
	buffer  *Buffer
	session *session.State
	mirrors []func(domain.LogEntry)
}

// NewInterceptor wires the buffer and session state together
func NewInterceptor(buffer *Buffer, state *session.State) *Interceptor {
	return &Interceptor{buffer: buffer, session: state}
}

// AddMirror registers an additional sink for every intercepted entry.
// Must be called before the interceptor is subscribed to the host.
func (i *Interceptor) AddMirror(fn func(domain.LogEntry)) {
	i.mirrors = append(i.mirrors, fn)
}

// Intercept handles one log event from the host
func (i *Interceptor) Intercept(entry domain.LogEntry) {
	i.buffer.Append(entry)
	if entry.Severity.IsError() {
		i.session.Capture(entry)
	}
	for _, mirror := range i.mirrors {
		mirror(entry)
	}
}
