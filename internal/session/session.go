package session

import (
	"errors"
	"sync"

	"github.com/vburojevic/editorctl/internal/domain"
)

// ErrRefreshPending is returned by Arm while another refresh is in flight
var ErrRefreshPending = errors.New("a refresh is already pending")

// State is the single in-flight refresh record. At most one refresh session
// exists at a time; a second Arm while one is pending is rejected. Completion
// signals carry the generation they were armed under so a signal that arrives
// after the session was drained is a harmless no-op.
type State struct {
	mu         sync.Mutex
	generation uint64
	pending    bool
	completed  bool
	captured   []domain.LogEntry
}

// New creates an idle session state
func New() *State {
	return &State{}
}

// Arm starts a new session and returns its generation.
// Returns ErrRefreshPending if a session is already in flight.
func (s *State) Arm() (uint64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.pending {
		return 0, ErrRefreshPending
	}
	s.generation++
	s.pending = true
	s.completed = false
	s.captured = []domain.LogEntry{}
	return s.generation, nil
}

// Complete flips the completed flag for the given generation.
// A stale generation (session already drained or superseded) is ignored.
func (s *State) Complete(generation uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.pending || generation != s.generation {
		return
	}
	s.completed = true
}

// Capture records an entry into the pending session. Entries offered while no
// session is pending, or after the completion signal has fired, are dropped:
// the capture window runs strictly from Arm to Complete, so a log emitted
// between the completion signal and the drain belongs to no request.
func (s *State) Capture(entry domain.LogEntry) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.pending || s.completed {
		return
	}
	s.captured = append(s.captured, entry)
}

// Pending reports whether a session is in flight
func (s *State) Pending() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.pending
}

// Completed reports whether the pending session has observed its completion signal
func (s *State) Completed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.pending && s.completed
}

// Drain atomically reads and clears the session, ending it. Returns the
// captured entries and whether completion was observed before the drain.
func (s *State) Drain() ([]domain.LogEntry, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	captured := s.captured
	completed := s.completed
	s.pending = false
	s.completed = false
	s.captured = nil
	return captured, completed
}
