package server

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/samber/lo"
	"go.uber.org/zap"

	"github.com/vburojevic/editorctl/internal/domain"
	"github.com/vburojevic/editorctl/internal/logbuffer"
	"github.com/vburojevic/editorctl/internal/refresh"
	"github.com/vburojevic/editorctl/internal/session"
)

const (
	// DefaultPort is the fixed control endpoint port
	DefaultPort = 7788

	defaultLogCount = 50
	maxErrorCount   = 100
)

// availableEndpoints is advertised on 404 so agents can self-correct
const availableEndpoints = "POST /refresh, GET /status, GET /logs, GET /errors, POST /clear"

// Server is the loopback HTTP control endpoint. One slow refresh never
// blocks /status or /logs: net/http serves each connection on its own
// goroutine and only /refresh touches the coordinator.
type Server struct {
	port           int
	refreshTimeout time.Duration
	coordinator    *refresh.Coordinator
	buffer         *logbuffer.Buffer
	session        *session.State
	logger         *zap.Logger
	out            io.Writer

	httpServer *http.Server
	startTime  time.Time
}

// New creates a server. The readiness line is written to out once the
// listener is bound; external tooling waits on it.
func New(port int, timeout time.Duration, coordinator *refresh.Coordinator, buffer *logbuffer.Buffer, state *session.State, logger *zap.Logger, out io.Writer) *Server {
	if port <= 0 {
		port = DefaultPort
	}
	if timeout <= 0 {
		timeout = refresh.DefaultTimeout
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Server{
		port:           port,
		refreshTimeout: timeout,
		coordinator:    coordinator,
		buffer:         buffer,
		session:        state,
		logger:         logger,
		out:            out,
	}
}

// Start binds the loopback listener and begins serving in the background.
// A bind failure is logged and returned; there is no retry.
func (s *Server) Start() error {
	addr := fmt.Sprintf("127.0.0.1:%d", s.port)
	listener, err := net.Listen("tcp", addr)
	if err != nil {
		s.logger.Error("control endpoint failed to bind", zap.String("addr", addr), zap.Error(err))
		return fmt.Errorf("bind %s: %w", addr, err)
	}

	s.startTime = time.Now()
	s.httpServer = &http.Server{Handler: s.routes()}

	// Readiness signal: external tooling greps for this line
	fmt.Fprintf(s.out, "editorctl control endpoint listening on %s\n", addr)
	s.logger.Info("control endpoint listening", zap.String("addr", addr))

	go func() {
		if err := s.httpServer.Serve(listener); err != nil && err != http.ErrServerClosed {
			s.logger.Error("control endpoint stopped", zap.Error(err))
		}
	}()
	return nil
}

// Shutdown stops accepting connections and drains in-flight requests
func (s *Server) Shutdown(ctx context.Context) error {
	if s.httpServer == nil {
		return nil
	}
	return s.httpServer.Shutdown(ctx)
}

// Addr returns the address the server listens on
func (s *Server) Addr() string {
	return fmt.Sprintf("127.0.0.1:%d", s.port)
}

// Handler exposes the route table for tests driving httptest
func (s *Server) Handler() http.Handler {
	if s.startTime.IsZero() {
		s.startTime = time.Now()
	}
	return s.routes()
}

func (s *Server) routes() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/refresh", s.handleRefresh)
	mux.HandleFunc("/status", s.handleStatus)
	mux.HandleFunc("/logs", s.handleLogs)
	mux.HandleFunc("/errors", s.handleErrors)
	mux.HandleFunc("/clear", s.handleClear)
	mux.HandleFunc("/", s.handleNotFound)
	return s.withRecovery(s.withLogging(mux))
}

// withRecovery converts handler panics into 500s without touching the
// accept loop
func (s *Server) withRecovery(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rec := recover(); rec != nil {
				s.logger.Error("request handler panicked",
					zap.String("path", r.URL.Path), zap.Any("panic", rec))
				writeJSON(w, http.StatusInternalServerError, domain.MessageResponse{
					Success: false,
					Message: "Internal Server Error",
				})
			}
		}()
		next.ServeHTTP(w, r)
	})
}

func (s *Server) withLogging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		s.logger.Info("request",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status", rec.status),
			zap.Duration("duration", time.Since(start)))
	})
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

// handleRefresh blocks the request worker until the refresh completes or
// the timeout elapses
func (s *Server) handleRefresh(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		s.methodNotAllowed(w, r)
		return
	}
	// The body is ignored but a Content-Length header is required, even
	// for an empty body, so misconfigured clients fail fast instead of
	// hanging the listener.
	if r.Header.Get("Content-Length") == "" {
		writeJSON(w, http.StatusLengthRequired, domain.MessageResponse{
			Success: false,
			Message: "Content-Length header is required",
		})
		return
	}

	outcome, err := s.coordinator.Execute(s.refreshTimeout)
	if err == session.ErrRefreshPending {
		writeJSON(w, http.StatusConflict, domain.MessageResponse{
			Success: false,
			Message: "Refresh already in progress",
		})
		return
	}
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, domain.MessageResponse{
			Success: false,
			Message: "Internal Server Error",
		})
		return
	}

	message := "Refresh completed"
	if !outcome.Completed {
		// A timeout is not a failure: the request was accepted and the
		// refresh is still progressing on the main context.
		message = "Refresh timed out"
	}
	resp := domain.RefreshResponse{
		Success:   true,
		Message:   message,
		HasErrors: len(outcome.Errors) > 0,
	}
	if resp.HasErrors {
		resp.ErrorCount = len(outcome.Errors)
		resp.Errors = lo.Map(outcome.Errors, func(e domain.LogEntry, _ int) domain.WireLogEntry {
			return e.ToWire()
		})
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		s.methodNotAllowed(w, r)
		return
	}
	writeJSON(w, http.StatusOK, domain.StatusResponse{
		Running:       true,
		Port:          s.port,
		BufferedLogs:  s.buffer.Len(),
		Errors:        s.buffer.ErrorCount(),
		Pending:       s.session.Pending(),
		UptimeSeconds: int64(time.Since(s.startTime).Seconds()),
	})
}

func (s *Server) handleLogs(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		s.methodNotAllowed(w, r)
		return
	}
	count := defaultLogCount
	if raw := r.URL.Query().Get("count"); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil && n > 0 {
			count = n
		}
	}
	writeEntries(w, s.buffer.Recent(count))
}

func (s *Server) handleErrors(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		s.methodNotAllowed(w, r)
		return
	}
	writeEntries(w, s.buffer.RecentErrors(maxErrorCount))
}

func (s *Server) handleClear(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		s.methodNotAllowed(w, r)
		return
	}
	s.buffer.Clear()
	writeJSON(w, http.StatusOK, domain.MessageResponse{
		Success: true,
		Message: "Log buffer cleared",
	})
}

func (s *Server) handleNotFound(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusNotFound, domain.MessageResponse{
		Success: false,
		Message: "Not Found. Available endpoints: " + availableEndpoints,
	})
}

func (s *Server) methodNotAllowed(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusMethodNotAllowed, domain.MessageResponse{
		Success: false,
		Message: fmt.Sprintf("%s not allowed on %s", r.Method, r.URL.Path),
	})
}

func writeEntries(w http.ResponseWriter, entries []domain.LogEntry) {
	wire := lo.Map(entries, func(e domain.LogEntry, _ int) domain.WireLogEntry {
		return e.ToWire()
	})
	if wire == nil {
		wire = []domain.WireLogEntry{}
	}
	writeJSON(w, http.StatusOK, domain.LogsResponse{Logs: wire, Count: len(wire)})
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}
