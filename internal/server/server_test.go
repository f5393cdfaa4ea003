package server

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vburojevic/editorctl/internal/domain"
	"github.com/vburojevic/editorctl/internal/focus"
	"github.com/vburojevic/editorctl/internal/host"
	"github.com/vburojevic/editorctl/internal/logbuffer"
	"github.com/vburojevic/editorctl/internal/mainloop"
	"github.com/vburojevic/editorctl/internal/refresh"
	"github.com/vburojevic/editorctl/internal/session"
)

// fixture wires a server to a simulated host with a live main loop
type fixture struct {
	server  *Server
	handler http.Handler
	buffer  *logbuffer.Buffer
	state   *session.State
	editor  *host.Simulated
	cancel  context.CancelFunc
}

func newFixture(t *testing.T, timeout time.Duration, hostOpts ...host.SimulatedOption) *fixture {
	t.Helper()

	buffer := logbuffer.NewBuffer(500)
	state := session.New()
	interceptor := logbuffer.NewInterceptor(buffer, state)

	loop := mainloop.New(nil)
	editor := host.NewSimulated(loop, nil, hostOpts...)
	editor.SubscribeLogs(interceptor.Intercept)

	ctx, cancel := context.WithCancel(context.Background())
	go editor.Run(ctx)
	t.Cleanup(cancel)

	coordinator := refresh.NewCoordinator(editor, focus.Noop{}, state, nil,
		refresh.WithPollInterval(5*time.Millisecond))

	srv := New(DefaultPort, timeout, coordinator, buffer, state, nil, &strings.Builder{})
	return &fixture{
		server:  srv,
		handler: srv.Handler(),
		buffer:  buffer,
		state:   state,
		editor:  editor,
		cancel:  cancel,
	}
}

func (f *fixture) do(method, path string, withContentLength bool) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(""))
	if withContentLength {
		req.Header.Set("Content-Length", "0")
	}
	w := httptest.NewRecorder()
	f.handler.ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
	return out
}

func TestRefreshCompletes(t *testing.T) {
	f := newFixture(t, time.Second)

	w := f.do(http.MethodPost, "/refresh", true)
	require.Equal(t, http.StatusOK, w.Code)

	resp := decode[domain.RefreshResponse](t, w)
	assert.True(t, resp.Success)
	assert.Equal(t, "Refresh completed", resp.Message)
	assert.False(t, resp.HasErrors)
	assert.Equal(t, 1, f.editor.RefreshCount())
}

func TestRefreshReportsErrorsFromItsOwnWindow(t *testing.T) {
	f := newFixture(t, time.Second,
		host.WithRefreshErrors("Shader compile failed", "Missing asset"))

	// An earlier error must not show up in the refresh result
	f.editor.Emit(domain.NewLogEntry(domain.SeverityError, "stale error", ""))

	w := f.do(http.MethodPost, "/refresh", true)
	require.Equal(t, http.StatusOK, w.Code)

	resp := decode[domain.RefreshResponse](t, w)
	assert.True(t, resp.Success)
	assert.True(t, resp.HasErrors)
	assert.Equal(t, 2, resp.ErrorCount)
	require.Len(t, resp.Errors, 2)
	assert.Equal(t, "Shader compile failed", resp.Errors[0].Message)
	assert.Equal(t, "Missing asset", resp.Errors[1].Message)
}

func TestRefreshTimesOut(t *testing.T) {
	// The main loop is never started, so queued refresh work sits there
	// forever and the request must time out
	buffer := logbuffer.NewBuffer(500)
	state := session.New()
	loop := mainloop.New(nil)
	editor := host.NewSimulated(loop, nil)
	coordinator := refresh.NewCoordinator(editor, focus.Noop{}, state, nil,
		refresh.WithPollInterval(5*time.Millisecond))
	srv := New(DefaultPort, 50*time.Millisecond, coordinator, buffer, state, nil, &strings.Builder{})
	f := &fixture{handler: srv.Handler()}

	w := f.do(http.MethodPost, "/refresh", true)
	require.Equal(t, http.StatusOK, w.Code)

	resp := decode[domain.RefreshResponse](t, w)
	assert.True(t, resp.Success)
	assert.Equal(t, "Refresh timed out", resp.Message)
}

func TestRefreshRequiresContentLength(t *testing.T) {
	f := newFixture(t, time.Second)

	w := f.do(http.MethodPost, "/refresh", false)
	require.Equal(t, http.StatusLengthRequired, w.Code)

	resp := decode[domain.MessageResponse](t, w)
	assert.False(t, resp.Success)
}

func TestSecondRefreshConflicts(t *testing.T) {
	f := newFixture(t, time.Second, host.WithRefreshDelay(300*time.Millisecond))

	first := make(chan *httptest.ResponseRecorder, 1)
	go func() { first <- f.do(http.MethodPost, "/refresh", true) }()

	require.Eventually(t, f.state.Pending, time.Second, time.Millisecond)

	w := f.do(http.MethodPost, "/refresh", true)
	require.Equal(t, http.StatusConflict, w.Code)
	resp := decode[domain.MessageResponse](t, w)
	assert.False(t, resp.Success)
	assert.Equal(t, "Refresh already in progress", resp.Message)

	require.Equal(t, http.StatusOK, (<-first).Code)
}

func TestStatusNeverBlocksOnPendingRefresh(t *testing.T) {
	f := newFixture(t, 2*time.Second, host.WithRefreshDelay(500*time.Millisecond))

	done := make(chan struct{})
	go func() {
		f.do(http.MethodPost, "/refresh", true)
		close(done)
	}()
	require.Eventually(t, f.state.Pending, time.Second, time.Millisecond)

	start := time.Now()
	w := f.do(http.MethodGet, "/status", false)
	elapsed := time.Since(start)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Less(t, elapsed, 100*time.Millisecond)

	resp := decode[domain.StatusResponse](t, w)
	assert.True(t, resp.Running)
	assert.Equal(t, DefaultPort, resp.Port)
	assert.True(t, resp.Pending)

	<-done
}

func TestLogsDefaultCountAndOrdering(t *testing.T) {
	f := newFixture(t, time.Second)
	for i := 0; i < 60; i++ {
		f.editor.Emit(domain.NewLogEntry(domain.SeverityInfo, fmt.Sprintf("msg-%d", i), ""))
	}

	w := f.do(http.MethodGet, "/logs", false)
	require.Equal(t, http.StatusOK, w.Code)

	resp := decode[domain.LogsResponse](t, w)
	assert.Equal(t, 50, resp.Count)
	// Most recent last
	assert.Equal(t, "msg-10", resp.Logs[0].Message)
	assert.Equal(t, "msg-59", resp.Logs[49].Message)
}

func TestLogsHonorsCountParam(t *testing.T) {
	f := newFixture(t, time.Second)
	for i := 0; i < 10; i++ {
		f.editor.Emit(domain.NewLogEntry(domain.SeverityInfo, fmt.Sprintf("msg-%d", i), ""))
	}

	w := f.do(http.MethodGet, "/logs?count=3", false)
	resp := decode[domain.LogsResponse](t, w)
	assert.Equal(t, 3, resp.Count)
	assert.Equal(t, "msg-7", resp.Logs[0].Message)
}

func TestErrorsFiltersSeverity(t *testing.T) {
	f := newFixture(t, time.Second)
	f.editor.Emit(domain.NewLogEntry(domain.SeverityInfo, "info", ""))
	f.editor.Emit(domain.NewLogEntry(domain.SeverityError, "err-1", ""))
	f.editor.Emit(domain.NewLogEntry(domain.SeverityWarning, "warn", ""))
	f.editor.Emit(domain.NewLogEntry(domain.SeverityException, "exc-1", "stack"))

	w := f.do(http.MethodGet, "/errors", false)
	resp := decode[domain.LogsResponse](t, w)

	require.Equal(t, 2, resp.Count)
	assert.Equal(t, "Error", resp.Logs[0].Type)
	assert.Equal(t, "err-1", resp.Logs[0].Message)
	assert.Equal(t, "Exception", resp.Logs[1].Type)
	assert.Equal(t, "exc-1\nstack", resp.Logs[1].Message)
}

func TestClearEmptiesBuffer(t *testing.T) {
	f := newFixture(t, time.Second)
	f.editor.Emit(domain.NewLogEntry(domain.SeverityInfo, "before clear", ""))

	w := f.do(http.MethodPost, "/clear", false)
	require.Equal(t, http.StatusOK, w.Code)
	resp := decode[domain.MessageResponse](t, w)
	assert.True(t, resp.Success)
	assert.Equal(t, "Log buffer cleared", resp.Message)

	logs := decode[domain.LogsResponse](t, f.do(http.MethodGet, "/logs?count=50", false))
	assert.Equal(t, 0, logs.Count)
	assert.Empty(t, logs.Logs)
}

func TestUnknownPathReturns404WithCatalogue(t *testing.T) {
	f := newFixture(t, time.Second)

	w := f.do(http.MethodGet, "/nope", false)
	require.Equal(t, http.StatusNotFound, w.Code)

	resp := decode[domain.MessageResponse](t, w)
	assert.False(t, resp.Success)
	assert.Contains(t, resp.Message, "Not Found. Available endpoints:")
	assert.Contains(t, resp.Message, "POST /refresh")
}

func TestWrongMethodRejected(t *testing.T) {
	f := newFixture(t, time.Second)

	w := f.do(http.MethodGet, "/refresh", true)
	assert.Equal(t, http.StatusMethodNotAllowed, w.Code)

	w = f.do(http.MethodPost, "/status", true)
	assert.Equal(t, http.StatusMethodNotAllowed, w.Code)
}

func TestHandlerPanicYields500(t *testing.T) {
	// A nil coordinator makes /refresh panic; the recovery middleware
	// must turn that into a 500, not kill the server
	srv := New(DefaultPort, time.Second, nil, logbuffer.NewBuffer(10), session.New(), nil, &strings.Builder{})
	handler := srv.Handler()

	req := httptest.NewRequest(http.MethodPost, "/refresh", strings.NewReader(""))
	req.Header.Set("Content-Length", "0")
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	require.Equal(t, http.StatusInternalServerError, w.Code)
	var resp domain.MessageResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.False(t, resp.Success)
	assert.Equal(t, "Internal Server Error", resp.Message)

	// And the handler still serves subsequent requests
	w2 := httptest.NewRecorder()
	handler.ServeHTTP(w2, httptest.NewRequest(http.MethodGet, "/status", nil))
	assert.Equal(t, http.StatusOK, w2.Code)
}
