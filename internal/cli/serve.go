package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/vburojevic/editorctl/internal/domain"
	"github.com/vburojevic/editorctl/internal/focus"
	"github.com/vburojevic/editorctl/internal/host"
	"github.com/vburojevic/editorctl/internal/logbuffer"
	"github.com/vburojevic/editorctl/internal/mainloop"
	"github.com/vburojevic/editorctl/internal/refresh"
	"github.com/vburojevic/editorctl/internal/server"
	"github.com/vburojevic/editorctl/internal/session"
	"github.com/vburojevic/editorctl/internal/tmux"
)

// ServeCmd runs the control endpoint. Standalone operation drives a
// simulated editor host; embedding a real editor uses the internal packages
// directly.
type ServeCmd struct {
	Port          int      `short:"p" help:"Port to listen on" default:"${config_port}"`
	Timeout       string   `help:"Refresh timeout" default:"${config_timeout}"`
	RefreshDelay  string   `help:"How long each simulated refresh takes" default:"250ms"`
	RefreshErrors []string `help:"Scripted failures every simulated refresh emits, optionally prefixed 'Severity: ' (can be repeated)"`
	FocusApp      string   `help:"Host application name for focus switching"`
	Tmux          bool     `help:"Mirror intercepted logs into a tmux session"`
	TmuxSession   string   `help:"Custom tmux session name" default:"editorctl"`
}

// Run executes the serve command
func (c *ServeCmd) Run(globals *Globals) error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigCh
		cancel()
	}()

	timeout, err := time.ParseDuration(c.Timeout)
	if err != nil {
		return outputError(globals, "INVALID_TIMEOUT", fmt.Sprintf("invalid refresh timeout: %s", err))
	}
	refreshDelay, err := time.ParseDuration(c.RefreshDelay)
	if err != nil {
		return outputError(globals, "INVALID_DELAY", fmt.Sprintf("invalid refresh delay: %s", err))
	}
	pollInterval, err := time.ParseDuration(globals.Config.Server.PollInterval)
	if err != nil {
		pollInterval = refresh.DefaultPollInterval
	}

	logger := newLogger(globals)
	defer logger.Sync()

	// Shared state: one buffer, one session record, each with its own lock
	buffer := logbuffer.NewBuffer(globals.Config.Server.BufferCapacity)
	state := session.New()
	interceptor := logbuffer.NewInterceptor(buffer, state)

	if c.Tmux {
		mirror, err := tmux.NewMirror(c.TmuxSession)
		if err != nil {
			// Mirroring is quality-of-life; keep serving without it
			logger.Warn("tmux mirroring unavailable", zap.Error(err))
		} else {
			mirror.WriteBanner(c.Port)
			interceptor.AddMirror(func(entry domain.LogEntry) {
				if err := mirror.WriteEntry(entry); err != nil {
					logger.Debug("tmux mirror write failed", zap.Error(err))
				}
			})
			if !globals.Quiet {
				fmt.Fprintf(globals.Stderr, "Tmux session: %s\n", c.TmuxSession)
				fmt.Fprintf(globals.Stderr, "Attach with: %s\n", mirror.AttachCommand())
			}
		}
	}

	loop := mainloop.New(logger)
	simOpts := []host.SimulatedOption{host.WithRefreshDelay(refreshDelay)}
	if len(c.RefreshErrors) > 0 {
		simOpts = append(simOpts, host.WithRefreshErrors(c.RefreshErrors...))
	}
	editor := host.NewSimulated(loop, logger, simOpts...)
	editor.SubscribeLogs(interceptor.Intercept)

	focusCfg := focus.Config{
		AppName:     c.FocusApp,
		BundlePath:  globals.Config.Focus.BundlePath,
		WindowTitle: globals.Config.Focus.WindowTitle,
	}
	if focusCfg.AppName == "" {
		focusCfg.AppName = globals.Config.Focus.AppName
	}
	var controller focus.Controller = focus.Noop{}
	if !globals.Config.Focus.Disabled {
		controller = focus.New(focusCfg, logger)
	}

	coordinator := refresh.NewCoordinator(editor, controller, state, logger,
		refresh.WithPollInterval(pollInterval))

	srv := server.New(c.Port, timeout, coordinator, buffer, state, logger, globals.Stdout)
	if err := srv.Start(); err != nil {
		return outputError(globals, "STARTUP_FAILURE", err.Error())
	}
	defer func() {
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer shutdownCancel()
		srv.Shutdown(shutdownCtx)
	}()

	if !globals.Quiet && globals.Format == "text" {
		fmt.Fprintln(globals.Stderr, "Press Ctrl+C to stop")
	}

	// This goroutine is the simulated editor's main execution context;
	// it blocks here the way an editor blocks in its main loop.
	editor.Run(ctx)
	return nil
}
