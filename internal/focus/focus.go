package focus

import "go.uber.org/zap"

// Controller temporarily forces the host editor's window to the foreground
// for a refresh and hands focus back afterwards. Focus management is
// quality-of-life, not correctness: every implementation treats failure as
// non-fatal and the refresh proceeds regardless.
type Controller interface {
	// PrepareForRefresh records the currently focused window and brings
	// the host window to the foreground. Runs on the background thread,
	// strictly before the refresh is scheduled.
	PrepareForRefresh() error

	// RestoreFocus returns focus to the window recorded by
	// PrepareForRefresh. Runs on the main context after the refresh.
	RestoreFocus() error
}

// Config identifies the host application to the platform strategies
type Config struct {
	// AppName is the host application name as the OS knows it
	// (e.g. "Unity", "Godot"). Used by the darwin strategy.
	AppName string

	// BundlePath optionally points at the host .app bundle on darwin;
	// when AppName is empty the name is resolved from its Info.plist.
	BundlePath string

	// WindowTitle identifies the host top-level window on Windows.
	WindowTitle string
}

// New selects the platform strategy once at startup
func New(cfg Config, logger *zap.Logger) Controller {
	if logger == nil {
		logger = zap.NewNop()
	}
	return newController(cfg, logger)
}

// Noop is the headless strategy and the test double: both methods succeed
// without touching the OS.
type Noop struct{}

func (Noop) PrepareForRefresh() error { return nil }

func (Noop) RestoreFocus() error { return nil }

var _ Controller = Noop{}
