package cli

import "go.uber.org/zap"

// newLogger builds the zap logger shared by the serve command's components.
// Quiet drops everything; verbose lowers the level to debug.
func newLogger(globals *Globals) *zap.Logger {
	if globals == nil || globals.Quiet {
		return zap.NewNop()
	}
	cfg := zap.NewProductionConfig()
	cfg.Encoding = "json"
	if globals.Verbose {
		cfg.Level = zap.NewAtomicLevelAt(zap.DebugLevel)
	}
	logger, err := cfg.Build()
	if err != nil {
		return zap.NewNop()
	}
	return logger
}
