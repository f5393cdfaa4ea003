//go:build !darwin && !windows

package focus

import "go.uber.org/zap"

// Headless and unsupported desktops get the no-op strategy: the refresh API
// works without the window being frontmost on these platforms.
func newController(cfg Config, logger *zap.Logger) Controller {
	return Noop{}
}
