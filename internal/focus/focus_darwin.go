//go:build darwin

package focus

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"go.uber.org/zap"
	"howett.net/plist"
)

// darwinController drives focus through osascript. Every invocation blocks
// until the osascript process exits, so by the time PrepareForRefresh
// returns the activate command has been delivered.
type darwinController struct {
	appName string
	logger  *zap.Logger

	// previousApp is written by PrepareForRefresh and consumed by
	// RestoreFocus within the same refresh cycle; the coordinator's
	// ordering guarantees make a lock unnecessary.
	previousApp string
}

func newController(cfg Config, logger *zap.Logger) Controller {
	name := cfg.AppName
	if name == "" && cfg.BundlePath != "" {
		resolved, err := appNameFromBundle(cfg.BundlePath)
		if err != nil {
			logger.Warn("could not resolve app name from bundle, focus management disabled",
				zap.String("bundle", cfg.BundlePath), zap.Error(err))
		} else {
			name = resolved
		}
	}
	if name == "" {
		return Noop{}
	}
	return &darwinController{appName: name, logger: logger}
}

func (c *darwinController) PrepareForRefresh() error {
	front, err := frontmostApp()
	if err != nil {
		c.logger.Warn("could not determine frontmost application", zap.Error(err))
	} else if front != c.appName {
		c.previousApp = front
	}

	if err := activateApp(c.appName); err != nil {
		return fmt.Errorf("activate %q: %w", c.appName, err)
	}
	return nil
}

func (c *darwinController) RestoreFocus() error {
	previous := c.previousApp
	c.previousApp = ""
	if previous == "" {
		return nil
	}
	if err := activateApp(previous); err != nil {
		return fmt.Errorf("activate %q: %w", previous, err)
	}
	return nil
}

// frontmostApp returns the name of the currently active application
func frontmostApp() (string, error) {
	out, err := exec.Command("osascript", "-e",
		`tell application "System Events" to get name of first application process whose frontmost is true`).Output()
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(out)), nil
}

// activateApp brings the named application to the foreground
func activateApp(name string) error {
	return exec.Command("osascript", "-e",
		fmt.Sprintf(`tell application %q to activate`, name)).Run()
}

// bundleInfo is the subset of Info.plist we care about
type bundleInfo struct {
	CFBundleDisplayName string `plist:"CFBundleDisplayName"`
	CFBundleName        string `plist:"CFBundleName"`
}

// appNameFromBundle reads the display name out of a .app bundle's Info.plist
func appNameFromBundle(bundlePath string) (string, error) {
	data, err := os.ReadFile(filepath.Join(bundlePath, "Contents", "Info.plist"))
	if err != nil {
		return "", err
	}
	var info bundleInfo
	if _, err := plist.Unmarshal(data, &info); err != nil {
		return "", err
	}
	if info.CFBundleDisplayName != "" {
		return info.CFBundleDisplayName, nil
	}
	if info.CFBundleName != "" {
		return info.CFBundleName, nil
	}
	return "", fmt.Errorf("no bundle name in %s", bundlePath)
}
