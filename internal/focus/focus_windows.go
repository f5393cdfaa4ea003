//go:build windows

package focus

import (
	"fmt"
	"unsafe"

	"go.uber.org/zap"
	"golang.org/x/sys/windows"
)

var (
	user32                  = windows.NewLazySystemDLL("user32.dll")
	procGetForegroundWindow = user32.NewProc("GetForegroundWindow")
	procSetForegroundWindow = user32.NewProc("SetForegroundWindow")
	procBringWindowToTop    = user32.NewProc("BringWindowToTop")
	procAttachThreadInput   = user32.NewProc("AttachThreadInput")
	procGetWindowThreadPID  = user32.NewProc("GetWindowThreadProcessId")
	procFindWindowW         = user32.NewProc("FindWindowW")
)

// windowsController saves the foreground window handle, forces the host
// window to the top (attaching input queues when the foreground window
// belongs to another thread, which is what defeats the focus-stealing
// guard), and restores the saved handle afterwards.
type windowsController struct {
	windowTitle string
	logger      *zap.Logger

	// savedWindow is written by PrepareForRefresh and consumed by
	// RestoreFocus within one refresh cycle.
	savedWindow windows.HWND
}

func newController(cfg Config, logger *zap.Logger) Controller {
	if cfg.WindowTitle == "" {
		return Noop{}
	}
	return &windowsController{windowTitle: cfg.WindowTitle, logger: logger}
}

func (c *windowsController) PrepareForRefresh() error {
	hostWindow, err := findWindowByTitle(c.windowTitle)
	if err != nil {
		c.logger.Warn("host window not found, skipping focus switch",
			zap.String("title", c.windowTitle), zap.Error(err))
		return nil
	}

	current, _, _ := procGetForegroundWindow.Call()
	c.savedWindow = windows.HWND(current)

	forceForeground(windows.HWND(hostWindow))
	return nil
}

func (c *windowsController) RestoreFocus() error {
	saved := c.savedWindow
	c.savedWindow = 0
	if saved == 0 {
		return nil
	}
	forceForeground(saved)
	return nil
}

// forceForeground brings hwnd to the foreground, attaching input queues if
// the current foreground window is owned by a different thread
func forceForeground(hwnd windows.HWND) {
	foreground, _, _ := procGetForegroundWindow.Call()
	foregroundThread, _, _ := procGetWindowThreadPID.Call(foreground, 0)
	currentThread := windows.GetCurrentThreadId()

	attached := false
	if foregroundThread != 0 && uint32(foregroundThread) != currentThread {
		ret, _, _ := procAttachThreadInput.Call(uintptr(currentThread), foregroundThread, 1)
		attached = ret != 0
	}

	procBringWindowToTop.Call(uintptr(hwnd))
	procSetForegroundWindow.Call(uintptr(hwnd))

	if attached {
		procAttachThreadInput.Call(uintptr(currentThread), foregroundThread, 0)
	}
}

// findWindowByTitle resolves a top-level window handle by exact title
func findWindowByTitle(title string) (uintptr, error) {
	titlePtr, err := windows.UTF16PtrFromString(title)
	if err != nil {
		return 0, err
	}
	hwnd, _, _ := procFindWindowW.Call(0, uintptr(unsafe.Pointer(titlePtr)))
	if hwnd == 0 {
		return 0, fmt.Errorf("no window titled %q", title)
	}
	return hwnd, nil
}
