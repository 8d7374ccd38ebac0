package detector

import (
	"sync"
	"unsafe"

	"golang.org/x/sys/windows"

	"gamemode/internal/process"
)

var (
	user32                  = windows.NewLazySystemDLL("user32.dll")
	procGetWindowRect       = user32.NewProc("GetWindowRect")
	procGetSystemMetrics    = user32.NewProc("GetSystemMetrics")
	procSetForegroundWindow = user32.NewProc("SetForegroundWindow")
)

const (
	smCXScreen = 0
	smCYScreen = 1
)

// Desktop is the Enumerator for the interactive Windows desktop.
type Desktop struct {
	procs process.Host
}

// NewDesktop creates a Desktop that snapshots processes through host.
func NewDesktop(host process.Host) *Desktop {
	return &Desktop{procs: host}
}

// Snapshot implements Enumerator.
func (d *Desktop) Snapshot() ([]process.Info, error) {
	return d.procs.Snapshot()
}

type windowSearch struct {
	pid   uint32
	found windows.HWND
}

// Callbacks are a limited resource; one is shared by every search and
// searches are serialised.
var (
	enumOnce     sync.Once
	enumCallback uintptr
	enumMu       sync.Mutex
)

func firstVisibleWindow(hwnd windows.HWND, param uintptr) uintptr {
	s := (*windowSearch)(unsafe.Pointer(param))
	var pid uint32
	if _, err := windows.GetWindowThreadProcessId(hwnd, &pid); err != nil {
		return 1
	}
	if pid == s.pid && windows.IsWindowVisible(hwnd) {
		s.found = hwnd
		return 0
	}
	return 1
}

// MainWindow implements Enumerator.
func (d *Desktop) MainWindow(pid uint32) (Window, bool) {
	enumOnce.Do(func() { enumCallback = windows.NewCallback(firstVisibleWindow) })

	enumMu.Lock()
	defer enumMu.Unlock()

	s := &windowSearch{pid: pid}
	// EnumWindows reports an error when the callback stops early.
	_ = windows.EnumWindows(enumCallback, unsafe.Pointer(s))
	if s.found == 0 {
		return 0, false
	}
	return Window(s.found), true
}

// Bounds implements Enumerator.
func (d *Desktop) Bounds(w Window) (Rect, bool) {
	var r windows.Rect
	ret, _, _ := procGetWindowRect.Call(uintptr(w), uintptr(unsafe.Pointer(&r)))
	if ret == 0 {
		return Rect{}, false
	}
	return Rect{Left: r.Left, Top: r.Top, Right: r.Right, Bottom: r.Bottom}, true
}

// ScreenSize implements Enumerator.
func (d *Desktop) ScreenSize() (int32, int32) {
	w, _, _ := procGetSystemMetrics.Call(smCXScreen)
	h, _, _ := procGetSystemMetrics.Call(smCYScreen)
	return int32(w), int32(h)
}

// Focus implements Enumerator.
func (d *Desktop) Focus(w Window) bool {
	ret, _, _ := procSetForegroundWindow.Call(uintptr(w))
	return ret != 0
}
