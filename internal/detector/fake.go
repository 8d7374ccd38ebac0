package detector

import (
	"sync"

	"gamemode/internal/process"
)

// FakeProcess is one process of a Fake desktop. A zero Window means the
// process has no visible window.
type FakeProcess struct {
	PID    uint32
	Name   string
	Window Window
	Bounds Rect
}

// Fake is an in-memory Enumerator.
type Fake struct {
	mu      sync.Mutex
	procs   []FakeProcess
	screenW int32
	screenH int32

	Focused []Window
}

// NewFake returns a desktop of the given screen size.
func NewFake(width, height int32, procs ...FakeProcess) *Fake {
	return &Fake{procs: procs, screenW: width, screenH: height}
}

func (f *Fake) Snapshot() ([]process.Info, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]process.Info, 0, len(f.procs))
	for _, p := range f.procs {
		out = append(out, process.Info{PID: p.PID, Name: p.Name})
	}
	return out, nil
}

func (f *Fake) MainWindow(pid uint32) (Window, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, p := range f.procs {
		if p.PID == pid && p.Window != 0 {
			return p.Window, true
		}
	}
	return 0, false
}

func (f *Fake) Bounds(w Window) (Rect, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, p := range f.procs {
		if p.Window == w && w != 0 {
			return p.Bounds, true
		}
	}
	return Rect{}, false
}

func (f *Fake) ScreenSize() (int32, int32) {
	return f.screenW, f.screenH
}

func (f *Fake) Focus(w Window) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Focused = append(f.Focused, w)
	return true
}
