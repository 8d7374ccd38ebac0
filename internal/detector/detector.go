// Package detector finds the foreground game: the first process that is
// either a known game with a visible window or owns a window covering the
// whole primary screen.
package detector

import (
	"gamemode/internal/process"
)

// Window is an opaque top-level window handle.
type Window uintptr

// Rect is a window rectangle in screen coordinates.
type Rect struct {
	Left, Top, Right, Bottom int32
}

func (r Rect) Width() int32  { return r.Right - r.Left }
func (r Rect) Height() int32 { return r.Bottom - r.Top }

// Match is a detected workload.
type Match struct {
	PID    uint32
	Name   string
	Window Window
}

// Enumerator is the process and window surface Detect reads.
type Enumerator interface {
	Snapshot() ([]process.Info, error)
	// MainWindow returns the first visible top-level window owned by pid.
	MainWindow(pid uint32) (Window, bool)
	Bounds(w Window) (Rect, bool)
	// ScreenSize returns the primary display size in pixels.
	ScreenSize() (width, height int32)
	Focus(w Window) bool
}

// KnownGames are matched by image name regardless of window size.
var KnownGames = []string{
	"cod", "cod24-cod", "FortniteClient-Win64-Shipping", "r5apex", "cs2",
	"valheim", "dota2", "League of Legends", "Overwatch", "Valorant-Win64-Shipping",
	"GTA5", "RDR2", "Cyberpunk2077", "Minecraft.Windows",
}

// Excluded are shell and search surfaces that are often fullscreen.
var Excluded = []string{"explorer", "SearchApp", "LockApp", "SearchHost"}

var (
	knownSet    = process.NewSet(KnownGames...)
	excludedSet = process.NewSet(Excluded...)
)

// Detect walks the snapshot once in OS order and returns the first process
// that is a known game with a visible window, or whose window is at least
// as large as the screen. self is skipped.
func Detect(e Enumerator, self uint32) (Match, bool) {
	procs, err := e.Snapshot()
	if err != nil {
		return Match{}, false
	}
	screenW, screenH := e.ScreenSize()

	for _, p := range procs {
		if p.PID == self || excludedSet.Has(p.Name) {
			continue
		}
		w, ok := e.MainWindow(p.PID)
		if !ok {
			continue
		}
		match := Match{PID: p.PID, Name: p.Name, Window: w}
		if knownSet.Has(p.Name) {
			return match, true
		}
		r, ok := e.Bounds(w)
		if ok && r.Width() >= screenW && r.Height() >= screenH {
			return match, true
		}
	}
	return Match{}, false
}
