//go:build !windows

package detector

import "gamemode/internal/process"

// Desktop has no window system to inspect outside Windows; it still lists
// processes so known games can be reported.
type Desktop struct {
	procs process.Host
}

// NewDesktop creates a Desktop that snapshots processes through host.
func NewDesktop(host process.Host) *Desktop {
	return &Desktop{procs: host}
}

func (d *Desktop) Snapshot() ([]process.Info, error) { return d.procs.Snapshot() }
func (d *Desktop) MainWindow(uint32) (Window, bool)  { return 0, false }
func (d *Desktop) Bounds(Window) (Rect, bool)        { return Rect{}, false }
func (d *Desktop) ScreenSize() (int32, int32)        { return 0, 0 }
func (d *Desktop) Focus(Window) bool                 { return false }
