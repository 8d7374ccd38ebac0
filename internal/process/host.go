package process

import (
	"os/exec"

	gproc "github.com/shirou/gopsutil/v4/process"

	"gamemode/internal/cmd"
)

// System is the production Host.
type System struct {
	Runner cmd.Runner
}

// NewSystem returns a Host backed by the running OS.
func NewSystem() *System {
	return &System{Runner: cmd.System{}}
}

func handle(pid uint32) (*gproc.Process, error) {
	return gproc.NewProcess(int32(pid))
}

// Suspend implements Host.
func (s *System) Suspend(pid uint32) error {
	p, err := handle(pid)
	if err != nil {
		return err
	}
	return p.Suspend()
}

// Resume implements Host.
func (s *System) Resume(pid uint32) error {
	p, err := handle(pid)
	if err != nil {
		return err
	}
	return p.Resume()
}

// Exists implements Host.
func (s *System) Exists(pid uint32) bool {
	ok, err := gproc.PidExists(int32(pid))
	return err == nil && ok
}

// Spawn implements Host. The child is not waited on.
func (s *System) Spawn(name string) error {
	c := exec.Command(name)
	if err := c.Start(); err != nil {
		return err
	}
	return c.Process.Release()
}
