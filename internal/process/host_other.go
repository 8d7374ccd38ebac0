//go:build !windows

package process

import (
	"errors"

	gproc "github.com/shirou/gopsutil/v4/process"
)

// Snapshot implements Host using gopsutil.
func (s *System) Snapshot() ([]Info, error) {
	procs, err := gproc.Processes()
	if err != nil {
		return nil, err
	}
	out := make([]Info, 0, len(procs))
	for _, p := range procs {
		name, err := p.Name()
		if err != nil {
			continue
		}
		out = append(out, Info{PID: uint32(p.Pid), Name: name})
	}
	return out, nil
}

// SetPriority is not implemented outside Windows.
func (s *System) SetPriority(uint32, Priority) error {
	return ErrUnsupported
}

// Kill implements Host by signalling every matching process.
func (s *System) Kill(names []string) error {
	procs, err := s.Snapshot()
	if err != nil {
		return err
	}
	set := NewSet(names...)
	var errs []error
	for _, p := range procs {
		if !set.Has(p.Name) {
			continue
		}
		h, err := handle(p.PID)
		if err != nil {
			continue
		}
		errs = append(errs, h.Kill())
	}
	return errors.Join(errs...)
}
