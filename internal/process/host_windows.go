package process

import (
	"context"
	"unsafe"

	"golang.org/x/sys/windows"
)

// Snapshot implements Host using a toolhelp process snapshot.
func (s *System) Snapshot() ([]Info, error) {
	snap, err := windows.CreateToolhelp32Snapshot(windows.TH32CS_SNAPPROCESS, 0)
	if err != nil {
		return nil, err
	}
	defer windows.CloseHandle(snap)

	var entry windows.ProcessEntry32
	entry.Size = uint32(unsafe.Sizeof(entry))

	var procs []Info
	for err = windows.Process32First(snap, &entry); err == nil; err = windows.Process32Next(snap, &entry) {
		procs = append(procs, Info{
			PID:  entry.ProcessID,
			Name: windows.UTF16ToString(entry.ExeFile[:]),
		})
	}
	return procs, nil
}

// SetPriority implements Host.
func (s *System) SetPriority(pid uint32, p Priority) error {
	h, err := windows.OpenProcess(windows.PROCESS_SET_INFORMATION, false, pid)
	if err != nil {
		return err
	}
	defer windows.CloseHandle(h)

	class := uint32(windows.NORMAL_PRIORITY_CLASS)
	if p == Idle {
		class = windows.IDLE_PRIORITY_CLASS
	}
	return windows.SetPriorityClass(h, class)
}

// Kill implements Host via taskkill, one /IM per image.
func (s *System) Kill(names []string) error {
	args := []string{"/F"}
	for _, n := range names {
		args = append(args, "/IM", BaseName(n)+".exe")
	}
	_, err := s.Runner.Run(context.Background(), "taskkill", args...)
	return err
}
