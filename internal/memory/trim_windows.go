package memory

import (
	"fmt"

	"golang.org/x/sys/windows"
)

var (
	kernel32                     = windows.NewLazySystemDLL("kernel32.dll")
	procSetProcessWorkingSetSize = kernel32.NewProc("SetProcessWorkingSetSize")
)

// trimWorkingSet calls SetProcessWorkingSetSize(-1, -1), which asks
// Windows to empty the process working set.
func trimWorkingSet(pid uint32) error {
	const access = windows.PROCESS_SET_QUOTA | windows.PROCESS_QUERY_LIMITED_INFORMATION

	handle, err := windows.OpenProcess(access, false, pid)
	if err != nil {
		return fmt.Errorf("failed to open process %d: %w", pid, err)
	}
	defer windows.CloseHandle(handle)

	ret, _, callErr := procSetProcessWorkingSetSize.Call(uintptr(handle), ^uintptr(0), ^uintptr(0))
	if ret == 0 {
		return fmt.Errorf("SetProcessWorkingSetSize failed for PID %d: %w", pid, callErr)
	}
	return nil
}
