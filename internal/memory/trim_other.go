//go:build !windows

package memory

import "errors"

func trimWorkingSet(uint32) error {
	return errors.New("working set trimming is only available on Windows")
}
