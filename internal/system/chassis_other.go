//go:build !windows

package system

import "os"

// chassisTypes reads the DMI chassis type exposed by Linux; elsewhere the
// enclosure is unknown.
func chassisTypes() []int32 {
	b, err := os.ReadFile("/sys/class/dmi/id/chassis_type")
	if err != nil {
		return nil
	}
	return parseChassisOutput(string(b))
}
