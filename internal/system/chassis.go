// Package system classifies the host hardware. The result never changes
// while the process runs, so it is computed once.
package system

import (
	"strconv"
	"strings"
	"sync"

	"github.com/shirou/gopsutil/v4/cpu"
	"github.com/shirou/gopsutil/v4/host"
)

// Win32_SystemEnclosure chassis types that mean "desktop": desktop, low
// profile desktop, mini tower, tower, all-in-one, mini PC.
var desktopChassis = map[int32]bool{3: true, 4: true, 6: true, 7: true, 13: true, 35: true}

// Hardware is the cached classification of this machine.
type Hardware struct {
	Platform     string
	CPUModel     string
	ChassisTypes []int32
	Desktop      bool
}

var (
	hardwareOnce  sync.Once
	hardwareCache Hardware
)

// Detect returns the cached Hardware, querying the system on first use.
func Detect() Hardware {
	hardwareOnce.Do(func() {
		h := Hardware{}
		if info, err := host.Info(); err == nil {
			h.Platform = strings.TrimSpace(info.Platform + " " + info.PlatformVersion)
		}
		if infos, err := cpu.Info(); err == nil && len(infos) > 0 {
			h.CPUModel = infos[0].ModelName
		}
		h.ChassisTypes = chassisTypes()
		h.Desktop = isDesktop(h.ChassisTypes)
		hardwareCache = h
	})
	return hardwareCache
}

// IsDesktop reports whether the machine is a desktop. Laptops, tablets and
// unknown enclosures are not.
func IsDesktop() bool {
	return Detect().Desktop
}

func isDesktop(types []int32) bool {
	for _, t := range types {
		if desktopChassis[t] {
			return true
		}
	}
	return false
}

// parseChassisOutput reads chassis types from `wmic ... get ChassisTypes`
// output, e.g. "ChassisTypes\n{3}" or "{10,9}".
func parseChassisOutput(out string) []int32 {
	var types []int32
	fields := strings.FieldsFunc(out, func(r rune) bool {
		return r == '{' || r == '}' || r == ',' || r == ' ' || r == '\n' || r == '\r' || r == '\t'
	})
	for _, f := range fields {
		if v, err := strconv.ParseInt(f, 10, 32); err == nil {
			types = append(types, int32(v))
		}
	}
	return types
}
