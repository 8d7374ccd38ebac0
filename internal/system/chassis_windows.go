package system

import (
	"context"
	"fmt"

	"github.com/yusufpapurcu/wmi"

	"gamemode/internal/cmd"
)

type win32SystemEnclosure struct {
	ChassisTypes []int32
}

func chassisTypes() []int32 {
	types, err := queryEnclosure()
	if err == nil && len(types) > 0 {
		return types
	}
	out, err := cmd.System{}.Run(context.Background(), "wmic", "path", "Win32_SystemEnclosure", "get", "ChassisTypes")
	if err != nil {
		return nil
	}
	return parseChassisOutput(string(out))
}

func queryEnclosure() (types []int32, err error) {
	// wmi panics when a field type does not match the variant it receives.
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("wmi enclosure query: %v", r)
		}
	}()

	var dst []win32SystemEnclosure
	if err := wmi.Query("SELECT ChassisTypes FROM Win32_SystemEnclosure", &dst); err != nil {
		return nil, err
	}
	for _, e := range dst {
		types = append(types, e.ChassisTypes...)
	}
	return types, nil
}
