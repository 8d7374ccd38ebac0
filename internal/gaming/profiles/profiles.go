// Package profiles holds named session option presets.
package profiles

import (
	"gamemode/internal/gaming"
	"gamemode/internal/tweaks"
)

// Profile is a named set of session options.
type Profile struct {
	ID          string         `json:"id"`
	Name        string         `json:"name"`
	Icon        string         `json:"icon"`
	Description string         `json:"description"`
	Options     gaming.Options `json:"options"`
}

// AllProfiles returns every preset.
func AllProfiles() []Profile {
	return []Profile{
		Competitive(),
		Balanced(),
		Streaming(),
		Nuclear(),
	}
}

// GetProfileByID returns the preset with id, or nil.
func GetProfileByID(id string) *Profile {
	for _, p := range AllProfiles() {
		if p.ID == id {
			return &p
		}
	}
	return nil
}

// Competitive targets shooters where input latency matters most.
func Competitive() Profile {
	return Profile{
		ID:          "competitive",
		Name:        "Competitive",
		Icon:        "crosshair",
		Description: "Lowest latency for Valorant, CS2 and Apex. Kills the shell and browsers and isolates the network.",
		Options: gaming.Options{
			SuspendTargetShell: true,
			SuspendBrowsers:    true,
			SuspendLaunchers:   true,
			IsolateNetwork:     true,
			Hardware: tweaks.Flags{
				CoreParking:     true,
				MMCSS:           true,
				ProcessDemotion: true,
				Bufferbloat:     true,
			},
		},
	}
}

// Balanced keeps the desktop usable.
func Balanced() Profile {
	return Profile{
		ID:          "balanced",
		Name:        "Balanced",
		Icon:        "gamepad",
		Description: "Power plan, services and scheduler tuning. Leaves the shell, browsers and launchers alone.",
		Options: gaming.Options{
			Hardware: tweaks.Flags{
				CoreParking: true,
				MMCSS:       true,
			},
		},
	}
}

// Streaming keeps browsers and launchers for chat and overlays but still
// demotes background work.
func Streaming() Profile {
	return Profile{
		ID:          "streaming",
		Name:        "Streaming",
		Icon:        "broadcast",
		Description: "Keeps browsers, launchers and the network stack intact for streaming tools.",
		Options: gaming.Options{
			SuspendTargetShell: true,
			Hardware: tweaks.Flags{
				CoreParking:     true,
				MMCSS:           true,
				ProcessDemotion: true,
			},
		},
	}
}

// Nuclear turns everything on, including the advanced playbook.
func Nuclear() Profile {
	return Profile{
		ID:          "nuclear",
		Name:        "Nuclear",
		Icon:        "radiation",
		Description: "Every option and every tweak. Use for dedicated sessions only.",
		Options: gaming.Options{
			SuspendTargetShell: true,
			SuspendBrowsers:    true,
			SuspendLaunchers:   true,
			IsolateNetwork:     true,
			AdvancedTweaks:     true,
			Hardware: tweaks.Flags{
				CoreParking:     true,
				MMCSS:           true,
				LargePages:      true,
				HAGS:            true,
				ProcessDemotion: true,
				Bufferbloat:     true,
			},
		},
	}
}
