package profiles

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAllProfiles(t *testing.T) {
	var ids []string
	for _, p := range AllProfiles() {
		ids = append(ids, p.ID)
		assert.NotEmpty(t, p.Name, p.ID)
		assert.NotEmpty(t, p.Description, p.ID)
	}
	assert.Equal(t, []string{"competitive", "balanced", "streaming", "nuclear"}, ids)
}

func TestGetProfileByID(t *testing.T) {
	tests := []struct {
		id    string
		found bool
	}{
		{"competitive", true},
		{"balanced", true},
		{"streaming", true},
		{"nuclear", true},
		{"competitive_fps", false},
		{"", false},
	}
	for _, tt := range tests {
		t.Run(tt.id, func(t *testing.T) {
			p := GetProfileByID(tt.id)
			if !tt.found {
				assert.Nil(t, p)
				return
			}
			require.NotNil(t, p)
			assert.Equal(t, tt.id, p.ID)
		})
	}
}

func TestNuclearEnablesEverything(t *testing.T) {
	o := Nuclear().Options
	assert.True(t, o.SuspendTargetShell)
	assert.True(t, o.SuspendBrowsers)
	assert.True(t, o.SuspendLaunchers)
	assert.True(t, o.IsolateNetwork)
	assert.True(t, o.AdvancedTweaks)
	h := o.Hardware
	assert.True(t, h.CoreParking && h.MMCSS && h.LargePages && h.HAGS && h.ProcessDemotion && h.Bufferbloat)
}

func TestMilderPresetsKeepDesktop(t *testing.T) {
	assert.False(t, Balanced().Options.SuspendTargetShell)
	assert.False(t, Streaming().Options.SuspendBrowsers)
	assert.False(t, Streaming().Options.IsolateNetwork)
	assert.False(t, Competitive().Options.AdvancedTweaks)
}
