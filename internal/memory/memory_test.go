package memory

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gamemode/internal/process"
)

func TestGetMemoryStatus(t *testing.T) {
	status, err := GetMemoryStatus()
	require.NoError(t, err)
	assert.NotZero(t, status.Total)
	assert.LessOrEqual(t, status.Used, status.Total)
	assert.GreaterOrEqual(t, status.UsagePercent, 0.0)
	assert.LessOrEqual(t, status.UsagePercent, 100.0)
}

func TestFlushSkipsProtectedAndSelf(t *testing.T) {
	host := process.NewFake(
		process.Info{PID: 0, Name: "System Idle Process"},
		process.Info{PID: 4, Name: "System"},
		process.Info{PID: 100, Name: "chrome.exe"},
		process.Info{PID: 101, Name: "csrss.exe"},
		process.Info{PID: 200, Name: "gamemode.exe"},
	)
	var trimmed []uint32
	trim := func(pid uint32) error {
		if pid == 101 {
			return errors.New("access denied")
		}
		trimmed = append(trimmed, pid)
		return nil
	}

	res := NewFlusherWithTrim(host, trim, nil).FlushWorkingSets(200)

	assert.Equal(t, FlushResult{Trimmed: 1, Failed: 1}, res)
	assert.Equal(t, []uint32{100}, trimmed)
}

func TestRoundFloat(t *testing.T) {
	tests := []struct {
		input    float64
		places   int
		expected float64
	}{
		{3.14159, 2, 3.14},
		{2.675, 1, 2.7},
		{10, 0, 10},
	}
	for _, tt := range tests {
		assert.InDelta(t, tt.expected, roundFloat(tt.input, tt.places), 1e-9)
	}
}
