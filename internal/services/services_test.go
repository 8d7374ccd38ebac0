package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStopAllRecordsOnlySuccessfulStops(t *testing.T) {
	fake := NewFake("SysMain", "WSearch", "Spooler")
	fake.Set("Fax", Stopped)
	fake.FailOn("Spooler")

	stopped := NewController(fake, nil).StopAll(Catalog)

	assert.Equal(t, []string{"SysMain", "WSearch"}, stopped)
	assert.Equal(t, Stopped, fake.State("SysMain"))
	assert.Equal(t, Running, fake.State("Spooler"))
	assert.ElementsMatch(t, []string{"SysMain", "WSearch", "Spooler"}, fake.Stops)
}

func TestRestoreTouchesOnlyGivenNames(t *testing.T) {
	fake := NewFake()
	fake.Set("SysMain", Stopped)
	fake.Set("WSearch", Running) // restarted externally in between
	fake.Set("DiagTrack", Stopped)

	started := NewController(fake, nil).Restore([]string{"SysMain", "WSearch"})

	assert.Equal(t, []string{"SysMain"}, started)
	assert.Equal(t, []string{"SysMain"}, fake.Starts)
	assert.Equal(t, Stopped, fake.State("DiagTrack"))
}

func TestRestoreEmpty(t *testing.T) {
	fake := NewFake("SysMain")
	assert.Empty(t, NewController(fake, nil).Restore(nil))
	stops, starts := fake.Calls()
	assert.Zero(t, stops)
	assert.Zero(t, starts)
}

func TestStateString(t *testing.T) {
	tests := []struct {
		state    State
		expected string
	}{
		{Stopped, "stopped"},
		{Running, "running"},
		{Pending, "pending"},
		{Unknown, "unknown"},
	}
	for _, tt := range tests {
		t.Run(tt.expected, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.state.String())
		})
	}
}

func TestStartTypePath(t *testing.T) {
	assert.Equal(t, `SYSTEM\CurrentControlSet\Services\DiagTrack`, StartTypePath("DiagTrack"))
}
