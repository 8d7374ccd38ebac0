package playbook

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gamemode/internal/registry"
	"gamemode/internal/services"
)

func TestEnableDisableRoundTrip(t *testing.T) {
	store := registry.NewMemory()
	store.Write(registry.LocalMachine, services.StartTypePath("DiagTrack"), "Start", registry.DWord(2))
	store.Write(registry.LocalMachine, services.StartTypePath("SysMain"), "Start", registry.DWord(2))
	store.Write(registry.LocalMachine, services.StartTypePath("WSearch"), "Start", registry.DWord(3))
	store.Write(registry.LocalMachine, gamesTaskPath, "Priority", registry.DWord(2))
	store.Write(registry.LocalMachine, gamesTaskPath, "Scheduling Category", registry.String("Medium"))
	before := store.Dump()

	mgr := services.NewFake("DiagTrack", "SysMain")
	mgr.Set("WSearch", services.Stopped)

	pb := NewPlaybook(store, mgr, nil)
	pb.Enable()
	require.True(t, pb.Applied())

	v, ok := store.Read(registry.LocalMachine, services.StartTypePath("DiagTrack"), "Start")
	require.True(t, ok)
	assert.Equal(t, services.StartDisabled, v.Int)
	v, _ = store.Read(registry.LocalMachine, gamesTaskPath, "Scheduling Category")
	assert.Equal(t, registry.String("High"), v)
	assert.ElementsMatch(t, []string{"DiagTrack", "SysMain"}, mgr.Stops)

	pb.Disable()
	assert.False(t, pb.Applied())
	assert.ElementsMatch(t, []string{"DiagTrack", "SysMain"}, mgr.Starts)
	assert.Equal(t, services.Stopped, mgr.State("WSearch"))

	after := store.Dump()
	for k, want := range before {
		assert.Equal(t, want, after[k], k)
	}
	seeded := map[string]bool{"DiagTrack": true, "SysMain": true, "WSearch": true}
	for _, name := range Services {
		if seeded[name] {
			continue
		}
		_, ok := store.Read(registry.LocalMachine, services.StartTypePath(name), "Start")
		assert.False(t, ok, "%s gained a start type", name)
	}
	_, ok = store.Read(registry.LocalMachine, gamesTaskPath, "SFIO Priority")
	assert.False(t, ok)
}

func TestEnableTwiceIsNoop(t *testing.T) {
	store := registry.NewMemory()
	store.Write(registry.LocalMachine, services.StartTypePath("DiagTrack"), "Start", registry.DWord(services.StartManual))
	mgr := services.NewFake("DiagTrack")

	pb := NewPlaybook(store, mgr, nil)
	pb.Enable()
	pb.Enable()

	stops, _ := mgr.Calls()
	assert.Equal(t, 1, stops)

	pb.Disable()
	v, _ := store.Read(registry.LocalMachine, services.StartTypePath("DiagTrack"), "Start")
	assert.Equal(t, services.StartManual, v.Int)
}

func TestDisableWithoutEnable(t *testing.T) {
	store := registry.NewMemory()
	mgr := services.NewFake("DiagTrack")

	NewPlaybook(store, mgr, nil).Disable()

	stops, starts := mgr.Calls()
	assert.Zero(t, stops)
	assert.Zero(t, starts)
	assert.Empty(t, store.Dump())
}

func TestEnableSkipsUninstalledServices(t *testing.T) {
	store := registry.NewMemory()
	mgr := services.NewFake("DiagTrack")

	pb := NewPlaybook(store, mgr, nil)
	pb.Enable()
	pb.Disable()

	stops, starts := mgr.Calls()
	assert.Zero(t, stops)
	assert.Zero(t, starts)
	for _, name := range Services {
		_, ok := store.Read(registry.LocalMachine, services.StartTypePath(name), "Start")
		assert.False(t, ok, name)
	}
}
