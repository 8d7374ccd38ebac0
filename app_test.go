package main

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"testing"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gamemode/internal/config"
	"gamemode/internal/detector"
	"gamemode/internal/gaming"
	"gamemode/internal/memory"
	"gamemode/internal/power"
	"gamemode/internal/process"
	"gamemode/internal/registry"
	"gamemode/internal/services"
)

type netshStub struct {
	mu    sync.Mutex
	level string
}

func (n *netshStub) Run(_ context.Context, name string, args ...string) ([]byte, error) {
	n.mu.Lock()
	defer n.mu.Unlock()
	line := strings.Join(args, " ")
	switch {
	case line == "int tcp show global":
		return []byte("Receive Window Auto-Tuning Level    : " + n.level + "\n"), nil
	case strings.HasPrefix(line, "int tcp set global autotuninglevel="):
		n.level = strings.TrimPrefix(line, "int tcp set global autotuninglevel=")
		return []byte("Ok.\n"), nil
	}
	return nil, fmt.Errorf("unexpected command %s %s", name, line)
}

type flushStub struct{}

func (flushStub) FlushWorkingSets(uint32) memory.FlushResult {
	return memory.FlushResult{Trimmed: 2}
}

type testApp struct {
	*App
	host   *process.Fake
	store  *registry.Memory
	runner *netshStub

	mu      sync.Mutex
	notices []bool
}

func newTestApp(t *testing.T, cfg *config.Config) *testApp {
	t.Helper()
	host := process.NewFake(
		process.Info{PID: 300, Name: "explorer.exe"},
		process.Info{PID: 700, Name: "SearchHost.exe"},
		process.Info{PID: 900, Name: "cs2.exe"},
	)
	pm := power.NewFake("balanced", power.Scheme{GUID: "balanced", Name: "Balanced", Active: true})
	pm.AddTemplate(power.UltimateGUID, "Ultimate Performance")

	ta := &testApp{host: host, store: registry.NewMemory(), runner: &netshStub{level: "normal"}}
	deps := gaming.Deps{
		Store:     ta.store,
		Services:  services.NewFake("SysMain"),
		Processes: host,
		Power:     pm,
		Windows: detector.NewFake(1920, 1080,
			detector.FakeProcess{PID: 900, Name: "cs2.exe", Window: 0x90, Bounds: detector.Rect{Right: 1920, Bottom: 1080}}),
		Runner:    ta.runner,
		Flusher:   flushStub{},
		IsDesktop: func() bool { return true },
		Self:      4242,
	}
	ta.App = newApp(cfg, deps, clockwork.NewFakeClock(), nil)
	ta.OnActive(func(active bool) {
		ta.mu.Lock()
		defer ta.mu.Unlock()
		ta.notices = append(ta.notices, active)
	})
	return ta
}

func (ta *testApp) notifications() []bool {
	ta.mu.Lock()
	defer ta.mu.Unlock()
	return append([]bool(nil), ta.notices...)
}

func TestToggle(t *testing.T) {
	ta := newTestApp(t, config.Default())

	rep, err := ta.Toggle()
	require.NoError(t, err)
	assert.Equal(t, "enable", rep.Transition)
	assert.True(t, ta.Active())

	rep, err = ta.Toggle()
	require.NoError(t, err)
	assert.Equal(t, "disable", rep.Transition)
	assert.False(t, ta.Active())
	assert.Equal(t, []bool{true, false}, ta.notifications())
}

func TestEnableWatchesDetectedGame(t *testing.T) {
	ta := newTestApp(t, config.Default())

	_, err := ta.Enable()
	require.NoError(t, err)

	pid, ok := ta.monitor.Watching()
	require.True(t, ok)
	assert.Equal(t, uint32(900), pid)
}

func TestGameExitDisablesSession(t *testing.T) {
	ta := newTestApp(t, config.Default())
	_, err := ta.Enable()
	require.NoError(t, err)

	assert.False(t, ta.monitor.Poll())

	ta.host.Remove(900)
	assert.True(t, ta.monitor.Poll())
	assert.False(t, ta.Active())
	assert.Equal(t, []bool{true, false}, ta.notifications())

	// Second poll after the exit is a no-op.
	assert.False(t, ta.monitor.Poll())
	assert.Equal(t, []bool{true, false}, ta.notifications())
}

func TestGameExitOfUnwatchedPIDIsIgnored(t *testing.T) {
	ta := newTestApp(t, config.Default())
	_, err := ta.Enable()
	require.NoError(t, err)

	ta.onGameExit(123)
	assert.True(t, ta.Active())

	ta.Disable()
	second, err := ta.Enable()
	require.NoError(t, err)
	assert.Equal(t, watch{pid: 900, session: second.SessionID}, ta.watched)
}

func TestAutoDisableOff(t *testing.T) {
	cfg := config.Default()
	cfg.Monitor.AutoDisable = false
	ta := newTestApp(t, cfg)

	_, err := ta.Enable()
	require.NoError(t, err)

	_, ok := ta.monitor.Watching()
	assert.False(t, ok)
}

func TestDisableUsesEnableTimeOptions(t *testing.T) {
	ta := newTestApp(t, config.Default())
	_, err := ta.Enable()
	require.NoError(t, err)
	assert.False(t, ta.host.Exists(300), "explorer should be gone")

	opts := ta.Options()
	opts.SuspendTargetShell = false
	ta.SetOptions(opts)

	ta.Disable()
	assert.Contains(t, ta.host.Spawned, "explorer")
	_, watching := ta.monitor.Watching()
	assert.False(t, watching)
}

func TestApplyPreset(t *testing.T) {
	ta := newTestApp(t, config.Default())

	require.True(t, ta.ApplyPreset("nuclear"))
	assert.True(t, ta.Options().AdvancedTweaks)

	assert.False(t, ta.ApplyPreset("nope"))
	assert.True(t, ta.Options().AdvancedTweaks)
}

func TestSessionIndependentToggles(t *testing.T) {
	ta := newTestApp(t, config.Default())

	assert.False(t, ta.BufferbloatFixEnabled())
	require.True(t, ta.SetBufferbloatFix(true))
	assert.True(t, ta.BufferbloatFixEnabled())
	require.True(t, ta.SetBufferbloatFix(false))
	assert.False(t, ta.BufferbloatFixEnabled())

	require.True(t, ta.SetMPO(false))
	assert.False(t, ta.MPOEnabled())
	require.True(t, ta.SetMPO(true))
	assert.True(t, ta.MPOEnabled())

	assert.False(t, ta.RunOnStartup())
	require.True(t, ta.SetRunOnStartup(true))
	assert.True(t, ta.RunOnStartup())
	require.True(t, ta.SetRunOnStartup(false))
	assert.False(t, ta.RunOnStartup())
}

func TestFlushMemory(t *testing.T) {
	ta := newTestApp(t, config.Default())

	res, ok := ta.FlushMemory()
	require.True(t, ok)
	assert.Equal(t, 2, res.Trimmed)
}
