package main

import (
	"context"
	"os"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"
	"go.uber.org/zap"

	"gamemode/internal/cmd"
	"gamemode/internal/config"
	"gamemode/internal/detector"
	"gamemode/internal/gaming"
	"gamemode/internal/gaming/profiles"
	"gamemode/internal/logging"
	"gamemode/internal/memory"
	"gamemode/internal/metrics"
	"gamemode/internal/monitor"
	"gamemode/internal/power"
	"gamemode/internal/process"
	"gamemode/internal/registry"
	"gamemode/internal/services"
	"gamemode/internal/startup"
	"gamemode/internal/system"
	"gamemode/internal/tweaks"
)

// App wires the orchestrator, the monitor and the session-independent
// toggles for the console front end.
type App struct {
	cfg *config.Config
	log *zap.Logger

	orch    *gaming.Orchestrator
	monitor *monitor.Monitor
	netsh   *tweaks.Netsh
	mpo     *tweaks.MPO
	startup *startup.Registration
	flusher gaming.Flusher
	self    uint32

	mu       sync.Mutex
	opts     gaming.Options
	onActive func(active bool)
	watched  watch
}

// watch ties the monitored pid to the session that started watching it.
type watch struct {
	pid     uint32
	session string
}

// NewApp builds an App over the live operating system.
func NewApp(cfg *config.Config, log *zap.Logger) *App {
	runner := cmd.System{Timeout: cmd.DefaultTimeout}
	host := process.NewSystem()
	self := uint32(os.Getpid())
	deps := gaming.Deps{
		Store:     registry.NewSystem(log),
		Services:  services.SCM{},
		Processes: host,
		Power:     power.NewPowercfg(runner, log),
		Windows:   detector.NewDesktop(host),
		Runner:    runner,
		Flusher:   memory.NewFlusher(host, log),
		IsDesktop: system.IsDesktop,
		Self:      self,
		Log:       log,
	}
	return newApp(cfg, deps, clockwork.NewRealClock(), log)
}

func newApp(cfg *config.Config, deps gaming.Deps, clock clockwork.Clock, log *zap.Logger) *App {
	a := &App{
		cfg:     cfg,
		log:     logging.OrNop(log),
		netsh:   tweaks.NewNetsh(deps.Runner, log),
		mpo:     tweaks.NewMPO(deps.Store),
		startup: startup.New(deps.Store, log),
		flusher: deps.Flusher,
		self:    deps.Self,
		opts:    cfg.Options(),
	}
	deps.Notify = a.notify
	a.orch = gaming.New(deps)
	a.monitor = monitor.New(clock, deps.Processes.Exists, a.onGameExit, log)
	return a
}

// Run drives the session monitor until ctx is done.
func (a *App) Run(ctx context.Context) error {
	return a.monitor.Run(ctx)
}

// OnActive registers the callback for session transitions.
func (a *App) OnActive(fn func(active bool)) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.onActive = fn
}

func (a *App) notify(active bool) {
	a.mu.Lock()
	fn := a.onActive
	a.mu.Unlock()
	if fn != nil {
		fn(active)
	}
}

// Options returns the options the next enable will use.
func (a *App) Options() gaming.Options {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.opts
}

// SetOptions replaces the options for the next enable.
func (a *App) SetOptions(opts gaming.Options) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.opts = opts
}

// ApplyPreset loads a named preset into the options.
func (a *App) ApplyPreset(id string) bool {
	p := profiles.GetProfileByID(id)
	if p == nil {
		return false
	}
	a.SetOptions(p.Options)
	return true
}

// Active reports whether a session is active.
func (a *App) Active() bool {
	return a.orch.Active()
}

// Toggle enables game mode when inactive and disables it otherwise.
func (a *App) Toggle() (gaming.Report, error) {
	if a.orch.Active() {
		return a.Disable(), nil
	}
	return a.Enable()
}

// Enable starts a session with the current options and, when configured,
// starts watching the detected game.
func (a *App) Enable() (gaming.Report, error) {
	rep, err := a.orch.Enable(a.Options())
	if err != nil {
		return rep, err
	}
	if a.cfg.Monitor.AutoDisable {
		game, found := rep.Game, rep.GameFound
		if !found {
			game, found = a.orch.DetectGame()
		}
		if found {
			a.mu.Lock()
			a.watched = watch{pid: game.PID, session: rep.SessionID}
			a.mu.Unlock()
			a.monitor.Watch(game.PID)
			a.log.Info("watching game", zap.String("name", game.Name), zap.Uint32("pid", game.PID))
		}
	}
	return rep, nil
}

// Disable ends the session with the options it was enabled with.
func (a *App) Disable() gaming.Report {
	a.monitor.Stop()
	a.mu.Lock()
	a.watched = watch{}
	a.mu.Unlock()
	opts, active := a.orch.EnabledOptions()
	if !active {
		opts = a.Options()
	}
	return a.orch.Disable(opts)
}

func (a *App) onGameExit(pid uint32) {
	a.mu.Lock()
	w := a.watched
	if w.pid == pid {
		a.watched = watch{}
	}
	a.mu.Unlock()
	if w.pid != pid {
		return
	}
	a.orch.DisableSession(w.session)
}

// BufferbloatFixEnabled reports whether auto-tuning is permanently disabled.
func (a *App) BufferbloatFixEnabled() bool { return a.netsh.FixEnabled() }

// SetBufferbloatFix toggles the permanent auto-tuning change.
func (a *App) SetBufferbloatFix(on bool) bool {
	if on {
		return a.netsh.EnableFix()
	}
	return a.netsh.DisableFix()
}

// MPOEnabled reports whether multiplane overlay is enabled.
func (a *App) MPOEnabled() bool { return a.mpo.Enabled() }

// SetMPO toggles multiplane overlay.
func (a *App) SetMPO(enabled bool) bool { return a.mpo.Set(enabled) }

// RunOnStartup reports whether the logon entry exists.
func (a *App) RunOnStartup() bool { return a.startup.Enabled() }

// SetRunOnStartup adds or removes the logon entry for the running binary.
func (a *App) SetRunOnStartup(on bool) bool {
	if !on {
		return a.startup.Disable()
	}
	exe, err := os.Executable()
	if err != nil {
		a.log.Warn("could not resolve executable", zap.Error(err))
		return false
	}
	return a.startup.Enable(exe)
}

// FlushMemory trims working sets outside a session.
func (a *App) FlushMemory() (memory.FlushResult, bool) {
	if a.flusher == nil {
		return memory.FlushResult{}, false
	}
	return a.flusher.FlushWorkingSets(a.self), true
}

// Stats returns the counter summary and a one-second load sample.
func (a *App) Stats() (map[string]float64, monitor.Load, error) {
	load := monitor.Sample(time.Second)
	counters, err := metrics.Summary()
	return counters, load, err
}
