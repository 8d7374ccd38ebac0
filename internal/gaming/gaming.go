// Package gaming is the session orchestrator. It composes the tweak
// providers into one enable/disable pair and owns everything a session
// must undo.
package gaming

import (
	"errors"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"gamemode/internal/cmd"
	"gamemode/internal/detector"
	"gamemode/internal/logging"
	"gamemode/internal/memory"
	"gamemode/internal/metrics"
	"gamemode/internal/network"
	"gamemode/internal/playbook"
	"gamemode/internal/power"
	"gamemode/internal/process"
	"gamemode/internal/registry"
	"gamemode/internal/services"
	"gamemode/internal/system"
	"gamemode/internal/tweaks"
)

// ErrAlreadyActive is returned by Enable while a session is active.
var ErrAlreadyActive = errors.New("game mode is already active")

// Options selects what a session does. It is captured at enable and the
// same value must be handed back to Disable.
type Options struct {
	SuspendTargetShell bool         `json:"suspendTargetShell"`
	SuspendBrowsers    bool         `json:"suspendBrowsers"`
	SuspendLaunchers   bool         `json:"suspendLaunchers"`
	IsolateNetwork     bool         `json:"isolateNetwork"`
	AdvancedTweaks     bool         `json:"advancedTweaks"`
	Hardware           tweaks.Flags `json:"hardware"`
}

// State is the session lifecycle.
type State int32

const (
	Inactive State = iota
	Activating
	Active
	Deactivating
)

func (s State) String() string {
	switch s {
	case Activating:
		return "activating"
	case Active:
		return "active"
	case Deactivating:
		return "deactivating"
	default:
		return "inactive"
	}
}

// Notifier receives active/inactive transitions.
type Notifier func(active bool)

// Flusher trims process working sets.
type Flusher interface {
	FlushWorkingSets(self uint32) memory.FlushResult
}

// Report is the outcome of one transition. Results maps an operation name
// to whether it succeeded; operations that did not run are absent.
type Report struct {
	SessionID  string          `json:"sessionId"`
	Transition string          `json:"transition"`
	Results    map[string]bool `json:"results"`
	Game       detector.Match  `json:"game"`
	GameFound  bool            `json:"gameFound"`
	Duration   time.Duration   `json:"duration"`
}

// Failed lists the operations that reported failure, sorted.
func (r Report) Failed() []string {
	var out []string
	for op, ok := range r.Results {
		if !ok {
			out = append(out, op)
		}
	}
	sort.Strings(out)
	return out
}

type recorder struct {
	mu  sync.Mutex
	rep *Report
}

func (r *recorder) set(op string, ok bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.rep.Results[op] = ok
}

// Deps are the OS surfaces an Orchestrator drives.
type Deps struct {
	Store     registry.Store
	Services  services.Manager
	Processes process.Host
	Power     power.Manager
	Windows   detector.Enumerator
	Runner    cmd.Runner
	Flusher   Flusher
	// IsDesktop classifies the chassis. Defaults to system.IsDesktop.
	IsDesktop func() bool
	Self      uint32
	Notify    Notifier
	Log       *zap.Logger
}

// session is everything one enable captured.
type session struct {
	id              string
	opts            Options
	suspended       []uint32
	shellUX         bool
	stopped         []string
	networkIsolated bool
	alwaysOn        *registry.Snapshot
	shellFlag       *registry.Original
}

// Orchestrator runs session transitions. Enable and Disable are serialised;
// State may be read at any time.
type Orchestrator struct {
	store     registry.Store
	windows   detector.Enumerator
	flusher   Flusher
	isDesktop func() bool
	self      uint32
	notify    Notifier
	log       *zap.Logger

	services *services.Controller
	procs    *process.Lifecycle
	power    *power.Plan
	network  *network.Isolation
	tweaks   *tweaks.Provider
	playbook *playbook.Playbook

	transition sync.Mutex
	state      atomic.Int32
	sess       session
}

// New wires an Orchestrator and its providers.
func New(d Deps) *Orchestrator {
	log := logging.OrNop(d.Log)
	procs := process.New(d.Processes, log)
	o := &Orchestrator{
		store:     d.Store,
		windows:   d.Windows,
		flusher:   d.Flusher,
		isDesktop: d.IsDesktop,
		self:      d.Self,
		notify:    d.Notify,
		log:       log.Named("session"),

		services: services.NewController(d.Services, log),
		procs:    procs,
		power:    power.NewPlan(d.Power, log),
		network:  network.NewIsolation(d.Store, log),
		tweaks:   tweaks.NewProvider(d.Store, d.Power, procs, tweaks.NewNetsh(d.Runner, log), d.Self, log),
		playbook: playbook.NewPlaybook(d.Store, d.Services, log),
	}
	if o.isDesktop == nil {
		o.isDesktop = system.IsDesktop
	}
	if o.notify == nil {
		o.notify = func(bool) {}
	}
	return o
}

// State returns the current lifecycle state.
func (o *Orchestrator) State() State {
	return State(o.state.Load())
}

// Active reports whether a session is active.
func (o *Orchestrator) Active() bool {
	return o.State() == Active
}

// EnabledOptions returns the options of the active session.
func (o *Orchestrator) EnabledOptions() (Options, bool) {
	o.transition.Lock()
	defer o.transition.Unlock()
	return o.sess.opts, o.State() == Active
}

// DetectGame runs the workload detector.
func (o *Orchestrator) DetectGame() (detector.Match, bool) {
	if o.windows == nil {
		return detector.Match{}, false
	}
	return detector.Detect(o.windows, o.self)
}

// Enable starts a session. Every step is best-effort and the returned
// Report records which ones failed.
func (o *Orchestrator) Enable(opts Options) (Report, error) {
	o.transition.Lock()
	defer o.transition.Unlock()

	if o.State() == Active {
		return Report{}, ErrAlreadyActive
	}
	o.state.Store(int32(Activating))

	start := time.Now()
	sess := session{id: uuid.NewString(), opts: opts}
	rep := Report{SessionID: sess.id, Transition: "enable", Results: make(map[string]bool)}
	rec := &recorder{rep: &rep}
	log := o.log.With(zap.String("session", sess.id))
	log.Info("enabling game mode", zap.Any("options", opts))

	if opts.SuspendTargetShell {
		rep.Game, rep.GameFound = o.DetectGame()
		rec.set("detect", rep.GameFound)
	}

	if opts.AdvancedTweaks {
		o.playbook.Enable()
		rec.set("playbook", o.playbook.Applied())
	}
	for t, ok := range o.tweaks.Enable(opts.Hardware) {
		rec.set("tweak_"+string(t), ok)
	}

	sess.alwaysOn = registry.Apply(o.store, alwaysOn)
	rec.set("always_on", sess.alwaysOn.Len() == len(alwaysOn))

	if o.isDesktop() {
		rec.set("power_desktop", o.power.ActivateHighPerformance() != "")
	} else {
		rec.set("power_laptop", o.power.BoostLaptop())
	}

	if opts.SuspendTargetShell {
		o.procs.TerminateByName(StartMenuReplacements)
		orig := registry.Capture(o.store, registry.LocalMachine, winlogonPath, autoRestartShell)
		sess.shellFlag = &orig
		rec.set("auto_restart_shell_off", o.store.Write(registry.LocalMachine, winlogonPath, autoRestartShell, registry.DWord(0)))
		o.procs.TerminateByName([]string{shellProcess})
		if rep.GameFound {
			rec.set("focus", o.windows.Focus(rep.Game.Window))
		}
	}

	var g errgroup.Group
	g.Go(func() error {
		sess.stopped = o.services.StopAll(services.Catalog)
		return nil
	})
	g.Go(func() error {
		if o.flusher == nil {
			return nil
		}
		res := o.flusher.FlushWorkingSets(o.self)
		rec.set("memory_flush", res.Trimmed > 0)
		return nil
	})
	if opts.IsolateNetwork {
		sess.networkIsolated = true
		g.Go(func() error {
			res := o.network.Enable()
			rec.set("network_isolation", res.Multicast && res.Failed == 0)
			return nil
		})
	}

	sess.suspended = o.procs.SuspendByName(ShellUX)
	sess.shellUX = true
	o.procs.TerminateByName(killList(opts))

	_ = g.Wait()

	o.sess = sess
	o.state.Store(int32(Active))
	rep.Duration = time.Since(start)
	o.observe("enable", rep)
	log.Info("game mode enabled",
		zap.Strings("stoppedServices", sess.stopped),
		zap.Int("suspended", len(sess.suspended)),
		zap.Strings("failed", rep.Failed()),
		zap.Duration("took", rep.Duration))
	o.notify(true)
	return rep, nil
}

// Disable reverts what the current session captured, gated by opts. On a
// fresh orchestrator it only rewrites the auto-restart-shell flag.
func (o *Orchestrator) Disable(opts Options) Report {
	o.transition.Lock()
	defer o.transition.Unlock()
	return o.disable(opts)
}

// DisableSession ends the session with the given id using the options it
// was enabled with. It does nothing when that session is no longer active.
func (o *Orchestrator) DisableSession(id string) (Report, bool) {
	o.transition.Lock()
	defer o.transition.Unlock()
	if o.State() != Active || o.sess.id != id {
		return Report{}, false
	}
	return o.disable(o.sess.opts), true
}

func (o *Orchestrator) disable(opts Options) Report {
	wasActive := o.State() == Active
	o.state.Store(int32(Deactivating))

	start := time.Now()
	sess := o.sess
	rep := Report{SessionID: sess.id, Transition: "disable", Results: make(map[string]bool)}
	rec := &recorder{rep: &rep}
	log := o.log.With(zap.String("session", sess.id))
	log.Info("disabling game mode", zap.Bool("wasActive", wasActive))

	var g errgroup.Group
	if opts.SuspendTargetShell {
		g.Go(func() error {
			if o.procs.RestartIfAbsent(shellProcess) {
				rec.set("shell_restart", true)
			}
			return nil
		})
	}
	g.Go(func() error {
		started := o.services.Restore(sess.stopped)
		if len(sess.stopped) > 0 {
			rec.set("services", len(started) == len(sess.stopped))
		}
		return nil
	})
	g.Go(func() error {
		resumed := o.procs.ResumeByPID(sess.suspended)
		if len(sess.suspended) > 0 {
			rec.set("resume", resumed == len(sess.suspended))
		}
		if sess.shellUX {
			o.procs.ResumeByName(ShellUX)
		}
		return nil
	})
	if sess.networkIsolated {
		g.Go(func() error {
			res := o.network.Disable()
			rec.set("network_restore", res.Multicast && res.Failed == 0)
			return nil
		})
	}

	if sess.alwaysOn != nil {
		rec.set("always_on", sess.alwaysOn.Restore(o.store) == sess.alwaysOn.Len())
	}
	rec.set("auto_restart_shell_on", o.restoreShellFlag(sess.shellFlag))
	if wasActive {
		rec.set("power", o.power.Revert())
	}

	_ = g.Wait()

	for t, ok := range o.tweaks.Disable(opts.Hardware) {
		rec.set("tweak_"+string(t), ok)
	}
	if opts.AdvancedTweaks && o.playbook.Applied() {
		o.playbook.Disable()
		rec.set("playbook", !o.playbook.Applied())
	}

	o.sess = session{}
	o.state.Store(int32(Inactive))
	rep.Duration = time.Since(start)
	o.observe("disable", rep)
	log.Info("game mode disabled", zap.Strings("failed", rep.Failed()), zap.Duration("took", rep.Duration))
	if wasActive {
		o.notify(false)
	}
	return rep
}

// restoreShellFlag writes back the captured AutoRestartShell value, or 1
// when nothing usable was captured.
func (o *Orchestrator) restoreShellFlag(orig *registry.Original) bool {
	if orig != nil && orig.Existed {
		return registry.RestoreOriginal(o.store, *orig)
	}
	return o.store.Write(registry.LocalMachine, winlogonPath, autoRestartShell, registry.DWord(1))
}

func (o *Orchestrator) observe(transition string, rep Report) {
	metrics.SessionTransitionsTotal.WithLabelValues(transition).Inc()
	metrics.SessionTransitionDuration.WithLabelValues(transition).Observe(rep.Duration.Seconds())
}
