// Package tweaks is the hardware-tweak provider: six independently gated
// low-level tunables that capture what they change and put it back.
package tweaks

import (
	"sync"

	"go.uber.org/zap"

	"gamemode/internal/logging"
	"gamemode/internal/metrics"
	"gamemode/internal/power"
	"gamemode/internal/process"
	"gamemode/internal/registry"
)

// Flags selects which tunables a session applies.
type Flags struct {
	CoreParking     bool `json:"coreParking"`
	MMCSS           bool `json:"mmcss"`
	LargePages      bool `json:"largePages"`
	HAGS            bool `json:"hags"`
	ProcessDemotion bool `json:"processDemotion"`
	Bufferbloat     bool `json:"bufferbloat"`
}

// Any reports whether at least one tunable is selected.
func (f Flags) Any() bool {
	return f.CoreParking || f.MMCSS || f.LargePages || f.HAGS || f.ProcessDemotion || f.Bufferbloat
}

// Tweak names a tunable.
type Tweak string

const (
	CoreParking     Tweak = "core_parking"
	MMCSS           Tweak = "mmcss"
	LargePages      Tweak = "large_pages"
	HAGS            Tweak = "hags"
	ProcessDemotion Tweak = "process_demotion"
	Bufferbloat     Tweak = "bufferbloat"
)

// Result maps each tunable that ran to whether it fully succeeded.
type Result map[Tweak]bool

const (
	systemProfilePath = `SOFTWARE\Microsoft\Windows NT\CurrentVersion\Multimedia\SystemProfile`
	gamesTaskPath     = systemProfilePath + `\Tasks\Games`
	memoryMgmtPath    = `SYSTEM\CurrentControlSet\Control\Session Manager\Memory Management`
	graphicsPath      = `SYSTEM\CurrentControlSet\Control\GraphicsDrivers`

	processorAlias  = "sub_processor"
	minCoresSetting = "CPMINCORES"
	maxCoresSetting = "CPMAXCORES"
)

// Core parking values written and the Windows defaults restored when
// nothing could be read.
const (
	unparkedPercent uint32 = 100
	defaultMinCores uint32 = 50
	defaultMaxCores uint32 = 100
)

// tunable is one registry value a tweak forces. fallback is written on
// restore when the value did not exist beforehand; without one the value is
// deleted again.
type tunable struct {
	path     string
	name     string
	value    registry.Value
	fallback *registry.Value
}

func withDefault(v registry.Value) *registry.Value { return &v }

var mmcssTunables = []tunable{
	{systemProfilePath, "SystemResponsiveness", registry.DWord(0), withDefault(registry.DWord(20))},
	{systemProfilePath, "NoLazyMode", registry.DWord(1), withDefault(registry.DWord(0))},
	{gamesTaskPath, "Scheduling Category", registry.String("High"), nil},
	{gamesTaskPath, "SFIO Priority", registry.String("High"), nil},
	{gamesTaskPath, "Background Only", registry.String("False"), nil},
	{gamesTaskPath, "Clock Rate", registry.DWord(10000), nil},
}

var largePageTunables = []tunable{
	{memoryMgmtPath, "LargeSystemCache", registry.DWord(1), withDefault(registry.DWord(0))},
	{memoryMgmtPath, "LargePageMinimum", registry.DWord(1), nil},
}

var hagsTunables = []tunable{
	{graphicsPath, "HwSchMode", registry.DWord(2), nil},
}

// DemotionTargets are background processes moved to idle priority.
var DemotionTargets = []string{
	"SearchIndexer", "SecurityHealthService", "SgrmBroker", "compattelrunner",
	"MsMpEng", "NisSrv", "WmiPrvSE", "spoolsv", "dllhost", "backgroundTaskHost",
	"RuntimeBroker", "ApplicationFrameHost", "SystemSettings", "SettingSyncHost",
	"OneDrive", "GoogleDriveFS", "Dropbox",
}

type captured struct {
	t    tunable
	orig registry.Original
}

type coreParkingCapture struct {
	min, max *uint32
}

// state holds one session's captures. A nil slot means the tweak did not
// run and its restore is a no-op.
type state struct {
	coreParking *coreParkingCapture
	registry    map[Tweak][]captured
	demoted     []uint32
	demotion    bool
	autotuning  *string
}

// Provider applies and reverts the tunables.
type Provider struct {
	store registry.Store
	power power.Manager
	procs *process.Lifecycle
	netsh *Netsh
	self  uint32
	log   *zap.Logger

	mu    sync.Mutex
	state state
}

// NewProvider wires the provider to its OS surfaces. self is excluded from
// process demotion.
func NewProvider(store registry.Store, pm power.Manager, procs *process.Lifecycle, netsh *Netsh, self uint32, log *zap.Logger) *Provider {
	return &Provider{
		store: store,
		power: pm,
		procs: procs,
		netsh: netsh,
		self:  self,
		log:   logging.OrNop(log).Named("tweaks"),
		state: state{registry: make(map[Tweak][]captured)},
	}
}

// Enable applies every tunable selected in f.
func (p *Provider) Enable(f Flags) Result {
	p.mu.Lock()
	defer p.mu.Unlock()

	res := Result{}
	if f.CoreParking {
		res[CoreParking] = p.disableCoreParking()
	}
	if f.MMCSS {
		res[MMCSS] = p.applyTunables(MMCSS, mmcssTunables)
	}
	if f.LargePages {
		res[LargePages] = p.applyTunables(LargePages, largePageTunables)
	}
	if f.HAGS {
		res[HAGS] = p.applyTunables(HAGS, hagsTunables)
	}
	if f.ProcessDemotion {
		demoted, failed := p.procs.SetPriorityByName(DemotionTargets, process.Idle, p.self)
		p.state.demoted = demoted
		p.state.demotion = true
		res[ProcessDemotion] = failed == 0
	}
	if f.Bufferbloat {
		res[Bufferbloat] = p.lowerBufferbloat()
	}
	for t, ok := range res {
		metrics.Observe("tweaks", "enable_"+string(t), ok)
	}
	p.log.Debug("hardware tweaks enabled", zap.Any("result", res))
	return res
}

// Disable restores every tunable selected in f, in reverse order, using
// what Enable captured. Tunables without a capture are left alone.
func (p *Provider) Disable(f Flags) Result {
	p.mu.Lock()
	defer p.mu.Unlock()

	res := Result{}
	if f.Bufferbloat && p.state.autotuning != nil {
		level := *p.state.autotuning
		if level == "" {
			level = defaultAutotuning
		}
		res[Bufferbloat] = p.netsh.SetAutotuning(level)
		p.state.autotuning = nil
	}
	if f.ProcessDemotion && p.state.demotion {
		restored := p.procs.RestorePriority(p.state.demoted)
		res[ProcessDemotion] = restored == len(p.state.demoted)
		p.state.demoted = nil
		p.state.demotion = false
	}
	if f.HAGS {
		p.restoreTunables(HAGS, res)
	}
	if f.LargePages {
		p.restoreTunables(LargePages, res)
	}
	if f.MMCSS {
		p.restoreTunables(MMCSS, res)
	}
	if f.CoreParking && p.state.coreParking != nil {
		res[CoreParking] = p.restoreCoreParking(p.state.coreParking)
		p.state.coreParking = nil
	}
	for t, ok := range res {
		metrics.Observe("tweaks", "disable_"+string(t), ok)
	}
	p.log.Debug("hardware tweaks restored", zap.Any("result", res))
	return res
}

// DemotedPIDs returns the pids currently held at idle priority.
func (p *Provider) DemotedPIDs() []uint32 {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]uint32(nil), p.state.demoted...)
}

func (p *Provider) applyTunables(t Tweak, list []tunable) bool {
	var caps []captured
	ok := true
	for _, tu := range list {
		orig := registry.Capture(p.store, registry.LocalMachine, tu.path, tu.name)
		if orig.Existed && orig.Prior.Kind == registry.Unsupported {
			ok = false
			continue
		}
		if !p.store.Write(registry.LocalMachine, tu.path, tu.name, tu.value) {
			ok = false
			continue
		}
		caps = append(caps, captured{t: tu, orig: orig})
	}
	p.state.registry[t] = caps
	return ok
}

func (p *Provider) restoreTunables(t Tweak, res Result) {
	caps, ran := p.state.registry[t]
	if !ran {
		return
	}
	ok := true
	for i := len(caps) - 1; i >= 0; i-- {
		c := caps[i]
		switch {
		case c.orig.Existed:
			ok = p.store.Write(registry.LocalMachine, c.t.path, c.t.name, c.orig.Prior) && ok
		case c.t.fallback != nil:
			ok = p.store.Write(registry.LocalMachine, c.t.path, c.t.name, *c.t.fallback) && ok
		default:
			ok = p.store.Delete(registry.LocalMachine, c.t.path, c.t.name) && ok
		}
	}
	delete(p.state.registry, t)
	res[t] = ok
}

func (p *Provider) disableCoreParking() bool {
	c := &coreParkingCapture{}
	if v, ok := p.power.ReadAC(power.CurrentScheme, processorAlias, minCoresSetting); ok {
		c.min = &v
	}
	if v, ok := p.power.ReadAC(power.CurrentScheme, processorAlias, maxCoresSetting); ok {
		c.max = &v
	}
	p.state.coreParking = c

	ok := p.power.WriteAC(power.CurrentScheme, processorAlias, minCoresSetting, unparkedPercent)
	ok = p.power.WriteAC(power.CurrentScheme, processorAlias, maxCoresSetting, unparkedPercent) && ok
	return p.power.SetActive(power.CurrentScheme) && ok
}

func (p *Provider) restoreCoreParking(c *coreParkingCapture) bool {
	minCores, maxCores := defaultMinCores, defaultMaxCores
	if c.min != nil {
		minCores = *c.min
	}
	if c.max != nil {
		maxCores = *c.max
	}
	ok := p.power.WriteAC(power.CurrentScheme, processorAlias, minCoresSetting, minCores)
	ok = p.power.WriteAC(power.CurrentScheme, processorAlias, maxCoresSetting, maxCores) && ok
	return p.power.SetActive(power.CurrentScheme) && ok
}

func (p *Provider) lowerBufferbloat() bool {
	level, _ := p.netsh.AutotuningLevel()
	p.state.autotuning = &level
	return p.netsh.SetAutotuning(disabledAutotuning)
}
