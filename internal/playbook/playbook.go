// Package playbook applies the optional advanced tweak set: service
// start-type hardening plus a registry batch, both reverted as a unit.
package playbook

import (
	"sync"

	"go.uber.org/zap"

	"gamemode/internal/logging"
	"gamemode/internal/metrics"
	"gamemode/internal/registry"
	"gamemode/internal/services"
)

// Services are disabled for as long as the playbook is applied.
var Services = []string{
	"DiagTrack",
	"WerSvc",
	"DPS",
	"WdiServiceHost",
	"WdiSystemHost",
	"PcaSvc",
	"wisvc",
	"WSearch",
	"SysMain",
	"FontCache",
	"Themes",
	"TabletInputService",
	"CDPSvc",
	"CDPUserSvc",
	"MapsBroker",
	"lfsvc",
	"WbioSrvc",
	"iphlpsvc",
}

const (
	deviceGuardPath   = `SYSTEM\CurrentControlSet\Control\DeviceGuard`
	memoryMgmtPath    = `SYSTEM\CurrentControlSet\Control\Session Manager\Memory Management`
	systemProfilePath = `SOFTWARE\Microsoft\Windows NT\CurrentVersion\Multimedia\SystemProfile`
	gamesTaskPath     = systemProfilePath + `\Tasks\Games`
	folderShellPath   = `SOFTWARE\Classes\Local Settings\Software\Microsoft\Windows\Shell\Bags\AllFolders\Shell`
	boostModePath     = `SYSTEM\CurrentControlSet\Control\Power\PowerSettings\54533251-82be-4824-96c1-47b60b740d00\be337238-0d82-4146-a960-4f3749d470c7`
)

func hklm(path, name string, v registry.Value) registry.Tweak {
	return registry.Tweak{Root: registry.LocalMachine, Path: path, Name: name, Value: v}
}

// Tweaks is the registry batch applied after the services.
var Tweaks = []registry.Tweak{
	hklm(deviceGuardPath, "EnableVirtualizationBasedSecurity", registry.DWord(0)),
	hklm(deviceGuardPath+`\Scenarios\HypervisorEnforcedCodeIntegrity`, "Enabled", registry.DWord(0)),
	hklm(memoryMgmtPath, "FeatureSettingsOverride", registry.DWord(3)),
	hklm(memoryMgmtPath, "FeatureSettingsOverrideMask", registry.DWord(3)),
	hklm(`SYSTEM\CurrentControlSet\Control`, "WaitToKillServiceTimeout", registry.DWord(1500)),
	hklm(`SOFTWARE\Microsoft\Windows NT\CurrentVersion\Schedule\Maintenance`, "MaintenanceDisabled", registry.DWord(1)),
	hklm(`SOFTWARE\Policies\Microsoft\Windows\DataCollection`, "AllowTelemetry", registry.DWord(0)),
	hklm(`SOFTWARE\Microsoft\Windows\CurrentVersion\Policies\DataCollection`, "AllowTelemetry", registry.DWord(0)),
	hklm(`SOFTWARE\Microsoft\PolicyManager\current\device\System`, "AllowExperimentation", registry.DWord(0)),
	hklm(`SOFTWARE\Policies\Microsoft\Windows\PreviewBuilds`, "EnableConfigFlighting", registry.DWord(0)),
	hklm(`SOFTWARE\Policies\Microsoft\Windows\Windows Search`, "AllowCortana", registry.DWord(0)),
	hklm(`SOFTWARE\Microsoft\MSMQ\Parameters`, "TCPNoDelay", registry.DWord(1)),
	hklm(boostModePath, "Attributes", registry.DWord(2)),
	hklm(`SYSTEM\CurrentControlSet\Control\GraphicsDrivers`, "HwSchMode", registry.DWord(2)),
	hklm(systemProfilePath, "SystemResponsiveness", registry.DWord(0)),
	hklm(systemProfilePath, "NetworkThrottlingIndex", registry.DWord(0xffffffff)),
	hklm(gamesTaskPath, "Priority", registry.DWord(6)),
	hklm(`SYSTEM\CurrentControlSet\Control\Power\PowerThrottling`, "PowerThrottlingOff", registry.DWord(1)),
	hklm(folderShellPath, "FolderType", registry.String("NotSpecified")),
	hklm(gamesTaskPath, "Scheduling Category", registry.String("High")),
	hklm(gamesTaskPath, "SFIO Priority", registry.String("High")),
}

type serviceState struct {
	name       string
	startType  uint32
	wasRunning bool
}

// Playbook owns the captured state of one application. The zero state is
// "not applied".
type Playbook struct {
	store registry.Store
	mgr   services.Manager
	log   *zap.Logger

	mu       sync.Mutex
	applied  bool
	services []serviceState
	snapshot *registry.Snapshot
}

// NewPlaybook creates an unapplied Playbook.
func NewPlaybook(store registry.Store, mgr services.Manager, log *zap.Logger) *Playbook {
	return &Playbook{store: store, mgr: mgr, log: logging.OrNop(log).Named("playbook")}
}

// Applied reports whether Enable has run without a matching Disable.
func (p *Playbook) Applied() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.applied
}

// Enable disables and stops the service list, then writes the registry
// batch. Calling it again before Disable does nothing.
func (p *Playbook) Enable() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.applied {
		return
	}

	p.services = p.services[:0]
	for _, name := range Services {
		path := services.StartTypePath(name)
		v, ok := p.store.Read(registry.LocalMachine, path, "Start")
		if !ok || v.Kind != registry.Integer {
			// Not installed.
			continue
		}
		start := v.Int
		state, err := p.mgr.Query(name)
		running := err == nil && state == services.Running
		p.services = append(p.services, serviceState{name: name, startType: start, wasRunning: running})

		p.store.Write(registry.LocalMachine, path, "Start", registry.DWord(services.StartDisabled))
		if running {
			err := p.mgr.Stop(name)
			metrics.Observe("playbook", "stop_service", err == nil)
			if err != nil {
				p.log.Debug("stop failed", zap.String("service", name), zap.Error(err))
			}
		}
	}

	p.snapshot = registry.Apply(p.store, Tweaks)
	p.applied = true
	p.log.Info("playbook applied",
		zap.Int("services", len(p.services)),
		zap.Int("values", p.snapshot.Len()))
}

// Disable restores start types, restarts the services that were running
// and reverts the registry batch. It does nothing when not applied.
func (p *Playbook) Disable() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if !p.applied {
		return
	}

	for _, s := range p.services {
		p.store.Write(registry.LocalMachine, services.StartTypePath(s.name), "Start", registry.DWord(s.startType))
		if !s.wasRunning {
			continue
		}
		if state, err := p.mgr.Query(s.name); err == nil && state != services.Stopped {
			continue
		}
		err := p.mgr.Start(s.name)
		metrics.Observe("playbook", "start_service", err == nil)
		if err != nil {
			p.log.Debug("start failed", zap.String("service", s.name), zap.Error(err))
		}
	}

	restored := p.snapshot.Restore(p.store)
	p.log.Info("playbook reverted", zap.Int("values", restored))

	p.services = nil
	p.snapshot = nil
	p.applied = false
}
