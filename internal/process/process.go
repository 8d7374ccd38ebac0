// Package process is the process-lifecycle provider: suspend, resume,
// terminate and re-prioritise processes by image name or pid.
package process

import (
	"errors"
	"strings"

	"go.uber.org/zap"

	"gamemode/internal/logging"
	"gamemode/internal/metrics"
)

// ErrUnsupported is returned by Host operations the platform cannot perform.
var ErrUnsupported = errors.New("operation not supported on this platform")

// Info is one entry of a process snapshot.
type Info struct {
	PID  uint32
	Name string
}

// Priority is a scheduling class.
type Priority int

const (
	Normal Priority = iota
	Idle
)

// Host is the operating-system surface the provider drives.
type Host interface {
	// Snapshot lists live processes in OS order.
	Snapshot() ([]Info, error)
	Suspend(pid uint32) error
	Resume(pid uint32) error
	SetPriority(pid uint32, p Priority) error
	Exists(pid uint32) bool
	// Kill force-terminates every process whose image matches one of names.
	Kill(names []string) error
	// Spawn starts a new detached instance of the named executable.
	Spawn(name string) error
}

// Well-known pids that must never be touched.
const (
	idlePID   = 0
	systemPID = 4
)

// BaseName strips a trailing ".exe" (any case) from an image name.
func BaseName(image string) string {
	if len(image) > 4 && strings.EqualFold(image[len(image)-4:], ".exe") {
		return image[:len(image)-4]
	}
	return image
}

// Set is a case-insensitive set of image names without extension.
type Set map[string]struct{}

// NewSet builds a Set from names, with or without ".exe".
func NewSet(names ...string) Set {
	s := make(Set, len(names))
	for _, n := range names {
		s[strings.ToLower(BaseName(n))] = struct{}{}
	}
	return s
}

// Has reports whether image is in the set.
func (s Set) Has(image string) bool {
	_, ok := s[strings.ToLower(BaseName(image))]
	return ok
}

// Lifecycle implements the by-name process operations over a Host.
type Lifecycle struct {
	host   Host
	policy TerminatePolicy
	log    *zap.Logger
}

// Option configures a Lifecycle.
type Option func(*Lifecycle)

// WithTerminatePolicy overrides RetryOnce.
func WithTerminatePolicy(p TerminatePolicy) Option {
	return func(l *Lifecycle) { l.policy = p }
}

// New creates a Lifecycle.
func New(host Host, log *zap.Logger, opts ...Option) *Lifecycle {
	l := &Lifecycle{
		host:   host,
		policy: RetryOnce,
		log:    logging.OrNop(log).Named("process"),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Host returns the underlying Host.
func (l *Lifecycle) Host() Host { return l.host }

func (l *Lifecycle) snapshot() []Info {
	procs, err := l.host.Snapshot()
	if err != nil {
		l.log.Debug("snapshot failed", zap.Error(err))
		return nil
	}
	return procs
}

// SuspendByName suspends every process matching targets in a single pass
// and returns the pids that were actually suspended, in snapshot order.
func (l *Lifecycle) SuspendByName(targets []string) []uint32 {
	set := NewSet(targets...)
	var pids []uint32
	for _, p := range l.snapshot() {
		if !set.Has(p.Name) {
			continue
		}
		err := l.host.Suspend(p.PID)
		metrics.Observe("process", "suspend", err == nil)
		if err != nil {
			l.log.Debug("suspend failed", zap.Uint32("pid", p.PID), zap.String("name", p.Name), zap.Error(err))
			continue
		}
		pids = append(pids, p.PID)
	}
	return pids
}

// ResumeByPID resumes exactly pids and returns how many resumed.
func (l *Lifecycle) ResumeByPID(pids []uint32) int {
	resumed := 0
	for _, pid := range pids {
		err := l.host.Resume(pid)
		metrics.Observe("process", "resume", err == nil)
		if err == nil {
			resumed++
		}
	}
	return resumed
}

// ResumeByName resumes every live process matching targets.
func (l *Lifecycle) ResumeByName(targets []string) int {
	set := NewSet(targets...)
	var pids []uint32
	for _, p := range l.snapshot() {
		if set.Has(p.Name) {
			pids = append(pids, p.PID)
		}
	}
	return l.ResumeByPID(pids)
}

// TerminateByName force-terminates targets under the lifecycle's
// TerminatePolicy. Success is never checked.
func (l *Lifecycle) TerminateByName(targets []string) {
	if len(targets) == 0 {
		return
	}
	l.policy.Run(func() {
		if err := l.host.Kill(targets); err != nil {
			l.log.Debug("terminate pass reported failure", zap.Strings("targets", targets), zap.Error(err))
		}
	})
}

// RestartIfAbsent spawns name unless a process with that image is already
// running. It reports whether a new instance was started.
func (l *Lifecycle) RestartIfAbsent(name string) bool {
	set := NewSet(name)
	for _, p := range l.snapshot() {
		if set.Has(p.Name) {
			return false
		}
	}
	err := l.host.Spawn(name)
	metrics.Observe("process", "spawn", err == nil)
	if err != nil {
		l.log.Warn("spawn failed", zap.String("name", name), zap.Error(err))
		return false
	}
	return true
}

// SetPriorityByName moves every process matching targets to p, skipping
// the idle and system pids and self. It returns the pids that changed and
// how many matches could not be changed.
func (l *Lifecycle) SetPriorityByName(targets []string, p Priority, self uint32) (pids []uint32, failed int) {
	set := NewSet(targets...)
	for _, proc := range l.snapshot() {
		if proc.PID == idlePID || proc.PID == systemPID || proc.PID == self {
			continue
		}
		if !set.Has(proc.Name) {
			continue
		}
		err := l.host.SetPriority(proc.PID, p)
		metrics.Observe("process", "priority", err == nil)
		if err != nil {
			failed++
			continue
		}
		pids = append(pids, proc.PID)
	}
	return pids, failed
}

// RestorePriority sets each pid back to Normal and returns how many succeeded.
func (l *Lifecycle) RestorePriority(pids []uint32) int {
	restored := 0
	for _, pid := range pids {
		if l.host.SetPriority(pid, Normal) == nil {
			restored++
		}
	}
	return restored
}

// Exists reports whether pid is still alive.
func (l *Lifecycle) Exists(pid uint32) bool {
	return l.host.Exists(pid)
}
