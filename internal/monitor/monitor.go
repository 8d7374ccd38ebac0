// Package monitor watches the tracked game process and ends the session
// when it exits.
package monitor

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/jonboulle/clockwork"
	"go.uber.org/zap"

	"gamemode/internal/logging"
	"gamemode/internal/metrics"
)

// Polling intervals.
const (
	WatchInterval = 2 * time.Second
	IdleInterval  = 5 * time.Second
)

// Monitor is Idle until Watch is called and Watching(pid) afterwards.
// pid is always stored before the watching flag and read after it.
type Monitor struct {
	clock  clockwork.Clock
	exists func(pid uint32) bool
	onExit func(pid uint32)
	log    *zap.Logger

	pid      atomic.Uint32
	watching atomic.Bool
	wake     chan struct{}
}

// New creates a Monitor. exists reports whether a pid is alive; onExit runs
// on the monitor goroutine, with the pid, once per watched pid that
// disappears.
func New(clock clockwork.Clock, exists func(pid uint32) bool, onExit func(pid uint32), log *zap.Logger) *Monitor {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	return &Monitor{
		clock:  clock,
		exists: exists,
		onExit: onExit,
		log:    logging.OrNop(log).Named("monitor"),
		wake:   make(chan struct{}, 1),
	}
}

// Watch starts tracking pid. A running loop switches to the watching
// interval straight away.
func (m *Monitor) Watch(pid uint32) {
	m.pid.Store(pid)
	m.watching.Store(true)
	select {
	case m.wake <- struct{}{}:
	default:
	}
	m.log.Debug("watching", zap.Uint32("pid", pid))
}

// Stop returns to Idle without calling onExit.
func (m *Monitor) Stop() {
	m.watching.Store(false)
	m.pid.Store(0)
}

// Watching returns the tracked pid, if any.
func (m *Monitor) Watching() (uint32, bool) {
	if !m.watching.Load() {
		return 0, false
	}
	return m.pid.Load(), true
}

func (m *Monitor) interval() time.Duration {
	if m.watching.Load() {
		return WatchInterval
	}
	return IdleInterval
}

// Run polls until ctx is done.
func (m *Monitor) Run(ctx context.Context) error {
	select {
	case <-m.wake:
	default:
	}
	for {
		timer := m.clock.NewTimer(m.interval())
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-m.wake:
			timer.Stop()
		case <-timer.Chan():
			m.Poll()
		}
	}
}

// Poll runs one check. It reports whether the watched process was found to
// have exited, in which case onExit has run.
func (m *Monitor) Poll() bool {
	if !m.watching.Load() {
		return false
	}
	pid := m.pid.Load()
	if m.exists(pid) {
		return false
	}
	if !m.watching.CompareAndSwap(true, false) {
		return false
	}
	m.pid.Store(0)

	metrics.MonitorAutoDisableTotal.Inc()
	m.log.Info("watched process exited; disabling session", zap.Uint32("pid", pid))
	if m.onExit != nil {
		m.onExit(pid)
	}
	return true
}
