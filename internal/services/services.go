// Package services is the service-control provider. It stops a fixed
// catalog of background services for the length of a session and restarts
// exactly the ones it stopped.
package services

import (
	"errors"

	cmap "github.com/orcaman/concurrent-map/v2"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"gamemode/internal/logging"
	"gamemode/internal/metrics"
	"gamemode/internal/registry"
)

// ErrUnsupported is returned by the service manager on platforms without an SCM.
var ErrUnsupported = errors.New("service control is not supported on this platform")

// State is the coarse run state of a service.
type State int

const (
	Unknown State = iota
	Stopped
	Running
	Pending
)

func (s State) String() string {
	switch s {
	case Stopped:
		return "stopped"
	case Running:
		return "running"
	case Pending:
		return "pending"
	default:
		return "unknown"
	}
}

// Manager talks to the service control manager.
type Manager interface {
	Query(name string) (State, error)
	Stop(name string) error
	Start(name string) error
}

// Catalog is the set of services a session may stop.
var Catalog = []string{
	"SysMain",
	"DiagTrack",
	"WSearch",
	"Spooler",
	"MapsBroker",
	"Fax",
	"NvContainerLocalSystem",
	"NvContainerNetworkService",
	"NVDisplay.ContainerLocalSystem",
	"CrossDeviceService",
	"wuauserv",
	"bits",
	"dosvc",
}

// Start types as stored in the service's registry key.
const (
	StartManual   uint32 = 3
	StartDisabled uint32 = 4
)

// StartTypePath is the registry key holding a service's Start value.
func StartTypePath(name string) string {
	return registry.Join(`SYSTEM\CurrentControlSet\Services`, name)
}

// Controller runs catalog-wide stop and restore passes.
type Controller struct {
	mgr Manager
	log *zap.Logger
}

// NewController creates a Controller over mgr.
func NewController(mgr Manager, log *zap.Logger) *Controller {
	return &Controller{mgr: mgr, log: logging.OrNop(log).Named("services")}
}

// StopAll stops every running service in catalog concurrently and returns,
// in catalog order, the names whose stop call succeeded.
func (c *Controller) StopAll(catalog []string) []string {
	stopped := cmap.New[struct{}]()

	var g errgroup.Group
	for _, name := range catalog {
		g.Go(func() error {
			state, err := c.mgr.Query(name)
			if err != nil || state != Running {
				return nil
			}
			err = c.mgr.Stop(name)
			metrics.Observe("services", "stop", err == nil)
			if err != nil {
				c.log.Debug("stop failed", zap.String("service", name), zap.Error(err))
				return nil
			}
			stopped.Set(name, struct{}{})
			return nil
		})
	}
	_ = g.Wait()

	return inOrder(catalog, stopped)
}

// Restore starts, concurrently, each of names that is still stopped and
// returns the ones that were started. Services outside names are never
// touched.
func (c *Controller) Restore(names []string) []string {
	started := cmap.New[struct{}]()

	var g errgroup.Group
	for _, name := range names {
		g.Go(func() error {
			state, err := c.mgr.Query(name)
			if err != nil || state != Stopped {
				return nil
			}
			err = c.mgr.Start(name)
			metrics.Observe("services", "start", err == nil)
			if err != nil {
				c.log.Debug("start failed", zap.String("service", name), zap.Error(err))
				return nil
			}
			started.Set(name, struct{}{})
			return nil
		})
	}
	_ = g.Wait()

	return inOrder(names, started)
}

func inOrder(names []string, set cmap.ConcurrentMap[string, struct{}]) []string {
	var out []string
	for _, n := range names {
		if set.Has(n) {
			out = append(out, n)
		}
	}
	return out
}
