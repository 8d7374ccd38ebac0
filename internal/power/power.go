// Package power is the power-plan provider. Desktops get their active
// scheme swapped for a performance scheme; laptops keep their scheme and
// have its processor boost sub-values raised.
package power

import (
	"strings"
	"sync"

	"go.uber.org/zap"

	"gamemode/internal/logging"
	"gamemode/internal/metrics"
)

// Well-known scheme and setting identifiers.
const (
	HighPerformanceGUID = "8c5e7fda-e8bf-4a96-9a85-a6e23a8c635c"
	UltimateGUID        = "e9a42b02-d5df-448d-aa00-03f14749eb61"

	ProcessorSubgroup = "54533251-82be-4824-96c1-47b60b740d00"
	BoostModeSetting  = "be337238-0d82-4146-a960-4f3749d470c7"
	MinStateSetting   = "893dee8e-2bef-41e0-89c6-b55d0929964c"

	// CurrentScheme addresses whichever scheme is active.
	CurrentScheme = "scheme_current"
)

// Laptop targets.
const (
	AggressiveBoost  uint32 = 4
	FullMinimumState uint32 = 100
)

// Scheme is one installed power scheme.
type Scheme struct {
	GUID   string
	Name   string
	Active bool
}

// Manager is the power-profile surface.
type Manager interface {
	ActiveScheme() (string, bool)
	SetActive(scheme string) bool
	Schemes() []Scheme
	// Duplicate materialises a hidden template scheme.
	Duplicate(template string) bool
	ReadAC(scheme, subgroup, setting string) (uint32, bool)
	WriteAC(scheme, subgroup, setting string, value uint32) bool
}

// Strategy records which branch a Plan applied.
type Strategy int

const (
	None Strategy = iota
	Desktop
	Laptop
)

func (s Strategy) String() string {
	switch s {
	case Desktop:
		return "desktop"
	case Laptop:
		return "laptop"
	default:
		return "none"
	}
}

type laptopCapture struct {
	scheme string
	boost  *uint32
	min    *uint32
}

// Plan holds what was captured by the last activation.
type Plan struct {
	mgr Manager
	log *zap.Logger

	mu             sync.Mutex
	strategy       Strategy
	originalScheme string
	laptop         *laptopCapture
}

// NewPlan creates a Plan over mgr.
func NewPlan(mgr Manager, log *zap.Logger) *Plan {
	return &Plan{mgr: mgr, log: logging.OrNop(log).Named("power")}
}

// Manager returns the underlying Manager.
func (p *Plan) Manager() Manager { return p.mgr }

// Strategy returns the branch applied since the last revert.
func (p *Plan) Strategy() Strategy {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.strategy
}

// Apply dispatches to the desktop or laptop branch.
func (p *Plan) Apply(desktop bool) Strategy {
	if desktop {
		p.ActivateHighPerformance()
		return Desktop
	}
	p.BoostLaptop()
	return Laptop
}

// ActivateHighPerformance captures the active scheme and activates the
// ultimate performance scheme, materialising it from its template if it is
// hidden, or high performance as a last resort. It returns the scheme that
// ended up active, or "" if none could be activated.
func (p *Plan) ActivateHighPerformance() string {
	p.mu.Lock()
	defer p.mu.Unlock()

	if current, ok := p.mgr.ActiveScheme(); ok {
		p.originalScheme = current
	} else {
		p.log.Warn("could not read active scheme; desktop revert will be skipped")
	}
	p.strategy = Desktop

	target := p.findUltimate()
	if target == "" && p.mgr.Duplicate(UltimateGUID) {
		target = p.findUltimate()
	}
	if target != "" && p.mgr.SetActive(target) {
		metrics.Observe("power", "activate", true)
		return target
	}

	ok := p.mgr.SetActive(HighPerformanceGUID)
	metrics.Observe("power", "activate", ok)
	if !ok {
		return ""
	}
	return HighPerformanceGUID
}

func (p *Plan) findUltimate() string {
	var byName string
	for _, s := range p.mgr.Schemes() {
		if strings.EqualFold(s.GUID, UltimateGUID) {
			return s.GUID
		}
		if byName == "" && strings.Contains(strings.ToLower(s.Name), "ultimate") {
			byName = s.GUID
		}
	}
	return byName
}

// BoostLaptop raises processor boost mode and minimum state on the active
// scheme after capturing both, then re-applies the scheme so the drivers
// pick the values up.
func (p *Plan) BoostLaptop() bool {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.strategy = Laptop
	scheme, ok := p.mgr.ActiveScheme()
	if !ok {
		p.log.Warn("could not read active scheme; laptop boost skipped")
		return false
	}

	capture := &laptopCapture{scheme: scheme}
	if v, ok := p.mgr.ReadAC(scheme, ProcessorSubgroup, BoostModeSetting); ok {
		capture.boost = &v
	}
	if v, ok := p.mgr.ReadAC(scheme, ProcessorSubgroup, MinStateSetting); ok {
		capture.min = &v
	}
	p.laptop = capture

	boosted := p.mgr.WriteAC(scheme, ProcessorSubgroup, BoostModeSetting, AggressiveBoost)
	raised := p.mgr.WriteAC(scheme, ProcessorSubgroup, MinStateSetting, FullMinimumState)
	applied := p.mgr.SetActive(scheme)
	metrics.Observe("power", "boost", boosted && raised && applied)
	return boosted && raised && applied
}

// Revert undoes whichever branch was applied and clears the capture. With
// nothing captured it does nothing.
func (p *Plan) Revert() bool {
	p.mu.Lock()
	defer p.mu.Unlock()

	defer func() {
		p.strategy = None
		p.originalScheme = ""
		p.laptop = nil
	}()

	switch p.strategy {
	case Desktop:
		if p.originalScheme == "" {
			return false
		}
		ok := p.mgr.SetActive(p.originalScheme)
		metrics.Observe("power", "revert", ok)
		return ok
	case Laptop:
		c := p.laptop
		if c == nil || (c.boost == nil && c.min == nil) {
			return false
		}
		ok := true
		if c.boost != nil {
			ok = p.mgr.WriteAC(c.scheme, ProcessorSubgroup, BoostModeSetting, *c.boost) && ok
		}
		if c.min != nil {
			ok = p.mgr.WriteAC(c.scheme, ProcessorSubgroup, MinStateSetting, *c.min) && ok
		}
		ok = p.mgr.SetActive(c.scheme) && ok
		metrics.Observe("power", "revert", ok)
		return ok
	default:
		return false
	}
}
