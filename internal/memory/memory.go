// Package memory trims process working sets so a game starts with as much
// free physical memory as possible.
package memory

import (
	"fmt"

	"github.com/shirou/gopsutil/v4/mem"
	"go.uber.org/zap"

	"gamemode/internal/logging"
	"gamemode/internal/metrics"
	"gamemode/internal/process"
)

// Status is a physical memory summary.
type Status struct {
	Total        uint64  `json:"total"`
	Used         uint64  `json:"used"`
	Available    uint64  `json:"available"`
	UsagePercent float64 `json:"usagePercent"`
}

// GetMemoryStatus returns the current physical memory usage.
func GetMemoryStatus() (*Status, error) {
	vm, err := mem.VirtualMemory()
	if err != nil {
		return nil, fmt.Errorf("failed to get virtual memory stats: %w", err)
	}
	return &Status{
		Total:        vm.Total,
		Used:         vm.Used,
		Available:    vm.Available,
		UsagePercent: roundFloat(vm.UsedPercent, 2),
	}, nil
}

// FlushResult counts the processes a flush visited.
type FlushResult struct {
	Trimmed int
	Failed  int
}

// TrimFunc empties the working set of one process.
type TrimFunc func(pid uint32) error

// Flusher trims every process it can open.
type Flusher struct {
	procs process.Host
	trim  TrimFunc
	log   *zap.Logger
}

// NewFlusher creates a Flusher using the platform trim call.
func NewFlusher(procs process.Host, log *zap.Logger) *Flusher {
	return NewFlusherWithTrim(procs, trimWorkingSet, log)
}

// NewFlusherWithTrim creates a Flusher with a custom trim call.
func NewFlusherWithTrim(procs process.Host, trim TrimFunc, log *zap.Logger) *Flusher {
	return &Flusher{procs: procs, trim: trim, log: logging.OrNop(log).Named("memory")}
}

// FlushWorkingSets trims the working set of every process except the idle and system
// pids and self. Processes that cannot be opened are counted and skipped.
func (f *Flusher) FlushWorkingSets(self uint32) FlushResult {
	var res FlushResult
	procs, err := f.procs.Snapshot()
	if err != nil {
		f.log.Debug("snapshot failed", zap.Error(err))
		return res
	}
	for _, p := range procs {
		if p.PID == 0 || p.PID == 4 || p.PID == self {
			continue
		}
		if err := f.trim(p.PID); err != nil {
			res.Failed++
			continue
		}
		res.Trimmed++
	}
	metrics.Observe("memory", "flush", res.Trimmed > 0)
	f.log.Debug("working sets trimmed", zap.Int("trimmed", res.Trimmed), zap.Int("failed", res.Failed))
	return res
}

func roundFloat(val float64, places int) float64 {
	factor := 1.0
	for i := 0; i < places; i++ {
		factor *= 10
	}
	return float64(int(val*factor+0.5)) / factor
}
