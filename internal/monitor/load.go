package monitor

import (
	"math"
	"time"

	"github.com/shirou/gopsutil/v4/cpu"
	"github.com/shirou/gopsutil/v4/disk"
	"github.com/shirou/gopsutil/v4/mem"
)

// Load is a point-in-time view of system utilisation.
type Load struct {
	Timestamp int64   `json:"timestamp"`
	CPUUsage  float64 `json:"cpuUsage"`
	RAMUsage  float64 `json:"ramUsage"`
	DiskUsage float64 `json:"diskUsage"`
}

// Sample gathers CPU usage over interval together with memory and disk
// usage. Sources that fail are reported as zero.
func Sample(interval time.Duration) Load {
	l := Load{Timestamp: time.Now().Unix()}

	if pct, err := cpu.Percent(interval, false); err == nil && len(pct) > 0 {
		l.CPUUsage = round2(pct[0])
	}
	if vm, err := mem.VirtualMemory(); err == nil {
		l.RAMUsage = round2(vm.UsedPercent)
	}
	l.DiskUsage = averageDiskUsage()
	return l
}

func averageDiskUsage() float64 {
	partitions, err := disk.Partitions(false)
	if err != nil || len(partitions) == 0 {
		return 0
	}

	var total float64
	var count int
	for _, p := range partitions {
		usage, err := disk.Usage(p.Mountpoint)
		if err != nil {
			continue
		}
		total += usage.UsedPercent
		count++
	}
	if count == 0 {
		return 0
	}
	return round2(total / float64(count))
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
