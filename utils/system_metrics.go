package utils

import (
	"log"
	"time"

	"github.com/shirou/gopsutil/v4/cpu"
	"github.com/shirou/gopsutil/v4/mem"
)

type HostStats struct {
	CPUPercent    float64 `json:"cpu_percent"`
	MemoryPercent float64 `json:"memory_percent"`
}

// GetCPUUsage samples CPU usage over a short window.
func GetCPUUsage(window time.Duration) float64 {
	percentage, err := cpu.Percent(window, false)
	if err != nil {
		log.Printf("Error getting CPU usage: %v", err)
		return 0
	}
	if len(percentage) > 0 {
		return percentage[0]
	}
	return 0
}

func GetMemoryUsage() float64 {
	vm, err := mem.VirtualMemory()
	if err != nil {
		log.Printf("Error getting memory usage: %v", err)
		return 0
	}
	return vm.UsedPercent
}

func GetHostStats() HostStats {
	return HostStats{
		CPUPercent:    GetCPUUsage(200 * time.Millisecond),
		MemoryPercent: GetMemoryUsage(),
	}
}
