package sysinfo

import (
	"fmt"
	"log"

	"github.com/shirou/gopsutil/cpu"
	"github.com/shirou/gopsutil/host"
	"github.com/shirou/gopsutil/mem"

	"depot-router/internal/models"
)

// Collect snapshots the platform, CPU model and installed RAM of the host.
// Fields that cannot be read are left empty.
func Collect() models.SysInfo {
	var info models.SysInfo

	if hostStat, err := host.Info(); err == nil {
		info.Platform = hostStat.Platform
	} else {
		log.Printf("[SYSINFO] host info unavailable: %v", err)
	}
	if cpuStat, err := cpu.Info(); err == nil && len(cpuStat) > 0 {
		info.CPU = cpuStat[0].ModelName
	} else if err != nil {
		log.Printf("[SYSINFO] cpu info unavailable: %v", err)
	}
	if vmStat, err := mem.VirtualMemory(); err == nil {
		info.RAM = FormatRAM(vmStat.Total)
	} else {
		log.Printf("[SYSINFO] memory info unavailable: %v", err)
	}

	return info
}

// FormatRAM renders a byte count in whole gigabytes
func FormatRAM(total uint64) string {
	return fmt.Sprintf("%d GB", total/1024/1024/1024)
}
