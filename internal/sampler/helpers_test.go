package sampler_test

import "github.com/shirou/gopsutil/v4/cpu"

func cpuWithIowait(busy, idle, iowait float64) cpu.TimesStat {
	return cpu.TimesStat{User: busy, Idle: idle, Iowait: iowait}
}
