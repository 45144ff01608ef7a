// Package sampler reads host-wide CPU, memory, swap and disk usage.
//
// CPU utilization is an interval measurement: each call compares cumulative
// CPU times with the previous call's values. Sampler is the only holder of
// that baseline. Memory, swap and disk are point-in-time readings.
//
// All OS access goes through Source so tests can substitute fixed readings.
// HostSource is the gopsutil implementation.
package sampler
