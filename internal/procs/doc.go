// Package procs builds the ranked process table shown by the dashboard.
//
// Every tick enumerates all PIDs, reads each process, drops the ones that
// exit or refuse access mid-read, then stable-sorts by CPU descending and
// keeps the top rows. Per-process CPU is an interval measurement, so the
// Pool keeps one handle per live PID between ticks.
package procs
