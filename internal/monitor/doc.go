// Package monitor drives the live dashboard: a scheduler that samples the
// host on a fixed interval and the sinks that display each snapshot.
//
// # Architecture
//
// One goroutine runs Scheduler.Run. Every tick it reads CPU, memory, swap
// and disk through the sampler, ranks processes through the snapshotter,
// looks up host identity, and hands the resulting Snapshot to a Sink. The
// next tick is armed only after the sink returns, so ticks never overlap
// and an interval change made in between is picked up on the next tick.
//
// The terminal dashboard is a Bubble Tea program following the Elm
// architecture:
//
//   - Model: the latest Snapshot, theme, table state and settings
//   - Update: key presses, window resizes, SnapshotMsg and ErrorMsg
//   - View: header, CPU and memory bars, process table and status bar
//
// ProgramSink bridges the two by sending each snapshot to the program as a
// message. PlainSink writes one line per tick instead, for pipes and for
// terminals where a full-screen UI is unwanted.
//
// # Message Flow
//
//  1. Scheduler.Tick builds a Snapshot
//  2. ProgramSink.Render sends SnapshotMsg to the program
//  3. Model.Update stores it and rebuilds the table rows
//  4. View re-renders
//
// A failed tick sends ErrorMsg instead; the previous snapshot stays on
// screen and the status bar shows the error.
//
// # Keyboard Shortcuts
//
//	q, Ctrl+C   - Save settings and quit
//	+ / =       - Slower refresh (interval +0.5s)
//	-           - Faster refresh (interval -0.5s)
//	1-4         - Interval presets 0.5s / 1s / 2s / 5s
//	t           - Cycle theme auto / dark / light
//	s           - Cycle table sort column
//	y           - Copy selected process to the clipboard
//	Ctrl+S      - Save settings
//	?           - Toggle help overlay
package monitor
