package monitor

import (
	"fmt"
	"io"
	"strings"
	"sync"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/muesli/reflow/truncate"

	"github.com/rileyhilliard/sysmon/internal/errors"
	"github.com/rileyhilliard/sysmon/internal/units"
	"github.com/rileyhilliard/sysmon/internal/util"
)

// Sink receives the outcome of every tick. Implementations must not modify
// the snapshot and should return quickly; the next tick waits for them.
type Sink interface {
	Render(snap *Snapshot)
	ReportError(err error)
}

// SnapshotMsg carries a fresh snapshot into the Bubble Tea program.
type SnapshotMsg struct {
	Snapshot *Snapshot
}

// ErrorMsg carries a failed tick into the Bubble Tea program.
type ErrorMsg struct {
	Err error
}

// ProgramSink forwards ticks to a running tea.Program. Ticks published
// before a program is attached are dropped.
type ProgramSink struct {
	mu   sync.RWMutex
	send func(tea.Msg)
}

// NewProgramSink returns a sink that sends to p. p may be nil and attached
// later, since the program is built from a model that already needs the
// scheduler.
func NewProgramSink(p *tea.Program) *ProgramSink {
	s := &ProgramSink{}
	s.Attach(p)
	return s
}

// Attach points the sink at p.
func (s *ProgramSink) Attach(p *tea.Program) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if p == nil {
		s.send = nil
		return
	}
	s.send = p.Send
}

func (s *ProgramSink) Render(snap *Snapshot) { s.dispatch(SnapshotMsg{Snapshot: snap}) }
func (s *ProgramSink) ReportError(err error) { s.dispatch(ErrorMsg{Err: err}) }

func (s *ProgramSink) dispatch(msg tea.Msg) {
	s.mu.RLock()
	send := s.send
	s.mu.RUnlock()
	if send != nil {
		send(msg)
	}
}

// Discard is a sink that drops everything. One-shot callers use it with
// Scheduler.Tick and read the returned snapshot directly.
var Discard Sink = discardSink{}

type discardSink struct{}

func (discardSink) Render(*Snapshot)  {}
func (discardSink) ReportError(error) {}

// plainCommandWidth is the width of the top-process column in plain lines.
const plainCommandWidth = 24

// PlainSink writes one line per tick. It is used when stdout is not a
// terminal or when --plain is given.
type PlainSink struct {
	mu     sync.Mutex
	out    io.Writer
	errOut io.Writer
	width  int
}

// NewPlainSink writes snapshots to out and failures to errOut. Lines are
// clipped to width cells when width is positive.
func NewPlainSink(out, errOut io.Writer, width int) *PlainSink {
	if errOut == nil {
		errOut = out
	}
	return &PlainSink{out: out, errOut: errOut, width: width}
}

func (s *PlainSink) Render(snap *Snapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()
	fmt.Fprintln(s.out, s.clip(PlainLine(snap)))
}

func (s *PlainSink) ReportError(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	fmt.Fprintln(s.errOut, s.clip("✗ "+errors.OneLine(err)))
}

func (s *PlainSink) clip(line string) string {
	if s.width <= 0 {
		return line
	}
	return truncate.StringWithTail(line, uint(s.width), "…")
}

// PlainLine renders a snapshot as a single line:
//
//	15:04:05 cpu 12.5% mem 3.7G/7.5G (50.0%) swap 0.0B/2.0G (0.0%) disk / 25.0G/100.0G (25.0%) procs 312 top 4211 firefox 8.0%
func PlainLine(snap *Snapshot) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s cpu %s", snap.TakenAt.Format("15:04:05"), units.Percent(snap.CPU.Total))
	fmt.Fprintf(&b, " mem %s", units.Usage(snap.Memory.Used, snap.Memory.Total, snap.Memory.Percent))
	fmt.Fprintf(&b, " swap %s", units.Usage(snap.Swap.Used, snap.Swap.Total, snap.Swap.Percent))
	fmt.Fprintf(&b, " disk %s %s", snap.Disk.Path, units.Usage(snap.Disk.Used, snap.Disk.Total, snap.Disk.Percent))
	fmt.Fprintf(&b, " procs %d", snap.ProcessCount)
	if top, ok := snap.Top(); ok {
		fmt.Fprintf(&b, " top %d %s %s", top.PID,
			strings.TrimSpace(util.FitWidth(top.Command, plainCommandWidth)),
			units.Percent(top.CPUPercent))
	}
	if snap.Partial {
		b.WriteString(" (partial)")
	}
	return b.String()
}
