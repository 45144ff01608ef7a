package procs

import (
	"context"
	"strings"
	"time"

	"github.com/rileyhilliard/sysmon/internal/errors"
	"github.com/rileyhilliard/sysmon/internal/logger"
)

// Snapshotter enumerates processes into ranked rows.
type Snapshotter struct {
	src      Source
	pool     *Pool
	deadline time.Duration
	log      logger.Logger
}

// Option configures a Snapshotter.
type Option func(*Snapshotter)

// WithDeadline bounds each enumeration pass. Zero disables the bound.
func WithDeadline(d time.Duration) Option {
	return func(s *Snapshotter) { s.deadline = d }
}

// WithLogger sets where skipped-process details go (debug level).
func WithLogger(l logger.Logger) Option {
	return func(s *Snapshotter) { s.log = l }
}

// NewSnapshotter creates a Snapshotter over src.
func NewSnapshotter(src Source, opts ...Option) *Snapshotter {
	s := &Snapshotter{
		src:      src,
		pool:     NewPool(),
		deadline: DefaultDeadline,
		log:      logger.Noop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Prime runs one pass and discards the rows, so the next Snapshot reports
// CPU over a real interval instead of zeros.
func (s *Snapshotter) Prime(ctx context.Context) error {
	_, err := s.Snapshot(ctx, 1)
	return err
}

// Snapshot reads every process, ranks by CPU and keeps at most limit rows
// (DefaultLimit when limit <= 0). Processes that vanish or deny access are
// skipped. Only a failure to list PIDs is returned as an error.
func (s *Snapshotter) Snapshot(ctx context.Context, limit int) (Result, error) {
	pids, err := s.src.PIDs(ctx)
	if err != nil {
		return Result{}, errors.WrapWithCode(err, errors.ErrProcess,
			"Failed to list processes",
			"Check that /proc is mounted and readable")
	}

	memTotal, err := s.src.TotalMemory(ctx)
	if err != nil {
		s.log.Debug("total memory unavailable, memory percent will read 0: %v", err)
		memTotal = 0
	}

	passCtx := ctx
	if s.deadline > 0 {
		var cancel context.CancelFunc
		passCtx, cancel = context.WithTimeout(ctx, s.deadline)
		defer cancel()
	}

	var res Result
	rows := make([]Row, 0, len(pids))

	s.pool.Begin()
	for _, pid := range pids {
		if passCtx.Err() != nil {
			if ctx.Err() != nil {
				return Result{}, ctx.Err()
			}
			res.Partial = true
			break
		}

		row, err := s.readOne(passCtx, pid, memTotal)
		if err != nil && passCtx.Err() != nil {
			// Cut short by the deadline, not by the process: keep its handle.
			if ctx.Err() != nil {
				return Result{}, ctx.Err()
			}
			res.Partial = true
			break
		}
		switch {
		case err == nil:
			rows = append(rows, row)
		case IsVanished(err):
			res.Vanished++
			s.pool.Remove(pid)
		case IsDenied(err):
			res.Denied++
		default:
			res.Failed++
			s.pool.Remove(pid)
			s.log.Debug("skipping pid %d: %v", pid, err)
		}
	}
	// A partial pass did not visit every PID, so unvisited handles stay.
	if !res.Partial {
		s.pool.Sweep()
	}

	res.Readable = len(rows)
	res.Rows = Rank(rows, limit)
	if res.Partial {
		s.log.Debug("process enumeration hit %s deadline after %d of %d pids", s.deadline, res.Readable+res.Skipped(), len(pids))
	}
	return res, nil
}

func (s *Snapshotter) readOne(ctx context.Context, pid int32, memTotal uint64) (Row, error) {
	fresh, err := s.src.Open(ctx, pid)
	if err != nil {
		return Row{}, err
	}
	created, err := fresh.CreateTime(ctx)
	if err != nil {
		return Row{}, err
	}
	h, _ := s.pool.Acquire(pid, created, fresh)

	cpuPct, err := h.CPUPercent(ctx)
	if err != nil {
		return Row{}, err
	}
	rss, vms, err := h.MemoryInfo(ctx)
	if err != nil {
		return Row{}, err
	}
	cmd, err := s.command(ctx, h)
	if err != nil {
		return Row{}, err
	}

	row := Row{
		PID:           pid,
		User:          s.user(ctx, pid, h),
		CPUPercent:    sanitizePercent(cpuPct),
		VirtualBytes:  vms,
		ResidentBytes: rss,
		CreatedAt:     time.UnixMilli(created),
		Command:       TruncateCommand(cmd),
	}
	if memTotal > 0 {
		row.MemPercent = min(sanitizePercent(float64(rss)/float64(memTotal)*100), 100)
	}
	return row, nil
}

// user resolves the owner once per pooled handle. Lookup failures leave the
// column empty rather than dropping the row.
func (s *Snapshotter) user(ctx context.Context, pid int32, h Handle) string {
	if u, ok := s.pool.User(pid); ok {
		return u
	}
	u, err := h.Username(ctx)
	if err != nil {
		if IsVanished(err) {
			return ""
		}
		u = ""
	}
	s.pool.SetUser(pid, u)
	return u
}

// command prefers the full command line and falls back to the process name
// for kernel threads and zombies, whose command line is empty.
func (s *Snapshotter) command(ctx context.Context, h Handle) (string, error) {
	cmd, err := h.Cmdline(ctx)
	if err != nil && IsVanished(err) {
		return "", err
	}
	if err == nil {
		if cmd = strings.TrimSpace(cmd); cmd != "" {
			return cmd, nil
		}
	}
	return h.Name(ctx)
}
