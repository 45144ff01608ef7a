package monitor

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"golang.org/x/time/rate"

	"github.com/rileyhilliard/sysmon/internal/config"
	"github.com/rileyhilliard/sysmon/internal/errors"
	"github.com/rileyhilliard/sysmon/internal/hostinfo"
	"github.com/rileyhilliard/sysmon/internal/logger"
	"github.com/rileyhilliard/sysmon/internal/procs"
	"github.com/rileyhilliard/sysmon/internal/sampler"
)

// DefaultWarmup is how long Run waits between priming the baselines and the
// first tick. It matches the shortest allowed interval.
const DefaultWarmup = time.Duration(config.MinIntervalMS) * time.Millisecond

// Tick-failure log lines are throttled to a small burst and then one every
// errorLogEvery. The sink still sees every failure.
const (
	errorLogEvery = 10 * time.Second
	errorLogBurst = 3
)

// Metrics reads the host-wide numbers. *sampler.Sampler implements it.
type Metrics interface {
	Prime(ctx context.Context) error
	Sample(ctx context.Context) (sampler.Reading, error)
}

// Processes ranks running processes. *procs.Snapshotter implements it.
type Processes interface {
	Prime(ctx context.Context) error
	Snapshot(ctx context.Context, limit int) (procs.Result, error)
}

// HostLookup returns host identity. *hostinfo.Resolver implements it.
type HostLookup interface {
	Info(ctx context.Context) hostinfo.Info
}

// IntervalController is the part of the scheduler the dashboard drives.
type IntervalController interface {
	Interval() time.Duration
	SetInterval(d time.Duration) time.Duration
	IncreaseInterval() time.Duration
	DecreaseInterval() time.Duration
}

// Scheduler runs the sampling loop. Ticks are strictly sequential: the
// timer for the next tick is armed only once the current snapshot has been
// handed to the sink.
type Scheduler struct {
	metrics Metrics
	procs   Processes
	host    HostLookup
	sink    Sink
	log     logger.Logger

	limit  int
	warmup time.Duration
	now    func() time.Time

	interval   atomic.Int64
	seq        atomic.Uint64
	errLimit   *rate.Limiter
	suppressed atomic.Int64
}

// SchedulerOption configures a Scheduler.
type SchedulerOption func(*Scheduler)

// WithInterval sets the starting interval. It is clamped to the allowed range.
func WithInterval(d time.Duration) SchedulerOption {
	return func(s *Scheduler) { s.interval.Store(int64(config.ClampInterval(d))) }
}

// WithProcessLimit sets how many process rows each snapshot keeps.
func WithProcessLimit(n int) SchedulerOption {
	return func(s *Scheduler) {
		if n > 0 {
			s.limit = n
		}
	}
}

// WithWarmup overrides the delay between priming and the first tick.
func WithWarmup(d time.Duration) SchedulerOption {
	return func(s *Scheduler) { s.warmup = d }
}

// WithSchedulerLogger sets the logger used for tick failures.
func WithSchedulerLogger(l logger.Logger) SchedulerOption {
	return func(s *Scheduler) {
		if l != nil {
			s.log = l
		}
	}
}

// NewScheduler wires the three data sources to sink.
func NewScheduler(m Metrics, p Processes, h HostLookup, sink Sink, opts ...SchedulerOption) *Scheduler {
	s := &Scheduler{
		metrics:  m,
		procs:    p,
		host:     h,
		sink:     sink,
		log:      logger.Noop(),
		limit:    procs.DefaultLimit,
		warmup:   DefaultWarmup,
		now:      time.Now,
		errLimit: rate.NewLimiter(rate.Every(errorLogEvery), errorLogBurst),
	}
	s.interval.Store(int64(time.Duration(config.DefaultIntervalMS) * time.Millisecond))
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Interval returns the current tick interval.
func (s *Scheduler) Interval() time.Duration {
	return time.Duration(s.interval.Load())
}

// SetInterval stores d, clamped to [250ms, 10s], and returns the stored
// value. The running loop uses it when arming the next tick.
func (s *Scheduler) SetInterval(d time.Duration) time.Duration {
	d = config.ClampInterval(d)
	s.interval.Store(int64(d))
	return d
}

// IncreaseInterval lengthens the interval by one step.
func (s *Scheduler) IncreaseInterval() time.Duration {
	return s.step(1)
}

// DecreaseInterval shortens the interval by one step.
func (s *Scheduler) DecreaseInterval() time.Duration {
	return s.step(-1)
}

func (s *Scheduler) step(n int) time.Duration {
	for {
		cur := s.interval.Load()
		next := config.StepInterval(time.Duration(cur), n)
		if s.interval.CompareAndSwap(cur, int64(next)) {
			return next
		}
	}
}

// Prime takes the CPU and process baselines so the first tick reports real
// deltas instead of zeros. Failures are logged; the first tick then simply
// reports unprimed values.
func (s *Scheduler) Prime(ctx context.Context) {
	if err := s.metrics.Prime(ctx); err != nil {
		s.log.Debug("cpu baseline: %s", errors.OneLine(err))
	}
	if err := s.procs.Prime(ctx); err != nil {
		s.log.Debug("process baseline: %s", errors.OneLine(err))
	}
}

// Run primes the baselines, waits the warm-up delay and then ticks until
// ctx is cancelled. Failed ticks are reported and the loop carries on.
func (s *Scheduler) Run(ctx context.Context) {
	s.Prime(ctx)

	timer := time.NewTimer(s.warmup)
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-timer.C:
		}

		_, _ = s.Tick(ctx)
		if ctx.Err() != nil {
			return
		}
		timer.Reset(s.Interval())
	}
}

// Tick performs one sampling pass and publishes the result to the sink.
// On failure the error goes to the sink instead and is also returned.
// A panic anywhere in the pass is turned into an error.
func (s *Scheduler) Tick(ctx context.Context) (snap *Snapshot, err error) {
	defer func() {
		if r := recover(); r != nil {
			snap = nil
			err = errors.New(errors.ErrSample, fmt.Sprintf("Tick panicked: %v", r), "")
		}
		if err != nil && ctx.Err() == nil {
			s.report(err)
		}
	}()

	snap, err = s.collect(ctx)
	if err != nil {
		return nil, err
	}
	s.sink.Render(snap)
	return snap, nil
}

func (s *Scheduler) collect(ctx context.Context) (*Snapshot, error) {
	reading, err := s.metrics.Sample(ctx)
	if err != nil {
		return nil, err
	}

	res, err := s.procs.Snapshot(ctx, s.limit)
	if err != nil {
		return nil, err
	}

	var info hostinfo.Info
	if s.host != nil {
		info = s.host.Info(ctx)
	}

	return &Snapshot{
		Seq:          s.seq.Add(1),
		TakenAt:      s.now(),
		Interval:     s.Interval(),
		CPU:          reading.CPU,
		Memory:       reading.Memory,
		Swap:         reading.Swap,
		Disk:         reading.Disk,
		Processes:    res.Rows,
		ProcessCount: res.Readable,
		Partial:      res.Partial,
		Host:         info,
	}, nil
}

func (s *Scheduler) report(err error) {
	s.sink.ReportError(err)

	if !s.errLimit.Allow() {
		s.suppressed.Add(1)
		return
	}
	if n := s.suppressed.Swap(0); n > 0 {
		s.log.Warn("tick failed: %s (%d earlier failures not logged)", errors.OneLine(err), n)
		return
	}
	s.log.Warn("tick failed: %s", errors.OneLine(err))
}
