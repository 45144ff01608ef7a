package cli

import (
	"context"
	"io"

	"github.com/rileyhilliard/sysmon/internal/config"
	"github.com/rileyhilliard/sysmon/internal/errors"
	"github.com/rileyhilliard/sysmon/internal/hostinfo"
	"github.com/rileyhilliard/sysmon/internal/logger"
	"github.com/rileyhilliard/sysmon/internal/monitor"
	"github.com/rileyhilliard/sysmon/internal/procs"
	"github.com/rileyhilliard/sysmon/internal/sampler"
)

// loadSettings resolves the settings path and loads it, applying the
// command-line overrides. Problems with the file itself are only warnings,
// written to warn, and the defaults are used instead.
func loadSettings(explicit string, flags DashboardFlags, limit int, warn logger.Logger) (*config.Settings, string, error) {
	path, err := config.Resolve(explicit)
	if err != nil {
		return nil, "", err
	}

	settings, problem := config.LoadOrDefault(path)
	if problem != nil {
		warn.Warn("%s", errors.OneLine(problem))
	}

	if err := applyOverrides(settings, flags, limit); err != nil {
		return nil, "", err
	}
	return settings, path, nil
}

// consoleLogger is what every mode except the dashboard logs through.
func consoleLogger(w io.Writer) logger.Logger {
	return logger.NewConsole(w, "sysmon")
}

// pipeline holds the three data sources behind one scheduler.
type pipeline struct {
	settings *config.Settings
	metrics  *sampler.Sampler
	procs    *procs.Snapshotter
	host     *hostinfo.Resolver
	log      logger.Logger
}

// newPipeline opens the host sources. Only the metric sampler can fail here;
// host identity falls back to "Unknown" fields on its own.
func newPipeline(ctx context.Context, settings *config.Settings, log logger.Logger) (*pipeline, error) {
	metrics, err := sampler.New(ctx, sampler.NewHostSource(), settings.Sampler.DiskPath)
	if err != nil {
		return nil, err
	}

	snap := procs.NewSnapshotter(procs.NewHostSource(),
		procs.WithDeadline(settings.Sampler.ProcessDeadline),
		procs.WithLogger(logger.With(log, "procs")))

	return &pipeline{
		settings: settings,
		metrics:  metrics,
		procs:    snap,
		host:     hostinfo.NewResolver(hostinfo.NewHostSource(), logger.With(log, "hostinfo")),
		log:      log,
	}, nil
}

// scheduler builds a Scheduler publishing to sink with the configured
// interval and row limit.
func (p *pipeline) scheduler(sink monitor.Sink, opts ...monitor.SchedulerOption) *monitor.Scheduler {
	base := []monitor.SchedulerOption{
		monitor.WithInterval(p.settings.UI.Interval()),
		monitor.WithProcessLimit(p.settings.Sampler.ProcessLimit),
		monitor.WithSchedulerLogger(logger.With(p.log, "scheduler")),
	}
	return monitor.NewScheduler(p.metrics, p.procs, p.host, sink, append(base, opts...)...)
}
