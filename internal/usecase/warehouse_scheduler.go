package usecase

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/robfig/cron/v3"

	"acme-explorer-service/internal/domain/entity"
	"acme-explorer-service/pkg/logger"
	"acme-explorer-service/pkg/metrics"
)

// RebuildPeriod is a symbolic warehouse recomputation cadence
type RebuildPeriod string

const (
	EveryHour       RebuildPeriod = "everyHour"
	EveryMinute     RebuildPeriod = "everyMinute"
	EveryTenSeconds RebuildPeriod = "everyTenSeconds"
	EverySecond     RebuildPeriod = "everySecond"
)

// cron specs with a leading seconds field
var rebuildSpecs = map[RebuildPeriod]string{
	EveryHour:       "0 0 * * * *",
	EveryMinute:     "0 * * * * *",
	EveryTenSeconds: "*/10 * * * * *",
	EverySecond:     "* * * * * *",
}

var cronParser = cron.NewParser(cron.Second | cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow)

// ErrTickInProgress is returned by Tick while a previous tick is still computing
var ErrTickInProgress = errors.New("warehouse tick already in progress")

// ParseRebuildPeriod validates a symbolic period name
func ParseRebuildPeriod(s string) (RebuildPeriod, error) {
	p := RebuildPeriod(s)
	if _, ok := rebuildSpecs[p]; !ok {
		return "", fmt.Errorf("%w: the rebuild period must be one of: everyHour, everyMinute, everyTenSeconds, everySecond", entity.ErrInvalidRequest)
	}
	return p, nil
}

// Spec returns the cron expression of a valid period
func (p RebuildPeriod) Spec() string {
	return rebuildSpecs[p]
}

// IndicatorBuilder computes and stores one snapshot tagged with period
type IndicatorBuilder interface {
	Run(ctx context.Context, period RebuildPeriod) (*entity.Indicator, error)
}

// WarehouseScheduler owns the single recurring warehouse job and its cadence
type WarehouseScheduler struct {
	mu      sync.Mutex
	cron    *cron.Cron
	entryID cron.EntryID
	period  RebuildPeriod
	started bool
	enabled bool

	ticking atomic.Bool
	builder IndicatorBuilder
	metrics *metrics.Metrics
	logger  logger.Logger
}

// NewWarehouseScheduler creates a scheduler for period in loc. A disabled
// scheduler tracks its period but never fires, which is what test runs use.
func NewWarehouseScheduler(
	builder IndicatorBuilder,
	period string,
	loc *time.Location,
	enabled bool,
	metrics *metrics.Metrics,
	logger logger.Logger,
) (*WarehouseScheduler, error) {
	p, err := ParseRebuildPeriod(period)
	if err != nil {
		return nil, err
	}
	if loc == nil {
		loc = time.Local
	}

	cl := cronLogger{logger: logger}
	s := &WarehouseScheduler{
		cron: cron.New(
			cron.WithParser(cronParser),
			cron.WithLocation(loc),
			cron.WithChain(cron.Recover(cl)),
			cron.WithLogger(cl),
		),
		period:  p,
		enabled: enabled,
		builder: builder,
		metrics: metrics,
		logger:  logger,
	}
	return s, nil
}

// Start schedules the job and starts the cron loop. Calling it twice is a no-op.
func (s *WarehouseScheduler) Start() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.enabled {
		s.logger.Info("Warehouse scheduler disabled", "period", s.period)
		return nil
	}
	if s.started {
		return nil
	}

	id, err := s.schedule(s.period)
	if err != nil {
		return err
	}
	s.entryID = id
	s.cron.Start()
	s.started = true

	s.logger.Info("Warehouse scheduler started", "period", s.period, "spec", s.period.Spec())
	return nil
}

// Stop halts the cron loop, unregisters the job and waits for a running tick up
// to ctx's deadline. A later Start schedules exactly one entry again.
func (s *WarehouseScheduler) Stop(ctx context.Context) {
	s.mu.Lock()
	if !s.started {
		s.mu.Unlock()
		return
	}
	s.started = false
	done := s.cron.Stop()
	s.cron.Remove(s.entryID)
	s.entryID = 0
	s.mu.Unlock()

	select {
	case <-done.Done():
		s.logger.Info("Warehouse scheduler stopped")
	case <-ctx.Done():
		s.logger.Warn("Warehouse scheduler stop timed out", "error", ctx.Err())
	}
}

// ChangeSchedule replaces the running job's cadence. An unknown period is rejected
// before the current job is touched.
func (s *WarehouseScheduler) ChangeSchedule(period string) error {
	p, err := ParseRebuildPeriod(period)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	previous := s.period
	if s.enabled && s.started {
		schedule, err := cronParser.Parse(p.Spec())
		if err != nil {
			return fmt.Errorf("failed to parse schedule %q: %w", p.Spec(), err)
		}
		s.cron.Remove(s.entryID)
		s.entryID = s.cron.Schedule(schedule, s.job())
	}
	s.period = p

	s.metrics.ScheduleChanges.Inc()
	s.logger.Info("Warehouse rebuild period changed", "from", previous, "to", p)
	return nil
}

// CurrentPeriod returns the active cadence
func (s *WarehouseScheduler) CurrentPeriod() RebuildPeriod {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.period
}

// ScheduledJobs returns the number of entries registered on the cron loop
func (s *WarehouseScheduler) ScheduledJobs() int {
	return len(s.cron.Entries())
}

// Tick computes and stores one snapshot tagged with the current period.
// Overlapping ticks are rejected with ErrTickInProgress.
func (s *WarehouseScheduler) Tick(ctx context.Context) (*entity.Indicator, error) {
	if !s.ticking.CompareAndSwap(false, true) {
		return nil, ErrTickInProgress
	}
	defer s.ticking.Store(false)

	return s.builder.Run(ctx, s.CurrentPeriod())
}

func (s *WarehouseScheduler) schedule(p RebuildPeriod) (cron.EntryID, error) {
	id, err := s.cron.AddJob(p.Spec(), s.job())
	if err != nil {
		return 0, fmt.Errorf("failed to schedule warehouse job: %w", err)
	}
	return id, nil
}

func (s *WarehouseScheduler) job() cron.Job {
	return cron.FuncJob(func() {
		if _, err := s.Tick(context.Background()); err != nil {
			if errors.Is(err, ErrTickInProgress) {
				s.logger.Warn("Skipping warehouse tick, previous one still running")
			}
		}
	})
}

// cronLogger adapts logger.Logger to cron.Logger
type cronLogger struct {
	logger logger.Logger
}

func (l cronLogger) Info(msg string, keysAndValues ...interface{}) {
	l.logger.Debug("cron: "+msg, keysAndValues...)
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	l.logger.Error("cron: "+msg, append(keysAndValues, "error", err)...)
}
