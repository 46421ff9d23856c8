// Package scheduler runs the periodic jobs of the service: ingest from the
// upstream API, flushing the historian write buffer and watches that
// publish the current value of a series expression as a metric.
package scheduler

import (
	"context"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"

	"github.com/tejusbharadwaj/histseries/internal/models"
	"github.com/tejusbharadwaj/histseries/internal/series"
)

// Evaluator builds a series from an expression. *catalog.Catalog
// implements it.
type Evaluator interface {
	Evaluate(ctx context.Context, expr string) (*series.Container, error)
}

// Fetcher pulls a window of upstream data. *api.SeriesFetcher implements it.
type Fetcher interface {
	FetchData(ctx context.Context, start, end time.Time) (int, error)
}

// Flusher writes buffered values. *database.PostgresRepo implements it.
type Flusher interface {
	Flush(ctx context.Context) error
}

// Watch publishes the current value of Expression every Schedule.
type Watch struct {
	Name       string
	Expression string
	Schedule   string
}

type Scheduler struct {
	ctx       context.Context
	logger    *logrus.Logger
	cron      *cron.Cron
	evaluator Evaluator
	watches   []Watch
	fetcher   Fetcher
	fetchSpec string
	window    time.Duration
	flusher   Flusher
	flushSpec string
	value     *prometheus.GaugeVec
	failures  *prometheus.CounterVec
	now       func() time.Time
}

// Option configures a Scheduler.
type Option func(*Scheduler)

// WithIngest runs fetcher every schedule over the trailing window.
func WithIngest(fetcher Fetcher, schedule string, window time.Duration) Option {
	return func(s *Scheduler) {
		s.fetcher = fetcher
		s.fetchSpec = schedule
		s.window = window
	}
}

// WithFlush flushes the write buffer every schedule.
func WithFlush(flusher Flusher, schedule string) Option {
	return func(s *Scheduler) {
		s.flusher = flusher
		s.flushSpec = schedule
	}
}

// WithWatches evaluates each watch through evaluator.
func WithWatches(evaluator Evaluator, watches ...Watch) Option {
	return func(s *Scheduler) {
		s.evaluator = evaluator
		s.watches = append(s.watches, watches...)
	}
}

// WithRegisterer registers the scheduler metrics with reg instead of the
// default registry.
func WithRegisterer(reg prometheus.Registerer) Option {
	return func(s *Scheduler) {
		reg.MustRegister(s.value, s.failures)
	}
}

func WithClock(now func() time.Time) Option {
	return func(s *Scheduler) { s.now = now }
}

func NewScheduler(ctx context.Context, logger *logrus.Logger, opts ...Option) *Scheduler {
	s := &Scheduler{
		ctx:    ctx,
		logger: logger,
		cron:   cron.New(),
		value: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "histseries_watch_value",
			Help: "Current value of a watched series expression",
		}, []string{"watch"}),
		failures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "histseries_job_failures_total",
			Help: "Number of failed scheduled jobs",
		}, []string{"job"}),
		now: time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Collectors returns the scheduler metrics for registration.
func (s *Scheduler) Collectors() []prometheus.Collector {
	return []prometheus.Collector{s.value, s.failures}
}

// Start the scheduler
func (s *Scheduler) Start() error {
	if s.fetcher != nil {
		if _, err := s.cron.AddFunc(s.fetchSpec, s.collectData); err != nil {
			return err
		}
	}
	if s.flusher != nil {
		if _, err := s.cron.AddFunc(s.flushSpec, s.flush); err != nil {
			return err
		}
	}
	for _, w := range s.watches {
		w := w
		if _, err := s.cron.AddFunc(w.Schedule, func() { s.evaluate(w) }); err != nil {
			return err
		}
	}
	s.cron.Start()
	return nil
}

// collectData fetches the trailing window from the API
func (s *Scheduler) collectData() {
	ctx, cancel := context.WithTimeout(s.ctx, 2*time.Minute)
	defer cancel()

	endTime := s.now()
	startTime := endTime.Add(-s.window)

	if _, err := s.fetcher.FetchData(ctx, startTime, endTime); err != nil {
		s.failures.WithLabelValues("ingest").Inc()
		s.logger.WithError(err).Error("Failed to fetch data")
	}
}

func (s *Scheduler) flush() {
	ctx, cancel := context.WithTimeout(s.ctx, time.Minute)
	defer cancel()

	if err := s.flusher.Flush(ctx); err != nil {
		s.failures.WithLabelValues("flush").Inc()
		s.logger.WithError(err).Error("Failed to flush write buffer")
	}
}

// evaluate resolves the watch expression on every run so that catalog
// invalidation takes effect.
func (s *Scheduler) evaluate(w Watch) {
	ctx, cancel := context.WithTimeout(s.ctx, time.Minute)
	defer cancel()

	log := s.logger.WithFields(logrus.Fields{
		"watch":      w.Name,
		"expression": w.Expression,
	})

	c, err := s.evaluator.Evaluate(ctx, w.Expression)
	if err != nil {
		s.failures.WithLabelValues("watch").Inc()
		log.WithError(err).Error("Failed to evaluate watch")
		return
	}
	raw, err := c.CurrentValue(ctx)
	if err != nil {
		s.failures.WithLabelValues("watch").Inc()
		log.WithError(err).Error("Failed to read watch value")
		return
	}
	v, err := models.ToFloat(raw)
	if err != nil {
		s.failures.WithLabelValues("watch").Inc()
		log.WithError(err).Warn("Watch value is not numeric")
		return
	}
	s.value.WithLabelValues(w.Name).Set(v)
	log.WithFields(logrus.Fields{
		"value": v,
		"units": c.UnitsOfMeasurement(),
	}).Debug("Watch evaluated")
}

// Stop the scheduler and wait for running jobs.
func (s *Scheduler) Stop() {
	<-s.cron.Stop().Done()
}
