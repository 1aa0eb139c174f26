package pipeline

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/atmosdata/aeronet-dw-etl/internal/domain"
	"github.com/atmosdata/aeronet-dw-etl/internal/observability"
)

// Extractor reads the raw wide-format table from the source.
type Extractor interface {
	Extract(ctx context.Context) (domain.Table, error)
}

// Loader persists one complete star-schema snapshot to the warehouse.
type Loader interface {
	Load(ctx context.Context, star domain.Star) error
}

// Run states exposed on the status endpoint.
const (
	StateIdle      = "idle"
	StateRunning   = "running"
	StateSucceeded = "succeeded"
	StateFailed    = "failed"
)

// Status is a point-in-time snapshot of the run, served by the HTTP adapter.
type Status struct {
	State        string    `json:"state"`
	RowsRead     int       `json:"rows_read"`
	Observations int       `json:"observations"`
	FactRows     int       `json:"fact_rows"`
	StartedAt    time.Time `json:"started_at,omitzero"`
	FinishedAt   time.Time `json:"finished_at,omitzero"`
	Error        string    `json:"error,omitempty"`
}

// Pipeline orchestrates the one-shot extract-transform-load run.
type Pipeline struct {
	extractor Extractor
	resolver  domain.Resolver
	loader    Loader
	logger    *slog.Logger
	metrics   *observability.Metrics

	mu     sync.Mutex
	status Status
}

// New creates a Pipeline over the given collaborators. A nil resolver
// disables spatial enrichment.
func New(e Extractor, r domain.Resolver, l Loader, logger *slog.Logger, metrics *observability.Metrics) *Pipeline {
	return &Pipeline{
		extractor: e,
		resolver:  r,
		loader:    l,
		logger:    logger,
		metrics:   metrics,
		status:    Status{State: StateIdle},
	}
}

// Status returns the current run snapshot.
func (p *Pipeline) Status() Status {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.status
}

// Run executes one extract-transform-load cycle. Each stage produces a fresh
// dataset for the next; nothing is retried. A failed run exits non-zero and
// the operator re-runs it (every load is a full, truncate-first snapshot).
func (p *Pipeline) Run(ctx context.Context) error {
	p.setStatus(func(s *Status) {
		s.State = StateRunning
		s.StartedAt = time.Now()
	})
	p.metrics.RunRunning.Set(1)
	defer p.metrics.RunRunning.Set(0)

	start := time.Now()
	table, err := p.extractor.Extract(ctx)
	if err != nil {
		return p.fail("extract", err)
	}
	p.metrics.StageDuration.WithLabelValues("extract").Observe(time.Since(start).Seconds())
	p.metrics.RowsRead.Add(float64(len(table.Rows)))
	p.setStatus(func(s *Status) { s.RowsRead = len(table.Rows) })
	p.logger.Info("extract complete", "rows", len(table.Rows), "columns", len(table.Columns))

	start = time.Now()
	star, stats, err := domain.Transform(ctx, &table, p.resolver, p.logger)
	if err != nil {
		return p.fail("transform", err)
	}
	p.metrics.StageDuration.WithLabelValues("transform").Observe(time.Since(start).Seconds())
	p.observeTransform(stats)
	p.setStatus(func(s *Status) {
		s.Observations = stats.LongRows
		s.FactRows = len(star.Facts)
	})
	p.logger.Info("transform complete",
		"observations", stats.LongRows,
		"facts", len(star.Facts),
		"wavelengths", len(star.Wavelengths),
		"dates", len(star.Dates),
		"sites", len(star.Sites),
	)

	start = time.Now()
	if err := p.loader.Load(ctx, star); err != nil {
		return p.fail("load", err)
	}
	p.metrics.StageDuration.WithLabelValues("load").Observe(time.Since(start).Seconds())
	p.observeLoaded(star)

	p.setStatus(func(s *Status) {
		s.State = StateSucceeded
		s.FinishedAt = time.Now()
	})
	p.logger.Info("run complete", "facts", len(star.Facts))
	return nil
}

func (p *Pipeline) fail(stage string, err error) error {
	p.logger.Error(stage+" failed", "error", err)
	p.setStatus(func(s *Status) {
		s.State = StateFailed
		s.FinishedAt = time.Now()
		s.Error = err.Error()
	})
	return err
}

func (p *Pipeline) setStatus(update func(*Status)) {
	p.mu.Lock()
	defer p.mu.Unlock()
	update(&p.status)
}

func (p *Pipeline) observeTransform(stats domain.TransformStats) {
	p.metrics.SentinelCells.Add(float64(stats.SentinelCells))
	p.metrics.Observations.Add(float64(stats.LongRows))
	p.metrics.RowsDropped.WithLabelValues("missing_aod").Add(float64(stats.DroppedMissingAOD))
	p.metrics.RowsDropped.WithLabelValues("incomplete").Add(float64(stats.DroppedIncomplete))
	p.metrics.RowsDropped.WithLabelValues("filtered_site").Add(float64(stats.FilteredSites))
	p.metrics.RowsDropped.WithLabelValues("orphaned").Add(float64(stats.OrphanedFacts))
}

func (p *Pipeline) observeLoaded(star domain.Star) {
	p.metrics.RowsLoaded.WithLabelValues("dim_wavelength").Add(float64(len(star.Wavelengths)))
	p.metrics.RowsLoaded.WithLabelValues("dim_date").Add(float64(len(star.Dates)))
	p.metrics.RowsLoaded.WithLabelValues("dim_site").Add(float64(len(star.Sites)))
	p.metrics.RowsLoaded.WithLabelValues("fact_aod").Add(float64(len(star.Facts)))
}
