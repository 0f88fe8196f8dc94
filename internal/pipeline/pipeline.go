// Package pipeline orchestrates one dashboard invocation: zone filtering,
// monthly aggregation, the stationarity diagnostic, and the forecast.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/okobah/spillcast/internal/domain"
	"github.com/okobah/spillcast/internal/forecast"
	"github.com/okobah/spillcast/internal/observability"
	"github.com/okobah/spillcast/internal/stats"
)

// IncidentSource supplies the normalized incident record set.
type IncidentSource interface {
	Load(ctx context.Context) ([]domain.Incident, error)
}

// Result is everything one dashboard render needs: the historical series,
// the stationarity diagnostic, and the dated forecast continuation.
type Result struct {
	Series      domain.MonthlySeries  `json:"series"`
	Diagnostic  *stats.ADFResult      `json:"diagnostic"`
	Forecast    domain.ForecastSeries `json:"forecast"`
	GeneratedAt time.Time             `json:"generated_at"`
}

// Pipeline runs the filter → aggregate → {diagnostic, forecast} stages.
// Each Run owns its series and model state exclusively and discards them at
// completion, so concurrent invocations for different zone subsets need no
// coordination. Stages fail fast: the first error aborts the remainder and
// is surfaced to the caller, which must not attempt partial rendering.
type Pipeline struct {
	source  IncidentSource
	logger  *slog.Logger
	metrics *observability.Metrics
	horizon int
	ready   atomic.Bool
}

// New creates a Pipeline. A non-positive horizon falls back to the fixed
// twelve-month default.
func New(source IncidentSource, logger *slog.Logger, metrics *observability.Metrics, horizon int) *Pipeline {
	if horizon <= 0 {
		horizon = forecast.Horizon
	}
	return &Pipeline{
		source:  source,
		logger:  logger,
		metrics: metrics,
		horizon: horizon,
	}
}

// Warm loads the dataset once so readiness reflects a usable data source.
func (p *Pipeline) Warm(ctx context.Context) error {
	if _, err := p.source.Load(ctx); err != nil {
		return err
	}
	p.ready.Store(true)
	return nil
}

// CheckReadiness returns nil once the dataset has loaded successfully.
func (p *Pipeline) CheckReadiness(_ context.Context) error {
	if !p.ready.Load() {
		return errors.New("dataset has not loaded yet")
	}
	return nil
}

// Run executes one full invocation for the selected zones. A nil or empty
// selection means all zones.
func (p *Pipeline) Run(ctx context.Context, zones []string) (*Result, error) {
	start := time.Now()

	incidents, err := p.source.Load(ctx)
	if err != nil {
		p.metrics.PipelineErrors.WithLabelValues("load").Inc()
		return nil, fmt.Errorf("load incidents: %w", err)
	}
	p.ready.Store(true)

	filtered := domain.FilterByZones(incidents, zones)

	series, err := domain.AggregateMonthly(filtered)
	if err != nil {
		p.metrics.PipelineErrors.WithLabelValues("aggregate").Inc()
		return nil, fmt.Errorf("aggregate monthly series: %w", err)
	}

	diagnostic, err := stats.ADF(series.Values())
	if err != nil {
		p.metrics.PipelineErrors.WithLabelValues("diagnostic").Inc()
		return nil, fmt.Errorf("stationarity diagnostic: %w", err)
	}

	fitStart := time.Now()
	projected, err := forecast.Project(series, p.horizon)
	if err != nil {
		p.metrics.PipelineErrors.WithLabelValues("forecast").Inc()
		return nil, fmt.Errorf("forecast: %w", err)
	}
	p.metrics.FitDuration.Observe(time.Since(fitStart).Seconds())

	p.metrics.PipelineDuration.Observe(time.Since(start).Seconds())
	p.logger.Debug("pipeline complete",
		"months", len(series),
		"zones", len(zones),
		"adf_statistic", diagnostic.Statistic,
		"adf_p_value", diagnostic.PValue,
	)

	return &Result{
		Series:      series,
		Diagnostic:  diagnostic,
		Forecast:    projected,
		GeneratedAt: clock.Now().UTC(),
	}, nil
}

// Zones lists the distinct zone labels available for filtering.
func (p *Pipeline) Zones(ctx context.Context) ([]string, error) {
	incidents, err := p.source.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("load incidents: %w", err)
	}
	return domain.Zones(incidents), nil
}
