package pipeline_test

import (
	"context"
	"errors"
	"log/slog"
	"math/rand"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/okobah/spillcast/internal/domain"
	"github.com/okobah/spillcast/internal/observability"
	"github.com/okobah/spillcast/internal/pipeline"
)

// --- mocks ---

type mockSource struct {
	incidents []domain.Incident
	err       error
	calls     int
}

func (m *mockSource) Load(_ context.Context) ([]domain.Incident, error) {
	m.calls++
	if m.err != nil {
		return nil, m.err
	}
	return m.incidents, nil
}

func newTestPipeline(src pipeline.IncidentSource) *pipeline.Pipeline {
	return pipeline.New(src, slog.Default(), observability.NewMetricsForTesting(), 0)
}

// makeIncidents builds two years of monthly incidents ending December 2023,
// alternating between two zones, with deterministic pseudo-random volumes.
func makeIncidents(t *testing.T) []domain.Incident {
	t.Helper()
	rng := rand.New(rand.NewSource(11))

	var incidents []domain.Incident
	date := time.Date(2022, 1, 1, 0, 0, 0, 0, time.UTC)
	for m := 0; m < 24; m++ {
		monthStart := time.Date(date.Year(), date.Month()+time.Month(m), 1, 0, 0, 0, 0, time.UTC)
		for i := 0; i < 3; i++ {
			zone := "Lagos"
			if (m+i)%2 == 1 {
				zone = "Bayelsa"
			}
			incidents = append(incidents, domain.Incident{
				Date:              monthStart.AddDate(0, 0, 3*i),
				EstimatedQuantity: 50 + 200*rng.Float64(),
				Zone:              zone,
			})
		}
	}
	return incidents
}

// --- tests ---

func TestPipelineRunHappyPath(t *testing.T) {
	frozen := time.Date(2024, 1, 15, 9, 0, 0, 0, time.UTC)
	pipeline.SetClock(clockwork.NewFakeClockAt(frozen))
	defer pipeline.SetClock(nil)

	p := newTestPipeline(&mockSource{incidents: makeIncidents(t)})

	result, err := p.Run(context.Background(), nil)
	require.NoError(t, err)

	require.Len(t, result.Series, 24)
	assert.Equal(t, time.Date(2023, 12, 31, 0, 0, 0, 0, time.UTC), result.Series.Last().Date)

	require.NotNil(t, result.Diagnostic)
	assert.GreaterOrEqual(t, result.Diagnostic.PValue, 0.0)
	assert.LessOrEqual(t, result.Diagnostic.PValue, 1.0)

	require.Len(t, result.Forecast, 12)
	assert.Equal(t, domain.NextMonthEnd(result.Series.Last().Date), result.Forecast[0].Date)
	for i := 1; i < len(result.Forecast); i++ {
		assert.Equal(t, domain.NextMonthEnd(result.Forecast[i-1].Date), result.Forecast[i].Date)
	}

	assert.Equal(t, frozen, result.GeneratedAt)
}

func TestPipelineRunZoneFilter(t *testing.T) {
	incidents := makeIncidents(t)
	p := newTestPipeline(&mockSource{incidents: incidents})

	all, err := p.Run(context.Background(), nil)
	require.NoError(t, err)
	lagosOnly, err := p.Run(context.Background(), []string{"Lagos"})
	require.NoError(t, err)

	var allTotal, lagosTotal float64
	for _, pt := range all.Series {
		allTotal += pt.TotalVolume
	}
	for _, pt := range lagosOnly.Series {
		lagosTotal += pt.TotalVolume
	}
	assert.Less(t, lagosTotal, allTotal)
}

func TestPipelineRunEmptyInput(t *testing.T) {
	p := newTestPipeline(&mockSource{})

	result, err := p.Run(context.Background(), nil)
	require.ErrorIs(t, err, domain.ErrEmptyInput)
	assert.Nil(t, result)
}

func TestPipelineRunUnknownZone(t *testing.T) {
	p := newTestPipeline(&mockSource{incidents: makeIncidents(t)})

	_, err := p.Run(context.Background(), []string{"Nowhere"})
	require.ErrorIs(t, err, domain.ErrEmptyInput)
}

func TestPipelineRunSourceError(t *testing.T) {
	p := newTestPipeline(&mockSource{err: errors.New("disk gone")})

	_, err := p.Run(context.Background(), nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "load incidents")
}

func TestPipelineReadiness(t *testing.T) {
	src := &mockSource{incidents: makeIncidents(t)}
	p := newTestPipeline(src)
	ctx := context.Background()

	require.Error(t, p.CheckReadiness(ctx))

	require.NoError(t, p.Warm(ctx))
	require.NoError(t, p.CheckReadiness(ctx))
	assert.Equal(t, 1, src.calls)
}

func TestPipelineReadinessAfterFirstRun(t *testing.T) {
	p := newTestPipeline(&mockSource{incidents: makeIncidents(t)})
	ctx := context.Background()

	require.Error(t, p.CheckReadiness(ctx))
	_, err := p.Run(ctx, nil)
	require.NoError(t, err)
	require.NoError(t, p.CheckReadiness(ctx))
}

func TestPipelineZones(t *testing.T) {
	p := newTestPipeline(&mockSource{incidents: makeIncidents(t)})

	zones, err := p.Zones(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"Bayelsa", "Lagos"}, zones)
}
