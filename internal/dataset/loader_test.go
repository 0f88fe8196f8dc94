package dataset

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/okobah/spillcast/internal/domain"
	"github.com/okobah/spillcast/internal/observability"
)

func writeCSV(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "nosdra_cleaned.csv")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func newTestLoader(path string) *Loader {
	return NewLoader(path, domain.DefaultZoneNames(), slog.Default(), observability.NewMetricsForTesting())
}

func TestLoaderLoad(t *testing.T) {
	path := writeCSV(t, `incidentdate,estimatedquantity,zonaloffice,location
2021-01-05,100,ph,Bodo West
2021-01-20,50,by,Nembe Creek
bad-date,10,ph,Somewhere
2021-02-10,0,ph,Zero Row
2021-02-10,200,lg,Atlas Cove
`)

	incidents, err := newTestLoader(path).Load(context.Background())
	require.NoError(t, err)

	require.Len(t, incidents, 3)
	assert.Equal(t, "Port Harcourt", incidents[0].Zone)
	assert.Equal(t, 100.0, incidents[0].EstimatedQuantity)
	assert.Equal(t, "Bayelsa", incidents[1].Zone)
	assert.Equal(t, "Lagos", incidents[2].Zone)
}

func TestLoaderOptionalZoneColumn(t *testing.T) {
	path := writeCSV(t, `incidentdate,estimatedquantity
2021-01-05,100
2021-02-10,200
`)

	incidents, err := newTestLoader(path).Load(context.Background())
	require.NoError(t, err)

	require.Len(t, incidents, 2)
	for _, inc := range incidents {
		assert.Empty(t, inc.Zone)
	}
}

func TestLoaderHeaderCaseInsensitive(t *testing.T) {
	path := writeCSV(t, `IncidentDate,EstimatedQuantity,ZonalOffice
2021-01-05,100,uy
`)

	incidents, err := newTestLoader(path).Load(context.Background())
	require.NoError(t, err)

	require.Len(t, incidents, 1)
	assert.Equal(t, "Uyo", incidents[0].Zone)
}

func TestLoaderMissingRequiredColumn(t *testing.T) {
	path := writeCSV(t, `incidentdate,zonaloffice
2021-01-05,ph
`)

	_, err := newTestLoader(path).Load(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "estimatedquantity")
}

func TestLoaderEmptyFile(t *testing.T) {
	path := writeCSV(t, "")

	incidents, err := newTestLoader(path).Load(context.Background())
	require.NoError(t, err)
	assert.Empty(t, incidents)
}

func TestLoaderMissingFile(t *testing.T) {
	_, err := newTestLoader(filepath.Join(t.TempDir(), "absent.csv")).Load(context.Background())
	require.Error(t, err)
}

func TestLoaderCacheKeyedByModTime(t *testing.T) {
	path := writeCSV(t, `incidentdate,estimatedquantity,zonaloffice
2021-01-05,100,ph
`)
	info, err := os.Stat(path)
	require.NoError(t, err)
	originalMtime := info.ModTime()

	loader := newTestLoader(path)
	ctx := context.Background()

	first, err := loader.Load(ctx)
	require.NoError(t, err)
	require.Len(t, first, 1)

	// Rewrite the file but pin the mtime back: the cache must keep serving
	// the old parse, proving invalidation is keyed on modification time.
	require.NoError(t, os.WriteFile(path, []byte(`incidentdate,estimatedquantity,zonaloffice
2021-01-05,100,ph
2021-02-10,200,by
`), 0o644))
	require.NoError(t, os.Chtimes(path, originalMtime, originalMtime))

	cachedResult, err := loader.Load(ctx)
	require.NoError(t, err)
	assert.Len(t, cachedResult, 1)

	// Advancing the mtime invalidates the cache.
	bumped := originalMtime.Add(2 * time.Second)
	require.NoError(t, os.Chtimes(path, bumped, bumped))

	reloaded, err := loader.Load(ctx)
	require.NoError(t, err)
	assert.Len(t, reloaded, 2)
}

func TestLoaderCancelledContext(t *testing.T) {
	path := writeCSV(t, `incidentdate,estimatedquantity
2021-01-05,100
`)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := newTestLoader(path).Load(ctx)
	require.ErrorIs(t, err, context.Canceled)
}
