// Package dataset loads and caches the cleaned NOSDRA incident CSV.
package dataset

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/okobah/spillcast/internal/domain"
	"github.com/okobah/spillcast/internal/observability"
)

// Loader reads incident records from a CSV file and caches the normalized
// result keyed by the file's modification time. A changed mtime invalidates
// the cache on the next Load; an unchanged file is served from memory, so
// repeated dashboard requests do not re-read or re-parse the dataset.
type Loader struct {
	path      string
	zoneNames map[string]string
	logger    *slog.Logger
	metrics   *observability.Metrics

	mu       sync.Mutex
	cached   []domain.Incident
	cachedAt time.Time // source mtime the cache was built from
}

// NewLoader creates a Loader for the given CSV path. The zonal-office mapping
// is injected here and applied once per reload.
func NewLoader(path string, zoneNames map[string]string, logger *slog.Logger, metrics *observability.Metrics) *Loader {
	return &Loader{
		path:      path,
		zoneNames: zoneNames,
		logger:    logger,
		metrics:   metrics,
	}
}

// Load returns the normalized incident set. The returned slice is shared
// between callers and must be treated as read-only.
func (l *Loader) Load(ctx context.Context) ([]domain.Incident, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	info, err := os.Stat(l.path)
	if err != nil {
		return nil, fmt.Errorf("stat dataset: %w", err)
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	if l.cached != nil && info.ModTime().Equal(l.cachedAt) {
		l.metrics.DatasetCacheHits.Inc()
		return l.cached, nil
	}

	incidents, dropped, err := l.read()
	if err != nil {
		return nil, err
	}

	l.cached = incidents
	l.cachedAt = info.ModTime()
	l.metrics.DatasetReloads.Inc()
	l.metrics.IncidentsLoaded.Set(float64(len(incidents)))
	if dropped > 0 {
		l.metrics.RecordsDropped.Add(float64(dropped))
	}
	l.logger.Info("dataset loaded", "path", l.path, "incidents", len(incidents), "dropped", dropped)

	return incidents, nil
}

// read parses the full CSV, returning the normalized incidents and the count
// of rows dropped by normalization.
func (l *Loader) read() ([]domain.Incident, int, error) {
	f, err := os.Open(l.path)
	if err != nil {
		return nil, 0, fmt.Errorf("open dataset: %w", err)
	}
	defer f.Close() //nolint:errcheck // read-only handle

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1

	header, err := r.Read()
	if errors.Is(err, io.EOF) {
		return []domain.Incident{}, 0, nil
	}
	if err != nil {
		return nil, 0, fmt.Errorf("read dataset header: %w", err)
	}

	// Column presence is resolved once here; optional columns simply leave
	// the corresponding record field empty.
	cols := columnIndex(header)
	dateIdx, ok := cols["incidentdate"]
	if !ok {
		return nil, 0, errors.New("dataset is missing the incidentdate column")
	}
	qtyIdx, ok := cols["estimatedquantity"]
	if !ok {
		return nil, 0, errors.New("dataset is missing the estimatedquantity column")
	}
	zoneIdx, hasZone := cols["zonaloffice"]
	locIdx, hasLocation := cols["location"]

	var incidents []domain.Incident
	dropped := 0
	for {
		row, err := r.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, 0, fmt.Errorf("read dataset row: %w", err)
		}

		rec := domain.RawIncidentRecord{
			IncidentDate:      field(row, dateIdx),
			EstimatedQuantity: field(row, qtyIdx),
		}
		if hasZone {
			rec.ZonalOffice = field(row, zoneIdx)
		}
		if hasLocation {
			rec.Location = field(row, locIdx)
		}

		incident, ok := domain.ParseIncident(rec, l.zoneNames)
		if !ok {
			dropped++
			continue
		}
		incidents = append(incidents, incident)
	}

	return incidents, dropped, nil
}

func columnIndex(header []string) map[string]int {
	cols := make(map[string]int, len(header))
	for i, name := range header {
		cols[strings.ToLower(strings.TrimSpace(name))] = i
	}
	return cols
}

func field(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}
	return row[idx]
}
