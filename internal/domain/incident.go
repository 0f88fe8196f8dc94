package domain

import "time"

// Incident is one reported oil-spill event after normalization.
// Records are immutable once parsed; downstream stages read, never mutate.
type Incident struct {
	Date              time.Time `json:"date"`
	EstimatedQuantity float64   `json:"estimated_quantity"` // barrels, strictly positive
	Zone              string    `json:"zone,omitempty"`     // human-readable zonal office, may be empty
}

// MonthlyPoint is one entry of a monthly total-volume series.
type MonthlyPoint struct {
	Date        time.Time `json:"date"` // month-end, UTC
	TotalVolume float64   `json:"total_volume"`
}

// MonthlySeries is a strictly month-end-ordered total-volume series with
// exactly one entry per calendar month in its span.
type MonthlySeries []MonthlyPoint

// Values returns the total-volume column as a plain slice.
func (s MonthlySeries) Values() []float64 {
	values := make([]float64, len(s))
	for i, p := range s {
		values[i] = p.TotalVolume
	}
	return values
}

// Last returns the final point of the series, or a zero point if empty.
func (s MonthlySeries) Last() MonthlyPoint {
	if len(s) == 0 {
		return MonthlyPoint{}
	}
	return s[len(s)-1]
}

// ForecastPoint is one projected entry strictly after the historical span.
type ForecastPoint struct {
	Date            time.Time `json:"date"` // month-end, UTC
	ProjectedVolume float64   `json:"projected_volume"`
}

// ForecastSeries is a month-end-ordered continuation of a MonthlySeries.
type ForecastSeries []ForecastPoint

// MonthEnd returns the last day of t's calendar month, normalized to UTC
// midnight. Day zero of the following month is the closing day of this one.
func MonthEnd(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month()+1, 0, 0, 0, 0, 0, time.UTC)
}

// NextMonthEnd returns the month-end one calendar month after t's month.
func NextMonthEnd(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month()+2, 0, 0, 0, 0, 0, time.UTC)
}

// MonthEndsAfter returns n consecutive month-end dates, the first falling one
// calendar month after last's month. A fitted model knows nothing about
// calendar dates, so the forecast axis is reconstructed here and zipped
// positionally with the projected values.
func MonthEndsAfter(last time.Time, n int) []time.Time {
	dates := make([]time.Time, n)
	cursor := last
	for i := range dates {
		cursor = NextMonthEnd(cursor)
		dates[i] = cursor
	}
	return dates
}
