package domain

import (
	"errors"
	"time"
)

// ErrEmptyInput reports an aggregation attempt over zero incident records.
// Downstream stages cannot proceed without a series.
var ErrEmptyInput = errors.New("no incident records to aggregate")

// AggregateMonthly resamples incidents into a monthly total-volume series.
// Incidents are bucketed by the month-end of their incident date and summed
// per bucket. The output covers every calendar month from the earliest to the
// latest incident month inclusive; months with no incidents carry a total of
// 0. Input order does not matter and the input is never mutated.
func AggregateMonthly(incidents []Incident) (MonthlySeries, error) {
	if len(incidents) == 0 {
		return nil, ErrEmptyInput
	}

	totals := make(map[time.Time]float64)
	var first, last time.Time
	for _, inc := range incidents {
		me := MonthEnd(inc.Date)
		totals[me] += inc.EstimatedQuantity
		if first.IsZero() || me.Before(first) {
			first = me
		}
		if me.After(last) {
			last = me
		}
	}

	series := make(MonthlySeries, 0, len(totals))
	for cursor := first; !cursor.After(last); cursor = NextMonthEnd(cursor) {
		series = append(series, MonthlyPoint{Date: cursor, TotalVolume: totals[cursor]})
	}
	return series, nil
}
