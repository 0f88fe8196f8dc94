package forecast

import (
	"github.com/okobah/spillcast/internal/domain"
)

// Horizon is the fixed number of future months projected per invocation.
const Horizon = 12

// arimaOrder is the fixed model specification: one autoregressive term, one
// order of differencing, one moving-average term. There is no order search
// and no train/test split; the model is fit once on the full series.
var arimaOrder = struct{ p, d, q int }{1, 1, 1}

// Project fits ARIMA(1,1,1) to the full monthly series and returns a dated
// continuation of exactly horizon points. The first forecast date falls one
// calendar month after the last historical month-end; the fitted model knows
// nothing about dates, so the axis is rebuilt here and zipped positionally
// with the projected values.
func Project(series domain.MonthlySeries, horizon int) (domain.ForecastSeries, error) {
	model := New(arimaOrder.p, arimaOrder.d, arimaOrder.q)
	if err := model.Fit(series.Values()); err != nil {
		return nil, err
	}

	values, err := model.Forecast(horizon)
	if err != nil {
		return nil, err
	}

	dates := domain.MonthEndsAfter(series.Last().Date, horizon)
	projected := make(domain.ForecastSeries, horizon)
	for i := range projected {
		projected[i] = domain.ForecastPoint{Date: dates[i], ProjectedVolume: values[i]}
	}
	return projected, nil
}
