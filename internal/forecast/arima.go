// Package forecast fits the fixed-order ARIMA model used by the dashboard
// and projects the monthly spill-volume series forward.
package forecast

import (
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/stat"
)

var (
	// ErrInsufficientData reports a series too short for a differenced
	// ARIMA fit to be identifiable.
	ErrInsufficientData = errors.New("series too short for a differenced arima fit")

	// ErrNonConvergence reports an optimizer that diverged into non-finite
	// state. It is surfaced to the caller, never retried.
	ErrNonConvergence = errors.New("arima optimizer did not converge")
)

const (
	// minDiffObs is the minimum number of observations left after
	// differencing for the CSS estimate to be identifiable.
	minDiffObs = 5

	maxIterations = 200
	tolerance     = 1e-8
	learnRate     = 0.05
	coeffBound    = 0.99
)

// Model is a univariate ARIMA(p,d,q) model estimated by conditional sum of
// squares. Estimation runs on the standardized differenced series so the
// gradient steps are well conditioned regardless of the data's scale; the
// learned AR/MA coefficients are scale-invariant and the drift is restored
// when forecasting. Model state lives for a single fit/forecast cycle and is
// never persisted.
type Model struct {
	P, D, Q int

	AR []float64 // autoregressive coefficients (phi)
	MA []float64 // moving-average coefficients (theta)

	mean      float64   // mean of the differenced series (drift)
	scale     float64   // standard deviation of the differenced series
	z         []float64 // standardized differenced series
	residuals []float64 // one-step residuals on the standardized scale
	original  []float64
	fitted    bool
}

// New creates an unfitted ARIMA model with the given order.
func New(p, d, q int) *Model {
	return &Model{
		P:  p,
		D:  d,
		Q:  q,
		AR: make([]float64, p),
		MA: make([]float64, q),
	}
}

// Fit estimates the model from the series values. It fails with
// ErrInsufficientData when fewer than minDiffObs points remain after
// differencing and with ErrNonConvergence when estimation diverges.
func (m *Model) Fit(values []float64) error {
	diffed := values
	for i := 0; i < m.D; i++ {
		if len(diffed) < 2 {
			return fmt.Errorf("%w: %d points cannot be differenced %d times", ErrInsufficientData, len(values), m.D)
		}
		diffed = difference(diffed)
	}
	if len(diffed) < minDiffObs {
		return fmt.Errorf("%w: %d points after differencing, need at least %d", ErrInsufficientData, len(diffed), minDiffObs)
	}

	m.original = append([]float64(nil), values...)
	m.mean = stat.Mean(diffed, nil)
	m.scale = stat.StdDev(diffed, nil)
	m.z = make([]float64, len(diffed))

	if m.scale == 0 {
		// A constant differenced series (perfect linear trend) leaves
		// nothing for the AR/MA terms to explain; the drift alone is the
		// model and the forecast continues the trend exactly.
		m.scale = 1
		m.residuals = make([]float64, len(diffed))
		m.fitted = true
		return nil
	}

	for i, v := range diffed {
		m.z[i] = (v - m.mean) / m.scale
	}

	// Yule-Walker order-one initialization for the leading AR term,
	// small nonzero start for the MA terms.
	if m.P > 0 {
		m.AR[0] = clamp(lagOneAutocorr(m.z))
	}
	for i := range m.MA {
		m.MA[i] = 0.1
	}

	if err := m.estimate(); err != nil {
		return err
	}
	m.fitted = true
	return nil
}

// estimate refines the AR/MA coefficients by gradient descent on the
// conditional sum of squared one-step errors.
func (m *Model) estimate() error {
	n := len(m.z)
	resid := make([]float64, n)
	prevSSE := math.Inf(1)

	for iter := 0; iter < maxIterations; iter++ {
		sse := m.computeResiduals(resid)
		if math.IsNaN(sse) || math.IsInf(sse, 0) {
			return fmt.Errorf("%w: sum of squares is not finite", ErrNonConvergence)
		}
		if math.Abs(prevSSE-sse) < tolerance {
			break
		}
		prevSSE = sse

		arGrad := make([]float64, m.P)
		maGrad := make([]float64, m.Q)
		for t := m.startIndex(); t < n; t++ {
			for i := 0; i < m.P; i++ {
				arGrad[i] -= 2 * resid[t] * m.z[t-i-1]
			}
			for i := 0; i < m.Q; i++ {
				maGrad[i] -= 2 * resid[t] * resid[t-i-1]
			}
		}

		for i := 0; i < m.P; i++ {
			m.AR[i] = clamp(m.AR[i] - learnRate*arGrad[i]/float64(n))
		}
		for i := 0; i < m.Q; i++ {
			m.MA[i] = clamp(m.MA[i] - learnRate*maGrad[i]/float64(n))
		}
	}

	sse := m.computeResiduals(resid)
	if math.IsNaN(sse) || math.IsInf(sse, 0) || !allFinite(m.AR) || !allFinite(m.MA) {
		return fmt.Errorf("%w: estimated coefficients are not finite", ErrNonConvergence)
	}
	m.residuals = resid
	return nil
}

// computeResiduals fills resid with one-step errors under the current
// coefficients and returns the conditional sum of squares.
func (m *Model) computeResiduals(resid []float64) float64 {
	n := len(m.z)
	for i := range resid {
		resid[i] = 0
	}

	sse := 0.0
	for t := m.startIndex(); t < n; t++ {
		pred := 0.0
		for i := 0; i < m.P; i++ {
			pred += m.AR[i] * m.z[t-i-1]
		}
		for i := 0; i < m.Q; i++ {
			pred += m.MA[i] * resid[t-i-1]
		}
		resid[t] = m.z[t] - pred
		sse += resid[t] * resid[t]
	}
	return sse
}

// Forecast generates point estimates for the given number of steps ahead on
// the original (undifferenced) scale.
func (m *Model) Forecast(steps int) ([]float64, error) {
	if !m.fitted {
		return nil, errors.New("model must be fitted before forecasting")
	}
	if steps < 1 {
		return nil, errors.New("forecast horizon must be at least 1")
	}

	n := len(m.z)
	extZ := make([]float64, n+steps)
	copy(extZ, m.z)
	extE := make([]float64, n+steps)
	copy(extE, m.residuals)

	// Future residuals have expectation zero; the recursion beyond the
	// sample feeds on its own forecasts.
	for h := 0; h < steps; h++ {
		t := n + h
		pred := 0.0
		for i := 0; i < m.P && t-i-1 >= 0; i++ {
			pred += m.AR[i] * extZ[t-i-1]
		}
		for i := 0; i < m.Q && t-i-1 >= 0 && t-i-1 < n; i++ {
			pred += m.MA[i] * extE[t-i-1]
		}
		extZ[t] = pred
	}

	diffForecast := make([]float64, steps)
	for h := 0; h < steps; h++ {
		diffForecast[h] = extZ[n+h]*m.scale + m.mean
	}

	return m.integrate(diffForecast), nil
}

// integrate undoes the differencing, anchoring each pass on the tail of the
// original series.
func (m *Model) integrate(forecasts []float64) []float64 {
	result := append([]float64(nil), forecasts...)
	for i := 0; i < m.D; i++ {
		lastVal := m.original[len(m.original)-1-i]
		for j := range result {
			if j == 0 {
				result[j] += lastVal
			} else {
				result[j] += result[j-1]
			}
		}
	}
	return result
}

func (m *Model) startIndex() int {
	if m.P > m.Q {
		return m.P
	}
	return m.Q
}

func lagOneAutocorr(z []float64) float64 {
	var num, den float64
	for t := 1; t < len(z); t++ {
		num += z[t] * z[t-1]
	}
	for _, v := range z {
		den += v * v
	}
	if den == 0 {
		return 0
	}
	return num / den
}

func clamp(v float64) float64 {
	switch {
	case v < -coeffBound:
		return -coeffBound
	case v > coeffBound:
		return coeffBound
	default:
		return v
	}
}

func allFinite(values []float64) bool {
	for _, v := range values {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}

func difference(values []float64) []float64 {
	d := make([]float64, len(values)-1)
	for i := range d {
		d[i] = values[i+1] - values[i]
	}
	return d
}
