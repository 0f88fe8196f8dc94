// Package stats implements the stationarity diagnostic run against the
// monthly spill-volume series.
package stats

import (
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"
)

// ErrDegenerateSeries reports a series the unit-root test is undefined or
// uninformative for: fewer than two points, zero variance, or a regression
// with too few observations to identify.
var ErrDegenerateSeries = errors.New("series is degenerate for stationarity testing")

// ADFResult holds the Augmented Dickey-Fuller test outputs. Statistic and
// PValue are the contract; Lags and NObs describe the fitted regression.
type ADFResult struct {
	Statistic float64 `json:"statistic"`
	PValue    float64 `json:"p_value"`
	Lags      int     `json:"lags"`
	NObs      int     `json:"nobs"`
}

// ADF runs an Augmented Dickey-Fuller unit-root test with a constant-only
// regression and automatic lag selection floor((n-1)^(1/3)):
//
//	Δy_t = α + β·y_{t-1} + Σ γ_i·Δy_{t-i} + ε_t
//
// The null hypothesis is β = 0 (unit root, non-stationary); the statistic is
// the t-ratio of β and the p-value a MacKinnon response-surface interpolation.
// Callers are responsible for sample-size adequacy: short series still
// execute, but the result is statistically unreliable below ~12-20 points.
func ADF(values []float64) (*ADFResult, error) {
	n := len(values)
	if n < 2 {
		return nil, fmt.Errorf("%w: need at least 2 observations, got %d", ErrDegenerateSeries, n)
	}
	if stat.Variance(values, nil) == 0 {
		return nil, fmt.Errorf("%w: series has zero variance", ErrDegenerateSeries)
	}

	lags := int(math.Floor(math.Cbrt(float64(n - 1))))
	// Shrink the lag order until the regression keeps more observations than
	// parameters plus one residual degree of freedom.
	for lags > 0 && n-1-lags <= 2+lags+1 {
		lags--
	}
	nObs := n - 1 - lags
	k := 2 + lags // constant, lagged level, lagged differences
	if nObs <= k {
		return nil, fmt.Errorf("%w: %d observations cannot identify %d regression terms", ErrDegenerateSeries, nObs, k)
	}

	diff := difference(values)

	y := mat.NewVecDense(nObs, nil)
	x := mat.NewDense(nObs, k, nil)
	for i := 0; i < nObs; i++ {
		t := i + lags + 1 // index into values
		y.SetVec(i, diff[t-1])
		x.Set(i, 0, 1)
		x.Set(i, 1, values[t-1])
		for j := 1; j <= lags; j++ {
			x.Set(i, 1+j, diff[t-1-j])
		}
	}

	beta, se, err := olsWithStdErr(x, y)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDegenerateSeries, err)
	}

	tStat := beta[1] / se[1]
	if math.IsNaN(tStat) || math.IsInf(tStat, 0) {
		return nil, fmt.Errorf("%w: level coefficient has no finite t-ratio", ErrDegenerateSeries)
	}

	return &ADFResult{
		Statistic: tStat,
		PValue:    mackinnonPValue(tStat),
		Lags:      lags,
		NObs:      nObs,
	}, nil
}

// olsWithStdErr solves y = Xβ + ε by ordinary least squares and returns the
// coefficients with their standard errors.
func olsWithStdErr(x *mat.Dense, y *mat.VecDense) (coeffs, stdErr []float64, err error) {
	nObs, k := x.Dims()

	var xtx mat.Dense
	xtx.Mul(x.T(), x)

	var xtxInv mat.Dense
	if err := xtxInv.Inverse(&xtx); err != nil {
		return nil, nil, errors.New("regressors are collinear")
	}

	var xty mat.VecDense
	xty.MulVec(x.T(), y)

	var beta mat.VecDense
	beta.MulVec(&xtxInv, &xty)

	var fitted mat.VecDense
	fitted.MulVec(x, &beta)

	sse := 0.0
	for i := 0; i < nObs; i++ {
		r := y.AtVec(i) - fitted.AtVec(i)
		sse += r * r
	}
	s2 := sse / float64(nObs-k)

	coeffs = make([]float64, k)
	stdErr = make([]float64, k)
	for i := 0; i < k; i++ {
		coeffs[i] = beta.AtVec(i)
		stdErr[i] = math.Sqrt(s2 * xtxInv.At(i, i))
	}
	if stdErr[1] == 0 {
		return nil, nil, errors.New("regression fits exactly, standard error is zero")
	}
	return coeffs, stdErr, nil
}

// mackinnonPValue interpolates an approximate p-value for the constant-only
// Dickey-Fuller distribution from MacKinnon (1994) critical values.
func mackinnonPValue(stat float64) float64 {
	switch {
	case stat < -3.96:
		return 0.001
	case stat < -3.43:
		return 0.01
	case stat < -2.86:
		return 0.05
	case stat < -2.57:
		return 0.10
	case stat < -1.94:
		return 0.25
	case stat < -1.62:
		return 0.50
	default:
		return math.Min(0.5+(stat+1.62)*0.25, 0.99)
	}
}

func difference(values []float64) []float64 {
	d := make([]float64, len(values)-1)
	for i := range d {
		d[i] = values[i+1] - values[i]
	}
	return d
}
