// Package regress provides trainable estimators satisfying the eval port:
// an ordinary least-squares linear regression and a last-value baseline.
package regress

import (
	"errors"
	"fmt"
	"math"

	"forecast-systemv1/internal/eval"
	"forecast-systemv1/internal/model"
)

// ridge is a tiny diagonal term added to the normal equations so X'X stays
// nonsingular when a feature column is constant (e.g. RSI pinned at 100
// during a monotonic stretch).
const ridge = 1e-6

// Linear fits ordinary least squares with an intercept via the normal
// equations, solved by Gaussian elimination with partial pivoting.
type Linear struct{}

// NewLinear returns the OLS estimator.
func NewLinear() *Linear { return &Linear{} }

func (l *Linear) Name() string { return "ols" }

// Fit trains on rows and returns a fitted linear model. It requires at
// least one more row than the feature width (plus intercept).
func (l *Linear) Fit(rows []model.SupervisedRow) (eval.Model, error) {
	if len(rows) == 0 {
		return nil, errors.New("ols: no training rows")
	}
	d := len(rows[0].Features)
	if d == 0 {
		return nil, errors.New("ols: empty feature vector")
	}
	for _, r := range rows {
		if len(r.Features) != d {
			return nil, fmt.Errorf("ols: inconsistent feature width %d vs %d", len(r.Features), d)
		}
	}
	if len(rows) < d+1 {
		return nil, fmt.Errorf("ols: need at least %d rows for %d features, got %d", d+1, d, len(rows))
	}

	// Normal equations over [1, x1..xd]: A = X'X (+ridge), b = X'y.
	k := d + 1
	a := make([][]float64, k)
	for i := range a {
		a[i] = make([]float64, k)
	}
	b := make([]float64, k)

	x := make([]float64, k)
	for _, r := range rows {
		x[0] = 1
		copy(x[1:], r.Features)
		for i := 0; i < k; i++ {
			for j := 0; j < k; j++ {
				a[i][j] += x[i] * x[j]
			}
			b[i] += x[i] * r.Label
		}
	}
	for i := 1; i < k; i++ {
		a[i][i] += ridge
	}

	weights, err := solve(a, b)
	if err != nil {
		return nil, fmt.Errorf("ols: %w", err)
	}
	return &linearModel{weights: weights}, nil
}

// solve performs in-place Gaussian elimination with partial pivoting on the
// augmented system a·w = b.
func solve(a [][]float64, b []float64) ([]float64, error) {
	k := len(b)
	for col := 0; col < k; col++ {
		pivot := col
		for r := col + 1; r < k; r++ {
			if math.Abs(a[r][col]) > math.Abs(a[pivot][col]) {
				pivot = r
			}
		}
		if math.Abs(a[pivot][col]) < 1e-12 {
			return nil, errors.New("singular design matrix")
		}
		a[col], a[pivot] = a[pivot], a[col]
		b[col], b[pivot] = b[pivot], b[col]

		for r := col + 1; r < k; r++ {
			f := a[r][col] / a[col][col]
			for c := col; c < k; c++ {
				a[r][c] -= f * a[col][c]
			}
			b[r] -= f * b[col]
		}
	}

	w := make([]float64, k)
	for i := k - 1; i >= 0; i-- {
		sum := b[i]
		for j := i + 1; j < k; j++ {
			sum -= a[i][j] * w[j]
		}
		w[i] = sum / a[i][i]
	}
	return w, nil
}

type linearModel struct {
	weights []float64 // weights[0] is the intercept
}

func (m *linearModel) Predict(features []float64) float64 {
	y := m.weights[0]
	for i := 0; i < len(features) && i+1 < len(m.weights); i++ {
		y += m.weights[i+1] * features[i]
	}
	return y
}
