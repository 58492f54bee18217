package regress

import (
	"errors"

	"forecast-systemv1/internal/eval"
	"forecast-systemv1/internal/model"
)

// LastValue is the persistence baseline: it predicts the final training
// label for every test row. Any real estimator should beat it.
type LastValue struct{}

// NewLastValue returns the persistence baseline estimator.
func NewLastValue() *LastValue { return &LastValue{} }

func (l *LastValue) Name() string { return "last_value" }

func (l *LastValue) Fit(rows []model.SupervisedRow) (eval.Model, error) {
	if len(rows) == 0 {
		return nil, errors.New("last_value: no training rows")
	}
	return lastValueModel{last: rows[len(rows)-1].Label}, nil
}

type lastValueModel struct {
	last float64
}

func (m lastValueModel) Predict(_ []float64) float64 { return m.last }
