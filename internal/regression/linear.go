// Package regression fits and applies an ordinary-least-squares multiple
// linear model solved in closed form with the normal equation
// β = (XᵗX)⁻¹Xᵗy. β[0] is the intercept.
package regression

import (
	"fmt"
	"math"
	"sync"

	lop "github.com/samber/lo/parallel"
	"gonum.org/v1/gonum/stat"
)

// LinearRegression is an OLS model. The zero value is an untrained model.
// Safe for concurrent prediction; Train takes the write lock.
type LinearRegression struct {
	mu      sync.RWMutex
	coef    []float64
	trained bool
}

// New returns an untrained model.
func New() *LinearRegression {
	return &LinearRegression{}
}

// Train fits the model on X (one row per example) and y.
// On any error the model is left untrained and prior coefficients are discarded.
func (m *LinearRegression) Train(X [][]float64, y []float64) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.trained = false
	m.coef = nil

	if len(X) == 0 || len(X) != len(y) {
		return fmt.Errorf("train: %d rows, %d targets: %w", len(X), len(y), ErrDimensionMismatch)
	}
	width := len(X[0])
	for i, row := range X {
		if len(row) != width {
			return fmt.Errorf("train: row %d has %d features, want %d: %w", i, len(row), width, ErrDimensionMismatch)
		}
		if j := nonFinite(row); j >= 0 {
			return fmt.Errorf("train: row %d feature %d is %v: %w", i, j, row[j], ErrNonFiniteInput)
		}
	}
	if j := nonFinite(y); j >= 0 {
		return fmt.Errorf("train: target %d is %v: %w", j, y[j], ErrNonFiniteInput)
	}

	design := make([][]float64, len(X))
	for i, row := range X {
		design[i] = make([]float64, width+1)
		design[i][0] = 1.0
		copy(design[i][1:], row)
	}

	xt, err := Transpose(design)
	if err != nil {
		return fmt.Errorf("train: %w", err)
	}
	xtx, err := Multiply(xt, design)
	if err != nil {
		return fmt.Errorf("train: %w", err)
	}
	inv, err := Invert(xtx)
	if err != nil {
		return fmt.Errorf("train: %w", err)
	}
	xty, err := MultiplyVector(xt, y)
	if err != nil {
		return fmt.Errorf("train: %w", err)
	}
	coef, err := MultiplyVector(inv, xty)
	if err != nil {
		return fmt.Errorf("train: %w", err)
	}

	m.coef = coef
	m.trained = true
	return nil
}

// Predict returns β₀ + Σ βᵢxᵢ.
func (m *LinearRegression) Predict(x []float64) (float64, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if err := m.checkWidth(len(x)); err != nil {
		return 0, err
	}
	return m.coef[0] + dot(m.coef[1:], x), nil
}

// PredictBatch predicts every row. Rows are independent and computed concurrently.
func (m *LinearRegression) PredictBatch(X [][]float64) ([]float64, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	for i, row := range X {
		if err := m.checkWidth(len(row)); err != nil {
			return nil, fmt.Errorf("row %d: %w", i, err)
		}
	}
	coef := m.coef
	return lop.Map(X, func(row []float64, _ int) float64 {
		return coef[0] + dot(coef[1:], row)
	}), nil
}

// Evaluate returns the mean squared error over X, y.
func (m *LinearRegression) Evaluate(X [][]float64, y []float64) (float64, error) {
	preds, err := m.predictAligned(X, y)
	if err != nil {
		return 0, err
	}
	sum := 0.0
	for i, p := range preds {
		d := p - y[i]
		sum += d * d
	}
	return sum / float64(len(y)), nil
}

// RSquared returns 1 - SS_res/SS_tot with SS_tot taken about the mean of y.
// Returns 0 when y has zero variance.
func (m *LinearRegression) RSquared(X [][]float64, y []float64) (float64, error) {
	preds, err := m.predictAligned(X, y)
	if err != nil {
		return 0, err
	}
	mean := stat.Mean(y, nil)
	ssRes, ssTot := 0.0, 0.0
	for i, p := range preds {
		r := y[i] - p
		d := y[i] - mean
		ssRes += r * r
		ssTot += d * d
	}
	if ssTot == 0 {
		return 0, nil
	}
	return 1 - ssRes/ssTot, nil
}

// Coefficients returns a copy of β, intercept first. Nil when untrained.
func (m *LinearRegression) Coefficients() []float64 {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if !m.trained {
		return nil
	}
	cp := make([]float64, len(m.coef))
	copy(cp, m.coef)
	return cp
}

// IsTrained reports whether the last Train call succeeded.
func (m *LinearRegression) IsTrained() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.trained
}

// FeatureCount returns the width the model expects, 0 when untrained.
func (m *LinearRegression) FeatureCount() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if !m.trained {
		return 0
	}
	return len(m.coef) - 1
}

func (m *LinearRegression) predictAligned(X [][]float64, y []float64) ([]float64, error) {
	if !m.IsTrained() {
		return nil, ErrUntrainedModel
	}
	if len(X) == 0 || len(X) != len(y) {
		return nil, fmt.Errorf("%d rows, %d targets: %w", len(X), len(y), ErrDimensionMismatch)
	}
	return m.PredictBatch(X)
}

// checkWidth must be called with mu held.
func (m *LinearRegression) checkWidth(n int) error {
	if !m.trained {
		return ErrUntrainedModel
	}
	if n != len(m.coef)-1 {
		return fmt.Errorf("got %d features, model has %d: %w", n, len(m.coef)-1, ErrDimensionMismatch)
	}
	return nil
}

// nonFinite returns the index of the first NaN or ±Inf in v, -1 if none.
func nonFinite(v []float64) int {
	for i, x := range v {
		if math.IsNaN(x) || math.IsInf(x, 0) {
			return i
		}
	}
	return -1
}
