package regression

import (
	"fmt"
	"math"
)

// PivotTolerance is the smallest pivot magnitude Invert accepts.
const PivotTolerance = 1e-10

// Transpose returns the transpose of a rectangular matrix.
func Transpose(a [][]float64) ([][]float64, error) {
	rows, cols, err := shape(a)
	if err != nil {
		return nil, err
	}
	out := make([][]float64, cols)
	for j := range out {
		out[j] = make([]float64, rows)
		for i := 0; i < rows; i++ {
			out[j][i] = a[i][j]
		}
	}
	return out, nil
}

// Multiply returns a·b.
func Multiply(a, b [][]float64) ([][]float64, error) {
	ar, ac, err := shape(a)
	if err != nil {
		return nil, err
	}
	br, bc, err := shape(b)
	if err != nil {
		return nil, err
	}
	if ac != br {
		return nil, fmt.Errorf("multiply %dx%d by %dx%d: %w", ar, ac, br, bc, ErrDimensionMismatch)
	}

	out := make([][]float64, ar)
	for i := range out {
		out[i] = make([]float64, bc)
		for k := 0; k < ac; k++ {
			aik := a[i][k]
			if aik == 0 {
				continue
			}
			for j := 0; j < bc; j++ {
				out[i][j] += aik * b[k][j]
			}
		}
	}
	return out, nil
}

// MultiplyVector returns a·v.
func MultiplyVector(a [][]float64, v []float64) ([]float64, error) {
	rows, cols, err := shape(a)
	if err != nil {
		return nil, err
	}
	if cols != len(v) {
		return nil, fmt.Errorf("multiply %dx%d by vector of %d: %w", rows, cols, len(v), ErrDimensionMismatch)
	}
	out := make([]float64, rows)
	for i := range out {
		out[i] = dot(a[i], v)
	}
	return out, nil
}

// Invert returns the inverse of a square matrix using Gauss-Jordan
// elimination on [A|I] with partial pivoting. The input is not modified.
// A pivot smaller than PivotTolerance in magnitude returns ErrSingularMatrix.
func Invert(a [][]float64) ([][]float64, error) {
	n, cols, err := shape(a)
	if err != nil {
		return nil, err
	}
	if n != cols {
		return nil, fmt.Errorf("invert %dx%d: %w", n, cols, ErrDimensionMismatch)
	}

	// Augmented [A | I]
	aug := make([][]float64, n)
	for i := range aug {
		aug[i] = make([]float64, 2*n)
		copy(aug[i], a[i])
		aug[i][n+i] = 1
	}

	for col := 0; col < n; col++ {
		// Partial pivoting: largest magnitude at or below the diagonal
		pivotRow := col
		for r := col + 1; r < n; r++ {
			if math.Abs(aug[r][col]) > math.Abs(aug[pivotRow][col]) {
				pivotRow = r
			}
		}
		// Written so a NaN pivot is rejected too
		if !(math.Abs(aug[pivotRow][col]) >= PivotTolerance) {
			return nil, fmt.Errorf("pivot %.3g at column %d: %w", aug[pivotRow][col], col, ErrSingularMatrix)
		}
		aug[col], aug[pivotRow] = aug[pivotRow], aug[col]

		pivot := aug[col][col]
		for j := range aug[col] {
			aug[col][j] /= pivot
		}

		for r := 0; r < n; r++ {
			if r == col {
				continue
			}
			factor := aug[r][col]
			if factor == 0 {
				continue
			}
			for j := range aug[r] {
				aug[r][j] -= factor * aug[col][j]
			}
		}
	}

	inv := make([][]float64, n)
	for i := range inv {
		inv[i] = aug[i][n:]
	}
	return inv, nil
}

// shape validates a non-empty rectangular matrix and returns its dimensions.
func shape(a [][]float64) (rows, cols int, err error) {
	if len(a) == 0 || len(a[0]) == 0 {
		return 0, 0, fmt.Errorf("empty matrix: %w", ErrDimensionMismatch)
	}
	cols = len(a[0])
	for i, row := range a {
		if len(row) != cols {
			return 0, 0, fmt.Errorf("row %d has %d columns, want %d: %w", i, len(row), cols, ErrDimensionMismatch)
		}
	}
	return len(a), cols, nil
}

func dot(a, b []float64) float64 {
	sum := 0.0
	for i := range a {
		sum += a[i] * b[i]
	}
	return sum
}
