package regression

import "errors"

var (
	// ErrDimensionMismatch covers empty inputs, unequal lengths, ragged
	// rows and feature widths that disagree with the fitted model.
	ErrDimensionMismatch = errors.New("dimension mismatch")

	// ErrSingularMatrix means XᵗX could not be inverted within tolerance.
	ErrSingularMatrix = errors.New("singular matrix")

	// ErrUntrainedModel is returned by prediction and evaluation before a
	// successful Train.
	ErrUntrainedModel = errors.New("model not trained")

	// ErrNonFiniteInput means a feature or target was NaN or ±Inf.
	ErrNonFiniteInput = errors.New("non-finite input")
)
