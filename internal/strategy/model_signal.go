package strategy

import (
	"fmt"

	"pricelab/internal/features"
	"pricelab/internal/model"
)

// Predictor is the part of a fitted regression model the signal rule needs.
type Predictor interface {
	PredictBatch(X [][]float64) ([]float64, error)
}

// ModelSignal is long while a fitted model forecasts the close `horizon` bars
// ahead to exceed the current close by more than Threshold (fraction).
type ModelSignal struct {
	predictor Predictor
	engineer  *features.Engineer
	threshold float64
}

// NewModelSignal builds the rule from a fitted predictor and the engineer it was trained with.
func NewModelSignal(p Predictor, eng *features.Engineer, threshold float64) *ModelSignal {
	return &ModelSignal{predictor: p, engineer: eng, threshold: threshold}
}

func (m *ModelSignal) Name() string {
	return fmt.Sprintf("model>%.4f", m.threshold)
}

// Signals is flat on bars without a feature vector (warm-up, dropped rows).
func (m *ModelSignal) Signals(bars []model.Bar) ([]int, error) {
	out := make([]int, len(bars))
	vecs := m.engineer.FeatureVectors(bars)
	if vecs.Empty() {
		return out, nil
	}

	preds, err := m.predictor.PredictBatch(vecs.X)
	if err != nil {
		return nil, fmt.Errorf("model signal: %w", err)
	}
	for k, i := range vecs.Index {
		if preds[k] > bars[i].Close*(1+m.threshold) {
			out[i] = SignalLong
		}
	}
	return out, nil
}
