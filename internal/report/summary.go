package report

import (
	"github.com/samber/lo"

	"pricelab/internal/pipeline"
	"pricelab/internal/portfolio"
)

// Coefficient is one named model weight.
type Coefficient struct {
	Name  string  `json:"name"`
	Value float64 `json:"value"`
}

// PredictSummary is the summary.json document for a predictor run.
type PredictSummary struct {
	RunID        string               `json:"run_id"`
	Kind         string               `json:"kind"`
	Bars         int                  `json:"bars"`
	Samples      int                  `json:"samples"`
	TrainSamples int                  `json:"train_samples"`
	TestSamples  int                  `json:"test_samples"`
	Intercept    float64              `json:"intercept"`
	Coefficients []Coefficient        `json:"coefficients"`
	Train        pipeline.Evaluation  `json:"train"`
	Test         pipeline.Evaluation  `json:"test"`
	Latest       *pipeline.Prediction `json:"latest,omitempty"`
	Forecast     *pipeline.Forecast   `json:"forecast,omitempty"`
}

// BacktestSummary is the summary.json document for a backtest run.
type BacktestSummary struct {
	RunID    string `json:"run_id"`
	Kind     string `json:"kind"`
	Strategy string `json:"strategy"`
	Bars     int    `json:"bars"`
	Exits    int    `json:"signal_exits"`
	Fills    int    `json:"fills"`
	portfolio.Summary
	Model *PredictSummary `json:"model,omitempty"`
}

// NamedCoefficients pairs weights (bias excluded) with feature names.
func NamedCoefficients(names []string, coef []float64) []Coefficient {
	if len(coef) == 0 {
		return nil
	}
	weights := coef[1:]
	n := min(len(names), len(weights))
	return lo.Map(weights[:n], func(v float64, i int) Coefficient {
		return Coefficient{Name: names[i], Value: v}
	})
}

func NewPredictSummary(runID string, res *pipeline.PredictResult) PredictSummary {
	s := PredictSummary{
		RunID:        runID,
		Kind:         "predict",
		Bars:         res.Bars,
		Samples:      res.Samples,
		TrainSamples: res.TrainSamples,
		TestSamples:  res.TestSamples,
		Coefficients: NamedCoefficients(res.FeatureNames, res.Coefficients),
		Train:        res.Train,
		Test:         res.Test,
		Forecast:     res.Forecast,
	}
	if len(res.Coefficients) > 0 {
		s.Intercept = res.Coefficients[0]
	}
	if p, ok := res.Latest(); ok {
		s.Latest = &p
	}
	return s
}

func NewBacktestSummary(runID string, bars int, res *pipeline.BacktestResult) BacktestSummary {
	s := BacktestSummary{
		RunID:    runID,
		Kind:     "backtest",
		Strategy: res.Strategy,
		Bars:     bars,
		Exits:    res.Exits,
		Fills:    len(res.Fills),
		Summary:  res.Summary,
	}
	if res.Model != nil {
		m := NewPredictSummary(runID, res.Model)
		s.Model = &m
	}
	return s
}
