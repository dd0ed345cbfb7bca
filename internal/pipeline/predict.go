// Package pipeline runs the predictor and the backtest end to end over an
// in-memory bar series and records stage metrics for the run.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"time"

	"pricelab/internal/features"
	"pricelab/internal/logger"
	"pricelab/internal/metrics"
	"pricelab/internal/model"
	"pricelab/internal/regression"
)

// ErrInsufficientData is returned when the series is too short to build any example.
var ErrInsufficientData = errors.New("not enough data to create features")

// Runner executes pipeline runs against one metrics registry.
type Runner struct {
	metrics *metrics.Metrics
}

// NewRunner creates a runner. A nil m gets a private registry.
func NewRunner(m *metrics.Metrics) *Runner {
	if m == nil {
		m = metrics.NewMetrics()
	}
	return &Runner{metrics: m}
}

// Metrics returns the registry the runner records into.
func (r *Runner) Metrics() *metrics.Metrics { return r.metrics }

type PredictOptions struct {
	Features   features.Config
	Horizon    int
	TrainRatio float64
}

// Evaluation is model quality on one split.
type Evaluation struct {
	MSE  float64 `json:"mse"`
	RMSE float64 `json:"rmse"`
	R2   float64 `json:"r2"`
}

// Prediction pairs a test example's target with the model output.
// Index and Date refer to the bar the features were taken from.
type Prediction struct {
	Index     int     `json:"index"`
	Date      string  `json:"date"`
	Actual    float64 `json:"actual"`
	Predicted float64 `json:"predicted"`
}

// Residual is Predicted - Actual.
func (p Prediction) Residual() float64 { return p.Predicted - p.Actual }

// ResidualPct is the residual as a percentage of Actual, 0 when Actual is 0.
func (p Prediction) ResidualPct() float64 {
	if p.Actual == 0 {
		return 0
	}
	return p.Residual() / p.Actual * 100
}

// Forecast is the prediction made from the last bar's features, for the
// close Horizon bars beyond the end of the series.
type Forecast struct {
	Index     int     `json:"index"`
	Date      string  `json:"date"`
	Close     float64 `json:"close"`
	Horizon   int     `json:"horizon"`
	Predicted float64 `json:"predicted"`
}

type PredictResult struct {
	Bars         int
	FirstDate    string
	LastDate     string
	Samples      int
	TrainSamples int
	TestSamples  int
	FeatureNames []string
	Coefficients []float64 // bias first
	Train        Evaluation
	Test         Evaluation
	Predictions  []Prediction // every test example in order
	Forecast     *Forecast

	Model    *regression.LinearRegression
	Engineer *features.Engineer
	// TrainEnd is the last bar index whose close was used as a training target.
	TrainEnd int
}

// Latest returns the last test prediction, false when the test split is empty.
func (r *PredictResult) Latest() (Prediction, bool) {
	if len(r.Predictions) == 0 {
		return Prediction{}, false
	}
	return r.Predictions[len(r.Predictions)-1], true
}

// Predict engineers features, splits chronologically, fits OLS on the
// training split and evaluates both splits.
func (r *Runner) Predict(ctx context.Context, bars []model.Bar, opts PredictOptions) (*PredictResult, error) {
	r.metrics.BarsLoaded.Set(float64(len(bars)))
	res := &PredictResult{Bars: len(bars)}
	if len(bars) > 0 {
		res.FirstDate, res.LastDate = bars[0].Date, bars[len(bars)-1].Date
	}

	// Features
	start := time.Now()
	eng := features.NewEngineer(opts.Features)
	ds := eng.CreateFeatures(bars, opts.Horizon)
	r.metrics.ObserveStage("features", start)
	if ds.Empty() {
		return nil, fmt.Errorf("features: %w (have %d bars, horizon %d)", ErrInsufficientData, len(bars), opts.Horizon)
	}
	res.Engineer = eng
	res.Samples = ds.Len()
	res.FeatureNames = eng.FeatureNames()
	r.metrics.Samples.WithLabelValues("all").Set(float64(ds.Len()))
	slog.Debug("features built", append(logger.LogWithRun(ctx),
		"component", "pipeline", "samples", ds.Len(), "width", eng.FeatureCount())...)

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	// Split
	train, test := features.TrainTestSplit(ds, opts.TrainRatio)
	res.TrainSamples, res.TestSamples = train.Len(), test.Len()
	r.metrics.Samples.WithLabelValues("train").Set(float64(train.Len()))
	r.metrics.Samples.WithLabelValues("test").Set(float64(test.Len()))
	if train.Empty() {
		return nil, fmt.Errorf("split: %w (no training samples)", ErrInsufficientData)
	}
	res.TrainEnd = train.Index[train.Len()-1] + opts.Horizon

	// Train
	start = time.Now()
	m := regression.New()
	if err := m.Train(train.X, train.Y); err != nil {
		return nil, fmt.Errorf("train: %w", err)
	}
	r.metrics.ObserveStage("train", start)
	res.Model = m
	res.Coefficients = m.Coefficients()

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	// Evaluate
	start = time.Now()
	var err error
	if res.Train, err = evaluate(m, train); err != nil {
		return nil, fmt.Errorf("evaluate train: %w", err)
	}
	r.recordEvaluation("train", res.Train)

	if !test.Empty() {
		if res.Test, err = evaluate(m, test); err != nil {
			return nil, fmt.Errorf("evaluate test: %w", err)
		}
		r.recordEvaluation("test", res.Test)

		preds, err := m.PredictBatch(test.X)
		if err != nil {
			return nil, fmt.Errorf("predict test: %w", err)
		}
		res.Predictions = make([]Prediction, len(preds))
		for k, p := range preds {
			i := test.Index[k]
			res.Predictions[k] = Prediction{Index: i, Date: bars[i].Date, Actual: test.Y[k], Predicted: p}
		}
		r.metrics.LatestPrediction.Set(preds[len(preds)-1])
	}
	r.metrics.ObserveStage("evaluate", start)

	// Forecast beyond the last bar
	if vecs := eng.FeatureVectors(bars); !vecs.Empty() {
		k := vecs.Len() - 1
		if i := vecs.Index[k]; i == len(bars)-1 {
			p, err := m.Predict(vecs.X[k])
			if err != nil {
				return nil, fmt.Errorf("forecast: %w", err)
			}
			res.Forecast = &Forecast{Index: i, Date: bars[i].Date, Close: bars[i].Close, Horizon: opts.Horizon, Predicted: p}
		}
	}

	slog.Info("predict complete", append(logger.LogWithRun(ctx),
		"component", "pipeline",
		"train", res.TrainSamples, "test", res.TestSamples,
		"train_r2", res.Train.R2, "test_r2", res.Test.R2)...)
	return res, nil
}

func (r *Runner) recordEvaluation(split string, e Evaluation) {
	r.metrics.ModelMSE.WithLabelValues(split).Set(e.MSE)
	r.metrics.ModelR2.WithLabelValues(split).Set(e.R2)
}

func evaluate(m *regression.LinearRegression, ds features.Dataset) (Evaluation, error) {
	mse, err := m.Evaluate(ds.X, ds.Y)
	if err != nil {
		return Evaluation{}, err
	}
	r2, err := m.RSquared(ds.X, ds.Y)
	if err != nil {
		return Evaluation{}, err
	}
	return Evaluation{MSE: mse, RMSE: math.Sqrt(mse), R2: r2}, nil
}
