package report

import (
	"fmt"
	"io"
	"strings"

	"pricelab/internal/model"
	"pricelab/internal/pipeline"
)

// MaxListed caps the predictions and trades echoed to the console.
const MaxListed = 10

// RunInfo echoes the inputs of a run.
type RunInfo struct {
	RunID      string
	Source     string // csv path or "sqlite:<db>#<symbol>"
	Horizon    int
	TrainRatio float64
}

// PrintPredict writes the predictor report: configuration, stage results,
// coefficients, split metrics, sample predictions and the latest prediction.
func PrintPredict(w io.Writer, info RunInfo, res *pipeline.PredictResult) {
	fmt.Fprintln(w, "=== Price Predictor (Linear Regression) ===")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Configuration:")
	fmt.Fprintf(w, "  Source: %s\n", info.Source)
	fmt.Fprintf(w, "  Prediction horizon: %d day(s)\n", info.Horizon)
	fmt.Fprintf(w, "  Train/test split: %.0f%% / %.0f%%\n", info.TrainRatio*100, (1-info.TrainRatio)*100)
	fmt.Fprintf(w, "  Run ID: %s\n\n", info.RunID)

	fmt.Fprintln(w, "[1/5] Loading data...")
	fmt.Fprintf(w, "  Loaded %d bars\n", res.Bars)
	fmt.Fprintf(w, "  Date range: %s to %s\n\n", res.FirstDate, res.LastDate)

	fmt.Fprintln(w, "[2/5] Engineering features...")
	fmt.Fprintf(w, "  Created %d samples\n", res.Samples)
	fmt.Fprintf(w, "  Features per sample: %d\n", len(res.FeatureNames))
	fmt.Fprintf(w, "  Features: %s\n\n", strings.Join(res.FeatureNames, ", "))

	fmt.Fprintln(w, "[3/5] Splitting data...")
	fmt.Fprintf(w, "  Training samples: %d\n", res.TrainSamples)
	fmt.Fprintf(w, "  Test samples: %d\n\n", res.TestSamples)

	fmt.Fprintln(w, "[4/5] Training linear regression model...")
	if len(res.Coefficients) > 0 {
		fmt.Fprintf(w, "  Intercept: %.4f\n", res.Coefficients[0])
	}
	fmt.Fprintln(w, "  Feature weights:")
	for _, c := range NamedCoefficients(res.FeatureNames, res.Coefficients) {
		fmt.Fprintf(w, "    %-20s: %.6f\n", c.Name, c.Value)
	}
	fmt.Fprintln(w)

	fmt.Fprintln(w, "[5/5] Evaluating model performance...")
	fmt.Fprintln(w)
	printEvaluation(w, "Training Set Performance:", res.Train)
	if res.TestSamples > 0 {
		printEvaluation(w, "Test Set Performance:", res.Test)
	}

	if n := min(MaxListed, len(res.Predictions)); n > 0 {
		fmt.Fprintf(w, "Sample Predictions (first %d test samples):\n", n)
		fmt.Fprintf(w, "%-12s%10s%15s%12s%12s\n", "Date", "Actual", "Predicted", "Error", "Error %")
		fmt.Fprintln(w, strings.Repeat("-", 61))
		for _, p := range res.Predictions[:n] {
			fmt.Fprintf(w, "%-12s%10.2f%15.2f%12.2f%11.2f%%\n",
				p.Date, p.Actual, p.Predicted, p.Residual(), p.ResidualPct())
		}
	}

	if p, ok := res.Latest(); ok {
		fmt.Fprintln(w)
		fmt.Fprintln(w, "=== Latest Prediction ===")
		fmt.Fprintf(w, "Actual price:    %.2f\n", p.Actual)
		fmt.Fprintf(w, "Predicted price: %.2f\n", p.Predicted)
		fmt.Fprintf(w, "Error:           %.2f%%\n", p.ResidualPct())
	}
	if f := res.Forecast; f != nil {
		fmt.Fprintln(w)
		fmt.Fprintf(w, "Forecast %d bar(s) after %s (close %.2f): %.2f\n", f.Horizon, f.Date, f.Close, f.Predicted)
	}

	fmt.Fprintln(w)
	fmt.Fprintln(w, "╔══════════════════════════════════════╗")
	fmt.Fprintln(w, "║        PREDICTION COMPLETE           ║")
	fmt.Fprintln(w, "╠══════════════════════════════════════╣")
	fmt.Fprintf(w, "║  Samples:           %-16d ║\n", res.Samples)
	fmt.Fprintf(w, "║  Train R²:          %-16.4f ║\n", res.Train.R2)
	fmt.Fprintf(w, "║  Test R²:           %-16.4f ║\n", res.Test.R2)
	fmt.Fprintf(w, "║  Test RMSE:         %-16.4f ║\n", res.Test.RMSE)
	fmt.Fprintln(w, "╚══════════════════════════════════════╝")
}

func printEvaluation(w io.Writer, title string, e pipeline.Evaluation) {
	fmt.Fprintln(w, title)
	fmt.Fprintf(w, "  MSE:  %.4f\n", e.MSE)
	fmt.Fprintf(w, "  RMSE: %.4f\n", e.RMSE)
	fmt.Fprintf(w, "  R²:   %.4f (%.2f%%)\n\n", e.R2, e.R2*100)
}

// PrintSignals dumps one line per bar with its close and signal.
func PrintSignals(w io.Writer, bars []model.Bar, signals []int) {
	fmt.Fprintln(w, "Signal pattern:")
	for i, b := range bars {
		if i >= len(signals) {
			break
		}
		fmt.Fprintf(w, "%s close=%g signal=%d\n", b.Date, b.Close, signals[i])
	}
	fmt.Fprintln(w)
}

// PrintBacktest writes the headline metrics, the first trades and a summary box.
func PrintBacktest(w io.Writer, info RunInfo, res *pipeline.BacktestResult) {
	s := res.Summary
	fmt.Fprintf(w, "Strategy: %s  Source: %s  Run ID: %s\n", res.Strategy, info.Source, info.RunID)
	fmt.Fprintf(w, "Trades: %d Wins: %d Final equity: %g MaxDD: %g\n", s.Trades, s.Wins, s.FinalEquity, s.MaxDrawdown)

	for i, t := range res.Trades[:min(MaxListed, len(res.Trades))] {
		fmt.Fprintf(w, "Trade %d: %s -> %s pnl=%g\n", i, t.EntryDate, t.ExitDate, t.PnL)
	}

	fmt.Fprintln(w)
	fmt.Fprintln(w, "╔══════════════════════════════════════╗")
	fmt.Fprintln(w, "║        BACKTEST COMPLETE             ║")
	fmt.Fprintln(w, "╠══════════════════════════════════════╣")
	fmt.Fprintf(w, "║  Bars:              %-16d ║\n", len(res.Equity))
	fmt.Fprintf(w, "║  Trades:            %-16d ║\n", s.Trades)
	fmt.Fprintf(w, "║  Signal exits:      %-16d ║\n", res.Exits)
	fmt.Fprintf(w, "║  Fills:             %-16d ║\n", len(res.Fills))
	fmt.Fprintf(w, "║  Win rate:          %-15.2f%% ║\n", s.WinRate*100)
	fmt.Fprintf(w, "║  Final equity:      %-16.4f ║\n", s.FinalEquity)
	fmt.Fprintf(w, "║  Total return:      %-15.2f%% ║\n", s.TotalReturn*100)
	fmt.Fprintf(w, "║  Max drawdown:      %-15.2f%% ║\n", s.MaxDrawdown*100)
	fmt.Fprintln(w, "╚══════════════════════════════════════╝")
}
