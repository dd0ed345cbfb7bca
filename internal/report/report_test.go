package report

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pricelab/internal/execution"
	"pricelab/internal/model"
	"pricelab/internal/pipeline"
	"pricelab/internal/portfolio"
)

// ────────────────────────────────────────────────────────────
// CSV files
// ────────────────────────────────────────────────────────────

func TestWritePredictions(t *testing.T) {
	var buf bytes.Buffer
	err := WritePredictions(&buf, []pipeline.Prediction{
		{Index: 60, Date: "2024-03-01", Actual: 10, Predicted: 11},
		{Index: 61, Date: "2024-03-02", Actual: 0, Predicted: 0.5},
	})
	require.NoError(t, err)

	assert.Equal(t,
		"Index,Date,Actual,Predicted,Error,ErrorPct\n"+
			"60,2024-03-01,10,11,1,10\n"+
			"61,2024-03-02,0,0.5,0.5,0\n",
		buf.String())
}

func TestWriteTrades(t *testing.T) {
	var buf bytes.Buffer
	err := WriteTrades(&buf, []model.Trade{
		{EntryDate: "a", ExitDate: "b", EntryPrice: 100.05, ExitPrice: 109.945, Shares: 0.25, PnL: 2.47},
	})
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 2)
	assert.Equal(t, "EntryDate,ExitDate,EntryPrice,ExitPrice,Shares,PnL", lines[0])
	assert.Equal(t, "a,b,100.05,109.945,0.25,2.47", lines[1])
}

func TestWriteFills(t *testing.T) {
	var buf bytes.Buffer
	err := WriteFills(&buf, []execution.Fill{
		{Side: model.SideBuy, Date: "d1", Reference: 100, Price: 100.05, Shares: 0.5},
		{Side: model.SideSell, Date: "d4", Reference: 110, Price: 109.945, Shares: 0.5},
	})
	require.NoError(t, err)
	assert.Equal(t,
		"Side,Date,Reference,Price,Shares\n"+
			"BUY,d1,100,100.05,0.5\n"+
			"SELL,d4,110,109.945,0.5\n",
		buf.String())
}

func TestWriteEquity(t *testing.T) {
	bars := []model.Bar{{Date: "d0"}, {Date: "d1"}}
	var buf bytes.Buffer
	require.NoError(t, WriteEquity(&buf, bars, []float64{1, 1.1}, []int{1, 0}))
	assert.Equal(t, "Index,Date,Equity,Signal\n0,d0,1,1\n1,d1,1.1,0\n", buf.String())

	assert.Error(t, WriteEquity(io.Discard, bars, []float64{1}, []int{1, 0}))
	assert.Error(t, WriteEquity(io.Discard, bars, []float64{1, 1}, []int{1}))
}

// ────────────────────────────────────────────────────────────
// Dir
// ────────────────────────────────────────────────────────────

func TestDir_WriteCreatesDirectory(t *testing.T) {
	d := NewDir(filepath.Join(t.TempDir(), "out", "run"))
	err := d.Write(SummaryFile, func(w io.Writer) error {
		return WriteJSON(w, map[string]int{"trades": 3})
	})
	require.NoError(t, err)

	raw, err := os.ReadFile(d.Path(SummaryFile))
	require.NoError(t, err)
	assert.JSONEq(t, `{"trades":3}`, string(raw))
}

func TestDir_WriteRemovesFileOnError(t *testing.T) {
	d := NewDir(t.TempDir())
	boom := errors.New("boom")
	err := d.Write(TradesFile, func(w io.Writer) error { return boom })
	assert.ErrorIs(t, err, boom)

	_, statErr := os.Stat(d.Path(TradesFile))
	assert.True(t, os.IsNotExist(statErr))
}

// ────────────────────────────────────────────────────────────
// Summaries
// ────────────────────────────────────────────────────────────

func samplePredict() *pipeline.PredictResult {
	return &pipeline.PredictResult{
		Bars:         100,
		FirstDate:    "d000",
		LastDate:     "d099",
		Samples:      49,
		TrainSamples: 39,
		TestSamples:  10,
		FeatureNames: []string{"return_lag_1", "volatility_5d"},
		Coefficients: []float64{0.5, 2, -3},
		Train:        pipeline.Evaluation{MSE: 4, RMSE: 2, R2: 0.9},
		Test:         pipeline.Evaluation{MSE: 9, RMSE: 3, R2: 0.7},
		Predictions: []pipeline.Prediction{
			{Index: 89, Date: "d089", Actual: 100, Predicted: 101},
			{Index: 98, Date: "d098", Actual: 50, Predicted: 49},
		},
		Forecast: &pipeline.Forecast{Index: 99, Date: "d099", Close: 51, Horizon: 1, Predicted: 52},
	}
}

func TestNamedCoefficients(t *testing.T) {
	got := NamedCoefficients([]string{"a", "b"}, []float64{9, 1, 2})
	assert.Equal(t, []Coefficient{{"a", 1}, {"b", 2}}, got)

	assert.Nil(t, NamedCoefficients([]string{"a"}, nil))
	assert.Len(t, NamedCoefficients([]string{"a"}, []float64{9, 1, 2}), 1)
}

func TestNewPredictSummary(t *testing.T) {
	s := NewPredictSummary("run-1", samplePredict())
	assert.Equal(t, "predict", s.Kind)
	assert.Equal(t, 0.5, s.Intercept)
	require.Len(t, s.Coefficients, 2)
	assert.Equal(t, "volatility_5d", s.Coefficients[1].Name)
	require.NotNil(t, s.Latest)
	assert.Equal(t, 98, s.Latest.Index)

	var buf bytes.Buffer
	require.NoError(t, WriteJSON(&buf, s))
	var decoded map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	assert.Equal(t, "run-1", decoded["run_id"])
	assert.Contains(t, decoded, "forecast")
}

func TestNewBacktestSummary_FlattensMetrics(t *testing.T) {
	res := &pipeline.BacktestResult{
		Strategy: "EMA_20>SMA_50",
		Exits:    2,
		Result:   execution.Result{Fills: make([]execution.Fill, 4)},
		Summary:  portfolio.Summary{FinalEquity: 1.2, Trades: 2, Wins: 1},
	}
	var buf bytes.Buffer
	require.NoError(t, WriteJSON(&buf, NewBacktestSummary("run-2", 300, res)))

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	assert.Equal(t, 1.2, decoded["final_equity"])
	assert.Equal(t, 2.0, decoded["trades"])
	assert.Equal(t, 2.0, decoded["signal_exits"])
	assert.Equal(t, 4.0, decoded["fills"])
	assert.NotContains(t, decoded, "model")
}

// ────────────────────────────────────────────────────────────
// Console
// ────────────────────────────────────────────────────────────

func TestPrintPredict(t *testing.T) {
	var buf bytes.Buffer
	PrintPredict(&buf, RunInfo{RunID: "run-1", Source: "data/x.csv", Horizon: 1, TrainRatio: 0.8}, samplePredict())
	out := buf.String()

	assert.Contains(t, out, "Train/test split: 80% / 20%")
	assert.Contains(t, out, "Date range: d000 to d099")
	assert.Contains(t, out, "return_lag_1        : 2.000000")
	assert.Contains(t, out, "Sample Predictions (first 2 test samples):")
	assert.Contains(t, out, "Predicted price: 49.00")
	assert.Contains(t, out, "Error:           -2.00%")
	assert.Contains(t, out, "PREDICTION COMPLETE")
}

func TestPrintBacktest_ListsAtMostTenTrades(t *testing.T) {
	trades := make([]model.Trade, 12)
	for i := range trades {
		trades[i] = model.Trade{EntryDate: "in", ExitDate: "out", PnL: 0.01}
	}
	res := &pipeline.BacktestResult{
		Strategy: "EMA_20>SMA_50",
		Exits:    12,
		Result:   execution.Result{Equity: []float64{1, 1.1}, Trades: trades},
		Summary:  portfolio.Summary{Trades: 12, Wins: 12, WinRate: 1, FinalEquity: 1.1},
	}
	var buf bytes.Buffer
	PrintBacktest(&buf, RunInfo{Source: "x"}, res)
	out := buf.String()

	assert.Contains(t, out, "Trades: 12 Wins: 12 Final equity: 1.1")
	assert.Contains(t, out, "Trade 9: in -> out")
	assert.NotContains(t, out, "Trade 10:")
	assert.Contains(t, out, "Signal exits:      12")
	assert.Contains(t, out, "BACKTEST COMPLETE")
}

func TestPrintSignals(t *testing.T) {
	var buf bytes.Buffer
	PrintSignals(&buf, []model.Bar{{Date: "d0", Close: 10}, {Date: "d1", Close: 10.5}}, []int{0, 1})
	assert.Contains(t, buf.String(), "d1 close=10.5 signal=1")
}
