// Package report renders run results as flat files and console summaries.
package report

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"

	"pricelab/internal/execution"
	"pricelab/internal/model"
	"pricelab/internal/pipeline"
)

// Output file names under the output directory.
const (
	PredictionsFile = "predictions.csv"
	TradesFile      = "trades.csv"
	FillsFile       = "fills.csv"
	EquityFile      = "equity.csv"
	SummaryFile     = "summary.json"
	MetricsFile     = "metrics.prom"
)

// Dir writes report files into one directory, creating it on first use.
type Dir struct {
	path string
}

func NewDir(path string) *Dir { return &Dir{path: path} }

// Path joins name onto the directory.
func (d *Dir) Path(name string) string { return filepath.Join(d.path, name) }

// Write creates name and hands it to fn. The file is removed if fn fails.
func (d *Dir) Write(name string, fn func(io.Writer) error) (err error) {
	if err := os.MkdirAll(d.path, 0o755); err != nil {
		return fmt.Errorf("report dir: %w", err)
	}
	path := d.Path(name)
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("report create: %w", err)
	}
	defer func() {
		if cerr := f.Close(); err == nil && cerr != nil {
			err = fmt.Errorf("report close %s: %w", name, cerr)
		}
		if err != nil {
			os.Remove(path)
		}
	}()
	if err := fn(f); err != nil {
		return fmt.Errorf("report %s: %w", name, err)
	}
	return nil
}

func ftoa(v float64) string { return strconv.FormatFloat(v, 'f', -1, 64) }

// WritePredictions writes Index,Date,Actual,Predicted,Error,ErrorPct.
func WritePredictions(w io.Writer, preds []pipeline.Prediction) error {
	cw := csv.NewWriter(w)
	cw.Write([]string{"Index", "Date", "Actual", "Predicted", "Error", "ErrorPct"})
	for _, p := range preds {
		cw.Write([]string{
			strconv.Itoa(p.Index), p.Date,
			ftoa(p.Actual), ftoa(p.Predicted), ftoa(p.Residual()), ftoa(p.ResidualPct()),
		})
	}
	cw.Flush()
	return cw.Error()
}

// WriteTrades writes EntryDate,ExitDate,EntryPrice,ExitPrice,Shares,PnL.
func WriteTrades(w io.Writer, trades []model.Trade) error {
	cw := csv.NewWriter(w)
	cw.Write([]string{"EntryDate", "ExitDate", "EntryPrice", "ExitPrice", "Shares", "PnL"})
	for _, t := range trades {
		cw.Write([]string{
			t.EntryDate, t.ExitDate,
			ftoa(t.EntryPrice), ftoa(t.ExitPrice), ftoa(t.Shares), ftoa(t.PnL),
		})
	}
	cw.Flush()
	return cw.Error()
}

// WriteFills writes Side,Date,Reference,Price,Shares, one row per simulated execution.
func WriteFills(w io.Writer, fills []execution.Fill) error {
	cw := csv.NewWriter(w)
	cw.Write([]string{"Side", "Date", "Reference", "Price", "Shares"})
	for _, f := range fills {
		cw.Write([]string{string(f.Side), f.Date, ftoa(f.Reference), ftoa(f.Price), ftoa(f.Shares)})
	}
	cw.Flush()
	return cw.Error()
}

// WriteEquity writes Index,Date,Equity,Signal, one row per bar.
func WriteEquity(w io.Writer, bars []model.Bar, equity []float64, signals []int) error {
	if len(equity) != len(bars) || len(signals) < len(bars) {
		return fmt.Errorf("equity: %d bars, %d equity points, %d signals", len(bars), len(equity), len(signals))
	}
	cw := csv.NewWriter(w)
	cw.Write([]string{"Index", "Date", "Equity", "Signal"})
	for i, b := range bars {
		cw.Write([]string{strconv.Itoa(i), b.Date, ftoa(equity[i]), strconv.Itoa(signals[i])})
	}
	cw.Flush()
	return cw.Error()
}

// WriteJSON writes v as indented JSON.
func WriteJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
