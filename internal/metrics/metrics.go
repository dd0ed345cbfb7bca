// Package metrics records one pipeline run as Prometheus metrics. Each run
// owns its registry and the result is written as a text exposition file.
package metrics

import (
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds all Prometheus metrics for a predictor or backtest run.
type Metrics struct {
	registry *prometheus.Registry

	BarsLoaded    prometheus.Gauge
	Samples       *prometheus.GaugeVec     // labels: split=all|train|test
	StageDuration *prometheus.HistogramVec // labels: stage

	// Model quality
	ModelMSE         *prometheus.GaugeVec // labels: split
	ModelR2          *prometheus.GaugeVec // labels: split
	LatestPrediction prometheus.Gauge

	// Backtest
	SignalsLong   prometheus.Gauge
	TradesTotal   prometheus.Counter
	WinningTrades prometheus.Counter
	FinalEquity   prometheus.Gauge
	TotalReturn   prometheus.Gauge
	MaxDrawdown   prometheus.Gauge
}

// NewMetrics registers and returns all metrics on a fresh registry.
func NewMetrics() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),

		BarsLoaded: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "pricelab_bars_loaded",
			Help: "Bars read from the configured source",
		}),
		Samples: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "pricelab_samples",
			Help: "Feature examples by dataset split",
		}, []string{"split"}),
		StageDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "pricelab_stage_duration_seconds",
			Help:    "Wall time of each pipeline stage",
			Buckets: []float64{0.0001, 0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 5},
		}, []string{"stage"}),

		ModelMSE: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "pricelab_model_mse",
			Help: "Mean squared error of the fitted model",
		}, []string{"split"}),
		ModelR2: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "pricelab_model_r2",
			Help: "Coefficient of determination of the fitted model",
		}, []string{"split"}),
		LatestPrediction: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "pricelab_latest_prediction",
			Help: "Predicted close for the most recent test example",
		}),

		SignalsLong: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "pricelab_signals_long",
			Help: "Bars on which the strategy signalled long",
		}),
		TradesTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "pricelab_trades_total",
			Help: "Completed round-trip trades",
		}),
		WinningTrades: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "pricelab_winning_trades_total",
			Help: "Completed trades with positive P&L",
		}),
		FinalEquity: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "pricelab_final_equity",
			Help: "Equity at the end of the backtest",
		}),
		TotalReturn: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "pricelab_total_return",
			Help: "Final equity over initial capital minus one",
		}),
		MaxDrawdown: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "pricelab_max_drawdown",
			Help: "Largest peak-to-trough equity decline as a fraction",
		}),
	}

	m.registry.MustRegister(
		m.BarsLoaded,
		m.Samples,
		m.StageDuration,
		m.ModelMSE,
		m.ModelR2,
		m.LatestPrediction,
		m.SignalsLong,
		m.TradesTotal,
		m.WinningTrades,
		m.FinalEquity,
		m.TotalReturn,
		m.MaxDrawdown,
	)

	return m
}

// Registry exposes the run's registry, e.g. for a push or a test gatherer.
func (m *Metrics) Registry() *prometheus.Registry { return m.registry }

// ObserveStage records the time elapsed since start under stage.
func (m *Metrics) ObserveStage(stage string, start time.Time) {
	m.StageDuration.WithLabelValues(stage).Observe(time.Since(start).Seconds())
}

// WriteFile writes the registry in text exposition format to path.
func (m *Metrics) WriteFile(path string) error {
	if err := prometheus.WriteToTextfile(path, m.registry); err != nil {
		return fmt.Errorf("write metrics: %w", err)
	}
	return nil
}
