package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/samber/lo"

	"pricelab/internal/execution"
	"pricelab/internal/features"
	"pricelab/internal/logger"
	"pricelab/internal/model"
	"pricelab/internal/portfolio"
	"pricelab/internal/strategy"
)

// Signal rules selectable for a backtest.
const (
	RuleCrossover = "crossover"
	RuleModel     = "model"
)

type BacktestOptions struct {
	Rule      string
	EMAPeriod int
	SMAPeriod int
	Slippage  float64
	Cost      float64

	// Used by RuleModel only.
	Predict   PredictOptions
	Threshold float64
}

type BacktestResult struct {
	Strategy string
	Signals  []int
	// Exits counts 1→0 signal changes; each ends one trade.
	Exits int
	execution.Result
	Summary portfolio.Summary

	// Set for RuleModel: the fit the signals came from.
	Model *PredictResult
}

// Backtest generates signals with the configured rule and simulates them.
//
// For RuleModel the model is fitted on the training split first and the
// signals are forced flat through the last bar whose close was a training
// target, so no trade is driven by an in-sample prediction.
func (r *Runner) Backtest(ctx context.Context, bars []model.Bar, opts BacktestOptions) (*BacktestResult, error) {
	r.metrics.BarsLoaded.Set(float64(len(bars)))
	res := &BacktestResult{}

	var strat strategy.Strategy
	switch opts.Rule {
	case RuleCrossover, "":
		c, err := strategy.NewEMASMACrossover(
			lo.Ternary(opts.EMAPeriod > 0, opts.EMAPeriod, strategy.DefaultEMAPeriod),
			lo.Ternary(opts.SMAPeriod > 0, opts.SMAPeriod, strategy.DefaultSMAPeriod),
		)
		if err != nil {
			return nil, err
		}
		strat = c
	case RuleModel:
		fit, err := r.Predict(ctx, bars, opts.Predict)
		if err != nil {
			return nil, err
		}
		res.Model = fit
		strat = strategy.NewModelSignal(fit.Model, fit.Engineer, opts.Threshold)
	default:
		return nil, fmt.Errorf("backtest: unknown rule %q", opts.Rule)
	}
	res.Strategy = strat.Name()

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	// Signals
	start := time.Now()
	runs, err := strategy.NewEngine(strat).Run(bars)
	if err != nil {
		return nil, fmt.Errorf("signals: %w", err)
	}
	signals := runs[res.Strategy]
	if res.Model != nil {
		for i := 0; i <= res.Model.TrainEnd && i < len(signals); i++ {
			signals[i] = strategy.SignalFlat
		}
	}
	res.Signals = signals
	res.Exits = strategy.Transitions(signals)
	r.metrics.ObserveStage("signals", start)
	r.metrics.SignalsLong.Set(float64(lo.Count(signals, strategy.SignalLong)))

	// Simulate
	start = time.Now()
	sim, err := execution.NewSimulator(opts.Slippage, opts.Cost).Run(bars, signals)
	if err != nil {
		return nil, fmt.Errorf("simulate: %w", err)
	}
	r.metrics.ObserveStage("simulate", start)
	res.Result = sim

	res.Summary = portfolio.Compute(sim.Equity, sim.Trades, execution.InitialCapital)
	r.recordSummary(res.Summary)

	slog.Info("backtest complete", append(logger.LogWithRun(ctx),
		"component", "pipeline", "strategy", res.Strategy,
		"exits", res.Exits, "trades", res.Summary.Trades, "final_equity", res.Summary.FinalEquity)...)
	return res, nil
}

func (r *Runner) recordSummary(s portfolio.Summary) {
	r.metrics.TradesTotal.Add(float64(s.Trades))
	r.metrics.WinningTrades.Add(float64(s.Wins))
	r.metrics.FinalEquity.Set(s.FinalEquity)
	r.metrics.TotalReturn.Set(s.TotalReturn)
	r.metrics.MaxDrawdown.Set(s.MaxDrawdown)
}

// DefaultPredictOptions mirrors the predictor defaults: all feature groups, one-bar horizon, 80/20 split.
func DefaultPredictOptions() PredictOptions {
	return PredictOptions{Features: features.DefaultConfig(), Horizon: 1, TrainRatio: 0.8}
}
