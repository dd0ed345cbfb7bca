// cmd/backtest simulates a long-only, all-in account driven by a signal rule
// over historical daily bars and reports trades, equity and drawdown.
//
// Usage:
//
//	go run ./cmd/backtest data/sample.csv --sma=50 --ema=20
//	go run ./cmd/backtest data/sample.csv --rule=model --threshold=0.002
package main

import (
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"pricelab/internal/cli"
	"pricelab/internal/logger"
	"pricelab/internal/marketdata/source"
	"pricelab/internal/pipeline"
	"pricelab/internal/report"
)

func main() {
	cli.Main(newRootCmd())
}

func newRootCmd() *cobra.Command {
	var (
		common    cli.Common
		rule      string
		smaPeriod int
		emaPeriod int
		slippage  float64
		cost      float64
		threshold float64
		verbose   bool
	)

	cmd := &cobra.Command{
		Use:          "backtest [csv-path]",
		Short:        "Backtest an EMA/SMA crossover or model-driven signal",
		Args:         cobra.MaximumNArgs(1),
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := common.Load(cmd, args)
			if err != nil {
				return err
			}
			f := cmd.Flags()
			if f.Changed("rule") {
				cfg.Strategy.Rule = rule
			}
			if f.Changed("sma") {
				cfg.Strategy.SMAPeriod = smaPeriod
			}
			if f.Changed("ema") {
				cfg.Strategy.EMAPeriod = emaPeriod
			}
			if f.Changed("threshold") {
				cfg.Strategy.Threshold = threshold
			}
			if f.Changed("slippage") {
				cfg.Backtest.Slippage = slippage
			}
			if f.Changed("cost") {
				cfg.Backtest.Cost = cost
			}
			if err := cfg.Validate(); err != nil {
				return err
			}

			ctx, cancel, run, err := cli.Start("backtest", cfg, cmd.OutOrStdout())
			if err != nil {
				return err
			}
			defer cancel()

			bars, err := source.Load(ctx, run.SourceOptions(), cfg.Data.Symbol)
			if err != nil {
				return err
			}

			res, err := pipeline.NewRunner(run.Metrics).Backtest(ctx, bars, pipeline.BacktestOptions{
				Rule:      cfg.Strategy.Rule,
				EMAPeriod: cfg.Strategy.EMAPeriod,
				SMAPeriod: cfg.Strategy.SMAPeriod,
				Slippage:  cfg.Backtest.Slippage,
				Cost:      cfg.Backtest.Cost,
				Threshold: cfg.Strategy.Threshold,
				Predict: pipeline.PredictOptions{
					Features:   cfg.Features,
					Horizon:    cfg.Predict.Horizon,
					TrainRatio: cfg.Predict.TrainRatio,
				},
			})
			if err != nil {
				return err
			}

			if verbose {
				report.PrintSignals(run.Stdout, bars, res.Signals)
			}
			report.PrintBacktest(run.Stdout, report.RunInfo{RunID: run.ID, Source: run.Describe()}, res)

			if cfg.Output.Trades {
				if err := run.Out.Write(report.TradesFile, func(w io.Writer) error {
					return report.WriteTrades(w, res.Trades)
				}); err != nil {
					return err
				}
			}
			if cfg.Output.Fills {
				if err := run.Out.Write(report.FillsFile, func(w io.Writer) error {
					return report.WriteFills(w, res.Fills)
				}); err != nil {
					return err
				}
			}
			if cfg.Output.Equity {
				if err := run.Out.Write(report.EquityFile, func(w io.Writer) error {
					return report.WriteEquity(w, bars, res.Equity, res.Signals)
				}); err != nil {
					return err
				}
			}
			if err := run.WriteSummary(report.NewBacktestSummary(run.ID, len(bars), res)); err != nil {
				return err
			}
			if err := run.WriteMetrics(); err != nil {
				return err
			}

			slog.Info("backtest done", append(logger.LogWithRun(ctx), "output", cfg.Output.Dir)...)
			return nil
		},
	}

	common.Bind(cmd)
	f := cmd.Flags()
	f.StringVar(&rule, "rule", pipeline.RuleCrossover, "Signal rule: crossover|model")
	f.IntVar(&smaPeriod, "sma", 50, "Slow SMA period (crossover)")
	f.IntVar(&emaPeriod, "ema", 20, "Fast EMA period (crossover)")
	f.Float64Var(&threshold, "threshold", 0, "Minimum predicted gain to go long (model)")
	f.Float64Var(&slippage, "slippage", 0.0005, "Fractional slippage per fill")
	f.Float64Var(&cost, "cost", 0, "Fixed cost deducted at each exit")
	f.BoolVarP(&verbose, "verbose", "v", false, "Print the per-bar signal pattern")
	cmd.SetOut(os.Stdout)
	return cmd
}
