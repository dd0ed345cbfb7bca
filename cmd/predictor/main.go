// cmd/predictor fits a linear regression on engineered price features and
// reports how well it predicts the close a few bars ahead.
//
// Usage:
//
//	go run ./cmd/predictor data/sample.csv --horizon=1 --train-ratio=0.8
//	go run ./cmd/predictor --source=sqlite --db=data/bars.db --symbol=ACME
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
		common     cli.Common
		horizon    int
		trainRatio float64
	)

	cmd := &cobra.Command{
		Use:          "predictor [csv-path]",
		Short:        "Train OLS on price features and evaluate next-close predictions",
		Args:         cobra.MaximumNArgs(1),
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := common.Load(cmd, args)
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("horizon") {
				cfg.Predict.Horizon = horizon
			}
			if cmd.Flags().Changed("train-ratio") {
				cfg.Predict.TrainRatio = trainRatio
			}
			if err := cfg.Validate(); err != nil {
				return err
			}

			ctx, cancel, run, err := cli.Start("predictor", cfg, cmd.OutOrStdout())
			if err != nil {
				return err
			}
			defer cancel()

			bars, err := source.Load(ctx, run.SourceOptions(), cfg.Data.Symbol)
			if err != nil {
				return err
			}

			res, err := pipeline.NewRunner(run.Metrics).Predict(ctx, bars, pipeline.PredictOptions{
				Features:   cfg.Features,
				Horizon:    cfg.Predict.Horizon,
				TrainRatio: cfg.Predict.TrainRatio,
			})
			if err != nil {
				return err
			}

			report.PrintPredict(run.Stdout, report.RunInfo{
				RunID:      run.ID,
				Source:     run.Describe(),
				Horizon:    cfg.Predict.Horizon,
				TrainRatio: cfg.Predict.TrainRatio,
			}, res)

			if cfg.Output.Predictions {
				if err := run.Out.Write(report.PredictionsFile, func(w io.Writer) error {
					return report.WritePredictions(w, res.Predictions)
				}); err != nil {
					return err
				}
			}
			if err := run.WriteSummary(report.NewPredictSummary(run.ID, res)); err != nil {
				return err
			}
			if err := run.WriteMetrics(); err != nil {
				return err
			}

			slog.Info("predictor done", append(logger.LogWithRun(ctx), "output", cfg.Output.Dir)...)
			return nil
		},
	}

	common.Bind(cmd)
	cmd.Flags().IntVar(&horizon, "horizon", 1, "Bars ahead to predict")
	cmd.Flags().Float64Var(&trainRatio, "train-ratio", 0.8, "Fraction of samples used for training")
	cmd.SetOut(os.Stdout)
	return cmd
}
