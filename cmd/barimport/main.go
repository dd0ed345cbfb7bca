// cmd/barimport loads a daily OHLCV CSV into the SQLite bar store under a
// symbol, replacing any bars already stored for it, then lists the symbols
// the store holds.
//
// Usage:
//
//	go run ./cmd/barimport data/sample.csv --symbol=ACME --db=data/bars.db
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"pricelab/internal/cli"
	"pricelab/internal/logger"
	"pricelab/internal/marketdata/csvfeed"
	sqlitestore "pricelab/internal/store/sqlite"
)

func main() {
	cli.Main(newRootCmd())
}

func newRootCmd() *cobra.Command {
	var (
		dbPath   string
		symbol   string
		logLevel string
	)

	cmd := &cobra.Command{
		Use:          "barimport <csv-path>",
		Short:        "Import a daily OHLCV CSV into the SQLite bar store",
		Args:         cobra.ExactArgs(1),
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			level, err := logger.ParseLevel(logLevel)
			if err != nil {
				return err
			}
			logger.Init("barimport", level)

			ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			ctx = logger.WithRunID(ctx, logger.NewRunID())

			bars, err := csvfeed.Load(args[0])
			if err != nil {
				return err
			}
			if len(bars) == 0 {
				return fmt.Errorf("import: %s has no bars", args[0])
			}

			w, err := sqlitestore.New(sqlitestore.WriterConfig{DBPath: dbPath})
			if err != nil {
				return err
			}
			defer w.Close()

			n, err := w.WriteBars(ctx, symbol, bars)
			if err != nil {
				return err
			}

			slog.Info("import done", append(logger.LogWithRun(ctx),
				"component", "barimport", "symbol", symbol, "bars", n, "db", dbPath)...)
			fmt.Fprintf(cmd.OutOrStdout(), "Imported %d bars for %s (%s to %s) into %s\n",
				n, symbol, bars[0].Date, bars[len(bars)-1].Date, dbPath)

			r, err := sqlitestore.NewReader(dbPath)
			if err != nil {
				return err
			}
			defer r.Close()
			symbols, err := r.Symbols(ctx)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Stored symbols: %s\n", strings.Join(symbols, ", "))
			return nil
		},
	}

	f := cmd.Flags()
	f.StringVar(&dbPath, "db", "data/bars.db", "SQLite bar store")
	f.StringVar(&symbol, "symbol", "SAMPLE", "Symbol to store the bars under")
	f.StringVar(&logLevel, "log-level", "info", "Log level: debug|info|warn|error")
	cmd.SetOut(os.Stdout)
	return cmd
}
