// Package cli holds the flag binding and run bootstrap shared by the binaries.
package cli

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"pricelab/config"
	"pricelab/internal/logger"
	"pricelab/internal/marketdata/source"
	"pricelab/internal/metrics"
	"pricelab/internal/report"
)

// Common are the flags every binary accepts. Each one overrides the loaded
// config only when set on the command line.
type Common struct {
	ConfigPath string
	Source     string
	DB         string
	Symbol     string
	OutputDir  string
	LogLevel   string
	NoFiles    bool
}

// Bind registers the common flags on cmd.
func (c *Common) Bind(cmd *cobra.Command) {
	f := cmd.Flags()
	f.StringVarP(&c.ConfigPath, "config", "c", "", "YAML config file (optional)")
	f.StringVar(&c.Source, "source", "csv", "Bar source: csv|sqlite")
	f.StringVar(&c.DB, "db", "data/bars.db", "SQLite bar store (source=sqlite)")
	f.StringVar(&c.Symbol, "symbol", "SAMPLE", "Symbol to read from the bar store")
	f.StringVarP(&c.OutputDir, "out", "o", "output", "Directory for result files")
	f.StringVar(&c.LogLevel, "log-level", "info", "Log level: debug|info|warn|error")
	f.BoolVar(&c.NoFiles, "no-files", false, "Print the report only, write no result files")
}

// Load reads the config and applies changed flags. A positional argument is
// the CSV path and selects the csv source.
func (c *Common) Load(cmd *cobra.Command, args []string) (*config.Config, error) {
	cfg, err := config.Load(c.ConfigPath)
	if err != nil {
		return nil, err
	}

	f := cmd.Flags()
	if f.Changed("source") {
		cfg.Data.Source = c.Source
	}
	if f.Changed("db") {
		cfg.Data.DB = c.DB
	}
	if f.Changed("symbol") {
		cfg.Data.Symbol = c.Symbol
	}
	if f.Changed("out") {
		cfg.Output.Dir = c.OutputDir
	}
	if f.Changed("log-level") {
		cfg.Log.Level = c.LogLevel
	}
	if len(args) > 0 {
		cfg.Data.CSV = args[0]
		if !f.Changed("source") {
			cfg.Data.Source = string(source.KindCSV)
		}
	}
	if c.NoFiles {
		cfg.Output = config.OutputConfig{Dir: cfg.Output.Dir}
	}
	return cfg, cfg.Validate()
}

// Run is the state shared by one binary invocation.
type Run struct {
	ID      string
	Config  *config.Config
	Metrics *metrics.Metrics
	Out     *report.Dir
	Stdout  io.Writer
}

// Start initializes logging, assigns a run ID and returns a context cancelled
// on SIGINT or SIGTERM.
func Start(service string, cfg *config.Config, stdout io.Writer) (context.Context, context.CancelFunc, *Run, error) {
	level, err := logger.ParseLevel(cfg.Log.Level)
	if err != nil {
		return nil, nil, nil, err
	}
	logger.Init(service, level)

	run := &Run{
		ID:      logger.NewRunID(),
		Config:  cfg,
		Metrics: metrics.NewMetrics(),
		Out:     report.NewDir(cfg.Output.Dir),
		Stdout:  stdout,
	}

	ctx, cancel := context.WithCancel(logger.WithRunID(context.Background(), run.ID))
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		select {
		case <-sigCh:
			slog.Warn("interrupted, cancelling run", "component", service)
			cancel()
		case <-ctx.Done():
		}
		signal.Stop(sigCh)
	}()

	slog.Info("run started", append(logger.LogWithRun(ctx), "component", service,
		"source", cfg.Data.Source, "output", cfg.Output.Dir)...)
	return ctx, cancel, run, nil
}

// SourceOptions maps the data section onto a bar source.
func (r *Run) SourceOptions() source.Options {
	return source.Options{
		Kind:    source.Kind(r.Config.Data.Source),
		CSVPath: r.Config.Data.CSV,
		DBPath:  r.Config.Data.DB,
	}
}

// Describe names the bar source for the console report.
func (r *Run) Describe() string {
	d := r.Config.Data
	if source.Kind(d.Source) == source.KindSQLite {
		return fmt.Sprintf("sqlite:%s#%s", d.DB, d.Symbol)
	}
	return d.CSV
}

// WriteMetrics writes metrics.prom when enabled.
func (r *Run) WriteMetrics() error {
	if !r.Config.Output.Metrics {
		return nil
	}
	if err := os.MkdirAll(r.Config.Output.Dir, 0o755); err != nil {
		return fmt.Errorf("metrics dir: %w", err)
	}
	return r.Metrics.WriteFile(r.Out.Path(report.MetricsFile))
}

// WriteSummary writes summary.json when enabled.
func (r *Run) WriteSummary(v any) error {
	if !r.Config.Output.Summary {
		return nil
	}
	return r.Out.Write(report.SummaryFile, func(w io.Writer) error { return report.WriteJSON(w, v) })
}

// Main executes cmd and exits non-zero on error.
func Main(cmd *cobra.Command) {
	if err := cmd.Execute(); err != nil {
		slog.Error("run failed", "error", err)
		os.Exit(1)
	}
}
