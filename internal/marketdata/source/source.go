// Package source selects where the pipeline reads its bar series from.
package source

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"pricelab/internal/marketdata/csvfeed"
	"pricelab/internal/model"
	sqlitestore "pricelab/internal/store/sqlite"
)

// Kind names a bar source.
type Kind string

const (
	KindCSV    Kind = "csv"
	KindSQLite Kind = "sqlite"
)

var (
	ErrUnknownKind = errors.New("unknown bar source")
	ErrNoBars      = errors.New("no bars loaded")
)

// Options locate the bars for either kind. Only the path for Kind is used.
type Options struct {
	Kind    Kind
	CSVPath string
	DBPath  string
}

// Open returns a BarReader for opts.Kind.
func Open(opts Options) (model.BarReader, error) {
	switch opts.Kind {
	case KindCSV, "":
		return csvfeed.NewReader(opts.CSVPath), nil
	case KindSQLite:
		r, err := sqlitestore.NewReader(opts.DBPath)
		if err != nil {
			return nil, err
		}
		return r, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownKind, opts.Kind)
	}
}

// Load opens the source, reads symbol and closes it. An empty series is an
// error since nothing downstream can run on it.
func Load(ctx context.Context, opts Options, symbol string) ([]model.Bar, error) {
	r, err := Open(opts)
	if err != nil {
		return nil, err
	}
	defer r.Close()

	bars, err := r.ReadBars(ctx, symbol)
	if err != nil {
		return nil, fmt.Errorf("read bars: %w", err)
	}
	if len(bars) == 0 {
		return nil, ErrNoBars
	}

	slog.Info("bars loaded", "component", "source", "kind", string(opts.Kind), "symbol", symbol, "count", len(bars))
	return bars, nil
}
