package sqlite

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/jmoiron/sqlx"
	_ "github.com/mattn/go-sqlite3"

	"pricelab/internal/model"
)

// Reader provides read-only access to stored bar series.
type Reader struct {
	db *sqlx.DB
}

// NewReader opens a SQLite connection for reading. The schema is created if
// missing so an empty database reads as no bars rather than an error.
func NewReader(dbPath string) (*Reader, error) {
	db, err := sqlx.Open("sqlite3", dbPath+dsnOptions)
	if err != nil {
		return nil, fmt.Errorf("sqlite open reader: %w", err)
	}
	db.SetMaxOpenConns(2)
	db.SetMaxIdleConns(2)

	if err := createSchema(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("sqlite schema: %w", err)
	}

	slog.Info("sqlite reader opened", "component", "sqlite-reader", "path", dbPath)
	return &Reader{db: db}, nil
}

// ReadBars returns the series for symbol in imported order.
func (r *Reader) ReadBars(ctx context.Context, symbol string) ([]model.Bar, error) {
	var rows []barRow
	err := r.db.SelectContext(ctx, &rows, `
		SELECT symbol, seq, date, open, high, low, close, volume
		FROM bars
		WHERE symbol = ?
		ORDER BY seq ASC
	`, symbol)
	if err != nil {
		return nil, fmt.Errorf("sqlite query bars: %w", err)
	}

	bars := make([]model.Bar, len(rows))
	for i, row := range rows {
		bars[i] = row.Bar
	}
	return bars, nil
}

// Symbols lists the stored symbols in name order.
func (r *Reader) Symbols(ctx context.Context) ([]string, error) {
	var symbols []string
	if err := r.db.SelectContext(ctx, &symbols, `SELECT DISTINCT symbol FROM bars ORDER BY symbol`); err != nil {
		return nil, fmt.Errorf("sqlite query symbols: %w", err)
	}
	return symbols, nil
}

// Close closes the reader.
func (r *Reader) Close() error {
	return r.db.Close()
}
