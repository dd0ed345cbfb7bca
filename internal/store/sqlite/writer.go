package sqlite

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/mattn/go-sqlite3"

	"pricelab/internal/model"
)

// WriterConfig configures the SQLite writer.
type WriterConfig struct {
	DBPath string // path to SQLite database file, e.g. "data/bars.db"
}

// Writer imports bar series into the bars table.
type Writer struct {
	db *sqlx.DB
}

// New opens (or creates) the database with WAL mode and ensures the schema.
func New(cfg WriterConfig) (*Writer, error) {
	db, err := sqlx.Open("sqlite3", cfg.DBPath+dsnOptions)
	if err != nil {
		return nil, fmt.Errorf("sqlite open: %w", err)
	}

	// Single writer
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	if err := createSchema(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("sqlite schema: %w", err)
	}

	slog.Info("sqlite opened", "component", "sqlite", "path", cfg.DBPath)
	return &Writer{db: db}, nil
}

// WriteBars replaces the stored series for symbol with bars in one transaction.
// Returns the number of rows written.
func (w *Writer) WriteBars(ctx context.Context, symbol string, bars []model.Bar) (int, error) {
	start := time.Now()

	tx, err := w.db.BeginTxx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("sqlite begin: %w", err)
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM bars WHERE symbol = ?`, symbol); err != nil {
		tx.Rollback()
		return 0, fmt.Errorf("sqlite clear %s: %w", symbol, err)
	}

	stmt, err := tx.PrepareNamedContext(ctx, `
		INSERT INTO bars (symbol, seq, date, open, high, low, close, volume)
		VALUES (:symbol, :seq, :date, :open, :high, :low, :close, :volume)
	`)
	if err != nil {
		tx.Rollback()
		return 0, fmt.Errorf("sqlite prepare: %w", err)
	}
	defer stmt.Close()

	for i, b := range bars {
		if _, err := stmt.ExecContext(ctx, barRow{Symbol: symbol, Seq: i, Bar: b}); err != nil {
			tx.Rollback()
			return 0, fmt.Errorf("sqlite insert %s seq %d: %w", symbol, i, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("sqlite commit: %w", err)
	}

	slog.Info("bars committed", "component", "sqlite", "symbol", symbol,
		"count", len(bars), "took", time.Since(start).String())
	return len(bars), nil
}

// Close closes the database.
func (w *Writer) Close() error {
	return w.db.Close()
}
