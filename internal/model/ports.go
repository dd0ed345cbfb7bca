package model

import "context"

// ── Storage Port Interfaces ──
// These interfaces decouple the pipeline from where bars come from
// (CSV file, SQLite bar store).

// BarReader loads an ordered bar series for one symbol.
type BarReader interface {
	// ReadBars returns bars for symbol in series order.
	ReadBars(ctx context.Context, symbol string) ([]Bar, error)

	// Close releases underlying resources.
	Close() error
}

// BarWriter persists bars for one symbol.
type BarWriter interface {
	// WriteBars replaces the stored series for symbol in a single batch.
	WriteBars(ctx context.Context, symbol string, bars []Bar) (int, error)

	// Close releases underlying resources.
	Close() error
}
