package sqlite

import (
	"github.com/jmoiron/sqlx"

	"pricelab/internal/model"
)

const dsnOptions = "?_journal_mode=WAL&_synchronous=NORMAL&_busy_timeout=5000"

// barRow is one stored bar. Seq keeps the imported order since Date is an opaque label.
type barRow struct {
	Symbol string `db:"symbol"`
	Seq    int    `db:"seq"`
	model.Bar
}

func createSchema(db *sqlx.DB) error {
	_, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS bars (
			symbol  TEXT    NOT NULL,
			seq     INTEGER NOT NULL,
			date    TEXT    NOT NULL,
			open    REAL    NOT NULL,
			high    REAL    NOT NULL,
			low     REAL    NOT NULL,
			close   REAL    NOT NULL,
			volume  REAL    NOT NULL DEFAULT 0,
			PRIMARY KEY (symbol, seq)
		);

		CREATE INDEX IF NOT EXISTS idx_bars_symbol_date ON bars(symbol, date);
	`)
	return err
}

var (
	_ model.BarReader = (*Reader)(nil)
	_ model.BarWriter = (*Writer)(nil)
)
