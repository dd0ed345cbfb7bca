package model

// Side is the direction of a simulated fill.
type Side string

const (
	SideBuy  Side = "BUY"
	SideSell Side = "SELL"
)

// Trade is a completed round trip: one entry fill and one exit fill.
// Prices are executed prices after slippage.
type Trade struct {
	EntryDate  string  `json:"entry_date"`
	ExitDate   string  `json:"exit_date"`
	EntryPrice float64 `json:"entry_price"`
	ExitPrice  float64 `json:"exit_price"`
	Shares     float64 `json:"shares"`
	PnL        float64 `json:"pnl"`
}

// Won reports whether the trade realized a positive P&L.
func (t Trade) Won() bool { return t.PnL > 0 }
