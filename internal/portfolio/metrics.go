// Package portfolio computes performance metrics from a simulated equity
// curve and trade ledger.
package portfolio

import (
	"github.com/samber/lo"

	"pricelab/internal/model"
)

// Summary is the performance summary of one backtest run.
type Summary struct {
	FinalEquity float64 `json:"final_equity"`
	TotalReturn float64 `json:"total_return"` // FinalEquity/initial - 1
	MaxDrawdown float64 `json:"max_drawdown"` // fraction, 0.2 = 20%
	Trades      int     `json:"trades"`
	Wins        int     `json:"wins"`
	WinRate     float64 `json:"win_rate"`
	TotalPnL    float64 `json:"total_pnl"`
}

// Compute summarizes equity and trades. initial is the starting capital the
// curve is normalized against.
func Compute(equity []float64, trades []model.Trade, initial float64) Summary {
	s := Summary{
		FinalEquity: initial,
		MaxDrawdown: MaxDrawdown(equity),
		Trades:      len(trades),
		Wins:        lo.CountBy(trades, func(t model.Trade) bool { return t.Won() }),
		TotalPnL:    lo.SumBy(trades, func(t model.Trade) float64 { return t.PnL }),
	}
	if n := len(equity); n > 0 && equity[n-1] != 0 {
		s.FinalEquity = equity[n-1]
	}
	if initial != 0 {
		s.TotalReturn = s.FinalEquity/initial - 1
	}
	if s.Trades > 0 {
		s.WinRate = float64(s.Wins) / float64(s.Trades)
	}
	return s
}
