// Package execution simulates a single-instrument, long-only, all-in trading
// account driven by a binary signal series.
//
// A signal at bar i-1 is acted on at the open of bar i. Equity is marked at
// each close. Any position still open after the last bar is closed at the
// last close.
package execution

import (
	"errors"
	"fmt"

	"pricelab/internal/model"
)

const (
	// InitialCapital is the normalized starting cash.
	InitialCapital = 1.0

	DefaultSlippage = 0.0005
)

// ErrSignalLength is returned when there are fewer signals than bars.
var ErrSignalLength = errors.New("signal series shorter than bars")

// Simulator converts signals into fills, trades and an equity curve.
type Simulator struct {
	// Slippage is the fractional price penalty per fill (0.0005 = 5 bps).
	Slippage float64
	// Cost is a fixed amount deducted from the proceeds of every exit.
	Cost float64
}

// NewSimulator creates a simulator with the given slippage fraction and fixed exit cost.
func NewSimulator(slippage, cost float64) *Simulator {
	return &Simulator{Slippage: slippage, Cost: cost}
}

// Result holds one simulation run. Equity has one entry per bar.
type Result struct {
	Equity []float64     `json:"equity"`
	Trades []model.Trade `json:"trades"`
	Fills  []Fill        `json:"fills"`
}

// position is the account state; flat when shares == 0.
type position struct {
	cash       float64
	shares     float64
	invested   float64
	entryPrice float64
	entryDate  string
}

func (p *position) long() bool { return p.shares > 0 }

// Run simulates bars against signals: 1 asks for long, 0 asks for flat and
// any other value holds the current state.
func (s *Simulator) Run(bars []model.Bar, signals []int) (Result, error) {
	if len(signals) < len(bars) {
		return Result{}, fmt.Errorf("simulate %d bars with %d signals: %w", len(bars), len(signals), ErrSignalLength)
	}
	n := len(bars)
	res := Result{
		Equity: make([]float64, n),
		Trades: make([]model.Trade, 0),
		Fills:  make([]Fill, 0),
	}
	if n == 0 {
		return res, nil
	}

	pos := position{cash: InitialCapital}

	for i := 1; i < n; i++ {
		bar := bars[i]
		prev := signals[i-1]

		// Entry: flat and the previous bar asked for long
		if prev == 1 && !pos.long() {
			fill := paperFill(model.SideBuy, bar.Date, bar.Open, s.Slippage, 0)
			pos.shares = pos.cash / fill.Price
			pos.invested = pos.cash
			pos.cash = 0
			pos.entryPrice = fill.Price
			pos.entryDate = bar.Date

			fill.Shares = pos.shares
			res.Fills = append(res.Fills, fill)
		}

		// Exit: long and the previous bar asked for flat
		if prev == 0 && pos.long() {
			res.Trades = append(res.Trades, s.close(&pos, &res, bar.Date, bar.Open))
		}

		res.Equity[i] = pos.cash + pos.shares*bar.Close
	}

	res.Equity[0] = InitialCapital
	for i := 1; i < n; i++ {
		if res.Equity[i] == 0 {
			res.Equity[i] = res.Equity[i-1]
		}
	}

	// Forced closure at the final close
	if pos.long() {
		last := bars[n-1]
		res.Trades = append(res.Trades, s.close(&pos, &res, last.Date, last.Close))
		res.Equity[n-1] = pos.cash
	}

	return res, nil
}

// close exits the whole position at reference and returns the completed trade.
func (s *Simulator) close(pos *position, res *Result, date string, reference float64) model.Trade {
	fill := paperFill(model.SideSell, date, reference, s.Slippage, pos.shares)
	proceeds := pos.shares*fill.Price - s.Cost
	trade := model.Trade{
		EntryDate:  pos.entryDate,
		ExitDate:   date,
		EntryPrice: pos.entryPrice,
		ExitPrice:  fill.Price,
		Shares:     pos.shares,
		PnL:        proceeds - pos.invested,
	}
	res.Fills = append(res.Fills, fill)

	pos.cash = proceeds
	pos.shares = 0
	pos.invested = 0
	return trade
}
