package execution

import (
	"pricelab/internal/model"
)

// Fill is one simulated execution against a reference bar price.
type Fill struct {
	Side      model.Side `json:"side"`
	Date      string     `json:"date"`
	Reference float64    `json:"reference"` // bar price the fill is based on
	Price     float64    `json:"price"`     // executed price after slippage
	Shares    float64    `json:"shares"`
}

// FillPrice applies fractional slippage against the trader:
// buys fill higher, sells fill lower.
func FillPrice(reference float64, side model.Side, slippage float64) float64 {
	if side == model.SideBuy {
		return reference * (1 + slippage)
	}
	return reference * (1 - slippage)
}

// paperFill builds a Fill at reference with the simulator's slippage.
func paperFill(side model.Side, date string, reference, slippage, shares float64) Fill {
	return Fill{
		Side:      side,
		Date:      date,
		Reference: reference,
		Price:     FillPrice(reference, side, slippage),
		Shares:    shares,
	}
}
