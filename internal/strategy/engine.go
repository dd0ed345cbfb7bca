// Package strategy provides the rules that turn bar series into position-intent
// signals for the trade simulator.
//
// A signal series is aligned with the bars: 1 means "be long after this bar",
// 0 means "be flat after this bar". Rules never look past the bar they signal on.
package strategy

import (
	"fmt"

	"pricelab/internal/model"
)

const (
	SignalFlat = 0
	SignalLong = 1
)

// Strategy is the interface all signal rules implement.
type Strategy interface {
	// Name returns a human-readable rule name.
	Name() string

	// Signals returns one signal per bar.
	Signals(bars []model.Bar) ([]int, error)
}

// Engine runs registered strategies over the same bar series.
type Engine struct {
	strategies []Strategy
}

// NewEngine creates an engine with the given strategies.
func NewEngine(strategies ...Strategy) *Engine {
	return &Engine{strategies: strategies}
}

// Run evaluates every registered strategy. Results are keyed by strategy name.
func (e *Engine) Run(bars []model.Bar) (map[string][]int, error) {
	out := make(map[string][]int, len(e.strategies))
	for _, s := range e.strategies {
		sig, err := s.Signals(bars)
		if err != nil {
			return nil, fmt.Errorf("strategy %s: %w", s.Name(), err)
		}
		if len(sig) != len(bars) {
			return nil, fmt.Errorf("strategy %s returned %d signals for %d bars", s.Name(), len(sig), len(bars))
		}
		out[s.Name()] = sig
	}
	return out, nil
}

// Transitions counts 1→0 changes in a signal series.
func Transitions(signals []int) int {
	n := 0
	for i := 1; i < len(signals); i++ {
		if signals[i-1] == SignalLong && signals[i] == SignalFlat {
			n++
		}
	}
	return n
}
