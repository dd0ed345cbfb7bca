package strategy

import (
	"fmt"

	"pricelab/internal/indicator"
	"pricelab/internal/model"
)

const (
	DefaultEMAPeriod = 20
	DefaultSMAPeriod = 50
)

// Crossover is long while the fast series is above the slow series.
// Bars where either series is still warming up signal flat.
type Crossover struct {
	fast   indicator.Config
	slow   indicator.Config
	engine *indicator.Engine
}

// NewCrossover creates a crossover rule over two indicator series.
func NewCrossover(fast, slow indicator.Config) (*Crossover, error) {
	engine, err := indicator.NewEngine([]indicator.Config{fast, slow})
	if err != nil {
		return nil, fmt.Errorf("crossover: %w", err)
	}
	return &Crossover{fast: fast, slow: slow, engine: engine}, nil
}

// NewEMASMACrossover is long while EMA(emaPeriod) > SMA(smaPeriod).
func NewEMASMACrossover(emaPeriod, smaPeriod int) (*Crossover, error) {
	return NewCrossover(
		indicator.Config{Kind: indicator.KindEMA, Period: emaPeriod},
		indicator.Config{Kind: indicator.KindSMA, Period: smaPeriod},
	)
}

func (c *Crossover) Name() string {
	return c.fast.Name() + ">" + c.slow.Name()
}

func (c *Crossover) Signals(bars []model.Bar) ([]int, error) {
	results := c.engine.Process(model.Closes(bars))
	fast, slow := indicator.Lookup(results, c.fast), indicator.Lookup(results, c.slow)

	out := make([]int, len(bars))
	for i := range out {
		if indicator.Defined(fast[i]) && indicator.Defined(slow[i]) && fast[i] > slow[i] {
			out[i] = SignalLong
		}
	}
	return out, nil
}
