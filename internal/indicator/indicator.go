// Package indicator provides technical indicator calculations over price series.
//
// Every indicator is a pure scan: it receives an ordered price slice and
// returns a new slice of the same length. Entries that cannot be computed yet
// (warm-up) hold NaN, so callers test readiness with Defined.
package indicator

import (
	"errors"
	"fmt"
	"math"
)

// Kind identifies an indicator formula. The set is closed.
type Kind string

const (
	KindSMA  Kind = "SMA"
	KindEMA  Kind = "EMA"
	KindSMMA Kind = "SMMA"
	KindRSI  Kind = "RSI"
	KindMACD Kind = "MACD"
)

var (
	ErrUnknownKind   = errors.New("unknown indicator kind")
	ErrInvalidPeriod = errors.New("invalid indicator period")
)

// Config specifies a single indicator series to compute.
type Config struct {
	Kind   Kind `yaml:"kind" json:"kind"`
	Period int  `yaml:"period" json:"period"`

	// SlowPeriod is only read by MACD, where Period is the fast EMA.
	SlowPeriod int `yaml:"slow_period,omitempty" json:"slow_period,omitempty"`
}

// Name returns the series name (e.g., "SMA_20", "MACD_12_26").
func (c Config) Name() string {
	if c.Kind == KindMACD {
		return fmt.Sprintf("%s_%d_%d", c.Kind, c.Period, c.SlowPeriod)
	}
	return fmt.Sprintf("%s_%d", c.Kind, c.Period)
}

// Validate checks the kind is known and periods are positive.
func (c Config) Validate() error {
	switch c.Kind {
	case KindSMA, KindEMA, KindSMMA, KindRSI:
		if c.Period <= 0 {
			return fmt.Errorf("%s period %d: %w", c.Kind, c.Period, ErrInvalidPeriod)
		}
	case KindMACD:
		if c.Period <= 0 || c.SlowPeriod <= 0 {
			return fmt.Errorf("MACD periods %d/%d: %w", c.Period, c.SlowPeriod, ErrInvalidPeriod)
		}
	default:
		return fmt.Errorf("%q: %w", c.Kind, ErrUnknownKind)
	}
	return nil
}

// Compute runs the indicator described by cfg over prices.
func Compute(cfg Config, prices []float64) ([]float64, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	switch cfg.Kind {
	case KindSMA:
		return SMA(prices, cfg.Period), nil
	case KindEMA:
		return EMA(prices, cfg.Period), nil
	case KindSMMA:
		return SMMA(prices, cfg.Period), nil
	case KindRSI:
		return RSI(prices, cfg.Period), nil
	default:
		return MACD(prices, cfg.Period, cfg.SlowPeriod), nil
	}
}

// Defined reports whether v is a computed value rather than the warm-up sentinel.
func Defined(v float64) bool { return !math.IsNaN(v) }

// undefinedSeries returns n NaN entries.
func undefinedSeries(n int) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = math.NaN()
	}
	return out
}
