package indicator

import (
	lop "github.com/samber/lo/parallel"
)

// Result is one computed series aligned with the input prices.
type Result struct {
	Config Config
	Name   string
	Values []float64
}

// Engine computes a fixed set of indicator series over one price series.
// Series are independent, so they are computed concurrently.
type Engine struct {
	configs []Config
}

// NewEngine validates configs and returns an engine for them.
func NewEngine(configs []Config) (*Engine, error) {
	for _, c := range configs {
		if err := c.Validate(); err != nil {
			return nil, err
		}
	}
	cp := make([]Config, len(configs))
	copy(cp, configs)
	return &Engine{configs: cp}, nil
}

// Process computes every configured series over prices.
// Results are returned in config order regardless of completion order.
func (e *Engine) Process(prices []float64) []Result {
	return lop.Map(e.configs, func(cfg Config, _ int) Result {
		// Validated in NewEngine, so Compute cannot fail here.
		values, _ := Compute(cfg, prices)
		return Result{
			Config: cfg,
			Name:   cfg.Name(),
			Values: values,
		}
	})
}

// Lookup returns the values of the first result matching cfg, or nil.
func Lookup(results []Result, cfg Config) []float64 {
	for _, r := range results {
		if r.Config == cfg {
			return r.Values
		}
	}
	return nil
}
