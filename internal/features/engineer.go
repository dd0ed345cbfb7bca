// Package features turns a bar series into supervised-learning examples for
// the regression engine: one fixed-width feature vector per eligible bar plus
// the close price a fixed number of bars ahead.
//
// Extraction is causal. A vector built at bar i only reads bars 0..i.
package features

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/stat"

	"pricelab/internal/indicator"
	"pricelab/internal/model"
)

const (
	// MinWarmup is the first bar index eligible for an example regardless of LagDays.
	MinWarmup = 50

	volumeWindow     = 5
	volatilityWindow = 5
)

// Dataset holds index-aligned feature vectors, targets and source bar indices.
type Dataset struct {
	X     [][]float64
	Y     []float64
	Index []int
}

// Len returns the number of examples.
func (d Dataset) Len() int { return len(d.X) }

// Empty reports whether the dataset holds no examples.
func (d Dataset) Empty() bool { return len(d.X) == 0 }

// Engineer builds feature vectors according to a Config.
type Engineer struct {
	cfg Config
}

// NewEngineer creates an Engineer. Non-positive periods fall back to the defaults.
func NewEngineer(cfg Config) *Engineer {
	def := DefaultConfig()
	if cfg.LagDays <= 0 {
		cfg.LagDays = def.LagDays
	}
	if cfg.SMAPeriod <= 0 {
		cfg.SMAPeriod = def.SMAPeriod
	}
	if cfg.EMAPeriod <= 0 {
		cfg.EMAPeriod = def.EMAPeriod
	}
	if cfg.RSIPeriod <= 0 {
		cfg.RSIPeriod = def.RSIPeriod
	}
	return &Engineer{cfg: cfg}
}

// Config returns the effective configuration.
func (e *Engineer) Config() Config { return e.cfg }

// indicatorConfigs lists the enabled indicator series in vector order.
func (e *Engineer) indicatorConfigs() []indicator.Config {
	var cfgs []indicator.Config
	if e.cfg.UseSMA {
		cfgs = append(cfgs, indicator.Config{Kind: indicator.KindSMA, Period: e.cfg.SMAPeriod})
	}
	if e.cfg.UseEMA {
		cfgs = append(cfgs, indicator.Config{Kind: indicator.KindEMA, Period: e.cfg.EMAPeriod})
	}
	if e.cfg.UseRSI {
		cfgs = append(cfgs, indicator.Config{Kind: indicator.KindRSI, Period: e.cfg.RSIPeriod})
	}
	return cfgs
}

// CreateFeatures builds one example per bar index in [max(LagDays, 50), N-horizon).
//
// Returns an empty Dataset when horizon < 1 or there are fewer than
// LagDays+horizon+50 bars. Examples with any non-finite component are dropped
// together with their target.
func (e *Engineer) CreateFeatures(bars []model.Bar, horizon int) Dataset {
	if horizon < 1 || len(bars) < e.cfg.LagDays+horizon+MinWarmup {
		return Dataset{}
	}
	return e.build(bars, len(bars)-horizon, horizon)
}

// FeatureVectors builds a vector for every eligible bar index up to and
// including the last bar. Y is nil: the future close is not known for the
// trailing bars. Used to forecast beyond the end of the series.
func (e *Engineer) FeatureVectors(bars []model.Bar) Dataset {
	if len(bars) < e.cfg.LagDays+1+MinWarmup {
		return Dataset{}
	}
	return e.build(bars, len(bars), 0)
}

// build emits vectors for i in [warm-up, end). Targets are recorded when horizon > 0.
func (e *Engineer) build(bars []model.Bar, end, horizon int) Dataset {
	lag := e.cfg.LagDays
	closes := model.Closes(bars)
	volumes := model.Volumes(bars)

	// Periods were normalized in NewEngineer, so the engine accepts them.
	engine, err := indicator.NewEngine(e.indicatorConfigs())
	if err != nil {
		return Dataset{}
	}
	series := engine.Process(closes)

	start := max(lag, MinWarmup)
	width := e.FeatureCount()

	ds := Dataset{
		X:     make([][]float64, 0, end-start),
		Index: make([]int, 0, end-start),
	}
	if horizon > 0 {
		ds.Y = make([]float64, 0, end-start)
	}
	for i := start; i < end; i++ {
		vec := make([]float64, 0, width)
		cur := closes[i]

		if e.cfg.UseReturns {
			for k := 1; k <= lag; k++ {
				vec = append(vec, cur/closes[i-k]-1)
			}
		}
		if e.cfg.UseLaggedPrices {
			for k := 1; k <= lag; k++ {
				vec = append(vec, closes[i-k]/cur)
			}
		}
		for _, s := range series {
			if s.Config.Kind == indicator.KindRSI {
				vec = append(vec, s.Values[i]/100.0)
				continue
			}
			vec = append(vec, s.Values[i]/cur)
		}
		if e.cfg.UseVolume {
			vec = append(vec, volumeChange(volumes, i), volumeRatio(volumes, i))
		}
		vec = append(vec, volatility(closes, i))

		if !allFinite(vec) {
			continue
		}
		ds.X = append(ds.X, vec)
		ds.Index = append(ds.Index, i)
		if horizon > 0 {
			ds.Y = append(ds.Y, closes[i+horizon])
		}
	}
	return ds
}

// FeatureCount returns the width of every vector CreateFeatures emits.
func (e *Engineer) FeatureCount() int {
	n := 0
	if e.cfg.UseReturns {
		n += e.cfg.LagDays
	}
	if e.cfg.UseLaggedPrices {
		n += e.cfg.LagDays
	}
	n += len(e.indicatorConfigs())
	if e.cfg.UseVolume {
		n += 2
	}
	return n + 1 // volatility
}

// FeatureNames returns one name per vector component, in vector order.
func (e *Engineer) FeatureNames() []string {
	names := make([]string, 0, e.FeatureCount())
	if e.cfg.UseReturns {
		for k := 1; k <= e.cfg.LagDays; k++ {
			names = append(names, fmt.Sprintf("return_lag_%d", k))
		}
	}
	if e.cfg.UseLaggedPrices {
		for k := 1; k <= e.cfg.LagDays; k++ {
			names = append(names, fmt.Sprintf("price_lag_%d_norm", k))
		}
	}
	if e.cfg.UseSMA {
		names = append(names, fmt.Sprintf("sma_%d_norm", e.cfg.SMAPeriod))
	}
	if e.cfg.UseEMA {
		names = append(names, fmt.Sprintf("ema_%d_norm", e.cfg.EMAPeriod))
	}
	if e.cfg.UseRSI {
		names = append(names, fmt.Sprintf("rsi_%d_norm", e.cfg.RSIPeriod))
	}
	if e.cfg.UseVolume {
		names = append(names, "volume_change", "volume_ratio_5d")
	}
	return append(names, "volatility_5d")
}

// volumeChange is the day-over-day volume change, 0 when the previous volume is 0.
func volumeChange(volumes []float64, i int) float64 {
	if i == 0 || volumes[i-1] <= 0 {
		return 0
	}
	return (volumes[i] - volumes[i-1]) / volumes[i-1]
}

// volumeRatio divides the current volume by the trailing 5-bar average,
// 1.0 when that average is 0.
func volumeRatio(volumes []float64, i int) float64 {
	sum := 0.0
	for k := 1; k <= volumeWindow && i >= k; k++ {
		sum += volumes[i-k]
	}
	avg := sum / volumeWindow
	if avg <= 0 {
		return 1.0
	}
	return volumes[i] / avg
}

// volatility is the population standard deviation of up to 5 daily returns ending at i.
func volatility(closes []float64, i int) float64 {
	rets := make([]float64, 0, volatilityWindow)
	for k := 1; k <= volatilityWindow && i >= k; k++ {
		rets = append(rets, closes[i-k+1]/closes[i-k]-1)
	}
	if len(rets) == 0 {
		return 0
	}
	return stat.PopStdDev(rets, nil)
}

func allFinite(vec []float64) bool {
	for _, v := range vec {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}
