package features

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pricelab/internal/model"
)

// ────────────────────────────────────────────────────────────
// Helpers
// ────────────────────────────────────────────────────────────

// linearBars returns n bars with close = 100 + 0.5i and constant volume.
func linearBars(n int) []model.Bar {
	bars := make([]model.Bar, n)
	for i := range bars {
		c := 100 + 0.5*float64(i)
		bars[i] = model.Bar{
			Date:   dateLabel(i),
			Open:   c - 0.2,
			High:   c + 1,
			Low:    c - 1,
			Close:  c,
			Volume: 1e6,
		}
	}
	return bars
}

// wavyBars oscillates close and volume so every feature varies.
func wavyBars(n int) []model.Bar {
	bars := make([]model.Bar, n)
	for i := range bars {
		c := 100 + 10*math.Sin(float64(i)/7) + 0.1*float64(i)
		bars[i] = model.Bar{
			Date:   dateLabel(i),
			Open:   c,
			High:   c + 1,
			Low:    c - 1,
			Close:  c,
			Volume: 1e6 + 2e5*math.Cos(float64(i)/3),
		}
	}
	return bars
}

func dateLabel(i int) string {
	return "D" + string(rune('A'+i/26%26)) + string(rune('A'+i%26))
}

// ────────────────────────────────────────────────────────────
// CreateFeatures
// ────────────────────────────────────────────────────────────

func TestCreateFeatures_LinearSeries(t *testing.T) {
	eng := NewEngineer(DefaultConfig())
	ds := eng.CreateFeatures(linearBars(100), 1)

	require.False(t, ds.Empty())
	require.Equal(t, len(ds.X), len(ds.Y))
	require.Equal(t, len(ds.X), len(ds.Index))

	width := eng.FeatureCount()
	for i, vec := range ds.X {
		require.Len(t, vec, width, "example %d", i)
		for j, v := range vec {
			assert.False(t, math.IsNaN(v) || math.IsInf(v, 0), "example %d feature %d = %v", i, j, v)
		}
	}
}

func TestCreateFeatures_WarmupAndTargets(t *testing.T) {
	bars := linearBars(100)
	ds := NewEngineer(DefaultConfig()).CreateFeatures(bars, 3)

	// Indices run from 50 to N-h-1 with nothing dropped on a clean series
	require.Equal(t, 100-3-50, ds.Len())
	assert.Equal(t, 50, ds.Index[0])
	assert.Equal(t, 96, ds.Index[ds.Len()-1])

	for k, i := range ds.Index {
		assert.Equal(t, bars[i+3].Close, ds.Y[k], "target for bar %d", i)
	}
}

func TestCreateFeatures_Layout(t *testing.T) {
	cfg := DefaultConfig()
	cfg.LagDays = 2
	bars := linearBars(80)
	ds := NewEngineer(cfg).CreateFeatures(bars, 1)
	require.False(t, ds.Empty())

	i := ds.Index[0]
	vec := ds.X[0]
	c := bars[i].Close

	// return_lag_1, return_lag_2
	assert.InDelta(t, c/bars[i-1].Close-1, vec[0], 1e-12)
	assert.InDelta(t, c/bars[i-2].Close-1, vec[1], 1e-12)
	// price_lag_1_norm, price_lag_2_norm
	assert.InDelta(t, bars[i-1].Close/c, vec[2], 1e-12)
	assert.InDelta(t, bars[i-2].Close/c, vec[3], 1e-12)
	// rsi on a strictly rising series saturates
	assert.InDelta(t, 1.0, vec[6], 1e-12)
	// constant volume: no change, ratio 1
	assert.InDelta(t, 0.0, vec[7], 1e-12)
	assert.InDelta(t, 1.0, vec[8], 1e-12)
	assert.Len(t, vec, 10)
}

func TestCreateFeatures_VolatilityMatchesHandComputed(t *testing.T) {
	cfg := Config{LagDays: 1, SMAPeriod: 20, EMAPeriod: 12, RSIPeriod: 14}
	bars := wavyBars(70)
	ds := NewEngineer(cfg).CreateFeatures(bars, 1)
	require.False(t, ds.Empty())

	// Only volatility is enabled
	require.Len(t, ds.X[0], 1)

	i := ds.Index[0]
	var rets []float64
	for k := 1; k <= 5; k++ {
		rets = append(rets, bars[i-k+1].Close/bars[i-k].Close-1)
	}
	mean := 0.0
	for _, r := range rets {
		mean += r
	}
	mean /= float64(len(rets))
	variance := 0.0
	for _, r := range rets {
		variance += (r - mean) * (r - mean)
	}
	variance /= float64(len(rets))

	assert.InDelta(t, math.Sqrt(variance), ds.X[0][0], 1e-12)
}

func TestCreateFeatures_VolumeEdgeCases(t *testing.T) {
	bars := linearBars(70)
	for i := range bars {
		bars[i].Volume = 0
	}
	cfg := DefaultConfig()
	eng := NewEngineer(cfg)
	ds := eng.CreateFeatures(bars, 1)
	require.False(t, ds.Empty())

	names := eng.FeatureNames()
	changeIdx := indexOf(names, "volume_change")
	ratioIdx := indexOf(names, "volume_ratio_5d")
	require.GreaterOrEqual(t, changeIdx, 0)
	require.GreaterOrEqual(t, ratioIdx, 0)

	for _, vec := range ds.X {
		assert.Equal(t, 0.0, vec[changeIdx])
		assert.Equal(t, 1.0, vec[ratioIdx])
	}
}

func TestCreateFeatures_InsufficientData(t *testing.T) {
	eng := NewEngineer(DefaultConfig())

	// lag 5 + horizon 1 + 50 = 56 bars minimum
	assert.True(t, eng.CreateFeatures(linearBars(55), 1).Empty())
	assert.False(t, eng.CreateFeatures(linearBars(56), 1).Empty())

	assert.True(t, eng.CreateFeatures(nil, 1).Empty())
	assert.True(t, eng.CreateFeatures(linearBars(100), 0).Empty())
}

func TestCreateFeatures_DropsNonFinite(t *testing.T) {
	bars := wavyBars(90)
	// A zero close makes the return at 61 infinite, and lags reaching back to it
	bars[60].Close = 0

	ds := NewEngineer(DefaultConfig()).CreateFeatures(bars, 1)
	require.False(t, ds.Empty())
	for _, i := range ds.Index {
		assert.False(t, i >= 60 && i <= 65, "bar %d should have been dropped", i)
	}
	for _, vec := range ds.X {
		for _, v := range vec {
			assert.False(t, math.IsNaN(v) || math.IsInf(v, 0))
		}
	}
}

func TestCreateFeatures_Idempotent(t *testing.T) {
	bars := wavyBars(150)
	eng := NewEngineer(DefaultConfig())

	first := eng.CreateFeatures(bars, 2)
	second := eng.CreateFeatures(bars, 2)
	assert.Equal(t, first, second)
}

func TestCreateFeatures_Causal(t *testing.T) {
	bars := wavyBars(120)
	eng := NewEngineer(DefaultConfig())
	base := eng.CreateFeatures(bars, 1)

	// Changing the future must not change features already built
	mutated := make([]model.Bar, len(bars))
	copy(mutated, bars)
	for i := 100; i < len(mutated); i++ {
		mutated[i].Close *= 3
		mutated[i].Volume *= 7
	}
	after := eng.CreateFeatures(mutated, 1)

	for k, i := range base.Index {
		if i >= 100 {
			break
		}
		assert.Equal(t, base.X[k], after.X[k], "features at bar %d", i)
	}
}

// ────────────────────────────────────────────────────────────
// Names and counts
// ────────────────────────────────────────────────────────────

func TestFeatureNames_DefaultConfig(t *testing.T) {
	eng := NewEngineer(DefaultConfig())
	names := eng.FeatureNames()

	require.Len(t, names, eng.FeatureCount())
	assert.Equal(t, 16, eng.FeatureCount())
	assert.Equal(t, []string{
		"return_lag_1", "return_lag_2", "return_lag_3", "return_lag_4", "return_lag_5",
		"price_lag_1_norm", "price_lag_2_norm", "price_lag_3_norm", "price_lag_4_norm", "price_lag_5_norm",
		"sma_20_norm", "ema_12_norm", "rsi_14_norm",
		"volume_change", "volume_ratio_5d",
		"volatility_5d",
	}, names)
}

func TestFeatureCount_GroupsToggle(t *testing.T) {
	tests := []struct {
		name string
		cfg  Config
		want int
	}{
		{"volatility only", Config{LagDays: 3}, 1},
		{"returns only", Config{UseReturns: true, LagDays: 3}, 4},
		{"indicators", Config{UseSMA: true, UseRSI: true, LagDays: 3}, 3},
		{"volume", Config{UseVolume: true, LagDays: 3}, 3},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			eng := NewEngineer(tt.cfg)
			assert.Equal(t, tt.want, eng.FeatureCount())
			assert.Len(t, eng.FeatureNames(), tt.want)
		})
	}
}

func TestNewEngineer_FillsNonPositivePeriods(t *testing.T) {
	eng := NewEngineer(Config{UseSMA: true})
	cfg := eng.Config()
	assert.Equal(t, 5, cfg.LagDays)
	assert.Equal(t, 20, cfg.SMAPeriod)
	assert.Equal(t, 12, cfg.EMAPeriod)
	assert.Equal(t, 14, cfg.RSIPeriod)
}

func indexOf(names []string, want string) int {
	for i, n := range names {
		if n == want {
			return i
		}
	}
	return -1
}

// ────────────────────────────────────────────────────────────
// FeatureVectors
// ────────────────────────────────────────────────────────────

func TestFeatureVectors_ReachesLastBar(t *testing.T) {
	bars := wavyBars(120)
	eng := NewEngineer(DefaultConfig())

	vecs := eng.FeatureVectors(bars)
	require.False(t, vecs.Empty())
	assert.Nil(t, vecs.Y)
	assert.Equal(t, 119, vecs.Index[vecs.Len()-1])

	// Shared indices carry identical vectors
	ds := eng.CreateFeatures(bars, 1)
	for k := range ds.Index {
		assert.Equal(t, ds.Index[k], vecs.Index[k])
		assert.Equal(t, ds.X[k], vecs.X[k])
	}
}

func TestFeatureVectors_InsufficientData(t *testing.T) {
	assert.True(t, NewEngineer(DefaultConfig()).FeatureVectors(linearBars(55)).Empty())
}
