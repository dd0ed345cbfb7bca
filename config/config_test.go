package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pricelab/internal/features"
)

func writeYAML(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "pricelab.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoad_Defaults(t *testing.T) {
	c, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "csv", c.Data.Source)
	assert.Equal(t, 1, c.Predict.Horizon)
	assert.Equal(t, 0.8, c.Predict.TrainRatio)
	assert.Equal(t, 20, c.Strategy.EMAPeriod)
	assert.Equal(t, 50, c.Strategy.SMAPeriod)
	assert.Equal(t, 0.0005, c.Backtest.Slippage)
	assert.Equal(t, features.DefaultConfig(), c.Features)
	assert.True(t, c.Output.Summary)
	assert.True(t, c.Output.Fills)
	assert.Equal(t, "info", c.Log.Level)
}

func TestLoad_FileOverridesDefaults(t *testing.T) {
	path := writeYAML(t, `
data:
  source: sqlite
  symbol: ACME
features:
  use_rsi: false
  lag_days: 3
predict:
  horizon: 5
output:
  metrics: false
`)
	c, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "sqlite", c.Data.Source)
	assert.Equal(t, "ACME", c.Data.Symbol)
	assert.False(t, c.Features.UseRSI)
	assert.True(t, c.Features.UseSMA)
	assert.Equal(t, 3, c.Features.LagDays)
	assert.Equal(t, 5, c.Predict.Horizon)
	assert.False(t, c.Output.Metrics)
	assert.True(t, c.Output.Trades)
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("PRICELAB_CSV", "/tmp/prices.csv")
	t.Setenv("PRICELAB_HORIZON", "3")
	t.Setenv("PRICELAB_SLIPPAGE", "0.001")
	t.Setenv("PRICELAB_LOG_LEVEL", "debug")

	c, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "/tmp/prices.csv", c.Data.CSV)
	assert.Equal(t, 3, c.Predict.Horizon)
	assert.Equal(t, 0.001, c.Backtest.Slippage)
	assert.Equal(t, "debug", c.Log.Level)
}

func TestLoad_BadEnvNumber(t *testing.T) {
	t.Setenv("PRICELAB_HORIZON", "soon")
	_, err := Load("")
	assert.ErrorContains(t, err, "PRICELAB_HORIZON")
}

func TestLoad_ValidationErrors(t *testing.T) {
	path := writeYAML(t, `
data:
  source: parquet
predict:
  train_ratio: 1.5
`)
	_, err := Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Config.Data.Source must be one of: csv, sqlite")
	assert.Contains(t, err.Error(), "Config.Predict.TrainRatio must be less than 1")
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	assert.ErrorContains(t, err, "read config")
}

func TestLoad_MalformedYAML(t *testing.T) {
	_, err := Load(writeYAML(t, "data: [unclosed"))
	assert.ErrorContains(t, err, "parse config")
}
