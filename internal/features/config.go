package features

// Config enumerates the active feature groups and their lookback depths.
// Volatility is always emitted.
type Config struct {
	UseReturns      bool `yaml:"use_returns" default:"true"`
	UseLaggedPrices bool `yaml:"use_lagged_prices" default:"true"`
	UseSMA          bool `yaml:"use_sma" default:"true"`
	UseEMA          bool `yaml:"use_ema" default:"true"`
	UseRSI          bool `yaml:"use_rsi" default:"true"`
	UseVolume       bool `yaml:"use_volume" default:"true"`

	LagDays   int `yaml:"lag_days" default:"5" validate:"gte=1"`
	SMAPeriod int `yaml:"sma_period" default:"20" validate:"gte=1"`
	EMAPeriod int `yaml:"ema_period" default:"12" validate:"gte=1"`
	RSIPeriod int `yaml:"rsi_period" default:"14" validate:"gte=1"`
}

// DefaultConfig returns every group enabled with lag 5, SMA 20, EMA 12, RSI 14.
func DefaultConfig() Config {
	return Config{
		UseReturns:      true,
		UseLaggedPrices: true,
		UseSMA:          true,
		UseEMA:          true,
		UseRSI:          true,
		UseVolume:       true,
		LagDays:         5,
		SMAPeriod:       20,
		EMAPeriod:       12,
		RSIPeriod:       14,
	}
}
