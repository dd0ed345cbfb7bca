// Package config loads run configuration from an optional YAML file, fills
// defaults from struct tags, applies PRICELAB_* environment overrides and
// validates the result.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/creasty/defaults"
	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"pricelab/internal/features"
)

// Config holds all run configuration.
type Config struct {
	Data     DataConfig      `yaml:"data"`
	Features features.Config `yaml:"features"`
	Predict  PredictConfig   `yaml:"predict"`
	Strategy StrategyConfig  `yaml:"strategy"`
	Backtest BacktestConfig  `yaml:"backtest"`
	Output   OutputConfig    `yaml:"output"`
	Log      LogConfig       `yaml:"log"`
}

// DataConfig locates the input bars.
type DataConfig struct {
	Source string `yaml:"source" default:"csv" validate:"oneof=csv sqlite"`
	CSV    string `yaml:"csv" default:"data/sample.csv"`
	DB     string `yaml:"db" default:"data/bars.db"`
	Symbol string `yaml:"symbol" default:"SAMPLE" validate:"required"`
}

type PredictConfig struct {
	Horizon    int     `yaml:"horizon" default:"1" validate:"gte=1"`
	TrainRatio float64 `yaml:"train_ratio" default:"0.8" validate:"gt=0,lt=1"`
}

type StrategyConfig struct {
	Rule      string  `yaml:"rule" default:"crossover" validate:"oneof=crossover model"`
	EMAPeriod int     `yaml:"ema_period" default:"20" validate:"gte=1"`
	SMAPeriod int     `yaml:"sma_period" default:"50" validate:"gte=1"`
	Threshold float64 `yaml:"threshold" default:"0" validate:"gte=0"`
}

type BacktestConfig struct {
	Slippage float64 `yaml:"slippage" default:"0.0005" validate:"gte=0,lt=1"`
	Cost     float64 `yaml:"cost" default:"0" validate:"gte=0"`
}

// OutputConfig selects which result files are written under Dir.
type OutputConfig struct {
	Dir         string `yaml:"dir" default:"output" validate:"required"`
	Predictions bool   `yaml:"predictions" default:"true"`
	Trades      bool   `yaml:"trades" default:"true"`
	Fills       bool   `yaml:"fills" default:"true"`
	Equity      bool   `yaml:"equity" default:"true"`
	Summary     bool   `yaml:"summary" default:"true"`
	Metrics     bool   `yaml:"metrics" default:"true"`
}

type LogConfig struct {
	Level string `yaml:"level" default:"info" validate:"oneof=debug info warn error"`
}

var validate = validator.New()

// Default returns the configuration with every tag default applied.
func Default() (*Config, error) {
	var c Config
	if err := defaults.Set(&c); err != nil {
		return nil, fmt.Errorf("config defaults: %w", err)
	}
	return &c, nil
}

// Load reads the YAML file at path over the defaults. An empty path skips the
// file. Environment overrides are applied before validation.
func Load(path string) (*Config, error) {
	c, err := Default()
	if err != nil {
		return nil, err
	}

	if path != "" {
		b, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config: %w", err)
		}
		if err := yaml.Unmarshal(b, c); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	}

	if err := c.applyEnv(); err != nil {
		return nil, err
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

func (c *Config) applyEnv() error {
	c.Data.Source = getEnv("PRICELAB_SOURCE", c.Data.Source)
	c.Data.CSV = getEnv("PRICELAB_CSV", c.Data.CSV)
	c.Data.DB = getEnv("PRICELAB_DB", c.Data.DB)
	c.Data.Symbol = getEnv("PRICELAB_SYMBOL", c.Data.Symbol)
	c.Output.Dir = getEnv("PRICELAB_OUTPUT_DIR", c.Output.Dir)
	c.Log.Level = getEnv("PRICELAB_LOG_LEVEL", c.Log.Level)
	c.Strategy.Rule = getEnv("PRICELAB_RULE", c.Strategy.Rule)

	var err error
	if c.Predict.Horizon, err = getEnvInt("PRICELAB_HORIZON", c.Predict.Horizon); err != nil {
		return err
	}
	if c.Predict.TrainRatio, err = getEnvFloat("PRICELAB_TRAIN_RATIO", c.Predict.TrainRatio); err != nil {
		return err
	}
	if c.Backtest.Slippage, err = getEnvFloat("PRICELAB_SLIPPAGE", c.Backtest.Slippage); err != nil {
		return err
	}
	return nil
}

// Validate checks field constraints and reports every violation.
func (c *Config) Validate() error {
	err := validate.Struct(c)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return fmt.Errorf("validate config: %w", err)
	}
	msgs := make([]string, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		msgs = append(msgs, fieldMessage(fe))
	}
	return fmt.Errorf("validate config: %s", strings.Join(msgs, "; "))
}

func fieldMessage(fe validator.FieldError) string {
	field := fe.Namespace()
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", field)
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", field, strings.ReplaceAll(fe.Param(), " ", ", "))
	case "gt":
		return fmt.Sprintf("%s must be greater than %s", field, fe.Param())
	case "gte":
		return fmt.Sprintf("%s must be greater than or equal to %s", field, fe.Param())
	case "lt":
		return fmt.Sprintf("%s must be less than %s", field, fe.Param())
	default:
		return fmt.Sprintf("%s failed validation: %s", field, fe.Tag())
	}
}

func getEnv(key, fallback string) string {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	return v
}

func getEnvInt(key string, fallback int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("env %s: %w", key, err)
	}
	return n, nil
}

func getEnvFloat(key string, fallback float64) (float64, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return 0, fmt.Errorf("env %s: %w", key, err)
	}
	return f, nil
}
