// Package config builds the immutable pipeline configuration.
//
// Values are layered: built-in defaults, then an optional YAML file, then
// environment variables (a .env file in the working directory is loaded first
// when present). The resulting Config is validated once and passed by value
// to every stage.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/invopop/jsonschema"
	"github.com/joho/godotenv"
	"github.com/rxtech-lab/argo-medallion/internal/types"
	"github.com/rxtech-lab/argo-medallion/internal/version"
	"github.com/rxtech-lab/argo-medallion/pkg/errors"
	"gopkg.in/yaml.v3"
)

// Environment variables read by Load.
const (
	EnvAlphaVantageAPIKey = "ALPHA_VANTAGE_API_KEY"
	EnvPolygonAPIKey      = "POLYGON_API_KEY"
	EnvDataPath           = "MEDALLION_DATA_PATH"
	EnvLogLevel           = "MEDALLION_LOG_LEVEL"
	EnvProvider           = "MEDALLION_PROVIDER"
)

// DefaultGoldBasename is the base name of the consolidated gold file.
const DefaultGoldBasename = "portfolio_metrics"

// APIConfig describes one HTTP market data endpoint.
type APIConfig struct {
	BaseURL  string        `yaml:"base_url" validate:"required,url" jsonschema:"description=Endpoint base URL"`
	Function string        `yaml:"function,omitempty" jsonschema:"description=Alpha Vantage function name"`
	Timeout  time.Duration `yaml:"timeout" validate:"gt=0" jsonschema:"type=string,description=Per-request timeout such as 10s"`
}

// Credentials are read from the environment only and never from the YAML file.
type Credentials struct {
	AlphaVantageAPIKey string `yaml:"-" json:"-"`
	PolygonAPIKey      string `yaml:"-" json:"-"`
}

// Config is the complete pipeline configuration.
type Config struct {
	RequiredVersion string       `yaml:"required_version,omitempty" jsonschema:"description=Semver constraint the medallion binary must satisfy"`
	DataPath        string       `yaml:"data_path" validate:"required" jsonschema:"description=Root directory holding bronze/silver/gold"`
	Provider        types.Source `yaml:"provider" validate:"required,oneof=yahoo_finance polygon" jsonschema:"enum=yahoo_finance,enum=polygon,description=Historical data provider used by bronze ingestion"`
	StartDate       string       `yaml:"start_date" validate:"required,datetime=2006-01-02" jsonschema:"description=Default ingestion start date (YYYY-MM-DD)"`
	EndDate         string       `yaml:"end_date" validate:"required,datetime=2006-01-02" jsonschema:"description=Default ingestion end date (YYYY-MM-DD), inclusive"`
	GoldBasename    string       `yaml:"gold_basename" validate:"required" jsonschema:"description=Base name of the gold output file"`
	LogLevel        string       `yaml:"log_level" validate:"oneof=debug info warn error" jsonschema:"enum=debug,enum=info,enum=warn,enum=error"`
	Portfolio       Portfolio    `yaml:"portfolio"`
	AlphaVantage    APIConfig    `yaml:"alpha_vantage"`
	Yahoo           APIConfig    `yaml:"yahoo"`
	Credentials     Credentials  `yaml:"-" json:"-"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		DataPath:     "data",
		Provider:     types.SourceYahooFinance,
		StartDate:    "2025-07-20",
		EndDate:      "2025-07-25",
		GoldBasename: DefaultGoldBasename,
		LogLevel:     "info",
		Portfolio:    DefaultPortfolio(),
		AlphaVantage: APIConfig{
			BaseURL:  "https://www.alphavantage.co/query",
			Function: "TIME_SERIES_DAILY",
			Timeout:  10 * time.Second,
		},
		Yahoo: APIConfig{
			BaseURL: "https://query2.finance.yahoo.com/v8/finance/chart",
			Timeout: 10 * time.Second,
		},
	}
}

// Load builds a Config from defaults, the optional YAML file at path and the
// environment. An empty path skips the file.
func Load(path string) (Config, error) {
	// A missing .env file is not an error.
	_ = godotenv.Load()

	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return Config{}, errors.Wrapf(errors.ErrCodeInvalidConfiguration, err, "failed to read config file %s", path)
		}

		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Config{}, errors.Wrapf(errors.ErrCodeInvalidConfiguration, err, "failed to parse config file %s", path)
		}
	}

	applyEnv(&cfg)

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

func applyEnv(cfg *Config) {
	cfg.Credentials.AlphaVantageAPIKey = os.Getenv(EnvAlphaVantageAPIKey)
	cfg.Credentials.PolygonAPIKey = os.Getenv(EnvPolygonAPIKey)

	if v := os.Getenv(EnvDataPath); v != "" {
		cfg.DataPath = v
	}

	if v := os.Getenv(EnvLogLevel); v != "" {
		cfg.LogLevel = v
	}

	if v := os.Getenv(EnvProvider); v != "" {
		cfg.Provider = types.Source(v)
	}
}

// Validate checks struct constraints, the date range, symbol uniqueness and
// the required binary version.
func (c Config) Validate() error {
	validate := validator.New()
	if err := validate.Struct(c); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidConfiguration, "invalid configuration", err)
	}

	if _, _, err := c.DateRange(); err != nil {
		return err
	}

	if symbol, ok := c.Portfolio.duplicate(); ok {
		return errors.Newf(errors.ErrCodeInvalidConfiguration, "symbol %s appears in more than one tier", symbol)
	}

	if err := version.CheckConstraint(version.GetVersion(), c.RequiredVersion); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidConfiguration, "binary version rejected by config", err)
	}

	return nil
}

// DateRange parses the default ingestion window.
func (c Config) DateRange() (time.Time, time.Time, error) {
	return ParseDateRange(c.StartDate, c.EndDate)
}

// ParseDateRange parses two YYYY-MM-DD dates and checks start <= end.
func ParseDateRange(start, end string) (time.Time, time.Time, error) {
	s, err := time.Parse(types.DateLayout, start)
	if err != nil {
		return time.Time{}, time.Time{}, errors.Wrapf(errors.ErrCodeInvalidDateRange, err, "invalid start date %q", start)
	}

	e, err := time.Parse(types.DateLayout, end)
	if err != nil {
		return time.Time{}, time.Time{}, errors.Wrapf(errors.ErrCodeInvalidDateRange, err, "invalid end date %q", end)
	}

	if s.After(e) {
		return time.Time{}, time.Time{}, errors.Newf(errors.ErrCodeInvalidDateRange, "start date %s is after end date %s", start, end)
	}

	return s, e, nil
}

// RequireAlphaVantageKey returns the quotes API key or a missing credential error.
func (c Config) RequireAlphaVantageKey() (string, error) {
	if c.Credentials.AlphaVantageAPIKey == "" {
		return "", errors.Newf(errors.ErrCodeMissingCredential, "%s not found in environment variables", EnvAlphaVantageAPIKey)
	}

	return c.Credentials.AlphaVantageAPIKey, nil
}

// RequirePolygonKey returns the Polygon API key or a missing credential error.
func (c Config) RequirePolygonKey() (string, error) {
	if c.Credentials.PolygonAPIKey == "" {
		return "", errors.Newf(errors.ErrCodeMissingCredential, "%s not found in environment variables", EnvPolygonAPIKey)
	}

	return c.Credentials.PolygonAPIKey, nil
}

// BronzePath is the bronze root, data/bronze by default.
func (c Config) BronzePath() string {
	return filepath.Join(c.DataPath, "bronze")
}

// SilverPath is the silver directory, data/silver by default.
func (c Config) SilverPath() string {
	return filepath.Join(c.DataPath, "silver")
}

// GoldPath is the gold directory, data/gold by default.
func (c Config) GoldPath() string {
	return filepath.Join(c.DataPath, "gold")
}

// Schema returns the JSON schema of the YAML config file.
func Schema() (string, error) {
	r := new(jsonschema.Reflector)
	r.DoNotReference = true
	r.FieldNameTag = "yaml"
	schema := r.Reflect(Config{})

	jsonSchemaBytes, err := json.MarshalIndent(schema, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to marshal config schema: %w", err)
	}

	return string(jsonSchemaBytes), nil
}
