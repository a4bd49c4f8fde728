package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/rxtech-lab/argo-medallion/internal/types"
	"github.com/rxtech-lab/argo-medallion/internal/version"
	"github.com/rxtech-lab/argo-medallion/pkg/errors"
	"github.com/stretchr/testify/suite"
)

type ConfigTestSuite struct {
	suite.Suite
	dir string
}

func TestConfigSuite(t *testing.T) {
	suite.Run(t, new(ConfigTestSuite))
}

func (suite *ConfigTestSuite) SetupTest() {
	suite.dir = suite.T().TempDir()
	for _, key := range []string{EnvAlphaVantageAPIKey, EnvPolygonAPIKey, EnvDataPath, EnvLogLevel, EnvProvider} {
		suite.T().Setenv(key, "")
	}
}

func (suite *ConfigTestSuite) writeConfig(content string) string {
	path := filepath.Join(suite.dir, "medallion.yaml")
	suite.Require().NoError(os.WriteFile(path, []byte(content), 0644))

	return path
}

func (suite *ConfigTestSuite) TestDefaultIsValid() {
	cfg := Default()
	suite.NoError(cfg.Validate())
	suite.Equal("https://www.alphavantage.co/query", cfg.AlphaVantage.BaseURL)
	suite.Equal("TIME_SERIES_DAILY", cfg.AlphaVantage.Function)
	suite.Equal(10*time.Second, cfg.AlphaVantage.Timeout)
	suite.Equal(types.SourceYahooFinance, cfg.Provider)
	suite.Equal("portfolio_metrics", cfg.GoldBasename)
}

func (suite *ConfigTestSuite) TestAllSymbolsOrder() {
	expected := []string{
		"NVDA", "MSFT", "GOOGL", "AMZN", "META", "AAPL",
		"AMD", "CRM", "ORCL",
		"PLTR", "AI", "SNOW", "MDB", "SMCI",
		"BOTZ",
	}
	suite.Equal(expected, DefaultPortfolio().AllSymbols())
}

func (suite *ConfigTestSuite) TestAllSymbolsReturnsCopy() {
	portfolio := DefaultPortfolio()
	symbols := portfolio.AllSymbols()
	symbols[0] = "XXX"
	suite.Equal("NVDA", portfolio.AllSymbols()[0])
}

func (suite *ConfigTestSuite) TestTierLookup() {
	portfolio := DefaultPortfolio()

	symbols, ok := portfolio.Tier("benchmark")
	suite.True(ok)
	suite.Equal([]string{"BOTZ"}, symbols)

	_, ok = portfolio.Tier("tier_9")
	suite.False(ok)
}

func (suite *ConfigTestSuite) TestLoadWithoutFile() {
	suite.T().Setenv(EnvAlphaVantageAPIKey, "demo")

	cfg, err := Load("")
	suite.Require().NoError(err)
	suite.Equal("demo", cfg.Credentials.AlphaVantageAPIKey)
	suite.Equal("data", cfg.DataPath)
}

func (suite *ConfigTestSuite) TestLoadFromYAML() {
	path := suite.writeConfig(`
data_path: /tmp/medallion
start_date: "2024-01-02"
end_date: "2024-01-31"
log_level: debug
portfolio:
  tiers:
    - name: core
      symbols: [AAPL, MSFT]
alpha_vantage:
  base_url: http://localhost:9999/query
  function: TIME_SERIES_DAILY
  timeout: 3s
`)

	cfg, err := Load(path)
	suite.Require().NoError(err)
	suite.Equal("/tmp/medallion", cfg.DataPath)
	suite.Equal("2024-01-02", cfg.StartDate)
	suite.Equal("debug", cfg.LogLevel)
	suite.Equal([]string{"AAPL", "MSFT"}, cfg.Portfolio.AllSymbols())
	suite.Equal(3*time.Second, cfg.AlphaVantage.Timeout)
	// Untouched sections keep their defaults
	suite.Equal(10*time.Second, cfg.Yahoo.Timeout)
	suite.Equal(filepath.Join("/tmp/medallion", "bronze"), cfg.BronzePath())
	suite.Equal(filepath.Join("/tmp/medallion", "silver"), cfg.SilverPath())
	suite.Equal(filepath.Join("/tmp/medallion", "gold"), cfg.GoldPath())
}

func (suite *ConfigTestSuite) TestEnvOverridesFile() {
	path := suite.writeConfig("data_path: from-file\n")
	suite.T().Setenv(EnvDataPath, "from-env")
	suite.T().Setenv(EnvProvider, "polygon")
	suite.T().Setenv(EnvLogLevel, "warn")

	cfg, err := Load(path)
	suite.Require().NoError(err)
	suite.Equal("from-env", cfg.DataPath)
	suite.Equal(types.SourcePolygon, cfg.Provider)
	suite.Equal("warn", cfg.LogLevel)
}

func (suite *ConfigTestSuite) TestLoadMissingFile() {
	_, err := Load(filepath.Join(suite.dir, "missing.yaml"))
	suite.Error(err)
	suite.True(errors.HasCode(err, errors.ErrCodeInvalidConfiguration))
}

func (suite *ConfigTestSuite) TestLoadMalformedYAML() {
	path := suite.writeConfig("portfolio: [unterminated\n")
	_, err := Load(path)
	suite.Error(err)
	suite.True(errors.HasCode(err, errors.ErrCodeInvalidConfiguration))
}

func (suite *ConfigTestSuite) TestValidateRejectsUnknownProvider() {
	cfg := Default()
	cfg.Provider = "bloomberg"
	err := cfg.Validate()
	suite.Error(err)
	suite.True(errors.HasCode(err, errors.ErrCodeInvalidConfiguration))
}

func (suite *ConfigTestSuite) TestValidateRejectsEmptyTier() {
	cfg := Default()
	cfg.Portfolio = Portfolio{Tiers: []Tier{{Name: "empty"}}}
	suite.Error(cfg.Validate())
}

func (suite *ConfigTestSuite) TestValidateRejectsDuplicateSymbols() {
	cfg := Default()
	cfg.Portfolio = Portfolio{Tiers: []Tier{
		{Name: "a", Symbols: []string{"AAPL"}},
		{Name: "b", Symbols: []string{"AAPL"}},
	}}
	err := cfg.Validate()
	suite.Error(err)
	suite.Contains(err.Error(), "AAPL")
}

func (suite *ConfigTestSuite) TestValidateRejectsInvertedDates() {
	cfg := Default()
	cfg.StartDate = "2025-07-25"
	cfg.EndDate = "2025-07-20"
	err := cfg.Validate()
	suite.Error(err)
	suite.True(errors.HasCode(err, errors.ErrCodeInvalidDateRange))
}

func (suite *ConfigTestSuite) TestValidateRequiredVersion() {
	original := version.Version
	defer func() { version.Version = original }()
	version.Version = "v0.3.0"

	cfg := Default()
	cfg.RequiredVersion = ">= 0.3.0"
	suite.NoError(cfg.Validate())

	cfg.RequiredVersion = ">= 2.0.0"
	err := cfg.Validate()
	suite.Error(err)
	suite.True(errors.HasCode(err, errors.ErrCodeInvalidConfiguration))
}

func (suite *ConfigTestSuite) TestParseDateRange() {
	start, end, err := ParseDateRange("2025-07-20", "2025-07-20")
	suite.Require().NoError(err)
	suite.Equal(start, end)

	_, _, err = ParseDateRange("07/20/2025", "2025-07-25")
	suite.True(errors.HasCode(err, errors.ErrCodeInvalidDateRange))
}

func (suite *ConfigTestSuite) TestRequireAlphaVantageKey() {
	cfg := Default()
	_, err := cfg.RequireAlphaVantageKey()
	suite.Error(err)
	suite.True(errors.HasCode(err, errors.ErrCodeMissingCredential))

	cfg.Credentials.AlphaVantageAPIKey = "secret"
	key, err := cfg.RequireAlphaVantageKey()
	suite.NoError(err)
	suite.Equal("secret", key)
}

func (suite *ConfigTestSuite) TestRequirePolygonKey() {
	cfg := Default()
	_, err := cfg.RequirePolygonKey()
	suite.True(errors.HasCode(err, errors.ErrCodeMissingCredential))
}

func (suite *ConfigTestSuite) TestSchema() {
	schema, err := Schema()
	suite.Require().NoError(err)

	var result map[string]any
	suite.Require().NoError(json.Unmarshal([]byte(schema), &result))

	properties, ok := result["properties"].(map[string]any)
	suite.Require().True(ok)
	suite.Contains(properties, "data_path")
	suite.Contains(properties, "portfolio")
	suite.Contains(properties, "alpha_vantage")
	suite.NotContains(properties, "Credentials")
}
