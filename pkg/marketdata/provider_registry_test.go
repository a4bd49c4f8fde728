package marketdata

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/suite"
)

type ProviderRegistryTestSuite struct {
	suite.Suite
}

func TestProviderRegistryTestSuite(t *testing.T) {
	suite.Run(t, new(ProviderRegistryTestSuite))
}

func (suite *ProviderRegistryTestSuite) TestGetSupportedProviders() {
	providers := GetSupportedProviders()

	suite.Equal([]string{"alpha_vantage", "polygon", "yahoo_finance"}, providers)
}

func (suite *ProviderRegistryTestSuite) TestGetProviderInfo_Yahoo() {
	info, err := GetProviderInfo("yahoo_finance")

	suite.NoError(err)
	suite.Equal("Yahoo Finance", info.DisplayName)
	suite.False(info.RequiresAuth)
	suite.True(info.Historical)
	suite.Empty(info.EnvKey)
}

func (suite *ProviderRegistryTestSuite) TestGetProviderInfo_Polygon() {
	info, err := GetProviderInfo("polygon")

	suite.NoError(err)
	suite.Equal("polygon", info.Name)
	suite.Equal("Polygon.io", info.DisplayName)
	suite.True(info.RequiresAuth)
	suite.Equal("POLYGON_API_KEY", info.EnvKey)
	suite.NotEmpty(info.Description)
}

func (suite *ProviderRegistryTestSuite) TestGetProviderInfo_AlphaVantage() {
	info, err := GetProviderInfo("alpha_vantage")

	suite.NoError(err)
	suite.True(info.RequiresAuth)
	suite.False(info.Historical)
	suite.Equal("ALPHA_VANTAGE_API_KEY", info.EnvKey)
}

func (suite *ProviderRegistryTestSuite) TestGetProviderInfo_InvalidProvider() {
	_, err := GetProviderInfo("invalid")

	suite.Error(err)
	suite.Contains(err.Error(), "unsupported provider")
}

func (suite *ProviderRegistryTestSuite) TestProviderInfoJSON() {
	info, err := GetProviderInfo("polygon")
	suite.Require().NoError(err)

	data, err := json.Marshal(info)
	suite.Require().NoError(err)
	suite.JSONEq(`{"name":"polygon","displayName":"Polygon.io","description":"US stock market daily aggregates","requiresAuth":true,"envKey":"POLYGON_API_KEY","historical":true}`, string(data))
}
