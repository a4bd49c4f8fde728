package marketdata

import (
	"fmt"
	"sort"

	"github.com/rxtech-lab/argo-medallion/internal/config"
	"github.com/rxtech-lab/argo-medallion/internal/types"
)

// ProviderInfo contains metadata about a market data source.
type ProviderInfo struct {
	Name         string `json:"name"`
	DisplayName  string `json:"displayName"`
	Description  string `json:"description"`
	RequiresAuth bool   `json:"requiresAuth"`
	// EnvKey is the environment variable holding the credential, if any.
	EnvKey string `json:"envKey,omitempty"`
	// Historical reports whether bronze ingestion can use the source.
	Historical bool `json:"historical"`
}

// providerRegistry holds metadata about all known sources.
var providerRegistry = map[types.Source]ProviderInfo{
	types.SourceYahooFinance: {
		Name:         string(types.SourceYahooFinance),
		DisplayName:  "Yahoo Finance",
		Description:  "Daily OHLCV history from the Yahoo Finance chart API",
		RequiresAuth: false,
		Historical:   true,
	},
	types.SourcePolygon: {
		Name:         string(types.SourcePolygon),
		DisplayName:  "Polygon.io",
		Description:  "US stock market daily aggregates",
		RequiresAuth: true,
		EnvKey:       config.EnvPolygonAPIKey,
		Historical:   true,
	},
	types.SourceAlphaVantage: {
		Name:         string(types.SourceAlphaVantage),
		DisplayName:  "Alpha Vantage",
		Description:  "TIME_SERIES_DAILY quotes; bronze ingestion is not implemented",
		RequiresAuth: true,
		EnvKey:       config.EnvAlphaVantageAPIKey,
		Historical:   false,
	},
}

// GetSupportedProviders returns the names of all known sources, sorted.
func GetSupportedProviders() []string {
	providers := make([]string, 0, len(providerRegistry))
	for source := range providerRegistry {
		providers = append(providers, string(source))
	}

	sort.Strings(providers)

	return providers
}

// GetProviderInfo returns metadata for a specific source.
func GetProviderInfo(providerName string) (ProviderInfo, error) {
	info, exists := providerRegistry[types.Source(providerName)]
	if !exists {
		return ProviderInfo{}, fmt.Errorf("unsupported provider: %s", providerName)
	}

	return info, nil
}
