// Package alphavantage fetches daily quotes from the Alpha Vantage API.
// https://www.alphavantage.co/documentation/
package alphavantage

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"

	"github.com/rxtech-lab/argo-medallion/internal/config"
	"github.com/rxtech-lab/argo-medallion/pkg/errors"
)

// Fetcher is the quotes boundary used by the fetch command.
type Fetcher interface {
	FetchMarketData(ctx context.Context, symbol string, outputSize OutputSize, dataType DataType) Result
}

// Client is an HTTP client for the Alpha Vantage API.
type Client struct {
	apiKey     string
	baseURL    string
	function   string
	httpClient *http.Client
}

var _ Fetcher = (*Client)(nil)

// NewClient creates a client from the API section of the config.
// An empty API key is a configuration error and no client is returned.
func NewClient(apiKey string, api config.APIConfig) (*Client, error) {
	if apiKey == "" {
		return nil, errors.Newf(errors.ErrCodeMissingCredential, "%s not found in environment variables", config.EnvAlphaVantageAPIKey)
	}

	function := api.Function
	if function == "" {
		function = "TIME_SERIES_DAILY"
	}

	return &Client{
		apiKey:   apiKey,
		baseURL:  api.BaseURL,
		function: function,
		httpClient: &http.Client{
			Timeout: api.Timeout,
		},
	}, nil
}

// FetchMarketData requests the daily series for one symbol. Every failure,
// including invalid arguments, comes back as a failed Result.
func (c *Client) FetchMarketData(ctx context.Context, symbol string, outputSize OutputSize, dataType DataType) Result {
	if symbol == "" {
		return Failure(errors.New(errors.ErrCodeMissingParameter, "symbol is required"))
	}

	if outputSize != OutputSizeCompact && outputSize != OutputSizeFull {
		return Failure(errors.Newf(errors.ErrCodeInvalidParameter, "invalid outputsize %q: must be compact or full", outputSize))
	}

	if dataType != DataTypeJSON && dataType != DataTypeCSV {
		return Failure(errors.Newf(errors.ErrCodeInvalidParameter, "invalid datatype %q: must be json or csv", dataType))
	}

	params := url.Values{}
	params.Set("function", c.function)
	params.Set("symbol", symbol)
	params.Set("outputsize", string(outputSize))
	params.Set("datatype", string(dataType))
	params.Set("apikey", c.apiKey)

	body, err := c.doRequest(ctx, params)
	if err != nil {
		return Failure(err)
	}

	if dataType == DataTypeCSV {
		return Success(Payload{DataType: DataTypeCSV, Content: string(body)})
	}

	var tsResp TimeSeriesDailyResponse
	if err := json.Unmarshal(body, &tsResp); err != nil {
		return Failure(errors.Wrap(errors.ErrCodeMarketDataParseFailed, "failed to unmarshal response", err))
	}

	if len(tsResp.TimeSeries) == 0 {
		return Failure(inBandError(symbol, tsResp))
	}

	return Success(Payload{
		DataType:   DataTypeJSON,
		MetaData:   tsResp.MetaData,
		TimeSeries: tsResp.TimeSeries,
	})
}

// inBandError explains a 200 response that carries no time series.
func inBandError(symbol string, resp TimeSeriesDailyResponse) error {
	switch {
	case resp.ErrorMessage != "":
		return errors.Newf(errors.ErrCodeMarketDataFetchFailed, "API error for %s: %s", symbol, resp.ErrorMessage)
	case resp.Note != "":
		return errors.Newf(errors.ErrCodeMarketDataFetchFailed, "API note for %s: %s", symbol, resp.Note)
	case resp.Information != "":
		return errors.Newf(errors.ErrCodeMarketDataFetchFailed, "API information for %s: %s", symbol, resp.Information)
	default:
		return errors.Newf(errors.ErrCodeMarketDataParseFailed, "unexpected response for %s: no time series", symbol)
	}
}

// doRequest performs the GET and returns the body of a 2xx response.
func (c *Client) doRequest(ctx context.Context, params url.Values) ([]byte, error) {
	reqURL := fmt.Sprintf("%s?%s", c.baseURL, params.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeMarketDataFetchFailed, "failed to create request", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeMarketDataFetchFailed, "request failed", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeMarketDataFetchFailed, "failed to read response", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, errors.Newf(errors.ErrCodeMarketDataFetchFailed, "API returned status %d: %s", resp.StatusCode, truncate(string(body), 200))
	}

	return body, nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}

	return s[:n] + "..."
}
