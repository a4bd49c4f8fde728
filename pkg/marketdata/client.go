package marketdata

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/rxtech-lab/argo-medallion/internal/config"
	"github.com/rxtech-lab/argo-medallion/internal/types"
	"github.com/rxtech-lab/argo-medallion/internal/utils"
	"github.com/rxtech-lab/argo-medallion/pkg/marketdata/provider"
	"github.com/rxtech-lab/argo-medallion/pkg/marketdata/writer"
)

// WriterType defines the type of bronze writer.
type WriterType string

const (
	WriterCSV WriterType = "csv"
)

// ClientConfig holds the configuration for the market data client.
type ClientConfig struct {
	ProviderType provider.ProviderType `validate:"required,oneof=yahoo_finance polygon"`
	WriterType   WriterType            `validate:"required,oneof=csv"`
	// DataPath is the bronze root; files land in DataPath/<provider>.
	DataPath string `validate:"required"`
}

// DownloadParams holds the parameters for one symbol download.
type DownloadParams struct {
	Ticker     string    `validate:"required"`
	StartDate  time.Time `validate:"required"`
	EndDate    time.Time `validate:"required,gtefield=StartDate"`
	IngestedAt time.Time `validate:"required"`
}

// DownloadResult describes the bronze file written by Download.
type DownloadResult struct {
	Path   string
	Rows   int
	Source types.Source
}

// Downloader is the bronze stage's view of the client.
type Downloader interface {
	Source() types.Source
	Download(ctx context.Context, params DownloadParams) (DownloadResult, error)
}

// Client downloads history from a provider and stores it using a writer.
type Client struct {
	provider   provider.Provider
	config     ClientConfig
	validate   *validator.Validate
	onProgress provider.OnDownloadProgress
}

var _ Downloader = (*Client)(nil)

// NewClient creates a client for the provider selected in cfg.
func NewClient(cfg config.Config, onProgress provider.OnDownloadProgress) (*Client, error) {
	providerType := provider.ProviderType(cfg.Provider)

	marketProvider, err := provider.NewMarketDataProvider(providerType, cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create %s provider: %w", providerType, err)
	}

	return NewClientWithProvider(ClientConfig{
		ProviderType: providerType,
		WriterType:   WriterCSV,
		DataPath:     cfg.BronzePath(),
	}, marketProvider, onProgress)
}

// NewClientWithProvider creates a client over an existing provider.
func NewClientWithProvider(clientConfig ClientConfig, marketProvider provider.Provider, onProgress provider.OnDownloadProgress) (*Client, error) {
	validate := validator.New()
	if err := validate.Struct(clientConfig); err != nil {
		return nil, fmt.Errorf("invalid client configuration: %w", err)
	}

	return &Client{
		provider:   marketProvider,
		config:     clientConfig,
		validate:   validate,
		onProgress: onProgress,
	}, nil
}

// Source returns the source tag of the files this client writes.
func (c *Client) Source() types.Source {
	return types.Source(c.config.ProviderType)
}

// OutputDir is the bronze sub-directory for the configured provider.
func (c *Client) OutputDir() string {
	return filepath.Join(c.config.DataPath, string(c.config.ProviderType))
}

// Download fetches one symbol and writes
// {ticker}_{start}_{end}_{YYYYMMDD_HHMMSS}.csv under OutputDir.
func (c *Client) Download(ctx context.Context, params DownloadParams) (DownloadResult, error) {
	if err := c.validate.Struct(params); err != nil {
		return DownloadResult{}, fmt.Errorf("invalid download parameters: %w", err)
	}

	if err := utils.EnsureDirs(c.OutputDir()); err != nil {
		return DownloadResult{}, err
	}

	marketWriter, err := c.setupWriter(params)
	if err != nil {
		return DownloadResult{}, fmt.Errorf("failed to setup writer: %w", err)
	}

	c.provider.ConfigWriter(marketWriter)

	path, err := c.provider.Download(ctx, params.Ticker, params.StartDate, params.EndDate, c.onProgress)
	if err != nil {
		return DownloadResult{}, fmt.Errorf("download failed: %w", err)
	}

	return DownloadResult{
		Path:   path,
		Rows:   marketWriter.Rows(),
		Source: c.Source(),
	}, nil
}

// setupWriter creates the writer for one download. The provider initializes it.
func (c *Client) setupWriter(params DownloadParams) (writer.MarketDataWriter, error) {
	switch c.config.WriterType {
	case WriterCSV:
		name := fmt.Sprintf("%s_%s_%s_%s",
			params.Ticker,
			params.StartDate.Format(types.DateLayout),
			params.EndDate.Format(types.DateLayout),
			utils.FormatTimestamp(params.IngestedAt))

		return writer.NewBronzeCSVWriter(c.OutputDir(), name, params.Ticker), nil
	default:
		return nil, fmt.Errorf("unsupported writer type: %s", c.config.WriterType)
	}
}
