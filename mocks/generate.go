package mocks

//go:generate mockgen -destination=./mock_provider.go -package=mocks github.com/rxtech-lab/argo-medallion/pkg/marketdata/provider Provider
//go:generate mockgen -destination=./mock_downloader.go -package=mocks github.com/rxtech-lab/argo-medallion/pkg/marketdata Downloader
//go:generate mockgen -destination=./mock_fetcher.go -package=mocks github.com/rxtech-lab/argo-medallion/pkg/marketdata/alphavantage Fetcher
