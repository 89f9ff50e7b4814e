package collector

import (
	"context"

	"CryptoRelay/internal/model"
)

// Fetcher defines the interface for fetching the top assets by market cap.
type Fetcher interface {
	FetchMarkets(ctx context.Context) ([]model.AssetSnapshot, error)
	Name() string
}
