package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// AssetSnapshot represents a single asset row of a market snapshot.
type AssetSnapshot struct {
	Name                     string
	Symbol                   string
	CurrentPrice             decimal.Decimal
	MarketCap                decimal.Decimal
	TotalVolume              decimal.Decimal
	PriceChangePercentage24h decimal.Decimal
}

// MarketSnapshot holds one fetch cycle's assets, ordered by market cap descending.
type MarketSnapshot struct {
	Assets    []AssetSnapshot
	FetchedAt time.Time
}

// Empty reports whether the snapshot carries no assets.
func (s MarketSnapshot) Empty() bool {
	return len(s.Assets) == 0
}

// Len returns the number of assets.
func (s MarketSnapshot) Len() int {
	return len(s.Assets)
}
