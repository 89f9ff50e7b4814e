package calculator

import (
	"errors"
	"sort"

	"CryptoRelay/internal/model"

	"github.com/shopspring/decimal"
)

// CalculateChangeRange returns the highest and lowest 24h change percentage.
func CalculateChangeRange(assets []model.AssetSnapshot) (high, low decimal.Decimal, err error) {
	if len(assets) == 0 {
		return decimal.Zero, decimal.Zero, errors.New("no assets provided")
	}
	high = assets[0].PriceChangePercentage24h
	low = high
	for _, a := range assets[1:] {
		if a.PriceChangePercentage24h.GreaterThan(high) {
			high = a.PriceChangePercentage24h
		}
		if a.PriceChangePercentage24h.LessThan(low) {
			low = a.PriceChangePercentage24h
		}
	}
	return high, low, nil
}

// TopByMarketCap returns up to n assets with the largest market cap.
// Assets with equal market cap keep their original relative order.
func TopByMarketCap(assets []model.AssetSnapshot, n int) []model.AssetSnapshot {
	if n <= 0 || len(assets) == 0 {
		return nil
	}
	sorted := make([]model.AssetSnapshot, len(assets))
	copy(sorted, assets)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].MarketCap.GreaterThan(sorted[j].MarketCap)
	})
	if len(sorted) > n {
		sorted = sorted[:n]
	}
	return sorted
}
