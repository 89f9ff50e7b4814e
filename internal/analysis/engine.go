package analysis

import (
	"time"

	"CryptoRelay/internal/calculator"
	"CryptoRelay/internal/model"
)

// TopN is the number of assets listed in the report's market cap section.
const TopN = 5

// Generate derives the analysis report from a snapshot. It returns nil for an
// empty snapshot; the caller skips publication for that cycle.
func Generate(snap model.MarketSnapshot, now time.Time) *model.AnalysisReport {
	if snap.Empty() {
		return nil
	}

	// Mean and range cannot fail on a non-empty snapshot.
	avg, _ := calculator.CalculateAveragePrice(snap.Assets)
	high, low, _ := calculator.CalculateChangeRange(snap.Assets)

	return &model.AnalysisReport{
		GeneratedAt:    now,
		AssetCount:     snap.Len(),
		TopByMarketCap: calculator.TopByMarketCap(snap.Assets, TopN),
		AveragePrice:   avg,
		MaxChange24h:   high,
		MinChange24h:   low,
	}
}
