package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// AnalysisReport is the derived summary of a MarketSnapshot.
type AnalysisReport struct {
	GeneratedAt    time.Time
	AssetCount     int
	TopByMarketCap []AssetSnapshot // at most 5
	AveragePrice   decimal.Decimal
	MaxChange24h   decimal.Decimal
	MinChange24h   decimal.Decimal
}
