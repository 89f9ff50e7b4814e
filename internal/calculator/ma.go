package calculator

import (
	"errors"

	"CryptoRelay/internal/model"

	"github.com/shopspring/decimal"
)

// CalculateMean computes the arithmetic mean of the given values.
func CalculateMean(values []decimal.Decimal) (decimal.Decimal, error) {
	if len(values) == 0 {
		return decimal.Zero, errors.New("not enough data for mean calculation")
	}
	return decimal.Avg(values[0], values[1:]...), nil
}

// CalculateAveragePrice returns the mean current price across all assets.
func CalculateAveragePrice(assets []model.AssetSnapshot) (decimal.Decimal, error) {
	return CalculateMean(extractPrices(assets))
}

func extractPrices(assets []model.AssetSnapshot) []decimal.Decimal {
	prices := make([]decimal.Decimal, len(assets))
	for i, a := range assets {
		prices[i] = a.CurrentPrice
	}
	return prices
}
