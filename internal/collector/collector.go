package collector

import (
	"context"
	"fmt"
	"time"

	"CryptoRelay/internal/model"
)

// MockFetcher returns controllable fixed data for development and testing.
type MockFetcher struct {
	Assets []model.AssetSnapshot
	Err    error
	Calls  int
}

func (m *MockFetcher) Name() string { return "mock" }

func (m *MockFetcher) FetchMarkets(_ context.Context) ([]model.AssetSnapshot, error) {
	m.Calls++
	if m.Err != nil {
		return nil, m.Err
	}
	out := make([]model.AssetSnapshot, len(m.Assets))
	copy(out, m.Assets)
	return out, nil
}

// Collector turns fetcher results into snapshots.
type Collector struct {
	Fetcher Fetcher
	Now     func() time.Time
}

// NewCollector creates a new Collector.
func NewCollector(fetcher Fetcher) *Collector {
	return &Collector{Fetcher: fetcher, Now: time.Now}
}

// Collect fetches a fresh snapshot. On any failure it returns an empty snapshot
// together with an error wrapping model.ErrFetchFailed; the caller skips the cycle.
func (c *Collector) Collect(ctx context.Context) (model.MarketSnapshot, error) {
	snap := model.MarketSnapshot{FetchedAt: c.Now()}
	assets, err := c.Fetcher.FetchMarkets(ctx)
	if err != nil {
		return snap, fmt.Errorf("%w: %s: %v", model.ErrFetchFailed, c.Fetcher.Name(), err)
	}
	snap.Assets = assets
	return snap, nil
}
