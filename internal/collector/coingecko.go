package collector

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"

	"CryptoRelay/internal/model"

	"github.com/shopspring/decimal"
)

const DefaultCoinGeckoURL = "https://api.coingecko.com/api/v3"

// CoinGeckoFetcher implements Fetcher using the CoinGecko /coins/markets endpoint.
type CoinGeckoFetcher struct {
	BaseURL    string
	VsCurrency string
	PerPage    int
	Client     *http.Client
}

// NewCoinGeckoFetcher creates a new fetcher with optional proxy support.
// The client keeps the transport's default timeout behaviour.
func NewCoinGeckoFetcher(baseURL, vsCurrency string, perPage int, proxyURL string) *CoinGeckoFetcher {
	transport := &http.Transport{}
	if proxyURL != "" {
		if u, err := url.Parse(proxyURL); err == nil {
			transport.Proxy = http.ProxyURL(u)
		}
	}
	if baseURL == "" {
		baseURL = DefaultCoinGeckoURL
	}
	return &CoinGeckoFetcher{
		BaseURL:    baseURL,
		VsCurrency: vsCurrency,
		PerPage:    perPage,
		Client:     &http.Client{Transport: transport},
	}
}

func (f *CoinGeckoFetcher) Name() string { return "coingecko" }

// coinMarket is the subset of the /coins/markets item we consume.
type coinMarket struct {
	Name                     string          `json:"name"`
	Symbol                   string          `json:"symbol"`
	CurrentPrice             decimal.Decimal `json:"current_price"`
	MarketCap                decimal.Decimal `json:"market_cap"`
	TotalVolume              decimal.Decimal `json:"total_volume"`
	PriceChangePercentage24h decimal.Decimal `json:"price_change_percentage_24h"`
}

func (f *CoinGeckoFetcher) marketsURL() string {
	q := url.Values{}
	q.Set("vs_currency", f.VsCurrency)
	q.Set("order", "market_cap_desc")
	q.Set("per_page", strconv.Itoa(f.PerPage))
	q.Set("page", "1")
	q.Set("sparkline", "false")
	return f.BaseURL + "/coins/markets?" + q.Encode()
}

// FetchMarkets issues a single GET for page 1 of the markets listing.
func (f *CoinGeckoFetcher) FetchMarkets(ctx context.Context) ([]model.AssetSnapshot, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, f.marketsURL(), nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := f.Client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("coingecko fetch: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("coingecko: status %d, body: %s", resp.StatusCode, string(body))
	}

	var markets []coinMarket
	if err := json.NewDecoder(resp.Body).Decode(&markets); err != nil {
		return nil, fmt.Errorf("coingecko decode: %w", err)
	}

	assets := make([]model.AssetSnapshot, len(markets))
	for i, m := range markets {
		assets[i] = model.AssetSnapshot{
			Name:                     m.Name,
			Symbol:                   m.Symbol,
			CurrentPrice:             m.CurrentPrice,
			MarketCap:                m.MarketCap,
			TotalVolume:              m.TotalVolume,
			PriceChangePercentage24h: m.PriceChangePercentage24h,
		}
	}
	return assets, nil
}
