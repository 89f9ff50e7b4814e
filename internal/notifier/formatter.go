package notifier

import (
	"fmt"
	"html"
	"strings"

	"CryptoRelay/internal/model"

	"github.com/dustin/go-humanize"
	"github.com/shopspring/decimal"
)

// SheetHeader is the fixed first row of the live data sheet.
var SheetHeader = []string{
	"Cryptocurrency Name", "Symbol", "Price (USD)", "Market Cap", "24h Volume", "24h Change (%)",
}

// FormatUSD renders a price as "$1,234.50".
func FormatUSD(d decimal.Decimal) string {
	return "$" + groupFixed(d, 2)
}

// FormatUSDWhole renders an integer amount as "$1,234,567".
func FormatUSDWhole(d decimal.Decimal) string {
	return "$" + groupFixed(d, 0)
}

// FormatPercent renders a change as "-3.46%".
func FormatPercent(d decimal.Decimal) string {
	return d.StringFixed(2) + "%"
}

// groupFixed rounds half away from zero and inserts thousands separators.
func groupFixed(d decimal.Decimal, places int32) string {
	r := d.Round(places)
	sign := ""
	if r.IsNegative() {
		sign = "-"
		r = r.Neg()
	}
	whole := r.Truncate(0)
	s := humanize.BigComma(whole.BigInt())
	if places > 0 {
		s += r.Sub(whole).StringFixed(places)[1:]
	}
	return sign + s
}

// FormatSheetRows builds the full sheet grid: header plus one row per asset.
func FormatSheetRows(snap model.MarketSnapshot) [][]string {
	rows := make([][]string, 0, snap.Len()+1)
	rows = append(rows, append([]string(nil), SheetHeader...))
	for _, a := range snap.Assets {
		rows = append(rows, []string{
			a.Name,
			strings.ToUpper(a.Symbol),
			FormatUSD(a.CurrentPrice),
			FormatUSDWhole(a.MarketCap),
			FormatUSDWhole(a.TotalVolume),
			FormatPercent(a.PriceChangePercentage24h),
		})
	}
	return rows
}

// FormatAnalysisReport renders the narrative report inserted into the document.
func FormatAnalysisReport(r *model.AnalysisReport) string {
	var b strings.Builder

	b.WriteString("Cryptocurrency Analysis Report\n")
	b.WriteString("================================\n\n")
	b.WriteString(fmt.Sprintf("Generated on: %s\n\n", r.GeneratedAt.Local().Format("2006-01-02 15:04:05")))

	b.WriteString("Top 5 Cryptocurrencies by Market Cap:\n")
	b.WriteString("-----------------------------------\n")
	for _, a := range r.TopByMarketCap {
		b.WriteString(fmt.Sprintf("%s - Market Cap: %s\n", a.Name, FormatUSDWhole(a.MarketCap)))
	}

	b.WriteString("\nMarket Overview:\n")
	b.WriteString("---------------\n")
	b.WriteString(fmt.Sprintf("Average Price of Top %d Cryptocurrencies: $%s\n", r.AssetCount, r.AveragePrice.StringFixed(2)))
	b.WriteString(fmt.Sprintf("Highest 24h Change: %s\n", FormatPercent(r.MaxChange24h)))
	b.WriteString(fmt.Sprintf("Lowest 24h Change: %s\n", FormatPercent(r.MinChange24h)))

	return b.String()
}

// FormatCycleAlert formats a failed refresh cycle for the Telegram chat.
func FormatCycleAlert(job string, err error) string {
	return fmt.Sprintf("⚠️ <b>CryptoRelay</b> | %s failed\n\n%s", job, html.EscapeString(err.Error()))
}
