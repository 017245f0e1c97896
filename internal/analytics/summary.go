package analytics

import (
	"stocklens/pkg/contracts/domain"
)

// MarketSummary computes the scalar market statistics: tickers with a
// positive yearly return (green), tickers with a non-positive yearly return
// (red), and the mean close price and mean volume over the entire cleaned
// table (row-weighted, not per-ticker-averaged-then-averaged). Missing
// volumes are excluded from the mean, never treated as zero.
func MarketSummary(rows []domain.CleanRow) []SummaryMetric {
	yearly := YearlyReturns(rows)

	var green, red float64
	for _, r := range yearly {
		switch {
		case domain.IsMissing(r.Return):
		case r.Return > 0:
			green++
		default:
			red++
		}
	}

	var closeSum, volumeSum float64
	var closeCount, volumeCount int
	for _, row := range rows {
		if !domain.IsMissing(row.Close) {
			closeSum += row.Close
			closeCount++
		}
		if !domain.IsMissing(row.Volume) {
			volumeSum += row.Volume
			volumeCount++
		}
	}

	avgPrice, avgVolume := domain.Missing(), domain.Missing()
	if closeCount > 0 {
		avgPrice = closeSum / float64(closeCount)
	}
	if volumeCount > 0 {
		avgVolume = volumeSum / float64(volumeCount)
	}

	return []SummaryMetric{
		{Metric: "green_stocks", Value: green},
		{Metric: "red_stocks", Value: red},
		{Metric: "average_price", Value: avgPrice},
		{Metric: "average_volume", Value: avgVolume},
	}
}
