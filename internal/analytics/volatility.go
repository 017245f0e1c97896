package analytics

import (
	"math"
	"sort"

	"stocklens/pkg/contracts/domain"
)

// Volatility computes the sample standard deviation of daily returns per
// ticker over all non-missing observations. Tickers with fewer than two
// valid returns get a missing value, never zero: an undefined statistic is
// reported, not defaulted.
func Volatility(rows []domain.CleanRow) []VolatilityRow {
	returns := make(map[string][]float64)
	var order []string

	for _, row := range rows {
		if domain.IsMissing(row.DailyReturn) {
			continue
		}
		if _, ok := returns[row.Ticker]; !ok {
			order = append(order, row.Ticker)
		}
		returns[row.Ticker] = append(returns[row.Ticker], row.DailyReturn)
	}
	sort.Strings(order)

	results := make([]VolatilityRow, 0, len(order))
	for _, ticker := range order {
		results = append(results, VolatilityRow{
			Ticker:     ticker,
			Volatility: sampleStdDev(returns[ticker]),
		})
	}
	return results
}

// TopVolatility returns the n most volatile tickers, excluding undefined values.
func TopVolatility(rows []VolatilityRow, n int) []VolatilityRow {
	valid := make([]VolatilityRow, 0, len(rows))
	for _, r := range rows {
		if !domain.IsMissing(r.Volatility) {
			valid = append(valid, r)
		}
	}
	sort.SliceStable(valid, func(i, j int) bool { return valid[i].Volatility > valid[j].Volatility })
	if len(valid) > n {
		valid = valid[:n]
	}
	return valid
}

// sampleStdDev is the n-1 denominator standard deviation; missing for n < 2.
func sampleStdDev(values []float64) float64 {
	n := len(values)
	if n < 2 {
		return domain.Missing()
	}
	var sum float64
	for _, v := range values {
		sum += v
	}
	mean := sum / float64(n)

	var ss float64
	for _, v := range values {
		d := v - mean
		ss += d * d
	}
	return math.Sqrt(ss / float64(n-1))
}
