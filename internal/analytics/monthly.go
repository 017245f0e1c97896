package analytics

import (
	"sort"

	"stocklens/pkg/contracts/domain"
)

// MonthlyLeaderboards buckets rows by (ticker, calendar month), computes the
// bucket return (last_close - first_close) / first_close and keeps, per
// month, the five highest (gainers) and five lowest (losers) across tickers
// with an explicit 1..N rank. A month with fewer than five tickers yields
// fewer than five rows; nothing is padded.
func MonthlyLeaderboards(rows []domain.CleanRow) (gainers, losers []MonthlyRow) {
	type bucket struct {
		first, last float64
	}
	type key struct {
		ticker, month string
	}
	buckets := make(map[key]*bucket)
	var monthOrder []string
	monthSeen := make(map[string]bool)

	for _, row := range rows {
		if !row.HasDate() {
			continue
		}
		month := row.Date.Format("2006-01")
		k := key{ticker: row.Ticker, month: month}
		b, ok := buckets[k]
		if !ok {
			b = &bucket{first: row.Close}
			buckets[k] = b
		}
		b.last = row.Close
		if !monthSeen[month] {
			monthSeen[month] = true
			monthOrder = append(monthOrder, month)
		}
	}
	sort.Strings(monthOrder)

	byMonth := make(map[string][]MonthlyRow)
	for k, b := range buckets {
		if b.first == 0 {
			continue
		}
		byMonth[k.month] = append(byMonth[k.month], MonthlyRow{
			Ticker: k.ticker,
			Month:  k.month,
			Return: (b.last - b.first) / b.first,
		})
	}

	for _, month := range monthOrder {
		entries := byMonth[month]
		// Deterministic tie-breaking across map iteration order.
		sort.SliceStable(entries, func(i, j int) bool { return entries[i].Ticker < entries[j].Ticker })

		gainers = append(gainers, rank(entries, 5, true)...)
		losers = append(losers, rank(entries, 5, false)...)
	}
	return gainers, losers
}

// rank sorts one month's entries and assigns ranks 1..min(n, len).
func rank(entries []MonthlyRow, n int, descending bool) []MonthlyRow {
	sorted := make([]MonthlyRow, len(entries))
	copy(sorted, entries)
	sort.SliceStable(sorted, func(i, j int) bool {
		if descending {
			return sorted[i].Return > sorted[j].Return
		}
		return sorted[i].Return < sorted[j].Return
	})
	if len(sorted) > n {
		sorted = sorted[:n]
	}
	for i := range sorted {
		sorted[i].Rank = i + 1
	}
	return sorted
}
