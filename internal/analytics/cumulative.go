package analytics

import (
	"sort"

	"stocklens/pkg/contracts/domain"
)

// CumulativeReturns computes each ticker's compounded return series,
// cum = product(1 + daily_return) - 1, over its date-ordered series. Rows
// with a missing daily return (each ticker's first observation) contribute
// nothing, so every emitted row carries a defined value. The running product
// resets at each ticker boundary.
func CumulativeReturns(rows []domain.CleanRow) []CumulativeRow {
	var (
		results       []CumulativeRow
		currentTicker string
		product       float64
	)
	for _, row := range rows {
		if domain.IsMissing(row.DailyReturn) {
			continue
		}
		if row.Ticker != currentTicker {
			currentTicker = row.Ticker
			product = 1
		}
		product *= 1 + row.DailyReturn
		results = append(results, CumulativeRow{
			Ticker:           row.Ticker,
			Date:             row.Date,
			DailyReturn:      row.DailyReturn,
			CumulativeReturn: product - 1,
		})
	}
	return results
}

// FinalCumulativeReturns extracts the last cumulative value per ticker,
// sorted descending, keeping at most n tickers.
func FinalCumulativeReturns(series []CumulativeRow, n int) []FinalCumulative {
	last := make(map[string]float64)
	var order []string
	for _, row := range series {
		if _, ok := last[row.Ticker]; !ok {
			order = append(order, row.Ticker)
		}
		last[row.Ticker] = row.CumulativeReturn
	}

	finals := make([]FinalCumulative, 0, len(order))
	for _, ticker := range order {
		finals = append(finals, FinalCumulative{Ticker: ticker, Return: last[ticker]})
	}
	sort.SliceStable(finals, func(i, j int) bool { return finals[i].Return > finals[j].Return })
	if len(finals) > n {
		finals = finals[:n]
	}
	return finals
}
