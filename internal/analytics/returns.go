package analytics

import (
	"sort"

	"stocklens/pkg/contracts/domain"
)

// YearlyReturns computes (last_close - first_close) / first_close per ticker
// over each ticker's date-sorted series. A single-row ticker returns 0.
// Rows must be sorted by (ticker, date); the engine guarantees that.
func YearlyReturns(rows []domain.CleanRow) []YearlyReturn {
	type span struct {
		first, last float64
	}
	spans := make(map[string]*span)
	var order []string

	for _, row := range rows {
		s, ok := spans[row.Ticker]
		if !ok {
			s = &span{first: row.Close}
			spans[row.Ticker] = s
			order = append(order, row.Ticker)
		}
		s.last = row.Close
	}
	sort.Strings(order)

	results := make([]YearlyReturn, 0, len(order))
	for _, ticker := range order {
		s := spans[ticker]
		ret := domain.Missing()
		if s.first != 0 {
			ret = (s.last - s.first) / s.first
		}
		results = append(results, YearlyReturn{Ticker: ticker, Return: ret})
	}
	return results
}

// TopReturns returns the n highest (descending) or lowest (ascending)
// yearly returns. Tickers with a missing return are excluded; ties keep
// their input order.
func TopReturns(returns []YearlyReturn, n int, descending bool) []YearlyReturn {
	valid := make([]YearlyReturn, 0, len(returns))
	for _, r := range returns {
		if !domain.IsMissing(r.Return) {
			valid = append(valid, r)
		}
	}
	sort.SliceStable(valid, func(i, j int) bool {
		if descending {
			return valid[i].Return > valid[j].Return
		}
		return valid[i].Return < valid[j].Return
	})
	if len(valid) > n {
		valid = valid[:n]
	}
	return valid
}
