package analytics

import (
	"math"
	"sort"
	"time"

	"stocklens/pkg/contracts/domain"
)

// Correlation pivots the cleaned table to a (date x ticker) view of daily
// returns and computes the pairwise Pearson correlation across tickers,
// using only the dates where both series have a value (pairwise-complete
// observations; no aligned trading calendar is required). The result is
// square and symmetric with a unit diagonal for every ticker having at
// least two valid return observations.
func Correlation(rows []domain.CleanRow) CorrelationMatrix {
	type cell struct {
		sum   float64
		count int
	}
	pivot := make(map[string]map[time.Time]*cell)
	for _, row := range rows {
		if domain.IsMissing(row.DailyReturn) || !row.HasDate() {
			continue
		}
		byDate, ok := pivot[row.Ticker]
		if !ok {
			byDate = make(map[time.Time]*cell)
			pivot[row.Ticker] = byDate
		}
		c, ok := byDate[row.Date]
		if !ok {
			c = &cell{}
			byDate[row.Date] = c
		}
		// Duplicate (ticker, date) observations average, matching a
		// mean-aggregated pivot.
		c.sum += row.DailyReturn
		c.count++
	}

	tickers := make([]string, 0, len(pivot))
	for ticker := range pivot {
		tickers = append(tickers, ticker)
	}
	sort.Strings(tickers)

	series := make([]map[time.Time]float64, len(tickers))
	for i, ticker := range tickers {
		s := make(map[time.Time]float64, len(pivot[ticker]))
		for date, c := range pivot[ticker] {
			s[date] = c.sum / float64(c.count)
		}
		series[i] = s
	}

	values := make([][]float64, len(tickers))
	for i := range values {
		values[i] = make([]float64, len(tickers))
	}
	for i := range tickers {
		if len(series[i]) >= 2 {
			values[i][i] = 1.0
		} else {
			values[i][i] = domain.Missing()
		}
		for j := i + 1; j < len(tickers); j++ {
			r := pearson(series[i], series[j])
			values[i][j] = r
			values[j][i] = r
		}
	}

	return CorrelationMatrix{Tickers: tickers, Values: values}
}

// pearson computes the correlation of two sparse series over their common
// dates. Missing when fewer than two common points exist or either side has
// zero variance.
func pearson(a, b map[time.Time]float64) float64 {
	var xs, ys []float64
	for date, x := range a {
		if y, ok := b[date]; ok {
			xs = append(xs, x)
			ys = append(ys, y)
		}
	}
	n := len(xs)
	if n < 2 {
		return domain.Missing()
	}

	var sumX, sumY float64
	for i := 0; i < n; i++ {
		sumX += xs[i]
		sumY += ys[i]
	}
	meanX, meanY := sumX/float64(n), sumY/float64(n)

	var cov, varX, varY float64
	for i := 0; i < n; i++ {
		dx, dy := xs[i]-meanX, ys[i]-meanY
		cov += dx * dy
		varX += dx * dx
		varY += dy * dy
	}
	if varX == 0 || varY == 0 {
		return domain.Missing()
	}
	return cov / math.Sqrt(varX*varY)
}
