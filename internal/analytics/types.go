package analytics

import "time"

// YearlyReturn is one ticker's fractional change from its first to its last
// available close. The span is the available data, not calendar years.
type YearlyReturn struct {
	Ticker string
	Return float64
}

// VolatilityRow is one ticker's sample standard deviation of daily returns.
// Value is missing for tickers with fewer than two valid returns.
type VolatilityRow struct {
	Ticker     string
	Volatility float64
}

// CumulativeRow is one point of a ticker's compounded return series.
type CumulativeRow struct {
	Ticker           string
	Date             time.Time
	DailyReturn      float64
	CumulativeReturn float64
}

// FinalCumulative is a ticker's last cumulative return value.
type FinalCumulative struct {
	Ticker string
	Return float64
}

// SectorRow is the average yearly return of one sector's mapped tickers.
type SectorRow struct {
	Sector        string
	AverageReturn float64
}

// CorrelationMatrix is the pairwise Pearson correlation of daily returns
// across tickers. Square, symmetric, unit diagonal for every ticker with at
// least two valid return observations.
type CorrelationMatrix struct {
	Tickers []string
	Values  [][]float64
}

// MonthlyRow is one ticker's return within one calendar month, with its
// leaderboard rank (1..N, never padded).
type MonthlyRow struct {
	Ticker string
	Month  string
	Return float64
	Rank   int
}

// SummaryMetric is one market summary key-value pair.
type SummaryMetric struct {
	Metric string
	Value  float64
}
