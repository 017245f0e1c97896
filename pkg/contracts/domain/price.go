package domain

import (
	"math"
	"time"
)

// PriceRow is one normalized OHLCV observation for one ticker on one date.
// Missing numeric values are represented as NaN and a missing date as the
// zero time; both serialize to empty CSV cells.
type PriceRow struct {
	Date   time.Time `json:"date"`
	Open   float64   `json:"open"`
	High   float64   `json:"high"`
	Low    float64   `json:"low"`
	Close  float64   `json:"close"`
	Volume float64   `json:"volume"`
	Ticker string    `json:"ticker"`
}

// Missing is the marker for an absent numeric value.
func Missing() float64 { return math.NaN() }

// IsMissing reports whether v is the missing-value marker.
func IsMissing(v float64) bool { return math.IsNaN(v) }

// HasDate reports whether the row carries a parseable date.
func (r PriceRow) HasDate() bool { return !r.Date.IsZero() }

// HasPrices reports whether at least one of the four price fields is present.
// A row with all four prices missing carries no usable signal.
func (r PriceRow) HasPrices() bool {
	return !IsMissing(r.Open) || !IsMissing(r.High) || !IsMissing(r.Low) || !IsMissing(r.Close)
}

// CleanRow is a PriceRow after cleaning, with the derived daily return.
// DailyReturn is missing exactly where the ticker has no valid prior close.
type CleanRow struct {
	PriceRow
	DailyReturn float64 `json:"daily_return"`
}
