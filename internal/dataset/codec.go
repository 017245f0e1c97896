package dataset

import (
	"sort"
	"strconv"
	"strings"
	"time"

	"stocklens/pkg/contracts/domain"
)

// dateLayouts are tried in order when coercing a date cell.
var dateLayouts = []string{
	"2006-01-02",
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05Z07:00",
	"2006/01/02",
	"02-01-2006",
	"01/02/2006",
}

// ParseFloat coerces a cell to a float. Empty or unparseable cells become
// the missing marker, never an error.
func ParseFloat(s string) float64 {
	s = strings.TrimSpace(s)
	if s == "" {
		return domain.Missing()
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return domain.Missing()
	}
	return v
}

// FormatFloat renders a float cell. The missing marker renders as an empty cell.
func FormatFloat(v float64) string {
	if domain.IsMissing(v) {
		return ""
	}
	return strconv.FormatFloat(v, 'g', -1, 64)
}

// ParseDate coerces a date cell. Unparseable dates become the zero time.
func ParseDate(s string) time.Time {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t
		}
	}
	return time.Time{}
}

// FormatDate renders a date cell as 2006-01-02, or empty for a missing date.
func FormatDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format("2006-01-02")
}

// PriceRecord renders a row in the fixed master column order.
func PriceRecord(r domain.PriceRow) []string {
	return []string{
		FormatDate(r.Date),
		FormatFloat(r.Open),
		FormatFloat(r.High),
		FormatFloat(r.Low),
		FormatFloat(r.Close),
		FormatFloat(r.Volume),
		r.Ticker,
	}
}

// CleanRecord renders a cleaned row in the fixed cleaned column order.
func CleanRecord(r domain.CleanRow) []string {
	return append(PriceRecord(r.PriceRow), FormatFloat(r.DailyReturn))
}

// RowKey builds a full-row equality key. Two rows are duplicates exactly when
// every serialized field matches.
func RowKey(r domain.PriceRow) string {
	return strings.Join(PriceRecord(r), "\x1f")
}

// SortByTickerDate stable-sorts rows by (ticker, date ascending). Rows with a
// missing date sort after dated rows of the same ticker; rows with equal sort
// keys keep their relative input order.
func SortByTickerDate(rows []domain.PriceRow) {
	sort.SliceStable(rows, func(i, j int) bool {
		if rows[i].Ticker != rows[j].Ticker {
			return rows[i].Ticker < rows[j].Ticker
		}
		return dateLess(rows[i].Date, rows[j].Date)
	})
}

// SortByDate stable-sorts one ticker's rows by date ascending, missing dates last.
func SortByDate(rows []domain.PriceRow) {
	sort.SliceStable(rows, func(i, j int) bool {
		return dateLess(rows[i].Date, rows[j].Date)
	})
}

func dateLess(a, b time.Time) bool {
	switch {
	case a.IsZero():
		return false
	case b.IsZero():
		return true
	default:
		return a.Before(b)
	}
}
