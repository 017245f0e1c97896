package analytics

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"stocklens/pkg/contracts/domain"
)

func TestMarketSummary(t *testing.T) {
	rows := []domain.CleanRow{
		row("AAA", "2023-01-02", 100),
		row("AAA", "2023-01-04", 121),
		row("BBB", "2023-01-02", 50),
		row("BBB", "2023-01-04", 40.5),
		row("CCC", "2023-01-02", 10),
		row("CCC", "2023-01-04", 10),
	}
	for i := range rows {
		rows[i].Volume = 1000
	}

	summary := MarketSummary(rows)
	require.Len(t, summary, 4)

	byMetric := make(map[string]float64, len(summary))
	for _, m := range summary {
		byMetric[m.Metric] = m.Value
	}

	// A flat ticker counts as red: only strictly positive returns are green.
	assert.Equal(t, 1.0, byMetric["green_stocks"])
	assert.Equal(t, 2.0, byMetric["red_stocks"])
	assert.InDelta(t, (100+121+50+40.5+10+10)/6, byMetric["average_price"], 1e-9)
	assert.Equal(t, 1000.0, byMetric["average_volume"])
}

func TestMarketSummaryMissingVolumes(t *testing.T) {
	rows := []domain.CleanRow{
		row("AAA", "2023-01-02", 100),
		row("AAA", "2023-01-03", 110),
	}
	rows[0].Volume = 500
	rows[1].Volume = domain.Missing()

	summary := MarketSummary(rows)
	byMetric := make(map[string]float64, len(summary))
	for _, m := range summary {
		byMetric[m.Metric] = m.Value
	}

	// A missing volume is excluded from the mean, never counted as zero.
	assert.Equal(t, 500.0, byMetric["average_volume"])
}

func TestMarketSummaryEmpty(t *testing.T) {
	summary := MarketSummary(nil)
	require.Len(t, summary, 4)
	byMetric := make(map[string]float64, len(summary))
	for _, m := range summary {
		byMetric[m.Metric] = m.Value
	}
	assert.Equal(t, 0.0, byMetric["green_stocks"])
	assert.Equal(t, 0.0, byMetric["red_stocks"])
	assert.True(t, domain.IsMissing(byMetric["average_price"]))
	assert.True(t, domain.IsMissing(byMetric["average_volume"]))
}
