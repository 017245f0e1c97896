package analytics

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"stocklens/pkg/contracts/domain"
)

func TestCorrelation(t *testing.T) {
	// AAA and BBB move together, CCC moves opposite to both.
	rows := []domain.CleanRow{
		rowWithReturn("AAA", "2023-01-03", 0, 0.10),
		rowWithReturn("AAA", "2023-01-04", 0, -0.05),
		rowWithReturn("AAA", "2023-01-05", 0, 0.02),
		rowWithReturn("BBB", "2023-01-03", 0, 0.20),
		rowWithReturn("BBB", "2023-01-04", 0, -0.10),
		rowWithReturn("BBB", "2023-01-05", 0, 0.04),
		rowWithReturn("CCC", "2023-01-03", 0, -0.10),
		rowWithReturn("CCC", "2023-01-04", 0, 0.05),
		rowWithReturn("CCC", "2023-01-05", 0, -0.02),
	}

	matrix := Correlation(rows)
	require.Equal(t, []string{"AAA", "BBB", "CCC"}, matrix.Tickers)
	require.Len(t, matrix.Values, 3)

	for i := range matrix.Tickers {
		assert.Equal(t, 1.0, matrix.Values[i][i])
		for j := range matrix.Tickers {
			assert.Equal(t, matrix.Values[i][j], matrix.Values[j][i], "matrix must be symmetric")
		}
	}

	assert.InDelta(t, 1.0, matrix.Values[0][1], 1e-9)
	assert.InDelta(t, -1.0, matrix.Values[0][2], 1e-9)
}

func TestCorrelationPairwiseCompleteDates(t *testing.T) {
	// BBB is missing 2023-01-05; only the two common dates correlate.
	rows := []domain.CleanRow{
		rowWithReturn("AAA", "2023-01-03", 0, 0.10),
		rowWithReturn("AAA", "2023-01-04", 0, -0.05),
		rowWithReturn("AAA", "2023-01-05", 0, 0.02),
		rowWithReturn("BBB", "2023-01-03", 0, 0.10),
		rowWithReturn("BBB", "2023-01-04", 0, -0.05),
	}

	matrix := Correlation(rows)
	require.Equal(t, []string{"AAA", "BBB"}, matrix.Tickers)
	assert.InDelta(t, 1.0, matrix.Values[0][1], 1e-9)
}

func TestCorrelationUndefinedCases(t *testing.T) {
	rows := []domain.CleanRow{
		// Single observation: diagonal undefined.
		rowWithReturn("AAA", "2023-01-03", 0, 0.10),
		// Zero variance: off-diagonal undefined.
		rowWithReturn("BBB", "2023-01-03", 0, 0.05),
		rowWithReturn("BBB", "2023-01-04", 0, 0.05),
		rowWithReturn("CCC", "2023-01-03", 0, 0.10),
		rowWithReturn("CCC", "2023-01-04", 0, -0.10),
	}

	matrix := Correlation(rows)
	require.Equal(t, []string{"AAA", "BBB", "CCC"}, matrix.Tickers)

	assert.True(t, domain.IsMissing(matrix.Values[0][0]))
	assert.Equal(t, 1.0, matrix.Values[1][1])
	assert.True(t, domain.IsMissing(matrix.Values[0][2]), "one common date is not enough")
	assert.True(t, domain.IsMissing(matrix.Values[1][2]), "flat series has no defined correlation")
}
