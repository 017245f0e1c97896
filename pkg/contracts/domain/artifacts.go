package domain

// Artifact identifies one tabular output of the pipeline. The name is the
// stable identifier consumers address artifacts by; the file name and column
// set are the on-disk contract.
type Artifact struct {
	Name     string   `json:"name"`
	FileName string   `json:"file_name"`
	Columns  []string `json:"columns"`
}

// Well-known artifact names.
const (
	ArtifactMaster        = "master"
	ArtifactCleaned       = "cleaned"
	ArtifactYearlyReturns = "yearly_returns"
	ArtifactTopGreen      = "top_10_green"
	ArtifactTopLoss       = "top_10_loss"
	ArtifactVolatility    = "volatility"
	ArtifactTopVolatile   = "top_10_volatile"
	ArtifactCumulative    = "cumulative_full"
	ArtifactTopCumulative = "top_5_cumulative"
	ArtifactSector        = "sector_performance"
	ArtifactCorrelation   = "correlation_matrix"
	ArtifactGainers       = "monthly_top_5_gainers"
	ArtifactLosers        = "monthly_top_5_losers"
	ArtifactMarketSummary = "market_summary"
)

// MasterColumns is the fixed column order of the per-ticker and master tables.
var MasterColumns = []string{"date", "open", "high", "low", "close", "volume", "ticker"}

// CleanedColumns extends MasterColumns with the derived daily return.
var CleanedColumns = []string{"date", "open", "high", "low", "close", "volume", "ticker", "daily_return"}

// Artifacts is the full set of derived outputs, keyed by artifact name.
// The correlation matrix has no fixed column set: its header is the ticker
// universe of the run.
var Artifacts = map[string]Artifact{
	ArtifactMaster:        {ArtifactMaster, "master_dataset.csv", MasterColumns},
	ArtifactCleaned:       {ArtifactCleaned, "master_cleaned.csv", CleanedColumns},
	ArtifactYearlyReturns: {ArtifactYearlyReturns, "yearly_returns.csv", []string{"ticker", "yearly_return"}},
	ArtifactTopGreen:      {ArtifactTopGreen, "top_10_green.csv", []string{"ticker", "yearly_return"}},
	ArtifactTopLoss:       {ArtifactTopLoss, "top_10_loss.csv", []string{"ticker", "yearly_return"}},
	ArtifactVolatility:    {ArtifactVolatility, "volatility.csv", []string{"ticker", "volatility"}},
	ArtifactTopVolatile:   {ArtifactTopVolatile, "top_10_volatile.csv", []string{"ticker", "volatility"}},
	ArtifactCumulative:    {ArtifactCumulative, "cumulative_full.csv", []string{"ticker", "date", "daily_return", "cumulative_return"}},
	ArtifactTopCumulative: {ArtifactTopCumulative, "top_5_cumulative.csv", []string{"ticker", "final_cumulative_return"}},
	ArtifactSector:        {ArtifactSector, "sector_performance.csv", []string{"sector", "average_yearly_return"}},
	ArtifactCorrelation:   {ArtifactCorrelation, "correlation_matrix.csv", nil},
	ArtifactGainers:       {ArtifactGainers, "monthly_top_5_gainers.csv", []string{"ticker", "month", "monthly_return", "rank"}},
	ArtifactLosers:        {ArtifactLosers, "monthly_top_5_losers.csv", []string{"ticker", "month", "monthly_return", "rank"}},
	ArtifactMarketSummary: {ArtifactMarketSummary, "market_summary.csv", []string{"metric", "value"}},
}

// DerivedArtifacts lists the artifacts produced by the derivation engine, in
// the order the dashboard presents them.
var DerivedArtifacts = []string{
	ArtifactYearlyReturns,
	ArtifactTopGreen,
	ArtifactTopLoss,
	ArtifactVolatility,
	ArtifactTopVolatile,
	ArtifactCumulative,
	ArtifactTopCumulative,
	ArtifactSector,
	ArtifactCorrelation,
	ArtifactGainers,
	ArtifactLosers,
	ArtifactMarketSummary,
}
