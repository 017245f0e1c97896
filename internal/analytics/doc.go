// Package analytics derives the analytical artifacts from the cleaned table:
// yearly returns, volatility, cumulative returns, sector performance, the
// correlation matrix, monthly leaderboards and the market summary.
//
// Every derivation is a pure function of the cleaned table (plus, for sector
// performance, an external ticker-to-sector mapping). The sub-computations
// are mutually independent; the engine runs them in parallel over a shared
// read-only view and isolates failures per artifact.
package analytics
