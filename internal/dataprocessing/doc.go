// Package dataprocessing implements the consolidation pipeline: raw
// per-ticker documents are normalized into per-ticker CSVs, merged into one
// master table, and cleaned into the table every derived artifact reads.
//
// The stages are strictly linear. Each stage reads immutable input artifacts
// and writes new output artifacts; nothing is mutated in place.
package dataprocessing
