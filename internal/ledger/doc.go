// Package ledger persists the processed-file records that make repeated
// dataset builds incremental. The on-disk format is a single JSON document
// compatible with the historical data_sources.json layout.
package ledger
