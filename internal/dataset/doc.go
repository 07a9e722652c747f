// Package dataset assembles calibration and evaluation splits from
// per-domain candidate file lists. The batcher loads, segments and writes
// one domain's files up to a per-split quota while recording provenance;
// the assembler runs the batcher across all domains and both splits and
// merges the results into the run manifest.
package dataset
