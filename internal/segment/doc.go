// Package segment slices loaded sample buffers into fixed-length,
// energy-qualified segments. Long buffers are peak-normalized, DC-corrected
// and walked with a gapped sliding window; buffers shorter than one segment
// fall back to a single whole-clip segment when they carry enough energy.
package segment
