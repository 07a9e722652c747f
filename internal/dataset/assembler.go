package dataset

import (
	"context"
	"log/slog"
	"time"
)

// Assembler orchestrates the batcher across all domains and both splits
// and owns the aggregate run manifest.
type Assembler struct {
	batcher *Batcher
	store   Store
	logger  *slog.Logger

	// passStart marks the beginning of the current split pass.
	passStart time.Time
}

// NewAssembler creates an assembler. store may be nil when the caller
// handles ledger merging itself.
func NewAssembler(b *Batcher, store Store, logger *slog.Logger) *Assembler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Assembler{batcher: b, store: store, logger: logger}
}

// BuildSplits runs the full pipeline: the calibration pass over speech,
// music and environmental in that order, then the evaluation pass over the
// same domains. Per-pass accumulation state is reset at each boundary, so
// calibration and evaluation quotas are independent per domain. The run's
// processed-file map is shared across both passes; a source file consumed
// by calibration is not revisited by evaluation.
func (a *Assembler) BuildSplits(ctx context.Context, src Sources, outputRoot string) (Manifest, error) {
	manifest := make(Manifest)

	domains := []struct {
		name  string
		files []string
	}{
		{DomainSpeech, src.Speech},
		{DomainMusic, src.Music},
		{DomainEnvironmental, src.Environmental},
	}

	for _, split := range []Split{SplitCalibration, SplitEvaluation} {
		a.resetPass(split)

		for _, d := range domains {
			files, err := a.batcher.ProcessDomain(ctx, d.files, outputRoot, d.name, split)
			if err != nil {
				return nil, err
			}
			manifest[BucketKey(d.name, split)] = files
		}
	}

	if a.store != nil {
		for base, rec := range a.batcher.ProcessedFiles() {
			a.store.Commit(base, rec)
		}
	}

	return manifest, nil
}

// resetPass resets per-pass accumulation state at the split boundary.
func (a *Assembler) resetPass(split Split) {
	a.passStart = time.Now()
	a.logger.Info("Starting split pass", slog.String("split", string(split)))
}

// Stats exposes the underlying batcher's progress snapshot.
func (a *Assembler) Stats() Stats {
	return a.batcher.GetStats()
}
