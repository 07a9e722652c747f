package dataset

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/vbauerster/mpb/v8"
	"github.com/vbauerster/mpb/v8/decor"

	"github.com/haoranwen0/6.5940-final-project-audio-codec-data-processing/internal/audio"
	"github.com/haoranwen0/6.5940-final-project-audio-codec-data-processing/internal/loader"
	"github.com/haoranwen0/6.5940-final-project-audio-codec-data-processing/internal/metrics"
	"github.com/haoranwen0/6.5940-final-project-audio-codec-data-processing/internal/segment"
)

// Config contains batcher quotas and presentation options.
type Config struct {
	CalibrationQuota int
	EvaluationQuota  int
	Progress         bool // render a progress bar per (domain, split) pass
}

// Stats is a snapshot of batcher progress for monitoring.
type Stats struct {
	FilesProcessed  int            `json:"files_processed"`
	FilesSkipped    int            `json:"files_skipped"`
	FilesFailed     int            `json:"files_failed"`
	SegmentsWritten int            `json:"segments_written"`
	Buckets         map[string]int `json:"buckets"`
}

// Batcher processes one domain's candidate files at a time, writing
// energy-qualified segments to disk up to the split's quota and recording
// per-file provenance. A single batcher instance covers a whole run; its
// processed-file map accumulates across every (domain, split) pass so a
// source file is consumed at most once per run.
type Batcher struct {
	loader    *loader.Loader
	segmenter *segment.Segmenter
	cfg       Config
	previous  map[string]struct{}
	logger    *slog.Logger
	metrics   *metrics.Metrics

	mu        sync.RWMutex
	processed map[string]ProcessedFile
	stats     Stats
}

// NewBatcher creates a batcher. previous holds basenames recorded by prior
// runs; files matching it are skipped without side effects. metrics may be
// nil.
func NewBatcher(l *loader.Loader, s *segment.Segmenter, cfg Config,
	previous map[string]struct{}, m *metrics.Metrics, logger *slog.Logger) *Batcher {

	if logger == nil {
		logger = slog.Default()
	}
	if previous == nil {
		previous = map[string]struct{}{}
	}
	return &Batcher{
		loader:    l,
		segmenter: s,
		cfg:       cfg,
		previous:  previous,
		logger:    logger,
		metrics:   m,
		processed: make(map[string]ProcessedFile),
		stats:     Stats{Buckets: make(map[string]int)},
	}
}

// quota returns the output target for a split.
func (b *Batcher) quota(split Split) int {
	if split == SplitCalibration {
		return b.cfg.CalibrationQuota
	}
	return b.cfg.EvaluationQuota
}

// ProcessDomain runs one (domain, split) pass over files in input order and
// returns the paths written into that bucket. The only error it returns is
// a failure to create the bucket directory; per-file failures are logged
// and skipped.
func (b *Batcher) ProcessDomain(ctx context.Context, files []string,
	outputRoot, domain string, split Split) ([]string, error) {

	quota := b.quota(split)
	outDir := filepath.Join(outputRoot, string(split), domain)
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create output directory %s: %w", outDir, err)
	}

	var progress *mpb.Progress
	var bar *mpb.Bar
	if b.cfg.Progress {
		progress = mpb.New(mpb.WithWidth(64))
		bar = progress.New(int64(len(files)),
			mpb.BarStyle(),
			mpb.PrependDecorators(
				decor.Name(fmt.Sprintf("%s/%s ", domain, split)),
				decor.CountersNoUnit("%d / %d"),
			),
			mpb.AppendDecorators(decor.Percentage()),
		)
	}

	written := make([]string, 0, quota)
	count := 0

	for _, path := range files {
		if bar != nil {
			bar.Increment()
		}

		base := filepath.Base(path)

		// Resumption across runs: skip with no side effects.
		if _, ok := b.previous[base]; ok {
			b.markSkipped()
			continue
		}

		if count >= quota {
			break
		}

		// Defends against duplicate basenames in the input list and
		// against reuse across passes within this run.
		if b.hasRecord(base) {
			continue
		}

		outputs, outPaths, err := b.processFile(ctx, path, outDir, domain, count, quota)
		written = append(written, outPaths...)
		count += len(outPaths)

		if err != nil {
			// The failing file gets no record so a future run can retry it.
			b.logger.Error("Error processing file",
				slog.String("path", path),
				slog.String("error", err.Error()),
			)
			b.markFailed()
			continue
		}

		b.record(base, ProcessedFile{
			FullPath:    path,
			ProcessedAt: time.Now().Format(time.RFC3339),
			OutputFiles: outputs,
		}, domain, split, len(outPaths))
	}

	if bar != nil {
		bar.SetTotal(-1, true)
		progress.Wait()
	}

	b.logger.Info("Domain pass complete",
		slog.String("domain", domain),
		slog.String("split", string(split)),
		slog.Int("written", count),
		slog.Int("quota", quota),
	)

	return written, nil
}

// processFile loads and segments one source file and writes its segments
// until the bucket quota is met. It returns the output basenames and full
// paths written. On error the returned slices cover what was written before
// the failure, so bucket numbering stays contiguous.
func (b *Batcher) processFile(ctx context.Context, path, outDir, domain string,
	count, quota int) (outputs []string, outPaths []string, err error) {

	res, err := b.loader.Load(ctx, path)
	if err != nil {
		if b.metrics != nil {
			b.metrics.DecodeErrors.Inc()
		}
		return nil, nil, err
	}

	if res.NoAudio {
		return nil, nil, nil
	}

	segments := b.segmenter.Segment(res.Buffer)
	if len(segments) == 0 {
		if res.Buffer.Len() < b.segmenter.TargetSamples() {
			b.logger.Info("Skipping short clip with insufficient energy",
				slog.String("path", path))
			if b.metrics != nil {
				b.metrics.ShortClipsRejected.Inc()
			}
		}
		return nil, nil, nil
	}

	if b.metrics != nil {
		attempts := b.segmenter.WindowAttempts(res.Buffer.Len())
		if rejected := attempts - len(segments); rejected > 0 {
			b.metrics.SegmentsRejected.Add(float64(rejected))
		}
	}

	for _, seg := range segments {
		if count+len(outPaths) >= quota {
			break
		}

		name := fmt.Sprintf("%s_%04d.wav", domain, count+len(outPaths))
		outPath := filepath.Join(outDir, name)

		if werr := audio.WriteWAV(outPath, seg.Samples, seg.SampleRate); werr != nil {
			return outputs, outPaths, werr
		}

		outputs = append(outputs, name)
		outPaths = append(outPaths, outPath)
	}

	return outputs, outPaths, nil
}

// hasRecord reports whether a record for base exists in the current run.
func (b *Batcher) hasRecord(base string) bool {
	b.mu.RLock()
	defer b.mu.RUnlock()
	_, ok := b.processed[base]
	return ok
}

// record stores the file's provenance and updates run statistics.
func (b *Batcher) record(base string, rec ProcessedFile, domain string, split Split, wrote int) {
	bucket := BucketKey(domain, split)

	b.mu.Lock()
	b.processed[base] = rec
	b.stats.FilesProcessed++
	b.stats.SegmentsWritten += wrote
	b.stats.Buckets[bucket] += wrote
	total := b.stats.Buckets[bucket]
	b.mu.Unlock()

	if b.metrics != nil {
		b.metrics.FilesProcessed.Inc()
		b.metrics.SegmentsWritten.Add(float64(wrote))
		b.metrics.BucketFiles.WithLabelValues(domain, string(split)).Set(float64(total))
	}
}

func (b *Batcher) markSkipped() {
	b.mu.Lock()
	b.stats.FilesSkipped++
	b.mu.Unlock()

	if b.metrics != nil {
		b.metrics.FilesSkipped.Inc()
	}
}

func (b *Batcher) markFailed() {
	b.mu.Lock()
	b.stats.FilesFailed++
	b.mu.Unlock()
}

// ProcessedFiles returns a copy of the run's processed-file records for
// merging into the persistent ledger.
func (b *Batcher) ProcessedFiles() map[string]ProcessedFile {
	b.mu.RLock()
	defer b.mu.RUnlock()

	out := make(map[string]ProcessedFile, len(b.processed))
	for k, v := range b.processed {
		out[k] = v
	}
	return out
}

// GetStats returns a snapshot of batcher progress.
func (b *Batcher) GetStats() Stats {
	b.mu.RLock()
	defer b.mu.RUnlock()

	buckets := make(map[string]int, len(b.stats.Buckets))
	for k, v := range b.stats.Buckets {
		buckets[k] = v
	}
	s := b.stats
	s.Buckets = buckets
	return s
}
