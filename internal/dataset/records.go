package dataset

import "fmt"

// Split identifies one of the two target datasets.
type Split string

const (
	SplitCalibration Split = "calibration"
	SplitEvaluation  Split = "evaluation"
)

// Domains in processing order.
const (
	DomainSpeech        = "speech"
	DomainMusic         = "music"
	DomainEnvironmental = "environmental"
)

// ProcessedFile records what a single source file produced during a run.
// It is keyed by the source file's basename, created once per file per run
// and never mutated afterwards. The JSON field names match the on-disk
// ledger layout so existing ledgers keep working.
type ProcessedFile struct {
	FullPath    string   `json:"full_path"`
	ProcessedAt string   `json:"processed_datetime"`
	OutputFiles []string `json:"processed_filenames"`
}

// Manifest maps "{domain}_{split}" bucket keys to the ordered list of
// output file paths written into that bucket during the current run.
type Manifest map[string][]string

// BucketKey returns the manifest key for a (domain, split) pair.
func BucketKey(domain string, split Split) string {
	return fmt.Sprintf("%s_%s", domain, split)
}

// Store is the persisted processed-file ledger as seen by the assembler.
// Lookup and Basenames describe prior runs; Commit stages this run's
// records for persistence by the caller.
type Store interface {
	Lookup(basename string) (ProcessedFile, bool)
	Commit(basename string, rec ProcessedFile)
	Basenames() map[string]struct{}
}

// Sources carries the candidate file lists per domain, grouped by the
// caller; domain membership is never inferred from content.
type Sources struct {
	Speech        []string
	Music         []string
	Environmental []string
}
