package ledger

import (
	"encoding/json"
	"fmt"
	"os"
	"sync"

	"github.com/haoranwen0/6.5940-final-project-audio-codec-data-processing/internal/dataset"
)

// document is the on-disk ledger layout. DataDirectories is carried along
// untouched for compatibility with hand-maintained source lists.
type document struct {
	DataDirectories map[string][]string              `json:"data_directories"`
	ProcessedFiles  map[string]dataset.ProcessedFile `json:"processed_files"`
}

// FileStore is a flat-file implementation of dataset.Store. Saves go
// through a temp file and rename so a crashed run never truncates the
// ledger.
type FileStore struct {
	path string

	mu  sync.RWMutex
	doc document
}

// Open loads the ledger at path. A missing file yields an empty store;
// any other read or parse failure is an error.
func Open(path string) (*FileStore, error) {
	s := &FileStore{
		path: path,
		doc: document{
			DataDirectories: map[string][]string{},
			ProcessedFiles:  map[string]dataset.ProcessedFile{},
		},
	}

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return s, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read ledger %s: %w", path, err)
	}

	if err := json.Unmarshal(data, &s.doc); err != nil {
		return nil, fmt.Errorf("failed to parse ledger %s: %w", path, err)
	}
	if s.doc.DataDirectories == nil {
		s.doc.DataDirectories = map[string][]string{}
	}
	if s.doc.ProcessedFiles == nil {
		s.doc.ProcessedFiles = map[string]dataset.ProcessedFile{}
	}

	return s, nil
}

// Lookup returns the record for a basename from any prior commit.
func (s *FileStore) Lookup(basename string) (dataset.ProcessedFile, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	rec, ok := s.doc.ProcessedFiles[basename]
	return rec, ok
}

// Commit stages a record for the next Save. Committing an existing
// basename replaces its record.
func (s *FileStore) Commit(basename string, rec dataset.ProcessedFile) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.doc.ProcessedFiles[basename] = rec
}

// Basenames returns the set of all recorded source basenames.
func (s *FileStore) Basenames() map[string]struct{} {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make(map[string]struct{}, len(s.doc.ProcessedFiles))
	for k := range s.doc.ProcessedFiles {
		out[k] = struct{}{}
	}
	return out
}

// Len returns the number of recorded files.
func (s *FileStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.doc.ProcessedFiles)
}

// Save writes the ledger atomically: marshal, write a sibling temp file,
// rename over the original.
func (s *FileStore) Save() error {
	s.mu.RLock()
	b, err := json.MarshalIndent(s.doc, "", "  ")
	s.mu.RUnlock()
	if err != nil {
		return fmt.Errorf("failed to marshal ledger: %w", err)
	}

	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, b, 0o644); err != nil {
		return fmt.Errorf("failed to write ledger temp file: %w", err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		return fmt.Errorf("failed to replace ledger: %w", err)
	}
	return nil
}
