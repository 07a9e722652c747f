package ledger

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/haoranwen0/6.5940-final-project-audio-codec-data-processing/internal/dataset"
)

func TestOpenMissingFile(t *testing.T) {
	s, err := Open(filepath.Join(t.TempDir(), "absent.json"))
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	if s.Len() != 0 {
		t.Errorf("Expected empty store, got %d records", s.Len())
	}
}

func TestOpenCorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ledger.json")
	if err := os.WriteFile(path, []byte("{not json"), 0o644); err != nil {
		t.Fatalf("writing fixture: %v", err)
	}

	if _, err := Open(path); err == nil {
		t.Error("Expected error for corrupt ledger")
	}
}

func TestCommitSaveReload(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ledger.json")

	s, err := Open(path)
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}

	rec := dataset.ProcessedFile{
		FullPath:    "/data/speech/a.wav",
		ProcessedAt: "2024-11-20T10:00:00Z",
		OutputFiles: []string{"speech_0000.wav", "speech_0001.wav"},
	}
	s.Commit("a.wav", rec)

	if err := s.Save(); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	reloaded, err := Open(path)
	if err != nil {
		t.Fatalf("reopening ledger: %v", err)
	}

	got, ok := reloaded.Lookup("a.wav")
	if !ok {
		t.Fatal("record not found after reload")
	}
	if got.FullPath != rec.FullPath {
		t.Errorf("FullPath = %s, want %s", got.FullPath, rec.FullPath)
	}
	if len(got.OutputFiles) != 2 || got.OutputFiles[1] != "speech_0001.wav" {
		t.Errorf("OutputFiles = %v", got.OutputFiles)
	}
}

func TestBasenames(t *testing.T) {
	s, err := Open(filepath.Join(t.TempDir(), "ledger.json"))
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}

	s.Commit("a.wav", dataset.ProcessedFile{FullPath: "/x/a.wav"})
	s.Commit("b.mp3", dataset.ProcessedFile{FullPath: "/x/b.mp3"})

	names := s.Basenames()
	if len(names) != 2 {
		t.Fatalf("Expected 2 basenames, got %d", len(names))
	}
	if _, ok := names["a.wav"]; !ok {
		t.Error("missing a.wav")
	}
	if _, ok := names["b.mp3"]; !ok {
		t.Error("missing b.mp3")
	}
}

func TestOpenLegacyLayout(t *testing.T) {
	// Ledgers written by earlier tooling carry data_directories alongside
	// processed_files; both must survive a load/save cycle.
	path := filepath.Join(t.TempDir(), "data_sources.json")
	legacy := `{
  "data_directories": {
    "speech": ["/data/raw/speech"],
    "music": ["/data/raw/music"]
  },
  "processed_files": {
    "p225_001.wav": {
      "full_path": "/data/raw/speech/p225_001.wav",
      "processed_datetime": "2024-11-19T18:30:12",
      "processed_filenames": ["speech_0000.wav"]
    }
  }
}`
	if err := os.WriteFile(path, []byte(legacy), 0o644); err != nil {
		t.Fatalf("writing fixture: %v", err)
	}

	s, err := Open(path)
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}

	rec, ok := s.Lookup("p225_001.wav")
	if !ok {
		t.Fatal("legacy record not found")
	}
	if rec.ProcessedAt != "2024-11-19T18:30:12" {
		t.Errorf("ProcessedAt = %s", rec.ProcessedAt)
	}

	if err := s.Save(); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	reloaded, err := Open(path)
	if err != nil {
		t.Fatalf("reopening: %v", err)
	}
	if reloaded.Len() != 1 {
		t.Errorf("Len = %d, want 1", reloaded.Len())
	}
}

func TestSaveAtomicReplace(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ledger.json")

	s, _ := Open(path)
	s.Commit("a.wav", dataset.ProcessedFile{FullPath: "/x/a.wav"})
	if err := s.Save(); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	if _, err := os.Stat(path + ".tmp"); !os.IsNotExist(err) {
		t.Error("temp file left behind after Save")
	}
}
