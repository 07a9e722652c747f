package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("writing config: %v", err)
	}
	return path
}

const validConfig = `
audio:
  sample_rate: 44100
  segment_duration: 10.0
  gap_duration: 2.0
dataset:
  output_dir: /tmp/processed
  calibration_quota: 300
  evaluation_quota: 1000
  extensions: [wav, mp3, flac, mp4]
sources:
  speech: [/data/speech]
  music: [/data/music]
  environmental: [/data/env]
ledger:
  path: /tmp/data_sources.json
logging:
  level: info
  format: text
  output: stdout
`

func TestLoadValidConfig(t *testing.T) {
	cfg, err := Load(writeConfig(t, validConfig))
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.Audio.SampleRate != 44100 {
		t.Errorf("SampleRate = %d, want 44100", cfg.Audio.SampleRate)
	}
	if cfg.Dataset.CalibrationQuota != 300 {
		t.Errorf("CalibrationQuota = %d, want 300", cfg.Dataset.CalibrationQuota)
	}
	if len(cfg.Sources.Speech) != 1 || cfg.Sources.Speech[0] != "/data/speech" {
		t.Errorf("Sources.Speech = %v", cfg.Sources.Speech)
	}
	if cfg.Audio.EnergyFloor != DefaultEnergyFloor {
		t.Errorf("EnergyFloor default = %f, want %f", cfg.Audio.EnergyFloor, DefaultEnergyFloor)
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load("/nonexistent/config.yaml"); err == nil {
		t.Error("Expected error for missing config file")
	}
}

func TestLoadInvalidYAML(t *testing.T) {
	if _, err := Load(writeConfig(t, "audio: [not: valid")); err == nil {
		t.Error("Expected error for invalid YAML")
	}
}

func TestDefaults(t *testing.T) {
	cfg, err := Load(writeConfig(t, "dataset:\n  output_dir: /tmp/out\n"))
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.Audio.SampleRate != DefaultSampleRate {
		t.Errorf("SampleRate = %d, want default %d", cfg.Audio.SampleRate, DefaultSampleRate)
	}
	if cfg.Audio.SegmentDuration != DefaultSegmentDuration {
		t.Errorf("SegmentDuration = %f, want default %f", cfg.Audio.SegmentDuration, DefaultSegmentDuration)
	}
	if cfg.Audio.GapDuration != DefaultGapDuration {
		t.Errorf("GapDuration = %f, want default %f", cfg.Audio.GapDuration, DefaultGapDuration)
	}
	if cfg.Dataset.CalibrationQuota != DefaultCalibrationQuota {
		t.Errorf("CalibrationQuota = %d, want default %d", cfg.Dataset.CalibrationQuota, DefaultCalibrationQuota)
	}
	if cfg.Dataset.EvaluationQuota != DefaultEvaluationQuota {
		t.Errorf("EvaluationQuota = %d, want default %d", cfg.Dataset.EvaluationQuota, DefaultEvaluationQuota)
	}
	if cfg.Ledger.Path != "data_sources.json" {
		t.Errorf("Ledger.Path = %s, want data_sources.json", cfg.Ledger.Path)
	}
	if len(cfg.Dataset.Extensions) != 4 {
		t.Errorf("Extensions = %v, want 4 defaults", cfg.Dataset.Extensions)
	}
}

func TestValidationErrors(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{
			"bad sample rate",
			func(c *Config) { c.Audio.SampleRate = 4000 },
			"sample_rate",
		},
		{
			"negative segment duration",
			func(c *Config) { c.Audio.SegmentDuration = -1 },
			"segment_duration",
		},
		{
			"negative gap",
			func(c *Config) { c.Audio.GapDuration = -0.5 },
			"gap_duration",
		},
		{
			"energy floor out of range",
			func(c *Config) { c.Audio.EnergyFloor = 1.5 },
			"energy_floor",
		},
		{
			"empty output dir",
			func(c *Config) { c.Dataset.OutputDir = "" },
			"output_dir",
		},
		{
			"zero calibration quota",
			func(c *Config) { c.Dataset.CalibrationQuota = -1 },
			"calibration_quota",
		},
		{
			"zero evaluation quota",
			func(c *Config) { c.Dataset.EvaluationQuota = -5 },
			"evaluation_quota",
		},
		{
			"no extensions",
			func(c *Config) { c.Dataset.Extensions = nil },
			"extensions",
		},
		{
			"bad http port",
			func(c *Config) { c.HTTP.Enabled = true; c.HTTP.Port = 99999 },
			"port",
		},
		{
			"bad log level",
			func(c *Config) { c.Logging.Level = "verbose" },
			"level",
		},
		{
			"bad log format",
			func(c *Config) { c.Logging.Format = "xml" },
			"format",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := Load(writeConfig(t, validConfig))
			if err != nil {
				t.Fatalf("Load failed: %v", err)
			}

			tt.mutate(cfg)
			err = cfg.Validate()
			if err == nil {
				t.Fatal("Expected validation error")
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("error %q does not mention %q", err, tt.wantErr)
			}
		})
	}
}

func TestDerivedSampleCounts(t *testing.T) {
	a := AudioConfig{SampleRate: 44100, SegmentDuration: 10.0, GapDuration: 2.0}

	if got := a.TargetSamples(); got != 441000 {
		t.Errorf("TargetSamples() = %d, want 441000", got)
	}
	if got := a.GapSamples(); got != 88200 {
		t.Errorf("GapSamples() = %d, want 88200", got)
	}
}
