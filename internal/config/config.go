package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Config represents the complete dataset builder configuration
type Config struct {
	Audio   AudioConfig   `yaml:"audio"`
	Dataset DatasetConfig `yaml:"dataset"`
	Sources SourcesConfig `yaml:"sources"`
	Ledger  LedgerConfig  `yaml:"ledger"`
	HTTP    HTTPConfig    `yaml:"http"`
	Logging LoggingConfig `yaml:"logging"`
}

// AudioConfig contains segmentation parameters
type AudioConfig struct {
	SampleRate      int     `yaml:"sample_rate"`      // Hz, all output is resampled to this rate
	SegmentDuration float64 `yaml:"segment_duration"` // seconds
	GapDuration     float64 `yaml:"gap_duration"`     // seconds between consecutive windows
	EnergyFloor     float64 `yaml:"energy_floor"`     // RMS threshold below which segments are dropped
}

// DatasetConfig contains output layout and per-split quotas
type DatasetConfig struct {
	OutputDir        string   `yaml:"output_dir"`
	CalibrationQuota int      `yaml:"calibration_quota"`
	EvaluationQuota  int      `yaml:"evaluation_quota"`
	Extensions       []string `yaml:"extensions"`
}

// SourcesConfig lists the input directories per domain
type SourcesConfig struct {
	Speech        []string `yaml:"speech"`
	Music         []string `yaml:"music"`
	Environmental []string `yaml:"environmental"`
}

// LedgerConfig locates the persisted processed-file ledger
type LedgerConfig struct {
	Path string `yaml:"path"`
}

// HTTPConfig contains the optional status/metrics server configuration
type HTTPConfig struct {
	Enabled bool   `yaml:"enabled"`
	Address string `yaml:"address"`
	Port    int    `yaml:"port"`
}

// LoggingConfig contains logging configuration
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
	Output string `yaml:"output"`
}

// Default values applied before validation when a field is unset.
const (
	DefaultSampleRate       = 44100
	DefaultSegmentDuration  = 10.0
	DefaultGapDuration      = 2.0
	DefaultEnergyFloor      = 0.01
	DefaultCalibrationQuota = 300
	DefaultEvaluationQuota  = 1000
)

// Load reads and parses the configuration file
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	var config Config
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
	}

	config.ApplyDefaults()

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return &config, nil
}

// ApplyDefaults fills unset fields with their default values
func (c *Config) ApplyDefaults() {
	if c.Audio.SampleRate == 0 {
		c.Audio.SampleRate = DefaultSampleRate
	}
	if c.Audio.SegmentDuration == 0 {
		c.Audio.SegmentDuration = DefaultSegmentDuration
	}
	if c.Audio.GapDuration == 0 {
		c.Audio.GapDuration = DefaultGapDuration
	}
	if c.Audio.EnergyFloor == 0 {
		c.Audio.EnergyFloor = DefaultEnergyFloor
	}
	if c.Dataset.CalibrationQuota == 0 {
		c.Dataset.CalibrationQuota = DefaultCalibrationQuota
	}
	if c.Dataset.EvaluationQuota == 0 {
		c.Dataset.EvaluationQuota = DefaultEvaluationQuota
	}
	if len(c.Dataset.Extensions) == 0 {
		c.Dataset.Extensions = []string{"wav", "mp3", "flac", "mp4"}
	}
	if c.Ledger.Path == "" {
		c.Ledger.Path = "data_sources.json"
	}
	if c.Logging.Level == "" {
		c.Logging.Level = "info"
	}
	if c.Logging.Format == "" {
		c.Logging.Format = "text"
	}
	if c.HTTP.Address == "" {
		c.HTTP.Address = "127.0.0.1"
	}
	if c.HTTP.Port == 0 {
		c.HTTP.Port = 8090
	}
}

// Validate performs comprehensive validation of the configuration
func (c *Config) Validate() error {
	if err := c.Audio.Validate(); err != nil {
		return fmt.Errorf("audio config: %w", err)
	}

	if err := c.Dataset.Validate(); err != nil {
		return fmt.Errorf("dataset config: %w", err)
	}

	if err := c.HTTP.Validate(); err != nil {
		return fmt.Errorf("http config: %w", err)
	}

	if err := c.Logging.Validate(); err != nil {
		return fmt.Errorf("logging config: %w", err)
	}

	return nil
}

// Validate validates audio configuration
func (a *AudioConfig) Validate() error {
	if a.SampleRate < 8000 || a.SampleRate > 192000 {
		return fmt.Errorf("sample_rate must be between 8000 and 192000 Hz, got %d", a.SampleRate)
	}

	if a.SegmentDuration <= 0 {
		return fmt.Errorf("segment_duration must be positive, got %f", a.SegmentDuration)
	}

	if a.GapDuration < 0 {
		return fmt.Errorf("gap_duration cannot be negative, got %f", a.GapDuration)
	}

	if a.EnergyFloor < 0 || a.EnergyFloor >= 1 {
		return fmt.Errorf("energy_floor must be in [0, 1), got %f", a.EnergyFloor)
	}

	return nil
}

// Validate validates dataset configuration
func (d *DatasetConfig) Validate() error {
	if d.OutputDir == "" {
		return fmt.Errorf("output_dir cannot be empty")
	}

	if d.CalibrationQuota < 1 {
		return fmt.Errorf("calibration_quota must be at least 1, got %d", d.CalibrationQuota)
	}

	if d.EvaluationQuota < 1 {
		return fmt.Errorf("evaluation_quota must be at least 1, got %d", d.EvaluationQuota)
	}

	if len(d.Extensions) == 0 {
		return fmt.Errorf("extensions cannot be empty")
	}

	return nil
}

// Validate validates HTTP configuration
func (h *HTTPConfig) Validate() error {
	if h.Enabled {
		if h.Port < 1 || h.Port > 65535 {
			return fmt.Errorf("port must be between 1 and 65535, got %d", h.Port)
		}

		if h.Address == "" {
			return fmt.Errorf("address cannot be empty when HTTP is enabled")
		}
	}

	return nil
}

// Validate validates logging configuration
func (l *LoggingConfig) Validate() error {
	validLevels := map[string]bool{
		"debug": true, "info": true, "warn": true, "error": true,
	}
	if !validLevels[l.Level] {
		return fmt.Errorf("level must be one of [debug, info, warn, error], got '%s'", l.Level)
	}

	validFormats := map[string]bool{"json": true, "text": true}
	if !validFormats[l.Format] {
		return fmt.Errorf("format must be 'json' or 'text', got '%s'", l.Format)
	}

	return nil
}

// TargetSamples returns the segment length in samples
func (a *AudioConfig) TargetSamples() int {
	return int(float64(a.SampleRate) * a.SegmentDuration)
}

// GapSamples returns the inter-window gap length in samples
func (a *AudioConfig) GapSamples() int {
	return int(float64(a.SampleRate) * a.GapDuration)
}

// GetSegmentDuration returns the segment duration as a time.Duration
func (a *AudioConfig) GetSegmentDuration() time.Duration {
	return time.Duration(a.SegmentDuration * float64(time.Second))
}

// GetGapDuration returns the gap duration as a time.Duration
func (a *AudioConfig) GetGapDuration() time.Duration {
	return time.Duration(a.GapDuration * float64(time.Second))
}
