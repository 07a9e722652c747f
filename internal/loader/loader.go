package loader

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	gaudio "github.com/go-audio/audio"
	"github.com/go-audio/wav"
	"github.com/hajimehoshi/go-mp3"
	"github.com/mewkiz/flac"

	"github.com/haoranwen0/6.5940-final-project-audio-codec-data-processing/internal/audio"
)

// Result is the outcome of loading one source file. Exactly one of the two
// cases holds: NoAudio is true for video containers without an audio track,
// otherwise Buffer carries the decoded mono samples at the target rate.
// Decode failures are reported as errors, never as a Result.
type Result struct {
	Buffer  audio.Buffer
	NoAudio bool
}

// videoExts are containers routed through ffmpeg audio extraction.
var videoExts = map[string]bool{
	".mp4":  true,
	".m4a":  true,
	".mov":  true,
	".mkv":  true,
	".webm": true,
}

// Loader decodes source files into mono buffers at a fixed sample rate.
type Loader struct {
	targetRate int
	ffmpegPath string
	tempDir    string
	logger     *slog.Logger
}

// New creates a loader that resamples everything to targetRate.
func New(targetRate int, logger *slog.Logger) *Loader {
	if logger == nil {
		logger = slog.Default()
	}
	return &Loader{
		targetRate: targetRate,
		ffmpegPath: "ffmpeg",
		logger:     logger,
	}
}

// TargetRate returns the sample rate all loaded audio is converted to.
func (l *Loader) TargetRate() int {
	return l.targetRate
}

// Load decodes the file at path into a mono buffer at the target rate.
// Video containers without an audio track yield Result{NoAudio: true}.
func (l *Loader) Load(ctx context.Context, path string) (Result, error) {
	ext := strings.ToLower(filepath.Ext(path))

	switch {
	case videoExts[ext]:
		return l.loadVideo(ctx, path)
	case ext == ".wav":
		return l.loadWAV(path)
	case ext == ".mp3":
		return l.loadMP3(path)
	case ext == ".flac":
		return l.loadFLAC(path)
	default:
		return Result{}, fmt.Errorf("unsupported container %q for %s", ext, path)
	}
}

// loadWAV decodes a WAV file of any common bit depth and channel count.
func (l *Loader) loadWAV(path string) (Result, error) {
	f, err := os.Open(path)
	if err != nil {
		return Result{}, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer f.Close()

	dec := wav.NewDecoder(f)
	if !dec.IsValidFile() {
		return Result{}, fmt.Errorf("%s is not a valid WAV file", path)
	}

	buf, err := dec.FullPCMBuffer()
	if err != nil {
		return Result{}, fmt.Errorf("failed to decode %s: %w", path, err)
	}

	bitDepth := int(dec.BitDepth)
	if bitDepth == 0 {
		bitDepth = 16
	}

	mono := audio.Downmix(pcmToFloat(buf, bitDepth), buf.Format.NumChannels)
	samples := Resample(mono, buf.Format.SampleRate, l.targetRate)

	return Result{Buffer: audio.New(samples, l.targetRate)}, nil
}

// pcmToFloat converts interleaved integer PCM to the [-1.0, 1.0] scale.
func pcmToFloat(buf *gaudio.IntBuffer, bitDepth int) []float64 {
	scale := float64(int64(1) << (bitDepth - 1))
	out := make([]float64, len(buf.Data))
	for i, s := range buf.Data {
		out[i] = float64(s) / scale
	}
	return out
}

// loadMP3 decodes an MP3 file. The decoder always emits interleaved
// stereo 16-bit little-endian PCM at the stream's native rate.
func (l *Loader) loadMP3(path string) (Result, error) {
	f, err := os.Open(path)
	if err != nil {
		return Result{}, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer f.Close()

	dec, err := mp3.NewDecoder(f)
	if err != nil {
		return Result{}, fmt.Errorf("failed to decode %s: %w", path, err)
	}

	raw, err := io.ReadAll(dec)
	if err != nil {
		return Result{}, fmt.Errorf("failed to read %s: %w", path, err)
	}

	// 4 bytes per frame: left int16 + right int16
	frames := len(raw) / 4
	mono := make([]float64, frames)
	for i := 0; i < frames; i++ {
		left := int16(uint16(raw[i*4]) | uint16(raw[i*4+1])<<8)
		right := int16(uint16(raw[i*4+2]) | uint16(raw[i*4+3])<<8)
		mono[i] = (float64(left) + float64(right)) / 2 / 32768.0
	}

	samples := Resample(mono, dec.SampleRate(), l.targetRate)
	return Result{Buffer: audio.New(samples, l.targetRate)}, nil
}

// loadFLAC decodes a FLAC file frame by frame.
func (l *Loader) loadFLAC(path string) (Result, error) {
	f, err := os.Open(path)
	if err != nil {
		return Result{}, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer f.Close()

	stream, err := flac.New(f)
	if err != nil {
		return Result{}, fmt.Errorf("failed to decode %s: %w", path, err)
	}

	info := stream.Info
	channels := int(info.NChannels)
	scale := float64(int64(1) << (info.BitsPerSample - 1))

	mono := make([]float64, 0, int(info.NSamples))
	for {
		frame, err := stream.ParseNext()
		if err == io.EOF {
			break
		}
		if err != nil {
			return Result{}, fmt.Errorf("failed to parse frame in %s: %w", path, err)
		}

		n := int(frame.BlockSize)
		for i := 0; i < n; i++ {
			var sum float64
			for ch := 0; ch < channels; ch++ {
				sum += float64(frame.Subframes[ch].Samples[i])
			}
			mono = append(mono, sum/float64(channels)/scale)
		}
	}

	samples := Resample(mono, int(info.SampleRate), l.targetRate)
	return Result{Buffer: audio.New(samples, l.targetRate)}, nil
}
