package loader

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"
)

// loadVideo extracts the audio track of a video container via ffmpeg into a
// temporary mono WAV at the target rate, then decodes that file. A container
// without an audio track maps to Result{NoAudio: true} rather than an error.
func (l *Loader) loadVideo(ctx context.Context, path string) (Result, error) {
	tmpDir := l.tempDir
	if tmpDir == "" {
		tmpDir = os.TempDir()
	}
	tmp, err := os.CreateTemp(tmpDir, "extract-*.wav")
	if err != nil {
		return Result{}, fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpPath := tmp.Name()
	tmp.Close()
	defer os.Remove(tmpPath)

	// ffmpeg -y -i input -vn -ac 1 -ar rate -f wav output
	cmd := exec.CommandContext(ctx, l.ffmpegPath,
		"-y", "-i", path,
		"-vn",
		"-ac", "1",
		"-ar", strconv.Itoa(l.targetRate),
		"-f", "wav",
		tmpPath,
	)

	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		if noAudioStream(stderr.String()) {
			l.logger.Info("No audio stream", slog.String("path", path))
			return Result{NoAudio: true}, nil
		}
		return Result{}, fmt.Errorf("ffmpeg failed for %s: %w: %s",
			path, err, lastLine(stderr.String()))
	}

	res, err := l.loadWAV(tmpPath)
	if err != nil {
		return Result{}, fmt.Errorf("failed to decode extracted audio from %s: %w", path, err)
	}
	return res, nil
}

// noAudioStream reports whether ffmpeg's stderr indicates the input had no
// audio track, as opposed to a genuine decode failure.
func noAudioStream(stderr string) bool {
	return strings.Contains(stderr, "does not contain any stream") ||
		strings.Contains(stderr, "Stream map 'a' matches no streams")
}

func lastLine(s string) string {
	lines := strings.Split(strings.TrimSpace(s), "\n")
	if len(lines) == 0 {
		return ""
	}
	return strings.TrimSpace(lines[len(lines)-1])
}

// FFmpegAvailable reports whether the ffmpeg binary can be found. Callers
// that only process audio-native containers do not need it.
func (l *Loader) FFmpegAvailable() bool {
	_, err := exec.LookPath(l.ffmpegPath)
	return err == nil
}

// SetTempDir overrides the directory used for extracted audio scratch files.
func (l *Loader) SetTempDir(dir string) {
	l.tempDir = filepath.Clean(dir)
}
