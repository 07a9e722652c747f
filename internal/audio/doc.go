// Package audio provides the mono PCM sample buffer used throughout the
// dataset pipeline, amplitude and energy operations on it, and encoding
// of segments to 16-bit PCM WAV files.
package audio
