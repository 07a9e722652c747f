package audio

import (
	"math"
	"time"
)

// Buffer holds mono floating-point PCM samples at a fixed sample rate.
// Sample values are on the [-1.0, 1.0] amplitude scale; the energy floor
// and peak normalization used by the segmenter are defined on that scale.
type Buffer struct {
	Samples    []float64
	SampleRate int
}

// New creates a buffer from samples at the given sample rate.
func New(samples []float64, sampleRate int) Buffer {
	return Buffer{Samples: samples, SampleRate: sampleRate}
}

// Len returns the number of samples in the buffer.
func (b Buffer) Len() int {
	return len(b.Samples)
}

// Duration returns the playback duration of the buffer.
func (b Buffer) Duration() time.Duration {
	if b.SampleRate <= 0 {
		return 0
	}
	return time.Duration(float64(len(b.Samples)) / float64(b.SampleRate) * float64(time.Second))
}

// RMS computes the root mean square amplitude of the buffer.
// An empty buffer has zero energy.
func (b Buffer) RMS() float64 {
	if len(b.Samples) == 0 {
		return 0
	}
	var sum float64
	for _, s := range b.Samples {
		sum += s * s
	}
	return math.Sqrt(sum / float64(len(b.Samples)))
}

// Normalize scales the buffer in place so its peak absolute amplitude is 1.0.
// A silent buffer is left untouched.
func (b Buffer) Normalize() {
	var peak float64
	for _, s := range b.Samples {
		if a := math.Abs(s); a > peak {
			peak = a
		}
	}
	if peak == 0 {
		return
	}
	for i := range b.Samples {
		b.Samples[i] /= peak
	}
}

// RemoveDC subtracts the mean amplitude from every sample, removing any
// constant DC offset introduced by the source recording chain.
func (b Buffer) RemoveDC() {
	if len(b.Samples) == 0 {
		return
	}
	var sum float64
	for _, s := range b.Samples {
		sum += s
	}
	mean := sum / float64(len(b.Samples))
	for i := range b.Samples {
		b.Samples[i] -= mean
	}
}

// Clone returns a deep copy of the buffer.
func (b Buffer) Clone() Buffer {
	out := make([]float64, len(b.Samples))
	copy(out, b.Samples)
	return Buffer{Samples: out, SampleRate: b.SampleRate}
}

// Slice returns a view of the buffer covering [start, end).
// The returned buffer shares backing storage with the original.
func (b Buffer) Slice(start, end int) Buffer {
	return Buffer{Samples: b.Samples[start:end], SampleRate: b.SampleRate}
}

// Downmix averages interleaved multi-channel samples into a mono signal.
// Mono input is returned unchanged.
func Downmix(interleaved []float64, channels int) []float64 {
	if channels <= 1 {
		return interleaved
	}
	frames := len(interleaved) / channels
	mono := make([]float64, frames)
	for i := 0; i < frames; i++ {
		var sum float64
		for ch := 0; ch < channels; ch++ {
			sum += interleaved[i*channels+ch]
		}
		mono[i] = sum / float64(channels)
	}
	return mono
}
