package segment

import (
	"math"
	"testing"

	"github.com/haoranwen0/6.5940-final-project-audio-codec-data-processing/internal/audio"
)

func sineBuffer(freq, amplitude float64, sampleRate int, n int) audio.Buffer {
	samples := make([]float64, n)
	for i := range samples {
		t := float64(i) / float64(sampleRate)
		samples[i] = amplitude * math.Sin(2*math.Pi*freq*t)
	}
	return audio.New(samples, sampleRate)
}

func TestShortClipKept(t *testing.T) {
	// 5 seconds at 44.1kHz against a 10 second target: whole clip emitted
	// as a single short segment, no windowing or normalization applied.
	sr := 44100
	buf := sineBuffer(440, 0.0708, sr, 5*sr) // RMS ~0.05

	s := New(10*sr, 2*sr)
	segments := s.Segment(buf)

	if len(segments) != 1 {
		t.Fatalf("Expected 1 segment, got %d", len(segments))
	}
	if segments[0].Len() != 220500 {
		t.Errorf("Segment length = %d, want 220500", segments[0].Len())
	}
	if segments[0].SampleRate != sr {
		t.Errorf("SampleRate = %d, want %d", segments[0].SampleRate, sr)
	}

	// Short clips bypass normalization: amplitude must be unchanged
	var peak float64
	for _, v := range segments[0].Samples {
		if a := math.Abs(v); a > peak {
			peak = a
		}
	}
	if peak > 0.1 {
		t.Errorf("short clip was normalized: peak = %v", peak)
	}
}

func TestShortClipRejectedLowEnergy(t *testing.T) {
	sr := 8000
	buf := sineBuffer(440, 0.005, sr, sr) // RMS ~0.0035 < 0.01

	s := New(10*sr, 2*sr)
	if segments := s.Segment(buf); len(segments) != 0 {
		t.Errorf("Expected no segments, got %d", len(segments))
	}
}

func TestEmptyBuffer(t *testing.T) {
	s := New(1000, 100)
	if segments := s.Segment(audio.New(nil, 8000)); segments != nil {
		t.Errorf("Expected nil for empty buffer, got %v", segments)
	}
}

func TestWindowPositions(t *testing.T) {
	// 25s at 44.1kHz, 10s target, 2s gap: windows fit at 0 and 529200,
	// a third start at 1058400 would overrun 1102500 samples.
	sr := 44100
	buf := sineBuffer(440, 0.5, sr, 25*sr)

	s := New(10*sr, 2*sr)

	if got := s.WindowAttempts(buf.Len()); got != 2 {
		t.Fatalf("WindowAttempts = %d, want 2", got)
	}

	segments := s.Segment(buf)
	if len(segments) != 2 {
		t.Fatalf("Expected 2 segments, got %d", len(segments))
	}
	for i, seg := range segments {
		if seg.Len() != 441000 {
			t.Errorf("segment %d length = %d, want 441000", i, seg.Len())
		}
	}
}

func TestWindowAttempts(t *testing.T) {
	s := New(1000, 200)

	tests := []struct {
		n    int
		want int
	}{
		{0, 0},
		{999, 0},
		{1000, 1},
		{2199, 1},
		{2200, 2},
		{3400, 3},
	}

	for _, tt := range tests {
		if got := s.WindowAttempts(tt.n); got != tt.want {
			t.Errorf("WindowAttempts(%d) = %d, want %d", tt.n, got, tt.want)
		}
	}
}

func TestLowEnergyWindowSkippedWithoutAffectingStride(t *testing.T) {
	// Three windows at stride target+gap; the middle one is silent.
	sr := 8000
	target := sr     // 1s
	gap := sr / 4    // 0.25s
	stride := target + gap

	samples := make([]float64, 2*stride+target)
	writeTone := func(offset int) {
		for i := 0; i < target; i++ {
			t := float64(i) / float64(sr)
			samples[offset+i] = 0.5 * math.Sin(2*math.Pi*440*t)
		}
	}
	writeTone(0)
	// window at stride left silent
	writeTone(2 * stride)

	s := New(target, gap)
	buf := audio.New(samples, sr)

	if got := s.WindowAttempts(buf.Len()); got != 3 {
		t.Fatalf("WindowAttempts = %d, want 3", got)
	}

	segments := s.Segment(buf)
	if len(segments) != 2 {
		t.Fatalf("Expected 2 segments (middle window silent), got %d", len(segments))
	}
}

func TestNormalizationAndDCRemovalApplied(t *testing.T) {
	sr := 8000
	target := sr
	// Quiet sine riding on a DC offset, long enough for one window.
	buf := sineBuffer(440, 0.1, sr, target)
	for i := range buf.Samples {
		buf.Samples[i] += 0.05
	}

	s := New(target, sr/4)
	segments := s.Segment(buf)
	if len(segments) != 1 {
		t.Fatalf("Expected 1 segment, got %d", len(segments))
	}

	seg := segments[0]

	// Normalization scales the 0.15 input peak well up; DC removal then
	// shifts the waveform so the surviving peak is ~0.67.
	var peak float64
	var sum float64
	for _, v := range seg.Samples {
		if a := math.Abs(v); a > peak {
			peak = a
		}
		sum += v
	}
	if peak < 0.5 {
		t.Errorf("peak after normalization = %v, want well above input peak 0.15", peak)
	}

	// Mean should be near zero after DC removal
	mean := sum / float64(seg.Len())
	if math.Abs(mean) > 0.01 {
		t.Errorf("mean after DC removal = %v, want ~0", mean)
	}
}

func TestInputBufferNotMutated(t *testing.T) {
	sr := 8000
	buf := sineBuffer(440, 0.1, sr, 3*sr)
	orig := buf.Clone()

	s := New(sr, sr/4)
	s.Segment(buf)

	for i := range orig.Samples {
		if buf.Samples[i] != orig.Samples[i] {
			t.Fatal("Segment mutated its input buffer")
		}
	}
}

func TestConstantSignalRejectedAfterDCRemoval(t *testing.T) {
	// A pure DC signal has all its energy in the offset; after DC removal
	// every window is silent and nothing survives the floor.
	sr := 8000
	samples := make([]float64, 3*sr)
	for i := range samples {
		samples[i] = 0.5
	}

	s := New(sr, sr/4)
	if segments := s.Segment(audio.New(samples, sr)); len(segments) != 0 {
		t.Errorf("Expected no segments from pure DC signal, got %d", len(segments))
	}
}

func TestCustomEnergyFloor(t *testing.T) {
	sr := 8000
	buf := sineBuffer(440, 0.005, sr, sr/2) // short clip, RMS ~0.0035

	strict := New(10*sr, 0)
	if got := strict.Segment(buf); len(got) != 0 {
		t.Errorf("default floor: expected rejection, got %d segments", len(got))
	}

	lenient := NewWithFloor(10*sr, 0, 0.001)
	if got := lenient.Segment(buf); len(got) != 1 {
		t.Errorf("lenient floor: expected 1 segment, got %d", len(got))
	}
}
