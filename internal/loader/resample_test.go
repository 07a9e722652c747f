package loader

import (
	"math"
	"testing"
)

func TestResampleIdentity(t *testing.T) {
	in := []float64{0.1, 0.2, 0.3}
	out := Resample(in, 44100, 44100)

	if len(out) != 3 {
		t.Fatalf("Expected 3 samples, got %d", len(out))
	}
	for i := range in {
		if out[i] != in[i] {
			t.Errorf("sample %d = %v, want %v", i, out[i], in[i])
		}
	}
}

func TestResampleEmpty(t *testing.T) {
	if out := Resample(nil, 44100, 22050); len(out) != 0 {
		t.Errorf("Expected empty output, got %d samples", len(out))
	}
}

func TestResampleDownsampleHalf(t *testing.T) {
	in := make([]float64, 1000)
	for i := range in {
		in[i] = float64(i) / 1000.0
	}

	out := Resample(in, 44100, 22050)

	// Half the rate gives roughly half the samples
	if len(out) < 498 || len(out) > 501 {
		t.Fatalf("Expected ~500 samples, got %d", len(out))
	}

	// A linear ramp survives linear interpolation exactly
	for i, s := range out {
		want := float64(i*2) / 1000.0
		if math.Abs(s-want) > 1e-9 {
			t.Fatalf("sample %d = %v, want %v", i, s, want)
		}
	}
}

func TestResampleUpsampleDouble(t *testing.T) {
	in := []float64{0.0, 1.0}
	out := Resample(in, 8000, 16000)

	if len(out) != 2 {
		t.Fatalf("Expected 2 samples, got %d", len(out))
	}
	if out[0] != 0.0 {
		t.Errorf("sample 0 = %v, want 0", out[0])
	}
	if math.Abs(out[1]-0.5) > 1e-9 {
		t.Errorf("sample 1 = %v, want 0.5 (midpoint)", out[1])
	}
}

func TestResamplePreservesAmplitude(t *testing.T) {
	in := make([]float64, 4410)
	for i := range in {
		in[i] = 0.5 * math.Sin(2*math.Pi*100*float64(i)/44100)
	}

	out := Resample(in, 44100, 16000)

	var peak float64
	for _, s := range out {
		if a := math.Abs(s); a > peak {
			peak = a
		}
	}
	if peak < 0.45 || peak > 0.55 {
		t.Errorf("peak after resample = %v, want ~0.5", peak)
	}
}
