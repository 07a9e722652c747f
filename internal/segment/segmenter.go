package segment

import (
	"github.com/haoranwen0/6.5940-final-project-audio-codec-data-processing/internal/audio"
)

// DefaultEnergyFloor is the RMS amplitude below which a candidate segment
// is considered near-silent and discarded.
const DefaultEnergyFloor = 0.01

// Segmenter extracts fixed-length segments from sample buffers.
type Segmenter struct {
	targetSamples int
	gapSamples    int
	energyFloor   float64
}

// New creates a segmenter producing segments of targetSamples length with
// gapSamples skipped between consecutive windows. The energy floor defaults
// to DefaultEnergyFloor.
func New(targetSamples, gapSamples int) *Segmenter {
	return &Segmenter{
		targetSamples: targetSamples,
		gapSamples:    gapSamples,
		energyFloor:   DefaultEnergyFloor,
	}
}

// NewWithFloor creates a segmenter with an explicit energy floor.
func NewWithFloor(targetSamples, gapSamples int, energyFloor float64) *Segmenter {
	s := New(targetSamples, gapSamples)
	s.energyFloor = energyFloor
	return s
}

// TargetSamples returns the configured segment length in samples.
func (s *Segmenter) TargetSamples() int {
	return s.targetSamples
}

// Segment slices buf into zero or more segments at buf's sample rate.
//
// A buffer shorter than one segment is emitted whole, unprocessed, if its
// overall RMS clears the energy floor; otherwise nothing is emitted.
//
// Longer buffers are peak-normalized and DC-corrected once, then windows of
// exactly targetSamples are taken at stride targetSamples+gapSamples from
// offset 0 while they fit. Each window is kept only if its own RMS clears
// the floor; a rejected window does not change the stride.
//
// The input buffer is never mutated.
func (s *Segmenter) Segment(buf audio.Buffer) []audio.Buffer {
	if buf.Len() == 0 {
		return nil
	}

	if buf.Len() < s.targetSamples {
		if buf.RMS() >= s.energyFloor {
			return []audio.Buffer{buf.Clone()}
		}
		return nil
	}

	work := buf.Clone()
	work.Normalize()
	work.RemoveDC()

	stride := s.targetSamples + s.gapSamples
	var segments []audio.Buffer

	for pos := 0; pos+s.targetSamples <= work.Len(); pos += stride {
		window := work.Slice(pos, pos+s.targetSamples)
		if window.RMS() >= s.energyFloor {
			segments = append(segments, window.Clone())
		}
	}

	return segments
}

// WindowAttempts returns how many windows Segment will evaluate for a
// buffer of n samples: floor((n-target)/(target+gap)) + 1, or 0 when the
// buffer is shorter than one segment.
func (s *Segmenter) WindowAttempts(n int) int {
	if n < s.targetSamples {
		return 0
	}
	return (n-s.targetSamples)/(s.targetSamples+s.gapSamples) + 1
}
