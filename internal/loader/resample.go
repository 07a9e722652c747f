package loader

// Resample converts samples from one rate to another using linear
// interpolation between adjacent input frames. Matching rates and empty
// input pass through unchanged. Quality is adequate for energy-gated
// dataset preparation; this is not a band-limited resampler.
func Resample(in []float64, fromRate, toRate int) []float64 {
	if fromRate == toRate || len(in) == 0 {
		return in
	}

	ratio := float64(fromRate) / float64(toRate)
	out := make([]float64, 0, int(float64(len(in))/ratio)+1)

	pos := 0.0
	for {
		idx := int(pos)
		if idx >= len(in)-1 {
			break
		}
		frac := pos - float64(idx)
		out = append(out, in[idx]*(1.0-frac)+in[idx+1]*frac)
		pos += ratio
	}

	return out
}
