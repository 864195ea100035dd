package analysis

import (
	"fmt"
	"math"
)

// Clean drops non-finite values, clamps the rest into [lo, hi] and pads or
// truncates the result to exactly targetLen values. Short sequences are
// extended by cycling from their start.
func Clean(values []float64, targetLen int, lo, hi float64) ([]float64, error) {
	if targetLen <= 0 {
		return nil, fmt.Errorf("%w: target length %d", ErrInvalidInput, targetLen)
	}
	if lo > hi {
		return nil, fmt.Errorf("%w: bounds [%g, %g]", ErrInvalidInput, lo, hi)
	}

	cleaned := make([]float64, 0, len(values))
	for _, v := range values {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			continue
		}
		cleaned = append(cleaned, clamp(v, lo, hi))
	}

	return cycle(cleaned, targetLen)
}

// cycle repeats seq from its start until it holds n values, or keeps its
// first n values when it is already long enough.
func cycle(seq []float64, n int) ([]float64, error) {
	if len(seq) == 0 {
		return nil, fmt.Errorf("%w: nothing to pad from", ErrInsufficientData)
	}
	out := make([]float64, n)
	for i := range out {
		out[i] = seq[i%len(seq)]
	}
	return out, nil
}

func clamp(v, lo, hi float64) float64 {
	return math.Min(math.Max(v, lo), hi)
}
