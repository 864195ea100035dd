package analysis

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"github.com/austinkregel/local-media/songdata/internal/types"
)

// EstimateTempo counts 500ms chunks whose peak amplitude is more than one
// standard deviation above the mean peak and converts that count into beats
// per minute, clamped to [types.MinBPM, types.MaxBPM].
func EstimateTempo(buf *types.SampleBuffer) (int, error) {
	if err := validateBuffer(buf); err != nil {
		return 0, err
	}
	size, err := chunkSize(buf.SampleRate, tempoChunksPerSecond)
	if err != nil {
		return 0, err
	}

	peaks := chunkPeaks(buf.Samples, size)
	if len(peaks) == 0 {
		return 0, fmt.Errorf("%w: %d samples is shorter than one %d-sample tempo chunk",
			ErrInvalidInput, len(buf.Samples), size)
	}
	if floats.Max(peaks) == 0 {
		return 0, fmt.Errorf("%w: no amplitude peaks for tempo estimation", ErrSilentAudio)
	}

	mean, std := stat.PopMeanStdDev(peaks, nil)
	threshold := mean + std

	significant := 0
	for _, p := range peaks {
		if p > threshold {
			significant++
		}
	}

	minutes := buf.Duration() / 60
	if minutes <= 0 {
		return 0, fmt.Errorf("%w: zero duration", ErrInvalidInput)
	}

	raw := math.Trunc(float64(significant) / minutes)
	return int(clamp(raw, types.MinBPM, types.MaxBPM)), nil
}

// chunkPeaks returns the peak absolute amplitude of every full chunk.
func chunkPeaks(samples []float64, size int) []float64 {
	peaks := make([]float64, 0, len(samples)/size)
	for start := 0; start+size <= len(samples); start += size {
		peaks = append(peaks, floats.Norm(samples[start:start+size], math.Inf(1)))
	}
	return peaks
}
