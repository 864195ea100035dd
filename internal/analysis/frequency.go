// Package analysis extracts tempo, melody, bass, lead and rhythm sequences
// from decoded mono audio.
package analysis

import (
	"fmt"
	"math"
	"math/cmplx"

	"gonum.org/v1/gonum/dsp/fourier"

	"github.com/austinkregel/local-media/songdata/internal/types"
)

const (
	// 100ms chunks for spectral and rhythm analysis
	frequencyChunksPerSecond = 10
	// 500ms chunks for tempo estimation
	tempoChunksPerSecond = 2
)

// ChunkSize returns the 100ms chunk length shared by the frequency analyzer
// and the rhythm profiler.
func ChunkSize(sampleRate int) (int, error) {
	return chunkSize(sampleRate, frequencyChunksPerSecond)
}

func chunkSize(sampleRate, perSecond int) (int, error) {
	if sampleRate <= 0 {
		return 0, fmt.Errorf("%w: sample rate %d", ErrInvalidInput, sampleRate)
	}
	size := sampleRate / perSecond
	if size == 0 {
		return 0, fmt.Errorf("%w: sample rate %d gives an empty chunk", ErrInvalidInput, sampleRate)
	}
	return size, nil
}

func validateBuffer(buf *types.SampleBuffer) error {
	if buf == nil {
		return fmt.Errorf("%w: nil sample buffer", ErrInvalidInput)
	}
	if buf.SampleRate <= 0 {
		return fmt.Errorf("%w: sample rate %d", ErrInvalidInput, buf.SampleRate)
	}
	for i, s := range buf.Samples {
		if math.IsNaN(s) || math.IsInf(s, 0) {
			return fmt.Errorf("%w: non-finite sample %g at index %d", ErrInvalidInput, s, i)
		}
	}
	return nil
}

// AnalyzeFrequencies returns the dominant frequency of every full 100ms
// chunk of buf, keeping only values strictly inside the audible range.
// The trailing partial chunk is ignored, so the result may be empty.
func AnalyzeFrequencies(buf *types.SampleBuffer) ([]float64, error) {
	if err := validateBuffer(buf); err != nil {
		return nil, err
	}
	size, err := ChunkSize(buf.SampleRate)
	if err != nil {
		return nil, err
	}

	fft := fourier.NewFFT(size)
	coeffs := make([]complex128, size/2+1)
	frequencies := make([]float64, 0, len(buf.Samples)/size)

	for start := 0; start+size <= len(buf.Samples); start += size {
		coeffs = fft.Coefficients(coeffs, buf.Samples[start:start+size])
		freq := binFrequency(dominantBin(coeffs), size, buf.SampleRate)
		if freq > types.MinFreq && freq < types.MaxFreq {
			frequencies = append(frequencies, freq)
		}
	}

	return frequencies, nil
}

// dominantBin returns the index of the largest magnitude coefficient.
// Ties resolve to the lowest index.
func dominantBin(coeffs []complex128) int {
	best := 0
	bestMag := -1.0
	for i, c := range coeffs {
		if mag := cmplx.Abs(c); mag > bestMag {
			best = i
			bestMag = mag
		}
	}
	return best
}

// binFrequency maps FFT coefficient k of an n-point transform to Hz.
// Indices past the midpoint map to negative frequencies, so for even n the
// Nyquist bin reports -sampleRate/2.
func binFrequency(k, n, sampleRate int) float64 {
	positive := (n-1)/2 + 1
	if k >= positive {
		k -= n
	}
	return float64(k) / float64(n) * float64(sampleRate)
}
