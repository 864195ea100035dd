package analysis

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"

	"github.com/austinkregel/local-media/songdata/internal/types"
)

// ProfileRhythm returns the per-chunk peak amplitude envelope of buf,
// normalized by the buffer's global peak and cycled to types.RhythmLength
// values. chunkSize should come from ChunkSize so the envelope lines up
// with the frequency analysis.
func ProfileRhythm(buf *types.SampleBuffer, chunkSize int) ([]float64, error) {
	if err := validateBuffer(buf); err != nil {
		return nil, err
	}
	if chunkSize <= 0 {
		return nil, fmt.Errorf("%w: chunk size %d", ErrInvalidInput, chunkSize)
	}
	if len(buf.Samples) == 0 {
		return nil, fmt.Errorf("%w: empty sample buffer", ErrInvalidInput)
	}

	global := floats.Norm(buf.Samples, math.Inf(1))
	if global == 0 {
		return nil, fmt.Errorf("%w: global peak amplitude is zero", ErrSilentAudio)
	}

	peaks := chunkPeaks(buf.Samples, chunkSize)
	pattern := make([]float64, len(peaks))
	for i, p := range peaks {
		pattern[i] = clamp(p/global, types.MinIntensity, types.MaxIntensity)
	}

	return cycle(pattern, types.RhythmLength)
}
