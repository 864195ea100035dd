package analysis

import (
	"fmt"

	"github.com/austinkregel/local-media/songdata/internal/types"
)

// Subsampling strides and octave factors applied to the raw frequency
// sequence for each tonal voice
const (
	melodyStride = 4
	bassStride   = 8
	leadStride   = 16
	melodyScale  = 1.0
	bassScale    = 0.5
	leadScale    = 2.0
)

// Assemble runs the full extraction over buf and builds a SongData record.
// The first failing stage aborts the run; no partial record is returned.
func Assemble(buf *types.SampleBuffer) (*types.SongData, error) {
	frequencies, err := AnalyzeFrequencies(buf)
	if err != nil {
		return nil, fmt.Errorf("frequency analysis: %w", err)
	}
	size, err := ChunkSize(buf.SampleRate)
	if err != nil {
		return nil, err
	}

	bpm, err := EstimateTempo(buf)
	if err != nil {
		return nil, fmt.Errorf("tempo: %w", err)
	}

	melody, err := cleanTone(subsample(frequencies, melodyStride, melodyScale))
	if err != nil {
		return nil, fmt.Errorf("melody: %w", err)
	}
	bassline, err := cleanTone(subsample(frequencies, bassStride, bassScale))
	if err != nil {
		return nil, fmt.Errorf("bassline: %w", err)
	}
	rhythm, err := ProfileRhythm(buf, size)
	if err != nil {
		return nil, fmt.Errorf("rhythm: %w", err)
	}
	lead, err := cleanTone(subsample(frequencies, leadStride, leadScale))
	if err != nil {
		return nil, fmt.Errorf("lead: %w", err)
	}

	return &types.SongData{
		BPM:      bpm,
		Melody:   melody,
		Bassline: bassline,
		Rhythm:   rhythm,
		Lead:     lead,
	}, nil
}

func cleanTone(values []float64) ([]float64, error) {
	return Clean(values, types.ToneLength, types.MinFreq, types.MaxFreq)
}

// subsample takes every stride-th value starting at index 0, multiplied by scale.
func subsample(values []float64, stride int, scale float64) []float64 {
	out := make([]float64, 0, (len(values)+stride-1)/stride)
	for i := 0; i < len(values); i += stride {
		out = append(out, values[i]*scale)
	}
	return out
}
