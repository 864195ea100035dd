package analysis

import (
	"errors"
	"math"
	"testing"

	"github.com/austinkregel/local-media/songdata/internal/types"
)

func TestEstimateTempo(t *testing.T) {
	// At 3Hz a tempo chunk is a single sample, so 180 samples span exactly
	// one minute and every loud sample counts as one beat.
	beats := make([]float64, 180)
	for i := 0; i < 84; i++ {
		beats[i*2] = 1.0
	}

	quietWithOneHit := make([]float64, 20)
	quietWithOneHit[0] = 1.0
	for i := 1; i < len(quietWithOneHit); i++ {
		quietWithOneHit[i] = 0.1
	}

	tests := []struct {
		name string
		buf  *types.SampleBuffer
		want int
	}{
		{"84 beats in one minute", chunkedBuffer(beats, 1, 3), 84},
		{"sparse peaks clamp to minimum", chunkedBuffer(quietWithOneHit, 500, 1000), types.MinBPM},
		{"steady tone has no significant peaks", sineBuffer(440, 1.0, 1000, 1.0), types.MinBPM},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := EstimateTempo(tt.buf)
			if err != nil {
				t.Fatalf("EstimateTempo failed: %v", err)
			}
			if got != tt.want {
				t.Errorf("EstimateTempo = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestEstimateTempoAlwaysInRange(t *testing.T) {
	buffers := map[string]*types.SampleBuffer{
		"noise 44.1kHz": noiseBuffer(0.5, 44100, 44100*3),
		"noise 3Hz":     noiseBuffer(1.0, 3, 600),
		"tone 8kHz":     sineBuffer(220, 0.3, 8000, 2.5),
	}

	for name, buf := range buffers {
		t.Run(name, func(t *testing.T) {
			bpm, err := EstimateTempo(buf)
			if err != nil {
				t.Fatalf("EstimateTempo failed: %v", err)
			}
			if bpm < types.MinBPM || bpm > types.MaxBPM {
				t.Errorf("bpm = %d, want value in [%d, %d]", bpm, types.MinBPM, types.MaxBPM)
			}
		})
	}
}

func TestEstimateTempoErrors(t *testing.T) {
	tests := []struct {
		name    string
		buf     *types.SampleBuffer
		wantErr error
	}{
		{"nil buffer", nil, ErrInvalidInput},
		{"zero sample rate", &types.SampleBuffer{Samples: make([]float64, 10)}, ErrInvalidInput},
		{"chunk truncates to zero", &types.SampleBuffer{Samples: make([]float64, 10), SampleRate: 1}, ErrInvalidInput},
		{"shorter than one chunk", sineBuffer(440, 1.0, 1000, 0.3), ErrInvalidInput},
		{"empty buffer", &types.SampleBuffer{SampleRate: 1000}, ErrInvalidInput},
		{"two chunks of silence", chunkedBuffer([]float64{0, 0}, 500, 1000), ErrSilentAudio},
		{"NaN sample", withSample(sineBuffer(440, 1.0, 1000, 1.0), 5, math.NaN()), ErrInvalidInput},
		{"infinite sample", withSample(sineBuffer(440, 1.0, 1000, 1.0), 700, math.Inf(1)), ErrInvalidInput},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := EstimateTempo(tt.buf)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}
