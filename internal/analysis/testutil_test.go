package analysis

import (
	"math"
	"testing"

	"github.com/austinkregel/local-media/songdata/internal/types"
)

// sineBuffer generates a mono sine tone
func sineBuffer(freq, amplitude float64, sampleRate int, durationSecs float64) *types.SampleBuffer {
	n := int(durationSecs * float64(sampleRate))
	samples := make([]float64, n)
	for i := range samples {
		t := float64(i) / float64(sampleRate)
		samples[i] = amplitude * math.Sin(2*math.Pi*freq*t)
	}
	return &types.SampleBuffer{Samples: samples, SampleRate: sampleRate}
}

// chunkedBuffer builds a buffer where every chunk holds one constant level
func chunkedBuffer(levels []float64, chunkSize, sampleRate int) *types.SampleBuffer {
	samples := make([]float64, 0, len(levels)*chunkSize)
	for _, level := range levels {
		for i := 0; i < chunkSize; i++ {
			samples = append(samples, level)
		}
	}
	return &types.SampleBuffer{Samples: samples, SampleRate: sampleRate}
}

// withSample overwrites one sample of buf and returns it
func withSample(buf *types.SampleBuffer, i int, v float64) *types.SampleBuffer {
	buf.Samples[i] = v
	return buf
}

// noiseBuffer generates deterministic white noise with a simple LCG
func noiseBuffer(amplitude float64, sampleRate, n int) *types.SampleBuffer {
	state := uint32(12345)
	samples := make([]float64, n)
	for i := range samples {
		state = state*1664525 + 1013904223
		samples[i] = amplitude * ((float64(state)/float64(math.MaxUint32))*2 - 1)
	}
	return &types.SampleBuffer{Samples: samples, SampleRate: sampleRate}
}

func assertBounded(t *testing.T, name string, values []float64, length int, lo, hi float64) {
	t.Helper()
	if len(values) != length {
		t.Errorf("%s: got %d values, want %d", name, len(values), length)
	}
	for i, v := range values {
		if math.IsNaN(v) || math.IsInf(v, 0) || v < lo || v > hi {
			t.Errorf("%s[%d] = %g, want finite value in [%g, %g]", name, i, v, lo, hi)
		}
	}
}
