package analysis

import (
	"errors"
	"math"
	"testing"

	"github.com/austinkregel/local-media/songdata/internal/types"
)

func TestCleanCyclicPadding(t *testing.T) {
	input := []float64{110, 220, 440}

	got, err := Clean(input, types.ToneLength, types.MinFreq, types.MaxFreq)
	if err != nil {
		t.Fatalf("Clean failed: %v", err)
	}
	if len(got) != types.ToneLength {
		t.Fatalf("got %d values, want %d", len(got), types.ToneLength)
	}
	for i, v := range got {
		if want := input[i%len(input)]; v != want {
			t.Errorf("value %d = %g, want %g", i, v, want)
		}
	}
}

func TestCleanTruncates(t *testing.T) {
	input := make([]float64, 40)
	for i := range input {
		input[i] = float64(100 + i)
	}

	got, err := Clean(input, types.ToneLength, types.MinFreq, types.MaxFreq)
	if err != nil {
		t.Fatalf("Clean failed: %v", err)
	}
	if len(got) != types.ToneLength {
		t.Fatalf("got %d values, want %d", len(got), types.ToneLength)
	}
	for i, v := range got {
		if v != input[i] {
			t.Errorf("value %d = %g, want %g", i, v, input[i])
		}
	}
}

func TestCleanClampsAndFilters(t *testing.T) {
	tests := []struct {
		name  string
		input []float64
		want  []float64 // the cycle the output must repeat
	}{
		{
			name:  "clamps below and above",
			input: []float64{5, 30000, 440},
			want:  []float64{20, 20000, 440},
		},
		{
			name:  "drops non-finite",
			input: []float64{math.NaN(), 100, math.Inf(1), math.Inf(-1), 200},
			want:  []float64{100, 200},
		},
		{
			name:  "negative frequencies clamp to floor",
			input: []float64{-440},
			want:  []float64{20},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Clean(tt.input, types.ToneLength, types.MinFreq, types.MaxFreq)
			if err != nil {
				t.Fatalf("Clean failed: %v", err)
			}
			assertBounded(t, "cleaned", got, types.ToneLength, types.MinFreq, types.MaxFreq)
			for i, v := range got {
				if want := tt.want[i%len(tt.want)]; v != want {
					t.Errorf("value %d = %g, want %g", i, v, want)
				}
			}
		})
	}
}

func TestCleanInsufficientData(t *testing.T) {
	inputs := map[string][]float64{
		"nil":            nil,
		"empty":          {},
		"all non-finite": {math.NaN(), math.Inf(1)},
	}

	for name, input := range inputs {
		t.Run(name, func(t *testing.T) {
			_, err := Clean(input, types.ToneLength, types.MinFreq, types.MaxFreq)
			if !errors.Is(err, ErrInsufficientData) {
				t.Errorf("error = %v, want ErrInsufficientData", err)
			}
		})
	}
}

func TestCleanInvalidArguments(t *testing.T) {
	if _, err := Clean([]float64{1}, 0, 0, 1); !errors.Is(err, ErrInvalidInput) {
		t.Errorf("zero target length: error = %v, want ErrInvalidInput", err)
	}
	if _, err := Clean([]float64{1}, 4, 10, 1); !errors.Is(err, ErrInvalidInput) {
		t.Errorf("inverted bounds: error = %v, want ErrInvalidInput", err)
	}
}

func TestCleanDoesNotModifyInput(t *testing.T) {
	input := []float64{5, 440, 30000}
	if _, err := Clean(input, 8, types.MinFreq, types.MaxFreq); err != nil {
		t.Fatalf("Clean failed: %v", err)
	}
	if input[0] != 5 || input[1] != 440 || input[2] != 30000 {
		t.Errorf("input was modified: %v", input)
	}
}
