package synth

import (
	"errors"
	"math"
	"testing"
	"time"

	"github.com/austinkregel/local-media/songdata/internal/analysis"
	"github.com/austinkregel/local-media/songdata/internal/types"
)

func constantSong(bpm int, freq, level float64) *types.SongData {
	fill := func(n int, v float64) []float64 {
		s := make([]float64, n)
		for i := range s {
			s[i] = v
		}
		return s
	}
	return &types.SongData{
		BPM:      bpm,
		Melody:   fill(types.ToneLength, freq),
		Bassline: fill(types.ToneLength, freq),
		Rhythm:   fill(types.RhythmLength, level),
		Lead:     fill(types.ToneLength, freq),
	}
}

func TestRenderLength(t *testing.T) {
	tests := []struct {
		name string
		bpm  int
		opts Options
		want int
	}{
		{"120 bpm sixteenths", 120, Options{SampleRate: 8000}, 32 * 1000},
		{"60 bpm sixteenths", 60, Options{SampleRate: 8000}, 32 * 2000},
		{"explicit step length", 120, Options{SampleRate: 8000, Steps: 4, StepLength: 50 * time.Millisecond}, 4 * 400},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Render(constantSong(tt.bpm, 440, 1), tt.opts)
			if err != nil {
				t.Fatalf("Render failed: %v", err)
			}
			if len(got) != tt.want {
				t.Errorf("got %d samples, want %d", len(got), tt.want)
			}
			for i, s := range got {
				if s < -1 || s > 1 || math.IsNaN(s) {
					t.Fatalf("sample %d = %g outside [-1, 1]", i, s)
				}
			}
		})
	}
}

func TestRenderPitch(t *testing.T) {
	samples, err := Render(constantSong(120, 440, 1), Options{SampleRate: 8000})
	if err != nil {
		t.Fatalf("Render failed: %v", err)
	}

	freqs, err := analysis.AnalyzeFrequencies(&types.SampleBuffer{Samples: samples, SampleRate: 8000})
	if err != nil {
		t.Fatalf("AnalyzeFrequencies failed: %v", err)
	}
	if len(freqs) == 0 {
		t.Fatal("no frequencies detected in rendered audio")
	}
	for i, f := range freqs {
		if math.Abs(f-440) > 10 {
			t.Errorf("chunk %d: dominant frequency %.1f Hz, want ~440 Hz", i, f)
		}
	}
}

func TestRenderSilentRhythm(t *testing.T) {
	samples, err := Render(constantSong(100, 440, 0), Options{SampleRate: 8000})
	if err != nil {
		t.Fatalf("Render failed: %v", err)
	}
	for i, s := range samples {
		if s != 0 {
			t.Fatalf("sample %d = %g, want silence", i, s)
		}
	}
}

func TestRenderInvalid(t *testing.T) {
	noMelody := constantSong(120, 440, 1)
	noMelody.Melody = nil
	noRhythm := constantSong(120, 440, 1)
	noRhythm.Rhythm = nil

	tests := []struct {
		name string
		song *types.SongData
		opts Options
	}{
		{"nil song", nil, Options{}},
		{"zero bpm", constantSong(0, 440, 1), Options{}},
		{"empty melody", noMelody, Options{}},
		{"empty rhythm", noRhythm, Options{}},
		{"negative sample rate", constantSong(120, 440, 1), Options{SampleRate: -1}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Render(tt.song, tt.opts); !errors.Is(err, ErrInvalidSong) {
				t.Errorf("error = %v, want ErrInvalidSong", err)
			}
		})
	}
}

func TestToPCM16(t *testing.T) {
	got := ToPCM16([]float64{1, -1, 0, 0.5, 2})
	want := []byte{
		0xFF, 0x7F, // 32767
		0x01, 0x80, // -32767
		0x00, 0x00,
		0x00, 0x40, // 16384
		0xFF, 0x7F, // clipped
	}
	if len(got) != len(want) {
		t.Fatalf("got %d bytes, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("byte %d: expected %02X, got %02X", i, want[i], got[i])
		}
	}
}
