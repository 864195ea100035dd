// Package synth renders song data as a short audible sketch so an
// extraction can be checked by ear.
package synth

import (
	"encoding/binary"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/austinkregel/local-media/songdata/internal/types"
)

// ErrInvalidSong is returned when a record cannot be rendered
var ErrInvalidSong = errors.New("invalid song data")

// Voice mix weights; they sum to 1 so the output stays within [-1, 1]
const (
	melodyWeight = 0.5
	bassWeight   = 0.3
	leadWeight   = 0.2

	stepsPerBeat = 4
	maxFade      = 5 * time.Millisecond
)

// Options controls rendering
type Options struct {
	SampleRate int           // output rate (default 44100)
	Steps      int           // number of steps (default types.ToneLength)
	StepLength time.Duration // per-step length; 0 derives a sixteenth note from the BPM
}

// Render plays the song one step at a time: step i sounds melody, bassline
// and lead value i together, scaled by rhythm value i. Sequences wrap
// independently, so the 24-step rhythm drifts against the 32-step voices.
func Render(song *types.SongData, opts Options) ([]float64, error) {
	if err := validate(song); err != nil {
		return nil, err
	}
	if opts.SampleRate == 0 {
		opts.SampleRate = 44100
	}
	if opts.SampleRate < 0 {
		return nil, fmt.Errorf("%w: sample rate %d", ErrInvalidSong, opts.SampleRate)
	}
	if opts.Steps <= 0 {
		opts.Steps = types.ToneLength
	}

	stepSecs := opts.StepLength.Seconds()
	if stepSecs <= 0 {
		stepSecs = 60.0 / float64(song.BPM) / stepsPerBeat
	}
	stepSamples := int(stepSecs * float64(opts.SampleRate))
	if stepSamples == 0 {
		return nil, fmt.Errorf("%w: step shorter than one sample", ErrInvalidSong)
	}

	fade := int(maxFade.Seconds() * float64(opts.SampleRate))
	if fade > stepSamples/4 {
		fade = stepSamples / 4
	}

	nyquist := float64(opts.SampleRate) / 2
	var phases [3]float64
	out := make([]float64, 0, opts.Steps*stepSamples)

	for step := 0; step < opts.Steps; step++ {
		freqs := [3]float64{
			song.Melody[step%len(song.Melody)],
			song.Bassline[step%len(song.Bassline)],
			song.Lead[step%len(song.Lead)],
		}
		weights := [3]float64{melodyWeight, bassWeight, leadWeight}
		level := song.Rhythm[step%len(song.Rhythm)]

		for n := 0; n < stepSamples; n++ {
			var sample float64
			for v := range freqs {
				if freqs[v] <= 0 || freqs[v] >= nyquist {
					continue
				}
				sample += weights[v] * math.Sin(phases[v])
				phases[v] += 2 * math.Pi * freqs[v] / float64(opts.SampleRate)
				if phases[v] > 2*math.Pi {
					phases[v] -= 2 * math.Pi
				}
			}
			out = append(out, sample*level*envelope(n, stepSamples, fade))
		}
	}

	return out, nil
}

// envelope is a linear fade in and out over fade samples at each step edge
func envelope(n, length, fade int) float64 {
	if fade <= 0 {
		return 1
	}
	if n < fade {
		return float64(n) / float64(fade)
	}
	if tail := length - 1 - n; tail < fade {
		return float64(tail) / float64(fade)
	}
	return 1
}

func validate(song *types.SongData) error {
	switch {
	case song == nil:
		return fmt.Errorf("%w: nil song", ErrInvalidSong)
	case song.BPM <= 0:
		return fmt.Errorf("%w: bpm %d", ErrInvalidSong, song.BPM)
	case len(song.Melody) == 0, len(song.Bassline) == 0, len(song.Lead) == 0:
		return fmt.Errorf("%w: empty tone sequence", ErrInvalidSong)
	case len(song.Rhythm) == 0:
		return fmt.Errorf("%w: empty rhythm", ErrInvalidSong)
	}
	return nil
}

// ToPCM16 converts samples in [-1, 1] to 16-bit little-endian PCM
func ToPCM16(samples []float64) []byte {
	buf := make([]byte, len(samples)*2)
	for i, s := range samples {
		s = math.Max(-1, math.Min(1, s))
		binary.LittleEndian.PutUint16(buf[i*2:], uint16(int16(math.Round(s*math.MaxInt16))))
	}
	return buf
}
