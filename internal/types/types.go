// Package types provides shared type definitions used across songdata.
package types

// Sequence lengths and bounds of the song data artifact
const (
	ToneLength = 32
	MinFreq    = 20.0
	MaxFreq    = 20000.0

	RhythmLength = 24
	MinIntensity = 0.0
	MaxIntensity = 1.0

	MinBPM = 60
	MaxBPM = 180
)

// SampleBuffer is decoded mono audio
type SampleBuffer struct {
	Samples    []float64 // mono, already downmixed
	SampleRate int       // samples per second
}

// Duration returns the buffer length in seconds (0 for an invalid sample rate)
func (b *SampleBuffer) Duration() float64 {
	if b == nil || b.SampleRate <= 0 {
		return 0
	}
	return float64(len(b.Samples)) / float64(b.SampleRate)
}

// SongData is the extracted musical representation written to disk.
// Field order matches the artifact key order.
type SongData struct {
	BPM      int       `json:"bpm"`
	Melody   []float64 `json:"melody"`
	Bassline []float64 `json:"bassline"`
	Rhythm   []float64 `json:"rhythm"`
	Lead     []float64 `json:"lead"`
}
