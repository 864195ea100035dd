// Package playback plays rendered PCM audio through the system output.
package playback

import (
	"bytes"
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/hajimehoshi/oto/v2"
)

const (
	defaultChannels = 1
	defaultBitDepth = 2 // 16-bit = 2 bytes

	pollInterval = 10 * time.Millisecond
)

// OtoOutput is an audio output using the Oto library
type OtoOutput struct {
	context    *oto.Context
	sampleRate int
	mu         sync.Mutex
	volume     float64 // 0.0 - 1.0
}

// NewOtoOutput creates a mono 16-bit Oto output
func NewOtoOutput(sampleRate int) (*OtoOutput, error) {
	ctx, ready, err := oto.NewContext(sampleRate, defaultChannels, defaultBitDepth)
	if err != nil {
		return nil, fmt.Errorf("failed to create oto context: %w", err)
	}

	// Wait for context to be ready
	<-ready

	return &OtoOutput{
		context:    ctx,
		sampleRate: sampleRate,
		volume:     1.0,
	}, nil
}

// Play plays 16-bit little-endian PCM and blocks until it has been heard
// or ctx is cancelled
func (o *OtoOutput) Play(ctx context.Context, pcm []byte) error {
	data := make([]byte, len(pcm))
	copy(data, pcm)

	o.mu.Lock()
	if o.volume < 1.0 {
		o.applyVolume(data)
	}
	o.mu.Unlock()

	player := o.context.NewPlayer(bytes.NewReader(data))
	defer player.Close()

	player.Play()

	ticker := time.NewTicker(pollInterval)
	defer ticker.Stop()
	for player.IsPlaying() {
		select {
		case <-ctx.Done():
			player.Pause()
			return ctx.Err()
		case <-ticker.C:
		}
	}

	if err := player.Err(); err != nil {
		return fmt.Errorf("playback failed: %w", err)
	}
	return nil
}

// applyVolume scales 16-bit PCM samples by the current volume
func (o *OtoOutput) applyVolume(data []byte) {
	vol := o.volume
	if vol >= 1.0 {
		return
	}

	// Process 16-bit samples (2 bytes per sample, little-endian)
	for i := 0; i < len(data)-1; i += 2 {
		sample := int16(data[i]) | int16(data[i+1])<<8
		scaled := int16(float64(sample) * vol)
		data[i] = byte(scaled)
		data[i+1] = byte(scaled >> 8)
	}
}

// SetVolume sets the playback volume (0.0 - 1.0)
func (o *OtoOutput) SetVolume(v float64) {
	o.mu.Lock()
	defer o.mu.Unlock()

	if v < 0 {
		v = 0
	}
	if v > 1 {
		v = 1
	}
	o.volume = v
}

// GetVolume returns the current volume
func (o *OtoOutput) GetVolume() float64 {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.volume
}

// SampleRate returns the sample rate
func (o *OtoOutput) SampleRate() int {
	return o.sampleRate
}
