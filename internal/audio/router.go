package audio

import (
	"context"
	"fmt"
	"log"
	"path/filepath"
	"strings"

	"github.com/austinkregel/local-media/songdata/internal/types"
)

// Router picks a decoder by file extension: WAV files are read directly,
// everything else goes through FFmpeg.
type Router struct {
	ffmpeg *FFmpegDecoder
	wav    WAVDecoder
}

// NewRouter creates a decoder router. A missing FFmpeg installation is not
// fatal; only WAV inputs can be decoded in that case.
func NewRouter(opts DecoderOptions) *Router {
	ffmpeg, err := NewFFmpegDecoder(opts)
	if err != nil {
		log.Printf("[DECODE] Warning: %v", err)
		log.Printf("[DECODE] Continuing with WAV-only decoding")
		ffmpeg = nil
	}
	return &Router{ffmpeg: ffmpeg}
}

// Decode decodes path with the decoder matching its extension
func (r *Router) Decode(ctx context.Context, path string) (*types.SampleBuffer, error) {
	if strings.EqualFold(filepath.Ext(path), ".wav") {
		return r.wav.Decode(ctx, path)
	}
	if r.ffmpeg == nil {
		return nil, fmt.Errorf("%w: ffmpeg is required to decode %s", ErrDecodeFailure, filepath.Base(path))
	}
	return r.ffmpeg.Decode(ctx, path)
}

// HasFFmpeg reports whether container formats can be decoded
func (r *Router) HasFFmpeg() bool {
	return r.ffmpeg != nil
}
