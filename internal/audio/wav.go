package audio

import (
	"context"
	"fmt"
	"math"
	"os"

	goaudio "github.com/go-audio/audio"
	"github.com/go-audio/wav"

	"github.com/austinkregel/local-media/songdata/internal/types"
)

// WAV audio format tags
const (
	wavFormatPCM        = 1
	wavFormatExtensible = 0xFFFE
)

// WAVDecoder reads integer PCM WAV files without FFmpeg
type WAVDecoder struct{}

// Decode reads path as a WAV file and downmixes it to mono
func (WAVDecoder) Decode(ctx context.Context, path string) (*types.SampleBuffer, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDecodeFailure, err)
	}
	defer file.Close()

	decoder := wav.NewDecoder(file)
	if !decoder.IsValidFile() {
		return nil, fmt.Errorf("%w: %s is not a valid WAV file", ErrDecodeFailure, path)
	}
	if !isIntegerPCM(decoder.WavAudioFormat, decoder.BitDepth) {
		return nil, fmt.Errorf("%w: %s uses unsupported WAV format %#x (%d-bit)",
			ErrDecodeFailure, path, decoder.WavAudioFormat, decoder.BitDepth)
	}

	buf, err := decoder.FullPCMBuffer()
	if err != nil {
		return nil, fmt.Errorf("%w: could not read PCM buffer: %v", ErrDecodeFailure, err)
	}

	samples := intBufferToMono(buf, int(decoder.BitDepth))
	if len(samples) == 0 {
		return nil, fmt.Errorf("%w: no audio in %s", ErrDecodeFailure, path)
	}

	return &types.SampleBuffer{Samples: samples, SampleRate: buf.Format.SampleRate}, nil
}

// isIntegerPCM reports whether a format tag and bit depth describe integer
// samples. The extensible sub-format GUID is not read, so 32-bit extensible
// data (usually float) is refused.
func isIntegerPCM(format, bitDepth uint16) bool {
	switch format {
	case wavFormatPCM:
		return true
	case wavFormatExtensible:
		return bitDepth == 8 || bitDepth == 16 || bitDepth == 24
	}
	return false
}

// intBufferToMono normalizes integer PCM to [-1, 1] and averages channels
func intBufferToMono(buf *goaudio.IntBuffer, bitDepth int) []float64 {
	if buf == nil || buf.Format == nil || len(buf.Data) == 0 {
		return nil
	}
	channels := buf.Format.NumChannels
	if channels <= 0 {
		channels = 1
	}
	if bitDepth <= 0 {
		bitDepth = buf.SourceBitDepth
	}
	if bitDepth <= 0 {
		bitDepth = 16
	}

	fullScale := math.Exp2(float64(bitDepth - 1))
	offset := 0.0
	if bitDepth == 8 {
		// 8-bit WAV samples are unsigned
		offset = 128
	}

	numFrames := len(buf.Data) / channels
	samples := make([]float64, numFrames)
	for i := 0; i < numFrames; i++ {
		var sum float64
		for ch := 0; ch < channels; ch++ {
			sum += (float64(buf.Data[i*channels+ch]) - offset) / fullScale
		}
		samples[i] = sum / float64(channels)
	}
	return samples
}

// WriteWAV writes mono samples in [-1, 1] as a 16-bit PCM WAV file
func WriteWAV(path string, samples []float64, sampleRate int) error {
	if sampleRate <= 0 {
		return fmt.Errorf("invalid sample rate %d", sampleRate)
	}

	out, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}

	data := make([]int, len(samples))
	for i, s := range samples {
		s = math.Max(-1, math.Min(1, s))
		data[i] = int(math.Round(s * math.MaxInt16))
	}

	buf := &goaudio.IntBuffer{
		Format:         &goaudio.Format{NumChannels: 1, SampleRate: sampleRate},
		Data:           data,
		SourceBitDepth: 16,
	}

	encoder := wav.NewEncoder(out, sampleRate, 16, 1, wavFormatPCM)
	if err := encoder.Write(buf); err != nil {
		out.Close()
		return fmt.Errorf("failed to write WAV data: %w", err)
	}
	if err := encoder.Close(); err != nil {
		out.Close()
		return fmt.Errorf("failed to finalize WAV file: %w", err)
	}
	return out.Close()
}
