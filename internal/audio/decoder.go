// Package audio decodes the audio track of media files into mono sample buffers.
package audio

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"os/exec"
	"strconv"
	"strings"
	"time"

	"github.com/austinkregel/local-media/songdata/internal/types"
)

// ErrDecodeFailure is returned when no sample buffer could be produced
var ErrDecodeFailure = errors.New("decode failure")

// DecoderOptions configures the FFmpeg decoder
type DecoderOptions struct {
	FFmpegPath  string        // executable name or path (default "ffmpeg")
	FFprobePath string        // executable name or path (default "ffprobe")
	SampleRate  int           // resample to this rate; 0 keeps the native rate
	MaxDuration time.Duration // decode at most this much audio; 0 = unlimited
	LowPriority bool          // run ffmpeg under nice -n 19 when available
}

// StreamInfo describes the first audio stream of a media file
type StreamInfo struct {
	Codec      string
	SampleRate int
	Channels   int
	Duration   time.Duration
}

// FFmpegDecoder uses FFmpeg for audio decoding
type FFmpegDecoder struct {
	ffmpegPath  string
	ffprobePath string
	nicePath    string
	sampleRate  int
	maxDuration time.Duration
}

// NewFFmpegDecoder creates a new FFmpeg-based decoder
func NewFFmpegDecoder(opts DecoderOptions) (*FFmpegDecoder, error) {
	ffmpegName := opts.FFmpegPath
	if ffmpegName == "" {
		ffmpegName = "ffmpeg"
	}
	ffprobeName := opts.FFprobePath
	if ffprobeName == "" {
		ffprobeName = "ffprobe"
	}

	ffmpegPath, err := exec.LookPath(ffmpegName)
	if err != nil {
		return nil, fmt.Errorf("ffmpeg not found: %w", err)
	}
	ffprobePath, err := exec.LookPath(ffprobeName)
	if err != nil {
		return nil, fmt.Errorf("ffprobe not found: %w", err)
	}

	d := &FFmpegDecoder{
		ffmpegPath:  ffmpegPath,
		ffprobePath: ffprobePath,
		sampleRate:  opts.SampleRate,
		maxDuration: opts.MaxDuration,
	}
	if opts.LowPriority {
		d.nicePath, _ = exec.LookPath("nice")
	}
	return d, nil
}

// Probe reads the first audio stream's parameters with ffprobe
func (d *FFmpegDecoder) Probe(ctx context.Context, path string) (*StreamInfo, error) {
	args := []string{
		"-v", "error",
		"-select_streams", "a:0",
		"-show_entries", "stream=codec_name,sample_rate,channels:format=duration",
		"-of", "json",
		path,
	}

	cmd := exec.CommandContext(ctx, d.ffprobePath, args...)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr
	output, err := cmd.Output()
	if err != nil {
		return nil, fmt.Errorf("%w: ffprobe %s: %v: %s", ErrDecodeFailure, path, err, strings.TrimSpace(stderr.String()))
	}

	info, err := parseProbe(output)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrDecodeFailure, path, err)
	}
	return info, nil
}

// parseProbe extracts stream parameters from ffprobe JSON output
func parseProbe(data []byte) (*StreamInfo, error) {
	var probe struct {
		Streams []struct {
			CodecName  string `json:"codec_name"`
			SampleRate string `json:"sample_rate"`
			Channels   int    `json:"channels"`
		} `json:"streams"`
		Format struct {
			Duration string `json:"duration"`
		} `json:"format"`
	}
	if err := json.Unmarshal(data, &probe); err != nil {
		return nil, fmt.Errorf("failed to parse ffprobe output: %w", err)
	}
	if len(probe.Streams) == 0 {
		return nil, errors.New("no audio stream found")
	}

	stream := probe.Streams[0]
	info := &StreamInfo{
		Codec:    stream.CodecName,
		Channels: stream.Channels,
	}

	rate, err := strconv.Atoi(stream.SampleRate)
	if err != nil || rate <= 0 {
		return nil, fmt.Errorf("invalid sample rate %q", stream.SampleRate)
	}
	info.SampleRate = rate

	if info.Channels <= 0 {
		info.Channels = 1
	}

	if probe.Format.Duration != "" {
		if secs, err := strconv.ParseFloat(probe.Format.Duration, 64); err == nil {
			info.Duration = time.Duration(secs * float64(time.Second))
		}
	}

	return info, nil
}

// Decode extracts the first audio track of path as mono samples
func (d *FFmpegDecoder) Decode(ctx context.Context, path string) (*types.SampleBuffer, error) {
	info, err := d.Probe(ctx, path)
	if err != nil {
		return nil, err
	}

	sampleRate := info.SampleRate
	if d.sampleRate > 0 {
		sampleRate = d.sampleRate
	}

	args := d.decodeArgs(path, info.Channels, sampleRate)

	var cmd *exec.Cmd
	if d.nicePath != "" {
		cmd = exec.CommandContext(ctx, d.nicePath, append([]string{"-n", "19", d.ffmpegPath}, args...)...)
	} else {
		cmd = exec.CommandContext(ctx, d.ffmpegPath, args...)
	}

	var stderr bytes.Buffer
	cmd.Stderr = &stderr
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return nil, fmt.Errorf("%w: stdout pipe: %v", ErrDecodeFailure, err)
	}
	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("%w: start ffmpeg: %v", ErrDecodeFailure, err)
	}

	var pcm bytes.Buffer
	if info.Duration > 0 {
		pcm.Grow(int(info.Duration.Seconds()*float64(sampleRate*info.Channels*2)) + 4096)
	}
	_, copyErr := io.Copy(&pcm, stdout)

	if err := cmd.Wait(); err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, fmt.Errorf("%w: ffmpeg %s: %v: %s", ErrDecodeFailure, path, err, strings.TrimSpace(stderr.String()))
	}
	if copyErr != nil {
		return nil, fmt.Errorf("%w: read output: %v", ErrDecodeFailure, copyErr)
	}

	samples := PCMToMono(pcm.Bytes(), info.Channels)
	if len(samples) == 0 {
		return nil, fmt.Errorf("%w: no audio decoded from %s", ErrDecodeFailure, path)
	}

	log.Printf("[DECODE] %s: %s, %d Hz, %d ch -> %d mono samples", path, info.Codec, sampleRate, info.Channels, len(samples))

	return &types.SampleBuffer{Samples: samples, SampleRate: sampleRate}, nil
}

// decodeArgs builds the ffmpeg arguments for signed 16-bit little-endian
// PCM of the audio track only
func (d *FFmpegDecoder) decodeArgs(path string, channels, sampleRate int) []string {
	args := []string{"-v", "error", "-i", path}
	if d.maxDuration > 0 {
		args = append(args, "-t", fmt.Sprintf("%.3f", d.maxDuration.Seconds()))
	}
	return append(args,
		"-vn",
		"-map", "0:a:0",
		"-f", "s16le",
		"-acodec", "pcm_s16le",
		"-ac", strconv.Itoa(channels),
		"-ar", strconv.Itoa(sampleRate),
		"pipe:1",
	)
}

// PCMToMono converts interleaved 16-bit little-endian PCM to mono samples
// in [-1, 1) by averaging channels. A trailing partial frame is dropped.
func PCMToMono(data []byte, channels int) []float64 {
	if channels <= 0 {
		channels = 1
	}
	frameBytes := 2 * channels
	numFrames := len(data) / frameBytes

	samples := make([]float64, numFrames)
	for i := 0; i < numFrames; i++ {
		offset := i * frameBytes
		var sum float64
		for ch := 0; ch < channels; ch++ {
			chOffset := offset + ch*2
			sample := int16(data[chOffset]) | int16(data[chOffset+1])<<8
			sum += float64(sample) / 32768.0
		}
		samples[i] = sum / float64(channels)
	}
	return samples
}
