package main

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/austinkregel/local-media/songdata/internal/analysis"
	"github.com/austinkregel/local-media/songdata/internal/audio"
	"github.com/austinkregel/local-media/songdata/internal/cli"
	"github.com/austinkregel/local-media/songdata/internal/playback"
	"github.com/austinkregel/local-media/songdata/internal/synth"
)

// PreviewCmd renders a song data file as audio
type PreviewCmd struct {
	Song   string  `arg:"" name:"song" type:"existingfile" help:"Song data JSON file"`
	WAV    string  `name:"wav" placeholder:"FILE" help:"Write the preview to a WAV file (default: <song>.preview.wav unless --play)"`
	Play   bool    `help:"Play the preview through the default audio device"`
	Volume float64 `placeholder:"0-1" help:"Playback volume (default: from config)"`
}

// Run renders the preview and writes or plays it
func (c *PreviewCmd) Run(app *appContext) error {
	appCfg, err := app.loadConfig()
	if err != nil {
		return err
	}

	song, err := analysis.NewStore("").Read(c.Song)
	if err != nil {
		return err
	}

	cfg := appCfg.Preview
	samples, err := synth.Render(song, synth.Options{
		SampleRate: cfg.SampleRate,
		StepLength: time.Duration(cfg.StepMs) * time.Millisecond,
	})
	if err != nil {
		return fmt.Errorf("failed to render preview: %w", err)
	}
	sampleRate := cfg.SampleRate
	if sampleRate <= 0 {
		sampleRate = 44100
	}

	log.Printf("[PREVIEW] Rendered %.1fs at %d BPM from %s",
		float64(len(samples))/float64(sampleRate), song.BPM, c.Song)
	cli.PrintSongSummary(os.Stdout, c.Song, song)

	wavPath := c.WAV
	if wavPath == "" && !c.Play {
		wavPath = previewPath(c.Song)
	}
	if wavPath != "" {
		if err := audio.WriteWAV(wavPath, samples, sampleRate); err != nil {
			return err
		}
		fmt.Printf("%s %s\n", cli.SuccessStyle.Render("✓ Preview written to"), cli.ValueStyle.Render(wavPath))
	}

	if !c.Play {
		return nil
	}

	out, err := playback.NewOtoOutput(sampleRate)
	if err != nil {
		return err
	}
	volume := cfg.Volume
	if c.Volume > 0 {
		volume = c.Volume
	}
	out.SetVolume(volume)

	log.Printf("[PREVIEW] Playing at %d Hz, volume %.2f", out.SampleRate(), out.GetVolume())
	return out.Play(app.ctx, synth.ToPCM16(samples))
}

// previewPath derives song.preview.wav from song.json
func previewPath(songPath string) string {
	dir := filepath.Dir(songPath)
	base := strings.TrimSuffix(filepath.Base(songPath), filepath.Ext(songPath))
	return filepath.Join(dir, base+".preview.wav")
}
