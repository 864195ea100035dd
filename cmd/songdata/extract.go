package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/mattn/go-isatty"

	"github.com/austinkregel/local-media/songdata/internal/analysis"
	"github.com/austinkregel/local-media/songdata/internal/audio"
	"github.com/austinkregel/local-media/songdata/internal/cli"
	"github.com/austinkregel/local-media/songdata/internal/config"
	"github.com/austinkregel/local-media/songdata/internal/scanner"
	"github.com/austinkregel/local-media/songdata/internal/ui"
)

// batchSuffix names per-input artifacts in batch runs
const batchSuffix = ".song.json"

// ExtractCmd extracts song data from one or more inputs
type ExtractCmd struct {
	Inputs     []string `arg:"" name:"inputs" help:"Video or audio files, or directories to scan"`
	Output     string   `short:"o" placeholder:"FILE" help:"Output file for a single input (default: song_data.json)"`
	OutDir     string   `name:"out-dir" placeholder:"DIR" help:"Output directory for batch runs (default: next to each input)"`
	Workers    int      `short:"j" help:"Concurrent extractions (default: CPU count - 1)"`
	SampleRate int      `name:"sample-rate" placeholder:"HZ" help:"Decode sample rate (default: native rate)"`
	Plain      bool     `help:"Print plain output instead of the progress view"`
}

// Run extracts song data for every input
func (c *ExtractCmd) Run(app *appContext) error {
	files, err := scanner.Collect(app.ctx, c.Inputs)
	if err != nil {
		return err
	}

	cfg, err := app.loadConfig()
	if err != nil {
		return err
	}
	c.applyConfig(cfg)

	decoder := audio.NewRouter(audio.DecoderOptions{
		FFmpegPath:  cfg.Decode.FFmpegPath,
		FFprobePath: cfg.Decode.FFprobePath,
		SampleRate:  cfg.Decode.SampleRate,
		MaxDuration: time.Duration(cfg.Decode.MaxDurationSec * float64(time.Second)),
		LowPriority: cfg.Decode.LowPriority,
	})
	store := analysis.NewStore("")
	jobs := planJobs(files, c.Output, c.OutDir)

	if len(jobs) > 1 && !c.Plain && isatty.IsTerminal(os.Stdout.Fd()) {
		return runTUI(app, jobs, decoder, store, cfg.Batch.Workers)
	}
	return runPlain(app, jobs, decoder, store, cfg.Batch.Workers)
}

// applyConfig fills unset flags from the configuration and pushes set
// flags back into it
func (c *ExtractCmd) applyConfig(cfg *config.Config) {
	if c.SampleRate > 0 {
		cfg.Decode.SampleRate = c.SampleRate
	}
	if c.Workers > 0 {
		cfg.Batch.Workers = c.Workers
	}
	if c.Output == "" {
		c.Output = cfg.Output.FileName
	}
	if c.OutDir == "" {
		c.OutDir = cfg.Output.Dir
	}
}

// planJobs assigns an output path to each input. A single input writes to
// output (inside outDir when output is relative); several inputs write
// <basename>.song.json into outDir or next to the input.
func planJobs(files []string, output, outDir string) []analysis.Job {
	if output == "" {
		output = analysis.DefaultFileName
	}

	if len(files) == 1 {
		path := output
		if outDir != "" && !filepath.IsAbs(output) {
			path = filepath.Join(outDir, output)
		}
		return []analysis.Job{{Index: 0, InputPath: files[0], OutputPath: path}}
	}

	used := make(map[string]bool)
	jobs := make([]analysis.Job, len(files))
	for i, file := range files {
		dir := outDir
		if dir == "" {
			dir = filepath.Dir(file)
		}
		base := strings.TrimSuffix(filepath.Base(file), filepath.Ext(file))
		path := filepath.Join(dir, base+batchSuffix)

		// Same basename from different directories
		for n := 2; used[path]; n++ {
			path = filepath.Join(dir, fmt.Sprintf("%s-%d%s", base, n, batchSuffix))
		}
		used[path] = true

		jobs[i] = analysis.Job{Index: i, InputPath: file, OutputPath: path}
	}
	return jobs
}

func runPlain(app *appContext, jobs []analysis.Job, decoder analysis.Decoder, store *analysis.Store, workers int) error {
	var (
		mu       sync.Mutex
		failures []error
	)

	worker, err := analysis.NewWorker(analysis.WorkerConfig{
		MaxWorkers: workers,
		Decoder:    decoder,
		Store:      store,
		Verbose:    app.verbose,
		OnResult: func(r analysis.Result) {
			mu.Lock()
			defer mu.Unlock()
			if r.Error != nil {
				failures = append(failures, r.Error)
				if len(jobs) > 1 {
					cli.PrintError(r.Error.Error())
				}
				return
			}
			cli.PrintSongSummary(os.Stdout, r.OutputPath, r.Song)
		},
	})
	if err != nil {
		return err
	}

	if err := worker.Run(app.ctx, jobs); err != nil {
		return err
	}

	return batchError(failures, len(jobs))
}

func runTUI(app *appContext, jobs []analysis.Job, decoder analysis.Decoder, store *analysis.Store, workers int) error {
	// The progress view owns the terminal; logs go to a file
	debugPath := filepath.Join(app.configDir, "songdata-debug.log")
	if debugLog, err := os.Create(debugPath); err == nil {
		defer debugLog.Close()
		log.SetOutput(debugLog)
		defer log.SetOutput(os.Stderr)
	}

	inputs := make([]string, len(jobs))
	for i, job := range jobs {
		inputs[i] = job.InputPath
	}

	p := tea.NewProgram(ui.NewModel(inputs))

	var (
		mu       sync.Mutex
		failures []error
	)

	worker, err := analysis.NewWorker(analysis.WorkerConfig{
		MaxWorkers: workers,
		Decoder:    decoder,
		Store:      store,
		Verbose:    app.verbose,
		OnStart: func(job analysis.Job) {
			p.Send(ui.JobStartMsg{Index: job.Index, InputPath: job.InputPath})
		},
		OnResult: func(r analysis.Result) {
			msg := ui.JobCompleteMsg{
				Index:      r.Job.Index,
				OutputPath: r.OutputPath,
				AudioSecs:  r.AudioSecs,
				Elapsed:    r.Elapsed,
				Error:      r.Error,
			}
			if r.Song != nil {
				msg.BPM = r.Song.BPM
			}
			if r.Error != nil {
				mu.Lock()
				failures = append(failures, r.Error)
				mu.Unlock()
			}
			p.Send(msg)
		},
	})
	if err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(app.ctx)
	defer cancel()

	done := make(chan error, 1)
	go func() {
		err := worker.Run(ctx, jobs)
		p.Send(ui.AllCompleteMsg{})
		done <- err
	}()

	final, err := p.Run()
	if err != nil {
		cancel()
		<-done
		return fmt.Errorf("UI error: %w", err)
	}
	if m, ok := final.(ui.Model); ok && m.Cancelled {
		cancel()
	}

	if err := <-done; err != nil {
		return err
	}

	mu.Lock()
	defer mu.Unlock()
	return batchError(failures, len(jobs))
}

// batchError summarizes per-file failures. A single-file run reports the
// underlying error directly.
func batchError(failures []error, total int) error {
	switch {
	case len(failures) == 0:
		return nil
	case total == 1:
		return failures[0]
	default:
		return fmt.Errorf("%d of %d file(s) failed: %w", len(failures), total, errors.Join(failures...))
	}
}
