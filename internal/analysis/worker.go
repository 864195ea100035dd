package analysis

import (
	"context"
	"errors"
	"fmt"
	"log"
	"runtime"
	"sync"
	"sync/atomic"
	"time"

	"github.com/austinkregel/local-media/songdata/internal/types"
)

// Decoder supplies decoded mono audio for an input file
type Decoder interface {
	Decode(ctx context.Context, path string) (*types.SampleBuffer, error)
}

// Job is a single input file to extract song data from
type Job struct {
	Index      int
	InputPath  string
	OutputPath string
}

// Result contains the outcome of a single job
type Result struct {
	Job        Job
	Song       *types.SongData
	OutputPath string  // where the record was written
	AudioSecs  float64 // decoded audio duration
	Elapsed    time.Duration
	Error      error
}

// WorkerStatus represents the current state of a batch run
type WorkerStatus struct {
	Status     string `json:"status"` // "idle", "running", "complete", "cancelled"
	TotalJobs  int    `json:"totalJobs"`
	Completed  int    `json:"completed"`
	InProgress int    `json:"inProgress"`
	Failed     int    `json:"failed"`
	Message    string `json:"message"`
	StartedAt  int64  `json:"startedAt,omitempty"`
}

// WorkerConfig contains configuration for the extraction worker
type WorkerConfig struct {
	MaxWorkers int // Maximum concurrent jobs (0 = NumCPU - 1)
	Decoder    Decoder
	Store      *Store
	Verbose    bool
	OnStart    func(Job)    // Called when a job begins
	OnResult   func(Result) // Called when a job completes or fails
}

// Worker extracts song data for a batch of input files. Each job runs the
// whole pipeline on its own buffer; jobs share nothing but the store.
type Worker struct {
	mu sync.Mutex

	maxWorkers int
	decoder    Decoder
	store      *Store
	verbose    bool
	onStart    func(Job)
	onResult   func(Result)

	status    WorkerStatus
	isRunning bool

	completedCount  int64
	failedCount     int64
	inProgressCount int64
}

// NewWorker creates a new extraction worker
func NewWorker(cfg WorkerConfig) (*Worker, error) {
	if cfg.Decoder == nil {
		return nil, errors.New("worker requires a decoder")
	}
	if cfg.Store == nil {
		return nil, errors.New("worker requires a store")
	}

	maxWorkers := cfg.MaxWorkers
	if maxWorkers <= 0 {
		maxWorkers = runtime.NumCPU() - 1
		if maxWorkers < 1 {
			maxWorkers = 1
		}
	}

	return &Worker{
		maxWorkers: maxWorkers,
		decoder:    cfg.Decoder,
		store:      cfg.Store,
		verbose:    cfg.Verbose,
		onStart:    cfg.OnStart,
		onResult:   cfg.OnResult,
		status:     WorkerStatus{Status: "idle"},
	}, nil
}

// Run processes jobs and blocks until all of them finish or ctx is cancelled.
// Per-job failures are reported through OnResult and counted; Run itself only
// fails when already running or cancelled.
func (w *Worker) Run(ctx context.Context, jobs []Job) error {
	w.mu.Lock()
	if w.isRunning {
		w.mu.Unlock()
		return fmt.Errorf("extraction already running")
	}
	w.isRunning = true
	atomic.StoreInt64(&w.completedCount, 0)
	atomic.StoreInt64(&w.failedCount, 0)
	atomic.StoreInt64(&w.inProgressCount, 0)
	w.status = WorkerStatus{
		Status:    "running",
		TotalJobs: len(jobs),
		StartedAt: time.Now().Unix(),
	}
	w.mu.Unlock()

	workers := w.maxWorkers
	if workers > len(jobs) {
		workers = len(jobs)
	}
	log.Printf("[WORKER] Extracting %d file(s) with %d worker(s)", len(jobs), workers)

	queue := make(chan Job, len(jobs))
	for _, job := range jobs {
		queue <- job
	}
	close(queue)

	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(workerID int) {
			defer wg.Done()
			w.worker(ctx, workerID, queue)
		}(i)
	}
	wg.Wait()

	completed := atomic.LoadInt64(&w.completedCount)
	failed := atomic.LoadInt64(&w.failedCount)

	w.mu.Lock()
	defer w.mu.Unlock()
	w.isRunning = false
	if ctx.Err() != nil {
		w.status.Status = "cancelled"
		w.status.Message = "Extraction cancelled"
		return ctx.Err()
	}
	w.status.Status = "complete"
	w.status.Message = fmt.Sprintf("Extraction complete: %d succeeded, %d failed", completed, failed)
	log.Printf("[WORKER] %s", w.status.Message)
	return nil
}

// GetStatus returns the current batch status
func (w *Worker) GetStatus() WorkerStatus {
	w.mu.Lock()
	defer w.mu.Unlock()

	status := w.status
	status.Completed = int(atomic.LoadInt64(&w.completedCount))
	status.Failed = int(atomic.LoadInt64(&w.failedCount))
	status.InProgress = int(atomic.LoadInt64(&w.inProgressCount))
	return status
}

// worker processes jobs from the queue until it drains or ctx is cancelled
func (w *Worker) worker(ctx context.Context, id int, jobs <-chan Job) {
	for {
		select {
		case <-ctx.Done():
			return
		case job, ok := <-jobs:
			if !ok {
				return
			}

			if w.onStart != nil {
				w.onStart(job)
			}

			atomic.AddInt64(&w.inProgressCount, 1)
			result := w.Process(ctx, job)
			atomic.AddInt64(&w.inProgressCount, -1)

			if result.Error != nil {
				atomic.AddInt64(&w.failedCount, 1)
				log.Printf("[WORKER] Worker %d: Failed %s: %v", id, job.InputPath, result.Error)
			} else {
				atomic.AddInt64(&w.completedCount, 1)
				if w.verbose {
					log.Printf("[WORKER] Worker %d: %s -> %s (%.1fs audio in %v)",
						id, job.InputPath, result.OutputPath, result.AudioSecs, result.Elapsed.Round(time.Millisecond))
				}
			}

			if w.onResult != nil {
				w.onResult(result)
			}
		}
	}
}

// Process runs decode, extraction and persistence for a single job
func (w *Worker) Process(ctx context.Context, job Job) Result {
	start := time.Now()
	result := Result{Job: job}

	buf, err := w.decoder.Decode(ctx, job.InputPath)
	if err != nil {
		result.Error = fmt.Errorf("decode %s: %w", job.InputPath, err)
		result.Elapsed = time.Since(start)
		return result
	}
	result.AudioSecs = buf.Duration()

	song, err := Assemble(buf)
	if err != nil {
		result.Error = fmt.Errorf("extract %s: %w", job.InputPath, err)
		result.Elapsed = time.Since(start)
		return result
	}

	path, err := w.store.Write(job.OutputPath, song)
	if err != nil {
		result.Error = fmt.Errorf("save %s: %w", job.OutputPath, err)
		result.Elapsed = time.Since(start)
		return result
	}

	result.Song = song
	result.OutputPath = path
	result.Elapsed = time.Since(start)
	return result
}
