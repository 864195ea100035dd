package ui

import "time"

// JobStartMsg indicates a file has been picked up by a worker
type JobStartMsg struct {
	Index     int
	InputPath string
}

// JobCompleteMsg indicates a file has finished extraction
type JobCompleteMsg struct {
	Index      int
	OutputPath string
	BPM        int
	AudioSecs  float64
	Elapsed    time.Duration
	Error      error
}

// AllCompleteMsg indicates all files have been processed
type AllCompleteMsg struct{}

// tickMsg refreshes elapsed times while work is running
type tickMsg time.Time
