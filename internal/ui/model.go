// Package ui provides the Bubbletea progress view for batch extraction
package ui

import (
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// FileStatus represents the extraction state of a single file
type FileStatus int

const (
	StatusQueued FileStatus = iota
	StatusExtracting
	StatusComplete
	StatusError
)

// FileProgress tracks a single input file
type FileProgress struct {
	InputPath  string
	OutputPath string
	Status     FileStatus

	StartTime   time.Time
	ElapsedTime time.Duration

	// Completion results
	BPM       int
	AudioSecs float64

	Error error
}

// Model is the Bubbletea model for the batch UI
type Model struct {
	Files          []FileProgress
	TotalFiles     int
	ActiveFiles    int
	CompletedFiles int
	FailedFiles    int

	StartTime time.Time
	Done      bool
	Cancelled bool

	// Terminal dimensions
	Width  int
	Height int
}

// NewModel creates a new UI model with the given input files
func NewModel(inputFiles []string) Model {
	files := make([]FileProgress, len(inputFiles))
	for i, path := range inputFiles {
		files[i] = FileProgress{
			InputPath: path,
			Status:    StatusQueued,
		}
	}

	return Model{
		Files:      files,
		TotalFiles: len(inputFiles),
		StartTime:  time.Now(),
	}
}

// Init starts the elapsed-time ticker
func (m Model) Init() tea.Cmd {
	return tick()
}

// Update handles messages and updates the model
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			m.Cancelled = true
			return m, tea.Quit
		}

	case tea.WindowSizeMsg:
		m.Width = msg.Width
		m.Height = msg.Height

	case tickMsg:
		if m.Done {
			return m, nil
		}
		now := time.Time(msg)
		for i := range m.Files {
			if m.Files[i].Status == StatusExtracting {
				m.Files[i].ElapsedTime = now.Sub(m.Files[i].StartTime)
			}
		}
		return m, tick()

	case JobStartMsg:
		if msg.Index < 0 || msg.Index >= len(m.Files) {
			return m, nil
		}
		m.Files[msg.Index].Status = StatusExtracting
		m.Files[msg.Index].StartTime = time.Now()
		m.ActiveFiles++

	case JobCompleteMsg:
		if msg.Index < 0 || msg.Index >= len(m.Files) {
			return m, nil
		}
		m.Files[msg.Index] = completeFile(m.Files[msg.Index], msg)
		if m.ActiveFiles > 0 {
			m.ActiveFiles--
		}
		if msg.Error != nil {
			m.FailedFiles++
		} else {
			m.CompletedFiles++
		}

	case AllCompleteMsg:
		m.Done = true
		return m, tea.Quit
	}

	return m, nil
}

// View renders the UI
func (m Model) View() string {
	if m.Width == 0 && !m.Done {
		return fmt.Sprintf("Initializing...\nFiles: %d\n", len(m.Files))
	}

	if m.Done {
		return renderCompletionSummary(m)
	}

	return renderProcessingView(m)
}

// completeFile records a JobCompleteMsg on fp
func completeFile(fp FileProgress, msg JobCompleteMsg) FileProgress {
	fp.OutputPath = msg.OutputPath
	fp.BPM = msg.BPM
	fp.AudioSecs = msg.AudioSecs
	fp.ElapsedTime = msg.Elapsed
	fp.Error = msg.Error

	if msg.Error != nil {
		fp.Status = StatusError
	} else {
		fp.Status = StatusComplete
	}
	return fp
}

func tick() tea.Cmd {
	return tea.Tick(100*time.Millisecond, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

// ElapsedSeconds returns the time since the batch started
func (m Model) ElapsedSeconds() float64 {
	return time.Since(m.StartTime).Seconds()
}
