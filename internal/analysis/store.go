package analysis

import (
	"encoding/json"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"sync"

	"github.com/austinkregel/local-media/songdata/internal/types"
)

// DefaultFileName is the artifact name used when none is given
const DefaultFileName = "song_data.json"

// Store persists SongData records as indented JSON documents
type Store struct {
	mu  sync.Mutex
	dir string
}

// NewStore creates a store rooted at dir. Relative paths passed to Write and
// Read resolve against it; an empty dir means the working directory.
func NewStore(dir string) *Store {
	return &Store{dir: dir}
}

// Path resolves name against the store directory
func (s *Store) Path(name string) string {
	if name == "" {
		name = DefaultFileName
	}
	if filepath.IsAbs(name) || s.dir == "" {
		return name
	}
	return filepath.Join(s.dir, name)
}

// Write validates song and writes it to name. The file is replaced
// atomically so readers never observe a partial document.
func (s *Store) Write(name string, song *types.SongData) (string, error) {
	if err := Validate(song); err != nil {
		return "", err
	}

	data, err := json.MarshalIndent(song, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to marshal song data: %w", err)
	}
	data = append(data, '\n')

	path := s.Path(name)
	dir := filepath.Dir(path)

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("failed to create output directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".song-*.json")
	if err != nil {
		return "", fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpPath := tmp.Name()
	defer os.Remove(tmpPath) // no-op after a successful rename

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return "", fmt.Errorf("failed to write song data: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return "", fmt.Errorf("failed to write song data: %w", err)
	}
	if err := os.Chmod(tmpPath, 0644); err != nil {
		return "", fmt.Errorf("failed to set file mode: %w", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		return "", fmt.Errorf("failed to move song data into place: %w", err)
	}

	return path, nil
}

// Read loads and validates a song data document
func (s *Store) Read(name string) (*types.SongData, error) {
	data, err := os.ReadFile(s.Path(name))
	if err != nil {
		return nil, fmt.Errorf("failed to read song data: %w", err)
	}

	var song types.SongData
	if err := json.Unmarshal(data, &song); err != nil {
		return nil, fmt.Errorf("failed to parse song data: %w", err)
	}
	if err := Validate(&song); err != nil {
		return nil, err
	}
	return &song, nil
}

// Validate checks the fixed lengths and bounds of a song data record
func Validate(song *types.SongData) error {
	if song == nil {
		return fmt.Errorf("%w: nil song data", ErrInvalidInput)
	}
	if song.BPM < types.MinBPM || song.BPM > types.MaxBPM {
		return fmt.Errorf("%w: bpm %d outside [%d, %d]", ErrInvalidInput, song.BPM, types.MinBPM, types.MaxBPM)
	}

	sequences := []struct {
		name   string
		values []float64
		length int
		lo, hi float64
	}{
		{"melody", song.Melody, types.ToneLength, types.MinFreq, types.MaxFreq},
		{"bassline", song.Bassline, types.ToneLength, types.MinFreq, types.MaxFreq},
		{"rhythm", song.Rhythm, types.RhythmLength, types.MinIntensity, types.MaxIntensity},
		{"lead", song.Lead, types.ToneLength, types.MinFreq, types.MaxFreq},
	}
	for _, seq := range sequences {
		if len(seq.values) != seq.length {
			return fmt.Errorf("%w: %s has %d values, want %d", ErrInvalidInput, seq.name, len(seq.values), seq.length)
		}
		for i, v := range seq.values {
			if math.IsNaN(v) || v < seq.lo || v > seq.hi {
				return fmt.Errorf("%w: %s[%d] = %g outside [%g, %g]", ErrInvalidInput, seq.name, i, v, seq.lo, seq.hi)
			}
		}
	}
	return nil
}
