package analysis

import (
	"errors"
	"math"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"github.com/austinkregel/local-media/songdata/internal/types"
)

func testSong() *types.SongData {
	song := &types.SongData{
		BPM:      120,
		Melody:   make([]float64, types.ToneLength),
		Bassline: make([]float64, types.ToneLength),
		Rhythm:   make([]float64, types.RhythmLength),
		Lead:     make([]float64, types.ToneLength),
	}
	for i := 0; i < types.ToneLength; i++ {
		song.Melody[i] = 440
		song.Bassline[i] = 220
		song.Lead[i] = 880
	}
	for i := range song.Rhythm {
		song.Rhythm[i] = float64(i%4) / 4
	}
	return song
}

func TestStoreWriteRead(t *testing.T) {
	store := NewStore(t.TempDir())
	song := testSong()

	path, err := store.Write("", song)
	if err != nil {
		t.Fatalf("Write failed: %v", err)
	}
	if filepath.Base(path) != DefaultFileName {
		t.Errorf("path = %s, want default file name %s", path, DefaultFileName)
	}

	loaded, err := store.Read(path)
	if err != nil {
		t.Fatalf("Read failed: %v", err)
	}
	if !reflect.DeepEqual(loaded, song) {
		t.Errorf("loaded song differs from written song")
	}
}

func TestStoreDocumentLayout(t *testing.T) {
	dir := t.TempDir()
	store := NewStore(dir)

	path, err := store.Write("nested/out.json", testSong())
	if err != nil {
		t.Fatalf("Write failed: %v", err)
	}
	if path != filepath.Join(dir, "nested", "out.json") {
		t.Errorf("path = %s, want file under store directory", path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Failed to read output: %v", err)
	}
	doc := string(data)

	if !strings.HasPrefix(doc, "{\n  \"bpm\": 120,\n") {
		t.Errorf("expected 2-space indented document starting with bpm, got:\n%.60s", doc)
	}

	// Keys appear in artifact order
	last := -1
	for _, key := range []string{`"bpm"`, `"melody"`, `"bassline"`, `"rhythm"`, `"lead"`} {
		idx := strings.Index(doc, key)
		if idx < 0 {
			t.Fatalf("key %s missing from document", key)
		}
		if idx < last {
			t.Errorf("key %s out of order", key)
		}
		last = idx
	}

	// No temp files left behind
	entries, err := os.ReadDir(filepath.Dir(path))
	if err != nil {
		t.Fatalf("Failed to list output dir: %v", err)
	}
	if len(entries) != 1 {
		t.Errorf("expected only the output file, found %d entries", len(entries))
	}
}

func TestStoreRejectsInvalidSong(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*types.SongData)
	}{
		{"bpm too low", func(s *types.SongData) { s.BPM = 59 }},
		{"bpm too high", func(s *types.SongData) { s.BPM = 181 }},
		{"short melody", func(s *types.SongData) { s.Melody = s.Melody[:31] }},
		{"long rhythm", func(s *types.SongData) { s.Rhythm = append(s.Rhythm, 0.5) }},
		{"lead above range", func(s *types.SongData) { s.Lead[3] = 20001 }},
		{"bassline below range", func(s *types.SongData) { s.Bassline[0] = 19.9 }},
		{"rhythm NaN", func(s *types.SongData) { s.Rhythm[5] = math.NaN() }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			store := NewStore(dir)
			song := testSong()
			tt.mutate(song)

			if _, err := store.Write("out.json", song); !errors.Is(err, ErrInvalidInput) {
				t.Fatalf("Write error = %v, want ErrInvalidInput", err)
			}
			if _, err := os.Stat(filepath.Join(dir, "out.json")); !os.IsNotExist(err) {
				t.Error("invalid song data should not be written")
			}
		})
	}
}

func TestStoreReadErrors(t *testing.T) {
	dir := t.TempDir()
	store := NewStore(dir)

	if _, err := store.Read("missing.json"); err == nil {
		t.Error("expected error reading missing file")
	}

	if err := os.WriteFile(filepath.Join(dir, "bad.json"), []byte("{not json"), 0644); err != nil {
		t.Fatalf("Failed to write fixture: %v", err)
	}
	if _, err := store.Read("bad.json"); err == nil {
		t.Error("expected error reading malformed file")
	}

	if err := os.WriteFile(filepath.Join(dir, "short.json"), []byte(`{"bpm": 100, "melody": [440]}`), 0644); err != nil {
		t.Fatalf("Failed to write fixture: %v", err)
	}
	if _, err := store.Read("short.json"); !errors.Is(err, ErrInvalidInput) {
		t.Errorf("Read error = %v, want ErrInvalidInput", err)
	}
}
