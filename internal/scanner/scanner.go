// Package scanner resolves extraction inputs.
// Files are taken as given; directories are walked for media files.
package scanner

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// ErrNoInputs is returned when nothing extractable was found
var ErrNoInputs = errors.New("no media files found")

// SupportedExtensions are the video and audio extensions picked up when walking a directory
var SupportedExtensions = map[string]bool{
	// video
	".mov":  true,
	".mp4":  true,
	".m4v":  true,
	".mkv":  true,
	".webm": true,
	".avi":  true,
	".flv":  true,
	".wmv":  true,
	".mpg":  true,
	".mpeg": true,
	".ts":   true,
	// audio
	".mp3":  true,
	".flac": true,
	".m4a":  true,
	".aac":  true,
	".ogg":  true,
	".wav":  true,
	".wma":  true,
	".opus": true,
}

// IsSupported reports whether path has a recognized media extension
func IsSupported(path string) bool {
	return SupportedExtensions[strings.ToLower(filepath.Ext(path))]
}

// Collect expands paths into a sorted, de-duplicated list of media files.
// A path naming a file is kept even if its extension is unknown, so the
// decoder gets to decide. A missing path is an error.
func Collect(ctx context.Context, paths []string) ([]string, error) {
	seen := make(map[string]bool)
	var files []string

	add := func(path string) {
		if !seen[path] {
			seen[path] = true
			files = append(files, path)
		}
	}

	for _, root := range paths {
		info, err := os.Stat(root)
		if err != nil {
			return nil, fmt.Errorf("input not found: %w", err)
		}

		if !info.IsDir() {
			add(filepath.Clean(root))
			continue
		}

		found, err := walkDir(ctx, root)
		if err != nil {
			return nil, err
		}
		log.Printf("[SCANNER] Discovered %d media files in %s", len(found), root)
		for _, f := range found {
			add(f)
		}
	}

	if len(files) == 0 {
		return nil, ErrNoInputs
	}

	sort.Strings(files)
	return files, nil
}

func walkDir(ctx context.Context, root string) ([]string, error) {
	var found []string

	err := filepath.WalkDir(root, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return nil // Skip entries we can't access
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		if d.IsDir() {
			if strings.HasPrefix(d.Name(), ".") && path != root {
				return filepath.SkipDir
			}
			return nil
		}

		if IsSupported(path) {
			found = append(found, path)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return found, nil
}
