package pipeline

import (
	"io/fs"
	"path/filepath"
	"sort"
	"strings"
)

// arrayExtension matches NumPy array files (case-insensitive).
const arrayExtension = ".npy"

// Discover walks inputDir, collects files with the .npy extension, and
// returns the paths sorted lexicographically for deterministic processing
// order. The listing is complete before any conversion runs, so files
// written during a run (the .png outputs) are never candidates.
func Discover(inputDir string) ([]string, error) {
	var files []string
	err := filepath.WalkDir(inputDir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		if strings.EqualFold(filepath.Ext(path), arrayExtension) {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.Strings(files)
	return files, nil
}
