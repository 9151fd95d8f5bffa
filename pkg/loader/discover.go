package loader

import (
	"fmt"
	"path/filepath"
	"sort"
)

// DefaultPattern matches the daily report files (MM-DD-YYYY.csv).
const DefaultPattern = "*.csv"

// Discover lists the files in dir matching pattern, sorted by name.
// The dataset names files MM-DD-YYYY.csv, so name order is chronological within a year.
func Discover(dir, pattern string) ([]string, error) {
	if pattern == "" {
		pattern = DefaultPattern
	}
	if _, err := filepath.Match(pattern, ""); err != nil {
		return nil, fmt.Errorf("bad pattern %q: %w", pattern, err)
	}
	files, err := filepath.Glob(filepath.Join(dir, pattern))
	if err != nil {
		return nil, fmt.Errorf("glob %s: %w", dir, err)
	}
	sort.Strings(files)
	return files, nil
}
