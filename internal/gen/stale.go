package gen

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/hashicorp/go-hclog"
	"github.com/hashicorp/go-multierror"
)

// Header returns the first line of every file generated by tool.
func Header(tool string) string {
	return "// Code generated by " + tool + ". DO NOT EDIT."
}

// Marker recognizes files written by an earlier run.
type Marker struct {
	// Tool is the generator name in the header.
	Tool string
	// Suffix is the output file suffix.
	Suffix string
}

// IsGenerated reports whether path has the output suffix and starts with
// the generated header.
func (m Marker) IsGenerated(path string) bool {
	if m.Suffix == "" || !strings.HasSuffix(path, m.Suffix) {
		return false
	}

	f, err := os.Open(path)
	if err != nil {
		return false
	}
	defer f.Close()

	sc := bufio.NewScanner(f)
	if !sc.Scan() {
		return false
	}

	return strings.TrimRight(sc.Text(), "\r") == Header(m.Tool)
}

// Prune removes generated files in dirs whose path is not in keep.
// Hand-written files are never touched. It returns the removed paths.
func (m Marker) Prune(dirs []string, keep map[string]bool, logger hclog.Logger) ([]string, error) {
	if logger == nil {
		logger = hclog.NewNullLogger()
	}

	var (
		removed []string
		result  *multierror.Error
	)

	for _, dir := range dirs {
		entries, err := os.ReadDir(dir)
		if err != nil {
			if !errors.Is(err, os.ErrNotExist) {
				result = multierror.Append(result, fmt.Errorf("reading %s: %w", dir, err))
			}

			continue
		}

		for _, e := range entries {
			path := filepath.Join(dir, e.Name())
			if e.IsDir() || keep[path] || !m.IsGenerated(path) {
				continue
			}

			if err := os.Remove(path); err != nil {
				result = multierror.Append(result, fmt.Errorf("removing stale file %s: %w", path, err))

				continue
			}

			logger.Debug("removed stale generated file", "path", path)

			removed = append(removed, path)
		}
	}

	slices.Sort(removed)

	return removed, result.ErrorOrNil()
}
