package gen

import (
	"bytes"
	"fmt"
	"go/build"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/hashicorp/go-hclog"
	"github.com/hashicorp/go-multierror"
)

// File permission constants.
const (
	dirPerm  = 0o755
	filePerm = 0o644
)

// WriteFiles writes all generated files into outputDir, creating it if
// needed. Every file is attempted; failures are aggregated. It returns the
// paths actually written.
func WriteFiles(files []GeneratedFile, outputDir string) ([]string, error) {
	if err := os.MkdirAll(outputDir, dirPerm); err != nil {
		return nil, fmt.Errorf("creating output directory: %w", err)
	}

	var (
		written []string
		result  *multierror.Error
	)

	for _, file := range files {
		path, err := writeFile(outputDir, file)
		if err != nil {
			result = multierror.Append(result, err)

			continue
		}

		written = append(written, path)
	}

	return written, result.ErrorOrNil()
}

// DirResolver maps a namespace to the directory of its package.
type DirResolver func(namespace string) (string, bool)

// WriteToPackages writes every file next to the sources of its namespace.
// Files whose namespace has no known directory are skipped with a warning.
// It returns the paths actually written.
func WriteToPackages(files []GeneratedFile, resolve DirResolver, logger hclog.Logger) ([]string, error) {
	if logger == nil {
		logger = hclog.NewNullLogger()
	}

	var (
		written []string
		result  *multierror.Error
	)

	for _, file := range files {
		dir, ok := resolve(file.Namespace)
		if !ok {
			logger.Warn("no package directory for generated file, skipping",
				"file", file.Filename, "namespace", file.Namespace)

			continue
		}

		path, err := writeFile(dir, file)
		if err != nil {
			result = multierror.Append(result, err)

			continue
		}

		logger.Debug("wrote generated file", "path", path)

		written = append(written, path)
	}

	return written, result.ErrorOrNil()
}

func writeFile(dir string, file GeneratedFile) (string, error) {
	outputPath := filepath.Join(dir, file.Filename)

	if err := checkBuildable(file); err != nil {
		return "", fmt.Errorf("writing file %s: %w", outputPath, err)
	}

	if err := os.WriteFile(outputPath, file.Content, filePerm); err != nil {
		return "", fmt.Errorf("writing file %s: %w", outputPath, err)
	}

	return outputPath, nil
}

// checkBuildable rejects Go files the go command would skip because of
// their name: a leading '_' or '.', or a _GOOS/_GOARCH element before the
// first '.'. The empty context matches no platform, so any such element
// excludes the file.
func checkBuildable(file GeneratedFile) error {
	if !strings.HasSuffix(file.Filename, ".go") {
		return nil
	}

	ctxt := build.Context{
		OpenFile: func(string) (io.ReadCloser, error) {
			return io.NopCloser(bytes.NewReader(file.Content)), nil
		},
	}

	ok, err := ctxt.MatchFile(".", file.Filename)
	if err != nil {
		return fmt.Errorf("checking build constraints: %w", err)
	}

	if !ok {
		return fmt.Errorf("file name %s carries a build constraint and would be ignored by go build; rename the package or module", file.Filename)
	}

	return nil
}
