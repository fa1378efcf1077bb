package main

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"mapext/internal/frontend"
	"mapext/internal/gen"
	"mapext/internal/pipeline"
)

var generateCmd = &cobra.Command{
	Use:   "generate [packages...]",
	Short: "Generate conversion extensions for the given packages",
	Long:  `Load the packages (default ./...), run the pipeline and write one file per source type next to its package, or into --out`,
	RunE:  runGenerate,
}

func init() {
	generateCmd.Flags().String("out", "", "write every file into this directory instead of next to its package")
}

func runGenerate(cmd *cobra.Command, args []string) error {
	s, err := newSession(cmd)
	if err != nil {
		return err
	}

	outDir, err := cmd.Flags().GetString("out")
	if err != nil {
		return fmt.Errorf("failed to get out flag: %w", err)
	}

	if outDir == "" {
		outDir = s.cfg.Output.Dir
	}

	comp, res, err := s.run(cmd.Context(), args)
	if err != nil {
		return err
	}

	written, err := s.write(comp, res, outDir)
	if err != nil {
		return err
	}

	s.printf("generated %d file(s)\n", written)

	return s.report(res)
}

// write stores the generated files and returns how many were written.
// Files of groups without errors are written even when other groups
// reported diagnostics. Generated files of earlier runs that this run no
// longer produces are removed from the target directories.
func (s *session) write(comp *frontend.Compilation, res *pipeline.Result, outDir string) (int, error) {
	var (
		dirs []string
		keep = make(map[string]bool, len(res.Files))
	)

	if outDir != "" {
		dirs = append(dirs, outDir)

		for _, f := range res.Files {
			keep[filepath.Join(outDir, f.Filename)] = true
		}
	} else {
		for _, pkg := range comp.Packages {
			if pkg.Dir != "" {
				dirs = append(dirs, pkg.Dir)
			}
		}

		for _, f := range res.Files {
			if dir, ok := comp.DirFor(f.Namespace); ok {
				keep[filepath.Join(dir, f.Filename)] = true
			}
		}
	}

	removed, err := s.marker.Prune(dirs, keep, s.logger)
	if err != nil {
		return 0, err
	}

	for _, path := range removed {
		s.logger.Info("removed stale file", "path", path)
	}

	var written []string
	if outDir != "" {
		written, err = gen.WriteFiles(res.Files, outDir)
	} else {
		written, err = gen.WriteToPackages(res.Files, comp.DirFor, s.logger)
	}

	return len(written), err
}
