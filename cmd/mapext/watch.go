package main

import (
	"context"
	"errors"
	"fmt"
	"maps"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"mapext/internal/frontend"
)

var watchCmd = &cobra.Command{
	Use:   "watch [packages...]",
	Short: "Regenerate whenever package sources change",
	Long:  `Poll the Go files of the loaded packages and rerun the pipeline on change; unchanged stages are served from cache`,
	RunE:  runWatch,
}

func init() {
	watchCmd.Flags().Duration("interval", time.Second, "polling interval")
	watchCmd.Flags().String("out", "", "write every file into this directory instead of next to its package")
}

func runWatch(cmd *cobra.Command, args []string) error {
	s, err := newSession(cmd)
	if err != nil {
		return err
	}

	interval, err := cmd.Flags().GetDuration("interval")
	if err != nil {
		return fmt.Errorf("failed to get interval flag: %w", err)
	}

	if interval <= 0 {
		return fmt.Errorf("interval must be positive, got %s", interval)
	}

	outDir, err := cmd.Flags().GetString("out")
	if err != nil {
		return fmt.Errorf("failed to get out flag: %w", err)
	}

	if outDir == "" {
		outDir = s.cfg.Output.Dir
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var last snapshot

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		if last == nil || last.changed() {
			next, err := s.watchOnce(ctx, args, outDir)

			switch {
			case errors.Is(err, context.Canceled):
				return nil
			case err != nil:
				s.logger.Error("run failed", "error", err)
			}

			// A failed load keeps the previous snapshot so the next edit retries.
			if next != nil {
				last = next
			} else if last == nil {
				last = snapshot{}
			}
		}

		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
		}
	}
}

// watchOnce runs and writes once, then snapshots the package files.
func (s *session) watchOnce(ctx context.Context, args []string, outDir string) (snapshot, error) {
	comp, res, err := s.run(ctx, args)
	if err != nil {
		return nil, err
	}

	written, err := s.write(comp, res, outDir)
	if err != nil {
		s.logger.Error("writing files", "error", err)
	}

	if err := s.report(res); err != nil && !errors.Is(err, errDiagnostics) {
		return nil, err
	}

	s.printf("generated %d file(s), watching for changes\n", written)

	// Taken after writing so our own output does not trigger a rerun.
	return takeSnapshot(comp), nil
}

// snapshot maps every Go file of the watched package directories to its
// modification time.
type snapshot map[string]time.Time

func takeSnapshot(comp *frontend.Compilation) snapshot {
	dirs := map[string]bool{}
	for _, name := range comp.Filenames() {
		dirs[filepath.Dir(name)] = true
	}

	return scan(dirs)
}

func scan(dirs map[string]bool) snapshot {
	snap := snapshot{}

	for dir := range dirs {
		matches, _ := filepath.Glob(filepath.Join(dir, "*.go"))
		for _, m := range matches {
			if info, err := os.Stat(m); err == nil {
				snap[m] = info.ModTime()
			}
		}
	}

	return snap
}

// changed reports whether any watched file was added, removed or modified.
// An empty snapshot always counts as changed.
func (s snapshot) changed() bool {
	if len(s) == 0 {
		return true
	}

	dirs := map[string]bool{}
	for name := range s {
		dirs[filepath.Dir(name)] = true
	}

	return !maps.EqualFunc(s, scan(dirs), time.Time.Equal)
}
