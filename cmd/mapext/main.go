// Package main provides the CLI entrypoint for mapext.
//
// mapext is a build-time Go codegen tool that:
//   - Loads Go packages (AST + go/types) and finds //mapext:generate methods
//   - Extracts NewConfig[Src, Dst] registrations and validates their shape
//   - Merges every mapping by source type
//   - Generates one <Source>Extensions file per source type
package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"
)

// errDiagnostics signals that error diagnostics were already printed.
var errDiagnostics = errors.New("generation reported errors")

var rootCmd = &cobra.Command{
	Use:           "mapext",
	Short:         "Generate conversion extensions from mapping registrations",
	Long:          `mapext finds //mapext:generate registration methods and generates one conversion file per source type`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.Version = version

	rootCmd.AddCommand(generateCmd)
	rootCmd.AddCommand(checkCmd)
	rootCmd.AddCommand(watchCmd)
	rootCmd.AddCommand(versionCmd)

	rootCmd.PersistentFlags().String("config", "", "configuration file (default: nearest mapext.yaml, mapext.yml or mapext.toml)")
	rootCmd.PersistentFlags().String("color", "auto", "colorize output (auto|on|off)")
	rootCmd.PersistentFlags().Bool("quiet", false, "suppress non-essential output")
	rootCmd.PersistentFlags().Bool("verbose", false, "enable debug logging")
	rootCmd.PersistentFlags().Int("jobs", 0, "max parallel workers (0=config or auto)")
	rootCmd.PersistentFlags().Int("max-diagnostics", 100, "maximum number of diagnostics to show (0=all)")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		if !errors.Is(err, errDiagnostics) {
			fmt.Fprintln(os.Stderr, "error:", err)
		}

		os.Exit(1)
	}
}

// isTerminal reports whether f is a terminal.
func isTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}
