package main

import (
	"fmt"
	"runtime"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

// version is overridden at build time with -ldflags "-X main.version=...".
var version = "dev"

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show the mapext version",
	RunE: func(cmd *cobra.Command, _ []string) error {
		opts, err := readGlobalOptions(cmd)
		if err != nil {
			return err
		}

		name := color.New(color.FgGreen, color.Bold)

		switch opts.color {
		case "on":
			name.EnableColor()
		case "off":
			name.DisableColor()
		}

		fmt.Fprintf(cmd.OutOrStdout(), "%s %s (%s)\n", name.Sprint("mapext"), version, runtime.Version())

		return nil
	},
}
