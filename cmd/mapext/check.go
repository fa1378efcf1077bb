package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var checkCmd = &cobra.Command{
	Use:   "check [packages...]",
	Short: "Validate registrations without writing files",
	Long:  `Run the pipeline over the packages (default ./...) and print diagnostics; nothing is written`,
	RunE:  runCheck,
}

func init() {
	checkCmd.Flags().Bool("list", false, "print the planned output file names")
}

func runCheck(cmd *cobra.Command, args []string) error {
	s, err := newSession(cmd)
	if err != nil {
		return err
	}

	list, err := cmd.Flags().GetBool("list")
	if err != nil {
		return fmt.Errorf("failed to get list flag: %w", err)
	}

	_, res, err := s.run(cmd.Context(), args)
	if err != nil {
		return err
	}

	if list {
		for g := range res.Groups.Values() {
			fmt.Fprintf(s.out, "%s\t%s\t%d destination(s)\n", g.OutputName, g.Source, g.Destinations.Len())
		}
	}

	return s.report(res)
}
