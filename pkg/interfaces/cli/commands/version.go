package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "print the planner version",
	RunE: func(cmd *cobra.Command, args []string) error {
		fmt.Printf("planner %s (commit %s, built %s)\n", Version, Commit, BuildDate)
		return nil
	},
}
