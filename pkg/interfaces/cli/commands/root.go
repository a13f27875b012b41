// Package commands implements the planner's cobra command tree, grounded on
// the teacher's cobra root command (bbak-mcs-mcp's cmd/mcs-mcp/commands):
// a package-level rootCmd with a PersistentPreRun that wires logging and
// configuration before any subcommand body runs.
package commands

import (
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/breadnet/planner/pkg/infrastructure/config"
	"github.com/breadnet/planner/pkg/infrastructure/logging"
)

var (
	// Version, Commit, and BuildDate are set at build time via ldflags.
	Version   = "dev"
	Commit    = "none"
	BuildDate = "unknown"

	verbose    bool
	configPath string
	cfg        config.PlannerConfig
)

var rootCmd = &cobra.Command{
	Use:   "planner",
	Short: "planner is a sliding-window MILP production and distribution planner",
	Long: `planner solves cohort-indexed production, inventory, and distribution
decisions for a shelf-life-constrained bread network, decomposing the full
planning horizon into overlapping solver windows.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		logging.Init(verbose)

		loaded, err := config.Load(configPath)
		if err != nil {
			return err
		}
		cfg = loaded

		log.Info().
			Str("version", Version).
			Str("commit", Commit).
			Str("build_date", BuildDate).
			Msg("planner starting")
		return nil
	},
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose logging")
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "path to planner.toml (defaults if omitted)")

	rootCmd.AddCommand(planCmd)
	rootCmd.AddCommand(validateCmd)
	rootCmd.AddCommand(versionCmd)
}
