package commands

import (
	"fmt"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

var validateScenarioDir string

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "load a scenario directory and report input errors without solving",
	RunE: func(cmd *cobra.Command, args []string) error {
		if validateScenarioDir == "" {
			return fmt.Errorf("validate: --scenario is required")
		}

		scenario, _, err := loadScenario(validateScenarioDir, 0)
		if err != nil {
			return fmt.Errorf("validate: %w", err)
		}

		log.Info().
			Int("nodes", len(scenario.Network.Nodes)).
			Int("legs", len(scenario.Network.Legs)).
			Int("products", len(scenario.Products)).
			Int("demand_points", len(scenario.Forecast.Entries)).
			Int("truck_schedules", len(scenario.Trucks.Schedules)).
			Int("horizon_days", len(scenario.FullHorizon)).
			Msg("scenario is structurally valid")
		return nil
	},
}

func init() {
	validateCmd.Flags().StringVar(&validateScenarioDir, "scenario", "", "path to a scenario directory containing CSV input files")
}
