package commands

import (
	"fmt"
	"net/http"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/breadnet/planner/pkg/application/services/window"
	"github.com/breadnet/planner/pkg/infrastructure/metrics"
	"github.com/breadnet/planner/pkg/infrastructure/persistence"
	"github.com/breadnet/planner/pkg/interfaces/cli/output"
)

var (
	planScenarioDir string
	planHorizonDays int
	planOutputDir   string
	planFormat      string
	planSolvesDir   string
)

var planCmd = &cobra.Command{
	Use:   "plan",
	Short: "run the sliding-window planner over a scenario directory",
	RunE: func(cmd *cobra.Command, args []string) error {
		if planScenarioDir == "" {
			return fmt.Errorf("plan: --scenario is required")
		}

		if cfg.Metrics.Enabled {
			mux := http.NewServeMux()
			mux.Handle("/metrics", metrics.Handler())
			go func() {
				if err := http.ListenAndServe(cfg.Metrics.Address, mux); err != nil {
					log.Error().Err(err).Msg("metrics server stopped")
				}
			}()
			log.Info().Str("address", cfg.Metrics.Address).Msg("metrics server listening")
		}

		scenario, inputPaths, err := loadScenario(planScenarioDir, planHorizonDays)
		if err != nil {
			return err
		}

		orch := window.NewOrchestrator(scenario, cfg.Window)
		outcomes, runErr := orch.Run(cmd.Context())
		if runErr != nil && len(outcomes) == 0 {
			return fmt.Errorf("plan: %w", runErr)
		}

		hashes, hashErr := persistence.HashInputFiles(inputPaths)
		if hashErr != nil {
			log.Warn().Err(hashErr).Msg("failed to hash scenario input files")
		}
		meta := persistence.Metadata{
			GitCommit:     persistence.GitCommit(),
			SolverName:    cfg.Solver.Provider,
			SolverVersion: "unknown",
			InputHashes:   hashes,
		}

		if planSolvesDir != "" {
			writer := persistence.NewWriter(planSolvesDir)
			for _, o := range outcomes {
				if o.Solution == nil {
					continue
				}
				path, werr := writer.Write(o.Solution, meta, "plan", o.Index, o.Solution.GeneratedAt)
				if werr != nil {
					log.Error().Err(werr).Int("window", o.Index).Msg("failed to persist solve-file")
					continue
				}
				log.Info().Str("path", path).Int("window", o.Index).Msg("persisted solve-file")
			}
		}

		var last *window.WindowOutcome
		for i := range outcomes {
			if outcomes[i].Solution != nil {
				last = &outcomes[i]
			}
		}
		if last == nil {
			return fmt.Errorf("plan: no window produced a solution")
		}

		if err := output.Generate(last.Solution, output.Config{Format: planFormat, OutputDir: planOutputDir}); err != nil {
			return fmt.Errorf("plan: %w", err)
		}

		if runErr != nil {
			return fmt.Errorf("plan: run ended early: %w", runErr)
		}
		return nil
	},
}

func init() {
	planCmd.Flags().StringVar(&planScenarioDir, "scenario", "", "path to a scenario directory containing CSV input files")
	planCmd.Flags().IntVar(&planHorizonDays, "horizon-days", 0, "override the planning horizon length (defaults to the forecast's date span)")
	planCmd.Flags().StringVar(&planOutputDir, "output", "", "directory to write the rendered summary to (default: stdout)")
	planCmd.Flags().StringVar(&planFormat, "format", "text", "output format: text or json")
	planCmd.Flags().StringVar(&planSolvesDir, "solves-dir", "", "directory to persist solve-files under (disabled if empty)")
}
