// Package config loads the planner's TOML configuration, grounded on the
// pack's BurntSushi/toml dependency (carried from the sibling tutu
// repository's go.mod, whose CLI names planner.toml-style config files by
// convention) and the teacher's flag-driven EngineConfig shape generalized
// into a file-backed struct.
package config

import (
	"fmt"

	"github.com/BurntSushi/toml"

	"github.com/breadnet/planner/pkg/domain/entities"
)

// WindowConfig holds the sliding-window orchestrator's tuning parameters
// (spec.md §5 "Window parameters").
type WindowConfig struct {
	LengthDays        int     `toml:"length_days"`
	OverlapDays       int     `toml:"overlap_days"`
	MaxSolveSeconds   int     `toml:"max_solve_seconds"`
	MIPGapRelative    float64 `toml:"mip_gap_relative"`
	WarmstartEnabled  bool    `toml:"warmstart_enabled"`
}

// SolverConfig holds the C4 driver's tuning parameters.
type SolverConfig struct {
	Provider  string `toml:"provider"`
	Verbosity string `toml:"verbosity"`
}

// MetricsConfig controls the optional Prometheus exposition.
type MetricsConfig struct {
	Enabled bool   `toml:"enabled"`
	Address string `toml:"address"`
}

// CostsConfig holds the priced cost parameters, TOML-configurable per
// scenario (spec.md §3 "Cost structure").
type CostsConfig struct {
	ProductionCostPerUnit          float64 `toml:"production_cost_per_unit"`
	HoldingCostPerPalletDayFrozen  float64 `toml:"holding_cost_per_pallet_day_frozen"`
	HoldingCostPerPalletDayAmbient float64 `toml:"holding_cost_per_pallet_day_ambient"`
	ChangeoverCostPerStart         float64 `toml:"changeover_cost_per_start"`
	ShortagePenaltyPerUnit         float64 `toml:"shortage_penalty_per_unit"`
	DisposalPenaltyPerUnit         float64 `toml:"disposal_penalty_per_unit"`
	FreshnessWeight                float64 `toml:"freshness_weight"`
}

// ToCostStructure validates and converts c into the domain's CostStructure.
func (c CostsConfig) ToCostStructure() (entities.CostStructure, error) {
	return entities.NewCostStructure(
		c.ProductionCostPerUnit,
		c.HoldingCostPerPalletDayFrozen,
		c.HoldingCostPerPalletDayAmbient,
		c.ChangeoverCostPerStart,
		c.ShortagePenaltyPerUnit,
		c.DisposalPenaltyPerUnit,
		c.FreshnessWeight,
	)
}

// PlannerConfig is the root configuration document, typically loaded from
// planner.toml.
type PlannerConfig struct {
	Window  WindowConfig  `toml:"window"`
	Solver  SolverConfig  `toml:"solver"`
	Metrics MetricsConfig `toml:"metrics"`
	Costs   CostsConfig   `toml:"costs"`
}

// Default returns the published default configuration (spec.md §5 "defaults:
// window_length=28, overlap=7").
func Default() PlannerConfig {
	return PlannerConfig{
		Window: WindowConfig{
			LengthDays:       28,
			OverlapDays:      7,
			MaxSolveSeconds:  300,
			MIPGapRelative:   0.0,
			WarmstartEnabled: true,
		},
		Solver: SolverConfig{
			Provider:  "highs",
			Verbosity: "off",
		},
		Metrics: MetricsConfig{
			Enabled: false,
			Address: ":9090",
		},
		Costs: CostsConfig{
			ProductionCostPerUnit:          1.0,
			HoldingCostPerPalletDayFrozen:  0.02,
			HoldingCostPerPalletDayAmbient: 0.01,
			ChangeoverCostPerStart:         50.0,
			ShortagePenaltyPerUnit:         25.0,
			DisposalPenaltyPerUnit:         5.0,
			FreshnessWeight:                0.05,
		},
	}
}

// Load reads and decodes a TOML configuration file, filling in defaults for
// anything the file omits.
func Load(path string) (PlannerConfig, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return PlannerConfig{}, fmt.Errorf("config: failed to load %s: %w", path, err)
	}
	return cfg, cfg.Validate()
}

// Validate checks the configuration against the model's structural
// invariants (spec.md §5).
func (c PlannerConfig) Validate() error {
	if c.Window.LengthDays <= 0 {
		return entities.NewModelError("config", "window.length_days must be positive")
	}
	if c.Window.OverlapDays < 0 || c.Window.OverlapDays >= c.Window.LengthDays {
		return entities.NewModelError("config", "window.overlap_days must be in [0, length_days)")
	}
	if c.Window.MaxSolveSeconds <= 0 {
		return entities.NewModelError("config", "window.max_solve_seconds must be positive")
	}
	if c.Window.MIPGapRelative < 0 {
		return entities.NewModelError("config", "window.mip_gap_relative cannot be negative")
	}
	return nil
}
