package window

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/breadnet/planner/pkg/application/dto"
	"github.com/breadnet/planner/pkg/application/services/extractor"
	"github.com/breadnet/planner/pkg/application/services/solver"
	"github.com/breadnet/planner/pkg/domain/entities"
	"github.com/breadnet/planner/pkg/domain/services/constraints"
	"github.com/breadnet/planner/pkg/domain/services/indexbuilder"
	"github.com/breadnet/planner/pkg/domain/services/objective"
	"github.com/breadnet/planner/pkg/infrastructure/config"
	"github.com/breadnet/planner/pkg/infrastructure/metrics"
)

// Scenario bundles every static input the orchestrator needs across every
// window (spec.md §5 "Inputs").
type Scenario struct {
	Network         entities.Network
	Products        []entities.Product
	Forecast        entities.Forecast
	LaborCalendar   entities.LaborCalendar
	Trucks          entities.TruckSchedules
	Costs           entities.CostStructure
	InitialInventory entities.InitialInventory
	FullHorizon     []entities.Date
}

// WindowOutcome is one window's terminal result, reported to the caller in
// horizon order.
type WindowOutcome struct {
	Index     int
	Start     entities.Date
	CommitEnd entities.Date
	State     State
	Solution  *dto.OptimizationSolution
	Err       error

	terminal entities.InitialInventory
}

// Orchestrator drives the sliding-window solve loop.
type Orchestrator struct {
	scenario Scenario
	cfg      config.WindowConfig
}

// NewOrchestrator constructs an Orchestrator for a scenario and window config.
func NewOrchestrator(scenario Scenario, cfg config.WindowConfig) *Orchestrator {
	return &Orchestrator{scenario: scenario, cfg: cfg}
}

// Run executes every window across the full horizon in order, carrying
// terminal inventory forward and committing each window's non-overlap
// prefix, until the horizon is exhausted or a window fails terminally
// without a usable partial result (spec.md §5 "Operations").
func (o *Orchestrator) Run(ctx context.Context) ([]WindowOutcome, error) {
	horizon := o.scenario.FullHorizon
	if len(horizon) == 0 {
		return nil, entities.NewModelError("window", "full horizon cannot be empty")
	}

	step := o.cfg.LengthDays - o.cfg.OverlapDays
	if step <= 0 {
		return nil, entities.NewModelError("window", "window length must exceed overlap")
	}

	var outcomes []WindowOutcome
	carryInventory := o.scenario.InitialInventory

	for i, start := 0, 0; start < len(horizon); i, start = i+1, start+step {
		end := start + o.cfg.LengthDays
		if end > len(horizon) {
			end = len(horizon)
		}
		commitEnd := start + step
		if commitEnd > len(horizon) {
			commitEnd = len(horizon)
		}

		windowHorizon := horizon[start:end]
		outcome := o.runWindow(ctx, i, windowHorizon, horizon[commitEnd-1], carryInventory)
		outcomes = append(outcomes, outcome)

		if outcome.State != Committed && outcome.State != TimeoutFeasible {
			log.Error().Int("window", i).Str("state", outcome.State.String()).Msg("window did not commit; aborting run")
			return outcomes, outcome.Err
		}

		carryInventory = outcome.terminal

		if end == len(horizon) {
			break
		}
	}

	return outcomes, nil
}

// runWindow drives a single window through its explicit state machine
// (spec.md §5 "Window lifecycle": PREPARING -> BUILDING -> SOLVING ->
// EXTRACTING -> COMMITTED, with INFEASIBLE/SOLVER_ERROR/TIMEOUT_FEASIBLE
// branches).
func (o *Orchestrator) runWindow(
	ctx context.Context,
	index int,
	windowHorizon []entities.Date,
	commitEnd entities.Date,
	initialInventory entities.InitialInventory,
) WindowOutcome {
	runID := uuid.NewString()
	state := Preparing
	log.Info().Int("window", index).Str("run_id", runID).
		Str("start", windowHorizon[0].Format("2006-01-02")).
		Str("end", windowHorizon[len(windowHorizon)-1].Format("2006-01-02")).
		Msg("window preparing")

	state = Building
	idx, err := indexbuilder.BuildIndices(o.scenario.Network, windowHorizon, o.scenario.Products, o.scenario.Forecast, initialInventory)
	if err != nil {
		return WindowOutcome{Index: index, Start: windowHorizon[0], CommitEnd: commitEnd, State: SolverError, Err: fmt.Errorf("window %d: %w", index, err)}
	}

	model, err := constraints.NewModel(idx, o.scenario.Network, windowHorizon, o.scenario.Products, o.scenario.Forecast)
	if err != nil {
		return WindowOutcome{Index: index, Start: windowHorizon[0], CommitEnd: commitEnd, State: SolverError, Err: fmt.Errorf("window %d: %w", index, err)}
	}
	if err := model.BuildMaterialBalance(); err != nil {
		return WindowOutcome{Index: index, Start: windowHorizon[0], CommitEnd: commitEnd, State: SolverError, Err: fmt.Errorf("window %d: %w", index, err)}
	}
	if err := model.BuildLaborConstraints(o.scenario.LaborCalendar); err != nil {
		return WindowOutcome{Index: index, Start: windowHorizon[0], CommitEnd: commitEnd, State: SolverError, Err: fmt.Errorf("window %d: %w", index, err)}
	}
	if err := model.BuildTruckConstraints(o.scenario.Trucks); err != nil {
		return WindowOutcome{Index: index, Start: windowHorizon[0], CommitEnd: commitEnd, State: SolverError, Err: fmt.Errorf("window %d: %w", index, err)}
	}
	if err := objective.Build(model, o.scenario.Costs, o.scenario.LaborCalendar); err != nil {
		return WindowOutcome{Index: index, Start: windowHorizon[0], CommitEnd: commitEnd, State: SolverError, Err: fmt.Errorf("window %d: %w", index, err)}
	}

	state = Solving
	start := time.Now()
	result, err := solver.Solve(ctx, model, solver.Options{
		MaxDuration:    time.Duration(o.cfg.MaxSolveSeconds) * time.Second,
		MIPGapRelative: o.cfg.MIPGapRelative,
	})
	metrics.WindowSolveDuration.Observe(time.Since(start).Seconds())

	if err != nil {
		metrics.WindowsSolved.WithLabelValues(SolverError.String()).Inc()
		return WindowOutcome{Index: index, Start: windowHorizon[0], CommitEnd: commitEnd, State: SolverError, Err: fmt.Errorf("window %d: %w", index, err)}
	}
	if result.Status == solver.StatusInfeasible {
		metrics.WindowsSolved.WithLabelValues(Infeasible.String()).Inc()
		return WindowOutcome{Index: index, Start: windowHorizon[0], CommitEnd: commitEnd, State: Infeasible, Err: fmt.Errorf("window %d: solve returned infeasible", index)}
	}

	state = Extracting
	sol, err := extractor.Extract(runID, model, result, o.scenario.Costs, o.scenario.LaborCalendar, o.scenario.Trucks)
	if err != nil {
		return WindowOutcome{Index: index, Start: windowHorizon[0], CommitEnd: commitEnd, State: SolverError, Err: fmt.Errorf("window %d: %w", index, err)}
	}

	ApplyFEFOPostPass(model, result, sol)

	state = Committed
	if result.Status == solver.StatusTimeLimitFeasible {
		state = TimeoutFeasible
	}
	metrics.WindowsSolved.WithLabelValues(state.String()).Inc()
	metrics.WindowMIPGap.Set(result.MIPGap)
	var shortageUnits int64
	for _, s := range sol.Shortages {
		shortageUnits += s.Units
	}
	metrics.ShortageUnits.Set(float64(shortageUnits))

	outcome := WindowOutcome{Index: index, Start: windowHorizon[0], CommitEnd: commitEnd, State: state, Solution: sol}
	outcome.terminal = terminalInventory(model, result, commitEnd)
	return outcome
}

// terminalInventory aggregates every solved inventory cohort still on hand
// at commitEnd into an InitialInventory snapshot for the next window,
// collapsing entry date out of the key (the next window re-derives a fresh
// entry date of commitEnd for carried-forward stock, matching the
// production_date <= entry_date admission rule, spec.md §3).
func terminalInventory(m *constraints.Model, result solver.Result, commitEnd entities.Date) entities.InitialInventory {
	entries := make(map[entities.InitialInventoryKey]entities.Quantity)
	for k, v := range m.Inventory {
		if !k.CurrentDate.Equal(commitEnd) {
			continue
		}
		units := roundedUnits(result.Solution.Value(v))
		if units == 0 {
			continue
		}
		key := entities.InitialInventoryKey{Node: k.Node, Product: k.Product, State: k.State}
		entries[key] += entities.Quantity(units)
	}
	return entities.InitialInventory{SnapshotDate: commitEnd, Entries: entries}
}

func roundedUnits(scaledValue float64) int64 {
	units := scaledValue * entities.FlowValueScale
	if units < 0.5 {
		return 0
	}
	return int64(units + 0.5)
}
