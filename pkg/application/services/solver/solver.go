// Package solver implements C4: a narrow driver over the nextmv mip solver,
// grounded on the order-fulfillment template's NewSolver/NewSolveOptions/
// Solve sequence, normalizing its result into the planner's own
// SolverStatus taxonomy and emitting structured zerolog solve records
// (spec.md §4.4).
package solver

import (
	"context"
	"fmt"
	"time"

	"github.com/nextmv-io/sdk/mip"
	"github.com/rs/zerolog/log"

	"github.com/breadnet/planner/pkg/domain/services/constraints"
)

// Status is the normalized terminal outcome of a single window solve
// (spec.md §4.4 "Solver status").
type Status int

const (
	StatusOptimal Status = iota
	StatusFeasibleSuboptimal
	StatusInfeasible
	StatusUnbounded
	StatusTimeLimitFeasible
	StatusError
)

func (s Status) String() string {
	switch s {
	case StatusOptimal:
		return "OPTIMAL"
	case StatusFeasibleSuboptimal:
		return "FEASIBLE_SUBOPTIMAL"
	case StatusInfeasible:
		return "INFEASIBLE"
	case StatusUnbounded:
		return "UNBOUNDED"
	case StatusTimeLimitFeasible:
		return "TIME_LIMIT_FEASIBLE"
	default:
		return "SOLVER_ERROR"
	}
}

// Options configures a single solve invocation.
type Options struct {
	MaxDuration    time.Duration
	MIPGapRelative float64
	Verbose        bool
}

// Result is the driver's normalized output: the solver status plus the raw
// mip.Solution for the extractor (Cx) to read variable values from.
type Result struct {
	Status         Status
	Solution       mip.Solution
	ObjectiveValue float64
	MIPGap         float64
	WallTime       time.Duration
	NodesExplored  int
}

// SolveError wraps a solver-layer failure (driver construction, option
// validation, or the solve call itself) with the normalized Status the
// caller should treat the window as having ended in (spec.md §7 "Solver
// errors").
type SolveError struct {
	Status Status
	Err    error
}

func (e *SolveError) Error() string {
	return fmt.Sprintf("solver: %s: %v", e.Status, e.Err)
}

func (e *SolveError) Unwrap() error { return e.Err }

// Solve builds a HiGHS solver over the model and runs it to Options'
// duration/gap limits, logging solver name, status, objective, gap, and
// wall time as structured fields (spec.md §6.3 "Solve logging"). The
// blocking mipSolver.Solve call runs on its own goroutine so ctx
// cancellation is observed promptly; the nextmv driver has no context
// parameter of its own, so this is the fallback the spec.md §5 concurrency
// model calls for ("solver interrupt unavailable, falls back to next
// window boundary") — Solve returns early on cancellation, but the
// goroutine keeps running the solver to completion in the background.
func Solve(ctx context.Context, m *constraints.Model, opts Options) (Result, error) {
	mipSolver, err := mip.NewSolver("highs", m.MIP)
	if err != nil {
		return Result{Status: StatusError}, &SolveError{Status: StatusError, Err: err}
	}

	solveOptions := mip.NewSolveOptions()
	if opts.MaxDuration > 0 {
		if err := solveOptions.SetMaximumDuration(opts.MaxDuration); err != nil {
			return Result{Status: StatusError}, &SolveError{Status: StatusError, Err: err}
		}
	}
	if err := solveOptions.SetMIPGapRelative(opts.MIPGapRelative); err != nil {
		return Result{Status: StatusError}, &SolveError{Status: StatusError, Err: err}
	}
	// Verbosity only controls HiGHS' own stdout log stream; the structured
	// solve record below is emitted regardless (spec.md §6.3).
	solveOptions.SetVerbosity(mip.Off)

	if opts.Verbose {
		log.Debug().
			Int("variables", len(m.Production)+len(m.Inventory)+len(m.Shipment)).
			Dur("max_duration", opts.MaxDuration).
			Float64("mip_gap_relative", opts.MIPGapRelative).
			Msg("starting window solve")
	}

	type outcome struct {
		solution mip.Solution
		err      error
	}
	done := make(chan outcome, 1)
	start := time.Now()
	go func() {
		solution, err := mipSolver.Solve(solveOptions)
		done <- outcome{solution: solution, err: err}
	}()

	select {
	case <-ctx.Done():
		wallTime := time.Since(start)
		log.Warn().Dur("wall_time", wallTime).Msg("window solve cancelled before completion")
		return Result{Status: StatusError, WallTime: wallTime}, &SolveError{Status: StatusError, Err: ctx.Err()}
	case out := <-done:
		wallTime := time.Since(start)
		if out.err != nil {
			log.Error().Err(out.err).Dur("wall_time", wallTime).Msg("solver invocation failed")
			return Result{Status: StatusError, WallTime: wallTime}, &SolveError{Status: StatusError, Err: out.err}
		}

		result := normalize(out.solution, wallTime, opts.MaxDuration)

		event := log.Info()
		if result.Status == StatusInfeasible || result.Status == StatusError {
			event = log.Warn()
		}
		event.
			Str("solver", "highs").
			Str("status", result.Status.String()).
			Float64("objective", result.ObjectiveValue).
			Float64("mip_gap", result.MIPGap).
			Dur("wall_time", result.WallTime).
			Msg("window solve complete")

		return result, nil
	}
}

// normalize maps mip.Solution's reporting surface onto Status (spec.md
// §4.4). The nextmv driver exposes only HasValues/IsOptimal/ObjectiveValue,
// not a termination reason, so a non-optimal solution that ran to (or past)
// the configured duration limit is reported as TIME_LIMIT_FEASIBLE rather
// than plain FEASIBLE_SUBOPTIMAL.
func normalize(solution mip.Solution, wallTime time.Duration, maxDuration time.Duration) Result {
	if solution == nil || !solution.HasValues() {
		return Result{Status: StatusInfeasible, WallTime: wallTime}
	}

	status := StatusFeasibleSuboptimal
	switch {
	case solution.IsOptimal():
		status = StatusOptimal
	case maxDuration > 0 && wallTime >= maxDuration:
		status = StatusTimeLimitFeasible
	}

	return Result{
		Status:         status,
		Solution:       solution,
		ObjectiveValue: solution.ObjectiveValue(),
		WallTime:       wallTime,
	}
}
