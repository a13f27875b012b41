package solver

import (
	"context"
	"testing"
	"time"

	"github.com/breadnet/planner/pkg/domain/entities"
	"github.com/breadnet/planner/pkg/domain/services/constraints"
	"github.com/breadnet/planner/pkg/domain/services/indexbuilder"
)

func TestStatus_String(t *testing.T) {
	cases := map[Status]string{
		StatusOptimal:            "OPTIMAL",
		StatusFeasibleSuboptimal: "FEASIBLE_SUBOPTIMAL",
		StatusInfeasible:         "INFEASIBLE",
		StatusUnbounded:          "UNBOUNDED",
		StatusTimeLimitFeasible:  "TIME_LIMIT_FEASIBLE",
		StatusError:              "SOLVER_ERROR",
	}
	for status, want := range cases {
		if got := status.String(); got != want {
			t.Errorf("Status(%d).String() = %q, want %q", status, got, want)
		}
	}
}

func TestSolve_TinyFeasibleModel(t *testing.T) {
	mfg, _ := entities.NewNode("MFG", entities.Manufacturing, []entities.State{entities.StateAmbient}, nil)
	net := entities.Network{Nodes: []entities.Node{mfg}}
	horizon := []entities.Date{time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)}
	product, _ := entities.NewProduct("BGF")

	index, err := indexbuilder.BuildIndices(net, horizon, []entities.Product{product}, entities.Forecast{}, entities.InitialInventory{})
	if err != nil {
		t.Fatalf("unexpected index error: %v", err)
	}
	model, err := constraints.NewModel(index, net, horizon, []entities.Product{product}, entities.Forecast{})
	if err != nil {
		t.Fatalf("unexpected model error: %v", err)
	}
	if err := model.BuildMaterialBalance(); err != nil {
		t.Fatalf("unexpected balance error: %v", err)
	}

	result, err := Solve(context.Background(), model, Options{MaxDuration: 5 * time.Second, MIPGapRelative: 0.01})
	if err != nil {
		t.Fatalf("unexpected solve error: %v", err)
	}
	if result.Status != StatusOptimal && result.Status != StatusFeasibleSuboptimal {
		t.Fatalf("expected a feasible solve, got status %s", result.Status)
	}
}
