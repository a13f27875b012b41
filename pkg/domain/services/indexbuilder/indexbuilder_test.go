package indexbuilder

import (
	"testing"
	"time"

	"github.com/breadnet/planner/pkg/domain/entities"
)

func d(n int) entities.Date {
	return time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC).AddDate(0, 0, n)
}

func simpleNetwork(t *testing.T) entities.Network {
	t.Helper()
	mfg, _ := entities.NewNode("MFG", entities.Manufacturing, []entities.State{entities.StateAmbient}, nil)
	hub, _ := entities.NewNode("HUB1", entities.Hub, []entities.State{entities.StateAmbient}, nil)
	leg, _ := entities.NewRouteLeg("MFG-HUB1", "MFG", "HUB1", 1, entities.StateAmbient, 0.1, nil)
	return entities.Network{Nodes: []entities.Node{mfg, hub}, Legs: []entities.RouteLeg{leg}}
}

func TestBuildReachability(t *testing.T) {
	reach, err := BuildReachability(simpleNetwork(t))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if reach.EarliestArrivalDays["MFG"] != 0 {
		t.Errorf("expected MFG earliest arrival 0, got %d", reach.EarliestArrivalDays["MFG"])
	}
	if reach.EarliestArrivalDays["HUB1"] != 1 {
		t.Errorf("expected HUB1 earliest arrival 1, got %d", reach.EarliestArrivalDays["HUB1"])
	}
}

func TestBuildIndices_ProductionIndexSpansHorizon(t *testing.T) {
	net := simpleNetwork(t)
	product, _ := entities.NewProduct("BGF")
	horizon := []entities.Date{d(0), d(1), d(2)}

	set, err := BuildIndices(net, horizon, []entities.Product{product}, entities.Forecast{}, entities.InitialInventory{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(set.Production) != 3 {
		t.Fatalf("expected 3 production index entries, got %d", len(set.Production))
	}
	for _, p := range set.Production {
		if p.Node != "MFG" {
			t.Errorf("expected production key node MFG, got %s", p.Node)
		}
	}
}

func TestBuildIndices_HubCohortsRespectEarliestArrival(t *testing.T) {
	net := simpleNetwork(t)
	product, _ := entities.NewProduct("BGF")
	horizon := []entities.Date{d(0), d(1), d(2)}

	set, err := BuildIndices(net, horizon, []entities.Product{product}, entities.Forecast{}, entities.InitialInventory{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	for _, inv := range set.Inventory {
		if inv.Node == "HUB1" && inv.ProductionDate.Equal(d(0)) && inv.CurrentDate.Equal(d(0)) {
			t.Fatalf("HUB1 cannot hold a day-0-produced cohort on day 0: arrival takes 1 day")
		}
	}
}

func TestBuildIndices_ShelfLifeExcludesExpiredCohorts(t *testing.T) {
	net := simpleNetwork(t)
	product, _ := entities.NewProduct("BGF")
	// Horizon long enough to exceed ambient shelf life (17 days).
	var horizon []entities.Date
	for i := 0; i <= 20; i++ {
		horizon = append(horizon, d(i))
	}

	set, err := BuildIndices(net, horizon, []entities.Product{product}, entities.Forecast{}, entities.InitialInventory{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	for _, inv := range set.Inventory {
		if inv.AgeInState(inv.CurrentDate) > entities.ShelfLifeDays[inv.State] {
			t.Fatalf("admitted cohort %+v exceeds shelf life for state %v", inv, inv.State)
		}
	}
}

func TestBuildIndices_InitialInventoryDisposalBoundary(t *testing.T) {
	net := simpleNetwork(t)
	product, _ := entities.NewProduct("BGF")
	horizon := []entities.Date{d(0)}
	shelfLife := entities.ShelfLifeDays[entities.StateAmbient]

	// Exactly at the boundary: age == shelf life, still admitted.
	atBoundary := entities.InitialInventory{
		SnapshotDate: d(-shelfLife),
		Entries: map[entities.InitialInventoryKey]entities.Quantity{
			{Node: "HUB1", Product: "BGF", State: entities.StateAmbient}: 50,
		},
	}
	set, err := BuildIndices(net, horizon, []entities.Product{product}, entities.Forecast{}, atBoundary)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	found := false
	for _, inv := range set.Inventory {
		if inv.Node == "HUB1" && inv.CurrentDate.Equal(d(0)) {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected a cohort exactly at its shelf-life boundary (age %d) to still be admitted", shelfLife)
	}

	// One day past the boundary: age == shelf life + 1, excluded (the
	// inventory stranded there, per spec.md §8's disposal scenario, has no
	// admitted home and must be disposed rather than carried forward).
	pastBoundary := entities.InitialInventory{
		SnapshotDate: d(-(shelfLife + 1)),
		Entries: map[entities.InitialInventoryKey]entities.Quantity{
			{Node: "HUB1", Product: "BGF", State: entities.StateAmbient}: 50,
		},
	}
	set, err = BuildIndices(net, horizon, []entities.Product{product}, entities.Forecast{}, pastBoundary)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for _, inv := range set.Inventory {
		if inv.Node == "HUB1" && inv.CurrentDate.Equal(d(0)) {
			t.Fatalf("expected a cohort one day past its shelf-life boundary (age %d) to be excluded, not carried forward", shelfLife+1)
		}
	}
}

// TestBuildIndices_ThawedCohortsAdmittedAtDualModeNodes guards against the
// mass-balance leak where a node holding both FROZEN and AMBIENT stock could
// produce a Thaw flow with nowhere to land: THAWED is never itself a
// declared storage mode, so the inventory index must admit it directly
// wherever a node supports both FROZEN and AMBIENT (spec.md §3 "Freeze/thaw
// transitions").
func TestBuildIndices_ThawedCohortsAdmittedAtDualModeNodes(t *testing.T) {
	mfg, _ := entities.NewNode("MFG", entities.Manufacturing, []entities.State{entities.StateFrozen}, nil)
	dual, _ := entities.NewNode("BR1", entities.Breadroom, []entities.State{entities.StateFrozen, entities.StateAmbient}, nil)
	leg, _ := entities.NewRouteLeg("MFG-BR1", "MFG", "BR1", 1, entities.StateFrozen, 0.1, nil)
	net := entities.Network{Nodes: []entities.Node{mfg, dual}, Legs: []entities.RouteLeg{leg}}

	product, _ := entities.NewProduct("BGF")
	horizon := []entities.Date{d(0), d(1), d(2)}

	set, err := BuildIndices(net, horizon, []entities.Product{product}, entities.Forecast{}, entities.InitialInventory{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	found := false
	for _, inv := range set.Inventory {
		if inv.Node == "BR1" && inv.State == entities.StateThawed {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected BR1 (holds both FROZEN and AMBIENT) to admit a THAWED inventory cohort")
	}
}

func TestBuildIndices_InitialInventorySeeded(t *testing.T) {
	net := simpleNetwork(t)
	product, _ := entities.NewProduct("BGF")
	horizon := []entities.Date{d(0), d(1)}
	initial := entities.InitialInventory{
		SnapshotDate: d(-1),
		Entries: map[entities.InitialInventoryKey]entities.Quantity{
			{Node: "HUB1", Product: "BGF", State: entities.StateAmbient}: 100,
		},
	}

	set, err := BuildIndices(net, horizon, []entities.Product{product}, entities.Forecast{}, initial)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	found := false
	for _, inv := range set.Inventory {
		if inv.Node == "HUB1" && inv.CurrentDate.Equal(d(0)) && inv.ProductionDate.Equal(d(-1)) {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected initial inventory cohort seeded at horizon start")
	}
}

func TestBuildIndices_DemandCohortIndexExcludesFrozen(t *testing.T) {
	net := simpleNetwork(t)
	product, _ := entities.NewProduct("BGF")
	horizon := []entities.Date{d(0), d(1), d(2)}
	demand, _ := entities.NewDemandPoint("HUB1", "BGF", d(2), 100)
	forecast := entities.Forecast{Entries: []entities.DemandPoint{demand}}

	set, err := BuildIndices(net, horizon, []entities.Product{product}, forecast, entities.InitialInventory{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for _, k := range set.DemandCohort {
		if k.State == entities.StateFrozen {
			t.Fatalf("demand cohort index must never admit FROZEN state")
		}
	}
	if len(set.DemandCohort) == 0 {
		t.Fatalf("expected at least one demand cohort entry")
	}
}
