package constraints

import (
	"testing"
	"time"

	"github.com/breadnet/planner/pkg/domain/entities"
	"github.com/breadnet/planner/pkg/domain/services/indexbuilder"
)

func day(n int) entities.Date {
	return time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC).AddDate(0, 0, n)
}

func testNetwork(t *testing.T) entities.Network {
	t.Helper()
	mfg, _ := entities.NewNode("MFG", entities.Manufacturing, []entities.State{entities.StateAmbient}, nil)
	hub, _ := entities.NewNode("HUB1", entities.Hub, []entities.State{entities.StateAmbient}, nil)
	leg, _ := entities.NewRouteLeg("MFG-HUB1", "MFG", "HUB1", 1, entities.StateAmbient, 0.1, nil)
	return entities.Network{Nodes: []entities.Node{mfg, hub}, Legs: []entities.RouteLeg{leg}}
}

func testHorizon() []entities.Date {
	return []entities.Date{day(0), day(1), day(2), day(3)}
}

func testCalendar(t *testing.T, horizon []entities.Date) entities.LaborCalendar {
	t.Helper()
	var days []entities.LaborDay
	for _, d := range horizon {
		ld, err := entities.NewLaborDay(d, true, 12, 25, 37.5, 0)
		if err != nil {
			t.Fatalf("unexpected labor day error: %v", err)
		}
		days = append(days, ld)
	}
	cal, err := entities.NewLaborCalendar(days)
	if err != nil {
		t.Fatalf("unexpected calendar error: %v", err)
	}
	return cal
}

func buildTestModel(t *testing.T) (*Model, *indexbuilder.IndexSet) {
	t.Helper()
	net := testNetwork(t)
	horizon := testHorizon()
	product, _ := entities.NewProduct("BGF")
	demand, _ := entities.NewDemandPoint("HUB1", "BGF", day(3), 100)
	forecast := entities.Forecast{Entries: []entities.DemandPoint{demand}}

	index, err := indexbuilder.BuildIndices(net, horizon, []entities.Product{product}, forecast, entities.InitialInventory{})
	if err != nil {
		t.Fatalf("unexpected index error: %v", err)
	}

	model, err := NewModel(index, net, horizon, []entities.Product{product}, forecast)
	if err != nil {
		t.Fatalf("unexpected model error: %v", err)
	}
	return model, index
}

func TestNewModel_VariableCountsMatchIndex(t *testing.T) {
	model, index := buildTestModel(t)
	if len(model.Production) != len(index.Production) {
		t.Errorf("production variable count mismatch: got %d want %d", len(model.Production), len(index.Production))
	}
	if len(model.Inventory) != len(index.Inventory) {
		t.Errorf("inventory variable count mismatch: got %d want %d", len(model.Inventory), len(index.Inventory))
	}
	if len(model.Shipment) != len(index.Shipment) {
		t.Errorf("shipment variable count mismatch: got %d want %d", len(model.Shipment), len(index.Shipment))
	}
}

func TestBuildMaterialBalance_NoError(t *testing.T) {
	model, _ := buildTestModel(t)
	if err := model.BuildMaterialBalance(); err != nil {
		t.Fatalf("unexpected error building material balance: %v", err)
	}
}

func TestBuildLaborConstraints_NoError(t *testing.T) {
	model, _ := buildTestModel(t)
	cal := testCalendar(t, model.horizon)
	if err := model.BuildLaborConstraints(cal); err != nil {
		t.Fatalf("unexpected error building labor constraints: %v", err)
	}
}

func TestBuildTruckConstraints_NoError(t *testing.T) {
	model, _ := buildTestModel(t)
	schedule, err := entities.NewTruckSchedule(
		"T1",
		[]time.Weekday{time.Monday, time.Tuesday, time.Wednesday, time.Thursday, time.Friday},
		entities.Morning,
		"MFG",
		[]entities.NodeID{"HUB1"},
		44,
		entities.LoadSameDay,
	)
	if err != nil {
		t.Fatalf("unexpected schedule error: %v", err)
	}
	if err := model.BuildTruckConstraints(entities.TruckSchedules{Schedules: []entities.TruckSchedule{schedule}}); err != nil {
		t.Fatalf("unexpected error building truck constraints: %v", err)
	}
}
