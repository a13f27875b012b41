package commands

import (
	"fmt"
	"path/filepath"
	"time"

	"github.com/breadnet/planner/pkg/application/services/window"
	"github.com/breadnet/planner/pkg/domain/entities"
	"github.com/breadnet/planner/pkg/infrastructure/repositories/csv"
)

// loadScenario reads every scenario input file from dir (the layout the
// teacher's scenario directories use, generalized from bom/items/inventory/
// demands.csv to the distribution planner's own file set) and assembles a
// window.Scenario. If horizonDays is positive the horizon is horizonDays
// days long, starting at the forecast's first demand date; otherwise the
// horizon runs exactly from the forecast's first to last demand date.
func loadScenario(dir string, horizonDays int) (window.Scenario, []string, error) {
	loader := csv.NewLoader()

	inputFiles := map[string]string{
		"nodes":             filepath.Join(dir, "nodes.csv"),
		"legs":              filepath.Join(dir, "legs.csv"),
		"products":          filepath.Join(dir, "products.csv"),
		"forecast":          filepath.Join(dir, "forecast.csv"),
		"labor_calendar":    filepath.Join(dir, "labor_calendar.csv"),
		"trucks":            filepath.Join(dir, "trucks.csv"),
		"initial_inventory": filepath.Join(dir, "initial_inventory.csv"),
	}

	network, err := loader.LoadNetwork(inputFiles["nodes"], inputFiles["legs"])
	if err != nil {
		return window.Scenario{}, nil, fmt.Errorf("loading network: %w", err)
	}
	products, err := loader.LoadProducts(inputFiles["products"])
	if err != nil {
		return window.Scenario{}, nil, fmt.Errorf("loading products: %w", err)
	}
	forecast, err := loader.LoadForecast(inputFiles["forecast"])
	if err != nil {
		return window.Scenario{}, nil, fmt.Errorf("loading forecast: %w", err)
	}
	laborCalendar, err := loader.LoadLaborCalendar(inputFiles["labor_calendar"])
	if err != nil {
		return window.Scenario{}, nil, fmt.Errorf("loading labor calendar: %w", err)
	}
	trucks, err := loader.LoadTruckSchedules(inputFiles["trucks"])
	if err != nil {
		return window.Scenario{}, nil, fmt.Errorf("loading truck schedules: %w", err)
	}

	snapshotDate := time.Now()
	dates := forecast.Dates()
	if len(dates) > 0 {
		snapshotDate = dates[0]
	}
	initialInventory, err := loader.LoadInitialInventory(inputFiles["initial_inventory"], snapshotDate)
	if err != nil {
		return window.Scenario{}, nil, fmt.Errorf("loading initial inventory: %w", err)
	}

	costs, err := cfg.Costs.ToCostStructure()
	if err != nil {
		return window.Scenario{}, nil, fmt.Errorf("loading cost structure: %w", err)
	}

	if len(dates) == 0 {
		return window.Scenario{}, nil, fmt.Errorf("forecast %s has no demand points; cannot derive a planning horizon", inputFiles["forecast"])
	}
	horizonEnd := dates[len(dates)-1]
	if horizonDays > 0 {
		horizonEnd = dates[0].AddDate(0, 0, horizonDays-1)
	}

	var horizon []entities.Date
	for d := dates[0]; !d.After(horizonEnd); d = d.AddDate(0, 0, 1) {
		horizon = append(horizon, d)
	}

	paths := make([]string, 0, len(inputFiles))
	for _, p := range inputFiles {
		paths = append(paths, p)
	}

	return window.Scenario{
		Network:          network,
		Products:         products,
		Forecast:         forecast,
		LaborCalendar:    laborCalendar,
		Trucks:           trucks,
		Costs:            costs,
		InitialInventory: initialInventory,
		FullHorizon:      horizon,
	}, paths, nil
}
