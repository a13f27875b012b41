// Package extractor implements Cx: it reads variable values out of a solved
// mip.Solution and assembles a validated dto.OptimizationSolution, running
// the three-layer fail-fast validation spec.md §6 requires at the core->UI
// boundary. The constructor pattern is grounded on the teacher's validated-
// entity constructors (e.g. entities.NewDemandPoint) generalized from a
// single struct to a whole-document pass.
package extractor

import (
	"fmt"
	"time"

	"github.com/breadnet/planner/pkg/application/dto"
	"github.com/breadnet/planner/pkg/application/services/solver"
	"github.com/breadnet/planner/pkg/domain/entities"
	"github.com/breadnet/planner/pkg/domain/services/constraints"
)

const roundingEpsilon = 1e-6

// Extract reads the solved model's variable values and produces a validated
// OptimizationSolution. It never returns a partially-valid value: any
// layer's failure aborts with a typed error and a nil solution.
func Extract(
	runID string,
	m *constraints.Model,
	result solver.Result,
	costs entities.CostStructure,
	calendar entities.LaborCalendar,
	trucks entities.TruckSchedules,
) (*dto.OptimizationSolution, error) {
	if result.Solution == nil || !result.Solution.HasValues() {
		return nil, &dto.StructuralError{Reason: "cannot extract a solution with no solver values"}
	}

	sol := &dto.OptimizationSolution{
		RunID:       runID,
		GeneratedAt: time.Now().UTC(),
		ModelType:   dto.ModelTypeSlidingWindow,
		Status:      result.Status.String(),
		MIPGap:      result.MIPGap,
		WallTimeMs:  result.WallTime.Milliseconds(),
	}

	horizon := m.Horizon()
	if len(horizon) == 0 {
		return nil, &dto.StructuralError{Reason: "model has an empty horizon"}
	}
	sol.HorizonStart = horizon[0]
	sol.HorizonEnd = horizon[len(horizon)-1]

	extractProduction(m, result, sol)
	extractShipments(m, result, sol)
	extractTruckAssignments(m, trucks, result, sol)
	extractShortages(m, result, sol)
	extractDemandFulfillment(m, result, sol)
	extractCohortInventory(m, result, sol)
	extractThawFreezeFlows(m, result, sol)
	if err := extractLaborHours(m, result, calendar, sol); err != nil {
		return nil, err
	}
	sol.Cost = extractCostBreakdown(m, result, costs, calendar)

	if err := validateSchema(sol); err != nil {
		return nil, err
	}
	if err := validateStructural(sol, m.Network()); err != nil {
		return nil, err
	}
	if err := validateSemantic(sol); err != nil {
		return nil, err
	}

	return sol, nil
}

func roundUnits(scaledValue float64) int64 {
	units := scaledValue * entities.FlowValueScale
	if units < roundingEpsilon {
		return 0
	}
	return int64(units + 0.5)
}

func extractProduction(m *constraints.Model, result solver.Result, sol *dto.OptimizationSolution) {
	for k, v := range m.Production {
		units := roundUnits(result.Solution.Value(v))
		if units == 0 {
			continue
		}
		sol.Production = append(sol.Production, dto.ProductionResult{
			Product: k.Product,
			Date:    k.Date,
			Units:   units,
		})
	}
}

func extractShipments(m *constraints.Model, result solver.Result, sol *dto.OptimizationSolution) {
	for k, v := range m.Shipment {
		units := roundUnits(result.Solution.Value(v))
		if units == 0 {
			continue
		}
		sol.Shipments = append(sol.Shipments, dto.ShipmentResult{
			Leg:            k.Leg,
			Product:        k.Product,
			ProductionDate: k.ProductionDate,
			StateEntryDate: k.StateEntryDate,
			DeliveryDate:   k.DeliveryDate,
			State:          k.State.String(),
			Units:          units,
		})
	}
}

func extractShortages(m *constraints.Model, result solver.Result, sol *dto.OptimizationSolution) {
	for k, v := range m.Shortage {
		units := roundUnits(result.Solution.Value(v))
		if units == 0 {
			continue
		}
		sol.Shortages = append(sol.Shortages, dto.ShortageResult{
			Node:    k.Node,
			Product: k.Product,
			Date:    k.Date,
			Units:   units,
		})
	}
}

func extractDemandFulfillment(m *constraints.Model, result solver.Result, sol *dto.OptimizationSolution) {
	for k, v := range m.DemandConsumption {
		units := roundUnits(result.Solution.Value(v))
		if units == 0 {
			continue
		}
		sol.DemandFulfillment = append(sol.DemandFulfillment, dto.DemandFulfillment{
			Node:           k.Node,
			Product:        k.Product,
			Date:           k.CurrentDate,
			ProductionDate: k.ProductionDate,
			StateEntryDate: k.StateEntryDate,
			State:          k.State.String(),
			Units:          units,
		})
	}
}

// extractTruckAssignments names, for each committed shipment, the truck
// schedule whose run covers its (leg, departure date) — spec.md §6.2
// "truck_assignments": ShipmentKey -> TruckID.
func extractTruckAssignments(m *constraints.Model, trucks entities.TruckSchedules, result solver.Result, sol *dto.OptimizationSolution) {
	network := m.Network()
	truckByLegDate := make(map[entities.LegID]map[int64]string)
	for _, schedule := range trucks.Schedules {
		destinations := make(map[entities.NodeID]bool, len(schedule.Destinations))
		for _, d := range schedule.Destinations {
			destinations[d] = true
		}
		for _, leg := range network.Legs {
			if leg.Origin != schedule.Origin || !destinations[leg.Destination] {
				continue
			}
			for _, d := range m.Horizon() {
				if !schedule.RunsOn(d) {
					continue
				}
				if truckByLegDate[leg.ID] == nil {
					truckByLegDate[leg.ID] = make(map[int64]string)
				}
				truckByLegDate[leg.ID][d.Unix()] = schedule.ID
			}
		}
	}

	for k, v := range m.Shipment {
		units := roundUnits(result.Solution.Value(v))
		if units == 0 {
			continue
		}
		leg, ok := legByID(network, k.Leg)
		if !ok {
			continue
		}
		departDate := k.DeliveryDate.AddDate(0, 0, -leg.TransitDays)
		truckID, ok := truckByLegDate[k.Leg][departDate.Unix()]
		if !ok {
			continue
		}
		sol.TruckAssignments = append(sol.TruckAssignments, dto.TruckAssignment{
			Leg:            k.Leg,
			Product:        k.Product,
			ProductionDate: k.ProductionDate,
			StateEntryDate: k.StateEntryDate,
			DeliveryDate:   k.DeliveryDate,
			State:          k.State.String(),
			TruckID:        truckID,
		})
	}
}

// extractCohortInventory reports every committed cohort still on hand at its
// current date (spec.md §6.2 "inventory_state or cohort_inventory").
func extractCohortInventory(m *constraints.Model, result solver.Result, sol *dto.OptimizationSolution) {
	for k, v := range m.Inventory {
		units := roundUnits(result.Solution.Value(v))
		if units == 0 {
			continue
		}
		sol.CohortInventory = append(sol.CohortInventory, dto.CohortInventory{
			Node:           k.Node,
			Product:        k.Product,
			ProductionDate: k.ProductionDate,
			StateEntryDate: k.StateEntryDate,
			CurrentDate:    k.CurrentDate,
			State:          k.State.String(),
			Units:          units,
		})
	}
}

// extractThawFreezeFlows reports every committed state transition (spec.md
// §6.2 "thaw_flows, freeze_flows").
func extractThawFreezeFlows(m *constraints.Model, result solver.Result, sol *dto.OptimizationSolution) {
	for k, v := range m.Thaw {
		units := roundUnits(result.Solution.Value(v))
		if units == 0 {
			continue
		}
		sol.ThawFlows = append(sol.ThawFlows, dto.ThawFreezeFlow{
			Node:           k.Node,
			Product:        k.Product,
			ProductionDate: k.ProductionDate,
			StateEntryDate: k.StateEntryDate,
			Date:           k.CurrentDate,
			Units:          units,
		})
	}
	for k, v := range m.Freeze {
		units := roundUnits(result.Solution.Value(v))
		if units == 0 {
			continue
		}
		sol.FreezeFlows = append(sol.FreezeFlows, dto.ThawFreezeFlow{
			Node:           k.Node,
			Product:        k.Product,
			ProductionDate: k.ProductionDate,
			StateEntryDate: k.StateEntryDate,
			Date:           k.CurrentDate,
			Units:          units,
		})
	}
}

func legByID(network entities.Network, id entities.LegID) (entities.RouteLeg, bool) {
	for _, leg := range network.Legs {
		if leg.ID == id {
			return leg, true
		}
	}
	return entities.RouteLeg{}, false
}

// extractLaborHours reports labor_hours_used, labor_hours_paid, and (fixed
// days only) the regular/overtime split (spec.md §6.2 "labor_hours_by_date").
func extractLaborHours(m *constraints.Model, result solver.Result, calendar entities.LaborCalendar, sol *dto.OptimizationSolution) error {
	for dateUnix, usedVar := range m.LaborHours {
		date := time.Unix(dateUnix, 0).UTC()
		day, err := calendar.Lookup(date)
		if err != nil {
			return &dto.StructuralError{Reason: fmt.Sprintf("labor hours extracted for a date absent from the calendar: %s", date.Format("2006-01-02"))}
		}

		breakdown := dto.LaborHoursBreakdown{
			Date:       date,
			Used:       result.Solution.Value(usedVar),
			Paid:       result.Solution.Value(m.LaborHoursPaid[dateUnix]),
			IsFixedDay: day.IsFixedDay,
		}
		if day.IsFixedDay {
			breakdown.Fixed = result.Solution.Value(m.FixedHoursUsed[dateUnix])
			breakdown.Overtime = result.Solution.Value(m.OvertimeHoursUsed[dateUnix])
		}
		sol.LaborHours = append(sol.LaborHours, breakdown)
	}
	return nil
}

func extractCostBreakdown(m *constraints.Model, result solver.Result, costs entities.CostStructure, calendar entities.LaborCalendar) dto.TotalCostBreakdown {
	breakdown := dto.TotalCostBreakdown{}

	for _, v := range m.Production {
		breakdown.Production += result.Solution.Value(v) * entities.FlowValueScale * costs.ProductionCostPerUnit
	}
	legCost := make(map[entities.LegID]float64, len(m.Network().Legs))
	for _, leg := range m.Network().Legs {
		legCost[leg.ID] = leg.CostPerUnit
	}
	for k, v := range m.Shipment {
		breakdown.Transport += result.Solution.Value(v) * entities.FlowValueScale * legCost[k.Leg]
	}
	for k, v := range m.Pallets {
		breakdown.Holding += float64(result.Solution.Value(v)) * costs.HoldingCostPerPalletDay(k.State)
	}
	for _, v := range m.Shortage {
		breakdown.Shortage += result.Solution.Value(v) * entities.FlowValueScale * costs.ShortagePenaltyPerUnit
	}
	for _, v := range m.Disposal {
		breakdown.Disposal += result.Solution.Value(v) * entities.FlowValueScale * costs.DisposalPenaltyPerUnit
	}
	for _, v := range m.ChangeoverStart {
		breakdown.Changeover += result.Solution.Value(v) * costs.ChangeoverCostPerStart
	}
	for dateUnix := range m.LaborHours {
		date := time.Unix(dateUnix, 0).UTC()
		day, err := calendar.Lookup(date)
		if err != nil {
			continue
		}
		if day.IsFixedDay {
			breakdown.Labor += result.Solution.Value(m.FixedHoursUsed[dateUnix]) * day.RegularRate
			breakdown.Labor += result.Solution.Value(m.OvertimeHoursUsed[dateUnix]) * day.OvertimeRate
		} else {
			breakdown.Labor += result.Solution.Value(m.LaborHoursPaid[dateUnix]) * day.NonFixedRate
		}
	}

	breakdown.Total = breakdown.Production + breakdown.Holding + breakdown.Transport +
		breakdown.Labor + breakdown.Changeover + breakdown.Shortage + breakdown.Disposal
	return breakdown
}
