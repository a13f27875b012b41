// Package objective implements C3: it assembles the mip.Model's objective
// function from a CostStructure and the constraint model's variable maps
// (spec.md §4.3). Every flow-valued coefficient is pre-multiplied by
// FlowValueScale to compensate for the ×1000 variable scaling applied in C2
// (spec.md §9 "Scaling consistency"); labor-hour and pallet coefficients are
// not rescaled.
package objective

import (
	"time"

	"github.com/breadnet/planner/pkg/domain/entities"
	"github.com/breadnet/planner/pkg/domain/services/constraints"
)

// Build sets the model's objective to minimize total network cost:
// production + holding + transport + labor + changeover + shortage penalty +
// disposal penalty, less a freshness incentive that softly rewards
// consuming older-entry-date cohorts first (spec.md §4.3 "FIFO/freshness
// incentive" — a soft bias, never a hard FEFO constraint; see spec.md §9).
func Build(m *constraints.Model, costs entities.CostStructure, calendar entities.LaborCalendar) error {
	m.MIP.Objective().SetMinimize()

	addProductionCost(m, costs)
	addHoldingCost(m, costs)
	addTransportCost(m)
	if err := addLaborCost(m, calendar); err != nil {
		return err
	}
	addChangeoverCost(m, costs)
	addShortageAndDisposalPenalties(m, costs)
	addFreshnessIncentive(m, costs)

	return nil
}

func addProductionCost(m *constraints.Model, costs entities.CostStructure) {
	coeff := costs.ProductionCostPerUnit * entities.FlowValueScale
	for _, v := range m.Production {
		m.MIP.Objective().NewTerm(coeff, v)
	}
}

func addHoldingCost(m *constraints.Model, costs entities.CostStructure) {
	for k, palletVar := range m.Pallets {
		rate := costs.HoldingCostPerPalletDay(k.State)
		m.MIP.Objective().NewTerm(rate, palletVar)
	}
}

// addTransportCost charges each shipment variable the originating leg's
// cost-per-unit, rescaled for the flow-variable scale factor.
func addTransportCost(m *constraints.Model) {
	network := m.Network()
	for k, v := range m.Shipment {
		leg, ok := legByID(network, k.Leg)
		if !ok {
			continue
		}
		coeff := leg.CostPerUnit * entities.FlowValueScale
		m.MIP.Objective().NewTerm(coeff, v)
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

// addLaborCost prices labor_hours_paid, not labor_hours_used: fixed days
// split the paid total into fixed_hours_used at RegularRate and
// overtime_hours_used at OvertimeRate, and non-fixed days price the whole
// paid total (which already embeds the 4-hour minimum floor) at
// NonFixedRate (spec.md §3 invariant 5, §4.2 "Labor").
func addLaborCost(m *constraints.Model, calendar entities.LaborCalendar) error {
	for dateUnix := range m.LaborHours {
		date := time.Unix(dateUnix, 0).UTC()
		day, err := calendar.Lookup(date)
		if err != nil {
			return err
		}
		if day.IsFixedDay {
			if fixedVar, ok := m.FixedHoursUsed[dateUnix]; ok {
				m.MIP.Objective().NewTerm(day.RegularRate, fixedVar)
			}
			if overtimeVar, ok := m.OvertimeHoursUsed[dateUnix]; ok {
				m.MIP.Objective().NewTerm(day.OvertimeRate, overtimeVar)
			}
		} else {
			m.MIP.Objective().NewTerm(day.NonFixedRate, m.LaborHoursPaid[dateUnix])
		}
	}
	return nil
}

func addChangeoverCost(m *constraints.Model, costs entities.CostStructure) {
	for _, v := range m.ChangeoverStart {
		m.MIP.Objective().NewTerm(costs.ChangeoverCostPerStart, v)
	}
}

func addShortageAndDisposalPenalties(m *constraints.Model, costs entities.CostStructure) {
	shortageCoeff := costs.ShortagePenaltyPerUnit * entities.FlowValueScale
	for _, v := range m.Shortage {
		m.MIP.Objective().NewTerm(shortageCoeff, v)
	}
	disposalCoeff := costs.DisposalPenaltyPerUnit * entities.FlowValueScale
	for _, v := range m.Disposal {
		m.MIP.Objective().NewTerm(disposalCoeff, v)
	}
}

// addFreshnessIncentive adds a small per-unit cost proportional to cohort
// age at the moment of demand consumption, so the solver prefers consuming
// older stock first when indifferent on hard cost, without ever forcing
// strict FEFO (spec.md §4.3, §9 "FEFO vs soft freshness").
func addFreshnessIncentive(m *constraints.Model, costs entities.CostStructure) {
	if costs.FreshnessWeight <= 0 {
		return
	}
	for k, v := range m.DemandConsumption {
		age := float64(k.AgeInState(k.CurrentDate))
		coeff := costs.FreshnessWeight * age * entities.FlowValueScale
		m.MIP.Objective().NewTerm(coeff, v)
	}
}
