package window

import (
	"sort"

	"github.com/breadnet/planner/pkg/application/dto"
	"github.com/breadnet/planner/pkg/application/services/solver"
	"github.com/breadnet/planner/pkg/domain/entities"
	"github.com/breadnet/planner/pkg/domain/services/constraints"
)

// ApplyFEFOPostPass reorders the extracted DemandFulfillment breakdown so
// that, within every (node, product, date) demand point, older cohorts are
// reported consumed before newer ones (spec.md §9 "FEFO post-pass"). It never
// changes the solved aggregate consumed against any demand point or the
// solver's own cost-minimizing allocation — the MILP already chose which
// cohorts to use via the freshness incentive in the objective (spec.md §4.3
// "Soft freshness incentive"); this pass only relabels which cohort a given
// unit of consumption is reported against, reallocated oldest-state-entry-
// date-first and bounded by each cohort's pre-consumption on-hand quantity,
// so the reported breakdown matches the FEFO discipline a human planner
// would actually apply when pulling stock.
func ApplyFEFOPostPass(m *constraints.Model, result solver.Result, sol *dto.OptimizationSolution) {
	if sol == nil || len(sol.DemandFulfillment) == 0 {
		return
	}

	available := onHandBeforeConsumption(m, result, sol)

	groups := make(map[entities.DemandKey][]int)
	for i, f := range sol.DemandFulfillment {
		dk := entities.DemandKey{Node: f.Node, Product: f.Product, Date: f.Date}
		groups[dk] = append(groups[dk], i)
	}

	for _, indices := range groups {
		total := int64(0)
		for _, i := range indices {
			total += sol.DemandFulfillment[i].Units
		}

		sort.Slice(indices, func(a, b int) bool {
			return sol.DemandFulfillment[indices[a]].StateEntryDate.Before(sol.DemandFulfillment[indices[b]].StateEntryDate)
		})

		remaining := total
		for _, i := range indices {
			f := &sol.DemandFulfillment[i]
			limit := available[cohortKey(*f)]
			take := remaining
			if take > limit {
				take = limit
			}
			f.Units = take
			remaining -= take
		}

		// Any undistributed remainder (availability didn't cover the
		// reported total, e.g. same-day disposal/transfer competing for the
		// same cohort) lands on the oldest cohort rather than being
		// silently dropped, preserving the aggregate demand total.
		if remaining > 0 && len(indices) > 0 {
			sol.DemandFulfillment[indices[0]].Units += remaining
		}
	}
}

func cohortKey(f dto.DemandFulfillment) entities.InventoryCohortKey {
	return entities.InventoryCohortKey{
		CohortKey: entities.CohortKey{
			Node:           f.Node,
			Product:        f.Product,
			ProductionDate: f.ProductionDate,
			StateEntryDate: f.StateEntryDate,
			State:          stateFromString(f.State),
		},
		CurrentDate: f.Date,
	}
}

func stateFromString(s string) entities.State {
	switch s {
	case entities.StateFrozen.String():
		return entities.StateFrozen
	case entities.StateThawed.String():
		return entities.StateThawed
	default:
		return entities.StateAmbient
	}
}

// onHandBeforeConsumption computes, for every consumed cohort, the quantity
// on hand just before demand withdrew from it: the solved ending inventory
// plus whatever was consumed against it (the balance equation's inflow,
// spec.md §4.2 "Material balance").
func onHandBeforeConsumption(m *constraints.Model, result solver.Result, sol *dto.OptimizationSolution) map[entities.InventoryCohortKey]int64 {
	available := make(map[entities.InventoryCohortKey]int64, len(sol.DemandFulfillment))
	for _, f := range sol.DemandFulfillment {
		k := cohortKey(f)
		if v, ok := m.Inventory[k]; ok {
			available[k] += roundedUnits(result.Solution.Value(v))
		}
		available[k] += f.Units
	}
	return available
}
