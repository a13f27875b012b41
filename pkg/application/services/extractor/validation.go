package extractor

import (
	"fmt"

	"github.com/breadnet/planner/pkg/application/dto"
	"github.com/breadnet/planner/pkg/domain/entities"
)

// validateSchema is Layer 1 (spec.md §6 "Layer 1: Schema"): every required
// field is present and well-formed, independent of cross-reference or
// domain meaning.
func validateSchema(sol *dto.OptimizationSolution) error {
	if sol.RunID == "" {
		return &dto.SchemaError{Field: "run_id", Reason: "cannot be empty"}
	}
	if sol.Status == "" {
		return &dto.SchemaError{Field: "status", Reason: "cannot be empty"}
	}
	if sol.HorizonEnd.Before(sol.HorizonStart) {
		return &dto.SchemaError{Field: "horizon_end", Reason: "cannot precede horizon_start"}
	}
	for i, p := range sol.Production {
		if p.Units < 0 {
			return &dto.SchemaError{Field: fmt.Sprintf("production[%d].units", i), Reason: "cannot be negative"}
		}
	}
	for i, s := range sol.Shipments {
		if s.Units < 0 {
			return &dto.SchemaError{Field: fmt.Sprintf("shipments[%d].units", i), Reason: "cannot be negative"}
		}
	}
	for i, s := range sol.Shortages {
		if s.Units < 0 {
			return &dto.SchemaError{Field: fmt.Sprintf("shortages[%d].units", i), Reason: "cannot be negative"}
		}
	}
	return nil
}

// validateStructural is Layer 2 (spec.md §6 "Layer 2: Structural"):
// cross-references within the document are internally consistent — every
// shipment's leg exists in the network, every shipment's state matches the
// leg's transport mode, no shipment departs before the horizon.
func validateStructural(sol *dto.OptimizationSolution, network entities.Network) error {
	legs := make(map[entities.LegID]entities.RouteLeg, len(network.Legs))
	for _, leg := range network.Legs {
		legs[leg.ID] = leg
	}

	for _, s := range sol.Shipments {
		leg, ok := legs[s.Leg]
		if !ok {
			return &dto.StructuralError{Reason: fmt.Sprintf("shipment references unknown leg %s", s.Leg)}
		}
		if leg.TransportMode.String() != s.State {
			return &dto.StructuralError{Reason: fmt.Sprintf("shipment over leg %s carries state %s but the leg's transport mode is %s", s.Leg, s.State, leg.TransportMode)}
		}
		departDate := s.DeliveryDate.AddDate(0, 0, -leg.TransitDays)
		if departDate.Before(sol.HorizonStart) {
			return &dto.StructuralError{Reason: fmt.Sprintf("shipment over leg %s implies a departure before the horizon start", s.Leg)}
		}
	}
	return nil
}

// validateSemantic is Layer 3 (spec.md §6 "Layer 3: Semantic"): domain
// invariants hold — state-entry date never precedes production date, a
// shipment is never delivered before its cohort entered its state,
// production is a whole number of cases, labor hours paid cover hours used
// (and, on fixed days, the regular plus overtime split), and total cost is
// non-negative.
func validateSemantic(sol *dto.OptimizationSolution) error {
	for _, s := range sol.Shipments {
		if s.StateEntryDate.Before(s.ProductionDate) {
			return &dto.SemanticError{Reason: fmt.Sprintf("shipment of %s has state_entry_date before production_date", s.Product)}
		}
		if s.DeliveryDate.Before(s.StateEntryDate) {
			return &dto.SemanticError{Reason: fmt.Sprintf("shipment of %s delivers before its cohort entered its current state", s.Product)}
		}
	}
	for _, p := range sol.Production {
		if p.Units%entities.CaseSize != 0 {
			return &dto.SemanticError{Reason: fmt.Sprintf("production of %s on %s is not a multiple of case size", p.Product, p.Date.Format("2006-01-02"))}
		}
	}
	for _, l := range sol.LaborHours {
		if l.Paid+semanticTolerance < l.Used {
			return &dto.SemanticError{Reason: fmt.Sprintf("labor_hours_paid on %s is less than labor_hours_used", l.Date.Format("2006-01-02"))}
		}
		if l.IsFixedDay && l.Fixed+l.Overtime-semanticTolerance > l.Paid {
			return &dto.SemanticError{Reason: fmt.Sprintf("fixed_hours_used + overtime_hours_used on %s exceeds labor_hours_paid", l.Date.Format("2006-01-02"))}
		}
	}
	if sol.Cost.Total < 0 {
		return &dto.SemanticError{Reason: "total cost cannot be negative"}
	}
	return nil
}

// semanticTolerance absorbs solver-precision rounding when comparing
// continuous labor-hour quantities (spec.md §4.6 "Layer 3" checks).
const semanticTolerance = 1e-6
