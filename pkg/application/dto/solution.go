// Package dto holds the typed, JSON-serializable shapes the planning core
// hands across the core->UI boundary, grounded on the teacher's MRPResult
// shape (a flat result struct holding the run's decision collections) but
// expanded with the three-layer validation the spec requires (spec.md §6).
package dto

import (
	"time"

	"github.com/breadnet/planner/pkg/domain/entities"
)

// ShipmentResult is one committed shipment decision.
type ShipmentResult struct {
	Leg            entities.LegID     `json:"leg"`
	Product        entities.ProductID `json:"product"`
	ProductionDate time.Time          `json:"production_date"`
	StateEntryDate time.Time          `json:"state_entry_date"`
	DeliveryDate   time.Time          `json:"delivery_date"`
	State          string             `json:"state"`
	Units          int64              `json:"units"`
}

// ProductionResult is one committed production decision.
type ProductionResult struct {
	Product entities.ProductID `json:"product"`
	Date    time.Time          `json:"date"`
	Units   int64              `json:"units"`
}

// ShortageResult is unmet demand at a (node, product, date).
type ShortageResult struct {
	Node    entities.NodeID    `json:"node"`
	Product entities.ProductID `json:"product"`
	Date    time.Time          `json:"date"`
	Units   int64              `json:"units"`
}

// LaborHoursBreakdown is the committed labor hours on a single day:
// labor_hours_used, labor_hours_paid, and (fixed days only) the split of
// paid hours into the regular-rate and overtime-rate bands (spec.md §6.2
// "labor_hours_by_date").
type LaborHoursBreakdown struct {
	Date       time.Time `json:"date"`
	Used       float64   `json:"used"`
	Paid       float64   `json:"paid"`
	Fixed      float64   `json:"fixed"`
	Overtime   float64   `json:"overtime"`
	IsFixedDay bool      `json:"is_fixed_day"`
}

// TruckAssignment names the truck schedule that carries one shipment
// (spec.md §6.2 "truck_assignments": ShipmentKey -> TruckID, truck-id always
// a string).
type TruckAssignment struct {
	Leg            entities.LegID     `json:"leg"`
	Product        entities.ProductID `json:"product"`
	ProductionDate time.Time          `json:"production_date"`
	StateEntryDate time.Time          `json:"state_entry_date"`
	DeliveryDate   time.Time          `json:"delivery_date"`
	State          string             `json:"state"`
	TruckID        string             `json:"truck_id"`
}

// CohortInventory is the committed on-hand quantity of one cohort at a
// current date (spec.md §6.2 "inventory_state or cohort_inventory").
type CohortInventory struct {
	Node           entities.NodeID    `json:"node"`
	Product        entities.ProductID `json:"product"`
	ProductionDate time.Time          `json:"production_date"`
	StateEntryDate time.Time          `json:"state_entry_date"`
	CurrentDate    time.Time          `json:"current_date"`
	State          string             `json:"state"`
	Units          int64              `json:"units"`
}

// ThawFreezeFlow is one cohort's state-transition units on one day
// (spec.md §6.2 "thaw_flows, freeze_flows").
type ThawFreezeFlow struct {
	Node           entities.NodeID    `json:"node"`
	Product        entities.ProductID `json:"product"`
	ProductionDate time.Time          `json:"production_date"`
	StateEntryDate time.Time          `json:"state_entry_date"`
	Date           time.Time          `json:"date"`
	Units          int64              `json:"units"`
}

// DemandFulfillment is the quantity of one specific cohort consumed against
// one (node, product, date) demand point, the granularity the FEFO post-pass
// reallocates across (spec.md §9 "Demand-cohort granularity").
type DemandFulfillment struct {
	Node           entities.NodeID    `json:"node"`
	Product        entities.ProductID `json:"product"`
	Date           time.Time          `json:"date"`
	ProductionDate time.Time          `json:"production_date"`
	StateEntryDate time.Time          `json:"state_entry_date"`
	State          string             `json:"state"`
	Units          int64              `json:"units"`
}

// TotalCostBreakdown itemizes the committed objective value.
type TotalCostBreakdown struct {
	Production  float64 `json:"production"`
	Holding     float64 `json:"holding"`
	Transport   float64 `json:"transport"`
	Labor       float64 `json:"labor"`
	Changeover  float64 `json:"changeover"`
	Shortage    float64 `json:"shortage"`
	Disposal    float64 `json:"disposal"`
	Total       float64 `json:"total"`
}

// OptimizationSolution is the fully validated, typed result of a sliding-
// window planning run (spec.md §6 "Output schema"). extractor.Extract builds
// it and runs the three-layer validation before returning it; the fields are
// exported, so a value assembled elsewhere has not been validated.
type OptimizationSolution struct {
	RunID             string                `json:"run_id"`
	GeneratedAt       time.Time             `json:"generated_at"`
	ModelType         string                `json:"model_type"`
	HorizonStart      time.Time             `json:"horizon_start"`
	HorizonEnd        time.Time             `json:"horizon_end"`
	Status            string                `json:"status"`
	Production        []ProductionResult    `json:"production"`
	Shipments         []ShipmentResult      `json:"shipments"`
	TruckAssignments  []TruckAssignment     `json:"truck_assignments"`
	Shortages         []ShortageResult      `json:"shortages"`
	DemandFulfillment []DemandFulfillment   `json:"demand_fulfillment"`
	CohortInventory   []CohortInventory     `json:"cohort_inventory"`
	ThawFlows         []ThawFreezeFlow      `json:"thaw_flows"`
	FreezeFlows       []ThawFreezeFlow      `json:"freeze_flows"`
	LaborHours        []LaborHoursBreakdown `json:"labor_hours"`
	Cost              TotalCostBreakdown    `json:"cost"`
	MIPGap            float64               `json:"mip_gap"`
	WallTimeMs        int64                 `json:"wall_time_ms"`
}

// ModelTypeSlidingWindow is the only model_type this planner produces
// (spec.md §6.2: enum {SLIDING_WINDOW, UNIFIED_COHORT} — UNIFIED_COHORT is
// a different C2 formulation this repo does not implement).
const ModelTypeSlidingWindow = "SLIDING_WINDOW"
