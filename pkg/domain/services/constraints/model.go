// Package constraints implements C2 of the planning core: it turns an
// IndexSet, network, and scenario data into a mip.Model with every decision
// variable and constraint the sliding-window solve needs (spec.md §4.2). It
// is grounded on the nextmv mip SDK usage pattern shown by the order
// fulfillment knapsack template (NewModel/NewFloat/NewBool/NewConstraint),
// generalized from a single-period assignment problem to a cohort-indexed,
// multi-period flow network.
package constraints

import (
	"fmt"

	"github.com/nextmv-io/sdk/mip"

	"github.com/breadnet/planner/pkg/domain/entities"
	"github.com/breadnet/planner/pkg/domain/services/indexbuilder"
)

// unboundedFlow is the practical upper bound used for every flow-valued
// variable. The mip SDK requires a finite upper bound; this value is far
// above any realizable scaled (units/FlowValueScale) quantity for a single
// network/day/product in this domain.
const unboundedFlow = 1e9

// unboundedPallets bounds the integer pallet variables similarly.
const unboundedPallets = 1_000_000

// productDayKey identifies a (product, day) pair for the labor/changeover
// binaries, which are not cohort-scoped.
type productDayKey struct {
	Product entities.ProductID
	Date    entities.Date
}

// Model holds the mip.Model plus every variable map the objective builder
// (C3), solver driver (C4), and extractor (Cx) need to read back.
type Model struct {
	MIP *mip.Model

	// Production[k] is scaled units/FlowValueScale produced at the
	// manufacturing node on date k.Date.
	Production map[entities.ProductionKey]mip.Float

	// Inventory[k] is scaled units/FlowValueScale of the cohort on hand at
	// k.CurrentDate.
	Inventory map[entities.InventoryCohortKey]mip.Float

	// Shipment[k] is scaled units/FlowValueScale of the cohort departing
	// over k.Leg, arriving k.DeliveryDate.
	Shipment map[entities.ShipmentCohortKey]mip.Float

	// DemandConsumption[k] is scaled units/FlowValueScale of an
	// entry-date-resolved inventory cohort consumed to satisfy demand on
	// k.CurrentDate. Only populated for AMBIENT/THAWED cohorts with demand.
	DemandConsumption map[entities.InventoryCohortKey]mip.Float

	// DemandSatisfied[k] is the entry-date-free aggregate the
	// DemandCohortIndex names (spec.md §9 "Demand-cohort granularity"):
	// sum of DemandConsumption across every entry date sharing k's
	// (node, product, production_date, demand_date, state).
	DemandSatisfied map[entities.DemandCohortKey]mip.Float

	// Shortage[k] is scaled units/FlowValueScale of unmet demand at
	// (node, product, date), independent of cohort.
	Shortage map[entities.DemandKey]mip.Float

	// Disposal[k] is scaled units/FlowValueScale of the cohort discarded on
	// k.CurrentDate (voluntary disposal, or forced at shelf-life expiry).
	Disposal map[entities.InventoryCohortKey]mip.Float

	// Thaw[k] is scaled units/FlowValueScale of the FROZEN cohort k
	// converted to THAWED on k.CurrentDate, at a node that holds both
	// FROZEN and AMBIENT stock.
	Thaw map[entities.InventoryCohortKey]mip.Float

	// Freeze[k] is scaled units/FlowValueScale of the AMBIENT cohort k
	// converted to FROZEN on k.CurrentDate, at a node that holds both.
	Freeze map[entities.InventoryCohortKey]mip.Float

	// Pallets[k] is the integer pallet ceiling for the aggregated cohort k,
	// used to price pallet-day holding cost.
	Pallets map[entities.PalletCohortKey]mip.Int

	// TruckPallets[k] is the integer pallet ceiling a truck schedule loads
	// to one destination on one departure date, aggregated across every
	// product/cohort it carries there (spec.md §4.2 "Truck loading and
	// pallet ceiling").
	TruckPallets map[entities.TruckPalletKey]mip.Int

	// LaborHours[date.Unix()] is labor_hours_used: the continuous labor
	// hours a manufacturing day's production, startup/shutdown, and
	// changeovers actually require (spec.md §4.2 "Labor constraints").
	LaborHours map[int64]mip.Float

	// LaborHoursPaid[date.Unix()] is labor_hours_paid: on fixed days, the
	// sum of FixedHoursUsed and OvertimeHoursUsed; on non-fixed days, at
	// least the 4-hour minimum whenever the day is active, and always at
	// least LaborHours (spec.md §4.2).
	LaborHoursPaid map[int64]mip.Float

	// FixedHoursUsed[date.Unix()] is populated only for fixed labor days:
	// hours worked within the day's fixed_hours_cap, priced at RegularRate.
	FixedHoursUsed map[int64]mip.Float

	// OvertimeHoursUsed[date.Unix()] is populated only for fixed labor
	// days: hours worked beyond the fixed cap, up to FixedDayOvertimeCapHours,
	// priced at OvertimeRate.
	OvertimeHoursUsed map[int64]mip.Float

	// DayIsActive[date.Unix()] is 1 if any production occurs that day.
	DayIsActive map[int64]mip.Bool

	// ProductActive[k] is 1 if product k.Product runs at all on k.Date.
	ProductActive map[productDayKey]mip.Bool

	// ChangeoverStart[k] is 1 if product k.Product starts fresh (was not
	// active the prior day) on k.Date.
	ChangeoverStart map[productDayKey]mip.Bool

	index    *indexbuilder.IndexSet
	network  entities.Network
	horizon  []entities.Date
	forecast entities.Forecast
}

// NewModel allocates the mip.Model and every decision variable named by
// SPEC_FULL.md's C2 component, but adds no constraints — callers invoke
// BuildMaterialBalance, BuildLaborConstraints, and BuildTruckConstraints in
// sequence (spec.md §4.2 "Operations").
func NewModel(
	index *indexbuilder.IndexSet,
	network entities.Network,
	horizon []entities.Date,
	products []entities.Product,
	forecast entities.Forecast,
) (*Model, error) {
	if index == nil {
		return nil, entities.NewModelError("constraints", "index set cannot be nil")
	}
	if len(horizon) == 0 {
		return nil, entities.NewModelError("constraints", "horizon cannot be empty")
	}

	m := &Model{
		MIP:               mip.NewModel(),
		Production:        make(map[entities.ProductionKey]mip.Float, len(index.Production)),
		Inventory:         make(map[entities.InventoryCohortKey]mip.Float, len(index.Inventory)),
		Shipment:          make(map[entities.ShipmentCohortKey]mip.Float, len(index.Shipment)),
		DemandConsumption: make(map[entities.InventoryCohortKey]mip.Float),
		DemandSatisfied:   make(map[entities.DemandCohortKey]mip.Float, len(index.DemandCohort)),
		Shortage:          make(map[entities.DemandKey]mip.Float),
		Disposal:          make(map[entities.InventoryCohortKey]mip.Float, len(index.Inventory)),
		Thaw:              make(map[entities.InventoryCohortKey]mip.Float),
		Freeze:            make(map[entities.InventoryCohortKey]mip.Float),
		Pallets:           make(map[entities.PalletCohortKey]mip.Int, len(index.Pallet)),
		TruckPallets:      make(map[entities.TruckPalletKey]mip.Int),
		LaborHours:        make(map[int64]mip.Float, len(horizon)),
		LaborHoursPaid:    make(map[int64]mip.Float, len(horizon)),
		FixedHoursUsed:    make(map[int64]mip.Float),
		OvertimeHoursUsed: make(map[int64]mip.Float),
		DayIsActive:       make(map[int64]mip.Bool, len(horizon)),
		ProductActive:     make(map[productDayKey]mip.Bool),
		ChangeoverStart:   make(map[productDayKey]mip.Bool),
		index:             index,
		network:           network,
		horizon:           horizon,
		forecast:          forecast,
	}

	for _, k := range index.Production {
		m.Production[k] = m.MIP.NewFloat(0, unboundedFlow)
	}
	for _, k := range index.Inventory {
		m.Inventory[k] = m.MIP.NewFloat(0, unboundedFlow)
		m.Disposal[k] = m.MIP.NewFloat(0, unboundedFlow)
	}
	for _, k := range index.Shipment {
		m.Shipment[k] = m.MIP.NewFloat(0, unboundedFlow)
	}
	for _, k := range index.DemandCohort {
		m.DemandSatisfied[k] = m.MIP.NewFloat(0, unboundedFlow)
	}
	for _, k := range index.Pallet {
		m.Pallets[k] = m.MIP.NewInt(0, unboundedPallets)
	}

	demandKeys := make(map[entities.DemandKey]bool)
	for _, d := range forecast.Entries {
		demandKeys[entities.DemandKey{Node: d.Node, Product: d.Product, Date: d.Date}] = true
	}
	for key := range demandKeys {
		m.Shortage[key] = m.MIP.NewFloat(0, unboundedFlow)
	}

	// DemandConsumption variables: one per inventory cohort that can
	// physically satisfy demand (AMBIENT/THAWED, at a node/product/date
	// combination the forecast actually names).
	for _, k := range index.Inventory {
		if k.State != entities.StateAmbient && k.State != entities.StateThawed {
			continue
		}
		if !demandKeys[entities.DemandKey{Node: k.Node, Product: k.Product, Date: k.CurrentDate}] {
			continue
		}
		m.DemandConsumption[k] = m.MIP.NewFloat(0, unboundedFlow)
	}

	if err := m.buildThawFreezeVariables(); err != nil {
		return nil, fmt.Errorf("constraints: %w", err)
	}

	for _, d := range horizon {
		m.LaborHours[d.Unix()] = m.MIP.NewFloat(0, entities.DayActiveBigM)
		m.LaborHoursPaid[d.Unix()] = m.MIP.NewFloat(0, entities.DayActiveBigM)
		m.DayIsActive[d.Unix()] = m.MIP.NewBool()
	}
	for _, p := range products {
		for _, d := range horizon {
			key := productDayKey{Product: p.ID, Date: d}
			m.ProductActive[key] = m.MIP.NewBool()
			m.ChangeoverStart[key] = m.MIP.NewBool()
		}
	}

	return m, nil
}

// buildThawFreezeVariables creates a Thaw/Freeze variable for every inventory
// cohort at a node that supports the other state, so the transition can
// occur on any day the cohort exists (spec.md §3 "Freeze/thaw transitions").
func (m *Model) buildThawFreezeVariables() error {
	for _, k := range m.index.Inventory {
		node, ok := m.network.NodeByID(k.Node)
		if !ok {
			return fmt.Errorf("inventory cohort references unknown node %s", k.Node)
		}
		switch k.State {
		case entities.StateFrozen:
			if node.SupportsState(entities.StateAmbient) {
				m.Thaw[k] = m.MIP.NewFloat(0, unboundedFlow)
			}
		case entities.StateAmbient:
			if node.SupportsState(entities.StateFrozen) {
				m.Freeze[k] = m.MIP.NewFloat(0, unboundedFlow)
			}
		}
	}
	return nil
}

// Network returns the network the model was built over, for callers
// (objective, extractor, window) that need leg/node lookups alongside the
// variable maps.
func (m *Model) Network() entities.Network {
	return m.network
}

// Horizon returns the planning horizon dates the model was built over.
func (m *Model) Horizon() []entities.Date {
	return m.horizon
}
