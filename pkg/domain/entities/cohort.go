package entities

import "fmt"

// CohortKey identifies a physically distinct batch of a product at a node
// on a date: (production_date, state_entry_date, state), scoped to a node
// and product (spec.md §3 "Cohort"). It is the arena index the constraint
// generator iterates over; there are no pointer-linked cohort graphs (see
// spec.md §9 "Cohort graphs and ownership").
type CohortKey struct {
	Node            NodeID
	Product         ProductID
	ProductionDate  Date
	StateEntryDate  Date
	State           State
}

// AgeInState is the number of days the cohort has held its current state as of curr.
func (k CohortKey) AgeInState(curr Date) int {
	return int(curr.Sub(k.StateEntryDate).Hours() / 24)
}

// WithinShelfLife reports whether the cohort's age-in-state at curr is
// within the state's shelf-life bound (spec.md §3 invariant 2).
func (k CohortKey) WithinShelfLife(curr Date) bool {
	return k.AgeInState(curr) <= ShelfLifeDays[k.State]
}

// InventoryCohortKey is an InventoryIndex element: a cohort observed on a
// specific current date (spec.md §3 "Indices").
type InventoryCohortKey struct {
	CohortKey
	CurrentDate Date
}

// ShipmentCohortKey is a ShipmentIndex element: a cohort shipped over a leg
// with a specific delivery date.
type ShipmentCohortKey struct {
	Leg            LegID
	Product        ProductID
	ProductionDate Date
	StateEntryDate Date
	DeliveryDate   Date
	State          State
}

// DemandCohortKey is a DemandCohortIndex element. Per spec.md §9
// ("Demand-cohort granularity"), this is NOT keyed by state-entry-date: the
// solver must not be forced to predict which entry dates will exist.
type DemandCohortKey struct {
	Node           NodeID
	Product        ProductID
	ProductionDate Date
	DemandDate     Date
	State          State
}

// PalletCohortKey is a PalletIndex element, aggregated over entry date.
type PalletCohortKey struct {
	Node           NodeID
	Product        ProductID
	ProductionDate Date
	CurrentDate    Date
	State          State
}

// ProductionKey identifies a production decision: always at the
// manufacturing node, on a permissible production day.
type ProductionKey struct {
	Node    NodeID
	Product ProductID
	Date    Date
}

// NewCohortKey validates and constructs a CohortKey, enforcing
// production_date <= state_entry_date (spec.md §3 "Indices" admission rule).
func NewCohortKey(node NodeID, product ProductID, productionDate, stateEntryDate Date, state State) (CohortKey, error) {
	if node == "" {
		return CohortKey{}, fmt.Errorf("cohort node cannot be empty")
	}
	if product == "" {
		return CohortKey{}, fmt.Errorf("cohort product cannot be empty")
	}
	if stateEntryDate.Before(productionDate) {
		return CohortKey{}, fmt.Errorf(
			"cohort state_entry_date %s cannot precede production_date %s",
			stateEntryDate.Format("2006-01-02"), productionDate.Format("2006-01-02"),
		)
	}
	return CohortKey{
		Node:           node,
		Product:        product,
		ProductionDate: NormalizeDate(productionDate),
		StateEntryDate: NormalizeDate(stateEntryDate),
		State:          state,
	}, nil
}
