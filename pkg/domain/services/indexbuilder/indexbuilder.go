package indexbuilder

import (
	"fmt"
	"sort"

	"github.com/breadnet/planner/pkg/domain/entities"
)

// IndexSet is the complete sparse index set produced by C1 (spec.md §3 "Indices").
type IndexSet struct {
	Inventory    []entities.InventoryCohortKey
	Shipment     []entities.ShipmentCohortKey
	DemandCohort []entities.DemandCohortKey
	Pallet       []entities.PalletCohortKey
	Production   []entities.ProductionKey

	Reachability *ReachabilityTable
}

// BuildIndices enumerates every admitted index element for the given
// network, horizon, product set, forecast, and initial inventory snapshot
// (spec.md §4.1 "Operations"). It is a pure function of its inputs — no I/O.
func BuildIndices(
	network entities.Network,
	horizon []entities.Date,
	products []entities.Product,
	forecast entities.Forecast,
	initialInv entities.InitialInventory,
) (*IndexSet, error) {
	if len(horizon) == 0 {
		return nil, entities.NewModelError("indexbuilder", "horizon must contain at least one date")
	}

	reach, err := BuildReachability(network)
	if err != nil {
		return nil, fmt.Errorf("indexbuilder: %w", err)
	}

	mfg, err := network.ManufacturingNode()
	if err != nil {
		return nil, fmt.Errorf("indexbuilder: %w", err)
	}

	for _, node := range network.Nodes {
		if node.ID == mfg.ID {
			continue
		}
		if !reach.IsReachable(node.ID) {
			continue // unreachable nodes simply get no index entries
		}
	}

	set := &IndexSet{Reachability: reach}

	set.Production = buildProductionIndex(mfg.ID, horizon)
	set.Inventory = buildInventoryIndex(network, horizon, products, reach, initialInv)
	set.Shipment = buildShipmentIndex(network, horizon, products, set.Inventory)
	set.DemandCohort = buildDemandCohortIndex(network, horizon, forecast, reach)
	set.Pallet = buildPalletIndex(set.Inventory)

	return set, nil
}

func buildProductionIndex(mfg entities.NodeID, horizon []entities.Date) []entities.ProductionKey {
	var out []entities.ProductionKey
	for _, d := range horizon {
		out = append(out, entities.ProductionKey{Node: mfg, Date: d})
	}
	return out
}

// buildInventoryIndex admits (node, product, prod_date, entry_date, curr_date, state)
// tuples per spec.md §3's admission rule: prod_date <= entry_date <= curr_date,
// the node is reachable within curr_date - prod_date days, shelf life is not
// exceeded, and the node supports the state. Initial-inventory cohorts are
// seeded at the horizon's first date with prod_date preceding the horizon.
func buildInventoryIndex(
	network entities.Network,
	horizon []entities.Date,
	products []entities.Product,
	reach *ReachabilityTable,
	initialInv entities.InitialInventory,
) []entities.InventoryCohortKey {
	var out []entities.InventoryCohortKey
	horizonStart := horizon[0]

	for _, node := range network.Nodes {
		earliest, ok := reach.EarliestArrivalDays[node.ID]
		if !ok {
			continue
		}

		// A node holding both FROZEN and AMBIENT stock can thaw a frozen
		// cohort into a THAWED cohort (spec.md §3 "Freeze/thaw
		// transitions"), even though THAWED is never itself a declared
		// storage mode (spec.md line 38 restricts storage_modes to
		// {FROZEN, AMBIENT}). Admit THAWED cohorts at such nodes directly,
		// mirroring the thaw-eligibility check buildThawFreezeVariables
		// uses to create the Thaw decision variable, so a thawed cohort
		// always has an admitted inventory entry to land in.
		admittedStates := make(map[entities.State]bool, len(node.StorageModes)+1)
		for state, on := range node.StorageModes {
			if on {
				admittedStates[state] = true
			}
		}
		if node.SupportsState(entities.StateFrozen) && node.SupportsState(entities.StateAmbient) {
			admittedStates[entities.StateThawed] = true
		}

		for _, product := range products {
			for _, prodDate := range horizon {
				for _, currDate := range horizon {
					if daysBetween(currDate, prodDate) < earliest {
						continue // node not yet reachable by currDate for this production date
					}
					if currDate.Before(prodDate) {
						continue
					}
					for state := range admittedStates {
						for _, entryDate := range datesBetween(prodDate, currDate) {
							key, err := entities.NewCohortKey(node.ID, product.ID, prodDate, entryDate, state)
							if err != nil {
								continue
							}
							if !key.WithinShelfLife(currDate) {
								continue
							}
							out = append(out, entities.InventoryCohortKey{CohortKey: key, CurrentDate: currDate})
						}
					}
				}
			}
		}
	}

	// Seed initial-inventory cohorts: production/entry predate the horizon,
	// current date is the horizon start.
	for key, qty := range initialInv.Entries {
		if qty <= 0 {
			continue
		}
		prodDate := entities.NormalizeDate(initialInv.SnapshotDate)
		cohortKey, err := entities.NewCohortKey(key.Node, key.Product, prodDate, prodDate, key.State)
		if err != nil {
			continue
		}
		if !cohortKey.WithinShelfLife(horizonStart) {
			continue
		}
		out = append(out, entities.InventoryCohortKey{CohortKey: cohortKey, CurrentDate: horizonStart})
	}

	sortInventory(out)
	return dedupeInventory(out)
}

// buildShipmentIndex admits (leg, product, prod_date, entry_date, delivery_date, state)
// tuples where delivery >= entry, the leg's transport mode is compatible
// with state, and the departing cohort is in the inventory index at the
// leg's origin on the departure date (delivery date minus transit days).
func buildShipmentIndex(
	network entities.Network,
	horizon []entities.Date,
	products []entities.Product,
	inventory []entities.InventoryCohortKey,
) []entities.ShipmentCohortKey {
	originCohorts := make(map[entities.NodeID]map[cohortIdentity]bool)
	onHand := make(map[entities.InventoryCohortKey]bool, len(inventory))
	for _, inv := range inventory {
		onHand[inv] = true
		if originCohorts[inv.Node] == nil {
			originCohorts[inv.Node] = make(map[cohortIdentity]bool)
		}
		originCohorts[inv.Node][cohortIdentity{
			Product:        inv.Product,
			ProductionDate: inv.ProductionDate,
			StateEntryDate: inv.StateEntryDate,
			State:          inv.State,
		}] = true
	}

	var out []entities.ShipmentCohortKey
	for _, leg := range network.Legs {
		cohorts := originCohorts[leg.Origin]
		for identity := range cohorts {
			if identity.State != leg.TransportMode {
				continue
			}
			for _, deliveryDate := range horizon {
				if deliveryDate.Before(identity.StateEntryDate) {
					continue
				}
				if !withinShelfLifeAt(identity.State, identity.StateEntryDate, deliveryDate) {
					continue
				}
				departure := entities.InventoryCohortKey{
					CohortKey: entities.CohortKey{
						Node: leg.Origin, Product: identity.Product, ProductionDate: identity.ProductionDate,
						StateEntryDate: identity.StateEntryDate, State: identity.State,
					},
					CurrentDate: deliveryDate.AddDate(0, 0, -leg.TransitDays),
				}
				if !onHand[departure] {
					continue
				}
				out = append(out, entities.ShipmentCohortKey{
					Leg:            leg.ID,
					Product:        identity.Product,
					ProductionDate: identity.ProductionDate,
					StateEntryDate: identity.StateEntryDate,
					DeliveryDate:   deliveryDate,
					State:          identity.State,
				})
			}
		}
	}
	_ = products
	return out
}

// buildDemandCohortIndex admits (node, product, prod_date, demand_date, state)
// tuples for every demand point, across every production date from which
// the node is reachable in time. Demand is satisfiable from AMBIENT or
// THAWED cohorts only (spec.md §9 "Demand-cohort granularity").
func buildDemandCohortIndex(
	network entities.Network,
	horizon []entities.Date,
	forecast entities.Forecast,
	reach *ReachabilityTable,
) []entities.DemandCohortKey {
	var out []entities.DemandCohortKey
	seen := make(map[entities.DemandCohortKey]bool)

	for _, demand := range forecast.Entries {
		if demand.Quantity <= 0 {
			continue
		}
		earliest, ok := reach.EarliestArrivalDays[demand.Node]
		if !ok {
			continue
		}
		for _, prodDate := range horizon {
			if daysBetween(demand.Date, prodDate) < earliest {
				continue
			}
			if demand.Date.Before(prodDate) {
				continue
			}
			for _, state := range []entities.State{entities.StateAmbient, entities.StateThawed} {
				key := entities.DemandCohortKey{
					Node:           demand.Node,
					Product:        demand.Product,
					ProductionDate: prodDate,
					DemandDate:     demand.Date,
					State:          state,
				}
				if seen[key] {
					continue
				}
				seen[key] = true
				out = append(out, key)
			}
		}
	}
	return out
}

// buildPalletIndex aggregates the inventory index over entry date.
func buildPalletIndex(inventory []entities.InventoryCohortKey) []entities.PalletCohortKey {
	seen := make(map[entities.PalletCohortKey]bool)
	var out []entities.PalletCohortKey
	for _, inv := range inventory {
		key := entities.PalletCohortKey{
			Node:           inv.Node,
			Product:        inv.Product,
			ProductionDate: inv.ProductionDate,
			CurrentDate:    inv.CurrentDate,
			State:          inv.State,
		}
		if seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, key)
	}
	return out
}

type cohortIdentity struct {
	Product        entities.ProductID
	ProductionDate entities.Date
	StateEntryDate entities.Date
	State          entities.State
}

func daysBetween(later, earlier entities.Date) int {
	return int(later.Sub(earlier).Hours() / 24)
}

func datesBetween(start, end entities.Date) []entities.Date {
	var out []entities.Date
	for d := start; !d.After(end); d = d.AddDate(0, 0, 1) {
		out = append(out, d)
	}
	return out
}

func withinShelfLifeAt(state entities.State, entryDate, currDate entities.Date) bool {
	return daysBetween(currDate, entryDate) <= entities.ShelfLifeDays[state]
}

func sortInventory(keys []entities.InventoryCohortKey) {
	sort.Slice(keys, func(i, j int) bool {
		a, b := keys[i], keys[j]
		if a.Node != b.Node {
			return a.Node < b.Node
		}
		if a.Product != b.Product {
			return a.Product < b.Product
		}
		if !a.ProductionDate.Equal(b.ProductionDate) {
			return a.ProductionDate.Before(b.ProductionDate)
		}
		if !a.StateEntryDate.Equal(b.StateEntryDate) {
			return a.StateEntryDate.Before(b.StateEntryDate)
		}
		if !a.CurrentDate.Equal(b.CurrentDate) {
			return a.CurrentDate.Before(b.CurrentDate)
		}
		return a.State < b.State
	})
}

func dedupeInventory(keys []entities.InventoryCohortKey) []entities.InventoryCohortKey {
	if len(keys) == 0 {
		return keys
	}
	out := keys[:1]
	for _, k := range keys[1:] {
		if k != out[len(out)-1] {
			out = append(out, k)
		}
	}
	return out
}
