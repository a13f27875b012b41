package constraints

import (
	"github.com/nextmv-io/sdk/mip"

	"github.com/breadnet/planner/pkg/domain/entities"
)

// BuildTruckConstraints adds the pallet ceiling link (spec.md §3 "Pallet"),
// per-departure truck capacity, and the loading-policy restriction on which
// production day's output a truck may carry (spec.md §4.2 "Truck loading").
func (m *Model) BuildTruckConstraints(trucks entities.TruckSchedules) error {
	m.buildPalletCeiling()

	shipmentsByLegDate := make(map[entities.LegID]map[int64][]entities.ShipmentCohortKey)
	for _, sk := range m.index.Shipment {
		leg, ok := legByID(m.network, sk.Leg)
		if !ok {
			continue
		}
		departDate := sk.DeliveryDate.AddDate(0, 0, -leg.TransitDays)
		if shipmentsByLegDate[sk.Leg] == nil {
			shipmentsByLegDate[sk.Leg] = make(map[int64][]entities.ShipmentCohortKey)
		}
		shipmentsByLegDate[sk.Leg][departDate.Unix()] = append(shipmentsByLegDate[sk.Leg][departDate.Unix()], sk)
	}

	for _, schedule := range trucks.Schedules {
		legs := legsForSchedule(m.network, schedule)
		legByDestination := make(map[entities.NodeID]entities.RouteLeg, len(legs))
		for _, leg := range legs {
			legByDestination[leg.Destination] = leg
		}

		for _, d := range m.horizon {
			if !schedule.RunsOn(d) {
				m.forbidDepartureOnLegs(legs, d, shipmentsByLegDate)
				continue
			}

			// Per-destination integer pallet ceiling first, then the
			// truck-wide capacity sum over those ceilings (spec.md §4.2
			// "Truck loading and pallet ceiling": pallets[k,dest,d]*320 >=
			// units, pallets[k,dest,d]*320 - units <= 319, Σ_dest
			// pallets[k,dest,d] <= truck_capacity(k)).
			capacity := m.MIP.NewConstraint(mip.LessThanOrEqual, float64(schedule.PalletCapacity))
			for _, dest := range schedule.Destinations {
				leg, ok := legByDestination[dest]
				if !ok {
					continue
				}
				key := entities.TruckPalletKey{Schedule: schedule.ID, Destination: dest, Date: d}
				palletVar, ok := m.TruckPallets[key]
				if !ok {
					palletVar = m.MIP.NewInt(0, unboundedPallets)
					m.TruckPallets[key] = palletVar
				}

				floor := m.MIP.NewConstraint(mip.GreaterThanOrEqual, 0.0)
				floor.NewTerm(float64(entities.UnitsPerPallet), palletVar)
				ceiling := m.MIP.NewConstraint(mip.LessThanOrEqual, float64(entities.UnitsPerPallet-1))
				ceiling.NewTerm(float64(entities.UnitsPerPallet), palletVar)
				for _, sk := range shipmentsByLegDate[leg.ID][d.Unix()] {
					floor.NewTerm(-entities.FlowValueScale, m.Shipment[sk])
					ceiling.NewTerm(-entities.FlowValueScale, m.Shipment[sk])
				}

				capacity.NewTerm(1.0, palletVar)
			}

			if schedule.LoadingPolicy == entities.LoadPriorDay {
				m.forbidSameDayLoading(legs, d, shipmentsByLegDate)
			}
		}
	}
	return nil
}

// buildPalletCeiling links the integer Pallets[k] variable to the
// Inventory[k] flow it aggregates: 320 * pallets >= 1000 * inventory (the
// ceiling is achieved by the objective penalizing idle pallet capacity
// elsewhere; this constraint only enforces the lower bound, spec.md §3 "Pallet").
func (m *Model) buildPalletCeiling() {
	inventoryByPallet := make(map[entities.PalletCohortKey][]entities.InventoryCohortKey)
	for k := range m.Inventory {
		pk := entities.PalletCohortKey{
			Node: k.Node, Product: k.Product, ProductionDate: k.ProductionDate,
			CurrentDate: k.CurrentDate, State: k.State,
		}
		inventoryByPallet[pk] = append(inventoryByPallet[pk], k)
	}

	for pk, palletVar := range m.Pallets {
		c := m.MIP.NewConstraint(mip.GreaterThanOrEqual, 0.0)
		c.NewTerm(float64(entities.UnitsPerPallet), palletVar)
		for _, invKey := range inventoryByPallet[pk] {
			c.NewTerm(-entities.FlowValueScale, m.Inventory[invKey])
		}
	}
}

func legsForSchedule(network entities.Network, schedule entities.TruckSchedule) []entities.RouteLeg {
	destinations := make(map[entities.NodeID]bool, len(schedule.Destinations))
	for _, d := range schedule.Destinations {
		destinations[d] = true
	}
	var out []entities.RouteLeg
	for _, leg := range network.Legs {
		if leg.Origin == schedule.Origin && destinations[leg.Destination] {
			out = append(out, leg)
		}
	}
	return out
}

// forbidDepartureOnLegs zeroes out every shipment departing on a leg this
// schedule covers on a day it does not run (no other schedule is assumed to
// cover the same leg in this simplified truck model; spec.md's full loading
// board composes multiple schedules per leg, handled by iterating every
// schedule independently and only forbidding its own non-running days).
func (m *Model) forbidDepartureOnLegs(legs []entities.RouteLeg, d entities.Date, byLegDate map[entities.LegID]map[int64][]entities.ShipmentCohortKey) {
	for _, leg := range legs {
		for _, sk := range byLegDate[leg.ID][d.Unix()] {
			c := m.MIP.NewConstraint(mip.Equal, 0.0)
			c.NewTerm(1.0, m.Shipment[sk])
		}
	}
}

// forbidSameDayLoading enforces LoadPriorDay: a truck departing on d may
// only carry cohorts produced on or before d-1 (production date strictly
// before the departure date).
func (m *Model) forbidSameDayLoading(legs []entities.RouteLeg, d entities.Date, byLegDate map[entities.LegID]map[int64][]entities.ShipmentCohortKey) {
	for _, leg := range legs {
		for _, sk := range byLegDate[leg.ID][d.Unix()] {
			if sk.ProductionDate.Before(d) {
				continue
			}
			c := m.MIP.NewConstraint(mip.Equal, 0.0)
			c.NewTerm(1.0, m.Shipment[sk])
		}
	}
}
