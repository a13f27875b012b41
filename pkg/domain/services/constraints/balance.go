package constraints

import (
	"fmt"

	"github.com/nextmv-io/sdk/mip"

	"github.com/breadnet/planner/pkg/domain/entities"
)

// BuildMaterialBalance adds the cohort-indexed flow-conservation constraints
// (spec.md §4.2 "Material balance"), the freeze/thaw transition links, and
// the phantom-shipment guard. Shelf life is enforced implicitly: a cohort
// whose age exceeds its state's shelf life simply has no Inventory variable
// at that current date, so it cannot appear on either side of a balance
// equation (spec.md §3 invariant 2).
func (m *Model) BuildMaterialBalance() error {
	arrivals, departures, err := m.shipmentsByDestinationAndOrigin()
	if err != nil {
		return err
	}

	for _, k := range m.index.Inventory {
		balance := m.MIP.NewConstraint(mip.Equal, 0.0)

		// Outflow: inventory held today, leaves the equation as -1 * itself
		// plus whatever departs/converts/is-consumed/disposed today.
		balance.NewTerm(-1.0, m.Inventory[k])

		if v, ok := m.DemandConsumption[k]; ok {
			balance.NewTerm(-1.0, v)
		}
		balance.NewTerm(-1.0, m.Disposal[k])
		if v, ok := m.Thaw[k]; ok {
			balance.NewTerm(-1.0, v)
		}
		if v, ok := m.Freeze[k]; ok {
			balance.NewTerm(-1.0, v)
		}
		for _, shipKey := range departures[departureIndex{node: k.Node, product: k.Product, prodDate: k.ProductionDate, entryDate: k.StateEntryDate, state: k.State, date: k.CurrentDate}] {
			balance.NewTerm(-1.0, m.Shipment[shipKey])
		}

		// Inflow: previous day's carry-over of the same cohort, if it
		// existed; production, if this is the cohort's first day of life at
		// the manufacturing node; arriving shipments; and freeze/thaw
		// transitions landing in this cohort today.
		prevKey := entities.InventoryCohortKey{CohortKey: k.CohortKey, CurrentDate: k.CurrentDate.AddDate(0, 0, -1)}
		if prevVar, ok := m.Inventory[prevKey]; ok {
			balance.NewTerm(1.0, prevVar)
		}

		if isFreshlyProduced(k, m.network) {
			prodKey := entities.ProductionKey{Node: k.Node, Product: k.Product, Date: k.ProductionDate}
			if prodVar, ok := m.Production[prodKey]; ok {
				balance.NewTerm(1.0, prodVar)
			}
		}

		for _, shipKey := range arrivals[arrivalIndex{node: k.Node, product: k.Product, prodDate: k.ProductionDate, entryDate: k.StateEntryDate, state: k.State, date: k.CurrentDate}] {
			balance.NewTerm(1.0, m.Shipment[shipKey])
		}

		if isThawDestination(k) {
			if src, ok := m.thawSourceFor(k); ok {
				balance.NewTerm(1.0, m.Thaw[src])
			}
		}
		if isFreezeDestination(k) {
			if src, ok := m.freezeSourceFor(k); ok {
				balance.NewTerm(1.0, m.Freeze[src])
			}
		}
	}

	if err := m.buildDemandSatisfiedLinks(); err != nil {
		return err
	}
	if err := m.buildDemandAggregateConstraints(); err != nil {
		return err
	}
	m.buildPhantomShipmentGuard()

	return nil
}

type arrivalIndex struct {
	node      entities.NodeID
	product   entities.ProductID
	prodDate  entities.Date
	entryDate entities.Date
	state     entities.State
	date      entities.Date
}

type departureIndex = arrivalIndex

// shipmentsByDestinationAndOrigin buckets every shipment index element by
// (destination cohort identity, delivery date) and (origin cohort identity,
// departure date) for O(1) lookup while building the balance constraints.
func (m *Model) shipmentsByDestinationAndOrigin() (map[arrivalIndex][]entities.ShipmentCohortKey, map[departureIndex][]entities.ShipmentCohortKey, error) {
	arrivals := make(map[arrivalIndex][]entities.ShipmentCohortKey)
	departures := make(map[departureIndex][]entities.ShipmentCohortKey)

	for _, sk := range m.index.Shipment {
		leg, ok := legByID(m.network, sk.Leg)
		if !ok {
			return nil, nil, fmt.Errorf("constraints: shipment references unknown leg %s", sk.Leg)
		}
		arrivalKey := arrivalIndex{node: leg.Destination, product: sk.Product, prodDate: sk.ProductionDate, entryDate: sk.StateEntryDate, state: sk.State, date: sk.DeliveryDate}
		arrivals[arrivalKey] = append(arrivals[arrivalKey], sk)

		departDate := sk.DeliveryDate.AddDate(0, 0, -leg.TransitDays)
		departKey := departureIndex{node: leg.Origin, product: sk.Product, prodDate: sk.ProductionDate, entryDate: sk.StateEntryDate, state: sk.State, date: departDate}
		departures[departKey] = append(departures[departKey], sk)
	}
	return arrivals, departures, nil
}

// isFreshlyProduced reports whether k represents the first day of life of a
// manufactured cohort: produced today, at the manufacturing node, ambient.
func isFreshlyProduced(k entities.InventoryCohortKey, network entities.Network) bool {
	mfg, err := network.ManufacturingNode()
	if err != nil {
		return false
	}
	return k.Node == mfg.ID &&
		k.State == entities.StateAmbient &&
		k.ProductionDate.Equal(k.StateEntryDate) &&
		k.StateEntryDate.Equal(k.CurrentDate)
}

// isThawDestination reports whether k is the first day of a THAWED cohort
// (its state entry date is today), the only day a thaw can add to it.
func isThawDestination(k entities.InventoryCohortKey) bool {
	return k.State == entities.StateThawed && k.StateEntryDate.Equal(k.CurrentDate)
}

func isFreezeDestination(k entities.InventoryCohortKey) bool {
	return k.State == entities.StateFrozen && k.StateEntryDate.Equal(k.CurrentDate) && !k.ProductionDate.Equal(k.StateEntryDate)
}

// thawSourceFor finds the FROZEN inventory cohort that a THAWED destination
// cohort k could have transitioned from on the same day (same node, product,
// production date; state entry date equal to k's, since the transition is
// same-day).
func (m *Model) thawSourceFor(k entities.InventoryCohortKey) (entities.InventoryCohortKey, bool) {
	src := entities.InventoryCohortKey{
		CohortKey: entities.CohortKey{
			Node: k.Node, Product: k.Product, ProductionDate: k.ProductionDate,
			StateEntryDate: k.StateEntryDate, State: entities.StateFrozen,
		},
		CurrentDate: k.CurrentDate,
	}
	_, ok := m.Thaw[src]
	return src, ok
}

func (m *Model) freezeSourceFor(k entities.InventoryCohortKey) (entities.InventoryCohortKey, bool) {
	src := entities.InventoryCohortKey{
		CohortKey: entities.CohortKey{
			Node: k.Node, Product: k.Product, ProductionDate: k.ProductionDate,
			StateEntryDate: k.StateEntryDate, State: entities.StateAmbient,
		},
		CurrentDate: k.CurrentDate,
	}
	_, ok := m.Freeze[src]
	return src, ok
}

// buildDemandSatisfiedLinks ties the entry-date-free DemandSatisfied
// aggregate (named by the DemandCohortIndex) to the entry-date-resolved
// DemandConsumption variables the balance equations actually use.
func (m *Model) buildDemandSatisfiedLinks() error {
	bucket := make(map[entities.DemandCohortKey][]entities.InventoryCohortKey)
	for k := range m.DemandConsumption {
		dck := entities.DemandCohortKey{
			Node: k.Node, Product: k.Product, ProductionDate: k.ProductionDate,
			DemandDate: k.CurrentDate, State: k.State,
		}
		bucket[dck] = append(bucket[dck], k)
	}

	for dck, satisfiedVar := range m.DemandSatisfied {
		link := m.MIP.NewConstraint(mip.Equal, 0.0)
		link.NewTerm(-1.0, satisfiedVar)
		for _, invKey := range bucket[dck] {
			link.NewTerm(1.0, m.DemandConsumption[invKey])
		}
	}
	return nil
}

// buildDemandAggregateConstraints enforces, for every (node, product, date)
// the forecast names, that consumption plus shortage equals the forecast
// quantity exactly (spec.md §4.2 "Demand satisfaction").
func (m *Model) buildDemandAggregateConstraints() error {
	consumptionByDemand := make(map[entities.DemandKey][]entities.InventoryCohortKey)
	for k := range m.DemandConsumption {
		dk := entities.DemandKey{Node: k.Node, Product: k.Product, Date: k.CurrentDate}
		consumptionByDemand[dk] = append(consumptionByDemand[dk], k)
	}

	totals := m.forecast.ByKey()
	for dk, qty := range totals {
		rhs := float64(qty) / entities.FlowValueScale
		c := m.MIP.NewConstraint(mip.Equal, rhs)
		for _, invKey := range consumptionByDemand[dk] {
			c.NewTerm(1.0, m.DemandConsumption[invKey])
		}
		if shortageVar, ok := m.Shortage[dk]; ok {
			c.NewTerm(1.0, shortageVar)
		}
	}
	return nil
}

// buildPhantomShipmentGuard forces to zero any shipment whose implied
// departure date precedes the horizon (the cargo would have had to leave
// before planning started). C1 admits a shipment only when its departing
// cohort is in the origin's inventory index on the departure date, which no
// pre-horizon date is, so this guard repeats that check at the model level
// (spec.md §9 "Phantom shipments").
func (m *Model) buildPhantomShipmentGuard() {
	horizonStart := m.horizon[0]
	for _, sk := range m.index.Shipment {
		leg, ok := legByID(m.network, sk.Leg)
		if !ok {
			continue
		}
		departDate := sk.DeliveryDate.AddDate(0, 0, -leg.TransitDays)
		if departDate.Before(horizonStart) {
			c := m.MIP.NewConstraint(mip.Equal, 0.0)
			c.NewTerm(1.0, m.Shipment[sk])
		}
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
