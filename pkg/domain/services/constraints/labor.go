package constraints

import (
	"fmt"

	"github.com/nextmv-io/sdk/mip"

	"github.com/breadnet/planner/pkg/domain/entities"
)

// BuildLaborConstraints adds the piecewise labor-hour accounting (spec.md
// §4.2 "Labor"): labor hours driven by total production volume plus fixed
// per-active-day overhead and per-product changeover time, the day_is_active
// big-M link, the minimum-paid-hours floor on non-fixed days, and the
// overtime cap on fixed days.
func (m *Model) BuildLaborConstraints(calendar entities.LaborCalendar) error {
	productionByDay := make(map[int64][]entities.ProductionKey)
	for k := range m.Production {
		productionByDay[k.Date.Unix()] = append(productionByDay[k.Date.Unix()], k)
	}

	for _, d := range m.horizon {
		day, err := calendar.Lookup(d)
		if err != nil {
			return fmt.Errorf("constraints: labor calendar missing entry for %s: %w", d.Format("2006-01-02"), err)
		}

		hoursVar := m.LaborHours[d.Unix()]
		activeVar := m.DayIsActive[d.Unix()]

		// labor_hours = sum(production units) / rate + startup + shutdown
		// (if active) + changeover_hours_per_start * sum(changeover starts).
		hoursBalance := m.MIP.NewConstraint(mip.Equal, 0.0)
		hoursBalance.NewTerm(-1.0, hoursVar)
		for _, pk := range productionByDay[d.Unix()] {
			// Production is scaled by FlowValueScale; labor hours are not,
			// so the coefficient must rescale back to raw units before
			// dividing by the production rate (spec.md §9 "Scaling consistency").
			hoursBalance.NewTerm(entities.FlowValueScale/entities.ProductionRateUnitsPerHour, m.Production[pk])
		}
		hoursBalance.NewTerm(entities.StartupHours+entities.ShutdownHours, activeVar)
		for _, p := range m.uniqueProductsOnDay(d) {
			key := productDayKey{Product: p, Date: d}
			if cs, ok := m.ChangeoverStart[key]; ok {
				hoursBalance.NewTerm(entities.ChangeoverHoursPerStart, cs)
			}
		}

		// labor_hours <= BigM * day_is_active (day can't be inactive with hours on it).
		link := m.MIP.NewConstraint(mip.LessThanOrEqual, 0.0)
		link.NewTerm(1.0, hoursVar)
		link.NewTerm(-entities.DayActiveBigM, activeVar)

		paidVar := m.LaborHoursPaid[d.Unix()]

		// labor_hours_paid >= labor_hours_used (spec.md §4.2, unconditional).
		paidFloor := m.MIP.NewConstraint(mip.GreaterThanOrEqual, 0.0)
		paidFloor.NewTerm(1.0, paidVar)
		paidFloor.NewTerm(-1.0, hoursVar)

		if day.IsFixedDay {
			// Fixed days split hours_used into regular and overtime bands,
			// each separately rate-priced by the objective builder.
			fixedVar := m.MIP.NewFloat(0, day.FixedHours)
			overtimeVar := m.MIP.NewFloat(0, entities.FixedDayOvertimeCapHours)
			m.FixedHoursUsed[d.Unix()] = fixedVar
			m.OvertimeHoursUsed[d.Unix()] = overtimeVar

			// labor_hours_used = fixed_hours_used + overtime_hours_used (fixed days)
			split := m.MIP.NewConstraint(mip.Equal, 0.0)
			split.NewTerm(1.0, hoursVar)
			split.NewTerm(-1.0, fixedVar)
			split.NewTerm(-1.0, overtimeVar)

			// labor_hours_paid = fixed_hours_used + overtime_hours_used (fixed)
			paidEq := m.MIP.NewConstraint(mip.Equal, 0.0)
			paidEq.NewTerm(1.0, paidVar)
			paidEq.NewTerm(-1.0, fixedVar)
			paidEq.NewTerm(-1.0, overtimeVar)
		} else {
			// Non-fixed days: if active, paid >= 4-hour minimum.
			floor := m.MIP.NewConstraint(mip.GreaterThanOrEqual, 0.0)
			floor.NewTerm(1.0, paidVar)
			floor.NewTerm(-entities.MinimumPaidLaborHours, activeVar)
		}
	}

	if err := m.buildProductActiveLinks(); err != nil {
		return err
	}
	m.buildChangeoverLinks()

	return nil
}

// uniqueProductsOnDay returns the distinct products with a ProductActive
// variable on date d.
func (m *Model) uniqueProductsOnDay(d entities.Date) []entities.ProductID {
	seen := make(map[entities.ProductID]bool)
	var out []entities.ProductID
	for k := range m.ProductActive {
		if !k.Date.Equal(d) {
			continue
		}
		if seen[k.Product] {
			continue
		}
		seen[k.Product] = true
		out = append(out, k.Product)
	}
	return out
}

// buildProductActiveLinks ties ProductActive[product, day] to whether any
// production of that product occurs on that day, and ties DayIsActive to
// whether any product is active.
func (m *Model) buildProductActiveLinks() error {
	productionByProductDay := make(map[productDayKey]mip.Float)
	for k, v := range m.Production {
		productionByProductDay[productDayKey{Product: k.Product, Date: k.Date}] = v
	}

	for key, activeVar := range m.ProductActive {
		prodVar, ok := productionByProductDay[key]
		if !ok {
			continue
		}
		// production <= BigM * product_active
		c := m.MIP.NewConstraint(mip.LessThanOrEqual, 0.0)
		c.NewTerm(entities.FlowValueScale/entities.ProductionRateUnitsPerHour, prodVar)
		c.NewTerm(-entities.DayActiveBigM, activeVar)

		dayActiveVar, ok := m.DayIsActive[key.Date.Unix()]
		if !ok {
			return fmt.Errorf("constraints: missing day_is_active variable for %s", key.Date.Format("2006-01-02"))
		}
		// product_active <= day_is_active
		link := m.MIP.NewConstraint(mip.LessThanOrEqual, 0.0)
		link.NewTerm(1.0, activeVar)
		link.NewTerm(-1.0, dayActiveVar)
	}
	return nil
}

// buildChangeoverLinks charges a changeover whenever a product is active
// today but was not active yesterday: changeover_start >= active[t] - active[t-1].
func (m *Model) buildChangeoverLinks() {
	for key, changeoverVar := range m.ChangeoverStart {
		activeToday, ok := m.ProductActive[key]
		if !ok {
			continue
		}
		prevKey := productDayKey{Product: key.Product, Date: key.Date.AddDate(0, 0, -1)}
		c := m.MIP.NewConstraint(mip.GreaterThanOrEqual, 0.0)
		c.NewTerm(1.0, changeoverVar)
		c.NewTerm(-1.0, activeToday)
		if activeYesterday, ok := m.ProductActive[prevKey]; ok {
			c.NewTerm(1.0, activeYesterday)
		}
	}
}
