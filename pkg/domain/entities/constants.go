package entities

// Package-wide constants published as the system's defaults. PlannerConfig
// (see pkg/infrastructure/config) has no fields for these values, so every
// run uses them as written here.
const (
	// CaseSize is the smallest production/shipment increment, in units.
	CaseSize = 10

	// UnitsPerPallet is the packaging ceiling divisor: pallets = ceil(units / UnitsPerPallet).
	UnitsPerPallet = 320

	// TruckPalletCapacity is the maximum pallets a single truck may carry per departure.
	TruckPalletCapacity = 44

	// MinimumPaidLaborHours is the non-fixed-day minimum paid hours when any production occurs.
	MinimumPaidLaborHours = 4.0

	// FixedDayOvertimeCapHours is the overtime ceiling on a fixed labor day.
	FixedDayOvertimeCapHours = 2.0

	// ProductionRateUnitsPerHour converts production quantity to labor hours (1400 units/hour).
	ProductionRateUnitsPerHour = 1400.0

	// StartupHours and ShutdownHours are the fixed per-active-day overhead components.
	StartupHours  = 0.5
	ShutdownHours = 0.25

	// ChangeoverHoursPerStart is the labor time charged per distinct product start on a day.
	ChangeoverHoursPerStart = 1.0

	// DayActiveBigM bounds labor_hours_used when linking it to the day_is_active binary.
	DayActiveBigM = 24.0

	// FlowValueScale is the scale factor applied to flow-valued (production,
	// transport, shortage, disposal, waste) variables and their objective
	// coefficients to condition the LP. Count-valued variables (labor hours,
	// pallet integers, binary starts) are never scaled. See spec.md §4.3 and
	// §9 "Scaling consistency".
	FlowValueScale = 1000.0
)

// ShelfLifeDays maps a State to its maximum age-in-state, in days.
var ShelfLifeDays = map[State]int{
	StateFrozen:  120,
	StateAmbient: 17,
	StateThawed:  14,
}
