package entities

import (
	"fmt"
	"time"
)

// LoadingPolicy describes which day's production a truck may load.
type LoadingPolicy int

const (
	LoadSameDay LoadingPolicy = iota
	LoadPriorDay
)

func (p LoadingPolicy) String() string {
	if p == LoadPriorDay {
		return "D-1"
	}
	return "D"
}

// DepartureWindow is the time-of-day slot a truck departs in.
type DepartureWindow int

const (
	Morning DepartureWindow = iota
	Afternoon
)

// TruckSchedule is a recurring truck departure pattern.
type TruckSchedule struct {
	ID              string
	DaysOfWeek      map[time.Weekday]bool
	Window          DepartureWindow
	Origin          NodeID
	Destinations    []NodeID // direct destination, or ordered intermediate-stop list
	PalletCapacity  int64
	LoadingPolicy   LoadingPolicy
}

// NewTruckSchedule validates and constructs a TruckSchedule.
func NewTruckSchedule(
	id string,
	daysOfWeek []time.Weekday,
	window DepartureWindow,
	origin NodeID,
	destinations []NodeID,
	palletCapacity int64,
	policy LoadingPolicy,
) (TruckSchedule, error) {
	if id == "" {
		return TruckSchedule{}, fmt.Errorf("truck schedule id cannot be empty")
	}
	if origin == "" {
		return TruckSchedule{}, fmt.Errorf("truck schedule %s must have an origin", id)
	}
	if len(destinations) == 0 {
		return TruckSchedule{}, fmt.Errorf("truck schedule %s must have at least one destination", id)
	}
	if palletCapacity <= 0 {
		return TruckSchedule{}, fmt.Errorf("truck schedule %s pallet capacity must be positive, got %d", id, palletCapacity)
	}
	days := make(map[time.Weekday]bool, len(daysOfWeek))
	for _, d := range daysOfWeek {
		days[d] = true
	}
	if len(days) == 0 {
		return TruckSchedule{}, fmt.Errorf("truck schedule %s must run on at least one day of week", id)
	}
	return TruckSchedule{
		ID:             id,
		DaysOfWeek:     days,
		Window:         window,
		Origin:         origin,
		Destinations:   destinations,
		PalletCapacity: palletCapacity,
		LoadingPolicy:  policy,
	}, nil
}

// RunsOn reports whether the truck departs on the given date.
func (t TruckSchedule) RunsOn(date Date) bool {
	return t.DaysOfWeek[date.Weekday()]
}

// TruckSchedules is the full set of recurring truck departures.
type TruckSchedules struct {
	Schedules []TruckSchedule
}

// TruckPalletKey identifies a truck's loaded-pallet ceiling at one
// destination on one departure date, aggregated across every product and
// cohort the truck carries there that day (spec.md §4.2 "Truck loading and
// pallet ceiling": `pallets[k, dest, d]`).
type TruckPalletKey struct {
	Schedule    string
	Destination NodeID
	Date        Date
}
