package entities

import "fmt"

// LaborDay holds the labor rules and rates in effect on a calendar date.
type LaborDay struct {
	Date               Date
	IsFixedDay         bool
	FixedHours         float64
	RegularRate        float64
	OvertimeRate       float64
	NonFixedRate       float64
	MinimumPaidHours   float64
}

// NewLaborDay validates and constructs a LaborDay. Weekends and holidays are
// non-fixed (spec.md §3 "Labor day").
func NewLaborDay(date Date, isFixedDay bool, fixedHours, regularRate, overtimeRate, nonFixedRate float64) (LaborDay, error) {
	if fixedHours < 0 {
		return LaborDay{}, fmt.Errorf("labor day %s fixed hours cannot be negative", date.Format("2006-01-02"))
	}
	if regularRate < 0 || overtimeRate < 0 || nonFixedRate < 0 {
		return LaborDay{}, fmt.Errorf("labor day %s rates cannot be negative", date.Format("2006-01-02"))
	}
	return LaborDay{
		Date:             NormalizeDate(date),
		IsFixedDay:       isFixedDay,
		FixedHours:       fixedHours,
		RegularRate:      regularRate,
		OvertimeRate:     overtimeRate,
		NonFixedRate:     nonFixedRate,
		MinimumPaidHours: MinimumPaidLaborHours,
	}, nil
}

// LaborCalendar is the date-indexed set of labor rules for the horizon.
type LaborCalendar struct {
	Days map[int64]LaborDay // keyed by Date.Unix() of the normalized day
}

// NewLaborCalendar builds a LaborCalendar from a slice, rejecting duplicate dates.
func NewLaborCalendar(days []LaborDay) (LaborCalendar, error) {
	index := make(map[int64]LaborDay, len(days))
	for _, d := range days {
		key := d.Date.Unix()
		if _, exists := index[key]; exists {
			return LaborCalendar{}, fmt.Errorf("duplicate labor calendar entry for %s", d.Date.Format("2006-01-02"))
		}
		index[key] = d
	}
	return LaborCalendar{Days: index}, nil
}

// Lookup returns the LaborDay for a date, or an error if the calendar has no entry.
func (c LaborCalendar) Lookup(date Date) (LaborDay, error) {
	day, ok := c.Days[NormalizeDate(date).Unix()]
	if !ok {
		return LaborDay{}, fmt.Errorf("no labor calendar entry for %s", date.Format("2006-01-02"))
	}
	return day, nil
}
