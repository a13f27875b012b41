package entities

import (
	"testing"
	"time"
)

func TestNewTruckSchedule_Validation(t *testing.T) {
	valid, err := NewTruckSchedule(
		"T1",
		[]time.Weekday{time.Monday, time.Wednesday, time.Friday},
		Morning,
		"MFG",
		[]NodeID{"HUB1"},
		TruckPalletCapacity,
		LoadSameDay,
	)
	if err != nil {
		t.Fatalf("expected valid truck schedule creation to succeed: %v", err)
	}
	monday := time.Date(2026, 1, 5, 0, 0, 0, 0, time.UTC) // a Monday
	if !valid.RunsOn(monday) {
		t.Errorf("expected truck to run on Monday")
	}
	tuesday := monday.AddDate(0, 0, 1)
	if valid.RunsOn(tuesday) {
		t.Errorf("expected truck not to run on Tuesday")
	}

	testCases := []struct {
		name         string
		id           string
		daysOfWeek   []time.Weekday
		destinations []NodeID
		capacity     int64
	}{
		{"empty id", "", []time.Weekday{time.Monday}, []NodeID{"HUB1"}, 44},
		{"no destinations", "T2", []time.Weekday{time.Monday}, nil, 44},
		{"zero capacity", "T2", []time.Weekday{time.Monday}, []NodeID{"HUB1"}, 0},
		{"no days of week", "T2", nil, []NodeID{"HUB1"}, 44},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := NewTruckSchedule(tc.id, tc.daysOfWeek, Morning, "MFG", tc.destinations, tc.capacity, LoadSameDay); err == nil {
				t.Fatalf("expected error for %s, got none", tc.name)
			}
		})
	}
}
