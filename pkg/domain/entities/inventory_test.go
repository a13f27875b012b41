package entities

import (
	"testing"
	"time"
)

func TestInitialInventory_QuantityAndTotal(t *testing.T) {
	snapshot := InitialInventory{
		SnapshotDate: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
		Entries: map[InitialInventoryKey]Quantity{
			{Node: "HUB1", Product: "BGF", State: StateAmbient}: 120,
			{Node: "HUB1", Product: "BGF", State: StateFrozen}:  480,
			{Node: "HUB2", Product: "BGF", State: StateAmbient}: 0,
		},
	}

	testCases := []struct {
		name string
		key  InitialInventoryKey
		want Quantity
	}{
		{"present ambient", InitialInventoryKey{Node: "HUB1", Product: "BGF", State: StateAmbient}, 120},
		{"present frozen", InitialInventoryKey{Node: "HUB1", Product: "BGF", State: StateFrozen}, 480},
		{"absent key defaults to zero", InitialInventoryKey{Node: "HUB3", Product: "BGF", State: StateAmbient}, 0},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			if got := snapshot.Quantity(tc.key); got != tc.want {
				t.Errorf("Quantity(%+v) = %d, want %d", tc.key, got, tc.want)
			}
		})
	}

	if got, want := snapshot.Total(), Quantity(600); got != want {
		t.Errorf("Total() = %d, want %d", got, want)
	}
}
