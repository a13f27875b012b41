package entities

import "testing"

func TestNewRouteLeg_Validation(t *testing.T) {
	valid, err := NewRouteLeg("MFG-HUB1", "MFG", "HUB1", 1, StateAmbient, 0.15, nil)
	if err != nil {
		t.Fatalf("expected valid leg creation to succeed: %v", err)
	}
	if valid.TransitDays != 1 {
		t.Errorf("expected transit days 1, got %d", valid.TransitDays)
	}

	testCases := []struct {
		name        string
		id          LegID
		origin      NodeID
		destination NodeID
		transit     int
		mode        State
		cost        float64
	}{
		{"empty id", "", "MFG", "HUB1", 1, StateAmbient, 0.1},
		{"empty origin", "L1", "", "HUB1", 1, StateAmbient, 0.1},
		{"same origin and destination", "L1", "MFG", "MFG", 1, StateAmbient, 0.1},
		{"negative transit", "L1", "MFG", "HUB1", -1, StateAmbient, 0.1},
		{"thawed transport mode", "L1", "MFG", "HUB1", 1, StateThawed, 0.1},
		{"negative cost", "L1", "MFG", "HUB1", 1, StateAmbient, -0.1},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := NewRouteLeg(tc.id, tc.origin, tc.destination, tc.transit, tc.mode, tc.cost, nil); err == nil {
				t.Fatalf("expected error for %s, got none", tc.name)
			}
		})
	}
}

func TestNetwork_LegsFrom(t *testing.T) {
	l1, _ := NewRouteLeg("MFG-HUB1", "MFG", "HUB1", 1, StateAmbient, 0.1, nil)
	l2, _ := NewRouteLeg("MFG-HUB2", "MFG", "HUB2", 2, StateFrozen, 0.2, nil)
	l3, _ := NewRouteLeg("HUB1-BR1", "HUB1", "BR1", 1, StateAmbient, 0.05, nil)
	net := Network{Legs: []RouteLeg{l1, l2, l3}}

	fromMFG := net.LegsFrom("MFG")
	if len(fromMFG) != 2 {
		t.Fatalf("expected 2 legs from MFG, got %d", len(fromMFG))
	}
}
