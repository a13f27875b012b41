package entities

import "testing"

func TestNewCostStructure_Validation(t *testing.T) {
	valid, err := NewCostStructure(0.8, 0.05, 0.03, 150, 5.0, 0.5, 0.1)
	if err != nil {
		t.Fatalf("expected valid cost structure creation to succeed: %v", err)
	}
	if valid.HoldingCostPerPalletDay(StateFrozen) != 0.05 {
		t.Errorf("expected frozen holding rate 0.05, got %v", valid.HoldingCostPerPalletDay(StateFrozen))
	}
	if valid.HoldingCostPerPalletDay(StateThawed) != 0.03 {
		t.Errorf("expected thawed inventory to bill at ambient rate 0.03, got %v", valid.HoldingCostPerPalletDay(StateThawed))
	}

	if _, err := NewCostStructure(-1, 0.05, 0.03, 150, 5.0, 0.5, 0.1); err == nil {
		t.Fatalf("expected error for negative production cost")
	}
	if _, err := NewCostStructure(0.8, 0.05, 0.03, 150, 5.0, 0.5, -0.1); err == nil {
		t.Fatalf("expected error for negative freshness weight")
	}
}

func TestPallets(t *testing.T) {
	testCases := []struct {
		units Quantity
		want  int64
	}{
		{0, 0},
		{1, 1},
		{320, 1},
		{321, 2},
		{640, 2},
	}
	for _, tc := range testCases {
		if got := Pallets(tc.units); got != tc.want {
			t.Errorf("Pallets(%d) = %d, want %d", tc.units, got, tc.want)
		}
	}
}

func TestValidateCaseMultiple(t *testing.T) {
	if err := ValidateCaseMultiple(100); err != nil {
		t.Errorf("expected 100 to be a valid case multiple: %v", err)
	}
	if err := ValidateCaseMultiple(105); err == nil {
		t.Errorf("expected 105 to be rejected as not a case multiple")
	}
	if err := ValidateCaseMultiple(-10); err == nil {
		t.Errorf("expected negative quantity to be rejected")
	}
}
