package entities

import "fmt"

// CostStructure holds the priced cost parameters used by the objective
// builder (spec.md §3 "Cost structure", §4.3).
type CostStructure struct {
	ProductionCostPerUnit       float64
	HoldingCostPerPalletDayFrozen  float64
	HoldingCostPerPalletDayAmbient float64
	ChangeoverCostPerStart      float64
	ShortagePenaltyPerUnit      float64
	DisposalPenaltyPerUnit      float64
	FreshnessWeight             float64
}

// NewCostStructure validates and constructs a CostStructure. FreshnessWeight
// is expected in [0, 5] per spec.md §4.3 ("default 0.05-5.0"), but larger
// values are accepted with a caller-visible error only when negative —
// the upper bound is a tuning guideline, not a hard constraint.
func NewCostStructure(
	productionCostPerUnit,
	holdingFrozen,
	holdingAmbient,
	changeoverPerStart,
	shortagePenalty,
	disposalPenalty,
	freshnessWeight float64,
) (CostStructure, error) {
	for name, v := range map[string]float64{
		"production_per_unit":          productionCostPerUnit,
		"holding_per_pallet_day_frozen":  holdingFrozen,
		"holding_per_pallet_day_ambient": holdingAmbient,
		"changeover_per_start":         changeoverPerStart,
		"shortage_penalty_per_unit":    shortagePenalty,
		"disposal_penalty_per_unit":    disposalPenalty,
	} {
		if v < 0 {
			return CostStructure{}, fmt.Errorf("cost structure field %s cannot be negative, got %v", name, v)
		}
	}
	if freshnessWeight < 0 {
		return CostStructure{}, fmt.Errorf("cost structure freshness_weight cannot be negative, got %v", freshnessWeight)
	}
	return CostStructure{
		ProductionCostPerUnit:          productionCostPerUnit,
		HoldingCostPerPalletDayFrozen:  holdingFrozen,
		HoldingCostPerPalletDayAmbient: holdingAmbient,
		ChangeoverCostPerStart:         changeoverPerStart,
		ShortagePenaltyPerUnit:         shortagePenalty,
		DisposalPenaltyPerUnit:         disposalPenalty,
		FreshnessWeight:                freshnessWeight,
	}, nil
}

// HoldingCostPerPalletDay returns the holding rate for the given state.
// Thawed inventory is billed at the ambient rate (it occupies ambient storage).
func (c CostStructure) HoldingCostPerPalletDay(state State) float64 {
	if state == StateFrozen {
		return c.HoldingCostPerPalletDayFrozen
	}
	return c.HoldingCostPerPalletDayAmbient
}
