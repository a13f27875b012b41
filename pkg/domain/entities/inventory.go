package entities

import "time"

// InitialInventoryKey identifies a pre-horizon inventory snapshot entry.
type InitialInventoryKey struct {
	Node    NodeID
	Product ProductID
	State   State
}

// InitialInventory is the pre-horizon stock snapshot taken at SnapshotDate
// (spec.md §6.1). Stranded portions that no demand path can consume are
// absorbed by disposal variables (spec.md §4.2).
type InitialInventory struct {
	SnapshotDate time.Time
	Entries      map[InitialInventoryKey]Quantity
}

// Quantity returns the snapshot quantity for a key, or zero if absent.
func (i InitialInventory) Quantity(key InitialInventoryKey) Quantity {
	return i.Entries[key]
}

// Total sums every entry in the snapshot, useful for sanity-checking loaders.
func (i InitialInventory) Total() Quantity {
	var total Quantity
	for _, q := range i.Entries {
		total += q
	}
	return total
}
