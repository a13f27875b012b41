package dto

import "fmt"

// SchemaError reports a JSON/type-level defect: a field of the wrong type,
// a missing required field (spec.md §6 "Layer 1: Schema").
type SchemaError struct {
	Field  string
	Reason string
}

func (e *SchemaError) Error() string {
	return fmt.Sprintf("schema error: field %s: %s", e.Field, e.Reason)
}

// StructuralError reports a cross-field defect that schema validation alone
// cannot see: a shipment referencing an unknown leg, a shipment whose state
// differs from its leg's transport mode, a shipment departing before the
// horizon start (spec.md §6 "Layer 2: Structural").
type StructuralError struct {
	Reason string
}

func (e *StructuralError) Error() string {
	return fmt.Sprintf("structural error: %s", e.Reason)
}

// SemanticError reports a domain-invariant violation: a shipment delivered
// before its cohort entered its state, production that is not a whole number
// of cases, labor hours paid below hours used, a negative total cost
// (spec.md §6 "Layer 3: Semantic").
type SemanticError struct {
	Reason string
}

func (e *SemanticError) Error() string {
	return fmt.Sprintf("semantic error: %s", e.Reason)
}
