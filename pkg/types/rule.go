package types

import (
	"github.com/google/uuid"

	"github.com/shopopti/fulfillment-backend/pkg/enums"
)

// RuleCondition is one predicate inside a fulfillment rule. The literal value
// is kept as a string and coerced per field when evaluated.
type RuleCondition struct {
	Field    enums.ConditionField    `json:"field"`
	Operator enums.ConditionOperator `json:"operator"`
	Value    string                  `json:"value"`
}

// SupplierPreference is one entry of a rule's ranked supplier list. Order in
// the slice is the ranking.
type SupplierPreference struct {
	ID   uuid.UUID `json:"id"`
	Name string    `json:"name"`
}
