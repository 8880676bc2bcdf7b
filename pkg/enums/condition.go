package enums

import "fmt"

// ConditionField names the line-item attribute a rule condition inspects.
type ConditionField string

const (
	ConditionFieldSKU      ConditionField = "sku"
	ConditionFieldTitle    ConditionField = "title"
	ConditionFieldPrice    ConditionField = "price"
	ConditionFieldQuantity ConditionField = "quantity"
)

var validConditionFields = []ConditionField{
	ConditionFieldSKU,
	ConditionFieldTitle,
	ConditionFieldPrice,
	ConditionFieldQuantity,
}

// String implements fmt.Stringer.
func (c ConditionField) String() string {
	return string(c)
}

// IsValid reports whether the value is a known ConditionField.
func (c ConditionField) IsValid() bool {
	for _, candidate := range validConditionFields {
		if candidate == c {
			return true
		}
	}
	return false
}

// ConditionOperator is the comparison applied between a field and a rule literal.
type ConditionOperator string

const (
	OperatorEquals         ConditionOperator = "equals"
	OperatorNotEquals      ConditionOperator = "not_equals"
	OperatorContains       ConditionOperator = "contains"
	OperatorStartsWith     ConditionOperator = "starts_with"
	OperatorGreaterThan    ConditionOperator = "greater_than"
	OperatorLessThan       ConditionOperator = "less_than"
	OperatorGreaterOrEqual ConditionOperator = "greater_or_equal"
	OperatorLessOrEqual    ConditionOperator = "less_or_equal"
)

var validConditionOperators = []ConditionOperator{
	OperatorEquals,
	OperatorNotEquals,
	OperatorContains,
	OperatorStartsWith,
	OperatorGreaterThan,
	OperatorLessThan,
	OperatorGreaterOrEqual,
	OperatorLessOrEqual,
}

// String implements fmt.Stringer.
func (c ConditionOperator) String() string {
	return string(c)
}

// IsValid reports whether the value is a known ConditionOperator.
func (c ConditionOperator) IsValid() bool {
	for _, candidate := range validConditionOperators {
		if candidate == c {
			return true
		}
	}
	return false
}

// RuleLogic combines the per-condition results of a fulfillment rule.
type RuleLogic string

const (
	RuleLogicAnd RuleLogic = "AND"
	RuleLogicOr  RuleLogic = "OR"
)

// String implements fmt.Stringer.
func (r RuleLogic) String() string {
	return string(r)
}

// IsValid reports whether the value is a known RuleLogic.
func (r RuleLogic) IsValid() bool {
	return r == RuleLogicAnd || r == RuleLogicOr
}

// ParseRuleLogic converts raw input into a RuleLogic.
func ParseRuleLogic(value string) (RuleLogic, error) {
	switch RuleLogic(value) {
	case RuleLogicAnd:
		return RuleLogicAnd, nil
	case RuleLogicOr:
		return RuleLogicOr, nil
	}
	return "", fmt.Errorf("invalid rule logic %q", value)
}
