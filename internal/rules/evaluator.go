package rules

import (
	"strings"

	"github.com/shopspring/decimal"

	"github.com/shopopti/fulfillment-backend/pkg/db/models"
	"github.com/shopopti/fulfillment-backend/pkg/enums"
	"github.com/shopopti/fulfillment-backend/pkg/types"
)

// Evaluator applies fulfillment rule conditions to a line item. The failOpen
// flag decides what an unrecognized field or operator evaluates to; kept as an
// explicit choice because an open evaluator silently over-matches rules.
type Evaluator struct {
	failOpen bool
}

// NewEvaluator builds an Evaluator with the given fail-open behavior.
func NewEvaluator(failOpen bool) *Evaluator {
	return &Evaluator{failOpen: failOpen}
}

// MatchRule reports whether every (AND) or any (OR) condition of the rule holds
// for the item. A rule with zero conditions is vacuously true.
func (e *Evaluator) MatchRule(rule models.FulfillmentRule, item types.OrderItem) bool {
	if len(rule.Conditions) == 0 {
		return true
	}

	logic := rule.ConditionLogic
	if !logic.IsValid() {
		logic = enums.RuleLogicAnd
	}

	for _, condition := range rule.Conditions {
		matched := e.EvaluateCondition(condition, item)
		if logic == enums.RuleLogicAnd && !matched {
			return false
		}
		if logic == enums.RuleLogicOr && matched {
			return true
		}
	}
	return logic == enums.RuleLogicAnd
}

// EvaluateCondition applies one predicate to the item.
func (e *Evaluator) EvaluateCondition(condition types.RuleCondition, item types.OrderItem) bool {
	switch condition.Field {
	case enums.ConditionFieldSKU:
		return e.evaluateString(item.SKU, condition.Operator, condition.Value)
	case enums.ConditionFieldTitle:
		return e.evaluateString(item.Title, condition.Operator, condition.Value)
	case enums.ConditionFieldPrice:
		return e.evaluateNumeric(item.Price, condition.Operator, condition.Value)
	case enums.ConditionFieldQuantity:
		return e.evaluateNumeric(decimal.NewFromInt(int64(item.Quantity)), condition.Operator, condition.Value)
	default:
		return e.failOpen
	}
}

func (e *Evaluator) evaluateString(value string, operator enums.ConditionOperator, target string) bool {
	switch operator {
	case enums.OperatorEquals:
		return value == target
	case enums.OperatorNotEquals:
		return value != target
	case enums.OperatorContains:
		return strings.Contains(strings.ToLower(value), strings.ToLower(target))
	case enums.OperatorStartsWith:
		return strings.HasPrefix(strings.ToLower(value), strings.ToLower(target))
	case enums.OperatorGreaterThan, enums.OperatorLessThan, enums.OperatorGreaterOrEqual, enums.OperatorLessOrEqual:
		parsed, err := decimal.NewFromString(strings.TrimSpace(value))
		if err != nil {
			return false
		}
		return e.evaluateNumeric(parsed, operator, target)
	default:
		return e.failOpen
	}
}

func (e *Evaluator) evaluateNumeric(value decimal.Decimal, operator enums.ConditionOperator, target string) bool {
	switch operator {
	case enums.OperatorContains:
		return strings.Contains(strings.ToLower(value.String()), strings.ToLower(target))
	case enums.OperatorStartsWith:
		return strings.HasPrefix(strings.ToLower(value.String()), strings.ToLower(target))
	}

	parsed, err := decimal.NewFromString(strings.TrimSpace(target))
	if err != nil {
		// Unparseable literals never equal a number.
		return operator == enums.OperatorNotEquals
	}

	switch operator {
	case enums.OperatorEquals:
		return value.Equal(parsed)
	case enums.OperatorNotEquals:
		return !value.Equal(parsed)
	case enums.OperatorGreaterThan:
		return value.GreaterThan(parsed)
	case enums.OperatorLessThan:
		return value.LessThan(parsed)
	case enums.OperatorGreaterOrEqual:
		return value.GreaterThanOrEqual(parsed)
	case enums.OperatorLessOrEqual:
		return value.LessThanOrEqual(parsed)
	default:
		return e.failOpen
	}
}
