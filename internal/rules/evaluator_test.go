package rules

import (
	"testing"

	"github.com/shopspring/decimal"

	"github.com/shopopti/fulfillment-backend/pkg/db/models"
	"github.com/shopopti/fulfillment-backend/pkg/enums"
	"github.com/shopopti/fulfillment-backend/pkg/types"
)

func testItem() types.OrderItem {
	return types.OrderItem{
		SKU:      "WIDGET-X",
		Title:    "Premium Widget",
		Quantity: 5,
		Price:    decimal.NewFromFloat(29.99),
	}
}

func TestEvaluateCondition(t *testing.T) {
	evaluator := NewEvaluator(false)

	tests := []struct {
		name      string
		condition types.RuleCondition
		want      bool
	}{
		{
			name:      "contains is case insensitive",
			condition: types.RuleCondition{Field: enums.ConditionFieldSKU, Operator: enums.OperatorContains, Value: "widget"},
			want:      true,
		},
		{
			name:      "starts_with on title",
			condition: types.RuleCondition{Field: enums.ConditionFieldTitle, Operator: enums.OperatorStartsWith, Value: "premium"},
			want:      true,
		},
		{
			name:      "price greater_than coerces the literal",
			condition: types.RuleCondition{Field: enums.ConditionFieldPrice, Operator: enums.OperatorGreaterThan, Value: "10"},
			want:      true,
		},
		{
			name:      "quantity less_or_equal boundary",
			condition: types.RuleCondition{Field: enums.ConditionFieldQuantity, Operator: enums.OperatorLessOrEqual, Value: "5"},
			want:      true,
		},
		{
			name:      "quantity less_than boundary",
			condition: types.RuleCondition{Field: enums.ConditionFieldQuantity, Operator: enums.OperatorLessThan, Value: "5"},
			want:      false,
		},
		{
			name:      "sku equals is exact",
			condition: types.RuleCondition{Field: enums.ConditionFieldSKU, Operator: enums.OperatorEquals, Value: "widget-x"},
			want:      false,
		},
		{
			name:      "price not_equals",
			condition: types.RuleCondition{Field: enums.ConditionFieldPrice, Operator: enums.OperatorNotEquals, Value: "30"},
			want:      true,
		},
		{
			name:      "numeric comparison on non-numeric field fails closed",
			condition: types.RuleCondition{Field: enums.ConditionFieldTitle, Operator: enums.OperatorGreaterThan, Value: "10"},
			want:      false,
		},
		{
			name:      "unparseable numeric literal never equals",
			condition: types.RuleCondition{Field: enums.ConditionFieldPrice, Operator: enums.OperatorEquals, Value: "cheap"},
			want:      false,
		},
		{
			name:      "unknown operator fails closed by default",
			condition: types.RuleCondition{Field: enums.ConditionFieldSKU, Operator: "matches_regex", Value: ".*"},
			want:      false,
		},
		{
			name:      "unknown field fails closed by default",
			condition: types.RuleCondition{Field: "weight", Operator: enums.OperatorEquals, Value: "1"},
			want:      false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := evaluator.EvaluateCondition(tt.condition, testItem()); got != tt.want {
				t.Fatalf("EvaluateCondition() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestEvaluateConditionFailOpen(t *testing.T) {
	evaluator := NewEvaluator(true)

	condition := types.RuleCondition{Field: enums.ConditionFieldSKU, Operator: "matches_regex", Value: ".*"}
	if !evaluator.EvaluateCondition(condition, testItem()) {
		t.Fatal("unknown operator should pass when fail-open is enabled")
	}

	condition = types.RuleCondition{Field: "weight", Operator: enums.OperatorEquals, Value: "1"}
	if !evaluator.EvaluateCondition(condition, testItem()) {
		t.Fatal("unknown field should pass when fail-open is enabled")
	}
}

func TestMatchRule(t *testing.T) {
	evaluator := NewEvaluator(false)

	skuMatches := types.RuleCondition{Field: enums.ConditionFieldSKU, Operator: enums.OperatorContains, Value: "widget"}
	priceTooHigh := types.RuleCondition{Field: enums.ConditionFieldPrice, Operator: enums.OperatorGreaterThan, Value: "100"}

	t.Run("zero conditions are vacuously true", func(t *testing.T) {
		rule := models.FulfillmentRule{ConditionLogic: enums.RuleLogicAnd}
		if !evaluator.MatchRule(rule, testItem()) {
			t.Fatal("empty rule should match")
		}
	})

	t.Run("AND requires every condition", func(t *testing.T) {
		rule := models.FulfillmentRule{
			ConditionLogic: enums.RuleLogicAnd,
			Conditions:     []types.RuleCondition{skuMatches, priceTooHigh},
		}
		if evaluator.MatchRule(rule, testItem()) {
			t.Fatal("AND rule with one failing condition should not match")
		}
	})

	t.Run("OR requires any condition", func(t *testing.T) {
		rule := models.FulfillmentRule{
			ConditionLogic: enums.RuleLogicOr,
			Conditions:     []types.RuleCondition{priceTooHigh, skuMatches},
		}
		if !evaluator.MatchRule(rule, testItem()) {
			t.Fatal("OR rule with one passing condition should match")
		}
	})

	t.Run("invalid logic falls back to AND", func(t *testing.T) {
		rule := models.FulfillmentRule{
			ConditionLogic: "XOR",
			Conditions:     []types.RuleCondition{skuMatches},
		}
		if !evaluator.MatchRule(rule, testItem()) {
			t.Fatal("single passing condition should match under AND fallback")
		}
	})
}
