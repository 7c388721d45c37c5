package workflow

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConditionEvaluator_AndSemantics(t *testing.T) {
	evaluator := NewConditionEvaluator()
	data := map[string]interface{}{"x": 5, "y": 2}

	t.Run("all conditions pass", func(t *testing.T) {
		result, err := evaluator.Evaluate([]Condition{
			{Field: "x", Operator: "greater_than", Value: 3},
			{Field: "y", Operator: "less_than", Value: 10},
		}, data)
		require.NoError(t, err)
		assert.True(t, result)
	})

	t.Run("one failing condition fails the set", func(t *testing.T) {
		result, err := evaluator.Evaluate([]Condition{
			{Field: "x", Operator: "greater_than", Value: 3},
			{Field: "y", Operator: "greater_than", Value: 10},
		}, data)
		require.NoError(t, err)
		assert.False(t, result)
	})

	t.Run("no conditions always passes", func(t *testing.T) {
		result, err := evaluator.Evaluate(nil, data)
		require.NoError(t, err)
		assert.True(t, result)
	})
}

func TestConditionEvaluator_Operators(t *testing.T) {
	evaluator := NewConditionEvaluator()

	tests := []struct {
		name      string
		condition Condition
		data      map[string]interface{}
		expected  bool
	}{
		{"equals string", Condition{Field: "status", Operator: "equals", Value: "paid"}, map[string]interface{}{"status": "paid"}, true},
		{"equals string mismatch", Condition{Field: "status", Operator: "equals", Value: "paid"}, map[string]interface{}{"status": "open"}, false},
		{"equals numeric across types", Condition{Field: "amount", Operator: "equals", Value: 100}, map[string]interface{}{"amount": float64(100)}, true},
		{"not_equals", Condition{Field: "status", Operator: "not_equals", Value: "paid"}, map[string]interface{}{"status": "open"}, true},
		{"greater_than true", Condition{Field: "amount", Operator: "greater_than", Value: 50}, map[string]interface{}{"amount": float64(75)}, true},
		{"greater_than equal is false", Condition{Field: "amount", Operator: "greater_than", Value: 50}, map[string]interface{}{"amount": 50}, false},
		{"less_than", Condition{Field: "amount", Operator: "less_than", Value: 50}, map[string]interface{}{"amount": 49.9}, true},
		{"contains case-insensitive", Condition{Field: "email", Operator: "contains", Value: "@Example.COM"}, map[string]interface{}{"email": "user@example.com"}, true},
		{"contains miss", Condition{Field: "email", Operator: "contains", Value: "@other.com"}, map[string]interface{}{"email": "user@example.com"}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := evaluator.Evaluate([]Condition{tt.condition}, tt.data)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, result)
		})
	}
}

func TestConditionEvaluator_MissingField(t *testing.T) {
	evaluator := NewConditionEvaluator()
	data := map[string]interface{}{"present": 1}

	t.Run("missing field errors for equals", func(t *testing.T) {
		_, err := evaluator.Evaluate([]Condition{
			{Field: "absent", Operator: "equals", Value: "x"},
		}, data)
		assert.Error(t, err)
	})

	t.Run("missing field satisfies not_equals", func(t *testing.T) {
		result, err := evaluator.Evaluate([]Condition{
			{Field: "absent", Operator: "not_equals", Value: "x"},
		}, data)
		require.NoError(t, err)
		assert.True(t, result)
	})
}

func TestConditionEvaluator_TypeErrors(t *testing.T) {
	evaluator := NewConditionEvaluator()

	t.Run("non-numeric field for greater_than", func(t *testing.T) {
		_, err := evaluator.Evaluate([]Condition{
			{Field: "amount", Operator: "greater_than", Value: 10},
		}, map[string]interface{}{"amount": "lots"})
		assert.Error(t, err)
	})

	t.Run("non-string field for contains", func(t *testing.T) {
		_, err := evaluator.Evaluate([]Condition{
			{Field: "email", Operator: "contains", Value: "@"},
		}, map[string]interface{}{"email": 42})
		assert.Error(t, err)
	})

	t.Run("unknown operator", func(t *testing.T) {
		_, err := evaluator.Evaluate([]Condition{
			{Field: "x", Operator: "matches", Value: "y"},
		}, map[string]interface{}{"x": "y"})
		assert.Error(t, err)
	})
}
