package workflow

import (
	"fmt"
	"reflect"
	"strings"
)

// ConditionEvaluator evaluates workflow conditions
type ConditionEvaluator struct{}

// NewConditionEvaluator creates a new condition evaluator
func NewConditionEvaluator() *ConditionEvaluator {
	return &ConditionEvaluator{}
}

// Evaluate evaluates all conditions against the provided data with AND
// semantics: every condition must pass. No conditions means always pass.
func (e *ConditionEvaluator) Evaluate(conditions []Condition, data map[string]interface{}) (bool, error) {
	for _, condition := range conditions {
		result, err := e.evaluateSingle(condition, data)
		if err != nil {
			return false, err
		}
		if !result {
			return false, nil
		}
	}
	return true, nil
}

// evaluateSingle evaluates a single condition
func (e *ConditionEvaluator) evaluateSingle(condition Condition, data map[string]interface{}) (bool, error) {
	fieldValue, exists := data[condition.Field]
	if !exists {
		// A missing field can never equal the condition value
		if condition.Operator == "not_equals" {
			return true, nil
		}
		return false, fmt.Errorf("field '%s' not found in data", condition.Field)
	}

	switch condition.Operator {
	case "equals":
		return e.compareEquals(fieldValue, condition.Value), nil

	case "not_equals":
		return !e.compareEquals(fieldValue, condition.Value), nil

	case "greater_than":
		return e.compareNumeric(fieldValue, condition.Value, func(a, b float64) bool { return a > b })

	case "less_than":
		return e.compareNumeric(fieldValue, condition.Value, func(a, b float64) bool { return a < b })

	case "contains":
		return e.compareContains(fieldValue, condition.Value)

	default:
		return false, fmt.Errorf("unknown operator: %s", condition.Operator)
	}
}

// compareEquals checks if two values are equal. Numeric values compare by
// value so that a JSON-decoded float64 matches a stored int.
func (e *ConditionEvaluator) compareEquals(fieldValue, conditionValue interface{}) bool {
	if reflect.DeepEqual(fieldValue, conditionValue) {
		return true
	}
	fieldNum, err1 := toFloat64(fieldValue)
	condNum, err2 := toFloat64(conditionValue)
	if err1 == nil && err2 == nil {
		return fieldNum == condNum
	}
	return false
}

// compareNumeric compares two values as numbers using the given predicate
func (e *ConditionEvaluator) compareNumeric(fieldValue, conditionValue interface{}, cmp func(a, b float64) bool) (bool, error) {
	fieldNum, err := toFloat64(fieldValue)
	if err != nil {
		return false, fmt.Errorf("field value is not a number: %v", err)
	}

	condNum, err := toFloat64(conditionValue)
	if err != nil {
		return false, fmt.Errorf("condition value is not a number: %v", err)
	}

	return cmp(fieldNum, condNum), nil
}

// compareContains checks if field value contains condition value (substring)
func (e *ConditionEvaluator) compareContains(fieldValue, conditionValue interface{}) (bool, error) {
	fieldStr, ok := fieldValue.(string)
	if !ok {
		return false, fmt.Errorf("field value is not a string")
	}

	condStr, ok := conditionValue.(string)
	if !ok {
		return false, fmt.Errorf("condition value is not a string")
	}

	return strings.Contains(strings.ToLower(fieldStr), strings.ToLower(condStr)), nil
}

// toFloat64 converts various numeric types to float64
func toFloat64(value interface{}) (float64, error) {
	switch v := value.(type) {
	case float64:
		return v, nil
	case float32:
		return float64(v), nil
	case int:
		return float64(v), nil
	case int64:
		return float64(v), nil
	case int32:
		return float64(v), nil
	default:
		return 0, fmt.Errorf("cannot convert %T to float64", value)
	}
}
