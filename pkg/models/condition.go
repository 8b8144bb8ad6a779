// Package models provides wire condition evaluation for execution gating.
package models

import (
	"regexp"
	"strings"
)

// EvaluateCondition applies a wire condition against the execution data
// context (the union of completed node outputs and global variables).
//
// The function is total: a missing field, a type-mismatched comparison or a
// malformed pattern all evaluate to false, never an error. A nil condition
// is always live.
func EvaluateCondition(cond *WireCondition, data map[string]Value) bool {
	if cond == nil {
		return true
	}

	field, ok := data[cond.Field]
	if !ok {
		return false
	}

	switch cond.Operator {
	case OperatorEq:
		return field.Equal(cond.Value)
	case OperatorNeq:
		return !field.Equal(cond.Value)
	case OperatorGt:
		return compareNumeric(field, cond.Value, func(a, b float64) bool { return a > b })
	case OperatorLt:
		return compareNumeric(field, cond.Value, func(a, b float64) bool { return a < b })
	case OperatorGte:
		return compareNumeric(field, cond.Value, func(a, b float64) bool { return a >= b })
	case OperatorLte:
		return compareNumeric(field, cond.Value, func(a, b float64) bool { return a <= b })
	case OperatorContains:
		return evaluateContains(field, cond.Value)
	case OperatorMatches:
		return evaluateMatches(field, cond.Value)
	default:
		return false
	}
}

func compareNumeric(field, value Value, cmp func(a, b float64) bool) bool {
	a, aok := field.AsNumber()
	b, bok := value.AsNumber()

	if !aok || !bok {
		return false
	}

	return cmp(a, b)
}

// evaluateContains checks substring membership for strings and element
// membership for arrays. Other field kinds evaluate false.
func evaluateContains(field, value Value) bool {
	if s, ok := field.AsString(); ok {
		sub, ok := value.AsString()
		if !ok {
			return false
		}

		return strings.Contains(s, sub)
	}

	if items, ok := field.AsArray(); ok {
		for _, item := range items {
			if item.Equal(value) {
				return true
			}
		}
	}

	return false
}

func evaluateMatches(field, value Value) bool {
	s, ok := field.AsString()
	if !ok {
		return false
	}

	pattern, ok := value.AsString()
	if !ok {
		return false
	}

	matched, err := regexp.MatchString(pattern, s)
	if err != nil {
		return false
	}

	return matched
}
