package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEvaluateCondition_NilConditionIsAlwaysLive(t *testing.T) {
	assert.True(t, EvaluateCondition(nil, nil))
	assert.True(t, EvaluateCondition(nil, map[string]Value{"x": NumberValue(1)}))
}

func TestEvaluateCondition_GreaterThan(t *testing.T) {
	cond := &WireCondition{Field: "age", Operator: OperatorGt, Value: NumberValue(18)}

	assert.True(t, EvaluateCondition(cond, map[string]Value{"age": NumberValue(25)}))
	assert.False(t, EvaluateCondition(cond, map[string]Value{"age": NumberValue(18)}))
	assert.False(t, EvaluateCondition(cond, map[string]Value{"age": NumberValue(12)}))
}

func TestEvaluateCondition_MissingFieldIsFalse(t *testing.T) {
	cond := &WireCondition{Field: "age", Operator: OperatorGt, Value: NumberValue(18)}

	assert.False(t, EvaluateCondition(cond, map[string]Value{}))
	assert.False(t, EvaluateCondition(cond, nil))
}

func TestEvaluateCondition_TypeMismatchIsFalse(t *testing.T) {
	cond := &WireCondition{Field: "age", Operator: OperatorGt, Value: NumberValue(18)}

	// "25" is a string, not a number; ordering comparisons never coerce.
	assert.False(t, EvaluateCondition(cond, map[string]Value{"age": StringValue("25")}))
}

func TestEvaluateCondition_EqAndNeq(t *testing.T) {
	data := map[string]Value{"status": StringValue("approved")}

	eq := &WireCondition{Field: "status", Operator: OperatorEq, Value: StringValue("approved")}
	assert.True(t, EvaluateCondition(eq, data))

	neq := &WireCondition{Field: "status", Operator: OperatorNeq, Value: StringValue("rejected")}
	assert.True(t, EvaluateCondition(neq, data))

	eqOther := &WireCondition{Field: "status", Operator: OperatorEq, Value: StringValue("rejected")}
	assert.False(t, EvaluateCondition(eqOther, data))
}

func TestEvaluateCondition_BoundsOperators(t *testing.T) {
	data := map[string]Value{"score": NumberValue(10)}

	assert.True(t, EvaluateCondition(&WireCondition{Field: "score", Operator: OperatorGte, Value: NumberValue(10)}, data))
	assert.True(t, EvaluateCondition(&WireCondition{Field: "score", Operator: OperatorLte, Value: NumberValue(10)}, data))
	assert.False(t, EvaluateCondition(&WireCondition{Field: "score", Operator: OperatorLt, Value: NumberValue(10)}, data))
}

func TestEvaluateCondition_ContainsString(t *testing.T) {
	data := map[string]Value{"message": StringValue("hello world")}

	cond := &WireCondition{Field: "message", Operator: OperatorContains, Value: StringValue("world")}
	assert.True(t, EvaluateCondition(cond, data))

	cond.Value = StringValue("mars")
	assert.False(t, EvaluateCondition(cond, data))
}

func TestEvaluateCondition_ContainsArrayMembership(t *testing.T) {
	data := map[string]Value{"tags": ArrayValue(StringValue("urgent"), StringValue("review"))}

	cond := &WireCondition{Field: "tags", Operator: OperatorContains, Value: StringValue("urgent")}
	assert.True(t, EvaluateCondition(cond, data))

	cond.Value = StringValue("archived")
	assert.False(t, EvaluateCondition(cond, data))
}

func TestEvaluateCondition_Matches(t *testing.T) {
	data := map[string]Value{"email": StringValue("user@example.com")}

	cond := &WireCondition{Field: "email", Operator: OperatorMatches, Value: StringValue(`^[^@]+@[^@]+$`)}
	assert.True(t, EvaluateCondition(cond, data))
}

func TestEvaluateCondition_MalformedPatternIsFalse(t *testing.T) {
	data := map[string]Value{"email": StringValue("user@example.com")}

	cond := &WireCondition{Field: "email", Operator: OperatorMatches, Value: StringValue("([unclosed")}
	assert.False(t, EvaluateCondition(cond, data))
}

func TestEvaluateCondition_UnknownOperatorIsFalse(t *testing.T) {
	cond := &WireCondition{Field: "x", Operator: ConditionOperator("between"), Value: NumberValue(1)}
	assert.False(t, EvaluateCondition(cond, map[string]Value{"x": NumberValue(1)}))
}
