package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValue_Kind_Constructors(t *testing.T) {
	assert.Equal(t, KindNull, NullValue().Kind())
	assert.Equal(t, KindString, StringValue("hi").Kind())
	assert.Equal(t, KindNumber, NumberValue(4.2).Kind())
	assert.Equal(t, KindBool, BoolValue(true).Kind())
	assert.Equal(t, KindArray, ArrayValue(NumberValue(1)).Kind())
	assert.Equal(t, KindObject, ObjectValue(map[string]Value{"a": NullValue()}).Kind())
}

func TestValue_Equal_DifferentKinds(t *testing.T) {
	// "1" and 1 are different values; no coercion happens anywhere.
	assert.False(t, StringValue("1").Equal(NumberValue(1)))
	assert.False(t, BoolValue(false).Equal(NullValue()))
}

func TestValue_Equal_DeepStructures(t *testing.T) {
	a := ObjectValue(map[string]Value{
		"tags": ArrayValue(StringValue("x"), StringValue("y")),
		"n":    NumberValue(3),
	})
	b := ObjectValue(map[string]Value{
		"n":    NumberValue(3),
		"tags": ArrayValue(StringValue("x"), StringValue("y")),
	})

	assert.True(t, a.Equal(b))

	c := ObjectValue(map[string]Value{
		"n":    NumberValue(3),
		"tags": ArrayValue(StringValue("x"), StringValue("z")),
	})
	assert.False(t, a.Equal(c))
}

func TestValue_JSONRoundTrip(t *testing.T) {
	original := ObjectValue(map[string]Value{
		"name":    StringValue("classifier"),
		"weight":  NumberValue(0.75),
		"enabled": BoolValue(true),
		"labels":  ArrayValue(StringValue("a"), StringValue("b")),
		"extra":   NullValue(),
	})

	data, err := json.Marshal(original)
	require.NoError(t, err)

	var decoded Value
	require.NoError(t, json.Unmarshal(data, &decoded))

	assert.True(t, original.Equal(decoded))
}

func TestValue_MarshalJSON_SortedObjectKeys(t *testing.T) {
	v := ObjectValue(map[string]Value{
		"zeta":  NumberValue(1),
		"alpha": NumberValue(2),
		"mid":   NumberValue(3),
	})

	data, err := json.Marshal(v)
	require.NoError(t, err)
	assert.Equal(t, `{"alpha":2,"mid":3,"zeta":1}`, string(data))
}

func TestValue_UnmarshalJSON_Null(t *testing.T) {
	var v Value
	require.NoError(t, json.Unmarshal([]byte("null"), &v))
	assert.True(t, v.IsNull())
}

func TestValue_Accessors_WrongKind(t *testing.T) {
	_, ok := NumberValue(1).AsString()
	assert.False(t, ok)

	_, ok = StringValue("x").AsNumber()
	assert.False(t, ok)

	_, ok = NullValue().AsArray()
	assert.False(t, ok)
}

func TestValueFromAny_UnsupportedType(t *testing.T) {
	_, err := ValueFromAny(struct{}{})
	assert.Error(t, err)
}

func TestValue_ToAny_RoundTrip(t *testing.T) {
	v := ObjectValue(map[string]Value{
		"items": ArrayValue(NumberValue(1), NumberValue(2)),
		"done":  BoolValue(false),
	})

	raw := v.ToAny()

	back, err := ValueFromAny(raw)
	require.NoError(t, err)
	assert.True(t, v.Equal(back))
}

func TestValue_String_Rendering(t *testing.T) {
	assert.Equal(t, "null", NullValue().String())
	assert.Equal(t, "42", NumberValue(42).String())
	assert.Equal(t, "2.5", NumberValue(2.5).String())
	assert.Equal(t, "true", BoolValue(true).String())
	assert.Equal(t, "text", StringValue("text").String())
}
