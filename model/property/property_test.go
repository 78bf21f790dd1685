package property

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/viant/procdef/model/types"
)

func TestProperties_PutAndAbstract(t *testing.T) {
	var props Properties
	props.Put("A", 1)
	props.PutAbstract("B", "default")
	props.Put("C", "x")
	assert.Equal(t, []string{"A", "B", "C"}, props.Keys())
	assert.Equal(t, []string{"B"}, props.Abstract())

	props.Put("B", "concrete")
	assert.Equal(t, []string{"A", "B", "C"}, props.Keys(), "replacement keeps position")
	assert.Empty(t, props.Abstract())
	assert.Equal(t, "concrete", props.String("B"))

	assert.True(t, props.Remove("A"))
	assert.False(t, props.Remove("A"))
	assert.False(t, props.Has("A"))
}

func TestProperties_CloneIsDeep(t *testing.T) {
	var nested Properties
	nested.Put("SchemaVersion", 2)
	var props Properties
	props.Put("Shared", nested)

	clone := props.Clone()
	inner, ok := clone.Nested("Shared")
	require.True(t, ok)
	inner.Put("SchemaVersion", 3)

	original, _ := props.Nested("Shared")
	assert.Equal(t, 2, original.Value("SchemaVersion"))
}

func TestProperties_Merge(t *testing.T) {
	var base Properties
	base.PutAbstract("Agent", nil)
	base.Put("Colour", "Red")
	var overlay Properties
	overlay.Put("Agent", "bob")
	overlay.Put("Size", 3)
	base.Merge(overlay)
	assert.Equal(t, map[string]interface{}{"Agent": "bob", "Colour": "Red", "Size": 3}, base.ToMap())
	assert.Empty(t, base.Abstract())
}

func TestFromValue(t *testing.T) {
	props, err := FromValue(map[string]interface{}{"b": 2, "a": map[string]interface{}{"x": "y"}})
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, props.Keys())
	nested, ok := props.Nested("a")
	require.True(t, ok)
	assert.Equal(t, "y", nested.Value("x"))

	_, err = FromValue(nil)
	assert.Error(t, err)
}

func TestDeriveVersion(t *testing.T) {
	var testCases = []struct {
		description string
		input       interface{}
		expect      *int
		invalid     bool
	}{
		{description: "nil", input: nil},
		{description: "empty", input: ""},
		{description: "last", input: "last"},
		{description: "minus one", input: -1},
		{description: "minus one text", input: "-1"},
		{description: "int", input: 3, expect: IntPtr(3)},
		{description: "text", input: " 7 ", expect: IntPtr(7)},
		{description: "not a number", input: "seven", invalid: true},
	}
	for _, testCase := range testCases {
		actual, err := DeriveVersion(testCase.input)
		if testCase.invalid {
			assert.True(t, errors.Is(err, types.ErrInvalidData), testCase.description)
			continue
		}
		require.NoError(t, err, testCase.description)
		assert.Equal(t, testCase.expect, actual, testCase.description)
	}
	assert.Equal(t, "last", VersionName(nil))
	assert.Equal(t, "4", VersionName(IntPtr(4)))
}

func TestDescriptionList(t *testing.T) {
	list := &DescriptionList{Name: "Document", Items: []*Description{
		{Name: "Type", DefaultValue: "Invoice", ClassIdentifier: true},
		{Name: "Colour", DefaultValue: "Red", Transitive: true},
		{Name: "Author"},
		{Name: "Format", DefaultValue: "pdf", ClassIdentifier: true},
	}}
	assert.Equal(t, "Type,Format", list.ClassProps())
	assert.Equal(t, map[string]interface{}{"Type": "Invoice", "Colour": "Red", "Format": "pdf"}, list.Transitive().ToMap())
	assert.NotNil(t, list.Lookup("Author"))
}

func TestProperty_UnmarshalJSON(t *testing.T) {
	props := Properties{
		Concrete(Version, 3),
		Concrete("Rate", 1.5),
		AbstractRequired("Carrier", "ups"),
		Concrete(ActivityDefURN, Properties{Concrete("Ship", "ship-id~1")}),
		Concrete("Tags", []interface{}{"a", "b"}),
	}
	data, err := json.Marshal(props)
	require.NoError(t, err)
	var actual Properties
	require.NoError(t, json.Unmarshal(data, &actual))
	assert.Equal(t, props, actual)
}
