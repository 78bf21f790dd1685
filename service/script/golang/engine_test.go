package golang

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/viant/procdef/model/resource"
	"github.com/viant/procdef/model/types"
)

func TestEngine_Evaluate(t *testing.T) {
	var testCases = []struct {
		description string
		body        string
		inputs      map[string]interface{}
		expect      map[string]interface{}
		expectErr   string
		invalidData bool
	}{
		{
			description: "package clause",
			body: `package pricing

import "strings"

func Evaluate(inputs map[string]interface{}) (map[string]interface{}, error) {
	carrier := inputs["carrier"].(string)
	return map[string]interface{}{"Carrier": strings.ToUpper(carrier)}, nil
}`,
			inputs: map[string]interface{}{"carrier": "dhl"},
			expect: map[string]interface{}{"Carrier": "DHL"},
		},
		{
			description: "no package clause",
			body: `func Evaluate(inputs map[string]interface{}) (map[string]interface{}, error) {
	return map[string]interface{}{"Weight": inputs["weight"].(int) * 2}, nil
}`,
			inputs: map[string]interface{}{"weight": 2},
			expect: map[string]interface{}{"Weight": 4},
		},
		{
			description: "script error",
			body: `import "errors"

func Evaluate(inputs map[string]interface{}) (map[string]interface{}, error) {
	return nil, errors.New("no carrier")
}`,
			expectErr: "no carrier",
		},
		{
			description: "missing function",
			body:        `func Other() {}`,
			expectErr:   FuncName,
			invalidData: true,
		},
		{
			description: "wrong argument type",
			body: `func Evaluate(inputs string) (map[string]interface{}, error) {
	return nil, nil
}`,
			expectErr:   "argument",
			invalidData: true,
		},
		{
			description: "second result is not an error",
			body: `func Evaluate(inputs map[string]interface{}) (map[string]interface{}, int) {
	return nil, 1
}`,
			expectErr:   "must return",
			invalidData: true,
		},
		{
			description: "single result",
			body: `func Evaluate(inputs map[string]interface{}) map[string]interface{} {
	return inputs
}`,
			expectErr:   "must return",
			invalidData: true,
		},
		{
			description: "not a function",
			body:        `var Evaluate = 1`,
			expectErr:   "not a function",
			invalidData: true,
		},
		{
			description: "script panic",
			body: `func Evaluate(inputs map[string]interface{}) (map[string]interface{}, error) {
	panic("no weight")
}`,
			expectErr: "no weight",
		},
	}
	engine := New()
	assert.Equal(t, resource.LanguageGo, engine.Language())
	for _, testCase := range testCases {
		script := &resource.Resource{Kind: resource.KindScript, Name: "s", Language: resource.LanguageGo, Body: testCase.body}
		actual, err := engine.Evaluate(context.Background(), script, testCase.inputs)
		if testCase.expectErr != "" {
			require.Error(t, err, testCase.description)
			assert.Contains(t, err.Error(), testCase.expectErr, testCase.description)
			assert.Equal(t, testCase.invalidData, errors.Is(err, types.ErrInvalidData), testCase.description)
			continue
		}
		require.NoError(t, err, testCase.description)
		assert.EqualValues(t, testCase.expect, actual, testCase.description)
	}
}

func TestEngine_Cache(t *testing.T) {
	engine := New()
	script := &resource.Resource{Kind: resource.KindScript, Name: "s", Language: resource.LanguageGo, Body: `func Evaluate(inputs map[string]interface{}) (map[string]interface{}, error) {
	return inputs, nil
}`}
	for i := 0; i < 2; i++ {
		actual, err := engine.Evaluate(context.Background(), script, map[string]interface{}{"i": i})
		require.NoError(t, err)
		assert.EqualValues(t, map[string]interface{}{"i": i}, actual)
	}
	assert.Len(t, engine.programs, 1)
}
