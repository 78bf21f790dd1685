package expr

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/viant/procdef/model/resource"
)

func TestEngine_Evaluate(t *testing.T) {
	var testCases = []struct {
		description string
		body        string
		inputs      map[string]interface{}
		expect      interface{}
		expectErr   bool
	}{
		{
			description: "map result",
			body:        `{"Carrier": carrier, "Weight": weight * 2}`,
			inputs:      map[string]interface{}{"carrier": "dhl", "weight": 2},
			expect:      map[string]interface{}{"Carrier": "dhl", "Weight": 4},
		},
		{
			description: "scalar result",
			body:        `weight > 1 ? "heavy" : "light"`,
			inputs:      map[string]interface{}{"weight": 2},
			expect:      "heavy",
		},
		{
			description: "nested input",
			body:        `dependency.Currency`,
			inputs:      map[string]interface{}{"dependency": map[string]interface{}{"Currency": "EUR"}},
			expect:      "EUR",
		},
		{
			description: "syntax error",
			body:        `{"Carrier": `,
			expectErr:   true,
		},
	}
	engine := New()
	assert.Equal(t, resource.LanguageExpr, engine.Language())
	for _, testCase := range testCases {
		script := &resource.Resource{Kind: resource.KindScript, Name: "s", Body: testCase.body}
		actual, err := engine.Evaluate(context.Background(), script, testCase.inputs)
		if testCase.expectErr {
			assert.Error(t, err, testCase.description)
			continue
		}
		if !assert.NoError(t, err, testCase.description) {
			continue
		}
		assert.EqualValues(t, testCase.expect, actual, testCase.description)
	}
}
