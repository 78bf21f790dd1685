package script

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/viant/procdef/model/collection"
	"github.com/viant/procdef/model/property"
	"github.com/viant/procdef/model/resource"
	"github.com/viant/procdef/model/types"
	"github.com/viant/procdef/service/dao/store"
	"github.com/viant/procdef/service/loader"
)

func newSource(t *testing.T, scripts ...*resource.Resource) *loader.Service {
	source := loader.New(store.NewMemory())
	for _, script := range scripts {
		_, err := source.SaveResource(context.Background(), script)
		require.NoError(t, err)
	}
	return source
}

func TestService_Evaluate(t *testing.T) {
	source := newSource(t,
		&resource.Resource{Kind: resource.KindScript, Name: "double", Body: `{"Weight": weight * 2}`},
		&resource.Resource{Kind: resource.KindScript, Name: "label", Language: resource.LanguageGo, Body: `func Evaluate(inputs map[string]interface{}) (map[string]interface{}, error) {
	return map[string]interface{}{"Label": "L-" + inputs["name"].(string)}, nil
}`},
		&resource.Resource{Kind: resource.KindScript, Name: "lua", Language: "lua", Body: `return 1`},
	)
	srv := New(source)
	assert.ElementsMatch(t, []string{resource.LanguageExpr, resource.LanguageGo}, srv.Languages())

	var testCases = []struct {
		description string
		name        string
		inputs      map[string]interface{}
		expect      interface{}
		expectErr   error
	}{
		{description: "default language", name: "double", inputs: map[string]interface{}{"weight": 3}, expect: map[string]interface{}{"Weight": 6}},
		{description: "go language", name: "label", inputs: map[string]interface{}{"name": "x"}, expect: map[string]interface{}{"Label": "L-x"}},
		{description: "unsupported language", name: "lua", expectErr: types.ErrInvalidData},
		{description: "missing script", name: "missing", expectErr: types.ErrObjectNotFound},
	}
	for _, testCase := range testCases {
		actual, err := srv.Evaluate(context.Background(), testCase.name, nil, testCase.inputs)
		if testCase.expectErr != nil {
			assert.True(t, errors.Is(err, testCase.expectErr), testCase.description)
			continue
		}
		require.NoError(t, err, testCase.description)
		assert.EqualValues(t, testCase.expect, actual, testCase.description)
	}
}

func TestService_Deriver(t *testing.T) {
	ctx := context.Background()
	source := newSource(t, &resource.Resource{Kind: resource.KindScript, Name: "classify", Body: `{"Class": dependency.ClassProps, "Region": region}`})
	deriver := collection.NewDeriver(source,
		collection.WithScripts(New(source)),
		collection.WithHandles(map[string]interface{}{"region": "emea"}))

	dep := collection.NewDependency("Pricing", nil)
	dep.ClassProps = "Type"
	dep.Properties.Put(property.ScriptName, "classify")
	dep.Properties.Put(property.ScriptVersion, 1)

	props, err := deriver.ItemProperties(ctx, dep)
	require.NoError(t, err)
	assert.Equal(t, "Type", props.Value("Class"))
	assert.Equal(t, "emea", props.Value("Region"))

	var target property.Properties
	require.NoError(t, deriver.VertexProperties(ctx, dep, &target))
	assert.Equal(t, "Type", target.Value("Class"))
}
