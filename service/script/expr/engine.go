// Package expr evaluates scripts written as expr-lang expressions. Inputs are
// exposed as variables; the expression result is returned as is.
package expr

import (
	"context"
	"fmt"

	"github.com/expr-lang/expr"
	"github.com/viant/procdef/model/resource"
)

// Engine evaluates expr-lang scripts
type Engine struct{}

// Language returns resource.LanguageExpr
func (e *Engine) Language() string {
	return resource.LanguageExpr
}

// Evaluate compiles the script body against inputs and runs it
func (e *Engine) Evaluate(_ context.Context, script *resource.Resource, inputs map[string]interface{}) (interface{}, error) {
	env := make(map[string]interface{}, len(inputs))
	for k, v := range inputs {
		env[k] = v
	}
	program, err := expr.Compile(script.Body, expr.Env(env))
	if err != nil {
		return nil, fmt.Errorf("compile %s: %w", script.Name, err)
	}
	result, err := expr.Run(program, env)
	if err != nil {
		return nil, fmt.Errorf("run %s: %w", script.Name, err)
	}
	return result, nil
}

// New creates an expr engine
func New() *Engine {
	return &Engine{}
}
