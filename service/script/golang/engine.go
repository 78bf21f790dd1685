// Package golang evaluates scripts written in Go with the yaegi interpreter.
// A script declares
//
//	func Evaluate(inputs map[string]interface{}) (map[string]interface{}, error)
//
// optionally preceded by a package clause and imports from the standard library.
package golang

import (
	"context"
	"fmt"
	"go/parser"
	"go/token"
	"reflect"
	"sync"

	"github.com/traefik/yaegi/interp"
	"github.com/traefik/yaegi/stdlib"
	"github.com/viant/procdef/model/resource"
	"github.com/viant/procdef/model/types"
)

// FuncName is the function every Go script must declare
const FuncName = "Evaluate"

const defaultPackage = "script"

var (
	inputsType = reflect.TypeOf(map[string]interface{}{})
	errorType  = reflect.TypeOf((*error)(nil)).Elem()
)

type program struct {
	mux sync.Mutex
	fn  reflect.Value
}

// Engine evaluates Go scripts; interpreted programs are cached per script
// version and body
type Engine struct {
	mux      sync.Mutex
	programs map[string]*program
}

// Language returns resource.LanguageGo
func (e *Engine) Language() string {
	return resource.LanguageGo
}

// Evaluate interprets the script and calls its Evaluate function with inputs.
// A panic raised by the script is returned as an error.
func (e *Engine) Evaluate(_ context.Context, script *resource.Resource, inputs map[string]interface{}) (ret interface{}, err error) {
	prog, err := e.program(script)
	if err != nil {
		return nil, err
	}
	prog.mux.Lock()
	defer prog.mux.Unlock()
	defer func() {
		if r := recover(); r != nil {
			ret, err = nil, fmt.Errorf("script %s panicked: %v", script.Name, r)
		}
	}()
	if inputs == nil {
		inputs = map[string]interface{}{}
	}
	results := prog.fn.Call([]reflect.Value{reflect.ValueOf(inputs)})
	if !results[1].IsNil() {
		return nil, results[1].Interface().(error)
	}
	return results[0].Interface(), nil
}

func (e *Engine) program(script *resource.Resource) (*program, error) {
	key := script.URN() + "\n" + script.Body
	e.mux.Lock()
	defer e.mux.Unlock()
	if prog, ok := e.programs[key]; ok {
		return prog, nil
	}
	source, pkg := withPackage(script.Body)
	i := interp.New(interp.Options{})
	i.Use(stdlib.Symbols)
	if _, err := i.Eval(source); err != nil {
		return nil, types.Wrap(types.ErrInvalidData, err, "interpret %s", script.Name)
	}
	fn, err := i.Eval(pkg + "." + FuncName)
	if err != nil {
		return nil, types.Wrap(types.ErrInvalidData, err, "%s must define %s", script.Name, FuncName)
	}
	if err = checkSignature(fn); err != nil {
		return nil, types.NewInvalidDataError("%s: %v", script.Name, err)
	}
	prog := &program{fn: fn}
	e.programs[key] = prog
	return prog, nil
}

// checkSignature accepts func(map[string]interface{}) (T, error)
func checkSignature(fn reflect.Value) error {
	if !fn.IsValid() || fn.Kind() != reflect.Func {
		return fmt.Errorf("%s is not a function", FuncName)
	}
	fnType := fn.Type()
	if fnType.NumIn() != 1 || !inputsType.AssignableTo(fnType.In(0)) {
		return fmt.Errorf("%s must take a single map[string]interface{} argument", FuncName)
	}
	if fnType.NumOut() != 2 || fnType.Out(1).Kind() != reflect.Interface || !fnType.Out(1).Implements(errorType) {
		return fmt.Errorf("%s must return (map[string]interface{}, error)", FuncName)
	}
	return nil
}

// withPackage returns body with a package clause and the package name
func withPackage(body string) (string, string) {
	file, err := parser.ParseFile(token.NewFileSet(), "", body, parser.PackageClauseOnly)
	if err == nil && file.Name != nil {
		return body, file.Name.Name
	}
	return "package " + defaultPackage + "\n\n" + body, defaultPackage
}

// New creates a Go engine
func New() *Engine {
	return &Engine{programs: map[string]*program{}}
}
