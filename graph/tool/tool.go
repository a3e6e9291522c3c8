package tool

import (
	"context"
	"encoding/json"
	"fmt"
	"reflect"

	"github.com/jcarver989/lattice-llm/graph"
)

var ctxType = reflect.TypeOf((*context.Context)(nil)).Elem()
var errType = reflect.TypeOf((*error)(nil)).Elem()

// funcTool adapts a reflected Go function to graph.Tool. Its schema is
// derived once, at construction, from the function's argument struct type.
type funcTool struct {
	name        string
	description string
	schema      map[string]any
	argsType    reflect.Type
	takesCtx    bool
	fn          reflect.Value
}

// FromFunc builds a graph.Tool from fn, which must have one of the shapes:
//
//	func(ctx context.Context, args Args) (any, error)
//	func(args Args) (any, error)
//
// where Args is a struct. Its fields become the tool's JSON Schema
// properties via DeriveSchema. Go functions carry no runtime docstring
// (unlike the Python tools this package is modeled on), so description is
// supplied explicitly rather than introspected.
func FromFunc(name, description string, fn any) (graph.Tool, error) {
	v := reflect.ValueOf(fn)
	t := v.Type()
	if t.Kind() != reflect.Func {
		return nil, fmt.Errorf("tool: FromFunc: %q is not a function", name)
	}

	takesCtx, argsType, err := inspectSignature(t)
	if err != nil {
		return nil, fmt.Errorf("tool: FromFunc %q: %w", name, err)
	}

	return &funcTool{
		name:        name,
		description: description,
		schema:      DeriveSchema(argsType),
		argsType:    argsType,
		takesCtx:    takesCtx,
		fn:          v,
	}, nil
}

func inspectSignature(t reflect.Type) (takesCtx bool, argsType reflect.Type, err error) {
	if t.NumOut() != 2 || !t.Out(1).Implements(errType) {
		return false, nil, fmt.Errorf("must return (any, error)")
	}

	switch t.NumIn() {
	case 1:
		if t.In(0).Kind() != reflect.Struct {
			return false, nil, fmt.Errorf("single argument must be a struct")
		}
		return false, t.In(0), nil
	case 2:
		if !t.In(0).Implements(ctxType) && t.In(0) != ctxType {
			return false, nil, fmt.Errorf("first argument must be context.Context")
		}
		if t.In(1).Kind() != reflect.Struct {
			return false, nil, fmt.Errorf("second argument must be a struct")
		}
		return true, t.In(1), nil
	default:
		return false, nil, fmt.Errorf("must take (Args) or (context.Context, Args)")
	}
}

func (f *funcTool) Name() string           { return f.name }
func (f *funcTool) Description() string    { return f.description }
func (f *funcTool) Schema() map[string]any { return f.schema }

// Call decodes input into a fresh Args value via a JSON round-trip (the
// same mapToStruct technique used across the example pack for binding a
// map[string]any onto a typed parameter struct), then invokes fn.
func (f *funcTool) Call(ctx context.Context, input map[string]any) (any, error) {
	args := reflect.New(f.argsType)
	data, err := json.Marshal(input)
	if err != nil {
		return nil, fmt.Errorf("tool: marshal input for %q: %w", f.name, err)
	}
	if err := json.Unmarshal(data, args.Interface()); err != nil {
		return nil, fmt.Errorf("tool: decode input for %q: %w", f.name, err)
	}

	var in []reflect.Value
	if f.takesCtx {
		in = []reflect.Value{reflect.ValueOf(ctx), args.Elem()}
	} else {
		in = []reflect.Value{args.Elem()}
	}

	out := f.fn.Call(in)
	result := out[0].Interface()
	errVal := out[1].Interface()
	if errVal != nil {
		return nil, errVal.(error)
	}
	return result, nil
}
