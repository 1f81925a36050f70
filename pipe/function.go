// Copyright (c) Microsoft. All rights reserved.

package pipe

import (
	"context"
	"encoding/json"
	"time"
)

// FunctionSpec is the declaration of a callable function as offered to the
// model: a unique name, a description, and a JSON Schema for its arguments.
type FunctionSpec struct {
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Parameters  json.RawMessage `json:"parameters,omitempty"`
}

// Function is a local function the model may ask to run.
type Function interface {
	// Spec returns the declaration exposed to the model.
	Spec() FunctionSpec

	// Invoke runs the function with the model-supplied JSON arguments.
	Invoke(ctx context.Context, args json.RawMessage) (any, error)
}

// ArgumentValidator is implemented by typed argument structs that need checks
// beyond what JSON decoding enforces.
type ArgumentValidator interface {
	Validate() error
}

// LocalFunction is a concrete [Function] backed by a Go function.
type LocalFunction struct {
	spec    FunctionSpec
	fn      func(ctx context.Context, args json.RawMessage) (any, error)
	timeout time.Duration
}

// FunctionOption configures a [LocalFunction].
type FunctionOption func(*LocalFunction)

// WithTimeout bounds a single invocation of the function.
func WithTimeout(d time.Duration) FunctionOption {
	return func(f *LocalFunction) { f.timeout = d }
}

// NewFunction creates a [LocalFunction] with a raw JSON schema and handler.
func NewFunction(name, description string, parameters json.RawMessage, fn func(ctx context.Context, args json.RawMessage) (any, error), opts ...FunctionOption) *LocalFunction {
	f := &LocalFunction{
		spec: FunctionSpec{
			Name:        name,
			Description: description,
			Parameters:  parameters,
		},
		fn: fn,
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// NewTypedFunction creates a [LocalFunction] whose JSON Schema is generated
// from Args and whose arguments are decoded into Args before fn is called.
// If Args implements [ArgumentValidator] it is validated after decoding.
//
//	type weatherArgs struct {
//	    City string `json:"city" jsonschema:"required,description=Name of the city"`
//	}
func NewTypedFunction[Args any](name, description string, fn func(ctx context.Context, args Args) (any, error), opts ...FunctionOption) *LocalFunction {
	schema := GenerateSchema[Args]()

	wrapped := func(ctx context.Context, raw json.RawMessage) (any, error) {
		var args Args
		if err := json.Unmarshal(raw, &args); err != nil {
			return nil, &FunctionError{
				Name:    name,
				Message: "invalid arguments: " + err.Error(),
				Err:     ErrInvalidArguments,
			}
		}
		if v, ok := any(&args).(ArgumentValidator); ok {
			if err := v.Validate(); err != nil {
				return nil, &FunctionError{
					Name:    name,
					Message: "invalid arguments: " + err.Error(),
					Err:     ErrInvalidArguments,
				}
			}
		}
		return fn(ctx, args)
	}

	return NewFunction(name, description, schema, wrapped, opts...)
}

// Spec returns the function's declaration.
func (f *LocalFunction) Spec() FunctionSpec { return f.spec }

// Invoke calls the backing Go function, bounded by the configured timeout.
func (f *LocalFunction) Invoke(ctx context.Context, args json.RawMessage) (any, error) {
	if f.fn == nil {
		return nil, &FunctionError{
			Name:    f.spec.Name,
			Message: "function has no implementation",
			Err:     ErrFunctionExecution,
		}
	}
	if f.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, f.timeout)
		defer cancel()
	}
	return f.fn(ctx, args)
}
