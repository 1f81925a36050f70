// Copyright (c) Microsoft. All rights reserved.

package pipe

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
)

// EmptyResult is the neutral function result sent back to the model when a
// function is unknown, its arguments are malformed, or it fails.
const EmptyResult = "{}"

// Dispatcher runs the local function named by a [FunctionCallIntent].
type Dispatcher struct {
	catalog    *Catalog
	logger     *slog.Logger
	middleware []FunctionMiddleware
}

// DispatcherOption configures a [Dispatcher].
type DispatcherOption func(*Dispatcher)

// WithDispatcherLogger sets the logger used for dispatch events.
func WithDispatcherLogger(logger *slog.Logger) DispatcherOption {
	return func(d *Dispatcher) { d.logger = logger }
}

// WithFunctionMiddleware adds [FunctionMiddleware] around every invocation.
func WithFunctionMiddleware(mws ...FunctionMiddleware) DispatcherOption {
	return func(d *Dispatcher) { d.middleware = append(d.middleware, mws...) }
}

// NewDispatcher creates a Dispatcher resolving names against catalog.
func NewDispatcher(catalog *Catalog, opts ...DispatcherOption) *Dispatcher {
	d := &Dispatcher{catalog: catalog}
	for _, opt := range opts {
		opt(d)
	}
	if d.logger == nil {
		d.logger = slog.Default()
	}
	return d
}

// Invoke runs the named function and returns its result payload. It never
// fails: any dispatch error degrades to [EmptyResult].
func (d *Dispatcher) Invoke(ctx context.Context, name string, args json.RawMessage) string {
	result, _ := d.Dispatch(ctx, name, args)
	return result
}

// Dispatch is like Invoke but also reports why the fallback was used. The
// returned string is always usable as a function result.
func (d *Dispatcher) Dispatch(ctx context.Context, name string, args json.RawMessage) (string, error) {
	if d.catalog == nil {
		err := fmt.Errorf("%w: %q", ErrFunctionNotFound, name)
		d.logger.WarnContext(ctx, "unknown function requested", "function", name)
		return EmptyResult, err
	}
	fn, err := d.catalog.Lookup(name)
	if err != nil {
		d.logger.WarnContext(ctx, "unknown function requested", "function", name)
		return EmptyResult, err
	}

	if len(args) == 0 || !json.Valid(args) {
		err := &FunctionError{
			Name:    name,
			Message: "arguments are not valid JSON",
			Err:     ErrInvalidArguments,
		}
		d.logger.ErrorContext(ctx, "function arguments rejected", "function", name, "error", err)
		return EmptyResult, err
	}

	value, err := d.call(ctx, fn, args)
	if err != nil {
		d.logger.ErrorContext(ctx, "function dispatch failed", "function", name, "error", err)
		return EmptyResult, err
	}

	result, err := encodeResult(value)
	if err != nil {
		err = &FunctionError{Name: name, Message: "encode result: " + err.Error(), Err: ErrFunctionExecution}
		d.logger.ErrorContext(ctx, "function result rejected", "function", name, "error", err)
		return EmptyResult, err
	}
	d.logger.InfoContext(ctx, "function dispatched", "function", name)
	return result, nil
}

// call invokes fn through the middleware chain, converting panics and
// untyped failures into a *FunctionError.
func (d *Dispatcher) call(ctx context.Context, fn Function, args json.RawMessage) (value any, err error) {
	name := fn.Spec().Name
	defer func() {
		if r := recover(); r != nil {
			value = nil
			err = &FunctionError{
				Name:    name,
				Message: fmt.Sprintf("panic: %v", r),
				Err:     ErrFunctionExecution,
			}
		}
	}()

	handler := func(ctx context.Context, f Function, a json.RawMessage) (any, error) {
		return f.Invoke(ctx, a)
	}
	value, err = chainFunctionMiddleware(handler, d.middleware...)(ctx, fn, args)
	if err != nil {
		var fnErr *FunctionError
		if errors.As(err, &fnErr) {
			return nil, err
		}
		return nil, &FunctionError{Name: name, Message: err.Error(), Err: fmt.Errorf("%w: %w", ErrFunctionExecution, err)}
	}
	return value, nil
}

// encodeResult turns a function's return value into the text sent back as a
// function-role message. Strings pass through verbatim.
func encodeResult(v any) (string, error) {
	switch r := v.(type) {
	case nil:
		return EmptyResult, nil
	case string:
		return r, nil
	case json.RawMessage:
		if len(r) == 0 {
			return EmptyResult, nil
		}
		return string(r), nil
	case []byte:
		return string(r), nil
	}
	b, err := json.Marshal(v)
	if err != nil {
		return "", err
	}
	return string(b), nil
}
