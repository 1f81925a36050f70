// Copyright (c) Microsoft. All rights reserved.

package pipe

import (
	"context"
	"encoding/json"
)

// CompleteHandler is the function signature for one completion round.
type CompleteHandler func(ctx context.Context, conversation []Message, functions []FunctionSpec) (*CompletionResult, error)

// CompleteMiddleware wraps a [CompleteHandler] to add cross-cutting behavior.
// Middleware should call next to continue the chain, or return early to short-circuit.
type CompleteMiddleware func(next CompleteHandler) CompleteHandler

// FunctionHandler is the function signature for invoking a local function.
type FunctionHandler func(ctx context.Context, fn Function, args json.RawMessage) (any, error)

// FunctionMiddleware wraps a [FunctionHandler] to add cross-cutting behavior.
type FunctionMiddleware func(next FunctionHandler) FunctionHandler

// ChainCompleteMiddleware applies middleware in order (first in list = outermost wrapper).
func ChainCompleteMiddleware(handler CompleteHandler, mws ...CompleteMiddleware) CompleteHandler {
	for i := len(mws) - 1; i >= 0; i-- {
		handler = mws[i](handler)
	}
	return handler
}

// chainFunctionMiddleware applies middleware in order.
func chainFunctionMiddleware(handler FunctionHandler, mws ...FunctionMiddleware) FunctionHandler {
	for i := len(mws) - 1; i >= 0; i-- {
		handler = mws[i](handler)
	}
	return handler
}
