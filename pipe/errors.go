// Copyright (c) Microsoft. All rights reserved.

package pipe

import (
	"errors"
	"fmt"
)

// Sentinel errors for use with errors.Is.
var (
	// ErrTransport is the base error for failed completion rounds: non-success
	// status, malformed response, or a network fault.
	ErrTransport = errors.New("transport error")

	// ErrInvalidRequest indicates the request was rejected before or by the service.
	ErrInvalidRequest = fmt.Errorf("%w: invalid request", ErrTransport)

	// ErrInvalidResponse indicates the service returned an unexpected response shape.
	ErrInvalidResponse = fmt.Errorf("%w: invalid response", ErrTransport)

	// ErrAuth indicates an authentication or authorization failure.
	ErrAuth = fmt.Errorf("%w: authentication", ErrTransport)

	// ErrContentFilter indicates the request was rejected by a content filter.
	ErrContentFilter = fmt.Errorf("%w: content filter", ErrTransport)

	// ErrRoundTimeout indicates a single completion round exceeded its budget.
	ErrRoundTimeout = fmt.Errorf("%w: round timeout", ErrTransport)

	// ErrCancelled is returned when the caller's context ends an orchestration.
	ErrCancelled = errors.New("orchestration cancelled")

	// ErrDispatch is the base error for local function dispatch failures.
	ErrDispatch = errors.New("dispatch error")

	// ErrFunctionNotFound indicates the model asked for a function that is not
	// in the catalog.
	ErrFunctionNotFound = fmt.Errorf("%w: function not found", ErrDispatch)

	// ErrInvalidArguments indicates the function arguments could not be parsed.
	ErrInvalidArguments = fmt.Errorf("%w: invalid arguments", ErrDispatch)

	// ErrFunctionExecution indicates the function body itself failed.
	ErrFunctionExecution = fmt.Errorf("%w: execution", ErrDispatch)

	// ErrCatalog is the base error for catalog construction failures.
	ErrCatalog = errors.New("catalog error")

	// ErrDuplicateFunction is returned when a name is registered twice.
	ErrDuplicateFunction = fmt.Errorf("%w: duplicate function", ErrCatalog)

	// ErrCatalogFrozen is returned when registering after [Catalog.Freeze].
	ErrCatalogFrozen = fmt.Errorf("%w: frozen", ErrCatalog)
)

// ServiceError provides rich context for a non-success response from the
// completion service. Use errors.As to extract it from a wrapped error chain.
type ServiceError struct {
	StatusCode int
	Message    string
	Code       string
	Err        error
}

func (e *ServiceError) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("service error %d (%s): %s", e.StatusCode, e.Code, e.Message)
	}
	return fmt.Sprintf("service error %d: %s", e.StatusCode, e.Message)
}

func (e *ServiceError) Unwrap() error { return e.Err }

// TransportError tags a failed completion with the orchestration round it
// happened in.
type TransportError struct {
	Round int
	Err   error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("round %d: %v", e.Round, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

// Is makes every TransportError match [ErrTransport], whatever its cause.
func (e *TransportError) Is(target error) bool { return target == ErrTransport }

// Timeout reports whether the round ran out of its time budget.
func (e *TransportError) Timeout() bool {
	return errors.Is(e.Err, ErrRoundTimeout)
}

// FunctionError provides context for a local function dispatch failure.
type FunctionError struct {
	Name    string
	Message string
	Err     error
}

func (e *FunctionError) Error() string {
	return fmt.Sprintf("function %q: %s", e.Name, e.Message)
}

func (e *FunctionError) Unwrap() error { return e.Err }
