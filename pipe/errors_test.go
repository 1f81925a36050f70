// Copyright (c) Microsoft. All rights reserved.

package pipe_test

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jochenvw/cloudservicepipe/pipe"
)

func TestErrorSentinelChain(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		target error
		match  bool
	}{
		{"ErrInvalidResponse wraps ErrTransport", pipe.ErrInvalidResponse, pipe.ErrTransport, true},
		{"ErrAuth wraps ErrTransport", pipe.ErrAuth, pipe.ErrTransport, true},
		{"ErrContentFilter wraps ErrTransport", pipe.ErrContentFilter, pipe.ErrTransport, true},
		{"ErrRoundTimeout wraps ErrTransport", pipe.ErrRoundTimeout, pipe.ErrTransport, true},
		{"ErrFunctionNotFound wraps ErrDispatch", pipe.ErrFunctionNotFound, pipe.ErrDispatch, true},
		{"ErrInvalidArguments wraps ErrDispatch", pipe.ErrInvalidArguments, pipe.ErrDispatch, true},
		{"ErrDuplicateFunction wraps ErrCatalog", pipe.ErrDuplicateFunction, pipe.ErrCatalog, true},
		{"ErrCancelled does not wrap ErrTransport", pipe.ErrCancelled, pipe.ErrTransport, false},
		{"ErrDispatch does not wrap ErrTransport", pipe.ErrDispatch, pipe.ErrTransport, false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.match, errors.Is(tc.err, tc.target))
		})
	}
}

func TestServiceError(t *testing.T) {
	svcErr := &pipe.ServiceError{
		StatusCode: 429,
		Message:    "rate limited",
		Code:       "rate_limit_exceeded",
		Err:        pipe.ErrTransport,
	}

	assert.Equal(t, "service error 429 (rate_limit_exceeded): rate limited", svcErr.Error())
	assert.ErrorIs(t, svcErr, pipe.ErrTransport)

	var extracted *pipe.ServiceError
	require.ErrorAs(t, fmt.Errorf("round: %w", svcErr), &extracted)
	assert.Equal(t, 429, extracted.StatusCode)
}

func TestTransportError(t *testing.T) {
	cause := errors.New("boom")
	te := &pipe.TransportError{Round: 2, Err: cause}

	assert.ErrorIs(t, te, pipe.ErrTransport)
	assert.ErrorIs(t, te, cause)
	assert.False(t, te.Timeout(), "plain failure is not a timeout")

	timeout := &pipe.TransportError{Round: 1, Err: fmt.Errorf("%w: %w", pipe.ErrRoundTimeout, context.DeadlineExceeded)}
	assert.True(t, timeout.Timeout())
	assert.ErrorIs(t, timeout, context.DeadlineExceeded)
}

func TestFunctionError(t *testing.T) {
	fnErr := &pipe.FunctionError{
		Name:    "GetWeather",
		Message: "API timeout",
		Err:     pipe.ErrFunctionExecution,
	}

	assert.ErrorIs(t, fnErr, pipe.ErrFunctionExecution)
	assert.ErrorIs(t, fnErr, pipe.ErrDispatch)

	var extracted *pipe.FunctionError
	require.ErrorAs(t, fnErr, &extracted)
	assert.Equal(t, "GetWeather", extracted.Name)
}
