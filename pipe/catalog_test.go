// Copyright (c) Microsoft. All rights reserved.

package pipe_test

import (
	"context"
	"encoding/json"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jochenvw/cloudservicepipe/pipe"
)

func stubFunction(name string) *pipe.LocalFunction {
	return pipe.NewFunction(name, name+" stub", json.RawMessage(`{"type":"object"}`),
		func(context.Context, json.RawMessage) (any, error) { return name, nil },
	)
}

func TestCatalog_RegistrationOrder(t *testing.T) {
	catalog, err := pipe.NewCatalog(stubFunction("b"), stubFunction("a"), stubFunction("c"))
	require.NoError(t, err)

	var names []string
	for _, spec := range catalog.List() {
		names = append(names, spec.Name)
	}
	assert.Equal(t, []string{"b", "a", "c"}, names)
	assert.Equal(t, 3, catalog.Len())
}

func TestCatalog_Duplicate(t *testing.T) {
	_, err := pipe.NewCatalog(stubFunction("a"), stubFunction("a"))
	assert.ErrorIs(t, err, pipe.ErrDuplicateFunction)
	assert.ErrorIs(t, err, pipe.ErrCatalog)
}

func TestCatalog_InvalidRegistration(t *testing.T) {
	catalog, err := pipe.NewCatalog()
	require.NoError(t, err)

	assert.ErrorIs(t, catalog.Register(nil), pipe.ErrCatalog)
	assert.ErrorIs(t, catalog.Register(stubFunction("")), pipe.ErrCatalog)
	assert.Zero(t, catalog.Len())
}

func TestCatalog_Frozen(t *testing.T) {
	catalog, err := pipe.NewCatalog(stubFunction("a"))
	require.NoError(t, err)
	catalog.Freeze()

	err = catalog.Register(stubFunction("b"))
	assert.ErrorIs(t, err, pipe.ErrCatalogFrozen)
	assert.Equal(t, 1, catalog.Len())
}

func TestCatalog_MustRegister(t *testing.T) {
	catalog := (&pipe.Catalog{}).MustRegister(stubFunction("a"))
	assert.Equal(t, 1, catalog.Len())

	assert.Panics(t, func() { catalog.MustRegister(stubFunction("a")) })
}

func TestCatalog_Lookup(t *testing.T) {
	catalog, err := pipe.NewCatalog(stubFunction("a"))
	require.NoError(t, err)

	fn, err := catalog.Lookup("a")
	require.NoError(t, err)
	assert.Equal(t, "a", fn.Spec().Name)

	_, err = catalog.Lookup("missing")
	assert.ErrorIs(t, err, pipe.ErrFunctionNotFound)
}

func TestCatalog_ConcurrentReads(t *testing.T) {
	catalog, err := pipe.NewCatalog(stubFunction("a"), stubFunction("b"))
	require.NoError(t, err)
	catalog.Freeze()

	var wg sync.WaitGroup
	for range 32 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _ = catalog.Lookup("a")
			_ = catalog.List()
		}()
	}
	wg.Wait()
	assert.Equal(t, 2, catalog.Len())
}
