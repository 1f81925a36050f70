// Copyright (c) Microsoft. All rights reserved.

package pipe

import (
	"fmt"
	"sync"
)

// Catalog is the set of functions the model is permitted to request.
//
// A catalog is built once during startup and then shared read-only by every
// orchestration. Lookups are safe for concurrent use; call [Catalog.Freeze]
// after the registration phase to reject late registrations.
type Catalog struct {
	mu     sync.RWMutex
	byName map[string]Function
	order  []string
	frozen bool
}

// NewCatalog creates a catalog and registers fns in order.
func NewCatalog(fns ...Function) (*Catalog, error) {
	c := &Catalog{byName: make(map[string]Function, len(fns))}
	for _, fn := range fns {
		if err := c.Register(fn); err != nil {
			return nil, err
		}
	}
	return c, nil
}

// Register adds fn under the name from its spec.
func (c *Catalog) Register(fn Function) error {
	if fn == nil {
		return fmt.Errorf("%w: function is nil", ErrCatalog)
	}
	name := fn.Spec().Name
	if name == "" {
		return fmt.Errorf("%w: function name is empty", ErrCatalog)
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.frozen {
		return fmt.Errorf("%w: cannot register %q", ErrCatalogFrozen, name)
	}
	if _, exists := c.byName[name]; exists {
		return fmt.Errorf("%w: %q", ErrDuplicateFunction, name)
	}
	if c.byName == nil {
		c.byName = make(map[string]Function)
	}
	c.byName[name] = fn
	c.order = append(c.order, name)
	return nil
}

// MustRegister is like Register but panics on error. Intended for
// package-level catalog setup.
func (c *Catalog) MustRegister(fns ...Function) *Catalog {
	for _, fn := range fns {
		if err := c.Register(fn); err != nil {
			panic(err)
		}
	}
	return c
}

// Freeze ends the registration phase.
func (c *Catalog) Freeze() {
	c.mu.Lock()
	c.frozen = true
	c.mu.Unlock()
}

// Lookup returns the function registered under name.
func (c *Catalog) Lookup(name string) (Function, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	fn, ok := c.byName[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrFunctionNotFound, name)
	}
	return fn, nil
}

// List returns the specs of all registered functions in registration order.
func (c *Catalog) List() []FunctionSpec {
	c.mu.RLock()
	defer c.mu.RUnlock()

	specs := make([]FunctionSpec, 0, len(c.order))
	for _, name := range c.order {
		specs = append(specs, c.byName[name].Spec())
	}
	return specs
}

// Len returns the number of registered functions.
func (c *Catalog) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.order)
}
