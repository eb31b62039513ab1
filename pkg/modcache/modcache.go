// SPDX-License-Identifier: MPL-2.0

// Package modcache caches loaded modules per execution context.
//
// Entries are keyed by an opaque ExecutionID plus the string form of the
// resolved locator. At most one load per key is in flight at a time;
// concurrent callers for the same key share its result. Failed loads are not
// cached.
//
// The package is for the script evaluator that embeds the resolver: it
// resolves through a registry.Registry, then calls Cache.Get with a loader
// that reads the module with source.Read and evaluates it. The modrepo CLI
// resolves and prints single modules, so it does not cache.
package modcache

import (
	"context"
	"sync"

	"golang.org/x/sync/singleflight"

	"github.com/invowk/modrepo/pkg/locator"
)

type (
	// ExecutionID identifies one evaluation context.
	ExecutionID string

	// LoadFunc produces the value for a module on a cache miss.
	LoadFunc[V any] func(ctx context.Context, loc locator.Locator) (V, error)

	// Cache holds values of type V per execution context and locator.
	// The zero value is not usable; construct one with New.
	Cache[V any] struct {
		mu          sync.Mutex
		entries     map[ExecutionID]map[string]V
		generations map[ExecutionID]uint64
		group       singleflight.Group
	}
)

// New returns an empty cache.
func New[V any]() *Cache[V] {
	return &Cache[V]{
		entries:     make(map[ExecutionID]map[string]V),
		generations: make(map[ExecutionID]uint64),
	}
}

// Get returns the cached value for (exec, loc), calling load on a miss.
// Callers waiting on another caller's load return early with ctx.Err() when
// ctx is done. The load runs detached from ctx cancellation so that the
// remaining waiters still receive its result.
func (c *Cache[V]) Get(ctx context.Context, exec ExecutionID, loc locator.Locator, load LoadFunc[V]) (V, error) {
	key := loc.String()
	if v, ok := c.Peek(exec, loc); ok {
		return v, nil
	}

	ch := c.group.DoChan(string(exec)+"\x00"+key, func() (any, error) {
		if v, ok := c.Peek(exec, loc); ok {
			return v, nil
		}
		gen := c.generation(exec)
		v, err := load(context.WithoutCancel(ctx), loc)
		if err != nil {
			return nil, err
		}
		c.store(exec, gen, key, v)
		return v, nil
	})

	var zero V
	select {
	case <-ctx.Done():
		return zero, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return zero, res.Err
		}
		return res.Val.(V), nil
	}
}

// Peek returns the cached value for (exec, loc) without loading.
func (c *Cache[V]) Peek(exec ExecutionID, loc locator.Locator) (V, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	v, ok := c.entries[exec][loc.String()]
	return v, ok
}

// Len returns the number of cached entries for exec.
func (c *Cache[V]) Len(exec ExecutionID) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries[exec])
}

// Forget drops every entry of exec. Loads for exec that are in flight when
// Forget is called complete for their waiters but are not cached.
func (c *Cache[V]) Forget(exec ExecutionID) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.entries, exec)
	c.generations[exec]++
}

func (c *Cache[V]) generation(exec ExecutionID) uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.generations[exec]
}

func (c *Cache[V]) store(exec ExecutionID, gen uint64, key string, v V) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.generations[exec] != gen {
		return
	}
	m, ok := c.entries[exec]
	if !ok {
		m = make(map[string]V)
		c.entries[exec] = m
	}
	m[key] = v
}
