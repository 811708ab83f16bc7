// Package syncutil contains concurrency-safe containers.
package syncutil

import (
	"iter"
	"maps"
	"slices"
	"sync"
)

// Registry is a string-keyed map protected by a [sync.RWMutex].
// It suits package level registries that are written on initialization and read afterwards.
// The zero value is ready to use.
type Registry[V any] struct {
	mu   sync.RWMutex
	data map[string]V
}

func (r *Registry[V]) Load(key string) (V, bool) {
	if r == nil {
		var zero V
		return zero, false
	}

	r.mu.RLock()
	defer r.mu.RUnlock()
	v, ok := r.data[key]
	return v, ok
}

// Store sets the value of the key and returns the replaced one.
func (r *Registry[V]) Store(key string, val V) (old V, replaced bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.data == nil {
		r.data = make(map[string]V)
	}
	old, replaced = r.data[key]
	r.data[key] = val
	return old, replaced
}

func (r *Registry[V]) Delete(key string) (V, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	v, ok := r.data[key]
	if ok {
		delete(r.data, key)
	}
	return v, ok
}

func (r *Registry[V]) Len() int {
	if r == nil {
		return 0
	}

	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.data)
}

// Sorted returns a sequence over a snapshot of the registry in key order.
func (r *Registry[V]) Sorted() iter.Seq2[string, V] {
	return func(yield func(string, V) bool) {
		if r == nil {
			return
		}

		r.mu.RLock()
		data := maps.Clone(r.data)
		r.mu.RUnlock()

		for _, k := range slices.Sorted(maps.Keys(data)) {
			if !yield(k, data[k]) {
				return
			}
		}
	}
}
