// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package render

import (
	"reflect"
	"slices"
	"sync"
)

// Entity identifies an object in a World. Render-side entities reuse the
// id of the main-world entity they were extracted from.
type Entity uint32

// World is a minimal entity/component store.
//
// Components are stored by value, keyed by their Go type. Resources are
// singletons keyed by type and survive Clear. World is safe for concurrent
// use.
type World struct {
	mu         sync.RWMutex
	next       Entity
	alive      map[Entity]struct{}
	components map[reflect.Type]map[Entity]any
	resources  map[reflect.Type]any
}

// NewWorld creates an empty world.
func NewWorld() *World {
	return &World{
		alive:      make(map[Entity]struct{}),
		components: make(map[reflect.Type]map[Entity]any),
		resources:  make(map[reflect.Type]any),
	}
}

// Spawn creates a new entity.
func (w *World) Spawn() Entity {
	w.mu.Lock()
	defer w.mu.Unlock()

	w.next++
	w.alive[w.next] = struct{}{}
	return w.next
}

// Despawn removes an entity and all of its components.
func (w *World) Despawn(e Entity) {
	w.mu.Lock()
	defer w.mu.Unlock()

	delete(w.alive, e)
	for _, store := range w.components {
		delete(store, e)
	}
}

// Alive reports whether e exists.
func (w *World) Alive(e Entity) bool {
	w.mu.RLock()
	defer w.mu.RUnlock()
	_, ok := w.alive[e]
	return ok
}

// Entities returns all entities in ascending order.
func (w *World) Entities() []Entity {
	w.mu.RLock()
	defer w.mu.RUnlock()

	out := make([]Entity, 0, len(w.alive))
	for e := range w.alive {
		out = append(out, e)
	}
	slices.Sort(out)
	return out
}

// Clear removes every entity and component. Resources are kept.
func (w *World) Clear() {
	w.mu.Lock()
	defer w.mu.Unlock()

	w.alive = make(map[Entity]struct{})
	w.components = make(map[reflect.Type]map[Entity]any)
}

// Insert sets the T component of e, creating e if needed.
func Insert[T any](w *World, e Entity, v T) {
	w.mu.Lock()
	defer w.mu.Unlock()

	t := reflect.TypeFor[T]()
	store, ok := w.components[t]
	if !ok {
		store = make(map[Entity]any)
		w.components[t] = store
	}
	store[e] = v
	w.alive[e] = struct{}{}
	if e > w.next {
		w.next = e
	}
}

// Get returns the T component of e.
func Get[T any](w *World, e Entity) (T, bool) {
	w.mu.RLock()
	defer w.mu.RUnlock()

	v, ok := w.components[reflect.TypeFor[T]()][e]
	if !ok {
		var zero T
		return zero, false
	}
	out, _ := v.(T)
	return out, true
}

// Has reports whether e has a T component.
func Has[T any](w *World, e Entity) bool {
	_, ok := Get[T](w, e)
	return ok
}

// Remove deletes the T component of e.
func Remove[T any](w *World, e Entity) {
	w.mu.Lock()
	defer w.mu.Unlock()
	delete(w.components[reflect.TypeFor[T]()], e)
}

// Query returns the entities holding a T component, in ascending order.
func Query[T any](w *World) []Entity {
	w.mu.RLock()
	defer w.mu.RUnlock()

	store := w.components[reflect.TypeFor[T]()]
	out := make([]Entity, 0, len(store))
	for e := range store {
		out = append(out, e)
	}
	slices.Sort(out)
	return out
}

// Each calls fn for every entity holding a T component, in ascending
// entity order. fn may modify the world.
func Each[T any](w *World, fn func(Entity, T)) {
	for _, e := range Query[T](w) {
		if v, ok := Get[T](w, e); ok {
			fn(e, v)
		}
	}
}

// SetResource stores the T resource.
func SetResource[T any](w *World, v T) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.resources[reflect.TypeFor[T]()] = v
}

// Resource returns the T resource.
func Resource[T any](w *World) (T, bool) {
	w.mu.RLock()
	defer w.mu.RUnlock()

	v, ok := w.resources[reflect.TypeFor[T]()]
	if !ok {
		var zero T
		return zero, false
	}
	out, _ := v.(T)
	return out, true
}

// RemoveResource deletes the T resource.
func RemoveResource[T any](w *World) {
	w.mu.Lock()
	defer w.mu.Unlock()
	delete(w.resources, reflect.TypeFor[T]())
}
