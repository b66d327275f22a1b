// Package ecs is the entity-component layer of the simulation, backed by
// an ark world.
//
// Components are plain Go values keyed by their type. Handles handed out by
// the package are never reused, so a stale handle simply reports every
// component as absent even after ark recycles the slot behind it.
//
// A World is not safe for concurrent use.
package ecs

import (
	"reflect"
	"slices"

	ark "github.com/mlange-42/ark/ecs"
)

// Entity is an opaque handle. The zero value is never a live entity.
// Handles increase in spawn order.
type Entity uint64

// ident tags every ark entity with the handle it was spawned under.
type ident struct {
	id Entity
}

// Kind identifies a component type in queries.
type Kind struct {
	typ   reflect.Type
	store func(*World) anyStore
}

// String returns the component type name.
func (k Kind) String() string {
	if k.typ == nil {
		return "<nil>"
	}
	return k.typ.String()
}

// KindOf returns the Kind of component type T.
func KindOf[T any]() Kind {
	return Kind{
		typ:   reflectKey[T](),
		store: func(w *World) anyStore { return storeOf[T](w) },
	}
}

// anyStore is the type-erased view of a Store used by Query.
type anyStore interface {
	has(ark.Entity) bool
	entities() []Entity
	len() int
}

// World owns entities, their components and the world singletons.
type World struct {
	ecs     *ark.World
	idents  *ark.Map[ident]
	all     *ark.Filter1[ident]
	next    Entity
	handles map[Entity]ark.Entity
	stores  map[reflect.Type]any
}

// NewWorld creates an empty world.
func NewWorld() *World {
	w := &World{}
	w.Reset()
	return w
}

// Reset drops every entity, component and resource. Entity ids keep
// increasing across resets.
func (w *World) Reset() {
	w.ecs = ark.NewWorld()
	w.idents = ark.NewMap[ident](w.ecs)
	w.all = ark.NewFilter1[ident](w.ecs)
	w.handles = make(map[Entity]ark.Entity)
	w.stores = make(map[reflect.Type]any)
}

// Bundle is a set of components attached together at spawn.
type Bundle interface {
	Attach(w *World, e Entity)
}

type single[T any] struct{ value T }

func (s single[T]) Attach(w *World, e Entity) { Set(w, e, s.value) }

// With wraps a single component as a Bundle.
func With[T any](c T) Bundle {
	return single[T]{value: c}
}

// Spawn creates an entity and attaches the bundles in order. When two
// bundles carry the same component type the last one wins.
func (w *World) Spawn(bundles ...Bundle) Entity {
	w.next++
	e := w.next
	w.handles[e] = w.idents.NewEntity(&ident{id: e})
	for _, b := range bundles {
		if b != nil {
			b.Attach(w, e)
		}
	}
	return e
}

// Alive reports whether e has been spawned and not destroyed.
func (w *World) Alive(e Entity) bool {
	_, ok := w.handles[e]
	return ok
}

func (w *World) handle(e Entity) (ark.Entity, bool) {
	h, ok := w.handles[e]
	return h, ok
}

// Destroy removes e and all of its components. Destroying a dead entity is a no-op.
func (w *World) Destroy(e Entity) {
	h, ok := w.handles[e]
	if !ok {
		return
	}
	delete(w.handles, e)
	w.ecs.RemoveEntity(h)
}

// Count returns the number of live entities.
func (w *World) Count() int {
	return len(w.handles)
}

// Entities returns the live entities in spawn order.
func (w *World) Entities() []Entity {
	out := make([]Entity, 0, len(w.handles))
	q := w.all.Query()
	for q.Next() {
		out = append(out, q.Get().id)
	}
	slices.Sort(out)
	return out
}

// Query returns the live entities that hold every listed kind, in spawn
// order. With no kinds it returns every live entity.
func Query(w *World, kinds ...Kind) []Entity {
	if len(kinds) == 0 {
		return w.Entities()
	}

	stores := make([]anyStore, len(kinds))
	for i, k := range kinds {
		if k.store == nil {
			return nil
		}
		stores[i] = k.store(w)
		if stores[i].len() == 0 {
			return nil
		}
	}

	var out []Entity
	for _, e := range stores[0].entities() {
		h, _ := w.handle(e)
		if hasAll(stores[1:], h) {
			out = append(out, e)
		}
	}
	return out
}

func hasAll(stores []anyStore, h ark.Entity) bool {
	for _, s := range stores {
		if !s.has(h) {
			return false
		}
	}
	return true
}

// Len returns how many live entities hold a T.
func Len[T any](w *World) int {
	return storeOf[T](w).len()
}

func reflectKey[T any]() reflect.Type {
	return reflect.TypeFor[T]()
}
