package ecs

import (
	ark "github.com/mlange-42/ark/ecs"

	"github.com/vovakirdan/hyperwave/internal/assert"
)

// Resources are world singletons keyed by type, held as ark resources.

// GetResource returns the world's T.
func GetResource[T any](w *World) (*T, bool) {
	r := ark.NewResource[T](w.ecs)
	if !r.Has() {
		return nil, false
	}
	return r.Get(), true
}

// MustResource is GetResource for singletons the caller knows exist.
func MustResource[T any](w *World) *T {
	r, ok := GetResource[T](w)
	if !assert.That(ok, "world has no %s resource", KindOf[T]()) {
		return new(T)
	}
	return r
}

// SetResource stores v as the world's T, replacing any existing value in place.
func SetResource[T any](w *World, v T) *T {
	r := ark.NewResource[T](w.ecs)
	if r.Has() {
		p := r.Get()
		*p = v
		return p
	}
	p := new(T)
	*p = v
	r.Add(p)
	return p
}

// AddResource stores v only if the world has no T yet. It returns the
// resource now present and whether v was added.
func AddResource[T any](w *World, v T) (*T, bool) {
	if r, ok := GetResource[T](w); ok {
		return r, false
	}
	return SetResource(w, v), true
}

// HasResource reports whether the world holds a T.
func HasResource[T any](w *World) bool {
	r := ark.NewResource[T](w.ecs)
	return r.Has()
}

// RemoveResource deletes the world's T.
func RemoveResource[T any](w *World) {
	r := ark.NewResource[T](w.ecs)
	if r.Has() {
		r.Remove()
	}
}
