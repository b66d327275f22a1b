package ecs

import (
	"fmt"
	"slices"

	ark "github.com/mlange-42/ark/ecs"

	"github.com/vovakirdan/hyperwave/internal/assert"
)

// cell boxes a component so pointers handed out survive ark moving the
// entity between archetypes.
type cell[T any] struct {
	v *T
}

// Store holds every component of one type.
type Store[T any] struct {
	w      *World
	cells  *ark.Map[cell[T]]
	filter *ark.Filter2[ident, cell[T]]
}

func storeOf[T any](w *World) *Store[T] {
	k := reflectKey[T]()
	if s, ok := w.stores[k]; ok {
		return s.(*Store[T])
	}
	s := &Store[T]{
		w:      w,
		cells:  ark.NewMap[cell[T]](w.ecs),
		filter: ark.NewFilter2[ident, cell[T]](w.ecs),
	}
	w.stores[k] = s
	return s
}

func (s *Store[T]) has(h ark.Entity) bool {
	return s.cells.Has(h)
}

func (s *Store[T]) get(e Entity) (*T, bool) {
	h, ok := s.w.handle(e)
	if !ok || !s.cells.Has(h) {
		return nil, false
	}
	return s.cells.Get(h).v, true
}

// entities lists the holders of a T in spawn order.
func (s *Store[T]) entities() []Entity {
	var out []Entity
	q := s.filter.Query()
	for q.Next() {
		id, _ := q.Get()
		out = append(out, id.id)
	}
	slices.Sort(out)
	return out
}

func (s *Store[T]) len() int {
	q := s.filter.Query()
	n := q.Count()
	q.Close()
	return n
}

// Get returns a pointer to e's T. The pointer stays valid until the
// component is removed.
func Get[T any](w *World, e Entity) (*T, bool) {
	return storeOf[T](w).get(e)
}

// MustGet is Get for components the caller knows are present. A missing
// component is an invariant violation; release builds get a detached zero
// value.
func MustGet[T any](w *World, e Entity) *T {
	p, ok := Get[T](w, e)
	if !assert.That(ok, "%s has no %s", e, KindOf[T]()) {
		return new(T)
	}
	return p
}

// Has reports whether e holds a T.
func Has[T any](w *World, e Entity) bool {
	_, ok := Get[T](w, e)
	return ok
}

// Set attaches v to e, replacing any existing T in place. It returns false
// if e is not alive.
func Set[T any](w *World, e Entity, v T) bool {
	h, ok := w.handle(e)
	if !ok {
		return false
	}
	s := storeOf[T](w)
	if s.cells.Has(h) {
		*s.cells.Get(h).v = v
		return true
	}
	p := new(T)
	*p = v
	s.cells.Add(h, &cell[T]{v: p})
	return true
}

// Add attaches v to e only when e has no T yet. It returns the component
// now attached.
func Add[T any](w *World, e Entity, v T) (*T, bool) {
	if p, ok := Get[T](w, e); ok {
		return p, true
	}
	if !Set(w, e, v) {
		return nil, false
	}
	return Get[T](w, e)
}

// Remove detaches e's T. Removing an absent component is a no-op.
func Remove[T any](w *World, e Entity) {
	h, ok := w.handle(e)
	if !ok {
		return
	}
	s := storeOf[T](w)
	if s.cells.Has(h) {
		s.cells.Remove(h)
	}
}

// Each1 calls fn for every entity holding an A, in spawn order. The entity
// set is fixed before the first call, so fn may spawn, destroy or detach.
// Entities that lose a component before their turn are skipped.
func Each1[A any](w *World, fn func(Entity, *A)) {
	sa := storeOf[A](w)
	for _, e := range sa.entities() {
		a, ok := sa.get(e)
		if !ok {
			continue
		}
		fn(e, a)
	}
}

// Each2 is Each1 for two components.
func Each2[A, B any](w *World, fn func(Entity, *A, *B)) {
	sa, sb := storeOf[A](w), storeOf[B](w)
	q := ark.NewFilter3[ident, cell[A], cell[B]](w.ecs).Query()
	var ids []Entity
	for q.Next() {
		id, _, _ := q.Get()
		ids = append(ids, id.id)
	}
	slices.Sort(ids)
	for _, e := range ids {
		a, okA := sa.get(e)
		b, okB := sb.get(e)
		if !okA || !okB {
			continue
		}
		fn(e, a, b)
	}
}

// Each3 is Each1 for three components.
func Each3[A, B, C any](w *World, fn func(Entity, *A, *B, *C)) {
	sa, sb, sc := storeOf[A](w), storeOf[B](w), storeOf[C](w)
	q := ark.NewFilter4[ident, cell[A], cell[B], cell[C]](w.ecs).Query()
	var ids []Entity
	for q.Next() {
		id, _, _, _ := q.Get()
		ids = append(ids, id.id)
	}
	slices.Sort(ids)
	for _, e := range ids {
		a, okA := sa.get(e)
		b, okB := sb.get(e)
		c, okC := sc.get(e)
		if !okA || !okB || !okC {
			continue
		}
		fn(e, a, b, c)
	}
}

// Each4 is Each1 for four components.
func Each4[A, B, C, D any](w *World, fn func(Entity, *A, *B, *C, *D)) {
	sa, sb, sc, sd := storeOf[A](w), storeOf[B](w), storeOf[C](w), storeOf[D](w)
	q := ark.NewFilter5[ident, cell[A], cell[B], cell[C], cell[D]](w.ecs).Query()
	var ids []Entity
	for q.Next() {
		id, _, _, _, _ := q.Get()
		ids = append(ids, id.id)
	}
	slices.Sort(ids)
	for _, e := range ids {
		a, okA := sa.get(e)
		b, okB := sb.get(e)
		c, okC := sc.get(e)
		d, okD := sd.get(e)
		if !okA || !okB || !okC || !okD {
			continue
		}
		fn(e, a, b, c, d)
	}
}

// String formats an entity for logs.
func (e Entity) String() string {
	return fmt.Sprintf("entity#%d", uint64(e))
}
