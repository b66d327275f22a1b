package sim

import (
	"github.com/vovakirdan/hyperwave/internal/assert"
	"github.com/vovakirdan/hyperwave/internal/ecs"
	"github.com/vovakirdan/hyperwave/internal/xmath"
)

// UpdateCollisions rebuilds the collision grid and records overlaps.
//
// Every collider is indexed before any query runs, so results do not depend
// on spawn order. Each entity only records hits against groups in its own
// CollidesWith, so A may see B while B does not see A.
func UpdateCollisions(w *ecs.World) {
	cg, ok := ecs.GetResource[CollisionGrid](w)
	if !assert.That(ok && cg.Value != nil, "collision grid not initialized") {
		return
	}
	grid := cg.Value
	grid.Clear()

	entities := ecs.Query(w,
		ecs.KindOf[Position](), ecs.KindOf[Extent](), ecs.KindOf[Collider](),
	)

	for _, e := range entities {
		ecs.Remove[Collision](w, e)
		ecs.Remove[OutOfBounds](w, e)

		pos := ecs.MustGet[Position](w, e)
		ext := ecs.MustGet[Extent](w, e)
		col := ecs.MustGet[Collider](w, e)
		if !grid.Insert(e, col.Group, ext.AABB(*pos)) {
			ecs.Set(w, e, OutOfBounds{})
		}
	}

	for _, e := range entities {
		pos := ecs.MustGet[Position](w, e)
		ext := ecs.MustGet[Extent](w, e)
		col := ecs.MustGet[Collider](w, e)
		checkEntityCollisions(w, grid, e, *col, ext.AABB(*pos))
	}
}

func checkEntityCollisions(w *ecs.World, grid *Grid, e ecs.Entity, col Collider, box xmath.Rect) {
	hits := grid.Query(box)
	if len(hits) == 0 {
		return
	}

	var contacts []Contact
	for _, h := range hits {
		if h.Key == e || !col.CollidesWith.Has(h.Tag) {
			continue
		}
		otherPos := ecs.MustGet[Position](w, h.Key)
		otherExt := ecs.MustGet[Extent](w, h.Key)
		if box.Overlaps(otherExt.AABB(*otherPos)) {
			contacts = append(contacts, Contact{Cell: h.Cell, Entity: h.Key, Group: h.Tag})
		}
	}
	if len(contacts) == 0 {
		return
	}

	if c, ok := ecs.Get[Collision](w, e); ok {
		c.Others = append(c.Others, contacts...)
		return
	}
	ecs.Set(w, e, Collision{Group: col.Group, Others: contacts})
}
