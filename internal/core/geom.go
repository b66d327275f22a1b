// Package core provides the terminal-side primitives of a hyperwave host:
// a colored character screen, the mapping between world units and cells,
// and semantic input actions. It has no Bubble Tea dependency so it can be
// tested on its own.
package core

// Rect is an axis-aligned rectangle in cell coordinates.
type Rect struct {
	X, Y int // Top-left corner position
	W, H int // Width and height
}

// NewRect creates a new rectangle with the given position and dimensions.
func NewRect(x, y, w, h int) Rect {
	return Rect{X: x, Y: y, W: w, H: h}
}

// Right returns the x-coordinate of the right edge.
func (r Rect) Right() int {
	return r.X + r.W
}

// Bottom returns the y-coordinate of the bottom edge.
func (r Rect) Bottom() int {
	return r.Y + r.H
}

// Intersects returns true if this rectangle overlaps with another.
// Edges are exclusive: adjacent cells do not intersect.
func (r Rect) Intersects(other Rect) bool {
	if r.X >= other.Right() || other.X >= r.Right() {
		return false
	}
	if r.Y >= other.Bottom() || other.Y >= r.Bottom() {
		return false
	}
	return true
}

// Contains returns true if the cell (x, y) is inside this rectangle.
func (r Rect) Contains(x, y int) bool {
	return x >= r.X && x < r.Right() && y >= r.Y && y < r.Bottom()
}

// Clamp restricts a value to be within [lo, hi].
func Clamp(val, lo, hi int) int {
	if val < lo {
		return lo
	}
	if val > hi {
		return hi
	}
	return val
}

// Viewport maps the world rectangle (0, 0)-(WorldW, WorldH) onto a grid of
// Cols x Rows terminal cells.
type Viewport struct {
	WorldW, WorldH float64
	Cols, Rows     int
}

// ToCell returns the cell containing world point (x, y). The result may lie
// outside the grid; check it with InView.
func (v Viewport) ToCell(x, y float64) (col, row int) {
	if v.WorldW <= 0 || v.WorldH <= 0 {
		return 0, 0
	}
	col = floorDiv(x*float64(v.Cols), v.WorldW)
	row = floorDiv(y*float64(v.Rows), v.WorldH)
	return col, row
}

// ToWorld returns the world point at the center of a cell.
func (v Viewport) ToWorld(col, row int) (x, y float64) {
	if v.Cols <= 0 || v.Rows <= 0 {
		return 0, 0
	}
	x = (float64(col) + 0.5) * v.WorldW / float64(v.Cols)
	y = (float64(row) + 0.5) * v.WorldH / float64(v.Rows)
	return x, y
}

// InView reports whether the cell lies on the grid.
func (v Viewport) InView(col, row int) bool {
	return col >= 0 && col < v.Cols && row >= 0 && row < v.Rows
}

func floorDiv(a, b float64) int {
	q := a / b
	i := int(q)
	if q < 0 && float64(i) != q {
		i--
	}
	return i
}
