package xmath

// Rect is an axis-aligned bounding box in world space.
type Rect struct {
	X, Y          float64 // Top-left corner
	Width, Height float64
}

// R is a convenience constructor for Rect.
func R(x, y, w, h float64) Rect {
	return Rect{X: x, Y: y, Width: w, Height: h}
}

// Right returns the x-coordinate of the right edge.
func (r Rect) Right() float64 {
	return r.X + r.Width
}

// Bottom returns the y-coordinate of the bottom edge.
func (r Rect) Bottom() float64 {
	return r.Y + r.Height
}

// Overlaps reports whether r and other overlap. Touching edges count as
// overlap: every comparison is inclusive.
func (r Rect) Overlaps(other Rect) bool {
	if r.Right() < other.X {
		return false
	}
	if r.X > other.Right() {
		return false
	}
	if r.Bottom() < other.Y {
		return false
	}
	if r.Y > other.Bottom() {
		return false
	}
	return true
}

// Contains reports whether p lies inside r (edges included).
func (r Rect) Contains(p Point) bool {
	return p.X >= r.X && p.X <= r.Right() && p.Y >= r.Y && p.Y <= r.Bottom()
}
