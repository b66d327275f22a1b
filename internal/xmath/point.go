// Package xmath provides small value-type 2D math helpers for the simulation.
// Everything here works on values, so none of it allocates.
package xmath

import "math"

// Epsilon is the default tolerance for floating point comparisons.
// 1e-5 is well below a pixel for everything the game draws.
const Epsilon = 1e-5

// Point is a 2D vector or position.
type Point struct {
	X, Y float64
}

// P is a convenience constructor for Point.
func P(x, y float64) Point {
	return Point{X: x, Y: y}
}

// Add returns p + q.
func (p Point) Add(q Point) Point {
	return Point{X: p.X + q.X, Y: p.Y + q.Y}
}

// Sub returns p - q.
func (p Point) Sub(q Point) Point {
	return Point{X: p.X - q.X, Y: p.Y - q.Y}
}

// Scale multiplies both coordinates by s.
func (p Point) Scale(s float64) Point {
	return Point{X: p.X * s, Y: p.Y * s}
}

// Div divides both coordinates by s. Division by zero yields the zero vector.
func (p Point) Div(s float64) Point {
	if s == 0 {
		return Point{}
	}
	inv := 1 / s
	return Point{X: p.X * inv, Y: p.Y * inv}
}

// Dot returns the dot product of p and q.
func (p Point) Dot(q Point) float64 {
	return p.X*q.X + p.Y*q.Y
}

// Len returns the length of p.
func (p Point) Len() float64 {
	return math.Sqrt(p.X*p.X + p.Y*p.Y)
}

// LenSq returns the squared length of p.
func (p Point) LenSq() float64 {
	return p.X*p.X + p.Y*p.Y
}

// Normalize returns p scaled to unit length. The zero vector stays zero.
func (p Point) Normalize() Point {
	l := p.Len()
	if l > 0 {
		return p.Div(l)
	}
	return p
}

// DistanceTo returns the distance between p and q.
func (p Point) DistanceTo(q Point) float64 {
	return math.Sqrt(p.DistanceToSq(q))
}

// DistanceToSq returns the squared distance between p and q.
func (p Point) DistanceToSq(q Point) float64 {
	dx := p.X - q.X
	dy := p.Y - q.Y
	return dx*dx + dy*dy
}

// Lerp interpolates between p and q. Combine with an easing function:
// p.Lerp(q, CubicOut(t)).
func (p Point) Lerp(q Point, alpha float64) Point {
	return Point{
		X: p.X + (q.X-p.X)*alpha,
		Y: p.Y + (q.Y-p.Y)*alpha,
	}
}

// Rotate rotates p by theta radians.
func (p Point) Rotate(theta float64) Point {
	sin, cos := math.Sincos(theta)
	return Point{
		X: p.X*cos - p.Y*sin,
		Y: p.X*sin + p.Y*cos,
	}
}

// Equals reports whether p and q are within eps of each other.
func (p Point) Equals(q Point, eps float64) bool {
	return p.DistanceToSq(q) <= eps*eps
}

// Rad converts degrees to radians.
func Rad(degrees float64) float64 {
	return degrees * math.Pi / 180
}

// Map re-maps num from [inMin, inMax] to [outMin, outMax].
func Map(num, inMin, inMax, outMin, outMax float64) float64 {
	return (num-inMin)*(outMax-outMin)/(inMax-inMin) + outMin
}

// Clamp restricts a value to be within [min, max].
func Clamp(val, min, max float64) float64 {
	if val < min {
		return min
	}
	if val > max {
		return max
	}
	return val
}
