// Package geom provides the small set of 2D primitives the canvas core
// works in: world-space points, axis-aligned rects, circles, and grid
// snapping. All values are world units unless a name says otherwise.
package geom

import "math"

// Point is a position in continuous 2D world space.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Add returns p translated by (dx, dy).
func (p Point) Add(dx, dy float64) Point {
	return Point{X: p.X + dx, Y: p.Y + dy}
}

// Sub returns the vector from q to p.
func (p Point) Sub(q Point) Point {
	return Point{X: p.X - q.X, Y: p.Y - q.Y}
}

// Dist returns the Euclidean distance between p and q.
func (p Point) Dist(q Point) float64 {
	return math.Hypot(p.X-q.X, p.Y-q.Y)
}

// DistSq returns the squared distance between p and q.
func (p Point) DistSq(q Point) float64 {
	dx := p.X - q.X
	dy := p.Y - q.Y
	return dx*dx + dy*dy
}

// IsFinite reports whether both coordinates are finite numbers.
func (p Point) IsFinite() bool {
	return !math.IsNaN(p.X) && !math.IsInf(p.X, 0) &&
		!math.IsNaN(p.Y) && !math.IsInf(p.Y, 0)
}

// Rect is an axis-aligned rectangle anchored at its top-left corner.
type Rect struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	W float64 `json:"w"`
	H float64 `json:"h"`
}

// RectFromCorners returns the normalized rect spanning two opposite corners.
func RectFromCorners(a, b Point) Rect {
	return Rect{
		X: math.Min(a.X, b.X),
		Y: math.Min(a.Y, b.Y),
		W: math.Abs(b.X - a.X),
		H: math.Abs(b.Y - a.Y),
	}
}

// Contains reports whether p lies inside r (edges inclusive).
func (r Rect) Contains(p Point) bool {
	return p.X >= r.X && p.X <= r.X+r.W && p.Y >= r.Y && p.Y <= r.Y+r.H
}

// Intersects reports whether r and o overlap.
func (r Rect) Intersects(o Rect) bool {
	return r.X <= o.X+o.W && o.X <= r.X+r.W && r.Y <= o.Y+o.H && o.Y <= r.Y+r.H
}

// Center returns the midpoint of r.
func (r Rect) Center() Point {
	return Point{X: r.X + r.W/2, Y: r.Y + r.H/2}
}

// Circle is a circle centered at (CX, CY).
type Circle struct {
	CX float64 `json:"cx"`
	CY float64 `json:"cy"`
	R  float64 `json:"r"`
}

// Contains reports whether p lies inside the circle (edge inclusive).
func (c Circle) Contains(p Point) bool {
	dx := p.X - c.CX
	dy := p.Y - c.CY
	return dx*dx+dy*dy <= c.R*c.R
}

// Bounds returns the axis-aligned bounding rect of the circle.
func (c Circle) Bounds() Rect {
	return Rect{X: c.CX - c.R, Y: c.CY - c.R, W: 2 * c.R, H: 2 * c.R}
}

// Line is a segment between two points, used for link previews.
type Line struct {
	X1 float64 `json:"x1"`
	Y1 float64 `json:"y1"`
	X2 float64 `json:"x2"`
	Y2 float64 `json:"y2"`
}

// GridCell is the base step between grid dots in world units.
const GridCell = 24.0

// Snap rounds v to the nearest multiple of step. A step of zero or less
// returns v unchanged.
func Snap(v, step float64) float64 {
	if step <= 0 {
		return v
	}
	return math.Round(v/step) * step
}

// SnapPoint snaps both coordinates of p to the grid step.
func SnapPoint(p Point, step float64) Point {
	return Point{X: Snap(p.X, step), Y: Snap(p.Y, step)}
}
