package graph

import (
	"math"

	"github.com/symbolfield/core/internal/geom"
)

// collisionEpsilon is the slack tolerated before two footprints count as
// overlapping. Without it, push-out on exactly-touching rings oscillates.
const collisionEpsilon = 0.5

// maxPushPasses caps the iterative push-out. Dense neighborhoods can
// otherwise chase each other indefinitely; after the cap the position is
// accepted as-is.
const maxPushPasses = 8

// resolveOverlap pushes pos away from the footprints of others until no
// overlap remains or the pass cap is reached. others must not contain the
// node being placed.
func resolveOverlap(pos geom.Point, radius float64, others []*Node) geom.Point {
	for pass := 0; pass < maxPushPasses; pass++ {
		moved := false
		for _, o := range others {
			minDist := radius + o.Radius()
			d := pos.Dist(o.Position)
			if d >= minDist-collisionEpsilon {
				continue
			}
			if d < 1e-9 {
				// Coincident centers; pick a stable direction.
				pos.X = o.Position.X + minDist
				pos.Y = o.Position.Y
			} else {
				scale := minDist / d
				pos.X = o.Position.X + (pos.X-o.Position.X)*scale
				pos.Y = o.Position.Y + (pos.Y-o.Position.Y)*scale
			}
			moved = true
		}
		if !moved {
			return pos
		}
	}
	return pos
}

// overlapsAny reports whether a footprint at pos overlaps any of others.
func overlapsAny(pos geom.Point, radius float64, others []*Node) bool {
	for _, o := range others {
		if pos.Dist(o.Position) < radius+o.Radius()-collisionEpsilon {
			return true
		}
	}
	return false
}

// ringDirections is the fallback search order when placing a node near a
// desired point: 8 compass directions walked over widening rings.
var ringDirections = [8][2]float64{
	{1, 0}, {0, 1}, {-1, 0}, {0, -1},
	{math.Sqrt2 / 2, math.Sqrt2 / 2}, {-math.Sqrt2 / 2, math.Sqrt2 / 2},
	{-math.Sqrt2 / 2, -math.Sqrt2 / 2}, {math.Sqrt2 / 2, -math.Sqrt2 / 2},
}

// findFreePosition returns a collision-free, grid-snapped position near
// want. It tries want itself, then widening rings of 8 directions each.
// When every candidate up to 6 rings collides, the push-out result for
// want is returned.
func findFreePosition(want geom.Point, radius float64, others []*Node) geom.Point {
	snapped := geom.SnapPoint(want, geom.GridCell)
	if !overlapsAny(snapped, radius, others) {
		return snapped
	}
	for ring := 1; ring <= 6; ring++ {
		step := float64(ring) * geom.GridCell
		for _, dir := range ringDirections {
			cand := geom.SnapPoint(geom.Point{X: want.X + dir[0]*step, Y: want.Y + dir[1]*step}, geom.GridCell)
			if !overlapsAny(cand, radius, others) {
				return cand
			}
		}
	}
	return resolveOverlap(snapped, radius, others)
}
