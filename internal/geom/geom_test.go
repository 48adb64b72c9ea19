package geom

import (
	"math"
	"testing"
)

func TestRectFromCorners(t *testing.T) {
	tests := []struct {
		name string
		a, b Point
		want Rect
	}{
		{"forward", Point{0, 0}, Point{10, 20}, Rect{0, 0, 10, 20}},
		{"backward", Point{10, 20}, Point{0, 0}, Rect{0, 0, 10, 20}},
		{"mixed", Point{10, 0}, Point{0, 20}, Rect{0, 0, 10, 20}},
		{"degenerate", Point{5, 5}, Point{5, 5}, Rect{5, 5, 0, 0}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := RectFromCorners(tt.a, tt.b)
			if got != tt.want {
				t.Errorf("RectFromCorners(%v, %v) = %v, want %v", tt.a, tt.b, got, tt.want)
			}
		})
	}
}

func TestRectContains(t *testing.T) {
	r := Rect{X: 0, Y: 0, W: 100, H: 50}
	if !r.Contains(Point{50, 25}) {
		t.Error("expected center point to be contained")
	}
	if !r.Contains(Point{0, 0}) {
		t.Error("expected corner to be contained (inclusive)")
	}
	if r.Contains(Point{101, 25}) {
		t.Error("expected point past right edge to be outside")
	}
}

func TestRectIntersects(t *testing.T) {
	a := Rect{0, 0, 10, 10}
	if !a.Intersects(Rect{5, 5, 10, 10}) {
		t.Error("overlapping rects should intersect")
	}
	if !a.Intersects(Rect{10, 10, 5, 5}) {
		t.Error("edge-touching rects should intersect")
	}
	if a.Intersects(Rect{20, 20, 5, 5}) {
		t.Error("disjoint rects should not intersect")
	}
}

func TestCircleContains(t *testing.T) {
	c := Circle{CX: 0, CY: 0, R: 10}
	if !c.Contains(Point{6, 8}) {
		t.Error("point on circle edge should be contained")
	}
	if c.Contains(Point{7, 8}) {
		t.Error("point outside radius should not be contained")
	}
}

func TestSnap(t *testing.T) {
	tests := []struct {
		v, step, want float64
	}{
		{13, 24, 24},
		{11, 24, 0},
		{-13, 24, -24},
		{36, 24, 48},
		{5, 0, 5},
		{5, -3, 5},
	}
	for _, tt := range tests {
		if got := Snap(tt.v, tt.step); got != tt.want {
			t.Errorf("Snap(%v, %v) = %v, want %v", tt.v, tt.step, got, tt.want)
		}
	}
}

func TestPointIsFinite(t *testing.T) {
	if !(Point{1, 2}).IsFinite() {
		t.Error("ordinary point should be finite")
	}
	if (Point{math.NaN(), 0}).IsFinite() {
		t.Error("NaN X should not be finite")
	}
	if (Point{0, math.Inf(1)}).IsFinite() {
		t.Error("infinite Y should not be finite")
	}
}

func TestPointDist(t *testing.T) {
	if d := (Point{0, 0}).Dist(Point{3, 4}); d != 5 {
		t.Errorf("Dist = %v, want 5", d)
	}
	if d := (Point{1, 1}).DistSq(Point{4, 5}); d != 25 {
		t.Errorf("DistSq = %v, want 25", d)
	}
}
