// Package camera holds the viewport transform: pan offset, zoom, and the
// screen/world coordinate conversions every pointer gesture depends on.
package camera

import (
	"sync"

	"github.com/symbolfield/core/internal/geom"
)

// Zoom limits. Matching limits are enforced wherever zoom is set, so a
// resolved address can never produce a degenerate viewport.
const (
	MinZoom = 0.1
	MaxZoom = 4.0
)

// DefaultZoom is the zoom level of a fresh camera.
const DefaultZoom = 1.0

// State is a camera snapshot.
type State struct {
	// Pan is the world coordinate shown at the screen origin.
	Pan geom.Point `json:"pan"`
	// Zoom is the world-to-screen scale factor.
	Zoom float64 `json:"zoom"`
}

// Camera is a mutable viewport transform. Safe for concurrent use.
type Camera struct {
	mu       sync.RWMutex
	pan      geom.Point
	zoom     float64
	viewport geom.Point // screen size in pixels, for fit computations
}

// New creates a camera at the origin with the default zoom and the given
// viewport size in screen pixels.
func New(viewportW, viewportH float64) *Camera {
	return &Camera{
		zoom:     DefaultZoom,
		viewport: geom.Point{X: viewportW, Y: viewportH},
	}
}

// State returns the current pan and zoom.
func (c *Camera) State() State {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return State{Pan: c.pan, Zoom: c.zoom}
}

// SetState applies a snapshot, clamping zoom to the legal range.
func (c *Camera) SetState(s State) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if s.Pan.IsFinite() {
		c.pan = s.Pan
	}
	c.zoom = clampZoom(s.Zoom)
}

// Zoom returns the current zoom factor.
func (c *Camera) Zoom() float64 {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.zoom
}

// SetViewport records the screen size used for fit computations.
func (c *Camera) SetViewport(w, h float64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if w > 0 && h > 0 {
		c.viewport = geom.Point{X: w, Y: h}
	}
}

// PanBy translates the camera by a screen-space delta, converted to world
// units at the current zoom so panning tracks the pointer 1:1.
func (c *Camera) PanBy(screenDX, screenDY float64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.pan.X -= screenDX / c.zoom
	c.pan.Y -= screenDY / c.zoom
}

// ScreenToWorld converts a screen point to world coordinates.
func (c *Camera) ScreenToWorld(p geom.Point) geom.Point {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return geom.Point{
		X: c.pan.X + p.X/c.zoom,
		Y: c.pan.Y + p.Y/c.zoom,
	}
}

// WorldToScreen converts a world point to screen coordinates.
func (c *Camera) WorldToScreen(p geom.Point) geom.Point {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return geom.Point{
		X: (p.X - c.pan.X) * c.zoom,
		Y: (p.Y - c.pan.Y) * c.zoom,
	}
}

// ScreenDeltaToWorld converts a screen-space delta to world units at the
// current zoom. Drag translation uses this so dragging tracks 1:1 under
// any zoom level.
func (c *Camera) ScreenDeltaToWorld(dx, dy float64) geom.Point {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return geom.Point{X: dx / c.zoom, Y: dy / c.zoom}
}

// FitRect positions the camera so the world rect fills the viewport with
// the given world-unit margin, clamping zoom to the legal range.
func (c *Camera) FitRect(r geom.Rect, margin float64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	w := r.W + 2*margin
	h := r.H + 2*margin
	if w <= 0 || h <= 0 || c.viewport.X <= 0 || c.viewport.Y <= 0 {
		return
	}
	zoom := clampZoom(min(c.viewport.X/w, c.viewport.Y/h))
	c.zoom = zoom
	center := r.Center()
	c.pan = geom.Point{
		X: center.X - c.viewport.X/(2*zoom),
		Y: center.Y - c.viewport.Y/(2*zoom),
	}
}

// CenterOn pans so the world point lands at the viewport center, keeping
// the current zoom.
func (c *Camera) CenterOn(p geom.Point) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.pan = geom.Point{
		X: p.X - c.viewport.X/(2*c.zoom),
		Y: p.Y - c.viewport.Y/(2*c.zoom),
	}
}

// ZoomAt scales the zoom by factor around a fixed screen point, so the
// world position under the pointer stays put.
func (c *Camera) ZoomAt(screen geom.Point, factor float64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	next := clampZoom(c.zoom * factor)
	if next == c.zoom {
		return
	}
	// Keep the world point under the cursor invariant.
	worldX := c.pan.X + screen.X/c.zoom
	worldY := c.pan.Y + screen.Y/c.zoom
	c.zoom = next
	c.pan.X = worldX - screen.X/c.zoom
	c.pan.Y = worldY - screen.Y/c.zoom
}

func clampZoom(z float64) float64 {
	switch {
	case z < MinZoom:
		return MinZoom
	case z > MaxZoom:
		return MaxZoom
	}
	return z
}
