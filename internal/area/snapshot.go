package area

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/tidwall/gjson"

	"github.com/symbolfield/core/internal/geom"
	"github.com/symbolfield/core/internal/graph"
)

// ErrInvalidSnapshot indicates area snapshot data that could not be
// parsed.
var ErrInvalidSnapshot = errors.New("area: invalid snapshot")

// Snapshot is a serializable copy of all areas.
type Snapshot struct {
	Areas []Area `json:"areas"`
}

// Export returns a snapshot of the current areas.
func (s *Store) Export() Snapshot {
	areas := s.Areas()
	out := Snapshot{Areas: make([]Area, 0, len(areas))}
	for _, a := range areas {
		out.Areas = append(out.Areas, *a)
	}
	return out
}

// ExportJSON returns the snapshot serialized as indented JSON.
func (s *Store) ExportJSON() ([]byte, error) {
	return json.MarshalIndent(s.Export(), "", "  ")
}

// ImportJSON replaces the store contents from snapshot JSON, tolerating
// legacy layouts: bounds in place of rect, name in place of title, and a
// bare node id in place of an anchor object. Every restored area emits
// RegionCreated.
func (s *Store) ImportJSON(data []byte) error {
	if !gjson.ValidBytes(data) {
		return fmt.Errorf("%w: not valid JSON", ErrInvalidSnapshot)
	}
	root := gjson.ParseBytes(data)
	list := root.Get("areas")
	if !list.Exists() {
		list = root.Get("regions")
	}

	s.Clear()
	list.ForEach(func(_, v gjson.Result) bool {
		a := Area{
			ID:     ID(v.Get("id").String()),
			Shape:  Shape(v.Get("shape").String()),
			Title:  firstStr(v, "title", "name"),
			Color:  v.Get("color").String(),
			ZIndex: int(v.Get("zIndex").Int()),
			Locked: v.Get("locked").Bool(),
		}
		rect := v.Get("rect")
		if !rect.Exists() {
			rect = v.Get("bounds")
		}
		if rect.Exists() {
			a.Rect = geom.Rect{
				X: rect.Get("x").Float(),
				Y: rect.Get("y").Float(),
				W: firstFloat(rect, "w", "width"),
				H: firstFloat(rect, "h", "height"),
			}
		}
		if c := v.Get("circle"); c.Exists() {
			a.Circle = geom.Circle{
				CX: c.Get("cx").Float(),
				CY: c.Get("cy").Float(),
				R:  c.Get("r").Float(),
			}
		}
		if anchor := v.Get("anchor"); anchor.Exists() {
			if anchor.Type == gjson.String {
				// Legacy: a bare node id means a following node anchor.
				a.Anchor = Anchor{Kind: AnchorNode, NodeID: graph.NodeID(anchor.String()), Follow: true}
			} else {
				a.Anchor = Anchor{
					Kind:   AnchorKind(anchor.Get("kind").String()),
					NodeID: graph.NodeID(anchor.Get("nodeId").String()),
					Follow: anchor.Get("follow").Bool(),
					Offset: geom.Point{
						X: anchor.Get("offset.x").Float(),
						Y: anchor.Get("offset.y").Float(),
					},
				}
			}
		}
		if a.Anchor.Kind == "" {
			a.Anchor.Kind = AnchorCanvas
		}
		if a.Shape == "" {
			a.Shape = ShapeRect
		}
		a.CreatedAt = firstIntRes(v, "created_at", "createdAt")
		a.UpdatedAt = firstIntRes(v, "updated_at", "updatedAt")
		if a.ID == "" {
			s.Create(Spec{
				Shape: a.Shape, Rect: a.Rect, Circle: a.Circle, Anchor: a.Anchor,
				Title: a.Title, Color: a.Color, ZIndex: a.ZIndex, Locked: a.Locked,
			})
			return true
		}
		s.Restore(a)
		return true
	})
	return nil
}

func firstStr(v gjson.Result, paths ...string) string {
	for _, p := range paths {
		if r := v.Get(p); r.Exists() {
			return r.String()
		}
	}
	return ""
}

func firstFloat(v gjson.Result, paths ...string) float64 {
	for _, p := range paths {
		if r := v.Get(p); r.Exists() {
			return r.Float()
		}
	}
	return 0
}

func firstIntRes(v gjson.Result, paths ...string) int64 {
	for _, p := range paths {
		if r := v.Get(p); r.Exists() {
			return r.Int()
		}
	}
	return 0
}
