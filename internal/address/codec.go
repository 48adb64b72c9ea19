package address

import (
	"fmt"
	"strings"

	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"

	"github.com/symbolfield/core/internal/camera"
	"github.com/symbolfield/core/internal/geom"
	"github.com/symbolfield/core/internal/graph"
	"github.com/symbolfield/core/internal/view"
)

// Scheme prefixes every portable address string.
const Scheme = "sf://"

// Encode serializes an address to its portable string form: the scheme
// followed by a compact JSON document. Zero-valued optional fields are
// omitted so encodings stay short and stable.
func Encode(a Address) string {
	out := "{}"
	out, _ = sjson.Set(out, "space", a.SpaceID)
	if a.Target.Context != "" {
		out, _ = sjson.Set(out, "target.context", string(a.Target.Context))
	}
	if a.Target.NodeID != "" {
		out, _ = sjson.Set(out, "target.nodeId", string(a.Target.NodeID))
	}
	if a.Scope != "" {
		out, _ = sjson.Set(out, "scope", string(a.Scope))
	}
	if a.Camera.Fit != nil {
		out, _ = sjson.Set(out, "camera.fit.x", a.Camera.Fit.X)
		out, _ = sjson.Set(out, "camera.fit.y", a.Camera.Fit.Y)
		out, _ = sjson.Set(out, "camera.fit.w", a.Camera.Fit.W)
		out, _ = sjson.Set(out, "camera.fit.h", a.Camera.Fit.H)
	} else if a.Camera.State != nil {
		out, _ = sjson.Set(out, "camera.pan.x", a.Camera.State.Pan.X)
		out, _ = sjson.Set(out, "camera.pan.y", a.Camera.State.Pan.Y)
		out, _ = sjson.Set(out, "camera.zoom", a.Camera.State.Zoom)
	}
	for _, id := range a.Selection {
		out, _ = sjson.Set(out, "selection.-1", string(id))
	}
	return Scheme + out
}

// Decode parses a portable address string. The scheme prefix is optional
// on input.
func Decode(s string) (Address, error) {
	body := strings.TrimPrefix(strings.TrimSpace(s), Scheme)
	if !gjson.Valid(body) {
		return Address{}, fmt.Errorf("%w: %s", ErrResolve, ReasonBadEncoding)
	}
	doc := gjson.Parse(body)

	a := Address{
		SpaceID: doc.Get("space").String(),
		Target: Target{
			Context: view.Context(doc.Get("target.context").String()),
			NodeID:  graph.NodeID(doc.Get("target.nodeId").String()),
		},
		Scope: graph.NodeID(doc.Get("scope").String()),
	}
	if fit := doc.Get("camera.fit"); fit.Exists() {
		a.Camera.Fit = &geom.Rect{
			X: fit.Get("x").Float(),
			Y: fit.Get("y").Float(),
			W: fit.Get("w").Float(),
			H: fit.Get("h").Float(),
		}
	} else if cam := doc.Get("camera"); cam.Exists() && cam.Get("zoom").Exists() {
		a.Camera.State = &camera.State{
			Pan: geom.Point{
				X: cam.Get("pan.x").Float(),
				Y: cam.Get("pan.y").Float(),
			},
			Zoom: cam.Get("zoom").Float(),
		}
	}
	doc.Get("selection").ForEach(func(_, v gjson.Result) bool {
		a.Selection = append(a.Selection, graph.NodeID(v.String()))
		return true
	})
	return a, nil
}
