package graph

import (
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
)

func TestGraphProperties(t *testing.T) {
	parameters := gopter.DefaultTestParametersWithSeed(1234)
	parameters.MinSuccessfulTests = 200
	properties := gopter.NewProperties(parameters)

	coord := gen.Float64Range(-1000, 1000)

	properties.Property("moved node never overlaps a visible neighbor", prop.ForAll(
		func(x, y float64) bool {
			g, _ := newTestEngine()
			a := g.AddNode(NodeSpec{Position: pt(-400, -400)})
			b := g.AddNode(NodeSpec{Position: pt(400, 400)})
			mover := g.AddNode(NodeSpec{Position: pt(0, 800)})

			moved, err := g.UpdateNode(mover.ID, NodePatch{Position: pt(x, y)})
			if err != nil {
				return false
			}
			for _, other := range []*Node{a, b} {
				if moved.Position.Dist(other.Position) < moved.Radius()+other.Radius()-collisionEpsilon {
					return false
				}
			}
			return true
		},
		coord, coord,
	))

	properties.Property("placement inside the guard radius is idempotent", prop.ForAll(
		func(x, y, dx, dy float64) bool {
			g, _ := newTestEngine()
			first := g.AddNode(NodeSpec{Position: pt(x, y)})
			second := g.AddNode(NodeSpec{Position: pt(x+dx, y+dy)})
			return first.ID == second.ID && g.NodeCount() == 1
		},
		coord, coord,
		gen.Float64Range(-PlacementGuardRadius/2, PlacementGuardRadius/2),
		gen.Float64Range(-PlacementGuardRadius/2, PlacementGuardRadius/2),
	))

	properties.Property("edge creation is idempotent per unordered pair", prop.ForAll(
		func(flip bool) bool {
			g, _ := newTestEngine()
			a := g.AddNode(NodeSpec{Position: pt(0, 0)})
			b := g.AddNode(NodeSpec{Position: pt(300, 0)})

			first, err := g.AddEdge(a.ID, b.ID, EdgeDefault)
			if err != nil {
				return false
			}
			src, dst := a.ID, b.ID
			if flip {
				src, dst = dst, src
			}
			second, err := g.AddEdge(src, dst, EdgeDefault)
			if err != nil {
				return false
			}
			return first.ID == second.ID && g.EdgeCount() == 1
		},
		gen.Bool(),
	))

	properties.Property("cascade leaves no dangling edges", prop.ForAll(
		func(victim uint8) bool {
			g, _ := newTestEngine()
			var ids []NodeID
			for i := 0; i < 5; i++ {
				n := g.AddNode(NodeSpec{Position: pt(float64(i)*300, 0)})
				ids = append(ids, n.ID)
			}
			for i := 0; i < len(ids); i++ {
				for j := i + 1; j < len(ids); j++ {
					if _, err := g.AddEdge(ids[i], ids[j], EdgeDefault); err != nil {
						return false
					}
				}
			}

			target := ids[int(victim)%len(ids)]
			if err := g.RemoveNode(target); err != nil {
				return false
			}
			for _, e := range g.Edges() {
				if e.Touches(target) {
					return false
				}
			}
			return g.EdgeCount() == 6
		},
		gen.UInt8(),
	))

	properties.Property("snapshot round-trip preserves the graph", prop.ForAll(
		func(xs []float64) bool {
			g, _ := newTestEngine()
			prev := pt(0, 0)
			g.AddNode(NodeSpec{Position: prev})
			for i, x := range xs {
				// Spread nodes far enough apart that the placement guard
				// never collapses them.
				p := pt(x, float64(i+1)*200)
				n := g.AddNode(NodeSpec{Position: p})
				_ = n
			}

			data, err := g.ExportJSON()
			if err != nil {
				return false
			}
			fresh, _ := newTestEngine()
			if err := fresh.ImportJSON(data); err != nil {
				return false
			}
			if fresh.NodeCount() != g.NodeCount() {
				return false
			}
			for _, n := range g.Nodes() {
				got := fresh.Node(n.ID)
				if got == nil || got.Position != n.Position || got.Label() != n.Label() {
					return false
				}
			}
			return true
		},
		gen.SliceOfN(4, gen.Float64Range(-500, 500)),
	))

	properties.TestingRun(t)
}
