package graph

import (
	"encoding/json"
	"fmt"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/tidwall/gjson"

	"github.com/symbolfield/core/internal/geom"
)

// SnapshotVersion is the current snapshot format version.
const SnapshotVersion = 2

// Snapshot is a complete serializable copy of the graph.
type Snapshot struct {
	Version int    `json:"version"`
	Nodes   []Node `json:"nodes"`
	Edges   []Edge `json:"edges"`
}

type snapshotNodeRule struct {
	ID   string `validate:"required"`
	Type string `validate:"required,oneof=core root cluster node"`
}

type snapshotEdgeRule struct {
	ID     string `validate:"required"`
	Source string `validate:"required"`
	Target string `validate:"required"`
	Type   string `validate:"required,oneof=default associative"`
}

var snapshotValidate = validator.New()

// Export returns a snapshot of the current graph.
func (g *Engine) Export() Snapshot {
	nodes := g.Nodes()
	edges := g.Edges()
	s := Snapshot{Version: SnapshotVersion}
	s.Nodes = make([]Node, 0, len(nodes))
	for _, n := range nodes {
		s.Nodes = append(s.Nodes, *n)
	}
	s.Edges = make([]Edge, 0, len(edges))
	for _, e := range edges {
		s.Edges = append(s.Edges, *e)
	}
	return s
}

// ExportJSON returns the snapshot serialized as indented JSON.
func (g *Engine) ExportJSON() ([]byte, error) {
	return json.MarshalIndent(g.Export(), "", "  ")
}

// Import replaces the graph with the snapshot contents. The current graph
// is cleared first, then every node and edge is restored through the
// normal event-emitting path, so listeners observe the import as a clear
// followed by creations. Edges referencing missing nodes are dropped with
// a warning rather than failing the whole import. Cluster membership is
// migrated from legacy edge-encoded form afterwards.
func (g *Engine) Import(s Snapshot) error {
	if err := validateSnapshot(s); err != nil {
		return err
	}
	g.Clear()
	for i := range s.Nodes {
		g.RestoreNode(s.Nodes[i])
	}
	for i := range s.Edges {
		if _, err := g.RestoreEdge(s.Edges[i]); err != nil {
			g.log.Warnf("graph: dropping edge %s on import: %v", s.Edges[i].ID, err)
		}
	}
	g.MigrateEdgeMembership()
	return nil
}

func validateSnapshot(s Snapshot) error {
	seen := make(map[NodeID]bool, len(s.Nodes))
	for _, n := range s.Nodes {
		rule := snapshotNodeRule{ID: string(n.ID), Type: string(n.Type)}
		if err := snapshotValidate.Struct(rule); err != nil {
			return fmt.Errorf("%w: node %q: %v", ErrInvalidSnapshot, n.ID, err)
		}
		if seen[n.ID] {
			return fmt.Errorf("%w: duplicate node id %q", ErrInvalidSnapshot, n.ID)
		}
		seen[n.ID] = true
	}
	edgeSeen := make(map[EdgeID]bool, len(s.Edges))
	for _, e := range s.Edges {
		rule := snapshotEdgeRule{ID: string(e.ID), Source: string(e.Source), Target: string(e.Target), Type: string(e.Type)}
		if err := snapshotValidate.Struct(rule); err != nil {
			return fmt.Errorf("%w: edge %q: %v", ErrInvalidSnapshot, e.ID, err)
		}
		if edgeSeen[e.ID] {
			return fmt.Errorf("%w: duplicate edge id %q", ErrInvalidSnapshot, e.ID)
		}
		edgeSeen[e.ID] = true
	}
	return nil
}

// ImportJSON parses snapshot JSON, tolerating the legacy layouts older
// exports used, and imports the result. Normalizations applied:
//
//   - nodes/edges nested under a top-level "graph" object
//   - position given as sibling x/y fields instead of a position object
//   - camelCase createdAt/updatedAt timestamps
//   - parentClusterId stored in data instead of meta
//   - edge endpoints spelled from/to
//   - missing edge ids and edge types
func (g *Engine) ImportJSON(data []byte) error {
	if !gjson.ValidBytes(data) {
		return fmt.Errorf("%w: not valid JSON", ErrInvalidSnapshot)
	}
	root := gjson.ParseBytes(data)
	if sub := root.Get("graph"); sub.Exists() {
		root = sub
	}

	var s Snapshot
	s.Version = int(root.Get("version").Int())

	root.Get("nodes").ForEach(func(_, v gjson.Result) bool {
		n := Node{
			ID:   NodeID(v.Get("id").String()),
			Type: NodeType(v.Get("type").String()),
		}
		if pos := v.Get("position"); pos.Exists() {
			n.Position = geom.Point{X: pos.Get("x").Float(), Y: pos.Get("y").Float()}
		} else {
			n.Position = geom.Point{X: v.Get("x").Float(), Y: v.Get("y").Float()}
		}
		n.Data = asMap(v.Get("data"))
		n.Style = asMap(v.Get("style"))
		n.Meta = asMap(v.Get("meta"))
		if n.Type == "" {
			n.Type = TypeNode
		}
		if pid := v.Get("data.parentClusterId"); pid.Exists() {
			if n.Meta == nil {
				n.Meta = map[string]any{}
			}
			if _, ok := n.Meta[metaParentCluster]; !ok {
				n.Meta[metaParentCluster] = pid.String()
			}
			delete(n.Data, "parentClusterId")
		}
		n.CreatedAt = firstInt(v, "created_at", "createdAt")
		n.UpdatedAt = firstInt(v, "updated_at", "updatedAt")
		s.Nodes = append(s.Nodes, n)
		return true
	})

	root.Get("edges").ForEach(func(_, v gjson.Result) bool {
		e := Edge{
			ID:     EdgeID(v.Get("id").String()),
			Source: NodeID(firstStr(v, "source", "from")),
			Target: NodeID(firstStr(v, "target", "to")),
			Type:   EdgeType(v.Get("type").String()),
		}
		if e.ID == "" {
			e.ID = EdgeID(uuid.New().String())
		}
		if e.Type == "" {
			e.Type = EdgeDefault
		}
		s.Edges = append(s.Edges, e)
		return true
	})

	return g.Import(s)
}

func asMap(r gjson.Result) map[string]any {
	if !r.IsObject() {
		return nil
	}
	m, _ := r.Value().(map[string]any)
	return m
}

func firstInt(v gjson.Result, paths ...string) int64 {
	for _, p := range paths {
		if r := v.Get(p); r.Exists() {
			return r.Int()
		}
	}
	return 0
}

func firstStr(v gjson.Result, paths ...string) string {
	for _, p := range paths {
		if r := v.Get(p); r.Exists() {
			return r.String()
		}
	}
	return ""
}
