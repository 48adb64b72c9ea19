package graph

import (
	"time"

	"github.com/symbolfield/core/internal/geom"
)

// NodeID identifies a node.
type NodeID string

// NodeType tags the kind of a node. The type determines the node's
// footprint radius and whether it is protected from deletion and drags.
type NodeType string

const (
	// TypeCore is the root/core node of a space. Protected: never deleted,
	// never dragged.
	TypeCore NodeType = "core"
	// TypeRoot is the legacy spelling of the protected root node kind,
	// still present in older snapshots.
	TypeRoot NodeType = "root"
	// TypeCluster is a container node that can be folded.
	TypeCluster NodeType = "cluster"
	// TypeNode is a plain node.
	TypeNode NodeType = "node"
)

// Node footprint diameters in world units. Nodes scale in whole grid
// cells: plain=2, cluster=2.5, root=3.
const (
	plainDiameter   = geom.GridCell * 2
	clusterDiameter = geom.GridCell * 2.5
	rootDiameter    = geom.GridCell * 3
)

// PlacementGuardRadius is the distance within which AddNode returns an
// existing node instead of creating a duplicate.
const PlacementGuardRadius = plainDiameter/2 + geom.GridCell/2

// Radius returns the footprint radius for the node type.
func (t NodeType) Radius() float64 {
	switch t {
	case TypeCore, TypeRoot:
		return rootDiameter / 2
	case TypeCluster:
		return clusterDiameter / 2
	default:
		return plainDiameter / 2
	}
}

// Protected reports whether nodes of this type are shielded from deletion
// and drag translation.
func (t NodeType) Protected() bool {
	return t == TypeCore || t == TypeRoot
}

// Meta keys used by the engine itself. Meta remains an open map; these are
// the keys with engine-level meaning.
const (
	metaParentCluster = "parentClusterId"
	metaHidden        = "isHidden"
	metaFolded        = "isFolded"
)

// Node is a graph node. The engine owns all instances; callers receive
// deep copies and mutate only through Engine methods.
type Node struct {
	ID        NodeID         `json:"id"`
	Type      NodeType       `json:"type"`
	Position  geom.Point     `json:"position"`
	Data      map[string]any `json:"data"`
	Style     map[string]any `json:"style,omitempty"`
	Meta      map[string]any `json:"meta,omitempty"`
	CreatedAt int64          `json:"created_at"`
	UpdatedAt int64          `json:"updated_at"`
}

// Radius returns the node's footprint radius.
func (n *Node) Radius() float64 {
	return n.Type.Radius()
}

// Label returns the node's display label, or "" when unset.
func (n *Node) Label() string {
	s, _ := n.Data["label"].(string)
	return s
}

// ParentClusterID returns the node's cluster membership, or "" when the
// node is not a member of any cluster.
func (n *Node) ParentClusterID() NodeID {
	s, _ := n.Meta[metaParentCluster].(string)
	return NodeID(s)
}

// Hidden reports whether the node is hidden by a folded ancestor.
func (n *Node) Hidden() bool {
	b, _ := n.Meta[metaHidden].(bool)
	return b
}

// Folded reports whether a cluster node is folded.
func (n *Node) Folded() bool {
	b, _ := n.Meta[metaFolded].(bool)
	return b
}

// Clone returns a deep copy of the node.
func (n *Node) Clone() *Node {
	c := *n
	c.Data = cloneMap(n.Data)
	c.Style = cloneMap(n.Style)
	c.Meta = cloneMap(n.Meta)
	return &c
}

func cloneMap(m map[string]any) map[string]any {
	if m == nil {
		return nil
	}
	out := make(map[string]any, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

func nowMillis() int64 {
	return time.Now().UnixMilli()
}

// NodeSpec describes a node to create. Zero-value fields take engine
// defaults: a generated id, TypeNode, origin position, empty maps.
type NodeSpec struct {
	ID       NodeID
	Type     NodeType
	Position *geom.Point
	Data     map[string]any
	Style    map[string]any
	Meta     map[string]any
}

// NodePatch is a merge patch for UpdateNode. Nil fields are untouched;
// map fields merge key-by-key rather than replacing the whole map.
type NodePatch struct {
	Position *geom.Point
	Data     map[string]any
	Style    map[string]any
	Meta     map[string]any
}
