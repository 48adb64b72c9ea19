package graph

// EdgeID identifies an edge.
type EdgeID string

// EdgeType tags the kind of an edge.
type EdgeType string

const (
	// EdgeDefault is a structural parent/child link.
	EdgeDefault EdgeType = "default"
	// EdgeAssociative is a cross-link that carries no cluster membership
	// semantics.
	EdgeAssociative EdgeType = "associative"
)

// Edge is a directed link between two nodes. At most one edge of a given
// type exists per unordered endpoint pair.
type Edge struct {
	ID     EdgeID   `json:"id"`
	Source NodeID   `json:"source"`
	Target NodeID   `json:"target"`
	Type   EdgeType `json:"type"`
}

// Touches reports whether the edge has id as either endpoint.
func (e *Edge) Touches(id NodeID) bool {
	return e.Source == id || e.Target == id
}

// Other returns the endpoint opposite id, or "" when id is not an
// endpoint.
func (e *Edge) Other(id NodeID) NodeID {
	switch id {
	case e.Source:
		return e.Target
	case e.Target:
		return e.Source
	}
	return ""
}

// Clone returns a copy of the edge.
func (e *Edge) Clone() *Edge {
	c := *e
	return &c
}
