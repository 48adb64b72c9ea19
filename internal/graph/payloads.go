package graph

// Event payloads emitted by the engine. Each payload carries value copies;
// listeners never observe engine-internal state.

// NodeCreatedPayload accompanies event.NodeCreated.
type NodeCreatedPayload struct {
	Node Node
}

// NodeUpdatedPayload accompanies event.NodeUpdated. Before and After are
// full snapshots bracketing the merge patch, so consumers such as the
// undo manager can invert the mutation without replaying it.
type NodeUpdatedPayload struct {
	ID     NodeID
	Before Node
	After  Node
}

// NodeDeletedPayload accompanies event.NodeDeleted. Edges holds every
// edge removed by the cascade, in removal order.
type NodeDeletedPayload struct {
	ID    NodeID
	Node  Node
	Edges []Edge
}

// LinkCreatedPayload accompanies event.LinkCreated.
type LinkCreatedPayload struct {
	Edge Edge
}

// LinkDeletedPayload accompanies event.LinkDeleted.
type LinkDeletedPayload struct {
	ID   EdgeID
	Edge Edge
}

// GraphClearedPayload accompanies event.GraphCleared.
type GraphClearedPayload struct {
	NodeCount int
	EdgeCount int
}
