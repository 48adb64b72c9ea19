package graph

import "errors"

var (
	// ErrNodeNotFound indicates the node id is unknown.
	ErrNodeNotFound = errors.New("graph: node not found")

	// ErrEdgeNotFound indicates the edge id is unknown.
	ErrEdgeNotFound = errors.New("graph: edge not found")

	// ErrMissingEndpoint indicates an edge referenced a node id that does
	// not exist.
	ErrMissingEndpoint = errors.New("graph: edge endpoint does not exist")

	// ErrSelfLink indicates an edge with identical endpoints.
	ErrSelfLink = errors.New("graph: self links are not allowed")

	// ErrProtectedNode indicates an attempt to delete a root or core node.
	ErrProtectedNode = errors.New("graph: node is protected")

	// ErrInvalidSnapshot indicates snapshot data that failed validation.
	ErrInvalidSnapshot = errors.New("graph: invalid snapshot")
)
