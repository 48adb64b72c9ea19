// Package area owns freeform overlay regions: rectangles and circles
// anchored either to the canvas or to a node. Node-anchored areas with
// follow enabled derive their effective geometry from the node's live
// position and cannot be moved independently.
package area
