package graph

// Cluster membership is read from a single source of truth: the child's
// parentClusterId meta key. Default edges from a cluster to its members
// exist alongside it for rendering, but never drive hierarchy walks.

// maxHierarchyDepth caps descendant walks. Membership cycles cannot be
// created through AddEdge, but imported snapshots are not trusted.
const maxHierarchyDepth = 32

// Children returns the ids of a cluster's direct members, in node
// insertion order.
func (g *Engine) Children(clusterID NodeID) []NodeID {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.childrenLocked(clusterID)
}

func (g *Engine) childrenLocked(clusterID NodeID) []NodeID {
	var out []NodeID
	for _, id := range g.nodeOrder {
		if g.nodes[id].ParentClusterID() == clusterID {
			out = append(out, id)
		}
	}
	return out
}

// Descendants returns every node reachable through cluster membership from
// clusterID, breadth-first, excluding the cluster itself.
func (g *Engine) Descendants(clusterID NodeID) []NodeID {
	g.mu.RLock()
	defer g.mu.RUnlock()

	var out []NodeID
	seen := map[NodeID]bool{clusterID: true}
	frontier := []NodeID{clusterID}
	for depth := 0; depth < maxHierarchyDepth && len(frontier) > 0; depth++ {
		var next []NodeID
		for _, id := range frontier {
			for _, child := range g.childrenLocked(id) {
				if seen[child] {
					continue
				}
				seen[child] = true
				out = append(out, child)
				next = append(next, child)
			}
		}
		frontier = next
	}
	return out
}

// TopLevelSelection filters ids down to the ones with no ancestor also in
// the set. Batch operations such as drags act on top-level nodes only;
// their descendants follow implicitly.
func (g *Engine) TopLevelSelection(ids []NodeID) []NodeID {
	g.mu.RLock()
	defer g.mu.RUnlock()

	inSet := make(map[NodeID]bool, len(ids))
	for _, id := range ids {
		inSet[id] = true
	}
	var out []NodeID
	for _, id := range ids {
		if _, ok := g.nodes[id]; !ok {
			continue
		}
		covered := false
		cur := id
		for depth := 0; depth < maxHierarchyDepth; depth++ {
			n, ok := g.nodes[cur]
			if !ok {
				break
			}
			parent := n.ParentClusterID()
			if parent == "" {
				break
			}
			if inSet[parent] {
				covered = true
				break
			}
			cur = parent
		}
		if !covered {
			out = append(out, id)
		}
	}
	return out
}

// AdoptIntoCluster sets a node's cluster membership and mirrors the
// cluster's folded state onto it. Protected nodes are never adopted.
func (g *Engine) AdoptIntoCluster(clusterID, childID NodeID) error {
	cluster := g.Node(clusterID)
	child := g.Node(childID)
	if cluster == nil || child == nil {
		return ErrNodeNotFound
	}
	if child.Type.Protected() {
		return ErrProtectedNode
	}
	_, err := g.UpdateNode(childID, NodePatch{Meta: map[string]any{
		metaParentCluster: string(clusterID),
		metaHidden:        cluster.Folded(),
	}})
	return err
}

// ReleaseAndRemoveCluster deletes a cluster while keeping its direct
// members: each is unparented and unhidden, then the cluster node itself
// is removed with its edges. A released nested cluster keeps its own fold
// state, so its subtree stays hidden if it was folded.
func (g *Engine) ReleaseAndRemoveCluster(clusterID NodeID) error {
	for _, child := range g.Children(clusterID) {
		_, err := g.UpdateNode(child, NodePatch{Meta: map[string]any{
			metaParentCluster: nil,
			metaHidden:        false,
		}})
		if err != nil {
			return err
		}
	}
	return g.RemoveNode(clusterID)
}

// RemoveSubtree deletes a cluster and every descendant, deepest first so
// each removal cascades only its own edges.
func (g *Engine) RemoveSubtree(clusterID NodeID) error {
	desc := g.Descendants(clusterID)
	for i := len(desc) - 1; i >= 0; i-- {
		if err := g.RemoveNode(desc[i]); err != nil {
			return err
		}
	}
	return g.RemoveNode(clusterID)
}

// MigrateEdgeMembership backfills parentClusterId from default edges for
// snapshots written before membership moved into node meta. For every
// default edge from a cluster to an unparented, unprotected node, the
// target is adopted. Run once after import.
func (g *Engine) MigrateEdgeMembership() int {
	migrated := 0
	for _, e := range g.Edges() {
		if e.Type != EdgeDefault {
			continue
		}
		src := g.Node(e.Source)
		tgt := g.Node(e.Target)
		if src == nil || tgt == nil || src.Type != TypeCluster {
			continue
		}
		if tgt.Type.Protected() || tgt.ParentClusterID() != "" {
			continue
		}
		if err := g.AdoptIntoCluster(e.Source, e.Target); err == nil {
			migrated++
		}
	}
	return migrated
}
