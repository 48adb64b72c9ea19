package graph

// FoldCluster collapses a cluster: the cluster is marked folded and every
// descendant is hidden. Descendant clusters keep their own fold flags, so
// unfolding later restores the nested structure exactly.
func (g *Engine) FoldCluster(clusterID NodeID) error {
	n := g.Node(clusterID)
	if n == nil {
		return ErrNodeNotFound
	}
	if n.Type != TypeCluster || n.Folded() {
		return nil
	}
	if _, err := g.UpdateNode(clusterID, NodePatch{Meta: map[string]any{metaFolded: true}}); err != nil {
		return err
	}
	for _, id := range g.Descendants(clusterID) {
		if _, err := g.UpdateNode(id, NodePatch{Meta: map[string]any{metaHidden: true}}); err != nil {
			return err
		}
	}
	return nil
}

// UnfoldCluster expands a folded cluster one level: direct members become
// visible again, and member clusters that are themselves unfolded expand
// recursively. Members of a still-folded nested cluster stay hidden.
func (g *Engine) UnfoldCluster(clusterID NodeID) error {
	n := g.Node(clusterID)
	if n == nil {
		return ErrNodeNotFound
	}
	if n.Type != TypeCluster || !n.Folded() {
		return nil
	}
	if _, err := g.UpdateNode(clusterID, NodePatch{Meta: map[string]any{metaFolded: false}}); err != nil {
		return err
	}
	return g.unhideMembers(clusterID, 0)
}

func (g *Engine) unhideMembers(clusterID NodeID, depth int) error {
	if depth >= maxHierarchyDepth {
		return nil
	}
	for _, child := range g.Children(clusterID) {
		if _, err := g.UpdateNode(child, NodePatch{Meta: map[string]any{metaHidden: false}}); err != nil {
			return err
		}
		c := g.Node(child)
		if c != nil && c.Type == TypeCluster && !c.Folded() {
			if err := g.unhideMembers(child, depth+1); err != nil {
				return err
			}
		}
	}
	return nil
}

// ToggleFold folds an unfolded cluster and unfolds a folded one.
func (g *Engine) ToggleFold(clusterID NodeID) error {
	n := g.Node(clusterID)
	if n == nil {
		return ErrNodeNotFound
	}
	if n.Folded() {
		return g.UnfoldCluster(clusterID)
	}
	return g.FoldCluster(clusterID)
}
