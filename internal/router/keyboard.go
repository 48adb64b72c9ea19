package router

import (
	"github.com/symbolfield/core/internal/event"
	"github.com/symbolfield/core/internal/graph"
	"github.com/symbolfield/core/internal/palette"
	"github.com/symbolfield/core/internal/selection"
	"github.com/symbolfield/core/internal/view"
)

// HandleKey dispatches a keyboard gesture. Reports whether the key was
// handled; unhandled keys fall through to the embedding layer.
func (r *Router) HandleKey(g KeyGesture) bool {
	if g.Mods.Primary() {
		switch g.Key {
		case "z":
			if g.Mods.Shift {
				r.bus.Emit(event.GraphRedo, nil)
			} else {
				r.bus.Emit(event.GraphUndo, nil)
			}
			return true
		case "y":
			r.bus.Emit(event.GraphRedo, nil)
			return true
		case "a":
			r.selectAll()
			return true
		}
		return false
	}

	switch g.Key {
	case "Escape":
		return r.handleEscape()
	case "Delete", "Backspace":
		return r.handleDelete()
	case "l":
		r.toggleTool(view.ToolLink)
		return true
	case "p":
		r.toggleTool(view.ToolPointer)
		return true
	case "a":
		r.toggleTool(view.ToolArea)
		return true
	case "n":
		return r.createNodeAtPointer()
	case "g":
		return r.groupSelection()
	case "Enter":
		if g.Mods.Shift {
			return r.groupSelection()
		}
		return r.enterSelected()
	}
	return false
}

func (r *Router) selectAll() {
	var ids []graph.NodeID
	for _, n := range r.engine.Nodes() {
		if !n.Hidden() {
			ids = append(ids, n.ID)
		}
	}
	r.nodes.SetSelection(ids, selection.ModeMulti)
}

// toggleTool activates the tool, or falls back to the pointer when it is
// already active. Any armed link is dropped either way.
func (r *Router) toggleTool(t view.Tool) {
	r.mu.Lock()
	if _, armed := r.active.(*LinkPreview); armed {
		r.active = nil
		r.mu.Unlock()
		r.clearPreviews(KindLinkPreview)
	} else {
		r.mu.Unlock()
	}

	if r.state.Tool() == t && t != view.ToolPointer {
		r.state.SetTool(view.ToolPointer)
		return
	}
	r.state.SetTool(t)
}

// createNodeAtPointer places a node at the last known pointer position.
// Disabled while the graph is empty: a space gets its root seeded first.
func (r *Router) createNodeAtPointer() bool {
	if r.engine.NodeCount() == 0 {
		return false
	}
	pos := r.LastPointerWorld()
	free := r.engine.FindFreePosition(pos, graph.TypeNode)
	n := r.engine.AddNode(graph.NodeSpec{Position: &free})
	r.nodes.Select(n.ID, false)
	return true
}

// groupSelection creates a cluster at the selection's bounding-box
// center, reparents the selected top-level nodes under it, and folds it.
func (r *Router) groupSelection() bool {
	ids := r.engine.TopLevelSelection(r.nodes.IDs())
	members := ids[:0]
	for _, id := range ids {
		n := r.engine.Node(id)
		if n != nil && !n.Type.Protected() {
			members = append(members, id)
		}
	}
	if len(members) < 2 {
		return false
	}

	bounds := r.nodes.Bounds()
	if bounds == nil {
		return false
	}
	center := bounds.Center()
	pos := r.engine.FindFreePosition(center, graph.TypeCluster)
	cluster := r.engine.AddNode(graph.NodeSpec{
		Type:     graph.TypeCluster,
		Position: &pos,
		Style:    map[string]any{"color": palette.ColorFor(r.clusterCount())},
	})

	for _, id := range members {
		if _, err := r.engine.AddEdge(cluster.ID, id, graph.EdgeDefault); err != nil {
			r.log.Warnf("router: group link failed for %s: %v", id, err)
			continue
		}
		if err := r.engine.AdoptIntoCluster(cluster.ID, id); err != nil {
			r.log.Warnf("router: adopt failed for %s: %v", id, err)
		}
		// An unfolded cluster member folds on adoption, so unfolding the
		// parent later expands one level only.
		if n := r.engine.Node(id); n != nil && n.Type == graph.TypeCluster {
			if err := r.engine.FoldCluster(id); err != nil {
				r.log.Warnf("router: fold member cluster %s: %v", id, err)
			}
		}
	}
	if err := r.engine.FoldCluster(cluster.ID); err != nil {
		r.log.Warnf("router: fold after group failed: %v", err)
	}
	r.nodes.Select(cluster.ID, false)
	return true
}

func (r *Router) clusterCount() int {
	count := 0
	for _, n := range r.engine.Nodes() {
		if n.Type == graph.TypeCluster {
			count++
		}
	}
	return count
}

// enterSelected opens the primary selected node: clusters toggle field
// scope, plain nodes enter the deep node view.
func (r *Router) enterSelected() bool {
	primary := r.nodes.Primary()
	if primary == "" {
		return false
	}
	n := r.engine.Node(primary)
	if n == nil {
		return false
	}
	if n.Type == graph.TypeCluster {
		r.state.ToggleFieldScope(primary)
		return true
	}
	return r.state.EnterNode(primary)
}

// handleEscape walks the context-sensitive priority chain; the first
// applicable step wins and stops further handling.
func (r *Router) handleEscape() bool {
	r.mu.Lock()
	hasActive := r.active != nil
	r.mu.Unlock()
	if hasActive {
		r.Cancel()
		return true
	}
	if r.state.Tool() != view.ToolPointer {
		r.state.SetTool(view.ToolPointer)
		return true
	}
	if r.state.PaletteOpen() {
		r.state.SetPaletteOpen(false)
		return true
	}
	if r.state.SettingsOpen() {
		r.state.SetSettingsOpen(false)
		return true
	}
	if r.state.Context() == view.ContextNode {
		r.state.ExitNode()
		return true
	}
	if r.state.Context() == view.ContextNow {
		r.state.ExitNow()
		return true
	}
	if r.areaSel.Count() > 0 {
		r.areaSel.Clear()
		return true
	}
	if r.edges.Count() > 0 {
		r.edges.Clear()
		return true
	}
	if !r.nodes.IsEmpty() {
		r.nodes.Clear()
		return true
	}
	return false
}

// handleDelete removes, in priority order: selected edges, the hovered
// edge, selected areas, then selected nodes. Root and core nodes are
// never deleted; a cluster with members first asks cascade or release.
func (r *Router) handleDelete() bool {
	if ids := r.edges.IDs(); len(ids) > 0 {
		for _, id := range ids {
			if err := r.engine.RemoveEdge(id); err != nil {
				r.log.Warnf("router: edge delete failed: %v", err)
			}
		}
		r.edges.Clear()
		return true
	}

	r.mu.Lock()
	hovered := r.hoveredEdge
	r.mu.Unlock()
	if hovered != "" {
		if err := r.engine.RemoveEdge(hovered); err != nil {
			r.log.Warnf("router: hovered edge delete failed: %v", err)
		}
		r.SetHoveredEdge("")
		return true
	}

	if ids := r.areaSel.IDs(); len(ids) > 0 {
		for _, id := range ids {
			r.areas.Remove(id)
		}
		r.areaSel.Clear()
		return true
	}

	ids := r.nodes.IDs()
	if len(ids) == 0 {
		return false
	}
	for _, id := range r.engine.TopLevelSelection(ids) {
		r.deleteNode(id)
	}
	r.nodes.Clear()
	return true
}

func (r *Router) deleteNode(id graph.NodeID) {
	n := r.engine.Node(id)
	if n == nil {
		return
	}
	if n.Type.Protected() {
		return
	}
	if n.Type == graph.TypeCluster {
		members := r.engine.Children(id)
		if len(members) > 0 {
			switch r.prompt(id, len(members)) {
			case ChoiceCancel:
				return
			case ChoiceRelease:
				if err := r.engine.ReleaseAndRemoveCluster(id); err != nil {
					r.log.Warnf("router: cluster release failed: %v", err)
				}
				return
			default:
				if err := r.engine.RemoveSubtree(id); err != nil {
					r.log.Warnf("router: cluster cascade failed: %v", err)
				}
				return
			}
		}
	}
	if err := r.engine.RemoveNode(id); err != nil {
		r.log.Warnf("router: node delete failed: %v", err)
	}
}
