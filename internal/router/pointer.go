package router

import (
	"github.com/symbolfield/core/internal/area"
	"github.com/symbolfield/core/internal/event"
	"github.com/symbolfield/core/internal/geom"
	"github.com/symbolfield/core/internal/graph"
	"github.com/symbolfield/core/internal/selection"
)

// PointerDown is the entry point of the gesture pipeline: hit
// classification short-circuits edge hits and the sticky link mode, then
// intent interpretation and action execution arm the active interaction.
func (r *Router) PointerDown(g PointerGesture) {
	r.mu.Lock()
	r.lastPointerWorld = g.World
	active := r.active
	r.mu.Unlock()

	// A pointer-down while the sticky link mode is armed resolves it.
	if lp, ok := active.(*LinkPreview); ok {
		r.resolvePendingLink(lp, g)
		return
	}
	if active != nil {
		// The UI layer captures the pointer per gesture; a second down
		// mid-gesture means it lost track. Drop the stale interaction.
		r.log.Warnf("router: pointer down during active %s, canceling", active.Kind())
		r.Cancel()
	}

	if g.Target == TargetEdge {
		id := graph.EdgeID(g.TargetID)
		if g.Mods.Shift {
			r.edges.Toggle(id)
		} else {
			r.edges.Select(id, false)
		}
		return
	}

	r.executeIntent(interpretIntent(g, r.state.Tool()), g)
}

func (r *Router) executeIntent(intent Intent, g PointerGesture) {
	switch intent.Kind {
	case IntentCreateNode:
		n := r.engine.AddNode(graph.NodeSpec{Position: &g.World})
		r.nodes.Select(n.ID, false)

	case IntentPanStart:
		r.setActive(&Pan{LastScreen: g.Screen})
		r.bus.Emit(event.InteractionStart, InteractionStartPayload{Kind: KindPan})

	case IntentBoxSelectStart:
		r.setActive(&BoxSelect{Start: g.World, Last: g.World, Additive: intent.Additive})
		r.bus.Emit(event.InteractionStart, InteractionStartPayload{Kind: KindBoxSelect})

	case IntentRegionDraw:
		shape := area.ShapeRect
		if g.Mods.Alt {
			shape = area.ShapeCircle
		}
		r.setActive(&RegionDraw{Start: g.World, Last: g.World, Shape: shape})
		r.bus.Emit(event.InteractionStart, InteractionStartPayload{Kind: KindRegionDraw})

	case IntentStartLink:
		r.setActive(&LinkArm{
			Source:      intent.NodeID,
			StartScreen: g.Screen,
			Associative: intent.Associative,
		})
		r.bus.Emit(event.InteractionStart, InteractionStartPayload{Kind: KindLinkArm})

	case IntentOpenNode:
		n := r.engine.Node(intent.NodeID)
		if n == nil {
			return
		}
		if n.Type == graph.TypeCluster {
			if err := r.engine.ToggleFold(intent.NodeID); err != nil {
				r.log.Warnf("router: fold toggle failed: %v", err)
			}
			return
		}
		r.state.EnterNode(intent.NodeID)

	case IntentPrepareDrag:
		r.prepareDrag(intent, g)
	}
}

// prepareDrag arms a node drag. Selection is deferred to pointer-up when
// the clicked node is not yet selected, so a motionless click becomes a
// selection instead of a zero-delta drag.
func (r *Router) prepareDrag(intent Intent, g PointerGesture) {
	clicked := intent.NodeID
	var ids []graph.NodeID
	pendingSelect := false

	if r.nodes.Has(clicked) {
		ids = r.engine.TopLevelSelection(r.nodes.IDs())
	} else {
		ids = []graph.NodeID{clicked}
		pendingSelect = true
	}

	drag := &DragNodes{
		StartScreen:   g.Screen,
		LastScreen:    g.Screen,
		Start:         make(map[graph.NodeID]geom.Point, len(ids)),
		PendingSelect: pendingSelect,
		PendingMulti:  intent.Additive,
		ClickedID:     clicked,
	}
	for _, id := range ids {
		n := r.engine.Node(id)
		if n == nil || n.Type.Protected() {
			// Root and core nodes never move.
			continue
		}
		drag.IDs = append(drag.IDs, id)
		drag.Start[id] = n.Position
	}
	if !pendingSelect {
		// Areas in a multi-selection ride along with the drag.
		drag.AreaIDs = r.areaSel.IDs()
	}

	r.setActive(drag)
	positions := make(map[graph.NodeID]geom.Point, len(drag.Start))
	for id, p := range drag.Start {
		positions[id] = p
	}
	r.bus.Emit(event.InteractionStart, InteractionStartPayload{
		Kind:      KindDragNodes,
		Positions: positions,
	})
}

// PointerMove dispatches purely on the active interaction kind.
func (r *Router) PointerMove(g PointerGesture) {
	r.mu.Lock()
	r.lastPointerWorld = g.World
	active := r.active
	r.mu.Unlock()

	switch it := active.(type) {
	case nil:
		return

	case *BoxSelect:
		it.Last = g.World
		rect := geom.RectFromCorners(it.Start, it.Last)
		r.bus.Emit(event.InteractionUpdate, InteractionUpdatePayload{Kind: KindBoxSelect, Rect: &rect})
		r.bus.Emit(event.SelectionPreviewUpdated, SelectionPreviewPayload{
			Active:   true,
			Rect:     rect,
			Additive: it.Additive,
		})

	case *RegionDraw:
		it.Last = g.World
		rect := geom.RectFromCorners(it.Start, it.Last)
		r.bus.Emit(event.InteractionUpdate, InteractionUpdatePayload{Kind: KindRegionDraw, Rect: &rect})

	case *Pan:
		r.cam.PanBy(g.Screen.X-it.LastScreen.X, g.Screen.Y-it.LastScreen.Y)
		it.LastScreen = g.Screen
		r.bus.Emit(event.InteractionUpdate, InteractionUpdatePayload{Kind: KindPan})

	case *LinkArm:
		if g.Screen.DistSq(it.StartScreen) > linkDragPromoteSq {
			r.setActive(&LinkDrag{
				Source:      it.Source,
				LastWorld:   g.World,
				Associative: it.Associative,
			})
		}
		r.emitLinkPreview(it.Source, g.World, it.Associative)

	case *LinkDrag:
		it.LastWorld = g.World
		r.emitLinkPreview(it.Source, g.World, it.Associative)

	case *LinkPreview:
		it.LastWorld = g.World
		r.emitLinkPreview(it.Source, g.World, it.Associative)

	case *DragNodes:
		step := r.cam.ScreenDeltaToWorld(g.Screen.X-it.LastScreen.X, g.Screen.Y-it.LastScreen.Y)
		it.LastScreen = g.Screen
		delta := r.cam.ScreenDeltaToWorld(g.Screen.X-it.StartScreen.X, g.Screen.Y-it.StartScreen.Y)
		for _, id := range it.IDs {
			pos := it.Start[id].Add(delta.X, delta.Y)
			if _, err := r.engine.UpdateNode(id, graph.NodePatch{Position: &pos}); err != nil {
				r.log.Warnf("router: drag update failed for %s: %v", id, err)
			}
		}
		// Ride-along areas mirror each move, not just the final settle.
		r.translateAreas(it, step)
		r.bus.Emit(event.InteractionUpdate, InteractionUpdatePayload{Kind: KindDragNodes, Delta: delta})
	}
}

// translateAreas applies a world-space step to the drag's ride-along
// areas and tracks the cumulative delta, so the settle and cancel paths
// can reconcile against what was already applied.
func (r *Router) translateAreas(it *DragNodes, step geom.Point) {
	if step == (geom.Point{}) || len(it.AreaIDs) == 0 {
		return
	}
	for _, aid := range it.AreaIDs {
		r.areas.TranslateBy(aid, step)
	}
	it.AreaDelta = it.AreaDelta.Add(step.X, step.Y)
}

// PointerUp resolves the active interaction.
func (r *Router) PointerUp(g PointerGesture) {
	r.mu.Lock()
	r.lastPointerWorld = g.World
	active := r.active
	r.mu.Unlock()

	switch it := active.(type) {
	case nil:
		// A click on empty canvas with no interaction clears selection.
		if g.Target == TargetEmpty && !g.Mods.Shift {
			r.nodes.Clear()
			r.edges.Clear()
			r.areaSel.Clear()
		}

	case *BoxSelect:
		r.finishBoxSelect(it, g)

	case *RegionDraw:
		r.finishRegionDraw(it, g)

	case *Pan:
		r.setActive(nil)
		r.bus.Emit(event.InteractionEnd, InteractionEndPayload{Kind: KindPan})

	case *LinkArm:
		// Released without dragging: stay armed awaiting a click target.
		r.setActive(&LinkPreview{
			Source:      it.Source,
			LastWorld:   g.World,
			Associative: it.Associative,
		})
		r.emitLinkPreview(it.Source, g.World, it.Associative)

	case *LinkDrag:
		r.finishLinkDrag(it, g)

	case *LinkPreview:
		// Pointer-up does not resolve the sticky mode; the next
		// pointer-down does.

	case *DragNodes:
		r.finishDrag(it, g)
	}
}

func (r *Router) finishBoxSelect(it *BoxSelect, g PointerGesture) {
	r.setActive(nil)
	rect := geom.RectFromCorners(it.Start, g.World)

	var hitNodes []graph.NodeID
	for _, n := range r.engine.Nodes() {
		if n.Hidden() {
			continue
		}
		if rect.Contains(n.Position) {
			hitNodes = append(hitNodes, n.ID)
		}
	}
	if it.Additive {
		r.nodes.Add(hitNodes, selection.ModeBox)
	} else {
		r.nodes.SetSelection(hitNodes, selection.ModeBox)
	}

	// Edges whose both endpoints ended up selected join the selection.
	selected := make(map[graph.NodeID]bool, r.nodes.Count())
	for _, id := range r.nodes.IDs() {
		selected[id] = true
	}
	var hitEdges []graph.EdgeID
	for _, e := range r.engine.Edges() {
		if selected[e.Source] && selected[e.Target] {
			hitEdges = append(hitEdges, e.ID)
		}
	}
	if it.Additive {
		for _, id := range hitEdges {
			r.edges.Select(id, true)
		}
	} else {
		r.edges.SetSelection(hitEdges)
	}

	hitAreas := r.areas.IntersectingRect(rect)
	if it.Additive {
		r.areaSel.Add(hitAreas)
	} else {
		r.areaSel.SetSelection(hitAreas)
	}

	r.bus.Emit(event.InteractionEnd, InteractionEndPayload{Kind: KindBoxSelect})
	r.clearPreviews(KindBoxSelect)
}

func (r *Router) finishRegionDraw(it *RegionDraw, g PointerGesture) {
	r.setActive(nil)
	rect := geom.RectFromCorners(it.Start, g.World)
	r.bus.Emit(event.InteractionEnd, InteractionEndPayload{Kind: KindRegionDraw})

	// A sub-threshold flick draws nothing.
	if rect.W < clickThreshold && rect.H < clickThreshold {
		return
	}

	spec := area.Spec{Shape: it.Shape, Rect: rect}
	if it.Shape == area.ShapeCircle {
		center := rect.Center()
		spec.Circle = geom.Circle{CX: center.X, CY: center.Y, R: min(rect.W, rect.H) / 2}
	}
	created := r.areas.Create(spec)
	r.areaSel.Select(created.ID, false)
}

func (r *Router) finishLinkDrag(it *LinkDrag, g PointerGesture) {
	r.setActive(nil)
	defer func() {
		r.bus.Emit(event.InteractionEnd, InteractionEndPayload{Kind: KindLinkDrag})
		r.clearPreviews(KindLinkDrag)
	}()

	if target := r.engine.FindNodeAt(g.World, 0); target != nil {
		if target.ID != it.Source {
			r.linkSources(it.Source, target.ID, it.Associative)
		}
		return
	}
	r.createLinkedNode(it.Source, g.World, it.Associative)
}

// resolvePendingLink handles the click that resolves the sticky link
// mode: a node becomes the target, empty canvas creates the target.
func (r *Router) resolvePendingLink(lp *LinkPreview, g PointerGesture) {
	r.setActive(nil)
	defer r.clearPreviews(KindLinkPreview)

	switch g.Target {
	case TargetNode:
		target := graph.NodeID(g.TargetID)
		if target != lp.Source {
			r.linkSources(lp.Source, target, lp.Associative)
		}
	case TargetEmpty:
		r.createLinkedNode(lp.Source, g.World, lp.Associative)
	}
}

// linkSources links to the target from the armed source — and, when the
// source belongs to a multi-selection, from every other selected node
// too.
func (r *Router) linkSources(source, target graph.NodeID, associative bool) {
	sources := []graph.NodeID{source}
	if r.nodes.Has(source) && r.nodes.Count() > 1 {
		sources = r.nodes.IDs()
	}
	for _, s := range sources {
		if s == target {
			continue
		}
		if _, err := r.engine.AddEdge(s, target, edgeType(associative)); err != nil {
			r.log.Warnf("router: link %s->%s failed: %v", s, target, err)
		}
	}
}

// createLinkedNode is the drag-to-empty-space shortcut: a new node at a
// collision-free position near the drop point, immediately linked to the
// source.
func (r *Router) createLinkedNode(source graph.NodeID, drop geom.Point, associative bool) {
	pos := r.engine.FindFreePosition(drop, graph.TypeNode)
	n := r.engine.AddNode(graph.NodeSpec{Position: &pos})
	if _, err := r.engine.AddEdge(source, n.ID, edgeType(associative)); err != nil {
		r.log.Warnf("router: link to created node failed: %v", err)
		return
	}
	r.nodes.Select(n.ID, false)
}

func (r *Router) finishDrag(it *DragNodes, g PointerGesture) {
	r.setActive(nil)

	moved := g.Screen.Dist(it.StartScreen) >= clickThreshold
	if !moved {
		// Sub-threshold movement: this was a click. Put everything back
		// and treat it as selection.
		for _, id := range it.IDs {
			pos := it.Start[id]
			if _, err := r.engine.UpdateNode(id, graph.NodePatch{Position: &pos}); err != nil {
				r.log.Warnf("router: click restore failed for %s: %v", id, err)
			}
		}
		r.translateAreas(it, geom.Point{X: -it.AreaDelta.X, Y: -it.AreaDelta.Y})
		if it.PendingMulti {
			r.nodes.Toggle(it.ClickedID)
		} else {
			r.nodes.Select(it.ClickedID, false)
		}
		r.bus.Emit(event.InteractionEnd, InteractionEndPayload{
			Kind:  KindDragNodes,
			Start: it.Start,
			End:   it.Start,
		})
		return
	}

	delta := r.cam.ScreenDeltaToWorld(g.Screen.X-it.StartScreen.X, g.Screen.Y-it.StartScreen.Y)
	settings := r.state.Settings()

	// Final placement: snap first, then the engine's collision pass
	// resolves each node against static nodes and the batch siblings
	// already placed before it.
	end := make(map[graph.NodeID]geom.Point, len(it.IDs))
	for _, id := range it.IDs {
		pos := it.Start[id].Add(delta.X, delta.Y)
		if settings.GridSnap {
			pos = geom.SnapPoint(pos, settings.GridStep)
		}
		n, err := r.engine.UpdateNode(id, graph.NodePatch{Position: &pos})
		if err != nil {
			r.log.Warnf("router: drag settle failed for %s: %v", id, err)
			continue
		}
		end[id] = n.Position
	}

	// Areas already moved with the pointer; apply only the remainder.
	r.translateAreas(it, delta.Sub(it.AreaDelta))

	if it.PendingSelect {
		if it.PendingMulti {
			r.nodes.Toggle(it.ClickedID)
		} else {
			r.nodes.Select(it.ClickedID, false)
		}
	} else {
		r.nodes.RefreshBounds()
	}

	r.bus.Emit(event.InteractionEnd, InteractionEndPayload{
		Kind:  KindDragNodes,
		Start: it.Start,
		End:   end,
	})
}

// Cancel aborts the active interaction without mutating anything further;
// an in-flight drag is restored to its start positions.
func (r *Router) Cancel() {
	r.mu.Lock()
	active := r.active
	r.active = nil
	r.mu.Unlock()
	if active == nil {
		return
	}

	if drag, ok := active.(*DragNodes); ok {
		for _, id := range drag.IDs {
			pos := drag.Start[id]
			if _, err := r.engine.UpdateNode(id, graph.NodePatch{Position: &pos}); err != nil {
				r.log.Warnf("router: cancel restore failed for %s: %v", id, err)
			}
		}
		r.translateAreas(drag, geom.Point{X: -drag.AreaDelta.X, Y: -drag.AreaDelta.Y})
	}
	r.clearPreviews(active.Kind())
	r.bus.Emit(event.InteractionEnd, InteractionEndPayload{Kind: active.Kind(), Canceled: true})
}
