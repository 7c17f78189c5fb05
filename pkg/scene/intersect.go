package scene

// EdgeIntersect splices a dropped node into an existing edge. When a
// dragged node is released over an edge, the edge is removed and replaced
// by two new edges of the same type routed through the dropped node's
// first input and first output.
//
// The splice is deliberately not atomic: each new edge is validated
// independently, and if one of them is rejected the graph keeps the old
// edge gone and only the accepted edge present. The result is always a
// consistent graph, just not necessarily the intended one.
type EdgeIntersect struct {
	scene *Scene
}

// NewEdgeIntersect creates the drop-to-splice engine for a scene.
func NewEdgeIntersect(s *Scene) *EdgeIntersect {
	return &EdgeIntersect{scene: s}
}

// Intersect returns the first edge whose segment crosses the rectangle,
// skipping edges already connected to the dragged node. Remaining
// candidates are ignored: first match wins, an accepted simplicity
// trade-off. Returns nil when nothing is hit.
func (ei *EdgeIntersect) Intersect(box Rect, dragged *Node) *Edge {
	for _, e := range ei.scene.Edges() {
		if dragged != nil && dragged.HasConnectedEdge(e) {
			continue
		}
		if box.IntersectsSegment(e.start.ScenePosition(), e.end.ScenePosition()) {
			return e
		}
	}
	return nil
}

// DropNode handles releasing a dragged node at its current position.
// If the node's hit-box overlaps an existing edge and the node is free to
// be spliced in, the edge is replaced by two new edges through the node.
// Returns true when a splice happened.
//
// A node is not spliceable when it is already connected, or when it lacks
// inputs or outputs entirely.
func (ei *EdgeIntersect) DropNode(node *Node) bool {
	edge := ei.Intersect(node.HitBox(), node)
	if edge == nil {
		return false
	}
	if !ei.spliceable(node) {
		return false
	}

	// Orient the cut ends: original output feeds the dropped node's first
	// input, its first output feeds the original input.
	socketStart := edge.start
	socketEnd := edge.end
	if !edge.start.IsOutput() {
		socketStart, socketEnd = edge.end, edge.start
	}

	edgeType := edge.edgeType
	edge.Remove()
	if err := ei.scene.History().Store("Delete existing edge", true); err != nil {
		ei.scene.log().Error("store history", "err", err)
	}

	if _, err := NewEdge(ei.scene, socketStart, node.Input(0), edgeType); err != nil {
		ei.scene.log().Warn("splice: incoming edge rejected", "err", err)
	}
	if _, err := NewEdge(ei.scene, node.Output(0), socketEnd, edgeType); err != nil {
		ei.scene.log().Warn("splice: outgoing edge rejected", "err", err)
	}

	if err := ei.scene.History().Store("Created new edges by dropping node", true); err != nil {
		ei.scene.log().Error("store history", "err", err)
	}
	return true
}

// spliceable reports whether the node can be inserted into an edge: it
// needs at least one input and one output and no existing connection.
func (ei *EdgeIntersect) spliceable(node *Node) bool {
	if len(node.inputs) == 0 || len(node.outputs) == 0 {
		return false
	}
	return !node.HasAnyConnection()
}
