package scene

import (
	"fmt"

	"github.com/matzehuels/nodecanvas/pkg/errors"
)

// edgeState tracks the edge lifecycle:
// unconnected → pending validation → connected → removed (terminal).
type edgeState int

const (
	edgePending edgeState = iota
	edgeConnected
	edgeRemoved
)

// Edge is a validated connection between exactly two sockets of opposite
// direction. The scene owns an edge's lifetime; the endpoint sockets hold
// back-references for traversal only.
//
// Edges are created with [NewEdge], which registers the candidate into
// both sockets tentatively, runs the scene's validator pipeline, and
// either promotes the edge to connected or fully unregisters it. A
// rejected candidate is never left partially attached.
type Edge struct {
	id       ID
	scene    *Scene
	start    *Socket
	end      *Socket
	edgeType EdgeType
	state    edgeState
}

// NewEdge creates an edge between two sockets, gated by the scene's
// validator pipeline. On rejection it returns an EDGE_REJECTED error and
// neither socket's edge list is changed. Rejection is a normal control
// flow outcome, not a fault: callers typically drop the attempt silently
// or surface a status message.
//
// When an endpoint has MultiEdges disabled, its previously attached edges
// are removed once the candidate passes validation.
func NewEdge(s *Scene, start, end *Socket, edgeType EdgeType) (*Edge, error) {
	if s == nil || start == nil || end == nil {
		return nil, errors.New(errors.ErrCodeInvalidInput, "edge requires a scene and two sockets")
	}

	e := &Edge{
		id:       s.allocID(),
		scene:    s,
		start:    start,
		end:      end,
		edgeType: edgeType,
		state:    edgePending,
	}

	// Tentative attach so validators can inspect a fully-wired candidate.
	start.connect(e)
	end.connect(e)

	if !s.Pipeline().Validate(e) {
		start.disconnect(e)
		end.disconnect(e)
		e.state = edgeRemoved
		return nil, errors.New(errors.ErrCodeEdgeRejected,
			"connection %s → %s rejected by validator pipeline", start.Type(), end.Type())
	}

	// Single-edge policy: drop prior edges on non-multi endpoints.
	for _, sock := range [2]*Socket{start, end} {
		if sock.multiEdges {
			continue
		}
		for _, prior := range sock.Edges() {
			if prior != e {
				prior.Remove()
			}
		}
	}

	e.state = edgeConnected
	start.node.onEdgeConnectionChanged(e)
	end.node.onEdgeConnectionChanged(e)
	e.notifySocketChanged(start)
	e.notifySocketChanged(end)
	return e, nil
}

// restoreEdge rebuilds an edge from its persisted record, resolving both
// endpoints through the identity map. The validator pipeline is not
// re-run: the edge was valid when saved, and loading must not silently
// mutate documents under a stricter rule set.
func restoreEdge(s *Scene, doc EdgeDoc, m *IDMap, restoreID bool) (*Edge, error) {
	start, okStart := m.Socket(doc.StartSocketID)
	end, okEnd := m.Socket(doc.EndSocketID)
	if !okStart || !okEnd {
		return nil, errors.New(errors.ErrCodeDanglingReference,
			"edge %d references missing socket (start=%d end=%d)", doc.ID, doc.StartSocketID, doc.EndSocketID)
	}

	e := &Edge{
		id:       s.allocID(),
		scene:    s,
		start:    start,
		end:      end,
		edgeType: doc.EdgeType,
		state:    edgeConnected,
	}
	if e.edgeType == 0 {
		e.edgeType = EdgeTypeDirect
	}
	if restoreID {
		e.id = doc.ID
		s.bumpID(doc.ID)
	}
	m.putEdge(doc.ID, e)

	start.connect(e)
	end.connect(e)
	return e, nil
}

// ID returns the edge's scene-unique id.
func (e *Edge) ID() ID { return e.id }

// Start returns the first endpoint as passed to NewEdge.
func (e *Edge) Start() *Socket { return e.start }

// End returns the second endpoint as passed to NewEdge.
func (e *Edge) End() *Socket { return e.end }

// EdgeType returns the visual routing style.
func (e *Edge) EdgeType() EdgeType { return e.edgeType }

// SetEdgeType changes the visual routing style.
func (e *Edge) SetEdgeType(t EdgeType) { e.edgeType = t }

// Connected reports whether the edge is live.
func (e *Edge) Connected() bool { return e.state == edgeConnected }

// OutputSocket returns whichever endpoint is an output, or nil when the
// edge joins two same-direction sockets (possible only for candidates
// built under a pipeline without the direction rule).
func (e *Edge) OutputSocket() *Socket {
	switch {
	case e.start.IsOutput():
		return e.start
	case e.end.IsOutput():
		return e.end
	default:
		return nil
	}
}

// InputSocket returns whichever endpoint is an input, or nil.
func (e *Edge) InputSocket() *Socket {
	switch {
	case e.start.isInput:
		return e.start
	case e.end.isInput:
		return e.end
	default:
		return nil
	}
}

// GetOtherSocket returns the endpoint that is not the supplied socket.
// Calling it with a socket that is neither endpoint is a programmer error
// and panics: it indicates a breach of the socket/edge consistency
// invariant, not recoverable user input.
func (e *Edge) GetOtherSocket(known *Socket) *Socket {
	switch known {
	case e.start:
		return e.end
	case e.end:
		return e.start
	default:
		panic(fmt.Sprintf("scene: socket %d is not an endpoint of edge %d", known.id, e.id))
	}
}

// Remove detaches the edge from both sockets, notifies the affected nodes
// and marks the edge unusable. Repeated calls are no-ops, which keeps
// explicit deletes safe against cascading scene clears.
func (e *Edge) Remove() {
	if e.state == edgeRemoved {
		return
	}
	e.state = edgeRemoved

	start, end := e.start, e.end
	start.disconnect(e)
	end.disconnect(e)

	e.notifySocketChanged(start)
	e.notifySocketChanged(end)
}

// notifySocketChanged routes the change notification to the owning node's
// input- or output-changed handler depending on socket direction.
func (e *Edge) notifySocketChanged(s *Socket) {
	if s.isInput {
		s.node.onInputChanged(s)
	} else {
		s.node.onOutputChanged(s)
	}
}

// serialize emits the edge's persistent form: enough to re-resolve both
// endpoints through the identity map on load.
func (e *Edge) serialize() EdgeDoc {
	return EdgeDoc{
		ID:            e.id,
		EdgeType:      e.edgeType,
		StartSocketID: e.start.id,
		EndSocketID:   e.end.id,
	}
}
