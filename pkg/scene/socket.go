package scene

import "slices"

// Socket is a typed connection point owned by exactly one node. It tracks
// the edges attached to it in connection order but never owns them: edge
// lifetime belongs to the scene, and a socket's edge list exists purely
// for traversal.
//
// An input socket with MultiEdges disabled holds at most one edge; edge
// construction enforces this by removing the prior edge before attaching
// a new one.
type Socket struct {
	id         ID
	node       *Node
	index      int
	pos        Position
	typ        SocketType
	supported  []SocketType
	isInput    bool
	multiEdges bool
	edges      []*Edge
}

func newSocket(n *Node, index int, pos Position, typ SocketType, supported []SocketType, isInput, multiEdges bool) *Socket {
	if len(supported) == 0 {
		supported = []SocketType{typ}
	}
	return &Socket{
		id:         n.scene.allocID(),
		node:       n,
		index:      index,
		pos:        pos,
		typ:        typ,
		supported:  slices.Clone(supported),
		isInput:    isInput,
		multiEdges: multiEdges,
	}
}

// ID returns the socket's scene-unique id.
func (s *Socket) ID() ID { return s.id }

// Node returns the owning node.
func (s *Socket) Node() *Node { return s.node }

// Index returns the socket's position among same-side siblings.
func (s *Socket) Index() int { return s.index }

// Position returns the relative placement on the node.
func (s *Socket) Position() Position { return s.pos }

// Type returns the primary semantic type tag.
func (s *Socket) Type() SocketType { return s.typ }

// SupportedTypes returns the set of types this socket accepts.
// For plain sockets this is a one-element set holding the primary type.
func (s *Socket) SupportedTypes() []SocketType { return slices.Clone(s.supported) }

// Supports reports whether the socket accepts the given type.
func (s *Socket) Supports(t SocketType) bool { return slices.Contains(s.supported, t) }

// IsInput reports whether this is an input socket.
func (s *Socket) IsInput() bool { return s.isInput }

// IsOutput reports whether this is an output socket.
func (s *Socket) IsOutput() bool { return !s.isInput }

// MultiEdges reports whether more than one edge may attach.
func (s *Socket) MultiEdges() bool { return s.multiEdges }

// Edges returns the attached edges in connection order.
func (s *Socket) Edges() []*Edge { return slices.Clone(s.edges) }

// EdgeCount returns the number of attached edges.
func (s *Socket) EdgeCount() int { return len(s.edges) }

// HasAnyEdge reports whether at least one edge is attached.
func (s *Socket) HasAnyEdge() bool { return len(s.edges) > 0 }

// IsConnected reports whether the given edge is attached to this socket.
func (s *Socket) IsConnected(e *Edge) bool { return slices.Contains(s.edges, e) }

// ScenePosition returns the socket's absolute position in the scene,
// derived from the owning node's geometry.
func (s *Socket) ScenePosition() Point {
	return s.node.socketScenePosition(s)
}

// connect appends the edge to this socket's edge list.
// The single-edge policy for non-multi sockets is enforced by edge
// construction, not here.
func (s *Socket) connect(e *Edge) {
	s.edges = append(s.edges, e)
}

// disconnect removes the edge from the list. No-op if absent.
func (s *Socket) disconnect(e *Edge) {
	s.edges = slices.DeleteFunc(s.edges, func(x *Edge) bool { return x == e })
}

// serialize emits the socket's persistent form.
func (s *Socket) serialize() SocketDoc {
	multi := s.multiEdges
	return SocketDoc{
		ID:             s.id,
		Index:          s.index,
		Position:       s.pos,
		SocketType:     s.typ,
		SupportedTypes: slices.Clone(s.supported),
		IsInput:        s.isInput,
		MultiEdges:     &multi,
	}
}

// applyDoc restores scalar fields from a socket record and registers the
// socket in the identity map under its document id. When restoreID is set
// the persisted id is adopted verbatim; otherwise the socket keeps its
// freshly allocated id while remaining reachable under the document id.
func (s *Socket) applyDoc(doc SocketDoc, m *IDMap, restoreID bool) {
	if restoreID {
		s.id = doc.ID
		s.node.scene.bumpID(doc.ID)
	}
	m.putSocket(doc.ID, s)

	s.pos = doc.Position
	s.typ = doc.SocketType
	if s.typ == 0 {
		s.typ = TypeNotDefined
	}
	if len(doc.SupportedTypes) > 0 {
		s.supported = slices.Clone(doc.SupportedTypes)
	} else {
		s.supported = []SocketType{s.typ}
	}
}
