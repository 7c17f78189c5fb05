package scene

// IDMap resolves persisted ids to the live objects reconstructed during a
// single deserialize pass. A fresh map must be threaded through every
// deserialize entry point; maps are never reused across unrelated loads,
// so cross-references (edge→socket→node) always land on the objects built
// in the same pass rather than stale ones.
//
// Keys are the ids as written in the document. When id restoration is
// disabled (clipboard paste), live objects receive fresh ids while the map
// still indexes them under their document ids, which is what makes
// internal cross-references survive the remap.
type IDMap struct {
	nodes   map[ID]*Node
	sockets map[ID]*Socket
	edges   map[ID]*Edge
}

// NewIDMap creates an empty identity map for one deserialize pass.
func NewIDMap() *IDMap {
	return &IDMap{
		nodes:   make(map[ID]*Node),
		sockets: make(map[ID]*Socket),
		edges:   make(map[ID]*Edge),
	}
}

func (m *IDMap) putNode(docID ID, n *Node)     { m.nodes[docID] = n }
func (m *IDMap) putSocket(docID ID, s *Socket) { m.sockets[docID] = s }
func (m *IDMap) putEdge(docID ID, e *Edge)     { m.edges[docID] = e }

// Node returns the live node registered under a document id.
func (m *IDMap) Node(docID ID) (*Node, bool) {
	n, ok := m.nodes[docID]
	return n, ok
}

// Socket returns the live socket registered under a document id.
func (m *IDMap) Socket(docID ID) (*Socket, bool) {
	s, ok := m.sockets[docID]
	return s, ok
}

// Edge returns the live edge registered under a document id.
func (m *IDMap) Edge(docID ID) (*Edge, bool) {
	e, ok := m.edges[docID]
	return e, ok
}
