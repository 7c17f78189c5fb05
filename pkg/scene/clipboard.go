package scene

// DefaultPasteOffset is the x/y shift applied by callers that paste
// without a target position, keeping pastes visually distinguishable from
// their source.
const DefaultPasteOffset = 24.0

// Clipboard serializes a selected sub-graph to a transferable document and
// reconstructs it with freshly allocated identities. It is the one place
// id restoration is deliberately disabled: pasted nodes must never collide
// with ids already present in the scene, while internal connectivity still
// survives through the per-paste identity map.
type Clipboard struct {
	scene *Scene
}

func newClipboard(s *Scene) *Clipboard {
	return &Clipboard{scene: s}
}

// Copy serializes the selected nodes plus only those edges whose both
// endpoints lie inside the selection; edges crossing the selection
// boundary are dropped rather than serialized dangling. With cut set, the
// selection is removed from the scene after serialization.
//
// Copy does not touch the history stack: callers bracket the cut (a
// mutation) with one history store after it completes.
func (c *Clipboard) Copy(selection []*Node, cut bool) (ClipboardDoc, error) {
	doc := ClipboardDoc{Nodes: []NodeDoc{}, Edges: []EdgeDoc{}}

	selected := make(map[ID]bool, len(selection))
	socketIDs := make(map[ID]bool)
	var nodes []*Node
	for _, n := range selection {
		if n == nil || selected[n.id] {
			continue
		}
		selected[n.id] = true
		nodes = append(nodes, n)
		for _, sock := range n.allSockets() {
			socketIDs[sock.id] = true
		}
	}

	for _, n := range nodes {
		nd, err := n.Serialize()
		if err != nil {
			return ClipboardDoc{}, err
		}
		doc.Nodes = append(doc.Nodes, nd)
	}

	seen := make(map[ID]bool)
	for _, n := range nodes {
		for _, sock := range n.allSockets() {
			for _, e := range sock.edges {
				if seen[e.id] {
					continue
				}
				seen[e.id] = true
				if socketIDs[e.start.id] && socketIDs[e.end.id] {
					doc.Edges = append(doc.Edges, e.serialize())
				}
			}
		}
	}

	if cut {
		for _, n := range nodes {
			n.Remove()
		}
		c.scene.SetModified(true)
	}

	return doc, nil
}

// Paste reconstructs a clipboard document into the scene with fresh ids,
// remapping internal cross-references through a fresh identity map and
// offsetting node positions by (dx, dy). Nodes of unregistered types and
// edges with dangling references are skipped with a prominent log entry.
// Returns the pasted nodes.
func (c *Clipboard) Paste(doc ClipboardDoc, dx, dy float64) ([]*Node, error) {
	s := c.scene
	m := NewIDMap()

	var pasted []*Node
	for _, nd := range doc.Nodes {
		typeName := nd.Type
		if typeName == "" {
			typeName = defaultNodeType
		}
		n, err := s.registry.Create(typeName, s)
		if err != nil {
			s.log().Error("skipping pasted node: type not registered", "type", typeName, "err", err)
			continue
		}
		if err := n.ApplyDoc(nd, m, false); err != nil {
			s.log().Error("skipping pasted node: restore failed", "type", typeName, "err", err)
			n.Remove()
			continue
		}
		n.SetPos(n.pos.X+dx, n.pos.Y+dy)
		pasted = append(pasted, n)
	}

	for _, ed := range doc.Edges {
		if _, err := restoreEdge(s, ed, m, false); err != nil {
			s.log().Warn("dropping pasted edge", "err", err)
		}
	}

	if len(pasted) > 0 {
		s.SetModified(true)
	}
	return pasted, nil
}
