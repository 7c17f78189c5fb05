// Package scene implements the node-graph editor core: the socket/edge/node
// data model, the connection validator pipeline, scene-level identity and
// JSON serialization, the bounded undo/redo history, the clipboard, and the
// drop-to-splice edge-intersect engine.
//
// The model is single-threaded by design: all graph mutations happen
// synchronously on one interaction goroutine. Callers exposing a scene
// across goroutines must serialize access around one logical mutation.
package scene

import (
	"slices"
	"sort"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/nodecanvas/pkg/errors"
)

// Scene owns every node reachable from it, assigns integer identities,
// mediates add/remove, and is the unit of serialization. There is no
// separate authoritative edge list: edges are discovered transitively by
// walking node sockets, which is exactly what Edges does.
//
// The zero value is not usable - use New.
type Scene struct {
	id    ID
	title string

	nodes     []*Node
	nodeIndex map[ID]*Node

	pipeline   *Pipeline
	registry   *Registry
	history    *History
	clipboard  *Clipboard
	appearance Appearance
	logger     *log.Logger

	nextID   ID
	modified bool

	modifiedListeners []func(modified bool)
}

// New creates an empty scene with the default validator pipeline, an empty
// node-type registry (plus the plain node type) and a history stack seeded
// with the empty state as its undo floor.
func New() *Scene {
	s := &Scene{
		nodeIndex:  make(map[ID]*Node),
		pipeline:   DefaultPipeline(),
		registry:   NewRegistry(),
		appearance: DefaultAppearance(),
	}
	s.id = s.allocID()
	s.history = newHistory(s, DefaultHistoryLimit)
	s.clipboard = newClipboard(s)
	s.history.StoreInitialStamp()
	return s
}

// ID returns the scene's id.
func (s *Scene) ID() ID { return s.id }

// Title returns the scene title.
func (s *Scene) Title() string { return s.title }

// SetTitle sets the scene title.
func (s *Scene) SetTitle(title string) { s.title = title }

// Pipeline returns the validator pipeline gating edge creation.
func (s *Scene) Pipeline() *Pipeline { return s.pipeline }

// SetPipeline replaces the validator pipeline. Intended for startup
// configuration; swapping pipelines mid-session does not re-validate
// existing edges.
func (s *Scene) SetPipeline(p *Pipeline) { s.pipeline = p }

// Registry returns the node-type registry used during deserialization.
func (s *Scene) Registry() *Registry { return s.registry }

// History returns the undo/redo stack.
func (s *Scene) History() *History { return s.history }

// Clipboard returns the copy/paste engine.
func (s *Scene) Clipboard() *Clipboard { return s.clipboard }

// Appearance returns the display-only color tables.
func (s *Scene) Appearance() Appearance { return s.appearance }

// SetAppearance replaces the display-only color tables.
func (s *Scene) SetAppearance(a Appearance) { s.appearance = a }

// SetLogger attaches a logger used for load-time skip warnings.
func (s *Scene) SetLogger(l *log.Logger) { s.logger = l }

func (s *Scene) log() *log.Logger {
	if s.logger != nil {
		return s.logger
	}
	return log.Default()
}

// allocID hands out the next monotonic identity. Nodes, sockets and edges
// share one allocator, so every id is unique within the scene.
func (s *Scene) allocID() ID {
	s.nextID++
	return s.nextID
}

// bumpID advances the allocator past a restored id so later allocations
// never collide with ids loaded verbatim from a document.
func (s *Scene) bumpID(id ID) {
	if id > s.nextID {
		s.nextID = id
	}
}

// CreateNode constructs a node of the named registry type.
func (s *Scene) CreateNode(typeName string) (*Node, error) {
	return s.registry.Create(typeName, s)
}

// addNode registers a freshly constructed node. Called by NewNode.
func (s *Scene) addNode(n *Node) {
	s.nodes = append(s.nodes, n)
	s.nodeIndex[n.id] = n
}

// reindexNode moves a node's registry entry after its id was restored
// from a document. Without this the node would stay filed under the id
// it was allocated at construction.
func (s *Scene) reindexNode(oldID ID, n *Node) {
	delete(s.nodeIndex, oldID)
	s.nodeIndex[n.id] = n
}

// removeNode detaches a node from the registry. Only called by
// Node.Remove after the node has removed its own edges; removing a node
// that still holds edges would leave danglers.
func (s *Scene) removeNode(n *Node) {
	s.nodes = slices.DeleteFunc(s.nodes, func(x *Node) bool { return x == n })
	delete(s.nodeIndex, n.id)
}

// Nodes returns the nodes in insertion order.
func (s *Scene) Nodes() []*Node { return slices.Clone(s.nodes) }

// Node returns the node with the given id and true, or nil and false.
func (s *Scene) Node(id ID) (*Node, bool) {
	n, ok := s.nodeIndex[id]
	return n, ok
}

// NodeCount returns the number of nodes in the scene.
func (s *Scene) NodeCount() int { return len(s.nodes) }

// Edges returns every edge in the scene, discovered by walking each
// node's sockets and deduplicated by id. The result is sorted by id so
// output is deterministic.
func (s *Scene) Edges() []*Edge {
	seen := make(map[ID]*Edge)
	for _, n := range s.nodes {
		for _, sock := range n.allSockets() {
			for _, e := range sock.edges {
				seen[e.id] = e
			}
		}
	}
	edges := make([]*Edge, 0, len(seen))
	for _, e := range seen {
		edges = append(edges, e)
	}
	sort.Slice(edges, func(i, j int) bool { return edges[i].id < edges[j].id })
	return edges
}

// EdgeCount returns the number of distinct edges in the scene.
func (s *Scene) EdgeCount() int { return len(s.Edges()) }

// Clear removes every node (cascading edge removal), resets the
// modification flag and resets the id allocator.
func (s *Scene) Clear() {
	for _, n := range s.Nodes() {
		n.Remove()
	}
	s.nextID = s.id
	s.SetModified(false)
}

// IsModified reports whether the scene changed since the last save/load.
func (s *Scene) IsModified() bool { return s.modified }

// SetModified sets the modification flag and notifies listeners on every
// transition.
func (s *Scene) SetModified(v bool) {
	if s.modified == v {
		return
	}
	s.modified = v
	for _, fn := range s.modifiedListeners {
		fn(v)
	}
}

// AddModifiedListener registers a callback fired whenever the
// modification flag flips.
func (s *Scene) AddModifiedListener(fn func(modified bool)) {
	s.modifiedListeners = append(s.modifiedListeners, fn)
}

// ============================================================================
// Serialization
// ============================================================================

// Serialize emits the scene's canonical document: every node in insertion
// order, plus the edge records collected by walking the sockets.
func (s *Scene) Serialize() (SceneDoc, error) {
	doc := SceneDoc{
		ID:         s.id,
		Title:      s.title,
		Nodes:      []NodeDoc{},
		Edges:      []EdgeDoc{},
		Appearance: s.appearance,
	}
	for _, n := range s.nodes {
		nd, err := n.Serialize()
		if err != nil {
			return SceneDoc{}, err
		}
		doc.Nodes = append(doc.Nodes, nd)
	}
	for _, e := range s.Edges() {
		doc.Edges = append(doc.Edges, e.serialize())
	}
	return doc, nil
}

// Deserialize rebuilds the scene from a document in two phases: first
// every node is instantiated through the registry (so all socket ids are
// resolvable), then the edge records are resolved through the identity
// map. The scene is cleared up front, so a best-effort load never mixes
// with prior content.
//
// Per-node and per-edge failures are recoverable: an unknown node type or
// a dangling edge reference is logged prominently and skipped, so one bad
// record does not discard the whole graph.
//
// The identity map must be fresh for this call; passing nil constructs
// one. Set restoreID to readopt the persisted ids (scene/history load);
// the clipboard is the one caller that keeps it off.
func (s *Scene) Deserialize(doc SceneDoc, m *IDMap, restoreID bool) error {
	if m == nil {
		m = NewIDMap()
	}

	s.Clear()

	if restoreID && doc.ID != 0 {
		s.id = doc.ID
		s.bumpID(doc.ID)
	}
	s.title = doc.Title
	if len(doc.Appearance.TypeColors) > 0 || doc.Appearance.EdgeColor != "" {
		s.appearance = doc.Appearance
	}

	for _, nd := range doc.Nodes {
		typeName := nd.Type
		if typeName == "" {
			typeName = defaultNodeType
		}
		n, err := s.registry.Create(typeName, s)
		if err != nil {
			s.log().Error("skipping node: type not registered", "type", typeName, "node_id", nd.ID, "err", err)
			continue
		}
		if err := n.ApplyDoc(nd, m, restoreID); err != nil {
			s.log().Error("skipping node: restore failed", "type", typeName, "node_id", nd.ID, "err", err)
			n.Remove()
			continue
		}
	}

	for _, ed := range doc.Edges {
		if _, err := restoreEdge(s, ed, m, restoreID); err != nil {
			s.log().Warn("dropping edge", "edge_id", ed.ID, "err", err)
		}
	}

	s.SetModified(false)
	return nil
}

// SaveToFile serializes the scene to a JSON file and clears the
// modification flag.
func (s *Scene) SaveToFile(path string) error {
	doc, err := s.Serialize()
	if err != nil {
		return err
	}
	if err := WriteSceneFile(doc, path); err != nil {
		return err
	}
	s.SetModified(false)
	return nil
}

// LoadFromFile reads a scene file and rebuilds the scene from it, then
// seeds the history stack with the loaded state as the new undo floor.
// On a read error (missing file, malformed document), the in-memory scene
// is left untouched.
func (s *Scene) LoadFromFile(path string) error {
	doc, err := ReadSceneFile(path)
	if err != nil {
		return err
	}
	if err := s.Deserialize(doc, NewIDMap(), true); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidFile, err, "load %s", path)
	}
	s.history.StoreInitialStamp()
	return nil
}
