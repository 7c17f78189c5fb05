package scene

import (
	"encoding/json"
	"slices"
	"sort"

	"github.com/matzehuels/nodecanvas/pkg/errors"
)

// Geometry defaults, in scene units. These mirror the node card dimensions
// used by the rendering layer and only matter to the core through the
// edge-intersect hit-box and socket scene positions.
const (
	defaultNodeWidth  = 180.0
	defaultNodeHeight = 240.0

	socketSpacing     = 26.0
	socketVertPadding = 24.0
)

// Content is the opaque payload carried by a node: any value the
// surrounding application wants serialized inside the node document.
// The core never interprets it beyond round-tripping its serialized form.
type Content interface {
	// Serialize emits the payload as a JSON sub-document.
	Serialize() (json.RawMessage, error)
	// Deserialize restores the payload from a JSON sub-document produced
	// by Serialize. The identity map of the enclosing load is supplied so
	// payloads may resolve references to scene objects.
	Deserialize(data json.RawMessage, m *IDMap) error
}

// Settings configures socket placement and multi-edge policy for a node.
// The zero value is not usable; start from DefaultSettings.
type Settings struct {
	InputPosition    Position
	OutputPosition   Position
	InputMultiEdges  bool
	OutputMultiEdges bool
}

// DefaultSettings returns the stock node configuration: inputs stacked
// from the top left holding a single edge each, outputs stacked from the
// bottom right accepting any number of edges.
func DefaultSettings() Settings {
	return Settings{
		InputPosition:    LeftTop,
		OutputPosition:   RightBottom,
		InputMultiEdges:  false,
		OutputMultiEdges: true,
	}
}

// Node is an entity in a scene with ordered input and output socket lists,
// a free-form content payload, and dirty/invalid evaluation flags.
//
// A node owns its sockets: they are created and destroyed with it. The
// exported On* function fields are optional extension points consumed by
// concrete node types; all of them may be left nil.
type Node struct {
	id       ID
	scene    *Scene
	typeName string
	title    string

	pos      Point
	width    float64
	height   float64
	scale    float64
	rotation float64
	locked   bool
	hidden   bool

	inputs      []*Socket
	outputs     []*Socket
	inputValues []any
	content     Content

	settings Settings

	dirty   bool
	invalid bool
	removed bool

	// OnEdgeConnectionChanged fires after an edge touching this node is
	// accepted by the validator pipeline.
	OnEdgeConnectionChanged func(e *Edge)
	// OnInputChanged fires after an input socket gains or loses an edge.
	// The core marks the node dirty before invoking it.
	OnInputChanged func(s *Socket)
	// OnOutputChanged fires after an output socket gains or loses an edge.
	OnOutputChanged func(s *Socket)
	// OnMarkedDirty fires when the dirty flag transitions to true.
	OnMarkedDirty func()
	// OnMarkedInvalid fires when the invalid flag transitions to true.
	OnMarkedInvalid func()
	// OnDeserialized fires after the node finished restoring from a
	// document, with the raw record for type-specific extras.
	OnDeserialized func(doc NodeDoc)
	// OnReceive fires after data has been latched into an input slot.
	OnReceive func(data any, inputIndex int)
}

// NewNode creates a node with default settings and registers it with the
// scene immediately. Each entry of inputs and outputs declares one socket:
// the slice lists the acceptable types, the first being the primary type.
// New nodes start dirty.
func NewNode(s *Scene, title string, inputs, outputs [][]SocketType) *Node {
	return NewNodeWithSettings(s, DefaultSettings(), title, inputs, outputs)
}

// NewNodeWithSettings creates a node with explicit socket placement and
// multi-edge policy.
func NewNodeWithSettings(s *Scene, settings Settings, title string, inputs, outputs [][]SocketType) *Node {
	n := &Node{
		id:       s.allocID(),
		scene:    s,
		typeName: defaultNodeType,
		title:    title,
		width:    defaultNodeWidth,
		height:   defaultNodeHeight,
		scale:    1,
		settings: settings,
	}
	s.addNode(n)
	n.initSockets(inputs, outputs, false)
	n.MarkDirty(true)
	return n
}

// initSockets builds the socket lists from declared type lists. With reset
// set, the previous sockets are discarded after every edge tied to them
// has been removed; leaving stale edges behind would violate the
// socket/edge consistency invariant.
func (n *Node) initSockets(inputs, outputs [][]SocketType, reset bool) {
	if reset {
		for _, sock := range n.allSockets() {
			for _, e := range sock.Edges() {
				e.Remove()
			}
		}
		n.inputs = nil
		n.outputs = nil
		n.inputValues = nil
	}

	for i, types := range inputs {
		primary := TypeNotDefined
		if len(types) > 0 {
			primary = types[0]
		}
		sock := newSocket(n, i, n.settings.InputPosition, primary, types, true, n.settings.InputMultiEdges)
		n.inputs = append(n.inputs, sock)
		n.inputValues = append(n.inputValues, nil)
	}
	for i, types := range outputs {
		primary := TypeNotDefined
		if len(types) > 0 {
			primary = types[0]
		}
		sock := newSocket(n, i, n.settings.OutputPosition, primary, types, false, n.settings.OutputMultiEdges)
		n.outputs = append(n.outputs, sock)
	}
}

// RebuildSockets replaces the node's socket lists with freshly declared
// ones, removing all edges attached to the old sockets first.
func (n *Node) RebuildSockets(inputs, outputs [][]SocketType) {
	n.initSockets(inputs, outputs, true)
}

// ID returns the node's scene-unique id.
func (n *Node) ID() ID { return n.id }

// Scene returns the owning scene, or nil after removal.
func (n *Node) Scene() *Scene { return n.scene }

// TypeName returns the registry key stored in documents for this node.
func (n *Node) TypeName() string { return n.typeName }

// SetTypeName sets the registry key stored in documents for this node.
func (n *Node) SetTypeName(name string) { n.typeName = name }

// Title returns the display title.
func (n *Node) Title() string { return n.title }

// SetTitle sets the display title.
func (n *Node) SetTitle(title string) { n.title = title }

// Pos returns the node position in scene coordinates.
func (n *Node) Pos() Point { return n.pos }

// SetPos moves the node in scene coordinates.
func (n *Node) SetPos(x, y float64) { n.pos = Point{X: x, Y: y} }

// Size returns the unscaled width and height.
func (n *Node) Size() (w, h float64) { return n.width, n.height }

// SetSize resizes the node.
func (n *Node) SetSize(w, h float64) { n.width, n.height = w, h }

// Scale returns the display scale factor.
func (n *Node) Scale() float64 { return n.scale }

// SetScale sets the display scale factor.
func (n *Node) SetScale(f float64) { n.scale = f }

// Rotation returns the display rotation in degrees.
func (n *Node) Rotation() float64 { return n.rotation }

// SetRotation sets the display rotation in degrees.
func (n *Node) SetRotation(deg float64) { n.rotation = deg }

// Locked reports whether the node is locked against editing.
func (n *Node) Locked() bool { return n.locked }

// SetLocked locks or unlocks the node.
func (n *Node) SetLocked(v bool) { n.locked = v }

// Hidden reports whether the node is collapsed in the display.
func (n *Node) Hidden() bool { return n.hidden }

// SetHidden collapses or expands the node in the display.
func (n *Node) SetHidden(v bool) { n.hidden = v }

// Content returns the opaque payload, which may be nil.
func (n *Node) Content() Content { return n.content }

// SetContent attaches an opaque payload.
func (n *Node) SetContent(c Content) { n.content = c }

// Inputs returns the ordered input sockets.
func (n *Node) Inputs() []*Socket { return slices.Clone(n.inputs) }

// Outputs returns the ordered output sockets.
func (n *Node) Outputs() []*Socket { return slices.Clone(n.outputs) }

// Input returns the input socket at index, or nil when out of range.
func (n *Node) Input(index int) *Socket {
	if index < 0 || index >= len(n.inputs) {
		return nil
	}
	return n.inputs[index]
}

// Output returns the output socket at index, or nil when out of range.
func (n *Node) Output(index int) *Socket {
	if index < 0 || index >= len(n.outputs) {
		return nil
	}
	return n.outputs[index]
}

// InputValue returns the data last latched into the given input slot, or
// nil when out of range or nothing was received.
func (n *Node) InputValue(index int) any {
	if index < 0 || index >= len(n.inputValues) {
		return nil
	}
	return n.inputValues[index]
}

func (n *Node) allSockets() []*Socket {
	all := make([]*Socket, 0, len(n.inputs)+len(n.outputs))
	all = append(all, n.inputs...)
	all = append(all, n.outputs...)
	return all
}

// HasConnectedEdge reports whether the edge is attached to any of this
// node's sockets.
func (n *Node) HasConnectedEdge(e *Edge) bool {
	for _, sock := range n.allSockets() {
		if sock.IsConnected(e) {
			return true
		}
	}
	return false
}

// HasAnyConnection reports whether any socket holds at least one edge.
func (n *Node) HasAnyConnection() bool {
	for _, sock := range n.allSockets() {
		if sock.HasAnyEdge() {
			return true
		}
	}
	return false
}

// Remove safely deletes the node: it removes every incident edge, releases
// the content payload and detaches the node from the scene, in that order.
// After Remove the node is unusable. Repeated calls are no-ops so explicit
// deletes and cascading scene clears can overlap safely.
func (n *Node) Remove() {
	if n.removed {
		return
	}
	n.removed = true

	for _, sock := range n.allSockets() {
		for _, e := range sock.Edges() {
			e.Remove()
		}
	}
	n.content = nil
	n.scene.removeNode(n)
	n.scene = nil
}

// Removed reports whether the node has been deleted from its scene.
func (n *Node) Removed() bool { return n.removed }

// ============================================================================
// Dirty / invalid marking
// ============================================================================

// IsDirty reports whether the node is marked for re-evaluation.
func (n *Node) IsDirty() bool { return n.dirty }

// MarkDirty sets the dirty flag. This is a marking only: no scheduler in
// the core consumes it.
func (n *Node) MarkDirty(v bool) {
	n.dirty = v
	if v && n.OnMarkedDirty != nil {
		n.OnMarkedDirty()
	}
}

// MarkChildrenDirty marks the first-level downstream nodes.
func (n *Node) MarkChildrenDirty(v bool) {
	for _, child := range n.ChildrenNodes() {
		child.MarkDirty(v)
	}
}

// MarkDescendantsDirty marks every node reachable through output edges.
// The walk tracks visited ids, so cyclic graphs terminate.
func (n *Node) MarkDescendantsDirty(v bool) {
	visited := map[ID]bool{n.id: true}
	n.walkDescendants(visited, func(d *Node) { d.MarkDirty(v) })
}

// IsInvalid reports whether the node's last evaluation failed.
func (n *Node) IsInvalid() bool { return n.invalid }

// MarkInvalid sets the invalid flag.
func (n *Node) MarkInvalid(v bool) {
	n.invalid = v
	if v && n.OnMarkedInvalid != nil {
		n.OnMarkedInvalid()
	}
}

// MarkChildrenInvalid marks the first-level downstream nodes.
func (n *Node) MarkChildrenInvalid(v bool) {
	for _, child := range n.ChildrenNodes() {
		child.MarkInvalid(v)
	}
}

// MarkDescendantsInvalid marks every node reachable through output edges,
// with the same cycle guard as MarkDescendantsDirty.
func (n *Node) MarkDescendantsInvalid(v bool) {
	visited := map[ID]bool{n.id: true}
	n.walkDescendants(visited, func(d *Node) { d.MarkInvalid(v) })
}

func (n *Node) walkDescendants(visited map[ID]bool, fn func(*Node)) {
	for _, child := range n.ChildrenNodes() {
		if visited[child.id] {
			continue
		}
		visited[child.id] = true
		fn(child)
		child.walkDescendants(visited, fn)
	}
}

// ============================================================================
// Traversal
// ============================================================================

// ChildrenNodes returns all first-level nodes connected to this node's
// outputs. Nodes connected through several edges appear once per edge.
func (n *Node) ChildrenNodes() []*Node {
	var children []*Node
	for _, out := range n.outputs {
		for _, e := range out.edges {
			children = append(children, e.GetOtherSocket(out).node)
		}
	}
	return children
}

// GetInput returns the first node connected to the input at index, or nil
// when the index is out of range or no edge is attached. "No connection"
// is never an error.
func (n *Node) GetInput(index int) *Node {
	node, _ := n.GetInputWithSocket(index)
	return node
}

// GetInputWithSocket returns the first node connected to the input at
// index together with the socket on the far side, or nils.
func (n *Node) GetInputWithSocket(index int) (*Node, *Socket) {
	in := n.Input(index)
	if in == nil || len(in.edges) == 0 {
		return nil, nil
	}
	other := in.edges[0].GetOtherSocket(in)
	return other.node, other
}

// GetInputs returns all nodes connected to the input at index.
func (n *Node) GetInputs(index int) []*Node {
	in := n.Input(index)
	if in == nil {
		return nil
	}
	var nodes []*Node
	for _, e := range in.edges {
		nodes = append(nodes, e.GetOtherSocket(in).node)
	}
	return nodes
}

// GetOutputs returns all nodes connected to the output at index.
func (n *Node) GetOutputs(index int) []*Node {
	out := n.Output(index)
	if out == nil {
		return nil
	}
	var nodes []*Node
	for _, e := range out.edges {
		nodes = append(nodes, e.GetOtherSocket(out).node)
	}
	return nodes
}

// Target is a downstream delivery point: a node and the index of the
// input socket an edge arrives at.
type Target struct {
	Node       *Node
	InputIndex int
}

// ChildrenNodesAndSockets returns the delivery points reachable from the
// output at index, or from all outputs when index is negative.
func (n *Node) ChildrenNodesAndSockets(index int) []Target {
	var targets []Target
	collect := func(out *Socket) {
		for _, e := range out.edges {
			other := e.GetOtherSocket(out)
			targets = append(targets, Target{Node: other.node, InputIndex: other.index})
		}
	}
	if index < 0 {
		for _, out := range n.outputs {
			collect(out)
		}
	} else if out := n.Output(index); out != nil {
		collect(out)
	}
	return targets
}

// ============================================================================
// Dataflow
// ============================================================================

// SendFromOutput delivers data to every node connected to the output at
// index, or to all outputs when index is negative. Delivery is push-based,
// synchronous and re-entrant: a receiving node may immediately re-send.
func (n *Node) SendFromOutput(data any, index int) {
	for _, t := range n.ChildrenNodesAndSockets(index) {
		t.Node.Receive(data, t.InputIndex)
	}
}

// Receive latches data into the input slot at index, overwriting the
// previous value (fan-in latch, not a queue), then fires OnReceive.
// Out-of-range indexes are ignored.
func (n *Node) Receive(data any, inputIndex int) {
	if inputIndex < 0 || inputIndex >= len(n.inputValues) {
		return
	}
	n.inputValues[inputIndex] = data
	if n.OnReceive != nil {
		n.OnReceive(data, inputIndex)
	}
}

// ============================================================================
// Change notifications (called by Edge)
// ============================================================================

func (n *Node) onEdgeConnectionChanged(e *Edge) {
	if n.OnEdgeConnectionChanged != nil {
		n.OnEdgeConnectionChanged(e)
	}
}

func (n *Node) onInputChanged(s *Socket) {
	n.MarkDirty(true)
	n.MarkDescendantsDirty(true)
	if n.OnInputChanged != nil {
		n.OnInputChanged(s)
	}
}

func (n *Node) onOutputChanged(s *Socket) {
	if n.OnOutputChanged != nil {
		n.OnOutputChanged(s)
	}
}

// ============================================================================
// Geometry
// ============================================================================

// HitBox returns the node's scaled bounding rectangle in scene
// coordinates, used by the edge-intersect engine on drop.
func (n *Node) HitBox() Rect {
	return Rect{X: n.pos.X, Y: n.pos.Y, W: n.width * n.scale, H: n.height * n.scale}
}

// socketScenePosition computes a socket's absolute scene position from the
// node's geometry, the socket's placement constant and its index.
func (n *Node) socketScenePosition(s *Socket) Point {
	count := len(n.outputs)
	if s.isInput {
		count = len(n.inputs)
	}

	var relX float64
	if !s.pos.IsLeft() {
		relX = n.width
	}

	var relY float64
	switch s.pos {
	case LeftTop, RightTop:
		relY = socketVertPadding + float64(s.index)*socketSpacing
	case LeftBottom, RightBottom:
		relY = n.height - socketVertPadding - float64(s.index)*socketSpacing
	case LeftCenter, RightCenter:
		relY = n.height/2 + (float64(s.index)-float64(count-1)/2)*socketSpacing
	}

	return Point{
		X: n.pos.X + relX*n.scale,
		Y: n.pos.Y + relY*n.scale,
	}
}

// ============================================================================
// Serialization
// ============================================================================

// Serialize bundles the node's scalar state, every socket's record and the
// content payload as an opaque sub-document.
func (n *Node) Serialize() (NodeDoc, error) {
	doc := NodeDoc{
		ID:       n.id,
		Type:     n.typeName,
		Title:    n.title,
		PosX:     n.pos.X,
		PosY:     n.pos.Y,
		Width:    n.width,
		Height:   n.height,
		Scale:    n.scale,
		Rotation: n.rotation,
		Locked:   n.locked,
		Hidden:   n.hidden,
	}
	for _, sock := range n.inputs {
		doc.Inputs = append(doc.Inputs, sock.serialize())
	}
	for _, sock := range n.outputs {
		doc.Outputs = append(doc.Outputs, sock.serialize())
	}
	if n.content != nil {
		raw, err := n.content.Serialize()
		if err != nil {
			return NodeDoc{}, errors.Wrap(errors.ErrCodeInternal, err, "serialize content of node %d", n.id)
		}
		doc.Content = raw
	}
	return doc, nil
}

// ApplyDoc restores the node from a document record. Socket records are
// sorted by (index, position) and matched against the node's existing
// same-side sockets by index: a match is reused in place, anything else
// gets a new socket. Old saves therefore keep their wiring when a node
// type has grown sockets since the document was written.
func (n *Node) ApplyDoc(doc NodeDoc, m *IDMap, restoreID bool) error {
	if restoreID && n.id != doc.ID {
		oldID := n.id
		n.id = doc.ID
		n.scene.bumpID(doc.ID)
		n.scene.reindexNode(oldID, n)
	}
	m.putNode(doc.ID, n)

	n.title = doc.Title
	n.pos = Point{X: doc.PosX, Y: doc.PosY}
	if doc.Width > 0 {
		n.width = doc.Width
	}
	if doc.Height > 0 {
		n.height = doc.Height
	}
	n.scale = doc.Scale
	if n.scale == 0 {
		n.scale = 1
	}
	n.rotation = doc.Rotation
	n.locked = doc.Locked
	n.hidden = doc.Hidden

	n.restoreSockets(doc.Inputs, true, m, restoreID)
	n.restoreSockets(doc.Outputs, false, m, restoreID)

	if n.content != nil && len(doc.Content) > 0 {
		if err := n.content.Deserialize(doc.Content, m); err != nil {
			return errors.Wrap(errors.ErrCodeInvalidFile, err, "deserialize content of node %d", doc.ID)
		}
	}

	if n.OnDeserialized != nil {
		n.OnDeserialized(doc)
	}
	return nil
}

// restoreSockets applies one side's socket records, reusing same-index
// sockets where possible and creating new ones otherwise.
func (n *Node) restoreSockets(docs []SocketDoc, isInput bool, m *IDMap, restoreID bool) {
	docs = slices.Clone(docs)
	sort.Slice(docs, func(i, j int) bool {
		if docs[i].Index != docs[j].Index {
			return docs[i].Index < docs[j].Index
		}
		return docs[i].Position < docs[j].Position
	})

	side := &n.outputs
	defaultMulti := n.settings.OutputMultiEdges
	if isInput {
		side = &n.inputs
		defaultMulti = n.settings.InputMultiEdges
	}

	for _, sd := range docs {
		var found *Socket
		for _, sock := range *side {
			if sock.index == sd.Index {
				found = sock
				break
			}
		}
		if found == nil {
			// A record without the field gets the node's side policy,
			// never a value carried over from an earlier record.
			multi := defaultMulti
			if sd.MultiEdges != nil {
				multi = *sd.MultiEdges
			}
			found = newSocket(n, sd.Index, sd.Position, sd.SocketType, sd.SupportedTypes, isInput, multi)
			*side = append(*side, found)
			if isInput {
				n.inputValues = append(n.inputValues, nil)
			}
		}
		if sd.MultiEdges != nil {
			found.multiEdges = *sd.MultiEdges
		}
		found.applyDoc(sd, m, restoreID)
	}
}
