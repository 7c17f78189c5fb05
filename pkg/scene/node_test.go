package scene

import (
	"testing"
)

// chain builds a → b → c over INT sockets and returns all three nodes.
func chain(t *testing.T, s *Scene) (*Node, *Node, *Node) {
	t.Helper()
	a := NewNode(s, "a", nil, [][]SocketType{{TypeInt}})
	b := NewNode(s, "b", [][]SocketType{{TypeInt}}, [][]SocketType{{TypeInt}})
	c := NewNode(s, "c", [][]SocketType{{TypeInt}}, nil)
	if _, err := NewEdge(s, a.Output(0), b.Input(0), EdgeTypeDirect); err != nil {
		t.Fatalf("a→b: %v", err)
	}
	if _, err := NewEdge(s, b.Output(0), c.Input(0), EdgeTypeDirect); err != nil {
		t.Fatalf("b→c: %v", err)
	}
	return a, b, c
}

func TestNewNodeDefaults(t *testing.T) {
	s := New()
	n := NewNode(s, "n", [][]SocketType{{TypeInt}, {TypeFloat}}, [][]SocketType{{TypeStr}})

	if len(n.Inputs()) != 2 || len(n.Outputs()) != 1 {
		t.Fatalf("sockets = (%d in, %d out), want (2, 1)", len(n.Inputs()), len(n.Outputs()))
	}
	if n.Input(0).Position() != LeftTop {
		t.Errorf("input position = %v, want LeftTop", n.Input(0).Position())
	}
	if n.Output(0).Position() != RightBottom {
		t.Errorf("output position = %v, want RightBottom", n.Output(0).Position())
	}
	if n.Input(0).MultiEdges() {
		t.Error("default input allows multiple edges")
	}
	if !n.Output(0).MultiEdges() {
		t.Error("default output does not allow multiple edges")
	}
	if !n.IsDirty() {
		t.Error("fresh node is not dirty")
	}
	if w, h := n.Size(); w != defaultNodeWidth || h != defaultNodeHeight {
		t.Errorf("size = (%v, %v), want defaults", w, h)
	}
	if n.Input(0).Index() != 0 || n.Input(1).Index() != 1 {
		t.Error("input indexes not sequential")
	}
}

func TestNodeSocketLookupOutOfRange(t *testing.T) {
	s := New()
	n := NewNode(s, "n", [][]SocketType{{TypeInt}}, nil)
	if n.Input(5) != nil || n.Input(-1) != nil || n.Output(0) != nil {
		t.Error("out-of-range socket lookup did not return nil")
	}
}

func TestNodeRemoveCascades(t *testing.T) {
	s := New()
	a, b, c := chain(t, s)

	b.Remove()

	if !b.Removed() {
		t.Fatal("node not marked removed")
	}
	if a.Output(0).HasAnyEdge() {
		t.Error("upstream socket still holds edge to removed node")
	}
	if c.Input(0).HasAnyEdge() {
		t.Error("downstream socket still holds edge to removed node")
	}
	if got := s.NodeCount(); got != 2 {
		t.Errorf("node count = %d, want 2", got)
	}
	if got := s.EdgeCount(); got != 0 {
		t.Errorf("edge count = %d, want 0", got)
	}

	b.Remove() // repeated removal is safe
	if got := s.NodeCount(); got != 2 {
		t.Errorf("node count after double remove = %d, want 2", got)
	}
}

func TestTraversalQueries(t *testing.T) {
	s := New()
	a, b, c := chain(t, s)

	if got := b.GetInput(0); got != a {
		t.Errorf("GetInput(0) = %v, want a", got)
	}
	if n, sock := b.GetInputWithSocket(0); n != a || sock != a.Output(0) {
		t.Error("GetInputWithSocket did not resolve the far endpoint")
	}
	if got := b.GetInputs(0); len(got) != 1 || got[0] != a {
		t.Errorf("GetInputs(0) = %v, want [a]", got)
	}
	if got := b.GetOutputs(0); len(got) != 1 || got[0] != c {
		t.Errorf("GetOutputs(0) = %v, want [c]", got)
	}
	if got := a.ChildrenNodes(); len(got) != 1 || got[0] != b {
		t.Errorf("ChildrenNodes = %v, want [b]", got)
	}

	targets := a.ChildrenNodesAndSockets(-1)
	if len(targets) != 1 || targets[0].Node != b || targets[0].InputIndex != 0 {
		t.Errorf("ChildrenNodesAndSockets = %v", targets)
	}
}

func TestTraversalOnUnconnectedNode(t *testing.T) {
	s := New()
	n := NewNode(s, "n", [][]SocketType{{TypeInt}}, [][]SocketType{{TypeInt}})

	if n.GetInput(0) != nil {
		t.Error("GetInput on empty socket is not nil")
	}
	if got := n.GetInputs(0); len(got) != 0 {
		t.Errorf("GetInputs = %v, want empty", got)
	}
	if got := n.GetOutputs(7); len(got) != 0 {
		t.Errorf("GetOutputs out of range = %v, want empty", got)
	}
	if got := n.ChildrenNodes(); len(got) != 0 {
		t.Errorf("ChildrenNodes = %v, want empty", got)
	}
}

func TestMarkDescendantsDirtyTerminatesOnCycle(t *testing.T) {
	s := New()
	a := NewNode(s, "a", [][]SocketType{{TypeInt}}, [][]SocketType{{TypeInt}})
	b := NewNode(s, "b", [][]SocketType{{TypeInt}}, [][]SocketType{{TypeInt}})

	if _, err := NewEdge(s, a.Output(0), b.Input(0), EdgeTypeDirect); err != nil {
		t.Fatal(err)
	}
	if _, err := NewEdge(s, b.Output(0), a.Input(0), EdgeTypeDirect); err != nil {
		t.Fatal(err)
	}

	a.MarkDirty(false)
	b.MarkDirty(false)
	a.MarkDescendantsDirty(true) // must terminate despite the a↔b cycle
	if !b.IsDirty() {
		t.Error("descendant not marked dirty")
	}
	if a.IsDirty() {
		t.Error("MarkDescendantsDirty touched the starting node")
	}

	a.MarkDescendantsInvalid(true)
	if !b.IsInvalid() {
		t.Error("descendant not marked invalid")
	}
}

func TestMarkChildrenDirty(t *testing.T) {
	s := New()
	a, b, c := chain(t, s)
	a.MarkDirty(false)
	b.MarkDirty(false)
	c.MarkDirty(false)

	a.MarkChildrenDirty(true)
	if !b.IsDirty() {
		t.Error("direct child not dirty")
	}
	if c.IsDirty() {
		t.Error("MarkChildrenDirty reached a grandchild")
	}
}

func TestDirtyCallbacks(t *testing.T) {
	s := New()
	n := NewNode(s, "n", nil, nil)

	var dirty, invalid int
	n.OnMarkedDirty = func() { dirty++ }
	n.OnMarkedInvalid = func() { invalid++ }

	n.MarkDirty(false) // clearing the flag does not fire the callback
	n.MarkDirty(true)
	n.MarkInvalid(true)

	if dirty != 1 {
		t.Errorf("dirty callbacks = %d, want 1", dirty)
	}
	if invalid != 1 {
		t.Errorf("invalid callbacks = %d, want 1", invalid)
	}
}

func TestSendAndReceive(t *testing.T) {
	s := New()
	a := NewNode(s, "a", nil, [][]SocketType{{TypeInt}})
	b := NewNode(s, "b", [][]SocketType{{TypeInt}, {TypeInt}}, nil)
	c := NewNode(s, "c", [][]SocketType{{TypeInt}}, nil)

	if _, err := NewEdge(s, a.Output(0), b.Input(1), EdgeTypeDirect); err != nil {
		t.Fatal(err)
	}
	if _, err := NewEdge(s, a.Output(0), c.Input(0), EdgeTypeDirect); err != nil {
		t.Fatal(err)
	}

	var got []any
	b.OnReceive = func(data any, index int) { got = append(got, data, index) }

	a.SendFromOutput(42, 0)

	if b.InputValue(1) != 42 {
		t.Errorf("b latched %v, want 42", b.InputValue(1))
	}
	if c.InputValue(0) != 42 {
		t.Errorf("c latched %v, want 42", c.InputValue(0))
	}
	if len(got) != 2 || got[0] != 42 || got[1] != 1 {
		t.Errorf("OnReceive args = %v, want [42 1]", got)
	}

	// Out-of-range sends are ignored.
	a.SendFromOutput(7, 3)
	if b.InputValue(1) != 42 {
		t.Error("out-of-range send mutated inputs")
	}
}

func TestEdgeConnectionMarksDirty(t *testing.T) {
	s := New()
	a, b, c := chain(t, s)
	a.MarkDirty(false)
	b.MarkDirty(false)
	c.MarkDirty(false)

	// A new edge into b dirties b and its descendants, not a.
	d := NewNode(s, "d", nil, [][]SocketType{{TypeInt}})
	d.MarkDirty(false)
	if _, err := NewEdge(s, d.Output(0), b.Input(0), EdgeTypeDirect); err != nil {
		t.Fatal(err)
	}
	if !b.IsDirty() {
		t.Error("input change did not dirty the node")
	}
	if !c.IsDirty() {
		t.Error("input change did not propagate downstream")
	}
	if a.IsDirty() {
		t.Error("input change dirtied an upstream node")
	}
}

func TestRebuildSocketsDropsEdges(t *testing.T) {
	s := New()
	_, b, _ := chain(t, s)

	b.RebuildSockets([][]SocketType{{TypeFloat}}, [][]SocketType{{TypeFloat}})

	if got := s.EdgeCount(); got != 0 {
		t.Fatalf("edge count after rebuild = %d, want 0", got)
	}
	if b.Input(0).Type() != TypeFloat {
		t.Errorf("rebuilt input type = %v, want float", b.Input(0).Type())
	}
}

func TestHitBoxScales(t *testing.T) {
	s := New()
	n := NewNode(s, "n", nil, nil)
	n.SetPos(10, 20)
	n.SetSize(100, 50)
	n.SetScale(2)

	box := n.HitBox()
	want := Rect{X: 10, Y: 20, W: 200, H: 100}
	if box != want {
		t.Errorf("HitBox = %+v, want %+v", box, want)
	}
}

func TestSocketScenePositions(t *testing.T) {
	s := New()
	n := NewNode(s, "n", [][]SocketType{{TypeInt}, {TypeInt}}, [][]SocketType{{TypeInt}})
	n.SetPos(100, 200)
	n.SetSize(defaultNodeWidth, defaultNodeHeight)

	// LeftTop inputs hang off the left border, spaced downward from the top.
	p0 := n.Input(0).ScenePosition()
	p1 := n.Input(1).ScenePosition()
	if p0.X != 100 || p1.X != 100 {
		t.Errorf("input x = (%v, %v), want 100", p0.X, p1.X)
	}
	if p1.Y-p0.Y != socketSpacing {
		t.Errorf("input spacing = %v, want %v", p1.Y-p0.Y, socketSpacing)
	}

	// RightBottom outputs sit on the right border, counted up from the bottom.
	q0 := n.Output(0).ScenePosition()
	if q0.X != 100+defaultNodeWidth {
		t.Errorf("output x = %v, want %v", q0.X, 100+defaultNodeWidth)
	}
	if q0.Y != 200+defaultNodeHeight-socketVertPadding {
		t.Errorf("output y = %v, want %v", q0.Y, 200+defaultNodeHeight-socketVertPadding)
	}
}
