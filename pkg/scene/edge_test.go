package scene

import (
	"testing"

	"github.com/matzehuels/nodecanvas/pkg/errors"
)

func twoNodes(s *Scene) (*Node, *Node) {
	a := NewNode(s, "producer", nil, [][]SocketType{{TypeInt}})
	b := NewNode(s, "consumer", [][]SocketType{{TypeInt}}, nil)
	return a, b
}

func TestNewEdgeAttachesBothEndpoints(t *testing.T) {
	s := New()
	a, b := twoNodes(s)

	e, err := NewEdge(s, a.Output(0), b.Input(0), EdgeTypeBezier)
	if err != nil {
		t.Fatalf("NewEdge: %v", err)
	}
	if !a.Output(0).IsConnected(e) {
		t.Error("edge missing from start socket")
	}
	if !b.Input(0).IsConnected(e) {
		t.Error("edge missing from end socket")
	}
	if e.EdgeType() != EdgeTypeBezier {
		t.Errorf("edge type = %v, want bezier", e.EdgeType())
	}
	if got := s.EdgeCount(); got != 1 {
		t.Errorf("scene edge count = %d, want 1", got)
	}
}

func TestNewEdgeNilSocket(t *testing.T) {
	s := New()
	a, _ := twoNodes(s)
	if _, err := NewEdge(s, a.Output(0), nil, EdgeTypeDirect); err == nil {
		t.Fatal("expected error for nil endpoint")
	}
}

func TestNewEdgeRejectionCode(t *testing.T) {
	s := New()
	a := NewNode(s, "a", nil, [][]SocketType{{TypeInt}})
	b := NewNode(s, "b", [][]SocketType{{TypeStr}}, nil)

	_, err := NewEdge(s, a.Output(0), b.Input(0), EdgeTypeDirect)
	if errors.GetCode(err) != errors.ErrCodeEdgeRejected {
		t.Fatalf("error code = %v, want %v", errors.GetCode(err), errors.ErrCodeEdgeRejected)
	}
}

func TestSingleEdgeInputReplaced(t *testing.T) {
	s := New()
	a := NewNode(s, "a", nil, [][]SocketType{{TypeInt}})
	b := NewNode(s, "b", nil, [][]SocketType{{TypeInt}})
	c := NewNode(s, "c", [][]SocketType{{TypeInt}}, nil)

	first, err := NewEdge(s, a.Output(0), c.Input(0), EdgeTypeDirect)
	if err != nil {
		t.Fatalf("first edge: %v", err)
	}
	second, err := NewEdge(s, b.Output(0), c.Input(0), EdgeTypeDirect)
	if err != nil {
		t.Fatalf("second edge: %v", err)
	}

	// Default input policy is single-edge: the new edge evicts the old one.
	if got := c.Input(0).EdgeCount(); got != 1 {
		t.Fatalf("input edge count = %d, want 1", got)
	}
	if !c.Input(0).IsConnected(second) {
		t.Error("input kept the old edge instead of the new one")
	}
	if first.Connected() {
		t.Error("evicted edge still reports connected")
	}
	if a.Output(0).HasAnyEdge() {
		t.Error("evicted edge still attached to its output")
	}
}

func TestMultiEdgeOutputAccumulates(t *testing.T) {
	s := New()
	a := NewNode(s, "a", nil, [][]SocketType{{TypeInt}})
	b := NewNode(s, "b", [][]SocketType{{TypeInt}}, nil)
	c := NewNode(s, "c", [][]SocketType{{TypeInt}}, nil)

	if _, err := NewEdge(s, a.Output(0), b.Input(0), EdgeTypeDirect); err != nil {
		t.Fatal(err)
	}
	if _, err := NewEdge(s, a.Output(0), c.Input(0), EdgeTypeDirect); err != nil {
		t.Fatal(err)
	}
	if got := a.Output(0).EdgeCount(); got != 2 {
		t.Errorf("output edge count = %d, want 2", got)
	}
}

func TestEdgeRemoveIdempotent(t *testing.T) {
	s := New()
	a, b := twoNodes(s)
	e, err := NewEdge(s, a.Output(0), b.Input(0), EdgeTypeDirect)
	if err != nil {
		t.Fatal(err)
	}

	e.Remove()
	if a.Output(0).HasAnyEdge() || b.Input(0).HasAnyEdge() {
		t.Error("sockets still hold removed edge")
	}
	if e.Connected() {
		t.Error("removed edge reports connected")
	}
	e.Remove() // second call is a no-op
	if got := s.EdgeCount(); got != 0 {
		t.Errorf("edge count after double remove = %d, want 0", got)
	}
}

func TestGetOtherSocket(t *testing.T) {
	s := New()
	a, b := twoNodes(s)
	e, err := NewEdge(s, a.Output(0), b.Input(0), EdgeTypeDirect)
	if err != nil {
		t.Fatal(err)
	}

	if got := e.GetOtherSocket(a.Output(0)); got != b.Input(0) {
		t.Errorf("GetOtherSocket(start) = %v, want end socket", got)
	}
	if got := e.GetOtherSocket(b.Input(0)); got != a.Output(0) {
		t.Errorf("GetOtherSocket(end) = %v, want start socket", got)
	}

	defer func() {
		if recover() == nil {
			t.Error("expected panic for socket not on edge")
		}
	}()
	stranger := NewNode(s, "x", [][]SocketType{{TypeInt}}, nil)
	e.GetOtherSocket(stranger.Input(0))
}

func TestEdgeOrientationHelpers(t *testing.T) {
	s := New()
	a, b := twoNodes(s)

	// Construct with the input as the start endpoint; helpers still orient.
	e, err := NewEdge(s, b.Input(0), a.Output(0), EdgeTypeDirect)
	if err != nil {
		t.Fatal(err)
	}
	if e.OutputSocket() != a.Output(0) {
		t.Error("OutputSocket did not resolve the output endpoint")
	}
	if e.InputSocket() != b.Input(0) {
		t.Error("InputSocket did not resolve the input endpoint")
	}
}

func TestEdgeCallbacksFire(t *testing.T) {
	s := New()
	a, b := twoNodes(s)

	var connA, connB, inputB, outputA int
	a.OnEdgeConnectionChanged = func(e *Edge) { connA++ }
	b.OnEdgeConnectionChanged = func(e *Edge) { connB++ }
	b.OnInputChanged = func(sock *Socket) { inputB++ }
	a.OnOutputChanged = func(sock *Socket) { outputA++ }

	e, err := NewEdge(s, a.Output(0), b.Input(0), EdgeTypeDirect)
	if err != nil {
		t.Fatal(err)
	}
	if connA != 1 || connB != 1 {
		t.Errorf("connection callbacks = (%d, %d), want (1, 1)", connA, connB)
	}
	if inputB != 1 || outputA != 1 {
		t.Errorf("socket callbacks = (input %d, output %d), want (1, 1)", inputB, outputA)
	}

	e.Remove()
	if inputB != 2 || outputA != 2 {
		t.Errorf("socket callbacks after remove = (input %d, output %d), want (2, 2)", inputB, outputA)
	}
}
