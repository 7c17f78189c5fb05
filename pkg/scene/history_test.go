package scene

import (
	"bytes"
	"testing"
)

func snapshotBytes(t *testing.T, s *Scene) []byte {
	t.Helper()
	doc, err := s.Serialize()
	if err != nil {
		t.Fatal(err)
	}
	data, err := MarshalScene(doc)
	if err != nil {
		t.Fatal(err)
	}
	return data
}

func TestHistoryInitialStamp(t *testing.T) {
	s := New()
	h := s.History()

	if h.Len() != 1 || h.Cursor() != 0 {
		t.Fatalf("fresh history = (len %d, cursor %d), want (1, 0)", h.Len(), h.Cursor())
	}
	if h.CanUndo() {
		t.Error("fresh history allows undo")
	}
	if h.CanRedo() {
		t.Error("fresh history allows redo")
	}
}

func TestHistoryUndoFloorIsNoOp(t *testing.T) {
	s := New()
	NewNode(s, "n", nil, nil)
	// Undo at the initial stamp must not empty the scene.
	if err := s.History().Undo(); err != nil {
		t.Fatal(err)
	}
	if s.NodeCount() != 1 {
		t.Errorf("undo at floor mutated the scene: %d nodes", s.NodeCount())
	}
}

func TestHistoryUndoRedoScenario(t *testing.T) {
	s := New()
	h := s.History()

	a := NewNode(s, "a", nil, [][]SocketType{{TypeInt}})
	b := NewNode(s, "b", [][]SocketType{{TypeInt}}, nil)
	if err := h.Store("add nodes", true); err != nil {
		t.Fatal(err)
	}
	aID, bID := a.ID(), b.ID()

	e, err := NewEdge(s, a.Output(0), b.Input(0), EdgeTypeDirect)
	if err != nil {
		t.Fatal(err)
	}
	edgeID := e.ID()
	if err := h.Store("connect", true); err != nil {
		t.Fatal(err)
	}
	afterConnect := snapshotBytes(t, s)

	// Undo: both nodes remain, the edge is gone.
	if err := h.Undo(); err != nil {
		t.Fatal(err)
	}
	if s.EdgeCount() != 0 {
		t.Fatalf("edge survived undo")
	}
	ra, ok := s.Node(aID)
	if !ok {
		t.Fatal("node a missing after undo")
	}
	if ra.Output(0).HasAnyEdge() {
		t.Error("socket edge list not empty after undo")
	}
	if _, ok := s.Node(bID); !ok {
		t.Fatal("node b missing after undo")
	}

	// Redo: the edge returns with its original id and endpoints.
	if err := h.Redo(); err != nil {
		t.Fatal(err)
	}
	edges := s.Edges()
	if len(edges) != 1 {
		t.Fatalf("edge count after redo = %d, want 1", len(edges))
	}
	if edges[0].ID() != edgeID {
		t.Errorf("redone edge id = %d, want %d", edges[0].ID(), edgeID)
	}
	if got := snapshotBytes(t, s); !bytes.Equal(got, afterConnect) {
		t.Error("redo did not restore the exact pre-undo document")
	}
}

func TestHistoryUndoRedoIdempotent(t *testing.T) {
	s := New()
	h := s.History()
	NewNode(s, "n", nil, nil)
	if err := h.Store("add", true); err != nil {
		t.Fatal(err)
	}
	want := snapshotBytes(t, s)

	// Redo past the top and undo below the floor are both no-ops.
	if err := h.Redo(); err != nil {
		t.Fatal(err)
	}
	if got := snapshotBytes(t, s); !bytes.Equal(got, want) {
		t.Error("redo at top mutated the scene")
	}
	if err := h.Undo(); err != nil {
		t.Fatal(err)
	}
	if err := h.Undo(); err != nil {
		t.Fatal(err)
	}
	if err := h.Redo(); err != nil {
		t.Fatal(err)
	}
	if got := snapshotBytes(t, s); !bytes.Equal(got, want) {
		t.Error("undo/redo round trip is not idempotent")
	}
}

func TestHistoryStoreTruncatesRedoTail(t *testing.T) {
	s := New()
	h := s.History()

	NewNode(s, "first", nil, nil)
	if err := h.Store("first", true); err != nil {
		t.Fatal(err)
	}
	NewNode(s, "second", nil, nil)
	if err := h.Store("second", true); err != nil {
		t.Fatal(err)
	}

	if err := h.Undo(); err != nil {
		t.Fatal(err)
	}
	if !h.CanRedo() {
		t.Fatal("expected redo tail after undo")
	}

	NewNode(s, "branch", nil, nil)
	if err := h.Store("branch", true); err != nil {
		t.Fatal(err)
	}
	if h.CanRedo() {
		t.Error("redo tail survived a new store")
	}
	want := []string{"initial state", "first", "branch"}
	got := h.Labels()
	if len(got) != len(want) {
		t.Fatalf("labels = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("labels = %v, want %v", got, want)
		}
	}
}

func TestHistoryLimitDropsOldest(t *testing.T) {
	s := New()
	h := s.History()

	for i := 0; i < DefaultHistoryLimit+10; i++ {
		NewNode(s, "n", nil, nil)
		if err := h.Store("step", true); err != nil {
			t.Fatal(err)
		}
	}
	if h.Len() != DefaultHistoryLimit {
		t.Fatalf("history len = %d, want %d", h.Len(), DefaultHistoryLimit)
	}
	if h.Cursor() != h.Len()-1 {
		t.Errorf("cursor = %d, want %d", h.Cursor(), h.Len()-1)
	}
	// The initial stamp was evicted, so the floor is now the oldest
	// surviving snapshot.
	for h.CanUndo() {
		if err := h.Undo(); err != nil {
			t.Fatal(err)
		}
	}
	if s.NodeCount() == 0 {
		t.Error("undo to the evicted-window floor emptied the scene")
	}
}

func TestHistoryRestoresModifiedFlag(t *testing.T) {
	s := New()
	h := s.History()

	NewNode(s, "n", nil, nil)
	if err := h.Store("add", true); err != nil {
		t.Fatal(err)
	}
	if !s.IsModified() {
		t.Fatal("store with setModified did not mark the scene")
	}
	if err := h.Undo(); err != nil {
		t.Fatal(err)
	}
	if s.IsModified() {
		t.Error("undo to the initial stamp left the scene modified")
	}
	if err := h.Redo(); err != nil {
		t.Fatal(err)
	}
	if !s.IsModified() {
		t.Error("redo did not restore the modified flag")
	}
}

func TestHistoryCurrentLabel(t *testing.T) {
	s := New()
	h := s.History()
	NewNode(s, "n", nil, nil)
	if err := h.Store("add node", true); err != nil {
		t.Fatal(err)
	}
	if e := h.Current(); e == nil || e.Label != "add node" {
		t.Errorf("Current() = %+v, want label %q", e, "add node")
	}
}
