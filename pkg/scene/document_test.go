package scene

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/matzehuels/nodecanvas/pkg/errors"
)

func TestReadSceneFileErrors(t *testing.T) {
	dir := t.TempDir()

	tests := []struct {
		name     string
		content  string
		missing  bool
		wantCode errors.Code
	}{
		{name: "Missing", missing: true, wantCode: errors.ErrCodeFileNotFound},
		{name: "NotJSON", content: "this is not json", wantCode: errors.ErrCodeInvalidFile},
		{name: "JSONButNoNodes", content: `{"id": 1, "title": "x"}`, wantCode: errors.ErrCodeInvalidFile},
		{name: "Truncated", content: `{"nodes": [`, wantCode: errors.ErrCodeInvalidFile},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(dir, tt.name+".json")
			if !tt.missing {
				if err := os.WriteFile(path, []byte(tt.content), 0o644); err != nil {
					t.Fatal(err)
				}
			}
			_, err := ReadSceneFile(path)
			if errors.GetCode(err) != tt.wantCode {
				t.Errorf("error code = %v, want %v (err: %v)", errors.GetCode(err), tt.wantCode, err)
			}
		})
	}
}

func TestReadSceneIgnoresUnknownKeys(t *testing.T) {
	doc, err := UnmarshalScene([]byte(`{
		"id": 3,
		"nodes": [],
		"edges": [],
		"some_future_field": {"nested": true}
	}`))
	if err != nil {
		t.Fatalf("unknown key rejected: %v", err)
	}
	if doc.ID != 3 {
		t.Errorf("id = %d, want 3", doc.ID)
	}
}

func TestDeserializeSkipsUnknownNodeType(t *testing.T) {
	s := buildSampleScene(t)
	doc, err := s.Serialize()
	if err != nil {
		t.Fatal(err)
	}
	doc.Nodes[1].Type = "vanished-plugin"

	restored := New()
	if err := restored.Deserialize(doc, NewIDMap(), true); err != nil {
		t.Fatalf("load with unknown node type failed hard: %v", err)
	}

	// The unknown node is skipped; edges referencing its sockets are
	// dropped as dangling. The rest of the graph loads.
	if restored.NodeCount() != 2 {
		t.Errorf("node count = %d, want 2", restored.NodeCount())
	}
	if restored.EdgeCount() != 1 {
		t.Errorf("edge count = %d, want 1 (the src→sink edge)", restored.EdgeCount())
	}
}

func TestDeserializeDropsDanglingEdges(t *testing.T) {
	s := buildSampleScene(t)
	doc, err := s.Serialize()
	if err != nil {
		t.Fatal(err)
	}
	doc.Edges = append(doc.Edges, EdgeDoc{
		ID:            9999,
		EdgeType:      EdgeTypeDirect,
		StartSocketID: 88888,
		EndSocketID:   88889,
	})

	restored := New()
	if err := restored.Deserialize(doc, NewIDMap(), true); err != nil {
		t.Fatalf("dangling edge failed the whole load: %v", err)
	}
	if restored.EdgeCount() != 3 {
		t.Errorf("edge count = %d, want 3", restored.EdgeCount())
	}
}

func TestDeserializeSchemaDefaults(t *testing.T) {
	data := []byte(`{
		"id": 10,
		"nodes": [{
			"id": 11,
			"type": "node",
			"title": "old document",
			"pos_x": 5,
			"pos_y": 6,
			"inputs": [{"id": 12, "index": 0, "position": 1, "socket_type": 0, "is_input": true}],
			"outputs": [{"id": 13, "index": 0, "position": 6, "socket_type": 2}]
		}],
		"edges": []
	}`)
	doc, err := UnmarshalScene(data)
	if err != nil {
		t.Fatal(err)
	}

	s := New()
	if err := s.Deserialize(doc, NewIDMap(), true); err != nil {
		t.Fatal(err)
	}
	n, ok := s.Node(11)
	if !ok {
		t.Fatal("node missing")
	}
	if w, h := n.Size(); w != defaultNodeWidth || h != defaultNodeHeight {
		t.Errorf("missing width/height did not default: (%v, %v)", w, h)
	}
	if n.Scale() != 1 {
		t.Errorf("missing scale = %v, want 1", n.Scale())
	}
	if n.Input(0).Type() != TypeNotDefined {
		t.Errorf("socket_type 0 = %v, want NOT_DEFINED", n.Input(0).Type())
	}
	// multi_edges omitted: the node's direction policy applies.
	if n.Input(0).MultiEdges() {
		t.Error("input without multi_edges did not fall back to single-edge policy")
	}
	if !n.Output(0).MultiEdges() {
		t.Error("output without multi_edges did not fall back to multi-edge policy")
	}
}

func TestDeserializeMultiEdgesDefaultPerRecord(t *testing.T) {
	// The first record of each side sets multi_edges explicitly, the
	// second omits it. The omitted one must get the node's side policy,
	// not the neighboring record's value.
	data := []byte(`{
		"id": 20,
		"nodes": [{
			"id": 21,
			"type": "node",
			"title": "mixed records",
			"pos_x": 0,
			"pos_y": 0,
			"inputs": [
				{"id": 22, "index": 0, "position": 1, "socket_type": 2, "is_input": true, "multi_edges": true},
				{"id": 23, "index": 1, "position": 1, "socket_type": 2, "is_input": true}
			],
			"outputs": [
				{"id": 24, "index": 0, "position": 6, "socket_type": 2, "multi_edges": false},
				{"id": 25, "index": 1, "position": 6, "socket_type": 2}
			]
		}],
		"edges": []
	}`)
	doc, err := UnmarshalScene(data)
	if err != nil {
		t.Fatal(err)
	}

	s := New()
	if err := s.Deserialize(doc, NewIDMap(), true); err != nil {
		t.Fatal(err)
	}
	n, ok := s.Node(21)
	if !ok {
		t.Fatal("node missing")
	}
	if !n.Input(0).MultiEdges() {
		t.Error("input 0 multiEdges = false, want true (explicit record)")
	}
	if n.Input(1).MultiEdges() {
		t.Error("input 1 multiEdges = true, want false (node input policy)")
	}
	if n.Output(0).MultiEdges() {
		t.Error("output 0 multiEdges = true, want false (explicit record)")
	}
	if !n.Output(1).MultiEdges() {
		t.Error("output 1 multiEdges = false, want true (node output policy)")
	}
}

func TestDeserializeWithoutRestoreIDMapsFreshIDs(t *testing.T) {
	s := buildSampleScene(t)
	doc, err := s.Serialize()
	if err != nil {
		t.Fatal(err)
	}

	restored := New()
	m := NewIDMap()
	if err := restored.Deserialize(doc, m, false); err != nil {
		t.Fatal(err)
	}
	if restored.NodeCount() != 3 || restored.EdgeCount() != 3 {
		t.Fatalf("graph shape lost: %d nodes, %d edges", restored.NodeCount(), restored.EdgeCount())
	}

	// Fresh ids are allocated, but the identity map still resolves the
	// document ids to the new objects.
	for _, nd := range doc.Nodes {
		mapped, ok := m.Node(nd.ID)
		if !ok {
			t.Fatalf("document node %d not in identity map", nd.ID)
		}
		if mapped.Title() == "" && nd.Title != "" {
			t.Errorf("mapped node lost title")
		}
	}
}

func TestWriteThenReadSceneFile(t *testing.T) {
	s := buildSampleScene(t)
	doc, err := s.Serialize()
	if err != nil {
		t.Fatal(err)
	}

	path := filepath.Join(t.TempDir(), "scene.json")
	if err := WriteSceneFile(doc, path); err != nil {
		t.Fatal(err)
	}
	got, err := ReadSceneFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if got.ID != doc.ID || len(got.Nodes) != len(doc.Nodes) || len(got.Edges) != len(doc.Edges) {
		t.Errorf("file round trip changed shape: %+v", got)
	}
}
