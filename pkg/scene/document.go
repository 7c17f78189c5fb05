package scene

import (
	"bytes"
	"encoding/json"
	"io"
	"os"

	"github.com/matzehuels/nodecanvas/pkg/errors"
)

// =============================================================================
// Document types - Canonical Serialization Format
// =============================================================================

// SceneDoc is the canonical serialization format for a scene. Files are
// plain UTF-8 JSON; the same schema (with bson tags) is stored by the
// document stores. There is no version field: readers ignore unknown keys
// and supply defaults for missing ones, which is how older documents stay
// loadable.
type SceneDoc struct {
	ID         ID         `json:"id" bson:"id"`
	Title      string     `json:"title,omitempty" bson:"title,omitempty"`
	Nodes      []NodeDoc  `json:"nodes" bson:"nodes"`
	Edges      []EdgeDoc  `json:"edges" bson:"edges"`
	Appearance Appearance `json:"appearance,omitempty" bson:"appearance,omitempty"`
}

// NodeDoc is one node's record: scalar state, both socket lists, and the
// content payload as an opaque sub-document. Type is the registry key used
// to reconstruct the node on load.
type NodeDoc struct {
	ID       ID              `json:"id" bson:"id"`
	Type     string          `json:"type" bson:"type"`
	Title    string          `json:"title" bson:"title"`
	PosX     float64         `json:"pos_x" bson:"pos_x"`
	PosY     float64         `json:"pos_y" bson:"pos_y"`
	Width    float64         `json:"width,omitempty" bson:"width,omitempty"`
	Height   float64         `json:"height,omitempty" bson:"height,omitempty"`
	Scale    float64         `json:"scale,omitempty" bson:"scale,omitempty"`
	Rotation float64         `json:"rotation,omitempty" bson:"rotation,omitempty"`
	Locked   bool            `json:"locked,omitempty" bson:"locked,omitempty"`
	Hidden   bool            `json:"hidden,omitempty" bson:"hidden,omitempty"`
	Inputs   []SocketDoc     `json:"inputs" bson:"inputs"`
	Outputs  []SocketDoc     `json:"outputs" bson:"outputs"`
	Content  json.RawMessage `json:"content,omitempty" bson:"content,omitempty"`
}

// SocketDoc is one socket's record. MultiEdges is a pointer so documents
// written before the field existed fall back to the node's policy.
type SocketDoc struct {
	ID             ID           `json:"id" bson:"id"`
	Index          int          `json:"index" bson:"index"`
	Position       Position     `json:"position" bson:"position"`
	SocketType     SocketType   `json:"socket_type" bson:"socket_type"`
	SupportedTypes []SocketType `json:"supported_types,omitempty" bson:"supported_types,omitempty"`
	IsInput        bool         `json:"is_input" bson:"is_input"`
	MultiEdges     *bool        `json:"multi_edges,omitempty" bson:"multi_edges,omitempty"`
}

// EdgeDoc is one edge's record: the endpoint socket ids are re-resolved
// through the identity map on load.
type EdgeDoc struct {
	ID            ID       `json:"id" bson:"id"`
	EdgeType      EdgeType `json:"edge_type" bson:"edge_type"`
	StartSocketID ID       `json:"start_socket_id" bson:"start_socket_id"`
	EndSocketID   ID       `json:"end_socket_id" bson:"end_socket_id"`
}

// ClipboardDoc is the transferable sub-graph format used by copy/paste.
// Same node/edge schema as SceneDoc, but imports always allocate fresh
// ids.
type ClipboardDoc struct {
	Nodes []NodeDoc `json:"nodes" bson:"nodes"`
	Edges []EdgeDoc `json:"edges" bson:"edges"`
}

// =============================================================================
// Scene Document API
// =============================================================================

// MarshalScene converts a scene document to indented JSON bytes.
func MarshalScene(doc SceneDoc) ([]byte, error) {
	var buf bytes.Buffer
	if err := writeSceneTo(doc, &buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// WriteSceneFile writes a scene document to a JSON file.
// The file is created with 0644 permissions.
func WriteSceneFile(doc SceneDoc, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return errors.Wrap(errors.ErrCodeStore, err, "create %s", path)
	}
	defer f.Close()
	return writeSceneTo(doc, f)
}

// WriteScene writes a scene document as JSON to an io.Writer.
func WriteScene(doc SceneDoc, w io.Writer) error {
	return writeSceneTo(doc, w)
}

// ReadSceneFile reads a JSON file and returns the decoded scene document.
// A missing file yields a FILE_NOT_FOUND error; malformed content yields
// INVALID_FILE. Callers surface the two distinctly.
func ReadSceneFile(path string) (SceneDoc, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return SceneDoc{}, errors.Wrap(errors.ErrCodeFileNotFound, err, "scene file %s", path)
		}
		return SceneDoc{}, errors.Wrap(errors.ErrCodeStore, err, "open %s", path)
	}
	defer f.Close()
	return readSceneFrom(f)
}

// ReadScene decodes a JSON scene document from an io.Reader.
func ReadScene(r io.Reader) (SceneDoc, error) {
	return readSceneFrom(r)
}

// UnmarshalScene deserializes JSON bytes to a scene document.
func UnmarshalScene(data []byte) (SceneDoc, error) {
	return readSceneFrom(bytes.NewReader(data))
}

func writeSceneTo(doc SceneDoc, w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(doc); err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "encode scene")
	}
	return nil
}

func readSceneFrom(r io.Reader) (SceneDoc, error) {
	var raw map[string]json.RawMessage
	dec := json.NewDecoder(r)
	if err := dec.Decode(&raw); err != nil {
		return SceneDoc{}, errors.Wrap(errors.ErrCodeInvalidFile, err, "decode scene document")
	}
	if _, ok := raw["nodes"]; !ok {
		return SceneDoc{}, errors.New(errors.ErrCodeInvalidFile, "scene document missing %q key", "nodes")
	}

	data, err := json.Marshal(raw)
	if err != nil {
		return SceneDoc{}, errors.Wrap(errors.ErrCodeInternal, err, "re-encode scene document")
	}
	var doc SceneDoc
	if err := json.Unmarshal(data, &doc); err != nil {
		return SceneDoc{}, errors.Wrap(errors.ErrCodeInvalidFile, err, "decode scene document")
	}
	return doc, nil
}

// MarshalClipboard converts a clipboard document to compact JSON, the
// transport form placed on the system clipboard.
func MarshalClipboard(doc ClipboardDoc) ([]byte, error) {
	data, err := json.Marshal(doc)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "encode clipboard")
	}
	return data, nil
}

// UnmarshalClipboard deserializes clipboard text. Malformed buffers yield
// INVALID_FILE: a bad paste must never crash the editor.
func UnmarshalClipboard(data []byte) (ClipboardDoc, error) {
	var doc ClipboardDoc
	if err := json.Unmarshal(data, &doc); err != nil {
		return ClipboardDoc{}, errors.Wrap(errors.ErrCodeInvalidFile, err, "decode clipboard document")
	}
	return doc, nil
}
