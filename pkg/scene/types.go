package scene

// ID is a process-unique integer identity for nodes, sockets and edges.
// IDs are assigned monotonically by the owning [Scene] and restored
// verbatim when a document is loaded with id restoration enabled.
type ID uint64

// SocketType is the semantic type tag carried by a socket.
// An edge may only join an output to an input whose supported-type set
// contains the output's primary type.
type SocketType int

// Socket type constants. The zero value is not a valid type; documents
// written by older versions that omit the field are normalized to
// TypeNotDefined on load.
const (
	TypeNotDefined SocketType = iota + 1
	TypeInt
	TypeFloat
	TypeStr
	TypeList
	TypeDict
	TypePixmap
	TypeBool
)

// typeNames maps socket types to display names, indexed by SocketType.
var typeNames = []string{
	"NOT_USED",
	"NOT_DEFINED",
	"INT",
	"FLOAT",
	"STR",
	"LIST",
	"DICT",
	"PIXMAP",
	"BOOL",
}

// String returns the display name of the socket type.
func (t SocketType) String() string {
	if t < 1 || int(t) >= len(typeNames) {
		return "UNKNOWN"
	}
	return typeNames[t]
}

// Position describes where a socket is placed on its node.
// The left side is conventionally used for inputs, the right for outputs,
// but placement is purely visual and carries no validation meaning.
type Position int

// Socket position constants.
const (
	LeftTop Position = iota + 1
	LeftCenter
	LeftBottom
	RightTop
	RightCenter
	RightBottom
)

// IsLeft reports whether the position is on the left side of the node.
func (p Position) IsLeft() bool { return p >= LeftTop && p <= LeftBottom }

// EdgeType selects the visual routing style of an edge.
// It is orthogonal to validity: every edge type passes through the same
// validator pipeline.
type EdgeType int

// Edge routing styles.
const (
	EdgeTypeDirect EdgeType = iota + 1
	EdgeTypeBezier
	EdgeTypeSquare
)

// String returns the routing style name.
func (t EdgeType) String() string {
	switch t {
	case EdgeTypeDirect:
		return "direct"
	case EdgeTypeBezier:
		return "bezier"
	case EdgeTypeSquare:
		return "square"
	default:
		return "unknown"
	}
}

// Appearance holds global display-only color tables. The core never
// interprets these values; they exist for round-trip fidelity so that a
// saved scene reopens with the palette it was authored with.
type Appearance struct {
	// TypeColors is indexed by SocketType. Index 0 is unused.
	TypeColors []string `json:"type_colors,omitempty" bson:"type_colors,omitempty"`
	EdgeColor  string   `json:"edge_color,omitempty" bson:"edge_color,omitempty"`
	Highlight  string   `json:"highlight_color,omitempty" bson:"highlight_color,omitempty"`
}

// DefaultAppearance returns the stock palette.
func DefaultAppearance() Appearance {
	return Appearance{
		TypeColors: []string{
			"#FF000000", // index 0, unused
			"#FFFFFFFF", // NOT_DEFINED
			"#FFFF7700", // INT
			"#FF52E220", // FLOAT
			"#FF0056A6", // STR
			"#FFA86DB1", // LIST
			"#FFB54747", // DICT
			"#FFDBE220", // PIXMAP
			"#FFFF5733", // BOOL
		},
		EdgeColor: "#101010",
		Highlight: "#FFFFFF00",
	}
}

// TypeColor returns the display color for a socket type, or the
// NOT_DEFINED color when the palette has no entry for it.
func (a Appearance) TypeColor(t SocketType) string {
	if t >= 1 && int(t) < len(a.TypeColors) {
		return a.TypeColors[t]
	}
	if len(a.TypeColors) > 1 {
		return a.TypeColors[1]
	}
	return ""
}
