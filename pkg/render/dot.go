// Package render converts scene documents into Graphviz node-link
// diagrams. Nodes appear as record boxes with one port per socket, so
// edges visually attach to the socket they connect, matching the editor's
// wiring.
package render

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/matzehuels/nodecanvas/pkg/scene"
)

// Options configures diagram rendering.
type Options struct {
	// Detailed includes node ids and positions in labels.
	// When false, only the title and socket types are shown.
	Detailed bool
}

// ToDOT converts a scene document to Graphviz DOT format. The resulting
// DOT string can be rendered with [RenderSVG], saved, or processed with
// external Graphviz tools.
//
// Each socket becomes a record port named after its id, and edges connect
// port to port. Dataflow runs left to right.
func ToDOT(doc scene.SceneDoc, opts Options) string {
	var buf bytes.Buffer
	buf.WriteString("digraph G {\n")
	buf.WriteString("  rankdir=LR;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [shape=record, style=\"rounded,filled\", fillcolor=white, fontsize=14];\n")
	buf.WriteString("  ranksep=0.7;\n")
	buf.WriteString("  nodesep=0.4;\n")

	if doc.Appearance.EdgeColor != "" {
		fmt.Fprintf(&buf, "  edge [color=%q];\n", dotColor(doc.Appearance.EdgeColor))
	}
	buf.WriteString("\n")

	// Socket id → owning node id, for port-to-port edges.
	owner := make(map[scene.ID]scene.ID)
	for _, nd := range doc.Nodes {
		for _, sd := range nd.Inputs {
			owner[sd.ID] = nd.ID
		}
		for _, sd := range nd.Outputs {
			owner[sd.ID] = nd.ID
		}
		fmt.Fprintf(&buf, "  n%d [label=\"%s\"];\n", nd.ID, fmtLabel(nd, opts.Detailed))
	}

	buf.WriteString("\n")
	for _, e := range doc.Edges {
		from, okFrom := owner[e.StartSocketID]
		to, okTo := owner[e.EndSocketID]
		if !okFrom || !okTo {
			continue // dangling edges never make it into the picture
		}
		fmt.Fprintf(&buf, "  n%d:p%d -> n%d:p%d;\n", from, e.StartSocketID, to, e.EndSocketID)
	}

	buf.WriteString("}\n")
	return buf.String()
}

// fmtLabel builds a record label: input ports, the title cell, output
// ports. Record syntax nests with braces, so the outer pair flips the
// orientation to keep ports stacked vertically under rankdir=LR.
func fmtLabel(nd scene.NodeDoc, detailed bool) string {
	title := nd.Title
	if title == "" {
		title = nd.Type
	}
	middle := escapeRecord(title)
	if detailed {
		middle = fmt.Sprintf("%s\\nid: %d\\npos: (%.0f, %.0f)", middle, nd.ID, nd.PosX, nd.PosY)
	}

	cells := []string{fmtPorts(nd.Inputs), middle, fmtPorts(nd.Outputs)}
	return "{" + strings.Join(cells, "|") + "}"
}

// fmtPorts renders one socket list as a stacked record cell.
func fmtPorts(socks []scene.SocketDoc) string {
	if len(socks) == 0 {
		return ""
	}
	parts := make([]string, len(socks))
	for i, sd := range socks {
		parts[i] = fmt.Sprintf("<p%d> %s", sd.ID, escapeRecord(sd.SocketType.String()))
	}
	return "{" + strings.Join(parts, "|") + "}"
}

var recordEscaper = strings.NewReplacer(
	`\`, `\\`,
	`"`, `\"`,
	"{", `\{`,
	"}", `\}`,
	"|", `\|`,
	"<", `\<`,
	">", `\>`,
)

// escapeRecord quotes characters with record-label meaning.
func escapeRecord(s string) string {
	return recordEscaper.Replace(s)
}

// dotColor converts the scene's AARRGGBB palette entries to the RRGGBB
// form Graphviz expects. Plain RRGGBB values pass through.
func dotColor(c string) string {
	if strings.HasPrefix(c, "#") && len(c) == 9 {
		return "#" + c[3:]
	}
	return c
}
