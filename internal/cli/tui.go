package cli

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/matzehuels/nodecanvas/pkg/errors"
	"github.com/matzehuels/nodecanvas/pkg/scene"
)

// List styles
var (
	listSelectedStyle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	listNormalStyle   = lipgloss.NewStyle().Foreground(colorWhite)
	listDimStyle      = lipgloss.NewStyle().Foreground(colorDim)
	listSourceStyle   = lipgloss.NewStyle().Bold(true).Foreground(colorGreen)
)

// =============================================================================
// editModel - Interactive scene editing
// =============================================================================

// editModel is the bubbletea model for the scene editor. It keeps the
// selection as a node id rather than a list index so undo/redo, which
// rebuilds the node slice, does not silently move the cursor to a
// different node.
type editModel struct {
	scene    *scene.Scene
	path     string
	edgeType scene.EdgeType

	cursor int
	offset int
	height int

	// connectFrom is the source node picked in connect mode.
	connectFrom scene.ID
	connecting  bool

	status string
	err    error
}

func newEditModel(s *scene.Scene, path string, edgeType scene.EdgeType) editModel {
	return editModel{
		scene:    s,
		path:     path,
		edgeType: edgeType,
		height:   15,
		status:   "ready",
	}
}

func (m editModel) Init() tea.Cmd {
	return nil
}

func (m editModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "q":
			return m, tea.Quit
		case "esc":
			if m.connecting {
				m.connecting = false
				m.status = "connect cancelled"
				return m, nil
			}
			return m, tea.Quit
		case "up", "k":
			if m.cursor > 0 {
				m.cursor--
				if m.cursor < m.offset {
					m.offset = m.cursor
				}
			}
		case "down", "j":
			if m.cursor < m.scene.NodeCount()-1 {
				m.cursor++
				if m.cursor >= m.offset+m.height {
					m.offset = m.cursor - m.height + 1
				}
			}
		case "a":
			m = m.addNode()
		case "d":
			m = m.deleteNode()
		case "c", "enter":
			m = m.connect()
		case "u":
			m = m.undo()
		case "r":
			m = m.redo()
		case "s":
			m = m.save()
		}
	case tea.WindowSizeMsg:
		m.height = msg.Height - 9
		if m.height < 5 {
			m.height = 5
		}
	}
	m = m.clampCursor()
	return m, nil
}

func (m editModel) clampCursor() editModel {
	if n := m.scene.NodeCount(); m.cursor >= n {
		m.cursor = n - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
	if m.offset > m.cursor {
		m.offset = m.cursor
	}
	return m
}

func (m editModel) selected() *scene.Node {
	nodes := m.scene.Nodes()
	if m.cursor < 0 || m.cursor >= len(nodes) {
		return nil
	}
	return nodes[m.cursor]
}

func (m editModel) addNode() editModel {
	count := m.scene.NodeCount()
	n := scene.NewNode(m.scene, fmt.Sprintf("node %d", count+1),
		[][]scene.SocketType{{scene.TypeInt}},
		[][]scene.SocketType{{scene.TypeInt}})
	n.SetPos(float64(count)*40, float64(count)*40)

	if err := m.scene.History().Store("Created new node", true); err != nil {
		m.err = err
		return m
	}
	m.cursor = m.scene.NodeCount() - 1
	m.status = fmt.Sprintf("added %q", n.Title())
	return m
}

func (m editModel) deleteNode() editModel {
	n := m.selected()
	if n == nil {
		m.status = "nothing to delete"
		return m
	}
	title := n.Title()
	n.Remove()
	if err := m.scene.History().Store("Deleted node", true); err != nil {
		m.err = err
		return m
	}
	m.status = fmt.Sprintf("deleted %q", title)
	return m
}

func (m editModel) connect() editModel {
	n := m.selected()
	if n == nil {
		return m
	}

	if !m.connecting {
		if len(n.Outputs()) == 0 {
			m.status = fmt.Sprintf("%q has no outputs", n.Title())
			return m
		}
		m.connecting = true
		m.connectFrom = n.ID()
		m.status = fmt.Sprintf("connecting from %q, pick a target", n.Title())
		return m
	}

	m.connecting = false
	src, ok := m.scene.Node(m.connectFrom)
	if !ok {
		m.status = "source node is gone"
		return m
	}
	if len(n.Inputs()) == 0 {
		m.status = fmt.Sprintf("%q has no inputs", n.Title())
		return m
	}

	_, err := scene.NewEdge(m.scene, src.Output(0), n.Input(0), m.edgeType)
	if err != nil {
		if errors.GetCode(err) == errors.ErrCodeEdgeRejected {
			m.status = "rejected: " + errors.UserMessage(err)
			return m
		}
		m.err = err
		return m
	}
	if err := m.scene.History().Store("Created new edge", true); err != nil {
		m.err = err
		return m
	}
	m.status = fmt.Sprintf("connected %q %s %q", src.Title(), iconArrow, n.Title())
	return m
}

func (m editModel) undo() editModel {
	if !m.scene.History().CanUndo() {
		m.status = "nothing to undo"
		return m
	}
	if err := m.scene.History().Undo(); err != nil {
		m.err = err
		return m
	}
	m.connecting = false
	m.status = "undo: " + m.scene.History().Current().Label
	return m
}

func (m editModel) redo() editModel {
	if !m.scene.History().CanRedo() {
		m.status = "nothing to redo"
		return m
	}
	if err := m.scene.History().Redo(); err != nil {
		m.err = err
		return m
	}
	m.connecting = false
	m.status = "redo: " + m.scene.History().Current().Label
	return m
}

func (m editModel) save() editModel {
	if err := m.scene.SaveToFile(m.path); err != nil {
		m.status = "save failed: " + errors.UserMessage(err)
		return m
	}
	m.status = "saved " + m.path
	return m
}

func (m editModel) View() string {
	var b strings.Builder

	title := m.path
	if m.scene.IsModified() {
		title += " *"
	}
	b.WriteString(StyleTitle.Render("Edit Scene"))
	b.WriteString("  ")
	b.WriteString(StyleValue.Render(title))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("↑/↓ navigate  a add  d delete  c connect  u undo  r redo  s save  q quit"))
	b.WriteString("\n\n")

	nodes := m.scene.Nodes()
	if len(nodes) == 0 {
		b.WriteString(listDimStyle.Render("  (empty scene, press a to add a node)"))
		b.WriteString("\n")
	}

	end := m.offset + m.height
	if end > len(nodes) {
		end = len(nodes)
	}

	for i := m.offset; i < end; i++ {
		n := nodes[i]

		cursor := "  "
		if i == m.cursor {
			cursor = "▸ "
		}

		line := fmt.Sprintf("%s%-20s  %s", cursor, n.Title(),
			listDimStyle.Render(fmt.Sprintf("#%d  in %d  out %d", n.ID(), edgeTotal(n.Inputs()), edgeTotal(n.Outputs()))))

		switch {
		case m.connecting && n.ID() == m.connectFrom:
			b.WriteString(listSourceStyle.Render(line))
		case i == m.cursor:
			b.WriteString(listSelectedStyle.Render(line))
		default:
			b.WriteString(listNormalStyle.Render(line))
		}
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(listDimStyle.Render(fmt.Sprintf("  %d nodes · %d edges · history %d/%d",
		m.scene.NodeCount(), m.scene.EdgeCount(),
		m.scene.History().Cursor()+1, m.scene.History().Len())))
	b.WriteString("\n")
	b.WriteString("  " + StyleHighlight.Render(m.status))
	b.WriteString("\n")

	return b.String()
}

func edgeTotal(sockets []*scene.Socket) int {
	total := 0
	for _, s := range sockets {
		total += s.EdgeCount()
	}
	return total
}
