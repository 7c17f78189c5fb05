package cli

import (
	"github.com/spf13/cobra"

	"github.com/matzehuels/nodecanvas/pkg/errors"
	"github.com/matzehuels/nodecanvas/pkg/scene"

	tea "github.com/charmbracelet/bubbletea"
)

// editCommand creates the edit command for the interactive terminal editor.
func (c *CLI) editCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "edit <scene.json>",
		Short: "Edit a scene interactively in the terminal",
		Long: `Edit a scene interactively in the terminal.

A missing file starts an empty scene that is created on first save.
The editor covers the graph structure: adding and deleting nodes,
wiring sockets, undo/redo and saving. Geometry is left at defaults.

Keys:
  ↑/↓ or k/j   move the selection
  a            add a node
  d            delete the selected node
  c            connect: pick a source, then a target
  u / r        undo / redo
  s            save
  q            quit`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := c.loadConfig()
			if err != nil {
				return err
			}
			edgeType, err := cfg.EdgeType()
			if err != nil {
				return err
			}

			s := scene.New()
			s.SetLogger(c.Logger)
			s.History().SetLimit(cfg.HistoryLimit)
			if err := s.LoadFromFile(args[0]); err != nil {
				if errors.GetCode(err) != errors.ErrCodeFileNotFound {
					return err
				}
				printInfo("new scene, will be created at %s", args[0])
			}

			model := newEditModel(s, args[0], edgeType)
			p := tea.NewProgram(model, tea.WithAltScreen())
			final, err := p.Run()
			if err != nil {
				return err
			}
			if m, ok := final.(editModel); ok && m.err != nil {
				return m.err
			}
			return nil
		},
	}

	return cmd
}
