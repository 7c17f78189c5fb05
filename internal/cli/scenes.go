package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/nodecanvas/pkg/scene"
	"github.com/matzehuels/nodecanvas/pkg/store"
)

// scenesCommand creates the scenes command group for store management.
func (c *CLI) scenesCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "scenes",
		Short: "Manage the scene store",
	}
	cmd.AddCommand(c.scenesListCommand())
	cmd.AddCommand(c.scenesDeleteCommand())
	cmd.AddCommand(c.scenesPushCommand())
	cmd.AddCommand(c.scenesPullCommand())
	cmd.AddCommand(c.scenesPathCommand())
	return cmd
}

func (c *CLI) scenesListCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List stored scenes",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := c.loadConfig()
			if err != nil {
				return err
			}
			st, err := c.newStore(cmd.Context(), cfg)
			if err != nil {
				return err
			}
			defer st.Close()

			docs, err := st.List(cmd.Context())
			if err != nil {
				return err
			}
			if len(docs) == 0 {
				printInfo("no scenes stored")
				return nil
			}
			for _, doc := range docs {
				fmt.Printf("%s  %s  %s\n",
					StyleValue.Render(doc.Name),
					StyleDim.Render(doc.ID),
					StyleDim.Render(fmt.Sprintf("%d nodes, %d edges, updated %s",
						len(doc.Scene.Nodes), len(doc.Scene.Edges),
						doc.UpdatedAt.Format("2006-01-02 15:04"))),
				)
			}
			return nil
		},
	}
}

func (c *CLI) scenesDeleteCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a stored scene",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := c.loadConfig()
			if err != nil {
				return err
			}
			st, err := c.newStore(cmd.Context(), cfg)
			if err != nil {
				return err
			}
			defer st.Close()

			if err := st.Delete(cmd.Context(), args[0]); err != nil {
				return err
			}
			printSuccess("deleted %s", args[0])
			return nil
		},
	}
}

// scenesPushCommand uploads a local scene file into the store.
func (c *CLI) scenesPushCommand() *cobra.Command {
	var name string

	cmd := &cobra.Command{
		Use:   "push <scene.json>",
		Short: "Upload a scene file into the store",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			doc, err := scene.ReadSceneFile(args[0])
			if err != nil {
				return err
			}
			if name == "" {
				name = doc.Title
			}
			if name == "" {
				name = "untitled"
			}

			cfg, err := c.loadConfig()
			if err != nil {
				return err
			}
			st, err := c.newStore(cmd.Context(), cfg)
			if err != nil {
				return err
			}
			defer st.Close()

			stored := &store.Document{Name: name, Scene: doc}
			if err := st.Put(cmd.Context(), stored); err != nil {
				return err
			}
			printSuccess("pushed %s", name)
			printKeyValue("id", stored.ID)
			return nil
		},
	}

	cmd.Flags().StringVarP(&name, "name", "n", "", "stored scene name (default: the scene title)")
	return cmd
}

// scenesPullCommand downloads a stored scene into a local file.
func (c *CLI) scenesPullCommand() *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "pull <id>",
		Short: "Download a stored scene into a file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := c.loadConfig()
			if err != nil {
				return err
			}
			st, err := c.newStore(cmd.Context(), cfg)
			if err != nil {
				return err
			}
			defer st.Close()

			doc, err := st.Get(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			path := output
			if path == "" {
				path = doc.Name + ".json"
			}
			if err := scene.WriteSceneFile(doc.Scene, path); err != nil {
				return err
			}
			printFile(path)
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default: <name>.json)")
	return cmd
}

func (c *CLI) scenesPathCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "path",
		Short: "Print the file store directory",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := c.loadConfig()
			if err != nil {
				return err
			}
			fs, err := store.NewFileStore(cfg.Store.Dir)
			if err != nil {
				return err
			}
			fmt.Println(fs.Path())
			return nil
		},
	}
}
