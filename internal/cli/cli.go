// Package cli implements the nodecanvas command-line interface.
//
// This package provides commands for inspecting scene files, exporting
// diagrams, editing scenes in a terminal UI, running the HTTP API and
// managing the scene store. The CLI is built using cobra and supports
// verbose logging via the charmbracelet/log library.
//
// # Commands
//
// The main commands are:
//   - inspect: Print the structure of a scene file
//   - export: Render a scene as SVG, PDF, PNG, or DOT
//   - edit: Edit a scene interactively in the terminal
//   - serve: Run the scene store HTTP API
//   - scenes: Manage the scene store (list, delete, path)
//
// # Logging
//
// All commands support --verbose (-v) for debug-level logging.
package cli

import (
	"context"
	"io"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/nodecanvas/pkg/buildinfo"
	"github.com/matzehuels/nodecanvas/pkg/config"
	"github.com/matzehuels/nodecanvas/pkg/errors"
	"github.com/matzehuels/nodecanvas/pkg/store"
)

// appName is the application name used for directories and display.
const appName = "nodecanvas"

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// CLI holds shared state for all commands.
type CLI struct {
	Logger     *log.Logger
	configPath string
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{Logger: newLogger(w, level)}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:          appName,
		Short:        "Nodecanvas edits and renders node-graph scenes",
		Long:         `Nodecanvas is a CLI tool for building, inspecting and rendering node-graph scenes: directed graphs of typed nodes wired socket to socket, with undo history and a persistent scene store.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().StringVar(&c.configPath, "config", "", "config file (default ~/.config/nodecanvas/config.toml)")

	// Register all subcommands
	root.AddCommand(c.inspectCommand())
	root.AddCommand(c.exportCommand())
	root.AddCommand(c.editCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.scenesCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// loadConfig reads the configured (or default) config file.
func (c *CLI) loadConfig() (config.Config, error) {
	return config.Load(c.configPath)
}

// newStore opens the scene store backend selected by the config.
func (c *CLI) newStore(ctx context.Context, cfg config.Config) (store.Store, error) {
	switch cfg.Store.Backend {
	case "memory":
		return store.NewMemoryStore(), nil
	case "file":
		return store.NewFileStore(cfg.Store.Dir)
	case "redis":
		return store.NewRedisStore(ctx, store.RedisConfig{
			Addr:     cfg.Store.Redis.Addr,
			Password: cfg.Store.Redis.Password,
			DB:       cfg.Store.Redis.DB,
		})
	case "mongo":
		return store.NewMongoStore(ctx, store.MongoConfig{
			URI:        cfg.Store.Mongo.URI,
			Database:   cfg.Store.Mongo.Database,
			Collection: cfg.Store.Mongo.Collection,
		})
	default:
		return nil, errors.New(errors.ErrCodeInvalidInput, "unknown store backend %q", cfg.Store.Backend)
	}
}
