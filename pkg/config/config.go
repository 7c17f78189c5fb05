// Package config loads the editor configuration from a TOML file.
//
// The default location is ~/.config/nodecanvas/config.toml. A missing
// file is not an error: every field has a working default, so the zero
// configuration runs a file-backed single-user editor.
package config

import (
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"

	"github.com/matzehuels/nodecanvas/pkg/errors"
	"github.com/matzehuels/nodecanvas/pkg/scene"
)

// Config is the top-level editor configuration.
type Config struct {
	// HistoryLimit caps the undo stack depth.
	HistoryLimit int `toml:"history_limit"`

	// DefaultEdgeType is the routing style for new connections:
	// "direct", "bezier" or "square".
	DefaultEdgeType string `toml:"default_edge_type"`

	Store  StoreConfig  `toml:"store"`
	Server ServerConfig `toml:"server"`
}

// StoreConfig selects and configures the scene persistence backend.
type StoreConfig struct {
	// Backend is one of "file", "memory", "redis" or "mongo".
	Backend string `toml:"backend"`

	// Dir is the scene directory for the file backend. Empty means
	// ~/.config/nodecanvas/scenes/.
	Dir string `toml:"dir"`

	Redis RedisConfig `toml:"redis"`
	Mongo MongoConfig `toml:"mongo"`
}

// RedisConfig holds the redis backend settings.
type RedisConfig struct {
	Addr     string `toml:"addr"`
	Password string `toml:"password"`
	DB       int    `toml:"db"`
}

// MongoConfig holds the mongo backend settings.
type MongoConfig struct {
	URI        string `toml:"uri"`
	Database   string `toml:"database"`
	Collection string `toml:"collection"`
}

// ServerConfig holds the HTTP API settings.
type ServerConfig struct {
	Addr string `toml:"addr"`
}

// Default returns the configuration used when no file is present.
func Default() Config {
	return Config{
		HistoryLimit:    scene.DefaultHistoryLimit,
		DefaultEdgeType: "bezier",
		Store: StoreConfig{
			Backend: "file",
			Redis:   RedisConfig{Addr: "localhost:6379"},
			Mongo:   MongoConfig{URI: "mongodb://localhost:27017"},
		},
		Server: ServerConfig{Addr: ":8080"},
	}
}

// DefaultPath returns the standard config file location.
func DefaultPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", errors.Wrap(errors.ErrCodeStore, err, "get home dir")
	}
	return filepath.Join(home, ".config", "nodecanvas", "config.toml"), nil
}

// Load reads a config file, layering it over the defaults. If path is
// empty the default location is used, and a missing file at either
// location yields the plain defaults.
func Load(path string) (Config, error) {
	cfg := Default()

	if path == "" {
		p, err := DefaultPath()
		if err != nil {
			return cfg, err
		}
		path = p
	}

	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, errors.Wrap(errors.ErrCodeInvalidFile, err, "parse config %s", path)
	}

	if err := cfg.validate(); err != nil {
		return Default(), err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	if c.HistoryLimit < 1 {
		return errors.New(errors.ErrCodeInvalidInput, "history_limit must be at least 1, got %d", c.HistoryLimit)
	}
	switch c.Store.Backend {
	case "file", "memory", "redis", "mongo":
	default:
		return errors.New(errors.ErrCodeInvalidInput, "unknown store backend %q", c.Store.Backend)
	}
	if _, err := c.EdgeType(); err != nil {
		return err
	}
	return nil
}

// EdgeType resolves the configured default edge routing style.
func (c *Config) EdgeType() (scene.EdgeType, error) {
	switch c.DefaultEdgeType {
	case "direct":
		return scene.EdgeTypeDirect, nil
	case "bezier", "":
		return scene.EdgeTypeBezier, nil
	case "square":
		return scene.EdgeTypeSquare, nil
	default:
		return 0, errors.New(errors.ErrCodeInvalidInput, "unknown edge type %q", c.DefaultEdgeType)
	}
}
