package cli

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/spf13/cobra"

	"github.com/matzehuels/nodecanvas/internal/server"
)

// serveCommand creates the serve command for running the HTTP API.
func (c *CLI) serveCommand() *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the scene store HTTP API",
		Long: `Run the scene store HTTP API.

The server exposes the configured store backend as a JSON API for editor
frontends: list, fetch, save and delete scenes, plus SVG and DOT
rendering of stored documents. The backend is selected in the config
file ([store] backend = "file" | "memory" | "redis" | "mongo").`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := c.loadConfig()
			if err != nil {
				return err
			}
			if addr != "" {
				cfg.Server.Addr = addr
			}

			ctx := cmd.Context()
			st, err := c.newStore(ctx, cfg)
			if err != nil {
				return err
			}
			defer st.Close()

			srv := &http.Server{
				Addr:    cfg.Server.Addr,
				Handler: server.New(st, c.Logger).Router(),
			}

			errCh := make(chan error, 1)
			go func() {
				c.Logger.Info("serving scene API", "addr", cfg.Server.Addr, "backend", cfg.Store.Backend)
				errCh <- srv.ListenAndServe()
			}()

			select {
			case <-ctx.Done():
				shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
				defer cancel()
				if err := srv.Shutdown(shutdownCtx); err != nil {
					return err
				}
				c.Logger.Info("server stopped")
				return nil
			case err := <-errCh:
				if errors.Is(err, http.ErrServerClosed) {
					return nil
				}
				return err
			}
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "listen address (overrides config)")
	return cmd
}
