package cli

import (
	"context"
	"errors"
	"net/http"

	"github.com/spf13/cobra"

	"github.com/matzehuels/trapmap/internal/server"
	"github.com/matzehuels/trapmap/pkg/cache"
	"github.com/matzehuels/trapmap/pkg/pipeline"
)

const defaultListen = ":8080"

// serveCommand creates the serve command for the HTTP API.
func (c *CLI) serveCommand() *cobra.Command {
	var (
		listen  string
		f       buildFlags
		maxBody int64
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve maps over HTTP",
		Long: `Serve builds maps posted as JSON and answers point-location queries against them.

Maps live in memory until deleted or the server stops. Adjacency tables go
through the artifact cache; with cache = "redis" in the config file several
servers share it.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			budget := f.budget
			if !cmd.Flags().Changed("budget") {
				d, err := c.config.BudgetDuration()
				if err != nil {
					return err
				}
				budget = d
			}

			addr := listen
			if !cmd.Flags().Changed("listen") && c.config.Listen != "" {
				addr = c.config.Listen
			}

			store, err := c.newCache(ctx, f.noCache)
			if err != nil {
				return err
			}
			runner := pipeline.NewRunner(store, cache.NewScopedKeyer(nil, "server:"), c.Logger)
			defer runner.Close()

			srv := server.New(runner, server.Options{
				Budget:  budget,
				MaxBody: maxBody,
				Logger:  c.Logger,
			})
			err = srv.ListenAndServe(ctx, addr)
			if errors.Is(err, context.Canceled) || errors.Is(err, http.ErrServerClosed) {
				printSuccess("Server stopped")
				return nil
			}
			return err
		},
	}

	cmd.Flags().StringVarP(&listen, "listen", "l", defaultListen, "address to listen on")
	cmd.Flags().DurationVar(&f.budget, "budget", 0, "time limit for building one map (0 = no limit)")
	cmd.Flags().BoolVar(&f.noCache, "no-cache", false, "disable the artifact cache")
	cmd.Flags().Int64Var(&maxBody, "max-body", server.DefaultMaxBody, "maximum request body in bytes")

	return cmd
}
