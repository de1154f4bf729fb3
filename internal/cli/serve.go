package cli

import (
	"github.com/spf13/cobra"

	"github.com/gandergraph/gander/internal/server"
)

// serveCommand creates the serve command for running the HTTP API.
func (c *CLI) serveCommand() *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the analytics API over HTTP",
		Long: `Run the HTTP API.

Submissions return task documents immediately; clients poll the task
endpoint or follow its SSE event stream for progress. The engine, the
cache backend, and task retention all come from the resolved
configuration. The server drains gracefully on SIGINT or SIGTERM.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if !cmd.Flags().Changed("addr") && c.Config.Server.Addr != "" {
				addr = c.Config.Server.Addr
			}

			eng, err := c.newEngine(ctx)
			if err != nil {
				return err
			}
			defer eng.Close()

			srv := server.New(server.Options{
				Engine:    eng,
				Retention: c.Config.Server.Retention.Duration,
				Logger:    c.Logger,
			})

			return srv.ListenAndServe(ctx, addr)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", ":8080", "listen address")

	return cmd
}
