package cli

import (
	"github.com/spf13/cobra"

	"github.com/matzehuels/conga/pkg/metrics"
	"github.com/matzehuels/conga/pkg/server"
)

// serveCommand creates the serve command.
func (c *CLI) serveCommand() *cobra.Command {
	var (
		addr    string
		noCache bool
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		Long: `Serve the decomposition API:

  POST /v1/decompose           decompose a node-link graph
  GET  /v1/runs/{id}           fetch a stored run
  GET  /v1/graphs/{hash}/runs  list the runs of one graph
  GET  /healthz                liveness probe
  GET  /metrics                Prometheus metrics

The cache and run store come from the config file.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			cfg := c.Config.Server
			if cmd.Flags().Changed("addr") {
				cfg.Addr = addr
			}

			runner, err := c.newRunner(ctx, noCache)
			if err != nil {
				return err
			}
			defer runner.Close()

			reg := metrics.DefaultRegistry()
			reg.Install()

			srv := server.New(server.Config{
				Runner:         runner,
				Metrics:        reg,
				Logger:         c.Logger,
				MaxBodyBytes:   cfg.MaxBodyBytes,
				RequestTimeout: cfg.RequestTimeout,
				Workers:        c.Config.Decompose.Workers,
			})

			c.Logger.Info("listening", "addr", cfg.Addr,
				"cache", c.Config.Cache.Backend, "store", c.Config.Store.Backend)
			return srv.ListenAndServe(ctx, cfg.Addr, cfg.ShutdownGrace)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default from config, :8080)")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable the result cache")
	return cmd
}
