// Package cli implements the conga command-line interface.
//
// # Commands
//
//   - detect: decompose a graph file and print or export a cover
//   - demo: run the decomposition on Zachary's karate club
//   - render: draw one cover as DOT, SVG, PNG or PDF
//   - browse: explore the cover hierarchy interactively
//   - serve: run the HTTP API
//   - runs: inspect stored runs
//   - cache: manage the result cache
//
// # Configuration
//
// Defaults come from the TOML file loaded by [config.Load]; command-line
// flags win over it. All commands support --verbose (-v) for debug-level
// logging through charmbracelet/log.
package cli

import (
	"context"
	"io"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/conga/internal/config"
	"github.com/matzehuels/conga/pkg/buildinfo"
	"github.com/matzehuels/conga/pkg/cache"
	"github.com/matzehuels/conga/pkg/pipeline"
)

const appName = "conga"

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// =============================================================================
// CLI - Central CLI State
// =============================================================================

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger

	// ConfigPath is the --config flag; empty selects config.DefaultPath.
	ConfigPath string
	// Config is loaded before any subcommand runs.
	Config config.Config
}

// New creates a CLI that logs to w at level.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{
		Logger: newLogger(w, level),
		Config: config.Default(),
	}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:          appName,
		Short:        "CONGA finds overlapping communities in networks",
		Long:         `CONGA detects overlapping communities by repeatedly removing edges and splitting vertices with the highest betweenness, then picks the cover that maximises overlapping modularity.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return c.loadConfig()
		},
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().StringVar(&c.ConfigPath, "config", "", "config file (default $XDG_CONFIG_HOME/conga/config.toml)")

	root.AddCommand(c.detectCommand())
	root.AddCommand(c.demoCommand())
	root.AddCommand(c.renderCommand())
	root.AddCommand(c.browseCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.runsCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.completionCommand())

	return root
}

func (c *CLI) loadConfig() error {
	cfg, err := config.Load(c.ConfigPath)
	if err != nil {
		return err
	}
	c.Config = cfg
	return nil
}

// =============================================================================
// Runner Factory
// =============================================================================

// newRunner creates a pipeline runner from the loaded configuration.
// noCache replaces the configured cache with a null cache.
func (c *CLI) newRunner(ctx context.Context, noCache bool) (*pipeline.Runner, error) {
	var rc cache.Cache = cache.NewNullCache()
	if !noCache {
		var err error
		if rc, err = c.Config.Cache.Open(ctx); err != nil {
			return nil, err
		}
	}

	store, err := c.Config.Store.Open(ctx)
	if err != nil {
		_ = rc.Close()
		return nil, err
	}

	runner := pipeline.NewRunner(rc, cache.NewScopedKeyer(nil, appName+":"), store, c.Logger)
	runner.ResultTTL = c.Config.Cache.TTL
	return runner, nil
}

// =============================================================================
// Options Helpers
// =============================================================================

// decomposeFlags are shared by every command that runs a decomposition.
type decomposeFlags struct {
	measure      string
	eager        bool
	optimalCount int
	workers      int
	noCache      bool
	refresh      bool
}

func (f *decomposeFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&f.measure, "measure", "m", "", "overlapping modularity measure (lazar)")
	cmd.Flags().BoolVar(&f.eager, "eager", false, "record Newman modularity at every disconnection")
	cmd.Flags().IntVar(&f.optimalCount, "optimal", 0, "fix the optimal cluster count instead of maximising modularity")
	cmd.Flags().IntVar(&f.workers, "workers", 0, "betweenness workers (0 = one per CPU)")
	cmd.Flags().BoolVar(&f.noCache, "no-cache", false, "disable the result cache")
	cmd.Flags().BoolVar(&f.refresh, "refresh", false, "recompute even when a cached result exists")
}

// options merges the flags over the configured defaults; flags the user
// did not set fall back to the config file.
func (f *decomposeFlags) options(cmd *cobra.Command, def config.Decompose) pipeline.Options {
	opts := pipeline.Options{
		Measure:         def.Measure,
		EagerModularity: def.EagerModularity,
		OptimalCount:    def.OptimalCount,
		Workers:         def.Workers,
		Refresh:         f.refresh,
	}
	flags := cmd.Flags()
	if flags.Changed("measure") {
		opts.Measure = f.measure
	}
	if flags.Changed("eager") {
		opts.EagerModularity = f.eager
	}
	if flags.Changed("optimal") {
		opts.OptimalCount = f.optimalCount
	}
	if flags.Changed("workers") {
		opts.Workers = f.workers
	}
	return opts
}

// parseFormats parses a comma-separated format string into a slice.
func parseFormats(s string) []string {
	if s == "" {
		return nil
	}
	var formats []string
	for _, f := range strings.Split(s, ",") {
		if f = strings.TrimSpace(strings.ToLower(f)); f != "" {
			formats = append(formats, f)
		}
	}
	return formats
}
