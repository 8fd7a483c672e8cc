package cli

import (
	"encoding/json"
	stderrors "errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/matzehuels/conga/pkg/errors"
	"github.com/matzehuels/conga/pkg/pipeline"
	"github.com/matzehuels/conga/pkg/storage"
)

// runsCommand creates the runs command.
func (c *CLI) runsCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "runs",
		Short: "Inspect stored decomposition runs",
	}

	cmd.AddCommand(c.runsShowCommand())
	cmd.AddCommand(c.runsListCommand())

	return cmd
}

// openStore opens the configured run store or fails when none is configured.
func (c *CLI) openStore(cmd *cobra.Command) (storage.Store, error) {
	store, err := c.Config.Store.Open(cmd.Context())
	if err != nil {
		return nil, err
	}
	if store == nil {
		return nil, errors.New(errors.ErrCodeUnsupported, "no run store configured (store.backend = \"none\")")
	}
	return store, nil
}

// runsShowCommand creates the "runs show" subcommand.
func (c *CLI) runsShowCommand() *cobra.Command {
	var (
		count  int
		asJSON bool
	)

	cmd := &cobra.Command{
		Use:   "show RUN_ID",
		Short: "Print a stored run",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := c.openStore(cmd)
			if err != nil {
				return err
			}
			defer store.Close()

			run, err := store.Get(cmd.Context(), args[0])
			if err != nil {
				if stderrors.Is(err, storage.ErrRunNotFound) {
					return errors.Wrap(errors.ErrCodeRunNotFound, err, "run %s", args[0])
				}
				return err
			}

			if asJSON {
				enc := json.NewEncoder(stdout)
				enc.SetIndent("", "  ")
				return enc.Encode(run)
			}
			return printRun(run, count)
		},
	}

	cmd.Flags().IntVarP(&count, "count", "n", 0, "cluster count to print (default: the run's optimal count)")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print the stored document as JSON")
	return cmd
}

// runsListCommand creates the "runs list" subcommand.
func (c *CLI) runsListCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "list GRAPH_HASH|FILE",
		Short: "List the runs recorded for one graph",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			hash := args[0]
			if _, err := os.Stat(hash); err == nil {
				g, err := loadGraph(hash)
				if err != nil {
					return err
				}
				hash = pipeline.HashGraph(g)
			}

			store, err := c.openStore(cmd)
			if err != nil {
				return err
			}
			defer store.Close()

			runs, err := store.ListByGraph(cmd.Context(), hash)
			if err != nil {
				return err
			}
			if len(runs) == 0 {
				printInfo("No runs for %s", hash)
				return nil
			}
			fmt.Fprintln(stdout, runsTable(runs))
			return nil
		},
	}
}

// printRun prints the summary of run and its cover at count.
func printRun(run *storage.Run, count int) error {
	h, err := run.History()
	if err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "run %s", run.ID)
	}
	if count == 0 {
		count = run.OptimalCount
	}
	c, ok := h.Cover(count)
	if !ok {
		return errors.New(errors.ErrCodeInvalidInput, "run %s has no cover with %d clusters (have %v)", run.ID, count, h.Counts())
	}

	printKeyValue("Run", run.ID)
	printKeyValue("Graph", run.GraphHash)
	printKeyValue("Size", fmt.Sprintf("%d vertices, %d edges", run.Vertices, run.Edges))
	printKeyValue("Measure", run.Measure)
	printKeyValue("Created", run.CreatedAt.Local().Format(time.DateTime))
	printKeyValue("Duration", (time.Duration(run.DurationMS) * time.Millisecond).String())
	printKeyValue("Optimal", strconv.Itoa(run.OptimalCount))
	printKeyValue("Clusters", strconv.Itoa(count))
	if q, ok := h.Modularity(count); ok {
		printKeyValue("Modularity", fmt.Sprintf("%.4f", q))
	}
	printNewline()
	printCover(c, run.Labels)
	return nil
}

// runsTable renders runs as a table, oldest first.
func runsTable(runs []*storage.Run) string {
	rows := make([][]string, len(runs))
	for i, r := range runs {
		source := iconFresh
		if r.CacheHit {
			source = iconCached
		}
		rows[i] = []string{
			r.ID,
			r.CreatedAt.Local().Format(time.DateTime),
			strconv.Itoa(len(r.Snapshots)),
			strconv.Itoa(r.OptimalCount),
			source,
			(time.Duration(r.DurationMS) * time.Millisecond).String(),
		}
	}

	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(StyleDim).
		Headers("RUN", "CREATED", "COVERS", "OPTIMAL", "SOURCE", "DURATION").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 {
				return styleHeader
			}
			if col == 0 {
				return styleCell.Foreground(colorCyan)
			}
			return styleCell
		}).
		Render()
}
