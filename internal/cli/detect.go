package cli

import (
	"context"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/matzehuels/conga/pkg/errors"
	"github.com/matzehuels/conga/pkg/observability"
	"github.com/matzehuels/conga/pkg/pipeline"
)

// Label modes for printed and rendered covers.
const (
	labelsLabel = "label"
	labelsIndex = "index"
)

// detectOpts holds the flags of the detect command.
type detectOpts struct {
	decomposeFlags

	count   int
	labels  string
	output  string
	formats string
	title   string
	table   bool
}

// detectCommand creates the detect command.
func (c *CLI) detectCommand() *cobra.Command {
	opts := &detectOpts{}

	cmd := &cobra.Command{
		Use:   "detect FILE",
		Short: "Detect overlapping communities in a graph file",
		Long: `Detect overlapping communities with CONGA and print one cover.

FILE is node-link JSON (.json), a CSV edge list (.csv) or a whitespace
separated edge list. The printed cover is the one with the highest
overlapping modularity unless --count picks another cluster count.

Artifacts are written when --output or --format is given:
  conga detect karate.txt -o karate.svg
  conga detect karate.txt -f json,csv,svg`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runDetect(cmd, args[0], opts)
		},
	}

	opts.register(cmd)
	cmd.Flags().IntVarP(&opts.count, "count", "n", 0, "cluster count to print and render (default: optimal)")
	cmd.Flags().StringVarP(&opts.labels, "labels", "l", labelsLabel, "print members by label or index")
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file; the extension selects the format")
	cmd.Flags().StringVarP(&opts.formats, "format", "f", "", "comma-separated output formats (json, csv, dot, svg, png, pdf)")
	cmd.Flags().StringVar(&opts.title, "title", "", "title drawn above rendered graphs")
	cmd.Flags().BoolVar(&opts.table, "table", false, "print the modularity of every cluster count")

	return cmd
}

func (c *CLI) runDetect(cmd *cobra.Command, input string, opts *detectOpts) error {
	ctx := cmd.Context()

	if opts.labels != labelsLabel && opts.labels != labelsIndex {
		return errors.New(errors.ErrCodeInvalidInput, "--labels must be %q or %q", labelsLabel, labelsIndex)
	}
	formats, err := outputFormats(opts.output, opts.formats)
	if err != nil {
		return err
	}

	g, err := loadGraph(input)
	if err != nil {
		return err
	}

	runner, err := c.newRunner(ctx, opts.noCache)
	if err != nil {
		return err
	}
	defer runner.Close()

	popts := opts.options(cmd, c.Config.Decompose)
	popts.Graph = g
	popts.Formats = formats
	popts.Count = opts.count
	popts.Indices = opts.labels == labelsIndex
	popts.Title = opts.title

	res, err := c.execute(ctx, runner, popts)
	if err != nil {
		return err
	}

	if err := printResult(res, opts.labels == labelsIndex, opts.table); err != nil {
		return err
	}

	if len(formats) == 0 {
		return nil
	}
	paths, err := writeArtifacts(res.Artifacts, formats, opts.output, input)
	for _, p := range paths {
		printFile(p)
	}
	return err
}

// execute runs the pipeline behind a spinner that follows the
// decomposition's progress.
func (c *CLI) execute(ctx context.Context, runner *pipeline.Runner, opts pipeline.Options) (*pipeline.Result, error) {
	s := newSpinnerWithContext(ctx, "Decomposing...")
	counter := newIterationCounter(c.Logger, s)

	prev := observability.Decompose()
	observability.SetDecomposeHooks(counter)
	defer observability.SetDecomposeHooks(prev)

	prog := newProgress(c.Logger)
	s.Start()
	res, err := runner.Execute(ctx, opts)
	s.Stop()
	if err != nil {
		return nil, err
	}

	if res.CacheInfo.DecomposeHit {
		prog.done("Loaded cached decomposition")
	} else {
		prog.done(fmt.Sprintf("Decomposed %d vertices in %d iterations", res.Stats.Vertices, counter.Iterations()))
	}
	return res, nil
}

// printResult prints the summary and the rendered cover of res.
func printResult(res *pipeline.Result, indices, withTable bool) error {
	c, ok := res.Result.Cover(res.RenderedCount)
	if !ok {
		return errors.New(errors.ErrCodeInternal, "no cover at %d clusters", res.RenderedCount)
	}
	q, err := res.Result.Modularity(res.RenderedCount)
	if err != nil {
		return err
	}

	printStats(res.Stats.Vertices, res.Stats.Edges, res.CacheInfo.DecomposeHit)
	printKeyValue("Run", res.RunID)
	printKeyValue("Clusters", strconv.Itoa(res.RenderedCount))
	printKeyValue("Modularity", fmt.Sprintf("%.4f", q))
	if overlap := c.Overlapping(); len(overlap) > 0 {
		printKeyValue("Overlapping", strconv.Itoa(len(overlap)))
	}
	printNewline()

	if withTable {
		all, err := res.Result.Modularities()
		if err != nil {
			return err
		}
		optimal, err := res.Result.OptimalCount()
		if err != nil {
			return err
		}
		fmt.Fprintln(stdout, modularityTable(res.Result.Counts(), all, optimal))
		printNewline()
	}

	var labels []string
	if !indices && res.Document != nil {
		labels = res.Document.Labels
	}
	printCover(c, labels)
	return nil
}
