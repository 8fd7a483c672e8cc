package cli

import (
	"github.com/spf13/cobra"

	"github.com/matzehuels/conga/pkg/errors"
)

// renderOpts holds the flags of the render command.
type renderOpts struct {
	decomposeFlags

	count   int
	indices bool
	output  string
	formats string
	title   string
}

// renderCommand creates the render command. It shares the cached
// decomposition with detect and only writes artifacts.
func (c *CLI) renderCommand() *cobra.Command {
	opts := &renderOpts{}

	cmd := &cobra.Command{
		Use:   "render FILE",
		Short: "Draw a cover of a graph as DOT, SVG, PNG or PDF",
		Long: `Render one cover of FILE without printing it.

Vertices are coloured by community; vertices in several communities are
drawn as pies with one slice per community. PNG and PDF need rsvg-convert.

  conga render karate.txt -o karate.svg
  conga render karate.txt -n 4 -f svg,pdf`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runRender(cmd, args[0], opts)
		},
	}

	opts.register(cmd)
	cmd.Flags().IntVarP(&opts.count, "count", "n", 0, "cluster count to render (default: optimal)")
	cmd.Flags().BoolVar(&opts.indices, "indices", false, "label vertices with their index")
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file; the extension selects the format")
	cmd.Flags().StringVarP(&opts.formats, "format", "f", "", "comma-separated output formats (default: svg)")
	cmd.Flags().StringVar(&opts.title, "title", "", "title drawn above the graph")

	return cmd
}

func (c *CLI) runRender(cmd *cobra.Command, input string, opts *renderOpts) error {
	ctx := cmd.Context()

	formats := opts.formats
	if formats == "" && opts.output == "" {
		formats = "svg"
	}
	list, err := outputFormats(opts.output, formats)
	if err != nil {
		return err
	}
	if len(list) == 0 {
		return errors.New(errors.ErrCodeInvalidFormat, "no output format")
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
	popts.Formats = list
	popts.Count = opts.count
	popts.Indices = opts.indices
	popts.Title = opts.title

	res, err := c.execute(ctx, runner, popts)
	if err != nil {
		return err
	}

	paths, err := writeArtifacts(res.Artifacts, list, opts.output, input)
	if len(paths) > 0 {
		printSuccess("Rendered %d clusters", res.RenderedCount)
	}
	for _, p := range paths {
		printFile(p)
	}
	return err
}
