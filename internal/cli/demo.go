package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/conga/pkg/cover"
	"github.com/matzehuels/conga/pkg/datasets"
	"github.com/matzehuels/conga/pkg/pipeline"
)

// demoCommand creates the demo command.
func (c *CLI) demoCommand() *cobra.Command {
	var flags decomposeFlags

	cmd := &cobra.Command{
		Use:   "demo",
		Short: "Detect communities in Zachary's karate club",
		Long: `Run CONGA on Zachary's karate club network (34 members, 78 ties),
print the modularity of every cluster count and the optimal cover, and
compare it with the two factions the club split into.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			runner, err := c.newRunner(ctx, flags.noCache)
			if err != nil {
				return err
			}
			defer runner.Close()

			opts := flags.options(cmd, c.Config.Decompose)
			opts.Graph = datasets.Zachary()
			opts.Formats = []string{pipeline.FormatJSON}

			res, err := c.execute(ctx, runner, opts)
			if err != nil {
				return err
			}

			printInfo("Zachary's karate club")
			if err := printResult(res, false, true); err != nil {
				return err
			}

			best, _ := res.Result.Cover(res.RenderedCount)
			printNewline()
			for i, faction := range datasets.ZacharyFactions() {
				j, shared := bestMatch(faction, best)
				printDetail("Faction %d: %d/%d members in community %d", i, shared, len(faction), j)
			}
			printNewline()
			printNextStep("Explore every cluster count", fmt.Sprintf("%s browse --demo", appName))
			return nil
		},
	}

	flags.register(cmd)
	return cmd
}

// bestMatch returns the community of c sharing the most members with group.
func bestMatch(group []int, c cover.Cover) (community, shared int) {
	in := make(map[int]bool, len(group))
	for _, v := range group {
		in[v] = true
	}
	community = -1
	for i, members := range c {
		n := 0
		for _, v := range members {
			if in[v] {
				n++
			}
		}
		if n > shared {
			community, shared = i, n
		}
	}
	return community, shared
}
