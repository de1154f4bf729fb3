package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/gandergraph/gander/pkg/engine"
)

// communitiesCommand creates the communities command for Louvain
// community detection.
func (c *CLI) communitiesCommand() *cobra.Command {
	var (
		maxLevels   int
		maxPasses   int
		minGain     float64
		output      string
		refresh     bool
		optionPairs []string
	)

	cmd := &cobra.Command{
		Use:   "communities [graph.json]",
		Short: "Detect communities with Louvain",
		Long: `Partition a graph into communities by modularity maximization.

The Louvain method greedily moves nodes between communities and then
aggregates, repeating until no move improves modularity. Edge weights
count toward modularity, so weighted graphs cluster by strength.

Results are cached when a cache backend is configured.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			input := ""
			if len(args) == 1 {
				input = args[0]
			}

			opts, err := parseOptionPairs(optionPairs)
			if err != nil {
				return err
			}
			if opts == nil {
				opts = map[string]any{}
			}
			if cmd.Flags().Changed("max-levels") {
				opts["maxLevels"] = maxLevels
			}
			if cmd.Flags().Changed("max-passes") {
				opts["maxPasses"] = maxPasses
			}
			if cmd.Flags().Changed("min-gain") {
				opts["minGain"] = minGain
			}

			return c.runCommunities(cmd.Context(), input, opts, output, refresh)
		},
	}

	cmd.Flags().IntVar(&maxLevels, "max-levels", 0, "aggregation level cap (0 = library default)")
	cmd.Flags().IntVar(&maxPasses, "max-passes", 0, "local move passes per level (0 = library default)")
	cmd.Flags().Float64Var(&minGain, "min-gain", 0, "minimum modularity gain to keep going")
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default: stdout)")
	cmd.Flags().BoolVar(&refresh, "refresh", false, "recompute even when a cached result exists")
	cmd.Flags().StringArrayVarP(&optionPairs, "option", "O", nil, "algorithm option as key=value (repeatable)")

	return cmd
}

// runCommunities detects communities and writes the partition.
func (c *CLI) runCommunities(ctx context.Context, input string, opts map[string]any, output string, refresh bool) error {
	data, err := loadGraph(input)
	if err != nil {
		return fmt.Errorf("load graph: %w", err)
	}

	eng, err := c.newEngine(ctx)
	if err != nil {
		return err
	}
	defer eng.Close()

	res, cacheHit, err := c.runTask(ctx, eng, engine.Request{
		Module:   "community",
		Function: "louvain",
		Graph:    data,
		Options:  opts,
		Refresh:  refresh,
	}, "Detecting communities")
	if err != nil {
		return fmt.Errorf("detect communities: %w", err)
	}
	if ctx.Err() != nil {
		return ctx.Err()
	}

	if err := writeJSONOutput(res, output); err != nil {
		return err
	}
	if output != "" {
		printSuccess("Community detection complete")
		if res.Communities != nil {
			printDetail("%d communities, modularity %.4f", res.Communities.NumCommunities, res.Communities.Modularity)
		}
		printFile(output)
		printStats(len(data.Nodes), len(data.Edges), cacheHit)
	}
	return nil
}
