package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/gandergraph/gander/pkg/engine"
	"github.com/gandergraph/gander/pkg/graph"
	"github.com/gandergraph/gander/pkg/stats"
)

// statsCommand creates the stats command for computing graph
// statistics.
func (c *CLI) statsCommand() *cobra.Command {
	var (
		all         bool
		nodesCSV    string
		normalized  bool
		output      string
		refresh     bool
		optionPairs []string
	)

	cmd := &cobra.Command{
		Use:   "stats <statistic> [graph.json]",
		Short: "Compute graph statistics",
		Long: `Compute a statistic over a graph read from a file or stdin.

Node statistics (degree, closeness, betweenness, ...) produce one value
per node; graph statistics (density, diameter, ...) produce a single
number. Run 'gander algorithms' for the full catalog.

With --all, every statistic runs concurrently against the same graph
and the combined results are emitted as one JSON document.

Results are cached when a cache backend is configured.`,
		Args: cobra.RangeArgs(0, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if all {
				if len(args) > 1 {
					return fmt.Errorf("--all takes at most a graph file")
				}
				input := ""
				if len(args) == 1 {
					input = args[0]
				}
				return c.runAllStats(cmd.Context(), input, output, refresh)
			}

			if len(args) == 0 {
				return fmt.Errorf("statistic name required (see 'gander algorithms')")
			}
			input := ""
			if len(args) == 2 {
				input = args[1]
			}

			opts, err := parseOptionPairs(optionPairs)
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("normalized") {
				if opts == nil {
					opts = map[string]any{}
				}
				opts["normalized"] = normalized
			}
			return c.runStat(cmd.Context(), args[0], input, parseNodeList(nodesCSV), opts, output, refresh)
		},
	}

	cmd.Flags().BoolVar(&all, "all", false, "compute every statistic concurrently")
	cmd.Flags().StringVar(&nodesCSV, "nodes", "", "comma-separated node subset (default: all nodes)")
	cmd.Flags().BoolVar(&normalized, "normalized", true, "normalize centrality scores")
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default: stdout)")
	cmd.Flags().BoolVar(&refresh, "refresh", false, "recompute even when a cached result exists")
	cmd.Flags().StringArrayVarP(&optionPairs, "option", "O", nil, "algorithm option as key=value (repeatable)")

	return cmd
}

// runStat computes a single statistic and writes the result.
func (c *CLI) runStat(ctx context.Context, function, input string, nodes []graph.ID, opts map[string]any, output string, refresh bool) error {
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
		Module:   "stats",
		Function: function,
		Graph:    data,
		Nodes:    nodes,
		Options:  opts,
		Refresh:  refresh,
	}, "Computing "+function)
	if err != nil {
		return fmt.Errorf("compute %s: %w", function, err)
	}
	if ctx.Err() != nil {
		return ctx.Err()
	}

	if err := writeJSONOutput(res, output); err != nil {
		return err
	}
	if output != "" {
		printSuccess("%s complete", function)
		printFile(output)
		printStats(len(data.Nodes), len(data.Edges), cacheHit)
	}
	return nil
}

// runAllStats computes the full statistics catalog concurrently. On a
// terminal the tasks render as a live progress board; otherwise plain
// log lines track completion.
func (c *CLI) runAllStats(ctx context.Context, input, output string, refresh bool) error {
	data, err := loadGraph(input)
	if err != nil {
		return fmt.Errorf("load graph: %w", err)
	}

	eng, err := c.newEngine(ctx)
	if err != nil {
		return err
	}
	defer eng.Close()

	catalog := stats.Catalog()
	names := make([]string, len(catalog))
	for i, d := range catalog {
		names[i] = d.ID
	}

	results, err := c.runStatBoard(ctx, eng, data, names, refresh)
	if err != nil {
		return err
	}

	if err := writeJSONOutput(results, output); err != nil {
		return err
	}
	if output != "" {
		printSuccess("%d statistics complete", len(results))
		printFile(output)
		printStats(len(data.Nodes), len(data.Edges), false)
	}
	return nil
}
