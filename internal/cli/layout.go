package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/gandergraph/gander/pkg/engine"
)

// layoutCommand creates the layout command for computing node
// positions.
func (c *CLI) layoutCommand() *cobra.Command {
	var (
		scale       float64
		seed        uint64
		iterations  int
		tolerance   float64
		resolution  float64
		root        string
		output      string
		refresh     bool
		optionPairs []string
	)

	cmd := &cobra.Command{
		Use:   "layout <algorithm> [graph.json]",
		Short: "Compute node positions for drawing",
		Long: `Compute a 2D position for every node of a graph.

Force-directed layouts (fruchterman_reingold, kamada_kawai) iterate
toward an equilibrium and honor --iterations and --tolerance; seeded
layouts (random, fruchterman_reingold, spectral) are reproducible for a
fixed --seed. Run 'gander algorithms' for the full catalog.

Results are cached when a cache backend is configured.`,
		Args: cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			input := ""
			if len(args) == 2 {
				input = args[1]
			}

			opts, err := parseOptionPairs(optionPairs)
			if err != nil {
				return err
			}
			if opts == nil {
				opts = map[string]any{}
			}
			if cmd.Flags().Changed("scale") {
				opts["scale"] = scale
			}
			if cmd.Flags().Changed("tolerance") {
				opts["tolerance"] = tolerance
			}
			if cmd.Flags().Changed("resolution") {
				opts["resolution"] = resolution
			}
			if cmd.Flags().Changed("root") {
				opts["root"] = root
			}

			// Config defaults fill in when the flag is untouched.
			switch {
			case cmd.Flags().Changed("seed"):
				opts["seed"] = seed
			case c.Config.Defaults.Seed != 0:
				opts["seed"] = c.Config.Defaults.Seed
			}
			switch {
			case cmd.Flags().Changed("iterations"):
				opts["iterations"] = iterations
			case c.Config.Defaults.Iterations != 0:
				opts["iterations"] = c.Config.Defaults.Iterations
			}

			return c.runLayout(cmd.Context(), args[0], input, opts, output, refresh)
		},
	}

	cmd.Flags().Float64Var(&scale, "scale", 1.0, "extent of the layout around its center")
	cmd.Flags().Uint64Var(&seed, "seed", 0, "seed for randomized layouts")
	cmd.Flags().IntVar(&iterations, "iterations", 0, "iteration budget for force-directed layouts")
	cmd.Flags().Float64Var(&tolerance, "tolerance", 0, "convergence threshold for force-directed layouts")
	cmd.Flags().Float64Var(&resolution, "resolution", 0, "turn spacing for the spiral layout")
	cmd.Flags().StringVar(&root, "root", "", "root node for the bfs_layers layout")
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default: stdout)")
	cmd.Flags().BoolVar(&refresh, "refresh", false, "recompute even when a cached result exists")
	cmd.Flags().StringArrayVarP(&optionPairs, "option", "O", nil, "algorithm option as key=value (repeatable)")

	return cmd
}

// runLayout loads the graph, computes the layout, and writes the
// positions.
func (c *CLI) runLayout(ctx context.Context, algorithm, input string, opts map[string]any, output string, refresh bool) error {
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
		Module:   "layout",
		Function: algorithm,
		Graph:    data,
		Options:  opts,
		Refresh:  refresh,
	}, fmt.Sprintf("Computing %s layout", algorithm))
	if err != nil {
		return fmt.Errorf("compute layout: %w", err)
	}
	if ctx.Err() != nil {
		return ctx.Err()
	}

	if err := writeJSONOutput(res, output); err != nil {
		return err
	}
	if output != "" {
		printSuccess("Layout complete")
		printFile(output)
		printStats(len(data.Nodes), len(data.Edges), cacheHit)
	}
	return nil
}
