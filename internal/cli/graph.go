package cli

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/gandergraph/gander/pkg/graph"
	"github.com/gandergraph/gander/pkg/stats"
)

// graphCommand groups graph file inspection subcommands.
func (c *CLI) graphCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "graph",
		Short: "Inspect graph files",
	}

	cmd.AddCommand(c.graphInfoCommand())

	return cmd
}

// graphInfoCommand creates the "graph info" subcommand.
func (c *CLI) graphInfoCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "info [graph.json]",
		Short: "Print basic facts about a graph",
		Long: `Print size, density, and connectivity facts about a graph read
from a file or stdin. Everything here is cheap to compute locally, so
no tasks are submitted and nothing touches the cache.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			input := ""
			if len(args) == 1 {
				input = args[0]
			}
			return c.runGraphInfo(input)
		},
	}
}

// runGraphInfo prints the summary block for one graph.
func (c *CLI) runGraphInfo(input string) error {
	data, err := loadGraph(input)
	if err != nil {
		return fmt.Errorf("load graph: %w", err)
	}
	g := graph.FromData(data)
	comps := stats.Components(g)

	largest := 0
	for _, size := range comps.Sizes {
		if size > largest {
			largest = size
		}
	}

	name := input
	if name == "" || name == "-" {
		name = "stdin"
	}

	fmt.Println(StyleTitle.Render(name))
	printKeyValue("Nodes", strconv.Itoa(g.NodeCount()))
	printKeyValue("Edges", strconv.Itoa(g.EdgeCount()))
	printKeyValue("Density", fmt.Sprintf("%.4f", stats.Density(g)))
	printKeyValue("Avg degree", fmt.Sprintf("%.2f", stats.AverageDegree(g)))
	printKeyValue("Components", strconv.Itoa(comps.Count))
	if comps.Count > 1 {
		printKeyValue("Largest", fmt.Sprintf("%d nodes", largest))
	}
	printNewline()

	target := input
	if target == "" || target == "-" {
		target = "graph.json"
	}
	printNextStep("Analyze", "gander stats --all "+target)

	return nil
}
