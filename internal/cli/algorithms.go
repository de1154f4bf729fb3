package cli

import (
	"encoding/json"
	"fmt"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/gandergraph/gander/pkg/engine"
)

// algorithmsCommand creates the algorithms command for listing the
// catalog.
func (c *CLI) algorithmsCommand() *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "algorithms",
		Short: "List every available algorithm",
		Long: `List every algorithm the engine can run, grouped by module.

The same catalog backs the HTTP discovery endpoint, so what this prints
is exactly what 'gander serve' advertises.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			algos := engine.Algorithms()
			if asJSON {
				data, err := json.MarshalIndent(algos, "", "  ")
				if err != nil {
					return err
				}
				fmt.Println(string(data))
				return nil
			}
			printAlgorithmTable(algos)
			return nil
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "emit the catalog as JSON")

	return cmd
}

// printAlgorithmTable renders the catalog as a bordered table.
func printAlgorithmTable(algos []engine.Algorithm) {
	headerStyle := lipgloss.NewStyle().Foreground(colorGray).Bold(true)

	rows := make([][]string, 0, len(algos))
	for _, a := range algos {
		scope := a.Scope
		if scope == "" {
			scope = "—"
		}
		rows = append(rows, []string{a.Module, a.ID, a.Name, a.Complexity, scope})
	}

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("Module", "ID", "Name", "Complexity", "Scope").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 {
				return headerStyle
			}
			if col == 0 {
				return lipgloss.NewStyle().Foreground(colorCyan)
			}
			return lipgloss.NewStyle().Foreground(colorWhite)
		})

	fmt.Println(t.Render())
}
