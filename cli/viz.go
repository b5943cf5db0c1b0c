// ABOUTME: Visualization CLI commands
// ABOUTME: Handles buyer-group graph generation and the queue health dashboard
package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/harperreed/speedrun/viz"
)

func vizCmd(e *env) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "viz",
		Short: "Graph views of the workspace",
	}
	cmd.AddCommand(vizBuyerGroupCmd(e))
	return cmd
}

func vizBuyerGroupCmd(e *env) *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "buyer-group <company>",
		Short: "Graph a company's buyer group",
		Long: `Render the people at a company as a Graphviz graph. Nodes are colored by
last-contact staleness and labelled with rank and buyer group role.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			generator := viz.NewGraphGenerator(e.ws)
			dot, err := generator.GenerateBuyerGroupGraph(args[0])
			if err != nil {
				return err
			}

			if output != "" {
				return os.WriteFile(output, []byte(dot), 0644)
			}

			_, _ = fmt.Fprintln(cmd.OutOrStdout(), dot)
			return nil
		},
	}

	cmd.Flags().StringVar(&output, "output", "", "Output file (default: stdout)")
	return cmd
}

func dashboardCmd(e *env) *cobra.Command {
	return &cobra.Command{
		Use:   "dashboard",
		Short: "Show queue health by staleness and urgency",
		RunE: func(cmd *cobra.Command, _ []string) error {
			stats, err := viz.GenerateDashboardStats(e.ws)
			if err != nil {
				return fmt.Errorf("failed to generate dashboard stats: %w", err)
			}

			if e.flags.json {
				return printJSON(cmd.OutOrStdout(), stats)
			}
			_, _ = fmt.Fprint(cmd.OutOrStdout(), viz.RenderDashboard(stats))
			return nil
		},
	}
}
