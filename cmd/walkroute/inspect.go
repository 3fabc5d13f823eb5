package main

import (
	"fmt"
	"io"

	"github.com/LdDl/walkroute"
	"github.com/spf13/cobra"
	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"
)

func newInspectCommand() *cobra.Command {
	var tolerance float64
	cmd := &cobra.Command{
		Use:   "inspect",
		Short: "Print graph statistics and heuristic consistency report",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			g, err := walkroute.LoadGraph(cmd.Context(), cfg.GraphFile, cfg.LoaderOptions()...)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			printStats(out, g.Stats())
			printDegrees(out, degreeHistogram(g))

			report, err := walkroute.CheckHeuristicConsistency(g, tolerance)
			fmt.Fprintf(out, "consistency: %d edges checked, %d violations\n", report.Checked, report.Violations)
			if err != nil {
				fmt.Fprintf(out, "  worst edge %d -> %d: weight %f is %f m shorter than straight line\n", report.Worst.Source, report.Worst.Target, report.Worst.Weight, report.WorstShortfall)
				fmt.Fprintln(out, "  geodesic heuristic is inadmissible, 'auto' falls back to zero heuristic")
			}
			return nil
		},
	}
	cmd.Flags().Float64Var(&tolerance, "tolerance", walkroute.DefaultConsistencyTolerance, "Allowed shortfall (meters) of edge weight against straight line")
	return cmd
}

func printStats(out io.Writer, stats walkroute.GraphStats) {
	fmt.Fprintf(out, "nodes:             %d\n", stats.Nodes)
	fmt.Fprintf(out, "edges:             %d\n", stats.Edges)
	fmt.Fprintf(out, "directed:          %t\n", stats.Directed)
	fmt.Fprintf(out, "components:        %d\n", stats.Components)
	fmt.Fprintf(out, "largest component: %d\n", stats.LargestComponent)
	fmt.Fprintf(out, "isolated nodes:    %d\n", stats.IsolatedNodes)
	fmt.Fprintf(out, "max degree:        %d\n", stats.MaxDegree)
	fmt.Fprintf(out, "mean degree:       %.3f\n", stats.MeanDegree)
	fmt.Fprintf(out, "total weight:      %.3f\n", stats.TotalWeight)
}

// degreeHistogram counts nodes per degree (incoming plus outgoing edges)
func degreeHistogram(g *walkroute.Graph) map[int]int {
	degree := make(map[walkroute.NodeID]int, g.NumNodes())
	for _, e := range g.Edges() {
		degree[e.Source]++
		if e.Source != e.Target {
			degree[e.Target]++
		}
	}
	histogram := make(map[int]int)
	for _, node := range g.Nodes() {
		histogram[degree[node.ID]]++
	}
	return histogram
}

func printDegrees(out io.Writer, histogram map[int]int) {
	degrees := maps.Keys(histogram)
	slices.Sort(degrees)
	fmt.Fprintln(out, "degree histogram:")
	for _, d := range degrees {
		fmt.Fprintf(out, "  %3d: %d\n", d, histogram[d])
	}
}
