package main

import (
	"fmt"
	"time"

	"github.com/LdDl/walkroute"
	"github.com/pkg/errors"
	"github.com/safing/portbase/log"
	"github.com/spf13/cobra"
)

func newVerifyCommand() *cobra.Command {
	var pairs int
	var seed int64
	cmd := &cobra.Command{
		Use:   "verify",
		Short: "Compare A* costs against contraction hierarchies on random node pairs",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			// Expansion cap would turn long searches into false mismatches
			cfg.MaxExpansions = 0
			router, err := loadRouter(cmd.Context(), cfg)
			if err != nil {
				return err
			}
			st := time.Now()
			ref, err := walkroute.NewContractionReference(router.Graph())
			if err != nil {
				return err
			}
			log.Infof("walkroute: contraction hierarchies prepared in %v", time.Since(st))

			st = time.Now()
			report, err := walkroute.CrossCheck(cmd.Context(), router, ref, walkroute.SamplePairs(router.Graph(), pairs, seed))
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "heuristic:   %s\n", router.ActiveHeuristic())
			fmt.Fprintf(out, "pairs:       %d\n", report.Pairs)
			fmt.Fprintf(out, "agreed:      %d\n", report.Agreed)
			fmt.Fprintf(out, "unreachable: %d\n", report.Unreachable)
			fmt.Fprintf(out, "mismatches:  %d\n", len(report.Mismatches))
			fmt.Fprintf(out, "elapsed:     %v\n", time.Since(st))
			for _, m := range report.Mismatches {
				if m.Err != nil {
					fmt.Fprintf(out, "  %d -> %d: %s (reference %f)\n", m.Source, m.Target, m.Err, m.Reference)
					continue
				}
				fmt.Fprintf(out, "  %d -> %d: A* %f, reference %f\n", m.Source, m.Target, m.AStar, m.Reference)
			}
			if len(report.Mismatches) > 0 {
				return errors.Errorf("%d of %d pairs disagree", len(report.Mismatches), report.Pairs)
			}
			return nil
		},
	}
	cmd.Flags().IntVar(&pairs, "pairs", 1000, "Number of random node pairs")
	cmd.Flags().Int64Var(&seed, "seed", 1, "Seed for pairs sampling")
	return cmd
}
