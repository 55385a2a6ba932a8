package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/alexanderramin/timelines/internal/cli/render"
	"github.com/alexanderramin/timelines/internal/contract"
	"github.com/alexanderramin/timelines/internal/schedcache"
)

func newDemandCmd(app *App) *cobra.Command {
	var docPath, asOf, terminals, mode string
	var k int
	var seed int64
	var weighted bool

	cmd := &cobra.Command{
		Use:   "demand",
		Short: "Project per-role and per-resource hours and cost",
		RunE: func(cmd *cobra.Command, args []string) error {
			doc, err := loadDocument(docPath)
			if err != nil {
				return err
			}
			asOfDate, err := parseAsOf(asOf)
			if err != nil {
				return err
			}

			m := schedcache.ModeDeterministic
			if mode == "stochastic" {
				m = schedcache.ModeStochastic
			}

			req := contract.DemandRequest{
				AsOf:      asOfDate,
				Mode:      m,
				Terminals: parseList(terminals),
				Opts:      contract.ScheduleOptions{K: k, Seed: seed},
				Weighted:  weighted,
			}
			curves, err := app.Scheduler.DemandCurves(cmd.Context(), doc, req)
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), render.Demand(curves))
			return nil
		},
	}

	cmd.Flags().StringVar(&docPath, "doc", "", "path to the project document JSON (required)")
	cmd.Flags().StringVar(&asOf, "as-of", "", "as-of date YYYY-MM-DD (default: today)")
	cmd.Flags().StringVar(&terminals, "terminals", "", "comma-separated terminal process ids to restrict to")
	cmd.Flags().StringVar(&mode, "mode", "deterministic", "deterministic or stochastic")
	cmd.Flags().IntVar(&k, "k", 0, "particle count for stochastic mode (default 100)")
	cmd.Flags().Int64Var(&seed, "seed", 0, "PRNG seed for stochastic mode")
	cmd.Flags().BoolVar(&weighted, "weighted", false, "weight demand by per-process start probability")
	cmd.MarkFlagRequired("doc")

	return cmd
}
