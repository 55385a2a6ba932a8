package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/alexanderramin/timelines/internal/cli/render"
	"github.com/alexanderramin/timelines/internal/contract"
	"github.com/alexanderramin/timelines/internal/schedcache"
)

const asOfLayout = "2006-01-02"

func parseAsOf(s string) (time.Time, error) {
	if s == "" {
		return time.Now().UTC(), nil
	}
	t, err := time.Parse(asOfLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("cli: --as-of must be YYYY-MM-DD: %w", err)
	}
	return t, nil
}

func newScheduleCmd(app *App) *cobra.Command {
	var docPath, asOf, terminals, mode string
	var k int
	var seed int64

	cmd := &cobra.Command{
		Use:   "schedule",
		Short: "Compute a deterministic or stochastic CPM schedule",
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

			req := contract.ScheduleRequest{
				AsOf:      asOfDate,
				Mode:      m,
				Terminals: parseList(terminals),
				Opts:      contract.ScheduleOptions{K: k, Seed: seed},
			}
			sched, err := app.Scheduler.Schedule(cmd.Context(), doc, req)
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), render.Schedule(sched))
			return nil
		},
	}

	cmd.Flags().StringVar(&docPath, "doc", "", "path to the project document JSON (required)")
	cmd.Flags().StringVar(&asOf, "as-of", "", "as-of date YYYY-MM-DD (default: today)")
	cmd.Flags().StringVar(&terminals, "terminals", "", "comma-separated terminal process ids to restrict to")
	cmd.Flags().StringVar(&mode, "mode", "deterministic", "deterministic or stochastic")
	cmd.Flags().IntVar(&k, "k", 0, "particle count for stochastic mode (default 100)")
	cmd.Flags().Int64Var(&seed, "seed", 0, "PRNG seed for stochastic mode")
	cmd.MarkFlagRequired("doc")

	return cmd
}

func newCriticalPathCmd(app *App) *cobra.Command {
	var docPath, asOf, terminals string

	cmd := &cobra.Command{
		Use:   "critical-path",
		Short: "Print the critical path for a deterministic schedule",
		RunE: func(cmd *cobra.Command, args []string) error {
			doc, err := loadDocument(docPath)
			if err != nil {
				return err
			}
			asOfDate, err := parseAsOf(asOf)
			if err != nil {
				return err
			}
			req := contract.ScheduleRequest{
				AsOf:      asOfDate,
				Mode:      schedcache.ModeDeterministic,
				Terminals: parseList(terminals),
			}
			sched, err := app.Scheduler.Schedule(cmd.Context(), doc, req)
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), render.CriticalPath(app.Scheduler.CriticalPath(sched)))
			return nil
		},
	}

	cmd.Flags().StringVar(&docPath, "doc", "", "path to the project document JSON (required)")
	cmd.Flags().StringVar(&asOf, "as-of", "", "as-of date YYYY-MM-DD (default: today)")
	cmd.Flags().StringVar(&terminals, "terminals", "", "comma-separated terminal process ids to restrict to")
	cmd.MarkFlagRequired("doc")

	return cmd
}
