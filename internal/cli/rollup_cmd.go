package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/alexanderramin/timelines/internal/cli/render"
	"github.com/alexanderramin/timelines/internal/graph"
)

// newRollupCmd builds the "rollup" subcommand: reconstructs the as-of
// process graph and collapses named groups of processes into single
// reporting nodes, for summarizing a large process tree without running
// a full schedule.
func newRollupCmd(app *App) *cobra.Command {
	var docPath, asOf, rollupSpec string

	cmd := &cobra.Command{
		Use:   "rollup",
		Short: "Collapse groups of processes into merged reporting nodes",
		RunE: func(cmd *cobra.Command, args []string) error {
			doc, err := loadDocument(docPath)
			if err != nil {
				return err
			}
			asOfDate, err := parseAsOf(asOf)
			if err != nil {
				return err
			}
			rollups, err := parseRollups(rollupSpec)
			if err != nil {
				return err
			}
			if len(rollups) == 0 {
				return fmt.Errorf("cli: --rollup is required, e.g. r1:Backend:a|b|c")
			}

			g := graph.Build(doc, asOfDate)
			collapsed := g.CollapseRollups(rollups)
			fmt.Fprint(cmd.OutOrStdout(), render.Rollup(collapsed, rollups))
			return nil
		},
	}

	cmd.Flags().StringVar(&docPath, "doc", "", "path to the project document JSON (required)")
	cmd.Flags().StringVar(&asOf, "as-of", "", "as-of date YYYY-MM-DD (default: today)")
	cmd.Flags().StringVar(&rollupSpec, "rollup", "", "rollup groups: id:label:pid1|pid2;id2:label2:pid3 (required)")
	cmd.MarkFlagRequired("doc")
	cmd.MarkFlagRequired("rollup")

	return cmd
}
