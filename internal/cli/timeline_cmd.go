package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/alexanderramin/timelines/internal/cli/render"
	"github.com/alexanderramin/timelines/internal/contract"
)

func newTimelineCmd(app *App) *cobra.Command {
	var docPath, terminals string

	cmd := &cobra.Command{
		Use:   "timeline",
		Short: "Show how the projected project end has evolved over history",
		RunE: func(cmd *cobra.Command, args []string) error {
			doc, err := loadDocument(docPath)
			if err != nil {
				return err
			}
			req := contract.TimelineRequest{
				Terminals: parseList(terminals),
				Now:       time.Now().UTC(),
			}
			points, err := app.Scheduler.TimelineEvolution(cmd.Context(), doc, req)
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), render.Timeline(points))
			return nil
		},
	}

	cmd.Flags().StringVar(&docPath, "doc", "", "path to the project document JSON (required)")
	cmd.Flags().StringVar(&terminals, "terminals", "", "comma-separated terminal process ids to restrict to")
	cmd.MarkFlagRequired("doc")

	return cmd
}
