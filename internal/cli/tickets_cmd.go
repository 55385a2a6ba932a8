package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/alexanderramin/timelines/internal/cli/render"
	"github.com/alexanderramin/timelines/internal/contract"
)

func newTicketsCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tickets",
		Short: "Reconstruct ticket burndown and label state intervals",
	}
	cmd.AddCommand(newTicketsBurndownCmd(app), newTicketsStatesCmd(app))
	return cmd
}

func requireTickets(app *App) error {
	if app.Tickets == nil {
		return fmt.Errorf("cli: no ticket provider configured (set TIMELINES_GITHUB_TOKEN)")
	}
	return nil
}

func burndownRequest(repo, labelFilter, assigneeFilter, trackingLabel string, windowDays int) contract.BurndownRequest {
	req := contract.BurndownRequest{
		Repo:           repo,
		LabelFilter:    parseList(labelFilter),
		AssigneeFilter: parseList(assigneeFilter),
		TrackingLabel:  trackingLabel,
		TrackingLabels: parseList(trackingLabel),
	}
	end := time.Now().UTC()
	req.Window.Start = end.AddDate(0, 0, -windowDays)
	req.Window.End = end
	return req
}

func newTicketsBurndownCmd(app *App) *cobra.Command {
	var repo, labelFilter, assigneeFilter, trackingLabel string
	var windowDays int

	cmd := &cobra.Command{
		Use:   "burndown",
		Short: "Sum tracked story points per day over a trailing window",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := requireTickets(app); err != nil {
				return err
			}
			req := burndownRequest(repo, labelFilter, assigneeFilter, trackingLabel, windowDays)
			days, err := app.Tickets.Burndown(cmd.Context(), req)
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), render.Burndown(days))
			return nil
		},
	}

	cmd.Flags().StringVar(&repo, "repo", "", "owner/repo (required)")
	cmd.Flags().StringVar(&labelFilter, "label-filter", "", "comma-separated labels selecting which tickets to load")
	cmd.Flags().StringVar(&assigneeFilter, "assignee-filter", "", "comma-separated assignees selecting which tickets to load")
	cmd.Flags().StringVar(&trackingLabel, "tracking-label", "", "label to sum story points for (required)")
	cmd.Flags().IntVar(&windowDays, "window-days", 30, "trailing window size in days")
	cmd.MarkFlagRequired("repo")
	cmd.MarkFlagRequired("tracking-label")

	return cmd
}

func newTicketsStatesCmd(app *App) *cobra.Command {
	var repo, labelFilter, assigneeFilter, trackingLabels string
	var windowDays int

	cmd := &cobra.Command{
		Use:   "states",
		Short: "Reconstruct per-label presence intervals over a trailing window",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := requireTickets(app); err != nil {
				return err
			}
			req := burndownRequest(repo, labelFilter, assigneeFilter, "", windowDays)
			req.TrackingLabels = parseList(trackingLabels)
			byLabel, err := app.Tickets.StateIntervals(cmd.Context(), req)
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), render.StateIntervals(byLabel))
			return nil
		},
	}

	cmd.Flags().StringVar(&repo, "repo", "", "owner/repo (required)")
	cmd.Flags().StringVar(&labelFilter, "label-filter", "", "comma-separated labels selecting which tickets to load")
	cmd.Flags().StringVar(&assigneeFilter, "assignee-filter", "", "comma-separated assignees selecting which tickets to load")
	cmd.Flags().StringVar(&trackingLabels, "tracking-labels", "", "comma-separated labels to reconstruct intervals for (required)")
	cmd.Flags().IntVar(&windowDays, "window-days", 30, "trailing window size in days")
	cmd.MarkFlagRequired("repo")
	cmd.MarkFlagRequired("tracking-labels")

	return cmd
}
