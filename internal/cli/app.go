// Package cli builds the "timelines" command tree with cobra: an App
// struct bundling the use-case services, and one newXCmd(app) constructor
// per subcommand, each a direct one-shot RunE handler rather than an
// interactive shell (see DESIGN.md for why bubbletea/bubbles/huh are not
// carried).
package cli

import (
	"github.com/spf13/cobra"

	"github.com/alexanderramin/timelines/internal/service"
)

// App bundles the use-case services every subcommand needs.
type App struct {
	Scheduler service.Scheduler
	Tickets   service.TicketReconstructor // nil when no provider is configured
}

// NewRootCmd creates the top-level "timelines" command and registers all
// subcommands against app.
func NewRootCmd(app *App) *cobra.Command {
	root := &cobra.Command{
		Use:   "timelines",
		Short: "CPM project scheduler and demand planner",
		Long: `timelines schedules a process graph with the Critical Path Method,
projects role/resource demand, and reconstructs ticket burndown from a
labeled-issue event stream.`,
	}

	root.AddCommand(
		newScheduleCmd(app),
		newCriticalPathCmd(app),
		newDemandCmd(app),
		newTimelineCmd(app),
		newTicketsCmd(app),
		newRollupCmd(app),
	)

	return root
}
