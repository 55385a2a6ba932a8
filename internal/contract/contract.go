// Package contract holds the request/response shapes for the scheduling
// and ticket-reconstruction use cases in internal/service, kept separate
// from internal/domain so domain types don't accumulate per-use-case
// fields.
package contract

import (
	"time"

	"github.com/alexanderramin/timelines/internal/schedcache"
)

// ScheduleOptions bundles the Monte Carlo parameters for
// `schedule(document, as_of, mode, terminals?, K?, seed?)`, so Schedule
// keeps a single opts argument instead of two more positional ones.
type ScheduleOptions struct {
	// K is the particle count for stochastic mode. Zero means "use the
	// engine default".
	K int
	// Seed is the PRNG seed for stochastic mode. Two calls with the same
	// seed and K must produce bit-identical per-node distributions.
	Seed int64
}

// ScheduleRequest is the full input to a Schedule call.
type ScheduleRequest struct {
	AsOf      time.Time
	Mode      schedcache.Mode
	Terminals []string
	Opts      ScheduleOptions
}

// DemandRequest is the input to a DemandCurves call.
type DemandRequest struct {
	AsOf      time.Time
	Mode      schedcache.Mode
	Terminals []string
	Opts      ScheduleOptions
	Weighted  bool
}

// TimelineRequest is the input to a TimelineEvolution call.
type TimelineRequest struct {
	Terminals []string
	Now       time.Time
}

// BurndownRequest is the input to a ticket burndown or state-interval
// reconstruction. LabelFilter/AssigneeFilter select which tickets
// ListIssues returns; TrackingLabel/TrackingLabels name the label(s) whose
// presence over time is being reconstructed, which need not be the same
// set used to select the tickets.
type BurndownRequest struct {
	Repo           string
	LabelFilter    []string
	AssigneeFilter []string

	// TrackingLabel is the single label Burndown sums story points for.
	TrackingLabel string
	// TrackingLabels is the set of labels StateIntervals reconstructs
	// presence intervals for.
	TrackingLabels []string

	Window struct {
		Start time.Time
		End   time.Time
	}
}
