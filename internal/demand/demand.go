// Package demand aggregates CPM schedule output into role- and
// resource-level hour and cost curves at one-calendar-day resolution.
package demand

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/alexanderramin/timelines/internal/bizday"
	"github.com/alexanderramin/timelines/internal/cpm"
	"github.com/alexanderramin/timelines/internal/domain"
	"github.com/alexanderramin/timelines/internal/graph"
)

const hoursPerAttention = 40.0

// Curve is a per-calendar-day series anchored at StartDate; Values[i] is
// the value for StartDate + i calendar days.
type Curve struct {
	StartDate time.Time
	Values    []float64
}

// Curves is the full result of a demand aggregation pass. CostPerResource
// is a cumulative-cost curve: Values[i] is the running total spend on
// that resource through calendar day i, not a per-day delta.
type Curves struct {
	HoursPerRole     map[string]Curve
	HoursPerResource map[string]Curve
	CostPerResource  map[string]Curve
}

// Aggregate computes hour and cost curves for g scheduled by sched, over
// doc's roles and resources. When weighted is true, each process's
// contribution is scaled by its start probability (cpm.StartProbability),
// matching the original's probability-weighted mode.
func Aggregate(g *graph.Graph, sched *domain.Schedule, doc *domain.ProjectDocument, weighted bool) Curves {
	startDate, numDays := window(sched)
	hoursPerRole := make(map[string]Curve, len(doc.Roles))
	for _, role := range doc.Roles {
		hoursPerRole[role] = Curve{StartDate: startDate, Values: make([]float64, numDays)}
	}

	for pid, n := range sched.Nodes {
		node, ok := g.Nodes[pid]
		if !ok {
			continue
		}
		rec := node.Rec
		weight := 1.0
		if weighted {
			weight = cpm.StartProbability(g, pid)
		}

		density := densityOverSlack(startDate, n.ES, n.LS, numDays, n.DurationEff)
		for role := range rec.Roles {
			attention := rec.Commitment[role]
			totalHours := attention * hoursPerAttention * float64(n.DurationEff) / 5.0
			curve, ok := hoursPerRole[role]
			if !ok {
				continue
			}
			for i, d := range density {
				curve.Values[i] += d * totalHours * weight
			}
		}
	}

	hoursPerResource := hoursPerResourceFromRoles(hoursPerRole, doc, numDays, startDate)
	costPerResource := costPerResource(hoursPerResource, doc, numDays, startDate)

	return Curves{
		HoursPerRole:     hoursPerRole,
		HoursPerResource: hoursPerResource,
		CostPerResource:  costPerResource,
	}
}

// window returns the demand window's start date and length in calendar
// days, spanning the earliest ES to the latest LF across all nodes.
func window(sched *domain.Schedule) (time.Time, int) {
	if len(sched.Nodes) == 0 {
		return sched.ProjectStart, 1
	}
	var start, end time.Time
	first := true
	for _, n := range sched.Nodes {
		if first || n.ES.Before(start) {
			start = n.ES
		}
		if first || n.LF.After(end) {
			end = n.LF
		}
		first = false
	}
	numDays := int(end.Sub(start).Hours()/24) + 1
	if numDays < 1 {
		numDays = 1
	}
	return start, numDays
}

// densityOverSlack distributes one process's work hours across every
// calendar day it could plausibly occupy: every business-day start offset
// between es and ls is treated as equally likely, and each contributes
// durationDays business days of occupied calendar slots. The result sums
// to 1 across the window (or is all zero if the process never starts
// within range).
func densityOverSlack(windowStart, es, ls time.Time, numDays, durationDays int) []float64 {
	counts := make([]float64, numDays)
	if durationDays <= 0 {
		return counts
	}
	var total float64
	first := bizday.NextBusinessDay(es)
	for start := first; start.Equal(first) || !start.After(ls); start = bizday.AddBusinessDays(start, 1) {
		date := start
		for c := 0; c < durationDays; c++ {
			idx := int(date.Sub(windowStart).Hours() / 24)
			if idx >= 0 && idx < numDays {
				counts[idx]++
				total++
			}
			date = bizday.AddBusinessDays(date, 1)
		}
	}
	if total > 0 {
		for i := range counts {
			counts[i] /= total
		}
	}
	return counts
}

func hoursPerResourceFromRoles(hoursPerRole map[string]Curve, doc *domain.ProjectDocument, numDays int, startDate time.Time) map[string]Curve {
	resourcesPerRole := make(map[string]int, len(doc.Roles))
	for _, r := range doc.Resources {
		for role := range r.Roles {
			resourcesPerRole[role]++
		}
	}

	out := make(map[string]Curve, len(doc.Resources))
	for rid, r := range doc.Resources {
		curve := Curve{StartDate: startDate, Values: make([]float64, numDays)}
		for role := range r.Roles {
			n := resourcesPerRole[role]
			if n == 0 {
				continue
			}
			roleCurve, ok := hoursPerRole[role]
			if !ok {
				continue
			}
			for i, v := range roleCurve.Values {
				curve.Values[i] += v / float64(n)
			}
		}
		out[rid] = curve
	}
	return out
}

// costPerResource builds each resource's cumulative spend curve: for a
// per-week rate, the weekly cost is spread evenly across its 7 calendar
// days; for a per-hour rate, each day's cost is that day's hours times
// the rate. Either way Values[i] is the running total through day i.
func costPerResource(hoursPerResource map[string]Curve, doc *domain.ProjectDocument, numDays int, startDate time.Time) map[string]Curve {
	out := make(map[string]Curve, len(doc.Resources))

	for rid, r := range doc.Resources {
		curve := Curve{StartDate: startDate, Values: make([]float64, numDays)}
		rate := decimal.NewFromFloat(r.Cost)
		cumulative := decimal.Zero

		if r.CostPerWeek {
			dailyRate := rate.Div(decimal.NewFromInt(7))
			for i := 0; i < numDays; i++ {
				cumulative = cumulative.Add(dailyRate)
				f, _ := cumulative.Round(2).Float64()
				curve.Values[i] = f
			}
		} else {
			hoursCurve := hoursPerResource[rid]
			for i := 0; i < numDays; i++ {
				var hours float64
				if i < len(hoursCurve.Values) {
					hours = hoursCurve.Values[i]
				}
				cumulative = cumulative.Add(rate.Mul(decimal.NewFromFloat(hours)))
				f, _ := cumulative.Round(2).Float64()
				curve.Values[i] = f
			}
		}
		out[rid] = curve
	}
	return out
}
