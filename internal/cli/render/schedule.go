package render

import (
	"bytes"
	"fmt"
	"sort"

	"github.com/olekukonko/tablewriter"

	"github.com/alexanderramin/timelines/internal/domain"
	"github.com/alexanderramin/timelines/internal/timeline"
)

const dateLayout = "2006-01-02"

// Schedule renders a deterministic or stochastic Schedule as a table of
// per-process ES/EF/LS/LF/float, sorted by ES ascending then process id —
// the same ordering cpm.criticalPath uses for the critical path itself.
func Schedule(sched *domain.Schedule) string {
	if sched == nil {
		return Dim("no schedule")
	}
	if sched.Unavailable {
		var b bytes.Buffer
		b.WriteString(StyleRed.Render("UNAVAILABLE"))
		b.WriteString("\n")
		for _, w := range sched.Warnings {
			b.WriteString(Dim(w.Message) + "\n")
		}
		return b.String()
	}

	ids := make([]string, 0, len(sched.Nodes))
	for id := range sched.Nodes {
		ids = append(ids, id)
	}
	sort.SliceStable(ids, func(i, j int) bool {
		a, b := sched.Nodes[ids[i]], sched.Nodes[ids[j]]
		if !a.ES.Equal(b.ES) {
			return a.ES.Before(b.ES)
		}
		return ids[i] < ids[j]
	})

	critical := make(map[string]struct{}, len(sched.CriticalPath))
	for _, id := range sched.CriticalPath {
		critical[id] = struct{}{}
	}

	var buf bytes.Buffer
	table := tablewriter.NewWriter(&buf)
	table.SetHeader([]string{"Process", "ES", "EF", "LS", "LF", "Float", ""})
	table.SetBorder(false)
	table.SetRowSeparator("-")

	for _, id := range ids {
		n := sched.Nodes[id]
		_, isCritical := critical[id]
		table.Append([]string{
			id,
			n.ES.Format(dateLayout),
			n.EF.Format(dateLayout),
			n.LS.Format(dateLayout),
			n.LF.Format(dateLayout),
			fmt.Sprintf("%d", n.TotalFloat),
			CriticalBadge(isCritical),
		})
	}
	table.Render()

	header := Header(fmt.Sprintf("SCHEDULE (project end: %s)", sched.ProjectEnd.Format(dateLayout)))
	return header + "\n" + buf.String()
}

// CriticalPath renders an ordered critical-path list.
func CriticalPath(ids []string) string {
	if len(ids) == 0 {
		return Dim("no critical path")
	}
	var b bytes.Buffer
	b.WriteString(Header("CRITICAL PATH") + "\n")
	for i, id := range ids {
		b.WriteString(fmt.Sprintf("%d. %s\n", i+1, id))
	}
	return b.String()
}

// Timeline renders a list of (as_of, project_end) points.
func Timeline(points []timeline.Point) string {
	var buf bytes.Buffer
	table := tablewriter.NewWriter(&buf)
	table.SetHeader([]string{"As Of", "Project End"})
	table.SetBorder(false)
	table.SetRowSeparator("-")
	for _, p := range points {
		table.Append([]string{p.AsOf.Format(dateLayout), p.ProjectEnd.Format(dateLayout)})
	}
	table.Render()
	return Header("TIMELINE EVOLUTION") + "\n" + buf.String()
}
