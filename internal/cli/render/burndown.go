package render

import (
	"bytes"
	"fmt"
	"sort"

	"github.com/olekukonko/tablewriter"

	"github.com/alexanderramin/timelines/internal/tickets"
)

// Burndown renders a per-day story-point burndown table.
func Burndown(days []tickets.DayTotal) string {
	var buf bytes.Buffer
	table := tablewriter.NewWriter(&buf)
	table.SetHeader([]string{"Date", "Story Points"})
	table.SetBorder(false)
	table.SetRowSeparator("-")
	for _, d := range days {
		table.Append([]string{d.Date.Format(dateLayout), fmt.Sprintf("%.1f", d.StoryPoints)})
	}
	table.Render()
	return Header("BURNDOWN") + "\n" + buf.String()
}

// StateIntervals renders reconstructed label presence intervals, one
// section per label, sorted by Begin ascending.
func StateIntervals(byLabel map[string][]tickets.Interval) string {
	var buf bytes.Buffer
	labels := make([]string, 0, len(byLabel))
	for l := range byLabel {
		labels = append(labels, l)
	}
	sort.Strings(labels)

	for _, label := range labels {
		ivs := append([]tickets.Interval(nil), byLabel[label]...)
		sort.SliceStable(ivs, func(i, j int) bool { return ivs[i].Begin.Before(ivs[j].Begin) })

		buf.WriteString(Header(fmt.Sprintf("LABEL: %s", label)) + "\n")
		table := tablewriter.NewWriter(&buf)
		table.SetHeader([]string{"Begin", "End"})
		table.SetBorder(false)
		table.SetRowSeparator("-")
		for _, iv := range ivs {
			table.Append([]string{iv.Begin.Format(dateLayout), iv.End.Format(dateLayout)})
		}
		table.Render()
		buf.WriteString("\n")
	}
	return buf.String()
}
