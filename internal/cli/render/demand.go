package render

import (
	"bytes"
	"fmt"
	"sort"
	"strings"

	"github.com/olekukonko/tablewriter"

	"github.com/alexanderramin/timelines/internal/demand"
)

// sparkChars renders a normalized value in [0,1] as one of eight block
// heights, for a compact per-role/resource demand trend.
var sparkChars = []rune("▁▂▃▄▅▆▇█")

func sparkline(values []float64) string {
	if len(values) == 0 {
		return ""
	}
	max := values[0]
	for _, v := range values {
		if v > max {
			max = v
		}
	}
	if max == 0 {
		max = 1
	}
	var b strings.Builder
	for _, v := range values {
		idx := int((v / max) * float64(len(sparkChars)-1))
		if idx < 0 {
			idx = 0
		}
		if idx >= len(sparkChars) {
			idx = len(sparkChars) - 1
		}
		b.WriteRune(sparkChars[idx])
	}
	return b.String()
}

// Demand renders per-role hours, per-resource hours, and per-resource cost
// as a table with a sparkline trend column.
func Demand(curves demand.Curves) string {
	var buf bytes.Buffer
	table := tablewriter.NewWriter(&buf)
	table.SetHeader([]string{"Role", "Total Hrs", "Trend"})
	table.SetBorder(false)
	table.SetRowSeparator("-")

	roles := make([]string, 0, len(curves.HoursPerRole))
	for r := range curves.HoursPerRole {
		roles = append(roles, r)
	}
	sort.Strings(roles)
	for _, r := range roles {
		curve := curves.HoursPerRole[r]
		var total float64
		for _, v := range curve.Values {
			total += v
		}
		table.Append([]string{r, fmt.Sprintf("%.1f", total), sparkline(curve.Values)})
	}
	table.Render()

	var resBuf bytes.Buffer
	resTable := tablewriter.NewWriter(&resBuf)
	resTable.SetHeader([]string{"Resource", "Total Hrs", "Cost", "Trend"})
	resTable.SetBorder(false)
	resTable.SetRowSeparator("-")

	resources := make([]string, 0, len(curves.HoursPerResource))
	for r := range curves.HoursPerResource {
		resources = append(resources, r)
	}
	sort.Strings(resources)
	for _, r := range resources {
		curve := curves.HoursPerResource[r]
		var total float64
		for _, v := range curve.Values {
			total += v
		}
		var totalCost float64
		if costCurve := curves.CostPerResource[r]; len(costCurve.Values) > 0 {
			totalCost = costCurve.Values[len(costCurve.Values)-1]
		}
		resTable.Append([]string{r, fmt.Sprintf("%.1f", total), fmt.Sprintf("%.2f", totalCost), sparkline(curve.Values)})
	}
	resTable.Render()

	return Header("DEMAND BY ROLE") + "\n" + buf.String() + "\n" +
		Header("DEMAND BY RESOURCE") + "\n" + resBuf.String()
}
