package render

import (
	"bytes"
	"sort"
	"strings"

	"github.com/olekukonko/tablewriter"

	"github.com/alexanderramin/timelines/internal/graph"
)

// Rollup renders a collapsed graph's node table: one row per surviving
// process plus one row per merged rollup, showing each node's kind and its
// predecessors after CollapseRollups redirected boundary-crossing edges.
func Rollup(g *graph.Graph, rollups []graph.Rollup) string {
	if g == nil || len(g.Nodes) == 0 {
		return Dim("no graph")
	}

	rollupIDs := make(map[string]struct{}, len(rollups))
	for _, r := range rollups {
		rollupIDs[r.ID] = struct{}{}
	}

	ids := make([]string, 0, len(g.Nodes))
	for id := range g.Nodes {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	var buf bytes.Buffer
	table := tablewriter.NewWriter(&buf)
	table.SetHeader([]string{"Node", "Kind", "Predecessors"})
	table.SetBorder(false)
	table.SetRowSeparator("-")

	for _, id := range ids {
		kind := "process"
		if _, ok := rollupIDs[id]; ok {
			kind = "rollup"
		}
		preds := make([]string, 0, len(g.Edges[id]))
		for pred := range g.Edges[id] {
			preds = append(preds, pred)
		}
		sort.Strings(preds)
		table.Append([]string{id, kind, strings.Join(preds, ", ")})
	}
	table.Render()

	return Header("COLLAPSED GRAPH") + "\n" + buf.String()
}
