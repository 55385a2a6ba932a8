package graph

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alexanderramin/timelines/internal/domain"
)

func deps(ids ...string) map[string]struct{} {
	m := map[string]struct{}{}
	for _, id := range ids {
		m[id] = struct{}{}
	}
	return m
}

func docWithChain(t *testing.T) *domain.ProjectDocument {
	t.Helper()
	doc := domain.NewProjectDocument(time.Now())
	day := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	doc.Processes["a"] = &domain.Process{
		ID: "a",
		History: []domain.HistoryEntry{
			{Date: day, Record: domain.EstimateRecord{Name: "A", Dependencies: deps(), DurationDays: 2}},
		},
		LastDate: day,
	}
	doc.Processes["b"] = &domain.Process{
		ID: "b",
		History: []domain.HistoryEntry{
			{Date: day, Record: domain.EstimateRecord{Name: "B", Dependencies: deps("a"), DurationDays: 3}},
		},
		LastDate: day,
	}
	doc.Processes["c"] = &domain.Process{
		ID: "c",
		History: []domain.HistoryEntry{
			{Date: day, Record: domain.EstimateRecord{Name: "C", Dependencies: deps("b"), DurationDays: 1}},
		},
		LastDate: day,
	}
	return doc
}

func TestBuild_DropsDanglingEdges(t *testing.T) {
	doc := domain.NewProjectDocument(time.Now())
	day := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	doc.Processes["a"] = &domain.Process{
		ID:       "a",
		History:  []domain.HistoryEntry{{Date: day, Record: domain.EstimateRecord{Dependencies: deps("deleted")}}},
		LastDate: day,
	}
	g := Build(doc, day)
	require.Contains(t, g.Nodes, "a")
	assert.Empty(t, g.Edges["a"])
}

func TestBuild_AsOfBeforeHistoryOmitsNode(t *testing.T) {
	doc := docWithChain(t)
	g := Build(doc, time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC))
	assert.Empty(t, g.Nodes)
}

func TestTopoSort_OrdersByDependency(t *testing.T) {
	doc := docWithChain(t)
	g := Build(doc, time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC))

	order, err := g.TopoSort()
	require.NoError(t, err)
	require.Equal(t, []string{"a", "b", "c"}, order)
}

func TestTopoSort_DetectsCycle(t *testing.T) {
	doc := domain.NewProjectDocument(time.Now())
	day := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	doc.Processes["a"] = &domain.Process{ID: "a", History: []domain.HistoryEntry{{Date: day, Record: domain.EstimateRecord{Dependencies: deps("b")}}}, LastDate: day}
	doc.Processes["b"] = &domain.Process{ID: "b", History: []domain.HistoryEntry{{Date: day, Record: domain.EstimateRecord{Dependencies: deps("a")}}}, LastDate: day}

	g := Build(doc, day)
	_, err := g.TopoSort()
	require.Error(t, err)
	var cycleErr *domain.CycleDetectedError
	assert.ErrorAs(t, err, &cycleErr)
}

func TestRestrict_KeepsOnlyAncestorsOfTerminals(t *testing.T) {
	doc := docWithChain(t)
	g := Build(doc, time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC))

	restricted, unavailable := g.Restrict([]string{"b"})
	assert.Empty(t, unavailable)
	assert.Contains(t, restricted.Nodes, "a")
	assert.Contains(t, restricted.Nodes, "b")
	assert.NotContains(t, restricted.Nodes, "c")
}

func TestRestrict_ReportsUnavailableTerminal(t *testing.T) {
	doc := docWithChain(t)
	g := Build(doc, time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC))

	_, unavailable := g.Restrict([]string{"ghost"})
	assert.Equal(t, []string{"ghost"}, unavailable)
}

func TestCollapseRollups_MergesMembersAndRedirectsEdges(t *testing.T) {
	doc := docWithChain(t)
	g := Build(doc, time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC))

	collapsed := g.CollapseRollups([]Rollup{{ID: "SG-1", Label: "rollup", ProcessID: []string{"a", "b"}}})

	assert.Contains(t, collapsed.Nodes, "SG-1")
	assert.Contains(t, collapsed.Nodes, "c")
	assert.NotContains(t, collapsed.Nodes, "a")
	assert.NotContains(t, collapsed.Nodes, "b")
	assert.Contains(t, collapsed.Edges["c"], "SG-1")
}
