package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alexanderramin/timelines/internal/contract"
	"github.com/alexanderramin/timelines/internal/domain"
	"github.com/alexanderramin/timelines/internal/schedcache"
	"github.com/alexanderramin/timelines/internal/store"
)

// Each test below pins a concrete end-to-end scenario: fixed calendar
// dates and duration values, asserted against the literal values a
// CPM engine with this business-day/pin/history/restriction behavior
// must produce.

func mustDate(t *testing.T, s string) time.Time {
	t.Helper()
	d, err := time.Parse("2006-01-02", s)
	require.NoError(t, err)
	return d
}

// Simple chain: A->B->C, all duration 2 business days, start Monday.
func TestScenario_SimpleChain(t *testing.T) {
	start := mustDate(t, "2024-01-08") // Monday
	doc := domain.NewProjectDocument(start)
	s := store.New(doc)
	require.NoError(t, s.UpsertProcess("A", start, domain.EstimateRecord{
		Name: "A", Dependencies: map[string]struct{}{}, DurationDays: 2,
	}))
	require.NoError(t, s.UpsertProcess("B", start, domain.EstimateRecord{
		Name: "B", Dependencies: map[string]struct{}{"A": {}}, DurationDays: 2,
	}))
	require.NoError(t, s.UpsertProcess("C", start, domain.EstimateRecord{
		Name: "C", Dependencies: map[string]struct{}{"B": {}}, DurationDays: 2,
	}))

	sched, err := NewScheduler(16)
	require.NoError(t, err)
	out, err := sched.Schedule(context.Background(), doc, contract.ScheduleRequest{
		AsOf: start, Mode: schedcache.ModeDeterministic,
	})
	require.NoError(t, err)
	require.False(t, out.Unavailable)

	assert.True(t, out.Nodes["A"].ES.Equal(start))
	assert.True(t, out.Nodes["A"].EF.Equal(mustDate(t, "2024-01-10"))) // Wed
	assert.True(t, out.Nodes["B"].ES.Equal(mustDate(t, "2024-01-10")))
	assert.True(t, out.Nodes["B"].EF.Equal(mustDate(t, "2024-01-12"))) // Fri
	assert.True(t, out.Nodes["C"].ES.Equal(mustDate(t, "2024-01-12")))
	assert.True(t, out.Nodes["C"].EF.Equal(mustDate(t, "2024-01-16"))) // Tue next week

	assert.ElementsMatch(t, []string{"A", "B", "C"}, sched.CriticalPath(out))
	for _, pid := range []string{"A", "B", "C"} {
		assert.Equal(t, 0, out.Nodes[pid].TotalFloat, "pid=%s", pid)
	}
}

// Parallel branches: A->B, A->C, B->D, C->D. Durations A=1,B=5,C=2,D=1.
// Critical path [A,B,D] length 7; total_float(C)=3.
func TestScenario_ParallelBranches(t *testing.T) {
	start := mustDate(t, "2024-01-08") // Monday
	doc := domain.NewProjectDocument(start)
	s := store.New(doc)
	require.NoError(t, s.UpsertProcess("A", start, domain.EstimateRecord{
		Name: "A", Dependencies: map[string]struct{}{}, DurationDays: 1,
	}))
	require.NoError(t, s.UpsertProcess("B", start, domain.EstimateRecord{
		Name: "B", Dependencies: map[string]struct{}{"A": {}}, DurationDays: 5,
	}))
	require.NoError(t, s.UpsertProcess("C", start, domain.EstimateRecord{
		Name: "C", Dependencies: map[string]struct{}{"A": {}}, DurationDays: 2,
	}))
	require.NoError(t, s.UpsertProcess("D", start, domain.EstimateRecord{
		Name: "D", Dependencies: map[string]struct{}{"B": {}, "C": {}}, DurationDays: 1,
	}))

	sched, err := NewScheduler(16)
	require.NoError(t, err)
	out, err := sched.Schedule(context.Background(), doc, contract.ScheduleRequest{
		AsOf: start, Mode: schedcache.ModeDeterministic,
	})
	require.NoError(t, err)
	require.False(t, out.Unavailable)

	assert.ElementsMatch(t, []string{"A", "B", "D"}, sched.CriticalPath(out))
	assert.Equal(t, 3, out.Nodes["C"].TotalFloat)

	projectLength := out.ProjectEnd.Sub(out.ProjectStart)
	assert.GreaterOrEqual(t, int(projectLength.Hours()/24), 7)
}

// Started node clamp: A started Mon 2024-06-03, duration 10 business
// days; schedule as-of Mon 2024-06-10. Expected ES=LS=start, EF=LF=start+10bd,
// total_float=0.
func TestScenario_StartedNodeClamp(t *testing.T) {
	started := mustDate(t, "2024-06-03") // Monday
	asOf := mustDate(t, "2024-06-10")    // Monday
	doc := domain.NewProjectDocument(started)
	s := store.New(doc)
	require.NoError(t, s.UpsertProcess("A", started, domain.EstimateRecord{
		Name: "A", Dependencies: map[string]struct{}{}, DurationDays: 10,
		Started: true, StartedDate: started,
	}))

	sched, err := NewScheduler(16)
	require.NoError(t, err)
	out, err := sched.Schedule(context.Background(), doc, contract.ScheduleRequest{
		AsOf: asOf, Mode: schedcache.ModeDeterministic,
	})
	require.NoError(t, err)
	require.False(t, out.Unavailable)

	node := out.Nodes["A"]
	assert.True(t, node.ES.Equal(started))
	assert.True(t, node.LS.Equal(started))
	expectedEnd := mustDate(t, "2024-06-17") // Monday, 10 business days later
	assert.True(t, node.EF.Equal(expectedEnd))
	assert.True(t, node.LF.Equal(expectedEnd))
	assert.Equal(t, 0, node.TotalFloat)
}

// Started node clamp holds even when a successor has slack: A started
// Mon 2024-06-03, duration 5bd, feeds B (duration 5bd). Z runs in
// parallel with no dependencies and takes 20bd, so the project end is
// pinned by Z and B's own LF sits well past B's EF. A must still clamp
// to ES=LS=start, EF=LF=start+5bd, total_float=0 regardless of how much
// slack B has.
func TestScenario_StartedNodeClamp_SuccessorHasSlack(t *testing.T) {
	started := mustDate(t, "2024-06-03") // Monday
	doc := domain.NewProjectDocument(started)
	s := store.New(doc)
	require.NoError(t, s.UpsertProcess("A", started, domain.EstimateRecord{
		Name: "A", Dependencies: map[string]struct{}{}, DurationDays: 5,
		Started: true, StartedDate: started,
	}))
	require.NoError(t, s.UpsertProcess("B", started, domain.EstimateRecord{
		Name: "B", Dependencies: map[string]struct{}{"A": {}}, DurationDays: 5,
	}))
	require.NoError(t, s.UpsertProcess("Z", started, domain.EstimateRecord{
		Name: "Z", Dependencies: map[string]struct{}{}, DurationDays: 20,
	}))

	sched, err := NewScheduler(16)
	require.NoError(t, err)
	out, err := sched.Schedule(context.Background(), doc, contract.ScheduleRequest{
		AsOf: started, Mode: schedcache.ModeDeterministic,
	})
	require.NoError(t, err)
	require.False(t, out.Unavailable)

	node := out.Nodes["A"]
	assert.True(t, node.ES.Equal(started))
	assert.True(t, node.LS.Equal(started))
	expectedEnd := mustDate(t, "2024-06-10") // Monday, 5 business days later
	assert.True(t, node.EF.Equal(expectedEnd), "EF=%s want %s", node.EF, expectedEnd)
	assert.True(t, node.LF.Equal(expectedEnd), "LF=%s want %s", node.LF, expectedEnd)
	assert.Equal(t, 0, node.TotalFloat)

	// B has real slack: Z's 20bd path pushes the project end well past
	// B's own 5bd-after-A finish.
	assert.Greater(t, out.Nodes["B"].TotalFloat, 0)
}

// History infimum: X has history {2024-01-05: duration=5; 2024-02-01:
// duration=10}. as_of 2024-01-20 -> duration 5; as_of 2024-02-15 ->
// duration 10; as_of 2024-01-01 -> X omitted.
func TestScenario_HistoryInfimum(t *testing.T) {
	firstEntry := mustDate(t, "2024-01-05")
	secondEntry := mustDate(t, "2024-02-01")
	doc := domain.NewProjectDocument(firstEntry)
	s := store.New(doc)
	require.NoError(t, s.UpsertProcess("X", firstEntry, domain.EstimateRecord{
		Name: "X", Dependencies: map[string]struct{}{}, DurationDays: 5,
	}))
	require.NoError(t, s.UpsertProcess("X", secondEntry, domain.EstimateRecord{
		Name: "X", Dependencies: map[string]struct{}{}, DurationDays: 10,
	}))

	sched, err := NewScheduler(16)
	require.NoError(t, err)

	early, err := sched.Schedule(context.Background(), doc, contract.ScheduleRequest{
		AsOf: mustDate(t, "2024-01-20"), Mode: schedcache.ModeDeterministic,
	})
	require.NoError(t, err)
	assert.Equal(t, 5, early.Nodes["X"].DurationEff)

	late, err := sched.Schedule(context.Background(), doc, contract.ScheduleRequest{
		AsOf: mustDate(t, "2024-02-15"), Mode: schedcache.ModeDeterministic,
	})
	require.NoError(t, err)
	assert.Equal(t, 10, late.Nodes["X"].DurationEff)

	before, err := sched.Schedule(context.Background(), doc, contract.ScheduleRequest{
		AsOf: mustDate(t, "2024-01-01"), Mode: schedcache.ModeDeterministic,
	})
	require.NoError(t, err)
	_, present := before.Nodes["X"]
	assert.False(t, present)
}

// Termination restriction: {A->B->C, A->D->E}; terminals={C}. Only
// {A,B,C} considered; D and E absent.
func TestScenario_TerminationRestriction(t *testing.T) {
	start := mustDate(t, "2024-01-08") // Monday
	doc := domain.NewProjectDocument(start)
	s := store.New(doc)
	require.NoError(t, s.UpsertProcess("A", start, domain.EstimateRecord{
		Name: "A", Dependencies: map[string]struct{}{}, DurationDays: 1,
	}))
	require.NoError(t, s.UpsertProcess("B", start, domain.EstimateRecord{
		Name: "B", Dependencies: map[string]struct{}{"A": {}}, DurationDays: 1,
	}))
	require.NoError(t, s.UpsertProcess("C", start, domain.EstimateRecord{
		Name: "C", Dependencies: map[string]struct{}{"B": {}}, DurationDays: 1,
	}))
	require.NoError(t, s.UpsertProcess("D", start, domain.EstimateRecord{
		Name: "D", Dependencies: map[string]struct{}{"A": {}}, DurationDays: 1,
	}))
	require.NoError(t, s.UpsertProcess("E", start, domain.EstimateRecord{
		Name: "E", Dependencies: map[string]struct{}{"D": {}}, DurationDays: 1,
	}))

	sched, err := NewScheduler(16)
	require.NoError(t, err)
	out, err := sched.Schedule(context.Background(), doc, contract.ScheduleRequest{
		AsOf: start, Mode: schedcache.ModeDeterministic, Terminals: []string{"C"},
	})
	require.NoError(t, err)
	require.False(t, out.Unavailable)

	_, hasA := out.Nodes["A"]
	_, hasB := out.Nodes["B"]
	_, hasC := out.Nodes["C"]
	_, hasD := out.Nodes["D"]
	_, hasE := out.Nodes["E"]
	assert.True(t, hasA)
	assert.True(t, hasB)
	assert.True(t, hasC)
	assert.False(t, hasD)
	assert.False(t, hasE)
}
