// Package cpm implements the Critical Path Method forward/backward pass
// over a reconstructed process graph (internal/graph), in both a
// deterministic mode and a Monte Carlo stochastic mode.
package cpm

import (
	"context"
	"sort"
	"time"

	"github.com/alexanderramin/timelines/internal/bizday"
	"github.com/alexanderramin/timelines/internal/domain"
	"github.com/alexanderramin/timelines/internal/graph"
)

// Scenario selects which duration modifier applies to every node
// (Optimistic/Normal/Pessimistic).
type Scenario int

const (
	ScenarioNormal Scenario = iota
	ScenarioOptimistic
	ScenarioPessimistic
)

// effectiveDuration returns the scenario-adjusted duration in business
// days for rec, falling back to DurationDays when the optimistic/
// pessimistic fields are unset.
func effectiveDuration(rec domain.EstimateRecord, scenario Scenario) int {
	switch scenario {
	case ScenarioOptimistic:
		if rec.OptimisticDays > 0 {
			return rec.OptimisticDays
		}
	case ScenarioPessimistic:
		if rec.PessimisticDays > 0 {
			return rec.PessimisticDays
		}
	}
	return rec.DurationDays
}

// Run executes the deterministic CPM forward and backward pass over g,
// anchored at projectStart, using the given scenario. Cancelling ctx
// aborts the pass and returns domain.ErrCancelRequested.
func Run(ctx context.Context, g *graph.Graph, projectStart time.Time, scenario Scenario) (*domain.Schedule, error) {
	order, err := g.TopoSort()
	if err != nil {
		return nil, err
	}

	nodes := make(map[string]domain.ScheduleNode, len(g.Nodes))
	start := bizday.NextBusinessDay(bizday.StripTime(projectStart))
	var warnings []domain.Warning

	if err := forward(ctx, g, order, start, scenario, nodes, &warnings); err != nil {
		return nil, err
	}

	projectEnd := start
	for _, n := range nodes {
		if n.EF.After(projectEnd) {
			projectEnd = n.EF
		}
	}

	if err := backward(ctx, g, order, projectEnd, nodes); err != nil {
		return nil, err
	}

	sched := &domain.Schedule{
		ProjectStart: start,
		ProjectEnd:   projectEnd,
		Nodes:        nodes,
		Warnings:     warnings,
	}
	sched.CriticalPath = criticalPath(nodes)
	return sched, nil
}

func forward(ctx context.Context, g *graph.Graph, order []string, start time.Time, scenario Scenario, nodes map[string]domain.ScheduleNode, warnings *[]domain.Warning) error {
	for _, pid := range order {
		select {
		case <-ctx.Done():
			return domain.ErrCancelRequested
		default:
		}

		n := g.Nodes[pid]
		rec := n.Rec

		esFromPreds := start
		for dep := range g.Edges[pid] {
			if pn, ok := nodes[dep]; ok && pn.EF.After(esFromPreds) {
				esFromPreds = pn.EF
			}
		}

		var es time.Time
		pinOverride := false
		switch {
		case rec.Started:
			es = bizday.StripTime(rec.StartedDate)
		case rec.StartEarliestStart && rec.HasEarliestStart:
			es = bizday.StripTime(rec.EarliestStart)
			if es.Before(esFromPreds) {
				pinOverride = true
			}
		default:
			es = esFromPreds
			if rec.HasEarliestStart && rec.EarliestStart.After(es) {
				es = bizday.StripTime(rec.EarliestStart)
			}
			if rec.DelayStartDays > 0 {
				delayed := bizday.AddBusinessDays(esFromPreds, rec.DelayStartDays)
				if delayed.After(es) {
					es = delayed
				}
			}
		}

		duration := effectiveDuration(rec, scenario)
		ef := bizday.AddBusinessDays(es, duration)

		if rec.Done {
			doneDate := bizday.StripTime(rec.DoneDate)
			if ef.After(doneDate) {
				duration = bizday.CountBusinessDays(es, doneDate)
				ef = doneDate
			}
		}

		nodes[pid] = domain.ScheduleNode{
			ProcessID:              pid,
			ES:                     es,
			EF:                     ef,
			DurationEff:            duration,
			PinOverridesDependency: pinOverride,
		}
		if pinOverride {
			*warnings = append(*warnings, domain.Warning{
				Code:      "PinOverridesDependency",
				ProcessID: pid,
				Message:   "start_earliest_start pinned ES earlier than dependencies allow",
			})
		}
	}
	return nil
}

func backward(ctx context.Context, g *graph.Graph, order []string, projectEnd time.Time, nodes map[string]domain.ScheduleNode) error {
	for i := len(order) - 1; i >= 0; i-- {
		select {
		case <-ctx.Done():
			return domain.ErrCancelRequested
		default:
		}

		pid := order[i]
		n := nodes[pid]
		rec := g.Nodes[pid].Rec

		if rec.Started {
			n.LS = n.ES
			n.LF = n.EF
			n.TotalFloat = 0
			nodes[pid] = n
			continue
		}

		lf := projectEnd
		for _, succ := range g.Successors(pid) {
			if sn, ok := nodes[succ]; ok && sn.LS.Before(lf) {
				lf = sn.LS
			}
		}
		if rec.Done {
			lf = bizday.StripTime(rec.DoneDate)
		}
		ls := bizday.SubtractBusinessDays(lf, n.DurationEff)

		n.LS = ls
		n.LF = lf
		n.TotalFloat = bizday.CountBusinessDays(n.ES, lf) - n.DurationEff
		nodes[pid] = n
	}
	return nil
}

// criticalPath returns the ids of zero-float nodes, ordered by ES
// ascending (ties broken by process id) for deterministic output.
func criticalPath(nodes map[string]domain.ScheduleNode) []string {
	var ids []string
	for pid, n := range nodes {
		if n.TotalFloat == 0 {
			ids = append(ids, pid)
		}
	}
	sort.SliceStable(ids, func(i, j int) bool {
		a, b := nodes[ids[i]], nodes[ids[j]]
		if !a.ES.Equal(b.ES) {
			return a.ES.Before(b.ES)
		}
		return ids[i] < ids[j]
	})
	return ids
}

// StartProbability returns the probability that pid actually begins
// work, computed as the product of SuccessProb/100 over every ancestor of
// pid (a deterministic closed-form variant rather than a sampling loop).
// A process with no ancestors has start probability 1.
func StartProbability(g *graph.Graph, pid string) float64 {
	seen := make(map[string]struct{})
	startProb := 1.0
	var walk func(id string)
	walk = func(id string) {
		for dep := range g.Edges[id] {
			if _, ok := seen[dep]; ok {
				continue
			}
			seen[dep] = struct{}{}
			startProb *= successProb(g.Nodes[dep].Rec)
			walk(dep)
		}
	}
	walk(pid)
	return startProb
}

func successProb(rec domain.EstimateRecord) float64 {
	if rec.SuccessProb == 0 {
		return 1.0
	}
	return rec.SuccessProb / 100.0
}
