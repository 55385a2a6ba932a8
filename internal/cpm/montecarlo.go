package cpm

import (
	"context"
	"math"
	"math/rand"
	"runtime"
	"sort"
	"time"

	"golang.org/x/sync/errgroup"
	"gonum.org/v1/gonum/stat/distuv"

	"github.com/alexanderramin/timelines/internal/bizday"
	"github.com/alexanderramin/timelines/internal/domain"
	"github.com/alexanderramin/timelines/internal/graph"
)

// RunStochastic runs K independent CPM passes over g, each with every
// node's duration resampled uniformly at random over
// [OptimisticDays, PessimisticDays] (falling back to a point mass at
// DurationDays when the optimistic/pessimistic bounds are unset). Each
// particle gets its own deterministic source seeded from
// seed and the particle index, so two runs with the same seed and K
// produce bit-identical results regardless of how many workers ran them.
// Particles run on a worker pool bounded by GOMAXPROCS; results are
// merged back into particles[i] by index, never by completion order.
func RunStochastic(ctx context.Context, g *graph.Graph, projectStart time.Time, k int, seed int64) (*domain.Schedule, error) {
	order, err := g.TopoSort()
	if err != nil {
		return nil, err
	}
	start := bizday.NextBusinessDay(bizday.StripTime(projectStart))

	particles := make([]map[string]domain.ScheduleNode, k)
	group, gctx := errgroup.WithContext(ctx)
	group.SetLimit(max(1, runtime.GOMAXPROCS(0)))

	for i := 0; i < k; i++ {
		i := i
		group.Go(func() error {
			src := rand.NewSource(seed + int64(i))
			sampled := sampleGraph(g, src)
			nodes := make(map[string]domain.ScheduleNode, len(order))
			if err := forwardSampled(gctx, sampled, order, start, nodes); err != nil {
				return err
			}
			particleEnd := start
			for _, n := range nodes {
				if n.EF.After(particleEnd) {
					particleEnd = n.EF
				}
			}
			if err := backwardSampled(gctx, sampled, order, particleEnd, nodes); err != nil {
				return err
			}
			particles[i] = nodes
			return nil
		})
	}
	if err := group.Wait(); err != nil {
		return nil, err
	}

	summary := summarize(start, particles)
	finalNodes := make(map[string]domain.ScheduleNode, len(order))
	projectEnd := start
	for pid, dist := range summary {
		n := domain.ScheduleNode{
			ProcessID:   pid,
			ES:          start.Add(dist.MeanES),
			EF:          start.Add(dist.MeanEF),
			LS:          start.Add(dist.MeanLS),
			LF:          start.Add(dist.MeanLF),
			TotalFloat:  int(math.Round(dist.MeanTotalFloat)),
		}
		finalNodes[pid] = n
		if n.EF.After(projectEnd) {
			projectEnd = n.EF
		}
	}

	return &domain.Schedule{
		ProjectStart: start,
		ProjectEnd:   projectEnd,
		Nodes:        finalNodes,
		CriticalPath: criticalPathByMeanFloat(finalNodes, summary),
		Stochastic: &domain.StochasticResult{
			K:         k,
			Seed:      seed,
			Particles: particles,
			Summary:   summary,
		},
	}, nil
}

// sampledGraph wraps graph.Graph with per-node resampled durations for a
// single particle.
type sampledGraph struct {
	*graph.Graph
	duration map[string]int
}

func sampleGraph(g *graph.Graph, src rand.Source) *sampledGraph {
	pids := make([]string, 0, len(g.Nodes))
	for pid := range g.Nodes {
		pids = append(pids, pid)
	}
	sort.Strings(pids)
	duration := make(map[string]int, len(g.Nodes))
	for _, pid := range pids {
		duration[pid] = sampleDuration(g.Nodes[pid].Rec, src)
	}
	return &sampledGraph{Graph: g, duration: duration}
}

func sampleDuration(rec domain.EstimateRecord, src rand.Source) int {
	lo, hi, mode := rec.OptimisticDays, rec.PessimisticDays, rec.DurationDays
	if lo <= 0 || hi <= 0 || hi <= lo {
		return mode
	}
	unif := distuv.Uniform{Min: float64(lo), Max: float64(hi), Src: src}
	return int(unif.Rand() + 0.5)
}

func forwardSampled(ctx context.Context, g *sampledGraph, order []string, start time.Time, nodes map[string]domain.ScheduleNode) error {
	for _, pid := range order {
		select {
		case <-ctx.Done():
			return domain.ErrCancelRequested
		default:
		}

		rec := g.Nodes[pid].Rec
		esFromPreds := start
		for dep := range g.Edges[pid] {
			if pn, ok := nodes[dep]; ok && pn.EF.After(esFromPreds) {
				esFromPreds = pn.EF
			}
		}

		var es time.Time
		switch {
		case rec.Started:
			es = bizday.StripTime(rec.StartedDate)
		case rec.StartEarliestStart && rec.HasEarliestStart:
			es = bizday.StripTime(rec.EarliestStart)
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

		duration := g.duration[pid]
		ef := bizday.AddBusinessDays(es, duration)
		if rec.Done {
			doneDate := bizday.StripTime(rec.DoneDate)
			if ef.After(doneDate) {
				duration = bizday.CountBusinessDays(es, doneDate)
				ef = doneDate
			}
		}
		nodes[pid] = domain.ScheduleNode{ProcessID: pid, ES: es, EF: ef, DurationEff: duration}
	}
	return nil
}

func backwardSampled(ctx context.Context, g *sampledGraph, order []string, projectEnd time.Time, nodes map[string]domain.ScheduleNode) error {
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

func summarize(start time.Time, particles []map[string]domain.ScheduleNode) map[string]domain.NodeDistribution {
	sums := map[string]struct {
		es, ef, ls, lf time.Duration
		floats         []float64
	}{}
	for _, p := range particles {
		for pid, n := range p {
			s := sums[pid]
			s.es += n.ES.Sub(start)
			s.ef += n.EF.Sub(start)
			s.ls += n.LS.Sub(start)
			s.lf += n.LF.Sub(start)
			s.floats = append(s.floats, float64(n.TotalFloat))
			sums[pid] = s
		}
	}

	out := make(map[string]domain.NodeDistribution, len(sums))
	k := float64(len(particles))
	for pid, s := range sums {
		meanFloat, stdFloat := meanStd(s.floats)
		out[pid] = domain.NodeDistribution{
			MeanES:           time.Duration(float64(s.es) / k),
			MeanEF:           time.Duration(float64(s.ef) / k),
			MeanLS:           time.Duration(float64(s.ls) / k),
			MeanLF:           time.Duration(float64(s.lf) / k),
			MeanTotalFloat:   meanFloat,
			StdDevTotalFloat: stdFloat,
		}
	}
	return out
}

func meanStd(xs []float64) (mean, std float64) {
	if len(xs) == 0 {
		return 0, 0
	}
	var sum float64
	for _, x := range xs {
		sum += x
	}
	mean = sum / float64(len(xs))
	var sq float64
	for _, x := range xs {
		d := x - mean
		sq += d * d
	}
	std = 0
	if len(xs) > 1 {
		std = math.Sqrt(sq / float64(len(xs)-1))
	}
	return mean, std
}

// criticalPathByMeanFloat returns the ids of nodes whose mean total float
// is below 0.5 (rounds to zero), ordered by
// ascending mean total float (ties by process id), per Schedule.CriticalPath's
// stochastic-mode contract.
func criticalPathByMeanFloat(nodes map[string]domain.ScheduleNode, summary map[string]domain.NodeDistribution) []string {
	var ids []string
	for pid, dist := range summary {
		if dist.MeanTotalFloat < 0.5 {
			ids = append(ids, pid)
		}
	}
	sort.SliceStable(ids, func(i, j int) bool {
		a, b := summary[ids[i]], summary[ids[j]]
		if a.MeanTotalFloat != b.MeanTotalFloat {
			return a.MeanTotalFloat < b.MeanTotalFloat
		}
		return ids[i] < ids[j]
	})
	return ids
}
