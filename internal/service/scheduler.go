// Package service wires the engine packages (store, graph, cpm, schedcache,
// demand, timeline, tickets) into the public use-case API: constructor-
// injected dependencies behind narrow interfaces, one per use case.
package service

import (
	"context"
	"fmt"
	"time"

	"github.com/alexanderramin/timelines/internal/contract"
	"github.com/alexanderramin/timelines/internal/cpm"
	"github.com/alexanderramin/timelines/internal/demand"
	"github.com/alexanderramin/timelines/internal/domain"
	"github.com/alexanderramin/timelines/internal/graph"
	"github.com/alexanderramin/timelines/internal/observability"
	"github.com/alexanderramin/timelines/internal/schedcache"
	"github.com/alexanderramin/timelines/internal/store"
	"github.com/alexanderramin/timelines/internal/timeline"
)

// defaultParticles is the Monte Carlo particle count used when a
// ScheduleRequest leaves Opts.K unset.
const defaultParticles = 100

type scheduler struct {
	cache    *schedcache.Cache
	observer observability.UseCaseObserver
}

// NewScheduler returns a Scheduler backed by an LRU schedule cache holding
// up to cacheSize entries.
func NewScheduler(cacheSize int, observers ...observability.UseCaseObserver) (Scheduler, error) {
	c, err := schedcache.New(cacheSize)
	if err != nil {
		return nil, fmt.Errorf("service: new scheduler: %w", err)
	}
	return &scheduler{cache: c, observer: useCaseObserverOrNoop(observers)}, nil
}

func (s *scheduler) Schedule(ctx context.Context, doc *domain.ProjectDocument, req contract.ScheduleRequest) (sched *domain.Schedule, err error) {
	startedAt := time.Now().UTC()
	k := req.Opts.K
	if k <= 0 {
		k = defaultParticles
	}
	fields := map[string]any{
		"as_of":     req.AsOf.Format("2006-01-02"),
		"mode":      string(req.Mode),
		"terminals": len(req.Terminals),
	}
	defer func() {
		if sched != nil {
			fields["unavailable"] = sched.Unavailable
		}
		s.observer.ObserveUseCase(ctx, observability.UseCaseEvent{
			Name:      "schedule",
			StartedAt: startedAt,
			Duration:  time.Since(startedAt),
			Success:   err == nil,
			Err:       err,
			Fields:    fields,
		})
	}()

	key := schedcache.Key{
		CacheHash: doc.CacheHash,
		AsOf:      req.AsOf,
		Terminals: req.Terminals,
		Mode:      req.Mode,
		K:         k,
		Seed:      req.Opts.Seed,
	}
	sched, err = s.cache.GetOrCompute(ctx, key, func(ctx context.Context) (*domain.Schedule, error) {
		return computeSchedule(ctx, doc, req.AsOf, req.Mode, req.Terminals, k, req.Opts.Seed)
	})
	return sched, err
}

func computeSchedule(ctx context.Context, doc *domain.ProjectDocument, asOf time.Time, mode schedcache.Mode, terminals []string, k int, seed int64) (*domain.Schedule, error) {
	g := graph.Build(doc, asOf)
	if len(terminals) > 0 {
		restricted, unavailable := g.Restrict(terminals)
		if len(unavailable) > 0 {
			return &domain.Schedule{
				ProjectStart: doc.StartDate,
				Unavailable:  true,
				Warnings: []domain.Warning{{
					Code:    "terminal_unavailable",
					Message: fmt.Sprintf("terminal(s) undefined as of %s: %v", asOf.Format("2006-01-02"), unavailable),
				}},
			}, nil
		}
		g = restricted
	}

	switch mode {
	case schedcache.ModeStochastic:
		return cpm.RunStochastic(ctx, g, doc.StartDate, k, seed)
	default:
		return cpm.Run(ctx, g, doc.StartDate, cpm.ScenarioNormal)
	}
}

func (s *scheduler) CriticalPath(sched *domain.Schedule) []string {
	if sched == nil {
		return nil
	}
	return sched.CriticalPath
}

func (s *scheduler) DemandCurves(ctx context.Context, doc *domain.ProjectDocument, req contract.DemandRequest) (curves demand.Curves, err error) {
	startedAt := time.Now().UTC()
	fields := map[string]any{"weighted": req.Weighted, "as_of": req.AsOf.Format("2006-01-02")}
	defer func() {
		s.observer.ObserveUseCase(ctx, observability.UseCaseEvent{
			Name:      "demand-curves",
			StartedAt: startedAt,
			Duration:  time.Since(startedAt),
			Success:   err == nil,
			Err:       err,
			Fields:    fields,
		})
	}()

	sched, err := s.Schedule(ctx, doc, contract.ScheduleRequest{
		AsOf: req.AsOf, Mode: req.Mode, Terminals: req.Terminals, Opts: req.Opts,
	})
	if err != nil {
		return demand.Curves{}, err
	}
	if sched.Unavailable {
		return demand.Curves{}, &domain.TerminalUnavailableError{AsOf: req.AsOf.Format("2006-01-02")}
	}

	g := graph.Build(doc, req.AsOf)
	if len(req.Terminals) > 0 {
		restricted, _ := g.Restrict(req.Terminals)
		g = restricted
	}
	return demand.Aggregate(g, sched, doc, req.Weighted), nil
}

func (s *scheduler) TimelineEvolution(ctx context.Context, doc *domain.ProjectDocument, req contract.TimelineRequest) (points []timeline.Point, err error) {
	startedAt := time.Now().UTC()
	defer func() {
		s.observer.ObserveUseCase(ctx, observability.UseCaseEvent{
			Name:      "timeline-evolution",
			StartedAt: startedAt,
			Duration:  time.Since(startedAt),
			Success:   err == nil,
			Err:       err,
			Fields:    map[string]any{"points": len(points)},
		})
	}()

	now := req.Now
	if now.IsZero() {
		now = time.Now().UTC()
	}

	asOfDates := store.New(doc).DatesOfPredictionChange()
	return timeline.Evolution(ctx, doc, asOfDates, now, req.Terminals)
}
