package service

import (
	"context"

	"github.com/alexanderramin/timelines/internal/contract"
	"github.com/alexanderramin/timelines/internal/demand"
	"github.com/alexanderramin/timelines/internal/domain"
	"github.com/alexanderramin/timelines/internal/timeline"
	"github.com/alexanderramin/timelines/internal/tickets"
)

// Scheduler is the public API surface over C1-C7: deterministic/stochastic
// CPM scheduling, demand-curve aggregation, and timeline evolution, all
// keyed off a caller-owned domain.ProjectDocument.
type Scheduler interface {
	Schedule(ctx context.Context, doc *domain.ProjectDocument, req contract.ScheduleRequest) (*domain.Schedule, error)
	CriticalPath(sched *domain.Schedule) []string
	DemandCurves(ctx context.Context, doc *domain.ProjectDocument, req contract.DemandRequest) (demand.Curves, error)
	TimelineEvolution(ctx context.Context, doc *domain.ProjectDocument, req contract.TimelineRequest) ([]timeline.Point, error)
}

// TicketReconstructor is the public API surface over C8: point-in-time
// ticket state and burndown reconstruction from a tickets.Provider-backed
// event stream.
type TicketReconstructor interface {
	Burndown(ctx context.Context, req contract.BurndownRequest) ([]tickets.DayTotal, error)
	StateIntervals(ctx context.Context, req contract.BurndownRequest) (map[string][]tickets.Interval, error)
}
