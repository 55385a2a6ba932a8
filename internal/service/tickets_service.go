package service

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/alexanderramin/timelines/internal/contract"
	"github.com/alexanderramin/timelines/internal/domain"
	"github.com/alexanderramin/timelines/internal/observability"
	"github.com/alexanderramin/timelines/internal/tickets"
	"github.com/alexanderramin/timelines/internal/tickets/eventcache"
)

type ticketReconstructor struct {
	provider tickets.Provider
	// conn is the optional sqlite-backed event cache connection (C8's
	// eventcache adapter). Nil means every GetEvents call hits the
	// provider directly.
	conn     *sql.DB
	observer observability.UseCaseObserver
}

// NewTicketReconstructor returns a TicketReconstructor over provider. conn
// may be nil to skip the local event cache entirely.
func NewTicketReconstructor(provider tickets.Provider, conn *sql.DB, observers ...observability.UseCaseObserver) TicketReconstructor {
	return &ticketReconstructor{
		provider: provider,
		conn:     conn,
		observer: useCaseObserverOrNoop(observers),
	}
}

func (r *ticketReconstructor) fetchEvents(ctx context.Context, repo, ticketID string) ([]tickets.Event, error) {
	fetch := func(ctx context.Context) ([]tickets.Event, error) {
		events, err := r.provider.GetEvents(ctx, ticketID)
		if err != nil {
			return nil, &domain.ProviderFailureError{Provider: "tickets", Cause: err}
		}
		return events, nil
	}
	if r.conn == nil {
		return fetch(ctx)
	}
	return eventcache.FetchThrough(ctx, r.conn, repo, ticketID, time.Now().UTC(), fetch)
}

func (r *ticketReconstructor) loadTickets(ctx context.Context, req contract.BurndownRequest) ([]tickets.Ticket, error) {
	ids, err := r.provider.ListIssues(ctx, req.Repo, req.LabelFilter, req.AssigneeFilter)
	if err != nil {
		return nil, &domain.ProviderFailureError{Provider: "tickets", Cause: err}
	}

	out := make([]tickets.Ticket, 0, len(ids))
	for _, id := range ids {
		events, err := r.fetchEvents(ctx, req.Repo, id)
		if err != nil {
			return nil, err
		}
		out = append(out, tickets.Ticket{ID: id, Events: events}.Sorted())
	}
	return out, nil
}

func (r *ticketReconstructor) Burndown(ctx context.Context, req contract.BurndownRequest) (days []tickets.DayTotal, err error) {
	startedAt := time.Now().UTC()
	defer func() {
		r.observer.ObserveUseCase(ctx, observability.UseCaseEvent{
			Name:      "ticket-burndown",
			StartedAt: startedAt,
			Duration:  time.Since(startedAt),
			Success:   err == nil,
			Err:       err,
			Fields:    map[string]any{"repo": req.Repo, "tracking_label": req.TrackingLabel},
		})
	}()

	all, err := r.loadTickets(ctx, req)
	if err != nil {
		return nil, err
	}
	window := tickets.Window{Start: req.Window.Start, End: req.Window.End}
	return tickets.Burndown(all, req.TrackingLabel, window), nil
}

func (r *ticketReconstructor) StateIntervals(ctx context.Context, req contract.BurndownRequest) (result map[string][]tickets.Interval, err error) {
	startedAt := time.Now().UTC()
	defer func() {
		r.observer.ObserveUseCase(ctx, observability.UseCaseEvent{
			Name:      "ticket-state-intervals",
			StartedAt: startedAt,
			Duration:  time.Since(startedAt),
			Success:   err == nil,
			Err:       err,
			Fields:    map[string]any{"repo": req.Repo},
		})
	}()

	all, err := r.loadTickets(ctx, req)
	if err != nil {
		return nil, err
	}
	if len(req.TrackingLabels) == 0 {
		return nil, fmt.Errorf("service: StateIntervals requires at least one label in TrackingLabels")
	}

	window := tickets.Window{Start: req.Window.Start, End: req.Window.End}
	merged := make(map[string][]tickets.Interval, len(req.TrackingLabels))
	for _, t := range all {
		for label, ivs := range t.StateIntervals(req.TrackingLabels, window) {
			merged[label] = append(merged[label], ivs...)
		}
	}
	return merged, nil
}
