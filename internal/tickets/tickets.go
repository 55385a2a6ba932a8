// Package tickets reconstructs the labeled/assigned state of agile work
// items from an append-only event stream, and aggregates story-point
// burndown over time.
package tickets

import (
	"regexp"
	"sort"
	"strconv"
	"time"
)

// EventKind is the closed set of ticket lifecycle events.
type EventKind string

const (
	EventCreated    EventKind = "created"
	EventLabeled    EventKind = "labeled"
	EventUnlabeled  EventKind = "unlabeled"
	EventAssigned   EventKind = "assigned"
	EventUnassigned EventKind = "unassigned"
	EventClosed     EventKind = "closed"
	EventReopened   EventKind = "reopened"
)

// Event is one entry in a ticket's append-only stream.
type Event struct {
	Kind      EventKind
	CreatedAt time.Time
	Label     string
	Assignee  string
}

// Ticket is an external issue plus its event stream, ordered ascending
// by CreatedAt (callers must sort before constructing, or use Sorted).
type Ticket struct {
	ID     string
	Events []Event
}

// Sorted returns a copy of t with Events ordered ascending by CreatedAt.
func (t Ticket) Sorted() Ticket {
	events := append([]Event(nil), t.Events...)
	sort.SliceStable(events, func(i, j int) bool { return events[i].CreatedAt.Before(events[j].CreatedAt) })
	return Ticket{ID: t.ID, Events: events}
}

// LabelsOn folds labeled/unlabeled events up to and including date,
// starting from the empty set.
func (t Ticket) LabelsOn(date time.Time) map[string]struct{} {
	labels := make(map[string]struct{})
	for _, e := range t.Events {
		if e.CreatedAt.After(date) {
			break
		}
		switch e.Kind {
		case EventLabeled:
			labels[e.Label] = struct{}{}
		case EventUnlabeled:
			delete(labels, e.Label)
		}
	}
	return labels
}

// AssigneesOn folds assigned/unassigned events up to and including date,
// symmetric to LabelsOn.
func (t Ticket) AssigneesOn(date time.Time) map[string]struct{} {
	assignees := make(map[string]struct{})
	for _, e := range t.Events {
		if e.CreatedAt.After(date) {
			break
		}
		switch e.Kind {
		case EventAssigned:
			assignees[e.Assignee] = struct{}{}
		case EventUnassigned:
			delete(assignees, e.Assignee)
		}
	}
	return assignees
}

// IsClosedOn reports whether the latest close/reopen event at or before
// date is a close.
func (t Ticket) IsClosedOn(date time.Time) bool {
	closed := false
	for _, e := range t.Events {
		if e.CreatedAt.After(date) {
			break
		}
		switch e.Kind {
		case EventClosed:
			closed = true
		case EventReopened:
			closed = false
		}
	}
	return closed
}

// ClosedAt returns the CreatedAt of the final close event with no later
// reopen, or the zero time and false if the ticket is not currently
// closed (by its full event history).
func (t Ticket) ClosedAt() (time.Time, bool) {
	var closedAt time.Time
	closed := false
	for _, e := range t.Events {
		switch e.Kind {
		case EventClosed:
			closed = true
			closedAt = e.CreatedAt
		case EventReopened:
			closed = false
		}
	}
	return closedAt, closed
}

var storyPointPattern = regexp.MustCompile(`(?i)^(?:sp|points?|story[-_ ]?points?)[-_: ]*([0-9]+(?:\.[0-9]+)?)$`)

// StoryPoints returns the numeric value of the first label matching the
// story-point convention (e.g. "sp-5", "points: 3", "story-points-8"), or
// 0 if no such label was ever applied.
func (t Ticket) StoryPoints() float64 {
	for _, e := range t.Events {
		if e.Kind != EventLabeled {
			continue
		}
		m := storyPointPattern.FindStringSubmatch(e.Label)
		if m == nil {
			continue
		}
		if v, err := strconv.ParseFloat(m[1], 64); err == nil {
			return v
		}
	}
	return 0
}
