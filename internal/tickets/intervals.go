package tickets

import "time"

// Interval is a half-open [Begin, End) window.
type Interval struct {
	Begin, End time.Time
}

// Window bounds a query to a half-open [Start, End) range.
type Window struct {
	Start, End time.Time
}

// StateIntervals returns, for each label in trackingLabels, the list of
// [begin, end) intervals during which that label was present on the
// ticket, clipped to window and truncated at the ticket's close date if
// it closed while the label was still present.
//
// Labeled/unlabeled events for the same label must alternate starting
// from absent; a labeled event with no matching unlabeled
// event by the window end implies an open interval, closed at
// min(window.End, closed_at).
func (t Ticket) StateIntervals(trackingLabels []string, window Window) map[string][]Interval {
	closedAt, isClosed := t.ClosedAt()

	out := make(map[string][]Interval, len(trackingLabels))
	for _, label := range trackingLabels {
		out[label] = intervalsForLabel(t, label, window, closedAt, isClosed)
	}
	return out
}

func intervalsForLabel(t Ticket, label string, window Window, closedAt time.Time, isClosed bool) []Interval {
	var intervals []Interval
	var open *time.Time
	add := func(iv Interval) {
		iv = clip(iv, window)
		if iv.End.After(iv.Begin) {
			intervals = append(intervals, iv)
		}
	}

	for _, e := range t.Events {
		if e.CreatedAt.After(window.End) {
			break
		}
		if e.Kind == EventLabeled && e.Label == label {
			if open == nil {
				ts := e.CreatedAt
				open = &ts
			}
			continue
		}
		if e.Kind == EventUnlabeled && e.Label == label {
			if open != nil {
				end := e.CreatedAt
				if isClosed && closedAt.Before(end) {
					end = closedAt
				}
				add(Interval{Begin: *open, End: end})
				open = nil
			}
		}
	}

	if open != nil {
		end := window.End
		if isClosed && closedAt.Before(end) {
			end = closedAt
		}
		add(Interval{Begin: *open, End: end})
	}
	return intervals
}

func clip(iv Interval, w Window) Interval {
	if iv.Begin.Before(w.Start) {
		iv.Begin = w.Start
	}
	if iv.End.After(w.End) {
		iv.End = w.End
	}
	return iv
}

// Burndown sums the story points of every ticket whose labels_on(t, d)
// contains trackingLabel and which is not closed on d, for each day d in
// [window.Start, window.End).
func Burndown(tickets []Ticket, trackingLabel string, window Window) []DayTotal {
	var days []DayTotal
	for d := window.Start; d.Before(window.End); d = d.AddDate(0, 0, 1) {
		var sum float64
		for _, t := range tickets {
			labels := t.LabelsOn(d)
			if _, ok := labels[trackingLabel]; !ok {
				continue
			}
			if t.IsClosedOn(d) {
				continue
			}
			sum += t.StoryPoints()
		}
		days = append(days, DayTotal{Date: d, StoryPoints: sum})
	}
	return days
}

// DayTotal is one day's burndown sample.
type DayTotal struct {
	Date        time.Time
	StoryPoints float64
}
