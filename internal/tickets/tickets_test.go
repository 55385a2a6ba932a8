package tickets

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func day(s string) time.Time {
	d, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return d
}

// t42 reproduces the label/unlabel/close scenario exactly.
func t42() Ticket {
	return Ticket{ID: "T42", Events: []Event{
		{Kind: EventLabeled, CreatedAt: day("2024-05-06"), Label: "in_progress"},
		{Kind: EventLabeled, CreatedAt: day("2024-05-08"), Label: "blocked"},
		{Kind: EventUnlabeled, CreatedAt: day("2024-05-10"), Label: "blocked"},
		{Kind: EventClosed, CreatedAt: day("2024-05-12")},
	}}
}

func TestLabelsOn_S5(t *testing.T) {
	tk := t42()
	labels := tk.LabelsOn(day("2024-05-09"))
	assert.Contains(t, labels, "in_progress")
	assert.Contains(t, labels, "blocked")
}

func TestIsClosedOn_S5(t *testing.T) {
	tk := t42()
	assert.False(t, tk.IsClosedOn(day("2024-05-11")))
	assert.True(t, tk.IsClosedOn(day("2024-05-12")))
}

func TestStateIntervals_S5(t *testing.T) {
	tk := t42()
	window := Window{Start: day("2024-05-01"), End: day("2024-05-20")}
	intervals := tk.StateIntervals([]string{"blocked"}, window)

	require := assert.New(t)
	require.Len(intervals["blocked"], 1)
	require.True(intervals["blocked"][0].Begin.Equal(day("2024-05-08")))
	require.True(intervals["blocked"][0].End.Equal(day("2024-05-10")))
}

func TestStateIntervals_OpenIntervalClosedByTicketClose(t *testing.T) {
	tk := Ticket{ID: "T1", Events: []Event{
		{Kind: EventLabeled, CreatedAt: day("2024-05-01"), Label: "blocked"},
		{Kind: EventClosed, CreatedAt: day("2024-05-05")},
	}}
	window := Window{Start: day("2024-04-01"), End: day("2024-06-01")}
	intervals := tk.StateIntervals([]string{"blocked"}, window)

	assert.Len(t, intervals["blocked"], 1)
	assert.True(t, intervals["blocked"][0].End.Equal(day("2024-05-05")))
}

func TestStateIntervals_OpenIntervalClippedToWindowEndWhenNeverClosed(t *testing.T) {
	tk := Ticket{ID: "T1", Events: []Event{
		{Kind: EventLabeled, CreatedAt: day("2024-05-01"), Label: "blocked"},
	}}
	window := Window{Start: day("2024-04-01"), End: day("2024-06-01")}
	intervals := tk.StateIntervals([]string{"blocked"}, window)

	assert.Len(t, intervals["blocked"], 1)
	assert.True(t, intervals["blocked"][0].End.Equal(window.End))
}

func TestStoryPoints_ParsesTrackingLabel(t *testing.T) {
	tk := Ticket{ID: "T1", Events: []Event{
		{Kind: EventLabeled, CreatedAt: day("2024-05-01"), Label: "sp-5"},
	}}
	assert.Equal(t, 5.0, tk.StoryPoints())
}

func TestStoryPoints_NoMatchingLabelIsZero(t *testing.T) {
	tk := Ticket{ID: "T1", Events: []Event{
		{Kind: EventLabeled, CreatedAt: day("2024-05-01"), Label: "backlog"},
	}}
	assert.Equal(t, 0.0, tk.StoryPoints())
}

func TestBurndown_ExcludesClosedTickets(t *testing.T) {
	open := Ticket{ID: "open", Events: []Event{
		{Kind: EventLabeled, CreatedAt: day("2024-05-01"), Label: "sp-3"},
		{Kind: EventLabeled, CreatedAt: day("2024-05-01"), Label: "in_progress"},
	}}
	closed := Ticket{ID: "closed", Events: []Event{
		{Kind: EventLabeled, CreatedAt: day("2024-05-01"), Label: "sp-5"},
		{Kind: EventLabeled, CreatedAt: day("2024-05-01"), Label: "in_progress"},
		{Kind: EventClosed, CreatedAt: day("2024-05-02")},
	}}

	window := Window{Start: day("2024-05-01"), End: day("2024-05-04")}
	days := Burndown([]Ticket{open, closed}, "in_progress", window)

	require := assert.New(t)
	require.Len(days, 3)
	require.Equal(8.0, days[0].StoryPoints) // both open on day 1
	require.Equal(3.0, days[1].StoryPoints) // closed ticket excluded from day 2 on
}

func TestSorted_OrdersByCreatedAt(t *testing.T) {
	tk := Ticket{ID: "T1", Events: []Event{
		{Kind: EventClosed, CreatedAt: day("2024-05-10")},
		{Kind: EventLabeled, CreatedAt: day("2024-05-01"), Label: "x"},
	}}
	sorted := tk.Sorted()
	assert.Equal(t, EventLabeled, sorted.Events[0].Kind)
}
