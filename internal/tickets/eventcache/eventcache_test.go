package eventcache

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alexanderramin/timelines/internal/testutil"
	"github.com/alexanderramin/timelines/internal/tickets"
)

func TestGet_MissingTicketReturnsNotOK(t *testing.T) {
	conn := testutil.NewTestDB(t)
	c := New(conn)
	_, ok, err := c.Get(context.Background(), "o/r", "42")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestPutThenGet_RoundTrips(t *testing.T) {
	conn := testutil.NewTestDB(t)
	c := New(conn)
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	events := []tickets.Event{
		{Kind: tickets.EventLabeled, CreatedAt: now, Label: "blocked"},
		{Kind: tickets.EventClosed, CreatedAt: now.AddDate(0, 0, 1)},
	}

	require.NoError(t, c.Put(context.Background(), "o/r", "42", events, now))

	got, ok, err := c.Get(context.Background(), "o/r", "42")
	require.NoError(t, err)
	require.True(t, ok)
	require.Len(t, got, 2)
	assert.Equal(t, tickets.EventLabeled, got[0].Kind)
	assert.Equal(t, "blocked", got[0].Label)
}

func TestPut_ReplacesExistingEvents(t *testing.T) {
	conn := testutil.NewTestDB(t)
	c := New(conn)
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

	require.NoError(t, c.Put(context.Background(), "o/r", "42", []tickets.Event{
		{Kind: tickets.EventLabeled, CreatedAt: now, Label: "old"},
	}, now))
	require.NoError(t, c.Put(context.Background(), "o/r", "42", []tickets.Event{
		{Kind: tickets.EventLabeled, CreatedAt: now, Label: "new"},
	}, now.Add(time.Hour)))

	got, ok, err := c.Get(context.Background(), "o/r", "42")
	require.NoError(t, err)
	require.True(t, ok)
	require.Len(t, got, 1)
	assert.Equal(t, "new", got[0].Label)
}

func TestFetchThrough_CallsFetchOnlyOnMiss(t *testing.T) {
	conn := testutil.NewTestDB(t)
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

	calls := 0
	fetch := func(ctx context.Context) ([]tickets.Event, error) {
		calls++
		return []tickets.Event{{Kind: tickets.EventCreated, CreatedAt: now}}, nil
	}

	_, err := FetchThrough(context.Background(), conn, "o/r", "42", now, fetch)
	require.NoError(t, err)
	_, err = FetchThrough(context.Background(), conn, "o/r", "42", now, fetch)
	require.NoError(t, err)

	assert.Equal(t, 1, calls)
}
