package observability

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTrack_ReportsSuccess(t *testing.T) {
	var buf bytes.Buffer
	obs := NewLogUseCaseObserver(&buf)

	err := Track(context.Background(), obs, "schedule", nil, func() error { return nil })
	require.NoError(t, err)
	assert.Contains(t, buf.String(), "use_case=schedule")
	assert.Contains(t, buf.String(), "success=true")
}

func TestTrack_ReportsFailure(t *testing.T) {
	var buf bytes.Buffer
	obs := NewLogUseCaseObserver(&buf)
	boom := errors.New("boom")

	err := Track(context.Background(), obs, "schedule", nil, func() error { return boom })
	assert.ErrorIs(t, err, boom)
	assert.Contains(t, buf.String(), "success=false")
	assert.Contains(t, buf.String(), "boom")
}

func TestTrack_NilObserverDoesNotPanic(t *testing.T) {
	err := Track(context.Background(), nil, "schedule", nil, func() error { return nil })
	assert.NoError(t, err)
}

func TestNewLogUseCaseObserver_NilWriterIsNoop(t *testing.T) {
	obs := NewLogUseCaseObserver(nil)
	_, ok := obs.(NoopUseCaseObserver)
	assert.True(t, ok)
}
