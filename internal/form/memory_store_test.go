package form

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kmohsen11/Argos/internal/entity"
)

func TestMemoryStoreExpiresIdleForms(t *testing.T) {
	now := time.Date(2026, 10, 1, 12, 0, 0, 0, time.UTC)
	s := NewMemoryStore(time.Minute)
	s.now = func() time.Time { return now }
	ctx := context.Background()

	idle, _, err := s.Create(ctx)
	require.NoError(t, err)
	busy, _, err := s.Create(ctx)
	require.NoError(t, err)
	_, _, err = s.Begin(ctx, busy)
	require.NoError(t, err)

	now = now.Add(2 * time.Minute)

	_, err = s.Load(ctx, idle)
	assert.ErrorIs(t, err, ErrFormNotFound)

	state, err := s.Load(ctx, busy)
	require.NoError(t, err)
	assert.Equal(t, entity.PhaseSubmitting, state.Phase)

	assert.Equal(t, 1, s.Sweep())
	assert.Len(t, s.forms, 1)
}

func TestMemoryStoreRejectsStaleComplete(t *testing.T) {
	s := NewMemoryStore(time.Hour)
	ctx := context.Background()

	id, _, err := s.Create(ctx)
	require.NoError(t, err)
	token, _, err := s.Begin(ctx, id)
	require.NoError(t, err)

	done := entity.SubmissionState{Phase: entity.PhaseSucceeded, OrderID: "x", UpdatedAt: time.Now()}
	assert.ErrorIs(t, s.Complete(ctx, id, "other-token", done), ErrStaleSubmission)
	require.NoError(t, s.Complete(ctx, id, token, done))
	assert.ErrorIs(t, s.Complete(ctx, id, token, done), ErrStaleSubmission)
}

func TestMemoryStoreRunStopsOnCancel(t *testing.T) {
	s := NewMemoryStore(time.Hour)
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		defer close(done)
		s.Run(ctx, time.Millisecond)
	}()
	time.Sleep(5 * time.Millisecond)
	cancel()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("sweeper did not stop")
	}
}
