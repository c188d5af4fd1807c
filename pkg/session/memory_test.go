package session

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestMemoryStoreRoundTrip(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	_, err := s.Get(ctx, "missing")
	assert.ErrorIs(t, err, ErrSessionNotFound)

	in := &Data{ProjectDescription: "todo app", DeveloperLevel: "beginner"}
	require.NoError(t, s.Save(ctx, "abc", in, time.Hour))

	in.ProjectDescription = "mutated after save"

	got, err := s.Get(ctx, "abc")
	require.NoError(t, err)
	assert.Equal(t, "todo app", got.ProjectDescription)
	assert.Equal(t, "beginner", got.DeveloperLevel)

	require.NoError(t, s.Delete(ctx, "abc"))
	_, err = s.Get(ctx, "abc")
	assert.ErrorIs(t, err, ErrSessionNotFound)
}

func TestMemoryStoreExpiry(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()
	now := time.Unix(1_700_000_000, 0)
	s.now = func() time.Time { return now }

	require.NoError(t, s.Save(ctx, "abc", &Data{Framework: "Go"}, time.Minute))

	now = now.Add(2 * time.Minute)
	_, err := s.Get(ctx, "abc")
	assert.ErrorIs(t, err, ErrSessionNotFound)
	assert.Empty(t, s.data)
}

func TestMemoryStoreSweepDropsUnreadSessions(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()
	now := time.Unix(1_700_000_000, 0)
	s.now = func() time.Time { return now }

	require.NoError(t, s.Save(ctx, "short", &Data{Framework: "Go"}, time.Minute))
	require.NoError(t, s.Save(ctx, "long", &Data{Framework: "Rust"}, time.Hour))

	now = now.Add(2 * time.Minute)
	assert.Equal(t, 1, s.Sweep())
	assert.Len(t, s.data, 1)

	got, err := s.Get(ctx, "long")
	require.NoError(t, err)
	assert.Equal(t, "Rust", got.Framework)
}

func TestMemoryStoreSweeperRunsUntilStopped(t *testing.T) {
	defer goleak.VerifyNone(t)

	ctx := context.Background()
	s := NewMemoryStore()
	require.NoError(t, s.Save(ctx, "gone", &Data{}, time.Nanosecond))

	swept := make(chan int, 1)
	s.StartSweeper(5*time.Millisecond, func(removed int) {
		select {
		case swept <- removed:
		default:
		}
	})

	select {
	case n := <-swept:
		assert.Equal(t, 1, n)
	case <-time.After(2 * time.Second):
		t.Fatal("sweeper never removed the expired session")
	}

	s.StopSweeper()
	s.StopSweeper()

	s.mu.RLock()
	defer s.mu.RUnlock()
	assert.Empty(t, s.data)
}
