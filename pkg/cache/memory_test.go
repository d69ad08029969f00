package cache

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryStoreHitWithinTTL(t *testing.T) {
	s := NewMemoryStore(time.Hour)
	ctx := context.Background()

	require.NoError(t, s.Put(ctx, "cedar", []string{"2026-03-10", "2026-03-11"}))

	entry, ok, err := s.Get(ctx, "cedar")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, []string{"2026-03-10", "2026-03-11"}, entry.BlockedDates)
}

func TestMemoryStoreMissAfterTTL(t *testing.T) {
	s := NewMemoryStore(time.Hour)
	ctx := context.Background()

	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	s.now = func() time.Time { return base }
	require.NoError(t, s.Put(ctx, "cedar", []string{"2026-03-10"}))

	s.now = func() time.Time { return base.Add(time.Hour) }
	_, ok, err := s.Get(ctx, "cedar")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestMemoryStoreInvalidate(t *testing.T) {
	s := NewMemoryStore(time.Hour)
	ctx := context.Background()

	require.NoError(t, s.Put(ctx, "stone", []string{"2026-03-10"}))
	require.NoError(t, s.Invalidate(ctx, "stone"))

	_, ok, err := s.Get(ctx, "stone")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestMemoryStoreKeysAreIndependent(t *testing.T) {
	s := NewMemoryStore(time.Hour)
	ctx := context.Background()

	require.NoError(t, s.Put(ctx, "stone", []string{"2026-03-10"}))
	require.NoError(t, s.Put(ctx, "copper", []string{"2026-04-01"}))
	require.NoError(t, s.Invalidate(ctx, "stone"))

	_, ok, err := s.Get(ctx, "copper")
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestMemoryStorePutCopiesInput(t *testing.T) {
	s := NewMemoryStore(time.Hour)
	ctx := context.Background()

	dates := []string{"2026-03-10"}
	require.NoError(t, s.Put(ctx, "cedar", dates))
	dates[0] = "mutated"

	entry, ok, err := s.Get(ctx, "cedar")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, []string{"2026-03-10"}, entry.BlockedDates)
}
