package store

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryStore(t *testing.T) {
	t.Run("GetUnknownKeyReturnsAbsent", func(t *testing.T) {
		s := NewMemoryStore()

		maybeToken, err := s.GetContinuationToken(context.Background(), "1726000000.000100")

		require.NoError(t, err)
		assert.False(t, maybeToken.IsPresent())
	})

	t.Run("SetThenGetRoundTrips", func(t *testing.T) {
		s := NewMemoryStore()

		err := s.SetContinuationToken(context.Background(), "D0500000001", "conv-abc123")
		require.NoError(t, err)

		maybeToken, err := s.GetContinuationToken(context.Background(), "D0500000001")
		require.NoError(t, err)
		require.True(t, maybeToken.IsPresent())
		assert.Equal(t, "conv-abc123", maybeToken.MustGet())
	})

	t.Run("SetOverwritesExistingToken", func(t *testing.T) {
		s := NewMemoryStore()
		ctx := context.Background()

		require.NoError(t, s.SetContinuationToken(ctx, "D0500000001", "conv-old"))
		require.NoError(t, s.SetContinuationToken(ctx, "D0500000001", "conv-new"))

		maybeToken, err := s.GetContinuationToken(ctx, "D0500000001")
		require.NoError(t, err)
		assert.Equal(t, "conv-new", maybeToken.MustGet())
	})

	t.Run("KeysAreIndependent", func(t *testing.T) {
		s := NewMemoryStore()
		ctx := context.Background()

		require.NoError(t, s.SetContinuationToken(ctx, "thread-a", "conv-a"))
		require.NoError(t, s.SetContinuationToken(ctx, "thread-b", "conv-b"))

		maybeA, err := s.GetContinuationToken(ctx, "thread-a")
		require.NoError(t, err)
		maybeB, err := s.GetContinuationToken(ctx, "thread-b")
		require.NoError(t, err)

		assert.Equal(t, "conv-a", maybeA.MustGet())
		assert.Equal(t, "conv-b", maybeB.MustGet())
	})
}
