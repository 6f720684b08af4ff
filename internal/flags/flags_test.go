package flags

import (
	"context"
	"testing"

	mr "github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	m, err := mr.Run()
	require.NoError(t, err)
	t.Cleanup(m.Close)
	return NewStore(redis.NewClient(&redis.Options{Addr: m.Addr()}))
}

func TestSetGetToggle(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	on, err := s.Get(ctx, "sub-1", "newBoardLayout")
	require.NoError(t, err)
	require.False(t, on)

	require.NoError(t, s.Set(ctx, "sub-1", "newBoardLayout", true))
	on, err = s.Get(ctx, "sub-1", "newBoardLayout")
	require.NoError(t, err)
	require.True(t, on)

	// flags are per user
	on, err = s.Get(ctx, "sub-2", "newBoardLayout")
	require.NoError(t, err)
	require.False(t, on)

	require.NoError(t, s.Set(ctx, "sub-1", "newBoardLayout", false))
	on, err = s.Get(ctx, "sub-1", "newBoardLayout")
	require.NoError(t, err)
	require.False(t, on)
}

func TestUnknownFlagRejected(t *testing.T) {
	s := newTestStore(t)
	require.Error(t, s.Set(context.Background(), "sub-1", "doesNotExist", true))
}

func TestAllListsOnlyEnabled(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.Set(ctx, "sub-1", "newBoardLayout", true))
	require.NoError(t, s.Set(ctx, "sub-1", "debugPanels", true))
	require.NoError(t, s.Set(ctx, "sub-1", "debugPanels", false))

	all, err := s.All(ctx, "sub-1")
	require.NoError(t, err)
	require.Equal(t, map[string]bool{"newBoardLayout": true}, all)
}
