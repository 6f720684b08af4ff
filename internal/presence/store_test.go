package presence

import (
	"context"
	"testing"
	"time"

	mr "github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) (*Store, *mr.Miniredis) {
	t.Helper()
	m, err := mr.Run()
	require.NoError(t, err)
	t.Cleanup(m.Close)
	client := redis.NewClient(&redis.Options{Addr: m.Addr()})
	return NewStore(client, 45*time.Second), m
}

func TestHeartbeatAndEditors(t *testing.T) {
	s, _ := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.Heartbeat(ctx, "client-1", "shots", "shot-1", Editor{
		UserSub: "sub-1", UserName: "Maya", Field: "notes",
	}))
	require.NoError(t, s.Heartbeat(ctx, "client-1", "shots", "shot-1", Editor{
		UserSub: "sub-2", UserName: "Jordan", Field: "name",
	}))
	// other entity must not leak in
	require.NoError(t, s.Heartbeat(ctx, "client-1", "shots", "shot-2", Editor{
		UserSub: "sub-3", UserName: "Sam", Field: "name",
	}))

	editors, err := s.Editors(ctx, "client-1", "shots", "shot-1", "")
	require.NoError(t, err)
	require.Len(t, editors, 2)

	// callers are excluded from their own view
	editors, err = s.Editors(ctx, "client-1", "shots", "shot-1", "sub-1")
	require.NoError(t, err)
	require.Len(t, editors, 1)
	require.Equal(t, "Jordan", editors[0].UserName)
}

func TestIndicatorAgesOut(t *testing.T) {
	s, m := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.Heartbeat(ctx, "client-1", "projects", "p-1", Editor{
		UserSub: "sub-1", UserName: "Maya", Field: "name",
	}))

	m.FastForward(46 * time.Second)

	editors, err := s.Editors(ctx, "client-1", "projects", "p-1", "")
	require.NoError(t, err)
	require.Empty(t, editors)
}

func TestHeartbeatRefreshesTTL(t *testing.T) {
	s, m := newTestStore(t)
	ctx := context.Background()

	ed := Editor{UserSub: "sub-1", UserName: "Maya", Field: "name"}
	require.NoError(t, s.Heartbeat(ctx, "client-1", "projects", "p-1", ed))
	m.FastForward(30 * time.Second)
	require.NoError(t, s.Heartbeat(ctx, "client-1", "projects", "p-1", ed))
	m.FastForward(30 * time.Second)

	// 60s since the first write, but only 30s since the refresh
	editors, err := s.Editors(ctx, "client-1", "projects", "p-1", "")
	require.NoError(t, err)
	require.Len(t, editors, 1)
}

func TestClearRemovesImmediately(t *testing.T) {
	s, _ := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.Heartbeat(ctx, "client-1", "pulls", "pull-1", Editor{
		UserSub: "sub-1", UserName: "Maya", Field: "title",
	}))
	require.NoError(t, s.Clear(ctx, "client-1", "pulls", "pull-1", "title", "sub-1"))

	editors, err := s.Editors(ctx, "client-1", "pulls", "pull-1", "")
	require.NoError(t, err)
	require.Empty(t, editors)
}
