package redis

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dogclock/api/internal/models"
)

func newTestClient(t *testing.T) (*Client, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { rdb.Close() })
	return Wrap(rdb, slog.New(slog.NewTextHandler(io.Discard, nil))), mr
}

func TestFocusBoardRanksTags(t *testing.T) {
	c, _ := newTestClient(t)
	ctx := context.Background()

	require.NoError(t, c.AddFocus(ctx, "Work", 25))
	require.NoError(t, c.AddFocus(ctx, "Read", 10))
	require.NoError(t, c.AddFocus(ctx, "Work", -5))
	require.NoError(t, c.AddFocus(ctx, "Code", 40))

	top, err := c.TopTags(ctx, 2)
	require.NoError(t, err)
	assert.Equal(t, []models.TagFocus{
		{Tag: "Code", Minutes: 40},
		{Tag: "Work", Minutes: 20},
	}, top)
}

func TestTopTagsEmptyBoard(t *testing.T) {
	c, _ := newTestClient(t)

	top, err := c.TopTags(context.Background(), 5)
	require.NoError(t, err)
	assert.Empty(t, top)
}

func TestRebuildFocusBoard(t *testing.T) {
	c, _ := newTestClient(t)
	ctx := context.Background()
	start := time.Date(2025, 3, 4, 14, 0, 0, 0, time.UTC)

	require.NoError(t, c.AddFocus(ctx, "Stale", 99))

	sessions := []models.PomodoroSession{
		{TaskTag: "Work", StartTime: start, EndTime: start.Add(25 * time.Minute)},
		{TaskTag: "Work", StartTime: start, EndTime: start.Add(5 * time.Minute)},
		{TaskTag: "Read", StartTime: start},
	}
	require.NoError(t, c.RebuildFocusBoard(ctx, sessions))

	top, err := c.TopTags(ctx, 10)
	require.NoError(t, err)
	assert.Equal(t, []models.TagFocus{{Tag: "Work", Minutes: 30}}, top)
}

func TestRunningRegistry(t *testing.T) {
	c, mr := newTestClient(t)
	ctx := context.Background()
	start := time.Date(2025, 3, 4, 14, 0, 0, 0, time.UTC)

	for id := 1; id <= 2; id++ {
		session := models.RunningSession{
			ID:        id,
			TaskTag:   "Work",
			StartTime: start,
			Duration:  models.SpanOf(25 * time.Minute),
			ExpiresAt: start.Add(35 * time.Minute),
		}
		require.NoError(t, c.SetRunning(ctx, session, 35*time.Minute))
	}
	assert.Equal(t, 35*time.Minute, mr.TTL(runningKey(1)))

	running, err := c.ListRunning(ctx)
	require.NoError(t, err)
	require.Len(t, running, 2)
	assert.Equal(t, 1, running[0].ID)
	assert.Equal(t, 25*time.Minute, running[0].Duration.Duration)
	assert.True(t, running[0].StartTime.Equal(start))

	require.NoError(t, c.ClearRunning(ctx, 1))
	require.NoError(t, c.ClearRunning(ctx, 1))

	running, err = c.ListRunning(ctx)
	require.NoError(t, err)
	require.Len(t, running, 1)
	assert.Equal(t, 2, running[0].ID)

	_, err = c.GetRunning(ctx, 1)
	assert.ErrorIs(t, err, models.ErrNotFound)
}

func TestListRunningDropsExpired(t *testing.T) {
	c, mr := newTestClient(t)
	ctx := context.Background()

	session := models.RunningSession{ID: 7, TaskTag: "Work", StartTime: time.Now().UTC()}
	require.NoError(t, c.SetRunning(ctx, session, time.Minute))

	mr.FastForward(2 * time.Minute)

	running, err := c.ListRunning(ctx)
	require.NoError(t, err)
	assert.Empty(t, running)
	assert.False(t, mr.Exists(runningSetKey))
}

func TestListRunningPrunesMalformedMembers(t *testing.T) {
	c, mr := newTestClient(t)
	ctx := context.Background()

	live := models.RunningSession{ID: 3, TaskTag: "Read", StartTime: time.Now().UTC()}
	require.NoError(t, c.SetRunning(ctx, live, time.Hour))
	_, err := mr.SAdd(runningSetKey, "not-an-id", "11")
	require.NoError(t, err)

	running, err := c.ListRunning(ctx)
	require.NoError(t, err)
	require.Len(t, running, 1)
	assert.Equal(t, 3, running[0].ID)

	members, err := mr.Members(runningSetKey)
	require.NoError(t, err)
	assert.Equal(t, []string{"3"}, members)
}
