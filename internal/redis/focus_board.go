package redis

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/dogclock/api/internal/models"
)

// focusBoardKey is a sorted set of task tag -> focus minutes
const focusBoardKey = "pomodoro:focus_by_tag"

// AddFocus moves a tag's focus minutes by delta, which is negative when a
// session is finalized again with a shorter span
func (c *Client) AddFocus(ctx context.Context, tag string, delta float64) error {
	if err := c.ZIncrBy(ctx, focusBoardKey, delta, tag).Err(); err != nil {
		return fmt.Errorf("failed to update focus for tag %q: %w", tag, err)
	}
	return nil
}

// TopTags returns the top N tags by focus minutes
func (c *Client) TopTags(ctx context.Context, limit int64) ([]models.TagFocus, error) {
	// Highest scores first
	entries, err := c.ZRevRangeWithScores(ctx, focusBoardKey, 0, limit-1).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to get top tags: %w", err)
	}

	tags := make([]models.TagFocus, 0, len(entries))
	for _, z := range entries {
		tag, ok := z.Member.(string)
		if !ok {
			continue
		}
		tags = append(tags, models.TagFocus{Tag: tag, Minutes: z.Score})
	}
	return tags, nil
}

// RebuildFocusBoard replaces the board with totals computed from stored sessions,
// used to initialize the cache from the database at startup
func (c *Client) RebuildFocusBoard(ctx context.Context, sessions []models.PomodoroSession) error {
	totals := make(map[string]float64)
	for i := range sessions {
		if minutes := sessions[i].FocusMinutes(); minutes > 0 {
			totals[sessions[i].TaskTag] += minutes
		}
	}

	// Use pipeline to swap the board atomically
	pipe := c.TxPipeline()
	pipe.Del(ctx, focusBoardKey)
	for tag, minutes := range totals {
		pipe.ZAdd(ctx, focusBoardKey, redis.Z{Score: minutes, Member: tag})
	}

	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to rebuild focus board: %w", err)
	}
	return nil
}
