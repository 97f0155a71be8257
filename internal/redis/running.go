package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/dogclock/api/internal/models"
)

const runningSetKey = "pomodoro:running"

func runningKey(id int) string {
	return fmt.Sprintf("pomodoro:running:%d", id)
}

// SetRunning stores a started session with TTL and adds it to the running set
func (c *Client) SetRunning(ctx context.Context, session models.RunningSession, ttl time.Duration) error {
	// Serialize session data to JSON
	sessionJSON, err := json.Marshal(session)
	if err != nil {
		return fmt.Errorf("failed to marshal running session: %w", err)
	}

	pipe := c.TxPipeline()
	pipe.Set(ctx, runningKey(session.ID), sessionJSON, ttl)
	pipe.SAdd(ctx, runningSetKey, session.ID)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to register running session %d: %w", session.ID, err)
	}
	return nil
}

// GetRunning retrieves one running session
func (c *Client) GetRunning(ctx context.Context, id int) (*models.RunningSession, error) {
	sessionJSON, err := c.Get(ctx, runningKey(id)).Result()
	if err == redis.Nil {
		return nil, models.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get running session %d: %w", id, err)
	}

	var session models.RunningSession
	if err := json.Unmarshal([]byte(sessionJSON), &session); err != nil {
		return nil, fmt.Errorf("failed to unmarshal running session %d: %w", id, err)
	}
	return &session, nil
}

// ClearRunning removes a session from the registry. Clearing an unknown id is not an error.
func (c *Client) ClearRunning(ctx context.Context, id int) error {
	pipe := c.TxPipeline()
	pipe.Del(ctx, runningKey(id))
	pipe.SRem(ctx, runningSetKey, id)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to clear running session %d: %w", id, err)
	}
	return nil
}

// ListRunning returns the registered sessions ordered by id. Members whose key
// has expired are dropped from the set.
func (c *Client) ListRunning(ctx context.Context) ([]models.RunningSession, error) {
	members, err := c.SMembers(ctx, runningSetKey).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to list running sessions: %w", err)
	}

	sessions := make([]models.RunningSession, 0, len(members))
	var stale []interface{}
	for _, member := range members {
		id, err := strconv.Atoi(member)
		if err != nil {
			stale = append(stale, member)
			continue
		}

		session, err := c.GetRunning(ctx, id)
		if errors.Is(err, models.ErrNotFound) {
			// TTL elapsed without a finalize
			stale = append(stale, member)
			continue
		}
		if err != nil {
			return nil, err
		}
		sessions = append(sessions, *session)
	}

	if len(stale) > 0 {
		if err := c.SRem(ctx, runningSetKey, stale...).Err(); err != nil {
			c.logger.Warn("failed to prune running sessions",
				slog.Int("stale", len(stale)),
				slog.Any("error", err),
			)
		}
	}

	sort.Slice(sessions, func(i, j int) bool { return sessions[i].ID < sessions[j].ID })
	return sessions, nil
}
