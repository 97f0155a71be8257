package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/dogclock/api/internal/models"
)

const sessionColumns = `id, task_tag, start_time, end_time, duration_seconds, is_completed, reward_points`

func scanSession(row rowScanner) (*models.PomodoroSession, error) {
	var (
		s               models.PomodoroSession
		durationSeconds int64
	)
	err := row.Scan(
		&s.ID,
		&s.TaskTag,
		&s.StartTime,
		&s.EndTime,
		&durationSeconds,
		&s.IsCompleted,
		&s.RewardPoints,
	)
	if err != nil {
		return nil, err
	}

	s.StartTime = s.StartTime.UTC()
	s.EndTime = s.EndTime.UTC()
	s.Duration = models.SpanOf(time.Duration(durationSeconds) * time.Second)
	return &s, nil
}

// CreateSession inserts a running session and fills in its id
func (db *DB) CreateSession(ctx context.Context, s *models.PomodoroSession) error {
	query := `
		INSERT INTO pomodoro_sessions (task_tag, start_time, end_time, duration_seconds, is_completed, reward_points)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id
	`
	err := db.QueryRowContext(ctx, query,
		s.TaskTag,
		s.StartTime,
		s.EndTime,
		s.Duration.Seconds(),
		s.IsCompleted,
		s.RewardPoints,
	).Scan(&s.ID)
	if err != nil {
		return fmt.Errorf("failed to insert pomodoro session: %w", err)
	}
	return nil
}

// GetSession fetches one session by id
func (db *DB) GetSession(ctx context.Context, id int) (*models.PomodoroSession, error) {
	s, err := scanSession(db.QueryRowContext(ctx, `SELECT `+sessionColumns+` FROM pomodoro_sessions WHERE id = $1`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to fetch pomodoro session %d: %w", id, err)
	}
	return s, nil
}

// ListSessions returns every session in creation order
func (db *DB) ListSessions(ctx context.Context) ([]models.PomodoroSession, error) {
	rows, err := db.QueryContext(ctx, `SELECT `+sessionColumns+` FROM pomodoro_sessions ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("failed to list pomodoro sessions: %w", err)
	}
	defer rows.Close()

	sessions := []models.PomodoroSession{}
	for rows.Next() {
		s, err := scanSession(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan pomodoro session: %w", err)
		}
		sessions = append(sessions, *s)
	}
	return sessions, rows.Err()
}

// SaveSessionEnd overwrites the finalization fields of a session
func (db *DB) SaveSessionEnd(ctx context.Context, id int, endTime time.Time, completed bool, rewardPoints int) error {
	err := affectedOne(db.ExecContext(ctx,
		`UPDATE pomodoro_sessions SET end_time = $2, is_completed = $3, reward_points = $4 WHERE id = $1`,
		id, endTime, completed, rewardPoints,
	))
	if err != nil && !errors.Is(err, ErrNotFound) {
		return fmt.Errorf("failed to finalize pomodoro session %d: %w", id, err)
	}
	return err
}

// CountSessions returns the number of sessions
func (db *DB) CountSessions(ctx context.Context) (int, error) {
	var count int
	if err := db.QueryRowContext(ctx, `SELECT COUNT(*) FROM pomodoro_sessions`).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count pomodoro sessions: %w", err)
	}
	return count, nil
}

// CountCompletedSessions returns the number of sessions flagged completed
func (db *DB) CountCompletedSessions(ctx context.Context) (int, error) {
	var count int
	if err := db.QueryRowContext(ctx, `SELECT COUNT(*) FROM pomodoro_sessions WHERE is_completed = TRUE`).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count completed pomodoro sessions: %w", err)
	}
	return count, nil
}

// SumFocusMinutes totals the fractional minutes of every session that ended after it started
func (db *DB) SumFocusMinutes(ctx context.Context) (float64, error) {
	var minutes float64
	query := `
		SELECT COALESCE(SUM(EXTRACT(EPOCH FROM (end_time - start_time))), 0) / 60.0
		FROM pomodoro_sessions
		WHERE end_time > start_time
	`
	if err := db.QueryRowContext(ctx, query).Scan(&minutes); err != nil {
		return 0, fmt.Errorf("failed to sum focus minutes: %w", err)
	}
	return minutes, nil
}
