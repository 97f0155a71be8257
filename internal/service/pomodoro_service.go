package service

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"

	"github.com/dogclock/api/internal/clock"
	"github.com/dogclock/api/internal/metrics"
	"github.com/dogclock/api/internal/models"
)

// Finalize signal sources, used as a metric label
const (
	SourceStop   = "stop"
	SourceUnload = "unload"
)

const (
	pointsPerMinute = 2
	runningGrace    = 10 * time.Minute
	defaultTopTags  = 10
)

// StartSessionRequest is the body of a session start
type StartSessionRequest struct {
	TaskTag  string      `json:"taskTag" validate:"required"`
	Duration models.Span `json:"duration"`
}

// PomodoroService tracks a focus session from start to finalization. Finalize
// may be called repeatedly from unreliable client signals; every call
// overwrites the previous end time and reward.
type PomodoroService struct {
	store    SessionStore
	board    FocusBoard
	registry RunningRegistry
	clock    clock.Clock
	validate *validator.Validate
	logger   *slog.Logger
}

// NewPomodoroService creates a session tracker. A nil board or registry disables that projection.
func NewPomodoroService(store SessionStore, board FocusBoard, registry RunningRegistry, clk clock.Clock, logger *slog.Logger) *PomodoroService {
	if board == nil {
		board = NopFocusBoard{}
	}
	if registry == nil {
		registry = NopRunningRegistry{}
	}
	return &PomodoroService{
		store:    store,
		board:    board,
		registry: registry,
		clock:    clk,
		validate: validator.New(),
		logger:   logger.With("component", "pomodoro"),
	}
}

// Start creates a running session stamped with the current time
func (s *PomodoroService) Start(ctx context.Context, req StartSessionRequest) (*models.PomodoroSession, error) {
	if err := s.validate.Struct(req); err != nil {
		return nil, fmt.Errorf("%w: taskTag is required", ErrInvalidInput)
	}
	if req.Duration.Duration < 0 {
		return nil, fmt.Errorf("%w: duration must not be negative", ErrInvalidInput)
	}

	session := &models.PomodoroSession{
		TaskTag:   req.TaskTag,
		StartTime: s.clock.Now(),
		Duration:  req.Duration,
	}
	if err := s.store.CreateSession(ctx, session); err != nil {
		return nil, fmt.Errorf("failed to start session: %w", err)
	}

	ttl := session.Duration.Duration + runningGrace
	running := models.RunningSession{
		ID:        session.ID,
		TaskTag:   session.TaskTag,
		StartTime: session.StartTime,
		Duration:  session.Duration,
		ExpiresAt: session.StartTime.Add(ttl),
	}
	if err := s.registry.SetRunning(ctx, running, ttl); err != nil {
		s.logger.Warn("failed to register running session", slog.Int("session_id", session.ID), slog.Any("error", err))
	}

	metrics.SessionsStartedTotal.WithLabelValues(session.TaskTag).Inc()
	s.logger.Info("session started",
		slog.Int("session_id", session.ID),
		slog.String("task_tag", session.TaskTag),
		slog.String("duration", session.Duration.String()),
	)
	return session, nil
}

// Finalize records the end of a session. With a positive elapsedSeconds the
// end time is start+elapsed, clamped to now; otherwise it is now. The reward
// is recomputed from the whole span each time, so a later call with a shorter
// elapsed value lowers it. Only the first finalize clears the running entry.
func (s *PomodoroService) Finalize(ctx context.Context, id int, completed bool, elapsedSeconds int, source string) (*models.PomodoroSession, error) {
	session, err := s.store.GetSession(ctx, id)
	if err != nil {
		return nil, err
	}

	now := s.clock.Now()
	endTime := now
	// Compared in whole seconds so a huge elapsed value cannot overflow a Duration
	if elapsedSeconds > 0 && int64(elapsedSeconds) < int64(now.Sub(session.StartTime)/time.Second) {
		endTime = session.StartTime.Add(time.Duration(elapsedSeconds) * time.Second)
	}
	reward := rewardPoints(session.StartTime, endTime)

	wasFinalized := session.Finalized()
	previousFocus := session.FocusMinutes()
	if err := s.store.SaveSessionEnd(ctx, id, endTime, completed, reward); err != nil {
		return nil, fmt.Errorf("failed to finalize session: %w", err)
	}
	session.EndTime = endTime
	session.IsCompleted = completed
	session.RewardPoints = reward

	if delta := session.FocusMinutes() - previousFocus; delta != 0 {
		if err := s.board.AddFocus(ctx, session.TaskTag, delta); err != nil {
			s.logger.Warn("failed to update focus board", slog.Int("session_id", id), slog.Any("error", err))
		}
	}
	if !wasFinalized {
		if err := s.registry.ClearRunning(ctx, id); err != nil {
			s.logger.Warn("failed to clear running session", slog.Int("session_id", id), slog.Any("error", err))
		}
	}

	metrics.SessionsFinalizedTotal.WithLabelValues(source, strconv.FormatBool(completed)).Inc()
	metrics.RewardPoints.Observe(float64(reward))
	s.logger.Info("session finalized",
		slog.Int("session_id", id),
		slog.String("source", source),
		slog.Bool("completed", completed),
		slog.Int("reward_points", reward),
		slog.Bool("overwrite", wasFinalized),
	)
	return session, nil
}

// rewardPoints is two points per whole minute, truncated
func rewardPoints(start, end time.Time) int {
	return int(end.Sub(start).Minutes()) * pointsPerMinute
}

// List returns every session
func (s *PomodoroService) List(ctx context.Context) ([]models.PomodoroSession, error) {
	return s.store.ListSessions(ctx)
}

// Get returns one session
func (s *PomodoroService) Get(ctx context.Context, id int) (*models.PomodoroSession, error) {
	return s.store.GetSession(ctx, id)
}

// TotalSessionCount returns the number of sessions ever started
func (s *PomodoroService) TotalSessionCount(ctx context.Context) (int, error) {
	return s.store.CountSessions(ctx)
}

// TotalFocusMinutes returns the unrounded minutes of every session that ended after it started
func (s *PomodoroService) TotalFocusMinutes(ctx context.Context) (float64, error) {
	return s.store.SumFocusMinutes(ctx)
}

// CompletionRate formats completed/total as a percentage with two decimals,
// or "0%" when there are no sessions
func (s *PomodoroService) CompletionRate(ctx context.Context) (string, error) {
	total, err := s.store.CountSessions(ctx)
	if err != nil {
		return "", err
	}
	if total == 0 {
		return "0%", nil
	}

	completed, err := s.store.CountCompletedSessions(ctx)
	if err != nil {
		return "", err
	}

	rate := decimal.NewFromInt(int64(completed)).
		Mul(decimal.NewFromInt(100)).
		Div(decimal.NewFromInt(int64(total)))
	return rate.StringFixed(2) + "%", nil
}

// TopTags returns the task tags with the most focus time
func (s *PomodoroService) TopTags(ctx context.Context, limit int) ([]models.TagFocus, error) {
	if limit <= 0 {
		limit = defaultTopTags
	}
	return s.board.TopTags(ctx, int64(limit))
}

// Running returns the sessions that are started but not finalized
func (s *PomodoroService) Running(ctx context.Context) ([]models.RunningSession, error) {
	return s.registry.ListRunning(ctx)
}
