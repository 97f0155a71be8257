package handlers

import (
	"fmt"
	"log/slog"
	"math"
	"net/http"
	"strconv"

	"github.com/dogclock/api/internal/service"
)

const sessionNotFound = "Session not found"

type PomodoroHandler struct {
	sessions *service.PomodoroService
	logger   *slog.Logger
}

func NewPomodoroHandler(sessions *service.PomodoroService, logger *slog.Logger) *PomodoroHandler {
	return &PomodoroHandler{sessions: sessions, logger: logger}
}

// UpdateSessionRequest is the body of an explicit stop
type UpdateSessionRequest struct {
	IsCompleted bool `json:"isCompleted"`
}

// UnloadSessionRequest is the body sent when the client page goes away
type UnloadSessionRequest struct {
	IsCompleted           bool    `json:"isCompleted"`
	ActualDurationSeconds float64 `json:"actualDurationSeconds"`
}

// maxElapsedSeconds keeps the float to int conversion defined
const maxElapsedSeconds = 1 << 52

// wholeSeconds truncates a client-measured duration. Negative or NaN values become zero.
func wholeSeconds(seconds float64) int {
	if !(seconds > 0) {
		return 0
	}
	return int(math.Min(seconds, maxElapsedSeconds))
}

// ListSessions returns every session
func (h *PomodoroHandler) ListSessions(w http.ResponseWriter, r *http.Request) {
	sessions, err := h.sessions.List(r.Context())
	if err != nil {
		writeServiceError(w, r, h.logger, err, sessionNotFound)
		return
	}
	writeJSON(w, http.StatusOK, sessions)
}

// GetSession returns one session
func (h *PomodoroHandler) GetSession(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	session, err := h.sessions.Get(r.Context(), id)
	if err != nil {
		writeServiceError(w, r, h.logger, err, sessionNotFound)
		return
	}
	writeJSON(w, http.StatusOK, session)
}

// StartSession creates a running session
func (h *PomodoroHandler) StartSession(w http.ResponseWriter, r *http.Request) {
	var req service.StartSessionRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	session, err := h.sessions.Start(r.Context(), req)
	if err != nil {
		writeServiceError(w, r, h.logger, err, sessionNotFound)
		return
	}

	w.Header().Set("Location", fmt.Sprintf("/api/pomodoro/%d", session.ID))
	writeJSON(w, http.StatusCreated, session)
}

// UpdateSession finalizes a session at the current time
func (h *PomodoroHandler) UpdateSession(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	var req UpdateSessionRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	if _, err := h.sessions.Finalize(r.Context(), id, req.IsCompleted, 0, service.SourceStop); err != nil {
		writeServiceError(w, r, h.logger, err, sessionNotFound)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// UpdateOnUnload finalizes a session from an unload or visibility signal.
// Mounted on both PUT and POST so sendBeacon can reach it.
func (h *PomodoroHandler) UpdateOnUnload(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	var req UnloadSessionRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	_, err := h.sessions.Finalize(r.Context(), id, req.IsCompleted, wholeSeconds(req.ActualDurationSeconds), service.SourceUnload)
	if err != nil {
		writeServiceError(w, r, h.logger, err, sessionNotFound)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// TotalCount returns the number of sessions
func (h *PomodoroHandler) TotalCount(w http.ResponseWriter, r *http.Request) {
	count, err := h.sessions.TotalSessionCount(r.Context())
	if err != nil {
		writeServiceError(w, r, h.logger, err, sessionNotFound)
		return
	}
	writeJSON(w, http.StatusOK, count)
}

// TotalFocus returns the fractional focus minutes
func (h *PomodoroHandler) TotalFocus(w http.ResponseWriter, r *http.Request) {
	minutes, err := h.sessions.TotalFocusMinutes(r.Context())
	if err != nil {
		writeServiceError(w, r, h.logger, err, sessionNotFound)
		return
	}
	writeJSON(w, http.StatusOK, minutes)
}

// CompletionRate returns the completion percentage as plain text
func (h *PomodoroHandler) CompletionRate(w http.ResponseWriter, r *http.Request) {
	rate, err := h.sessions.CompletionRate(r.Context())
	if err != nil {
		writeServiceError(w, r, h.logger, err, sessionNotFound)
		return
	}
	writeText(w, http.StatusOK, rate)
}

// TopTags returns the task tags with the most focus time
func (h *PomodoroHandler) TopTags(w http.ResponseWriter, r *http.Request) {
	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			writeError(w, http.StatusBadRequest, "Invalid limit")
			return
		}
		limit = n
	}

	tags, err := h.sessions.TopTags(r.Context(), limit)
	if err != nil {
		writeServiceError(w, r, h.logger, err, sessionNotFound)
		return
	}
	writeJSON(w, http.StatusOK, tags)
}

// Running returns sessions that have started but not been finalized
func (h *PomodoroHandler) Running(w http.ResponseWriter, r *http.Request) {
	running, err := h.sessions.Running(r.Context())
	if err != nil {
		writeServiceError(w, r, h.logger, err, sessionNotFound)
		return
	}
	writeJSON(w, http.StatusOK, running)
}
