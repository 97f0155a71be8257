package models

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"
)

// ErrNotFound is returned by every store when a row does not exist
var ErrNotFound = errors.New("not found")

func init() {
	// The client reads deadAge as a number
	decimal.MarshalJSONWithoutQuotes = true
}

// Pet represents an adopted virtual pet
type Pet struct {
	ID            int             `json:"id"`
	Name          string          `json:"name"`
	Hunger        int             `json:"hunger"`
	Mood          int             `json:"mood"`
	IsHealthy     bool            `json:"isHealthy"`
	IsDead        bool            `json:"isDead"`
	Birthday      time.Time       `json:"birthday"`
	Age           Span            `json:"age"`
	LastFeed      time.Time       `json:"lastFeed"`
	LastPlay      time.Time       `json:"lastPlay"`
	UnhealthyTime Span            `json:"unhealthyTime"`
	DeadAge       decimal.Decimal `json:"deadAge"`
}

// PomodoroSession represents one focus-timer run
type PomodoroSession struct {
	ID           int       `json:"id"`
	TaskTag      string    `json:"taskTag"`
	StartTime    time.Time `json:"startTime"`
	EndTime      time.Time `json:"endTime"`
	Duration     Span      `json:"duration"`
	IsCompleted  bool      `json:"isCompleted"`
	RewardPoints int       `json:"rewardPoints"`
}

// Finalized reports whether an end time has been recorded
func (s *PomodoroSession) Finalized() bool {
	return !s.EndTime.IsZero()
}

// FocusMinutes is the fractional length of the session, zero until it ends after it started
func (s *PomodoroSession) FocusMinutes() float64 {
	if !s.EndTime.After(s.StartTime) {
		return 0
	}
	return s.EndTime.Sub(s.StartTime).Minutes()
}

// User holds the single player's name and coin balance
type User struct {
	ID      int    `json:"id"`
	Name    string `json:"name"`
	Balance int    `json:"balance"`
}

// Product is a shop catalog entry
type Product struct {
	ID         int    `json:"id"`
	Name       string `json:"name" validate:"required"`
	Type       string `json:"type"`
	Bonus      int    `json:"bonus"`
	Price      int    `json:"price" validate:"gte=0"`
	PictureURL string `json:"prictureUrl"`
}

// UserItem is an owned stack of a purchased product
type UserItem struct {
	ID         int    `json:"id"`
	Name       string `json:"name"`
	Type       string `json:"type"`
	Bonus      int    `json:"bonus"`
	Price      int    `json:"price"`
	PictureURL string `json:"prictureUrl"`
	Quantity   int    `json:"quantity"`
}

// TagFocus is the accumulated focus time of one task tag
type TagFocus struct {
	Tag     string  `json:"taskTag"`
	Minutes float64 `json:"minutes"`
}

// RunningSession is a started pomodoro that has not been finalized yet
type RunningSession struct {
	ID        int       `json:"id"`
	TaskTag   string    `json:"taskTag"`
	StartTime time.Time `json:"startTime"`
	Duration  Span      `json:"duration"`
	ExpiresAt time.Time `json:"expiresAt"`
}
