package service

import (
	"context"
	"time"

	"github.com/dogclock/api/internal/models"
)

// PetStore persists pets
type PetStore interface {
	CreatePet(ctx context.Context, pet *models.Pet) error
	GetPet(ctx context.Context, id int) (*models.Pet, error)
	ListPets(ctx context.Context) ([]models.Pet, error)
	FirstAlivePet(ctx context.Context) (*models.Pet, error)
	HasAlivePet(ctx context.Context) (bool, error)
	SaveHunger(ctx context.Context, id, hunger int, lastFeed time.Time) error
	SaveMood(ctx context.Context, id, mood int, lastPlay time.Time) error
	SaveHealthy(ctx context.Context, id int, healthy bool) error
	MarkDead(ctx context.Context, id int) error
}

// SessionStore persists pomodoro sessions
type SessionStore interface {
	CreateSession(ctx context.Context, session *models.PomodoroSession) error
	GetSession(ctx context.Context, id int) (*models.PomodoroSession, error)
	ListSessions(ctx context.Context) ([]models.PomodoroSession, error)
	SaveSessionEnd(ctx context.Context, id int, endTime time.Time, completed bool, rewardPoints int) error
	CountSessions(ctx context.Context) (int, error)
	CountCompletedSessions(ctx context.Context) (int, error)
	SumFocusMinutes(ctx context.Context) (float64, error)
}

// ShopStore persists the player, the catalog and the inventory
type ShopStore interface {
	GetUser(ctx context.Context, id int) (*models.User, error)
	SaveUserName(ctx context.Context, id int, name string) error
	SaveUserBalance(ctx context.Context, id, balance int) error
	ListProducts(ctx context.Context) ([]models.Product, error)
	GetProduct(ctx context.Context, id int) (*models.Product, error)
	ListItems(ctx context.Context) ([]models.UserItem, error)
	GetItem(ctx context.Context, id int) (*models.UserItem, error)
	FindItemByName(ctx context.Context, name string) (*models.UserItem, error)
	CreateItem(ctx context.Context, item *models.UserItem) error
	SaveItemQuantity(ctx context.Context, id, quantity int) error
	DeleteItem(ctx context.Context, id int) error
}

// Store is everything the server persists
type Store interface {
	PetStore
	SessionStore
	ShopStore
	Seed(ctx context.Context, products []models.Product, user models.User) error
	Ping(ctx context.Context) error
}

// FocusBoard ranks task tags by accumulated focus minutes
type FocusBoard interface {
	AddFocus(ctx context.Context, tag string, minutes float64) error
	TopTags(ctx context.Context, limit int64) ([]models.TagFocus, error)
}

// RunningRegistry tracks sessions that have started but not been finalized
type RunningRegistry interface {
	SetRunning(ctx context.Context, session models.RunningSession, ttl time.Duration) error
	ClearRunning(ctx context.Context, id int) error
	ListRunning(ctx context.Context) ([]models.RunningSession, error)
}

// NopFocusBoard is used when Redis is disabled
type NopFocusBoard struct{}

func (NopFocusBoard) AddFocus(context.Context, string, float64) error { return nil }

func (NopFocusBoard) TopTags(context.Context, int64) ([]models.TagFocus, error) {
	return []models.TagFocus{}, nil
}

// NopRunningRegistry is used when Redis is disabled
type NopRunningRegistry struct{}

func (NopRunningRegistry) SetRunning(context.Context, models.RunningSession, time.Duration) error {
	return nil
}

func (NopRunningRegistry) ClearRunning(context.Context, int) error { return nil }

func (NopRunningRegistry) ListRunning(context.Context) ([]models.RunningSession, error) {
	return []models.RunningSession{}, nil
}
