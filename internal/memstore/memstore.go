// Package memstore keeps every aggregate in process memory. It implements the
// same repository methods as the PostgreSQL store and is used for local runs
// without a database and by tests.
package memstore

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/dogclock/api/internal/models"
)

// ErrNotFound is returned when a row does not exist
var ErrNotFound = models.ErrNotFound

// Store is an in-memory store. Rows are copied in and out so callers never
// share memory with the store.
type Store struct {
	mu       sync.RWMutex
	pets     map[int]models.Pet
	sessions map[int]models.PomodoroSession
	products map[int]models.Product
	items    map[int]models.UserItem
	users    map[int]models.User

	nextPetID     int
	nextSessionID int
	nextItemID    int
}

// New creates an empty store
func New() *Store {
	return &Store{
		pets:     make(map[int]models.Pet),
		sessions: make(map[int]models.PomodoroSession),
		products: make(map[int]models.Product),
		items:    make(map[int]models.UserItem),
		users:    make(map[int]models.User),
	}
}

// Seed loads the catalog when empty and the default user when missing
func (s *Store) Seed(_ context.Context, products []models.Product, user models.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.products) == 0 {
		for _, p := range products {
			s.products[p.ID] = p
		}
	}
	if _, ok := s.users[user.ID]; !ok {
		s.users[user.ID] = user
	}
	return nil
}

// Ping always succeeds
func (s *Store) Ping(context.Context) error {
	return nil
}

func sortedKeys[V any](m map[int]V) []int {
	keys := make([]int, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Ints(keys)
	return keys
}

// Pets

func (s *Store) CreatePet(_ context.Context, pet *models.Pet) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.nextPetID++
	pet.ID = s.nextPetID
	s.pets[pet.ID] = *pet
	return nil
}

func (s *Store) GetPet(_ context.Context, id int) (*models.Pet, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	pet, ok := s.pets[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &pet, nil
}

func (s *Store) ListPets(context.Context) ([]models.Pet, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	pets := make([]models.Pet, 0, len(s.pets))
	for _, id := range sortedKeys(s.pets) {
		pets = append(pets, s.pets[id])
	}
	return pets, nil
}

func (s *Store) FirstAlivePet(context.Context) (*models.Pet, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, id := range sortedKeys(s.pets) {
		if pet := s.pets[id]; !pet.IsDead {
			return &pet, nil
		}
	}
	return nil, ErrNotFound
}

func (s *Store) HasAlivePet(ctx context.Context) (bool, error) {
	_, err := s.FirstAlivePet(ctx)
	if err == ErrNotFound {
		return false, nil
	}
	return err == nil, err
}

func (s *Store) updatePet(id int, fn func(*models.Pet)) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	pet, ok := s.pets[id]
	if !ok {
		return ErrNotFound
	}
	fn(&pet)
	s.pets[id] = pet
	return nil
}

func (s *Store) SaveHunger(_ context.Context, id, hunger int, lastFeed time.Time) error {
	return s.updatePet(id, func(p *models.Pet) {
		p.Hunger = hunger
		p.LastFeed = lastFeed
	})
}

func (s *Store) SaveMood(_ context.Context, id, mood int, lastPlay time.Time) error {
	return s.updatePet(id, func(p *models.Pet) {
		p.Mood = mood
		p.LastPlay = lastPlay
	})
}

func (s *Store) SaveHealthy(_ context.Context, id int, healthy bool) error {
	return s.updatePet(id, func(p *models.Pet) { p.IsHealthy = healthy })
}

func (s *Store) MarkDead(_ context.Context, id int) error {
	return s.updatePet(id, func(p *models.Pet) { p.IsDead = true })
}

// Pomodoro sessions

func (s *Store) CreateSession(_ context.Context, session *models.PomodoroSession) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.nextSessionID++
	session.ID = s.nextSessionID
	s.sessions[session.ID] = *session
	return nil
}

func (s *Store) GetSession(_ context.Context, id int) (*models.PomodoroSession, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	session, ok := s.sessions[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &session, nil
}

func (s *Store) ListSessions(context.Context) ([]models.PomodoroSession, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sessions := make([]models.PomodoroSession, 0, len(s.sessions))
	for _, id := range sortedKeys(s.sessions) {
		sessions = append(sessions, s.sessions[id])
	}
	return sessions, nil
}

func (s *Store) SaveSessionEnd(_ context.Context, id int, endTime time.Time, completed bool, rewardPoints int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	session, ok := s.sessions[id]
	if !ok {
		return ErrNotFound
	}
	session.EndTime = endTime
	session.IsCompleted = completed
	session.RewardPoints = rewardPoints
	s.sessions[id] = session
	return nil
}

func (s *Store) CountSessions(context.Context) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions), nil
}

func (s *Store) CountCompletedSessions(context.Context) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	count := 0
	for _, session := range s.sessions {
		if session.IsCompleted {
			count++
		}
	}
	return count, nil
}

func (s *Store) SumFocusMinutes(context.Context) (float64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var total float64
	for _, session := range s.sessions {
		total += session.FocusMinutes()
	}
	return total, nil
}

// Users

func (s *Store) GetUser(_ context.Context, id int) (*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	user, ok := s.users[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &user, nil
}

func (s *Store) SaveUserName(_ context.Context, id int, name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	user, ok := s.users[id]
	if !ok {
		return ErrNotFound
	}
	user.Name = name
	s.users[id] = user
	return nil
}

func (s *Store) SaveUserBalance(_ context.Context, id, balance int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	user, ok := s.users[id]
	if !ok {
		return ErrNotFound
	}
	user.Balance = balance
	s.users[id] = user
	return nil
}

// Products

func (s *Store) ListProducts(context.Context) ([]models.Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	products := make([]models.Product, 0, len(s.products))
	for _, id := range sortedKeys(s.products) {
		products = append(products, s.products[id])
	}
	return products, nil
}

func (s *Store) GetProduct(_ context.Context, id int) (*models.Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	p, ok := s.products[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &p, nil
}

// Inventory

func (s *Store) ListItems(context.Context) ([]models.UserItem, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	items := make([]models.UserItem, 0, len(s.items))
	for _, id := range sortedKeys(s.items) {
		items = append(items, s.items[id])
	}
	return items, nil
}

func (s *Store) GetItem(_ context.Context, id int) (*models.UserItem, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	item, ok := s.items[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &item, nil
}

func (s *Store) FindItemByName(_ context.Context, name string) (*models.UserItem, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, id := range sortedKeys(s.items) {
		if item := s.items[id]; item.Name == name {
			return &item, nil
		}
	}
	return nil, ErrNotFound
}

func (s *Store) CreateItem(_ context.Context, item *models.UserItem) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.nextItemID++
	item.ID = s.nextItemID
	s.items[item.ID] = *item
	return nil
}

func (s *Store) SaveItemQuantity(_ context.Context, id, quantity int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	item, ok := s.items[id]
	if !ok {
		return ErrNotFound
	}
	item.Quantity = quantity
	s.items[id] = item
	return nil
}

func (s *Store) DeleteItem(_ context.Context, id int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.items[id]; !ok {
		return ErrNotFound
	}
	delete(s.items, id)
	return nil
}
