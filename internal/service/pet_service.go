package service

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"math/rand/v2"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/dogclock/api/internal/clock"
	"github.com/dogclock/api/internal/metrics"
	"github.com/dogclock/api/internal/models"
)

// Vitals and aging constants
const (
	initialVitals    = 60
	maxVitals        = 100
	healthyThreshold = 30
	decayPerMinute   = 0.0283

	deadAgeMean   = 16.0
	deadAgeStdDev = 2.0
)

// agePerMinute is roughly one age unit per 7.5 minutes of wall time
var agePerMinute = decimal.RequireFromString("0.13333")

// DeadAgeSampler draws per-pet lifespans from a normal distribution. One
// generator is shared by the whole process.
type DeadAgeSampler struct {
	mu  sync.Mutex
	rng *rand.Rand
}

// NewDeadAgeSampler creates a sampler reading from src
func NewDeadAgeSampler(src rand.Source) *DeadAgeSampler {
	return &DeadAgeSampler{rng: rand.New(src)}
}

// Sample returns mean + stddev*z with z from the Box-Muller transform, rounded to 6 decimals
func (s *DeadAgeSampler) Sample() decimal.Decimal {
	s.mu.Lock()
	// Float64 is in [0,1), flip it into (0,1] so ln(u1) stays finite
	u1 := 1 - s.rng.Float64()
	u2 := 1 - s.rng.Float64()
	s.mu.Unlock()

	z := math.Sqrt(-2*math.Log(u1)) * math.Sin(2*math.Pi*u2)
	return decimal.NewFromFloat(deadAgeMean + deadAgeStdDev*z).Round(6)
}

var defaultSampler = NewDeadAgeSampler(rand.NewPCG(rand.Uint64(), rand.Uint64()))

// PetService owns a pet's vitals. Everything is computed lazily from stored
// timestamps when the client asks; there is no background ticker.
//
// Concurrent decay calls on the same pet are last-write-wins.
type PetService struct {
	store   PetStore
	clock   clock.Clock
	sampler *DeadAgeSampler
	logger  *slog.Logger
}

// NewPetService creates a pet service. A nil sampler uses the process-wide one.
func NewPetService(store PetStore, clk clock.Clock, sampler *DeadAgeSampler, logger *slog.Logger) *PetService {
	if sampler == nil {
		sampler = defaultSampler
	}
	return &PetService{
		store:   store,
		clock:   clk,
		sampler: sampler,
		logger:  logger.With("component", "pets"),
	}
}

// Create adopts a new pet
func (s *PetService) Create(ctx context.Context, name string) (*models.Pet, error) {
	now := s.clock.Now()
	pet := &models.Pet{
		Name:      name,
		Hunger:    initialVitals,
		Mood:      initialVitals,
		IsHealthy: true,
		IsDead:    false,
		Birthday:  now,
		LastFeed:  now,
		LastPlay:  now,
		DeadAge:   s.sampler.Sample(),
	}

	if err := s.store.CreatePet(ctx, pet); err != nil {
		return nil, fmt.Errorf("failed to create pet: %w", err)
	}

	metrics.PetsAdoptedTotal.Inc()
	s.logger.Info("pet adopted",
		slog.Int("pet_id", pet.ID),
		slog.String("dead_age", pet.DeadAge.String()),
	)
	return pet, nil
}

// List returns every pet, dead or alive
func (s *PetService) List(ctx context.Context) ([]models.Pet, error) {
	return s.store.ListPets(ctx)
}

// Get returns one pet
func (s *PetService) Get(ctx context.Context, id int) (*models.Pet, error) {
	return s.store.GetPet(ctx, id)
}

// ComputeAge returns the pet's age in age units, rounded half-to-even to one
// decimal. It never marks the pet dead; the client compares it against deadAge.
func (s *PetService) ComputeAge(ctx context.Context, id int) (decimal.Decimal, error) {
	pet, err := s.store.GetPet(ctx, id)
	if err != nil {
		return decimal.Zero, err
	}

	minutes := decimal.NewFromFloat(s.clock.Now().Sub(pet.Birthday).Minutes())
	return minutes.Mul(agePerMinute).RoundBank(1), nil
}

// ComputeHunger applies decay since the last measurement, stores the result
// and resets the reference time to now
func (s *PetService) ComputeHunger(ctx context.Context, id int) (int, error) {
	pet, err := s.store.GetPet(ctx, id)
	if err != nil {
		return 0, err
	}

	now := s.clock.Now()
	hunger := decay(pet.Hunger, now.Sub(pet.LastFeed))
	if err := s.store.SaveHunger(ctx, id, hunger, now); err != nil {
		return 0, fmt.Errorf("failed to compute hunger: %w", err)
	}
	return hunger, nil
}

// ComputeMood is ComputeHunger for mood and the last play time
func (s *PetService) ComputeMood(ctx context.Context, id int) (int, error) {
	pet, err := s.store.GetPet(ctx, id)
	if err != nil {
		return 0, err
	}

	now := s.clock.Now()
	mood := decay(pet.Mood, now.Sub(pet.LastPlay))
	if err := s.store.SaveMood(ctx, id, mood, now); err != nil {
		return 0, fmt.Errorf("failed to compute mood: %w", err)
	}
	return mood, nil
}

// decay is not clamped at zero
func decay(value int, elapsed time.Duration) int {
	return int(math.RoundToEven(float64(value) - elapsed.Minutes()*decayPerMinute))
}

// ComputeHealthy evaluates health from the stored hunger and mood without
// applying decay first
func (s *PetService) ComputeHealthy(ctx context.Context, id int) (bool, error) {
	pet, err := s.store.GetPet(ctx, id)
	if err != nil {
		return false, err
	}

	healthy := pet.Hunger >= healthyThreshold && pet.Mood >= healthyThreshold
	if err := s.store.SaveHealthy(ctx, id, healthy); err != nil {
		return false, fmt.Errorf("failed to compute health: %w", err)
	}
	return healthy, nil
}

// HasAlivePet reports whether any pet is still alive
func (s *PetService) HasAlivePet(ctx context.Context) (bool, error) {
	return s.store.HasAlivePet(ctx)
}

// GetAlivePet returns the alive pet with the lowest id
func (s *PetService) GetAlivePet(ctx context.Context) (*models.Pet, error) {
	return s.store.FirstAlivePet(ctx)
}

// MarkDead flags the pet dead. Calling it on a dead pet is a no-op.
func (s *PetService) MarkDead(ctx context.Context, id int) error {
	pet, err := s.store.GetPet(ctx, id)
	if err != nil {
		return err
	}
	if pet.IsDead {
		return nil
	}

	if err := s.store.MarkDead(ctx, id); err != nil {
		return fmt.Errorf("failed to mark pet dead: %w", err)
	}

	metrics.PetsDiedTotal.Inc()
	s.logger.Info("pet died", slog.Int("pet_id", id), slog.String("dead_age", pet.DeadAge.String()))
	return nil
}

// Feed raises hunger by amount, capped at 100. The decay reference time is
// left alone so the next ComputeHunger still covers the whole window.
func (s *PetService) Feed(ctx context.Context, id, amount int) (int, error) {
	pet, err := s.alivePet(ctx, id, amount)
	if err != nil {
		return 0, err
	}

	hunger := min(pet.Hunger+amount, maxVitals)
	if err := s.store.SaveHunger(ctx, id, hunger, pet.LastFeed); err != nil {
		return 0, fmt.Errorf("failed to feed pet: %w", err)
	}
	return hunger, nil
}

// Play raises mood by amount, capped at 100
func (s *PetService) Play(ctx context.Context, id, amount int) (int, error) {
	pet, err := s.alivePet(ctx, id, amount)
	if err != nil {
		return 0, err
	}

	mood := min(pet.Mood+amount, maxVitals)
	if err := s.store.SaveMood(ctx, id, mood, pet.LastPlay); err != nil {
		return 0, fmt.Errorf("failed to play with pet: %w", err)
	}
	return mood, nil
}

func (s *PetService) alivePet(ctx context.Context, id, amount int) (*models.Pet, error) {
	if amount <= 0 {
		return nil, fmt.Errorf("%w: amount must be greater than zero", ErrInvalidInput)
	}

	pet, err := s.store.GetPet(ctx, id)
	if err != nil {
		return nil, err
	}
	if pet.IsDead {
		return nil, fmt.Errorf("%w: pet %d is dead", ErrInvalidInput, id)
	}
	return pet, nil
}
