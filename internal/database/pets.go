package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/dogclock/api/internal/models"
)

const petColumns = `id, name, hunger, mood, is_healthy, is_dead, birthday, age_seconds, last_feed, last_play, unhealthy_seconds, dead_age`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanPet(row rowScanner) (*models.Pet, error) {
	var (
		pet              models.Pet
		ageSeconds       int64
		unhealthySeconds int64
	)
	err := row.Scan(
		&pet.ID,
		&pet.Name,
		&pet.Hunger,
		&pet.Mood,
		&pet.IsHealthy,
		&pet.IsDead,
		&pet.Birthday,
		&ageSeconds,
		&pet.LastFeed,
		&pet.LastPlay,
		&unhealthySeconds,
		&pet.DeadAge,
	)
	if err != nil {
		return nil, err
	}

	pet.Birthday = pet.Birthday.UTC()
	pet.LastFeed = pet.LastFeed.UTC()
	pet.LastPlay = pet.LastPlay.UTC()
	pet.Age = models.SpanOf(time.Duration(ageSeconds) * time.Second)
	pet.UnhealthyTime = models.SpanOf(time.Duration(unhealthySeconds) * time.Second)
	return &pet, nil
}

// CreatePet inserts a pet and fills in its id
func (db *DB) CreatePet(ctx context.Context, pet *models.Pet) error {
	query := `
		INSERT INTO pets (name, hunger, mood, is_healthy, is_dead, birthday, age_seconds, last_feed, last_play, unhealthy_seconds, dead_age)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING id
	`
	err := db.QueryRowContext(ctx, query,
		pet.Name,
		pet.Hunger,
		pet.Mood,
		pet.IsHealthy,
		pet.IsDead,
		pet.Birthday,
		pet.Age.Seconds(),
		pet.LastFeed,
		pet.LastPlay,
		pet.UnhealthyTime.Seconds(),
		pet.DeadAge,
	).Scan(&pet.ID)
	if err != nil {
		return fmt.Errorf("failed to insert pet: %w", err)
	}
	return nil
}

// GetPet fetches one pet by id
func (db *DB) GetPet(ctx context.Context, id int) (*models.Pet, error) {
	pet, err := scanPet(db.QueryRowContext(ctx, `SELECT `+petColumns+` FROM pets WHERE id = $1`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to fetch pet %d: %w", id, err)
	}
	return pet, nil
}

// ListPets returns every pet, dead or alive
func (db *DB) ListPets(ctx context.Context) ([]models.Pet, error) {
	rows, err := db.QueryContext(ctx, `SELECT `+petColumns+` FROM pets ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("failed to list pets: %w", err)
	}
	defer rows.Close()

	pets := []models.Pet{}
	for rows.Next() {
		pet, err := scanPet(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan pet: %w", err)
		}
		pets = append(pets, *pet)
	}
	return pets, rows.Err()
}

// FirstAlivePet returns the lowest-id pet that is not dead
func (db *DB) FirstAlivePet(ctx context.Context) (*models.Pet, error) {
	pet, err := scanPet(db.QueryRowContext(ctx, `SELECT `+petColumns+` FROM pets WHERE is_dead = FALSE ORDER BY id LIMIT 1`))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to fetch alive pet: %w", err)
	}
	return pet, nil
}

// HasAlivePet reports whether any pet is not dead
func (db *DB) HasAlivePet(ctx context.Context) (bool, error) {
	var exists bool
	err := db.QueryRowContext(ctx, `SELECT EXISTS (SELECT 1 FROM pets WHERE is_dead = FALSE)`).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check alive pets: %w", err)
	}
	return exists, nil
}

// SaveHunger writes a hunger value and its decay reference time
func (db *DB) SaveHunger(ctx context.Context, id, hunger int, lastFeed time.Time) error {
	err := affectedOne(db.ExecContext(ctx, `UPDATE pets SET hunger = $2, last_feed = $3 WHERE id = $1`, id, hunger, lastFeed))
	if err != nil && !errors.Is(err, ErrNotFound) {
		return fmt.Errorf("failed to update hunger of pet %d: %w", id, err)
	}
	return err
}

// SaveMood writes a mood value and its decay reference time
func (db *DB) SaveMood(ctx context.Context, id, mood int, lastPlay time.Time) error {
	err := affectedOne(db.ExecContext(ctx, `UPDATE pets SET mood = $2, last_play = $3 WHERE id = $1`, id, mood, lastPlay))
	if err != nil && !errors.Is(err, ErrNotFound) {
		return fmt.Errorf("failed to update mood of pet %d: %w", id, err)
	}
	return err
}

// SaveHealthy caches the derived health flag
func (db *DB) SaveHealthy(ctx context.Context, id int, healthy bool) error {
	err := affectedOne(db.ExecContext(ctx, `UPDATE pets SET is_healthy = $2 WHERE id = $1`, id, healthy))
	if err != nil && !errors.Is(err, ErrNotFound) {
		return fmt.Errorf("failed to update health of pet %d: %w", id, err)
	}
	return err
}

// MarkDead sets the terminal dead flag. There is no statement that clears it.
func (db *DB) MarkDead(ctx context.Context, id int) error {
	err := affectedOne(db.ExecContext(ctx, `UPDATE pets SET is_dead = TRUE WHERE id = $1`, id))
	if err != nil && !errors.Is(err, ErrNotFound) {
		return fmt.Errorf("failed to mark pet %d dead: %w", id, err)
	}
	return err
}
