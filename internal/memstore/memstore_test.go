package memstore

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dogclock/api/internal/models"
)

func TestPetsAreCopiedInAndOut(t *testing.T) {
	ctx := context.Background()
	s := New()

	pet := &models.Pet{Name: "Rex", Hunger: 60}
	require.NoError(t, s.CreatePet(ctx, pet))
	assert.Equal(t, 1, pet.ID)

	pet.Hunger = 0
	got, err := s.GetPet(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, 60, got.Hunger)

	got.Hunger = 5
	again, err := s.GetPet(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, 60, again.Hunger)
}

func TestFirstAlivePetUsesLowestID(t *testing.T) {
	ctx := context.Background()
	s := New()

	for _, name := range []string{"a", "b", "c"} {
		require.NoError(t, s.CreatePet(ctx, &models.Pet{Name: name}))
	}
	require.NoError(t, s.MarkDead(ctx, 1))

	pet, err := s.FirstAlivePet(ctx)
	require.NoError(t, err)
	assert.Equal(t, "b", pet.Name)

	require.NoError(t, s.MarkDead(ctx, 2))
	require.NoError(t, s.MarkDead(ctx, 3))
	_, err = s.FirstAlivePet(ctx)
	assert.ErrorIs(t, err, ErrNotFound)

	alive, err := s.HasAlivePet(ctx)
	require.NoError(t, err)
	assert.False(t, alive)
}

func TestMissingRowsReportNotFound(t *testing.T) {
	ctx := context.Background()
	s := New()

	assert.ErrorIs(t, s.SaveHunger(ctx, 9, 1, time.Now()), ErrNotFound)
	assert.ErrorIs(t, s.SaveSessionEnd(ctx, 9, time.Now(), true, 2), ErrNotFound)
	assert.ErrorIs(t, s.SaveUserBalance(ctx, 9, 10), ErrNotFound)
	assert.ErrorIs(t, s.DeleteItem(ctx, 9), ErrNotFound)
}

func TestSumFocusMinutesSkipsUnfinishedSessions(t *testing.T) {
	ctx := context.Background()
	s := New()
	start := time.Date(2025, 3, 4, 14, 0, 0, 0, time.UTC)

	require.NoError(t, s.CreateSession(ctx, &models.PomodoroSession{TaskTag: "Work", StartTime: start}))
	require.NoError(t, s.CreateSession(ctx, &models.PomodoroSession{TaskTag: "Read", StartTime: start, EndTime: start.Add(90 * time.Second)}))

	minutes, err := s.SumFocusMinutes(ctx)
	require.NoError(t, err)
	assert.InDelta(t, 1.5, minutes, 1e-9)
}

func TestSeedIsIdempotent(t *testing.T) {
	ctx := context.Background()
	s := New()

	require.NoError(t, s.Seed(ctx, models.DefaultProducts(), models.DefaultUser()))
	require.NoError(t, s.SaveUserBalance(ctx, models.DefaultUserID, 40))
	require.NoError(t, s.Seed(ctx, models.DefaultProducts(), models.DefaultUser()))

	products, err := s.ListProducts(ctx)
	require.NoError(t, err)
	assert.Len(t, products, 3)

	user, err := s.GetUser(ctx, models.DefaultUserID)
	require.NoError(t, err)
	assert.Equal(t, 40, user.Balance)
}
