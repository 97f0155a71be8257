package database

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dogclock/api/internal/config"
	"github.com/dogclock/api/internal/models"
)

func newMockDB(t *testing.T) (*DB, sqlmock.Sqlmock) {
	t.Helper()
	conn, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	return New(conn), mock
}

var petCols = []string{"id", "name", "hunger", "mood", "is_healthy", "is_dead", "birthday", "age_seconds", "last_feed", "last_play", "unhealthy_seconds", "dead_age"}

func TestGetPet(t *testing.T) {
	db, mock := newMockDB(t)
	born := time.Date(2025, 3, 4, 14, 3, 25, 0, time.UTC)

	mock.ExpectQuery(regexp.QuoteMeta("FROM pets WHERE id = $1")).
		WithArgs(3).
		WillReturnRows(sqlmock.NewRows(petCols).
			AddRow(3, "Rex", 55, 48, true, false, born, int64(0), born, born, int64(0), "15.734211"))

	pet, err := db.GetPet(context.Background(), 3)
	require.NoError(t, err)

	assert.Equal(t, 3, pet.ID)
	assert.Equal(t, "Rex", pet.Name)
	assert.Equal(t, 55, pet.Hunger)
	assert.Equal(t, 48, pet.Mood)
	assert.Equal(t, born, pet.Birthday)
	assert.True(t, pet.DeadAge.Equal(decimal.RequireFromString("15.734211")))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetPetNotFound(t *testing.T) {
	db, mock := newMockDB(t)

	mock.ExpectQuery(regexp.QuoteMeta("FROM pets WHERE id = $1")).
		WithArgs(42).
		WillReturnRows(sqlmock.NewRows(petCols))

	_, err := db.GetPet(context.Background(), 42)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.ErrorIs(t, err, models.ErrNotFound)
}

func TestCreatePet(t *testing.T) {
	db, mock := newMockDB(t)
	now := time.Date(2025, 3, 4, 14, 3, 25, 0, time.UTC)

	mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO pets")).
		WithArgs("Rex", 60, 60, true, false, now, int64(0), now, now, int64(0), sqlmock.AnyArg()).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(9))

	pet := &models.Pet{
		Name: "Rex", Hunger: 60, Mood: 60, IsHealthy: true,
		Birthday: now, LastFeed: now, LastPlay: now,
		DeadAge: decimal.RequireFromString("16.5"),
	}
	require.NoError(t, db.CreatePet(context.Background(), pet))
	assert.Equal(t, 9, pet.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMarkDeadMissingPet(t *testing.T) {
	db, mock := newMockDB(t)

	mock.ExpectExec(regexp.QuoteMeta("UPDATE pets SET is_dead = TRUE WHERE id = $1")).
		WithArgs(5).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := db.MarkDead(context.Background(), 5)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestSaveHungerWrapsDriverErrors(t *testing.T) {
	db, mock := newMockDB(t)
	now := time.Now().UTC()

	mock.ExpectExec(regexp.QuoteMeta("UPDATE pets SET hunger = $2, last_feed = $3 WHERE id = $1")).
		WithArgs(1, 41, now).
		WillReturnError(errors.New("connection reset"))

	err := db.SaveHunger(context.Background(), 1, 41, now)
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrNotFound)
	assert.Contains(t, err.Error(), "failed to update hunger of pet 1")
}

func TestSaveSessionEnd(t *testing.T) {
	db, mock := newMockDB(t)
	end := time.Date(2025, 3, 4, 15, 0, 0, 0, time.UTC)

	mock.ExpectExec(regexp.QuoteMeta("UPDATE pomodoro_sessions SET end_time = $2, is_completed = $3, reward_points = $4 WHERE id = $1")).
		WithArgs(2, end, true, 50).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, db.SaveSessionEnd(context.Background(), 2, end, true, 50))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetSessionKeepsZeroEndTime(t *testing.T) {
	db, mock := newMockDB(t)
	start := time.Date(2025, 3, 4, 14, 0, 0, 0, time.UTC)

	mock.ExpectQuery(regexp.QuoteMeta("FROM pomodoro_sessions WHERE id = $1")).
		WithArgs(1).
		WillReturnRows(sqlmock.NewRows([]string{"id", "task_tag", "start_time", "end_time", "duration_seconds", "is_completed", "reward_points"}).
			AddRow(1, "Study", start, time.Time{}, int64(1500), false, 0))

	s, err := db.GetSession(context.Background(), 1)
	require.NoError(t, err)
	assert.True(t, s.EndTime.IsZero())
	assert.False(t, s.Finalized())
	assert.Equal(t, 25*time.Minute, s.Duration.Duration)
}

func TestSumFocusMinutes(t *testing.T) {
	db, mock := newMockDB(t)

	mock.ExpectQuery(regexp.QuoteMeta("WHERE end_time > start_time")).
		WillReturnRows(sqlmock.NewRows([]string{"minutes"}).AddRow(37.5))

	minutes, err := db.SumFocusMinutes(context.Background())
	require.NoError(t, err)
	assert.InDelta(t, 37.5, minutes, 1e-9)
}

func TestSeedSkipsExistingCatalog(t *testing.T) {
	db, mock := newMockDB(t)
	user := models.DefaultUser()

	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*) FROM products")).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(3))
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO users")).
		WithArgs(user.ID, user.Name, user.Balance).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec(regexp.QuoteMeta("pg_get_serial_sequence('users', 'id')")).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, db.Seed(context.Background(), models.DefaultProducts(), user))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSeedInsertsCatalog(t *testing.T) {
	db, mock := newMockDB(t)
	products := models.DefaultProducts()
	user := models.DefaultUser()

	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*) FROM products")).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))
	for _, p := range products {
		mock.ExpectExec(regexp.QuoteMeta("INSERT INTO products")).
			WithArgs(p.ID, p.Name, p.Type, p.Bonus, p.Price, p.PictureURL).
			WillReturnResult(sqlmock.NewResult(int64(p.ID), 1))
	}
	mock.ExpectExec(regexp.QuoteMeta("pg_get_serial_sequence('products', 'id')")).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO users")).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec(regexp.QuoteMeta("pg_get_serial_sequence('users', 'id')")).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, db.Seed(context.Background(), products, user))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMigrationURLEscapesCredentials(t *testing.T) {
	got := migrationURL(config.DatabaseConfig{
		Host: "db", Port: 5432, User: "dog", Password: "p@ss word", Name: "dogclock", SSLMode: "disable",
	})
	assert.Equal(t, "postgres://dog:p%40ss%20word@db:5432/dogclock?sslmode=disable", got)
}
