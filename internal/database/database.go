package database

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"log/slog"
	"net/url"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	_ "github.com/lib/pq" // PostgreSQL driver

	"github.com/dogclock/api/internal/config"
	"github.com/dogclock/api/internal/models"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// ErrNotFound is returned when a queried row does not exist
var ErrNotFound = models.ErrNotFound

// DB wraps the database connection
type DB struct {
	*sql.DB
}

// New wraps an already opened connection, used by tests with sqlmock
func New(db *sql.DB) *DB {
	return &DB{db}
}

// NewConnection opens and verifies a PostgreSQL connection pool
func NewConnection(ctx context.Context, cfg config.DatabaseConfig, logger *slog.Logger) (*DB, error) {
	db, err := sql.Open("postgres", cfg.DSN())
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	db.SetMaxOpenConns(cfg.MaxOpenConns)
	db.SetMaxIdleConns(cfg.MaxIdleConns)
	db.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	db.SetConnMaxIdleTime(cfg.ConnMaxIdleTime)

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	logger.Info("database connected",
		slog.String("host", cfg.Host),
		slog.Int("port", cfg.Port),
		slog.String("database", cfg.Name),
		slog.Int("max_open_conns", cfg.MaxOpenConns),
		slog.Int("max_idle_conns", cfg.MaxIdleConns),
	)

	return &DB{db}, nil
}

// RunMigrations applies every pending forward migration. There are no down migrations.
func RunMigrations(cfg config.DatabaseConfig) error {
	source, err := iofs.New(migrationsFS, "migrations")
	if err != nil {
		return fmt.Errorf("failed to create migrations source: %w", err)
	}

	m, err := migrate.NewWithSourceInstance("iofs", source, migrationURL(cfg))
	if err != nil {
		return fmt.Errorf("failed to create migrate instance: %w", err)
	}
	defer m.Close()

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("failed to run migrations: %w", err)
	}
	return nil
}

func migrationURL(cfg config.DatabaseConfig) string {
	u := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(cfg.User, cfg.Password),
		Host:     fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		Path:     "/" + cfg.Name,
		RawQuery: url.Values{"sslmode": []string{cfg.SSLMode}}.Encode(),
	}
	return u.String()
}

// Seed inserts the default catalog into an empty products table and the
// default player when it does not exist yet
func (db *DB) Seed(ctx context.Context, products []models.Product, user models.User) error {
	var count int
	if err := db.QueryRowContext(ctx, `SELECT COUNT(*) FROM products`).Scan(&count); err != nil {
		return fmt.Errorf("failed to count products: %w", err)
	}

	if count == 0 {
		for _, p := range products {
			_, err := db.ExecContext(ctx,
				`INSERT INTO products (id, name, type, bonus, price, picture_url) VALUES ($1, $2, $3, $4, $5, $6)`,
				p.ID, p.Name, p.Type, p.Bonus, p.Price, p.PictureURL,
			)
			if err != nil {
				return fmt.Errorf("failed to seed product %q: %w", p.Name, err)
			}
		}
		// Explicit ids leave the sequence behind
		if _, err := db.ExecContext(ctx, `SELECT setval(pg_get_serial_sequence('products', 'id'), (SELECT MAX(id) FROM products))`); err != nil {
			return fmt.Errorf("failed to advance products sequence: %w", err)
		}
	}

	_, err := db.ExecContext(ctx,
		`INSERT INTO users (id, name, balance) VALUES ($1, $2, $3) ON CONFLICT (id) DO NOTHING`,
		user.ID, user.Name, user.Balance,
	)
	if err != nil {
		return fmt.Errorf("failed to seed user: %w", err)
	}
	if _, err := db.ExecContext(ctx, `SELECT setval(pg_get_serial_sequence('users', 'id'), (SELECT MAX(id) FROM users))`); err != nil {
		return fmt.Errorf("failed to advance users sequence: %w", err)
	}

	return nil
}

// affectedOne turns a zero-row update into ErrNotFound
func affectedOne(res sql.Result, err error) error {
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

// Ping verifies the database connection is alive
func (db *DB) Ping(ctx context.Context) error {
	return db.PingContext(ctx)
}
