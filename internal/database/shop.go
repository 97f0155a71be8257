package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dogclock/api/internal/models"
)

// GetUser fetches the player row
func (db *DB) GetUser(ctx context.Context, id int) (*models.User, error) {
	var user models.User
	err := db.QueryRowContext(ctx, `SELECT id, name, balance FROM users WHERE id = $1`, id).Scan(
		&user.ID,
		&user.Name,
		&user.Balance,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to fetch user %d: %w", id, err)
	}
	return &user, nil
}

// SaveUserName renames the player
func (db *DB) SaveUserName(ctx context.Context, id int, name string) error {
	err := affectedOne(db.ExecContext(ctx, `UPDATE users SET name = $2 WHERE id = $1`, id, name))
	if err != nil && !errors.Is(err, ErrNotFound) {
		return fmt.Errorf("failed to rename user %d: %w", id, err)
	}
	return err
}

// SaveUserBalance overwrites the player's balance
func (db *DB) SaveUserBalance(ctx context.Context, id, balance int) error {
	err := affectedOne(db.ExecContext(ctx, `UPDATE users SET balance = $2 WHERE id = $1`, id, balance))
	if err != nil && !errors.Is(err, ErrNotFound) {
		return fmt.Errorf("failed to update balance of user %d: %w", id, err)
	}
	return err
}

// ListProducts returns the catalog
func (db *DB) ListProducts(ctx context.Context) ([]models.Product, error) {
	rows, err := db.QueryContext(ctx, `SELECT id, name, type, bonus, price, picture_url FROM products ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("failed to list products: %w", err)
	}
	defer rows.Close()

	products := []models.Product{}
	for rows.Next() {
		var p models.Product
		if err := rows.Scan(&p.ID, &p.Name, &p.Type, &p.Bonus, &p.Price, &p.PictureURL); err != nil {
			return nil, fmt.Errorf("failed to scan product: %w", err)
		}
		products = append(products, p)
	}
	return products, rows.Err()
}

// GetProduct fetches one catalog entry
func (db *DB) GetProduct(ctx context.Context, id int) (*models.Product, error) {
	var p models.Product
	err := db.QueryRowContext(ctx, `SELECT id, name, type, bonus, price, picture_url FROM products WHERE id = $1`, id).Scan(
		&p.ID, &p.Name, &p.Type, &p.Bonus, &p.Price, &p.PictureURL,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to fetch product %d: %w", id, err)
	}
	return &p, nil
}

const itemColumns = `id, name, type, bonus, price, picture_url, quantity`

func scanItem(row rowScanner) (*models.UserItem, error) {
	var item models.UserItem
	err := row.Scan(&item.ID, &item.Name, &item.Type, &item.Bonus, &item.Price, &item.PictureURL, &item.Quantity)
	if err != nil {
		return nil, err
	}
	return &item, nil
}

// ListItems returns the inventory
func (db *DB) ListItems(ctx context.Context) ([]models.UserItem, error) {
	rows, err := db.QueryContext(ctx, `SELECT `+itemColumns+` FROM user_items ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("failed to list user items: %w", err)
	}
	defer rows.Close()

	items := []models.UserItem{}
	for rows.Next() {
		item, err := scanItem(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan user item: %w", err)
		}
		items = append(items, *item)
	}
	return items, rows.Err()
}

// GetItem fetches one inventory stack by id
func (db *DB) GetItem(ctx context.Context, id int) (*models.UserItem, error) {
	item, err := scanItem(db.QueryRowContext(ctx, `SELECT `+itemColumns+` FROM user_items WHERE id = $1`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to fetch user item %d: %w", id, err)
	}
	return item, nil
}

// FindItemByName fetches the inventory stack for a product name
func (db *DB) FindItemByName(ctx context.Context, name string) (*models.UserItem, error) {
	item, err := scanItem(db.QueryRowContext(ctx, `SELECT `+itemColumns+` FROM user_items WHERE name = $1`, name))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to fetch user item %q: %w", name, err)
	}
	return item, nil
}

// CreateItem inserts a new inventory stack and fills in its id
func (db *DB) CreateItem(ctx context.Context, item *models.UserItem) error {
	query := `
		INSERT INTO user_items (name, type, bonus, price, picture_url, quantity)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id
	`
	err := db.QueryRowContext(ctx, query,
		item.Name, item.Type, item.Bonus, item.Price, item.PictureURL, item.Quantity,
	).Scan(&item.ID)
	if err != nil {
		return fmt.Errorf("failed to insert user item: %w", err)
	}
	return nil
}

// SaveItemQuantity overwrites the size of an inventory stack
func (db *DB) SaveItemQuantity(ctx context.Context, id, quantity int) error {
	err := affectedOne(db.ExecContext(ctx, `UPDATE user_items SET quantity = $2 WHERE id = $1`, id, quantity))
	if err != nil && !errors.Is(err, ErrNotFound) {
		return fmt.Errorf("failed to update quantity of user item %d: %w", id, err)
	}
	return err
}

// DeleteItem removes an inventory stack
func (db *DB) DeleteItem(ctx context.Context, id int) error {
	err := affectedOne(db.ExecContext(ctx, `DELETE FROM user_items WHERE id = $1`, id))
	if err != nil && !errors.Is(err, ErrNotFound) {
		return fmt.Errorf("failed to delete user item %d: %w", id, err)
	}
	return err
}
