package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/dogclock/api/internal/metrics"
	"github.com/dogclock/api/internal/models"
)

// ShopService handles the player's balance, the catalog and the inventory.
// A purchase does not debit the balance; the client decreases it first.
type ShopService struct {
	store    ShopStore
	validate *validator.Validate
	logger   *slog.Logger
}

// NewShopService creates a shop service
func NewShopService(store ShopStore, logger *slog.Logger) *ShopService {
	return &ShopService{
		store:    store,
		validate: validator.New(),
		logger:   logger.With("component", "shop"),
	}
}

// Balance returns the user's coin balance
func (s *ShopService) Balance(ctx context.Context, userID int) (int, error) {
	user, err := s.store.GetUser(ctx, userID)
	if err != nil {
		return 0, err
	}
	return user.Balance, nil
}

// Name returns the user's display name
func (s *ShopService) Name(ctx context.Context, userID int) (string, error) {
	user, err := s.store.GetUser(ctx, userID)
	if err != nil {
		return "", err
	}
	return user.Name, nil
}

// Rename changes the user's display name
func (s *ShopService) Rename(ctx context.Context, userID int, name string) error {
	if strings.TrimSpace(name) == "" {
		return fmt.Errorf("%w: name must not be empty", ErrInvalidInput)
	}
	return s.store.SaveUserName(ctx, userID, name)
}

// IncreaseBalance credits amount and returns the new balance
func (s *ShopService) IncreaseBalance(ctx context.Context, userID, amount int) (int, error) {
	if amount <= 0 {
		return 0, fmt.Errorf("%w: amount must be greater than zero", ErrInvalidInput)
	}

	user, err := s.store.GetUser(ctx, userID)
	if err != nil {
		return 0, err
	}

	balance := user.Balance + amount
	if err := s.store.SaveUserBalance(ctx, userID, balance); err != nil {
		return 0, fmt.Errorf("failed to increase balance: %w", err)
	}

	metrics.BalanceChangesTotal.WithLabelValues("increase").Inc()
	s.logger.Info("balance increased", slog.Int("user_id", userID), slog.Int("amount", amount), slog.Int("balance", balance))
	return balance, nil
}

// DecreaseBalance debits amount and returns the new balance. The balance never goes negative.
func (s *ShopService) DecreaseBalance(ctx context.Context, userID, amount int) (int, error) {
	if amount <= 0 {
		return 0, fmt.Errorf("%w: amount must be greater than zero", ErrInvalidInput)
	}

	user, err := s.store.GetUser(ctx, userID)
	if err != nil {
		return 0, err
	}
	if user.Balance < amount {
		return 0, ErrInsufficientBalance
	}

	balance := user.Balance - amount
	if err := s.store.SaveUserBalance(ctx, userID, balance); err != nil {
		return 0, fmt.Errorf("failed to decrease balance: %w", err)
	}

	metrics.BalanceChangesTotal.WithLabelValues("decrease").Inc()
	s.logger.Info("balance decreased", slog.Int("user_id", userID), slog.Int("amount", amount), slog.Int("balance", balance))
	return balance, nil
}

// ListProducts returns the catalog
func (s *ShopService) ListProducts(ctx context.Context) ([]models.Product, error) {
	return s.store.ListProducts(ctx)
}

// GetProduct returns one catalog entry
func (s *ShopService) GetProduct(ctx context.Context, id int) (*models.Product, error) {
	return s.store.GetProduct(ctx, id)
}

// ListItems returns the inventory
func (s *ShopService) ListItems(ctx context.Context) ([]models.UserItem, error) {
	return s.store.ListItems(ctx)
}

// GetItem returns one inventory stack
func (s *ShopService) GetItem(ctx context.Context, id int) (*models.UserItem, error) {
	return s.store.GetItem(ctx, id)
}

// Purchase adds one unit of product to the inventory, stacking on an existing
// item with the same name
func (s *ShopService) Purchase(ctx context.Context, product *models.Product) (*models.UserItem, error) {
	if product == nil {
		return nil, fmt.Errorf("%w: invalid product data", ErrInvalidInput)
	}
	if err := s.validate.Struct(product); err != nil {
		return nil, fmt.Errorf("%w: invalid product data: %v", ErrInvalidInput, err)
	}

	item, err := s.store.FindItemByName(ctx, product.Name)
	switch {
	case err == nil:
		item.Quantity++
		if err := s.store.SaveItemQuantity(ctx, item.ID, item.Quantity); err != nil {
			return nil, fmt.Errorf("failed to purchase %q: %w", product.Name, err)
		}
	case errors.Is(err, ErrNotFound):
		item = &models.UserItem{
			Name:       product.Name,
			Type:       product.Type,
			Bonus:      product.Bonus,
			Price:      product.Price,
			PictureURL: product.PictureURL,
			Quantity:   1,
		}
		if err := s.store.CreateItem(ctx, item); err != nil {
			return nil, fmt.Errorf("failed to purchase %q: %w", product.Name, err)
		}
	default:
		return nil, err
	}

	itemType := product.Type
	if !models.IsValidItemType(itemType) {
		itemType = "other"
	}
	metrics.PurchasesTotal.WithLabelValues(itemType).Inc()
	s.logger.Info("product purchased", slog.String("name", product.Name), slog.Int("quantity", item.Quantity))
	return item, nil
}

// Consume uses one unit of an inventory stack and removes the stack when it runs out
func (s *ShopService) Consume(ctx context.Context, itemID int) error {
	item, err := s.store.GetItem(ctx, itemID)
	if err != nil {
		return err
	}

	if item.Quantity > 1 {
		if err := s.store.SaveItemQuantity(ctx, itemID, item.Quantity-1); err != nil {
			return fmt.Errorf("failed to consume item: %w", err)
		}
	} else if err := s.store.DeleteItem(ctx, itemID); err != nil {
		return fmt.Errorf("failed to consume item: %w", err)
	}

	s.logger.Info("item consumed", slog.Int("item_id", itemID), slog.String("name", item.Name))
	return nil
}
