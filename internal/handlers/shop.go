package handlers

import (
	"fmt"
	"log/slog"
	"net/http"

	"github.com/dogclock/api/internal/models"
	"github.com/dogclock/api/internal/service"
)

const (
	userNotFound    = "User not found"
	productNotFound = "Product not found"
	itemNotFound    = "Item not found"
)

type ShopHandler struct {
	shop   *service.ShopService
	logger *slog.Logger
}

func NewShopHandler(shop *service.ShopService, logger *slog.Logger) *ShopHandler {
	return &ShopHandler{shop: shop, logger: logger}
}

// GetBalance returns the user's coin balance
func (h *ShopHandler) GetBalance(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	balance, err := h.shop.Balance(r.Context(), id)
	if err != nil {
		writeServiceError(w, r, h.logger, err, userNotFound)
		return
	}
	writeJSON(w, http.StatusOK, balance)
}

// GetUserName returns the user's name
func (h *ShopHandler) GetUserName(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	name, err := h.shop.Name(r.Context(), id)
	if err != nil {
		writeServiceError(w, r, h.logger, err, userNotFound)
		return
	}
	writeJSON(w, http.StatusOK, name)
}

// UpdateUserName renames the user. The body is a bare JSON string.
func (h *ShopHandler) UpdateUserName(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	var name string
	if !decodeJSON(w, r, &name) {
		return
	}

	if err := h.shop.Rename(r.Context(), id, name); err != nil {
		writeServiceError(w, r, h.logger, err, userNotFound)
		return
	}
	writeText(w, http.StatusOK, "Username updated successfully")
}

// IncreaseBalance credits the amount in the body
func (h *ShopHandler) IncreaseBalance(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	var amount int
	if !decodeJSON(w, r, &amount) {
		return
	}

	balance, err := h.shop.IncreaseBalance(r.Context(), id, amount)
	if err != nil {
		writeServiceError(w, r, h.logger, err, userNotFound)
		return
	}
	writeText(w, http.StatusOK, fmt.Sprintf("Balance increased by %d. New balance: %d", amount, balance))
}

// DecreaseBalance debits the amount in the body
func (h *ShopHandler) DecreaseBalance(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	var amount int
	if !decodeJSON(w, r, &amount) {
		return
	}

	balance, err := h.shop.DecreaseBalance(r.Context(), id, amount)
	if err != nil {
		writeServiceError(w, r, h.logger, err, userNotFound)
		return
	}
	writeText(w, http.StatusOK, fmt.Sprintf("Balance decreased by %d. New balance: %d", amount, balance))
}

// ListProducts returns the catalog
func (h *ShopHandler) ListProducts(w http.ResponseWriter, r *http.Request) {
	products, err := h.shop.ListProducts(r.Context())
	if err != nil {
		writeServiceError(w, r, h.logger, err, productNotFound)
		return
	}
	writeJSON(w, http.StatusOK, products)
}

// GetProduct returns one catalog entry
func (h *ShopHandler) GetProduct(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	product, err := h.shop.GetProduct(r.Context(), id)
	if err != nil {
		writeServiceError(w, r, h.logger, err, productNotFound)
		return
	}
	writeJSON(w, http.StatusOK, product)
}

// ListItems returns the inventory
func (h *ShopHandler) ListItems(w http.ResponseWriter, r *http.Request) {
	items, err := h.shop.ListItems(r.Context())
	if err != nil {
		writeServiceError(w, r, h.logger, err, itemNotFound)
		return
	}
	writeJSON(w, http.StatusOK, items)
}

// GetItem returns one inventory stack
func (h *ShopHandler) GetItem(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	item, err := h.shop.GetItem(r.Context(), id)
	if err != nil {
		writeServiceError(w, r, h.logger, err, itemNotFound)
		return
	}
	writeJSON(w, http.StatusOK, item)
}

// Purchase adds the product in the body to the inventory
func (h *ShopHandler) Purchase(w http.ResponseWriter, r *http.Request) {
	var product *models.Product
	if !decodeJSON(w, r, &product) {
		return
	}

	if _, err := h.shop.Purchase(r.Context(), product); err != nil {
		writeServiceError(w, r, h.logger, err, productNotFound)
		return
	}
	writeText(w, http.StatusOK, fmt.Sprintf("Product '%s' purchased successfully.", product.Name))
}

// Consume uses one unit of an inventory stack
func (h *ShopHandler) Consume(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	if err := h.shop.Consume(r.Context(), id); err != nil {
		writeServiceError(w, r, h.logger, err, itemNotFound)
		return
	}
	writeText(w, http.StatusOK, "Item consumed successfully.")
}
