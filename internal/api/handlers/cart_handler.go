package handlers

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/NebiyouChanie/pharma-connect-go/internal/adapters/inventory"
	"github.com/NebiyouChanie/pharma-connect-go/internal/domain/entities"
)

// CartHandler saves inventory offers to a user's cart.
type CartHandler struct {
	store *inventory.Store
}

// NewCartHandler creates a new cart handler.
func NewCartHandler(store *inventory.Store) *CartHandler {
	return &CartHandler{store: store}
}

type addToCartRequest struct {
	InventoryID string `json:"inventoryId"`
}

// AddToCart handles POST /api/v1/cart
func (h *CartHandler) AddToCart(w http.ResponseWriter, r *http.Request) {
	var payload addToCartRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid request payload")
		return
	}

	payload.InventoryID = strings.TrimSpace(payload.InventoryID)
	if payload.InventoryID == "" {
		respondWithError(w, http.StatusBadRequest, "inventoryId is required")
		return
	}

	if !h.store.HasInventory(payload.InventoryID) {
		respondWithError(w, http.StatusNotFound, "inventory item not found")
		return
	}

	confirmation := entities.CartConfirmation{UserID: userIDFromRequest(r)}
	respondWithJSON(w, http.StatusOK, apiResponse{
		Success: true,
		Message: "Added to cart",
		Data:    confirmation,
	})
}

// userIDFromRequest resolves the caller identity from the bearer token. The
// fixture backend treats the token itself as an opaque user id; anonymous
// requests get an empty id.
func userIDFromRequest(r *http.Request) string {
	auth := r.Header.Get("Authorization")
	if token, ok := strings.CutPrefix(auth, "Bearer "); ok {
		return strings.TrimSpace(token)
	}
	return ""
}
