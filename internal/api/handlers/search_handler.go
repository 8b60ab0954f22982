package handlers

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/NebiyouChanie/pharma-connect-go/internal/adapters/inventory"
)

// SearchHandler serves medicine searches from the inventory store.
type SearchHandler struct {
	store *inventory.Store
}

// NewSearchHandler creates a new search handler.
func NewSearchHandler(store *inventory.Store) *SearchHandler {
	return &SearchHandler{store: store}
}

type searchRequest struct {
	MedicineName string `json:"medicineName"`
}

// SearchMedicine handles POST /api/v1/search
func (h *SearchHandler) SearchMedicine(w http.ResponseWriter, r *http.Request) {
	var payload searchRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid request payload")
		return
	}

	payload.MedicineName = strings.TrimSpace(payload.MedicineName)
	if payload.MedicineName == "" {
		respondWithError(w, http.StatusBadRequest, "medicineName is required")
		return
	}

	results := h.store.Search(payload.MedicineName)
	count := len(results)

	// Zero results is still a successful search. The caller decides what a
	// missing medicine means for its user.
	respondWithJSON(w, http.StatusOK, apiResponse{
		Success: true,
		Data:    results,
		Count:   &count,
	})
}
