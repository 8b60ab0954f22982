package repositories

import (
	"context"

	"github.com/NebiyouChanie/pharma-connect-go/internal/domain/entities"
)

// SearchRepository is the remote medicine search collaborator.
type SearchRepository interface {
	// SearchMedicine returns every pharmacy offer matching the medicine name.
	// A nil error with an empty slice is a successful search with zero
	// offers; callers distinguish that from a transport failure.
	SearchMedicine(ctx context.Context, medicineName string) ([]entities.SearchResultItem, error)
}
