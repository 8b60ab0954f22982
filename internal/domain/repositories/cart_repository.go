package repositories

import (
	"context"

	"github.com/NebiyouChanie/pharma-connect-go/internal/domain/entities"
)

// CartRepository is the remote cart collaborator.
type CartRepository interface {
	// AddToCart saves an inventory offer to the user's cart.
	AddToCart(ctx context.Context, inventoryID string) (*entities.CartConfirmation, error)
}
