package providers

import (
	"context"

	"github.com/NebiyouChanie/pharma-connect-go/internal/domain/entities"
)

// LocationProvider supplies the device's last known position on demand.
type LocationProvider interface {
	// LastKnownLocation returns the last known device coordinates. A nil
	// location with a nil error is a valid response meaning the position is
	// unknown; distance annotation is simply skipped in that case.
	LastKnownLocation(ctx context.Context) (*entities.Location, error)
}
