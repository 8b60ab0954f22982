package geolocation

import (
	"context"

	"github.com/NebiyouChanie/pharma-connect-go/internal/domain/entities"
	"github.com/NebiyouChanie/pharma-connect-go/internal/domain/providers"
)

// addisCenter is the default fixture position (Meskel Square, Addis Ababa).
var addisCenter = entities.Location{Latitude: 9.0108, Longitude: 38.7613}

// StaticProvider is a fixture device-location collaborator that always
// reports a configured position. It stands in for the platform location
// API on headless environments; a nil position means "unknown", which is a
// valid non-error answer.
type StaticProvider struct {
	location *entities.Location
}

// NewStaticProvider creates a provider pinned to loc. Passing nil yields a
// provider that reports an unknown position.
func NewStaticProvider(loc *entities.Location) providers.LocationProvider {
	return &StaticProvider{location: loc}
}

// NewAddisProvider creates a provider pinned to central Addis Ababa.
func NewAddisProvider() providers.LocationProvider {
	loc := addisCenter
	return &StaticProvider{location: &loc}
}

// LastKnownLocation returns the configured position.
func (p *StaticProvider) LastKnownLocation(ctx context.Context) (*entities.Location, error) {
	if p.location == nil {
		return nil, nil
	}
	loc := *p.location
	return &loc, nil
}

// NeighborhoodLocation returns fixture coordinates for the well-known Addis
// Ababa neighborhoods offered as location filters. Unknown names return nil.
func NeighborhoodLocation(name string) *entities.Location {
	coords := map[string]entities.Location{
		"Bole":   {Latitude: 8.9936, Longitude: 38.7870},
		"CMC":    {Latitude: 9.0227, Longitude: 38.8300},
		"Piazza": {Latitude: 9.0357, Longitude: 38.7500},
		"Gerji":  {Latitude: 8.9950, Longitude: 38.8160},
		"Ayat":   {Latitude: 9.0240, Longitude: 38.8740},
	}
	if loc, ok := coords[name]; ok {
		return &loc
	}
	return nil
}
