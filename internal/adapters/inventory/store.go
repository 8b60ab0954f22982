package inventory

import (
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/NebiyouChanie/pharma-connect-go/internal/domain/entities"
)

// Store is an in-memory medicine inventory backing the fixture backend. Each
// offer belongs to exactly one medicine name; lookup is a case-insensitive
// substring match on that name.
type Store struct {
	mu          sync.RWMutex
	offers      map[string][]entities.SearchResultItem
	byInventory map[string]entities.SearchResultItem
}

// NewStore creates an empty inventory store.
func NewStore() *Store {
	return &Store{
		offers:      make(map[string][]entities.SearchResultItem),
		byInventory: make(map[string]entities.SearchResultItem),
	}
}

// Add registers an offer under a medicine name. Missing IDs are generated.
func (s *Store) Add(medicineName string, offer entities.SearchResultItem) entities.SearchResultItem {
	if offer.InventoryID == "" {
		offer.InventoryID = uuid.NewString()
	}
	if offer.PharmacyID == "" {
		offer.PharmacyID = uuid.NewString()
	}
	// Derived fields never live server side.
	offer.DistanceKm = nil
	offer.TimeMinutes = nil

	key := strings.ToLower(strings.TrimSpace(medicineName))

	s.mu.Lock()
	defer s.mu.Unlock()
	s.offers[key] = append(s.offers[key], offer)
	s.byInventory[offer.InventoryID] = offer
	return offer
}

// Search returns every offer whose medicine name contains the query,
// case-insensitively. The result is a copy.
func (s *Store) Search(medicineName string) []entities.SearchResultItem {
	query := strings.ToLower(strings.TrimSpace(medicineName))
	if query == "" {
		return nil
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	var results []entities.SearchResultItem
	for name, offers := range s.offers {
		if !strings.Contains(name, query) {
			continue
		}
		results = append(results, offers...)
	}
	return results
}

// HasInventory reports whether an offer with the given inventory id exists.
func (s *Store) HasInventory(inventoryID string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.byInventory[inventoryID]
	return ok
}

func coords(lat, lon float64) (*float64, *float64) {
	return &lat, &lon
}

// SeedDemo loads a small Addis Ababa fixture inventory.
func (s *Store) SeedDemo() {
	boleLat, boleLon := coords(8.9936, 38.7870)
	cmcLat, cmcLon := coords(9.0227, 38.8300)
	piazzaLat, piazzaLon := coords(9.0357, 38.7500)

	s.Add("Panadol", entities.SearchResultItem{
		PharmacyName: "Bole Pharmacy",
		Address:      "Bole Road, Addis Ababa",
		Price:        30,
		Quantity:     120,
		Latitude:     boleLat,
		Longitude:    boleLon,
	})
	s.Add("Panadol", entities.SearchResultItem{
		PharmacyName: "CMC Community Pharmacy",
		Address:      "CMC area, Addis Ababa",
		Price:        80,
		Quantity:     40,
		Latitude:     cmcLat,
		Longitude:    cmcLon,
	})
	s.Add("Amoxicillin", entities.SearchResultItem{
		PharmacyName: "Piazza Pharma",
		Address:      "Piazza, Addis Ababa",
		Price:        145,
		Quantity:     25,
		Latitude:     piazzaLat,
		Longitude:    piazzaLon,
	})
	s.Add("Amoxicillin", entities.SearchResultItem{
		PharmacyName: "Gerji Health Pharmacy",
		Address:      "Gerji, Addis Ababa",
		Price:        160,
		Quantity:     10,
	})
	s.Add("Ibuprofen", entities.SearchResultItem{
		PharmacyName: "Ayat Pharmacy",
		Address:      "Ayat, Addis Ababa",
		Price:        55,
		Quantity:     75,
	})
}
