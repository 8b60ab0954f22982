package entities

// Location represents geographical coordinates
type Location struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// SearchResultItem is one pharmacy's stock offer for a searched medicine.
// InventoryID is unique per offer and is the identity key for list diffing.
type SearchResultItem struct {
	PharmacyID   string   `json:"pharmacyId"`
	InventoryID  string   `json:"inventoryId"`
	PharmacyName string   `json:"pharmacyName"`
	Address      string   `json:"address"`
	Photo        string   `json:"photo,omitempty"`
	Price        float64  `json:"price"`
	Quantity     int      `json:"quantity"`
	Latitude     *float64 `json:"latitude,omitempty"`
	Longitude    *float64 `json:"longitude,omitempty"`

	// DistanceKm and TimeMinutes are always computed on the client against the
	// device location. The server never supplies them and any value arriving
	// in a payload must be ignored.
	DistanceKm  *float64 `json:"distance,omitempty"`
	TimeMinutes *float64 `json:"time,omitempty"`
}

// HasCoordinates reports whether the offer carries a usable pharmacy location.
// Latitude and longitude are either both present or both absent.
func (i SearchResultItem) HasCoordinates() bool {
	return i.Latitude != nil && i.Longitude != nil
}
