package services

import "math"

// earthRadiusKm is the haversine sphere radius. Every distance in the app is
// scored through DistanceKm with this constant so the same pair of
// coordinates never produces two different numbers.
const earthRadiusKm = 6371.0

// DistanceKm computes the great-circle distance in kilometers between two
// points using the haversine formula. Inputs are decimal degrees; the result
// is always a non-negative number.
func DistanceKm(lat1, lon1, lat2, lon2 float64) float64 {
	dLat := degreesToRadians(lat2 - lat1)
	dLon := degreesToRadians(lon2 - lon1)

	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(degreesToRadians(lat1))*math.Cos(degreesToRadians(lat2))*
			math.Sin(dLon/2)*math.Sin(dLon/2)

	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))
	return earthRadiusKm * c
}

func degreesToRadians(deg float64) float64 {
	return deg * math.Pi / 180.0
}
