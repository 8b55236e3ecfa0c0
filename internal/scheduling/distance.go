package scheduling

import "math"

const (
	EarthRadiusKm = 6371.0
	// KmPerNauticalMile is the divisor applied to haversine kilometres.
	// Stored schedules were accepted against 1.8, not the exact 1.852.
	KmPerNauticalMile = 1.8
)

// Coordinates is a latitude/longitude pair in degrees.
type Coordinates struct {
	LatDeg float64
	LonDeg float64
}

// GreatCircleNM returns the haversine distance between a and b in nautical
// miles, rounded to the nearest integer.
func GreatCircleNM(a, b Coordinates) int {
	lat1 := a.LatDeg * math.Pi / 180
	lat2 := b.LatDeg * math.Pi / 180
	dLat := lat2 - lat1
	dLon := (b.LonDeg - a.LonDeg) * math.Pi / 180

	h := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1)*math.Cos(lat2)*math.Sin(dLon/2)*math.Sin(dLon/2)
	c := 2 * math.Atan2(math.Sqrt(h), math.Sqrt(1-h))
	km := EarthRadiusKm * c
	return int(math.Round(km / KmPerNauticalMile))
}
