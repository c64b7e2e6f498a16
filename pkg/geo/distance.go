package geo

import "math"

// EarthRadiusKm is the mean Earth radius used for great-circle distances.
const EarthRadiusKm = 6371.0

// Point is a WGS 84 coordinate expressed in degrees.
type Point struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// Distance returns the great-circle distance in kilometers between two
// coordinates given in degrees, using the Haversine formula.
func Distance(lat1, lon1, lat2, lon2 float64) float64 {
	dLat := toRadians(lat2 - lat1)
	dLon := toRadians(lon2 - lon1)

	sinLat := math.Sin(dLat / 2)
	sinLon := math.Sin(dLon / 2)
	a := sinLat*sinLat +
		math.Cos(toRadians(lat1))*math.Cos(toRadians(lat2))*sinLon*sinLon

	return 2 * EarthRadiusKm * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))
}

// DistanceTo returns the distance in kilometers from p to other.
func (p Point) DistanceTo(other Point) float64 {
	return Distance(p.Lat, p.Lng, other.Lat, other.Lng)
}

func toRadians(deg float64) float64 {
	return deg * math.Pi / 180
}
