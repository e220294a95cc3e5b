package geo

import (
	"math"
)

// Point represents a geographic coordinate.
type Point struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

// Distance calculates the Haversine distance between two points in meters.
func Distance(p1, p2 Point) float64 {
	const R = 6371000 // Earth radius in meters
	dLat := (p2.Lat - p1.Lat) * (math.Pi / 180.0)
	dLon := (p2.Lon - p1.Lon) * (math.Pi / 180.0)
	lat1 := p1.Lat * (math.Pi / 180.0)
	lat2 := p2.Lat * (math.Pi / 180.0)

	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Sin(dLon/2)*math.Sin(dLon/2)*math.Cos(lat1)*math.Cos(lat2)
	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))

	return R * c
}

// DistanceKm calculates the Haversine distance between two points in kilometers.
func DistanceKm(p1, p2 Point) float64 {
	return Distance(p1, p2) / 1000.0
}

// PathLengthKm returns the total great-circle length of a polyline in kilometers.
func PathLengthKm(path []Point) float64 {
	var total float64
	for i := 1; i < len(path); i++ {
		total += DistanceKm(path[i-1], path[i])
	}
	return total
}

// MinDistanceToPathKm returns the shortest great-circle distance from p to any
// vertex of the polyline, in kilometers. Vertex distance is a good enough
// approximation for corridor membership because sampled routes have dense
// vertices relative to the search radii involved.
func MinDistanceToPathKm(p Point, path []Point) float64 {
	minDist := math.MaxFloat64
	for _, v := range path {
		if d := DistanceKm(p, v); d < minDist {
			minDist = d
		}
	}
	return minDist
}
