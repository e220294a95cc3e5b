// Package sampler reduces a route polyline to an ordered set of anchor
// coordinates. The anchors become the centers of the corridor search, so
// spacing adapts to route length: longer routes use wider steps to bound
// the number of remote queries.
package sampler

import (
	"roadscout/pkg/geo"
)

// Step-size policy by total route length.
const (
	stepShortKm  = 30.0  // routes under 500 km
	stepMediumKm = 60.0  // 500-1500 km
	stepLongKm   = 100.0 // above 1500 km

	shortRouteKm  = 500.0
	mediumRouteKm = 1500.0

	// endpointToleranceKm is how close the last sample must be to the true
	// destination; the corridor search must always cover the endpoint.
	endpointToleranceKm = 1.0
)

// StepKm returns the sampling step for a route of the given length.
func StepKm(routeKm float64) float64 {
	switch {
	case routeKm < shortRouteKm:
		return stepShortKm
	case routeKm <= mediumRouteKm:
		return stepMediumKm
	default:
		return stepLongKm
	}
}

// Sample walks the polyline and emits a vertex every stepKm of accumulated
// great-circle distance, always including the first point, capped at
// maxSamples. If the final emitted sample sits farther than 1 km from the
// true last polyline point, the destination replaces the last sample when
// the cap is reached and is appended otherwise, so the corridor search always
// covers the endpoint and the output never exceeds the cap.
// A polyline with fewer than three points is returned unchanged.
func Sample(route []geo.Point, maxSamples int) []geo.Point {
	if len(route) <= 2 {
		return route
	}

	stepKm := StepKm(geo.PathLengthKm(route))

	samples := []geo.Point{route[0]}
	var accumulated float64

	for i := 1; i < len(route); i++ {
		if len(samples) >= maxSamples {
			break
		}
		accumulated += geo.DistanceKm(route[i-1], route[i])
		if accumulated >= stepKm {
			samples = append(samples, route[i])
			accumulated = 0
		}
	}

	last := route[len(route)-1]
	if geo.DistanceKm(samples[len(samples)-1], last) > endpointToleranceKm {
		if len(samples) >= maxSamples {
			samples[len(samples)-1] = last
		} else {
			samples = append(samples, last)
		}
	}

	return samples
}
