package discovery

import (
	"roadscout/pkg/geo"
	"roadscout/pkg/model"
)

// Exclusion radius bounds: along-way candidates this close to an endpoint
// are covered by the dedicated destination query instead.
const (
	exclusionFraction = 0.04
	exclusionMinKm    = 25.0
	exclusionMaxKm    = 40.0
)

// ExclusionRadiusKm returns the endpoint exclusion radius for a route of the
// given total length.
func ExclusionRadiusKm(routeKm float64) float64 {
	r := exclusionFraction * routeKm
	if r < exclusionMinKm {
		return exclusionMinKm
	}
	if r > exclusionMaxKm {
		return exclusionMaxKm
	}
	return r
}

// classifyAlongWay assigns the along-way bucket and ranking estimates,
// dropping candidates inside the exclusion radius of either endpoint.
func classifyAlongWay(candidates []model.POISuggestion, route []geo.Point, origin, dest geo.Point, routeKm float64) []model.POISuggestion {
	exclusion := ExclusionRadiusKm(routeKm)

	out := make([]model.POISuggestion, 0, len(candidates))
	for _, c := range candidates {
		p := geo.Point{Lat: c.Lat, Lon: c.Lon}
		if geo.DistanceKm(p, origin) < exclusion || geo.DistanceKm(p, dest) < exclusion {
			continue
		}

		c.Bucket = model.BucketAlongWay
		c.DistanceFromRouteKm = geo.MinDistanceToPathKm(p, route)
		c.DetourMinutes = detourMinutes(c.DistanceFromRouteKm)
		out = append(out, c)
	}
	return out
}

// classifyDestination labels destination-query candidates unconditionally,
// independent of the exclusion radius.
func classifyDestination(candidates []model.POISuggestion, dest geo.Point) []model.POISuggestion {
	out := make([]model.POISuggestion, 0, len(candidates))
	for _, c := range candidates {
		c.Bucket = model.BucketDestination
		c.DistanceFromRouteKm = geo.DistanceKm(geo.Point{Lat: c.Lat, Lon: c.Lon}, dest)
		c.DetourMinutes = 0
		out = append(out, c)
	}
	return out
}

// detourMinutes estimates the round-trip time off the route at 60 km/h.
// A later ranking stage may replace this with a routed estimate.
func detourMinutes(distanceKm float64) float64 {
	return distanceKm * 2
}
