package model

import (
	"fmt"
)

// Role describes how a Location participates in a trip.
type Role string

const (
	RoleOrigin      Role = "origin"
	RoleDestination Role = "destination"
	RoleWaypoint    Role = "waypoint"
)

// Location is a named coordinate owned by the caller. The pipeline treats it
// as read-only input.
type Location struct {
	ID   string  `json:"id"`
	Name string  `json:"name"`
	Lat  float64 `json:"lat"`
	Lon  float64 `json:"lon"`
	Role Role    `json:"role"`
}

// Bucket classifies where a suggestion sits relative to the trip.
type Bucket string

const (
	BucketAlongWay    Bucket = "along-way"
	BucketDestination Bucket = "destination"
)

// POISuggestion is one discovered point of interest.
type POISuggestion struct {
	ID       string   `json:"id"` // "node/123", "way/456", "relation/789"
	Name     string   `json:"name"`
	Category Category `json:"category"`
	Lat      float64  `json:"lat"`
	Lon      float64  `json:"lon"`
	Bucket   Bucket   `json:"bucket"`

	// Ranking data. DistanceFromRouteKm and DetourMinutes are estimates;
	// a later ranking stage may refine them.
	DistanceFromRouteKm float64 `json:"distance_from_route_km"`
	DetourMinutes       float64 `json:"detour_minutes"`
	Popularity          int     `json:"popularity"` // 0..100

	// Raw OSM tags, retained for debugging and display.
	Tags map[string]string `json:"tags,omitempty"`
}

// SuggestionID builds the stable identity for a remote record. The same
// remote element always yields the same ID, so deduplication and re-query
// are idempotent.
func SuggestionID(kind string, id int64) string {
	return fmt.Sprintf("%s/%d", kind, id)
}

// DiscoveryResult is the pipeline's output object.
type DiscoveryResult struct {
	AlongWay        []POISuggestion `json:"alongWay"`
	AtDestination   []POISuggestion `json:"atDestination"`
	TotalFound      int             `json:"totalFound"`
	QueryDurationMs int64           `json:"queryDurationMs"`
}
