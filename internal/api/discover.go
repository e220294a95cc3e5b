package api

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"roadscout/pkg/geo"
	"roadscout/pkg/model"
)

// Discoverer runs the discovery pipeline for a route.
type Discoverer interface {
	Discover(ctx context.Context, route []geo.Point, origin, dest model.Location, prefs []string) (*model.DiscoveryResult, error)
}

// DiscoverHandler handles the discovery endpoint.
type DiscoverHandler struct {
	svc Discoverer
}

// NewDiscoverHandler creates a new DiscoverHandler.
func NewDiscoverHandler(svc Discoverer) *DiscoverHandler {
	return &DiscoverHandler{svc: svc}
}

// DiscoverRequest represents a discovery request for a planned route.
type DiscoverRequest struct {
	Route       []geo.Point    `json:"route"`
	Origin      model.Location `json:"origin"`
	Destination model.Location `json:"destination"`
	Preferences []string       `json:"preferences"`
}

// HandleDiscover handles POST /api/discover
func (h *DiscoverHandler) HandleDiscover(w http.ResponseWriter, r *http.Request) {
	var req DiscoverRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		slog.Error("API: HandleDiscover decode error", "error", err)
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	if len(req.Route) < 2 {
		http.Error(w, "route must contain at least two points", http.StatusBadRequest)
		return
	}
	for _, p := range req.Route {
		if p.Lat < -90 || p.Lat > 90 || p.Lon < -180 || p.Lon > 180 {
			http.Error(w, "route contains out-of-range coordinates", http.StatusBadRequest)
			return
		}
	}

	req.Origin.Role = model.RoleOrigin
	req.Destination.Role = model.RoleDestination

	result, err := h.svc.Discover(r.Context(), req.Route, req.Origin, req.Destination, req.Preferences)
	if err != nil {
		slog.Error("API: discovery failed", "error", err)
		http.Error(w, "discovery failed", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(result); err != nil {
		slog.Error("API: failed to encode discovery response", "error", err)
	}
}
