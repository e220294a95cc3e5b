package api

import (
	"encoding/json"
	"net/http"

	"roadscout/pkg/tracker"
)

// SessionCounter reports how many discovery sessions are currently held.
type SessionCounter interface {
	Len() int
}

// StatsHandler serves runtime usage statistics.
type StatsHandler struct {
	tracker  *tracker.Tracker
	sessions SessionCounter
}

// NewStatsHandler creates a new StatsHandler.
func NewStatsHandler(t *tracker.Tracker, sessions SessionCounter) *StatsHandler {
	return &StatsHandler{tracker: t, sessions: sessions}
}

type ProviderStatsDTO struct {
	CacheHits     int64 `json:"cache_hits"`
	CacheMisses   int64 `json:"cache_misses"`
	APISuccess    int64 `json:"api_success"`
	APIZeroResult int64 `json:"api_zero"`
	APIFailures   int64 `json:"api_errors"`
	APIRetries    int64 `json:"api_retries"`
	HitRate       int64 `json:"hit_rate"`
}

type SessionStats struct {
	ActiveSessions int `json:"active_sessions"`
}

type StatsResponse struct {
	Sessions  SessionStats                `json:"sessions"`
	Providers map[string]ProviderStatsDTO `json:"providers"`
}

func (h *StatsHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	snapshot := h.tracker.Snapshot()

	resp := StatsResponse{
		Providers: make(map[string]ProviderStatsDTO),
	}
	if h.sessions != nil {
		resp.Sessions.ActiveSessions = h.sessions.Len()
	}

	for provider, stats := range snapshot {
		totalCache := stats.CacheHits + stats.CacheMisses
		hitRate := int64(0)
		if totalCache > 0 {
			hitRate = (stats.CacheHits * 100) / totalCache
		}
		resp.Providers[provider] = ProviderStatsDTO{
			CacheHits:     stats.CacheHits,
			CacheMisses:   stats.CacheMisses,
			APISuccess:    stats.APISuccess,
			APIZeroResult: stats.APIZeroResult,
			APIFailures:   stats.APIFailures,
			APIRetries:    stats.APIRetries,
			HitRate:       hitRate,
		}
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(resp)
}
