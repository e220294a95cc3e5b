// Package discovery runs the route POI pipeline: sample the route, build and
// execute remote query phases, normalize and deduplicate the records, and
// bucket them into along-way and destination suggestions. Full pipeline runs
// are memoized in a session cache that also coalesces concurrent duplicate
// requests.
package discovery

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"roadscout/pkg/classifier"
	"roadscout/pkg/config"
	"roadscout/pkg/geo"
	"roadscout/pkg/model"
	"roadscout/pkg/overpass"
	"roadscout/pkg/sampler"
)

// bboxRouteMaxKm is the longest route still searched with one bounding-box
// union. A bound around a longer route covers too much area off the corridor.
const bboxRouteMaxKm = 150

// Service is the discovery pipeline.
type Service struct {
	client   *overpass.Client
	cfg      *config.DiscoveryConfig
	sessions *SessionCache
}

// NewService creates the pipeline with its session cache.
func NewService(client *overpass.Client, cfg *config.DiscoveryConfig) *Service {
	return &Service{
		client:   client,
		cfg:      cfg,
		sessions: NewSessionCache(cfg.SessionTTL.Std(), cfg.SessionSize),
	}
}

// Sessions exposes the session cache (for tests and diagnostics).
func (s *Service) Sessions() *SessionCache {
	return s.sessions
}

// Discover runs the pipeline for a route and preference set. Remote failures
// never surface as errors; total failure of every remote call yields an
// empty result set. The only error is programmer-level misuse.
func (s *Service) Discover(ctx context.Context, route []geo.Point, origin, dest model.Location, prefs []string) (*model.DiscoveryResult, error) {
	if len(route) == 0 {
		return nil, errors.New("discovery: empty route")
	}

	key := sessionKey(route, geo.Point{Lat: dest.Lat, Lon: dest.Lon}, prefs)
	result := s.sessions.Do(ctx, key, func() *model.DiscoveryResult {
		return s.fetch(ctx, route, origin, dest, prefs)
	})
	return result, nil
}

// fetch executes one full uncached pipeline run.
func (s *Service) fetch(ctx context.Context, route []geo.Point, origin, dest model.Location, prefs []string) *model.DiscoveryResult {
	start := time.Now()
	runID := uuid.NewString()[:8]

	cats := classifier.CategoriesForPreferences(prefs)
	if len(cats) == 0 {
		slog.Info("Discovery run has no categories, skipping remote queries", "run", runID, "prefs", prefs)
		return &model.DiscoveryResult{
			AlongWay:      []model.POISuggestion{},
			AtDestination: []model.POISuggestion{},
		}
	}

	originPt := geo.Point{Lat: origin.Lat, Lon: origin.Lon}
	destPt := geo.Point{Lat: dest.Lat, Lon: dest.Lon}
	routeKm := geo.PathLengthKm(route)

	samples := sampler.Sample(route, s.cfg.MaxSamples)
	slog.Info("Discovery run started", "run", runID, "route_km", int(routeKm),
		"samples", len(samples), "categories", len(cats))

	// Phase 1: corridor queries. Short routes fit in one bounding-box union;
	// longer routes get per-point batches so the searched area tracks the
	// route instead of its bound.
	var corridorQueries []string
	if routeKm <= bboxRouteMaxKm {
		corridorQueries = []string{overpass.BuildBBox(geo.BoundOf(route, s.cfg.BBoxBufferDeg), cats)}
	} else {
		batch := s.cfg.BatchSize
		if batch < 1 {
			batch = 1
		}
		for i := 0; i < len(samples); i += batch {
			end := i + batch
			if end > len(samples) {
				end = len(samples)
			}
			corridorQueries = append(corridorQueries, overpass.BuildPerPoint(samples[i:end], cats))
		}
	}
	along := s.client.RunPhase(ctx, corridorQueries)

	// Phase 2: named-boundary relations (skipped when no category needs them).
	if areaQuery := overpass.BuildAreaRelations(samples, cats); areaQuery != "" {
		s.client.PhasePause(ctx)
		along = append(along, s.client.RunPhase(ctx, []string{areaQuery})...)
	}

	// Phase 3: destination area.
	s.client.PhasePause(ctx)
	destRecords := s.client.RunPhase(ctx, []string{overpass.BuildDestination(destPt, cats, s.cfg.DestRadiusKm)})

	alongWay := classifyAlongWay(Dedup(Normalize(along)), route, originPt, destPt, routeKm)
	atDestination := classifyDestination(Dedup(Normalize(destRecords)), destPt)

	result := &model.DiscoveryResult{
		AlongWay:        alongWay,
		AtDestination:   atDestination,
		TotalFound:      len(alongWay) + len(atDestination),
		QueryDurationMs: time.Since(start).Milliseconds(),
	}
	slog.Info("Discovery run finished", "run", runID, "along_way", len(alongWay),
		"at_destination", len(atDestination), "duration_ms", result.QueryDurationMs)
	return result
}
