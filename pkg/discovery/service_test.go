package discovery

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"roadscout/pkg/cache"
	"roadscout/pkg/config"
	"roadscout/pkg/geo"
	"roadscout/pkg/model"
	"roadscout/pkg/overpass"
	"roadscout/pkg/request"
	"roadscout/pkg/tracker"
)

const degPerKm = 1.0 / 111.132

// buildRoute returns a route of roughly lengthKm running north from 45N,7E.
func buildRoute(lengthKm float64) []geo.Point {
	n := int(lengthKm/5) + 1
	route := make([]geo.Point, 0, n)
	for i := 0; i < n; i++ {
		route = append(route, geo.Point{Lat: 45 + float64(i)*5*degPerKm, Lon: 7})
	}
	return route
}

// fakeOverpass answers corridor, area, and destination phases with canned
// records placed relative to the given route.
func fakeOverpass(t *testing.T, route []geo.Point, calls *int32) *httptest.Server {
	t.Helper()
	origin := route[0]
	dest := route[len(route)-1]
	mid := route[len(route)/2]

	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(calls, 1)
		require.NoError(t, r.ParseForm())
		query := r.PostForm.Get("data")

		switch {
		case strings.Contains(query, "relation("):
			// area phase: one national park relation mid-route
			fmt.Fprintf(w, `{"elements":[
				{"type":"relation","id":500,"center":{"lat":%f,"lon":%f},
				 "tags":{"name":"Gran Bosco","boundary":"national_park"}}
			]}`, mid.Lat, mid.Lon+0.2)

		case strings.Contains(query, "around:20000"):
			// destination phase: one landmark near the destination
			fmt.Fprintf(w, `{"elements":[
				{"type":"node","id":900,"lat":%f,"lon":%f,
				 "tags":{"name":"Porta Antica","historic":"city_gate","wikipedia":"en:Porta"}}
			]}`, dest.Lat+0.01, dest.Lon+0.01)

		default:
			// corridor phase: a viewpoint mid-route (returned twice across
			// overlapping circles), a park hugging the origin, an unnamed node
			fmt.Fprintf(w, `{"elements":[
				{"type":"node","id":100,"lat":%f,"lon":%f,
				 "tags":{"name":"Belvedere","tourism":"viewpoint","wikipedia":"en:Belvedere"}},
				{"type":"node","id":100,"lat":%f,"lon":%f,
				 "tags":{"name":"Belvedere","tourism":"viewpoint","wikipedia":"en:Belvedere"}},
				{"type":"way","id":200,"center":{"lat":%f,"lon":%f},
				 "tags":{"name":"Giardino Basso","leisure":"park"}},
				{"type":"node","id":300,"lat":%f,"lon":%f,
				 "tags":{"tourism":"viewpoint"}}
			]}`, mid.Lat, mid.Lon+0.1, mid.Lat, mid.Lon+0.1,
				origin.Lat+10*degPerKm, origin.Lon,
				mid.Lat, mid.Lon)
		}
	}))
}

func newService(t *testing.T, endpoint string) *Service {
	t.Helper()
	reqCfg := &config.RequestConfig{
		Endpoint:    endpoint,
		Concurrency: 2,
		Retries:     2,
		Timeout:     config.Duration(5 * time.Second),
		Backoff: config.BackoffConfig{
			BaseDelay: config.Duration(2 * time.Millisecond),
			MaxDelay:  config.Duration(10 * time.Millisecond),
		},
		PhaseDelay: config.Duration(1 * time.Millisecond),
	}
	discCfg := &config.DiscoveryConfig{
		MaxSamples:    40,
		BatchSize:     4,
		SessionTTL:    config.Duration(time.Minute),
		SessionSize:   10,
		DestRadiusKm:  20,
		BBoxBufferDeg: 0.2,
	}
	tr := tracker.New()
	client := overpass.NewClient(request.New(reqCfg, cache.NullCache{}, tr), tr)
	return NewService(client, discCfg)
}

func TestDiscoverEndToEnd(t *testing.T) {
	route := buildRoute(600)
	origin := model.Location{Name: "Start", Lat: route[0].Lat, Lon: route[0].Lon, Role: model.RoleOrigin}
	dest := model.Location{Name: "End", Lat: route[len(route)-1].Lat, Lon: route[len(route)-1].Lon, Role: model.RoleDestination}

	var calls int32
	srv := fakeOverpass(t, route, &calls)
	defer srv.Close()

	svc := newService(t, srv.URL)
	res, err := svc.Discover(context.Background(), route, origin, dest, []string{"scenic"})
	require.NoError(t, err)

	// Along-way: the mid-route viewpoint (deduplicated) and the national
	// park relation. The origin-hugging park and the unnamed node are gone.
	require.Len(t, res.AlongWay, 2)

	scenic := map[model.Category]bool{
		model.CategoryViewpoint: true, model.CategoryPark: true,
		model.CategoryWaterfall: true, model.CategoryLandmark: true,
	}
	routeKm := geo.PathLengthKm(route)
	exclusion := ExclusionRadiusKm(routeKm)
	for _, s := range res.AlongWay {
		require.True(t, scenic[s.Category], "category %q not scenic", s.Category)
		require.NotEmpty(t, s.Name)
		require.Equal(t, model.BucketAlongWay, s.Bucket)

		p := geo.Point{Lat: s.Lat, Lon: s.Lon}
		require.Greater(t, geo.DistanceKm(p, geo.Point{Lat: origin.Lat, Lon: origin.Lon}), exclusion)
		require.Greater(t, geo.DistanceKm(p, geo.Point{Lat: dest.Lat, Lon: dest.Lon}), exclusion)
	}

	require.Len(t, res.AtDestination, 1)
	require.Equal(t, model.BucketDestination, res.AtDestination[0].Bucket)
	require.Equal(t, model.CategoryLandmark, res.AtDestination[0].Category)

	require.Equal(t, 3, res.TotalFound)
	require.GreaterOrEqual(t, res.QueryDurationMs, int64(0))
}

func TestDiscoverCachesSecondCall(t *testing.T) {
	route := buildRoute(600)
	origin := model.Location{Lat: route[0].Lat, Lon: route[0].Lon}
	dest := model.Location{Lat: route[len(route)-1].Lat, Lon: route[len(route)-1].Lon}

	var calls int32
	srv := fakeOverpass(t, route, &calls)
	defer srv.Close()

	svc := newService(t, srv.URL)
	first, err := svc.Discover(context.Background(), route, origin, dest, []string{"scenic"})
	require.NoError(t, err)
	callsAfterFirst := atomic.LoadInt32(&calls)
	require.Greater(t, callsAfterFirst, int32(0))

	second, err := svc.Discover(context.Background(), route, origin, dest, []string{"scenic"})
	require.NoError(t, err)
	require.Same(t, first, second, "second call inside TTL must return the cached object")
	require.Equal(t, callsAfterFirst, atomic.LoadInt32(&calls), "no new remote calls on cache hit")
}

func TestDiscoverEmptyPreferences(t *testing.T) {
	route := buildRoute(100)
	var calls int32
	srv := fakeOverpass(t, route, &calls)
	defer srv.Close()

	svc := newService(t, srv.URL)
	res, err := svc.Discover(context.Background(), route,
		model.Location{}, model.Location{Lat: route[len(route)-1].Lat, Lon: route[len(route)-1].Lon}, nil)
	require.NoError(t, err)
	require.Empty(t, res.AlongWay)
	require.Empty(t, res.AtDestination)
	require.EqualValues(t, 0, atomic.LoadInt32(&calls), "no categories means no remote queries")
}

func TestDiscoverCanceledCallDoesNotPoisonCache(t *testing.T) {
	route := buildRoute(600)
	origin := model.Location{Lat: route[0].Lat, Lon: route[0].Lon}
	dest := model.Location{Lat: route[len(route)-1].Lat, Lon: route[len(route)-1].Lon}

	var calls int32
	srv := fakeOverpass(t, route, &calls)
	defer srv.Close()

	svc := newService(t, srv.URL)

	// Client disconnect: every remote query fails on the dead context and
	// the run degrades to an empty result.
	canceled, cancel := context.WithCancel(context.Background())
	cancel()
	res, err := svc.Discover(canceled, route, origin, dest, []string{"scenic"})
	require.NoError(t, err)
	require.Equal(t, 0, res.TotalFound)

	// A later healthy call for the same key must hit the remote again and
	// see real results, not the degraded empty set.
	res, err = svc.Discover(context.Background(), route, origin, dest, []string{"scenic"})
	require.NoError(t, err)
	require.Greater(t, atomic.LoadInt32(&calls), int32(0), "healthy retry must reach the remote")
	require.Greater(t, res.TotalFound, 0, "healthy retry must not be served the degraded result")
}

func TestDiscoverRefetchesAfterTTL(t *testing.T) {
	route := buildRoute(600)
	origin := model.Location{Lat: route[0].Lat, Lon: route[0].Lon}
	dest := model.Location{Lat: route[len(route)-1].Lat, Lon: route[len(route)-1].Lon}

	var calls int32
	srv := fakeOverpass(t, route, &calls)
	defer srv.Close()

	svc := newService(t, srv.URL)
	svc.sessions.ttl = 10 * time.Millisecond

	_, err := svc.Discover(context.Background(), route, origin, dest, []string{"scenic"})
	require.NoError(t, err)
	callsAfterFirst := atomic.LoadInt32(&calls)

	time.Sleep(20 * time.Millisecond)

	_, err = svc.Discover(context.Background(), route, origin, dest, []string{"scenic"})
	require.NoError(t, err)
	require.Greater(t, atomic.LoadInt32(&calls), callsAfterFirst,
		"expired session must trigger a fresh remote cycle")
}

func TestDiscoverShortRouteUsesBBox(t *testing.T) {
	var mu sync.Mutex
	var queries []string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseForm())
		mu.Lock()
		queries = append(queries, r.PostForm.Get("data"))
		mu.Unlock()
		fmt.Fprint(w, `{"elements":[]}`)
	}))
	defer srv.Close()

	route := buildRoute(100)
	svc := newService(t, srv.URL)
	_, err := svc.Discover(context.Background(), route,
		model.Location{Lat: route[0].Lat, Lon: route[0].Lon},
		model.Location{Lat: route[len(route)-1].Lat, Lon: route[len(route)-1].Lon},
		[]string{"scenic"})
	require.NoError(t, err)

	mu.Lock()
	defer mu.Unlock()
	var bbox, perPoint int
	for _, q := range queries {
		if strings.Contains(q, "nwr[") {
			bbox++
		}
		if strings.Contains(q, "nwr(around:15000") {
			perPoint++
		}
	}
	require.Equal(t, 1, bbox, "short route should run one bounding-box corridor query")
	require.Zero(t, perPoint, "short route should not run per-point corridor queries")
}

func TestDiscoverEmptyRoute(t *testing.T) {
	svc := newService(t, "http://unused.invalid")
	_, err := svc.Discover(context.Background(), nil, model.Location{}, model.Location{}, []string{"scenic"})
	require.Error(t, err)
}

func TestDiscoverRemoteTotalFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer srv.Close()

	route := buildRoute(300)
	svc := newService(t, srv.URL)
	res, err := svc.Discover(context.Background(), route,
		model.Location{Lat: route[0].Lat, Lon: route[0].Lon},
		model.Location{Lat: route[len(route)-1].Lat, Lon: route[len(route)-1].Lon},
		[]string{"scenic", "food"})
	require.NoError(t, err, "remote failure must degrade, not error")
	require.Empty(t, res.AlongWay)
	require.Empty(t, res.AtDestination)
	require.Equal(t, 0, res.TotalFound)
}
