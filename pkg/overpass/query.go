package overpass

import (
	"fmt"
	"strings"

	"roadscout/pkg/classifier"
	"roadscout/pkg/geo"
	"roadscout/pkg/model"
)

// Query execution directives. The timeout doubles as the pipeline's remote
// deadline; the client itself enforces no shorter one.
const (
	queryTimeoutSec = 25
	queryMaxSize    = 536870912
)

func header() string {
	return fmt.Sprintf("[out:json][timeout:%d][maxsize:%d];", queryTimeoutSec, queryMaxSize)
}

// BuildPerPoint produces one union query covering every requested category at
// every sample point, each predicate at its category-specific radius.
// An empty category set yields ""; callers skip the request.
func BuildPerPoint(points []geo.Point, cats []model.Category) string {
	var parts []string
	for _, cat := range cats {
		radiusM := int(classifier.RadiusKm(cat) * 1000)
		for _, pred := range classifier.Predicates(cat) {
			for _, p := range points {
				parts = append(parts, fmt.Sprintf("nwr(around:%d,%.5f,%.5f)%s;", radiusM, p.Lat, p.Lon, pred))
			}
		}
	}
	if len(parts) == 0 {
		return ""
	}
	return header() + "(" + strings.Join(parts, "") + ");out center;"
}

// BuildAreaRelations produces a relation query for named-boundary areas
// (national parks, protected areas) around the sample points. Boundary
// relations are queried per-point because evaluating them over a bounding
// box times out server-side. Returns "" when no requested category has
// area predicates.
func BuildAreaRelations(points []geo.Point, cats []model.Category) string {
	var parts []string
	for _, cat := range cats {
		radiusM := int(classifier.RadiusKm(cat) * 1000)
		for _, pred := range classifier.AreaPredicates(cat) {
			for _, p := range points {
				parts = append(parts, fmt.Sprintf("relation(around:%d,%.5f,%.5f)%s;", radiusM, p.Lat, p.Lon, pred))
			}
		}
	}
	if len(parts) == 0 {
		return ""
	}
	return header() + "(" + strings.Join(parts, "") + ");out center;"
}

// BuildBBox produces a single union query over a bounding box. Only
// point/way-safe predicates are included; boundary relations go through
// BuildAreaRelations.
func BuildBBox(b geo.Bounds, cats []model.Category) string {
	bbox := fmt.Sprintf("(%.5f,%.5f,%.5f,%.5f)", b.MinLat, b.MinLon, b.MaxLat, b.MaxLon)

	var parts []string
	for _, cat := range cats {
		for _, pred := range classifier.Predicates(cat) {
			parts = append(parts, fmt.Sprintf("nwr%s%s;", pred, bbox))
		}
	}
	if len(parts) == 0 {
		return ""
	}
	return header() + "(" + strings.Join(parts, "") + ");out center;"
}

// BuildDestination produces one query centered on the destination at a fixed
// radius wide enough to cover the whole urban area.
func BuildDestination(dest geo.Point, cats []model.Category, radiusKm float64) string {
	radiusM := int(radiusKm * 1000)

	var parts []string
	for _, cat := range cats {
		for _, pred := range classifier.Predicates(cat) {
			parts = append(parts, fmt.Sprintf("nwr(around:%d,%.5f,%.5f)%s;", radiusM, dest.Lat, dest.Lon, pred))
		}
	}
	if len(parts) == 0 {
		return ""
	}
	return header() + "(" + strings.Join(parts, "") + ");out center;"
}
