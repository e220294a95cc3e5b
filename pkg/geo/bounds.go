package geo

import (
	"github.com/paulmach/orb"
)

// Bounds represents a geographic bounding box (south-west / north-east).
type Bounds struct {
	MinLat float64 `json:"min_lat"`
	MinLon float64 `json:"min_lon"`
	MaxLat float64 `json:"max_lat"`
	MaxLon float64 `json:"max_lon"`
}

// BoundOf computes the bounding box of a polyline, expanded by bufferDeg
// degrees on every side. An empty path yields the zero Bounds.
func BoundOf(path []Point, bufferDeg float64) Bounds {
	if len(path) == 0 {
		return Bounds{}
	}

	ls := make(orb.LineString, 0, len(path))
	for _, p := range path {
		ls = append(ls, orb.Point{p.Lon, p.Lat})
	}

	b := ls.Bound()
	b = b.Pad(bufferDeg)

	return Bounds{
		MinLat: b.Min[1],
		MinLon: b.Min[0],
		MaxLat: b.Max[1],
		MaxLon: b.Max[0],
	}
}

// Downsample returns at most max points from path, evenly spaced by index,
// always keeping the first and last point. Paths already within the limit
// are returned as-is.
func Downsample(path []Point, max int) []Point {
	if max < 2 || len(path) <= max {
		return path
	}

	out := make([]Point, 0, max)
	step := float64(len(path)-1) / float64(max-1)
	for i := 0; i < max; i++ {
		idx := int(float64(i)*step + 0.5)
		if idx > len(path)-1 {
			idx = len(path) - 1
		}
		out = append(out, path[idx])
	}
	return out
}
