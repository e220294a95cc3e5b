package geo

import (
	"math"
	"testing"
)

func TestDistance(t *testing.T) {
	// Paris -> London, roughly 344 km
	paris := Point{Lat: 48.8566, Lon: 2.3522}
	london := Point{Lat: 51.5074, Lon: -0.1278}

	d := DistanceKm(paris, london)
	if d < 330 || d > 360 {
		t.Errorf("Paris-London distance = %.1f km, want ~344", d)
	}

	// Zero distance
	if d := Distance(paris, paris); d != 0 {
		t.Errorf("identical points distance = %f, want 0", d)
	}
}

func TestPathLengthKm(t *testing.T) {
	if got := PathLengthKm(nil); got != 0 {
		t.Errorf("empty path length = %f, want 0", got)
	}
	if got := PathLengthKm([]Point{{Lat: 48, Lon: 2}}); got != 0 {
		t.Errorf("single point length = %f, want 0", got)
	}

	// 1 degree of latitude is ~111.2 km
	path := []Point{{Lat: 48, Lon: 2}, {Lat: 49, Lon: 2}, {Lat: 50, Lon: 2}}
	got := PathLengthKm(path)
	if math.Abs(got-222.4) > 2 {
		t.Errorf("2-degree path length = %.1f km, want ~222.4", got)
	}
}

func TestBoundOf(t *testing.T) {
	path := []Point{
		{Lat: 48.0, Lon: 2.0},
		{Lat: 49.0, Lon: 3.0},
		{Lat: 48.5, Lon: 2.5},
	}

	b := BoundOf(path, 0.2)
	if b.MinLat != 47.8 || b.MaxLat != 49.2 {
		t.Errorf("lat bounds = [%.2f, %.2f], want [47.80, 49.20]", b.MinLat, b.MaxLat)
	}
	if b.MinLon != 1.8 || b.MaxLon != 3.2 {
		t.Errorf("lon bounds = [%.2f, %.2f], want [1.80, 3.20]", b.MinLon, b.MaxLon)
	}

	if got := BoundOf(nil, 0.2); got != (Bounds{}) {
		t.Errorf("empty path bounds = %+v, want zero", got)
	}
}

func TestDownsample(t *testing.T) {
	path := make([]Point, 100)
	for i := range path {
		path[i] = Point{Lat: float64(i), Lon: 0}
	}

	out := Downsample(path, 20)
	if len(out) != 20 {
		t.Fatalf("downsampled length = %d, want 20", len(out))
	}
	if out[0] != path[0] {
		t.Errorf("first point not preserved: %+v", out[0])
	}
	if out[len(out)-1] != path[len(path)-1] {
		t.Errorf("last point not preserved: %+v", out[len(out)-1])
	}

	// Short paths pass through unchanged
	short := path[:5]
	if got := Downsample(short, 20); len(got) != 5 {
		t.Errorf("short path downsampled to %d points, want 5", len(got))
	}
}
