package discovery

import (
	"testing"

	"roadscout/pkg/model"
	"roadscout/pkg/overpass"
)

func f64(v float64) *float64 { return &v }

func TestNormalizeFilters(t *testing.T) {
	records := []overpass.RawRecord{
		// valid node
		{Type: "node", ID: 1, Lat: f64(48.1), Lon: f64(2.2), Tags: map[string]string{"name": "Belvedere", "tourism": "viewpoint"}},
		// unnamed: dropped
		{Type: "node", ID: 2, Lat: f64(48.1), Lon: f64(2.2), Tags: map[string]string{"tourism": "viewpoint"}},
		// no coordinates: dropped
		{Type: "relation", ID: 3, Tags: map[string]string{"name": "Ghost", "tourism": "viewpoint"}},
		// no category rule: dropped
		{Type: "node", ID: 4, Lat: f64(48.1), Lon: f64(2.2), Tags: map[string]string{"name": "Road", "highway": "residential"}},
		// way with center coordinate
		{Type: "way", ID: 5, Center: &overpass.Center{Lat: 48.3, Lon: 2.4}, Tags: map[string]string{"name": "Old Park", "leisure": "park"}},
	}

	out := Normalize(records)
	if len(out) != 2 {
		t.Fatalf("normalized %d records, want 2: %+v", len(out), out)
	}

	if out[0].ID != "node/1" || out[0].Category != model.CategoryViewpoint {
		t.Errorf("first = %+v", out[0])
	}
	if out[1].ID != "way/5" || out[1].Lat != 48.3 || out[1].Lon != 2.4 {
		t.Errorf("second = %+v", out[1])
	}
	for _, s := range out {
		if s.Popularity < 0 || s.Popularity > 100 {
			t.Errorf("popularity %d out of range for %s", s.Popularity, s.ID)
		}
	}
}

func TestNormalizeIdentityStable(t *testing.T) {
	r := overpass.RawRecord{Type: "way", ID: 42, Center: &overpass.Center{Lat: 1, Lon: 1},
		Tags: map[string]string{"name": "X", "leisure": "park"}}

	a := Normalize([]overpass.RawRecord{r})
	b := Normalize([]overpass.RawRecord{r})
	if a[0].ID != b[0].ID {
		t.Errorf("identity not stable across re-fetch: %q vs %q", a[0].ID, b[0].ID)
	}
}

func TestDedup(t *testing.T) {
	mk := func(id string, name string) model.POISuggestion {
		return model.POISuggestion{ID: id, Name: name}
	}
	in := []model.POISuggestion{
		mk("node/1", "first"),
		mk("node/2", "second"),
		mk("node/1", "duplicate of first"),
		mk("way/1", "different kind, same identity number"),
		mk("node/2", "duplicate of second"),
	}

	out := Dedup(in)
	if len(out) != 3 {
		t.Fatalf("deduped to %d entries, want 3", len(out))
	}
	// first-seen order preserved
	if out[0].Name != "first" || out[1].Name != "second" || out[2].ID != "way/1" {
		t.Errorf("order not preserved: %+v", out)
	}
}

func TestDedupEmpty(t *testing.T) {
	if out := Dedup(nil); len(out) != 0 {
		t.Errorf("dedup of nil = %v", out)
	}
}
