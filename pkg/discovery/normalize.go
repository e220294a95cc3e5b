package discovery

import (
	"roadscout/pkg/classifier"
	"roadscout/pkg/model"
	"roadscout/pkg/overpass"
	"roadscout/pkg/scorer"
)

// Normalize converts raw remote records into typed suggestions. Records
// without resolvable coordinates, without a name, or without a matching
// category rule are filtered silently; they are not errors.
func Normalize(records []overpass.RawRecord) []model.POISuggestion {
	out := make([]model.POISuggestion, 0, len(records))
	for i := range records {
		r := &records[i]

		lat, lon, ok := r.Coordinates()
		if !ok {
			continue
		}

		name := r.Name()
		if name == "" {
			continue
		}

		cat, ok := classifier.Infer(r.Tags)
		if !ok {
			continue
		}

		popularity, _ := scorer.Popularity(r.Tags)

		out = append(out, model.POISuggestion{
			ID:         model.SuggestionID(r.Type, r.ID),
			Name:       name,
			Category:   cat,
			Lat:        lat,
			Lon:        lon,
			Popularity: popularity,
			Tags:       r.Tags,
		})
	}
	return out
}

// Dedup collapses suggestions that overlapping queries returned more than
// once. The first occurrence wins and relative order is preserved; identity
// is the (kind, identity) derived ID.
func Dedup(in []model.POISuggestion) []model.POISuggestion {
	seen := make(map[string]bool, len(in))
	out := make([]model.POISuggestion, 0, len(in))
	for _, s := range in {
		if seen[s.ID] {
			continue
		}
		seen[s.ID] = true
		out = append(out, s)
	}
	return out
}
