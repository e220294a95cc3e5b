// Package scorer derives a popularity score from a POI's raw tags. The score
// is a deterministic proxy for "worth visiting": well-documented places
// (heritage listings, encyclopedia references, posted hours) rank above bare
// map entries. It is not a statistical model.
package scorer

import (
	"fmt"
)

const (
	baseScore = 50
	minScore  = 0
	maxScore  = 100
)

// bonus awards points when a tag key is present (any value).
type bonus struct {
	key    string
	points int
}

var bonuses = []bonus{
	{"heritage", 15},  // official heritage designation
	{"wikipedia", 15}, // encyclopedia reference
	{"wikidata", 10},
	{"website", 5},
	{"phone", 5},
	{"opening_hours", 5},
	{"description", 5},
	{"stars", 10},
}

// Popularity returns the popularity score in [0,100] for a tag set, plus a
// breakdown for debugging. An empty tag map scores the base value.
func Popularity(tags map[string]string) (int, []string) {
	score := baseScore
	details := []string{fmt.Sprintf("base: %d", baseScore)}

	// Flagged as a notable attraction on top of its own category
	if tags["tourism"] == "attraction" {
		score += 10
		details = append(details, "attraction flag: +10")
	}

	for _, b := range bonuses {
		if _, ok := tags[b.key]; ok {
			score += b.points
			details = append(details, fmt.Sprintf("%s: +%d", b.key, b.points))
		}
	}

	if score > maxScore {
		score = maxScore
		details = append(details, "clamped to 100")
	}
	if score < minScore {
		score = minScore
	}
	return score, details
}
