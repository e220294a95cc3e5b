// Package classifier maps raw OSM tag sets to the closed POI category enum.
// Classification is a fixed, ordered decision table: rules are evaluated
// top-to-bottom and the first match wins. The key priority (tourism >
// historic > natural > leisure > boundary > amenity > shop) is part of the
// pipeline's contract and is not re-derived.
package classifier

import (
	"roadscout/pkg/model"
)

// rule matches one (key, value) tag pair. An empty value matches any value
// of the key.
type rule struct {
	key      string
	value    string
	category model.Category
}

// rules is the decision table. Order matters.
var rules = []rule{
	// tourism
	{"tourism", "viewpoint", model.CategoryViewpoint},
	{"tourism", "museum", model.CategoryMuseum},
	{"tourism", "gallery", model.CategoryMuseum},
	{"tourism", "theme_park", model.CategoryEntertainment},
	{"tourism", "zoo", model.CategoryEntertainment},
	{"tourism", "aquarium", model.CategoryEntertainment},
	{"tourism", "hotel", model.CategoryHotel},
	{"tourism", "motel", model.CategoryHotel},
	{"tourism", "guest_house", model.CategoryHotel},
	{"tourism", "attraction", model.CategoryAttraction},
	{"tourism", "artwork", model.CategoryAttraction},

	// historic (any value)
	{"historic", "", model.CategoryLandmark},

	// natural (waterway carries the same waterfall records on ways)
	{"natural", "waterfall", model.CategoryWaterfall},
	{"waterway", "waterfall", model.CategoryWaterfall},
	{"natural", "peak", model.CategoryViewpoint},
	{"natural", "volcano", model.CategoryViewpoint},

	// leisure
	{"leisure", "park", model.CategoryPark},
	{"leisure", "nature_reserve", model.CategoryPark},
	{"leisure", "garden", model.CategoryPark},
	{"leisure", "water_park", model.CategoryEntertainment},

	// boundary
	{"boundary", "national_park", model.CategoryPark},
	{"boundary", "protected_area", model.CategoryPark},

	// amenity
	{"amenity", "restaurant", model.CategoryRestaurant},
	{"amenity", "fast_food", model.CategoryRestaurant},
	{"amenity", "cafe", model.CategoryCafe},
	{"amenity", "fuel", model.CategoryGas},
	{"amenity", "cinema", model.CategoryEntertainment},
	{"amenity", "theatre", model.CategoryEntertainment},

	// shop
	{"shop", "mall", model.CategoryShopping},
	{"shop", "department_store", model.CategoryShopping},
	{"shop", "supermarket", model.CategoryShopping},
}

// Infer returns the category for a tag set, or false if no rule matches.
func Infer(tags map[string]string) (model.Category, bool) {
	for _, r := range rules {
		val, ok := tags[r.key]
		if !ok {
			continue
		}
		if r.value == "" || r.value == val {
			return r.category, true
		}
	}
	return "", false
}
