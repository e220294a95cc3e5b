package classifier

import (
	"sort"

	"roadscout/pkg/model"
)

// Search radii per category group. Scenic features are worth a wider detour
// than roadside amenities.
const (
	ScenicRadiusKm  = 15.0
	AmenityRadiusKm = 5.0
)

// predicates maps each category to its remote tag-filter predicates. These
// are the query-side mirror of the decision table in classifier.go.
var predicates = map[model.Category][]string{
	model.CategoryViewpoint:     {`["tourism"="viewpoint"]`, `["natural"="peak"]`},
	model.CategoryPark:          {`["leisure"="park"]`, `["leisure"="nature_reserve"]`},
	model.CategoryWaterfall:     {`["natural"="waterfall"]`, `["waterway"="waterfall"]`},
	model.CategoryLandmark:      {`["historic"]`},
	model.CategoryAttraction:    {`["tourism"="attraction"]`, `["tourism"="artwork"]`},
	model.CategoryMuseum:        {`["tourism"="museum"]`, `["tourism"="gallery"]`},
	model.CategoryEntertainment: {`["tourism"="theme_park"]`, `["tourism"="zoo"]`, `["amenity"="cinema"]`, `["leisure"="water_park"]`},
	model.CategoryRestaurant:    {`["amenity"="restaurant"]`},
	model.CategoryCafe:          {`["amenity"="cafe"]`},
	model.CategoryGas:           {`["amenity"="fuel"]`},
	model.CategoryHotel:         {`["tourism"="hotel"]`, `["tourism"="motel"]`},
	model.CategoryShopping:      {`["shop"="mall"]`, `["shop"="department_store"]`},
}

// areaPredicates are the predicates that select large administrative-area
// relations. They time out server-side when evaluated over a bounding box,
// so they only run in per-point relation queries.
var areaPredicates = map[model.Category][]string{
	model.CategoryPark: {`["boundary"="national_park"]`, `["boundary"="protected_area"]`},
}

// Predicates returns the point/way predicates for a category.
func Predicates(cat model.Category) []string {
	return predicates[cat]
}

// AreaPredicates returns the named-boundary relation predicates for a
// category, if any.
func AreaPredicates(cat model.Category) []string {
	return areaPredicates[cat]
}

// RadiusKm returns the per-point search radius for a category.
func RadiusKm(cat model.Category) float64 {
	if cat.IsScenic() {
		return ScenicRadiusKm
	}
	return AmenityRadiusKm
}

// preferenceCategories maps each trip preference to its category subset.
var preferenceCategories = map[string][]model.Category{
	"scenic":    {model.CategoryViewpoint, model.CategoryPark, model.CategoryWaterfall, model.CategoryLandmark},
	"culture":   {model.CategoryMuseum, model.CategoryLandmark, model.CategoryAttraction},
	"family":    {model.CategoryEntertainment, model.CategoryPark, model.CategoryAttraction},
	"food":      {model.CategoryRestaurant, model.CategoryCafe},
	"practical": {model.CategoryGas, model.CategoryHotel, model.CategoryShopping},
}

// CategoriesForPreferences expands a preference set into the union of its
// category subsets, sorted and without duplicates. Unknown preferences are
// ignored.
func CategoriesForPreferences(prefs []string) []model.Category {
	seen := make(map[model.Category]bool)
	for _, p := range prefs {
		for _, c := range preferenceCategories[p] {
			seen[c] = true
		}
	}

	out := make([]model.Category, 0, len(seen))
	for c := range seen {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}
