package model

// Category is the closed set of POI categories the pipeline can produce.
type Category string

const (
	CategoryViewpoint     Category = "viewpoint"
	CategoryPark          Category = "park"
	CategoryWaterfall     Category = "waterfall"
	CategoryLandmark      Category = "landmark"
	CategoryAttraction    Category = "attraction"
	CategoryMuseum        Category = "museum"
	CategoryEntertainment Category = "entertainment"
	CategoryRestaurant    Category = "restaurant"
	CategoryCafe          Category = "cafe"
	CategoryGas           Category = "gas"
	CategoryHotel         Category = "hotel"
	CategoryShopping      Category = "shopping"
)

// AllCategories lists every known category in display order.
var AllCategories = []Category{
	CategoryViewpoint,
	CategoryPark,
	CategoryWaterfall,
	CategoryLandmark,
	CategoryAttraction,
	CategoryMuseum,
	CategoryEntertainment,
	CategoryRestaurant,
	CategoryCafe,
	CategoryGas,
	CategoryHotel,
	CategoryShopping,
}

// IsScenic reports whether the category belongs to the wide-radius discovery
// group (scenic features worth a detour) rather than the narrow-radius
// amenity group.
func (c Category) IsScenic() bool {
	switch c {
	case CategoryViewpoint, CategoryPark, CategoryWaterfall, CategoryLandmark, CategoryAttraction:
		return true
	}
	return false
}
