package catalog

import (
	"fmt"
	"strings"
)

// Category classifies a place within a destination.
type Category string

const (
	CategoryAttraction Category = "attraction"
	CategoryFood       Category = "food"
	CategoryHotel      Category = "hotel"
	CategoryCulture    Category = "culture"
)

// Categories lists every category in display order.
var Categories = []Category{CategoryAttraction, CategoryFood, CategoryHotel, CategoryCulture}

// ParseCategory accepts both the singular category names and the plural
// bucket names used by the content source ("attractions", "hotels").
func ParseCategory(s string) (Category, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "attraction", "attractions":
		return CategoryAttraction, nil
	case "food":
		return CategoryFood, nil
	case "hotel", "hotels":
		return CategoryHotel, nil
	case "culture":
		return CategoryCulture, nil
	}
	return "", fmt.Errorf("unknown category %q", s)
}

// Coordinates is a latitude/longitude pair.
type Coordinates struct {
	Lat float64 `json:"lat" yaml:"lat" validate:"gte=-90,lte=90"`
	Lng float64 `json:"lng" yaml:"lng" validate:"gte=-180,lte=180"`
}

// Place is a single point of interest inside a destination.
type Place struct {
	ID          string      `json:"id" yaml:"id" validate:"required"`
	Name        string      `json:"name" yaml:"name" validate:"required"`
	Category    Category    `json:"category" yaml:"category" validate:"required,oneof=attraction food hotel culture"`
	Rating      float64     `json:"rating" yaml:"rating" validate:"gte=0,lte=5"`
	Description string      `json:"description" yaml:"description"`
	Image       string      `json:"image,omitempty" yaml:"image"`
	PriceRange  string      `json:"priceRange,omitempty" yaml:"price_range"`
	Duration    string      `json:"duration,omitempty" yaml:"duration"`
	Cuisine     string      `json:"cuisine,omitempty" yaml:"cuisine"`
	BestTime    string      `json:"bestTime,omitempty" yaml:"best_time"`
	Coordinates Coordinates `json:"coordinates" yaml:"coordinates"`
	Specialties []string    `json:"specialties,omitempty" yaml:"specialties"`
	Amenities   []string    `json:"amenities,omitempty" yaml:"amenities"`
}

// Destination is read-only reference data for a city or region.
type Destination struct {
	ID          string      `json:"id" yaml:"id" validate:"required"`
	Name        string      `json:"name" yaml:"name" validate:"required"`
	Country     string      `json:"country" yaml:"country" validate:"required"`
	Rating      float64     `json:"rating" yaml:"rating" validate:"gte=0,lte=5"`
	Description string      `json:"description" yaml:"description"`
	Image       string      `json:"image,omitempty" yaml:"image"`
	Highlights  []string    `json:"highlights,omitempty" yaml:"highlights"`
	Coordinates Coordinates `json:"coordinates" yaml:"coordinates"`
}

// Marker is the map-view projection of a Place.
type Marker struct {
	ID          string      `json:"id"`
	Name        string      `json:"name"`
	Category    Category    `json:"category"`
	Coordinates Coordinates `json:"coordinates"`
	Rating      float64     `json:"rating"`
}

// PlaceSet holds the places of one destination bucketed by category.
type PlaceSet struct {
	Attractions []Place `json:"attractions,omitempty" yaml:"attractions" validate:"dive"`
	Food        []Place `json:"food,omitempty" yaml:"food" validate:"dive"`
	Hotels      []Place `json:"hotels,omitempty" yaml:"hotels" validate:"dive"`
	Culture     []Place `json:"culture,omitempty" yaml:"culture" validate:"dive"`
}

// ByCategory returns the bucket for c.
func (s PlaceSet) ByCategory(c Category) []Place {
	switch c {
	case CategoryAttraction:
		return s.Attractions
	case CategoryFood:
		return s.Food
	case CategoryHotel:
		return s.Hotels
	case CategoryCulture:
		return s.Culture
	}
	return nil
}

// All returns every place in attractions, food, hotels, culture order.
func (s PlaceSet) All() []Place {
	all := make([]Place, 0, len(s.Attractions)+len(s.Food)+len(s.Hotels)+len(s.Culture))
	all = append(all, s.Attractions...)
	all = append(all, s.Food...)
	all = append(all, s.Hotels...)
	all = append(all, s.Culture...)
	return all
}

// Overview aggregates everything the destination page needs.
type Overview struct {
	Destination Destination `json:"destination"`
	Places      PlaceSet    `json:"places"`
	Markers     []Marker    `json:"markers"`
}

// Catalog is the fully loaded, read-only content set.
type Catalog struct {
	Destinations []Destination
	Places       map[string]PlaceSet
}
