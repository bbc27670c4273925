package service

import (
	"github.com/leftovers-app/leftovers/internal/geo"
	"github.com/leftovers-app/leftovers/internal/model"
)

// filterNearby keeps the items that are available and within radiusKm of
// the center. The radius comparison is inclusive. A non-positive radius
// matches nothing. Input order is preserved.
func filterNearby(lat, lon, radiusKm float64, items []model.FoodItem) []model.FoodItem {
	result := make([]model.FoodItem, 0, len(items))
	if radiusKm <= 0 {
		return result
	}
	for _, item := range items {
		if !item.Available {
			continue
		}
		if geo.DistanceKm(lat, lon, item.Latitude, item.Longitude) <= radiusKm {
			result = append(result, item)
		}
	}
	return result
}
