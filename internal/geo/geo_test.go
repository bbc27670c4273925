package geo

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDistanceKm_IdenticalPoints(t *testing.T) {
	points := [][2]float64{
		{0, 0},
		{51.505, -0.09},
		{-33.8688, 151.2093},
		{90, 0},
	}
	for _, p := range points {
		assert.Equal(t, 0.0, DistanceKm(p[0], p[1], p[0], p[1]))
	}
}

func TestDistanceKm_Symmetric(t *testing.T) {
	pairs := [][4]float64{
		{51.505, -0.09, 51.51, -0.1},
		{0, 0, 45, 90},
		{-33.8688, 151.2093, 40.7128, -74.006},
	}
	for _, p := range pairs {
		assert.Equal(t, DistanceKm(p[0], p[1], p[2], p[3]), DistanceKm(p[2], p[3], p[0], p[1]))
	}
}

func TestDistanceKm_MonotoneWithSeparation(t *testing.T) {
	// Three points on the same meridian: b lies between a and c.
	aLat, bLat, cLat := 10.0, 20.0, 30.0
	lon := 5.0

	ab := DistanceKm(aLat, lon, bLat, lon)
	ac := DistanceKm(aLat, lon, cLat, lon)
	assert.Greater(t, ac, ab)
}

func TestDistanceKm_KnownDistance(t *testing.T) {
	// Central London points, roughly 0.9 km apart.
	d := DistanceKm(51.51, -0.1, 51.505, -0.09)
	assert.InDelta(t, 0.9, d, 0.1)
}

func TestIsValidCoordinate(t *testing.T) {
	tests := []struct {
		name  string
		lat   float64
		lon   float64
		valid bool
	}{
		{"origin", 0, 0, true},
		{"north pole", 90, 0, true},
		{"south pole", -90, 0, true},
		{"date line east", 0, 180, true},
		{"date line west", 0, -180, true},
		{"lat too high", 91, 0, false},
		{"lat too low", -91, 0, false},
		{"lon too high", 0, 181, false},
		{"lon too low", 0, -181, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.valid, IsValidCoordinate(tt.lat, tt.lon))
		})
	}
}
