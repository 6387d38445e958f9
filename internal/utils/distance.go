package utils

import (
	"math"
	"sort"

	"milsonresponse/internal/models"
)

// DistanceKm returns the great-circle distance between two coordinate
// pairs in kilometers.
func DistanceKm(a, b models.Location) float64 {
	return haversineDistance(a.Latitude, a.Longitude, b.Latitude, b.Longitude)
}

func haversineDistance(lat1, lon1, lat2, lon2 float64) float64 {
	lat1Rad := lat1 * math.Pi / 180
	lon1Rad := lon1 * math.Pi / 180
	lat2Rad := lat2 * math.Pi / 180
	lon2Rad := lon2 * math.Pi / 180

	dLat := lat2Rad - lat1Rad
	dLon := lon2Rad - lon1Rad

	a := math.Sin(dLat/2)*math.Sin(dLat/2) + math.Cos(lat1Rad)*math.Cos(lat2Rad)*math.Sin(dLon/2)*math.Sin(dLon/2)
	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))

	return EarthRadiusKM * c
}

func IsWithinRadius(center, point models.Location, radiusKM float64) bool {
	return DistanceKm(center, point) <= radiusKM
}

// SortByProximity orders incident views nearest-first relative to origin,
// annotating each with its distance. Views keep their relative order when
// distances tie.
func SortByProximity(origin models.Location, views []*models.IncidentView) {
	for _, v := range views {
		d := DistanceKm(origin, v.Location)
		v.DistanceKm = &d
	}
	sort.SliceStable(views, func(i, j int) bool {
		return *views[i].DistanceKm < *views[j].DistanceKm
	})
}
