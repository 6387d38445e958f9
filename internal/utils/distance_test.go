package utils

import (
	"testing"

	"milsonresponse/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	lagos = models.Location{Latitude: 6.5244, Longitude: 3.3792}
	abuja = models.Location{Latitude: 9.0765, Longitude: 7.3986}
)

func TestDistanceKmKnownPairs(t *testing.T) {
	// Lagos to Abuja is roughly 520 km great-circle.
	d := DistanceKm(lagos, abuja)
	assert.InDelta(t, 520, d, 15)
}

func TestDistanceKmZeroForSamePoint(t *testing.T) {
	assert.InDelta(t, 0, DistanceKm(lagos, lagos), 1e-9)
}

func TestDistanceKmIsSymmetric(t *testing.T) {
	assert.InDelta(t, DistanceKm(lagos, abuja), DistanceKm(abuja, lagos), 1e-9)
}

func TestIsWithinRadius(t *testing.T) {
	nearby := models.Location{Latitude: 6.53, Longitude: 3.38}

	assert.True(t, IsWithinRadius(lagos, nearby, 5))
	assert.False(t, IsWithinRadius(lagos, abuja, 100))
}

func TestSortByProximity(t *testing.T) {
	views := []*models.IncidentView{
		{Incident: models.Incident{Description: "abuja", Location: abuja}},
		{Incident: models.Incident{Description: "lagos", Location: models.Location{Latitude: 6.53, Longitude: 3.38}}},
		{Incident: models.Incident{Description: "ibadan", Location: models.Location{Latitude: 7.3775, Longitude: 3.947}}},
	}

	SortByProximity(lagos, views)

	require.Len(t, views, 3)
	assert.Equal(t, "lagos", views[0].Description)
	assert.Equal(t, "ibadan", views[1].Description)
	assert.Equal(t, "abuja", views[2].Description)

	for _, v := range views {
		require.NotNil(t, v.DistanceKm)
	}
	assert.LessOrEqual(t, *views[0].DistanceKm, *views[1].DistanceKm)
	assert.LessOrEqual(t, *views[1].DistanceKm, *views[2].DistanceKm)
}
