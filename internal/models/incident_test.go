package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go.mongodb.org/mongo-driver/bson"
)

func TestResponseStatusOrdinalsAreStrictlyIncreasing(t *testing.T) {
	assert.Less(t, ResponseStatusAwaiting.Ordinal(), ResponseStatusOnTheWay.Ordinal())
	assert.Less(t, ResponseStatusOnTheWay.Ordinal(), ResponseStatusArrived.Ordinal())
	assert.Less(t, ResponseStatusArrived.Ordinal(), ResponseStatusCompleted.Ordinal())
}

func TestResponseStatusValid(t *testing.T) {
	for _, status := range []ResponseStatus{ResponseStatusAwaiting, ResponseStatusOnTheWay, ResponseStatusArrived, ResponseStatusCompleted} {
		assert.True(t, status.Valid(), string(status))
	}
	assert.False(t, ResponseStatus("dispatched").Valid())
	assert.False(t, ResponseStatus("").Valid())
}

func TestOnlyCompletedIsTerminal(t *testing.T) {
	assert.True(t, ResponseStatusCompleted.Terminal())
	assert.False(t, ResponseStatusAwaiting.Terminal())
	assert.False(t, ResponseStatusOnTheWay.Terminal())
	assert.False(t, ResponseStatusArrived.Terminal())
}

func TestResponseStatusesBelow(t *testing.T) {
	assert.Empty(t, ResponseStatusesBelow(ResponseStatusAwaiting))

	assert.ElementsMatch(t,
		[]ResponseStatus{ResponseStatusAwaiting},
		ResponseStatusesBelow(ResponseStatusOnTheWay))

	assert.ElementsMatch(t,
		[]ResponseStatus{ResponseStatusAwaiting, ResponseStatusOnTheWay, ResponseStatusArrived},
		ResponseStatusesBelow(ResponseStatusCompleted))
}

func TestResponseStatusesBelowEncodesAsBSONArray(t *testing.T) {
	// The $in guard must marshal to an array for every target. A nil
	// slice encodes as BSON null, which MongoDB rejects with "$in needs
	// an array", turning the awaiting no-op and the awaiting regression
	// case into driver errors.
	for _, target := range []ResponseStatus{ResponseStatusAwaiting, ResponseStatusOnTheWay, ResponseStatusArrived, ResponseStatusCompleted} {
		statuses := ResponseStatusesBelow(target)
		require.NotNil(t, statuses, string(target))

		filter := bson.M{"response_status": bson.M{"$in": statuses}}
		data, err := bson.MarshalExtJSON(filter, false, false)
		require.NoError(t, err)
		assert.NotContains(t, string(data), `"$in":null`, string(target))
	}

	data, err := bson.MarshalExtJSON(
		bson.M{"$in": ResponseStatusesBelow(ResponseStatusAwaiting)}, false, false)
	require.NoError(t, err)
	assert.JSONEq(t, `{"$in":[]}`, string(data))
}

func TestModerationStatusValid(t *testing.T) {
	for _, status := range []ModerationStatus{ModerationStatusPending, ModerationStatusApproved, ModerationStatusRevoked} {
		assert.True(t, status.Valid(), string(status))
	}
	assert.False(t, ModerationStatus("rejected").Valid())
}

func TestLocationValid(t *testing.T) {
	assert.True(t, Location{Latitude: 6.5, Longitude: 3.4}.Valid())
	assert.True(t, Location{Latitude: -90, Longitude: 180}.Valid())
	assert.False(t, Location{Latitude: 90.1, Longitude: 0}.Valid())
	assert.False(t, Location{Latitude: 0, Longitude: -180.5}.Valid())
}
