package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type ModerationStatus string
type ResponseStatus string

const (
	ModerationStatusPending  ModerationStatus = "pending"
	ModerationStatusApproved ModerationStatus = "approved"
	ModerationStatusRevoked  ModerationStatus = "revoked"

	ResponseStatusAwaiting  ResponseStatus = "awaiting"
	ResponseStatusOnTheWay  ResponseStatus = "on_the_way"
	ResponseStatusArrived   ResponseStatus = "arrived"
	ResponseStatusCompleted ResponseStatus = "completed"
)

// responseStatusOrder drives the forward-only response state machine.
// Multiple responders may act independently, so skipping ahead is legal
// but the status must never move backward.
var responseStatusOrder = map[ResponseStatus]int{
	ResponseStatusAwaiting:  0,
	ResponseStatusOnTheWay:  1,
	ResponseStatusArrived:   2,
	ResponseStatusCompleted: 3,
}

func (s ResponseStatus) Valid() bool {
	_, ok := responseStatusOrder[s]
	return ok
}

func (s ResponseStatus) Ordinal() int {
	return responseStatusOrder[s]
}

// Terminal reports whether the status admits no further transitions.
func (s ResponseStatus) Terminal() bool {
	return s == ResponseStatusCompleted
}

// ResponseStatusesBelow returns every status with a strictly smaller
// ordinal than target. The mongo repository uses this as the $in guard in
// the conditional status update, so a racing write that has already
// advanced past target no longer matches. The result is never nil: for
// the lowest ordinal it must encode as an empty BSON array, not null,
// or the driver-side $in rejects the whole filter.
func ResponseStatusesBelow(target ResponseStatus) []ResponseStatus {
	out := make([]ResponseStatus, 0, len(responseStatusOrder))
	for status, ord := range responseStatusOrder {
		if ord < target.Ordinal() {
			out = append(out, status)
		}
	}
	return out
}

func (s ModerationStatus) Valid() bool {
	switch s {
	case ModerationStatusPending, ModerationStatusApproved, ModerationStatusRevoked:
		return true
	}
	return false
}

type Incident struct {
	ID               primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	ReporterID       string             `json:"reporter_id" bson:"reporter_id" validate:"required"`
	Description      string             `json:"description" bson:"description" validate:"required"`
	PhotoURLs        []string           `json:"photo_urls" bson:"photo_urls" validate:"max=3"`
	Location         Location           `json:"location" bson:"location"`
	Address          string             `json:"address,omitempty" bson:"address,omitempty"`
	ModerationStatus ModerationStatus   `json:"moderation_status" bson:"moderation_status"`
	ResponseStatus   ResponseStatus     `json:"response_status" bson:"response_status"`
	CreatedAt        time.Time          `json:"created_at" bson:"created_at"`
	UpdatedAt        time.Time          `json:"updated_at" bson:"updated_at"`
}

// IncidentView is an Incident joined with the reporter's display name for
// admin and responder listings, optionally annotated with the distance
// from the viewer's location.
type IncidentView struct {
	Incident   `bson:",inline"`
	Reporter   string   `json:"reporter_display_name"`
	DistanceKm *float64 `json:"distance_km,omitempty"`
}
