package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Donation is an append-only ledger entry recorded after the payment
// provider confirms the charge. Amount is in minor currency units (kobo).
type Donation struct {
	ID         primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	IncidentID primitive.ObjectID `json:"incident_id" bson:"incident_id"`
	DonorEmail string             `json:"donor_email" bson:"donor_email" validate:"required,email"`
	Amount     int64              `json:"amount" bson:"amount" validate:"required,gt=0"`
	Reference  string             `json:"reference,omitempty" bson:"reference,omitempty"`
	CreatedAt  time.Time          `json:"created_at" bson:"created_at"`
}

// DonationIncidentDetails is the denormalized incident block attached to a
// donation row in moderator views. Nil when the incident no longer exists.
type DonationIncidentDetails struct {
	Description      string           `json:"description"`
	Location         Location         `json:"location"`
	ModerationStatus ModerationStatus `json:"moderation_status"`
}

type DonationView struct {
	Donation        `bson:",inline"`
	IncidentDetails *DonationIncidentDetails `json:"incident_details,omitempty"`
}
