package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type MediaKind string

const (
	MediaKindPhoto MediaKind = "photo"
	MediaKindVideo MediaKind = "video"
)

func (k MediaKind) Valid() bool {
	return k == MediaKindPhoto || k == MediaKindVideo
}

// ChatMedia is a reference to an already-uploaded blob. The upload happens
// before the message is posted; the message only carries the stable URL.
type ChatMedia struct {
	URL  string    `json:"url" bson:"url"`
	Kind MediaKind `json:"kind" bson:"kind"`
}

// ChatMessage belongs to an incident's chat thread. Messages are
// append-only and ordered by CreatedAt ascending; at least one of Text or
// Media must be set.
type ChatMessage struct {
	ID          primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	IncidentID  primitive.ObjectID `json:"incident_id" bson:"incident_id"`
	SenderEmail string             `json:"sender_email" bson:"sender_email"`
	SenderName  string             `json:"sender_name" bson:"sender_name"`
	Text        string             `json:"text,omitempty" bson:"text,omitempty"`
	Media       *ChatMedia         `json:"media,omitempty" bson:"media,omitempty"`
	CreatedAt   time.Time          `json:"created_at" bson:"created_at"`
}

func (m *ChatMessage) Empty() bool {
	return m.Text == "" && m.Media == nil
}
