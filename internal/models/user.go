package models

import "time"

type Role string

const (
	RoleUser      Role = "user"
	RoleAdmin     Role = "admin"
	RoleEmergency Role = "emergency"
)

// User mirrors the identity provider's account record into the document
// store for display purposes. Keyed by the provider uid, not an ObjectID.
type User struct {
	UID         string    `json:"uid" bson:"_id"`
	DisplayName string    `json:"display_name" bson:"display_name"`
	Email       string    `json:"email" bson:"email"`
	Role        Role      `json:"role" bson:"role"`
	CreatedAt   time.Time `json:"created_at" bson:"created_at"`
}
