package identity

import (
	"strings"

	"milsonresponse/internal/models"
)

// RoleResolver derives a role from the account email. Privileged roles
// come from exact matches against the two designated addresses rather
// than a stored claim; everyone else is a regular user.
type RoleResolver struct {
	adminEmail     string
	emergencyEmail string
}

func NewRoleResolver(adminEmail, emergencyEmail string) *RoleResolver {
	return &RoleResolver{
		adminEmail:     strings.ToLower(adminEmail),
		emergencyEmail: strings.ToLower(emergencyEmail),
	}
}

func (r *RoleResolver) Resolve(email string) models.Role {
	switch strings.ToLower(email) {
	case r.adminEmail:
		return models.RoleAdmin
	case r.emergencyEmail:
		return models.RoleEmergency
	default:
		return models.RoleUser
	}
}
