package identity

import (
	"testing"

	"milsonresponse/internal/models"

	"github.com/stretchr/testify/assert"
)

func TestResolveExactMatches(t *testing.T) {
	resolver := NewRoleResolver("admin@milsonresponse.com", "emergencyservices@milsonresponse.com")

	assert.Equal(t, models.RoleAdmin, resolver.Resolve("admin@milsonresponse.com"))
	assert.Equal(t, models.RoleEmergency, resolver.Resolve("emergencyservices@milsonresponse.com"))
	assert.Equal(t, models.RoleUser, resolver.Resolve("someone@example.com"))
}

func TestResolveIsCaseInsensitive(t *testing.T) {
	resolver := NewRoleResolver("Admin@MilsonResponse.com", "emergencyservices@milsonresponse.com")

	assert.Equal(t, models.RoleAdmin, resolver.Resolve("ADMIN@milsonresponse.COM"))
	assert.Equal(t, models.RoleEmergency, resolver.Resolve("EmergencyServices@MilsonResponse.com"))
}

func TestResolveRejectsNearMatches(t *testing.T) {
	resolver := NewRoleResolver("admin@milsonresponse.com", "emergencyservices@milsonresponse.com")

	// Prefixes, suffixes and lookalike domains never escalate.
	assert.Equal(t, models.RoleUser, resolver.Resolve("admin@milsonresponse.com.evil.com"))
	assert.Equal(t, models.RoleUser, resolver.Resolve("xadmin@milsonresponse.com"))
	assert.Equal(t, models.RoleUser, resolver.Resolve("admin@milsonresponse.co"))
	assert.Equal(t, models.RoleUser, resolver.Resolve(""))
}
