package routes

import (
	"milsonresponse/internal/handlers"
	"milsonresponse/internal/middleware"

	"github.com/gin-gonic/gin"
)

// SetupIncidentRoutes sets up routes for incident reporting, listing and
// the two moderation and response state machines.
func SetupIncidentRoutes(r *gin.RouterGroup, auth *middleware.Authenticator, incidentHandler *handlers.IncidentHandler) {
	incidents := r.Group("/incidents")
	incidents.Use(auth.AuthRequired())
	{
		incidents.POST("", incidentHandler.CreateIncident)
		incidents.GET("", incidentHandler.ListIncidents)
		incidents.GET("/:id", incidentHandler.GetIncident)
	}

	// Moderation is admin only
	admin := r.Group("/admin/incidents")
	admin.Use(auth.AuthRequired(), middleware.AdminRequired())
	{
		admin.PATCH("/:id/moderation", incidentHandler.UpdateModerationStatus)
	}

	// Response stages are emergency-services only
	emergency := r.Group("/emergency/incidents")
	emergency.Use(auth.AuthRequired(), middleware.EmergencyRequired())
	{
		emergency.PATCH("/:id/response", incidentHandler.UpdateResponseStatus)
	}
}
