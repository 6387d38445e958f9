package routes

import (
	"milsonresponse/internal/handlers"
	"milsonresponse/internal/middleware"

	"github.com/gin-gonic/gin"
)

// SetupDonationRoutes sets up the donation ledger routes.
func SetupDonationRoutes(r *gin.RouterGroup, auth *middleware.Authenticator, donationHandler *handlers.DonationHandler) {
	donations := r.Group("/incidents/:id/donations")
	donations.Use(auth.AuthRequired())
	{
		donations.POST("", donationHandler.RecordDonation)
		donations.GET("", donationHandler.ListIncidentDonations)
	}

	// The cross-incident ledger view is admin only
	admin := r.Group("/admin/donations")
	admin.Use(auth.AuthRequired(), middleware.AdminRequired())
	{
		admin.GET("", donationHandler.ListAllDonations)
	}
}
