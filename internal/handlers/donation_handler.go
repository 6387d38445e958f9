package handlers

import (
	"milsonresponse/internal/middleware"
	"milsonresponse/internal/services"
	"milsonresponse/internal/utils"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type DonationHandler struct {
	donationService services.DonationService
}

func NewDonationHandler(donationService services.DonationService) *DonationHandler {
	return &DonationHandler{
		donationService: donationService,
	}
}

// RecordDonation appends a ledger entry after the payment widget reports
// success. The charge reference, when present, is verified server side.
func (h *DonationHandler) RecordDonation(c *gin.Context) {
	incidentID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		utils.BadRequestResponse(c, "Invalid incident ID")
		return
	}

	var body struct {
		Amount    int64  `json:"amount" binding:"required"`
		Reference string `json:"reference"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		utils.BadRequestResponse(c, "Invalid request: "+err.Error())
		return
	}

	donation, err := h.donationService.Record(c.Request.Context(), &services.RecordDonationRequest{
		IncidentID: incidentID,
		DonorEmail: c.GetString(middleware.ContextUserEmail),
		Amount:     body.Amount,
		Reference:  body.Reference,
	})
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.CreatedResponse(c, "Donation recorded successfully", donation)
}

// ListIncidentDonations returns the donations for one incident.
func (h *DonationHandler) ListIncidentDonations(c *gin.Context) {
	incidentID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		utils.BadRequestResponse(c, "Invalid incident ID")
		return
	}

	donations, err := h.donationService.ListByIncident(c.Request.Context(), incidentID)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.SuccessResponseWithMeta(c, "Donations retrieved successfully", donations, &utils.Meta{
		Count: len(donations),
	})
}

// ListAllDonations is the moderator ledger view; with_incidents=true joins
// each row against its incident.
func (h *DonationHandler) ListAllDonations(c *gin.Context) {
	params := utils.GetPaginationParams(c)
	withIncidents := c.Query("with_incidents") == "true"

	donations, meta, err := h.donationService.ListAll(c.Request.Context(), params, withIncidents)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.SuccessResponseWithMeta(c, "Donations retrieved successfully", donations, &utils.Meta{
		Pagination: meta,
		Count:      len(donations),
	})
}
