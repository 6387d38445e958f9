package handlers

import (
	"fmt"
	"mime/multipart"
	"strconv"
	"strings"
	"time"

	"milsonresponse/internal/middleware"
	"milsonresponse/internal/models"
	"milsonresponse/internal/services"
	"milsonresponse/internal/utils"
	"milsonresponse/pkg/storage"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type IncidentHandler struct {
	incidentService services.IncidentService
	blobStore       storage.BlobStore
}

func NewIncidentHandler(incidentService services.IncidentService, blobStore storage.BlobStore) *IncidentHandler {
	return &IncidentHandler{
		incidentService: incidentService,
		blobStore:       blobStore,
	}
}

// CreateIncident reports a new incident. Multipart requests may attach up
// to three photos which are uploaded before the document is written; JSON
// requests carry already-uploaded photo URLs.
func (h *IncidentHandler) CreateIncident(c *gin.Context) {
	reporterUID := c.GetString(middleware.ContextUserUID)
	if reporterUID == "" {
		utils.UnauthorizedResponse(c)
		return
	}

	request := &services.CreateIncidentRequest{ReporterID: reporterUID}

	if strings.HasPrefix(c.ContentType(), "multipart/") {
		if err := h.bindMultipart(c, reporterUID, request); err != nil {
			utils.BadRequestResponse(c, err.Error())
			return
		}
	} else {
		var body struct {
			Description string          `json:"description"`
			PhotoURLs   []string        `json:"photo_urls"`
			Location    models.Location `json:"location"`
		}
		if err := c.ShouldBindJSON(&body); err != nil {
			utils.BadRequestResponse(c, "Invalid request: "+err.Error())
			return
		}
		request.Description = body.Description
		request.PhotoURLs = body.PhotoURLs
		request.Location = body.Location
	}

	incident, err := h.incidentService.Create(c.Request.Context(), request)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.CreatedResponse(c, "Incident reported successfully", incident)
}

func (h *IncidentHandler) bindMultipart(c *gin.Context, reporterUID string, request *services.CreateIncidentRequest) error {
	request.Description = c.PostForm("description")

	lat, err := strconv.ParseFloat(c.PostForm("latitude"), 64)
	if err != nil {
		return err
	}
	lng, err := strconv.ParseFloat(c.PostForm("longitude"), 64)
	if err != nil {
		return err
	}
	request.Location = models.Location{Latitude: lat, Longitude: lng}

	form, err := c.MultipartForm()
	if err != nil {
		return err
	}

	// Reject over-limit requests before touching blob storage so no
	// orphaned uploads are left behind.
	if len(form.File["photos"]) > utils.MaxIncidentPhotos {
		return fmt.Errorf("at most %d photos are allowed", utils.MaxIncidentPhotos)
	}

	for _, file := range form.File["photos"] {
		url, err := h.uploadPhoto(c, reporterUID, file)
		if err != nil {
			return err
		}
		request.PhotoURLs = append(request.PhotoURLs, url)
	}

	return nil
}

func (h *IncidentHandler) uploadPhoto(c *gin.Context, reporterUID string, file *multipart.FileHeader) (string, error) {
	reader, err := file.Open()
	if err != nil {
		return "", err
	}
	defer reader.Close()

	response, err := h.blobStore.Upload(c.Request.Context(), &storage.UploadRequest{
		Key:         storage.IncidentPhotoKey(reporterUID, file.Filename, time.Now()),
		Reader:      reader,
		ContentType: file.Header.Get("Content-Type"),
		Size:        file.Size,
	})
	if err != nil {
		return "", err
	}

	return response.URL, nil
}

// ListIncidents returns the viewer-appropriate listing with the optional
// text, date, category and radius filters applied.
func (h *IncidentHandler) ListIncidents(c *gin.Context) {
	request := &services.ListIncidentsRequest{
		ViewerRole: middleware.RoleFromContext(c),
		Pagination: utils.GetPaginationParams(c),
	}

	if origin, ok := parseLocationQuery(c); ok {
		request.ViewerLocation = origin
		request.NearestFirst = c.Query("nearest") == "true"
	}

	filterParams, err := parseFilterQuery(c, request.ViewerLocation)
	if err != nil {
		utils.BadRequestResponse(c, err.Error())
		return
	}
	request.Filter = filterParams

	views, meta, err := h.incidentService.List(c.Request.Context(), request)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.SuccessResponseWithMeta(c, "Incidents retrieved successfully", views, &utils.Meta{
		Pagination: meta,
		Count:      len(views),
	})
}

// GetIncident retrieves one incident by id.
func (h *IncidentHandler) GetIncident(c *gin.Context) {
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		utils.BadRequestResponse(c, "Invalid incident ID")
		return
	}

	incident, err := h.incidentService.Get(c.Request.Context(), id)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.SuccessResponse(c, "Incident retrieved successfully", incident)
}

// UpdateModerationStatus approves or revokes an incident.
func (h *IncidentHandler) UpdateModerationStatus(c *gin.Context) {
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		utils.BadRequestResponse(c, "Invalid incident ID")
		return
	}

	var body struct {
		Status models.ModerationStatus `json:"status" binding:"required"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		utils.BadRequestResponse(c, "Invalid request: "+err.Error())
		return
	}

	err = h.incidentService.UpdateModerationStatus(c.Request.Context(), id, middleware.RoleFromContext(c), body.Status)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.SuccessResponse(c, "Moderation status updated successfully", nil)
}

// UpdateResponseStatus advances the response stage of an incident.
func (h *IncidentHandler) UpdateResponseStatus(c *gin.Context) {
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		utils.BadRequestResponse(c, "Invalid incident ID")
		return
	}

	var body struct {
		Status models.ResponseStatus `json:"status" binding:"required"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		utils.BadRequestResponse(c, "Invalid request: "+err.Error())
		return
	}

	err = h.incidentService.UpdateResponseStatus(c.Request.Context(), id, middleware.RoleFromContext(c), body.Status)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.SuccessResponse(c, "Response status updated successfully", nil)
}

func parseLocationQuery(c *gin.Context) (*models.Location, bool) {
	latStr, lngStr := c.Query("lat"), c.Query("lng")
	if latStr == "" || lngStr == "" {
		return nil, false
	}

	lat, err := strconv.ParseFloat(latStr, 64)
	if err != nil {
		return nil, false
	}
	lng, err := strconv.ParseFloat(lngStr, 64)
	if err != nil {
		return nil, false
	}

	location := &models.Location{Latitude: lat, Longitude: lng}
	if !location.Valid() {
		return nil, false
	}
	return location, true
}

func parseFilterQuery(c *gin.Context, origin *models.Location) (services.FilterParams, error) {
	params := services.FilterParams{
		Query:    c.Query("q"),
		Category: c.Query("category"),
	}

	if value := c.Query("date_start"); value != "" {
		start, err := time.Parse(time.RFC3339, value)
		if err != nil {
			return params, err
		}
		params.DateStart = &start
	}
	if value := c.Query("date_end"); value != "" {
		end, err := time.Parse(time.RFC3339, value)
		if err != nil {
			return params, err
		}
		params.DateEnd = &end
	}

	if radiusStr := c.Query("radius_km"); radiusStr != "" && origin != nil {
		radius, err := strconv.ParseFloat(radiusStr, 64)
		if err != nil {
			return params, err
		}
		if radius > utils.MaxRadiusKM {
			radius = utils.MaxRadiusKM
		}
		params.Origin = origin
		params.RadiusKM = radius
	}

	return params, nil
}
