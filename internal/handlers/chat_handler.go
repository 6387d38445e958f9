package handlers

import (
	"context"
	"errors"
	"strings"
	"time"

	"milsonresponse/internal/middleware"
	"milsonresponse/internal/models"
	"milsonresponse/internal/services"
	"milsonresponse/internal/utils"
	"milsonresponse/pkg/storage"
	"milsonresponse/pkg/websocket"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type ChatHandler struct {
	chatService services.ChatService
	blobStore   storage.BlobStore
	ws          *websocket.Handler
}

func NewChatHandler(chatService services.ChatService, blobStore storage.BlobStore, ws *websocket.Handler) *ChatHandler {
	return &ChatHandler{
		chatService: chatService,
		blobStore:   blobStore,
		ws:          ws,
	}
}

// ListMessages returns the incident's full thread, oldest first.
func (h *ChatHandler) ListMessages(c *gin.Context) {
	incidentID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		utils.BadRequestResponse(c, "Invalid incident ID")
		return
	}

	messages, err := h.chatService.History(c.Request.Context(), incidentID)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.SuccessResponseWithMeta(c, "Messages retrieved successfully", messages, &utils.Meta{
		Count: len(messages),
	})
}

// PostMessage appends a text message to the incident's thread.
func (h *ChatHandler) PostMessage(c *gin.Context) {
	incidentID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		utils.BadRequestResponse(c, "Invalid incident ID")
		return
	}

	var body struct {
		Text string `json:"text"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		utils.BadRequestResponse(c, "Invalid request: "+err.Error())
		return
	}

	message, err := h.chatService.Post(c.Request.Context(), &services.PostMessageRequest{
		IncidentID:  incidentID,
		SenderEmail: c.GetString(middleware.ContextUserEmail),
		SenderName:  c.GetString(middleware.ContextUserName),
		Text:        body.Text,
	})
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.CreatedResponse(c, "Message sent successfully", message)
}

// PostMediaMessage uploads a photo or video attachment and appends a
// message carrying its URL, with optional caption text.
func (h *ChatHandler) PostMediaMessage(c *gin.Context) {
	incidentID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		utils.BadRequestResponse(c, "Invalid incident ID")
		return
	}

	file, err := c.FormFile("media")
	if err != nil {
		utils.BadRequestResponse(c, "media file is required")
		return
	}

	contentType := file.Header.Get("Content-Type")
	kind, err := mediaKindForContentType(contentType)
	if err != nil {
		utils.BadRequestResponse(c, err.Error())
		return
	}
	if kind == models.MediaKindPhoto && file.Size > utils.MaxPhotoSize {
		utils.BadRequestResponse(c, "photo exceeds the size limit")
		return
	}
	if kind == models.MediaKindVideo && file.Size > utils.MaxVideoSize {
		utils.BadRequestResponse(c, "video exceeds the size limit")
		return
	}

	reader, err := file.Open()
	if err != nil {
		utils.BadRequestResponse(c, "failed to read media file")
		return
	}
	defer reader.Close()

	uploaded, err := h.blobStore.Upload(c.Request.Context(), &storage.UploadRequest{
		Key:         storage.ChatMediaKey(incidentID.Hex(), file.Filename, time.Now()),
		Reader:      reader,
		ContentType: contentType,
		Size:        file.Size,
	})
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	message, err := h.chatService.Post(c.Request.Context(), &services.PostMessageRequest{
		IncidentID:  incidentID,
		SenderEmail: c.GetString(middleware.ContextUserEmail),
		SenderName:  c.GetString(middleware.ContextUserName),
		Text:        c.PostForm("text"),
		Media:       &models.ChatMedia{URL: uploaded.URL, Kind: kind},
	})
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.CreatedResponse(c, "Message sent successfully", message)
}

// StreamChat upgrades the connection and streams thread snapshots. The
// first frame replays the current history; every append pushes the whole
// updated thread. "message" frames from the peer are posted on their
// behalf.
func (h *ChatHandler) StreamChat(c *gin.Context) {
	incidentID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		utils.BadRequestResponse(c, "Invalid incident ID")
		return
	}

	subscription, err := h.chatService.Subscribe(c.Request.Context(), incidentID)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	senderEmail := c.GetString(middleware.ContextUserEmail)
	senderName := c.GetString(middleware.ContextUserName)

	h.ws.Serve(c, subscription, func(ctx context.Context, text string) error {
		_, err := h.chatService.Post(ctx, &services.PostMessageRequest{
			IncidentID:  incidentID,
			SenderEmail: senderEmail,
			SenderName:  senderName,
			Text:        text,
		})
		return err
	})
}

func mediaKindForContentType(contentType string) (models.MediaKind, error) {
	switch {
	case strings.HasPrefix(contentType, "image/"):
		return models.MediaKindPhoto, nil
	case strings.HasPrefix(contentType, "video/"):
		return models.MediaKindVideo, nil
	default:
		return "", errUnsupportedMedia
	}
}

var errUnsupportedMedia = errors.New("media must be an image or a video")
