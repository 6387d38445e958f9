package routes

import (
	"milsonresponse/internal/handlers"
	"milsonresponse/internal/middleware"

	"github.com/gin-gonic/gin"
)

// SetupChatRoutes sets up the per-incident chat thread routes.
func SetupChatRoutes(r *gin.RouterGroup, auth *middleware.Authenticator, chatHandler *handlers.ChatHandler) {
	chat := r.Group("/incidents/:id/chat")
	chat.Use(auth.AuthRequired())
	{
		chat.GET("", chatHandler.ListMessages)
		chat.POST("", chatHandler.PostMessage)
		chat.POST("/media", chatHandler.PostMediaMessage)
		chat.GET("/ws", chatHandler.StreamChat)
	}
}
