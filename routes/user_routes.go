package routes

import (
	"milsonresponse/internal/handlers"
	"milsonresponse/internal/middleware"

	"github.com/gin-gonic/gin"
)

// SetupUserRoutes sets up the user directory routes.
func SetupUserRoutes(r *gin.RouterGroup, auth *middleware.Authenticator, userHandler *handlers.UserHandler) {
	users := r.Group("/users")
	users.Use(auth.AuthRequired())
	{
		users.GET("/me", userHandler.Me)
	}

	admin := r.Group("/admin/users")
	admin.Use(auth.AuthRequired(), middleware.AdminRequired())
	{
		admin.GET("", userHandler.ListUsers)
	}
}
