package handlers

import (

	"milsonresponse/internal/middleware"
	"milsonresponse/internal/services"
	"milsonresponse/internal/utils"
	"milsonresponse/pkg/identity"

	"github.com/gin-gonic/gin"
)

type UserHandler struct {
	userService services.UserService
}

func NewUserHandler(userService services.UserService) *UserHandler {
	return &UserHandler{
		userService: userService,
	}
}

// Me syncs the caller's verified account into the user directory and
// returns the stored record with its derived role.
func (h *UserHandler) Me(c *gin.Context) {
	uid := c.GetString(middleware.ContextUserUID)
	if uid == "" {
		utils.UnauthorizedResponse(c)
		return
	}

	user, err := h.userService.Sync(c.Request.Context(), &identity.Account{
		UID:         uid,
		Email:       c.GetString(middleware.ContextUserEmail),
		DisplayName: c.GetString(middleware.ContextUserName),
	})
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.SuccessResponse(c, "User retrieved successfully", user)
}

// ListUsers returns the user directory for moderators, optionally
// narrowed by a case-insensitive name or email search.
func (h *UserHandler) ListUsers(c *gin.Context) {
	params := utils.GetPaginationParams(c)

	users, meta, err := h.userService.List(c.Request.Context(), c.Query("q"), params)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.SuccessResponseWithMeta(c, "Users retrieved successfully", users, &utils.Meta{
		Pagination: meta,
		Count:      len(users),
	})
}
