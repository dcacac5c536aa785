package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/pylearnhq/pylearn-backend/internal/platform/logger"
	"github.com/pylearnhq/pylearn-backend/internal/requestdata"
	"github.com/pylearnhq/pylearn-backend/internal/services"
)

type UserHandler struct {
	log     *logger.Logger
	userSvc services.UserService
}

func NewUserHandler(baseLog *logger.Logger, userSvc services.UserService) *UserHandler {
	return &UserHandler{
		log:     baseLog.With("handler", "UserHandler"),
		userSvc: userSvc,
	}
}

// GET /api/me
func (h *UserHandler) Me(c *gin.Context) {
	rd := requestdata.GetRequestData(c.Request.Context())

	user, err := h.userSvc.GetUser(c.Request.Context(), rd.UserID)
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondOK(c, gin.H{"user": user})
}

// GET /api/me/profile
func (h *UserHandler) Profile(c *gin.Context) {
	rd := requestdata.GetRequestData(c.Request.Context())

	profile, err := h.userSvc.GetProfile(c.Request.Context(), rd.UserID)
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondOK(c, profile)
}
