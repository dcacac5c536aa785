package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/pylearnhq/pylearn-backend/internal/platform/logger"
	"github.com/pylearnhq/pylearn-backend/internal/requestdata"
	"github.com/pylearnhq/pylearn-backend/internal/services"
)

type SessionHandler struct {
	log        *logger.Logger
	sessionSvc services.QuizSessionService
}

func NewSessionHandler(baseLog *logger.Logger, sessionSvc services.QuizSessionService) *SessionHandler {
	return &SessionHandler{
		log:        baseLog.With("handler", "SessionHandler"),
		sessionSvc: sessionSvc,
	}
}

// GET /api/session
func (h *SessionHandler) Get(c *gin.Context) {
	rd := requestdata.GetRequestData(c.Request.Context())

	state, err := h.sessionSvc.Get(c.Request.Context(), rd.UserID)
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondOK(c, gin.H{"session": state})
}

// PUT /api/session
func (h *SessionHandler) Save(c *gin.Context) {
	rd := requestdata.GetRequestData(c.Request.Context())

	var state services.SessionState
	if err := c.ShouldBindJSON(&state); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	if err := h.sessionSvc.Save(c.Request.Context(), rd.UserID, &state); err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondOK(c, gin.H{"session": state})
}

// DELETE /api/session
func (h *SessionHandler) Reset(c *gin.Context) {
	rd := requestdata.GetRequestData(c.Request.Context())

	if err := h.sessionSvc.Reset(c.Request.Context(), rd.UserID); err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondOK(c, gin.H{"reset": true})
}
