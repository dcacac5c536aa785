package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/pylearnhq/pylearn-backend/internal/platform/logger"
	"github.com/pylearnhq/pylearn-backend/internal/requestdata"
	"github.com/pylearnhq/pylearn-backend/internal/services"
)

type AttemptHandler struct {
	log           *logger.Logger
	assessmentSvc services.AssessmentService
}

func NewAttemptHandler(baseLog *logger.Logger, assessmentSvc services.AssessmentService) *AttemptHandler {
	return &AttemptHandler{
		log:           baseLog.With("handler", "AttemptHandler"),
		assessmentSvc: assessmentSvc,
	}
}

// POST /api/attempts
func (h *AttemptHandler) Submit(c *gin.Context) {
	rd := requestdata.GetRequestData(c.Request.Context())

	var input services.AttemptInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	attempt, newlyAssigned, err := h.assessmentSvc.SubmitAttempt(c.Request.Context(), rd.UserID, input)
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondOK(c, gin.H{"attempt": attempt, "newly_assigned": newlyAssigned})
}

// GET /api/attempts
func (h *AttemptHandler) List(c *gin.Context) {
	rd := requestdata.GetRequestData(c.Request.Context())

	attempts, err := h.assessmentSvc.GetAttempts(c.Request.Context(), rd.UserID)
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondOK(c, gin.H{"attempts": attempts})
}
