package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/pylearnhq/pylearn-backend/internal/platform/logger"
	"github.com/pylearnhq/pylearn-backend/internal/requestdata"
	"github.com/pylearnhq/pylearn-backend/internal/services"
)

type AchievementHandler struct {
	log            *logger.Logger
	achievementSvc services.AchievementService
}

func NewAchievementHandler(baseLog *logger.Logger, achievementSvc services.AchievementService) *AchievementHandler {
	return &AchievementHandler{
		log:            baseLog.With("handler", "AchievementHandler"),
		achievementSvc: achievementSvc,
	}
}

// GET /api/achievements
func (h *AchievementHandler) List(c *gin.Context) {
	rd := requestdata.GetRequestData(c.Request.Context())

	statuses, err := h.achievementSvc.ListForUser(c.Request.Context(), rd.UserID)
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondOK(c, gin.H{"achievements": statuses})
}

// POST /api/achievements/evaluate
func (h *AchievementHandler) Evaluate(c *gin.Context) {
	rd := requestdata.GetRequestData(c.Request.Context())

	newlyAssigned, err := h.achievementSvc.Evaluate(c.Request.Context(), rd.UserID)
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondOK(c, gin.H{"newly_assigned": newlyAssigned})
}

type achievementRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Criteria    string `json:"criteria"`
}

// POST /api/admin/achievements
func (h *AchievementHandler) Create(c *gin.Context) {
	var req achievementRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	achievement, err := h.achievementSvc.CreateAchievement(c.Request.Context(), req.Name, req.Description, req.Criteria)
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondOK(c, gin.H{"achievement": achievement})
}

// PUT /api/admin/achievements/:id
func (h *AchievementHandler) Update(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid achievement id"})
		return
	}
	var req achievementRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	achievement, err := h.achievementSvc.UpdateAchievement(c.Request.Context(), id, req.Name, req.Description, req.Criteria)
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondOK(c, gin.H{"achievement": achievement})
}

// DELETE /api/admin/achievements/:id
func (h *AchievementHandler) Delete(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid achievement id"})
		return
	}
	if err := h.achievementSvc.DeleteAchievement(c.Request.Context(), id); err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondOK(c, gin.H{"deleted": true})
}
