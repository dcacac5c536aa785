package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/pylearnhq/pylearn-backend/internal/platform/logger"
	"github.com/pylearnhq/pylearn-backend/internal/requestdata"
	"github.com/pylearnhq/pylearn-backend/internal/services"
)

type TutorHandler struct {
	log            *logger.Logger
	tutorSvc       services.TutorService
	performanceSvc services.PerformanceService
}

func NewTutorHandler(baseLog *logger.Logger, tutorSvc services.TutorService, performanceSvc services.PerformanceService) *TutorHandler {
	return &TutorHandler{
		log:            baseLog.With("handler", "TutorHandler"),
		tutorSvc:       tutorSvc,
		performanceSvc: performanceSvc,
	}
}

// POST /api/tutor/ask
func (h *TutorHandler) Ask(c *gin.Context) {
	var req struct {
		Question string `json:"question"`
	}
	if err := c.ShouldBindJSON(&req); err != nil || req.Question == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "question is required"})
		return
	}
	answer, err := h.tutorSvc.AskQuestion(c.Request.Context(), req.Question)
	if err != nil {
		RespondError(c, http.StatusBadGateway, "tutor_unavailable", err)
		return
	}
	RespondOK(c, gin.H{"answer": answer})
}

// POST /api/tutor/explain-topic
func (h *TutorHandler) ExplainTopic(c *gin.Context) {
	var req struct {
		Topic string `json:"topic"`
	}
	if err := c.ShouldBindJSON(&req); err != nil || req.Topic == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "topic is required"})
		return
	}
	explanation, err := h.tutorSvc.ExplainTopic(c.Request.Context(), req.Topic)
	if err != nil {
		RespondError(c, http.StatusBadGateway, "tutor_unavailable", err)
		return
	}
	RespondOK(c, gin.H{"explanation": explanation})
}

// POST /api/tutor/explain-answer
func (h *TutorHandler) ExplainAnswer(c *gin.Context) {
	var req struct {
		Question string `json:"question"`
		Answer   string `json:"answer"`
	}
	if err := c.ShouldBindJSON(&req); err != nil || req.Question == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "question is required"})
		return
	}
	explanation, err := h.tutorSvc.ExplainAnswer(c.Request.Context(), req.Question, req.Answer)
	if err != nil {
		RespondError(c, http.StatusBadGateway, "tutor_unavailable", err)
		return
	}
	RespondOK(c, gin.H{"explanation": explanation})
}

// POST /api/tutor/encourage
func (h *TutorHandler) Encourage(c *gin.Context) {
	rd := requestdata.GetRequestData(c.Request.Context())

	summary, err := h.performanceSvc.GetPerformance(c.Request.Context(), rd.UserID)
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	message, err := h.tutorSvc.Encourage(c.Request.Context(), summary)
	if err != nil {
		RespondError(c, http.StatusBadGateway, "tutor_unavailable", err)
		return
	}
	RespondOK(c, gin.H{"message": message})
}
