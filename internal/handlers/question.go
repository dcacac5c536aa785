package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/pylearnhq/pylearn-backend/internal/platform/logger"
	"github.com/pylearnhq/pylearn-backend/internal/services"
)

type QuestionHandler struct {
	log         *logger.Logger
	questionSvc services.QuestionService
}

func NewQuestionHandler(baseLog *logger.Logger, questionSvc services.QuestionService) *QuestionHandler {
	return &QuestionHandler{
		log:         baseLog.With("handler", "QuestionHandler"),
		questionSvc: questionSvc,
	}
}

// GET /api/topics
func (h *QuestionHandler) Topics(c *gin.Context) {
	topics, err := h.questionSvc.Topics(c.Request.Context())
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondOK(c, gin.H{"topics": topics})
}

// GET /api/topics/:topic/questions
func (h *QuestionHandler) ListByTopic(c *gin.Context) {
	topic := c.Param("topic")
	questions, err := h.questionSvc.GetByTopic(c.Request.Context(), topic)
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondOK(c, gin.H{"topic": topic, "questions": questions})
}

// POST /api/topics/:topic/questions/:index/check
func (h *QuestionHandler) CheckAnswer(c *gin.Context) {
	topic := c.Param("topic")
	index, err := strconv.Atoi(c.Param("index"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid question index"})
		return
	}
	var req struct {
		Answer string `json:"answer"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	check, err := h.questionSvc.CheckAnswer(c.Request.Context(), topic, index, req.Answer)
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondOK(c, check)
}
