package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/pylearnhq/pylearn-backend/internal/platform/logger"
	"github.com/pylearnhq/pylearn-backend/internal/requestdata"
	"github.com/pylearnhq/pylearn-backend/internal/services"
)

type PerformanceHandler struct {
	log            *logger.Logger
	performanceSvc services.PerformanceService
}

func NewPerformanceHandler(baseLog *logger.Logger, performanceSvc services.PerformanceService) *PerformanceHandler {
	return &PerformanceHandler{
		log:            baseLog.With("handler", "PerformanceHandler"),
		performanceSvc: performanceSvc,
	}
}

// GET /api/performance
func (h *PerformanceHandler) Get(c *gin.Context) {
	rd := requestdata.GetRequestData(c.Request.Context())

	summary, err := h.performanceSvc.GetPerformance(c.Request.Context(), rd.UserID)
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondOK(c, gin.H{"performance": summary})
}
