package server

import (
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/pylearnhq/pylearn-backend/internal/handlers"
	"github.com/pylearnhq/pylearn-backend/internal/middleware"
)

type RouterConfig struct {
	AuthHandler        *handlers.AuthHandler
	AuthMiddleware     *middleware.AuthMiddleware
	UserHandler        *handlers.UserHandler
	AttemptHandler     *handlers.AttemptHandler
	PerformanceHandler *handlers.PerformanceHandler
	AchievementHandler *handlers.AchievementHandler
	QuestionHandler    *handlers.QuestionHandler
	SessionHandler     *handlers.SessionHandler
	TutorHandler       *handlers.TutorHandler
	AllowOrigins       []string
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	router := gin.Default()

	allowOrigins := cfg.AllowOrigins
	if len(allowOrigins) == 0 {
		allowOrigins = []string{"http://localhost:3000", "http://localhost:5173"}
	}
	router.Use(cors.New(cors.Config{
		AllowOrigins:     allowOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "PATCH", "OPTIONS"},
		AllowHeaders:     []string{"Authorization", "Content-Type", "X-Requested-With"},
		AllowCredentials: true,
	}))

	// ===============
	// || Public    ||
	// ===============
	router.GET("/healthcheck", handlers.HealthCheck)
	router.POST("/register", cfg.AuthHandler.Register)
	router.POST("/login", cfg.AuthHandler.Login)
	router.POST("/refresh", cfg.AuthHandler.Refresh)

	// ===============
	// || Protected ||
	// ===============
	api := router.Group("/api")
	api.Use(cfg.AuthMiddleware.RequireAuth())
	// Auth
	api.POST("/logout", cfg.AuthHandler.Logout)
	// User
	api.GET("/me", cfg.UserHandler.Me)
	api.GET("/me/profile", cfg.UserHandler.Profile)
	// Attempts + progress
	api.POST("/attempts", cfg.AttemptHandler.Submit)
	api.GET("/attempts", cfg.AttemptHandler.List)
	api.GET("/performance", cfg.PerformanceHandler.Get)
	// Achievements
	api.GET("/achievements", cfg.AchievementHandler.List)
	api.POST("/achievements/evaluate", cfg.AchievementHandler.Evaluate)
	// Question bank
	api.GET("/topics", cfg.QuestionHandler.Topics)
	api.GET("/topics/:topic/questions", cfg.QuestionHandler.ListByTopic)
	api.POST("/topics/:topic/questions/:index/check", cfg.QuestionHandler.CheckAnswer)
	// Quiz session
	api.GET("/session", cfg.SessionHandler.Get)
	api.PUT("/session", cfg.SessionHandler.Save)
	api.DELETE("/session", cfg.SessionHandler.Reset)
	// Tutor
	api.POST("/tutor/ask", cfg.TutorHandler.Ask)
	api.POST("/tutor/explain-topic", cfg.TutorHandler.ExplainTopic)
	api.POST("/tutor/explain-answer", cfg.TutorHandler.ExplainAnswer)
	api.POST("/tutor/encourage", cfg.TutorHandler.Encourage)

	// ===============
	// || Admin     ||
	// ===============
	admin := api.Group("/admin")
	admin.Use(cfg.AuthMiddleware.RequireAdmin())
	admin.POST("/achievements", cfg.AchievementHandler.Create)
	admin.PUT("/achievements/:id", cfg.AchievementHandler.Update)
	admin.DELETE("/achievements/:id", cfg.AchievementHandler.Delete)

	return router
}
