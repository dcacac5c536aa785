package main

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/pylearnhq/pylearn-backend/internal/clients/ollama"
	"github.com/pylearnhq/pylearn-backend/internal/data/db"
	"github.com/pylearnhq/pylearn-backend/internal/data/repos"
	"github.com/pylearnhq/pylearn-backend/internal/handlers"
	"github.com/pylearnhq/pylearn-backend/internal/middleware"
	"github.com/pylearnhq/pylearn-backend/internal/platform/logger"
	"github.com/pylearnhq/pylearn-backend/internal/server"
	"github.com/pylearnhq/pylearn-backend/internal/services"
	"github.com/pylearnhq/pylearn-backend/internal/utils"
)

func main() {
	// .env is optional; real deployments set the environment directly.
	_ = godotenv.Load()

	logMode := os.Getenv("LOG_MODE")
	if logMode == "" {
		logMode = "development"
	}
	log, err := logger.New(logMode)
	if err != nil {
		fmt.Printf("Failed to init logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	// Env
	log.Info("Loading environment variables from main...")
	jwtSecretKey := utils.GetEnv("JWT_SECRET_KEY", "defaultsecret", log)
	accessTokenTTL := utils.GetEnvAsInt("ACCESS_TOKEN_TTL", 3600, log)
	refreshTokenTTL := utils.GetEnvAsInt("REFRESH_TOKEN_TTL", 86400, log)
	port := utils.GetEnv("PORT", "8080", log)
	questionsPath := utils.GetEnv("QUESTIONS_FILEPATH", "data/questions.json", log)
	adminEmails := strings.Split(utils.GetEnv("ADMIN_EMAILS", "", log), ",")
	allowOrigins := strings.Split(utils.GetEnv("CORS_ALLOW_ORIGINS", "", log), ",")
	if len(allowOrigins) == 1 && allowOrigins[0] == "" {
		allowOrigins = nil
	}

	// Database
	databaseService, err := db.NewDatabaseService(log)
	if err != nil {
		log.Fatal("Database init failed", "error", err)
	}
	if err = databaseService.AutoMigrateAll(); err != nil {
		log.Fatal("Auto migration failed", "error", err)
	}
	theDB := databaseService.DB()

	// Repos
	log.Info("Setting up Repos from main...")
	userRepo := repos.NewUserRepo(theDB, log)
	userTokenRepo := repos.NewUserTokenRepo(theDB, log)
	loginEventRepo := repos.NewLoginEventRepo(theDB, log)
	attemptRepo := repos.NewAttemptRepo(theDB, log)
	achievementRepo := repos.NewAchievementRepo(theDB, log)
	userAchievementRepo := repos.NewUserAchievementRepo(theDB, log)
	quizQuestionRepo := repos.NewQuizQuestionRepo(theDB, log)
	quizSessionRepo := repos.NewQuizSessionRepo(theDB, log)

	// Services
	log.Info("Setting up Services from main...")
	loginLimiter := services.NewLoginLimiter(log)
	authService := services.NewAuthService(
		theDB, log,
		userRepo, userTokenRepo, loginEventRepo, loginLimiter,
		jwtSecretKey,
		time.Duration(accessTokenTTL)*time.Second,
		time.Duration(refreshTokenTTL)*time.Second,
		adminEmails,
	)
	performanceService := services.NewPerformanceService(theDB, log, attemptRepo)
	achievementService := services.NewAchievementService(
		theDB, log,
		performanceService, userRepo, achievementRepo, userAchievementRepo,
	)
	llmClient := ollama.NewClient(log)
	tutorService := services.NewTutorService(log, llmClient)
	assessmentService := services.NewAssessmentService(
		theDB, log,
		attemptRepo, achievementService, tutorService,
	)
	questionService := services.NewQuestionService(theDB, log, quizQuestionRepo)
	sessionService := services.NewQuizSessionService(theDB, log, quizSessionRepo)
	userService := services.NewUserService(theDB, log, userRepo, loginEventRepo, performanceService)

	// Startup seeding
	seedCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := achievementService.SeedCatalog(seedCtx); err != nil {
		log.Warn("Achievement catalog seed failed", "error", err)
	}
	if err := questionService.SeedFromFile(seedCtx, questionsPath); err != nil {
		log.Warn("Question bank seed failed", "path", questionsPath, "error", err)
	}

	// Handlers
	log.Info("Setting up Handlers from main...")
	authHandler := handlers.NewAuthHandler(authService)
	userHandler := handlers.NewUserHandler(log, userService)
	attemptHandler := handlers.NewAttemptHandler(log, assessmentService)
	performanceHandler := handlers.NewPerformanceHandler(log, performanceService)
	achievementHandler := handlers.NewAchievementHandler(log, achievementService)
	questionHandler := handlers.NewQuestionHandler(log, questionService)
	sessionHandler := handlers.NewSessionHandler(log, sessionService)
	tutorHandler := handlers.NewTutorHandler(log, tutorService, performanceService)

	// Middleware + Router
	authMiddleware := middleware.NewAuthMiddleware(log, authService)
	router := server.NewRouter(server.RouterConfig{
		AuthHandler:        authHandler,
		AuthMiddleware:     authMiddleware,
		UserHandler:        userHandler,
		AttemptHandler:     attemptHandler,
		PerformanceHandler: performanceHandler,
		AchievementHandler: achievementHandler,
		QuestionHandler:    questionHandler,
		SessionHandler:     sessionHandler,
		TutorHandler:       tutorHandler,
		AllowOrigins:       allowOrigins,
	})

	log.Info("Starting server", "port", port)
	if err := router.Run(":" + port); err != nil {
		log.Fatal("Server stopped", "error", err)
	}
}
