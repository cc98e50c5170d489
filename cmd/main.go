package main

import (
	"fmt"
	"os"
	"time"

	"github.com/uniquiz/uniquiz-backend/internal/db"
	"github.com/uniquiz/uniquiz-backend/internal/handlers"
	"github.com/uniquiz/uniquiz-backend/internal/logger"
	"github.com/uniquiz/uniquiz-backend/internal/middleware"
	"github.com/uniquiz/uniquiz-backend/internal/repos"
	"github.com/uniquiz/uniquiz-backend/internal/server"
	"github.com/uniquiz/uniquiz-backend/internal/services"
	"github.com/uniquiz/uniquiz-backend/internal/utils"
)

func main() {
	// Logger
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

	// Postgres
	postgresService, err := db.NewPostgresService(log)
	if err != nil {
		log.Error("Postgres init failed", "error", err)
		os.Exit(1)
	}
	if err = postgresService.AutoMigrateAll(); err != nil {
		log.Error("Postgres auto migration failed", "error", err)
		os.Exit(1)
	}
	thePG := postgresService.DB()

	// Repos
	log.Info("Setting up Repos from main...")
	userRepo := repos.NewUserRepo(thePG, log)
	userTokenRepo := repos.NewUserTokenRepo(thePG, log)
	categoryRepo := repos.NewCategoryRepo(thePG, log)
	quizRepo := repos.NewQuizRepo(thePG, log)
	quizQuestionRepo := repos.NewQuizQuestionRepo(thePG, log)
	questionOptionRepo := repos.NewQuestionOptionRepo(thePG, log)
	quizOrderRepo := repos.NewQuizOrderRepo(thePG, log)
	testSessionRepo := repos.NewTestSessionRepo(thePG, log)
	testAnswerRepo := repos.NewTestAnswerRepo(thePG, log)
	testUploadRepo := repos.NewTestUploadRepo(thePG, log)

	// Token blacklist
	blacklist, err := services.NewRedisTokenBlacklist(log)
	if err != nil {
		log.Warn("Could not init token blacklist, revocation checks disabled", "error", err)
		blacklist = nil
	}

	// Services
	log.Info("Setting up Services from main...")
	authService := services.NewAuthService(
		thePG,
		log,
		userRepo,
		userTokenRepo,
		blacklist,
		jwtSecretKey,
		time.Duration(accessTokenTTL)*time.Second,
		time.Duration(refreshTokenTTL)*time.Second,
	)
	userService := services.NewUserService(thePG, log, userRepo)
	categoryService := services.NewCategoryService(thePG, log, categoryRepo)
	orderService := services.NewOrderService(thePG, log, quizRepo, quizOrderRepo)
	quizService := services.NewQuizService(thePG, log, quizRepo, quizQuestionRepo, questionOptionRepo, orderService)
	testService := services.NewTestService(thePG, log, quizRepo, quizQuestionRepo, questionOptionRepo, testSessionRepo, testAnswerRepo, orderService)
	importerService := services.NewImporterService(thePG, log, categoryRepo, quizRepo, quizQuestionRepo, questionOptionRepo, testUploadRepo)

	// Handlers
	log.Info("Setting up handlers from main...")
	authHandler := handlers.NewAuthHandler(authService)
	userHandler := handlers.NewUserHandler(userService)
	categoryHandler := handlers.NewCategoryHandler(categoryService)
	quizHandler := handlers.NewQuizHandler(quizService, orderService)
	testHandler := handlers.NewTestHandler(testService)
	uploadHandler := handlers.NewUploadHandler(importerService)

	// Middleware
	log.Info("Setting up middleware from main...")
	authMiddleware := middleware.NewAuthMiddleware(log, authService)

	// Router
	log.Info("Setting up router from main...")
	router := server.NewRouter(server.RouterConfig{
		AuthHandler:     authHandler,
		AuthMiddleware:  authMiddleware,
		UserHandler:     userHandler,
		CategoryHandler: categoryHandler,
		QuizHandler:     quizHandler,
		TestHandler:     testHandler,
		UploadHandler:   uploadHandler,
	})

	port := utils.GetEnv("PORT", "8080", log)
	fmt.Printf("Server listening on :%s\n", port)
	if err := router.Run(":" + port); err != nil {
		log.Fatal("Server failed to start", "error", err)
	}
}
