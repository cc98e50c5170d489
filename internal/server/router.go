package server

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/uniquiz/uniquiz-backend/internal/handlers"
	"github.com/uniquiz/uniquiz-backend/internal/middleware"
)

type RouterConfig struct {
	AuthHandler     *handlers.AuthHandler
	AuthMiddleware  *middleware.AuthMiddleware
	UserHandler     *handlers.UserHandler
	CategoryHandler *handlers.CategoryHandler
	QuizHandler     *handlers.QuizHandler
	TestHandler     *handlers.TestHandler
	UploadHandler   *handlers.UploadHandler
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	router := gin.Default()

	// Cors
	router.Use(cors.New(cors.Config{
		AllowOrigins: []string{
			"http://localhost:80",
			"http://localhost:3000",
			"http://localhost:5174",
		},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "PATCH", "OPTIONS"},
		AllowHeaders:     []string{"Authorization", "Content-Type", "X-Requested-With"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	// ===============
	// || Public    ||
	// ===============
	router.GET("/healthcheck", handlers.HealthCheck)
	router.POST("/register", cfg.AuthHandler.Register)
	router.POST("/login", cfg.AuthHandler.Login)
	// Catalog
	router.GET("/categories/degrees", cfg.CategoryHandler.ListDegrees)
	router.GET("/categories/degrees/:degree_id/fields", cfg.CategoryHandler.ListFields)
	router.GET("/quizzes", cfg.QuizHandler.List)
	router.GET("/quiz-choices", cfg.QuizHandler.Choices)
	router.GET("/quiz/:quiz_id/random", cfg.QuizHandler.Preview)

	// ===============
	// || Protected ||
	// ===============
	protected := router.Group("/")
	protected.Use(cfg.AuthMiddleware.RequireAuth())
	// Auth
	protected.POST("/refresh", cfg.AuthHandler.Refresh)
	protected.POST("/logout", cfg.AuthHandler.Logout)
	// User
	protected.GET("/user", cfg.UserHandler.GetMe)
	// Orders
	protected.POST("/quiz/:quiz_id/order", cfg.QuizHandler.PlaceOrder)
	// Test sessions
	protected.GET("/quiz/:quiz_id/start", cfg.TestHandler.Step)
	protected.GET("/check-quiz/:option_id", cfg.TestHandler.Check)
	protected.GET("/finish-quiz", cfg.TestHandler.Finish)
	// Imports
	protected.POST("/upload-tests", cfg.UploadHandler.UploadTests)

	return router
}
