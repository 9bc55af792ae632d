package main

import (
	"log"
	"time"

	"github.com/SVIGHNESH/MacQuiz/internal/config"
	"github.com/SVIGHNESH/MacQuiz/internal/database"
	"github.com/SVIGHNESH/MacQuiz/internal/handlers"
	"github.com/SVIGHNESH/MacQuiz/internal/middleware"
	"github.com/SVIGHNESH/MacQuiz/internal/ratelimit"
	"github.com/SVIGHNESH/MacQuiz/internal/services"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// @title           MacQuiz API
// @version         1.0
// @description     Quiz management backend with role-based access, timed and live-session attempts, and automatic grading
// @host            localhost:8080
// @BasePath        /

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Enter "Bearer {token}"

func main() {
	cfg := config.Load()

	db := database.Connect(cfg)
	database.AutoMigrate(db)

	limiter := ratelimit.NewSlidingWindow()

	authService := services.NewAuthService(db, cfg.JWTSecret)
	userService := services.NewUserService(db)
	subjectService := services.NewSubjectService(db)
	quizService := services.NewQuizService(db)
	bankService := services.NewQuestionBankService(db)
	catalogService := services.NewCatalogService(db)
	eligibilityService := services.NewEligibilityService(db)
	scoringService := services.NewScoringService()
	attemptService := services.NewAttemptService(db, catalogService, eligibilityService, scoringService)
	reportingService := services.NewReportingService(db)

	authHandler := handlers.NewAuthHandler(authService, userService)
	userHandler := handlers.NewUserHandler(userService)
	subjectHandler := handlers.NewSubjectHandler(subjectService)
	quizHandler := handlers.NewQuizHandler(quizService, catalogService, eligibilityService)
	bankHandler := handlers.NewQuestionBankHandler(bankService)
	attemptHandler := handlers.NewAttemptHandler(attemptService, reportingService)

	r := gin.Default()
	r.Use(middleware.RequestID())

	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{cfg.AllowedOrigins},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", "X-Request-ID"},
		AllowCredentials: true,
	}))

	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	window := time.Duration(cfg.RateLimitWindowSeconds) * time.Second
	throttle := middleware.RateLimit(limiter, cfg.RateLimitRequests, window)

	api := r.Group("/api/v1")
	{
		auth := api.Group("/auth")
		{
			auth.POST("/register", throttle, authHandler.Register)
			auth.POST("/login", throttle, authHandler.Login)
			auth.GET("/me", middleware.JWTAuth(authService), authHandler.Me)
		}

		users := api.Group("/users")
		users.Use(middleware.JWTAuth(authService), middleware.RequireStaff())
		{
			users.GET("/students", userHandler.ListStudents)
			users.GET("/:id", userHandler.GetUser)
		}

		subjects := api.Group("/subjects")
		subjects.Use(middleware.JWTAuth(authService))
		{
			subjects.GET("", subjectHandler.ListSubjects)
			subjects.POST("", middleware.RequireStaff(), subjectHandler.CreateSubject)
			subjects.PUT("/:id", middleware.RequireStaff(), subjectHandler.UpdateSubject)
			subjects.DELETE("/:id", middleware.RequireStaff(), subjectHandler.DeleteSubject)
		}

		quizzes := api.Group("/quizzes")
		quizzes.Use(middleware.JWTAuth(authService))
		{
			quizzes.GET("", quizHandler.ListQuizzes)
			quizzes.POST("", middleware.RequireStaff(), quizHandler.CreateQuiz)
			quizzes.GET("/:id", quizHandler.GetQuiz)
			quizzes.PUT("/:id", middleware.RequireStaff(), quizHandler.UpdateQuiz)
			quizzes.DELETE("/:id", middleware.RequireStaff(), quizHandler.DeleteQuiz)
			quizzes.PUT("/:id/assignments", middleware.RequireStaff(), quizHandler.ReplaceAssignments)
			quizzes.GET("/:id/eligibility", quizHandler.Eligibility)
		}

		bank := api.Group("/question-bank")
		bank.Use(middleware.JWTAuth(authService), middleware.RequireStaff())
		{
			bank.GET("", bankHandler.ListBankQuestions)
			bank.POST("", bankHandler.CreateBankQuestion)
			bank.DELETE("/:id", bankHandler.DeleteBankQuestion)
		}

		attempts := api.Group("/attempts")
		attempts.Use(middleware.JWTAuth(authService))
		{
			attempts.POST("/start", throttle, attemptHandler.Start)
			attempts.POST("/submit", throttle, attemptHandler.Submit)
			attempts.GET("/my-attempts", attemptHandler.MyAttempts)
			attempts.GET("/all-attempts", middleware.RequireStaff(), attemptHandler.AllAttempts)
			attempts.GET("/:id", attemptHandler.GetAttempt)
			attempts.POST("/:id/save-answer", attemptHandler.SaveAnswer)
			attempts.GET("/:id/answers", attemptHandler.GetAnswers)
			attempts.GET("/:id/remaining-time", attemptHandler.RemainingTime)
		}
	}

	log.Printf("server listening on :%s", cfg.ServerPort)
	if err := r.Run(":" + cfg.ServerPort); err != nil {
		log.Fatalf("server stopped: %v", err)
	}
}
