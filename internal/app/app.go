package app

import (
	"database/sql"
	"fmt"
	"log"

	"etugal/internal/config"
	"etugal/internal/handlers"
	"etugal/internal/realtime"
	"etugal/internal/repositories"
	"etugal/internal/routes"
	"etugal/internal/services"

	"github.com/gin-gonic/gin"
	_ "github.com/lib/pq"

	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

func Run() {
	cfg := config.LoadConfig()

	// === DB ===
	db, err := sql.Open("postgres", cfg.Database.DSN)
	if err != nil {
		log.Fatal("failed to open database: ", err)
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Printf("failed to close database: %v", err)
		}
	}()

	// === Repos ===
	userRepo := repositories.NewUserRepository(db)
	categoryRepo := repositories.NewCategoryRepository(db)
	taskRepo := repositories.NewTaskRepository(db)
	applicantRepo := repositories.NewApplicantRepository(db)
	reviewRepo := repositories.NewReviewRepository(db)
	chatRepo := repositories.NewChatRepository(db)
	reportRepo := repositories.NewReportRepository(db)

	// === Services ===
	authService := services.NewAuthService(cfg.Auth.JWTSecret, cfg.TokenTTL())
	emailService := services.NewEmailService(
		cfg.Email.SMTPHost,
		cfg.Email.SMTPPort,
		cfg.Email.SMTPUser,
		cfg.Email.SMTPPassword,
		cfg.Email.FromEmail,
	)
	notifier := services.NewTelegramNotifier(cfg.Telegram.BotToken)

	trustService := services.NewTrustService(userRepo, emailService)
	userService := services.NewUserService(userRepo, emailService, authService)
	categoryService := services.NewCategoryService(categoryRepo)
	taskService := services.NewTaskService(taskRepo, userRepo, trustService, notifier)
	applicantService := services.NewApplicantService(applicantRepo, taskRepo, userRepo, trustService, notifier)
	reviewService := services.NewReviewService(reviewRepo, taskRepo)
	chatService := services.NewChatService(chatRepo, userRepo, trustService)
	reportService := services.NewReportService(reportRepo, userRepo, trustService)

	// === Realtime ===
	hub := realtime.NewChatHub()
	broker := realtime.NewBroker(hub, chatService, userRepo)

	// === Handlers ===
	authHandler := handlers.NewAuthHandler(userService, authService, trustService)
	taskHandler := handlers.NewTaskHandler(taskService, categoryService)
	applicantHandler := handlers.NewApplicantHandler(applicantService)
	reviewHandler := handlers.NewReviewHandler(reviewService)
	chatHandler := handlers.NewChatHandler(chatService, broker)
	moderationHandler := handlers.NewModerationHandler(reportService, trustService)

	// === Gin ===
	router := gin.Default()
	router.Use(gin.Logger())
	router.Use(gin.Recovery())
	router.Use(corsMiddleware())

	// Swagger
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	routes.SetupRoutes(
		router,
		authService,
		trustService,
		authHandler,
		taskHandler,
		applicantHandler,
		reviewHandler,
		chatHandler,
		moderationHandler,
	)

	// === Run ===
	listenAddr := fmt.Sprintf(":%d", cfg.Server.Port)
	log.Printf("server listening on %s", listenAddr)
	if err := router.Run(listenAddr); err != nil {
		log.Fatal("failed to start server: ", err)
	}
}

func corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, PATCH, DELETE, OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Origin, Content-Type, Authorization")
		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}
		c.Next()
	}
}
