package routes

import (
	"github.com/gin-gonic/gin"

	"etugal/internal/handlers"
	"etugal/internal/middleware"
	"etugal/internal/services"
)

func SetupRoutes(
	r *gin.Engine,
	authService services.AuthService,
	trustService services.TrustService,
	authHandler *handlers.AuthHandler,
	taskHandler *handlers.TaskHandler,
	applicantHandler *handlers.ApplicantHandler,
	reviewHandler *handlers.ReviewHandler,
	chatHandler *handlers.ChatHandler,
	moderationHandler *handlers.ModerationHandler,
) *gin.Engine {

	// ---- public
	r.POST("/signup", authHandler.Signup)
	r.POST("/login", authHandler.Login)

	// websockets carry no Authorization header from browser clients, so the
	// room endpoint stays outside the JWT middleware
	r.GET("/ws/chat/:room_name", chatHandler.ServeWS)

	// ---- protected
	r.Use(middleware.AuthMiddleware(authService))
	r.Use(middleware.ActiveGuard(trustService))

	r.GET("/profile", authHandler.Profile)

	// TASKS
	r.GET("/task/list", taskHandler.ListOpen)
	r.GET("/task/category/list", taskHandler.ListCategories)

	provider := r.Group("/provider")
	{
		provider.POST("/tasks", taskHandler.Create)
		provider.GET("/tasks", taskHandler.ListMine)
		provider.GET("/tasks/:id", taskHandler.GetByID)
		provider.PATCH("/tasks/:id", taskHandler.Patch)
		provider.PATCH("/tasks/:id/patch_performer", taskHandler.PatchPerformer)
		provider.PATCH("/tasks/:id/patch_status", taskHandler.PatchStatus)
		provider.GET("/tasks/:id/applicants", applicantHandler.ListForTask)
		provider.GET("/reviews", reviewHandler.ListAsProvider)
	}

	performer := r.Group("/performer")
	{
		performer.GET("/tasks", taskHandler.ListAssigned)
		performer.PATCH("/tasks/:id/done", taskHandler.MarkDone)
		performer.POST("/tasks/:id/apply", applicantHandler.Apply)
		performer.GET("/applications", applicantHandler.ListMine)
		performer.GET("/reviews", reviewHandler.ListAsPerformer)
	}

	// REVIEWS
	tasks := r.Group("/tasks")
	{
		tasks.POST("/:id/review", reviewHandler.CreateOrUpdate)
		tasks.GET("/:id/review", reviewHandler.Retrieve)
	}

	// CHAT
	chat := r.Group("/chat")
	{
		chat.POST("/sessions", chatHandler.GetOrCreateSession)
		chat.GET("/sessions", chatHandler.ListSessions)
		chat.GET("/sessions/:id/messages", chatHandler.ListMessages)
		chat.GET("/sessions/room/:room_name", chatHandler.SessionByRoomName)
		chat.GET("/users/search", chatHandler.SearchUsers)
	}

	// REPORTS
	r.POST("/reports", moderationHandler.FileReport)

	// MODERATION (admin)
	admin := r.Group("/admin", middleware.RequireAdmin())
	{
		admin.GET("/reports", moderationHandler.ListPending)
		admin.POST("/reports/:id/resolve", moderationHandler.ResolveReport)
		admin.PATCH("/profiles/:id/verification", moderationHandler.SetVerification)
	}

	return r
}
