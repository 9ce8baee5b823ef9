package api

import (
	"net/http"

	"formaai/backend/internal/notify"
	"formaai/backend/internal/service"

	"github.com/gin-gonic/gin"
)

func SetupRoutes(
	router *gin.Engine,
	jwtSecret string,
	hub *notify.Hub,
	authService service.AuthService,
	profileService service.ProfileService,
	logService service.LogService,
	planService service.PlanService,
	socialService service.SocialService,
	chatService service.ChatService,
) {

	authHandler := NewAuthHandler(authService, profileService)
	profileHandler := NewProfileHandler(profileService)
	logHandler := NewLogHandler(logService)
	planHandler := NewPlanHandler(planService)
	socialHandler := NewSocialHandler(socialService)
	chatHandler := NewChatHandler(chatService, hub, jwtSecret)

	authMiddleware := AuthMiddleware(jwtSecret)

	router.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong"})
	})

	apiV1 := router.Group("/api/v1")
	{
		authGroup := apiV1.Group("/auth")
		{
			authGroup.POST("/signup", authHandler.Signup)
			authGroup.POST("/login", authHandler.Login)
		}

		// Websocket handshake carries the JWT as a query parameter, so it
		// sits outside the header-based middleware.
		apiV1.GET("/chat/ws", chatHandler.ServeWS)
	}

	protected := apiV1.Group("")
	protected.Use(authMiddleware)
	{
		protected.GET("/auth/me", authHandler.Me)

		// --- Profile Routes ---
		profileGroup := protected.Group("/profile")
		{
			profileGroup.PUT("", profileHandler.UpdateProfile)
			profileGroup.POST("/picture/upload-url", profileHandler.RequestAvatarUploadURL)
			profileGroup.PUT("/picture", profileHandler.ConfirmAvatar)
		}
		protected.GET("/users/username/:username", profileHandler.GetByUsername)

		// --- Progress Log Routes ---
		logGroup := protected.Group("/logs")
		{
			logGroup.POST("", logHandler.CreateLog)
			logGroup.GET("", logHandler.GetLogs)
		}

		// --- Diet Plan Routes ---
		dietGroup := protected.Group("/diet")
		{
			dietGroup.POST("/generate", planHandler.GeneratePlan)
			dietGroup.GET("/current", planHandler.CurrentPlan)
		}

		// --- Social Routes ---
		socialGroup := protected.Group("/social")
		{
			socialGroup.POST("", socialHandler.CreatePost)
			socialGroup.GET("/feed", socialHandler.Feed)
			socialGroup.GET("/posts/user/:userId", socialHandler.PostsByUser)
			socialGroup.GET("/post/:id", socialHandler.GetPost)
			socialGroup.PUT("/post/:id/like", socialHandler.ToggleLike)
			socialGroup.POST("/post/:id/comment", socialHandler.AddComment)
			socialGroup.POST("/upload-url", socialHandler.RequestMediaUploadURL)
			socialGroup.PUT("/follow/:userId", socialHandler.ToggleFollow)
			socialGroup.GET("/users/discover", socialHandler.DiscoverUsers)
		}

		// --- Chat Routes ---
		chatGroup := protected.Group("/chat")
		{
			chatGroup.GET("/messages/:otherUserId", chatHandler.History)
			chatGroup.GET("/conversations", chatHandler.Conversations)
		}
	}
}
