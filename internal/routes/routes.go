// Package routes registers the REST surface, one file per feature group.
package routes

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/bt23mme076-gif/atyant-sub000/internal/middleware"
)

// Register mounts every API group under /api plus the health check.
func Register(r *gin.Engine) {
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := r.Group("/api")
	api.Use(middleware.GeneralRateLimit())
	{
		RegisterAuthRoutes(api.Group("/auth"))
		RegisterProfileRoutes(api.Group("/profile"))
		RegisterChatRoutes(api)
		RegisterQuestionRoutes(api.Group("/questions"))
		RegisterAnswerCardRoutes(api.Group("/answer-cards"))
		RegisterRatingRoutes(api.Group("/ratings"))
		RegisterPaymentRoutes(api.Group("/payment"))
		RegisterCommunityRoutes(api.Group("/community-chat"))
		RegisterProfessorRoutes(api)
		RegisterNotificationRoutes(api.Group("/notifications"))
		RegisterUserRoutes(api.Group("/users"))
	}
}
