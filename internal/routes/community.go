package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/bt23mme076-gif/atyant-sub000/internal/handlers"
	"github.com/bt23mme076-gif/atyant-sub000/internal/middleware"
)

func RegisterCommunityRoutes(r gin.IRouter) {
	r.GET("/messages", handlers.CommunityMessages)
	r.POST("/messages", middleware.AuthMiddleware(handlers.Store.Users), middleware.ChatRateLimit(), handlers.PostCommunityMessage)
}
