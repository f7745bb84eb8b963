package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/bt23mme076-gif/atyant-sub000/internal/handlers"
	"github.com/bt23mme076-gif/atyant-sub000/internal/middleware"
)

func RegisterChatRoutes(r gin.IRouter) {
	auth := middleware.AuthMiddleware(handlers.Store.Users)

	conversations := r.Group("/conversations")
	conversations.Use(auth)
	{
		conversations.GET("", handlers.Conversations)
		conversations.GET("/unread-total", handlers.UnreadTotal)
	}

	messages := r.Group("/messages")
	messages.Use(auth)
	{
		messages.GET("/:partnerId", handlers.MessageHistory)
		messages.POST("", middleware.ChatRateLimit(), handlers.SendMessage)
		messages.POST("/read/:partnerId", handlers.MarkConversationRead)
		messages.DELETE("/:id", handlers.DeleteMessage)
	}
}
