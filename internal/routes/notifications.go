package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/bt23mme076-gif/atyant-sub000/internal/handlers"
	"github.com/bt23mme076-gif/atyant-sub000/internal/middleware"
)

func RegisterNotificationRoutes(r gin.IRouter) {
	r.Use(middleware.AuthMiddleware(handlers.Store.Users))
	{
		r.GET("", handlers.Notifications)
		r.POST("/:id/read", handlers.MarkNotificationRead)
		r.POST("/read-all", handlers.MarkAllNotificationsRead)
	}
}
