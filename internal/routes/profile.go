package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/bt23mme076-gif/atyant-sub000/internal/handlers"
	"github.com/bt23mme076-gif/atyant-sub000/internal/middleware"
	"github.com/bt23mme076-gif/atyant-sub000/internal/moderation"
)

func RegisterProfileRoutes(r gin.IRouter) {
	r.Use(middleware.AuthMiddleware(handlers.Store.Users))
	{
		r.GET("/me", handlers.Me)
		r.PUT("/me", moderation.Middleware("name", "bio", "headline", "awayAutoReply"), handlers.UpdateProfile)
		r.POST("/avatar", handlers.UploadAvatar)
	}
}
