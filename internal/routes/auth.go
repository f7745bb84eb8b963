package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/bt23mme076-gif/atyant-sub000/internal/handlers"
	"github.com/bt23mme076-gif/atyant-sub000/internal/middleware"
)

func RegisterAuthRoutes(r gin.IRouter) {
	r.POST("/register", middleware.AuthRateLimit(), handlers.Register)
	r.POST("/login", middleware.AuthRateLimit(), handlers.Login)
	r.POST("/logout", middleware.AuthMiddleware(handlers.Store.Users), handlers.Logout)

	// Google sign-in: browser redirect flow and SPA ID-token flow.
	r.GET("/google/login", handlers.GoogleLogin)
	r.GET("/google/callback", handlers.GoogleCallback)
	r.POST("/google/token", middleware.AuthRateLimit(), handlers.GoogleToken)
}
