package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/bt23mme076-gif/atyant-sub000/internal/handlers"
	"github.com/bt23mme076-gif/atyant-sub000/internal/middleware"
	"github.com/bt23mme076-gif/atyant-sub000/internal/moderation"
)

func RegisterRatingRoutes(r gin.IRouter) {
	r.GET("/mentor/:mentorId/summary", handlers.MentorRatingSummary)
	r.GET("/mentor/:mentorId", handlers.MentorRatings)

	r.POST("", middleware.AuthMiddleware(handlers.Store.Users), moderation.Middleware("comment"), handlers.CreateRating)
}
