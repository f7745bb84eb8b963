package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/bt23mme076-gif/atyant-sub000/internal/handlers"
	"github.com/bt23mme076-gif/atyant-sub000/internal/middleware"
	"github.com/bt23mme076-gif/atyant-sub000/internal/moderation"
)

func RegisterQuestionRoutes(r gin.IRouter) {
	r.Use(middleware.AuthMiddleware(handlers.Store.Users))
	{
		r.POST("", moderation.Middleware("title", "text"), handlers.CreateQuestion)
		r.GET("/mine", handlers.MyQuestions)
		r.GET("/for-mentor", middleware.MentorMiddleware(), handlers.MentorQuestions)
		r.GET("/:id", handlers.GetQuestion)

		r.POST("/preview-match", handlers.PreviewMatch)
		r.POST("/:id/suggest-mentors", handlers.SuggestMentors)
		r.POST("/:id/route", handlers.RouteQuestion)
		r.POST("/:id/close", handlers.CloseQuestion)
	}
}
