package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/bt23mme076-gif/atyant-sub000/internal/handlers"
	"github.com/bt23mme076-gif/atyant-sub000/internal/middleware"
	"github.com/bt23mme076-gif/atyant-sub000/internal/moderation"
)

func RegisterAnswerCardRoutes(r gin.IRouter) {
	r.Use(middleware.AuthMiddleware(handlers.Store.Users))
	{
		r.POST("", middleware.MentorMiddleware(), moderation.Middleware("title", "summary"), handlers.CreateAnswerCard)
		r.GET("/question/:questionId", handlers.AnswerCardsByQuestion)
		r.GET("/mentor/:mentorId", handlers.AnswerCardsByMentor)
	}
}
