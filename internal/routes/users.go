package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/bt23mme076-gif/atyant-sub000/internal/handlers"
)

func RegisterUserRoutes(r gin.IRouter) {
	// Public profiles for the mentor browse page.
	r.GET("/mentors", handlers.ListMentors)
	r.GET("/:id", handlers.GetUserPublic)
}
