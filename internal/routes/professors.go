package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/bt23mme076-gif/atyant-sub000/internal/handlers"
)

func RegisterProfessorRoutes(r gin.IRouter) {
	// Public read-only faculty directory.
	r.GET("/iim/professors/:campus", handlers.ProfessorsByCampus)
}
