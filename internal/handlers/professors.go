package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/bt23mme076-gif/atyant-sub000/internal/services"
	"github.com/bt23mme076-gif/atyant-sub000/pkg/logger"
)

// ProfessorsByCampus serves the faculty directory for one campus from the
// Google Sheet, through the Redis cache.
func ProfessorsByCampus(c *gin.Context) {
	campus := c.Param("campus")
	if campus == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Campus required"})
		return
	}

	professors, err := Faculty.Professors(c.Request.Context(), campus)
	if err != nil {
		if errors.Is(err, services.ErrSheetsNotConfigured) {
			c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Faculty directory not configured"})
			return
		}
		logger.Error().Err(err).Str("campus", campus).Msg("Faculty lookup failed")
		c.JSON(http.StatusBadGateway, gin.H{"error": "Faculty directory unavailable"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"professors": professors})
}
