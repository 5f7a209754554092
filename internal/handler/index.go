package handler

import (
	"net/http"

	"recommendations/internal/dto"

	"github.com/gin-gonic/gin"
)

const (
	serviceName    = "Recommendation REST API Service"
	serviceVersion = "1.0"
)

// Index godoc
// @Summary Describe the service
// @Tags meta
// @Produce json
// @Success 200 {object} dto.IndexResponse
// @Router / [get]
func Index(c *gin.Context) {
	c.JSON(http.StatusOK, dto.IndexResponse{
		Name:    serviceName,
		Version: serviceVersion,
		Paths: map[string]string{
			"recommendations": "/recommendations",
			"health":          "/health",
			"docs":            "/swagger/index.html",
		},
	})
}
