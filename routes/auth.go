package routes

import (
	"github.com/JhonatanVeri/PeakSport/auth"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// SetupAuthRoutes registers all "/auth/*" endpoints.
func SetupAuthRoutes(r *gin.Engine, _ *gorm.DB) {
	authGroup := r.Group("/auth")
	{
		// Anonymous browsing session for guest carts
		authGroup.POST("/session", auth.CreateSession())
	}
}
